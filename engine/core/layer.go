package core

type Layer interface {
	OnAttach(e *Engine)
	OnDetach(e *Engine)
	OnUpdate(e *Engine, dt float64)
	OnRender(e *Engine, alpha float64)
	OnEvent(e *Engine, ev Event) bool // return true if handled; propagation stops
}

type LayerStack struct{ list []Layer }

func (ls *LayerStack) Push(l Layer) { ls.list = append(ls.list, l) }
func (ls *LayerStack) Pop() (Layer, bool) {
	if len(ls.list) == 0 {
		return nil, false
	}
	i := len(ls.list) - 1
	l := ls.list[i]
	ls.list = ls.list[:i]
	return l, true
}

func (ls *LayerStack) Len() int { return len(ls.list) }

// ForEach visits layers bottom to top.
func (ls *LayerStack) ForEach(f func(Layer)) {
	for _, l := range ls.list {
		f(l)
	}
}

// ForEachReverse visits layers top to bottom until f returns true.
func (ls *LayerStack) ForEachReverse(f func(Layer) bool) {
	for i := len(ls.list) - 1; i >= 0; i-- {
		if stop := f(ls.list[i]); stop {
			break
		}
	}
}

// LayerApp is an App that forwards every hook to the engine's layers:
// updates and renders bottom to top, events top to bottom.
type LayerApp struct {
	// Layers are pushed in order on start.
	Layers []Layer
}

func (a *LayerApp) OnStart(e *Engine) {
	for _, l := range a.Layers {
		e.Layers.Push(l)
		l.OnAttach(e)
	}
}

func (a *LayerApp) OnUpdate(e *Engine, dt float64) {
	e.Layers.ForEach(func(l Layer) { l.OnUpdate(e, dt) })
}

func (a *LayerApp) OnRender(e *Engine, alpha float64) {
	e.Layers.ForEach(func(l Layer) { l.OnRender(e, alpha) })
}

func (a *LayerApp) OnEvent(e *Engine, ev Event) {
	e.Layers.ForEachReverse(func(l Layer) bool { return l.OnEvent(e, ev) })
}

func (a *LayerApp) OnShutdown(e *Engine) {
	for {
		l, ok := e.Layers.Pop()
		if !ok {
			return
		}
		l.OnDetach(e)
	}
}
