package geom

import "github.com/chewxy/math32"

// Mat4 is a column-major 4x4 matrix, GLSL layout.
type Mat4 [16]float32

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func Translate(x, y float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, 0, 1,
	}
}

func Scale(sx, sy float32) Mat4 {
	return Mat4{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateZ rotates by a radians; with y pointing down, positive is clockwise on screen.
func RotateZ(a float32) Mat4 {
	c, s := math32.Cos(a), math32.Sin(a)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func Ortho(l, r, b, t, n, f float32) Mat4 {
	rl := 1 / (r - l)
	tb := 1 / (t - b)
	fn := 1 / (f - n)
	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(r + l) * rl, -(t + b) * tb, -(f + n) * fn, 1,
	}
}

// Mul returns a·b, so b is applied first.
func Mul(a, b Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[r+4*c] = a[r]*b[4*c] + a[r+4]*b[4*c+1] + a[r+8]*b[4*c+2] + a[r+12]*b[4*c+3]
		}
	}
	return out
}

// MulAll multiplies left to right: MulAll(a, b, c) == a·b·c.
func MulAll(ms ...Mat4) Mat4 {
	out := Identity()
	for _, m := range ms {
		out = Mul(out, m)
	}
	return out
}

// Apply transforms p as a point (z = 0, w = 1).
func (m Mat4) Apply(p Vector2) Vector2 {
	return Vector2{
		X: m[0]*p.X + m[4]*p.Y + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[13],
	}
}
