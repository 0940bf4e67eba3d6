package layer

import "math"

// Transform is a 4x4 homogeneous transform in row-vector convention:
//
//	| M11 M12 M13 M14 |
//	| M21 M22 M23 M24 |
//	| M31 M32 M33 M34 |
//	| M41 M42 M43 M44 |
//
// A point p transforms as p' = p * T, so translation lives in row 4 and
// perspective in column 4 (M34).
//
// The zero value is not a valid transform; use Identity.
type Transform struct {
	M [4][4]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{M: [4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// Translation creates a translation transform.
func Translation(tx, ty, tz float64) Transform {
	t := Identity()
	t.M[3][0] = tx
	t.M[3][1] = ty
	t.M[3][2] = tz
	return t
}

// Scaling creates a scale transform.
func Scaling(sx, sy, sz float64) Transform {
	t := Identity()
	t.M[0][0] = sx
	t.M[1][1] = sy
	t.M[2][2] = sz
	return t
}

// RotationY creates a rotation of angle radians around the vertical axis.
func RotationY(angle float64) Transform {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	t := Identity()
	t.M[0][0] = cos
	t.M[0][2] = -sin
	t.M[2][0] = sin
	t.M[2][2] = cos
	return t
}

// Perspective returns the identity with M34 = -1/distance, which places the
// eye at distance along the Z axis for sublayers.
func Perspective(distance float64) Transform {
	t := Identity()
	t.M[2][3] = -1 / distance
	return t
}

// Concat returns t followed by u (t * u).
func (t Transform) Concat(u Transform) Transform {
	var r Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += t.M[i][k] * u.M[k][j]
			}
			r.M[i][j] = sum
		}
	}
	return r
}

// TranslationZ returns the depth component of the translation.
func (t Transform) TranslationZ() float64 {
	return t.M[3][2]
}

// M34 returns the perspective term.
func (t Transform) M34() float64 {
	return t.M[2][3]
}

// IsZero reports whether t is the (invalid) zero value.
func (t Transform) IsZero() bool {
	return t == Transform{}
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// ApproxEqual reports whether every element of t and u differ by at most eps.
func (t Transform) ApproxEqual(u Transform, eps float64) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math.Abs(t.M[i][j]-u.M[i][j]) > eps {
				return false
			}
		}
	}
	return true
}
