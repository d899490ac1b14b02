package math32

// Matrix3 is a row-major 3x3 matrix, the layout PackFileReader's
// matrix3x3 typed reader produces.
type Matrix3 [9]float32

// Matrix4 is a column-major 4x4 matrix, the layout glTF's
// node.matrix and IMF's Matrix transform both use.
type Matrix4 [16]float32

// Identity4 returns the column-major identity matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// ComposeLinearTranslation assembles a column-major 4x4 matrix from a
// row-major 3x3 linear part and a translation:
//
//	m11 m21 m31 0  m12 m22 m32 0  m13 m23 m33 0  tx ty tz 1
func ComposeLinearTranslation(linear Matrix3, t Vector3) Matrix4 {
	return Matrix4{
		linear[0], linear[3], linear[6], 0,
		linear[1], linear[4], linear[7], 0,
		linear[2], linear[5], linear[8], 0,
		t.X, t.Y, t.Z, 1,
	}
}

// ComposeTRS assembles a column-major 4x4 matrix from translation,
// rotation and scale, applied scale-then-rotate-then-translate as
// glTF's TRS composition rule specifies.
func ComposeTRS(t Vector3, r Quaternion, s Vector3) Matrix4 {
	rm := r.ToMatrix3()
	return Matrix4{
		rm[0] * s.X, rm[3] * s.X, rm[6] * s.X, 0,
		rm[1] * s.Y, rm[4] * s.Y, rm[7] * s.Y, 0,
		rm[2] * s.Z, rm[5] * s.Z, rm[8] * s.Z, 0,
		t.X, t.Y, t.Z, 1,
	}
}

// Multiply returns m * other in column-major composition (m applied
// after other).
func (m Matrix4) Multiply(other Matrix4) Matrix4 {
	var out Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}
