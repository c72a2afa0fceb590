package render

import "math"

// Mat4 is a column-major 4x4 matrix, stored flat for direct GPU upload.
type Mat4 [16]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix that translates by (x, y, z).
func Translation(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// LookAt builds a right-handed view matrix, mirroring the default camera
// the ephemeral zone seeds each frame: eye (0,0,5) looking at the origin.
func LookAt(eye, center, up [3]float32) Mat4 {
	fx, fy, fz := center[0]-eye[0], center[1]-eye[1], center[2]-eye[2]
	flen := float32(math.Sqrt(float64(fx*fx + fy*fy + fz*fz)))
	if flen == 0 {
		flen = 1
	}
	fx, fy, fz = fx/flen, fy/flen, fz/flen

	sx := fy*up[2] - fz*up[1]
	sy := fz*up[0] - fx*up[2]
	sz := fx*up[1] - fy*up[0]
	slen := float32(math.Sqrt(float64(sx*sx + sy*sy + sz*sz)))
	if slen == 0 {
		slen = 1
	}
	sx, sy, sz = sx/slen, sy/slen, sz/slen

	ux := sy*fz - sz*fy
	uy := sz*fx - sx*fz
	uz := sx*fy - sy*fx

	return Mat4{
		sx, ux, -fx, 0,
		sy, uy, -fy, 0,
		sz, uz, -fz, 0,
		-(sx*eye[0] + sy*eye[1] + sz*eye[2]),
		-(ux*eye[0] + uy*eye[1] + uz*eye[2]),
		fx*eye[0] + fy*eye[1] + fz*eye[2],
		1,
	}
}

// Perspective builds a right-handed perspective projection matrix.
func Perspective(fovYRadians, aspect, near, far float32) Mat4 {
	f := float32(1.0 / math.Tan(float64(fovYRadians)/2))
	m := Mat4{}
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = (2 * far * near) / (near - far)
	return m
}
