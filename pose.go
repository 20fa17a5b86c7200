package arface

import "github.com/chewxy/math32"

// Vec3 is a position or direction in world space.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns v with unit length. The zero vector is returned unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Quat is a rotation quaternion (X, Y, Z imaginary parts, W real part).
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat returns the no-rotation quaternion.
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// Normalized returns q with unit norm. A zero quaternion normalizes to identity.
func (q Quat) Normalized() Quat {
	n := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if n == 0 {
		return IdentityQuat()
	}
	inv := 1 / n
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	// t = 2 * (q.xyz × v); v' = v + w*t + q.xyz × t
	im := Vec3{q.X, q.Y, q.Z}
	t := im.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(im.Cross(t))
}

// Pose is a rigid transform: a rotation followed by a translation.
// The perception subsystem reports one per tracked face, in world space.
type Pose struct {
	Position Vec3
	Rotation Quat
}

// IdentityPose returns the pose at the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rotation: IdentityQuat()}
}

// TransformPoint maps a point from pose-local space to world space.
func (p Pose) TransformPoint(v Vec3) Vec3 {
	return p.Rotation.Rotate(v).Add(p.Position)
}
