// Package camera implements a free-fly camera as pure functions over an
// explicit state value. Orientation is stored as yaw/pitch angles and the
// orthonormal basis is recomputed from them every frame, so no drift can
// accumulate in the basis vectors.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/halverson/go-mapview/pkg/input"
)

// Camera constants
const (
	// PitchEpsilon keeps pitch strictly inside (-π/2, π/2) so the
	// forward vector never aligns with the world up axis.
	PitchEpsilon = 0.01

	// PitchLimit is the largest magnitude pitch may reach.
	PitchLimit = math.Pi/2 - PitchEpsilon

	// Movement and rotation speeds (units/s, rad/s)
	DefaultMoveSpeed   = 10.0
	DefaultRotateSpeed = 1.5
)

// worldUp is the fixed world up axis (Y-up coordinate system).
var worldUp = mgl32.Vec3{0, 1, 0}

// State holds the full camera pose and speeds. It is a value type:
// Advance returns a new State and never mutates its input.
type State struct {
	Position mgl32.Vec3

	// Euler angles in radians. Yaw is kept in [0, 2π), pitch in
	// (-PitchLimit, PitchLimit).
	Yaw   float32
	Pitch float32

	MoveSpeed   float32
	RotateSpeed float32

	// NormalizeDiagonal scales combined directional input back to unit
	// length, so moving diagonally is no faster than moving on one axis.
	NormalizeDiagonal bool
}

// NewState creates a camera at the given position looking along the yaw
// angle, with default speeds.
func NewState(position mgl32.Vec3, yaw, pitch float32) State {
	return State{
		Position:          position,
		Yaw:               WrapYaw(yaw),
		Pitch:             ClampPitch(pitch),
		MoveSpeed:         DefaultMoveSpeed,
		RotateSpeed:       DefaultRotateSpeed,
		NormalizeDiagonal: true,
	}
}

// WrapYaw maps an arbitrary angle into [0, 2π).
func WrapYaw(yaw float32) float32 {
	const twoPi = 2 * math.Pi
	w := math.Mod(float64(yaw), twoPi)
	if w < 0 {
		w += twoPi
	}
	wrapped := float32(w)
	// Values just under 2π can round up to 2π in float32; keep the
	// half-open interval exact.
	if wrapped >= twoPi {
		wrapped -= twoPi
	}
	return wrapped
}

// ClampPitch constrains pitch to (-PitchLimit, PitchLimit).
func ClampPitch(pitch float32) float32 {
	if pitch > PitchLimit {
		return PitchLimit
	}
	if pitch < -PitchLimit {
		return -PitchLimit
	}
	return pitch
}

// Basis derives the orthonormal camera basis from yaw and pitch. The
// right vector is well defined for every pitch ClampPitch can return,
// since forward never reaches the world up axis.
func Basis(yaw, pitch float32) (forward, right, up mgl32.Vec3) {
	sy, cy := math.Sincos(float64(yaw))
	sp, cp := math.Sincos(float64(pitch))

	forward = mgl32.Vec3{
		float32(cp * cy),
		float32(sp),
		float32(cp * sy),
	}.Normalize()

	right = forward.Cross(worldUp).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Advance integrates one frame of input into a new camera state.
// Rotation intents are applied first, then movement is integrated in the
// basis of the updated orientation. A non-positive dt or empty intent
// returns the state unchanged.
func Advance(s State, in input.Intent, dt float32) State {
	if dt <= 0 || !in.Any() {
		return s
	}

	// Rotation
	rot := s.RotateSpeed * dt
	if in.Has(input.RotateRight) {
		s.Yaw += rot
	}
	if in.Has(input.RotateLeft) {
		s.Yaw -= rot
	}
	if in.Has(input.RotateUp) {
		s.Pitch += rot
	}
	if in.Has(input.RotateDown) {
		s.Pitch -= rot
	}
	s.Yaw = WrapYaw(s.Yaw)
	s.Pitch = ClampPitch(s.Pitch)

	// Movement
	forward, right, _ := Basis(s.Yaw, s.Pitch)

	var dir mgl32.Vec3
	if in.Has(input.MoveForward) {
		dir = dir.Add(forward)
	}
	if in.Has(input.MoveBack) {
		dir = dir.Sub(forward)
	}
	if in.Has(input.MoveRight) {
		dir = dir.Add(right)
	}
	if in.Has(input.MoveLeft) {
		dir = dir.Sub(right)
	}
	if in.Has(input.MoveUp) {
		dir = dir.Add(worldUp)
	}
	if in.Has(input.MoveDown) {
		dir = dir.Sub(worldUp)
	}

	if length := dir.Len(); length > 0 {
		if s.NormalizeDiagonal {
			dir = dir.Mul(1 / length)
		}
		s.Position = s.Position.Add(dir.Mul(s.MoveSpeed * dt))
	}

	return s
}

// ViewMatrix builds the world-to-camera transform for the given state.
func ViewMatrix(s State) mgl32.Mat4 {
	forward, _, up := Basis(s.Yaw, s.Pitch)
	return mgl32.LookAtV(s.Position, s.Position.Add(forward), up)
}
