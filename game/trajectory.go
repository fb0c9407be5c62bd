package game

import "math"

// Trail is a bounded ring of past positions. A limit of zero keeps every point.
type Trail struct {
	points []Point
	start  int
	limit  int
}

func newTrail(limit int) Trail {
	return Trail{limit: limit}
}

// Push records p, dropping the oldest point once the limit is reached
func (t *Trail) Push(p Point) {
	if t.limit <= 0 || len(t.points) < t.limit {
		t.points = append(t.points, p)
		return
	}
	t.points[t.start] = p
	t.start = (t.start + 1) % t.limit
}

// Len returns the number of recorded points
func (t *Trail) Len() int {
	return len(t.points)
}

// Points returns the recorded positions, oldest first
func (t *Trail) Points() []Point {
	out := make([]Point, 0, len(t.points))
	out = append(out, t.points[t.start:]...)
	out = append(out, t.points[:t.start]...)
	return out
}

// Integrate advances p by dt with semi-implicit Euler under wind and gravity:
// velocity is updated first and the new velocity moves the position.
// The pre-step position is appended to the trail.
func Integrate(p *Projectile, wind, dt float64) {
	p.trail.Push(Point{X: p.X, Y: p.Y})
	p.prevVY = p.VY
	p.VX += wind * dt
	p.VY += Gravity * dt
	p.X += p.VX * dt
	p.Y += p.VY * dt
}

// LaunchVelocity converts an aim into a velocity. Angles are in degrees with
// 90 pointing straight up; y grows downward.
func LaunchVelocity(angle, power float64) (vx, vy float64) {
	rad := angle * math.Pi / 180
	speed := power * PowerScale
	return speed * math.Cos(rad), -speed * math.Sin(rad)
}

// ClampAngle keeps an aim angle within [MinAngle, MaxAngle]
func ClampAngle(angle float64) float64 {
	if math.IsNaN(angle) {
		return MinAngle
	}
	return clamp(angle, MinAngle, MaxAngle)
}

// ClampPower keeps aiming power within [MinPower, MaxPower]
func ClampPower(power float64) float64 {
	if math.IsNaN(power) {
		return MinPower
	}
	return clamp(power, MinPower, MaxPower)
}
