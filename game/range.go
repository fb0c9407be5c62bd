package game

import "math"

// FlatRange returns the horizontal distance a shot covers before returning to
// its launch height, ignoring wind.
// Formula: v² · sin(2θ) / g with v = power · PowerScale
func FlatRange(angle, power float64) float64 {
	speed := power * PowerScale
	return speed * speed * math.Sin(2*angle*math.Pi/180) / Gravity
}

// MaxFlatRange returns the farthest flat-ground shot at full power (45°)
func MaxFlatRange() float64 {
	return FlatRange(45, MaxPower)
}

// PowerForRange inverts FlatRange: the power needed to cover dist at angle.
// Angles with no horizontal reach return MaxPower.
func PowerForRange(angle, dist float64) float64 {
	s := math.Sin(2 * angle * math.Pi / 180)
	if s <= 0 || dist <= 0 {
		if dist <= 0 {
			return MinPower
		}
		return MaxPower
	}
	speed := math.Sqrt(dist * Gravity / s)
	return ClampPower(speed / PowerScale)
}
