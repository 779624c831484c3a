package buildmap

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Fixed is a scaled integer coordinate as stored in MAP files.
// One world unit is FixedScale raw units.
type Fixed int32

const (
	FixedShift = 4
	FixedScale = 1 << FixedShift
)

// Float converts to world units. Only the projector and the movement code
// should need this; parsing and storage stay in raw units.
func (f Fixed) Float() float64 {
	return float64(f) / FixedScale
}

// ToFixed converts a world-unit value to Fixed, rounding to nearest.
func ToFixed[T constraints.Integer | constraints.Float](v T) Fixed {
	return Fixed(math.Round(float64(v) * FixedScale))
}

// AngleUnits is the number of engine angle units in a full turn.
const AngleUnits = 2048

// AngleToRadians converts engine angle units to radians. Unit 0 faces +x and
// angles grow counter-clockwise, so 512 faces +y.
func AngleToRadians[T constraints.Signed](a T) float64 {
	return float64(int64(a)&(AngleUnits-1)) * (2 * math.Pi / AngleUnits)
}

// RadiansToAngle is the inverse of AngleToRadians, normalised to [0, AngleUnits).
func RadiansToAngle(r float64) int16 {
	a := int64(math.Round(r*AngleUnits/(2*math.Pi))) & (AngleUnits - 1)
	return int16(a)
}
