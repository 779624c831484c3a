package player

// Config holds movement tuning in world units and seconds.
type Config struct {
	MaxSpeed   float64 // units per second
	Accel      float64 // units per second squared
	Decel      float64
	TurnSpeed  float64 // radians per second
	MaxPitch   float64 // radians
	StepHeight float64 // tallest floor rise that can be walked up
	BodyHeight float64 // lowest opening that can be walked through
	EyeHeight  float64 // above the floor
	FlySpeed   float64 // vertical units per second
	Fly        bool
}

// DefaultConfig returns the tuning used when none is given.
func DefaultConfig() Config {
	return Config{
		MaxSpeed:   120,
		Accel:      360,
		Decel:      240,
		TurnSpeed:  3,
		MaxPitch:   1,
		StepHeight: 16,
		BodyHeight: 48,
		EyeHeight:  32,
		FlySpeed:   60,
	}
}
