package models

// Shock is an ephemeral stimulation command. It is never persisted;
// numeric fields are clamped, not rejected, at the validation boundary.
type Shock struct {
	Name      *string `json:"name"`
	Intensity int     `json:"intensity"`
	Duration  int     `json:"duration"`
	RampTime  int     `json:"rampTime"`
	Frequency *int    `json:"frequency"`
}

const (
	MinIntensity = 0
	MaxIntensity = 100
	MinFrequency = 10
	MaxFrequency = 100
)

// NullShock is the panic/halt command: everything zeroed, frequency
// omitted.
func NullShock() Shock {
	return Shock{Intensity: 0, Duration: 0, RampTime: 0, Frequency: nil}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp forces every numeric field into its declared range. Frequency
// stays nil when unset, meaning the device default is used.
func (s *Shock) Clamp() {
	s.Intensity = clampInt(s.Intensity, MinIntensity, MaxIntensity)
	if s.Duration < 0 {
		s.Duration = 0
	}
	if s.RampTime < 0 {
		s.RampTime = 0
	}
	if s.Frequency != nil {
		f := clampInt(*s.Frequency, MinFrequency, MaxFrequency)
		s.Frequency = &f
	}
}
