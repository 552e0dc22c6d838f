package chat

import "fmt"

// Defaults applied when an option field is nil.
const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
)

// Options tune one completion request. Nil fields take the defaults.
type Options struct {
	// MaxTokens caps the generated output. Must be >= 1 when set.
	MaxTokens *int
	// Temperature controls randomness. Must be within [0, 1] when set.
	Temperature *float64
}

// Validate rejects out-of-range option values.
func (o Options) Validate() error {
	if o.MaxTokens != nil && *o.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be >= 1")
	}
	if o.Temperature != nil && (*o.Temperature < 0 || *o.Temperature > 1) {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	return nil
}

func (o Options) maxTokens() int {
	if o.MaxTokens != nil {
		return *o.MaxTokens
	}
	return DefaultMaxTokens
}

func (o Options) temperature() float64 {
	if o.Temperature != nil {
		return *o.Temperature
	}
	return DefaultTemperature
}
