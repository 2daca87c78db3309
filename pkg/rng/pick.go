package rng

import (
	"fmt"
	"math"
)

// Option is one candidate in a weighted selection.
//
// Temperature flattens or sharpens the weight distribution: the effective
// weight is Weight^(1/Temperature). A zero Temperature means "no override"
// and is treated as 1.0 (weights used as-is).
type Option struct {
	Value       string
	Weight      float64
	Temperature float64
}

// PickUniform selects one value with equal probability.
// Returns an error if values is empty.
func PickUniform(s *Stream, values []string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("cannot pick from empty value list")
	}
	return values[s.Intn(len(values))], nil
}

// PickWeighted selects one option with probability proportional to its
// effective weight Weight^(1/Temperature).
//
// Every option must have a positive weight and a non-negative temperature;
// the summed effective weight must be positive. Returns an error otherwise -
// callers translate it into their structured-error vocabulary.
func PickWeighted(s *Stream, options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("cannot pick from empty option list")
	}

	effective := make([]float64, len(options))
	total := 0.0
	for i, opt := range options {
		if opt.Weight <= 0 {
			return "", fmt.Errorf("option %q has non-positive weight %v", opt.Value, opt.Weight)
		}
		temp := opt.Temperature
		if temp == 0 {
			temp = 1.0
		}
		if temp < 0 {
			return "", fmt.Errorf("option %q has negative temperature %v", opt.Value, temp)
		}
		effective[i] = math.Pow(opt.Weight, 1.0/temp)
		total += effective[i]
	}
	if total <= 0 {
		return "", fmt.Errorf("summed effective weight is non-positive")
	}

	draw := s.Float64() * total
	for i, w := range effective {
		draw -= w
		if draw < 0 {
			return options[i].Value, nil
		}
	}

	// Float underflow can leave draw at exactly the total; fall back to the
	// last option rather than failing.
	return options[len(options)-1].Value, nil
}
