package engine

// Config is one generation request: a string-keyed mapping carrying the
// strategy identifier, a seed or stream override, and strategy-specific
// parameters.
//
// A Config is immutable per invocation by convention: the facade hands each
// strategy a private clone, and strategies clone again before mutating for
// recursive calls.
type Config map[string]any

// Clone returns a deep copy of the config. Nested maps and lists are copied;
// scalar values are shared (they are immutable in practice).
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	clone := make(Config, len(c))
	for k, v := range c {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, nested := range val {
			m[k] = cloneValue(nested)
		}
		return m
	case Config:
		return map[string]any(val.Clone())
	case []any:
		list := make([]any, len(val))
		for i, nested := range val {
			list[i] = cloneValue(nested)
		}
		return list
	default:
		return v
	}
}

// String returns the named value if present and a string.
func (c Config) String(key string) (string, bool) {
	v, ok := c[key].(string)
	return v, ok
}

// Int returns the named value if present and integer-valued. Plain ints,
// int64s, and integral float64s (as produced by JSON decoding) all qualify.
func (c Config) Int(key string) (int, bool) {
	switch v := c[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// Map returns the named value if present and a string-keyed map.
func (c Config) Map(key string) (map[string]any, bool) {
	switch v := c[key].(type) {
	case map[string]any:
		return v, true
	case Config:
		return v, true
	}
	return nil, false
}

// List returns the named value if present and a list.
func (c Config) List(key string) ([]any, bool) {
	v, ok := c[key].([]any)
	return v, ok
}
