package engine

import (
	"fmt"
	"sort"
)

// Kind names the expected type of a config value, for descriptor-driven
// validation and for describing strategies to external tooling.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindMap    Kind = "map"
	KindList   Kind = "list"
)

// Descriptor declares the config surface of a strategy: the keys it requires
// and the expected type of every key it understands. Descriptors are defined
// once per strategy type and used purely for validation and description -
// they have no behavioral effect on generation.
type Descriptor struct {
	Required []string
	Optional map[string]Kind
	Notes    string
}

// ValidateConfig is the shared validation routine every strategy runs before
// doing real work:
//
//  1. a nil config is rejected as invalid_config_type;
//  2. all required keys must be present, else missing_required_keys listing
//     the missing names;
//  3. every key with a declared type that is present must match it, else
//     invalid_key_type naming the key and the expected/received types.
func ValidateConfig(cfg Config, d Descriptor) *Error {
	if cfg == nil {
		return NewError(CodeInvalidConfigType, "config must be a key/value map")
	}

	var missing []string
	for _, key := range d.Required {
		if _, ok := cfg[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return NewError(CodeMissingRequiredKeys, "missing required keys: %v", missing).
			WithDetail("missing", missing)
	}

	// Deterministic check order so the first reported mismatch is stable.
	keys := make([]string, 0, len(d.Optional))
	for key := range d.Optional {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		v, ok := cfg[key]
		if !ok {
			continue
		}
		kind := d.Optional[key]
		if !matchesKind(v, kind) {
			return NewError(CodeInvalidKeyType, "key %q must be %s, got %s", key, kind, kindOf(v)).
				WithDetail("key", key).
				WithDetail("expected", string(kind)).
				WithDetail("received", kindOf(v))
		}
	}

	return nil
}

func matchesKind(v any, kind Kind) bool {
	switch kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInt:
		switch n := v.(type) {
		case int, int64:
			return true
		case float64:
			return n == float64(int(n))
		}
		return false
	case KindFloat:
		switch v.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindMap:
		switch v.(type) {
		case map[string]any, Config:
			return true
		}
		return false
	case KindList:
		_, ok := v.([]any)
		return ok
	}
	return false
}

func kindOf(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64, float32:
		return "float"
	case bool:
		return "bool"
	case map[string]any, Config:
		return "map"
	case []any:
		return "list"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", v)
	}
}
