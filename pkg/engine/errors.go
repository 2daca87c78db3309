package engine

import "fmt"

// Stable machine-readable error codes produced by the shared validation
// routine and the dispatch facade. Strategy-specific codes live with their
// strategies; model codes live in pkg/model.
const (
	CodeInvalidConfigType     = "invalid_config_type"
	CodeMissingRequiredKeys   = "missing_required_keys"
	CodeInvalidKeyType        = "invalid_key_type"
	CodeMissingStrategy       = "missing_strategy"
	CodeInvalidStrategyID     = "invalid_strategy_identifier"
	CodeMissingSeed           = "missing_seed"
	CodeInvalidSeedType       = "invalid_seed_type"
	CodeInvalidStreamName     = "invalid_stream_name"
	CodeUnknownStrategy       = "unknown_strategy"
)

// Error is the structured error value used for all generation failures.
//
// It is an immutable value, never thrown: every generation path returns
// either a result string or an *Error, so recursive composition can inspect
// and re-wrap failures without losing the original code. Details holds only
// serializable diagnostic data, never live resource handles.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// NewError creates an Error with the given code and formatted message.
func NewError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns a copy of the error with one extra details entry.
// The receiver is not modified.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

// Detail returns the named details entry, or nil if absent.
func (e *Error) Detail(key string) any {
	if e.Details == nil {
		return nil
	}
	return e.Details[key]
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Map renders the error as a plain map for external tooling and event
// payloads.
func (e *Error) Map() map[string]any {
	m := map[string]any{
		"code":    e.Code,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		details := make(map[string]any, len(e.Details))
		for k, v := range e.Details {
			details[k] = v
		}
		m["details"] = details
	}
	return m
}
