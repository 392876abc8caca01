package extraction

import "fmt"

// Kind classifies request-fatal extraction failures.
type Kind string

const (
	// KindExtractionFailed: the text generator could not be reached or
	// returned nothing usable.
	KindExtractionFailed Kind = "extraction_failed"
	// KindMalformedOutput: the generator answered with text that is not JSON.
	KindMalformedOutput Kind = "malformed_extraction_output"
	// KindSchemaViolation: valid JSON that does not describe an order.
	KindSchemaViolation Kind = "extraction_schema_violation"
)

// Error carries the failure kind, the raw generator output (when there was
// one) and the underlying cause.
type Error struct {
	Kind Kind
	Raw  string
	Err  error
}

func (e *Error) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v (raw: %q)", e.Kind, e.Err, truncate(e.Raw, 512))
}

func (e *Error) Unwrap() error { return e.Err }

// Failed wraps a generator call failure.
func Failed(err error) error {
	return &Error{Kind: KindExtractionFailed, Err: err}
}

// RawSnippet returns the raw generator output cut to at most n bytes.
func (e *Error) RawSnippet(n int) string { return truncate(e.Raw, n) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
