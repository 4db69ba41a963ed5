package schemacheck

import (
	"errors"
	"strings"
)

var (
	// ErrSchemaMismatch is matched by every *ValidationError.
	ErrSchemaMismatch = errors.New("schemacheck: schema validation failed")

	// ErrIndexNotFound is returned when the index to validate does not exist.
	ErrIndexNotFound = errors.New("schemacheck: index not found")
)

// ValidationError is the single error returned by a failed validation.
// It carries every finding, grouped by location in the order the locations
// were first reported.
type ValidationError struct {
	Index  string
	Groups []FindingGroup

	msgs Messages
}

// Error renders the full report: one intro line per location followed by
// its messages, indented.
func (e *ValidationError) Error() string {
	return ErrSchemaMismatch.Error() + ":" + e.Report()
}

// Report returns the findings formatted as a multi-line text.
func (e *ValidationError) Report() string {
	msgs := e.msgs
	if msgs == nil {
		msgs = DefaultMessages()
	}

	var b strings.Builder
	for _, g := range e.Groups {
		b.WriteString("\n")
		b.WriteString(msgs.ErrorIntro(g.Location))
		for _, m := range g.Messages {
			b.WriteString("\n\t")
			b.WriteString(m)
		}
	}
	return b.String()
}

// Is reports whether target is ErrSchemaMismatch.
func (e *ValidationError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// Findings returns every finding in report order.
func (e *ValidationError) Findings() []Finding {
	var out []Finding
	for _, g := range e.Groups {
		for i, m := range g.Messages {
			out = append(out, Finding{Location: g.Location, Kind: g.Kinds[i], Message: m})
		}
	}
	return out
}
