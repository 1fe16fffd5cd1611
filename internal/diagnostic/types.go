package diagnostic

import (
	"fmt"
	"strings"

	"colmap/internal/common"
)

// Codes used by colmap.
const (
	CodeNoMatch         = "no_match"
	CodeSemanticMatch   = "semantic_match"
	CodeDuplicateColumn = "duplicate_column"
)

// Diagnostics holds all diagnostic information from one mapping.
type Diagnostics struct {
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity `json:"severity" yaml:"severity"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `json:"code" yaml:"code"`
	// Message is the human-readable description.
	Message string `json:"message" yaml:"message"`
	// Key is the payload key this relates to (if any).
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
	// Suggestions are candidate columns, best first.
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return common.UnknownStr
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, key string, suggestions ...string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity:    SeverityWarning,
		Code:        code,
		Message:     message,
		Key:         key,
		Suggestions: suggestions,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, key string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Key:      key,
	})
}

// Len returns the total number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.Warnings) + len(d.Infos)
}

// All returns warnings, then infos, each in insertion order.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, d.Len())
	all = append(all, d.Warnings...)
	all = append(all, d.Infos...)

	return all
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if d.Key != "" {
		msg = d.Key + ": " + msg
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	return msg
}
