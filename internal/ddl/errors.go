package ddl

import "fmt"

// ParseError reports a statement that has no extractable column block.
type ParseError struct {
	// Msg describes what was expected.
	Msg string
	// Offset is the byte offset in the input, or -1 when not applicable.
	Offset int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offset < 0 {
		return "ddl: " + e.Msg
	}

	return fmt.Sprintf("ddl: %s at offset %d", e.Msg, e.Offset)
}

func errorf(offset int, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Offset: offset}
}
