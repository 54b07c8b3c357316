package compiler

import (
	"errors"
	"fmt"
)

// Sentinel errors for the compiler package.
var (
	// ErrNoTypeface is returned when Params has no typeface.
	ErrNoTypeface = errors.New("compiler: no typeface")

	// ErrNoFaces is returned when a typeface holds no font data.
	ErrNoFaces = errors.New("compiler: typeface has no faces")

	// ErrFontNotFound is returned by FromName when no installed font matches.
	ErrFontNotFound = errors.New("compiler: font not found")
)

// RangeError reports a parameter outside its accepted values.
type RangeError struct {
	// Param names the offending parameter, e.g. "weight".
	Param string
	// Message describes the accepted values and the value found.
	Message string
}

func (e *RangeError) Error() string {
	return "compiler: " + e.Param + ": " + e.Message
}

func betweenError(param string, lo, hi, v int) *RangeError {
	return &RangeError{
		Param:   param,
		Message: fmt.Sprintf("expected number between `%d` and `%d`, found `%d`", lo, hi, v),
	}
}

// SourceSyntaxError reports a character source that cannot be parsed.
type SourceSyntaxError struct {
	Input   string
	Message string
}

func (e *SourceSyntaxError) Error() string {
	return fmt.Sprintf("compiler: source %q: %s", e.Input, e.Message)
}
