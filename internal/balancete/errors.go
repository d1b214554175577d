package balancete

import "fmt"

// MissingFieldError is returned when a required preamble field is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("header field %q is missing or empty", e.Field)
}

// MalformedHeaderError is returned when a preamble cell does not match
// its expected pattern. Value carries the offending cell text.
type MalformedHeaderError struct {
	Field string
	Value string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("header field %q is malformed: %q", e.Field, e.Value)
}

// UnknownAccountGroupError aborts the whole parse: an account code whose
// leading digit maps to no accounting group poisons every downstream
// sign and classification decision.
type UnknownAccountGroupError struct {
	Code string
	Row  int // 1-based row in the source file
}

func (e *UnknownAccountGroupError) Error() string {
	return fmt.Sprintf("unknown account group for code %q (row %d): leading digit must be 1..5", e.Code, e.Row)
}

// InvalidGroupError signals a caller passing an out-of-range group
// number to ApplySign. This is a programming error, not a data problem.
type InvalidGroupError struct {
	Group int
}

func (e *InvalidGroupError) Error() string {
	return fmt.Sprintf("invalid accounting group %d (want 1..4)", e.Group)
}

// EmptyLedgerError is returned when no data rows remain between the
// preamble and the grand-total sentinel.
type EmptyLedgerError struct{}

func (e *EmptyLedgerError) Error() string {
	return "balancete has no data rows"
}
