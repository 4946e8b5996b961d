package schema

import "errors"

// Sentinel errors for the schema/codec taxonomy. Callers match with errors.Is;
// the wrapping error carries the program/instruction/field context.
var (
	ErrProgramNotFound     = errors.New("program schema not found")
	ErrInstructionNotFound = errors.New("instruction not found")
	ErrMissingArgument     = errors.New("missing required argument")
	ErrMissingAccount      = errors.New("missing required account")
	ErrUnsupportedType     = errors.New("unsupported field type")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrParse               = errors.New("schema parse error")
)
