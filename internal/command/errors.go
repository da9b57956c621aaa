package command

import (
	"fmt"
	"strings"
)

// ErrorKind classifies why classification of a request failed.
// WrongNumberOfArguments, InvalidArgumentType, InvalidCommandFormat
// and WrongType map onto spec.md §4.2's four CommandError kinds;
// UnknownCommand covers a name Classify does not recognize. WrongType
// is reserved here (never produced by this package — a value-tag
// mismatch can only be discovered once the dataspace is consulted,
// which is the executor's job, not the command model's).
type ErrorKind int

const (
	WrongNumberOfArguments ErrorKind = iota
	InvalidArgumentType
	InvalidCommandFormat
	UnknownCommand
	WrongType
)

// Error is returned by Classify when a request cannot be turned into
// a valid typed command. Name is the original (case-preserved)
// command name, used to build the exact wire message.
type Error struct {
	Kind ErrorKind
	Name string
	Msg  string // set for InvalidCommandFormat variants with custom text
}

func (e *Error) Error() string {
	return e.Message()
}

// Message renders the exact text that belongs after the RESP error
// prefix (-ERR / -WRONGTYPE), per spec.md §7's taxonomy.
func (e *Error) Message() string {
	switch e.Kind {
	case WrongNumberOfArguments:
		return fmt.Sprintf("ERR wrong number of arguments for '%s' command", strings.ToLower(e.Name))
	case InvalidArgumentType:
		return "ERR value is not an integer or out of range"
	case UnknownCommand:
		return fmt.Sprintf("ERR unknown command '%s'", e.Name)
	case WrongType:
		return "WRONGTYPE Operation against a key holding the wrong kind of value"
	case InvalidCommandFormat:
		if e.Msg != "" {
			return e.Msg
		}
		return "ERR invalid command format"
	default:
		return "ERR invalid command format"
	}
}

func errArity(name string) error {
	return &Error{Kind: WrongNumberOfArguments, Name: name}
}

func errArgType(name string) error {
	return &Error{Kind: InvalidArgumentType, Name: name}
}

func errFormat(name, msg string) error {
	return &Error{Kind: InvalidCommandFormat, Name: name, Msg: msg}
}

func errUnknown(name string) error {
	return &Error{Kind: UnknownCommand, Name: name}
}
