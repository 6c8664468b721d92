// internal/tokenerr/errors.go
package tokenerr

import (
	"errors"
	"fmt"
)

// Kind groups program errors by the stage that detects them.
type Kind uint8

const (
	// KindLayout covers account buffer problems: missing, already present
	// or malformed extension data.
	KindLayout Kind = iota + 1
	// KindAuthority covers signer and ownership failures.
	KindAuthority
	// KindDomain covers rejected state transitions.
	KindDomain
	// KindArgument covers malformed caller input.
	KindArgument
)

func (k Kind) String() string {
	switch k {
	case KindLayout:
		return "layout"
	case KindAuthority:
		return "authority"
	case KindDomain:
		return "domain"
	case KindArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// Error is a program error with a stable numeric code.
type Error struct {
	Code uint32
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Msg, e.Code)
}

func newError(code uint32, kind Kind, msg string) *Error {
	return &Error{Code: code, Kind: kind, Msg: msg}
}

var (
	ErrExtensionAlreadyInitialized = newError(1, KindLayout, "extension already initialized on this account")
	ErrExtensionNotFound           = newError(2, KindLayout, "extension not found in account data")
	ErrInvalidAccountData          = newError(3, KindLayout, "invalid account data")
	ErrAlreadyInUse                = newError(4, KindLayout, "mint already initialized")
	ErrUninitializedState          = newError(5, KindLayout, "mint is not initialized")

	ErrNoAuthorityExists        = newError(20, KindAuthority, "no rebase authority exists")
	ErrOwnerMismatch            = newError(21, KindAuthority, "owner does not match")
	ErrMissingRequiredSignature = newError(22, KindAuthority, "missing required signature")
	ErrIncorrectProgramID       = newError(23, KindAuthority, "incorrect program id")

	ErrInvalidSupply = newError(40, KindDomain, "invalid supply")
	ErrOverflow      = newError(41, KindDomain, "operation overflowed")

	ErrInvalidArgument        = newError(60, KindArgument, "invalid argument")
	ErrInvalidInstructionData = newError(61, KindArgument, "invalid instruction data")
	ErrNotEnoughAccountKeys   = newError(62, KindArgument, "not enough account keys")
)

// KindOf returns the kind of the first program error in err's chain.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

// CodeOf returns the numeric code of the first program error in err's chain.
func CodeOf(err error) (uint32, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}
