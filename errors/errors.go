package errors

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-readable failure class. Every public operation
// of the SDK fails with an Error carrying one of these kinds and a message
// fit to relay to an end user verbatim.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnsupportedToken
	KindUnsupportedChain
	KindUnsupportedAsset
	KindConnectionTimeout
	KindInsufficientBalance
	KindUnsupportedTokenKind
	KindNoTransferMethod
	KindDispatchFailure
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnsupportedToken:
		return "unsupported_token"
	case KindUnsupportedChain:
		return "unsupported_chain"
	case KindUnsupportedAsset:
		return "unsupported_asset"
	case KindConnectionTimeout:
		return "connection_timeout"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindUnsupportedTokenKind:
		return "unsupported_token_kind"
	case KindNoTransferMethod:
		return "no_transfer_method"
	case KindDispatchFailure:
		return "dispatch_failure"
	case KindInvalidInput:
		return "invalid_input"
	}
	return "unknown"
}

// Error is a typed SDK error with a stable kind and a human-readable
// message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// KindOf classifies any error, mapping untyped ones to KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if sdkErr, ok := As(err); ok {
		return sdkErr.Kind
	}
	return KindUnknown
}
