package rewrite

import (
	"errors"
	"fmt"

	"dpi.adpollak.net/internal/chunk"
	"dpi.adpollak.net/internal/phys"
)

// Kind classifies why a rewrite failed. The set is closed; every error
// returned by this package is an *Error carrying one of these kinds.
type Kind int

const (
	// MalformedInput: the stream does not start like a PNG datastream.
	MalformedInput Kind = iota + 1
	// TruncatedChunk: the stream ended inside a chunk.
	TruncatedChunk
	// IoFailure: the source or the sink returned an error.
	IoFailure
	// InvalidDensity: the requested DPI cannot be stored. Reported before
	// any byte is read.
	InvalidDensity
)

func (k Kind) String() string {
	switch k {
	case MalformedInput:
		return "malformed input"
	case TruncatedChunk:
		return "truncated chunk"
	case IoFailure:
		return "i/o failure"
	case InvalidDensity:
		return "invalid density"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the error type of the rewriter.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrMalformedInput = &Error{Kind: MalformedInput}
	ErrTruncatedChunk = &Error{Kind: TruncatedChunk}
	ErrIoFailure      = &Error{Kind: IoFailure}
	ErrInvalidDensity = &Error{Kind: InvalidDensity}
)

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// classify wraps an error from the chunk or phys layer into an *Error.
func classify(op string, err error) error {
	kind := IoFailure
	switch {
	case errors.Is(err, chunk.ErrShortSignature),
		errors.Is(err, chunk.ErrBadSignature),
		errors.Is(err, chunk.ErrLengthOverflow):
		kind = MalformedInput
	case errors.Is(err, chunk.ErrTruncated):
		kind = TruncatedChunk
	case errors.Is(err, phys.ErrInvalidDPI):
		kind = InvalidDensity
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
