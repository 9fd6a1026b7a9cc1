// Package cdperr defines the CDP codec's error taxonomy: a small set of
// kinds the wire, cdp, and neighbor packages wrap their failures in, so
// callers can branch on category with errors.Is/errors.As rather than
// string matching.
package cdperr

import (
	"errors"
	"fmt"
)

// Kind classifies a codec or table failure.
type Kind string

const (
	// KindBufferExhaustion marks a read or write that would cross the
	// buffer boundary.
	KindBufferExhaustion Kind = "buffer-exhaustion"
	// KindMalformedTLV marks a known TLV whose sub-structure violates
	// its encoding (bad address family, bad prefix length, VLAN out of
	// range, wrong cluster-management OUI, and so on).
	KindMalformedTLV Kind = "malformed-tlv"
	// KindProtocolRequirement marks an unsupported version, or
	// serializing a v2 frame with duplex unset.
	KindProtocolRequirement Kind = "protocol-requirement"
	// KindChecksumMismatch marks a frame whose checksum does not
	// validate.
	KindChecksumMismatch Kind = "checksum-mismatch"
	// KindAllocationFailure marks storage for a decoded attribute that
	// could not be obtained.
	KindAllocationFailure Kind = "allocation-failure"
	// KindShutdown marks a table operation refused because the engine
	// is stopping.
	KindShutdown Kind = "lock-contention-shutdown"
)

// Error is a codec or neighbor-table failure tagged with a Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cdp: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("cdp: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, or a bare
// Kind equal to this error's Kind, so callers can write
// errors.Is(err, cdperr.New(cdperr.KindMalformedTLV, "", nil)) or, more
// idiomatically, errors.Is(err, cdperr.KindMalformedTLV).
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an Error. op names the operation that failed
// (e.g. "wire.Reader.Get16", "cdp.Parse", "neighbor.Table.Reap").
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds an Error with a formatted message wrapped as its cause.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Error makes a bare Kind value an error, so it can be used directly as
// an errors.Is target: errors.Is(err, cdperr.KindMalformedTLV).
func (k Kind) Error() string { return string(k) }

// Is reports whether err is or wraps an *Error of kind k.
func (k Kind) Is(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == k
}
