package sav

import "fmt"

// Kind classifies a sav error. It plays the same role as
// github.com/grailbio/base/errors.Kind but names failure modes specific to
// this format rather than grailbio/base's generic I/O taxonomy.
type Kind int

// The error kinds a reader or writer can surface.
const (
	// TruncatedRecord: a declared length exceeds available bytes.
	TruncatedRecord Kind = iota + 1
	// CorruptHeader: header magic, lengths, or VCF-grammar constraints
	// violated.
	CorruptHeader
	// UnknownTypeCode: typed-value type field outside {1..8}.
	UnknownTypeCode
	// UnknownDictionaryKey: record references a code not in the parsed
	// dictionary.
	UnknownDictionaryKey
	// PbwtLengthMismatch: a PBWT-tracked FORMAT field changed effective
	// length without a reset.
	PbwtLengthMismatch
	// NarrowingLoss: a conversion would alias a non-missing value to the
	// destination's missing sentinel.
	NarrowingLoss
	// IndexOverflow: record-count or file-offset exceeds the S1R packing
	// limits.
	IndexOverflow
	// SampleSubsetEmpty: a requested subset intersected no samples; the
	// read still succeeds, but a warning is logged once.
	SampleSubsetEmpty
	// Io: any underlying stream error.
	Io
)

func (k Kind) String() string {
	switch k {
	case TruncatedRecord:
		return "truncated record"
	case CorruptHeader:
		return "corrupt header"
	case UnknownTypeCode:
		return "unknown type code"
	case UnknownDictionaryKey:
		return "unknown dictionary key"
	case PbwtLengthMismatch:
		return "pbwt length mismatch"
	case NarrowingLoss:
		return "narrowing loss"
	case IndexOverflow:
		return "index overflow"
	case SampleSubsetEmpty:
		return "sample subset empty"
	case Io:
		return "io error"
	default:
		return "unknown error kind"
	}
}

// Error is a sav failure tagged with its Kind, the error value the
// public read/write entry points return.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // underlying cause, if any; may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sav: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("sav: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// wrap builds an *Error of kind k, with msg as the human-readable context
// and err as the optional underlying cause.
func wrap(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}
