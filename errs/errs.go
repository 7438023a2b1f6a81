// Package errs is the error taxonomy of the engine: three kinds of
// failure a caller needs to tell apart -- bad ingestion input (fatal,
// startup only), a bad query (surfaced to the caller, not fatal), and
// an internal invariant violation (logged, the offending record
// dropped, the caller unaffected). Tagged-struct errors here follow the
// same shape as parse/fixedwidth.Error rather than a family of
// interface implementations: the set of failure kinds is closed.
package errs

import "fmt"

// QueryErrorKind distinguishes the ways a routing query can fail
// without that being a bug.
type QueryErrorKind int

const (
	UnknownStop QueryErrorKind = iota
	DateOutOfRange
	NoSolution
)

func (k QueryErrorKind) String() string {
	switch k {
	case UnknownStop:
		return "unknown stop"
	case DateOutOfRange:
		return "date out of range"
	case NoSolution:
		return "no solution"
	default:
		return "query error"
	}
}

// QueryError is returned by routing.Plan and routing.Reachability: the
// request was well-formed but could not be satisfied. Not fatal --
// callers surface it to the user rather than aborting a process.
type QueryError struct {
	Kind   QueryErrorKind
	Detail string
}

func (e *QueryError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// IngestErrorKind distinguishes the ways reading an HRDF directory can
// fail. Every kind is fatal at startup -- ingestion
// either succeeds completely or the process exits.
type IngestErrorKind int

const (
	FileMissing IngestErrorKind = iota
	UnknownRowKind
	BadField
	UnknownReference
)

func (k IngestErrorKind) String() string {
	switch k {
	case FileMissing:
		return "file missing"
	case UnknownRowKind:
		return "unknown row kind"
	case BadField:
		return "bad field"
	case UnknownReference:
		return "unknown reference"
	default:
		return "ingest error"
	}
}

// IngestError wraps a fatal ingestion failure with the file and, where
// known, the foreign id that could not be resolved.
type IngestError struct {
	File   string
	Kind   IngestErrorKind
	Detail string
	Err    error
}

func (e *IngestError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.File, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IngestError) Unwrap() error { return e.Err }

// InternalError marks an invariant violation caught mid-operation (a
// route with fewer than two entries, a section referring to a stop the
// store doesn't hold). These are logged with context and
// the offending record is dropped; the operation they were found in
// continues rather than aborting.
type InternalError struct {
	Context string
	Detail  string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal: %s: %s", e.Context, e.Detail)
}
