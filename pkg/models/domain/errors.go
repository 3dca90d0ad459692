package domain

import "fmt"

// FetchError reports a transport failure before any parsing happened. A run
// hitting one still produces a report, built from a single FATAL result.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that could not be turned into a document
// tree. It is surfaced to individual checks, not to the whole run: checks that
// never touch the document (status code, headers) keep working.
type ParseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.URL, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RecorderError reports a persistence failure while recording a report. The
// write is transactional per target, so prior state stays intact.
type RecorderError struct {
	URL string
	Err error
}

func (e *RecorderError) Error() string {
	return fmt.Sprintf("record report for %s: %v", e.URL, e.Err)
}

func (e *RecorderError) Unwrap() error {
	return e.Err
}

// PlanningError reports a failure during the cleaning or dispatch phase of a
// bulk sweep. The sweep aborts before any job runs and the error is surfaced
// to the caller.
type PlanningError struct {
	Class string
	Phase string
	Err   error
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("sweep %s: %s: %v", e.Class, e.Phase, e.Err)
}

func (e *PlanningError) Unwrap() error {
	return e.Err
}
