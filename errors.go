package main

import "fmt"

// SourceError is a diagnostic caused by the program being compiled. It
// carries the 1-based line number where the problem was detected.
type SourceError struct {
	Line int
	Msg  string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%d: %s", e.Line, e.Msg)
}

func errAtf(line int, format string, args ...interface{}) error {
	return &SourceError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// InternalError reports a violated invariant that an upstream pass (the
// parser or the semantic checker) was supposed to guarantee. Unlike a
// SourceError it points at a compiler defect, not a user mistake.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Msg
}

func internalf(format string, args ...interface{}) error {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}
