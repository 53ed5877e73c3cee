// Copyright 2020 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package consdiff

import "fmt"

// Kind identifies the category of a codec failure, letting callers branch
// on failure type without string matching.
type Kind string

const (
	MalformedHeader      Kind = "MalformedHeader"
	BadDigestFormat      Kind = "BadDigestFormat"
	BaseDigestMismatch   Kind = "BaseDigestMismatch"
	ResultDigestMismatch Kind = "ResultDigestMismatch"
	BadEdCommand         Kind = "BadEdCommand"
	IllegalAddedLine     Kind = "IllegalAddedLine"
	UnsortedRouters      Kind = "UnsortedRouters"
	BlockTooLarge        Kind = "BlockTooLarge"
	SelfCheckFailed      Kind = "SelfCheckFailed"
)

// Error is the error type returned by every operation in this package.
type Error struct {
	kind Kind
	err  error
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, err: fmt.Errorf(format, args...)}
}

// Kind returns the category of this failure.
func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Error() string {
	return fmt.Sprintf("consdiff: %s: %v", e.kind, e.err)
}

func (e *Error) Unwrap() error { return e.err }
