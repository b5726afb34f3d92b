// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bchscript

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of script error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInternal is returned if internal consistency checks fail.  In
	// practice this error should never be seen as it would mean there is an
	// error in the package.
	ErrInternal ErrorCode = iota

	// ErrMalformedNumber is returned when a script number is not encoded
	// with the minimal number of bytes and minimal encoding was requested.
	ErrMalformedNumber

	// ErrNumberTooBig is returned when the argument for an opcode that
	// expects numeric input is larger than the expected maximum number of
	// bytes.
	ErrNumberTooBig

	// ErrMalformedPush is returned when a data push opcode tries to push
	// more bytes than are left in the script.
	ErrMalformedPush

	// ErrMissingInputAmount is returned when a signature preimage is
	// requested for an input whose spent output is unknown.
	ErrMissingInputAmount

	// ErrInvalidIndex is returned when an input index is out of range for
	// the transaction being hashed.
	ErrInvalidIndex

	// ErrUnsupportedSigHash is returned for signature hash types other
	// than ALL, optionally combined with FORKID and ANYONECANPAY.
	ErrUnsupportedSigHash

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:           "ErrInternal",
	ErrMalformedNumber:    "ErrMalformedNumber",
	ErrNumberTooBig:       "ErrNumberTooBig",
	ErrMalformedPush:      "ErrMalformedPush",
	ErrMissingInputAmount: "ErrMissingInputAmount",
	ErrInvalidIndex:       "ErrInvalidIndex",
	ErrUnsupportedSigHash: "ErrUnsupportedSigHash",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error implements the error interface so an ErrorCode can be used as the
// target of errors.Is.
func (e ErrorCode) Error() string {
	return e.String()
}

// Error identifies a script-related error.  The caller can use type
// assertions or errors.Is against an ErrorCode to access the specific kind.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying error code so errors.Is can match on it.
func (e Error) Unwrap() error {
	return e.ErrorCode
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a script error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var serr Error
	return errors.As(err, &serr) && serr.ErrorCode == c
}
