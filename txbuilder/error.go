// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidIndex is returned when an input or output index is out of
	// range for the transaction.
	ErrInvalidIndex ErrorCode = iota

	// ErrMissingPrevOut is returned when the output spent by an input is
	// unknown to the transaction.
	ErrMissingPrevOut

	// ErrInvalidAmount is returned when an output amount is negative or
	// the inputs cannot cover the requested outputs and fee.
	ErrInvalidAmount

	// ErrWrongNetwork is returned when an address does not belong to the
	// network the builder is configured for.
	ErrWrongNetwork

	// ErrInvalidLockTime is returned when a lock time height is negative
	// or would be interpreted as a timestamp.
	ErrInvalidLockTime

	// ErrSigning is returned when an input could not be signed, either
	// because the signature hash could not be computed or because the
	// signer failed.
	ErrSigning

	// ErrMergePrecondition is returned when funding transactions cannot be
	// merged: an input was not signed with SIGHASH_ANYONECANPAY, a
	// transaction other than the first has more than one input, or the
	// transactions disagree on their outputs.
	ErrMergePrecondition

	// ErrVerificationFailed is returned when the interpreter rejects an
	// input.  The interpreter error is wrapped.
	ErrVerificationFailed

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidIndex:       "ErrInvalidIndex",
	ErrMissingPrevOut:     "ErrMissingPrevOut",
	ErrInvalidAmount:      "ErrInvalidAmount",
	ErrWrongNetwork:       "ErrWrongNetwork",
	ErrInvalidLockTime:    "ErrInvalidLockTime",
	ErrSigning:            "ErrSigning",
	ErrMergePrecondition:  "ErrMergePrecondition",
	ErrVerificationFailed: "ErrVerificationFailed",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error implements the error interface so the code can be used with
// errors.Is.
func (e ErrorCode) Error() string {
	return e.String()
}

// Error identifies a transaction building error.  Err holds the underlying
// cause, if any, such as the interpreter error of a failed verification.
type Error struct {
	ErrorCode   ErrorCode
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the error code and the cause so errors.Is and errors.As can
// match either.
func (e Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.ErrorCode, e.Err}
	}
	return []error{e.ErrorCode}
}

// txError creates an Error given a set of arguments.
func txError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether or not the provided error is a transaction
// building error with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var terr Error
	return errors.As(err, &terr) && terr.ErrorCode == c
}
