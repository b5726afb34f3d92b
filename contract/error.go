// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of contract error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidContract is returned when the parameters of a contract are
	// malformed.  It is raised by the constructors before any script bytes
	// are emitted.
	ErrInvalidContract ErrorCode = iota

	// ErrUnrecognizedScript is returned when a script does not contain the
	// opcode pattern of the contract it is being parsed as.
	ErrUnrecognizedScript

	// ErrInvalidMessage is returned when an oracle message cannot be
	// encoded or decoded.
	ErrInvalidMessage

	// ErrScriptBuild is returned when the script builder rejects a
	// contract, usually because a push or the script exceeds consensus
	// size limits.
	ErrScriptBuild

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidContract:    "ErrInvalidContract",
	ErrUnrecognizedScript: "ErrUnrecognizedScript",
	ErrInvalidMessage:     "ErrInvalidMessage",
	ErrScriptBuild:        "ErrScriptBuild",
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

// Error identifies a contract-related error.
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

// contractError creates an Error given a set of arguments.
func contractError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a contract error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var cerr Error
	return errors.As(err, &cerr) && cerr.ErrorCode == c
}
