// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of script execution error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInternal is returned if internal consistency checks fail.  In
	// practice this error should never be seen as it would mean there is an
	// error in the engine.
	ErrInternal ErrorCode = iota

	// ---------------------------------------
	// Failures related to improper API usage.
	// ---------------------------------------

	// ErrInvalidFlags is returned when the passed flags to NewEngine
	// contain an invalid combination.
	ErrInvalidFlags

	// ErrInvalidIndex is returned when an out-of-bounds index is passed to
	// a function.
	ErrInvalidIndex

	// ErrMissingInputAmount is returned when the amount spent by the input
	// being verified cannot be looked up.
	ErrMissingInputAmount

	// -----------------------------------------
	// Failures related to final execution state.
	// -----------------------------------------

	// ErrEarlyReturn is returned when OP_RETURN is executed in the script.
	ErrEarlyReturn

	// ErrEmptyStack is returned when the script evaluated without error,
	// but terminated with an empty top stack element.
	ErrEmptyStack

	// ErrEvalFalse is returned when the script evaluated without error but
	// terminated with a false top stack element.
	ErrEvalFalse

	// ErrScriptUnfinished is returned when CheckErrorCondition is called on
	// a script that has not finished executing.
	ErrScriptUnfinished

	// ErrInvalidProgramCounter is returned when an attempt to execute an
	// opcode is made once all of them have already been executed.
	ErrInvalidProgramCounter

	// -----------------------------------------------------
	// Failures related to exceeding maximum allowed limits.
	// -----------------------------------------------------

	// ErrScriptTooBig is returned if a script is larger than MaxScriptSize.
	ErrScriptTooBig

	// ErrElementTooBig is returned if the size of an element to be pushed
	// to the stack is over MaxScriptElementSize.
	ErrElementTooBig

	// ErrTooManyOperations is returned if a script has more than
	// MaxOpsPerScript opcodes that do not push data.
	ErrTooManyOperations

	// ErrStackOverflow is returned when stack and altstack combined depth
	// is over the limit.
	ErrStackOverflow

	// ErrNumberTooBig is returned when the argument for an opcode that
	// expects numeric input is larger than the expected maximum number of
	// bytes.
	ErrNumberTooBig

	// --------------------------------------------
	// Failures related to verification operations.
	// --------------------------------------------

	// ErrVerify is returned when OP_VERIFY is encountered in a script and
	// the top item on the data stack does not evaluate to true.
	ErrVerify

	// ErrEqualVerify is returned when OP_EQUALVERIFY is encountered in a
	// script and the top item on the data stack does not evaluate to true.
	ErrEqualVerify

	// ErrNumEqualVerify is returned when OP_NUMEQUALVERIFY is encountered
	// in a script and the top item on the data stack does not evaluate to
	// true.
	ErrNumEqualVerify

	// ErrCheckSigVerify is returned when OP_CHECKSIGVERIFY is encountered
	// in a script and the top item on the data stack does not evaluate to
	// true.
	ErrCheckSigVerify

	// ErrCheckDataSigVerify is returned when OP_CHECKDATASIGVERIFY is
	// encountered in a script and the signature does not verify.
	ErrCheckDataSigVerify

	// --------------------------------------------
	// Failures related to improper use of opcodes.
	// --------------------------------------------

	// ErrDisabledOpcode is returned when a disabled opcode is encountered
	// in a script.
	ErrDisabledOpcode

	// ErrUnsupportedOpcode is returned for valid opcodes the engine does
	// not implement, such as the multisig family.
	ErrUnsupportedOpcode

	// ErrReservedOpcode is returned when an opcode marked as reserved
	// is encountered in a script.
	ErrReservedOpcode

	// ErrMalformedPush is returned when a data push opcode tries to push
	// more bytes than are left in the script.
	ErrMalformedPush

	// ErrInvalidStackOperation is returned when a stack operation is
	// attempted with a number that is invalid for the current stack size.
	ErrInvalidStackOperation

	// ErrUnbalancedConditional is returned when an OP_ELSE or OP_ENDIF is
	// encountered in a script without first having an OP_IF or OP_NOTIF or
	// the end of script is reached without encountering an OP_ENDIF when
	// an OP_IF or OP_NOTIF was previously encountered.
	ErrUnbalancedConditional

	// ErrInvalidSplitRange is returned when OP_SPLIT is asked to split
	// outside of its operand.
	ErrInvalidSplitRange

	// ErrInvalidOperandSize is returned when the operands of a bitwise
	// opcode differ in length.
	ErrInvalidOperandSize

	// ErrImpossibleEncoding is returned when OP_NUM2BIN is asked for a size
	// that cannot hold the number.
	ErrImpossibleEncoding

	// ErrDivideByZero is returned when OP_DIV or OP_MOD has a zero divisor.
	ErrDivideByZero

	// ---------------------------------
	// Failures related to malleability.
	// ---------------------------------

	// ErrMinimalData is returned when the MinimalData flag is set and a
	// push or numeric operand is not minimally encoded.
	ErrMinimalData

	// ErrInvalidSigHashType is returned when a signature hash type is not
	// one of the supported types.
	ErrInvalidSigHashType

	// ErrMustUseForkID is returned when the fork id flag is enabled and a
	// signature lacks the fork id hash type bit.
	ErrMustUseForkID

	// ErrSigTooShort is returned when a signature that should be a
	// canonically-encoded DER signature is too short.
	ErrSigTooShort

	// ErrSigTooLong is returned when a signature that should be a
	// canonically-encoded DER signature is too long.
	ErrSigTooLong

	// ErrSigInvalidEncoding is returned when a signature that should be a
	// canonically-encoded DER signature does not follow the format.
	ErrSigInvalidEncoding

	// ErrSigHighS is returned when the ScriptVerifyLowS flag is set and the
	// script contains any signatures whose S values are higher than the
	// half order.
	ErrSigHighS

	// ErrNotPushOnly is returned when a script that is required to only
	// push data to the stack performs other operations.
	ErrNotPushOnly

	// ErrPubKeyType is returned when the script contains invalid public
	// keys.
	ErrPubKeyType

	// ErrCleanStack is returned when the ScriptVerifyCleanStack flag is
	// set, and after evaluation, the stack does not contain only a single
	// element.
	ErrCleanStack

	// ErrNullFail is returned when the ScriptVerifyNullFail flag is set
	// and signatures are not empty on failed checksig.
	ErrNullFail

	// -------------------------------
	// Failures related to soft forks.
	// -------------------------------

	// ErrNegativeLockTime is returned when a script contains an opcode
	// that interprets a negative lock time.
	ErrNegativeLockTime

	// ErrUnsatisfiedLockTime is returned when a script contains an opcode
	// that involves a lock time and the required lock time has not been
	// reached.
	ErrUnsatisfiedLockTime

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:              "ErrInternal",
	ErrInvalidFlags:          "ErrInvalidFlags",
	ErrInvalidIndex:          "ErrInvalidIndex",
	ErrMissingInputAmount:    "ErrMissingInputAmount",
	ErrEarlyReturn:           "ErrEarlyReturn",
	ErrEmptyStack:            "ErrEmptyStack",
	ErrEvalFalse:             "ErrEvalFalse",
	ErrScriptUnfinished:      "ErrScriptUnfinished",
	ErrInvalidProgramCounter: "ErrInvalidProgramCounter",
	ErrScriptTooBig:          "ErrScriptTooBig",
	ErrElementTooBig:         "ErrElementTooBig",
	ErrTooManyOperations:     "ErrTooManyOperations",
	ErrStackOverflow:         "ErrStackOverflow",
	ErrNumberTooBig:          "ErrNumberTooBig",
	ErrVerify:                "ErrVerify",
	ErrEqualVerify:           "ErrEqualVerify",
	ErrNumEqualVerify:        "ErrNumEqualVerify",
	ErrCheckSigVerify:        "ErrCheckSigVerify",
	ErrCheckDataSigVerify:    "ErrCheckDataSigVerify",
	ErrDisabledOpcode:        "ErrDisabledOpcode",
	ErrUnsupportedOpcode:     "ErrUnsupportedOpcode",
	ErrReservedOpcode:        "ErrReservedOpcode",
	ErrMalformedPush:         "ErrMalformedPush",
	ErrInvalidStackOperation: "ErrInvalidStackOperation",
	ErrUnbalancedConditional: "ErrUnbalancedConditional",
	ErrInvalidSplitRange:     "ErrInvalidSplitRange",
	ErrInvalidOperandSize:    "ErrInvalidOperandSize",
	ErrImpossibleEncoding:    "ErrImpossibleEncoding",
	ErrDivideByZero:          "ErrDivideByZero",
	ErrMinimalData:           "ErrMinimalData",
	ErrInvalidSigHashType:    "ErrInvalidSigHashType",
	ErrMustUseForkID:         "ErrMustUseForkID",
	ErrSigTooShort:           "ErrSigTooShort",
	ErrSigTooLong:            "ErrSigTooLong",
	ErrSigInvalidEncoding:    "ErrSigInvalidEncoding",
	ErrSigHighS:              "ErrSigHighS",
	ErrNotPushOnly:           "ErrNotPushOnly",
	ErrPubKeyType:            "ErrPubKeyType",
	ErrCleanStack:            "ErrCleanStack",
	ErrNullFail:              "ErrNullFail",
	ErrNegativeLockTime:      "ErrNegativeLockTime",
	ErrUnsatisfiedLockTime:   "ErrUnsatisfiedLockTime",
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

// Error identifies a script execution error.  Opcode names the opcode that
// was executing when the failure happened and is empty for failures outside
// of opcode execution.
type Error struct {
	ErrorCode   ErrorCode
	Opcode      string
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Opcode != "" {
		return e.Opcode + ": " + e.Description
	}
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

// FailingOpcode returns the name of the opcode that produced err, or an empty
// string when err did not come from opcode execution.
func FailingOpcode(err error) string {
	var serr Error
	if errors.As(err, &serr) {
		return serr.Opcode
	}
	return ""
}
