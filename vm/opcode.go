// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"golang.org/x/crypto/ripemd160"

	"github.com/jetonlabs/jeton/bchscript"
)

// opcodeFunc executes a single parsed opcode against the engine.
type opcodeFunc func(op *bchscript.ParsedOpcode, vm *Engine) error

// Conditional execution constants.
const (
	OpCondFalse = 0
	OpCondTrue  = 1
	OpCondSkip  = 2
)

// opcodeTable holds the handler of every opcode.  Undefined opcodes have a
// nil handler and fail when executed.
var opcodeTable = [256]opcodeFunc{
	// Data push opcodes.
	bchscript.OP_PUSHDATA1: opcodePushData,
	bchscript.OP_PUSHDATA2: opcodePushData,
	bchscript.OP_PUSHDATA4: opcodePushData,

	// Push value opcodes.
	bchscript.OP_1NEGATE: opcode1Negate,
	bchscript.OP_1:       opcodeN,
	bchscript.OP_2:       opcodeN,
	bchscript.OP_3:       opcodeN,
	bchscript.OP_4:       opcodeN,
	bchscript.OP_5:       opcodeN,
	bchscript.OP_6:       opcodeN,
	bchscript.OP_7:       opcodeN,
	bchscript.OP_8:       opcodeN,
	bchscript.OP_9:       opcodeN,
	bchscript.OP_10:      opcodeN,
	bchscript.OP_11:      opcodeN,
	bchscript.OP_12:      opcodeN,
	bchscript.OP_13:      opcodeN,
	bchscript.OP_14:      opcodeN,
	bchscript.OP_15:      opcodeN,
	bchscript.OP_16:      opcodeN,

	// Control opcodes.
	bchscript.OP_NOP:                 opcodeNop,
	bchscript.OP_VER:                 opcodeReserved,
	bchscript.OP_IF:                  opcodeIf,
	bchscript.OP_NOTIF:               opcodeNotIf,
	bchscript.OP_VERIF:               opcodeReserved,
	bchscript.OP_VERNOTIF:            opcodeReserved,
	bchscript.OP_ELSE:                opcodeElse,
	bchscript.OP_ENDIF:               opcodeEndif,
	bchscript.OP_VERIFY:              opcodeVerify,
	bchscript.OP_RETURN:              opcodeReturn,
	bchscript.OP_CHECKLOCKTIMEVERIFY: opcodeCheckLockTimeVerify,
	bchscript.OP_CHECKSEQUENCEVERIFY: opcodeNop,

	// Stack opcodes.
	bchscript.OP_TOALTSTACK:   opcodeToAltStack,
	bchscript.OP_FROMALTSTACK: opcodeFromAltStack,
	bchscript.OP_2DROP:        opcode2Drop,
	bchscript.OP_2DUP:         opcode2Dup,
	bchscript.OP_3DUP:         opcode3Dup,
	bchscript.OP_2OVER:        opcode2Over,
	bchscript.OP_2ROT:         opcode2Rot,
	bchscript.OP_2SWAP:        opcode2Swap,
	bchscript.OP_IFDUP:        opcodeIfDup,
	bchscript.OP_DEPTH:        opcodeDepth,
	bchscript.OP_DROP:         opcodeDrop,
	bchscript.OP_DUP:          opcodeDup,
	bchscript.OP_NIP:          opcodeNip,
	bchscript.OP_OVER:         opcodeOver,
	bchscript.OP_PICK:         opcodePick,
	bchscript.OP_ROLL:         opcodeRoll,
	bchscript.OP_ROT:          opcodeRot,
	bchscript.OP_SWAP:         opcodeSwap,
	bchscript.OP_TUCK:         opcodeTuck,

	// Splice opcodes.
	bchscript.OP_CAT:          opcodeCat,
	bchscript.OP_SPLIT:        opcodeSplit,
	bchscript.OP_NUM2BIN:      opcodeNum2Bin,
	bchscript.OP_BIN2NUM:      opcodeBin2Num,
	bchscript.OP_SIZE:         opcodeSize,
	bchscript.OP_REVERSEBYTES: opcodeReverseBytes,

	// Bitwise logic opcodes.
	bchscript.OP_INVERT:      opcodeDisabled,
	bchscript.OP_AND:         opcodeAnd,
	bchscript.OP_OR:          opcodeOr,
	bchscript.OP_XOR:         opcodeXor,
	bchscript.OP_EQUAL:       opcodeEqual,
	bchscript.OP_EQUALVERIFY: opcodeEqualVerify,
	bchscript.OP_RESERVED1:   opcodeReserved,
	bchscript.OP_RESERVED2:   opcodeReserved,

	// Numeric related opcodes.
	bchscript.OP_1ADD:               opcode1Add,
	bchscript.OP_1SUB:               opcode1Sub,
	bchscript.OP_2MUL:               opcodeDisabled,
	bchscript.OP_2DIV:               opcodeDisabled,
	bchscript.OP_NEGATE:             opcodeNegate,
	bchscript.OP_ABS:                opcodeAbs,
	bchscript.OP_NOT:                opcodeNot,
	bchscript.OP_0NOTEQUAL:          opcode0NotEqual,
	bchscript.OP_ADD:                opcodeAdd,
	bchscript.OP_SUB:                opcodeSub,
	bchscript.OP_MUL:                opcodeMul,
	bchscript.OP_DIV:                opcodeDiv,
	bchscript.OP_MOD:                opcodeMod,
	bchscript.OP_LSHIFT:             opcodeDisabled,
	bchscript.OP_RSHIFT:             opcodeDisabled,
	bchscript.OP_BOOLAND:            opcodeBoolAnd,
	bchscript.OP_BOOLOR:             opcodeBoolOr,
	bchscript.OP_NUMEQUAL:           opcodeNumEqual,
	bchscript.OP_NUMEQUALVERIFY:     opcodeNumEqualVerify,
	bchscript.OP_NUMNOTEQUAL:        opcodeNumNotEqual,
	bchscript.OP_LESSTHAN:           opcodeLessThan,
	bchscript.OP_GREATERTHAN:        opcodeGreaterThan,
	bchscript.OP_LESSTHANOREQUAL:    opcodeLessThanOrEqual,
	bchscript.OP_GREATERTHANOREQUAL: opcodeGreaterThanOrEqual,
	bchscript.OP_MIN:                opcodeMin,
	bchscript.OP_MAX:                opcodeMax,
	bchscript.OP_WITHIN:             opcodeWithin,

	// Crypto opcodes.
	bchscript.OP_RIPEMD160:           opcodeRipemd160,
	bchscript.OP_SHA1:                opcodeSha1,
	bchscript.OP_SHA256:              opcodeSha256,
	bchscript.OP_HASH160:             opcodeHash160,
	bchscript.OP_HASH256:             opcodeHash256,
	bchscript.OP_CODESEPARATOR:       opcodeCodeSeparator,
	bchscript.OP_CHECKSIG:            opcodeCheckSig,
	bchscript.OP_CHECKSIGVERIFY:      opcodeCheckSigVerify,
	bchscript.OP_CHECKMULTISIG:       opcodeUnsupported,
	bchscript.OP_CHECKMULTISIGVERIFY: opcodeUnsupported,
	bchscript.OP_CHECKDATASIG:        opcodeCheckDataSig,
	bchscript.OP_CHECKDATASIGVERIFY:  opcodeCheckDataSigVerify,

	// Reserved opcodes.
	bchscript.OP_NOP1:     opcodeNop,
	bchscript.OP_NOP4:     opcodeNop,
	bchscript.OP_NOP5:     opcodeNop,
	bchscript.OP_NOP6:     opcodeNop,
	bchscript.OP_NOP7:     opcodeNop,
	bchscript.OP_NOP8:     opcodeNop,
	bchscript.OP_NOP9:     opcodeNop,
	bchscript.OP_NOP10:    opcodeNop,
	bchscript.OP_RESERVED: opcodeReserved,
}

// lookupOpcode returns the handler for the passed opcode.  The direct data
// pushes share a single handler.
func lookupOpcode(op byte) opcodeFunc {
	if op <= bchscript.OP_DATA_75 {
		return opcodePushData
	}
	return opcodeTable[op]
}

// isDisabled returns whether or not the opcode is disabled and thus is always
// bad to see in the instruction stream (even if turned off by a conditional).
func isDisabled(op byte) bool {
	switch op {
	case bchscript.OP_INVERT, bchscript.OP_2MUL, bchscript.OP_2DIV,
		bchscript.OP_LSHIFT, bchscript.OP_RSHIFT:
		return true
	}
	return false
}

// alwaysIllegal returns whether or not the opcode is always illegal when
// passed over by the program counter even if in a non-executed branch.
func alwaysIllegal(op byte) bool {
	return op == bchscript.OP_VERIF || op == bchscript.OP_VERNOTIF
}

// isConditional returns whether or not the opcode is a conditional opcode
// which changes the conditional execution stack when executed.
func isConditional(op byte) bool {
	switch op {
	case bchscript.OP_IF, bchscript.OP_NOTIF, bchscript.OP_ELSE,
		bchscript.OP_ENDIF:
		return true
	}
	return false
}

// checkMinimalDataPush returns whether or not the provided opcode is the
// smallest possible way to represent the given data.  For example, the value
// 15 could be pushed with OP_DATA_1 15 (among other variations); however,
// OP_15 is a single opcode that represents the same value and is only a single
// byte versus two bytes.
func checkMinimalDataPush(op *bchscript.ParsedOpcode) error {
	data := op.Data
	dataLen := len(data)
	opcode := op.Opcode

	var ok bool
	switch {
	case dataLen == 0:
		ok = opcode == bchscript.OP_0
	case dataLen == 1 && data[0] >= 1 && data[0] <= 16:
		ok = opcode == bchscript.OP_1+data[0]-1
	case dataLen == 1 && data[0] == 0x81:
		ok = opcode == bchscript.OP_1NEGATE
	case dataLen <= 75:
		ok = int(opcode) == dataLen
	case dataLen <= 255:
		ok = opcode == bchscript.OP_PUSHDATA1
	case dataLen <= 65535:
		ok = opcode == bchscript.OP_PUSHDATA2
	default:
		ok = true
	}
	if !ok {
		str := fmt.Sprintf("data push of %d bytes encoded with opcode "+
			"%s instead of the minimal push", dataLen, op.Name())
		return scriptError(ErrMinimalData, str)
	}
	return nil
}

// *******************************************
// Opcode implementation functions start here.
// *******************************************

// opcodeDisabled is a common handler for disabled opcodes.  It returns an
// appropriate error indicating the opcode is disabled.  While it would
// ordinarily make more sense to detect if the script contains any disabled
// opcodes before executing in an initial parse step, the consensus rules
// dictate the script doesn't fail until the program counter passes over a
// disabled opcode (even when they appear in a branch that is not executed).
func opcodeDisabled(op *bchscript.ParsedOpcode, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute disabled opcode %s", op.Name())
	return scriptError(ErrDisabledOpcode, str)
}

// opcodeReserved is a common handler for all reserved opcodes.  It returns an
// appropriate error indicating the opcode is reserved.
func opcodeReserved(op *bchscript.ParsedOpcode, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute reserved opcode %s", op.Name())
	return scriptError(ErrReservedOpcode, str)
}

// opcodeUnsupported is the handler for valid opcodes this engine does not
// execute.
func opcodeUnsupported(op *bchscript.ParsedOpcode, vm *Engine) error {
	str := fmt.Sprintf("opcode %s is not supported", op.Name())
	return scriptError(ErrUnsupportedOpcode, str)
}

// opcodeInvalid is the handler for opcode values that have no meaning.
func opcodeInvalid(op *bchscript.ParsedOpcode, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute invalid opcode %s", op.Name())
	return scriptError(ErrReservedOpcode, str)
}

// opcodePushData is a common handler for the vast majority of opcodes that push
// raw data (bytes) to the data stack.
func opcodePushData(op *bchscript.ParsedOpcode, vm *Engine) error {
	vm.dstack.PushByteArray(op.Data)
	return nil
}

// opcode1Negate pushes -1, encoded as a number, to the data stack.
func opcode1Negate(op *bchscript.ParsedOpcode, vm *Engine) error {
	vm.dstack.PushInt(bchscript.ScriptNum(-1))
	return nil
}

// opcodeN is a common handler for the small integer data push opcodes.  It
// pushes the numeric value the opcode represents (which will be from 1 to 16)
// onto the data stack.
func opcodeN(op *bchscript.ParsedOpcode, vm *Engine) error {
	vm.dstack.PushInt(bchscript.ScriptNum(bchscript.AsSmallInt(op.Opcode)))
	return nil
}

// opcodeNop is a common handler for the NOP family of opcodes.  As the name
// implies it generally does nothing.
func opcodeNop(op *bchscript.ParsedOpcode, vm *Engine) error {
	return nil
}

// pushCondition evaluates the top of the data stack for OP_IF and OP_NOTIF and
// pushes the resulting branch state onto the conditional execution stack.
func pushCondition(vm *Engine, wantTrue bool) error {
	condVal := OpCondFalse
	if vm.isBranchExecuting() {
		ok, err := vm.dstack.PopBool()
		if err != nil {
			return err
		}
		if ok == wantTrue {
			condVal = OpCondTrue
		}
	} else {
		condVal = OpCondSkip
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeIf treats the top item on the data stack as a boolean and removes it.
//
// An appropriate entry is added to the conditional stack depending on whether
// the boolean is true and whether this if is on an executing branch in order
// to allow proper execution of further opcodes depending on the conditional
// logic.  When the boolean is true, the first branch will be executed (unless
// this opcode is nested in a non-executed branch).
//
// <expression> if [statements] [else [statements]] endif
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeIf(op *bchscript.ParsedOpcode, vm *Engine) error {
	return pushCondition(vm, true)
}

// opcodeNotIf treats the top item on the data stack as a boolean and removes
// it.  It is the inverse of opcodeIf: the first branch is executed when the
// boolean is false.
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeNotIf(op *bchscript.ParsedOpcode, vm *Engine) error {
	return pushCondition(vm, false)
}

// opcodeElse inverts conditional execution for other half of if/else/endif.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [... !OpCondValue]
func opcodeElse(op *bchscript.ParsedOpcode, vm *Engine) error {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.Name())
		return scriptError(ErrUnbalancedConditional, str)
	}

	conditionalIdx := len(vm.condStack) - 1
	switch vm.condStack[conditionalIdx] {
	case OpCondTrue:
		vm.condStack[conditionalIdx] = OpCondFalse
	case OpCondFalse:
		vm.condStack[conditionalIdx] = OpCondTrue
	case OpCondSkip:
		// Value doesn't change in skip since it indicates this opcode
		// is nested in a non-executed branch.
	}
	return nil
}

// opcodeEndif terminates a conditional block, removing the value from the
// conditional execution stack.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [...]
func opcodeEndif(op *bchscript.ParsedOpcode, vm *Engine) error {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.Name())
		return scriptError(ErrUnbalancedConditional, str)
	}

	vm.condStack = vm.condStack[:len(vm.condStack)-1]
	return nil
}

// abstractVerify examines the top item on the data stack as a boolean value and
// verifies it evaluates to true.  An error is returned either when there is no
// item on the stack or when that item evaluates to false.  In the latter case
// where the verification fails specifically due to the top item evaluating
// to false, the returned error will use the passed error code.
func abstractVerify(op *bchscript.ParsedOpcode, vm *Engine, c ErrorCode) error {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}

	if !verified {
		str := fmt.Sprintf("%s failed", op.Name())
		return scriptError(c, str)
	}
	return nil
}

// opcodeVerify examines the top item on the data stack as a boolean value and
// verifies it evaluates to true.  An error is returned if it does not.
func opcodeVerify(op *bchscript.ParsedOpcode, vm *Engine) error {
	return abstractVerify(op, vm, ErrVerify)
}

// opcodeReturn returns an appropriate error since it is always an error to
// return early from a script.
func opcodeReturn(op *bchscript.ParsedOpcode, vm *Engine) error {
	return scriptError(ErrEarlyReturn, "script returned early")
}

// verifyLockTime is a helper function used to validate locktimes.
func verifyLockTime(txLockTime, threshold, lockTime int64) error {
	// The lockTimes in both the script and transaction must be of the same
	// type.
	if !((txLockTime < threshold && lockTime < threshold) ||
		(txLockTime >= threshold && lockTime >= threshold)) {
		str := fmt.Sprintf("mismatched locktime types -- tx locktime "+
			"%d, stack locktime %d", txLockTime, lockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	if lockTime > txLockTime {
		str := fmt.Sprintf("locktime requirement not satisfied -- "+
			"locktime is greater than the transaction locktime: "+
			"%d > %d", lockTime, txLockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	return nil
}

// opcodeCheckLockTimeVerify compares the top item on the data stack to the
// LockTime field of the transaction containing the script signature
// validating if the transaction outputs are spendable yet.  If flag
// ScriptVerifyCheckLockTimeVerify is not set, the code continues as if
// OP_NOP2 were executed.
func opcodeCheckLockTimeVerify(op *bchscript.ParsedOpcode, vm *Engine) error {
	if !vm.hasFlag(ScriptVerifyCheckLockTimeVerify) {
		return nil
	}

	// The current transaction locktime is a uint32 resulting in a maximum
	// locktime of 2^32-1 (the year 2106).  However, scriptNums are signed
	// and therefore a standard 4-byte scriptNum would only support up to a
	// maximum of 2^31-1 (the year 2038).  Thus, a 5-byte scriptNum is used
	// here since it will support up to 2^39-1 which allows dates beyond
	// the current locktime limit.
	//
	// PeekByteArray is used here instead of PeekInt because we do not want
	// to be limited to a 4-byte integer for reasons specified above.
	lockTime, err := vm.dstack.PeekIntLen(0, bchscript.LockTimeNumLen)
	if err != nil {
		return err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use
	// 0 OP_MAX OP_CHECKLOCKTIMEVERIFY.
	if lockTime < 0 {
		str := fmt.Sprintf("negative lock time: %d", lockTime)
		return scriptError(ErrNegativeLockTime, str)
	}

	// The lock time field of a transaction is either a block height at
	// which the transaction is finalized or a timestamp depending on if the
	// value is before the txscript.LockTimeThreshold.  When it is under the
	// threshold it is a block height.
	err = verifyLockTime(int64(vm.tx.LockTime), txscript.LockTimeThreshold,
		int64(lockTime))
	if err != nil {
		return err
	}

	// The lock time feature can also be disabled, thereby bypassing
	// OP_CHECKLOCKTIMEVERIFY, if every transaction input has been finalized
	// by setting its sequence to the maximum value.  Requiring a
	// non-final sequence on the input being verified prevents that.
	if vm.tx.TxIn[vm.txIdx].Sequence == wire.MaxTxInSequenceNum {
		return scriptError(ErrUnsatisfiedLockTime,
			"transaction input is finalized")
	}

	return nil
}

// opcodeToAltStack removes the top item from the main data stack and pushes it
// onto the alternate data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2 y3 x3]
func opcodeToAltStack(op *bchscript.ParsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)

	return nil
}

// opcodeFromAltStack removes the top item from the alternate data stack and
// pushes it onto the main data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 y3]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2]
func opcodeFromAltStack(op *bchscript.ParsedOpcode, vm *Engine) error {
	so, err := vm.astack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(so)

	return nil
}

// opcode2Drop removes the top 2 items from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1]
func opcode2Drop(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.DropN(2)
}

// opcode2Dup duplicates the top 2 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2 x3]
func opcode2Dup(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.DupN(2)
}

// opcode3Dup duplicates the top 3 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x1 x2 x3]
func opcode3Dup(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.DupN(3)
}

// opcode2Over duplicates the 2 items before the top 2 items on the data stack.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x1 x2 x3 x4 x1 x2]
func opcode2Over(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.OverN(2)
}

// opcode2Rot rotates the top 6 items on the data stack to the left twice.
//
// Stack transformation: [... x1 x2 x3 x4 x5 x6] -> [... x3 x4 x5 x6 x1 x2]
func opcode2Rot(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.RotN(2)
}

// opcode2Swap swaps the top 2 items on the data stack with the 2 that come
// before them.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x3 x4 x1 x2]
func opcode2Swap(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.SwapN(2)
}

// opcodeIfDup duplicates the top item of the stack if it is not zero.
//
// Stack transformation (x1==0): [... x1] -> [... x1]
// Stack transformation (x1!=0): [... x1] -> [... x1 x1]
func opcodeIfDup(op *bchscript.ParsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	// Push copy of data iff it isn't zero
	if asBool(so) {
		vm.dstack.PushByteArray(so)
	}

	return nil
}

// opcodeDepth pushes the depth of the data stack prior to executing this
// opcode, encoded as a number, onto the data stack.
//
// Stack transformation: [...] -> [... <num of items on the stack>]
// Example with 2 items: [x1 x2] -> [x1 x2 2]
// Example with 3 items: [x1 x2 x3] -> [x1 x2 x3 3]
func opcodeDepth(op *bchscript.ParsedOpcode, vm *Engine) error {
	vm.dstack.PushInt(bchscript.ScriptNum(vm.dstack.Depth()))
	return nil
}

// opcodeDrop removes the top item from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2]
func opcodeDrop(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.DropN(1)
}

// opcodeDup duplicates the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x3]
func opcodeDup(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.DupN(1)
}

// opcodeNip removes the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x3]
func opcodeNip(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.NipN(1)
}

// opcodeOver duplicates the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2]
func opcodeOver(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.OverN(1)
}

// opcodePick treats the top item on the data stack as an integer and duplicates
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [xn ... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x1 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x2 x1 x0 x2]
func opcodePick(op *bchscript.ParsedOpcode, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.PickN(val.Int32())
}

// opcodeRoll treats the top item on the data stack as an integer and moves
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x1 x0 x2]
func opcodeRoll(op *bchscript.ParsedOpcode, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.RollN(val.Int32())
}

// opcodeRot rotates the top 3 items on the data stack to the left.
//
// Stack transformation: [... x1 x2 x3] -> [... x2 x3 x1]
func opcodeRot(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.RotN(1)
}

// opcodeSwap swaps the top two items on the stack.
//
// Stack transformation: [... x1 x2] -> [... x2 x1]
func opcodeSwap(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.SwapN(1)
}

// opcodeTuck inserts a duplicate of the top item of the data stack before the
// second-to-top item.
//
// Stack transformation: [... x1 x2] -> [... x2 x1 x2]
func opcodeTuck(op *bchscript.ParsedOpcode, vm *Engine) error {
	return vm.dstack.Tuck()
}

// opcodeCat concatenates the top two items on the data stack.
//
// Stack transformation: [... x1 x2] -> [... x1||x2]
func opcodeCat(op *bchscript.ParsedOpcode, vm *Engine) error {
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(a)+len(b) > MaxScriptElementSize {
		str := fmt.Sprintf("concatenated element size %d exceeds the "+
			"max allowed size %d", len(a)+len(b),
			MaxScriptElementSize)
		return scriptError(ErrElementTooBig, str)
	}

	c := make([]byte, 0, len(a)+len(b))
	c = append(c, a...)
	c = append(c, b...)
	vm.dstack.PushByteArray(c)
	return nil
}

// opcodeSplit splits the second-to-top item of the data stack at the position
// given by the top item.
//
// Stack transformation: [... x n] -> [... x[:n] x[n:]]
func opcodeSplit(op *bchscript.ParsedOpcode, vm *Engine) error {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	data, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if n < 0 || int64(n) > int64(len(data)) {
		str := fmt.Sprintf("split position %d is outside of the %d "+
			"byte operand", n, len(data))
		return scriptError(ErrInvalidSplitRange, str)
	}

	left := make([]byte, n)
	copy(left, data[:n])
	right := make([]byte, len(data)-int(n))
	copy(right, data[n:])
	vm.dstack.PushByteArray(left)
	vm.dstack.PushByteArray(right)
	return nil
}

// opcodeNum2Bin converts the second-to-top item of the data stack into a
// number padded to the byte size given by the top item.
//
// Stack transformation: [... num size] -> [... padded]
func opcodeNum2Bin(op *bchscript.ParsedOpcode, vm *Engine) error {
	size, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	if size < 0 || size > MaxScriptElementSize {
		str := fmt.Sprintf("requested encoding size %d is out of range",
			size)
		return scriptError(ErrElementTooBig, str)
	}

	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	encoded := bchscript.MinimallyEncode(so)
	if len(encoded) > int(size) {
		str := fmt.Sprintf("number encoded as %x does not fit in %d "+
			"bytes", so, size)
		return scriptError(ErrImpossibleEncoding, str)
	}

	padded := make([]byte, size)
	copy(padded, encoded)
	if len(encoded) > 0 && len(encoded) < int(size) {
		signBit := encoded[len(encoded)-1] & 0x80
		padded[len(encoded)-1] &= 0x7f
		padded[size-1] |= signBit
	}
	vm.dstack.PushByteArray(padded)
	return nil
}

// opcodeBin2Num converts the top item of the data stack into its minimal
// numeric encoding, which must fit a numeric operand.
//
// Stack transformation: [... bin] -> [... num]
func opcodeBin2Num(op *bchscript.ParsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	num := bchscript.MinimallyEncode(so)
	if len(num) > vm.dstack.numLen {
		str := fmt.Sprintf("number encoded as %x exceeds %d bytes", so,
			vm.dstack.numLen)
		return scriptError(ErrNumberTooBig, str)
	}
	vm.dstack.PushByteArray(num)
	return nil
}

// opcodeSize pushes the size of the top item of the data stack onto the data
// stack.
//
// Stack transformation: [... x1] -> [... x1 len(x1)]
func opcodeSize(op *bchscript.ParsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(bchscript.ScriptNum(len(so)))
	return nil
}

// opcodeReverseBytes reverses the byte order of the top item of the data
// stack.
//
// Stack transformation: [... x1] -> [... reverse(x1)]
func opcodeReverseBytes(op *bchscript.ParsedOpcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	reversed := make([]byte, len(so))
	for i := range so {
		reversed[len(so)-1-i] = so[i]
	}
	vm.dstack.PushByteArray(reversed)
	return nil
}

// bitwiseOp pops two equally sized operands and pushes the result of applying
// fn to each pair of bytes.
func bitwiseOp(vm *Engine, fn func(a, b byte) byte) error {
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(a) != len(b) {
		str := fmt.Sprintf("operand sizes %d and %d differ", len(a),
			len(b))
		return scriptError(ErrInvalidOperandSize, str)
	}

	result := make([]byte, len(a))
	for i := range a {
		result[i] = fn(a[i], b[i])
	}
	vm.dstack.PushByteArray(result)
	return nil
}

// opcodeAnd performs a bitwise and of the top two items of the data stack.
func opcodeAnd(op *bchscript.ParsedOpcode, vm *Engine) error {
	return bitwiseOp(vm, func(a, b byte) byte { return a & b })
}

// opcodeOr performs a bitwise or of the top two items of the data stack.
func opcodeOr(op *bchscript.ParsedOpcode, vm *Engine) error {
	return bitwiseOp(vm, func(a, b byte) byte { return a | b })
}

// opcodeXor performs a bitwise exclusive or of the top two items of the data
// stack.
func opcodeXor(op *bchscript.ParsedOpcode, vm *Engine) error {
	return bitwiseOp(vm, func(a, b byte) byte { return a ^ b })
}

// opcodeEqual removes the top 2 items of the data stack, compares them as raw
// bytes, and pushes the result, encoded as a boolean, back to the stack.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeEqual(op *bchscript.ParsedOpcode, vm *Engine) error {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

// opcodeEqualVerify is a combination of opcodeEqual and opcodeVerify.
// Specifically, it removes the top 2 items of the data stack, compares them,
// and pushes the result, encoded as a boolean, back to the stack.  Then, it
// examines the top item on the data stack as a boolean value and verifies it
// evaluates to true.  An error is returned if it does not.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeEqualVerify(op *bchscript.ParsedOpcode, vm *Engine) error {
	err := opcodeEqual(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrEqualVerify)
	}
	return err
}

// checkNumResult returns an error when an arithmetic result leaves the range
// representable by a script number.
func checkNumResult(v int64, overflow bool) (bchscript.ScriptNum, error) {
	if overflow || v == math.MinInt64 {
		return 0, scriptError(ErrNumberTooBig,
			"arithmetic result is out of range")
	}
	return bchscript.ScriptNum(v), nil
}

// unaryNumOp pops a number, applies fn and pushes the result.
func unaryNumOp(vm *Engine, fn func(m int64) (int64, bool)) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	n, err := checkNumResult(fn(int64(m)))
	if err != nil {
		return err
	}
	vm.dstack.PushInt(n)
	return nil
}

// binaryNumOp pops two numbers, applies fn with the deeper item first and
// pushes the result.
func binaryNumOp(vm *Engine, fn func(a, b int64) (int64, bool)) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	n, err := checkNumResult(fn(int64(v1), int64(v0)))
	if err != nil {
		return err
	}
	vm.dstack.PushInt(n)
	return nil
}

// compareNumOp pops two numbers and pushes the boolean result of fn with the
// deeper item first.
func compareNumOp(vm *Engine, fn func(a, b int64) bool) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushBool(fn(int64(v1), int64(v0)))
	return nil
}

// addInt64 returns a+b and whether the addition overflowed.
func addInt64(a, b int64) (int64, bool) {
	c := a + b
	return c, (a > 0 && b > 0 && c < 0) || (a < 0 && b < 0 && c >= 0)
}

// subInt64 returns a-b and whether the subtraction overflowed.
func subInt64(a, b int64) (int64, bool) {
	c := a - b
	return c, (a >= 0 && b < 0 && c < 0) || (a < 0 && b > 0 && c >= 0)
}

// opcode1Add treats the top item on the data stack as an integer and replaces
// it with its incremented value (plus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2+1]
func opcode1Add(op *bchscript.ParsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(m int64) (int64, bool) {
		return addInt64(m, 1)
	})
}

// opcode1Sub treats the top item on the data stack as an integer and replaces
// it with its decremented value (minus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2-1]
func opcode1Sub(op *bchscript.ParsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(m int64) (int64, bool) {
		return subInt64(m, 1)
	})
}

// opcodeNegate treats the top item on the data stack as an integer and replaces
// it with its negation.
//
// Stack transformation: [... x1 x2] -> [... x1 -x2]
func opcodeNegate(op *bchscript.ParsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(m int64) (int64, bool) {
		return -m, false
	})
}

// opcodeAbs treats the top item on the data stack as an integer and replaces it
// it with its absolute value.
//
// Stack transformation: [... x1 x2] -> [... x1 abs(x2)]
func opcodeAbs(op *bchscript.ParsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(m int64) (int64, bool) {
		if m < 0 {
			return -m, false
		}
		return m, false
	})
}

// opcodeNot treats the top item on the data stack as an integer and replaces
// it with its "inverted" value (0 becomes 1, non-zero becomes 0).
//
// NOTE: While it would probably make more sense to treat the top item as a
// boolean, and push the opposite, which is really what the intention of this
// opcode is, it is extremely important that is not done because integers are
// interpreted differently than booleans and the consensus rules for this
// opcode dictate the item is interpreted as an integer.
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 1]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 0]
// Stack transformation (x2!=0): [... x1 17] -> [... x1 0]
func opcodeNot(op *bchscript.ParsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(m int64) (int64, bool) {
		if m == 0 {
			return 1, false
		}
		return 0, false
	})
}

// opcode0NotEqual treats the top item on the data stack as an integer and
// replaces it with either a 0 if it is zero, or a 1 if it is not zero.
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 0]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 1]
// Stack transformation (x2!=0): [... x1 17] -> [... x1 1]
func opcode0NotEqual(op *bchscript.ParsedOpcode, vm *Engine) error {
	return unaryNumOp(vm, func(m int64) (int64, bool) {
		if m != 0 {
			return 1, false
		}
		return 0, false
	})
}

// opcodeAdd treats the top two items on the data stack as integers and replaces
// them with their sum.
//
// Stack transformation: [... x1 x2] -> [... x1+x2]
func opcodeAdd(op *bchscript.ParsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, addInt64)
}

// opcodeSub treats the top two items on the data stack as integers and replaces
// them with the result of subtracting the top entry from the second-to-top
// entry.
//
// Stack transformation: [... x1 x2] -> [... x1-x2]
func opcodeSub(op *bchscript.ParsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, subInt64)
}

// opcodeMul treats the top two items on the data stack as integers and
// replaces them with their product.
//
// Stack transformation: [... x1 x2] -> [... x1*x2]
func opcodeMul(op *bchscript.ParsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b int64) (int64, bool) {
		c := a * b
		overflow := a != 0 && (c/a != b ||
			(a == -1 && b == math.MinInt64))
		return c, overflow
	})
}

// divisor peeks at the top number and fails when it is zero.
func divisor(vm *Engine) (int64, error) {
	d, err := vm.dstack.PeekIntLen(0, vm.dstack.numLen)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, scriptError(ErrDivideByZero, "division by zero")
	}
	return int64(d), nil
}

// opcodeDiv treats the top two items on the data stack as integers and
// replaces them with the quotient of the second-to-top item divided by the
// top item.  The quotient is truncated toward zero.
//
// Stack transformation: [... x1 x2] -> [... x1/x2]
func opcodeDiv(op *bchscript.ParsedOpcode, vm *Engine) error {
	if _, err := divisor(vm); err != nil {
		return err
	}
	return binaryNumOp(vm, func(a, b int64) (int64, bool) {
		return a / b, false
	})
}

// opcodeMod treats the top two items on the data stack as integers and
// replaces them with the remainder of the second-to-top item divided by the
// top item.  The remainder has the sign of the dividend.
//
// Stack transformation: [... x1 x2] -> [... x1%x2]
func opcodeMod(op *bchscript.ParsedOpcode, vm *Engine) error {
	if _, err := divisor(vm); err != nil {
		return err
	}
	return binaryNumOp(vm, func(a, b int64) (int64, bool) {
		return a % b, false
	})
}

// opcodeBoolAnd treats the top two items on the data stack as integers.  When
// both of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 0]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 0]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolAnd(op *bchscript.ParsedOpcode, vm *Engine) error {
	return compareNumOp(vm, func(a, b int64) bool {
		return a != 0 && b != 0
	})
}

// opcodeBoolOr treats the top two items on the data stack as integers.  When
// either of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 1]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 1]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolOr(op *bchscript.ParsedOpcode, vm *Engine) error {
	return compareNumOp(vm, func(a, b int64) bool {
		return a != 0 || b != 0
	})
}

// opcodeNumEqual treats the top two items on the data stack as integers.  When
// they are equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 1]
// Stack transformation (x1!=x2): [... 5 7] -> [... 0]
func opcodeNumEqual(op *bchscript.ParsedOpcode, vm *Engine) error {
	return compareNumOp(vm, func(a, b int64) bool { return a == b })
}

// opcodeNumEqualVerify is a combination of opcodeNumEqual and opcodeVerify.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeNumEqualVerify(op *bchscript.ParsedOpcode, vm *Engine) error {
	err := opcodeNumEqual(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrNumEqualVerify)
	}
	return err
}

// opcodeNumNotEqual treats the top two items on the data stack as integers.
// When they are NOT equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 0]
// Stack transformation (x1!=x2): [... 5 7] -> [... 1]
func opcodeNumNotEqual(op *bchscript.ParsedOpcode, vm *Engine) error {
	return compareNumOp(vm, func(a, b int64) bool { return a != b })
}

// opcodeLessThan treats the top two items on the data stack as integers.  When
// the second-to-top item is less than the top item, they are replaced with a
// 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThan(op *bchscript.ParsedOpcode, vm *Engine) error {
	return compareNumOp(vm, func(a, b int64) bool { return a < b })
}

// opcodeGreaterThan treats the top two items on the data stack as integers.
// When the second-to-top item is greater than the top item, they are replaced
// with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThan(op *bchscript.ParsedOpcode, vm *Engine) error {
	return compareNumOp(vm, func(a, b int64) bool { return a > b })
}

// opcodeLessThanOrEqual treats the top two items on the data stack as
// integers.  When the second-to-top item is less than or equal to the top
// item, they are replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThanOrEqual(op *bchscript.ParsedOpcode, vm *Engine) error {
	return compareNumOp(vm, func(a, b int64) bool { return a <= b })
}

// opcodeGreaterThanOrEqual treats the top two items on the data stack as
// integers.  When the second-to-top item is greater than or equal to the top
// item, they are replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThanOrEqual(op *bchscript.ParsedOpcode, vm *Engine) error {
	return compareNumOp(vm, func(a, b int64) bool { return a >= b })
}

// opcodeMin treats the top two items on the data stack as integers and replaces
// them with the minimum of the two.
//
// Stack transformation: [... x1 x2] -> [... min(x1, x2)]
func opcodeMin(op *bchscript.ParsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b int64) (int64, bool) {
		if a < b {
			return a, false
		}
		return b, false
	})
}

// opcodeMax treats the top two items on the data stack as integers and replaces
// them with the maximum of the two.
//
// Stack transformation: [... x1 x2] -> [... max(x1, x2)]
func opcodeMax(op *bchscript.ParsedOpcode, vm *Engine) error {
	return binaryNumOp(vm, func(a, b int64) (int64, bool) {
		if a > b {
			return a, false
		}
		return b, false
	})
}

// opcodeWithin treats the top 3 items on the data stack as integers.  When the
// value to test is within the specified range (left inclusive), they are
// replaced with a 1, otherwise a 0.
//
// The top item is the max value, the second-top-item is the minimum value, and
// the third-to-top item is the value to test.
//
// Stack transformation: [... x1 min max] -> [... bool]
func opcodeWithin(op *bchscript.ParsedOpcode, vm *Engine) error {
	maxVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	minVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	x, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(x >= minVal && x < maxVal)
	return nil
}

// hashOp replaces the top item of the data stack with its digest.
func hashOp(vm *Engine, fn func([]byte) []byte) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushByteArray(fn(buf))
	return nil
}

// calcRipemd160 returns the RIPEMD-160 digest of buf.
func calcRipemd160(buf []byte) []byte {
	hasher := ripemd160.New()
	hasher.Write(buf)
	return hasher.Sum(nil)
}

// opcodeRipemd160 treats the top item of the data stack as raw bytes and
// replaces it with ripemd160(data).
//
// Stack transformation: [... x1] -> [... ripemd160(x1)]
func opcodeRipemd160(op *bchscript.ParsedOpcode, vm *Engine) error {
	return hashOp(vm, calcRipemd160)
}

// opcodeSha1 treats the top item of the data stack as raw bytes and replaces it
// with sha1(data).
//
// Stack transformation: [... x1] -> [... sha1(x1)]
func opcodeSha1(op *bchscript.ParsedOpcode, vm *Engine) error {
	return hashOp(vm, func(buf []byte) []byte {
		hash := sha1.Sum(buf)
		return hash[:]
	})
}

// opcodeSha256 treats the top item of the data stack as raw bytes and replaces
// it with sha256(data).
//
// Stack transformation: [... x1] -> [... sha256(x1)]
func opcodeSha256(op *bchscript.ParsedOpcode, vm *Engine) error {
	return hashOp(vm, chainhash.HashB)
}

// opcodeHash160 treats the top item of the data stack as raw bytes and replaces
// it with ripemd160(sha256(data)).
//
// Stack transformation: [... x1] -> [... ripemd160(sha256(x1))]
func opcodeHash160(op *bchscript.ParsedOpcode, vm *Engine) error {
	return hashOp(vm, btcutil.Hash160)
}

// opcodeHash256 treats the top item of the data stack as raw bytes and replaces
// it with sha256(sha256(data)).
//
// Stack transformation: [... x1] -> [... sha256(sha256(x1))]
func opcodeHash256(op *bchscript.ParsedOpcode, vm *Engine) error {
	return hashOp(vm, chainhash.DoubleHashB)
}

// opcodeCodeSeparator stores the offset of the opcode following the most
// recently executed OP_CODESEPARATOR, which marks where the script code
// committed to by signatures begins.
func opcodeCodeSeparator(op *bchscript.ParsedOpcode, vm *Engine) error {
	vm.lastCodeSep = int(op.Offset) + 1
	return nil
}

// opcodeCheckSig treats the top 2 items on the stack as a public key and a
// signature and replaces them with a bool which indicates if the signature was
// successfully verified.
//
// The process of verifying a signature requires calculating a signature hash in
// the same way the transaction signer did.  It involves hashing the
// transaction, the amount spent by the input and the script code since the
// last OP_CODESEPARATOR with the fork id digest algorithm.  The final byte
// of the signature selects the hash type.
//
// Stack transformation: [... signature pubkey] -> [... bool]
func opcodeCheckSig(op *bchscript.ParsedOpcode, vm *Engine) error {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	fullSigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	valid, err := vm.checkTxSig(fullSigBytes, pkBytes)
	if err != nil {
		return err
	}
	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckSigVerify is a combination of opcodeCheckSig and opcodeVerify.
//
// Stack transformation: [... signature pubkey] -> [... bool] -> [...]
func opcodeCheckSigVerify(op *bchscript.ParsedOpcode, vm *Engine) error {
	err := opcodeCheckSig(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckSigVerify)
	}
	return err
}

// opcodeCheckDataSig treats the top 3 items on the stack as a signature, a
// message and a public key and replaces them with a bool which indicates if
// the signature is a valid signature of sha256(message) by the public key.
//
// Stack transformation: [... signature message pubkey] -> [... bool]
func opcodeCheckDataSig(op *bchscript.ParsedOpcode, vm *Engine) error {
	if !vm.hasFlag(ScriptEnableCheckDataSig) {
		return opcodeInvalid(op, vm)
	}

	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	message, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	sigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	valid, err := vm.checkDataSig(sigBytes, message, pkBytes)
	if err != nil {
		return err
	}
	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckDataSigVerify is a combination of opcodeCheckDataSig and
// opcodeVerify.
//
// Stack transformation: [... signature message pubkey] -> [...]
func opcodeCheckDataSigVerify(op *bchscript.ParsedOpcode, vm *Engine) error {
	err := opcodeCheckDataSig(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckDataSigVerify)
	}
	return err
}
