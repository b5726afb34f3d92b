// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/jetonlabs/jeton/bchscript"
)

const (
	// MaxStackSize is the maximum combined height of stack and alt stack
	// during execution.
	MaxStackSize = 1000

	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = txscript.MaxScriptSize

	// MaxScriptElementSize is the maximum number of bytes a single stack
	// element may hold.
	MaxScriptElementSize = txscript.MaxScriptElementSize

	// MaxOpsPerScript is the maximum number of non-push operations a
	// single script may execute.
	MaxOpsPerScript = 201
)

// halfOrder is used to tame ECDSA malleability.
var halfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// Engine is the virtual machine that executes scripts.
type Engine struct {
	scripts         [][]bchscript.ParsedOpcode
	rawScripts      [][]byte
	scriptIdx       int
	opcodeIdx       int
	lastCodeSep     int
	dstack          stack // data stack
	astack          stack // alt stack
	tx              wire.MsgTx
	txIdx           int
	condStack       []int
	numOps          int
	flags           ScriptFlags
	sigCache        *SigCache
	prevOuts        txscript.PrevOutputFetcher
	bip16           bool     // treat execution as pay-to-script-hash
	savedFirstStack [][]byte // stack from first script for bip16 scripts
}

// hasFlag returns whether the script engine instance has the passed flag set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing.  For example, when the data stack has an OP_FALSE on it
// and an OP_IF is encountered, the branch is inactive until an OP_ELSE or
// OP_ENDIF is encountered.  It properly handles nested conditionals.
func (vm *Engine) isBranchExecuting() bool {
	if len(vm.condStack) == 0 {
		return true
	}
	return vm.condStack[len(vm.condStack)-1] == OpCondTrue
}

// executeOpcode performs execution on the passed opcode.  It takes into account
// whether or not it is hidden by conditionals, but some rules still must be
// tested in this case.
func (vm *Engine) executeOpcode(op *bchscript.ParsedOpcode) error {
	// Disabled opcodes are fail on program counter.
	if isDisabled(op.Opcode) {
		str := fmt.Sprintf("attempt to execute disabled opcode %s",
			op.Name())
		return scriptError(ErrDisabledOpcode, str)
	}

	// Always-illegal opcodes are fail on program counter.
	if alwaysIllegal(op.Opcode) {
		str := fmt.Sprintf("attempt to execute reserved opcode %s",
			op.Name())
		return scriptError(ErrReservedOpcode, str)
	}

	// Note that this includes OP_RESERVED which counts as a push operation.
	if op.Opcode > bchscript.OP_16 {
		vm.numOps++
		if vm.numOps > MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				MaxOpsPerScript)
			return scriptError(ErrTooManyOperations, str)
		}

	} else if len(op.Data) > MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(op.Data), MaxScriptElementSize)
		return scriptError(ErrElementTooBig, str)
	}

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.
	if !vm.isBranchExecuting() && !isConditional(op.Opcode) {
		return nil
	}

	// Ensure all executed data push opcodes use the minimal encoding when
	// the minimal data verification flag is set.
	if vm.dstack.verifyMinimalData && vm.isBranchExecuting() &&
		bchscript.IsDataPush(op.Opcode) {

		if err := checkMinimalDataPush(op); err != nil {
			return err
		}
	}

	fn := lookupOpcode(op.Opcode)
	if fn == nil {
		fn = opcodeInvalid
	}
	return fn(op, vm)
}

// disasm is a helper function to produce the output for DisasmPC and
// DisasmScript.  It produces the opcode prefixed by the program counter at the
// provided position in the script.  It does no error checking and leaves that
// to the caller to provide a valid offset.
func (vm *Engine) disasm(scriptIdx int, opcodeIdx int) string {
	op := &vm.scripts[scriptIdx][opcodeIdx]
	text := op.Name()
	if bchscript.IsDataPush(op.Opcode) && op.Opcode != bchscript.OP_0 {
		text = fmt.Sprintf("%x", op.Data)
	}
	return fmt.Sprintf("%02x:%04x: %s", scriptIdx, opcodeIdx, text)
}

// validPC returns an error if the current script position is not valid for
// execution.
func (vm *Engine) validPC() error {
	if vm.scriptIdx >= len(vm.scripts) {
		str := fmt.Sprintf("past input scripts %v:%v %v:xxxx",
			vm.scriptIdx, vm.opcodeIdx, len(vm.scripts))
		return scriptError(ErrInvalidProgramCounter, str)
	}
	if vm.opcodeIdx >= len(vm.scripts[vm.scriptIdx]) {
		str := fmt.Sprintf("past input scripts %v:%v %v:%04d",
			vm.scriptIdx, vm.opcodeIdx, vm.scriptIdx,
			len(vm.scripts[vm.scriptIdx]))
		return scriptError(ErrInvalidProgramCounter, str)
	}
	return nil
}

// DisasmPC returns the string for the disassembly of the opcode that will be
// next to execute when Step is called.
func (vm *Engine) DisasmPC() (string, error) {
	if err := vm.validPC(); err != nil {
		return "", err
	}
	return vm.disasm(vm.scriptIdx, vm.opcodeIdx), nil
}

// DisasmScript returns the disassembly string for the script at the requested
// offset index.  Index 0 is the signature script and 1 is the public key
// script.  For pay-to-script-hash spends index 2 is the redeem script once it
// has been reached.
func (vm *Engine) DisasmScript(idx int) (string, error) {
	if idx < 0 || idx >= len(vm.scripts) {
		str := fmt.Sprintf("script index %d >= total scripts %d", idx,
			len(vm.scripts))
		return "", scriptError(ErrInvalidIndex, str)
	}

	var disstr string
	for i := range vm.scripts[idx] {
		disstr = disstr + vm.disasm(idx, i) + "\n"
	}
	return disstr, nil
}

// CheckErrorCondition returns nil if the running script has ended and was
// successful, leaving a true boolean on the stack.  An error otherwise,
// including if the script has not finished.
func (vm *Engine) CheckErrorCondition(finalScript bool) error {
	// Check execution is actually done by ensuring the script index is after
	// the final script in the array script.
	if vm.scriptIdx < len(vm.scripts) {
		return scriptError(ErrScriptUnfinished,
			"error check when script unfinished")
	}

	if finalScript && vm.hasFlag(ScriptVerifyCleanStack) &&
		vm.dstack.Depth() != 1 {

		str := fmt.Sprintf("stack must contain exactly one item (contains "+
			"%d)", vm.dstack.Depth())
		return scriptError(ErrCleanStack, str)
	} else if vm.dstack.Depth() < 1 {
		return scriptError(ErrEmptyStack,
			"stack empty at end of script execution")
	}

	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !v {
		// Log interesting data.
		log.Tracef("%v", newLogClosure(func() string {
			var buf string
			for i := range vm.scripts {
				dis, _ := vm.DisasmScript(i)
				buf += fmt.Sprintf("script%d:\n%s", i, dis)
			}
			return "scripts failed:\n" + buf
		}))
		return scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return nil
}

// Step executes the next instruction and moves the program counter to the next
// opcode in the script, or the next script if the current has ended.  Step
// will return true in the case that the last opcode was successfully executed.
//
// The result of calling Step or any other method is undefined if an error is
// returned.
func (vm *Engine) Step() (done bool, err error) {
	// Verify that it is pointing to a valid script address.
	if err := vm.validPC(); err != nil {
		return true, err
	}
	op := &vm.scripts[vm.scriptIdx][vm.opcodeIdx]
	vm.opcodeIdx++

	// Execute the opcode while taking into account several things such as
	// disabled opcodes, illegal opcodes, maximum allowed operations per
	// script, maximum script element sizes, and conditionals.
	if err := vm.executeOpcode(op); err != nil {
		var serr Error
		if errors.As(err, &serr) {
			serr.Opcode = op.Name()
			return true, serr
		}
		return true, err
	}

	// The number of elements in the combination of the data and alt stacks
	// must not exceed the maximum number of stack elements allowed.
	combinedStackSize := vm.dstack.Depth() + vm.astack.Depth()
	if combinedStackSize > MaxStackSize {
		str := fmt.Sprintf("combined stack size %d > max allowed %d",
			combinedStackSize, MaxStackSize)
		return false, scriptError(ErrStackOverflow, str)
	}

	// Prepare for next instruction.
	if vm.opcodeIdx >= len(vm.scripts[vm.scriptIdx]) {
		// Illegal to have an `if' that straddles two scripts.
		if len(vm.condStack) != 0 {
			return false, scriptError(ErrUnbalancedConditional,
				"end of script reached in conditional execution")
		}

		// Alt stack doesn't persist.
		vm.astack.stk = nil

		vm.numOps = 0 // number of ops is per script.
		vm.opcodeIdx = 0
		vm.lastCodeSep = 0
		switch {
		case vm.scriptIdx == 0 && vm.bip16:
			vm.scriptIdx++
			vm.savedFirstStack = vm.GetStack()

		case vm.scriptIdx == 1 && vm.bip16:
			// Put us past the end for CheckErrorCondition()
			vm.scriptIdx++

			// Check script ran successfully and pull the script
			// out of the first stack and execute that.
			err := vm.CheckErrorCondition(false)
			if err != nil {
				return false, err
			}

			script := vm.savedFirstStack[len(vm.savedFirstStack)-1]
			pops, err := parseScript(script)
			if err != nil {
				return false, err
			}
			vm.scripts = append(vm.scripts, pops)
			vm.rawScripts = append(vm.rawScripts, script)

			// Set stack to be the stack from first script minus the
			// script itself
			vm.SetStack(vm.savedFirstStack[:len(vm.savedFirstStack)-1])

		default:
			vm.scriptIdx++
		}

		// There are zero length scripts in the wild.
		if vm.scriptIdx < len(vm.scripts) &&
			vm.opcodeIdx >= len(vm.scripts[vm.scriptIdx]) {

			vm.scriptIdx++
		}
		if vm.scriptIdx >= len(vm.scripts) {
			return true, nil
		}
	}
	return false, nil
}

// Execute will execute all scripts in the script engine and return either nil
// for successful validation or an error if one occurred.  Failed opcodes are
// reported through an Error whose Opcode field names them.
func (vm *Engine) Execute() (err error) {
	done := false
	for !done {
		log.Tracef("%v", newLogClosure(func() string {
			dis, err := vm.DisasmPC()
			if err != nil {
				return fmt.Sprintf("stepping (%v)", err)
			}
			return fmt.Sprintf("stepping %v", dis)
		}))

		done, err = vm.Step()
		if err != nil {
			return err
		}
		log.Tracef("%v", newLogClosure(func() string {
			var dstr, astr string

			// Log the non-empty stacks when tracing.
			if vm.dstack.Depth() != 0 {
				dstr = "Stack:\n" + vm.dstack.String()
			}
			if vm.astack.Depth() != 0 {
				astr = "AltStack:\n" + vm.astack.String()
			}

			return dstr + astr
		}))
	}

	return vm.CheckErrorCondition(true)
}

// subScript returns the raw script since the last OP_CODESEPARATOR.
func (vm *Engine) subScript() []byte {
	return vm.rawScripts[vm.scriptIdx][vm.lastCodeSep:]
}

// checkHashTypeEncoding returns whether or not the passed hashtype adheres to
// the strict encoding requirements if enabled.
func (vm *Engine) checkHashTypeEncoding(hashType bchscript.SigHashType) error {
	if vm.hasFlag(ScriptEnableSigHashForkID) && !hashType.HasForkID() {
		str := fmt.Sprintf("hash type %v does not use the fork id",
			hashType)
		return scriptError(ErrMustUseForkID, str)
	}

	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	sigHashType := hashType &
		^(bchscript.SigHashAnyOneCanPay | bchscript.SigHashForkID)
	if sigHashType < bchscript.SigHashAll ||
		sigHashType > bchscript.SigHashSingle {

		str := fmt.Sprintf("invalid hash type 0x%x", uint32(hashType))
		return scriptError(ErrInvalidSigHashType, str)
	}
	return nil
}

// checkPubKeyEncoding returns whether or not the passed public key adheres to
// the strict encoding requirements if enabled.
func (vm *Engine) checkPubKeyEncoding(pubKey []byte) error {
	if len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03) {
		// Compressed
		return nil
	}
	if vm.hasFlag(ScriptVerifyCompressedPubKey) {
		str := "only compressed keys are accepted"
		return scriptError(ErrPubKeyType, str)
	}
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}
	if len(pubKey) == 65 && pubKey[0] == 0x04 {
		// Uncompressed
		return nil
	}

	return scriptError(ErrPubKeyType, "unsupported public key type")
}

// checkSignatureEncoding returns whether or not the passed signature adheres to
// the strict encoding requirements if enabled.  The signature must not carry
// a hash type byte.
func (vm *Engine) checkSignatureEncoding(sig []byte) error {
	if !vm.hasFlag(ScriptVerifyDERSignatures) &&
		!vm.hasFlag(ScriptVerifyLowS) &&
		!vm.hasFlag(ScriptVerifyStrictEncoding) {

		return nil
	}

	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence
	//   - Total length is 1 byte and specifies length of all remaining data
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows
	//   - Length of R is 1 byte and specifies how many bytes R occupies
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier
	//   - Length of S is 1 byte and specifies how many bytes S occupies
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those for R.
	const (
		asn1SequenceID = 0x30
		asn1IntegerID  = 0x02

		// minSigLen is the minimum length of a DER encoded signature and
		// is when both R and S are 1 byte each.
		//
		// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
		minSigLen = 8

		// maxSigLen is the maximum length of a DER encoded signature and
		// is when both R and S are 33 bytes each.  It is 33 bytes
		// because a 256-bit integer requires 32 bytes and an additional
		// leading null byte might be required if the high bit is set in
		// the value.
		//
		// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 +
		// <33 bytes>
		maxSigLen = 72
	)

	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d",
			sigLen, minSigLen)
		return scriptError(ErrSigTooShort, str)
	}
	if sigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d",
			sigLen, maxSigLen)
		return scriptError(ErrSigTooLong, str)
	}

	invalid := func(reason string) error {
		return scriptError(ErrSigInvalidEncoding,
			"malformed signature: "+reason)
	}

	if sig[0] != asn1SequenceID {
		return invalid(fmt.Sprintf("format has wrong type: %#x",
			sig[0]))
	}
	if int(sig[1]) != sigLen-2 {
		return invalid(fmt.Sprintf("bad length: %d != %d", sig[1],
			sigLen-2))
	}

	rLen := int(sig[3])

	// Make sure S is inside the signature.
	if rLen+5 > sigLen {
		return invalid("S out of bounds")
	}

	sLen := int(sig[rLen+5])

	// The length of the elements does not match the length of the
	// signature.
	if rLen+sLen+6 != sigLen {
		return invalid("invalid R length")
	}

	// R elements must be integers.
	if sig[2] != asn1IntegerID {
		return invalid("missing first integer marker")
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		return invalid("R length is zero")
	}

	// R must not be negative.
	if sig[4]&0x80 != 0 {
		return invalid("R value is negative")
	}

	// Null bytes at the start of R are not allowed, unless R would
	// otherwise be interpreted as a negative number.
	if rLen > 1 && sig[4] == 0x00 && sig[5]&0x80 == 0 {
		return invalid("invalid R value")
	}

	// S elements must be integers.
	if sig[rLen+4] != asn1IntegerID {
		return invalid("missing second integer marker")
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		return invalid("S length is zero")
	}

	// S must not be negative.
	if sig[rLen+6]&0x80 != 0 {
		return invalid("S value is negative")
	}

	// Null bytes at the start of S are not allowed, unless S would
	// otherwise be interpreted as a negative number.
	if sLen > 1 && sig[rLen+6] == 0x00 && sig[rLen+7]&0x80 == 0 {
		return invalid("invalid S value")
	}

	// Verify the S value is <= half the order of the curve.
	if vm.hasFlag(ScriptVerifyLowS) {
		sValue := new(big.Int).SetBytes(sig[rLen+6 : rLen+6+sLen])
		if sValue.Cmp(halfOrder) > 0 {
			return scriptError(ErrSigHighS, "signature is not "+
				"canonical due to unnecessarily high S value")
		}
	}

	return nil
}

// verifySignature checks an already encoding-checked signature of hash by the
// public key, consulting the signature cache when one is configured.
func (vm *Engine) verifySignature(hash, sigBytes, pkBytes []byte) bool {
	var sigHash chainhash.Hash
	copy(sigHash[:], hash)
	if vm.sigCache != nil && vm.sigCache.Exists(sigHash, sigBytes, pkBytes) {
		return true
	}

	pubKey, err := btcec.ParsePubKey(pkBytes)
	if err != nil {
		return false
	}

	var signature *ecdsa.Signature
	if vm.hasFlag(ScriptVerifyStrictEncoding) ||
		vm.hasFlag(ScriptVerifyDERSignatures) {

		signature, err = ecdsa.ParseDERSignature(sigBytes)
	} else {
		signature, err = ecdsa.ParseSignature(sigBytes)
	}
	if err != nil {
		return false
	}

	if !signature.Verify(hash, pubKey) {
		return false
	}
	if vm.sigCache != nil {
		vm.sigCache.Add(sigHash, sigBytes, pkBytes)
	}
	return true
}

// checkNullFail enforces that a failed signature check was given an empty
// signature when the null fail flag is set.
func (vm *Engine) checkNullFail(valid bool, sig []byte) error {
	if !valid && vm.hasFlag(ScriptVerifyNullFail) && len(sig) > 0 {
		str := "signature not empty on failed checksig"
		return scriptError(ErrNullFail, str)
	}
	return nil
}

// checkTxSig verifies a transaction signature, whose final byte is the hash
// type, against the fork id signature hash of the input being executed.
func (vm *Engine) checkTxSig(fullSigBytes, pkBytes []byte) (bool, error) {
	// An empty signature is a valid way to fail a signature check.
	if len(fullSigBytes) == 0 {
		return false, nil
	}

	hashType := bchscript.SigHashType(fullSigBytes[len(fullSigBytes)-1])
	sigBytes := fullSigBytes[:len(fullSigBytes)-1]
	if err := vm.checkHashTypeEncoding(hashType); err != nil {
		return false, err
	}
	if err := vm.checkSignatureEncoding(sigBytes); err != nil {
		return false, err
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return false, err
	}
	if !hashType.HasForkID() {
		str := fmt.Sprintf("hash type %v without the fork id is not "+
			"supported", hashType)
		return false, scriptError(ErrInvalidSigHashType, str)
	}

	hash, err := bchscript.CalcSignatureHash(&vm.tx, vm.txIdx,
		vm.subScript(), hashType, vm.prevOuts)
	switch {
	case bchscript.IsErrorCode(err, bchscript.ErrMissingInputAmount):
		return false, scriptError(ErrMissingInputAmount, err.Error())
	case err != nil:
		return false, scriptError(ErrInvalidSigHashType, err.Error())
	}

	valid := vm.verifySignature(hash, sigBytes, pkBytes)
	if err := vm.checkNullFail(valid, fullSigBytes); err != nil {
		return false, err
	}
	return valid, nil
}

// checkDataSig verifies a signature of the SHA-256 digest of an arbitrary
// message.  The signature carries no hash type byte.
func (vm *Engine) checkDataSig(sigBytes, message, pkBytes []byte) (bool, error) {
	if len(sigBytes) == 0 {
		return false, nil
	}
	if err := vm.checkSignatureEncoding(sigBytes); err != nil {
		return false, err
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return false, err
	}

	valid := vm.verifySignature(chainhash.HashB(message), sigBytes, pkBytes)
	if err := vm.checkNullFail(valid, sigBytes); err != nil {
		return false, err
	}
	return valid, nil
}

// getStack returns the contents of stack as a byte array bottom up
func getStack(stack *stack) [][]byte {
	array := make([][]byte, stack.Depth())
	for i := range array {
		// PeekByteArray can't fail due to overflow, already checked
		array[len(array)-i-1], _ = stack.PeekByteArray(int32(i))
	}
	return array
}

// setStack sets the stack to the contents of the array where the last item in
// the array is the top item in the stack.
func setStack(stack *stack, data [][]byte) {
	stack.stk = stack.stk[:0]
	for i := range data {
		stack.PushByteArray(data[i])
	}
}

// GetStack returns the contents of the primary stack as an array. where the
// last item in the array is the top of the stack.
func (vm *Engine) GetStack() [][]byte {
	return getStack(&vm.dstack)
}

// SetStack sets the contents of the primary stack to the contents of the
// provided array where the last item in the array will be the top of the stack.
func (vm *Engine) SetStack(data [][]byte) {
	setStack(&vm.dstack, data)
}

// GetAltStack returns the contents of the alternate stack as an array where
// the last item in the array is the top of the stack.
func (vm *Engine) GetAltStack() [][]byte {
	return getStack(&vm.astack)
}

// parseScript parses a raw script and converts parse failures into engine
// errors.
func parseScript(script []byte) ([]bchscript.ParsedOpcode, error) {
	if len(script) > MaxScriptSize {
		str := fmt.Sprintf("script size %d is larger than max allowed "+
			"size %d", len(script), MaxScriptSize)
		return nil, scriptError(ErrScriptTooBig, str)
	}
	pops, err := bchscript.ParseScript(script)
	if err != nil {
		return nil, scriptError(ErrMalformedPush, err.Error())
	}
	return pops, nil
}

// isScriptHash returns whether the parsed script is a pay-to-script-hash
// output script: OP_HASH160 <20 bytes> OP_EQUAL.
func isScriptHash(pops []bchscript.ParsedOpcode) bool {
	return len(pops) == 3 &&
		pops[0].Opcode == bchscript.OP_HASH160 &&
		pops[1].Opcode == bchscript.OP_DATA_20 &&
		len(pops[1].Data) == 20 &&
		pops[2].Opcode == bchscript.OP_EQUAL
}

// NewEngine returns a new script engine for the provided public key script,
// transaction, and input index.  The flags modify the behavior of the script
// engine according to the description provided by each flag.  The sigCache
// may be nil.  The prevOuts fetcher supplies the amount spent by the input,
// which every signature check commits to.
func NewEngine(scriptPubKey []byte, tx *wire.MsgTx, txIdx int,
	flags ScriptFlags, sigCache *SigCache,
	prevOuts txscript.PrevOutputFetcher) (*Engine, error) {

	// The provided transaction input index must refer to a valid input.
	if txIdx < 0 || txIdx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is negative or "+
			">= %d", txIdx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidIndex, str)
	}
	scriptSig := tx.TxIn[txIdx].SignatureScript

	// When both the signature script and public key script are empty the
	// result is necessarily an error since the stack would end up being
	// empty which is equivalent to a false top element.
	if len(scriptSig) == 0 && len(scriptPubKey) == 0 {
		return nil, scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}

	// The clean stack flag is not allowed without the pay-to-script-hash
	// (P2SH) evaluation flag.
	vm := Engine{flags: flags, sigCache: sigCache, prevOuts: prevOuts}
	if vm.hasFlag(ScriptVerifyCleanStack) && !vm.hasFlag(ScriptBip16) {
		return nil, scriptError(ErrInvalidFlags,
			"invalid flags combination")
	}

	// The signature script must only contain data pushes when the
	// associated flag is set.
	if vm.hasFlag(ScriptVerifySigPushOnly) &&
		!bchscript.IsPushOnlyScript(scriptSig) {

		return nil, scriptError(ErrNotPushOnly,
			"signature script is not push only")
	}

	scripts := [][]byte{scriptSig, scriptPubKey}
	vm.scripts = make([][]bchscript.ParsedOpcode, len(scripts))
	vm.rawScripts = make([][]byte, len(scripts))
	for i, scr := range scripts {
		pops, err := parseScript(scr)
		if err != nil {
			return nil, err
		}
		vm.scripts[i] = pops
		vm.rawScripts[i] = scr
	}

	// Advance the program counter to the public key script if the signature
	// script is empty since there is nothing to execute for it in that case.
	if len(scriptSig) == 0 {
		vm.scriptIdx++
	}

	if vm.hasFlag(ScriptBip16) && isScriptHash(vm.scripts[1]) {
		// Only accept input scripts that push data for P2SH.
		if !bchscript.IsPushOnlyScript(scriptSig) {
			return nil, scriptError(ErrNotPushOnly,
				"pay to script hash is not push only")
		}
		vm.bip16 = true
	}

	numLen := bchscript.DefaultScriptNumLen
	if vm.hasFlag(ScriptEnable64BitIntegers) {
		numLen = bchscript.MaxScriptNumLen
	}
	vm.dstack.numLen = numLen
	vm.astack.numLen = numLen
	if vm.hasFlag(ScriptVerifyMinimalData) {
		vm.dstack.verifyMinimalData = true
		vm.astack.verifyMinimalData = true
	}

	vm.tx = *tx
	vm.txIdx = txIdx

	return &vm, nil
}
