// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import "strings"

// ScriptFlags is a bitmask defining additional operations or tests that will
// be done when executing a script pair.
type ScriptFlags uint32

const (
	// ScriptBip16 defines whether the bip16 threshold has passed and thus
	// pay-to-script hash transactions will be fully validated.
	ScriptBip16 ScriptFlags = 1 << iota

	// ScriptVerifyCheckLockTimeVerify defines whether to verify that a
	// transaction output is spendable based on the locktime.  Without it
	// OP_CHECKLOCKTIMEVERIFY behaves as OP_NOP2.
	ScriptVerifyCheckLockTimeVerify

	// ScriptVerifyCleanStack defines that the stack must contain only one
	// stack element after evaluation and that the element must be true if
	// interpreted as a boolean.  This flag should never be used without
	// the ScriptBip16 flag.
	ScriptVerifyCleanStack

	// ScriptVerifyDERSignatures defines that signatures are required to
	// comply with the DER format.
	ScriptVerifyDERSignatures

	// ScriptVerifyLowS defines that signatures are required to comply with
	// the DER format and whose S value is <= order / 2.
	ScriptVerifyLowS

	// ScriptVerifyMinimalData defines that pushes must use the smallest
	// push operator and numeric operands must be minimally encoded.
	ScriptVerifyMinimalData

	// ScriptVerifySigPushOnly defines that signature scripts must contain
	// only pushed data.
	ScriptVerifySigPushOnly

	// ScriptVerifyStrictEncoding defines that signatures, their hash type
	// and public keys must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding

	// ScriptVerifyCompressedPubKey defines that public keys used in
	// signature checks must be 33 byte compressed keys.
	ScriptVerifyCompressedPubKey

	// ScriptVerifyNullFail defines that signatures must be empty when a
	// signature check fails.
	ScriptVerifyNullFail

	// ScriptEnableSigHashForkID defines that signatures must carry the
	// fork id hash type bit and are checked against the replay protected
	// digest.
	ScriptEnableSigHashForkID

	// ScriptEnableCheckDataSig enables OP_CHECKDATASIG and
	// OP_CHECKDATASIGVERIFY.  Without it both opcodes are invalid.
	ScriptEnableCheckDataSig

	// ScriptEnable64BitIntegers allows numeric operands of up to eight
	// bytes instead of four.
	ScriptEnable64BitIntegers
)

const (
	// baseFlags are the rules every contract spend is checked against.
	baseFlags = ScriptBip16 |
		ScriptVerifyDERSignatures |
		ScriptVerifyStrictEncoding |
		ScriptVerifyCompressedPubKey |
		ScriptVerifyLowS |
		ScriptVerifyNullFail |
		ScriptVerifySigPushOnly |
		ScriptVerifyCleanStack |
		ScriptEnableSigHashForkID |
		ScriptEnableCheckDataSig |
		ScriptEnable64BitIntegers

	// StandardP2SHFlags are the flags used to verify spends of escrow
	// contracts and plain pay-to-pubkey-hash outputs.
	StandardP2SHFlags = baseFlags |
		ScriptVerifyMinimalData |
		ScriptVerifyCheckLockTimeVerify

	// LockTimeP2SHFlags are the flags used to verify spends of threshold
	// and covenant contracts.  Minimal data is not enforced since oracle
	// messages carry zero padded numbers that are compared directly.
	LockTimeP2SHFlags = baseFlags |
		ScriptVerifyCheckLockTimeVerify
)

// flagNames maps each flag to the name used when printing a flag set.
var flagNames = []struct {
	flag ScriptFlags
	name string
}{
	{ScriptBip16, "P2SH"},
	{ScriptVerifyCheckLockTimeVerify, "CHECKLOCKTIMEVERIFY"},
	{ScriptVerifyCleanStack, "CLEANSTACK"},
	{ScriptVerifyDERSignatures, "DERSIG"},
	{ScriptVerifyLowS, "LOW_S"},
	{ScriptVerifyMinimalData, "MINIMALDATA"},
	{ScriptVerifySigPushOnly, "SIGPUSHONLY"},
	{ScriptVerifyStrictEncoding, "STRICTENC"},
	{ScriptVerifyCompressedPubKey, "COMPRESSED_PUBKEYTYPE"},
	{ScriptVerifyNullFail, "NULLFAIL"},
	{ScriptEnableSigHashForkID, "SIGHASH_FORKID"},
	{ScriptEnableCheckDataSig, "CHECKDATASIG"},
	{ScriptEnable64BitIntegers, "64_BIT_INTEGERS"},
}

// String returns the set flags joined by commas.
func (f ScriptFlags) String() string {
	var s string
	for _, fn := range flagNames {
		if f&fn.flag != fn.flag {
			continue
		}
		if s != "" {
			s += ","
		}
		s += fn.name
	}
	return s
}

// ParseScriptFlags converts a comma separated list of flag names, as produced
// by String, back into a flag set.
func ParseScriptFlags(s string) (ScriptFlags, error) {
	var flags ScriptFlags
	if s == "" {
		return flags, nil
	}
	for _, name := range strings.Split(s, ",") {
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				flags |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, scriptError(ErrInvalidFlags,
				"unknown script flag "+name)
		}
	}
	return flags, nil
}
