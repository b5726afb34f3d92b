// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/jetonlabs/jeton/bchscript"
)

// anyPush matches any push opcode in a pattern.
const anyPush = -1

// matchAt reports whether the opcodes starting at index i match the pattern.
// Pattern entries are opcode values or anyPush.
func matchAt(pops []bchscript.ParsedOpcode, i int, pattern ...int) bool {
	if i < 0 || i+len(pattern) > len(pops) {
		return false
	}
	for j, want := range pattern {
		pop := &pops[i+j]
		if want == anyPush {
			if !pop.IsPush() {
				return false
			}
			continue
		}
		if pop.Opcode != byte(want) {
			return false
		}
	}
	return true
}

// findAll returns every index at which the pattern matches.
func findAll(pops []bchscript.ParsedOpcode, pattern ...int) []int {
	var idxs []int
	for i := range pops {
		if matchAt(pops, i, pattern...) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// findFirst returns the first index at which the pattern matches or -1.
func findFirst(pops []bchscript.ParsedOpcode, pattern ...int) int {
	for i := range pops {
		if matchAt(pops, i, pattern...) {
			return i
		}
	}
	return -1
}

// pushed returns a copy of the bytes pushed by a push opcode.
func pushed(pop *bchscript.ParsedOpcode) []byte {
	data, _ := pop.PushedBytes()
	return append([]byte(nil), data...)
}

// pushedPubKey parses the public key pushed by a push opcode.
func pushedPubKey(pop *bchscript.ParsedOpcode) (*btcec.PublicKey, error) {
	pk, err := btcec.ParsePubKey(pushed(pop))
	if err != nil {
		str := fmt.Sprintf("invalid public key at offset %d: %v",
			pop.Offset, err)
		return nil, contractError(ErrUnrecognizedScript, str)
	}
	return pk, nil
}

// pushedHash reads the 20-byte hash pushed by a push opcode.
func pushedHash(pop *bchscript.ParsedOpcode) ([20]byte, error) {
	var h [20]byte
	data := pushed(pop)
	if len(data) != len(h) {
		str := fmt.Sprintf("push at offset %d is %d bytes, want a "+
			"20-byte hash", pop.Offset, len(data))
		return h, contractError(ErrUnrecognizedScript, str)
	}
	copy(h[:], data)
	return h, nil
}

// parseScript disassembles a script for one of the parsers.
func parseScript(kind Kind, script []byte) ([]bchscript.ParsedOpcode, error) {
	pops, err := bchscript.ParseScript(script)
	if err != nil {
		str := fmt.Sprintf("unable to parse %v script: %v", kind, err)
		return nil, contractError(ErrUnrecognizedScript, str)
	}
	return pops, nil
}

// unrecognized returns the error for a script missing the pattern of kind.
func unrecognized(kind Kind, what string) error {
	str := fmt.Sprintf("script is not a %v contract: %s", kind, what)
	return contractError(ErrUnrecognizedScript, str)
}

// ParseEscrow recovers the escrow terms from a compiled escrow script.  The
// result compiles to the same script.
func ParseEscrow(script []byte) (*Escrow, error) {
	pops, err := parseScript(KindEscrow, script)
	if err != nil {
		return nil, err
	}

	// OP_DROP <msg> <referee> OP_CHECKDATASIGVERIFY OP_DUP OP_HASH160 <pkh>
	branches := findAll(pops, bchscript.OP_DROP, anyPush, anyPush,
		bchscript.OP_CHECKDATASIGVERIFY, bchscript.OP_DUP,
		bchscript.OP_HASH160, anyPush)
	if len(branches) == 0 {
		return nil, unrecognized(KindEscrow, "no party branches")
	}

	var referee *btcec.PublicKey
	parties := make([]Party, 0, len(branches))
	for _, i := range branches {
		pk, err := pushedPubKey(&pops[i+2])
		if err != nil {
			return nil, err
		}
		if referee != nil && !referee.IsEqual(pk) {
			return nil, unrecognized(KindEscrow,
				"branches name different referees")
		}
		referee = pk

		hash, err := pushedHash(&pops[i+6])
		if err != nil {
			return nil, err
		}
		parties = append(parties, Party{
			Message:    pushed(&pops[i+1]),
			PubKeyHash: hash,
		})
	}

	return NewEscrow(referee, parties)
}

// ParseThreshold recovers the threshold terms from a compiled threshold
// script.  The result compiles to the same script.
func ParseThreshold(script []byte) (*Threshold, error) {
	pops, err := parseScript(KindThreshold, script)
	if err != nil {
		return nil, err
	}

	if !matchAt(pops, 0, bchscript.OP_DUP, bchscript.OP_4,
		bchscript.OP_SPLIT, bchscript.OP_SWAP) {

		return nil, unrecognized(KindThreshold, "no message split")
	}

	var unlockHeight int64
	if matchAt(pops, 4, bchscript.OP_DUP, anyPush,
		bchscript.OP_GREATERTHANOREQUAL, bchscript.OP_VERIFY) {

		unlockHeight, err = pops[5].Int64(bchscript.DefaultScriptNumLen)
		if err != nil {
			return nil, contractError(ErrUnrecognizedScript, err.Error())
		}
	}

	i := findFirst(pops, bchscript.OP_CHECKLOCKTIMEVERIFY, bchscript.OP_DROP,
		anyPush, bchscript.OP_LESSTHANOREQUAL)
	if i < 0 {
		return nil, unrecognized(KindThreshold, "no value comparison")
	}
	value, err := pops[i+2].Int64(oracleFieldLen)
	if err != nil {
		return nil, contractError(ErrUnrecognizedScript, err.Error())
	}

	// OP_IF <lte> OP_EQUALVERIFY OP_ELSE <gt> OP_EQUALVERIFY OP_ENDIF
	// <oracle> OP_CHECKDATASIGVERIFY OP_CHECKSIG
	j := findFirst(pops, bchscript.OP_IF, anyPush, bchscript.OP_EQUALVERIFY,
		bchscript.OP_ELSE, anyPush, bchscript.OP_EQUALVERIFY,
		bchscript.OP_ENDIF, anyPush, bchscript.OP_CHECKDATASIGVERIFY,
		bchscript.OP_CHECKSIG)
	if j < 0 {
		return nil, unrecognized(KindThreshold, "no party branches")
	}
	lte, err := pushedHash(&pops[j+1])
	if err != nil {
		return nil, err
	}
	gt, err := pushedHash(&pops[j+4])
	if err != nil {
		return nil, err
	}
	oracle, err := pushedPubKey(&pops[j+7])
	if err != nil {
		return nil, err
	}

	return NewThreshold(oracle, value, Party{PubKeyHash: lte},
		Party{PubKeyHash: gt}, unlockHeight)
}

// readOutputScript reads a var int length prefixed output script.
func readOutputScript(r *bytes.Reader) ([]byte, error) {
	return wire.ReadVarBytes(r, 0, txscript.MaxScriptSize, "pkScript")
}

// ParseCovenant recovers the covenant terms from a compiled covenant script.
// The result compiles to the same script.  Pro rata covenants do not commit
// to amounts, so their outputs are returned with a zero Value.
func ParseCovenant(script []byte) (*Covenant, error) {
	pops, err := parseScript(KindCovenant, script)
	if err != nil {
		return nil, err
	}

	start := findFirst(pops, bchscript.OP_2DUP, bchscript.OP_CHECKSIGVERIFY,
		bchscript.OP_SWAP, bchscript.OP_SIZE, bchscript.OP_1SUB,
		bchscript.OP_SPLIT)
	if start < 0 {
		return nil, unrecognized(KindCovenant, "no signature check")
	}

	// Everything before the signature check is the signer chain.
	var signers []*btcec.PublicKey
	for i := 0; i < start; i++ {
		switch {
		case pops[i].Opcode == bchscript.OP_CHECKSIGVERIFY:
		case pops[i].IsPush():
			pk, err := pushedPubKey(&pops[i])
			if err != nil {
				return nil, err
			}
			signers = append(signers, pk)
		default:
			return nil, unrecognized(KindCovenant,
				"unexpected opcode in signer chain")
		}
	}

	// <ratio> OP_BIN2NUM OP_MOD
	var ratios []int64
	for _, i := range findAll(pops, anyPush, bchscript.OP_BIN2NUM,
		bchscript.OP_MOD) {

		ratio, err := pops[i].Int64(bchscript.MaxScriptNumLen)
		if err != nil {
			return nil, contractError(ErrUnrecognizedScript, err.Error())
		}
		ratios = append(ratios, ratio)
	}

	var outputs []OutputCommitment
	if len(ratios) > 0 {
		// OP_TOALTSTACK <varint len | script> OP_SIZE
		for _, i := range findAll(pops, bchscript.OP_TOALTSTACK,
			anyPush, bchscript.OP_SIZE) {

			pkScript, err := readOutputScript(bytes.NewReader(
				pushed(&pops[i+1])))
			if err != nil {
				str := fmt.Sprintf("malformed output commitment: %v",
					err)
				return nil, contractError(ErrUnrecognizedScript, str)
			}
			outputs = append(outputs, OutputCommitment{PkScript: pkScript})
		}
	} else {
		// <output> OP_SIZE OP_ROT OP_SWAP OP_SPLIT OP_SWAP OP_ROT
		// OP_EQUALVERIFY
		for _, i := range findAll(pops, anyPush, bchscript.OP_SIZE,
			bchscript.OP_ROT, bchscript.OP_SWAP, bchscript.OP_SPLIT,
			bchscript.OP_SWAP, bchscript.OP_ROT,
			bchscript.OP_EQUALVERIFY) {

			out, err := readOutputCommitment(pushed(&pops[i]))
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, out)
		}
	}
	if len(outputs) == 0 {
		return nil, unrecognized(KindCovenant, "no output commitments")
	}

	return NewCovenant(signers, outputs, ratios)
}

// readOutputCommitment decodes a serialized output.
func readOutputCommitment(b []byte) (OutputCommitment, error) {
	if len(b) < amountLen+1 {
		str := fmt.Sprintf("output commitment is only %d bytes", len(b))
		return OutputCommitment{}, contractError(ErrUnrecognizedScript, str)
	}
	value := int64(binary.LittleEndian.Uint64(b[:amountLen]))
	pkScript, err := readOutputScript(bytes.NewReader(b[amountLen:]))
	if err != nil {
		str := fmt.Sprintf("malformed output commitment: %v", err)
		return OutputCommitment{}, contractError(ErrUnrecognizedScript, str)
	}
	return OutputCommitment{PkScript: pkScript, Value: value}, nil
}

// DetectKind guesses the template of a compiled script from the opcodes it
// uses.  Covenants are the only template ending in OP_CHECKDATASIG and
// threshold contracts the only one using OP_CHECKLOCKTIMEVERIFY.
func DetectKind(script []byte) Kind {
	pops, err := bchscript.ParseScript(script)
	if err != nil || len(pops) == 0 {
		return KindUnknown
	}
	switch {
	case pops[len(pops)-1].Opcode == bchscript.OP_CHECKDATASIG:
		return KindCovenant
	case findFirst(pops, bchscript.OP_CHECKLOCKTIMEVERIFY) >= 0:
		return KindThreshold
	case findFirst(pops, bchscript.OP_CHECKDATASIGVERIFY) >= 0:
		return KindEscrow
	}
	return KindUnknown
}

// ParseOutputScript detects the template of a compiled script and recovers
// its terms.
func ParseOutputScript(script []byte) (OutputScript, error) {
	var (
		parsed OutputScript
		err    error
	)
	switch DetectKind(script) {
	case KindEscrow:
		parsed, err = ParseEscrow(script)
	case KindThreshold:
		parsed, err = ParseThreshold(script)
	case KindCovenant:
		parsed, err = ParseCovenant(script)
	default:
		return nil, contractError(ErrUnrecognizedScript,
			"script does not match any contract template")
	}
	if err != nil {
		return nil, err
	}
	return parsed, nil
}
