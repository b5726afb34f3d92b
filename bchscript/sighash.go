// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bchscript

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType uint32

// Hash type bits from the end of a signature.
const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashForkID       SigHashType = 0x40
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask defines the number of bits of the hash type which is used
	// to identify which outputs are signed.
	sigHashMask = 0x1f
)

// DefaultSigHashType is the hash type used for every Bitcoin Cash signature
// unless told otherwise.
const DefaultSigHashType = SigHashAll | SigHashForkID

// HasAnyOneCanPay returns whether the hash type only commits to the input
// being signed.
func (t SigHashType) HasAnyOneCanPay() bool {
	return t&SigHashAnyOneCanPay == SigHashAnyOneCanPay
}

// HasForkID returns whether the hash type carries the replay protected fork
// id flag.
func (t SigHashType) HasForkID() bool {
	return t&SigHashForkID == SigHashForkID
}

// String returns the hash type in the form used by script disassemblers.
func (t SigHashType) String() string {
	var base string
	switch t & sigHashMask {
	case SigHashAll:
		base = "ALL"
	case SigHashNone:
		base = "NONE"
	case SigHashSingle:
		base = "SINGLE"
	default:
		return fmt.Sprintf("0x%02x", uint32(t))
	}
	if t.HasForkID() {
		base += "|FORKID"
	}
	if t.HasAnyOneCanPay() {
		base += "|ANYONECANPAY"
	}
	return base
}

// Preimage is the BIP143 style signature hash preimage used by Bitcoin Cash
// with the fork id flag.  The double SHA-256 of its serialization is the digest
// signed by OP_CHECKSIG, and the serialization itself is what a covenant
// unlocking script discloses so the locking script can inspect it.
//
// Besides the committed fields, the raw buffers that were hashed into
// HashPrevouts, HashSequence and HashOutputs are kept so callers can disclose
// them alongside the preimage.
type Preimage struct {
	Version      int32
	HashPrevouts chainhash.Hash
	HashSequence chainhash.Hash
	OutPoint     wire.OutPoint
	ScriptCode   []byte
	InputAmount  int64
	Sequence     uint32
	HashOutputs  chainhash.Hash
	LockTime     uint32
	HashType     SigHashType

	Prevouts  []byte
	Sequences []byte
	Outputs   []byte
}

// serializePrevouts returns every input's outpoint, txid in internal byte
// order followed by the little endian output index.
func serializePrevouts(tx *wire.MsgTx) []byte {
	var b bytes.Buffer
	for _, in := range tx.TxIn {
		b.Write(in.PreviousOutPoint.Hash[:])

		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], in.PreviousOutPoint.Index)
		b.Write(buf[:])
	}
	return b.Bytes()
}

// serializeSequences returns the little endian sequence number of every input.
func serializeSequences(tx *wire.MsgTx) []byte {
	var b bytes.Buffer
	for _, in := range tx.TxIn {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], in.Sequence)
		b.Write(buf[:])
	}
	return b.Bytes()
}

// SerializeOutputs returns the wire encoding of every output in the
// transaction, which is the buffer committed to by hashOutputs.
func SerializeOutputs(txOuts []*wire.TxOut) []byte {
	var b bytes.Buffer
	for _, out := range txOuts {
		// Writes to a bytes.Buffer cannot fail.
		_ = wire.WriteTxOut(&b, 0, 0, out)
	}
	return b.Bytes()
}

// NewPreimage builds the signature hash preimage for input idx of tx.  The
// scriptCode is the script being satisfied, which for pay-to-script-hash
// outputs is the redeem script.  The amount spent by the input is looked up
// through prevOuts; ErrMissingInputAmount is returned when it is unknown.
//
// Only the ALL hash type is supported, optionally combined with FORKID and
// ANYONECANPAY.
func NewPreimage(tx *wire.MsgTx, idx int, scriptCode []byte,
	hashType SigHashType, prevOuts txscript.PrevOutputFetcher) (*Preimage, error) {

	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is out of range "+
			"for %d inputs", idx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidIndex, str)
	}
	if hashType&sigHashMask != SigHashAll {
		str := fmt.Sprintf("signature hash type %v is not supported",
			hashType)
		return nil, scriptError(ErrUnsupportedSigHash, str)
	}

	txIn := tx.TxIn[idx]
	var prevOut *wire.TxOut
	if prevOuts != nil {
		prevOut = prevOuts.FetchPrevOutput(txIn.PreviousOutPoint)
	}
	if prevOut == nil {
		str := fmt.Sprintf("amount spent by input %d (%v) is unknown",
			idx, txIn.PreviousOutPoint)
		return nil, scriptError(ErrMissingInputAmount, str)
	}

	p := &Preimage{
		Version:     tx.Version,
		OutPoint:    txIn.PreviousOutPoint,
		ScriptCode:  scriptCode,
		InputAmount: prevOut.Value,
		Sequence:    txIn.Sequence,
		LockTime:    tx.LockTime,
		HashType:    hashType,
		Outputs:     SerializeOutputs(tx.TxOut),
	}

	// With ANYONECANPAY the signature only commits to this input, so the
	// other inputs may change freely and both aggregate hashes are zero.
	if !hashType.HasAnyOneCanPay() {
		p.Prevouts = serializePrevouts(tx)
		p.Sequences = serializeSequences(tx)
		p.HashPrevouts = chainhash.DoubleHashH(p.Prevouts)
		p.HashSequence = chainhash.DoubleHashH(p.Sequences)
	}
	p.HashOutputs = chainhash.DoubleHashH(p.Outputs)

	return p, nil
}

// Bytes serializes the preimage in consensus order:
//
//	version(4) | hashPrevouts(32) | hashSequence(32) | outpoint(36) |
//	varint len | scriptCode | amount(8) | sequence(4) | hashOutputs(32) |
//	locktime(4) | sighash type(4)
func (p *Preimage) Bytes() []byte {
	var b bytes.Buffer
	b.Grow(156 + len(p.ScriptCode) + wire.VarIntSerializeSize(
		uint64(len(p.ScriptCode))))

	var bVersion [4]byte
	binary.LittleEndian.PutUint32(bVersion[:], uint32(p.Version))
	b.Write(bVersion[:])

	b.Write(p.HashPrevouts[:])
	b.Write(p.HashSequence[:])

	b.Write(p.OutPoint.Hash[:])
	var bIndex [4]byte
	binary.LittleEndian.PutUint32(bIndex[:], p.OutPoint.Index)
	b.Write(bIndex[:])

	// Writes to a bytes.Buffer cannot fail.
	_ = wire.WriteVarBytes(&b, 0, p.ScriptCode)

	var bAmount [8]byte
	binary.LittleEndian.PutUint64(bAmount[:], uint64(p.InputAmount))
	b.Write(bAmount[:])

	var bSequence [4]byte
	binary.LittleEndian.PutUint32(bSequence[:], p.Sequence)
	b.Write(bSequence[:])

	b.Write(p.HashOutputs[:])

	var bLockTime [4]byte
	binary.LittleEndian.PutUint32(bLockTime[:], p.LockTime)
	b.Write(bLockTime[:])

	var bHashType [4]byte
	binary.LittleEndian.PutUint32(bHashType[:], uint32(p.HashType))
	b.Write(bHashType[:])

	return b.Bytes()
}

// SigHash returns the double SHA-256 of the serialized preimage, which is the
// message digest signed by ECDSA.
func (p *Preimage) SigHash() []byte {
	return chainhash.DoubleHashB(p.Bytes())
}

// CalcSignatureHash computes the signature hash for input idx of tx.  It is a
// convenience wrapper around NewPreimage and SigHash.
func CalcSignatureHash(tx *wire.MsgTx, idx int, scriptCode []byte,
	hashType SigHashType, prevOuts txscript.PrevOutputFetcher) ([]byte, error) {

	p, err := NewPreimage(tx, idx, scriptCode, hashType, prevOuts)
	if err != nil {
		return nil, err
	}
	return p.SigHash(), nil
}
