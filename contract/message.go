// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/jetonlabs/jeton/bchscript"
)

const (
	// oracleFieldLen is the width of each numeric field of an oracle
	// message.
	oracleFieldLen = 4

	// OracleMessageLen is the size of an encoded oracle message.
	OracleMessageLen = 2 * oracleFieldLen
)

// OracleMessage is the statement an oracle signs to settle a threshold
// contract: the block height it was observed at and the observed value.
type OracleMessage struct {
	BlockHeight int64
	Value       int64
}

// NewOracleMessage returns the message for an observed price.  Prices are
// rounded up to the next integer so a value of 218.01 settles above a
// threshold of 218.
func NewOracleMessage(blockHeight int64, price float64) (OracleMessage, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		str := fmt.Sprintf("price %v is not a number", price)
		return OracleMessage{}, contractError(ErrInvalidMessage, str)
	}
	ceil := math.Ceil(price)
	if ceil > math.MaxInt32 || ceil < -math.MaxInt32 {
		str := fmt.Sprintf("price %v does not fit the oracle message",
			price)
		return OracleMessage{}, contractError(ErrInvalidMessage, str)
	}

	m := OracleMessage{BlockHeight: blockHeight, Value: int64(ceil)}
	if _, err := m.Bytes(); err != nil {
		return OracleMessage{}, err
	}
	return m, nil
}

// Bytes encodes the message as the padded block height followed by the
// padded value, four bytes each.
func (m OracleMessage) Bytes() ([]byte, error) {
	if m.BlockHeight < 0 || m.BlockHeight >= maxLockHeight {
		str := fmt.Sprintf("block height %d is not a valid lock time "+
			"height", m.BlockHeight)
		return nil, contractError(ErrInvalidMessage, str)
	}
	height, err := bchscript.PaddedScriptNum(m.BlockHeight, oracleFieldLen)
	if err != nil {
		return nil, contractError(ErrInvalidMessage, err.Error())
	}
	value, err := bchscript.PaddedScriptNum(m.Value, oracleFieldLen)
	if err != nil {
		return nil, contractError(ErrInvalidMessage, err.Error())
	}

	msg := make([]byte, 0, OracleMessageLen)
	msg = append(msg, height...)
	return append(msg, value...), nil
}

// ParseOracleMessage decodes an 8-byte oracle message.
func ParseOracleMessage(b []byte) (OracleMessage, error) {
	if len(b) != OracleMessageLen {
		str := fmt.Sprintf("oracle message is %d bytes, want %d", len(b),
			OracleMessageLen)
		return OracleMessage{}, contractError(ErrInvalidMessage, str)
	}
	height, err := bchscript.MakeScriptNum(b[:oracleFieldLen], false,
		oracleFieldLen)
	if err != nil {
		return OracleMessage{}, contractError(ErrInvalidMessage, err.Error())
	}
	value, err := bchscript.MakeScriptNum(b[oracleFieldLen:], false,
		oracleFieldLen)
	if err != nil {
		return OracleMessage{}, contractError(ErrInvalidMessage, err.Error())
	}
	return OracleMessage{BlockHeight: int64(height), Value: int64(value)}, nil
}

// SignMessage produces the DER encoded data signature checked by
// OP_CHECKDATASIG, which is an ECDSA signature over SHA256(msg).  Signatures
// are deterministic per RFC6979.
func SignMessage(privKey *btcec.PrivateKey, msg []byte) []byte {
	return ecdsa.Sign(privKey, chainhash.HashB(msg)).Serialize()
}

// VerifyMessage reports whether sig is a valid data signature of msg by the
// public key.
func VerifyMessage(pubKey *btcec.PublicKey, msg, sig []byte) bool {
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(chainhash.HashB(msg), pubKey)
}
