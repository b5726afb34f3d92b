// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/jetonlabs/jeton/bchscript"
)

// maxLockHeight is the largest block height usable as a lock time.  Values
// at or above it are interpreted as unix timestamps.
const maxLockHeight = 500000000

// Threshold is a bet settled by an oracle.  The oracle signs an 8-byte
// message holding a block height and an observed value.  When the value is
// less than or equal to the contract value the Lte party may spend, otherwise
// the Gt party may.  The message height is enforced as the minimum lock time
// of the spending transaction.
type Threshold struct {
	compiled

	OraclePubKey *btcec.PublicKey
	Value        int64
	Lte          Party
	Gt           Party

	// UnlockHeight, when non-zero, additionally requires the message
	// height to be at least this value so old oracle messages cannot
	// settle the bet.
	UnlockHeight int64
}

// NewThreshold validates the threshold terms and compiles the script.
func NewThreshold(oraclePubKey *btcec.PublicKey, value int64, lte, gt Party,
	unlockHeight int64) (*Threshold, error) {

	if oraclePubKey == nil {
		return nil, contractError(ErrInvalidContract,
			"threshold requires an oracle public key")
	}
	if lte.isZero() || gt.isZero() {
		return nil, contractError(ErrInvalidContract,
			"threshold parties require a public key hash")
	}
	if _, err := bchscript.PaddedScriptNum(value, oracleFieldLen); err != nil {
		str := fmt.Sprintf("threshold value %d does not fit the "+
			"oracle message: %v", value, err)
		return nil, contractError(ErrInvalidContract, str)
	}
	if unlockHeight < 0 || unlockHeight >= maxLockHeight {
		str := fmt.Sprintf("unlock height %d is not a block height",
			unlockHeight)
		return nil, contractError(ErrInvalidContract, str)
	}

	t := &Threshold{
		OraclePubKey: oraclePubKey,
		Value:        value,
		Lte:          lte,
		Gt:           gt,
		UnlockHeight: unlockHeight,
	}
	script, err := t.build()
	if err != nil {
		return nil, buildError(KindThreshold, err)
	}
	t.script = script
	return t, nil
}

// build emits:
//
//	OP_DUP OP_4 OP_SPLIT OP_SWAP [OP_DUP <unlock> OP_GREATERTHANOREQUAL
//	OP_VERIFY] OP_CHECKLOCKTIMEVERIFY OP_DROP <value> OP_LESSTHANOREQUAL
//	OP_3 OP_PICK OP_HASH160 OP_SWAP OP_IF <lte pkh> OP_EQUALVERIFY OP_ELSE
//	<gt pkh> OP_EQUALVERIFY OP_ENDIF <oracle> OP_CHECKDATASIGVERIFY
//	OP_CHECKSIG
//
// The value is pushed padded to the oracle field width.
func (t *Threshold) build() ([]byte, error) {
	value, err := bchscript.PaddedScriptNum(t.Value, oracleFieldLen)
	if err != nil {
		return nil, err
	}

	builder := txscript.NewScriptBuilder()
	builder.AddOp(bchscript.OP_DUP).
		AddOp(bchscript.OP_4).
		AddOp(bchscript.OP_SPLIT).
		AddOp(bchscript.OP_SWAP)
	if t.UnlockHeight != 0 {
		builder.AddOp(bchscript.OP_DUP).
			AddInt64(t.UnlockHeight).
			AddOp(bchscript.OP_GREATERTHANOREQUAL).
			AddOp(bchscript.OP_VERIFY)
	}
	builder.AddOp(bchscript.OP_CHECKLOCKTIMEVERIFY).
		AddOp(bchscript.OP_DROP).
		AddData(value).
		AddOp(bchscript.OP_LESSTHANOREQUAL).
		AddOp(bchscript.OP_3).
		AddOp(bchscript.OP_PICK).
		AddOp(bchscript.OP_HASH160).
		AddOp(bchscript.OP_SWAP).
		AddOp(bchscript.OP_IF).
		AddData(t.Lte.PubKeyHash[:]).
		AddOp(bchscript.OP_EQUALVERIFY).
		AddOp(bchscript.OP_ELSE).
		AddData(t.Gt.PubKeyHash[:]).
		AddOp(bchscript.OP_EQUALVERIFY).
		AddOp(bchscript.OP_ENDIF).
		AddData(t.OraclePubKey.SerializeCompressed()).
		AddOp(bchscript.OP_CHECKDATASIGVERIFY).
		AddOp(bchscript.OP_CHECKSIG)

	return builder.Script()
}

// Kind returns KindThreshold.
func (t *Threshold) Kind() Kind {
	return KindThreshold
}

// Winner returns the party entitled to spend given the oracle message.
func (t *Threshold) Winner(msg OracleMessage) Party {
	if msg.Value <= t.Value {
		return t.Lte
	}
	return t.Gt
}
