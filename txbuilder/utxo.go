// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

// UnspentOutput describes a transaction output that can fund a new
// transaction.
type UnspentOutput struct {
	OutPoint wire.OutPoint
	PkScript []byte
	Amount   btcutil.Amount
}

// TxOut returns the output being spent.
func (u *UnspentOutput) TxOut() *wire.TxOut {
	return wire.NewTxOut(int64(u.Amount), u.PkScript)
}

// String returns the outpoint and amount of the output.
func (u *UnspentOutput) String() string {
	return fmt.Sprintf("%v (%v)", u.OutPoint, u.Amount)
}

// UnspentOutputFromTx returns output idx of tx as an unspent output.
func UnspentOutputFromTx(tx *wire.MsgTx, idx uint32) (*UnspentOutput, error) {
	if int(idx) >= len(tx.TxOut) {
		str := fmt.Sprintf("output index %d is out of range for %d "+
			"outputs", idx, len(tx.TxOut))
		return nil, txError(ErrInvalidIndex, str, nil)
	}
	out := tx.TxOut[idx]
	return &UnspentOutput{
		OutPoint: wire.OutPoint{Hash: tx.TxHash(), Index: idx},
		PkScript: out.PkScript,
		Amount:   btcutil.Amount(out.Value),
	}, nil
}

// TotalAmount returns the sum of the amounts of the passed outputs.
func TotalAmount(utxos []*UnspentOutput) btcutil.Amount {
	var total btcutil.Amount
	for _, u := range utxos {
		total += u.Amount
	}
	return total
}

// NewSplitTx returns an unsigned transaction spending every passed output to
// addr in two outputs: one of amount and one with whatever is left after the
// fee.  The change output is omitted when nothing is left.
func NewSplitTx(cfg Config, utxos []*UnspentOutput, addr btcutil.Address,
	amount, fee btcutil.Amount) (*Tx, error) {

	if amount <= 0 || fee < 0 {
		str := fmt.Sprintf("invalid split of %v with fee %v", amount, fee)
		return nil, txError(ErrInvalidAmount, str, nil)
	}
	total := TotalAmount(utxos)
	change := total - amount - fee
	if change < 0 {
		str := fmt.Sprintf("inputs total %v, need %v plus %v fee", total,
			amount, fee)
		return nil, txError(ErrInvalidAmount, str, nil)
	}

	tx := NewTx(cfg)
	for _, u := range utxos {
		tx.AddInput(u)
	}
	if err := tx.PayToAddress(addr, amount); err != nil {
		return nil, err
	}
	if change > 0 {
		if err := tx.PayToAddress(addr, change); err != nil {
			return nil, err
		}
	}
	return tx, nil
}
