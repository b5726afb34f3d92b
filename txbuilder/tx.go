// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"

	"github.com/jetonlabs/jeton/bchscript"
	"github.com/jetonlabs/jeton/contract"
)

const (
	// txVersion is the version of every transaction built here.
	txVersion = 2

	// maxLockHeight is the first lock time interpreted as a timestamp.
	maxLockHeight = txscript.LockTimeThreshold

	// lockTimeSequence is the highest sequence number that still lets the
	// lock time of the transaction take effect.
	lockTimeSequence = wire.MaxTxInSequenceNum - 1
)

// Tx is a transaction under construction.  Besides the wire transaction it
// remembers the output spent by every input, which signing and verification
// need for the input amounts.
type Tx struct {
	MsgTx *wire.MsgTx

	cfg      Config
	prevOuts *txscript.MultiPrevOutFetcher
}

// NewTx returns an empty transaction built with the configuration.
func NewTx(cfg Config) *Tx {
	return &Tx{
		MsgTx:    wire.NewMsgTx(txVersion),
		cfg:      cfg,
		prevOuts: txscript.NewMultiPrevOutFetcher(nil),
	}
}

// Config returns the configuration of the transaction.
func (t *Tx) Config() Config {
	return t.cfg
}

// PrevOutFetcher returns the outputs spent by the transaction.
func (t *Tx) PrevOutFetcher() txscript.PrevOutputFetcher {
	return t.prevOuts
}

// AddInput adds an input spending utxo and returns its index.
func (t *Tx) AddInput(utxo *UnspentOutput) int {
	op := utxo.OutPoint
	t.MsgTx.AddTxIn(wire.NewTxIn(&op, nil, nil))
	t.prevOuts.AddPrevOut(op, utxo.TxOut())
	return len(t.MsgTx.TxIn) - 1
}

// AddOutput appends outputs to the transaction.
func (t *Tx) AddOutput(outs ...*wire.TxOut) {
	for _, out := range outs {
		t.MsgTx.AddTxOut(out)
	}
}

// PayToAddress adds an output paying amount to addr.
func (t *Tx) PayToAddress(addr btcutil.Address, amount btcutil.Amount) error {
	if !addr.IsForNet(t.cfg.Params) {
		str := fmt.Sprintf("address %v is not for %s", addr,
			t.cfg.Params.Name)
		return txError(ErrWrongNetwork, str, nil)
	}
	if amount < 0 {
		str := fmt.Sprintf("negative output amount %v", amount)
		return txError(ErrInvalidAmount, str, nil)
	}
	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return txError(ErrWrongNetwork, "unable to pay to address", err)
	}
	t.AddOutput(wire.NewTxOut(int64(amount), pkScript))
	return nil
}

// PayToScriptHash adds an output paying amount to the pay-to-script-hash of
// the contract and returns its index.
func (t *Tx) PayToScriptHash(c contract.OutputScript, amount btcutil.Amount) (int, error) {
	if amount < 0 {
		str := fmt.Sprintf("negative output amount %v", amount)
		return 0, txError(ErrInvalidAmount, str, nil)
	}
	t.AddOutput(wire.NewTxOut(int64(amount), c.PayToScriptHash()))
	log.Debugf("Paying %v to %v contract %x", amount, c.Kind(),
		c.ScriptHash())
	return len(t.MsgTx.TxOut) - 1, nil
}

// LockUntilBlockHeight sets the lock time of the transaction to height and
// makes every final input sequence non-final so the lock time applies.  Any
// existing signature is invalidated.
func (t *Tx) LockUntilBlockHeight(height int64) error {
	if height < 0 || height >= maxLockHeight {
		str := fmt.Sprintf("lock height %d is not a block height", height)
		return txError(ErrInvalidLockTime, str, nil)
	}
	t.MsgTx.LockTime = uint32(height)
	for _, txIn := range t.MsgTx.TxIn {
		if txIn.Sequence == wire.MaxTxInSequenceNum {
			txIn.Sequence = lockTimeSequence
		}
	}
	return nil
}

// PrevOutput returns the output spent by input idx.
func (t *Tx) PrevOutput(idx int) (*wire.TxOut, error) {
	if idx < 0 || idx >= len(t.MsgTx.TxIn) {
		str := fmt.Sprintf("input index %d is out of range for %d "+
			"inputs", idx, len(t.MsgTx.TxIn))
		return nil, txError(ErrInvalidIndex, str, nil)
	}
	op := t.MsgTx.TxIn[idx].PreviousOutPoint
	prevOut := t.prevOuts.FetchPrevOutput(op)
	if prevOut == nil {
		str := fmt.Sprintf("output %v spent by input %d is unknown", op,
			idx)
		return nil, txError(ErrMissingPrevOut, str, nil)
	}
	return prevOut, nil
}

// RedeemScript returns the script disclosed by input idx when it spends a
// pay-to-script-hash output, or nil otherwise.
func (t *Tx) RedeemScript(idx int) ([]byte, error) {
	prevOut, err := t.PrevOutput(idx)
	if err != nil {
		return nil, err
	}
	if !txscript.IsPayToScriptHash(prevOut.PkScript) {
		return nil, nil
	}
	pushes, err := bchscript.PushedData(t.MsgTx.TxIn[idx].SignatureScript)
	if err != nil || len(pushes) == 0 {
		return nil, nil
	}
	return pushes[len(pushes)-1], nil
}

// String returns a dump of the transaction for debugging.
func (t *Tx) String() string {
	return spew.Sdump(t.MsgTx)
}
