// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/jetonlabs/jeton/bchscript"
)

// mergeError creates an ErrMergePrecondition error.
func mergeError(format string, a ...interface{}) error {
	return txError(ErrMergePrecondition, fmt.Sprintf(format, a...), nil)
}

// checkAnyOneCanPay returns an error unless the signature of a
// pay-to-pubkey-hash unlocking script, its first push, carries
// SIGHASH_ANYONECANPAY.  Funding inputs always spend pay-to-pubkey-hash
// outputs.
func checkAnyOneCanPay(txIdx, inIdx int, sigScript []byte) error {
	if len(sigScript) == 0 {
		return mergeError("input %d of transaction %d is not signed",
			inIdx, txIdx)
	}
	if !bchscript.IsPushOnlyScript(sigScript) {
		return mergeError("input %d of transaction %d has a non push "+
			"only unlocking script", inIdx, txIdx)
	}
	pushes, err := bchscript.PushedData(sigScript)
	if err != nil || len(pushes) == 0 {
		return mergeError("input %d of transaction %d has no signature",
			inIdx, txIdx)
	}

	// The first push of a pay-to-pubkey-hash unlocking script is the
	// signature with its hash type byte.
	sig := pushes[0]
	if len(sig) == 0 {
		return mergeError("input %d of transaction %d has an empty "+
			"signature", inIdx, txIdx)
	}
	hashType := bchscript.SigHashType(sig[len(sig)-1])
	if !hashType.HasAnyOneCanPay() {
		return mergeError("input %d of transaction %d is signed with "+
			"%v, not ANYONECANPAY", inIdx, txIdx, hashType)
	}
	return nil
}

// MergeFundingTransactions combines independently signed funding
// transactions into one.  The first transaction is the base and the single
// input of every other transaction is appended to it along with its sequence
// and unlocking script.  This only yields a valid transaction when every
// input was signed with SIGHASH_ANYONECANPAY and all transactions create the
// same outputs with the same version and lock time, which is checked
// before anything is merged.  The passed transactions are not modified.
func MergeFundingTransactions(txs []*Tx) (*Tx, error) {
	if len(txs) == 0 {
		return nil, mergeError("no transactions to merge")
	}

	base := txs[0]
	baseOutputs := bchscript.SerializeOutputs(base.MsgTx.TxOut)
	for i, tx := range txs {
		if i > 0 && len(tx.MsgTx.TxIn) != 1 {
			return nil, mergeError("transaction %d has %d inputs, "+
				"want 1", i, len(tx.MsgTx.TxIn))
		}
		for j, txIn := range tx.MsgTx.TxIn {
			err := checkAnyOneCanPay(i, j, txIn.SignatureScript)
			if err != nil {
				return nil, err
			}
		}
		if i == 0 {
			continue
		}
		outputs := bchscript.SerializeOutputs(tx.MsgTx.TxOut)
		if !bytes.Equal(outputs, baseOutputs) {
			return nil, mergeError("transaction %d creates different "+
				"outputs than transaction 0", i)
		}
		if tx.MsgTx.Version != base.MsgTx.Version ||
			tx.MsgTx.LockTime != base.MsgTx.LockTime {

			return nil, mergeError("transaction %d has a different "+
				"version or lock time than transaction 0", i)
		}
	}

	merged := &Tx{
		MsgTx:    base.MsgTx.Copy(),
		cfg:      base.cfg,
		prevOuts: txscript.NewMultiPrevOutFetcher(nil),
	}
	merged.prevOuts.Merge(base.prevOuts)
	for _, tx := range txs[1:] {
		txIn := tx.MsgTx.TxIn[0]
		op := txIn.PreviousOutPoint
		newIn := wire.NewTxIn(&op, txIn.SignatureScript, nil)
		newIn.Sequence = txIn.Sequence
		merged.MsgTx.AddTxIn(newIn)
		merged.prevOuts.Merge(tx.prevOuts)
	}
	log.Debugf("Merged %d funding transactions into %v", len(txs),
		merged.MsgTx.TxHash())
	return merged, nil
}
