// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"fmt"

	"github.com/jetonlabs/jeton/contract"
	"github.com/jetonlabs/jeton/vm"
)

// flagsFor returns the interpreter flags for input idx.  Threshold and
// covenant spends compare zero padded numbers and use LockTimeFlags.
func (t *Tx) flagsFor(idx int) vm.ScriptFlags {
	redeem, err := t.RedeemScript(idx)
	if err != nil || redeem == nil {
		return t.cfg.Flags
	}
	switch contract.DetectKind(redeem) {
	case contract.KindThreshold, contract.KindCovenant:
		return t.cfg.LockTimeFlags
	}
	return t.cfg.Flags
}

// VerifyInput executes the unlocking script of input idx against the output
// it spends.  A rejected input yields ErrVerificationFailed wrapping the
// interpreter error, which for the vm interpreter names the failing opcode.
func (t *Tx) VerifyInput(idx int) error {
	prevOut, err := t.PrevOutput(idx)
	if err != nil {
		return err
	}

	flags := t.flagsFor(idx)
	err = t.cfg.Interpreter.Verify(prevOut.PkScript, t.MsgTx, idx, flags,
		t.prevOuts)
	if err != nil {
		str := fmt.Sprintf("input %d failed verification", idx)
		if op := vm.FailingOpcode(err); op != "" {
			str = fmt.Sprintf("input %d failed verification at %s",
				idx, op)
		}
		log.Debugf("%s with flags %v: %v", str, flags, err)
		return txError(ErrVerificationFailed, str, err)
	}
	return nil
}

// Verify verifies every input of the transaction.
func (t *Tx) Verify() error {
	for i := range t.MsgTx.TxIn {
		if err := t.VerifyInput(i); err != nil {
			return err
		}
	}
	return nil
}
