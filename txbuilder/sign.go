// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/jetonlabs/jeton/bchscript"
	"github.com/jetonlabs/jeton/contract"
)

// rawTxInSignature returns the signature of input idx by the signer, with the
// configured hash type appended to it.  scriptCode is the script the input
// satisfies.
func (t *Tx) rawTxInSignature(idx int, scriptCode []byte, signer Signer) ([]byte, error) {
	hash, err := bchscript.CalcSignatureHash(t.MsgTx, idx, scriptCode,
		t.cfg.HashType, t.prevOuts)
	if err != nil {
		str := fmt.Sprintf("cannot compute signature hash of input %d",
			idx)
		return nil, txError(ErrSigning, str, err)
	}
	sig, err := signer.Sign(hash)
	if err != nil {
		str := fmt.Sprintf("cannot sign input %d", idx)
		return nil, txError(ErrSigning, str, err)
	}
	return append(sig, byte(t.cfg.HashType)), nil
}

// signatureScript returns the <sig> <pubkey> script of the signer for input
// idx.
func (t *Tx) signatureScript(idx int, scriptCode []byte, signer Signer) ([]byte, error) {
	sig, err := t.rawTxInSignature(idx, scriptCode, signer)
	if err != nil {
		return nil, err
	}
	script, err := contract.PayToPubKeyHashSigScript(sig,
		signer.PubKey().SerializeCompressed())
	if err != nil {
		return nil, txError(ErrSigning, "cannot build signature script",
			err)
	}
	return script, nil
}

// setSignatureScript installs script as the unlocking script of input idx.
func (t *Tx) setSignatureScript(idx int, script []byte) {
	t.MsgTx.TxIn[idx].SignatureScript = script
	log.Tracef("Signed input %d: %v", idx, newLogClosure(func() string {
		s, _ := bchscript.DisasmString(script)
		return s
	}))
}

// SignPayToPubKeyHash signs input idx, which spends a pay-to-pubkey-hash
// output of the signer.
func (t *Tx) SignPayToPubKeyHash(idx int, signer Signer) error {
	prevOut, err := t.PrevOutput(idx)
	if err != nil {
		return err
	}
	script, err := t.signatureScript(idx, prevOut.PkScript, signer)
	if err != nil {
		return err
	}
	t.setSignatureScript(idx, script)
	return nil
}

// SignEscrow signs input idx, which spends the escrow, on behalf of the
// winning party.  refereeSig is the referee's data signature of message.
func (t *Tx) SignEscrow(idx int, winner Signer, message, refereeSig []byte,
	escrow *contract.Escrow) error {

	if _, err := t.PrevOutput(idx); err != nil {
		return err
	}
	winnerScript, err := t.signatureScript(idx, escrow.Script(), winner)
	if err != nil {
		return err
	}
	script, err := contract.EscrowInputScript(winnerScript, refereeSig,
		message, escrow.Script())
	if err != nil {
		return txError(ErrSigning, "cannot build escrow input script", err)
	}
	t.setSignatureScript(idx, script)
	return nil
}

// SignThreshold signs input idx, which spends the threshold contract, on
// behalf of the winning party.  oracleSig is the oracle's data signature of
// the encoded message.
//
// The message height must be reached by the lock time of the transaction, so
// the lock time is raised to it when lower and the input sequence is made
// non-final.  Signatures of other inputs are invalidated when that happens.
func (t *Tx) SignThreshold(idx int, winner Signer, msg contract.OracleMessage,
	oracleSig []byte, threshold *contract.Threshold) error {

	if _, err := t.PrevOutput(idx); err != nil {
		return err
	}
	message, err := msg.Bytes()
	if err != nil {
		return txError(ErrSigning, "cannot encode oracle message", err)
	}
	if int64(t.MsgTx.LockTime) < msg.BlockHeight {
		if err := t.LockUntilBlockHeight(msg.BlockHeight); err != nil {
			return err
		}
	}
	txIn := t.MsgTx.TxIn[idx]
	if txIn.Sequence == wire.MaxTxInSequenceNum {
		txIn.Sequence = lockTimeSequence
	}

	winnerScript, err := t.signatureScript(idx, threshold.Script(), winner)
	if err != nil {
		return err
	}
	script, err := contract.ThresholdInputScript(winnerScript, oracleSig,
		message, threshold.Script())
	if err != nil {
		return txError(ErrSigning, "cannot build threshold input script",
			err)
	}
	t.setSignatureScript(idx, script)
	return nil
}

// SignCovenant signs input idx, which spends the covenant.  When the covenant
// names signers, one Signer per required signer must be passed in the same
// order.  Otherwise a single Signer, the spender, signs as with a
// pay-to-pubkey-hash output.  The outputs of the transaction must be final
// since the signature hash preimage is disclosed in the unlocking script.
func (t *Tx) SignCovenant(idx int, signers []Signer, covenant *contract.Covenant) error {
	if _, err := t.PrevOutput(idx); err != nil {
		return err
	}
	want := len(covenant.Signers)
	if want == 0 {
		want = 1
	}
	if len(signers) != want {
		str := fmt.Sprintf("covenant needs %d signers, got %d", want,
			len(signers))
		return txError(ErrSigning, str, nil)
	}
	for i, pk := range covenant.Signers {
		if !signers[i].PubKey().IsEqual(pk) {
			str := fmt.Sprintf("signer %d does not hold the covenant "+
				"key %x", i, pk.SerializeCompressed())
			return txError(ErrSigning, str, nil)
		}
	}

	preimage, err := bchscript.NewPreimage(t.MsgTx, idx, covenant.Script(),
		t.cfg.HashType, t.prevOuts)
	if err != nil {
		str := fmt.Sprintf("cannot compute preimage of input %d", idx)
		return txError(ErrSigning, str, err)
	}

	sigScripts := make([][]byte, len(signers))
	for i, signer := range signers {
		if len(covenant.Signers) == 0 {
			sigScripts[i], err = t.signatureScript(idx,
				covenant.Script(), signer)
			if err != nil {
				return err
			}
			continue
		}
		sig, err := t.rawTxInSignature(idx, covenant.Script(), signer)
		if err != nil {
			return err
		}
		sigScripts[i], err = txscript.NewScriptBuilder().AddData(sig).Script()
		if err != nil {
			return txError(ErrSigning, "cannot build signature push", err)
		}
	}

	script, err := contract.CovenantInputScript(sigScripts, preimage,
		covenant.Script())
	if err != nil {
		return txError(ErrSigning, "cannot build covenant input script",
			err)
	}
	t.setSignatureScript(idx, script)
	return nil
}
