// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/jetonlabs/jeton/bchscript"
)

// PayToPubKeyHashSigScript returns <sig> <pubkey>, the unlocking script of a
// pay-to-pubkey-hash output and the winner's part of every contract
// unlocking script.  The signature must already carry its hash type byte.
func PayToPubKeyHashSigScript(sig, pubKey []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().AddData(sig).AddData(pubKey).Script()
}

// EscrowInputScript returns the unlocking script for an escrow output:
//
//	<winner sig script> <referee sig> <message> <redeem script>
func EscrowInputScript(winnerSigScript, refereeSig, message,
	redeemScript []byte) ([]byte, error) {

	return txscript.NewScriptBuilder().
		AddOps(winnerSigScript).
		AddData(refereeSig).
		AddData(message).
		AddData(redeemScript).
		Script()
}

// ThresholdInputScript returns the unlocking script for a threshold output:
//
//	<winner sig script> <oracle sig> <oracle message> <redeem script>
func ThresholdInputScript(winnerSigScript, oracleSig, message,
	redeemScript []byte) ([]byte, error) {

	return txscript.NewScriptBuilder().
		AddOps(winnerSigScript).
		AddData(oracleSig).
		AddData(message).
		AddData(redeemScript).
		Script()
}

// CovenantInputScript returns the unlocking script for a covenant output:
//
//	<outputs> <preimage> <sig script N> ... <sig script 1> <redeem script>
//
// sigScripts are given in signer order and pushed in reverse so the first
// signer's signature ends up on top of the stack.  For a covenant without
// required signers pass the spender's pay-to-pubkey-hash signature script.
func CovenantInputScript(sigScripts [][]byte, preimage *bchscript.Preimage,
	redeemScript []byte) ([]byte, error) {

	builder := txscript.NewScriptBuilder().
		AddData(preimage.Outputs).
		AddData(preimage.Bytes())
	for i := len(sigScripts) - 1; i >= 0; i-- {
		builder.AddOps(sigScripts[i])
	}
	return builder.AddData(redeemScript).Script()
}
