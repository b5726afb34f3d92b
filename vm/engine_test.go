// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/jetonlabs/jeton/bchscript"
)

// testKey deterministically derives a private key from the given seed byte.
func testKey(seed byte) (*btcec.PrivateKey, *btcec.PublicKey) {
	return btcec.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
}

// spendTx returns a transaction spending a single previous output along with
// a fetcher that knows the spent output.
func spendTx(pkScript []byte, amount int64) (*wire.MsgTx, *txscript.MultiPrevOutFetcher) {
	prevOut := wire.NewOutPoint(&chainhash.Hash{0x01}, 1)
	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(prevOut, nil, nil))
	tx.TxIn[0].Sequence = 0
	tx.AddTxOut(wire.NewTxOut(amount-500, pkScript))

	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	fetcher.AddPrevOut(*prevOut, wire.NewTxOut(amount, pkScript))
	return tx, fetcher
}

// signInput returns a fork id signature of the input with the passed hash
// type appended.
func signInput(t *testing.T, priv *btcec.PrivateKey, tx *wire.MsgTx,
	scriptCode []byte, hashType bchscript.SigHashType,
	prevOuts txscript.PrevOutputFetcher) []byte {

	t.Helper()

	// Hash types without the fork id still get a fork id digest here so
	// the engine rejects them for their encoding alone.
	digestType := hashType | bchscript.SigHashForkID
	hash, err := bchscript.CalcSignatureHash(tx, 0, scriptCode, digestType,
		prevOuts)
	if err != nil {
		t.Fatalf("unable to calculate signature hash: %v", err)
	}
	sig := ecdsa.Sign(priv, hash).Serialize()
	return append(sig, byte(hashType))
}

// TestPayToPubKeyHash executes signed pay-to-pubkey-hash spends.
func TestPayToPubKeyHash(t *testing.T) {
	t.Parallel()

	priv, pub := testKey(0x11)
	pkHash := btcutil.Hash160(pub.SerializeCompressed())
	addr, err := btcutil.NewAddressPubKeyHash(pkHash,
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("unable to create address: %v", err)
	}
	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		t.Fatalf("unable to create pkScript: %v", err)
	}

	tests := []struct {
		name     string
		hashType bchscript.SigHashType
		amount   int64
		noPrev   bool
		errCode  ErrorCode
		fail     bool
	}{{
		name:     "all forkid",
		hashType: bchscript.DefaultSigHashType,
	}, {
		name:     "anyonecanpay",
		hashType: bchscript.DefaultSigHashType | bchscript.SigHashAnyOneCanPay,
	}, {
		name:     "wrong amount",
		hashType: bchscript.DefaultSigHashType,
		amount:   1,
		errCode:  ErrNullFail,
		fail:     true,
	}, {
		name:     "missing input amount",
		hashType: bchscript.DefaultSigHashType,
		noPrev:   true,
		errCode:  ErrMissingInputAmount,
		fail:     true,
	}, {
		name:     "no forkid",
		hashType: bchscript.SigHashAll,
		errCode:  ErrMustUseForkID,
		fail:     true,
	}, {
		name:     "unsupported single",
		hashType: bchscript.SigHashSingle | bchscript.SigHashForkID,
		errCode:  ErrInvalidSigHashType,
		fail:     true,
	}}

	for _, test := range tests {
		tx, prevOuts := spendTx(pkScript, 10000)
		signType := test.hashType
		if signType&0x1f == bchscript.SigHashSingle {
			signType = bchscript.DefaultSigHashType
		}
		sig := signInput(t, priv, tx, pkScript, signType, prevOuts)
		sig[len(sig)-1] = byte(test.hashType)

		sigScript, err := txscript.NewScriptBuilder().AddData(sig).
			AddData(pub.SerializeCompressed()).Script()
		if err != nil {
			t.Fatalf("%s: unable to build sigScript: %v", test.name, err)
		}
		tx.TxIn[0].SignatureScript = sigScript

		var fetcher txscript.PrevOutputFetcher = prevOuts
		switch {
		case test.noPrev:
			fetcher = nil
		case test.amount != 0:
			fetcher = txscript.NewCannedPrevOutputFetcher(pkScript,
				test.amount)
		}

		vm, err := NewEngine(pkScript, tx, 0, StandardP2SHFlags, nil,
			fetcher)
		if err != nil {
			t.Errorf("%s: unexpected engine error: %v", test.name, err)
			continue
		}
		err = vm.Execute()
		if !test.fail {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", test.name, err)
			}
			continue
		}
		if !IsErrorCode(err, test.errCode) {
			t.Errorf("%s: unexpected error - got %v, want %v",
				test.name, err, test.errCode)
		}
	}
}

// p2shSpend builds a transaction spending a pay-to-script-hash output of the
// redeem script with the passed pushes followed by the redeem script.
func p2shSpend(t *testing.T, redeem []byte, pushes ...[]byte) (*wire.MsgTx,
	[]byte, *txscript.MultiPrevOutFetcher) {

	t.Helper()

	addr, err := btcutil.NewAddressScriptHash(redeem,
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("unable to create address: %v", err)
	}
	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		t.Fatalf("unable to create pkScript: %v", err)
	}

	tx, prevOuts := spendTx(pkScript, 10000)
	builder := txscript.NewScriptBuilder()
	for _, push := range pushes {
		builder.AddData(push)
	}
	builder.AddData(redeem)
	sigScript, err := builder.Script()
	if err != nil {
		t.Fatalf("unable to build sigScript: %v", err)
	}
	tx.TxIn[0].SignatureScript = sigScript
	return tx, pkScript, prevOuts
}

// TestPayToScriptHash ensures redeem scripts are evaluated against the stack
// left by the signature script.
func TestPayToScriptHash(t *testing.T) {
	t.Parallel()

	redeem, err := txscript.NewScriptBuilder().AddOp(bchscript.OP_2).
		AddOp(bchscript.OP_ADD).AddOp(bchscript.OP_5).
		AddOp(bchscript.OP_NUMEQUAL).Script()
	if err != nil {
		t.Fatalf("unable to build redeem script: %v", err)
	}

	tx, pkScript, prevOuts := p2shSpend(t, redeem, []byte{3})
	vm, err := NewEngine(pkScript, tx, 0, StandardP2SHFlags, nil, prevOuts)
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}
	if err := vm.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tx, pkScript, prevOuts = p2shSpend(t, redeem, []byte{4})
	vm, err = NewEngine(pkScript, tx, 0, StandardP2SHFlags, nil, prevOuts)
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}
	if err := vm.Execute(); !IsErrorCode(err, ErrEvalFalse) {
		t.Fatalf("unexpected error - got %v, want %v", err, ErrEvalFalse)
	}

	// Leaving an extra item violates the clean stack rule.
	tx, pkScript, prevOuts = p2shSpend(t, redeem, []byte{1}, []byte{3})
	vm, err = NewEngine(pkScript, tx, 0, StandardP2SHFlags, nil, prevOuts)
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}
	if err := vm.Execute(); !IsErrorCode(err, ErrCleanStack) {
		t.Fatalf("unexpected error - got %v, want %v", err, ErrCleanStack)
	}

	// Signature scripts that do more than push data are rejected up front.
	tx.TxIn[0].SignatureScript = append([]byte{bchscript.OP_NOP},
		tx.TxIn[0].SignatureScript...)
	_, err = NewEngine(pkScript, tx, 0, StandardP2SHFlags, nil, prevOuts)
	if !IsErrorCode(err, ErrNotPushOnly) {
		t.Fatalf("unexpected error - got %v, want %v", err,
			ErrNotPushOnly)
	}
}

// TestCheckDataSig executes OP_CHECKDATASIG against good and bad message
// signatures.
func TestCheckDataSig(t *testing.T) {
	t.Parallel()

	priv, pub := testKey(0x22)
	msg := []byte("win1")
	redeem, err := txscript.NewScriptBuilder().AddData(msg).
		AddData(pub.SerializeCompressed()).
		AddOp(bchscript.OP_CHECKDATASIG).Script()
	if err != nil {
		t.Fatalf("unable to build redeem script: %v", err)
	}

	tests := []struct {
		name    string
		signed  []byte
		errCode ErrorCode
		fail    bool
	}{
		{name: "valid", signed: msg},
		{name: "other message", signed: []byte("win2"),
			errCode: ErrNullFail, fail: true},
	}

	for _, test := range tests {
		sig := ecdsa.Sign(priv, chainhash.HashB(test.signed)).Serialize()
		tx, pkScript, prevOuts := p2shSpend(t, redeem, sig)

		cache := NewSigCache(10)
		vm, err := NewEngine(pkScript, tx, 0, StandardP2SHFlags, cache,
			prevOuts)
		if err != nil {
			t.Fatalf("%s: unexpected engine error: %v", test.name, err)
		}
		err = vm.Execute()
		if !test.fail {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", test.name, err)
			}
			hash := chainhash.HashH(msg)
			if !cache.Exists(hash, sig, pub.SerializeCompressed()) {
				t.Errorf("%s: valid signature was not cached",
					test.name)
			}
			continue
		}
		if !IsErrorCode(err, test.errCode) {
			t.Errorf("%s: unexpected error - got %v, want %v",
				test.name, err, test.errCode)
		}
	}
}

// TestCheckLockTimeVerify exercises the lock time and sequence rules of
// OP_CHECKLOCKTIMEVERIFY.
func TestCheckLockTimeVerify(t *testing.T) {
	t.Parallel()

	redeem, err := txscript.NewScriptBuilder().AddInt64(100).
		AddOp(bchscript.OP_CHECKLOCKTIMEVERIFY).
		AddOp(bchscript.OP_DROP).AddOp(bchscript.OP_1).Script()
	if err != nil {
		t.Fatalf("unable to build redeem script: %v", err)
	}

	tests := []struct {
		name     string
		lockTime uint32
		sequence uint32
		flags    ScriptFlags
		errCode  ErrorCode
		fail     bool
	}{{
		name:     "reached",
		lockTime: 100,
		flags:    LockTimeP2SHFlags,
	}, {
		name:     "passed",
		lockTime: 1000,
		flags:    LockTimeP2SHFlags,
	}, {
		name:     "not reached",
		lockTime: 99,
		flags:    LockTimeP2SHFlags,
		errCode:  ErrUnsatisfiedLockTime,
		fail:     true,
	}, {
		name:     "final sequence",
		lockTime: 100,
		sequence: wire.MaxTxInSequenceNum,
		flags:    LockTimeP2SHFlags,
		errCode:  ErrUnsatisfiedLockTime,
		fail:     true,
	}, {
		name:     "timestamp lock time",
		lockTime: txscript.LockTimeThreshold,
		flags:    LockTimeP2SHFlags,
		errCode:  ErrUnsatisfiedLockTime,
		fail:     true,
	}, {
		name:     "nop without flag",
		lockTime: 0,
		flags:    LockTimeP2SHFlags &^ ScriptVerifyCheckLockTimeVerify,
	}}

	for _, test := range tests {
		tx, pkScript, prevOuts := p2shSpend(t, redeem)
		tx.LockTime = test.lockTime
		tx.TxIn[0].Sequence = test.sequence

		vm, err := NewEngine(pkScript, tx, 0, test.flags, nil, prevOuts)
		if err != nil {
			t.Fatalf("%s: unexpected engine error: %v", test.name, err)
		}
		err = vm.Execute()
		if !test.fail {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", test.name, err)
			}
			continue
		}
		if !IsErrorCode(err, test.errCode) {
			t.Errorf("%s: unexpected error - got %v, want %v",
				test.name, err, test.errCode)
		}
	}
}

// TestNewEngineErrors ensures invalid engine parameters are rejected.
func TestNewEngineErrors(t *testing.T) {
	t.Parallel()

	tx := newTestTx()
	if _, err := NewEngine([]byte{bchscript.OP_TRUE}, tx, 1, 0, nil,
		nil); !IsErrorCode(err, ErrInvalidIndex) {

		t.Errorf("unexpected error - got %v, want %v", err,
			ErrInvalidIndex)
	}
	if _, err := NewEngine(nil, tx, 0, 0, nil,
		nil); !IsErrorCode(err, ErrEvalFalse) {

		t.Errorf("unexpected error - got %v, want %v", err, ErrEvalFalse)
	}
	if _, err := NewEngine([]byte{bchscript.OP_TRUE}, tx, 0,
		ScriptVerifyCleanStack, nil, nil); !IsErrorCode(err, ErrInvalidFlags) {

		t.Errorf("unexpected error - got %v, want %v", err,
			ErrInvalidFlags)
	}
	if _, err := NewEngine([]byte{bchscript.OP_PUSHDATA1, 0x05}, tx, 0,
		0, nil, nil); !IsErrorCode(err, ErrMalformedPush) {

		t.Errorf("unexpected error - got %v, want %v", err,
			ErrMalformedPush)
	}
}

// TestScriptFlagsString ensures flag sets print and parse symmetrically.
func TestScriptFlagsString(t *testing.T) {
	t.Parallel()

	for _, flags := range []ScriptFlags{0, StandardP2SHFlags,
		LockTimeP2SHFlags} {

		parsed, err := ParseScriptFlags(flags.String())
		if err != nil {
			t.Errorf("unable to parse %q: %v", flags, err)
			continue
		}
		if parsed != flags {
			t.Errorf("round trip of %q gave %q", flags, parsed)
		}
	}

	if _, err := ParseScriptFlags("P2SH,BOGUS"); !IsErrorCode(err,
		ErrInvalidFlags) {

		t.Errorf("unexpected error - got %v, want %v", err,
			ErrInvalidFlags)
	}
}
