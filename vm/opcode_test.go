// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vm

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/jetonlabs/jeton/bchscript"
)

// testFlags are the flags used to run the opcode tests.  They leave out the
// pay-to-script-hash related flags since the tests run bare scripts.
const testFlags = ScriptEnableCheckDataSig | ScriptEnable64BitIntegers |
	ScriptVerifyMinimalData

// newTestTx returns a single input transaction whose input is not final.
func newTestTx() *wire.MsgTx {
	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&chainhash.Hash{}, 0), nil, nil))
	tx.TxIn[0].Sequence = 0
	tx.AddTxOut(wire.NewTxOut(1000, []byte{bchscript.OP_TRUE}))
	return tx
}

// runScript executes script as a public key script with an empty signature
// script.
func runScript(script []byte, flags ScriptFlags) error {
	vm, err := NewEngine(script, newTestTx(), 0, flags, nil, nil)
	if err != nil {
		return err
	}
	return vm.Execute()
}

// TestOpcodes executes small scripts that exercise the arithmetic, splice
// and flow control opcodes.
func TestOpcodes(t *testing.T) {
	t.Parallel()

	b := func() *txscript.ScriptBuilder { return txscript.NewScriptBuilder() }
	tests := []struct {
		name    string
		script  *txscript.ScriptBuilder
		flags   ScriptFlags
		errCode ErrorCode
		fail    bool
	}{{
		name: "cat",
		script: b().AddData([]byte{0xaa}).AddData([]byte{0xbb}).
			AddOp(bchscript.OP_CAT).AddData([]byte{0xaa, 0xbb}).
			AddOp(bchscript.OP_EQUAL),
	}, {
		name: "split",
		script: b().AddData([]byte{0xaa, 0xbb, 0xcc}).AddOp(bchscript.OP_1).
			AddOp(bchscript.OP_SPLIT).AddData([]byte{0xbb, 0xcc}).
			AddOp(bchscript.OP_EQUALVERIFY).AddData([]byte{0xaa}).
			AddOp(bchscript.OP_EQUAL),
	}, {
		name: "split at end",
		script: b().AddData([]byte{0xaa, 0xbb}).AddOp(bchscript.OP_2).
			AddOp(bchscript.OP_SPLIT).AddOp(bchscript.OP_SIZE).
			AddOp(bchscript.OP_0).AddOp(bchscript.OP_NUMEQUALVERIFY).
			AddOp(bchscript.OP_DROP).AddData([]byte{0xaa, 0xbb}).
			AddOp(bchscript.OP_EQUAL),
	}, {
		name: "split out of range",
		script: b().AddData([]byte{0xaa}).AddOp(bchscript.OP_2).
			AddOp(bchscript.OP_SPLIT),
		errCode: ErrInvalidSplitRange,
		fail:    true,
	}, {
		name: "num2bin pads",
		script: b().AddOp(bchscript.OP_2).AddOp(bchscript.OP_4).
			AddOp(bchscript.OP_NUM2BIN).
			AddData([]byte{0x02, 0x00, 0x00, 0x00}).
			AddOp(bchscript.OP_EQUAL),
	}, {
		name: "num2bin moves sign",
		script: b().AddInt64(-5).AddOp(bchscript.OP_4).
			AddOp(bchscript.OP_NUM2BIN).
			AddData([]byte{0x05, 0x00, 0x00, 0x80}).
			AddOp(bchscript.OP_EQUAL),
	}, {
		name: "num2bin impossible",
		script: b().AddInt64(256).AddOp(bchscript.OP_1).
			AddOp(bchscript.OP_NUM2BIN),
		errCode: ErrImpossibleEncoding,
		fail:    true,
	}, {
		name: "bin2num",
		script: b().AddData([]byte{0xda, 0x00, 0x00, 0x00}).
			AddOp(bchscript.OP_BIN2NUM).AddInt64(218).
			AddOp(bchscript.OP_NUMEQUAL),
	}, {
		name: "bin2num negative",
		script: b().AddData([]byte{0x05, 0x00, 0x00, 0x80}).
			AddOp(bchscript.OP_BIN2NUM).AddInt64(-5).
			AddOp(bchscript.OP_NUMEQUAL),
	}, {
		name: "bin2num too big",
		script: b().AddData([]byte{0, 0, 0, 0, 0, 0, 0, 0, 1}).
			AddOp(bchscript.OP_BIN2NUM),
		errCode: ErrNumberTooBig,
		fail:    true,
	}, {
		name: "size",
		script: b().AddData([]byte{1, 2, 3}).AddOp(bchscript.OP_SIZE).
			AddOp(bchscript.OP_3).AddOp(bchscript.OP_NUMEQUAL),
	}, {
		name: "div truncates",
		script: b().AddInt64(-7).AddOp(bchscript.OP_2).
			AddOp(bchscript.OP_DIV).AddInt64(-3).
			AddOp(bchscript.OP_NUMEQUAL),
	}, {
		name: "mod keeps dividend sign",
		script: b().AddInt64(-7).AddOp(bchscript.OP_2).
			AddOp(bchscript.OP_MOD).AddInt64(-1).
			AddOp(bchscript.OP_NUMEQUAL),
	}, {
		name: "mod exact",
		script: b().AddInt64(4004).AddInt64(2002).
			AddOp(bchscript.OP_MOD).AddOp(bchscript.OP_0).
			AddOp(bchscript.OP_NUMEQUAL),
	}, {
		name: "divide by zero",
		script: b().AddOp(bchscript.OP_7).AddOp(bchscript.OP_0).
			AddOp(bchscript.OP_DIV),
		errCode: ErrDivideByZero,
		fail:    true,
	}, {
		name: "64-bit add",
		script: b().AddInt64(1 << 40).AddInt64(1 << 40).
			AddOp(bchscript.OP_ADD).AddInt64(1 << 41).
			AddOp(bchscript.OP_NUMEQUAL),
	}, {
		name: "64-bit add without flag",
		script: b().AddInt64(1 << 40).AddInt64(1 << 40).
			AddOp(bchscript.OP_ADD),
		flags:   ScriptVerifyMinimalData,
		errCode: ErrNumberTooBig,
		fail:    true,
	}, {
		name: "add overflow",
		script: b().AddInt64(1<<63 - 1).AddOp(bchscript.OP_1).
			AddOp(bchscript.OP_ADD),
		errCode: ErrNumberTooBig,
		fail:    true,
	}, {
		name: "lessthanorequal",
		script: b().AddInt64(218).AddInt64(220).
			AddOp(bchscript.OP_LESSTHANOREQUAL),
	}, {
		name: "greaterthanorequal false",
		script: b().AddInt64(218).AddInt64(220).
			AddOp(bchscript.OP_GREATERTHANOREQUAL),
		errCode: ErrEvalFalse,
		fail:    true,
	}, {
		name: "within",
		script: b().AddOp(bchscript.OP_5).AddOp(bchscript.OP_5).
			AddOp(bchscript.OP_6).AddOp(bchscript.OP_WITHIN),
	}, {
		name: "if else",
		script: b().AddOp(bchscript.OP_0).AddOp(bchscript.OP_IF).
			AddOp(bchscript.OP_0).AddOp(bchscript.OP_ELSE).
			AddOp(bchscript.OP_1).AddOp(bchscript.OP_ENDIF),
	}, {
		name: "nested notif",
		script: b().AddOp(bchscript.OP_1).AddOp(bchscript.OP_0).
			AddOp(bchscript.OP_NOTIF).AddOp(bchscript.OP_IF).
			AddOp(bchscript.OP_1).AddOp(bchscript.OP_ELSE).
			AddOp(bchscript.OP_0).AddOp(bchscript.OP_ENDIF).
			AddOp(bchscript.OP_ENDIF),
	}, {
		name: "missing endif",
		script: b().AddOp(bchscript.OP_1).AddOp(bchscript.OP_IF).
			AddOp(bchscript.OP_1),
		errCode: ErrUnbalancedConditional,
		fail:    true,
	}, {
		name:    "else without if",
		script:  b().AddOp(bchscript.OP_ELSE),
		errCode: ErrUnbalancedConditional,
		fail:    true,
	}, {
		name: "disabled in unexecuted branch",
		script: b().AddOp(bchscript.OP_0).AddOp(bchscript.OP_IF).
			AddOp(bchscript.OP_2MUL).AddOp(bchscript.OP_ENDIF).
			AddOp(bchscript.OP_1),
		errCode: ErrDisabledOpcode,
		fail:    true,
	}, {
		name: "reserved in unexecuted branch",
		script: b().AddOp(bchscript.OP_0).AddOp(bchscript.OP_IF).
			AddOp(bchscript.OP_RESERVED).AddOp(bchscript.OP_ENDIF).
			AddOp(bchscript.OP_1),
	}, {
		name:    "return",
		script:  b().AddOp(bchscript.OP_1).AddOp(bchscript.OP_RETURN),
		errCode: ErrEarlyReturn,
		fail:    true,
	}, {
		name: "altstack",
		script: b().AddOp(bchscript.OP_5).AddOp(bchscript.OP_TOALTSTACK).
			AddOp(bchscript.OP_FROMALTSTACK).AddOp(bchscript.OP_5).
			AddOp(bchscript.OP_NUMEQUAL),
	}, {
		name:    "empty altstack",
		script:  b().AddOp(bchscript.OP_FROMALTSTACK),
		errCode: ErrInvalidStackOperation,
		fail:    true,
	}, {
		name: "pick and roll",
		script: b().AddOp(bchscript.OP_1).AddOp(bchscript.OP_2).
			AddOp(bchscript.OP_3).AddOp(bchscript.OP_2).
			AddOp(bchscript.OP_PICK).AddOp(bchscript.OP_1).
			AddOp(bchscript.OP_NUMEQUALVERIFY).AddOp(bchscript.OP_2).
			AddOp(bchscript.OP_ROLL).AddOp(bchscript.OP_1).
			AddOp(bchscript.OP_NUMEQUAL),
	}, {
		name: "reversebytes",
		script: b().AddData([]byte{1, 2, 3}).
			AddOp(bchscript.OP_REVERSEBYTES).AddData([]byte{3, 2, 1}).
			AddOp(bchscript.OP_EQUAL),
	}, {
		name: "xor",
		script: b().AddData([]byte{0x0f, 0xf0}).
			AddData([]byte{0xff, 0xff}).AddOp(bchscript.OP_XOR).
			AddData([]byte{0xf0, 0x0f}).AddOp(bchscript.OP_EQUAL),
	}, {
		name: "and size mismatch",
		script: b().AddData([]byte{0x0f, 0xf0}).AddData([]byte{0xff}).
			AddOp(bchscript.OP_AND),
		errCode: ErrInvalidOperandSize,
		fail:    true,
	}, {
		name: "hash160",
		script: b().AddData([]byte("jeton")).AddOp(bchscript.OP_SHA256).
			AddOp(bchscript.OP_RIPEMD160).AddData([]byte("jeton")).
			AddOp(bchscript.OP_HASH160).AddOp(bchscript.OP_EQUAL),
	}, {
		name: "checkdatasig disabled",
		script: b().AddOp(bchscript.OP_0).AddOp(bchscript.OP_0).
			AddOp(bchscript.OP_0).AddOp(bchscript.OP_CHECKDATASIG),
		flags:   ScriptVerifyMinimalData,
		errCode: ErrReservedOpcode,
		fail:    true,
	}, {
		name: "checkdatasig empty signature",
		script: b().AddOp(bchscript.OP_0).AddOp(bchscript.OP_0).
			AddData(make([]byte, 33)).AddOp(bchscript.OP_CHECKDATASIG).
			AddOp(bchscript.OP_NOT),
	}, {
		name: "checkmultisig unsupported",
		script: b().AddOp(bchscript.OP_0).AddOp(bchscript.OP_0).
			AddOp(bchscript.OP_CHECKMULTISIG),
		errCode: ErrUnsupportedOpcode,
		fail:    true,
	}}

	for _, test := range tests {
		script, err := test.script.Script()
		if err != nil {
			t.Errorf("%s: unable to build script: %v", test.name, err)
			continue
		}
		flags := test.flags
		if flags == 0 {
			flags = testFlags
		}

		err = runScript(script, flags)
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

// TestMinimalDataPush ensures non-minimal pushes are only rejected when the
// minimal data flag is set.
func TestMinimalDataPush(t *testing.T) {
	t.Parallel()

	// OP_DATA_1 0x05 instead of OP_5.
	script := []byte{bchscript.OP_DATA_1, 0x05}
	if err := runScript(script, testFlags); !IsErrorCode(err, ErrMinimalData) {
		t.Fatalf("unexpected error - got %v, want %v", err,
			ErrMinimalData)
	}
	if err := runScript(script, testFlags&^ScriptVerifyMinimalData); err != nil {
		t.Fatalf("unexpected error without minimal data: %v", err)
	}
}

// TestFailingOpcode ensures execution errors name the opcode that failed.
func TestFailingOpcode(t *testing.T) {
	t.Parallel()

	script, err := txscript.NewScriptBuilder().AddOp(bchscript.OP_1).
		AddOp(bchscript.OP_2).AddOp(bchscript.OP_EQUALVERIFY).
		AddOp(bchscript.OP_1).Script()
	if err != nil {
		t.Fatalf("unable to build script: %v", err)
	}

	err = runScript(script, testFlags)
	if !IsErrorCode(err, ErrEqualVerify) {
		t.Fatalf("unexpected error - got %v, want %v", err,
			ErrEqualVerify)
	}
	if op := FailingOpcode(err); op != "OP_EQUALVERIFY" {
		t.Fatalf("failing opcode %q, want OP_EQUALVERIFY", op)
	}
}
