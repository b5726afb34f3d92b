// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bchscript

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/txscript"
)

// TestParseScript ensures scripts disassemble into the expected opcodes with
// their pushed data and byte offsets.
func TestParseScript(t *testing.T) {
	t.Parallel()

	script, err := txscript.NewScriptBuilder().
		AddOp(OP_DUP).
		AddData([]byte("win1")).
		AddOp(OP_EQUAL).
		AddOp(OP_4).
		AddOp(OP_SPLIT).
		AddData(bytes.Repeat([]byte{0xaa}, 80)).
		AddOp(OP_CHECKDATASIGVERIFY).
		Script()
	if err != nil {
		t.Fatalf("unable to build script: %v", err)
	}

	pops, err := ParseScript(script)
	if err != nil {
		t.Fatalf("ParseScript: unexpected error: %v", err)
	}

	want := []struct {
		opcode byte
		data   []byte
		offset int32
	}{
		{OP_DUP, nil, 0},
		{OP_DATA_1 + 3, []byte("win1"), 1},
		{OP_EQUAL, nil, 6},
		{OP_4, nil, 7},
		{OP_SPLIT, nil, 8},
		{OP_PUSHDATA1, bytes.Repeat([]byte{0xaa}, 80), 9},
		{OP_CHECKDATASIGVERIFY, nil, 91},
	}
	if len(pops) != len(want) {
		t.Fatalf("ParseScript: got %d opcodes, want %d", len(pops),
			len(want))
	}
	for i, w := range want {
		pop := pops[i]
		if pop.Opcode != w.opcode || pop.Offset != w.offset ||
			!bytes.Equal(pop.Data, w.data) {

			t.Errorf("opcode %d: got (%s, %x, %d), want (%s, %x, %d)",
				i, pop.Name(), pop.Data, pop.Offset,
				OpcodeName(w.opcode), w.data, w.offset)
		}
	}

	// Truncated pushes must fail to parse.
	if _, err := ParseScript(script[:20]); !IsErrorCode(err, ErrMalformedPush) {
		t.Errorf("ParseScript: want ErrMalformedPush, got %v", err)
	}
}

// TestDisasmString ensures scripts render with Bitcoin Cash mnemonics.
func TestDisasmString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   []byte
		expected string
		err      bool
	}{
		{
			name:     "splice and data signature opcodes",
			script:   hexToBytes("7e7f8081babb"),
			expected: "OP_CAT OP_SPLIT OP_NUM2BIN OP_BIN2NUM " +
				"OP_CHECKDATASIG OP_CHECKDATASIGVERIFY",
		},
		{
			name:     "pushes and small ints",
			script:   hexToBytes("00040a0b0c0d51604f"),
			expected: "OP_0 0a0b0c0d OP_1 OP_16 OP_1NEGATE",
		},
		{
			name:     "pay to script hash",
			script:   hexToBytes("a914000102030405060708090a0b0c0d0e0f1011121387"),
			expected: "OP_HASH160 000102030405060708090a0b0c0d0e0f10111213 OP_EQUAL",
		},
		{
			name:     "unknown opcode",
			script:   hexToBytes("bd"),
			expected: "OP_UNKNOWN189",
		},
		{
			name:     "truncated push",
			script:   hexToBytes("76050102"),
			expected: "OP_DUP [error]",
			err:      true,
		},
	}

	for _, test := range tests {
		got, err := DisasmString(test.script)
		if (err != nil) != test.err {
			t.Errorf("%s: unexpected error state: %v", test.name, err)
			continue
		}
		if got != test.expected {
			t.Errorf("%s: got %q, want %q", test.name, got,
				test.expected)
		}
	}
}

// TestPushedData ensures only literal data pushes are returned.
func TestPushedData(t *testing.T) {
	t.Parallel()

	script := hexToBytes("0002aabb5176030102038c")
	got, err := PushedData(script)
	if err != nil {
		t.Fatalf("PushedData: unexpected error: %v", err)
	}
	want := [][]byte{nil, {0xaa, 0xbb}, {0x01, 0x02, 0x03}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PushedData: got %x, want %x", got, want)
	}

	if IsPushOnlyScript(script) {
		t.Errorf("IsPushOnlyScript: script with OP_DUP reported push only")
	}
	if !IsPushOnlyScript(hexToBytes("0002aabb51604f")) {
		t.Errorf("IsPushOnlyScript: push only script rejected")
	}
}

// TestParsedOpcodeInt64 ensures numeric pushes decode regardless of form.
func TestParsedOpcodeInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pop  ParsedOpcode
		want int64
		err  bool
	}{
		{ParsedOpcode{Opcode: OP_0}, 0, false},
		{ParsedOpcode{Opcode: OP_1NEGATE}, -1, false},
		{ParsedOpcode{Opcode: OP_16}, 16, false},
		{ParsedOpcode{Opcode: OP_DATA_1, Data: []byte{0x11}}, 17, false},
		{ParsedOpcode{Opcode: OP_DATA_1 + 3, Data: hexToBytes("da000000")}, 218, false},
		{ParsedOpcode{Opcode: OP_DUP}, 0, true},
	}

	for i, test := range tests {
		got, err := test.pop.Int64(DefaultScriptNumLen)
		if (err != nil) != test.err {
			t.Errorf("test %d: unexpected error state: %v", i, err)
			continue
		}
		if got != test.want {
			t.Errorf("test %d: got %d, want %d", i, got, test.want)
		}
	}
}
