// Copyright (c) 2015-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bchscript

import (
	"bytes"
	"encoding/hex"
	"math"
	"testing"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected. It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// TestScriptNumBytes ensures that converting from integral script numbers to
// byte representations works as expected.
func TestScriptNumBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		num        ScriptNum
		serialized []byte
	}{
		{0, nil},
		{1, hexToBytes("01")},
		{-1, hexToBytes("81")},
		{16, hexToBytes("10")},
		{-16, hexToBytes("90")},
		{127, hexToBytes("7f")},
		{-127, hexToBytes("ff")},
		{128, hexToBytes("8000")},
		{-128, hexToBytes("8080")},
		{129, hexToBytes("8100")},
		{-129, hexToBytes("8180")},
		{256, hexToBytes("0001")},
		{-256, hexToBytes("0081")},
		{32767, hexToBytes("ff7f")},
		{-32767, hexToBytes("ffff")},
		{32768, hexToBytes("008000")},
		{-32768, hexToBytes("008080")},
		{65535, hexToBytes("ffff00")},
		{-65535, hexToBytes("ffff80")},
		{524288, hexToBytes("000008")},
		{-524288, hexToBytes("000088")},
		{7340032, hexToBytes("000070")},
		{-7340032, hexToBytes("0000f0")},
		{8388608, hexToBytes("00008000")},
		{-8388608, hexToBytes("00008080")},
		{2147483647, hexToBytes("ffffff7f")},
		{-2147483647, hexToBytes("ffffffff")},

		// Values that are out of range for data that is interpreted as
		// numbers, but are allowed as the result of numeric operations.
		{2147483648, hexToBytes("0000008000")},
		{-2147483648, hexToBytes("0000008080")},
		{4294967295, hexToBytes("ffffffff00")},
		{-4294967295, hexToBytes("ffffffff80")},
		{4294967296, hexToBytes("0000000001")},
		{-4294967296, hexToBytes("0000000081")},
		{281474976710655, hexToBytes("ffffffffffff00")},
		{-281474976710655, hexToBytes("ffffffffffff80")},
		{72057594037927935, hexToBytes("ffffffffffffff00")},
		{-72057594037927935, hexToBytes("ffffffffffffff80")},
		{9223372036854775807, hexToBytes("ffffffffffffff7f")},
		{-9223372036854775807, hexToBytes("ffffffffffffffff")},
	}

	for _, test := range tests {
		gotBytes := test.num.Bytes()
		if !bytes.Equal(gotBytes, test.serialized) {
			t.Errorf("Bytes: did not get expected bytes for %d - "+
				"got %x, want %x", test.num, gotBytes,
				test.serialized)
			continue
		}
	}
}

// TestMakeScriptNum ensures that converting from byte representations to
// integral script numbers works as expected.
func TestMakeScriptNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		serialized      []byte
		num             ScriptNum
		numLen          int
		minimalEncoding bool
		err             error
	}{
		// Minimal encoding must reject negative 0.
		{hexToBytes("80"), 0, DefaultScriptNumLen, true, ErrMalformedNumber},

		// Minimally encoded valid values with minimal encoding flag.
		// Should not error and return expected integral number.
		{nil, 0, DefaultScriptNumLen, true, nil},
		{hexToBytes("01"), 1, DefaultScriptNumLen, true, nil},
		{hexToBytes("81"), -1, DefaultScriptNumLen, true, nil},
		{hexToBytes("7f"), 127, DefaultScriptNumLen, true, nil},
		{hexToBytes("ff"), -127, DefaultScriptNumLen, true, nil},
		{hexToBytes("8000"), 128, DefaultScriptNumLen, true, nil},
		{hexToBytes("8080"), -128, DefaultScriptNumLen, true, nil},
		{hexToBytes("0001"), 256, DefaultScriptNumLen, true, nil},
		{hexToBytes("0081"), -256, DefaultScriptNumLen, true, nil},
		{hexToBytes("ffff00"), 65535, DefaultScriptNumLen, true, nil},
		{hexToBytes("ffff80"), -65535, DefaultScriptNumLen, true, nil},
		{hexToBytes("ffffff7f"), 2147483647, DefaultScriptNumLen, true, nil},
		{hexToBytes("ffffffff"), -2147483647, DefaultScriptNumLen, true, nil},
		{hexToBytes("ffffffff7f"), 549755813887, LockTimeNumLen, true, nil},
		{hexToBytes("ffffffffff"), -549755813887, LockTimeNumLen, true, nil},
		{hexToBytes("ffffffffffffff7f"), 9223372036854775807, MaxScriptNumLen, true, nil},
		{hexToBytes("ffffffffffffffff"), -9223372036854775807, MaxScriptNumLen, true, nil},

		// Lengths above the maximum are clamped, so nine byte encodings
		// are always too big.
		{hexToBytes("ffffffffffffffff7f"), 0, 9, true, ErrNumberTooBig},

		// Minimally encoded values that are out of range for data that
		// is interpreted as script numbers with the minimal encoding
		// flag set.  Should error and return 0.
		{hexToBytes("0000008000"), 0, DefaultScriptNumLen, true, ErrNumberTooBig},
		{hexToBytes("0000008080"), 0, DefaultScriptNumLen, true, ErrNumberTooBig},
		{hexToBytes("ffffffff00"), 0, DefaultScriptNumLen, true, ErrNumberTooBig},
		{hexToBytes("0000000001"), 0, DefaultScriptNumLen, true, ErrNumberTooBig},
		{hexToBytes("ffffffffffffff7f"), 0, DefaultScriptNumLen, true, ErrNumberTooBig},

		// Non-minimally encoded, but otherwise valid values with
		// minimal encoding flag.  Should error and return 0.
		{hexToBytes("00"), 0, DefaultScriptNumLen, true, ErrMalformedNumber},       // 0
		{hexToBytes("0100"), 0, DefaultScriptNumLen, true, ErrMalformedNumber},     // 1
		{hexToBytes("7f00"), 0, DefaultScriptNumLen, true, ErrMalformedNumber},     // 127
		{hexToBytes("800000"), 0, DefaultScriptNumLen, true, ErrMalformedNumber},   // 128
		{hexToBytes("000100"), 0, DefaultScriptNumLen, true, ErrMalformedNumber},   // 256
		{hexToBytes("00800000"), 0, DefaultScriptNumLen, true, ErrMalformedNumber}, // 32768
		{hexToBytes("da000000"), 0, DefaultScriptNumLen, true, ErrMalformedNumber}, // 218
		{hexToBytes("0009000100"), 0, 5, true, ErrMalformedNumber},                 // 16779520

		// Non-minimally encoded, but otherwise valid values without
		// minimal encoding flag.  Should not error and return expected
		// integral number.
		{hexToBytes("00"), 0, DefaultScriptNumLen, false, nil},
		{hexToBytes("0100"), 1, DefaultScriptNumLen, false, nil},
		{hexToBytes("7f00"), 127, DefaultScriptNumLen, false, nil},
		{hexToBytes("800000"), 128, DefaultScriptNumLen, false, nil},
		{hexToBytes("00800000"), 32768, DefaultScriptNumLen, false, nil},
		{hexToBytes("da000000"), 218, DefaultScriptNumLen, false, nil},
		{hexToBytes("05000080"), -5, DefaultScriptNumLen, false, nil},
		{hexToBytes("0009000100"), 16779520, 5, false, nil},
	}

	for _, test := range tests {
		gotNum, err := MakeScriptNum(test.serialized, test.minimalEncoding,
			test.numLen)
		switch {
		case test.err == nil && err != nil:
			t.Errorf("MakeScriptNum: unexpected error for %x: %v",
				test.serialized, err)
			continue
		case test.err != nil && !IsErrorCode(err, test.err.(ErrorCode)):
			t.Errorf("MakeScriptNum: did not receive expected "+
				"error for %x - got %v, want %v",
				test.serialized, err, test.err)
			continue
		}

		if gotNum != test.num {
			t.Errorf("MakeScriptNum: did not get expected number "+
				"for %x - got %d, want %d", test.serialized,
				gotNum, test.num)
			continue
		}
	}
}

// TestScriptNumRoundTrip ensures every encoded number decodes back to itself
// and that the encoding never exceeds the minimal length.
func TestScriptNumRoundTrip(t *testing.T) {
	t.Parallel()

	nums := []int64{0, 1, -1, 16, -16, 17, 127, -127, 128, -128, 255, -255,
		256, 32767, -32768, 65535, 8388607, 8388608, -8388608,
		2147483647, -2147483647, 2147483648, 1 << 40, -(1 << 40),
		math.MaxInt64, -math.MaxInt64}

	for _, n := range nums {
		encoded := ScriptNum(n).Bytes()
		if !IsMinimallyEncoded(encoded) {
			t.Errorf("encoding of %d (%x) is not minimal", n, encoded)
			continue
		}
		got, err := MakeScriptNum(encoded, true, MaxScriptNumLen)
		if err != nil {
			t.Errorf("MakeScriptNum(%x): unexpected error: %v",
				encoded, err)
			continue
		}
		if int64(got) != n {
			t.Errorf("round trip of %d - got %d", n, got)
		}
	}
}

// TestScriptNumInt32 ensures that the Int32 function on script number behaves
// as expected.
func TestScriptNumInt32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ScriptNum
		want int32
	}{
		{0, 0},
		{1, 1},
		{-1, -1},
		{2147483647, 2147483647},
		{-2147483647, -2147483647},
		{-2147483648, -2147483648},

		// Values outside of the valid int32 range are limited to int32.
		{2147483648, 2147483647},
		{-2147483649, -2147483648},
		{9223372036854775807, 2147483647},
		{-9223372036854775808, -2147483648},
	}

	for _, test := range tests {
		got := test.in.Int32()
		if got != test.want {
			t.Errorf("Int32: did not get expected value for %d - "+
				"got %d, want %d", test.in, got, test.want)
			continue
		}
	}
}

// TestPaddedScriptNum ensures fixed width numeric fields are padded and keep
// their sign.
func TestPaddedScriptNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		num  int64
		size int
		want []byte
		err  ErrorCode
	}{
		{"zero", 0, 4, hexToBytes("00000000"), 0},
		{"small", 5, 4, hexToBytes("05000000"), 0},
		{"sign byte", 218, 4, hexToBytes("da000000"), 0},
		{"block height", 600000, 4, hexToBytes("c0270900"), 0},
		{"negative", -5, 4, hexToBytes("05000080"), 0},
		{"negative sign byte", -218, 4, hexToBytes("da000080"), 0},
		{"exact width", 2147483647, 4, hexToBytes("ffffff7f"), 0},
		{"too wide", 2147483648, 4, nil, ErrNumberTooBig},
		{"min int64", math.MinInt64, 8, nil, ErrNumberTooBig},
	}

	for _, test := range tests {
		got, err := PaddedScriptNum(test.num, test.size)
		if test.want == nil {
			if !IsErrorCode(err, test.err) {
				t.Errorf("%s: want %v, got %v", test.name,
					test.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if !bytes.Equal(got, test.want) {
			t.Errorf("%s: got %x, want %x", test.name, got,
				test.want)
			continue
		}

		// The padded form must decode back to the same number.
		n, err := MakeScriptNum(got, false, test.size)
		if err != nil || int64(n) != test.num {
			t.Errorf("%s: decoded %d (err %v), want %d", test.name,
				n, err, test.num)
		}
	}
}

// TestMinimallyEncode ensures the OP_BIN2NUM transformation strips padding.
func TestMinimallyEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []byte
		want []byte
	}{
		{nil, nil},
		{hexToBytes("00"), nil},
		{hexToBytes("80"), nil},
		{hexToBytes("00000080"), nil},
		{hexToBytes("01"), hexToBytes("01")},
		{hexToBytes("05000000"), hexToBytes("05")},
		{hexToBytes("05000080"), hexToBytes("85")},
		{hexToBytes("da000000"), hexToBytes("da00")},
		{hexToBytes("ff000080"), hexToBytes("ff80")},
		{hexToBytes("a00f000000000000"), hexToBytes("a00f")},
	}

	for _, test := range tests {
		got := MinimallyEncode(test.in)
		if !bytes.Equal(got, test.want) {
			t.Errorf("MinimallyEncode(%x): got %x, want %x", test.in,
				got, test.want)
		}
	}
}
