// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"bytes"
	"encoding/hex"
	"math"
	"testing"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

func TestOracleMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		height int64
		price  float64
		want   []byte
		value  int64
	}{
		{"exact", 600000, 218, hexToBytes("c0270900da000000"), 218},
		{"rounded up", 600000, 217.01, hexToBytes("c0270900da000000"), 218},
		{"above threshold", 600000, 219.5, hexToBytes("c0270900dc000000"), 220},
		{"negative", 1, -1.5, hexToBytes("0100000001000080"), -1},
		{"zero", 0, 0, hexToBytes("0000000000000000"), 0},
	}
	for _, test := range tests {
		m, err := NewOracleMessage(test.height, test.price)
		if err != nil {
			t.Errorf("%s: NewOracleMessage: unexpected error: %v",
				test.name, err)
			continue
		}
		if m.Value != test.value {
			t.Errorf("%s: value %d, want %d", test.name, m.Value,
				test.value)
		}
		b, err := m.Bytes()
		if err != nil {
			t.Errorf("%s: Bytes: unexpected error: %v", test.name, err)
			continue
		}
		if !bytes.Equal(b, test.want) {
			t.Errorf("%s: got %x, want %x", test.name, b, test.want)
			continue
		}
		parsed, err := ParseOracleMessage(b)
		if err != nil || parsed != m {
			t.Errorf("%s: ParseOracleMessage: got %+v (err %v), "+
				"want %+v", test.name, parsed, err, m)
		}
	}
}

func TestOracleMessageErrors(t *testing.T) {
	t.Parallel()

	bad := []struct {
		name   string
		height int64
		price  float64
	}{
		{"nan", 1, math.NaN()},
		{"infinite", 1, math.Inf(1)},
		{"too large", 1, 1 << 40},
		{"negative height", -1, 1},
		{"timestamp height", 500000000, 1},
	}
	for _, test := range bad {
		_, err := NewOracleMessage(test.height, test.price)
		if !IsErrorCode(err, ErrInvalidMessage) {
			t.Errorf("%s: want ErrInvalidMessage, got %v", test.name,
				err)
		}
	}

	if _, err := ParseOracleMessage(hexToBytes("c0270900")); !IsErrorCode(err, ErrInvalidMessage) {
		t.Errorf("short message: want ErrInvalidMessage, got %v", err)
	}
}

func TestThresholdWinner(t *testing.T) {
	t.Parallel()

	_, oracle := testKey(1)
	_, lteKey := testKey(2)
	_, gtKey := testKey(3)
	th, err := NewThreshold(oracle, 218, NewParty(nil, lteKey),
		NewParty(nil, gtKey), 0)
	if err != nil {
		t.Fatalf("NewThreshold: unexpected error: %v", err)
	}

	tests := []struct {
		value int64
		gt    bool
	}{
		{220, true},
		{219, true},
		{218, false},
		{100, false},
		{-5, false},
	}
	for _, test := range tests {
		winner := th.Winner(OracleMessage{BlockHeight: 1, Value: test.value})
		if (winner.PubKeyHash == th.Gt.PubKeyHash) != test.gt {
			t.Errorf("value %d: wrong winner", test.value)
		}
	}
}

func TestSignMessage(t *testing.T) {
	t.Parallel()

	priv, pub := testKey(1)
	_, other := testKey(2)
	msg := []byte("win1")

	sig := SignMessage(priv, msg)
	if !bytes.Equal(sig, SignMessage(priv, msg)) {
		t.Fatalf("data signatures are not deterministic")
	}
	if !VerifyMessage(pub, msg, sig) {
		t.Fatalf("valid data signature rejected")
	}
	if VerifyMessage(pub, []byte("win2"), sig) {
		t.Errorf("signature accepted for another message")
	}
	if VerifyMessage(other, msg, sig) {
		t.Errorf("signature accepted for another key")
	}
	if VerifyMessage(pub, msg, sig[:len(sig)-1]) {
		t.Errorf("truncated signature accepted")
	}
}
