// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/jetonlabs/jeton/contract"
)

// testKey deterministically derives a key pair from the given seed byte.
func testKey(seed byte) (*btcec.PrivateKey, *btcec.PublicKey) {
	return btcec.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
}

func testPubKeyHex(seed byte) string {
	_, pub := testKey(seed)
	return hex.EncodeToString(pub.SerializeCompressed())
}

func testAddr(t *testing.T, seed byte) *btcutil.AddressPubKeyHash {
	t.Helper()
	_, pub := testKey(seed)
	addr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(pub.SerializeCompressed()),
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressPubKeyHash: %v", err)
	}
	return addr
}

func TestCleanAndExpandPath(t *testing.T) {
	t.Parallel()

	u, err := user.Current()
	if err != nil || u.HomeDir == "" {
		t.Skipf("no home directory: %v", err)
	}
	home := u.HomeDir

	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/../var/jeton", "/var/jeton"},
		{"relative/./dir", "relative/dir"},
		{"~/jeton", filepath.Join(home, "jeton")},
	}
	for _, test := range tests {
		got := cleanAndExpandPath(test.in)
		if got != test.want {
			t.Errorf("cleanAndExpandPath(%q): got %q, want %q",
				test.in, got, test.want)
		}
	}
}

func TestParseParty(t *testing.T) {
	t.Parallel()

	_, pub := testKey(2)
	want := contract.NewParty([]byte("win1"), pub)
	addr := testAddr(t, 2)

	tests := []struct {
		name    string
		in      string
		message string
		valid   bool
	}{
		{"pubkey", "win1:" + testPubKeyHex(2), "win1", true},
		{"address", "win1:" + addr.EncodeAddress(), "win1", true},
		{"message with colon", "a:b:" + testPubKeyHex(2), "a:b", true},
		{"empty message", ":" + testPubKeyHex(2), "", true},
		{"no separator", testPubKeyHex(2), "", false},
		{"bad identity", "win1:nope", "", false},
	}
	for _, test := range tests {
		party, err := parseParty(test.in)
		if !test.valid {
			if err == nil {
				t.Errorf("%s: expected error", test.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if string(party.Message) != test.message {
			t.Errorf("%s: message %q, want %q", test.name,
				party.Message, test.message)
		}
		if party.PubKeyHash != want.PubKeyHash {
			t.Errorf("%s: pubkey hash %x, want %x", test.name,
				party.PubKeyHash, want.PubKeyHash)
		}
	}
}

func TestParseOutput(t *testing.T) {
	t.Parallel()

	addr := testAddr(t, 3)
	output, err := parseOutput(addr.EncodeAddress() + ":10010")
	if err != nil {
		t.Fatalf("parseOutput: %v", err)
	}
	if output.Value != 10010 || len(output.PkScript) != 25 {
		t.Errorf("parseOutput: unexpected output %+v", output)
	}

	output, err = parseOutput(addr.EncodeAddress())
	if err != nil {
		t.Fatalf("parseOutput without amount: %v", err)
	}
	if output.Value != 0 {
		t.Errorf("parseOutput without amount: value %d", output.Value)
	}

	for _, in := range []string{"nope:1", addr.EncodeAddress() + ":x"} {
		if _, err := parseOutput(in); err == nil {
			t.Errorf("parseOutput(%q): expected error", in)
		}
	}
}

func TestParseWIF(t *testing.T) {
	t.Parallel()

	priv, _ := testKey(4)
	wif, err := btcutil.NewWIF(priv, &chaincfg.MainNetParams, true)
	if err != nil {
		t.Fatalf("NewWIF: %v", err)
	}
	got, err := parseWIF(wif.String())
	if err != nil {
		t.Fatalf("parseWIF: %v", err)
	}
	if !got.PubKey().IsEqual(priv.PubKey()) {
		t.Errorf("parseWIF: decoded a different key")
	}

	testWIF, err := btcutil.NewWIF(priv, &chaincfg.TestNet3Params, true)
	if err != nil {
		t.Fatalf("NewWIF: %v", err)
	}
	if _, err := parseWIF(testWIF.String()); err == nil {
		t.Errorf("parseWIF: accepted a testnet key")
	}
}

func TestWriteContract(t *testing.T) {
	t.Parallel()

	_, referee := testKey(1)
	_, p1 := testKey(2)
	escrow, err := contract.NewEscrow(referee, []contract.Party{
		contract.NewParty([]byte("win1"), p1),
	})
	if err != nil {
		t.Fatalf("NewEscrow: %v", err)
	}

	var buf bytes.Buffer
	if err := writeContract(&buf, escrow); err != nil {
		t.Fatalf("writeContract: %v", err)
	}
	if err := writeTerms(&buf, escrow); err != nil {
		t.Fatalf("writeTerms: %v", err)
	}
	out := buf.String()

	addr, err := escrow.Address(&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("Address: %v", err)
	}
	wants := []string{
		"Kind:          escrow",
		hex.EncodeToString(escrow.Script()),
		"OP_CHECKDATASIGVERIFY",
		addr.EncodeAddress(),
		`"win1" -> ` + testAddr(t, 2).EncodeAddress(),
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}
