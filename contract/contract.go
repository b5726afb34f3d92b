// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/jetonlabs/jeton/bchscript"
)

// Kind identifies which contract template produced a script.
type Kind uint8

// These constants define the supported contract templates.
const (
	KindUnknown Kind = iota
	KindEscrow
	KindThreshold
	KindCovenant
)

// Map of Kind values back to their names for pretty printing.
var kindStrings = map[Kind]string{
	KindUnknown:   "unknown",
	KindEscrow:    "escrow",
	KindThreshold: "threshold",
	KindCovenant:  "covenant",
}

// String returns the Kind in human-readable form.
func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Kind (%d)", uint8(k))
}

// ParseKind returns the Kind with the given name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindStrings {
		if k != KindUnknown && name == s {
			return k, nil
		}
	}
	str := fmt.Sprintf("unknown contract kind %q", s)
	return KindUnknown, contractError(ErrInvalidContract, str)
}

// OutputScript is the capability shared by every contract template.  The
// set of implementations is closed: *Escrow, *Threshold and *Covenant.
type OutputScript interface {
	// Kind returns the template the script was built from.
	Kind() Kind

	// Script returns the compiled redeem script.
	Script() []byte

	// ScriptHash returns the 20-byte RIPEMD160(SHA256(script)) hash.
	ScriptHash() []byte

	// PayToScriptHash returns the OP_HASH160 <hash> OP_EQUAL output
	// script committing to the redeem script.
	PayToScriptHash() []byte

	// Address returns the pay-to-script-hash address for the network.
	Address(params *chaincfg.Params) (*btcutil.AddressScriptHash, error)

	isOutputScript()
}

// compiled holds the redeem script produced by a constructor and implements
// the hash and address methods of OutputScript on top of it.
type compiled struct {
	script []byte
}

func (c *compiled) Script() []byte {
	return c.script
}

func (c *compiled) ScriptHash() []byte {
	return btcutil.Hash160(c.script)
}

func (c *compiled) PayToScriptHash() []byte {
	return payToScriptHashScript(btcutil.Hash160(c.script))
}

func (c *compiled) Address(params *chaincfg.Params) (*btcutil.AddressScriptHash, error) {
	return btcutil.NewAddressScriptHashFromHash(btcutil.Hash160(c.script),
		params)
}

func (c *compiled) isOutputScript() {}

// payToScriptHashScript creates a script paying to the 20-byte script hash.
func payToScriptHashScript(scriptHash []byte) []byte {
	script, _ := txscript.NewScriptBuilder().
		AddOp(bchscript.OP_HASH160).
		AddData(scriptHash).
		AddOp(bchscript.OP_EQUAL).
		Script()
	return script
}

// PayToScriptHash returns the pay-to-script-hash output script for the given
// redeem script.
func PayToScriptHash(redeemScript []byte) []byte {
	return payToScriptHashScript(btcutil.Hash160(redeemScript))
}

// Party is one outcome branch of a contract: the message that selects it and
// the hash of the public key allowed to claim it.
type Party struct {
	Message    []byte
	PubKeyHash [20]byte
}

// NewParty returns a party identified by the hash of the compressed public
// key.
func NewParty(message []byte, pubKey *btcec.PublicKey) Party {
	var p Party
	p.Message = message
	copy(p.PubKeyHash[:], btcutil.Hash160(pubKey.SerializeCompressed()))
	return p
}

// PartyFromAddress returns a party identified by a pay-to-pubkey-hash or
// pay-to-pubkey address.  Other address types cannot claim a branch and are
// rejected.
func PartyFromAddress(message []byte, addr btcutil.Address) (Party, error) {
	var p Party
	p.Message = message
	switch a := addr.(type) {
	case *btcutil.AddressPubKeyHash:
		p.PubKeyHash = *a.Hash160()
	case *btcutil.AddressPubKey:
		p.PubKeyHash = *a.AddressPubKeyHash().Hash160()
	default:
		str := fmt.Sprintf("address %v (%T) cannot identify a party",
			addr, addr)
		return Party{}, contractError(ErrInvalidContract, str)
	}
	return p, nil
}

// isZero returns whether the party has no public key hash.  No known key
// hashes to all zeros, so such a branch can never be claimed.
func (p Party) isZero() bool {
	return p.PubKeyHash == [20]byte{}
}

// Address returns the pay-to-pubkey-hash address of the party.
func (p Party) Address(params *chaincfg.Params) (*btcutil.AddressPubKeyHash, error) {
	return btcutil.NewAddressPubKeyHash(p.PubKeyHash[:], params)
}

// buildError converts a script builder failure into a contract error.
func buildError(kind Kind, err error) error {
	str := fmt.Sprintf("unable to build %v script: %v", kind, err)
	return contractError(ErrScriptBuild, str)
}
