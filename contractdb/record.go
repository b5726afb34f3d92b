// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"bytes"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"

	"github.com/jetonlabs/jeton/contract"
)

const (
	// maxNetworkNameLen bounds the network name of a stored record.
	maxNetworkNameLen = 64

	// recordPver is the protocol version passed to the wire encoders.
	recordPver = 0
)

// Record is a stored contract: the redeem script needed to spend its
// pay-to-script-hash output along with the template it was built from and
// the network it was built for.
type Record struct {
	Kind    contract.Kind
	Network string
	Redeem  []byte
}

// NewRecord returns the record of a compiled contract.
func NewRecord(c contract.OutputScript, network string) *Record {
	return &Record{
		Kind:    c.Kind(),
		Network: network,
		Redeem:  c.Script(),
	}
}

// ScriptHash returns the hash the record is stored under.
func (r *Record) ScriptHash() []byte {
	return btcutil.Hash160(r.Redeem)
}

// OutputScript parses the redeem script back into its contract.
func (r *Record) OutputScript() (contract.OutputScript, error) {
	return contract.ParseOutputScript(r.Redeem)
}

// serialize encodes the record as kind(1) | varstring network |
// varbytes redeem.
func (r *Record) serialize() ([]byte, error) {
	if len(r.Network) > maxNetworkNameLen {
		return nil, errors.Errorf("network name %q is too long",
			r.Network)
	}
	var b bytes.Buffer
	b.WriteByte(byte(r.Kind))
	if err := wire.WriteVarString(&b, recordPver, r.Network); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := wire.WriteVarBytes(&b, recordPver, r.Redeem); err != nil {
		return nil, errors.WithStack(err)
	}
	return b.Bytes(), nil
}

// deserializeRecord decodes a record written by serialize.
func deserializeRecord(data []byte) (*Record, error) {
	r := bytes.NewReader(data)
	kind, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "record has no kind")
	}
	network, err := wire.ReadVarString(r, recordPver)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read record network")
	}
	if len(network) > maxNetworkNameLen {
		return nil, errors.Errorf("record network name is %d bytes",
			len(network))
	}
	redeem, err := wire.ReadVarBytes(r, recordPver,
		txscript.MaxScriptSize, "redeem script")
	if err != nil {
		return nil, errors.Wrap(err, "cannot read record redeem script")
	}
	if r.Len() != 0 {
		return nil, errors.Errorf("record has %d trailing bytes", r.Len())
	}
	return &Record{
		Kind:    contract.Kind(kind),
		Network: network,
		Redeem:  redeem,
	}, nil
}
