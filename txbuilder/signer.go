// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// Signer produces ECDSA signatures for a single key.  Implementations may
// keep the key outside the process.
type Signer interface {
	// PubKey returns the public key signatures verify against.
	PubKey() *btcec.PublicKey

	// Sign returns the DER encoded signature of the 32-byte hash without
	// a hash type byte.
	Sign(hash []byte) ([]byte, error)
}

// PrivKeySigner signs with an in-memory private key.
type PrivKeySigner struct {
	key *btcec.PrivateKey
}

// NewPrivKeySigner returns a Signer for the private key.
func NewPrivKeySigner(key *btcec.PrivateKey) *PrivKeySigner {
	return &PrivKeySigner{key: key}
}

// PubKey returns the public key of the signer.
func (s *PrivKeySigner) PubKey() *btcec.PublicKey {
	return s.key.PubKey()
}

// Sign returns a deterministic RFC6979 signature of hash.
func (s *PrivKeySigner) Sign(hash []byte) ([]byte, error) {
	return ecdsa.Sign(s.key, hash).Serialize(), nil
}
