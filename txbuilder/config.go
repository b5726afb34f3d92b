// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txbuilder

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/jetonlabs/jeton/bchscript"
	"github.com/jetonlabs/jeton/vm"
)

// DefaultSigCacheMaxSize is the number of verified signatures remembered by
// the interpreter of DefaultConfig.
const DefaultSigCacheMaxSize = 1000

// Interpreter executes the script pair of a transaction input.  It returns
// nil when the input is valid.
type Interpreter interface {
	Verify(pkScript []byte, tx *wire.MsgTx, idx int, flags vm.ScriptFlags,
		prevOuts txscript.PrevOutputFetcher) error
}

// EngineInterpreter is the Interpreter backed by the vm package.
type EngineInterpreter struct {
	SigCache *vm.SigCache
}

// Verify executes the input with a fresh vm.Engine.
func (e *EngineInterpreter) Verify(pkScript []byte, tx *wire.MsgTx, idx int,
	flags vm.ScriptFlags, prevOuts txscript.PrevOutputFetcher) error {

	engine, err := vm.NewEngine(pkScript, tx, idx, flags, e.SigCache,
		prevOuts)
	if err != nil {
		return err
	}
	return engine.Execute()
}

// Config holds the parameters transactions are built, signed and verified
// with.  A Config is a value and is never modified by this package.
type Config struct {
	// Flags are the interpreter flags for pay-to-pubkey-hash and escrow
	// spends.
	Flags vm.ScriptFlags

	// LockTimeFlags are the interpreter flags for threshold and covenant
	// spends.
	LockTimeFlags vm.ScriptFlags

	// HashType is appended to every signature.  Funding transactions
	// meant to be merged need SIGHASH_ANYONECANPAY.
	HashType bchscript.SigHashType

	// Interpreter verifies signed inputs.
	Interpreter Interpreter

	// Params is the network addresses must belong to.
	Params *chaincfg.Params
}

// DefaultConfig returns a mainnet configuration signing with
// SIGHASH_ALL|SIGHASH_FORKID and verifying with the vm package.
func DefaultConfig() Config {
	return Config{
		Flags:         vm.StandardP2SHFlags,
		LockTimeFlags: vm.LockTimeP2SHFlags,
		HashType:      bchscript.DefaultSigHashType,
		Interpreter: &EngineInterpreter{
			SigCache: vm.NewSigCache(DefaultSigCacheMaxSize),
		},
		Params: &chaincfg.MainNetParams,
	}
}

// WithHashType returns a copy of the configuration signing with the passed
// hash type.
func (c Config) WithHashType(hashType bchscript.SigHashType) Config {
	c.HashType = hashType
	return c
}
