// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package vm implements a Bitcoin Cash script interpreter.

The engine executes a signature script followed by a public key script, and
for pay-to-script-hash outputs the redeem script, the way a Bitcoin Cash node
validates a transaction input.  It understands the opcodes Bitcoin Cash
re-enabled or added (OP_CAT, OP_SPLIT, OP_NUM2BIN, OP_BIN2NUM, OP_DIV, OP_MOD,
OP_CHECKDATASIG and OP_REVERSEBYTES), computes signature hashes with the
replay protected fork id algorithm and supports 64-bit script integers.

It exists so contract spends can be checked locally before they are broadcast.
It is not a consensus implementation: OP_CHECKMULTISIG is not supported and
signatures without the fork id bit are rejected.

# Usage

	engine, err := vm.NewEngine(pkScript, tx, idx, vm.StandardP2SHFlags,
		sigCache, prevOuts)
	if err != nil {
		return err
	}
	if err := engine.Execute(); err != nil {
		log.Printf("input %d fails at %s: %v", idx,
			vm.FailingOpcode(err), err)
	}

# Errors

Errors returned by this package are of type vm.Error.  The Opcode field names
the opcode whose execution failed, and errors.Is matches the ErrorCode.
*/
package vm
