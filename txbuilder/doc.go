// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txbuilder assembles, signs and verifies the transactions that fund and
spend contracts.

A Tx wraps a wire.MsgTx together with the outputs its inputs spend, so
signature hashes and the covenant preimage can be computed without any chain
access.  Funding is done by paying a contract's pay-to-script-hash output,
optionally from several parties that each sign their own input with
SIGHASH_ANYONECANPAY and are then combined with MergeFundingTransactions.
Spending is done with the Sign method matching the contract template, after
which VerifyInput runs the input through the configured Interpreter.

All behaviour is driven by an immutable Config value.  DefaultConfig verifies
with the vm package and signs with SIGHASH_ALL|SIGHASH_FORKID.
*/
package txbuilder
