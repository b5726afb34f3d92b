// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package contract builds, and parses back, the redeem scripts of three Bitcoin
Cash contracts settled by an off-chain referee or oracle.

Escrow pays whichever party the referee names by data-signing that party's
message.  Threshold pays one of two parties depending on how a value signed
by an oracle compares to a fixed threshold, and uses the block height in the
oracle message as the minimum lock time of the spend.  Covenant forces the
spending transaction to create a fixed list of outputs, with either exact
amounts or amounts in fixed proportions.

Each contract is compiled once by its constructor and exposes its script, its
pay-to-script-hash output and address through the OutputScript interface.
The matching unlocking scripts are produced by EscrowInputScript,
ThresholdInputScript and CovenantInputScript.

The parsers match on the opcode patterns the builders emit and rebuild the
contract through its constructor, so a parsed contract compiles to the same
script it was parsed from.  Scripts from other sources are not supported.
*/
package contract
