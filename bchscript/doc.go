// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package bchscript implements the Bitcoin Cash script primitives shared by the
contract builders, the transaction orchestrator and the reference interpreter.

Script Numbers

Numbers on the script stack are little endian with the sign carried in the high
bit of the final byte.  ScriptNum encodes and decodes that form, and
PaddedScriptNum produces the minimally encoded then zero padded fields used by
fixed width oracle messages.

Opcodes and Disassembly

The opcode table uses the Bitcoin Cash names, including the re-enabled splice
opcodes (OP_CAT, OP_SPLIT, OP_NUM2BIN, OP_BIN2NUM) and the data signature
opcodes (OP_CHECKDATASIG, OP_CHECKDATASIGVERIFY).  ParseScript turns a script
into an ordered list of ParsedOpcode elements carrying any pushed data and the
byte offset of each opcode, which is what contract parsers match on.

Signature Hashes

NewPreimage builds the replay protected BIP143 style preimage that Bitcoin
Cash signs.  Only the ALL hash type is supported, optionally with
ANYONECANPAY.  The preimage keeps the raw buffers behind its aggregate hashes
so covenant spends can disclose them.

Errors

Errors returned by this package are of type bchscript.Error and carry an
ErrorCode which may be matched with errors.Is or IsErrorCode.
*/
package bchscript
