// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/jetonlabs/jeton/bchscript"
)

// Escrow is a contract paying whichever party the referee names.  The referee
// signs the winning party's message with a data signature and the winner
// spends with an ordinary signature from the key behind its hash.
type Escrow struct {
	compiled

	RefereePubKey *btcec.PublicKey
	Parties       []Party
}

// NewEscrow validates the escrow terms and compiles the script.  Every party
// needs a public key hash and a distinct, non-empty message so that at most
// one branch can match.
func NewEscrow(refereePubKey *btcec.PublicKey, parties []Party) (*Escrow, error) {
	if refereePubKey == nil {
		return nil, contractError(ErrInvalidContract,
			"escrow requires a referee public key")
	}
	if len(parties) == 0 {
		return nil, contractError(ErrInvalidContract,
			"escrow requires at least one party")
	}
	for i, p := range parties {
		if len(p.Message) == 0 {
			str := fmt.Sprintf("escrow party %d has an empty message", i)
			return nil, contractError(ErrInvalidContract, str)
		}
		// The script builder pushes a lone zero byte as OP_0, which
		// leaves an empty message on the stack.
		if len(p.Message) == 1 && p.Message[0] == 0 {
			str := fmt.Sprintf("escrow party %d message 0x00 "+
				"cannot be pushed as data", i)
			return nil, contractError(ErrInvalidContract, str)
		}
		if p.isZero() {
			str := fmt.Sprintf("escrow party %d has no public key "+
				"hash", i)
			return nil, contractError(ErrInvalidContract, str)
		}
		for j := 0; j < i; j++ {
			if bytes.Equal(parties[j].Message, p.Message) {
				str := fmt.Sprintf("escrow parties %d and %d share "+
					"the message %q", j, i, p.Message)
				return nil, contractError(ErrInvalidContract, str)
			}
		}
	}

	e := &Escrow{
		RefereePubKey: refereePubKey,
		Parties:       parties,
	}
	script, err := e.build()
	if err != nil {
		return nil, buildError(KindEscrow, err)
	}
	e.script = script
	return e, nil
}

// build emits one conditional per party:
//
//	OP_DUP <msg> OP_EQUAL OP_IF
//	  OP_DROP <msg> <referee> OP_CHECKDATASIGVERIFY OP_DUP OP_HASH160 <pkh>
//
// chained with OP_ELSE, closed by one OP_ENDIF per party and followed by
// OP_EQUALVERIFY OP_CHECKSIG.
func (e *Escrow) build() ([]byte, error) {
	refereeKey := e.RefereePubKey.SerializeCompressed()

	builder := txscript.NewScriptBuilder()
	for i, p := range e.Parties {
		if i > 0 {
			builder.AddOp(bchscript.OP_ELSE)
		}
		builder.AddOp(bchscript.OP_DUP).
			AddData(p.Message).
			AddOp(bchscript.OP_EQUAL).
			AddOp(bchscript.OP_IF).
			AddOp(bchscript.OP_DROP).
			AddData(p.Message).
			AddData(refereeKey).
			AddOp(bchscript.OP_CHECKDATASIGVERIFY).
			AddOp(bchscript.OP_DUP).
			AddOp(bchscript.OP_HASH160).
			AddData(p.PubKeyHash[:])
	}
	for range e.Parties {
		builder.AddOp(bchscript.OP_ENDIF)
	}
	builder.AddOp(bchscript.OP_EQUALVERIFY).
		AddOp(bchscript.OP_CHECKSIG)

	return builder.Script()
}

// Kind returns KindEscrow.
func (e *Escrow) Kind() Kind {
	return KindEscrow
}

// Party returns the party claiming with the given message.
func (e *Escrow) Party(message []byte) (Party, bool) {
	for _, p := range e.Parties {
		if bytes.Equal(p.Message, message) {
			return p, true
		}
	}
	return Party{}, false
}
