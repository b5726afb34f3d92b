// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contract

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/jetonlabs/jeton/bchscript"
)

const (
	// preimageTailLen is the size of the preimage fields following
	// hashOutputs plus hashOutputs itself: hashOutputs(32) | locktime(4) |
	// sighash type(4).
	preimageTailLen = 40

	// amountLen is the size of a serialized output amount.
	amountLen = 8
)

// OutputCommitment is an output a covenant forces its spending transaction
// to create.  Value is ignored for pro rata covenants, where amounts are
// derived from the ratios instead.
type OutputCommitment struct {
	PkScript []byte
	Value    int64
}

// TxOut returns the commitment as a wire transaction output.
func (o OutputCommitment) TxOut() *wire.TxOut {
	return wire.NewTxOut(o.Value, o.PkScript)
}

// Covenant is a contract restricting the outputs of the transaction spending
// it.  Every required signer must sign the spend and the spending
// transaction must create exactly the committed outputs, either with the
// committed amounts or, when ratios are present, with amounts in exactly
// those proportions.
//
// The script checks the spender's signature twice: once with OP_CHECKSIG
// against the real signature hash, and once with OP_CHECKDATASIG against the
// SHA-256 of the preimage disclosed in the unlocking script.  Both can only
// pass when the disclosed preimage is the real one, which makes its
// hashOutputs field trustworthy.
type Covenant struct {
	compiled

	Signers []*btcec.PublicKey
	Outputs []OutputCommitment

	// Ratios holds the pro rata ratios reduced by their greatest common
	// divisor, or nil for an exact amount covenant.
	Ratios []int64
}

// NewCovenant validates the covenant terms and compiles the script.  Ratios
// are optional; when given there must be one positive ratio per output and
// at least two outputs.
func NewCovenant(signers []*btcec.PublicKey, outputs []OutputCommitment,
	ratios []int64) (*Covenant, error) {

	for i, pk := range signers {
		if pk == nil {
			str := fmt.Sprintf("covenant signer %d is nil", i)
			return nil, contractError(ErrInvalidContract, str)
		}
	}
	if len(outputs) == 0 {
		return nil, contractError(ErrInvalidContract,
			"covenant requires at least one output")
	}
	for i, out := range outputs {
		if len(out.PkScript) == 0 {
			str := fmt.Sprintf("covenant output %d has an empty "+
				"script", i)
			return nil, contractError(ErrInvalidContract, str)
		}
		if len(ratios) == 0 && out.Value < 0 {
			str := fmt.Sprintf("covenant output %d has negative "+
				"value %d", i, out.Value)
			return nil, contractError(ErrInvalidContract, str)
		}
	}

	var reduced []int64
	if len(ratios) > 0 {
		if len(ratios) < 2 {
			return nil, contractError(ErrInvalidContract,
				"pro rata covenants need at least two ratios")
		}
		if len(ratios) != len(outputs) {
			str := fmt.Sprintf("pro rata covenant has %d ratios "+
				"for %d outputs", len(ratios), len(outputs))
			return nil, contractError(ErrInvalidContract, str)
		}
		for i, r := range ratios {
			if r <= 0 {
				str := fmt.Sprintf("ratio %d at index %d is not "+
					"positive", r, i)
				return nil, contractError(ErrInvalidContract, str)
			}
		}
		reduced = reduceRatios(ratios)
	}

	c := &Covenant{
		Signers: signers,
		Outputs: outputs,
		Ratios:  reduced,
	}
	script, err := c.build()
	if err != nil {
		return nil, buildError(KindCovenant, err)
	}
	c.script = script
	return c, nil
}

// gcd returns the greatest common divisor of two positive integers.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// reduceRatios divides every ratio by the greatest common divisor of all of
// them.
func reduceRatios(ratios []int64) []int64 {
	d := ratios[0]
	for _, r := range ratios[1:] {
		d = gcd(d, r)
	}
	reduced := make([]int64, len(ratios))
	for i, r := range ratios {
		reduced[i] = r / d
	}
	return reduced
}

// IsProRata returns whether the covenant enforces output proportions rather
// than exact amounts.
func (c *Covenant) IsProRata() bool {
	return len(c.Ratios) > 0
}

// TxOuts returns the outputs a spending transaction must create.  For pro
// rata covenants the caller chooses the amounts, so Value is returned as
// committed.
func (c *Covenant) TxOuts() []*wire.TxOut {
	outs := make([]*wire.TxOut, len(c.Outputs))
	for i, o := range c.Outputs {
		outs[i] = o.TxOut()
	}
	return outs
}

// ProRataOutputs splits unit times each ratio across the committed outputs.
func (c *Covenant) ProRataOutputs(unit int64) []*wire.TxOut {
	outs := make([]*wire.TxOut, len(c.Outputs))
	for i, o := range c.Outputs {
		outs[i] = wire.NewTxOut(unit*c.Ratios[i], o.PkScript)
	}
	return outs
}

// serializeTxOut returns the wire encoding of a single output.
func serializeTxOut(out *wire.TxOut) []byte {
	return bchscript.SerializeOutputs([]*wire.TxOut{out})
}

// build emits the signer chain, the preimage unpacking, one check per
// committed output and the final hash and data signature checks.
func (c *Covenant) build() ([]byte, error) {
	builder := txscript.NewScriptBuilder()

	// <pk1> OP_CHECKSIGVERIFY ... <pkN>.  With no signers the spender
	// provides both the signature and the key.
	for i, pk := range c.Signers {
		builder.AddData(pk.SerializeCompressed())
		if i < len(c.Signers)-1 {
			builder.AddOp(bchscript.OP_CHECKSIGVERIFY)
		}
	}

	// Check the transaction signature, strip its hash type byte, then cut
	// hashOutputs out of the disclosed preimage and bring the disclosed
	// output list to the top.
	builder.AddOp(bchscript.OP_2DUP).
		AddOp(bchscript.OP_CHECKSIGVERIFY).
		AddOp(bchscript.OP_SWAP).
		AddOp(bchscript.OP_SIZE).
		AddOp(bchscript.OP_1SUB).
		AddOp(bchscript.OP_SPLIT).
		AddOp(bchscript.OP_DROP).
		AddOp(bchscript.OP_SWAP).
		AddOp(bchscript.OP_ROT).
		AddOp(bchscript.OP_DUP).
		AddOp(bchscript.OP_SIZE).
		AddInt64(preimageTailLen).
		AddOp(bchscript.OP_SUB).
		AddOp(bchscript.OP_SPLIT).
		AddOp(bchscript.OP_NIP).
		AddInt64(32).
		AddOp(bchscript.OP_SPLIT).
		AddOp(bchscript.OP_DROP).
		AddOp(bchscript.OP_4).
		AddOp(bchscript.OP_ROLL).
		AddOp(bchscript.OP_DUP)

	for i, out := range c.Outputs {
		full := serializeTxOut(out.TxOut())
		if c.IsProRata() {
			addProRataCheck(builder, i, c.Ratios[i])
			builder.AddData(full[amountLen:])
		} else {
			builder.AddData(full)
		}
		addOutputCheck(builder)
	}

	// Every disclosed output must have been consumed, then the disclosed
	// list must hash to hashOutputs and the preimage must carry the
	// spender's signature.
	builder.AddOp(bchscript.OP_0).
		AddOp(bchscript.OP_EQUALVERIFY).
		AddOp(bchscript.OP_HASH256).
		AddOp(bchscript.OP_EQUALVERIFY).
		AddOp(bchscript.OP_SHA256).
		AddOp(bchscript.OP_SWAP).
		AddOp(bchscript.OP_CHECKDATASIG)

	return builder.Script()
}

// addProRataCheck splits the next amount off the remaining outputs, requires
// it to be a multiple of the ratio and requires the quotient to match the
// quotient of the previous output, which is kept on the alt stack.
func addProRataCheck(builder *txscript.ScriptBuilder, index int, ratio int64) {
	builder.AddOp(bchscript.OP_8).
		AddOp(bchscript.OP_SPLIT).
		AddOp(bchscript.OP_SWAP).
		AddOp(bchscript.OP_BIN2NUM).
		AddOp(bchscript.OP_DUP).
		AddInt64(ratio).
		AddOp(bchscript.OP_BIN2NUM).
		AddOp(bchscript.OP_MOD).
		AddOp(bchscript.OP_0).
		AddOp(bchscript.OP_EQUALVERIFY).
		AddInt64(ratio).
		AddOp(bchscript.OP_BIN2NUM).
		AddOp(bchscript.OP_DIV)
	if index > 0 {
		builder.AddOp(bchscript.OP_DUP).
			AddOp(bchscript.OP_FROMALTSTACK).
			AddOp(bchscript.OP_EQUALVERIFY)
	}
	builder.AddOp(bchscript.OP_TOALTSTACK)
}

// addOutputCheck splits the committed bytes off the remaining outputs and
// requires them to match.
func addOutputCheck(builder *txscript.ScriptBuilder) {
	builder.AddOp(bchscript.OP_SIZE).
		AddOp(bchscript.OP_ROT).
		AddOp(bchscript.OP_SWAP).
		AddOp(bchscript.OP_SPLIT).
		AddOp(bchscript.OP_SWAP).
		AddOp(bchscript.OP_ROT).
		AddOp(bchscript.OP_EQUALVERIFY)
}

// Kind returns KindCovenant.
func (c *Covenant) Kind() Kind {
	return KindCovenant
}
