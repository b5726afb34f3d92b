// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"

	"github.com/jetonlabs/jeton/bchscript"
	"github.com/jetonlabs/jeton/contract"
	"github.com/jetonlabs/jeton/contractdb"
)

// writeContract prints the scripts and address of a compiled contract.
func writeContract(w io.Writer, c contract.OutputScript) error {
	addr, err := c.Address(activeNetParams)
	if err != nil {
		return err
	}
	disasm, err := bchscript.DisasmString(c.Script())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Kind:          %v\n", c.Kind())
	fmt.Fprintf(w, "Redeem script: %x\n", c.Script())
	fmt.Fprintf(w, "Disassembly:   %s\n", disasm)
	fmt.Fprintf(w, "Script hash:   %x\n", c.ScriptHash())
	fmt.Fprintf(w, "Output script: %x\n", c.PayToScriptHash())
	fmt.Fprintf(w, "Address:       %v\n", addr)
	return nil
}

// emitContract prints a compiled contract and, when requested, records it in
// the contract database.
func emitContract(c contract.OutputScript, store bool) error {
	if err := writeContract(os.Stdout, c); err != nil {
		return err
	}
	if !store {
		return nil
	}

	db, err := openContractDB()
	if err != nil {
		return err
	}
	defer db.Close()

	hash, err := db.Put(contractdb.NewRecord(c, activeNetParams.Name))
	if err != nil {
		return err
	}
	ctlLog.Infof("Stored %v contract %x", c.Kind(), hash)
	return nil
}

// escrowCmd defines the configuration options for the escrow command.
type escrowCmd struct {
	Referee string   `short:"r" long:"referee" description:"Hex encoded public key of the referee" required:"true"`
	Parties []string `short:"p" long:"party" description:"Party as message:identity where identity is a hex public key or an address (repeatable)" required:"true"`
	Store   bool     `short:"s" long:"store" description:"Record the contract in the contract database"`
}

var (
	// escrowCfg defines the configuration options for the command.
	escrowCfg = escrowCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *escrowCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	referee, err := parsePubKey(cmd.Referee)
	if err != nil {
		return err
	}
	parties := make([]contract.Party, 0, len(cmd.Parties))
	for _, s := range cmd.Parties {
		party, err := parseParty(s)
		if err != nil {
			return err
		}
		parties = append(parties, party)
	}

	escrow, err := contract.NewEscrow(referee, parties)
	if err != nil {
		return err
	}
	return emitContract(escrow, cmd.Store)
}

// Usage overrides the usage display for the command.
func (cmd *escrowCmd) Usage() string {
	return "--referee <pubkey> --party <msg:identity> [--party ...] [--store]"
}

// thresholdCmd defines the configuration options for the threshold command.
type thresholdCmd struct {
	Oracle       string `short:"o" long:"oracle" description:"Hex encoded public key of the oracle" required:"true"`
	Value        int64  `short:"v" long:"value" description:"Threshold the oracle value is compared against" required:"true"`
	Lte          string `long:"lte" description:"Hex public key or address paid when the oracle value is at most the threshold" required:"true"`
	Gt           string `long:"gt" description:"Hex public key or address paid when the oracle value exceeds the threshold" required:"true"`
	UnlockHeight int64  `short:"u" long:"unlockheight" description:"Minimum block height of a settling oracle message"`
	Store        bool   `short:"s" long:"store" description:"Record the contract in the contract database"`
}

var (
	// thresholdCfg defines the configuration options for the command.
	thresholdCfg = thresholdCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *thresholdCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	oracle, err := parsePubKey(cmd.Oracle)
	if err != nil {
		return err
	}
	lte, err := parseParty(":" + cmd.Lte)
	if err != nil {
		return err
	}
	gt, err := parseParty(":" + cmd.Gt)
	if err != nil {
		return err
	}

	threshold, err := contract.NewThreshold(oracle, cmd.Value, lte, gt,
		cmd.UnlockHeight)
	if err != nil {
		return err
	}
	return emitContract(threshold, cmd.Store)
}

// Usage overrides the usage display for the command.
func (cmd *thresholdCmd) Usage() string {
	return "--oracle <pubkey> --value <n> --lte <identity> --gt <identity> " +
		"[--unlockheight <height>] [--store]"
}

// covenantCmd defines the configuration options for the covenant command.
type covenantCmd struct {
	Signers []string `long:"signer" description:"Hex encoded public key of a required signer (repeatable)"`
	Outputs []string `long:"output" description:"Committed output as address:amount in satoshi (repeatable)" required:"true"`
	Ratios  []int64  `long:"ratio" description:"Pro rata ratio of the output at the same position (repeatable)"`
	Store   bool     `short:"s" long:"store" description:"Record the contract in the contract database"`
}

var (
	// covenantCfg defines the configuration options for the command.
	covenantCfg = covenantCmd{}
)

// parseOutput decodes a committed output given as address:amount.  The
// amount may be omitted for pro rata covenants.
func parseOutput(s string) (contract.OutputCommitment, error) {
	addrStr, amountStr, hasAmount := strings.Cut(s, ":")
	addr, err := btcutil.DecodeAddress(addrStr, activeNetParams)
	if err != nil {
		return contract.OutputCommitment{}, fmt.Errorf("output "+
			"address %q: %v", addrStr, err)
	}
	if !addr.IsForNet(activeNetParams) {
		return contract.OutputCommitment{}, fmt.Errorf("address %v "+
			"is not for %s", addr, activeNetParams.Name)
	}
	pkScript, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return contract.OutputCommitment{}, err
	}

	var amount int64
	if hasAmount {
		amount, err = strconv.ParseInt(amountStr, 10, 64)
		if err != nil {
			return contract.OutputCommitment{}, fmt.Errorf("output "+
				"amount %q: %v", amountStr, err)
		}
	}
	return contract.OutputCommitment{PkScript: pkScript, Value: amount}, nil
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *covenantCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	signers := make([]*btcec.PublicKey, 0, len(cmd.Signers))
	for _, s := range cmd.Signers {
		pubKey, err := parsePubKey(s)
		if err != nil {
			return err
		}
		signers = append(signers, pubKey)
	}
	outputs := make([]contract.OutputCommitment, 0, len(cmd.Outputs))
	for _, s := range cmd.Outputs {
		output, err := parseOutput(s)
		if err != nil {
			return err
		}
		outputs = append(outputs, output)
	}
	if len(cmd.Ratios) != 0 && len(cmd.Ratios) != len(outputs) {
		return errors.New("one ratio is required per output")
	}

	covenant, err := contract.NewCovenant(signers, outputs, cmd.Ratios)
	if err != nil {
		return err
	}
	return emitContract(covenant, cmd.Store)
}

// Usage overrides the usage display for the command.
func (cmd *covenantCmd) Usage() string {
	return "[--signer <pubkey> ...] --output <address:amount> [--output ...] " +
		"[--ratio <n> ...] [--store]"
}

// decodeHex decodes a hex argument, naming it in the error.
func decodeHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed %s %q: %v", name, s, err)
	}
	return b, nil
}
