// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/jetonlabs/jeton/contract"
)

// parseCmd defines the configuration options for the parse command.
type parseCmd struct{}

var (
	// parseCfg defines the configuration options for the command.
	parseCfg = parseCmd{}
)

// writeParty prints a party as its message and address.
func writeParty(w io.Writer, label string, p contract.Party) error {
	addr, err := p.Address(activeNetParams)
	if err != nil {
		return err
	}
	if len(p.Message) == 0 {
		fmt.Fprintf(w, "%-14s %v\n", label+":", addr)
		return nil
	}
	fmt.Fprintf(w, "%-14s %q -> %v\n", label+":", p.Message, addr)
	return nil
}

// writeTerms prints the terms recovered from a contract script.
func writeTerms(w io.Writer, c contract.OutputScript) error {
	switch c := c.(type) {
	case *contract.Escrow:
		fmt.Fprintf(w, "Referee:       %x\n",
			c.RefereePubKey.SerializeCompressed())
		for _, p := range c.Parties {
			if err := writeParty(w, "Party", p); err != nil {
				return err
			}
		}

	case *contract.Threshold:
		fmt.Fprintf(w, "Oracle:        %x\n",
			c.OraclePubKey.SerializeCompressed())
		fmt.Fprintf(w, "Value:         %d\n", c.Value)
		if c.UnlockHeight != 0 {
			fmt.Fprintf(w, "Unlock height: %d\n", c.UnlockHeight)
		}
		if err := writeParty(w, "Lte", c.Lte); err != nil {
			return err
		}
		if err := writeParty(w, "Gt", c.Gt); err != nil {
			return err
		}

	case *contract.Covenant:
		for _, pk := range c.Signers {
			fmt.Fprintf(w, "Signer:        %x\n",
				pk.SerializeCompressed())
		}
		for i, out := range c.Outputs {
			if c.IsProRata() {
				fmt.Fprintf(w, "Output %d:      %x ratio %d\n", i,
					out.PkScript, c.Ratios[i])
				continue
			}
			fmt.Fprintf(w, "Output %d:      %x %v\n", i,
				out.PkScript, btcutil.Amount(out.Value))
		}
	}
	return nil
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *parseCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("a single hex encoded redeem script is required")
	}

	script, err := decodeHex("redeem script", args[0])
	if err != nil {
		return err
	}
	c, err := contract.ParseOutputScript(script)
	if err != nil {
		return err
	}
	if err := writeContract(os.Stdout, c); err != nil {
		return err
	}
	return writeTerms(os.Stdout, c)
}

// Usage overrides the usage display for the command.
func (cmd *parseCmd) Usage() string {
	return "<redeem script hex>"
}
