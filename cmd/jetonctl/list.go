// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/jetonlabs/jeton/contract"
	"github.com/jetonlabs/jeton/contractdb"
)

// listCmd defines the configuration options for the list command.
type listCmd struct {
	Kind    string `short:"k" long:"kind" description:"Only list contracts of this kind {escrow, threshold, covenant}"`
	Verbose bool   `short:"v" long:"verbose" description:"Print the terms of every contract"`
}

var (
	// listCfg defines the configuration options for the command.
	listCfg = listCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *listCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	kind := contract.KindUnknown
	if cmd.Kind != "" {
		var err error
		kind, err = contract.ParseKind(cmd.Kind)
		if err != nil {
			return err
		}
	}

	db, err := openContractDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	err = db.ForEach(func(scriptHash []byte, rec *contractdb.Record) error {
		if kind != contract.KindUnknown && rec.Kind != kind {
			return nil
		}
		count++
		if !cmd.Verbose {
			fmt.Printf("%x %v\n", scriptHash, rec.Kind)
			return nil
		}

		c, err := rec.OutputScript()
		if err != nil {
			ctlLog.Warnf("Unable to parse contract %x: %v",
				scriptHash, err)
			return nil
		}
		if err := writeContract(os.Stdout, c); err != nil {
			return err
		}
		if err := writeTerms(os.Stdout, c); err != nil {
			return err
		}
		fmt.Println()
		return nil
	})
	if err != nil {
		return err
	}
	ctlLog.Debugf("Listed %d contracts", count)
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *listCmd) Usage() string {
	return "[--kind <kind>] [--verbose]"
}
