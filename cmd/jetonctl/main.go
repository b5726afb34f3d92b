// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/jetonlabs/jeton/internal/log"
	"github.com/jetonlabs/jeton/internal/version"
)

var ctlLog = log.CtlLog

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
		}
	}()

	// Setup the parser options and commands.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	parserFlags := flags.Options(flags.HelpFlag | flags.PassDoubleDash)
	parser := flags.NewNamedParser(appName, parserFlags)
	parser.AddGroup("Global Options", "", cfg)
	parser.AddCommand("escrow",
		"Compile an escrow contract",
		"Compile an escrow paying the party whose message the referee "+
			"signs.", &escrowCfg)
	parser.AddCommand("threshold",
		"Compile a threshold contract",
		"Compile a bet settled by an oracle signed value compared "+
			"against a threshold.", &thresholdCfg)
	parser.AddCommand("covenant",
		"Compile a covenant contract",
		"Compile a covenant restricting the outputs of its spending "+
			"transaction to exact amounts or fixed ratios.",
		&covenantCfg)
	parser.AddCommand("message",
		"Encode and sign an oracle or referee message", "",
		&messageCfg)
	parser.AddCommand("parse",
		"Recover the terms of a compiled contract script", "",
		&parseCfg)
	parser.AddCommand("list",
		"List the contracts stored in the database", "", &listCfg)

	// Parse command line and invoke the Execute function for the specified
	// command.
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		} else if cfg.ShowVersion {
			fmt.Println(appName, "version", version.String())
			return nil
		} else {
			fmt.Fprintln(os.Stderr, err)
		}

		return err
	}

	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
