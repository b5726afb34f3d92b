// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"

	"github.com/jetonlabs/jeton/contract"
)

// messageCmd defines the configuration options for the message command.
type messageCmd struct {
	Height int64   `long:"height" description:"Block height of an oracle message"`
	Price  float64 `long:"price" description:"Observed price of an oracle message, rounded up to an integer"`
	Text   string  `short:"t" long:"text" description:"Referee message naming an escrow party"`
	Key    string  `short:"k" long:"key" description:"WIF private key signing the message"`
}

var (
	// messageCfg defines the configuration options for the command.
	messageCfg = messageCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *messageCmd) Execute(args []string) error {
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	var msg []byte
	switch {
	case cmd.Text != "" && cmd.Height != 0:
		return errors.New("--text can't be combined with --height")

	case cmd.Text != "":
		msg = []byte(cmd.Text)

	default:
		oracleMsg, err := contract.NewOracleMessage(cmd.Height, cmd.Price)
		if err != nil {
			return err
		}
		msg, err = oracleMsg.Bytes()
		if err != nil {
			return err
		}
		ctlLog.Debugf("Oracle message: height %d value %d",
			oracleMsg.BlockHeight, oracleMsg.Value)
	}
	fmt.Printf("Message:   %x\n", msg)

	if cmd.Key == "" {
		return nil
	}
	privKey, err := parseWIF(cmd.Key)
	if err != nil {
		return err
	}
	fmt.Printf("Public key: %x\n", privKey.PubKey().SerializeCompressed())
	fmt.Printf("Signature: %x\n", contract.SignMessage(privKey, msg))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *messageCmd) Usage() string {
	return "(--height <height> --price <price> | --text <message>) " +
		"[--key <wif>]"
}
