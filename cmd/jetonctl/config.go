// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/jetonlabs/jeton/contract"
	"github.com/jetonlabs/jeton/contractdb"
	"github.com/jetonlabs/jeton/internal/log"
)

const (
	defaultLogLevel    = "info"
	defaultLogFilename = "jetonctl.log"
	contractDbName     = "contracts"
)

var (
	jetonHomeDir    = btcutil.AppDataDir("jeton", false)
	activeNetParams = &chaincfg.MainNetParams

	// Default global config.
	cfg = &config{
		DataDir:    filepath.Join(jetonHomeDir, "data"),
		LogDir:     filepath.Join(jetonHomeDir, "logs"),
		DebugLevel: defaultLogLevel,
	}
)

// config defines the global configuration options.
type config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	DataDir     string `short:"b" long:"datadir" description:"Directory to store contracts"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	TestNet3    bool   `long:"testnet" description:"Use the test network"`
	RegTest     bool   `long:"regtest" description:"Use the regression test network"`
	SimNet      bool   `long:"simnet" description:"Use the simulation test network"`
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser
	// to otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]

	pathSeparators := string(os.PathSeparator)
	if runtime.GOOS == "windows" {
		pathSeparators += "/"
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	var (
		u   *user.User
		err error
	)
	if userName == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(userName)
	}
	homeDir := "."
	if err == nil && u.HomeDir != "" {
		homeDir = u.HomeDir
	}
	return filepath.Join(homeDir, path)
}

// setupGlobalConfig examine the global configuration options for any conditions
// which are invalid as well as performs any addition setup necessary after the
// initial parse.
func setupGlobalConfig() error {
	// Multiple networks can't be selected simultaneously.  Count number of
	// network flags passed and assign active network params while we're at
	// it.
	numNets := 0
	if cfg.TestNet3 {
		numNets++
		activeNetParams = &chaincfg.TestNet3Params
	}
	if cfg.RegTest {
		numNets++
		activeNetParams = &chaincfg.RegressionNetParams
	}
	if cfg.SimNet {
		numNets++
		activeNetParams = &chaincfg.SimNetParams
	}
	if numNets > 1 {
		return errors.New("the testnet, regtest, and simnet params " +
			"can't be used together -- choose one of the three")
	}

	if !log.ValidLogLevel(cfg.DebugLevel) {
		return fmt.Errorf("the specified debug level [%v] is invalid",
			cfg.DebugLevel)
	}

	// Append the network type to the data and log directories so they
	// are "namespaced" per network.
	cfg.DataDir = filepath.Join(cleanAndExpandPath(cfg.DataDir),
		activeNetParams.Name)
	cfg.LogDir = filepath.Join(cleanAndExpandPath(cfg.LogDir),
		activeNetParams.Name)

	err := log.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	if err != nil {
		return err
	}
	log.SetLogLevels(cfg.DebugLevel)
	return nil
}

// openContractDB opens the contract database of the active network.
func openContractDB() (*contractdb.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(cfg.DataDir, contractDbName)
	ctlLog.Debugf("Loading contract database from '%s'", dbPath)
	return contractdb.Open(dbPath)
}

// parsePubKey decodes a hex encoded public key.
func parsePubKey(s string) (*btcec.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed public key %q: %v", s, err)
	}
	return btcec.ParsePubKey(b)
}

// parseParty decodes a party given as message:identity, where identity is a
// hex encoded public key or a pay-to-pubkey-hash address.  The message may be
// empty.
func parseParty(s string) (contract.Party, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return contract.Party{}, fmt.Errorf("party %q is not "+
			"message:identity", s)
	}
	message, identity := []byte(s[:i]), s[i+1:]

	if pubKey, err := parsePubKey(identity); err == nil {
		return contract.NewParty(message, pubKey), nil
	}
	addr, err := btcutil.DecodeAddress(identity, activeNetParams)
	if err != nil {
		return contract.Party{}, fmt.Errorf("party identity %q is "+
			"neither a public key nor an address: %v", identity, err)
	}
	if !addr.IsForNet(activeNetParams) {
		return contract.Party{}, fmt.Errorf("address %v is not for %s",
			addr, activeNetParams.Name)
	}
	return contract.PartyFromAddress(message, addr)
}

// parseWIF decodes a private key in wallet import format for the active
// network.
func parseWIF(s string) (*btcec.PrivateKey, error) {
	wif, err := btcutil.DecodeWIF(s)
	if err != nil {
		return nil, err
	}
	if !wif.IsForNet(activeNetParams) {
		return nil, fmt.Errorf("private key is not for %s",
			activeNetParams.Name)
	}
	return wif.PrivKey, nil
}
