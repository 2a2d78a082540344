// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Meridian Chain Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/bitmark-inc/exitwithstatus"
	"golang.org/x/crypto/ed25519"

	"github.com/meridian-chain/meridiand/account"
)

// setup command handler
//
// commands that run before the configuration file is read, they
// cannot access any internal database or state
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-identity", "identity":
		testnet := true
		if len(arguments) > 0 && "live" == arguments[0] {
			testnet = false
		}

		publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
		if nil != err {
			fmt.Printf("key generation error: %s\n", err)
			exitwithstatus.Exit(1)
		}
		address, err := account.AddressFromPublicKey(account.PublicKey(publicKey), testnet)
		if nil != err {
			fmt.Printf("address derivation error: %s\n", err)
			exitwithstatus.Exit(1)
		}

		fmt.Printf("private key: %s\n", hex.EncodeToString(privateKey))
		fmt.Printf("public key:  %s\n", hex.EncodeToString(publicKey))
		fmt.Printf("address:     %s\n", address)

	case "version":
		fmt.Printf("%s\n", version)

	case "help", "h", "?":
		fmt.Printf("usage: %s [--help] [--quiet] [--version] --config-file=FILE [command]\n", program)
		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                     (h)   - display this message\n\n")
		fmt.Printf("  version                  (v)   - display the program version\n\n")
		fmt.Printf("  gen-identity [live]      (identity)\n")
		fmt.Printf("                                 - generate a key pair and its address,\n")
		fmt.Printf("                                   testnet unless \"live\" is given\n\n")
		fmt.Printf("  start                          - run the node (the default with no command)\n\n")

	case "start", "run":
		// continue into the main daemon path
		return false

	default:
		fmt.Printf("unknown command: %q\n", command)
		fmt.Printf("use: %q for the list of commands\n", "help")
		exitwithstatus.Exit(1)
	}

	return true
}
