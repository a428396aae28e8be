// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "statectl",
		Usage:   "Inspect and seed the execution state database",
		Flags: []cli.Flag{
			dataDirFlag,
			verbosityFlag,
			cacheFlag,
			metricsAddrFlag,
		},
		Commands: []cli.Command{
			{
				Name:      "genesis",
				Usage:     "execute the allocation file as block 0 and commit it",
				ArgsUsage: "<alloc.yaml>",
				Flags:     []cli.Flag{forkConfigFlag, workersFlag, timestampFlag},
				Action:    genesisAction,
			},
			{
				Name:   "root",
				Usage:  "print the state root and the best block",
				Action: rootAction,
			},
			{
				Name:   "accounts",
				Usage:  "list accounts of the account trie in hashed key order",
				Flags:  []cli.Flag{minFlag, maxFlag},
				Action: accountsAction,
			},
			{
				Name:   "storage",
				Usage:  "list storage slots of an account in hashed key order",
				Flags:  []cli.Flag{addressFlag, minFlag, maxFlag},
				Action: storageAction,
			},
			{
				Name:      "block",
				Usage:     "print the committed data of a block",
				ArgsUsage: "<number>",
				Action:    blockAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}
