// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the state database",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	forkConfigFlag = cli.StringFlag{
		Name:  "fork-config",
		Usage: "path to a yaml fork schedule, mainnet if absent",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 256,
		Usage: "megabytes of ram allocated to the database caches",
	}
	workersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "count of transactions executed concurrently, one per CPU if 0",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "serve prometheus metrics on the address if set",
	}
	minFlag = cli.StringFlag{
		Name:  "min",
		Usage: "inclusive lower bound of the key range, as hex nibbles",
	}
	maxFlag = cli.StringFlag{
		Name:  "max",
		Usage: "exclusive upper bound of the key range, as hex nibbles, unbounded if absent",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "account address",
	}
	timestampFlag = cli.Uint64Flag{
		Name:  "timestamp",
		Usage: "timestamp of the genesis block",
	}
)
