// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/statecore/log"
	"github.com/vechain/statecore/metrics"
	"github.com/vechain/statecore/thor"
	"github.com/vechain/statecore/trie"
	"github.com/vechain/statecore/triedb"
)

var logger = log.WithContext("pkg", "statectl")

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".statecore")
	}
	return "statecore-data"
}

func initLogger(ctx *cli.Context) {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	level := log.FromVerbosity(ctx.GlobalInt(verbosityFlag.Name))
	log.SetDefault(log.NewTerminalHandler(os.Stderr, level, useColor))
}

// startMetricsServer serves metrics if the flag is set. The returned func stops it.
func startMetricsServer(ctx *cli.Context) (func(), error) {
	addr := ctx.GlobalString(metricsAddrFlag.Name)
	if addr == "" {
		return func() {}, nil
	}
	metrics.InitializePrometheusMetrics()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", "err", err)
		}
	}()
	logger.Info("metrics server started", "addr", "http://"+listener.Addr().String()+"/metrics")
	return func() { srv.Close() }, nil
}

func openDB(ctx *cli.Context, workers int) (*triedb.DB, error) {
	dir := ctx.GlobalString(dataDirFlag.Name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dir)
	}
	db, err := triedb.Open(filepath.Join(dir, "state.db"), triedb.Options{
		CacheSize:              ctx.GlobalInt(cacheFlag.Name),
		OpenFilesCacheCapacity: 64,
		Workers:                workers,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open database [%v]", dir)
	}
	return db, nil
}

func loadForkConfig(ctx *cli.Context) (thor.ForkConfig, error) {
	if path := ctx.String(forkConfigFlag.Name); path != "" {
		return thor.LoadForkConfig(path)
	}
	return thor.MainnetForkConfig, nil
}

// parseRange parses the range flags. An empty max leaves the range unbounded.
func parseRange(ctx *cli.Context) (min, max trie.Nibbles, err error) {
	if s := ctx.String(minFlag.Name); s != "" {
		if min, err = trie.ParseNibbles(s); err != nil {
			return nil, nil, errors.Wrap(err, "min")
		}
	}
	if s := ctx.String(maxFlag.Name); s != "" {
		if max, err = trie.ParseNibbles(s); err != nil {
			return nil, nil, errors.Wrap(err, "max")
		}
	}
	return min, max, nil
}
