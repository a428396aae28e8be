// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/statecore/thor"
	"github.com/vechain/statecore/triedb"
)

func rootAction(ctx *cli.Context) error {
	initLogger(ctx)
	db, err := openDB(ctx, 0)
	if err != nil {
		return err
	}
	defer db.Close()

	best, ok := db.Best()
	if !ok {
		fmt.Println("empty database")
		return nil
	}
	fmt.Printf("best block %d\nstate root %v\n", best, db.StateRoot())
	return nil
}

func accountsAction(ctx *cli.Context) error {
	initLogger(ctx)
	min, max, err := parseRange(ctx)
	if err != nil {
		return err
	}
	db, err := openDB(ctx, 0)
	if err != nil {
		return err
	}
	defer db.Close()

	n := 0
	err = db.AccountRange(min, max, func(hash thor.Bytes32, addr thor.Address, leaf *triedb.AccountLeaf) {
		n++
		fmt.Printf("%v %v nonce=%d balance=%v storage=%v code=%v\n",
			hash, addr, leaf.Nonce, leaf.Balance, leaf.StorageRoot, leaf.CodeHash)
	})
	if err != nil {
		return err
	}
	logger.Debug("accounts listed", "count", n)
	return nil
}

func storageAction(ctx *cli.Context) error {
	initLogger(ctx)
	addr, err := thor.ParseAddress(ctx.String(addressFlag.Name))
	if err != nil {
		return errors.Wrap(err, "address")
	}
	min, max, err := parseRange(ctx)
	if err != nil {
		return err
	}
	db, err := openDB(ctx, 0)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("storage root %v\n", db.StorageRoot(*addr))
	return db.StorageRange(*addr, min, max, func(hash, value thor.Bytes32) {
		fmt.Printf("%v %v\n", hash, value)
	})
}

func blockAction(ctx *cli.Context) error {
	initLogger(ctx)
	if ctx.NArg() != 1 {
		return errors.New("block number required")
	}
	number, err := strconv.ParseUint(ctx.Args().First(), 0, 64)
	if err != nil {
		return errors.Wrap(err, "block number")
	}
	db, err := openDB(ctx, 0)
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := db.ReadBlockData(number)
	if err != nil {
		return err
	}
	h := data.Header
	fmt.Printf("id %v\nparent %v\nnumber %d\ntime %d\ngas %d/%d\ntxs %d\nommers %d\n",
		data.ID, h.ParentHash, h.Number, h.Time, h.GasUsed, h.GasLimit, len(data.Transactions), len(data.Ommers))
	for i, r := range data.Receipts {
		fmt.Printf("tx #%d sender %v status %d cumulative gas %d frames %d\n",
			i, data.Senders[i], r.Status, r.CumulativeGasUsed, len(data.CallFrames[i]))
	}
	return nil
}
