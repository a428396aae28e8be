// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/statecore/block"
	"github.com/vechain/statecore/cache"
	"github.com/vechain/statecore/processor"
	"github.com/vechain/statecore/runtime"
	"github.com/vechain/statecore/state"
	"github.com/vechain/statecore/thor"
)

const genesisGasLimit = 30_000_000

// allocEntry is an account of the allocation file, as written by users.
type allocEntry struct {
	Address string            `yaml:"address"`
	Balance string            `yaml:"balance"`
	Nonce   uint64            `yaml:"nonce"`
	Code    string            `yaml:"code"`
	Storage map[string]string `yaml:"storage"`
}

// Alloc is a parsed genesis account.
type Alloc struct {
	Address thor.Address
	Balance *uint256.Int
	Nonce   uint64
	Code    []byte
	Storage map[thor.Bytes32]thor.Bytes32
}

func parseWord(s string) (thor.Bytes32, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(b) > 32 {
		return thor.Bytes32{}, errors.New("longer than 32 bytes")
	}
	return thor.BytesToBytes32(b), nil
}

func (e *allocEntry) resolve() (*Alloc, error) {
	addr, err := thor.ParseAddress(e.Address)
	if err != nil {
		return nil, errors.Wrap(err, "address")
	}
	a := &Alloc{Address: *addr, Balance: new(uint256.Int), Nonce: e.Nonce}
	if e.Balance != "" {
		if a.Balance, err = uint256.FromDecimal(e.Balance); err != nil {
			if a.Balance, err = uint256.FromHex(e.Balance); err != nil {
				return nil, errors.Wrapf(err, "balance of %v", a.Address)
			}
		}
	}
	if e.Code != "" {
		if a.Code, err = hexutil.Decode(e.Code); err != nil {
			return nil, errors.Wrapf(err, "code of %v", a.Address)
		}
	}
	if len(e.Storage) > 0 {
		a.Storage = make(map[thor.Bytes32]thor.Bytes32, len(e.Storage))
		for k, v := range e.Storage {
			key, err := parseWord(k)
			if err != nil {
				return nil, errors.Wrapf(err, "storage key %v of %v", k, a.Address)
			}
			value, err := parseWord(v)
			if err != nil {
				return nil, errors.Wrapf(err, "storage value %v of %v", v, a.Address)
			}
			a.Storage[key] = value
		}
	}
	return a, nil
}

// ParseAlloc decodes the yaml list of genesis accounts. Duplicated addresses are
// rejected.
func ParseAlloc(data []byte) ([]*Alloc, error) {
	var entries []allocEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "decode alloc")
	}
	seen := make(map[thor.Address]bool, len(entries))
	allocs := make([]*Alloc, 0, len(entries))
	for i := range entries {
		a, err := entries[i].resolve()
		if err != nil {
			return nil, errors.Wrapf(err, "alloc #%d", i)
		}
		if seen[a.Address] {
			return nil, errors.Errorf("alloc #%d: duplicated address %v", i, a.Address)
		}
		seen[a.Address] = true
		allocs = append(allocs, a)
	}
	return allocs, nil
}

// apply writes the account into st.
func (a *Alloc) apply(st *state.State, rules *thor.Rules) {
	if len(a.Code) > 0 || len(a.Storage) > 0 {
		st.CreateContract(a.Address)
	}
	st.AddToBalance(a.Address, a.Balance)
	st.SetNonce(a.Address, a.Nonce)
	if len(a.Code) > 0 {
		st.SetCode(a.Address, a.Code)
	}
	for k, v := range a.Storage {
		st.SetStorage(a.Address, k, v)
	}
	st.DestructTouchedDead(rules)
}

// BuildGenesis executes every allocation as a transaction of block 0 over bs. Accounts
// are independent, so all allocations execute in parallel.
func BuildGenesis(ctx context.Context, bs *state.BlockState, p *processor.Processor, rules *thor.Rules, allocs []*Alloc, timestamp uint64) (*state.BlockData, error) {
	outputs, err := p.Execute(ctx, bs, 0, len(allocs), func(_ context.Context, st *state.State, index int) (*processor.Output, error) {
		a := allocs[index]
		a.apply(st, rules)
		return &processor.Output{
			Sender:  a.Address,
			Result:  runtime.Result{Status: runtime.Success},
			Receipt: &types.Receipt{
				Status: types.ReceiptStatusSuccessful,
				Logs:   []*types.Log{},
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	b := &block.Block{
		Header: &block.Header{
			OmmersHash: thor.EmptyListHash,
			GasLimit:   genesisGasLimit,
			Time:       timestamp,
		},
	}
	return processor.BlockData(b, outputs), nil
}

func genesisAction(ctx *cli.Context) error {
	initLogger(ctx)
	stop, err := startMetricsServer(ctx)
	if err != nil {
		return err
	}
	defer stop()

	if ctx.NArg() != 1 {
		return errors.New("alloc file required")
	}
	data, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "read alloc")
	}
	allocs, err := ParseAlloc(data)
	if err != nil {
		return err
	}
	forks, err := loadForkConfig(ctx)
	if err != nil {
		return err
	}
	timestamp := ctx.Uint64(timestampFlag.Name)
	rev := forks.Revision(0, timestamp)
	logger.Info("fork config loaded", "forks", forks, "genesis revision", rev)

	workers := ctx.Int(workersFlag.Name)
	db, err := openDB(ctx, workers)
	if err != nil {
		return err
	}
	defer db.Close()

	if best, ok := db.Best(); ok {
		return errors.Errorf("database holds blocks up to %d", best)
	}

	exitCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	bs := state.NewBlockState(db, cache.NewCodeCache(1024))
	blockData, err := BuildGenesis(exitCtx, bs, processor.New(processor.Options{Workers: workers}), thor.RulesOf(rev), allocs, timestamp)
	if err != nil {
		return err
	}
	bs.LogDebug()
	if err := bs.Commit(blockData); err != nil {
		return err
	}
	fmt.Printf("genesis %v\nstate root %v\naccounts %d\n", blockData.ID, db.StateRoot(), len(allocs))
	return nil
}
