// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package processor executes the transactions of a block in parallel over a block state.
//
// Every transaction is first executed speculatively against the block state as it is at
// that moment. Results are then merged strictly in transaction order. A speculation that
// read something a preceding transaction changed can't be merged, and the transaction is
// executed again on top of all preceding ones.
package processor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/vechain/statecore/block"
	"github.com/vechain/statecore/calltrace"
	"github.com/vechain/statecore/co"
	"github.com/vechain/statecore/log"
	"github.com/vechain/statecore/metrics"
	"github.com/vechain/statecore/runtime"
	"github.com/vechain/statecore/state"
	"github.com/vechain/statecore/thor"
)

var (
	logger           = log.WithContext("pkg", "processor")
	metricRetryCount = metrics.LazyLoadCounter("processor_tx_retry_count")
)

// Options of the processor.
type Options struct {
	// Workers is count of transactions executed concurrently. Zero means one per CPU.
	Workers int
}

// Output is what executing a transaction yields besides state changes.
type Output struct {
	Sender  thor.Address
	Result  runtime.Result
	Receipt *types.Receipt
	Frames  []calltrace.CallFrame
}

// TxFunc executes the transaction at index on st. It may be called more than once for
// the same index, each time with a fresh state, and must not have side effects outside st
// and the returned output.
type TxFunc func(ctx context.Context, st *state.State, index int) (*Output, error)

// Processor executes blocks.
type Processor struct {
	opts Options
}

// New creates a processor.
func New(opts Options) *Processor {
	return &Processor{opts}
}

type speculation struct {
	done   chan struct{}
	state  *state.State
	output *Output
	err    error
}

// Execute executes n transactions of block number and merges them into bs in order.
// Outputs are returned in transaction order. An error of any transaction aborts the block,
// leaving bs partially merged.
func (p *Processor) Execute(ctx context.Context, bs *state.BlockState, number uint64, n int, exec TxFunc) ([]*Output, error) {
	ctx, cancel := context.WithCancel(ctx)

	specs := make([]speculation, n)
	for i := range specs {
		specs[i].done = make(chan struct{})
	}

	finished := co.Parallel(p.opts.Workers, func(queue chan<- func()) {
		for i := range specs {
			work := func() {
				s := &specs[i]
				defer close(s.done)
				if ctx.Err() != nil {
					return
				}
				s.state = state.NewState(bs, state.NewIncarnation(number, uint64(i)))
				s.output, s.err = exec(ctx, s.state, i)
			}
			select {
			case queue <- work:
			case <-ctx.Done():
				return
			}
		}
	})
	defer func() {
		cancel()
		<-finished
	}()

	outputs := make([]*Output, n)
	for i := range specs {
		s := &specs[i]
		select {
		case <-s.done:
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if s.err == nil && bs.TryMerge(s.state) == state.Merged {
			outputs[i] = s.output
			continue
		}

		out, err := p.reexecute(ctx, bs, number, i, exec, s.err)
		if err != nil {
			return nil, err
		}
		outputs[i] = out
	}
	return outputs, nil
}

// reexecute executes the transaction on top of all preceding ones, so the merge can't fail.
func (p *Processor) reexecute(ctx context.Context, bs *state.BlockState, number uint64, index int, exec TxFunc, cause error) (*Output, error) {
	metricRetryCount().Add(1)
	logger.Debug("re-executing transaction", "number", number, "index", index, "cause", cause)

	st := state.NewState(bs, state.NewIncarnation(number, uint64(index)))
	out, err := exec(ctx, st, index)
	if err == nil {
		err = st.Error()
	}
	if err != nil {
		logger.Warn("transaction failed", "number", number, "index", index, "err", err)
		return nil, errors.Wrapf(err, "execute tx %d", index)
	}

	if bs.TryMerge(st) != state.Merged {
		panic(fmt.Sprintf("processor: tx %d of block %d conflicts after re-execution", index, number))
	}
	return out, nil
}

// BlockData assembles the data committed along with the state of b.
func BlockData(b *block.Block, outputs []*Output) *state.BlockData {
	data := &state.BlockData{
		ID:           b.Header.Hash(),
		Header:       b.Header,
		Transactions: b.Transactions,
		Ommers:       b.Ommers,
		Withdrawals:  b.Withdrawals,
		Receipts:     make(types.Receipts, 0, len(outputs)),
		CallFrames:   make([][]calltrace.CallFrame, 0, len(outputs)),
		Senders:      make([]thor.Address, 0, len(outputs)),
	}
	for _, out := range outputs {
		data.Receipts = append(data.Receipts, out.Receipt)
		data.CallFrames = append(data.CallFrames, out.Frames)
		data.Senders = append(data.Senders, out.Sender)
	}
	return data
}
