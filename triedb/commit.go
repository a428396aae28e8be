// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package triedb

import (
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/statecore/kv"
	"github.com/vechain/statecore/state"
	"github.com/vechain/statecore/thor"
)

// change is the net change of an account in a block.
type change struct {
	addr     thor.Address
	original *state.Account
	current  *state.Account
	// reset means storage of the original incarnation is dropped.
	reset bool
	slots map[thor.Bytes32]thor.Bytes32
}

func collectChanges(deltas *state.StateDeltas) []*change {
	var changes []*change
	deltas.Range(func(addr thor.Address, d *state.StateDelta) bool {
		orig, cur := d.Account.Original, d.Account.Current
		c := &change{
			addr:     addr,
			original: orig,
			current:  cur,
			reset:    orig != nil && (cur == nil || cur.Incarnation != orig.Incarnation),
			slots:    make(map[thor.Bytes32]thor.Bytes32),
		}
		if cur != nil {
			d.Storage.Range(func(key thor.Bytes32, sd state.Delta[thor.Bytes32]) bool {
				if c.reset || sd.Current != sd.Original {
					if !c.reset || !sd.Current.IsZero() {
						c.slots[key] = sd.Current
					}
				}
				return true
			})
		}
		if !c.reset && len(c.slots) == 0 && state.AccountEqual(orig, cur) {
			return true
		}
		changes = append(changes, c)
		return true
	})
	return changes
}

// Commit implements state.Database. Everything of the block is written in one atomic
// batch. Blocks must be committed in sequence.
func (db *DB) Commit(deltas *state.StateDeltas, code *state.Code, data *state.BlockData) error {
	if data == nil || data.Header == nil {
		return errors.New("commit: missing block header")
	}
	start := time.Now()

	db.mu.Lock()
	defer db.mu.Unlock()

	number := data.Header.Number
	if db.best != nil && number != *db.best+1 {
		return errors.Errorf("commit: block %d on top of %d", number, *db.best)
	}

	changes := collectChanges(deltas)

	bulk := db.store.Bulk()
	var (
		accounts = accountBucket.NewPutter(bulk)
		storage  = storageBucket.NewPutter(bulk)
		codes    = codeBucket.NewPutter(bulk)
		blocks   = blockBucket.NewPutter(bulk)
		meta     = metaBucket.NewPutter(bulk)
	)

	for _, c := range changes {
		if c.reset {
			if err := db.dropSlots(storage, c.addr, c.original.Incarnation); err != nil {
				return err
			}
		}
		if c.current == nil {
			if err := accounts.Delete(c.addr[:]); err != nil {
				return err
			}
			continue
		}
		if err := accounts.Put(c.addr[:], encodeAccount(c.current)); err != nil {
			return err
		}
		for key, value := range c.slots {
			k := slotKey(c.addr, c.current.Incarnation, key)
			var err error
			if value.IsZero() {
				err = storage.Delete(k)
			} else {
				err = storage.Put(k, trimValue(value))
			}
			if err != nil {
				return err
			}
		}
	}

	var codeErr error
	code.Range(func(hash thor.Bytes32, c []byte) bool {
		codeErr = codes.Put(hash[:], c)
		return codeErr == nil
	})
	if codeErr != nil {
		return codeErr
	}

	enc, err := encodeBlockData(data)
	if err != nil {
		return errors.Wrap(err, "encode block")
	}
	if err := blocks.Put(numberKey(number), enc); err != nil {
		return err
	}
	if err := meta.Put(bestKey, numberKey(number)); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit")
	}

	db.applyChanges(changes)
	db.best = &number

	elapsed := time.Since(start)
	metricCommitDuration().Observe(elapsed.Milliseconds())
	metricBestBlock().Set(int64(number))
	logger.Info("block committed",
		"number", number,
		"id", data.ID,
		"accounts", len(changes),
		"root", db.tries.accounts.Hash(),
		"elapsed", elapsed)
	return nil
}

// dropSlots deletes all slots of the incarnation.
func (db *DB) dropSlots(storage kv.Putter, addr thor.Address, inc state.Incarnation) error {
	iter := db.iterateSlots(addr, inc)
	defer iter.Release()
	for iter.Next() {
		if err := storage.Delete(slotKey(addr, inc, thor.BytesToBytes32(iter.Key()))); err != nil {
			return err
		}
	}
	return errors.Wrap(iter.Error(), "iterate storage")
}

// applyChanges updates tries and the account cache after a successful write.
func (db *DB) applyChanges(changes []*change) {
	for _, c := range changes {
		if c.current == nil {
			db.tries.deleteAccount(c.addr)
			db.cache.Set(c.addr[:], []byte{})
			continue
		}
		if c.reset || c.original == nil {
			delete(db.tries.storage, c.addr)
		}
		st := db.tries.storageTrie(c.addr)
		for key, value := range c.slots {
			if value.IsZero() {
				st.Delete(hashKey(key[:]))
			} else {
				st.Update(hashKey(key[:]), encodeSlotLeaf(value))
			}
		}
		db.tries.updateAccount(c.addr, c.current)
		db.cache.Set(c.addr[:], encodeAccount(c.current))
	}
}
