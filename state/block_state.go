// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/vechain/statecore/cache"
	"github.com/vechain/statecore/cmap"
	"github.com/vechain/statecore/log"
	"github.com/vechain/statecore/thor"
)

var logger = log.WithContext("pkg", "state")

// Delta is a pair of values, the one read from the database and the latest merged one.
type Delta[T any] struct {
	Original T
	Current  T
}

// StorageDeltas maps slot keys to deltas.
type StorageDeltas = cmap.Map[thor.Bytes32, Delta[thor.Bytes32]]

// StateDelta is the change of one account in a block.
type StateDelta struct {
	Account Delta[*Account]
	Storage *StorageDeltas
}

// StateDeltas maps addresses to deltas.
type StateDeltas = cmap.Map[thor.Address, *StateDelta]

// Code maps code hashes to code.
type Code = cmap.Map[thor.Bytes32, []byte]

// BlockState is the state overlay of a block. Reads are safe for concurrent use by
// transactions executing in parallel. Merge must be called in transaction order.
type BlockState struct {
	db     Database
	codes  *cache.CodeCache
	deltas *StateDeltas
	code   *Code
}

// NewBlockState creates a block state over db. codes is the process-wide code cache.
func NewBlockState(db Database, codes *cache.CodeCache) *BlockState {
	return &BlockState{
		db:     db,
		codes:  codes,
		deltas: cmap.New[thor.Address, *StateDelta](),
		code:   cmap.New[thor.Bytes32, []byte](),
	}
}

func (bs *BlockState) mustNotCommitted() {
	if bs.deltas == nil {
		panic("state: block state already committed")
	}
}

// ReadAccount returns the latest account at addr. On first access the account is read
// from the database and recorded as both original and current.
func (bs *BlockState) ReadAccount(addr thor.Address) (*Account, error) {
	bs.mustNotCommitted()

	if acc, ok := bs.deltas.Find(addr); ok {
		defer acc.Release()
		metricReadCounter().AddWithLabel(1, map[string]string{"type": "account", "source": "block"})
		return acc.Value().Account.Current.Copy(), nil
	}

	account, err := bs.db.ReadAccount(addr)
	if err != nil {
		return nil, err
	}
	metricReadCounter().AddWithLabel(1, map[string]string{"type": "account", "source": "db"})

	acc, _ := bs.deltas.Emplace(addr, &StateDelta{
		Account: Delta[*Account]{account, account},
		Storage: cmap.New[thor.Bytes32, Delta[thor.Bytes32]](),
	})
	defer acc.Release()
	return acc.Value().Account.Current.Copy(), nil
}

// ReadStorage returns the latest value of the slot under the given incarnation. The account
// must have been read before.
func (bs *BlockState) ReadStorage(addr thor.Address, incarnation Incarnation, key thor.Bytes32) (thor.Bytes32, error) {
	bs.mustNotCommitted()

	var (
		storage  *StorageDeltas
		original *Account
	)
	{
		acc, ok := bs.deltas.Find(addr)
		if !ok {
			panic(fmt.Sprintf("state: read storage of unread account %v", addr))
		}
		delta := acc.Value()
		current := delta.Account.Current
		if current == nil || current.Incarnation != incarnation {
			acc.Release()
			return thor.Bytes32{}, nil
		}
		if v, ok := delta.Storage.Get(key); ok {
			acc.Release()
			metricReadCounter().AddWithLabel(1, map[string]string{"type": "storage", "source": "block"})
			return v.Current, nil
		}
		storage, original = delta.Storage, delta.Account.Original
		acc.Release()
	}

	// the slot is in the database only if the account there has the same incarnation
	var result thor.Bytes32
	if original != nil && original.Incarnation == incarnation {
		v, err := bs.db.ReadStorage(addr, incarnation, key)
		if err != nil {
			return thor.Bytes32{}, err
		}
		metricReadCounter().AddWithLabel(1, map[string]string{"type": "storage", "source": "db"})
		result = v
	}

	acc, _ := bs.deltas.FindMut(addr)
	defer acc.Release()

	// a merge may have happened meanwhile
	current := acc.Value().Account.Current
	if current == nil || current.Incarnation != incarnation {
		return thor.Bytes32{}, nil
	}
	sacc, _ := storage.Emplace(key, Delta[thor.Bytes32]{result, result})
	defer sacc.Release()
	return sacc.Value().Current, nil
}

// ReadCode returns code of hash, looking up the process-wide cache, then code merged in the
// block, then the database.
func (bs *BlockState) ReadCode(hash thor.Bytes32) ([]byte, error) {
	bs.mustNotCommitted()

	if hash == thor.EmptyCodeHash {
		return nil, nil
	}
	if code, ok := bs.codes.Get(hash); ok {
		metricReadCounter().AddWithLabel(1, map[string]string{"type": "code", "source": "vm"})
		return code, nil
	}
	if code, ok := bs.code.Get(hash); ok {
		metricReadCounter().AddWithLabel(1, map[string]string{"type": "code", "source": "block"})
		bs.codes.Insert(hash, code)
		return code, nil
	}

	code, err := bs.db.ReadCode(hash)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		panic(fmt.Sprintf("state: missing code %v", hash))
	}
	metricReadCounter().AddWithLabel(1, map[string]string{"type": "code", "source": "db"})
	bs.codes.Insert(hash, code)
	return code, nil
}

// CanMerge returns if the transaction state is consistent with the current block state, as
// if the transaction executed after all merged ones. Balance mismatches are fixed in place
// where the relaxed rule allows.
func (bs *BlockState) CanMerge(st *State) bool {
	bs.mustNotCommitted()

	if st.Error() != nil {
		return false
	}

	ok := true
	st.RangeOriginal(func(addr thor.Address, orig *OriginalAccountState) bool {
		acc, found := bs.deltas.Find(addr)
		if !found {
			panic(fmt.Sprintf("state: merge of unread account %v", addr))
		}
		delta := acc.Value()
		actual := delta.Account.Current.Copy()
		storage := delta.Storage
		acc.Release()

		if !AccountEqual(orig.Account, actual) && !st.TryFixAccountMismatch(addr, actual) {
			logger.Debug("account conflict", "addr", addr)
			ok = false
			return false
		}

		for key, value := range orig.Storage {
			d, found := storage.Get(key)
			if found && d.Current != value || !found && !value.IsZero() {
				logger.Debug("storage conflict", "addr", addr, "key", key)
				ok = false
				return false
			}
		}
		return true
	})
	return ok
}

// Merge folds the transaction's changes into the current half of the block state.
func (bs *BlockState) Merge(st *State) {
	bs.mustNotCommitted()
	st.mustTopLevel()

	for hash, code := range st.NewCode() {
		bs.code.Insert(hash, code)
	}

	st.RangeCurrent(func(addr thor.Address, as *AccountState) bool {
		acc, found := bs.deltas.FindMut(addr)
		if !found {
			panic(fmt.Sprintf("state: merge of unread account %v", addr))
		}
		defer acc.Release()

		delta := acc.Value()
		prev := delta.Account.Current
		delta.Account.Current = as.Account.Copy()

		if as.Account == nil {
			delta.Storage.Clear()
			return true
		}
		if prev == nil || prev.Incarnation != as.Account.Incarnation {
			delta.Storage.Clear()
		}
		for key, value := range as.Storage {
			sacc, inserted := delta.Storage.Emplace(key, Delta[thor.Bytes32]{Current: value})
			if !inserted {
				d := sacc.Value()
				d.Current = value
				sacc.Set(d)
			}
			sacc.Release()
		}
		return true
	})
}

// TryMerge merges st if it can be merged.
func (bs *BlockState) TryMerge(st *State) MergeStatus {
	if !bs.CanMerge(st) {
		metricMergeCounter().AddWithLabel(1, map[string]string{"result": "conflict"})
		return Conflicted
	}
	bs.Merge(st)
	metricMergeCounter().AddWithLabel(1, map[string]string{"result": "merged"})
	return Merged
}

// Commit hands all deltas, code and the block data to the database. The block state is
// consumed and can't be used afterwards.
func (bs *BlockState) Commit(data *BlockData) error {
	bs.mustNotCommitted()

	deltas, code := bs.deltas, bs.code
	bs.deltas, bs.code = nil, nil
	return bs.db.Commit(deltas, code, data)
}

// LogDebug dumps all deltas at debug level.
func (bs *BlockState) LogDebug() {
	if bs.deltas == nil || !logger.Enabled(log.LevelDebug) {
		return
	}
	bs.deltas.Range(func(addr thor.Address, delta *StateDelta) bool {
		storage := make(map[thor.Bytes32]Delta[thor.Bytes32])
		delta.Storage.Range(func(key thor.Bytes32, d Delta[thor.Bytes32]) bool {
			storage[key] = d
			return true
		})
		logger.Debug("state delta",
			"addr", addr,
			"original", spew.Sdump(delta.Account.Original),
			"current", spew.Sdump(delta.Account.Current),
			"storage", spew.Sdump(storage))
		return true
	})
}
