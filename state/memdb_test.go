// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"sync"
	"sync/atomic"

	"github.com/holiman/uint256"

	"github.com/vechain/statecore/cache"
	"github.com/vechain/statecore/state"
	"github.com/vechain/statecore/thor"
)

type slotKey struct {
	addr thor.Address
	inc  state.Incarnation
	key  thor.Bytes32
}

// memDB is an in-memory state.Database counting its reads.
type memDB struct {
	mu       sync.Mutex
	accounts map[thor.Address]*state.Account
	storage  map[slotKey]thor.Bytes32
	code     map[thor.Bytes32][]byte
	err      error

	accountReads atomic.Int64
	storageReads atomic.Int64
	codeReads    atomic.Int64
	commits      []*state.BlockData
}

func newMemDB() *memDB {
	return &memDB{
		accounts: make(map[thor.Address]*state.Account),
		storage:  make(map[slotKey]thor.Bytes32),
		code:     make(map[thor.Bytes32][]byte),
	}
}

func (db *memDB) ReadAccount(addr thor.Address) (*state.Account, error) {
	db.accountReads.Add(1)
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.err != nil {
		return nil, db.err
	}
	return db.accounts[addr].Copy(), nil
}

func (db *memDB) ReadStorage(addr thor.Address, inc state.Incarnation, key thor.Bytes32) (thor.Bytes32, error) {
	db.storageReads.Add(1)
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.err != nil {
		return thor.Bytes32{}, db.err
	}
	return db.storage[slotKey{addr, inc, key}], nil
}

func (db *memDB) ReadCode(hash thor.Bytes32) ([]byte, error) {
	db.codeReads.Add(1)
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.code[hash], db.err
}

func (db *memDB) Commit(deltas *state.StateDeltas, code *state.Code, data *state.BlockData) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	deltas.Range(func(addr thor.Address, delta *state.StateDelta) bool {
		acc := delta.Account.Current
		if acc == nil {
			delete(db.accounts, addr)
			return true
		}
		db.accounts[addr] = acc.Copy()
		delta.Storage.Range(func(key thor.Bytes32, d state.Delta[thor.Bytes32]) bool {
			db.storage[slotKey{addr, acc.Incarnation, key}] = d.Current
			return true
		})
		return true
	})
	code.Range(func(hash thor.Bytes32, c []byte) bool {
		db.code[hash] = c
		return true
	})
	db.commits = append(db.commits, data)
	return nil
}

func (db *memDB) setAccount(addr thor.Address, balance uint64, nonce uint64) *state.Account {
	acc := state.NewAccount(state.Incarnation{})
	acc.Balance.SetUint64(balance)
	acc.Nonce = nonce
	db.accounts[addr] = acc
	return acc
}

func newBlockState(db *memDB) *state.BlockState {
	return state.NewBlockState(db, cache.NewCodeCache(16))
}

func u256(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

var (
	addrA = thor.BytesToAddress([]byte("a"))
	addrB = thor.BytesToAddress([]byte("b"))
	addrC = thor.BytesToAddress([]byte("c"))

	key1 = thor.BytesToBytes32([]byte{1})
	key2 = thor.BytesToBytes32([]byte{2})

	val1 = thor.BytesToBytes32([]byte{0x11})
	val2 = thor.BytesToBytes32([]byte{0x22})
	val3 = thor.BytesToBytes32([]byte{0x33})
)
