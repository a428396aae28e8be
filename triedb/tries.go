// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package triedb

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/statecore/state"
	"github.com/vechain/statecore/thor"
	"github.com/vechain/statecore/trie"
)

// tries are the account trie and storage tries of the latest committed state.
type tries struct {
	accounts *trie.Trie
	storage  map[thor.Address]*trie.Trie
	// preimages of account trie keys
	addrs map[thor.Bytes32]thor.Address
}

func newTries() *tries {
	return &tries{
		accounts: trie.New(nil),
		storage:  make(map[thor.Address]*trie.Trie),
		addrs:    make(map[thor.Bytes32]thor.Address),
	}
}

// unbounded sorts after every key, since nibbles never exceed 0x0f.
var unbounded = trie.Nibbles{0x10}

func upper(max trie.Nibbles) trie.Nibbles {
	if len(max) == 0 {
		return unbounded
	}
	return max
}

func hashKey(key []byte) []byte {
	h := thor.Keccak256(key)
	return h[:]
}

func (t *tries) storageTrie(addr thor.Address) *trie.Trie {
	st, ok := t.storage[addr]
	if !ok {
		st = trie.New(nil)
		t.storage[addr] = st
	}
	return st
}

// updateAccount writes the account leaf with the current storage root.
func (t *tries) updateAccount(addr thor.Address, acc *state.Account) {
	hash := thor.Keccak256(addr[:])
	t.accounts.Update(hash[:], encodeLeaf(acc, t.storageTrie(addr).Hash()))
	t.addrs[hash] = addr
}

func (t *tries) deleteAccount(addr thor.Address) {
	hash := thor.Keccak256(addr[:])
	t.accounts.Delete(hash[:])
	delete(t.storage, addr)
	delete(t.addrs, hash)
}

// StateRoot returns root hash of the account trie.
func (db *DB) StateRoot() thor.Bytes32 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.tries.accounts.Hash()
}

// StorageRoot returns root hash of the account's storage trie.
func (db *DB) StorageRoot(addr thor.Address) thor.Bytes32 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if st, ok := db.tries.storage[addr]; ok {
		return st.Hash()
	}
	return thor.EmptyRoot
}

// AccountRange calls fn for each account whose hashed address falls in [min, max), in
// ascending order of the hash. An empty max is unbounded. fn must not commit.
func (db *DB) AccountRange(min, max trie.Nibbles, fn func(hash thor.Bytes32, addr thor.Address, leaf *AccountLeaf)) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var err error
	trie.RangeGet(db.tries.accounts.Root(), min, upper(max), func(key trie.Nibbles, value []byte) {
		if err != nil {
			return
		}
		var leaf AccountLeaf
		if err = rlp.DecodeBytes(value, &leaf); err != nil {
			err = errors.Wrap(err, "decode account leaf")
			return
		}
		hash := thor.BytesToBytes32(key.Bytes())
		fn(hash, db.tries.addrs[hash], &leaf)
	})
	return err
}

// StorageRange calls fn for each slot of the account whose hashed key falls in [min, max),
// in ascending order of the hash. An empty max is unbounded. fn must not commit.
func (db *DB) StorageRange(addr thor.Address, min, max trie.Nibbles, fn func(hash, value thor.Bytes32)) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	st, ok := db.tries.storage[addr]
	if !ok {
		return nil
	}
	var err error
	trie.RangeGet(st.Root(), min, upper(max), func(key trie.Nibbles, enc []byte) {
		if err != nil {
			return
		}
		var value []byte
		if err = rlp.DecodeBytes(enc, &value); err != nil {
			err = errors.Wrap(err, "decode slot leaf")
			return
		}
		fn(thor.BytesToBytes32(key.Bytes()), thor.BytesToBytes32(value))
	})
	return err
}
