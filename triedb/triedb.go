// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package triedb implements the persistent state database.
//
// Accounts, storage slots and code are kept flat in a kv store, so reads are a single
// lookup. Merkle Patricia Tries over them live in memory, rebuilt on open, and give the
// state root and ordered range queries.
package triedb

import (
	"bytes"
	"encoding/binary"
	"io"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"github.com/qianbin/directcache"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/statecore/cache"
	"github.com/vechain/statecore/kv"
	"github.com/vechain/statecore/log"
	"github.com/vechain/statecore/lvldb"
	"github.com/vechain/statecore/metrics"
	"github.com/vechain/statecore/state"
	"github.com/vechain/statecore/thor"
	"github.com/vechain/statecore/trie"
)

var (
	logger               = log.WithContext("pkg", "triedb")
	metricCommitDuration = metrics.LazyLoadHistogram("triedb_commit_duration_ms", metrics.Bucket10s)
	metricBestBlock      = metrics.LazyLoadGauge("triedb_best_block")
)

// ErrNotFound is returned when a block is not in the database.
var ErrNotFound = errors.New("not found")

// Options of the database.
type Options struct {
	CacheSize              int // MiB, split between the kv store and the account cache
	OpenFilesCacheCapacity int
	// Workers rebuilding storage tries on open. Zero means one per CPU.
	Workers int
}

// DB is the persistent state database. Reads are safe for concurrent use.
type DB struct {
	store  kv.Store
	closer io.Closer

	accounts kv.Store
	storage  kv.Store
	code     kv.Store
	blocks   kv.Store
	meta     kv.Store

	cache *directcache.Cache
	stats cache.Stats

	mu    sync.RWMutex
	tries *tries
	best  *uint64
}

var _ state.Database = (*DB)(nil)

// Open opens or creates the database at path.
func Open(path string, opts Options) (*DB, error) {
	ldb, err := lvldb.New(path, lvldb.Options{
		CacheSize:              opts.CacheSize / 2,
		OpenFilesCacheCapacity: opts.OpenFilesCacheCapacity,
	})
	if err != nil {
		return nil, err
	}
	db, err := newDB(ldb, ldb, opts)
	if err != nil {
		ldb.Close()
		return nil, err
	}
	return db, nil
}

// NewMem creates an empty database in memory.
func NewMem() *DB {
	ldb, err := lvldb.NewMem()
	if err != nil {
		panic(err)
	}
	db, err := newDB(ldb, ldb, Options{})
	if err != nil {
		panic(err)
	}
	return db
}

func newDB(store kv.Store, closer io.Closer, opts Options) (*DB, error) {
	cacheSize := opts.CacheSize / 2
	if cacheSize < 16 {
		cacheSize = 16
	}
	db := &DB{
		store:    store,
		closer:   closer,
		accounts: accountBucket.NewStore(store),
		storage:  storageBucket.NewStore(store),
		code:     codeBucket.NewStore(store),
		blocks:   blockBucket.NewStore(store),
		meta:     metaBucket.NewStore(store),
		cache:    directcache.New(cacheSize * 1024 * 1024),
	}

	if enc, err := db.meta.Get(bestKey); err == nil {
		best := binary.BigEndian.Uint64(enc)
		db.best = &best
	} else if !db.meta.IsNotFound(err) {
		return nil, errors.Wrap(err, "read best")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	tries, err := db.loadTries(workers)
	if err != nil {
		return nil, err
	}
	db.tries = tries
	return db, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.closer.Close()
}

// ReadAccount implements state.Database.
func (db *DB) ReadAccount(addr thor.Address) (*state.Account, error) {
	var blob []byte
	if db.cache.AdvGet(addr[:], func(val []byte) {
		blob = bytes.Clone(val)
	}, false) && blob != nil {
		db.logStats(db.stats.Hit())
		if len(blob) == 0 {
			return nil, nil
		}
		return decodeAccount(blob)
	}
	db.logStats(db.stats.Miss())

	blob, err := db.accounts.Get(addr[:])
	if err != nil {
		if db.accounts.IsNotFound(err) {
			db.cache.Set(addr[:], []byte{})
			return nil, nil
		}
		return nil, errors.Wrap(err, "read account")
	}
	db.cache.Set(addr[:], blob)

	acc, err := decodeAccount(blob)
	if err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return acc, nil
}

func (db *DB) logStats(n int64) {
	if n%10000 == 0 {
		if changed, hit, miss := db.stats.Stats(); changed {
			logger.Debug("account cache stats", "hit", hit, "miss", miss, "rate", db.stats.HitRate())
		}
	}
}

// ReadStorage implements state.Database.
func (db *DB) ReadStorage(addr thor.Address, incarnation state.Incarnation, key thor.Bytes32) (thor.Bytes32, error) {
	val, err := db.storage.Get(slotKey(addr, incarnation, key))
	if err != nil {
		if db.storage.IsNotFound(err) {
			return thor.Bytes32{}, nil
		}
		return thor.Bytes32{}, errors.Wrap(err, "read storage")
	}
	return thor.BytesToBytes32(val), nil
}

// ReadCode implements state.Database.
func (db *DB) ReadCode(hash thor.Bytes32) ([]byte, error) {
	code, err := db.code.Get(hash[:])
	if err != nil {
		if db.code.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read code")
	}
	return code, nil
}

// Best returns number of the latest committed block.
func (db *DB) Best() (uint64, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.best == nil {
		return 0, false
	}
	return *db.best, true
}

// ReadBlockData returns the data committed with block number.
func (db *DB) ReadBlockData(number uint64) (*state.BlockData, error) {
	enc, err := db.blocks.Get(numberKey(number))
	if err != nil {
		if db.blocks.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "read block")
	}
	data, err := decodeBlockData(enc)
	if err != nil {
		return nil, errors.Wrap(err, "decode block")
	}
	return data, nil
}

// loadTries builds tries from the flat kv content.
func (db *DB) loadTries(workers int) (*tries, error) {
	type entry struct {
		addr thor.Address
		acc  *state.Account
		root *trie.Trie
	}
	var entries []*entry

	iter := db.accounts.Iterate(kv.Range{})
	for iter.Next() {
		acc, err := decodeAccount(iter.Value())
		if err != nil {
			iter.Release()
			return nil, errors.Wrap(err, "decode account")
		}
		entries = append(entries, &entry{addr: thor.BytesToAddress(iter.Key()), acc: acc})
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate accounts")
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, e := range entries {
		g.Go(func() error {
			t, err := db.loadStorageTrie(e.addr, e.acc.Incarnation)
			e.root = t
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := newTries()
	for _, e := range entries {
		t.storage[e.addr] = e.root
		t.updateAccount(e.addr, e.acc)
	}
	logger.Debug("tries loaded", "accounts", len(entries), "root", t.accounts.Hash())
	return t, nil
}

func (db *DB) loadStorageTrie(addr thor.Address, inc state.Incarnation) (*trie.Trie, error) {
	t := trie.New(nil)
	iter := db.iterateSlots(addr, inc)
	defer iter.Release()
	for iter.Next() {
		t.Update(hashKey(iter.Key()), encodeSlotLeaf(thor.BytesToBytes32(iter.Value())))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate storage")
	}
	return t, nil
}

// iterateSlots iterates slots of the account's incarnation, keyed by slot key.
func (db *DB) iterateSlots(addr thor.Address, inc state.Incarnation) kv.Iterator {
	return kv.Bucket(slotPrefix(addr, inc)).NewIterate(db.storage.Iterate)(kv.Range{})
}
