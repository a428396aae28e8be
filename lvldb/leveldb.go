// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb implements kv.Store over goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/statecore/kv"
)

var _ kv.Store = (*LevelDB)(nil)

var (
	writeOpt = opt.WriteOptions{}
	syncOpt  = opt.WriteOptions{Sync: true}
	readOpt  = opt.ReadOptions{}
)

// Options options for creating level db instance.
type Options struct {
	CacheSize              int // MiB
	OpenFilesCacheCapacity int
}

// LevelDB wraps level db impls.
type LevelDB struct {
	db *leveldb.DB
}

// New creates a persistent level db instance.
// Create an empty one if not exists, or open if already there.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "new persistent level db")
	}
	return open(stg, opts)
}

// NewMem creates a level db in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	if opts.CacheSize < 16 {
		opts.CacheSize = 16
	}
	if opts.OpenFilesCacheCapacity < 16 {
		opts.OpenFilesCacheCapacity = 16
	}
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: opts.OpenFilesCacheCapacity,
		BlockCacheCapacity:     opts.CacheSize / 2 * opt.MiB,
		WriteBuffer:            opts.CacheSize / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db: db}, nil
}

// IsNotFound returns if the error returned by Get indicates key not found.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get retrieves value for given key.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, &readOpt)
}

// Has returns whether a key exists.
func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

// Put saves value for given key.
func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &writeOpt)
}

// Delete deletes the given key and its value.
func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &writeOpt)
}

// Snapshot returns a consistent read view.
func (ldb *LevelDB) Snapshot() kv.Snapshot {
	snap, err := ldb.db.GetSnapshot()
	if err != nil {
		return &errSnapshot{err}
	}
	return &snapshot{snap}
}

// Bulk returns an atomic batch, synced to disk on write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &bulk{ldb.db, new(leveldb.Batch)}
}

// Iterate creates an iterator over r.
func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(toRange(r), &readOpt)
}

// Close closes the level db. Later operations will all fail.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

func toRange(r kv.Range) *util.Range {
	return &util.Range{Start: r.Start, Limit: r.Limit}
}

type bulk struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *bulk) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *bulk) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *bulk) Len() int { return b.batch.Len() }

func (b *bulk) Write() error {
	if err := b.db.Write(b.batch, &syncOpt); err != nil {
		return errors.Wrap(err, "write batch")
	}
	b.batch.Reset()
	return nil
}

type snapshot struct {
	snap *leveldb.Snapshot
}

func (s *snapshot) Get(key []byte) ([]byte, error) { return s.snap.Get(key, &readOpt) }
func (s *snapshot) Has(key []byte) (bool, error)   { return s.snap.Has(key, &readOpt) }
func (s *snapshot) IsNotFound(err error) bool      { return errors.Is(err, leveldb.ErrNotFound) }
func (s *snapshot) Release()                       { s.snap.Release() }
func (s *snapshot) Iterate(r kv.Range) kv.Iterator {
	return s.snap.NewIterator(toRange(r), &readOpt)
}

// errSnapshot fails all reads, for a db already closed.
type errSnapshot struct {
	err error
}

func (s *errSnapshot) Get([]byte) ([]byte, error) { return nil, s.err }
func (s *errSnapshot) Has([]byte) (bool, error)   { return false, s.err }
func (s *errSnapshot) IsNotFound(error) bool      { return false }
func (s *errSnapshot) Release()                   {}
func (s *errSnapshot) Iterate(kv.Range) kv.Iterator {
	return iterator.NewEmptyIterator(s.err)
}
