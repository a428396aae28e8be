// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key/value store the state database persists to.
package kv

// Getter defines methods to read kv.
type Getter interface {
	// Get returns the value of key. A missing key is an error checked by IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Snapshot is a consistent read view of the store.
type Snapshot interface {
	Getter
	Iterate(r Range) Iterator
	Release()
}

// Bulk collects writes and applies them atomically.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Iterator iterates over kv pairs in key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded), nil for unbounded
}

// Store defines the full functional kv store.
type Store interface {
	Getter
	Putter
	Snapshot() Snapshot
	Bulk() Bulk
	Iterate(r Range) Iterator
}
