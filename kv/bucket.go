// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store. Keys are prefixed with the bucket name.
type Bucket string

type buf struct {
	k []byte
}

var bufPool = sync.Pool{
	New: func() any {
		return &buf{}
	},
}

// with calls fn with the prefixed key in a pooled buffer. fn must not retain it.
func (b Bucket) with(key []byte, fn func(k []byte) error) error {
	buf := bufPool.Get().(*buf)
	defer bufPool.Put(buf)
	buf.k = append(append(buf.k[:0], b...), key...)
	return fn(buf.k)
}

// Key returns the prefixed key.
func (b Bucket) Key(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) (val []byte, err error) {
			err = b.with(key, func(k []byte) error {
				val, err = src.Get(k)
				return err
			})
			return
		},
		func(key []byte) (has bool, err error) {
			err = b.with(key, func(k []byte) error {
				has, err = src.Has(k)
				return err
			})
			return
		},
		src.IsNotFound,
	}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error {
			return b.with(key, func(k []byte) error { return src.Put(k, val) })
		},
		func(key []byte) error {
			return b.with(key, func(k []byte) error { return src.Delete(k) })
		},
	}
}

// NewBulk creates a bucket bulk writing into the source bulk.
func (b Bucket) NewBulk(src Bulk) Bulk {
	return &struct {
		Putter
		LenFunc
		WriteFunc
	}{
		b.NewPutter(src),
		src.Len,
		src.Write,
	}
}

// NewIterate creates an iterate func over the bucket. Keys of the iterator are stripped
// of the bucket prefix.
func (b Bucket) NewIterate(src func(r Range) Iterator) IterateFunc {
	return func(r Range) Iterator {
		// the range is retained by the iterator, so it can't be pooled
		r.Start = b.Key(r.Start)
		if len(r.Limit) == 0 {
			r.Limit = util.BytesPrefix([]byte(b)).Limit
		} else {
			r.Limit = b.Key(r.Limit)
		}
		iter := src(r)
		return &struct {
			NextFunc
			KeyFunc
			ValueFunc
			ReleaseFunc
			ErrorFunc
		}{
			iter.Next,
			func() []byte { return iter.Key()[len(b):] },
			iter.Value,
			iter.Release,
			iter.Error,
		}
	}
}

// NewSnapshot creates a bucket snapshot from the source snapshot.
func (b Bucket) NewSnapshot(src Snapshot) Snapshot {
	return &struct {
		Getter
		IterateFunc
		ReleaseFunc
	}{
		b.NewGetter(src),
		b.NewIterate(src.Iterate),
		src.Release,
	}
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		SnapshotFunc
		BulkFunc
		IterateFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		func() Snapshot { return b.NewSnapshot(src.Snapshot()) },
		func() Bulk { return b.NewBulk(src.Bulk()) },
		b.NewIterate(src.Iterate),
	}
}
