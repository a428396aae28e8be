// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"io"
	"sync"

	"golang.org/x/crypto/sha3"
)

// hasher is the sponge behind sha3.NewLegacyKeccak256. Read squeezes the digest without
// the copy Sum makes.
type hasher interface {
	hash.Hash
	io.Reader
}

var hasherPool = sync.Pool{
	New: func() any { return sha3.NewLegacyKeccak256().(hasher) },
}

// Keccak256 returns keccak-256 of the concatenated data.
func Keccak256(data ...[]byte) Bytes32 {
	return Keccak256Fn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	})
}

// Keccak256Fn returns keccak-256 of whatever fn writes. Encoders write straight into the
// hasher this way.
func Keccak256Fn(fn func(w io.Writer)) (h Bytes32) {
	s := hasherPool.Get().(hasher)
	defer func() {
		s.Reset()
		hasherPool.Put(s)
	}()

	fn(s)
	s.Read(h[:])
	return
}
