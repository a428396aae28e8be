// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie_test

import (
	"bytes"
	"math/big"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/statecore/thor"
	"github.com/vechain/statecore/trie"
)

type kv struct {
	k, v []byte
}

func randomEntries(rng *rand.Rand, n int) []kv {
	entries := make([]kv, 0, n)
	for i := 0; i < n; i++ {
		k := thor.Keccak256(big.NewInt(int64(rng.Uint32())).Bytes())
		v := make([]byte, 1+rng.IntN(64))
		for j := range v {
			v[j] = byte(rng.Uint32())
		}
		entries = append(entries, kv{k[:], v})
	}
	return entries
}

// stackRoot computes the root with go-ethereum's implementation.
func stackRoot(entries []kv) thor.Bytes32 {
	sorted := dedup(entries)
	st := ethtrie.NewStackTrie(nil)
	for _, e := range sorted {
		st.Update(e.k, e.v)
	}
	return thor.Bytes32(st.Hash())
}

// dedup keeps the last value of each key, sorted by key.
func dedup(entries []kv) []kv {
	m := make(map[string][]byte)
	for _, e := range entries {
		m[string(e.k)] = e.v
	}
	out := make([]kv, 0, len(m))
	for k, v := range m {
		out = append(out, kv{[]byte(k), v})
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].k, out[j].k) < 0 })
	return out
}

func TestEmptyTrie(t *testing.T) {
	var tr trie.Trie
	assert.Equal(t, thor.EmptyRoot, tr.Hash())
	assert.Equal(t, thor.Bytes32(types.EmptyRootHash), tr.Hash())

	tr.Delete([]byte("missing"))
	assert.Nil(t, tr.Root())
}

func TestTrieRootMatchesStackTrie(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2)) //#nosec G404

	for _, n := range []int{1, 2, 3, 10, 100, 1000} {
		entries := randomEntries(rng, n)

		var tr trie.Trie
		for _, e := range entries {
			tr.Update(e.k, e.v)
		}
		assert.Equal(t, stackRoot(entries), tr.Hash(), "n=%d", n)
	}
}

func TestTrieGetUpdateDelete(t *testing.T) {
	assert := assert.New(t)

	var tr trie.Trie
	tr.Update([]byte("doe"), []byte("reindeer"))
	tr.Update([]byte("dog"), []byte("puppy"))
	tr.Update([]byte("dogglesworth"), []byte("cat"))

	// known root from the ethereum trie tests
	assert.Equal(thor.MustParseBytes32("0x8aad789dff2f538bca5d8ea56e8abe10f4c7ba3a5dea95fea4cd6e7c3a1168d3"), tr.Hash())

	v, ok := tr.Get([]byte("dog"))
	assert.True(ok)
	assert.Equal([]byte("puppy"), v)

	_, ok = tr.Get([]byte("do"))
	assert.False(ok)

	_, ok = tr.Get([]byte("dogg"))
	assert.False(ok)

	snapshot := tr.Root()

	tr.Delete([]byte("dogglesworth"))
	tr.Update([]byte("doe"), nil)
	_, ok = tr.Get([]byte("doe"))
	assert.False(ok)

	var expected trie.Trie
	expected.Update([]byte("dog"), []byte("puppy"))
	assert.Equal(expected.Hash(), tr.Hash())

	// copy on write keeps earlier roots intact
	assert.Equal(thor.MustParseBytes32("0x8aad789dff2f538bca5d8ea56e8abe10f4c7ba3a5dea95fea4cd6e7c3a1168d3"), trie.New(snapshot).Hash())
}

func TestTrieOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4)) //#nosec G404
	entries := randomEntries(rng, 200)

	var a, b trie.Trie
	for _, e := range entries {
		a.Update(e.k, e.v)
	}
	removed := entries[:50]
	for _, e := range removed {
		a.Delete(e.k)
	}

	perm := rng.Perm(len(entries))
	for _, i := range perm {
		if i >= 50 {
			b.Update(entries[i].k, entries[i].v)
		}
	}
	assert.Equal(t, b.Hash(), a.Hash())
	assert.Equal(t, stackRoot(entries[50:]), a.Hash())
}

type rlpList [][]byte

func (l rlpList) Len() int            { return len(l) }
func (l rlpList) GetRlp(i int) []byte { return l[i] }

func TestDeriveRoot(t *testing.T) {
	for _, n := range []int{0, 1, 2, 127, 128, 129, 300} {
		txs := make(types.Transactions, 0, n)
		list := make(rlpList, 0, n)
		for i := 0; i < n; i++ {
			tx := types.NewTransaction(uint64(i), common.Address{byte(i)}, big.NewInt(int64(i)), 21000, big.NewInt(1), nil)
			txs = append(txs, tx)
			data, err := tx.MarshalBinary()
			assert.Nil(t, err)
			list = append(list, data)
		}

		want := types.DeriveSha(txs, ethtrie.NewStackTrie(nil))
		assert.Equal(t, thor.Bytes32(want), trie.DeriveRoot(list), "n=%d", n)
	}
}
