// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie_test

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/statecore/trie"
)

func collect(root *trie.Node, min, max trie.Nibbles) (keys []string, values []string) {
	trie.RangeGet(root, min, max, func(key trie.Nibbles, value []byte) {
		keys = append(keys, key.String())
		values = append(values, string(value))
	})
	return
}

func TestRangeGetSimple(t *testing.T) {
	var tr trie.Trie
	tr.Update([]byte{0x0a}, []byte("a"))
	tr.Update([]byte{0x12}, []byte("b"))
	tr.Update([]byte{0x13}, []byte("c"))
	tr.Update([]byte{0x20}, []byte("d"))
	tr.Update([]byte{0xff}, []byte("e"))

	tests := []struct {
		min, max string
		want     []string
	}{
		{"0x0", "0x1", []string{"0x0a"}},
		{"0x00", "0x10", []string{"0x0a"}},
		{"0x10", "0x20", []string{"0x12", "0x13"}},
		{"0x13", "0x14", []string{"0x13"}},
		{"0x13", "0x13", nil},
		{"0x14", "0x20", nil},
		{"0x00", "0xff", []string{"0x0a", "0x12", "0x13", "0x20"}},
		{"0x00", "0xfff", []string{"0x0a", "0x12", "0x13", "0x20", "0xff"}},
		{"0x2", "0xf", []string{"0x20"}},
	}
	for _, tt := range tests {
		keys, _ := collect(tr.Root(), trie.MustParseNibbles(tt.min), trie.MustParseNibbles(tt.max))
		assert.Equal(t, tt.want, keys, "[%v, %v)", tt.min, tt.max)
	}
}

func TestRangeGetSingleKey(t *testing.T) {
	// a lone leaf is the root itself and carries the whole key as its path
	var tr trie.Trie
	tr.Update([]byte{0x0a}, []byte("v"))

	keys, values := collect(tr.Root(), trie.MustParseNibbles("0x0"), trie.MustParseNibbles("0x1"))
	assert.Equal(t, []string{"0x0a"}, keys)
	assert.Equal(t, []string{"v"}, values)

	keys, _ = collect(tr.Root(), trie.MustParseNibbles("0x1"), trie.MustParseNibbles("0x2"))
	assert.Empty(t, keys)

	keys, _ = collect(nil, trie.MustParseNibbles("0x0"), trie.MustParseNibbles("0xf"))
	assert.Empty(t, keys)
}

func TestRangeGetRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6)) //#nosec G404
	entries := dedup(randomEntries(rng, 500))

	var tr trie.Trie
	for _, i := range rng.Perm(len(entries)) {
		tr.Update(entries[i].k, entries[i].v)
	}

	for round := 0; round < 50; round++ {
		a := trie.KeyToNibbles(entries[rng.IntN(len(entries))].k)[:1+rng.IntN(64)]
		b := trie.KeyToNibbles(entries[rng.IntN(len(entries))].k)[:1+rng.IntN(64)]
		if a.Compare(b) > 0 {
			a, b = b, a
		}

		var want []string
		for _, e := range entries {
			key := trie.KeyToNibbles(e.k)
			if key.Compare(a) >= 0 && key.Compare(b) < 0 {
				want = append(want, key.String())
			}
		}

		got, _ := collect(tr.Root(), a, b)
		assert.Equal(t, want, got, "[%v, %v)", a, b)
		assert.True(t, sort.StringsAreSorted(got))
	}
}

type countingVisitor struct {
	values *atomic.Int64
	depth  int
}

func (v *countingVisitor) ShouldVisit(*trie.Node, byte) bool { return true }
func (v *countingVisitor) Down(_ byte, n *trie.Node) bool {
	v.depth++
	if n.HasValue {
		v.values.Add(1)
	}
	return true
}
func (v *countingVisitor) Up(byte, *trie.Node) { v.depth-- }
func (v *countingVisitor) Clone() trie.Visitor {
	cpy := *v
	return &cpy
}

func TestParallelTraverse(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8)) //#nosec G404
	entries := dedup(randomEntries(rng, 300))

	var tr trie.Trie
	for _, e := range entries {
		tr.Update(e.k, e.v)
	}

	v := &countingVisitor{values: new(atomic.Int64)}
	require.NoError(t, trie.ParallelTraverse(context.Background(), tr.Root(), v, 4))
	assert.Equal(t, int64(len(entries)), v.values.Load())
	assert.Equal(t, 0, v.depth)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, trie.ParallelTraverse(ctx, tr.Root(), &countingVisitor{values: new(atomic.Int64)}, 4), context.Canceled)
}
