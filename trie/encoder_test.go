// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/statecore/thor"
	"github.com/vechain/statecore/trie"
)

func TestCompactEncoding(t *testing.T) {
	tests := []struct {
		path        trie.Nibbles
		terminating bool
		compact     []byte
	}{
		{trie.Nibbles{}, false, []byte{0x00}},
		{trie.Nibbles{}, true, []byte{0x20}},
		{trie.Nibbles{1, 2, 3, 4, 5}, false, []byte{0x11, 0x23, 0x45}},
		{trie.Nibbles{0, 1, 2, 3, 4, 5}, false, []byte{0x00, 0x01, 0x23, 0x45}},
		{trie.Nibbles{0, 15, 1, 12, 11, 8}, true, []byte{0x20, 0x0f, 0x1c, 0xb8}},
		{trie.Nibbles{15, 1, 12, 11, 8}, true, []byte{0x3f, 0x1c, 0xb8}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.compact, trie.CompactEncode(tt.path, tt.terminating), "%v", tt.path)

		path, terminating := trie.CompactDecode(tt.compact)
		assert.Equal(t, []byte(tt.path), append([]byte{}, path...))
		assert.Equal(t, tt.terminating, terminating)
	}
}

func TestEncodeTwoPieces(t *testing.T) {
	assert := assert.New(t)

	// [0x82 0x20 0x12, "a"]
	ref := trie.EncodeTwoPieces(trie.Nibbles{1, 2}, []byte("a"), true)
	assert.Equal([]byte{0xc4, 0x82, 0x20, 0x12, 0x61}, ref)
	assert.True(trie.IsInline(ref))

	// a short extension child is embedded verbatim
	child := []byte{0xc2, 0x30, 0x01}
	ref = trie.EncodeTwoPieces(trie.Nibbles{7}, child, false)
	assert.Equal([]byte{0xc4, 0x17, 0xc2, 0x30, 0x01}, ref)

	// a hashed child is wrapped as a string
	hash := thor.Keccak256([]byte("child"))
	ref = trie.EncodeTwoPieces(trie.Nibbles{7}, hash[:], false)
	assert.Len(ref, 32)
	want := append([]byte{0xe2, 0x17, 0xa0}, hash[:]...)
	assert.Equal(thor.Keccak256(want).Bytes(), ref)

	assert.Panics(func() { trie.EncodeTwoPieces(make(trie.Nibbles, 65), nil, true) })
}

func TestNodeRefInline(t *testing.T) {
	assert := assert.New(t)

	for size := 0; size < 50; size++ {
		value := bytes.Repeat([]byte{0x42}, size)
		leaf := trie.NewLeaf(trie.Nibbles{1}, value)
		ref := leaf.Ref()

		// [0x31, value]: the list header is 1 byte, the value header is 1 byte once above 1 byte long
		enc := []byte{0x31}
		switch {
		case size == 1:
			enc = append(enc, 0x42)
		default:
			enc = append(enc, byte(0x80+size))
			enc = append(enc, value...)
		}
		enc = append([]byte{byte(0xc0 + len(enc))}, enc...)

		if len(enc) < 32 {
			assert.True(trie.IsInline(ref))
			assert.Equal(enc, ref)
		} else {
			assert.False(trie.IsInline(ref))
			assert.Equal(thor.Keccak256(enc).Bytes(), ref)
		}
	}
}

func TestEncodeBranch(t *testing.T) {
	assert := assert.New(t)

	empty := trie.EncodeBranch(nil, nil)
	assert.Equal(append([]byte{0xd1}, bytes.Repeat([]byte{0x80}, 17)...), empty)

	inline := []byte{0xc2, 0x20, 0x01}
	hash := thor.Keccak256([]byte("x"))
	enc := trie.EncodeBranch([]trie.ChildData{
		{Branch: 1, Ref: inline},
		{Branch: 15, Ref: hash[:]},
	}, []byte("v"))

	var want []byte
	want = append(want, 0x80)
	want = append(want, inline...)
	want = append(want, bytes.Repeat([]byte{0x80}, 13)...)
	want = append(want, 0xa0)
	want = append(want, hash[:]...)
	want = append(want, 'v')
	want = append([]byte{byte(0xc0 + len(want))}, want...)
	assert.Equal(want, enc)

	assert.Panics(func() {
		trie.EncodeBranch([]trie.ChildData{{Branch: 3, Ref: inline}, {Branch: 2, Ref: inline}}, nil)
	})
	assert.Panics(func() {
		trie.EncodeBranch([]trie.ChildData{{Branch: 3, Ref: make([]byte, 33)}}, nil)
	})
}
