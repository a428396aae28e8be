// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/statecore/thor"
)

const (
	// MaxPathNibbles is the longest path a node can carry.
	MaxPathNibbles = 64
	// hashLen is the length of a hashed node reference.
	hashLen = 32
)

// ChildData is an encoded child of a branch node.
type ChildData struct {
	Branch byte
	Ref    []byte
}

type encoder struct {
	buf rlp.EncoderBuffer
	tmp []byte
}

// encoders live in a global pool.
var encoderPool = sync.Pool{
	New: func() any {
		return &encoder{
			buf: rlp.NewEncoderBuffer(nil),
			tmp: make([]byte, 0, 550), // cap is as large as a full branch.
		}
	},
}

func newEncoder() *encoder {
	return encoderPool.Get().(*encoder)
}

func (e *encoder) release() {
	encoderPool.Put(e)
}

// bytes returns a copy of the encoded content and resets the buffer.
func (e *encoder) bytes() []byte {
	e.tmp = e.buf.AppendToBytes(e.tmp[:0])
	e.buf.Reset(nil)
	return append([]byte(nil), e.tmp...)
}

// writePiece writes an already encoded item verbatim if it is short enough to be inlined,
// otherwise wraps it as a string.
func (e *encoder) writePiece(b []byte, wrap bool) {
	if wrap || len(b) >= hashLen {
		e.buf.WriteBytes(b)
	} else {
		e.buf.Write(b)
	}
}

func (e *encoder) twoPieces(path Nibbles, second []byte, hasValue bool) []byte {
	if len(path) > MaxPathNibbles {
		panic(fmt.Sprintf("node path too long: %d nibbles", len(path)))
	}
	e.tmp = appendCompact(e.tmp[:0], path, hasValue)

	idx := e.buf.List()
	e.buf.WriteBytes(e.tmp)
	e.writePiece(second, hasValue)
	e.buf.ListEnd(idx)
	return e.bytes()
}

func (e *encoder) branch(children []ChildData, value []byte) []byte {
	idx := e.buf.List()
	next := 0
	for _, c := range children {
		if int(c.Branch) < next || c.Branch > 15 {
			panic(fmt.Sprintf("branch %d out of order", c.Branch))
		}
		if len(c.Ref) == 0 || len(c.Ref) > hashLen {
			panic(fmt.Sprintf("invalid child reference length %d", len(c.Ref)))
		}
		for ; next < int(c.Branch); next++ {
			e.buf.Write(emptyString)
		}
		e.writePiece(c.Ref, false)
		next++
	}
	for ; next < 16; next++ {
		e.buf.Write(emptyString)
	}
	e.buf.WriteBytes(value)
	e.buf.ListEnd(idx)
	return e.bytes()
}

var emptyString = []byte{0x80}

// EncodeTwoPieces encodes a leaf (hasValue) or an extension node as the list
// [compact(path), second] and returns its node reference. The second piece is wrapped as a
// string when it is a value or a hashed reference, and embedded verbatim when it is an
// inline node.
func EncodeTwoPieces(path Nibbles, second []byte, hasValue bool) []byte {
	e := newEncoder()
	defer e.release()
	return ToNodeRef(e.twoPieces(path, second, hasValue))
}

// EncodeBranch returns the rlp encoding of a 17 items branch node. Children must be sorted by
// branch; absent slots are encoded as the empty string.
func EncodeBranch(children []ChildData, value []byte) []byte {
	e := newEncoder()
	defer e.release()
	return e.branch(children, value)
}

// ToNodeRef returns enc itself if shorter than 32 bytes, or its keccak256 hash.
func ToNodeRef(enc []byte) []byte {
	if len(enc) < hashLen {
		return enc
	}
	h := thor.Keccak256(enc)
	return h[:]
}

// IsInline reports whether a node reference embeds the node itself.
func IsInline(ref []byte) bool {
	return len(ref) < hashLen
}
