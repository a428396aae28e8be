// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package trie

// Trie keys are dealt with in two encodings here.
//
// NIBBLES encoding keeps one nibble per byte, what the in-memory trie and traversal use.
//
// COMPACT encoding is defined by the Ethereum Yellow Paper (it's called "hex prefix
// encoding" there) and contains the bytes of the key and a flag. The high nibble of the
// first byte contains the flag; the lowest bit encoding the oddness of the length and
// the second-lowest encoding whether the node at the key is a value node. The low nibble
// of the first byte is zero in the case of an even number of nibbles and the first nibble
// in the case of an odd number.

// CompactEncode hex-prefix encodes a nibble path. terminating marks a leaf.
func CompactEncode(path Nibbles, terminating bool) []byte {
	return appendCompact(nil, path, terminating)
}

func appendCompact(dst []byte, path Nibbles, terminating bool) []byte {
	var flag byte
	if terminating {
		flag = 2
	}
	if len(path)&1 == 1 {
		dst = append(dst, (flag|1)<<4|path[0])
		path = path[1:]
	} else {
		dst = append(dst, flag<<4)
	}
	for i := 0; i < len(path); i += 2 {
		dst = append(dst, path[i]<<4|path[i+1])
	}
	return dst
}

// CompactDecode reverses CompactEncode.
func CompactDecode(compact []byte) (path Nibbles, terminating bool) {
	if len(compact) == 0 {
		return nil, false
	}
	flag := compact[0] >> 4
	terminating = flag&2 != 0
	if flag&1 == 1 {
		path = append(path, compact[0]&0x0f)
	}
	return append(path, KeyToNibbles(compact[1:])...), terminating
}
