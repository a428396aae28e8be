// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"bytes"
	"errors"
)

// Nibbles is a sequence of 4-bit values, one per byte.
type Nibbles []byte

const hexChars = "0123456789abcdef"

// KeyToNibbles expands key bytes into nibbles, high nibble first.
func KeyToNibbles(key []byte) Nibbles {
	n := make(Nibbles, len(key)*2)
	for i, b := range key {
		n[i*2] = b >> 4
		n[i*2+1] = b & 0x0f
	}
	return n
}

// ParseNibbles parses a hex string, one nibble per character. An optional 0x prefix is
// accepted.
func ParseNibbles(s string) (Nibbles, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	n := make(Nibbles, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			n[i] = c - '0'
		case c >= 'a' && c <= 'f':
			n[i] = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			n[i] = c - 'A' + 10
		default:
			return nil, errors.New("invalid nibble character")
		}
	}
	return n, nil
}

// MustParseNibbles is ParseNibbles that panics on error.
func MustParseNibbles(s string) Nibbles {
	n, err := ParseNibbles(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Bytes packs nibbles back into bytes. It panics if the length is odd.
func (n Nibbles) Bytes() []byte {
	if len(n)%2 != 0 {
		panic("odd nibbles length")
	}
	b := make([]byte, len(n)/2)
	for i := range b {
		b[i] = n[i*2]<<4 | n[i*2+1]
	}
	return b
}

// HasPrefix reports whether n begins with prefix.
func (n Nibbles) HasPrefix(prefix Nibbles) bool {
	return bytes.HasPrefix(n, prefix)
}

// Compare compares two nibble sequences lexicographically.
func (n Nibbles) Compare(other Nibbles) int {
	return bytes.Compare(n, other)
}

func (n Nibbles) String() string {
	b := make([]byte, len(n))
	for i, v := range n {
		b[i] = hexChars[v&0x0f]
	}
	return "0x" + string(b)
}

// concat returns a fresh sequence a ++ mid ++ b.
func concat(a Nibbles, mid []byte, b Nibbles) Nibbles {
	out := make(Nibbles, 0, len(a)+len(mid)+len(b))
	out = append(out, a...)
	out = append(out, mid...)
	return append(out, b...)
}

func prefixLen(a, b Nibbles) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}
