// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
)

// Bytes32 is a hash, a storage key or a storage value.
type Bytes32 [32]byte

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

// Bytes returns byte slice form of Bytes32.
func (b Bytes32) Bytes() []byte {
	return b[:]
}

// IsZero returns if Bytes32 has all zero bytes. A zero storage value means the slot is
// unset.
func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// MarshalText implements encoding.TextMarshaler.
func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bytes32) UnmarshalText(text []byte) error {
	return decodeFixedHex(string(text), b[:])
}

// ParseBytes32 parses a 64 digits hex string, 0x prefix optional.
func ParseBytes32(s string) (b Bytes32, err error) {
	if err := decodeFixedHex(s, b[:]); err != nil {
		return Bytes32{}, err
	}
	return b, nil
}

// MustParseBytes32 is ParseBytes32 that panics on error.
func MustParseBytes32(s string) Bytes32 {
	b, err := ParseBytes32(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BytesToBytes32 converts b into Bytes32, left padded with zeros. Leading bytes beyond
// 32 are cropped.
func BytesToBytes32(b []byte) Bytes32 {
	return Bytes32(common.BytesToHash(b))
}

// Uint64ToBytes32 returns the big-endian 32-byte form of v.
func Uint64ToBytes32(v uint64) (b Bytes32) {
	binary.BigEndian.PutUint64(b[24:], v)
	return
}
