// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math"

// Well-known hashes.
var (
	// EmptyCodeHash is keccak256 of empty bytes, the code hash of accounts without code.
	EmptyCodeHash = Keccak256(nil)
	// EmptyListHash is keccak256 of the rlp encoded empty list.
	EmptyListHash = Keccak256([]byte{0xc0})
	// EmptyRoot is the root hash of an empty trie.
	EmptyRoot = Keccak256([]byte{0x80})
)

// RipemdAddress is the address of the RIPEMD-160 precompile. It stays touched even when
// the frame that touched it reverts, matching mainnet behavior of block 2675119.
var RipemdAddress = BytesToAddress([]byte{0x03})

// Constants of block chain.
const (
	MinGasLimit      uint64 = 5000
	MaxGasLimit      uint64 = math.MaxInt64
	MaxExtraDataSize        = 32
	MaxOmmers               = 2

	BlobGasPerBlob     uint64 = 1 << 17
	MaxBlobGasPerBlock uint64 = 6 * BlobGasPerBlob // 786432

	CreateDataGas   uint64 = 200   // per byte of deployed code
	MaxCodeSize            = 24576 // EIP-170
	StackLimit             = 1024
	DefaultCacheMiB        = 256
)
