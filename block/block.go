// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// Block is a header with its body.
//
// Withdrawals is nil for blocks before Shanghai, and encoded as a trailing list only
// when non-nil.
type Block struct {
	Header       *Header
	Transactions types.Transactions
	Ommers       []*Header
	Withdrawals  types.Withdrawals `rlp:"optional"`
}

// EncodeBlock encodes the block into RLP.
func EncodeBlock(b *Block) ([]byte, error) {
	return rlp.EncodeToBytes(b)
}

// DecodeBlock decodes a block. Trailing bytes are rejected.
func DecodeBlock(data []byte) (*Block, error) {
	var b Block
	if err := rlp.DecodeBytes(data, &b); err != nil {
		return nil, newDecodeError(err)
	}
	if err := b.Header.checkDecoded(); err != nil {
		return nil, err
	}
	for _, ommer := range b.Ommers {
		if err := ommer.checkDecoded(); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

// BlobGasUsed sums blob gas of blob transactions.
func (b *Block) BlobGasUsed() uint64 {
	var used uint64
	for _, tx := range b.Transactions {
		if tx.Type() == types.BlobTxType {
			used += tx.BlobGas()
		}
	}
	return used
}
