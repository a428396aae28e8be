// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/vechain/statecore/thor"
)

// Header is the Ethereum block header.
//
// Fields introduced by later revisions are pointers and encoded as trailing optional
// items. A header conforming to its revision has a contiguous set of them present.
type Header struct {
	ParentHash   thor.Bytes32
	OmmersHash   thor.Bytes32
	Beneficiary  thor.Address
	StateRoot    thor.Bytes32
	TxsRoot      thor.Bytes32
	ReceiptsRoot thor.Bytes32
	Bloom        types.Bloom
	Difficulty   uint256.Int
	Number       uint64
	GasLimit     uint64
	GasUsed      uint64
	Time         uint64
	Extra        []byte
	PrevRandao   thor.Bytes32
	Nonce        [8]byte

	// London
	BaseFee *uint256.Int `rlp:"optional"`
	// Shanghai
	WithdrawalsHash *thor.Bytes32 `rlp:"optional"`
	// Cancun
	BlobGasUsed      *uint64       `rlp:"optional"`
	ExcessBlobGas    *uint64       `rlp:"optional"`
	ParentBeaconRoot *thor.Bytes32 `rlp:"optional"`
	// Prague
	RequestsHash *thor.Bytes32 `rlp:"optional"`
}

// Hash returns keccak-256 hash of the encoded header, which is the block id.
func (h *Header) Hash() thor.Bytes32 {
	return thor.Keccak256Fn(func(w io.Writer) {
		rlp.Encode(w, h)
	})
}

// EncodeHeader encodes the header into RLP.
func EncodeHeader(h *Header) ([]byte, error) {
	return rlp.EncodeToBytes(h)
}

// DecodeHeader decodes a header. Trailing bytes are rejected.
func DecodeHeader(data []byte) (*Header, error) {
	var h Header
	if err := rlp.DecodeBytes(data, &h); err != nil {
		return nil, newDecodeError(err)
	}
	if err := h.checkDecoded(); err != nil {
		return nil, err
	}
	return &h, nil
}

func (h *Header) checkDecoded() error {
	if len(h.Extra) > thor.MaxExtraDataSize {
		return newDecodeError(errExtraDataOverflow)
	}
	return nil
}

func (h *Header) String() string {
	optional := func(v any) string {
		switch v := v.(type) {
		case *uint256.Int:
			if v != nil {
				return v.Dec()
			}
		case *uint64:
			if v != nil {
				return fmt.Sprint(*v)
			}
		case *thor.Bytes32:
			if v != nil {
				return v.String()
			}
		}
		return "N/A"
	}

	return fmt.Sprintf(`Header(%v):
	Number:			%v
	ParentHash:		%v
	OmmersHash:		%v
	Beneficiary:	%v
	StateRoot:		%v
	TxsRoot:		%v
	ReceiptsRoot:	%v
	Difficulty:		%v
	GasLimit:		%v
	GasUsed:		%v
	Time:			%v
	Extra:			0x%x
	PrevRandao:		%v
	Nonce:			0x%x
	BaseFee:		%v
	Withdrawals:	%v
	BlobGasUsed:	%v
	ExcessBlobGas:	%v
	BeaconRoot:		%v
	RequestsHash:	%v`, h.Hash(), h.Number, h.ParentHash, h.OmmersHash, h.Beneficiary,
		h.StateRoot, h.TxsRoot, h.ReceiptsRoot, h.Difficulty.Dec(), h.GasLimit, h.GasUsed,
		h.Time, h.Extra, h.PrevRandao, h.Nonce[:], optional(h.BaseFee), optional(h.WithdrawalsHash),
		optional(h.BlobGasUsed), optional(h.ExcessBlobGas), optional(h.ParentBeaconRoot),
		optional(h.RequestsHash))
}
