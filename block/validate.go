// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"io"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/statecore/thor"
)

// ComputeOmmersHash returns hash of the encoded ommers list.
func ComputeOmmersHash(ommers []*Header) thor.Bytes32 {
	if len(ommers) == 0 {
		return thor.EmptyListHash
	}
	return thor.Keccak256Fn(func(w io.Writer) {
		rlp.Encode(w, ommers)
	})
}

// ComputeBloom merges blooms of all receipts.
func ComputeBloom(receipts types.Receipts) (bloom types.Bloom) {
	for _, r := range receipts {
		for i := range bloom {
			bloom[i] |= r.Bloom[i]
		}
	}
	return
}

// StaticValidateHeader checks the header alone against rules of the revision.
func StaticValidateHeader(rev thor.Revision, h *Header) error {
	// YP eq. 56, EIP-1985
	if h.GasLimit < thor.MinGasLimit || h.GasLimit > thor.MaxGasLimit {
		return ErrInvalidGasLimit
	}
	if len(h.Extra) > thor.MaxExtraDataSize {
		return ErrExtraDataTooLong
	}

	// EIP-1559
	if err := checkPresence(rev >= thor.London, h.BaseFee != nil); err != nil {
		return err
	}
	// EIP-7685
	if err := checkPresence(rev >= thor.Prague, h.RequestsHash != nil); err != nil {
		return err
	}
	// EIP-4844, EIP-4788
	if rev < thor.Cancun {
		if h.BlobGasUsed != nil || h.ExcessBlobGas != nil || h.ParentBeaconRoot != nil {
			return ErrFieldBeforeFork
		}
	} else if h.BlobGasUsed == nil || h.ExcessBlobGas == nil || h.ParentBeaconRoot == nil {
		return ErrMissingField
	}
	// EIP-4895
	if err := checkPresence(rev >= thor.Shanghai, h.WithdrawalsHash != nil); err != nil {
		return err
	}

	// EIP-3675
	if rev >= thor.Paris {
		if !h.Difficulty.IsZero() {
			return ErrPowBlockAfterMerge
		}
		if h.Nonce != [8]byte{} {
			return ErrInvalidNonce
		}
		if h.OmmersHash != thor.EmptyListHash {
			return ErrWrongOmmersHash
		}
	}
	return nil
}

func checkPresence(activated, present bool) error {
	switch {
	case !activated && present:
		return ErrFieldBeforeFork
	case activated && !present:
		return ErrMissingField
	}
	return nil
}

// StaticValidateBlock checks the header and the body against rules of the revision,
// without any parent or state.
func StaticValidateBlock(rev thor.Revision, b *Block) error {
	if err := StaticValidateHeader(rev, b.Header); err != nil {
		return err
	}

	// EIP-4895
	if err := checkPresence(rev >= thor.Shanghai, b.Withdrawals != nil); err != nil {
		return err
	}
	if err := validateOmmers(rev, b); err != nil {
		return err
	}

	// EIP-4844
	if rev >= thor.Cancun {
		used := b.BlobGasUsed()
		if used > thor.MaxBlobGasPerBlock {
			return ErrGasAboveLimit
		}
		if *b.Header.BlobGasUsed != used {
			return ErrInvalidGasUsed
		}
	}
	return nil
}

func validateOmmers(rev thor.Revision, b *Block) error {
	// YP eq. 33
	if ComputeOmmersHash(b.Ommers) != b.Header.OmmersHash {
		return ErrWrongOmmersHash
	}
	// EIP-3675
	if rev >= thor.Paris && len(b.Ommers) > 0 {
		return ErrTooManyOmmers
	}
	// YP eq. 167
	if len(b.Ommers) > thor.MaxOmmers {
		return ErrTooManyOmmers
	}
	if len(b.Ommers) == 2 && b.Ommers[0].Hash() == b.Ommers[1].Hash() {
		return ErrDuplicateOmmers
	}
	for _, ommer := range b.Ommers {
		if err := StaticValidateHeader(rev, ommer); err != nil {
			return err
		}
	}
	return nil
}
