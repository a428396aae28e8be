// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/statecore/thor"

// StorageStatus classifies a storage write by the original, current and new values, as
// defined by EIP-2200. X, Y and Z are distinct non-zero values in the comments.
type StorageStatus uint8

const (
	StorageAssigned         StorageStatus = iota // 0->Y->Z, X->Y->Z, or value unchanged
	StorageAdded                                 // 0->0->Z
	StorageDeleted                               // X->X->0
	StorageModified                              // X->X->Z
	StorageDeletedAdded                          // X->0->Z
	StorageModifiedDeleted                       // X->Y->0
	StorageDeletedRestored                       // X->0->X
	StorageAddedDeleted                          // 0->Y->0
	StorageModifiedRestored                      // X->Y->X
)

func storageStatus(original, current, value thor.Bytes32) StorageStatus {
	if current == value {
		return StorageAssigned
	}

	// clean slot
	if original == current {
		switch {
		case original.IsZero():
			return StorageAdded
		case value.IsZero():
			return StorageDeleted
		default:
			return StorageModified
		}
	}

	// dirty slot
	if !original.IsZero() {
		if current.IsZero() {
			if value == original {
				return StorageDeletedRestored
			}
			return StorageDeletedAdded
		}
		if value.IsZero() {
			return StorageModifiedDeleted
		}
		if value == original {
			return StorageModifiedRestored
		}
		return StorageAssigned
	}
	if value.IsZero() {
		return StorageAddedDeleted
	}
	return StorageAssigned
}

// AccessStatus tells whether an account or slot was already accessed (EIP-2929).
type AccessStatus uint8

const (
	Cold AccessStatus = iota
	Warm
)

// MergeStatus is the outcome of merging a transaction into the block state.
type MergeStatus uint8

const (
	Executing MergeStatus = iota
	MergeableCandidate
	Merged
	Conflicted
)

func (s MergeStatus) String() string {
	switch s {
	case Executing:
		return "executing"
	case MergeableCandidate:
		return "mergeable"
	case Merged:
		return "merged"
	case Conflicted:
		return "conflicted"
	}
	return "unknown"
}
