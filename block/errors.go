// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"errors"
	"fmt"
)

var errExtraDataOverflow = errors.New("extra data overflow")

// DecodeError is returned when the input is not a well formed block or header.
type DecodeError struct {
	cause error
}

func newDecodeError(cause error) *DecodeError {
	return &DecodeError{cause}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("block decode: %v", e.cause)
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// Error is a static validation failure.
type Error uint8

// Static validation errors.
const (
	ErrGasAboveLimit Error = iota + 1
	ErrInvalidGasLimit
	ErrExtraDataTooLong
	ErrWrongOmmersHash
	ErrFieldBeforeFork
	ErrMissingField
	ErrPowBlockAfterMerge
	ErrInvalidNonce
	ErrTooManyOmmers
	ErrDuplicateOmmers
	ErrInvalidGasUsed
)

var errorNames = [...]string{
	ErrGasAboveLimit:      "gas above limit",
	ErrInvalidGasLimit:    "invalid gas limit",
	ErrExtraDataTooLong:   "extra data too long",
	ErrWrongOmmersHash:    "wrong ommers hash",
	ErrFieldBeforeFork:    "field before fork",
	ErrMissingField:       "missing field",
	ErrPowBlockAfterMerge: "pow block after merge",
	ErrInvalidNonce:       "invalid nonce",
	ErrTooManyOmmers:      "too many ommers",
	ErrDuplicateOmmers:    "duplicate ommers",
	ErrInvalidGasUsed:     "invalid gas used",
}

func (e Error) Error() string {
	if int(e) < len(errorNames) && errorNames[e] != "" {
		return "block: " + errorNames[e]
	}
	return fmt.Sprintf("block: error(%d)", uint8(e))
}
