// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/vechain/statecore/calltrace"
	"github.com/vechain/statecore/thor"
)

// CallKind is the kind of a message.
type CallKind uint8

// Call kinds.
const (
	Call CallKind = iota
	DelegateCall
	CallCode
	Create
	Create2
)

func (k CallKind) String() string {
	return k.callType().String()
}

func (k CallKind) callType() calltrace.CallType {
	switch k {
	case DelegateCall:
		return calltrace.DelegateCall
	case CallCode:
		return calltrace.CallCode
	case Create:
		return calltrace.Create
	case Create2:
		return calltrace.Create2
	}
	return calltrace.Call
}

// StatusCode is the outcome of a message execution. A failing status is data, not an error.
type StatusCode uint8

// Status codes.
const (
	Success StatusCode = iota
	Failure
	Revert
	OutOfGas
	InvalidInstruction
	UndefinedInstruction
	StackOverflow
	StackUnderflow
	BadJumpDestination
	InvalidMemoryAccess
	CallDepthExceeded
	StaticModeViolation
	PrecompileFailure
	ContractValidationFailure
	ArgumentOutOfRange
	InsufficientBalance
)

var statusNames = [...]string{
	Success:                   "success",
	Failure:                   "failure",
	Revert:                    "revert",
	OutOfGas:                  "out of gas",
	InvalidInstruction:        "invalid instruction",
	UndefinedInstruction:      "undefined instruction",
	StackOverflow:             "stack overflow",
	StackUnderflow:            "stack underflow",
	BadJumpDestination:        "bad jump destination",
	InvalidMemoryAccess:       "invalid memory access",
	CallDepthExceeded:         "call depth exceeded",
	StaticModeViolation:       "static mode violation",
	PrecompileFailure:         "precompile failure",
	ContractValidationFailure: "contract validation failure",
	ArgumentOutOfRange:        "argument out of range",
	InsufficientBalance:       "insufficient balance",
}

func (s StatusCode) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Message is a call or create request.
type Message struct {
	Kind   CallKind
	Static bool
	Depth  int
	Gas    uint64

	Recipient   thor.Address
	Sender      thor.Address
	Input       []byte
	Value       uint256.Int
	Salt        thor.Bytes32 // CREATE2 only
	CodeAddress thor.Address
}

// Result is the outcome of a message.
type Result struct {
	Status        StatusCode
	GasLeft       uint64
	GasRefund     int64
	Output        []byte
	CreateAddress *thor.Address
}

// CreateAddress returns address of the contract created by sender with nonce (YP eq. 85).
func CreateAddress(sender thor.Address, nonce uint64) thor.Address {
	return thor.Address(crypto.CreateAddress(common.Address(sender), nonce))
}

// Create2Address returns address of the contract created by CREATE2 (EIP-1014).
func Create2Address(sender thor.Address, salt thor.Bytes32, initCode []byte) thor.Address {
	hash := thor.Keccak256(initCode)
	return thor.Address(crypto.CreateAddress2(common.Address(sender), salt, hash[:]))
}
