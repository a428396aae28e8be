// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package calltrace records the tree of calls made by a transaction as a flat list of frames.
package calltrace

import (
	"github.com/holiman/uint256"

	"github.com/vechain/statecore/thor"
)

// CallType type of a call frame.
type CallType uint8

// Call types.
const (
	Call CallType = iota
	DelegateCall
	CallCode
	Create
	Create2
	SelfDestruct
)

func (t CallType) String() string {
	switch t {
	case Call:
		return "CALL"
	case DelegateCall:
		return "DELEGATECALL"
	case CallCode:
		return "CALLCODE"
	case Create:
		return "CREATE"
	case Create2:
		return "CREATE2"
	case SelfDestruct:
		return "SELFDESTRUCT"
	}
	return "UNKNOWN"
}

// CallFrame is a single call in pre-order, with Depth describing the tree shape.
type CallFrame struct {
	Type    CallType
	Static  bool
	From    thor.Address
	To      *thor.Address `rlp:"nil"`
	Value   uint256.Int
	Gas     uint64
	GasUsed uint64
	Input   []byte
	Output  []byte
	Status  uint64
	Depth   uint64
}

// Tracer receives call enter and exit events.
type Tracer interface {
	OnEnter(frame CallFrame)
	OnExit(status uint64, gasLeft uint64, output []byte, created *thor.Address)
	OnSelfDestruct(from, beneficiary thor.Address, value *uint256.Int, depth uint64)
	Frames() []CallFrame
}

// Noop is a tracer recording nothing.
type Noop struct{}

var _ Tracer = Noop{}

func (Noop) OnEnter(CallFrame)                                              {}
func (Noop) OnExit(uint64, uint64, []byte, *thor.Address)                   {}
func (Noop) OnSelfDestruct(thor.Address, thor.Address, *uint256.Int, uint64) {}
func (Noop) Frames() []CallFrame                                            { return nil }

// Recorder records every frame.
type Recorder struct {
	frames []CallFrame
	open   []int // indices of frames not yet exited
}

var _ Tracer = (*Recorder)(nil)

// NewRecorder creates a recording tracer.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnEnter(frame CallFrame) {
	frame.Depth = uint64(len(r.open))
	r.open = append(r.open, len(r.frames))
	r.frames = append(r.frames, frame)
}

func (r *Recorder) OnExit(status uint64, gasLeft uint64, output []byte, created *thor.Address) {
	if len(r.open) == 0 {
		panic("calltrace: exit without enter")
	}
	f := &r.frames[r.open[len(r.open)-1]]
	r.open = r.open[:len(r.open)-1]

	f.Status = status
	if f.Gas > gasLeft {
		f.GasUsed = f.Gas - gasLeft
	}
	f.Output = append([]byte(nil), output...)
	if created != nil {
		to := *created
		f.To = &to
	}
}

func (r *Recorder) OnSelfDestruct(from, beneficiary thor.Address, value *uint256.Int, depth uint64) {
	to := beneficiary
	r.frames = append(r.frames, CallFrame{
		Type:  SelfDestruct,
		From:  from,
		To:    &to,
		Value: *value,
		Depth: depth,
	})
}

// Frames returns recorded frames in call order.
func (r *Recorder) Frames() []CallFrame {
	return r.frames
}
