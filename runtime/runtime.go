// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"
	"math"

	"github.com/vechain/statecore/calltrace"
	"github.com/vechain/statecore/state"
	"github.com/vechain/statecore/thor"
)

// Host is what the executor sees of the runtime.
type Host interface {
	State() *state.State
	Rules() *thor.Rules
	// Call executes a nested message.
	Call(msg *Message) Result
}

// Executor runs bytecode. It calls back into the host for state access and nested calls.
type Executor interface {
	Execute(rules *thor.Rules, host Host, msg *Message, codeHash thor.Bytes32, code []byte) Result
}

// Precompiles runs precompiled contracts. ok is false if msg.CodeAddress is not a
// precompile under rules.
type Precompiles interface {
	Run(rules *thor.Rules, msg *Message) (result Result, ok bool)
}

// Runtime drives messages of a transaction against its state.
type Runtime struct {
	state       *state.State
	rules       *thor.Rules
	executor    Executor
	precompiles Precompiles
	tracer      calltrace.Tracer
	revert      func() bool
}

var _ Host = (*Runtime)(nil)

// New creates a runtime.
func New(st *state.State, rules *thor.Rules, executor Executor) *Runtime {
	return &Runtime{
		state:    st,
		rules:    rules,
		executor: executor,
		tracer:   calltrace.Noop{},
	}
}

// SetPrecompiles sets precompiled contracts.
// Returns this runtime.
func (rt *Runtime) SetPrecompiles(p Precompiles) *Runtime {
	rt.precompiles = p
	return rt
}

// SetTracer sets the call tracer.
// Returns this runtime.
func (rt *Runtime) SetTracer(t calltrace.Tracer) *Runtime {
	rt.tracer = t
	return rt
}

// SetRevertPredicate sets fn, consulted after the top level message executed. If it
// returns true the outcome is forced to revert.
// Returns this runtime.
func (rt *Runtime) SetRevertPredicate(fn func() bool) *Runtime {
	rt.revert = fn
	return rt
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) Rules() *thor.Rules  { return rt.rules }

func (rt *Runtime) shouldRevert(msg *Message) bool {
	return msg.Depth == 0 && rt.revert != nil && rt.revert()
}

// Call executes msg of any kind.
func (rt *Runtime) Call(msg *Message) Result {
	if msg.Kind == Create || msg.Kind == Create2 {
		return rt.create(msg)
	}
	return rt.call(msg)
}

func (rt *Runtime) enter(msg *Message) {
	var to *thor.Address
	if msg.Kind != Create && msg.Kind != Create2 {
		recipient := msg.Recipient
		to = &recipient
	}
	rt.tracer.OnEnter(calltrace.CallFrame{
		Type:   msg.Kind.callType(),
		Static: msg.Static,
		From:   msg.Sender,
		To:     to,
		Value:  msg.Value,
		Gas:    msg.Gas,
		Input:  msg.Input,
	})
}

func (rt *Runtime) exit(r *Result) {
	rt.tracer.OnExit(uint64(r.Status), r.GasLeft, r.Output, r.CreateAddress)
}

// transfer moves the message value from sender to recipient.
func (rt *Runtime) transfer(msg *Message, to thor.Address) {
	rt.state.SubtractFromBalance(msg.Sender, &msg.Value)
	rt.state.AddToBalance(to, &msg.Value)
}

// preCall opens the call frame and moves value. A non-nil result means the call is
// short circuited.
func (rt *Runtime) preCall(msg *Message) *Result {
	rt.state.Push()

	if msg.Kind != DelegateCall {
		if !rt.state.HasBalance(msg.Sender, &msg.Value) {
			rt.state.PopReject()
			return &Result{Status: InsufficientBalance, GasLeft: msg.Gas}
		}
		if !msg.Static {
			rt.transfer(msg, msg.Recipient)
		}
	}

	if !rt.rules.EIP7702 && msg.Kind == Call && msg.Recipient != msg.CodeAddress {
		panic(fmt.Sprintf("runtime: call to %v with code of %v", msg.Recipient, msg.CodeAddress))
	}

	if msg.Kind == Call && msg.Static {
		// EIP-161
		rt.state.Touch(msg.Recipient)
	}
	return nil
}

// closeFrame accepts the frame on success. Otherwise the frame is rejected, with the
// ripemd precompile kept touched (YP K.1, deletion despite out-of-gas).
func (rt *Runtime) closeFrame(r *Result) {
	if r.Status == Success {
		rt.state.PopAccept()
		return
	}
	ripemdTouched := rt.state.IsTouched(thor.RipemdAddress)
	rt.state.PopReject()
	if ripemdTouched {
		rt.state.Touch(thor.RipemdAddress)
	}
}

func (rt *Runtime) call(msg *Message) Result {
	rt.enter(msg)

	if r := rt.preCall(msg); r != nil {
		rt.exit(r)
		return *r
	}

	var (
		result Result
		ok     bool
	)
	if rt.precompiles != nil {
		result, ok = rt.precompiles.Run(rt.rules, msg)
	}
	if !ok {
		hash := rt.state.GetCodeHash(msg.CodeAddress)
		code := rt.state.GetCode(msg.CodeAddress)
		result = rt.executor.Execute(rt.rules, rt, msg, hash, code)
	}

	if rt.shouldRevert(msg) {
		result.Status = Revert
		result.GasRefund = 0
	}

	if result.Status != Success && result.GasRefund != 0 {
		panic(fmt.Sprintf("runtime: refund %d on %v", result.GasRefund, result.Status))
	}
	if result.Status != Success && result.Status != Revert && result.GasLeft != 0 {
		panic(fmt.Sprintf("runtime: gas left %d on %v", result.GasLeft, result.Status))
	}

	rt.closeFrame(&result)
	rt.exit(&result)
	return result
}

func (rt *Runtime) create(msg *Message) Result {
	rt.enter(msg)

	if !rt.state.HasBalance(msg.Sender, &msg.Value) {
		r := Result{Status: InsufficientBalance, GasLeft: msg.Gas}
		rt.exit(&r)
		return r
	}

	nonce := rt.state.GetNonce(msg.Sender)
	if nonce == math.MaxUint64 {
		r := Result{Status: ArgumentOutOfRange, GasLeft: msg.Gas}
		rt.exit(&r)
		return r
	}
	rt.state.SetNonce(msg.Sender, nonce+1)

	var addr thor.Address
	if msg.Kind == Create {
		addr = CreateAddress(msg.Sender, nonce)
	} else {
		addr = Create2Address(msg.Sender, msg.Salt, msg.Input)
	}

	rt.state.AccessAccount(addr)

	// EIP-684
	if hash := rt.state.GetCodeHash(addr); rt.state.GetNonce(addr) != 0 || (!hash.IsZero() && hash != thor.EmptyCodeHash) {
		r := Result{Status: InvalidInstruction}
		rt.exit(&r)
		return r
	}

	rt.state.Push()

	rt.state.CreateContract(addr)
	rt.state.SetNonce(addr, rt.rules.StartingNonce)
	rt.transfer(msg, addr)

	init := &Message{
		Kind:        Call,
		Depth:       msg.Depth,
		Gas:         msg.Gas,
		Recipient:   addr,
		Sender:      msg.Sender,
		Value:       msg.Value,
		CodeAddress: addr,
	}
	result := rt.executor.Execute(rt.rules, rt, init, thor.Keccak256(msg.Input), msg.Input)

	if result.Status == Success {
		result = rt.deploy(addr, result)
	}

	if rt.shouldRevert(msg) {
		result.Status = Revert
	}

	if result.Status != Success {
		result.GasRefund = 0
		if result.Status != Revert {
			result.GasLeft = 0
		}
	}
	rt.closeFrame(&result)
	rt.exit(&result)
	return result
}

// deploy stores the output of init code as contract code.
func (rt *Runtime) deploy(addr thor.Address, result Result) Result {
	code := result.Output

	// EIP-3541
	if rt.rules.EIP3541 && len(code) > 0 && code[0] == 0xef {
		return Result{Status: ContractValidationFailure}
	}
	// EIP-170
	if rt.rules.EIP170 && len(code) > rt.rules.MaxCodeSize {
		return Result{Status: OutOfGas}
	}

	cost := uint64(len(code)) * rt.rules.CodeDepositCost
	if result.GasLeft < cost {
		if !rt.rules.EIP2 {
			// YP: no code is deposited, but value transfer and side effects take place
			result.CreateAddress = &addr
			rt.state.SetCode(addr, nil)
			return result
		}
		// EIP-2
		result.Status = OutOfGas
		return result
	}

	result.CreateAddress = &addr
	result.GasLeft -= cost
	rt.state.SetCode(addr, code)
	return result
}
