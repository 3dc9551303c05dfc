// Package vm wraps the execution core (vm/core) with a program loader and
// byte-stream I/O, and drives the fetch-decode-execute loop described in
// SPEC_FULL.md §2. It is grounded on the teacher's dcpu/machine.go, which
// plays the same role for DCPU-16 (binding a core.State to devices and
// driving a step loop) but does so asynchronously, on a clock-rate ticker;
// this Machine instead runs synchronously, per §5 ("strictly single-
// threaded and synchronous").
package vm

import (
	"fmt"

	"github.com/lilyball/synacorvm/vm/core"
)

// flusher is implemented by output sinks that buffer writes. Machine uses
// it to guarantee a byte emitted by out is delivered before the next
// blocking in call (SPEC_FULL.md §5).
type flusher interface {
	Flush() error
}

// Options configures a Machine beyond the ISA's fixed defaults.
type Options struct {
	// MaxStackDepth bounds the guest stack; see SPEC_FULL.md §9.1. Zero
	// selects core.DefaultMaxStackDepth.
	MaxStackDepth int
}

// Machine binds a core.State to an input source and output sink.
type Machine struct {
	State *core.State
	In    core.InputSource
	Out   core.OutputSink
}

// NewMachine constructs a Machine with zeroed state and the given I/O
// streams. It does not load a program; callers load one into State.Mem
// with LoadImage. A nil Options is equivalent to the zero Options.
func NewMachine(in core.InputSource, out core.OutputSink, opts *Options) *Machine {
	s := &core.State{}
	if opts != nil && opts.MaxStackDepth > 0 {
		s.Stack.MaxDepth = opts.MaxStackDepth
	}
	return &Machine{State: s, In: in, Out: out}
}

// Step performs one fetch-decode-execute cycle. It returns false once the
// machine has halted (either this step or a previous one); the caller
// should stop driving the loop when Step returns false. A non-nil error
// indicates the halt (if any) was caused by a fault; a nil error with
// ok=false means the guest executed halt or ret-on-empty-stack cleanly.
func (m *Machine) Step() (ok bool, err error) {
	s := m.State
	if s.IsHalted() {
		return false, nil
	}

	ip := s.IP()
	if int(ip) >= core.MemSize {
		s.Halt()
		return false, &core.SemanticFault{Kind: core.OutOfRange, Detail: "instruction fetch", IP: ip}
	}
	instr, n, err := core.Decode(s.Mem[ip:], ip)
	if err != nil {
		s.Halt()
		return false, err
	}
	s.SetIP(ip + core.Word(n))

	if instr.Op == core.OpIn {
		if f, ok := m.Out.(flusher); ok {
			if ferr := f.Flush(); ferr != nil {
				s.Halt()
				return false, &core.IOFault{Op: "out", Err: ferr, IP: ip}
			}
		}
	}

	if err := core.Execute(s, instr, m.Out, m.In); err != nil {
		stampFaultIP(err, ip)
		s.Halt()
		return false, err
	}
	return !s.IsHalted(), nil
}

// stampFaultIP records the address of the instruction that faulted onto err,
// since State.Halt (called immediately after) overwrites State's own IP with
// the halted sentinel. core.Execute has no way to know this address itself:
// by the time it runs, Step has already applied the pre-advance rule, so
// s.IP() inside core.Execute is the *next* instruction's address, not the
// one that faulted.
func stampFaultIP(err error, ip core.Word) {
	switch f := err.(type) {
	case *core.SemanticFault:
		f.IP = ip
	case *core.IOFault:
		f.IP = ip
	}
}

// Run steps the machine to completion, returning the fault (if any) that
// halted it. A clean halt (halt instruction, or ret from an empty stack)
// returns nil. Run always flushes the output sink before returning, so the
// last partial output byte from a fault is still delivered (SPEC_FULL.md
// §7).
func (m *Machine) Run() error {
	var runErr error
	for {
		ok, err := m.Step()
		if err != nil {
			runErr = err
		}
		if !ok {
			break
		}
	}
	if f, ok := m.Out.(flusher); ok {
		if ferr := f.Flush(); ferr != nil && runErr == nil {
			runErr = fmt.Errorf("flushing output: %w", ferr)
		}
	}
	return runErr
}
