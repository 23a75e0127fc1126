/*
   UM: main machine instruction fetch and execute.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package machine

import (
	"errors"
	"fmt"

	dec "github.com/rcornwell/UM/emu/decoder"
	dis "github.com/rcornwell/UM/emu/disassemble"
	"github.com/rcornwell/UM/emu/heap"
	"github.com/rcornwell/UM/emu/scroll"
)

/*
   The Universum Machine, as defined for the 2006 ICFP contest. Eight 32
   bit registers, storage as a heap of word arrays, array 0 holds the
   running program. The finger walks array 0 one word at a time; only a
   load instruction moves it anywhere else. Fourteen operations, listed
   in emu/decoder.

   The machine runs cooperatively. Each Step executes one instruction.
   Input with nothing queued rewinds the finger over the instruction and
   returns, so the same input instruction runs again on the next step and
   the caller is free to do other work in between. Output bytes collect
   in a buffer the caller drains.
*/

// Result of one step.
type State int

const (
	Continue State = iota // Machine can be stepped again.
	Halted                // Normal stop.
	Faulted               // Fatal fault, see Fault.
)

// Classes of fatal fault.
type FaultKind int

const (
	FaultNone        FaultKind = iota
	FaultInstruction           // Operation 14 or 15.
	FaultArray                 // Bad identifier or offset, abandon of scroll.
	FaultArithmetic            // Division by zero.
	FaultIO                    // Output value over 255.
)

// End of input sentinel delivered to the program.
const EOF uint32 = 0xffffffff

// Machine state.
type Machine struct {
	reg    [8]uint32  // Register file.
	finger uint32     // Word index into the scroll.
	heap   *heap.Heap // All arrays, slot 0 is the scroll.
	input  []uint32   // Queued input bytes, possibly ending in EOF.
	output []byte     // Output not yet drained.
	state  State
	kind   FaultKind
	fault  error
}

// Create a machine from a program image. Registers and finger start
// at zero.
func New(image []byte) *Machine {
	return &Machine{heap: heap.New(scroll.Decode(image))}
}

// Current finger position.
func (m *Machine) Finger() uint32 {
	return m.finger
}

// Read a register, for tests and the console.
func (m *Machine) Register(n int) uint32 {
	return m.reg[n&7]
}

// Fault class and diagnostic of a faulted machine.
func (m *Machine) Fault() (FaultKind, error) {
	return m.kind, m.fault
}

// Queue input bytes for the program, in order.
func (m *Machine) QueueInput(data []byte) {
	for _, b := range data {
		m.input = append(m.input, uint32(b))
	}
}

// Queue the end of input sentinel. The host sends this exactly once,
// when its input source closes.
func (m *Machine) QueueEOF() {
	m.input = append(m.input, EOF)
}

// Drain the output buffer.
func (m *Machine) TakeOutput() []byte {
	out := m.output
	m.output = nil
	return out
}

// Execute one instruction. A halted or faulted machine stays where
// it is.
func (m *Machine) Step() State {
	if m.state != Continue {
		return m.state
	}

	program := m.heap.Scroll()
	if m.finger >= uint32(len(program)) {
		m.state = Faulted
		m.kind = FaultArray
		m.fault = fmt.Errorf("finger %08x past end of scroll size %d", m.finger, len(program))
		return m.state
	}
	word := program[m.finger]
	m.finger++

	inst := dec.Decode(word)
	switch inst.Op {
	case dec.OpMove:
		if m.reg[inst.C] != 0 {
			m.reg[inst.A] = m.reg[inst.B]
		}

	case dec.OpIndex:
		value, err := m.heap.Index(m.reg[inst.B], m.reg[inst.C])
		if err != nil {
			return m.fail(FaultArray, word, err)
		}
		m.reg[inst.A] = value

	case dec.OpAmend:
		err := m.heap.Amend(m.reg[inst.A], m.reg[inst.B], m.reg[inst.C])
		if err != nil {
			return m.fail(FaultArray, word, err)
		}

	case dec.OpAdd:
		m.reg[inst.A] = m.reg[inst.B] + m.reg[inst.C]

	case dec.OpMul:
		m.reg[inst.A] = m.reg[inst.B] * m.reg[inst.C]

	case dec.OpDiv:
		if m.reg[inst.C] == 0 {
			return m.fail(FaultArithmetic, word, errors.New("division by zero"))
		}
		m.reg[inst.A] = m.reg[inst.B] / m.reg[inst.C]

	case dec.OpNand:
		m.reg[inst.A] = ^(m.reg[inst.B] & m.reg[inst.C])

	case dec.OpHalt:
		m.state = Halted

	case dec.OpAllocate:
		m.reg[inst.B] = m.heap.Allocate(m.reg[inst.C])

	case dec.OpAbandon:
		if err := m.heap.Abandon(m.reg[inst.C]); err != nil {
			return m.fail(FaultArray, word, err)
		}

	case dec.OpOut:
		// Values over 255 are undefined by the machine description.
		// This machine treats them as fatal rather than masking.
		if m.reg[inst.C] > 255 {
			return m.fail(FaultIO, word, fmt.Errorf("output value %d out of range", m.reg[inst.C]))
		}
		m.output = append(m.output, byte(m.reg[inst.C]))

	case dec.OpIn:
		if len(m.input) == 0 {
			// Nothing queued. Rewind so this instruction runs again
			// on the next step.
			m.finger--
			return Continue
		}
		m.reg[inst.C] = m.input[0]
		m.input = m.input[1:]

	case dec.OpLoad:
		if err := m.heap.LoadScroll(m.reg[inst.B]); err != nil {
			return m.fail(FaultArray, word, err)
		}
		m.finger = m.reg[inst.C]

	case dec.OpOrtho:
		m.reg[inst.A] = inst.Value

	default:
		return m.fail(FaultInstruction, word, errors.New("illegal instruction"))
	}
	return m.state
}

var faultNames = map[FaultKind]string{
	FaultInstruction: "instruction fault",
	FaultArray:       "array fault",
	FaultArithmetic:  "arithmetic fault",
	FaultIO:          "I/O fault",
}

// Record a fatal fault with enough detail to debug the program.
func (m *Machine) fail(kind FaultKind, word uint32, err error) State {
	m.state = Faulted
	m.kind = kind
	m.fault = fmt.Errorf("%s at %08x (%s): %w", faultNames[kind], m.finger-1, dis.Disassemble(word), err)
	return m.state
}
