/*
	   UM Assembler test cases

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
package assembler

import (
	"testing"

	dis "github.com/rcornwell/UM/emu/disassemble"
)

func check(t *testing.T, src string, expect []uint32) {
	t.Helper()
	program, err := Assemble(src)
	if err != nil {
		t.Errorf("Assemble returned error: %s", err.Error())
		return
	}
	if len(program) != len(expect) {
		t.Errorf("Assemble length not correct got: %d expected: %d", len(program), len(expect))
		return
	}
	for i := range expect {
		if program[i] != expect[i] {
			t.Errorf("Assemble word %d not correct got: %08x expected: %08x", i, program[i], expect[i])
		}
	}
}

// Exact words for the output sample program.
func TestAssembleOutput(t *testing.T) {
	src := `
# write 'A' and stop
ortho r1, 0x41
ortho r0, 0x41
out r0
halt
`
	check(t, src, []uint32{0xd2000041, 0xd0000041, 0xa0000000, 0x70000000})
}

// Echo one byte.
func TestAssembleEcho(t *testing.T) {
	src := `
in r0
out r0
halt
`
	check(t, src, []uint32{0xb0000000, 0xa0000000, 0x70000000})
}

// Three register and two register forms.
func TestAssembleForms(t *testing.T) {
	check(t, "add r7, r6, r0", []uint32{0x300001f0})
	check(t, "move r1, r2, r3", []uint32{0x00000053})

	program, err := Assemble("index r1, r2, r3\namend r4, r5, r6\nalloc r1, r2\nload r0, r3\naband r5\nin r6\nout r7")
	if err != nil {
		t.Errorf("Assemble returned error: %s", err.Error())
	}
	expect := []uint32{0x10000053, 0x2000012e, 0x8000000a, 0xc0000003, 0x90000005, 0xb0000006, 0xa0000007}
	for i := range expect {
		if program[i] != expect[i] {
			t.Errorf("Assemble word %d not correct got: %08x expected: %08x", i, program[i], expect[i])
		}
	}
}

// Raw word directive and comments.
func TestAssembleWord(t *testing.T) {
	check(t, "word 0xdeadbeef # raw", []uint32{0xdeadbeef})
	check(t, "word 16", []uint32{16})
}

// Each form other than index and amend, which disassemble with bracket
// syntax, disassembles back to its own source line.
func TestAssembleDisassemble(t *testing.T) {
	lines := []string{
		"move r1, r2, r3",
		"add r4, r5, r6",
		"nand r7, r0, r1",
		"alloc r2, r3",
		"aband r4",
		"out r5",
		"in r6",
		"load r7, r0",
		"ortho r3, 0x1234",
		"halt",
	}
	for _, line := range lines {
		program, err := Assemble(line)
		if err != nil {
			t.Errorf("Assemble returned error: %s", err.Error())
			continue
		}
		got := dis.Disassemble(program[0])
		if got != line {
			t.Errorf("Disassemble not correct got: %s expected: %s", got, line)
		}
	}
}

// Bad input reports errors with line numbers.
func TestAssembleErrors(t *testing.T) {
	if _, err := Assemble("frob r1, r2"); err == nil {
		t.Errorf("Unknown operation did not return error")
	}
	if _, err := Assemble("add r1, r2"); err == nil {
		t.Errorf("Missing operand did not return error")
	}
	if _, err := Assemble("out r9"); err == nil {
		t.Errorf("Bad register did not return error")
	}
	if _, err := Assemble("ortho r1, 0x2000000"); err == nil {
		t.Errorf("Oversize literal did not return error")
	}
	if _, err := Assemble("halt\nhalt\nbad"); err == nil {
		t.Errorf("Bad line did not return error")
	}
}
