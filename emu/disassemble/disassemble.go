/*
 * UM - Instruction disassembler.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package disassemble

import (
	"fmt"
	"strings"

	dec "github.com/rcornwell/UM/emu/decoder"
)

// Render one instruction word as text. Used for fault reports and the
// console dis command.
func Disassemble(word uint32) string {
	inst := dec.Decode(word)
	switch inst.Op {
	case dec.OpMove:
		return fmt.Sprintf("move r%d, r%d, r%d", inst.A, inst.B, inst.C)
	case dec.OpIndex:
		return fmt.Sprintf("index r%d, r%d[r%d]", inst.A, inst.B, inst.C)
	case dec.OpAmend:
		return fmt.Sprintf("amend r%d[r%d], r%d", inst.A, inst.B, inst.C)
	case dec.OpAdd:
		return fmt.Sprintf("add r%d, r%d, r%d", inst.A, inst.B, inst.C)
	case dec.OpMul:
		return fmt.Sprintf("mul r%d, r%d, r%d", inst.A, inst.B, inst.C)
	case dec.OpDiv:
		return fmt.Sprintf("div r%d, r%d, r%d", inst.A, inst.B, inst.C)
	case dec.OpNand:
		return fmt.Sprintf("nand r%d, r%d, r%d", inst.A, inst.B, inst.C)
	case dec.OpHalt:
		return "halt"
	case dec.OpAllocate:
		return fmt.Sprintf("alloc r%d, r%d", inst.B, inst.C)
	case dec.OpAbandon:
		return fmt.Sprintf("aband r%d", inst.C)
	case dec.OpOut:
		return fmt.Sprintf("out r%d", inst.C)
	case dec.OpIn:
		return fmt.Sprintf("in r%d", inst.C)
	case dec.OpLoad:
		return fmt.Sprintf("load r%d, r%d", inst.B, inst.C)
	case dec.OpOrtho:
		return fmt.Sprintf("ortho r%d, 0x%x", inst.A, inst.Value)
	}
	return fmt.Sprintf("illegal %08x", word)
}

// Render a range of a program, one line per word, with word offsets.
func DumpProgram(program []uint32, start, count uint32) string {
	var out strings.Builder
	for i := start; i < start+count && i < uint32(len(program)); i++ {
		fmt.Fprintf(&out, "%08x: %08x  %s\n", i, program[i], Disassemble(program[i]))
	}
	return out.String()
}
