/*
	   UM Assembler

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
	"errors"
	"fmt"
	"strconv"
	"strings"

	dec "github.com/rcornwell/UM/emu/decoder"
)

/*
   Line oriented assembler for machine programs, mostly in support of
   test cases. One instruction per line, same mnemonics the disassembler
   emits. Operands are registers r0 to r7 or, for ortho, a literal.
   '#' starts a comment. A bare "word VALUE" line deposits a raw word.

       ortho r1, 0x41
       out r1
       halt
*/

// Operand forms.
const (
	opNone  = iota // halt
	opABC          // move, index, amend, add, mul, div, nand
	opBC           // alloc, load
	opC            // aband, out, in
	opOrtho        // ortho
	opWord         // raw word directive
)

type opcode struct {
	opCode int // Operation number.
	opType int // Operand form.
}

var opMap = map[string]opcode{
	"move":  {dec.OpMove, opABC},
	"index": {dec.OpIndex, opABC},
	"amend": {dec.OpAmend, opABC},
	"add":   {dec.OpAdd, opABC},
	"mul":   {dec.OpMul, opABC},
	"div":   {dec.OpDiv, opABC},
	"nand":  {dec.OpNand, opABC},
	"halt":  {dec.OpHalt, opNone},
	"alloc": {dec.OpAllocate, opBC},
	"aband": {dec.OpAbandon, opC},
	"out":   {dec.OpOut, opC},
	"in":    {dec.OpIn, opC},
	"load":  {dec.OpLoad, opBC},
	"ortho": {dec.OpOrtho, opOrtho},
	"word":  {0, opWord},
}

// Assemble a program source into a word image.
func Assemble(src string) ([]uint32, error) {
	var program []uint32
	for num, line := range strings.Split(src, "\n") {
		word, empty, err := assembleLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s", num+1, err.Error())
		}
		if !empty {
			program = append(program, word)
		}
	}
	return program, nil
}

// Assemble one line. Second result reports a blank or comment line.
func assembleLine(line string) (uint32, bool, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, true, nil
	}

	name := line
	rest := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		name = line[:i]
		rest = strings.TrimSpace(line[i:])
	}

	op, ok := opMap[strings.ToLower(name)]
	if !ok {
		return 0, false, errors.New("unknown operation: " + name)
	}

	var operands []string
	if rest != "" {
		operands = strings.Split(rest, ",")
		for i := range operands {
			operands[i] = strings.TrimSpace(operands[i])
		}
	}

	inst := dec.Instruction{Op: op.opCode}
	switch op.opType {
	case opNone:
		if len(operands) != 0 {
			return 0, false, errors.New(name + " takes no operands")
		}

	case opABC:
		if len(operands) != 3 {
			return 0, false, errors.New(name + " takes three registers")
		}
		var err error
		if inst.A, err = parseReg(operands[0]); err != nil {
			return 0, false, err
		}
		if inst.B, err = parseReg(operands[1]); err != nil {
			return 0, false, err
		}
		if inst.C, err = parseReg(operands[2]); err != nil {
			return 0, false, err
		}

	case opBC:
		if len(operands) != 2 {
			return 0, false, errors.New(name + " takes two registers")
		}
		var err error
		if inst.B, err = parseReg(operands[0]); err != nil {
			return 0, false, err
		}
		if inst.C, err = parseReg(operands[1]); err != nil {
			return 0, false, err
		}

	case opC:
		if len(operands) != 1 {
			return 0, false, errors.New(name + " takes one register")
		}
		var err error
		if inst.C, err = parseReg(operands[0]); err != nil {
			return 0, false, err
		}

	case opOrtho:
		if len(operands) != 2 {
			return 0, false, errors.New("ortho takes a register and a value")
		}
		var err error
		if inst.A, err = parseReg(operands[0]); err != nil {
			return 0, false, err
		}
		value, err := parseValue(operands[1])
		if err != nil {
			return 0, false, err
		}
		if value > 0x01ffffff {
			return 0, false, errors.New("ortho value too large: " + operands[1])
		}
		inst.Value = value

	case opWord:
		if len(operands) != 1 {
			return 0, false, errors.New("word takes one value")
		}
		value, err := parseValue(operands[0])
		if err != nil {
			return 0, false, err
		}
		return value, false, nil
	}

	return dec.Encode(inst), false, nil
}

// Parse a register name r0 to r7.
func parseReg(s string) (int, error) {
	if len(s) != 2 || (s[0] != 'r' && s[0] != 'R') || s[1] < '0' || s[1] > '7' {
		return 0, errors.New("bad register: " + s)
	}
	return int(s[1] - '0'), nil
}

// Parse a decimal or 0x hex value.
func parseValue(s string) (uint32, error) {
	value, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, errors.New("bad value: " + s)
	}
	return uint32(value), nil
}
