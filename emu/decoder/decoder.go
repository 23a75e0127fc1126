/*
 * UM - Instruction decoder.
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

package decoder

/*
   Every UM instruction is one 32 bit word. The operation number lives in
   the top four bits. Operations 0 to 12 take up to three register operands
   in the low nine bits:

      +----+--------------------------------+---+---+---+
      | op |            unused              | A | B | C |
      +----+--------------------------------+---+---+---+
       31                                     8   5   2  0

   Operation 13 (orthography) names one register in bits 25-27 and carries
   a 25 bit literal in the rest of the word:

      +----+---+-------------------------------------+
      | op | A |              value                  |
      +----+---+-------------------------------------+
       31   27                                        0
*/

// Operation numbers.
const (
	OpMove     = iota // Conditional move
	OpIndex           // Array index
	OpAmend           // Array amendment
	OpAdd             // Addition
	OpMul             // Multiplication
	OpDiv             // Division
	OpNand            // Not-And
	OpHalt            // Stop the machine
	OpAllocate        // Allocate new array
	OpAbandon         // Free an array
	OpOut             // Output one byte
	OpIn              // Input one byte
	OpLoad            // Load program array, jump
	OpOrtho           // Load 25 bit literal

	// Operations 14 and 15 are not defined by the machine.
	OpInvalid = 15
)

const (
	regMask   uint32 = 7
	valueMask uint32 = 0x01ffffff
)

// One decoded instruction.
type Instruction struct {
	Op    int    // Operation number.
	A     int    // Register A.
	B     int    // Register B.
	C     int    // Register C.
	Value uint32 // Orthography literal.
}

// Decode one instruction word. Operations 14 and 15 come back
// with Op set to OpInvalid.
func Decode(word uint32) Instruction {
	op := int(word >> 28)
	switch op {
	case OpOrtho:
		return Instruction{
			Op:    op,
			A:     int((word >> 25) & regMask),
			Value: word & valueMask,
		}
	case 14, 15:
		return Instruction{Op: OpInvalid}
	default:
		return Instruction{
			Op: op,
			A:  int((word >> 6) & regMask),
			B:  int((word >> 3) & regMask),
			C:  int(word & regMask),
		}
	}
}

// Encode an instruction back into a word. Inverse of Decode for all
// valid operations, used by the assembler and by tests.
func Encode(inst Instruction) uint32 {
	word := uint32(inst.Op) << 28
	if inst.Op == OpOrtho {
		word |= uint32(inst.A&7) << 25
		word |= inst.Value & valueMask
		return word
	}
	word |= uint32(inst.A&7) << 6
	word |= uint32(inst.B&7) << 3
	word |= uint32(inst.C & 7)
	return word
}
