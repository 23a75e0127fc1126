/*
 * UM - Instruction decoder test cases.
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

import (
	"testing"
)

// Check field extraction for the standard three register form.
func TestDecodeStandard(t *testing.T) {
	// Add with A=7, B=6, C=0.
	inst := Decode(0x300001f0)
	if inst.Op != OpAdd {
		t.Errorf("Decode op not correct got: %d expected: %d", inst.Op, OpAdd)
	}
	if inst.A != 7 || inst.B != 6 || inst.C != 0 {
		t.Errorf("Decode registers not correct got: %d %d %d expected: 7 6 0", inst.A, inst.B, inst.C)
	}

	// Every register combination for conditional move.
	for a := range 8 {
		for b := range 8 {
			for c := range 8 {
				word := uint32(a<<6) | uint32(b<<3) | uint32(c)
				inst = Decode(word)
				if inst.Op != OpMove {
					t.Errorf("Decode op not correct got: %d expected: %d", inst.Op, OpMove)
				}
				if inst.A != a || inst.B != b || inst.C != c {
					t.Errorf("Decode registers not correct got: %d %d %d expected: %d %d %d",
						inst.A, inst.B, inst.C, a, b, c)
				}
			}
		}
	}
}

// Check field extraction for orthography.
func TestDecodeOrtho(t *testing.T) {
	inst := Decode(0xd2000041)
	if inst.Op != OpOrtho {
		t.Errorf("Decode op not correct got: %d expected: %d", inst.Op, OpOrtho)
	}
	if inst.A != 1 {
		t.Errorf("Decode register not correct got: %d expected: %d", inst.A, 1)
	}
	if inst.Value != 0x41 {
		t.Errorf("Decode value not correct got: %08x expected: %08x", inst.Value, 0x41)
	}

	// Largest literal into register 7.
	inst = Decode(0xdfffffff)
	if inst.A != 7 {
		t.Errorf("Decode register not correct got: %d expected: %d", inst.A, 7)
	}
	if inst.Value != 0x01ffffff {
		t.Errorf("Decode value not correct got: %08x expected: %08x", inst.Value, 0x01ffffff)
	}
}

// Operations 14 and 15 decode as invalid.
func TestDecodeInvalid(t *testing.T) {
	for _, word := range []uint32{0xe0000000, 0xf0000000, 0xeffffff1, 0xffffffff} {
		inst := Decode(word)
		if inst.Op != OpInvalid {
			t.Errorf("Decode of %08x not invalid got: %d", word, inst.Op)
		}
	}
}

// Round trip every valid operation over all operand combinations.
func TestEncodeRoundTrip(t *testing.T) {
	for op := OpMove; op <= OpLoad; op++ {
		for a := range 8 {
			for b := range 8 {
				for c := range 8 {
					inst := Instruction{Op: op, A: a, B: b, C: c}
					got := Decode(Encode(inst))
					if got != inst {
						t.Errorf("Round trip not correct got: %v expected: %v", got, inst)
					}
				}
			}
		}
	}

	for a := range 8 {
		for _, v := range []uint32{0, 1, 0x41, 0x1000, 0x01ffffff} {
			inst := Instruction{Op: OpOrtho, A: a, Value: v}
			got := Decode(Encode(inst))
			if got != inst {
				t.Errorf("Round trip not correct got: %v expected: %v", got, inst)
			}
		}
	}
}
