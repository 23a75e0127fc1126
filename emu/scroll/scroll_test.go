/*
 * UM - Program image codec test cases.
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

package scroll

import (
	"bytes"
	"testing"
)

// Words come out big endian in file order.
func TestRead(t *testing.T) {
	image := []byte{0x70, 0x00, 0x00, 0x00, 0xd2, 0x00, 0x00, 0x41}
	program, err := Read(bytes.NewReader(image))
	if err != nil {
		t.Errorf("Read returned error: %s", err.Error())
	}
	if len(program) != 2 {
		t.Errorf("Read length not correct got: %d expected: %d", len(program), 2)
	}
	if program[0] != 0x70000000 {
		t.Errorf("Read word 0 not correct got: %08x expected: %08x", program[0], 0x70000000)
	}
	if program[1] != 0xd2000041 {
		t.Errorf("Read word 1 not correct got: %08x expected: %08x", program[1], 0xd2000041)
	}
}

// A short tail is dropped without error.
func TestReadShortTail(t *testing.T) {
	for extra := 1; extra < 4; extra++ {
		image := []byte{0x00, 0x00, 0x00, 0x07}
		for range extra {
			image = append(image, 0xff)
		}
		program, err := Read(bytes.NewReader(image))
		if err != nil {
			t.Errorf("Read returned error: %s", err.Error())
		}
		if len(program) != 1 {
			t.Errorf("Read length not correct got: %d expected: %d", len(program), 1)
		}
		if program[0] != 7 {
			t.Errorf("Read word not correct got: %08x expected: %08x", program[0], 7)
		}
	}
}

// Empty input gives an empty program.
func TestReadEmpty(t *testing.T) {
	program, err := Read(bytes.NewReader(nil))
	if err != nil {
		t.Errorf("Read returned error: %s", err.Error())
	}
	if len(program) != 0 {
		t.Errorf("Read length not correct got: %d expected: %d", len(program), 0)
	}
}

// Decode matches Read on the same bytes.
func TestDecode(t *testing.T) {
	image := []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x01}
	fromRead, _ := Read(bytes.NewReader(image))
	fromDecode := Decode(image)
	if len(fromRead) != len(fromDecode) {
		t.Errorf("Decode length not correct got: %d expected: %d", len(fromDecode), len(fromRead))
	}
	for i := range fromRead {
		if fromRead[i] != fromDecode[i] {
			t.Errorf("Decode word %d not correct got: %08x expected: %08x", i, fromDecode[i], fromRead[i])
		}
	}
}

// Decoding then writing a word aligned stream gives the bytes back.
func TestRoundTrip(t *testing.T) {
	image := []byte{
		0x00, 0x01, 0x02, 0x03,
		0xff, 0xfe, 0xfd, 0xfc,
		0xd2, 0x00, 0x00, 0x41,
		0x70, 0x00, 0x00, 0x00,
	}
	program := Decode(image)
	var out bytes.Buffer
	if err := Write(&out, program); err != nil {
		t.Errorf("Write returned error: %s", err.Error())
	}
	if !bytes.Equal(out.Bytes(), image) {
		t.Errorf("Round trip not correct got: %x expected: %x", out.Bytes(), image)
	}
}
