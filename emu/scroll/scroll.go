/*
 * UM - Program image codec.
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
	"encoding/binary"
	"io"
)

// A program image is a headerless stream of big endian 32 bit words.
// Read collects the whole stream into a word slice. A short tail of
// fewer than four bytes ends the image and is dropped.
func Read(r io.Reader) ([]uint32, error) {
	var program []uint32
	var word [4]byte
	for {
		_, err := io.ReadFull(r, word[:])
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return program, nil
			}
			return program, err
		}
		program = append(program, binary.BigEndian.Uint32(word[:]))
	}
}

// Decode an in memory image.
func Decode(image []byte) []uint32 {
	program := make([]uint32, 0, len(image)/4)
	for len(image) >= 4 {
		program = append(program, binary.BigEndian.Uint32(image))
		image = image[4:]
	}
	return program
}

// Write a word sequence back out as a big endian byte stream.
func Write(w io.Writer, program []uint32) error {
	var word [4]byte
	for _, v := range program {
		binary.BigEndian.PutUint32(word[:], v)
		if _, err := w.Write(word[:]); err != nil {
			return err
		}
	}
	return nil
}
