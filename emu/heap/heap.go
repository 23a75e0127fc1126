/*
 * UM - Array heap.
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

package heap

import (
	"fmt"
)

/*
   All machine storage is a vector of arrays addressed by a small integer
   identifier. Identifier 0 is the scroll, the program being executed.
   Abandoned identifiers go on a stack and are handed out again before the
   vector grows. An identifier on the free stack must never be reachable
   from a running program.
*/

type slot struct {
	data []uint32 // Array contents.
	live bool     // Identifier currently allocated.
}

// Array storage for one machine.
type Heap struct {
	slots []slot
	free  []uint32 // Identifiers available for reuse.
}

// Create a heap with the given program as the scroll.
func New(scroll []uint32) *Heap {
	h := &Heap{}
	h.slots = append(h.slots, slot{data: scroll, live: true})
	return h
}

// Return the scroll, identifier 0.
func (h *Heap) Scroll() []uint32 {
	return h.slots[0].data
}

// Allocate a zero filled array of n words. Returns the new identifier,
// always non zero and never one that is still live.
func (h *Heap) Allocate(n uint32) uint32 {
	if l := len(h.free); l > 0 {
		key := h.free[l-1]
		h.free = h.free[:l-1]
		h.slots[key] = slot{data: make([]uint32, n), live: true}
		return key
	}
	key := uint32(len(h.slots))
	h.slots = append(h.slots, slot{data: make([]uint32, n), live: true})
	return key
}

// Abandon the array with the given identifier and make the identifier
// available for reuse. The scroll can not be abandoned.
func (h *Heap) Abandon(key uint32) error {
	if key == 0 {
		return fmt.Errorf("abandon of scroll array")
	}
	if !h.valid(key) {
		return fmt.Errorf("abandon of dead array %d", key)
	}
	h.slots[key] = slot{}
	h.free = append(h.free, key)
	return nil
}

// Fetch one word from an array.
func (h *Heap) Index(key, offset uint32) (uint32, error) {
	if !h.valid(key) {
		return 0, fmt.Errorf("index of dead array %d", key)
	}
	data := h.slots[key].data
	if offset >= uint32(len(data)) {
		return 0, fmt.Errorf("index %d out of range on array %d size %d", offset, key, len(data))
	}
	return data[offset], nil
}

// Store one word into an array.
func (h *Heap) Amend(key, offset, value uint32) error {
	if !h.valid(key) {
		return fmt.Errorf("amend of dead array %d", key)
	}
	data := h.slots[key].data
	if offset >= uint32(len(data)) {
		return fmt.Errorf("amend %d out of range on array %d size %d", offset, key, len(data))
	}
	data[offset] = value
	return nil
}

// Length of an array.
func (h *Heap) Size(key uint32) (uint32, error) {
	if !h.valid(key) {
		return 0, fmt.Errorf("size of dead array %d", key)
	}
	return uint32(len(h.slots[key].data)), nil
}

// Replace the scroll with a copy of the given array. The source array is
// left untouched. Identifier 0 leaves the scroll alone, the caller only
// moves the finger.
func (h *Heap) LoadScroll(key uint32) error {
	if key == 0 {
		return nil
	}
	if !h.valid(key) {
		return fmt.Errorf("load of dead array %d", key)
	}
	src := h.slots[key].data
	program := make([]uint32, len(src))
	copy(program, src)
	h.slots[0].data = program
	return nil
}

// Check that an identifier names a live array.
func (h *Heap) valid(key uint32) bool {
	return key < uint32(len(h.slots)) && h.slots[key].live
}
