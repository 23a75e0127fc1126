/*
 * UM - Master control packets.
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

package master

import (
	"github.com/rcornwell/UM/emu/runner"
)

// Messages frontends send to the machine core. The core goroutine owns
// the runner; everything else talks to it through these packets.
const (
	Boot     = 1 + iota // Boot from the image in Data.
	Input               // Queue Data as program input.
	InputEOF            // Queue the end of input sentinel.
	Status              // Reply with a status snapshot on Reply.
	Start               // Resume ticking a stopped machine.
	Stop                // Stop ticking, machine stays loaded.
	Shutdown            // Drop the machine.
)

// One request to the core.
type Packet struct {
	Msg   int                // Message type.
	Data  []byte             // Boot image or input bytes.
	Reply chan runner.Status // Status reply channel, Status only.
}
