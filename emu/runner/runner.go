/*
 * UM - Embedded runner.
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

package runner

import (
	"log/slog"
	"time"

	"github.com/rcornwell/UM/emu/machine"
)

/*
   Drives a machine in bounded batches on behalf of a host that ticks it
   periodically. The batch size starts at a guess and is recalibrated
   after every full batch so a batch lands in the 80 to 90 millisecond
   band. A batch ends early when the program is stuck on input, detected
   by the finger standing still across a step.
*/

const (
	defaultClock = 100_000 // Starting instructions per batch.
	minClock     = 1000    // Calibration floor.
)

// Status snapshot handed to the host. Output is drained, the bytes
// belong to the caller after the reply.
type Status struct {
	Finger uint32 // Current finger, zero when no machine.
	Halted bool   // No machine loaded, halted, or faulted.
	Cycles uint64 // Instructions executed since boot.
	Clock  uint32 // Current batch size.
	Output []byte // Output collected since the last status.
}

// Embedded runner state.
type Runner struct {
	mach   *machine.Machine
	buffer []byte // Output drained from the machine.
	clock  uint32 // Instructions per batch.
	cycles uint64 // Total since boot.
}

// Create an idle runner.
func New() *Runner {
	return &Runner{clock: defaultClock}
}

// Boot a fresh machine from a program image. A machine already running
// is replaced. Counters reset, pending output is dropped.
func (r *Runner) Boot(image []byte) {
	r.mach = machine.New(image)
	r.buffer = nil
	r.cycles = 0
}

// Queue input bytes for the program, in order.
func (r *Runner) Input(data []byte) {
	if r.mach != nil {
		r.mach.QueueInput(data)
	}
}

// Queue the end of input sentinel.
func (r *Runner) SendEOF() {
	if r.mach != nil {
		r.mach.QueueEOF()
	}
}

// Drop the machine. Queued input goes with it.
func (r *Runner) Shutdown() {
	r.mach = nil
	r.buffer = nil
	r.cycles = 0
}

// True when no machine is loaded or the machine stopped.
func (r *Runner) Halted() bool {
	return r.mach == nil
}

// Snapshot for the host. Drains the output buffer.
func (r *Runner) Status() Status {
	status := Status{
		Halted: r.mach == nil,
		Cycles: r.cycles,
		Clock:  r.clock,
		Output: r.buffer,
	}
	if r.mach != nil {
		status.Finger = r.mach.Finger()
	}
	r.buffer = nil
	return status
}

// Run one batch of up to clock instructions. Called by the host on a
// periodic tick. Returns the number of instructions executed.
func (r *Runner) Tick() int {
	if r.mach == nil {
		return 0
	}

	start := time.Now()
	cycles, full := r.run(int(r.clock))
	r.cycles += uint64(cycles)
	if r.mach != nil {
		r.buffer = append(r.buffer, r.mach.TakeOutput()...)
	}
	if full {
		r.setClock(time.Since(start))
	}
	return cycles
}

// Execute up to iters instructions. Stops early on halt, fault, or a
// finger that failed to advance, meaning an input instruction rewound
// itself because nothing was queued. The second result reports whether
// the full batch ran, only a full batch is a valid calibration sample.
func (r *Runner) run(iters int) (int, bool) {
	cycles := 0
	for range iters {
		before := r.mach.Finger()
		state := r.mach.Step()
		if state != machine.Continue {
			cycles++
			r.stop(state)
			return cycles, false
		}
		if r.mach.Finger() == before {
			// Stuck on input, give control back to the host.
			return cycles, false
		}
		cycles++
	}
	return cycles, true
}

// Drop a stopped machine, keeping its last output.
func (r *Runner) stop(state machine.State) {
	r.buffer = append(r.buffer, r.mach.TakeOutput()...)
	if state == machine.Faulted {
		_, err := r.mach.Fault()
		slog.Error("Machine fault: " + err.Error())
	} else {
		slog.Info("Machine halted")
	}
	r.mach = nil
}

// Recalibrate the batch size toward the target batch duration.
func (r *Runner) setClock(elapsed time.Duration) {
	ms := float64(elapsed) / float64(time.Millisecond)
	if ms > 90.0 || ms < 80.0 {
		clock := uint32(float64(r.clock) * (100.0 / (ms + 10.0)))
		if clock < minClock {
			clock = minClock
		}
		r.clock = clock
	}
}
