/*
   Core UM emulator loop.

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

package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/UM/emu/master"
	"github.com/rcornwell/UM/emu/runner"
)

// Interval between runner batches.
const tickInterval = 100 * time.Millisecond

// Core owns the runner and runs it on one goroutine. Frontends send
// packets over the master channel; output drains to the sink between
// batches, on the core goroutine.
type Core struct {
	wg      sync.WaitGroup
	done    chan struct{} // Signal to shut down the emulator.
	running bool          // Ticks execute batches when set.
	master  chan master.Packet
	run     *runner.Runner
	sink    func([]byte) // Consumer of machine output, may be nil.
}

// Create the machine core. The sink receives output bytes in order as
// they drain; a nil sink leaves output for status replies instead.
func NewUM(master chan master.Packet, sink func([]byte)) *Core {
	return &Core{
		master: master,
		sink:   sink,
		done:   make(chan struct{}),
		run:    runner.New(),
	}
}

// Run the machine. Blocks until Stop, normally started on its own
// goroutine.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	tick := time.NewTicker(tickInterval)
	defer tick.Stop()
	for {
		select {
		case <-core.done:
			core.run.Shutdown()
			slog.Info("Shutdown machine core")
			return
		case packet := <-core.master:
			core.processPacket(packet)
		case <-tick.C:
			if !core.running {
				continue
			}
			core.run.Tick()
			core.drain()
			if core.run.Halted() {
				core.running = false
			}
		}
	}
}

// Stop a running core.
func (core *Core) Stop() {
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for machine to finish.")
		return
	}
}

// Hand buffered machine output to the sink.
func (core *Core) drain() {
	if core.sink == nil {
		return
	}
	status := core.run.Status()
	if len(status.Output) > 0 {
		core.sink(status.Output)
	}
}

// Process a packet sent to the emulator.
func (core *Core) processPacket(packet master.Packet) {
	switch packet.Msg {
	case master.Boot:
		core.run.Boot(packet.Data)
		core.running = true
		slog.Info("Booted machine", slog.Int("image", len(packet.Data)))
	case master.Input:
		core.run.Input(packet.Data)
	case master.InputEOF:
		core.run.SendEOF()
	case master.Status:
		core.drain()
		packet.Reply <- core.run.Status()
	case master.Start:
		if !core.run.Halted() {
			core.running = true
		}
	case master.Stop:
		core.running = false
	case master.Shutdown:
		core.run.Shutdown()
		core.running = false
	}
}
