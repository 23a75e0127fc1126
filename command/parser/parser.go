/*
 * UM - Console command parser.
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

package parser

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	dis "github.com/rcornwell/UM/emu/disassemble"
	"github.com/rcornwell/UM/emu/master"
	"github.com/rcornwell/UM/emu/runner"
	"github.com/rcornwell/UM/emu/scroll"
	"github.com/rcornwell/UM/util/codex"
)

type command struct {
	minArgs int
	maxArgs int
	help    string
	process func(args []string, mch chan master.Packet) (bool, error)
}

var commands = map[string]command{
	"boot":     {1, 1, "boot FILE           - boot a program image", cmdBoot},
	"input":    {0, -1, "input TEXT          - send a line of input to the machine", cmdInput},
	"eof":      {0, 0, "eof                 - send end of input to the machine", cmdEOF},
	"status":   {0, 0, "status              - show machine status", cmdStatus},
	"stop":     {0, 0, "stop                - pause execution", cmdStop},
	"continue": {0, 0, "continue            - resume execution", cmdContinue},
	"shutdown": {0, 0, "shutdown            - drop the machine", cmdShutdown},
	"dis":      {1, 3, "dis FILE [START [COUNT]] - disassemble an image file", cmdDis},
	"extract":  {1, 2, "extract FILE [URL]  - decrypt the codex into FILE", cmdExtract},
	"quit":     {0, 0, "quit                - stop the emulator", cmdQuit},
}

// Help lists the table, so it joins the table at init time.
func init() {
	commands["help"] = command{0, 0, "help                - this text", cmdHelp}
}

// Run one console command. The first result requests emulator exit.
func ProcessCommand(line string, mch chan master.Packet) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	cmd, ok := commands[name]
	if !ok {
		return false, errors.New("unknown command: " + name)
	}
	if len(args) < cmd.minArgs {
		return false, errors.New(name + ": missing operand")
	}
	if cmd.maxArgs >= 0 && len(args) > cmd.maxArgs {
		return false, errors.New(name + ": too many operands")
	}

	// Input keeps the raw text after the command word.
	if name == "input" {
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		return cmdInput([]string{text}, mch)
	}
	return cmd.process(args, mch)
}

// Complete a partial command name.
func CompleteCmd(line string) []string {
	var matches []string
	for name := range commands {
		if strings.HasPrefix(name, strings.ToLower(line)) {
			matches = append(matches, name)
		}
	}
	return matches
}

func cmdBoot(args []string, mch chan master.Packet) (bool, error) {
	image, err := os.ReadFile(args[0])
	if err != nil {
		return false, err
	}
	mch <- master.Packet{Msg: master.Boot, Data: image}
	return false, nil
}

func cmdInput(args []string, mch chan master.Packet) (bool, error) {
	text := ""
	if len(args) > 0 {
		text = args[0]
	}
	mch <- master.Packet{Msg: master.Input, Data: []byte(text + "\n")}
	return false, nil
}

func cmdEOF(_ []string, mch chan master.Packet) (bool, error) {
	mch <- master.Packet{Msg: master.InputEOF}
	return false, nil
}

func cmdStatus(_ []string, mch chan master.Packet) (bool, error) {
	reply := make(chan runner.Status, 1)
	mch <- master.Packet{Msg: master.Status, Reply: reply}
	status := <-reply
	state := "running"
	if status.Halted {
		state = "halted"
	}
	fmt.Printf("%s finger=%08x cycles=%d clock=%d\n", state, status.Finger, status.Cycles, status.Clock)
	if len(status.Output) > 0 {
		os.Stdout.Write(status.Output)
	}
	return false, nil
}

func cmdStop(_ []string, mch chan master.Packet) (bool, error) {
	mch <- master.Packet{Msg: master.Stop}
	return false, nil
}

func cmdContinue(_ []string, mch chan master.Packet) (bool, error) {
	mch <- master.Packet{Msg: master.Start}
	return false, nil
}

func cmdShutdown(_ []string, mch chan master.Packet) (bool, error) {
	mch <- master.Packet{Msg: master.Shutdown}
	return false, nil
}

func cmdDis(args []string, _ chan master.Packet) (bool, error) {
	image, err := os.ReadFile(args[0])
	if err != nil {
		return false, err
	}
	program := scroll.Decode(image)
	start := uint64(0)
	count := uint64(16)
	if len(args) > 1 {
		if start, err = strconv.ParseUint(args[1], 0, 32); err != nil {
			return false, errors.New("bad start: " + args[1])
		}
	}
	if len(args) > 2 {
		if count, err = strconv.ParseUint(args[2], 0, 32); err != nil {
			return false, errors.New("bad count: " + args[2])
		}
	}
	fmt.Print(dis.DumpProgram(program, uint32(start), uint32(count)))
	return false, nil
}

func cmdExtract(args []string, _ chan master.Packet) (bool, error) {
	url := codex.DefaultURL
	if len(args) > 1 {
		url = args[1]
	}
	fmt.Println("Fetching " + url)
	image, err := codex.Fetch(url)
	if err != nil {
		return false, err
	}
	file, err := os.Create(args[0])
	if err != nil {
		return false, err
	}
	defer file.Close()
	err = codex.Extract(image, codex.DecryptionKey, file, os.Stdout)
	if err != nil {
		return false, err
	}
	fmt.Println("\nDecrypted program written to " + args[0])
	return false, nil
}

func cmdHelp(_ []string, _ chan master.Packet) (bool, error) {
	for _, name := range []string{"boot", "input", "eof", "status", "stop", "continue", "shutdown", "dis", "extract", "help", "quit"} {
		fmt.Println(commands[name].help)
	}
	return false, nil
}

func cmdQuit(_ []string, _ chan master.Packet) (bool, error) {
	return true, nil
}
