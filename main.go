/*
 * UM - Main process.
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

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"
	"golang.org/x/term"

	reader "github.com/rcornwell/UM/command/reader"
	config "github.com/rcornwell/UM/config/configparser"
	core "github.com/rcornwell/UM/emu/core"
	"github.com/rcornwell/UM/emu/master"
	telnet "github.com/rcornwell/UM/telnet"
	"github.com/rcornwell/UM/util/codex"
	logger "github.com/rcornwell/UM/util/logger"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optProgram := getopt.StringLong("program", 'f', "", "Program image to boot")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optPort := getopt.StringLong("port", 'p', "", "Telnet listen address")
	optScript := getopt.StringLong("script", 's', "", "Input line queued before the first instruction")
	optTTY := getopt.BoolLong("tty", 't', "Raw keyboard mode instead of the command console")
	optExtract := getopt.StringLong("extract", 'x', "", "Decrypt the codex into FILE and exit")
	optURL := getopt.StringLong("url", 'u', codex.DefaultURL, "Codex location for --extract")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := &config.Config{}
	if *optConfig != "" {
		var err error
		cfg, err = config.LoadConfigFile(*optConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Configuration: "+err.Error())
			os.Exit(1)
		}
	}

	// Flags override the configuration file.
	if *optProgram != "" {
		cfg.Program = *optProgram
		cfg.AutoBoot = true
	}
	if *optLogFile != "" {
		cfg.LogFile = *optLogFile
	}
	if *optPort != "" {
		cfg.Port = *optPort
	}
	if *optScript != "" {
		cfg.Script = *optScript
	}

	var logWriter io.Writer
	if cfg.LogFile != "" {
		if file, err := os.Create(cfg.LogFile); err == nil {
			logWriter = file
		}
	}
	Logger = slog.New(logger.NewHandler(logWriter, slog.LevelDebug))
	slog.SetDefault(Logger)
	Logger.Info("UM started")

	if *optExtract != "" {
		runExtract(*optExtract, *optURL)
		return
	}

	masterChannel := make(chan master.Packet)

	// Start telnet server if requested.
	var tn *telnet.Server
	if cfg.Port != "" {
		var err error
		tn, err = telnet.Start(cfg.Port, masterChannel)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	// Machine output goes to our stdout and to the telnet session.
	sink := func(data []byte) {
		_, _ = os.Stdout.Write(data)
		if tn != nil {
			tn.Write(data)
		}
	}

	// Create new routine to run the machine.
	um := core.NewUM(masterChannel, sink)
	go um.Start()

	if cfg.AutoBoot && cfg.Program != "" {
		image, err := os.ReadFile(cfg.Program)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		masterChannel <- master.Packet{Msg: master.Boot, Data: image}
		if cfg.Script != "" {
			masterChannel <- master.Packet{Msg: master.Input, Data: []byte(cfg.Script + "\n")}
		}
	}

	if *optTTY {
		runTTY(masterChannel)
	} else {
		reader.ConsoleReader(masterChannel)
	}

	Logger.Info("Shutting down machine")
	um.Stop()
	if tn != nil {
		Logger.Info("Shutting down server...")
		tn.Stop()
	}
	Logger.Info("Stopped.")
}

// Decrypt the codex and write the embedded program to a file.
func runExtract(name, url string) {
	fmt.Println("Fetching " + url)
	image, err := codex.Fetch(url)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	file, err := os.Create(name)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	defer file.Close()
	if err := codex.Extract(image, codex.DecryptionKey, file, os.Stdout); err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	fmt.Println("\nDecrypted program written to " + name)
}

// Feed raw keystrokes straight to the machine. Ctrl-] leaves, closing
// stdin sends the machine end of input.
func runTTY(mch chan master.Packet) {
	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		Logger.Error("No raw terminal: " + err.Error())
		return
	}
	defer func() { _ = term.Restore(int(os.Stdin.Fd()), state) }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 256)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				mch <- master.Packet{Msg: master.InputEOF}
				return
			}
			data := make([]byte, 0, n)
			for _, b := range buf[:n] {
				if b == 0x1d { // Ctrl-]
					if len(data) > 0 {
						mch <- master.Packet{Msg: master.Input, Data: data}
					}
					return
				}
				data = append(data, b)
			}
			if len(data) > 0 {
				mch <- master.Packet{Msg: master.Input, Data: data}
			}
		}
	}()

	select {
	case <-sigChan:
	case <-done:
	}
}
