/*
 * UM - Configuration file parser test cases.
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

package configparser

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	src := `
# machine setup
program  codex.um
logfile  um.log
port     localhost:2300
script   "guest "
autoboot on
`
	config, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load returned error: %s", err.Error())
	}
	if config.Program != "codex.um" {
		t.Errorf("Program not correct got: %s expected: %s", config.Program, "codex.um")
	}
	if config.LogFile != "um.log" {
		t.Errorf("LogFile not correct got: %s expected: %s", config.LogFile, "um.log")
	}
	if config.Port != "localhost:2300" {
		t.Errorf("Port not correct got: %s expected: %s", config.Port, "localhost:2300")
	}
	if config.Script != "guest " {
		t.Errorf("Script not correct got: %q expected: %q", config.Script, "guest ")
	}
	if !config.AutoBoot {
		t.Errorf("AutoBoot not set")
	}
}

func TestLoadEmpty(t *testing.T) {
	config, err := Load(strings.NewReader("# only a comment\n\n"))
	if err != nil {
		t.Fatalf("Load returned error: %s", err.Error())
	}
	if config.Program != "" || config.Port != "" || config.AutoBoot {
		t.Errorf("Empty config not empty: %+v", config)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []string{
		"program",                // missing value
		"speed fast",             // unknown keyword
		"autoboot maybe",         // bad flag value
		"program \"unterminated", // bad quote
	}
	for _, src := range cases {
		if _, err := Load(strings.NewReader(src)); err == nil {
			t.Errorf("Load of %q did not return error", src)
		}
	}
}

// Comments may trail a value.
func TestLoadTrailingComment(t *testing.T) {
	config, err := Load(strings.NewReader("port :2300 # telnet\n"))
	if err != nil {
		t.Fatalf("Load returned error: %s", err.Error())
	}
	if config.Port != ":2300" {
		t.Errorf("Port not correct got: %s expected: %s", config.Port, ":2300")
	}
}
