/*
 * UM - Configuration file parser.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <keyword> <whitespace> <value>
 * <value> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 *
 * Keywords:
 *   program   path of program image to boot
 *   logfile   path of log file
 *   port      telnet listen address
 *   script    text queued as machine input before the first instruction
 *   autoboot  on | off, boot the program at startup
 */

// Emulator settings read from a configuration file. Flags on the
// command line override these.
type Config struct {
	Program  string // Program image to boot.
	LogFile  string // Log file.
	Port     string // Telnet listen address, empty disables.
	Script   string // Input queued before the first instruction.
	AutoBoot bool   // Boot the program at startup.
}

// Read a configuration file.
func LoadConfigFile(name string) (*Config, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(file)
}

// Parse a configuration from a reader.
func Load(r io.Reader) (*Config, error) {
	config := &Config{}
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		keyword, value, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %s", lineNumber, err.Error())
		}
		if keyword == "" {
			continue
		}
		switch keyword {
		case "program":
			config.Program = value
		case "logfile":
			config.LogFile = value
		case "port":
			config.Port = value
		case "script":
			config.Script = value
		case "autoboot":
			switch strings.ToLower(value) {
			case "on", "yes", "true":
				config.AutoBoot = true
			case "off", "no", "false":
				config.AutoBoot = false
			default:
				return nil, fmt.Errorf("line %d: bad autoboot value: %s", lineNumber, value)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown keyword: %s", lineNumber, keyword)
		}
	}
	return config, scanner.Err()
}

// Split one line into keyword and value. Blank or comment lines come
// back with an empty keyword.
func parseLine(line string) (string, string, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", nil
	}

	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return "", "", fmt.Errorf("keyword without value: %s", line)
	}
	keyword := strings.ToLower(line[:i])
	value := strings.TrimSpace(line[i:])

	if strings.HasPrefix(value, "\"") {
		if len(value) < 2 || !strings.HasSuffix(value, "\"") {
			return "", "", fmt.Errorf("unterminated quote: %s", value)
		}
		value = value[1 : len(value)-1]
	}
	if value == "" {
		return "", "", fmt.Errorf("keyword without value: %s", keyword)
	}
	return keyword, value, nil
}
