/*
 * UM - Codex decrypter.
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

package codex

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rcornwell/UM/emu/machine"
)

/*
   The contest codex is an encrypted program image. Run with the
   published key on its input, it prints a banner and then the marker
   line below, after which every output byte is the decrypted program.
   Extract watches the output stream for the marker and diverts the
   rest into the caller's writer.
*/

// Published location and SHA1 of the codex image.
const (
	DefaultURL = "http://www.boundvariable.org/codex.umz"
	codexHash  = "088ac79d311db02d9823def598e48f2f8723e98a"
)

// Published decryption key. Extract follows it with a "p" line, which
// answers the dump prompt the codex prints after accepting the key.
const DecryptionKey = `(\b.bb)(\v.vv)06FHPVboundvarHRAk`

// Output preceding the decrypted program.
var marker = []byte("UM program follows colon:")

// How many machine steps run between output drains.
const drainInterval = 1 << 16

// Fetch the codex. The published image is verified against its known
// SHA1; other URLs are taken as is.
func Fetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("fetch failed: " + resp.Status)
	}
	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if url == DefaultURL {
		sum := sha1.Sum(image)
		if hex.EncodeToString(sum[:]) != codexHash {
			return nil, errors.New("codex hash mismatch")
		}
	}
	return image, nil
}

// Run the codex image with the decryption key and write the decrypted
// program to out. Output before the marker, the codex banner, goes to
// echo. Returns once the machine halts.
func Extract(image []byte, key string, out, echo io.Writer) error {
	m := machine.New(image)
	m.QueueInput([]byte(key))
	m.QueueInput([]byte{'\n', 'p', '\n'})

	w := &exportWriter{out: out, echo: echo}
	steps := 0
	for {
		before := m.Finger()
		state := m.Step()
		steps++
		if steps%drainInterval == 0 {
			if err := w.push(m.TakeOutput()); err != nil {
				return err
			}
		}
		switch state {
		case machine.Continue:
			if m.Finger() == before {
				return errors.New("codex stalled waiting for input")
			}
		case machine.Halted:
			if err := w.push(m.TakeOutput()); err != nil {
				return err
			}
			if !w.exporting {
				return errors.New("codex halted before the export marker")
			}
			return nil
		case machine.Faulted:
			_ = w.push(m.TakeOutput())
			_, err := m.Fault()
			return fmt.Errorf("codex fault: %w", err)
		}
	}
}

// Splits the output stream at the export marker. Bytes before and
// including the marker echo, bytes after it export.
type exportWriter struct {
	out       io.Writer
	echo      io.Writer
	window    []byte // Tail kept to match a marker split across pushes.
	exporting bool
}

func (w *exportWriter) push(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if w.exporting {
		_, err := w.out.Write(data)
		return err
	}

	buf := append(w.window, data...)
	if i := bytes.Index(buf, marker); i >= 0 {
		split := i + len(marker)
		if _, err := w.echo.Write(buf[len(w.window):split]); err != nil {
			return err
		}
		w.exporting = true
		w.window = nil
		if split < len(buf) {
			_, err := w.out.Write(buf[split:])
			return err
		}
		return nil
	}

	if _, err := w.echo.Write(data); err != nil {
		return err
	}
	keep := len(marker) - 1
	if len(buf) < keep {
		keep = len(buf)
	}
	w.window = append([]byte(nil), buf[len(buf)-keep:]...)
	return nil
}
