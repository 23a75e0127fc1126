/*
 * UM - telnet server.
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

package telnet

import (
	"log/slog"
	"net"
	"sync"

	"github.com/rcornwell/UM/emu/master"
)

// Telnet protocol constants.

const (
	tnIAC  byte = 255 // protocol delim
	tnDONT byte = 254 // dont
	tnDO   byte = 253 // do
	tnWONT byte = 252 // wont
	tnWILL byte = 251 // will
	tnSB   byte = 250 // Sub negotiations begin
	tnSE   byte = 240 // Sub negotiations end

	// Telnet line states.

	tnStateData int = 1 + iota // normal
	tnStateIAC                 // IAC seen
	tnStateOpt                 // WILL/WONT/DO/DONT seen, option follows
	tnStateSB                  // inside subnegotiation
	tnStateSBIAC               // IAC inside subnegotiation

	// Telnet options.
	tnOptionBinary byte = 0 // Binary data transfer
	tnOptionEcho   byte = 1 // Echo
	tnOptionSGA    byte = 3 // Send Go Ahead
)

// Sent on connect: character at a time, remote echo off, binary.
var initString = []byte{
	tnIAC, tnWILL, tnOptionEcho,
	tnIAC, tnWILL, tnOptionSGA,
	tnIAC, tnWILL, tnOptionBinary,
	tnIAC, tnDO, tnOptionBinary,
}

// Serves the machine keyboard and display over one telnet session.
// Received data bytes become machine input packets, machine output is
// written back over the connection.
type Server struct {
	listener net.Listener
	master   chan master.Packet
	mu       sync.Mutex
	conn     net.Conn // Active session, nil when nobody connected.
	closing  bool
}

// Start a telnet server on the given address.
func Start(addr string, mch chan master.Packet) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	server := &Server{listener: listener, master: mch}
	go server.accept()
	slog.Info("Telnet server listening on " + addr)
	return server, nil
}

// Stop the server and drop any session.
func (s *Server) Stop() {
	s.mu.Lock()
	s.closing = true
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	s.listener.Close()
}

// Write machine output to the connected session. IAC bytes are doubled
// for binary mode. No session, output is dropped.
func (s *Server) Write(data []byte) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b == tnIAC {
			out = append(out, tnIAC)
		}
		out = append(out, b)
	}
	if _, err := conn.Write(out); err != nil {
		slog.Warn("Telnet write: " + err.Error())
	}
}

// Accept connections. One session at a time, later callers are turned
// away.
func (s *Server) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			closing := s.closing
			s.mu.Unlock()
			if !closing {
				slog.Error("Telnet accept: " + err.Error())
			}
			return
		}

		s.mu.Lock()
		busy := s.conn != nil
		if !busy {
			s.conn = conn
		}
		s.mu.Unlock()

		if busy {
			_, _ = conn.Write([]byte("Machine console busy\r\n"))
			conn.Close()
			continue
		}

		slog.Info("Telnet connect from " + conn.RemoteAddr().String())
		_, _ = conn.Write(initString)
		go s.session(conn)
	}
}

// Read one session until it drops. Data bytes go to the machine, option
// and subnegotiation sequences are stripped without a reply.
func (s *Server) session(conn net.Conn) {
	state := tnStateData
	buf := make([]byte, 1024)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			break
		}
		var data []byte
		for _, b := range buf[:n] {
			switch state {
			case tnStateData:
				if b == tnIAC {
					state = tnStateIAC
					continue
				}
				data = append(data, b)
			case tnStateIAC:
				switch b {
				case tnIAC:
					// Doubled IAC is a data byte.
					data = append(data, b)
					state = tnStateData
				case tnWILL, tnWONT, tnDO, tnDONT:
					state = tnStateOpt
				case tnSB:
					state = tnStateSB
				default:
					state = tnStateData
				}
			case tnStateOpt:
				state = tnStateData
			case tnStateSB:
				if b == tnIAC {
					state = tnStateSBIAC
				}
			case tnStateSBIAC:
				if b == tnSE {
					state = tnStateData
				} else {
					state = tnStateSB
				}
			}
		}
		if len(data) > 0 {
			s.master <- master.Packet{Msg: master.Input, Data: data}
		}
	}

	slog.Info("Telnet disconnect")
	s.mu.Lock()
	s.conn = nil
	closing := s.closing
	s.mu.Unlock()
	conn.Close()
	if !closing {
		// The remote keyboard went away for good.
		s.master <- master.Packet{Msg: master.InputEOF}
	}
}
