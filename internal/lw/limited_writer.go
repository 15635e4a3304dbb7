// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Size capped writers used to capture subprocess output.
//
// A strict LimitedWriter fails once the limit is hit, which is what we want for
// output that has to be parsed in full. A truncating one quietly drops the
// excess, which suits diagnostic output like stderr.
package lw

import (
	"errors"
	"io"
)

var ErrLimitedWriterOverflow = errors.New("LimitedWriter overflow")

type LimitedWriter struct {
	// Apply limits to this Writer
	W io.Writer
	// Remaining byte budget
	N uint
	// Drop excess bytes instead of failing
	Truncate bool

	truncated bool
}

// Write implements io.Writer for *LimitedWriter.
func (s *LimitedWriter) Write(b []byte) (int, error) {
	if uint(len(b)) <= s.N {
		n, err := s.W.Write(b)
		s.N -= uint(n)
		return n, err
	}

	if !s.Truncate {
		return 0, ErrLimitedWriterOverflow
	}

	// Keep what fits and pretend the rest was written, so the producer keeps going.
	s.truncated = true
	if s.N > 0 {
		n, err := s.W.Write(b[:s.N])
		s.N -= uint(n)
		if err != nil {
			return n, err
		}
	}
	return len(b), nil
}

// Truncated reports whether any bytes were dropped.
func (s *LimitedWriter) Truncated() bool {
	return s.truncated
}

// LimitWriter returns a writer that fails with ErrLimitedWriterOverflow past n bytes.
func LimitWriter(w io.Writer, n uint) io.Writer {
	return &LimitedWriter{W: w, N: n}
}

// TruncateWriter returns a writer that silently drops everything past n bytes.
func TruncateWriter(w io.Writer, n uint) *LimitedWriter {
	return &LimitedWriter{W: w, N: n, Truncate: true}
}
