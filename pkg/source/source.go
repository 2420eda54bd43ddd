// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NVIDIA/layoutcheck/pkg/defaults"
	"github.com/NVIDIA/layoutcheck/pkg/serializer"
)

// Stdin is the location that reads the input from standard input.
const Stdin = "-"

// Lines yields the lines of a text input in order, without line terminators.
// A trailing "\r" is dropped so CRLF files read the same as LF files.
type Lines struct {
	name    string
	scanner *bufio.Scanner
	closer  io.Closer
	read    int
}

// NewLines wraps r. If r implements io.Closer it is closed by Close.
func NewLines(name string, r io.Reader) *Lines {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), defaults.MaxLineBytes)

	l := &Lines{name: name, scanner: s}
	if c, ok := r.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// FromString reads lines from an in-memory document.
func FromString(name, content string) *Lines {
	return NewLines(name, strings.NewReader(content))
}

// Open opens a line source from a local path, "-" for stdin, or an HTTP(S) URL.
// The caller must call Close.
func Open(ctx context.Context, uri string) (*Lines, error) {
	switch {
	case uri == "":
		return nil, fmt.Errorf("input location is required")
	case uri == Stdin:
		// stdin is never closed by us
		return NewLines("stdin", io.NopCloser(os.Stdin)), nil
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		body, err := serializer.NewHttpReader(serializer.WithMaxBytes(0)).Open(ctx, uri)
		if err != nil {
			return nil, fmt.Errorf("failed to open remote input %s: %w", uri, err)
		}
		return NewLines(uri, body), nil
	default:
		f, err := os.Open(uri)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		return NewLines(uri, f), nil
	}
}

// Name identifies the source in verdicts.
func (l *Lines) Name() string {
	return l.name
}

// Read is the number of lines returned so far.
func (l *Lines) Read() int {
	return l.read
}

// Next returns the next line. ok is false once the input is exhausted; err is
// set when reading failed, including lines longer than the configured maximum.
func (l *Lines) Next() (string, bool, error) {
	if l.scanner == nil {
		return "", false, nil
	}
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("failed to read %s after line %d: %w", l.name, l.read, err)
		}
		return "", false, nil
	}
	l.read++
	return strings.TrimSuffix(l.scanner.Text(), "\r"), true, nil
}

// Close releases the underlying reader. It is safe to call more than once.
func (l *Lines) Close() error {
	l.scanner = nil
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}
