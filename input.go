// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

var errTerminal = errors.New("compressed data not read from a terminal")

type input struct {
	name    string
	r       io.ReaderAt
	size    int64
	modTime time.Time
	closer  io.Closer
}

func openInput(name string) (*input, error) {
	if name == "-" {
		if isTerminal(os.Stdin) {
			return nil, errTerminal
		}
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return &input{name: name, r: bytes.NewReader(b), size: int64(len(b)), modTime: time.Now()}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	s, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	} else if s.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s: is a directory", name)
	}
	return &input{name: name, r: f, size: s.Size(), modTime: s.ModTime(), closer: f}, nil
}

func (in *input) Close() error {
	if in.closer != nil {
		return in.closer.Close()
	}
	return nil
}

// stream returns a fresh reader from the start of the file.
func (in *input) stream() *io.SectionReader {
	return io.NewSectionReader(in.r, 0, in.size)
}

// expandArgs replaces glob patterns (including **) with the files they match.
func expandArgs(args []string) ([]string, error) {
	var names []string
	for _, a := range args {
		if a == "-" || !strings.ContainsAny(a, "*?[{") {
			names = append(names, a)
			continue
		}
		matches, err := doublestar.FilepathGlob(a, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a, err)
		} else if len(matches) == 0 {
			return nil, fmt.Errorf("%s: no matching files", a)
		}
		names = append(names, matches...)
	}
	return names, nil
}
