// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package chunkio adapts decoders that produce their output in chunks.
package chunkio

import (
	"errors"
	"io"
	"iter"
)

// A Source produces a finite sequence of chunks, ending with io.EOF.
// The chunk returned by Next is only valid until the following call.
// A Source cannot be rewound.
type Source interface {
	Next() ([]byte, error)
}

// ReadAll concatenates every chunk. Unlike io.ReadAll, the bytes that were
// decoded before an error are returned alongside it.
func ReadAll(src Source) ([]byte, error) {
	var ret []byte
	for {
		chunk, err := src.Next()
		ret = append(ret, chunk...)
		if errors.Is(err, io.EOF) {
			return ret, nil
		} else if err != nil {
			return ret, err
		}
	}
}

// All yields each nonempty chunk, then a final error if it is not io.EOF.
func All(src Source) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			chunk, err := src.Next()
			if len(chunk) > 0 && !yield(chunk, nil) {
				return
			}
			if err == io.EOF {
				return
			} else if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

type reader struct {
	src  Source
	rest []byte
	err  error
}

// NewReader returns an io.Reader over the concatenated chunks.
func NewReader(src Source) io.Reader {
	return &reader{src: src}
}

func (r *reader) Read(p []byte) (int, error) {
	for len(r.rest) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		r.rest, r.err = r.src.Next()
	}
	n := copy(p, r.rest)
	r.rest = r.rest[n:]
	return n, nil
}
