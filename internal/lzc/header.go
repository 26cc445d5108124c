// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package lzc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/elliotnunn/zunpack/internal/chunkio"
)

const (
	HeaderSize = 3
	Magic      = "\x1f\x9d"

	flagBlockMode = 0x80
	flagReserved  = 0x60
	maskMaxBits   = 0x1f
)

var ErrNotCompress = errors.New("lzc: not a compress(1) file")

type Header struct {
	Params
	Reserved byte // bits 5 and 6 of the flag byte, normally zero
}

func ParseHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err == io.EOF || err == io.ErrUnexpectedEOF {
		return Header{}, ErrNotCompress
	} else if err != nil {
		return Header{}, err
	}
	if string(buf[:2]) != Magic {
		return Header{}, ErrNotCompress
	}
	h := Header{
		Params: Params{
			BlockMode: buf[2]&flagBlockMode != 0,
			MaxBits:   int(buf[2] & maskMaxBits),
		},
		Reserved: buf[2] & flagReserved,
	}
	if h.MaxBits < MinBits || h.MaxBits > MaxBits {
		return h, fmt.Errorf("%w: %d-bit codes", ErrFormat, h.MaxBits)
	}
	return h, nil
}

// Reader is an io.Reader over a complete .Z file.
type Reader struct {
	Header
	io.Reader
}

func NewReader(r io.Reader) (*Reader, error) {
	h, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	return &Reader{Header: h, Reader: chunkio.NewReader(NewDecoder(r, h.Params))}, nil
}

// Decompress decodes a whole payload (the bytes after the header).
// On error the output decoded so far is returned too.
func Decompress(payload []byte, p Params) ([]byte, error) {
	return chunkio.ReadAll(NewDecoder(bytes.NewReader(payload), p))
}
