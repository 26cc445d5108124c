// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package pack

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/elliotnunn/zunpack/internal/chunkio"
)

const Magic = "\x1f\x1e"

var (
	ErrNotPack = errors.New("pack: not a pack(1) file")
	ErrLength  = errors.New("pack: length does not match header")
)

type Header struct {
	Size   uint32 // of the unpacked file
	Levels []Level
}

// ParseHeader reads the magic number, the unpacked size and the level table.
//
// The count stored for the deepest level is one short: that level always
// has at least two leaves, one of which is EOF and is not stored.
func ParseHeader(r io.Reader) (Header, error) {
	var fixed [7]byte
	if _, err := io.ReadFull(r, fixed[:]); err == io.EOF || err == io.ErrUnexpectedEOF {
		return Header{}, ErrNotPack
	} else if err != nil {
		return Header{}, err
	}
	if string(fixed[:2]) != Magic {
		return Header{}, ErrNotPack
	}
	h := Header{Size: binary.BigEndian.Uint32(fixed[2:])}

	nlev := int(fixed[6])
	if nlev == 0 || nlev > MaxLevels {
		return h, fmt.Errorf("%w: %d levels", ErrFormat, nlev)
	}
	counts := make([]byte, nlev)
	if _, err := io.ReadFull(r, counts); err != nil {
		return h, noEOF(err)
	}

	h.Levels = make([]Level, nlev)
	for i, c := range counts {
		n := int(c)
		if i == nlev-1 {
			n++
		}
		h.Levels[i].Leaves = make([]byte, n)
		if _, err := io.ReadFull(r, h.Levels[i].Leaves); err != nil {
			return h, noEOF(err)
		}
	}
	return h, nil
}

func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Reader is an io.Reader over a complete .z file.
// It checks the decoded length against the header.
type Reader struct {
	Header
	io.Reader
}

func NewReader(r io.Reader) (*Reader, error) {
	h, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	t, err := BuildTree(h.Levels)
	if err != nil {
		return nil, err
	}
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	src := &lengthCheck{src: NewDecoder(br, t), want: int64(h.Size)}
	return &Reader{Header: h, Reader: chunkio.NewReader(src)}, nil
}

type lengthCheck struct {
	src       chunkio.Source
	want, got int64
}

func (l *lengthCheck) Next() ([]byte, error) {
	chunk, err := l.src.Next()
	l.got += int64(len(chunk))
	if err == io.EOF && l.got != l.want {
		err = fmt.Errorf("%w: %d bytes, header says %d", ErrLength, l.got, l.want)
	}
	return chunk, err
}

// Decompress decodes a whole payload (the bytes after the level table).
// On error the output decoded so far is returned too.
func Decompress(payload []byte, levels []Level) ([]byte, error) {
	t, err := BuildTree(levels)
	if err != nil {
		return nil, err
	}
	return chunkio.ReadAll(NewDecoder(bytes.NewReader(payload), t))
}
