// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package lzc

import (
	"fmt"
	"io"
)

// GroupReader reads LSB-first codes the way compress(1) wrote them.
//
// The encoder emits codes in groups of width bytes (8 codes per group) and
// pads out the whole group whenever the code width changes or the table is
// cleared. The reader therefore fills one group at a time and Realign throws
// away whatever is left of it.
type GroupReader struct {
	r     io.Reader
	group [MaxBits]byte
	n     int  // bytes in group
	bit   int  // next unread bit within group
	short bool // group was cut off by the end of the stream
}

func NewGroupReader(r io.Reader) *GroupReader {
	return &GroupReader{r: r}
}

// ReadCode returns the next width-bit code.
// At a clean end of stream it returns io.EOF.
// A code that is only partly present is io.ErrUnexpectedEOF,
// except for the padding bits (fewer than 8) that end the final group.
func (g *GroupReader) ReadCode(width int) (uint32, error) {
	if width < 1 || width > MaxBits {
		return 0, fmt.Errorf("%w: %d-bit code requested", ErrFormat, width)
	}
	if g.bit >= g.n*8 {
		if err := g.fill(width); err != nil {
			return 0, err
		}
	}
	if g.short {
		left := g.n*8 - g.bit
		if left < width {
			g.bit = g.n * 8
			if left < 8 {
				return 0, io.EOF
			}
			return 0, io.ErrUnexpectedEOF
		}
	}

	var code uint32
	for i := range width {
		b, err := g.readBit(width)
		if err != nil {
			return 0, err
		}
		code |= b << i
	}
	return code, nil
}

// readBit is only reached mid-code, so running dry is always a truncation.
func (g *GroupReader) readBit(width int) (uint32, error) {
	if g.bit >= g.n*8 {
		err := g.fill(width)
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return 0, err
		}
	}
	b := uint32(g.group[g.bit/8]>>(g.bit%8)) & 1
	g.bit++
	return b, nil
}

func (g *GroupReader) fill(width int) error {
	if g.short {
		return io.EOF
	}
	n, err := io.ReadFull(g.r, g.group[:width])
	switch err {
	case nil:
	case io.ErrUnexpectedEOF:
		g.short = true
	default:
		g.n, g.bit = 0, 0
		return err // including io.EOF
	}
	g.n, g.bit = n, 0
	return nil
}

// Realign discards the rest of the current group,
// so that the next code starts on a fresh group.
func (g *GroupReader) Realign() {
	g.bit = g.n * 8
}
