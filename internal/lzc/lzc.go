// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package lzc decompresses the output of the UNIX compress(1) command.
package lzc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
)

const (
	MinBits = 9
	MaxBits = 16

	clearCode = 256
)

var ErrFormat = errors.New("lzc: invalid compressed data")

// Params are the stream settings found in the header.
type Params struct {
	BlockMode bool // code 256 clears the table
	MaxBits   int
}

// codeReader is satisfied by *GroupReader.
type codeReader interface {
	ReadCode(width int) (uint32, error)
	Realign()
}

// Decoder expands a compress(1) code stream one code at a time.
//
// The table holds each string as (prefix code, final byte), so an entry costs
// a few bytes no matter how long its string is.
type Decoder struct {
	cr     codeReader
	block  bool
	max    int
	width  int
	prefix []int32 // -1 for the single-byte roots
	suffix []byte
	length []int32

	last     []byte // previous chunk, nil after a clear
	lastCode int32
	out      []byte
	err      error
}

// NewDecoder decodes the payload that follows the 3-byte header.
// A reader without a ReadByte method gets a buffer,
// because codes are fetched a few bytes at a time.
func NewDecoder(r io.Reader, p Params) *Decoder {
	if _, ok := r.(io.ByteReader); !ok {
		r = bufio.NewReader(r)
	}
	return newDecoder(NewGroupReader(r), p)
}

func newDecoder(cr codeReader, p Params) *Decoder {
	d := &Decoder{cr: cr, block: p.BlockMode, max: p.MaxBits}
	if p.MaxBits < MinBits || p.MaxBits > MaxBits {
		d.err = fmt.Errorf("%w: %d-bit codes", ErrFormat, p.MaxBits)
		return d
	}
	d.prefix = make([]int32, 0, 1<<p.MaxBits)
	d.suffix = make([]byte, 0, 1<<p.MaxBits)
	d.length = make([]int32, 0, 1<<p.MaxBits)
	d.reset()
	return d
}

func (d *Decoder) reset() {
	d.width = MinBits
	d.last = nil
	d.prefix, d.suffix, d.length = d.prefix[:0], d.suffix[:0], d.length[:0]
	for i := range 256 {
		d.prefix = append(d.prefix, -1)
		d.suffix = append(d.suffix, byte(i))
		d.length = append(d.length, 1)
	}
	if d.block {
		// placeholder for the clear code, never expanded
		d.prefix = append(d.prefix, -1)
		d.suffix = append(d.suffix, 0)
		d.length = append(d.length, 0)
	}
}

// Next returns the string for the next code. The slice must not be modified
// and is only valid until the following call. At the end of the stream Next returns io.EOF.
// Any other error is permanent: the table cannot be trusted after a bad code.
func (d *Decoder) Next() ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	chunk, err := d.step()
	if err != nil {
		d.err = err
		return nil, err
	}
	return chunk, nil
}

func (d *Decoder) step() ([]byte, error) {
	for {
		code, err := d.cr.ReadCode(d.width)
		if err != nil {
			return nil, err
		}

		if d.block && code == clearCode {
			d.reset()
			d.cr.Realign()
			continue
		}

		n := len(d.suffix)
		var chunk []byte
		switch {
		case int(code) == n: // KwKwK
			if d.last == nil {
				return nil, fmt.Errorf("%w: code %d refers to itself at start of table", ErrFormat, code)
			}
			chunk = append(d.out[:0], d.last...)
			chunk = append(chunk, d.last[0])
		case int(code) < n:
			chunk = d.expand(d.out[:0], code)
		default:
			return nil, fmt.Errorf("%w: code %d out of range (table has %d entries)", ErrFormat, code, n)
		}

		if d.last != nil && n < 1<<d.max-1 {
			d.prefix = append(d.prefix, d.lastCode)
			d.suffix = append(d.suffix, chunk[0])
			d.length = append(d.length, int32(len(d.last))+1)
		}

		if len(d.suffix) >= 1<<d.width {
			d.width = min(d.width+1, d.max)
			d.cr.Realign()
		}

		// swap buffers so that the returned chunk survives as d.last
		d.out, d.last = d.last[:0], chunk
		d.lastCode = int32(code)
		return chunk, nil
	}
}

// expand appends the string for code to buf.
func (d *Decoder) expand(buf []byte, code uint32) []byte {
	l := int(d.length[code])
	buf = slices.Grow(buf, l)[:len(buf)+l]
	s := buf[len(buf)-l:]
	c := int32(code)
	for i := l - 1; i >= 0; i-- {
		s[i] = d.suffix[c]
		c = d.prefix[c]
	}
	return buf
}

// entry returns a copy of table entry i.
func (d *Decoder) entry(i int) []byte {
	return d.expand(nil, uint32(i))
}
