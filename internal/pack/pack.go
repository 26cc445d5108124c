// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package pack decompresses the output of the UNIX pack(1) command,
// a static Huffman code with an explicit end-of-file symbol.
package pack

import (
	"errors"
	"io"
)

var ErrFormat = errors.New("pack: invalid packed data")

const chunkSize = 4096

// bitReader yields bits most significant first.
type bitReader struct {
	r   io.ByteReader
	cur byte
	n   int // unread bits in cur
}

func (br *bitReader) readBit() (int, error) {
	if br.n == 0 {
		b, err := br.r.ReadByte()
		if err != nil {
			return 0, err
		}
		br.cur, br.n = b, 8
	}
	br.n--
	return int(br.cur>>br.n) & 1, nil
}

// Decoder walks the tree over a payload. Bits after the EOF symbol are ignored.
type Decoder struct {
	br   bitReader
	tree *Tree
	buf  []byte
	err  error
}

func NewDecoder(r io.ByteReader, t *Tree) *Decoder {
	return &Decoder{br: bitReader{r: r}, tree: t}
}

// Next returns the next run of decoded bytes, valid until the following call.
// After the EOF symbol it returns io.EOF. If the payload ends in the middle of
// a symbol, Next returns io.ErrUnexpectedEOF, once any bytes decoded before
// that point have been returned.
func (d *Decoder) Next() ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.buf = d.buf[:0]
	for len(d.buf) < chunkSize {
		sym, err := d.symbol()
		if err != nil {
			d.err = err
			break
		}
		d.buf = append(d.buf, sym)
	}
	if len(d.buf) > 0 {
		return d.buf, nil
	}
	return nil, d.err
}

func (d *Decoder) symbol() (byte, error) {
	n := d.tree.root
	for n.kind == branch {
		bit, err := d.br.readBit()
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return 0, err
		}
		n = n.child[bit]
	}
	if n.kind == eof {
		return 0, io.EOF
	}
	return n.sym, nil
}
