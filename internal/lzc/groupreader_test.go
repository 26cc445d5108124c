// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package lzc

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// packCodes lays codes end to end, LSB first, without any group padding.
func packCodes(width int, codes ...uint32) []byte {
	var buf []byte
	bit := 0
	for _, c := range codes {
		for i := range width {
			if bit%8 == 0 {
				buf = append(buf, 0)
			}
			if c>>i&1 != 0 {
				buf[bit/8] |= 1 << (bit % 8)
			}
			bit++
		}
	}
	return buf
}

func TestGroupReaderFullGroup(t *testing.T) {
	codes := []uint32{0x1ab, 0, 0x1ff, 65, 256, 300, 1, 0x155}
	data := packCodes(9, codes...)
	if len(data) != 9 {
		t.Fatalf("fixture is %d bytes, want 9", len(data))
	}
	g := NewGroupReader(bytes.NewReader(data))
	for i, want := range codes {
		got, err := g.ReadCode(9)
		if err != nil || got != want {
			t.Fatalf("code %d: got %d, %v; want %d", i, got, err, want)
		}
	}
	if _, err := g.ReadCode(9); err != io.EOF {
		t.Errorf("after last group: got %v, want EOF", err)
	}
}

func TestGroupReaderPadding(t *testing.T) {
	// 3 codes = 27 bits = 4 bytes, the last 5 bits being padding
	data := packCodes(9, 65, 66, 67)
	g := NewGroupReader(bytes.NewReader(data))
	for _, want := range []uint32{65, 66, 67} {
		got, err := g.ReadCode(9)
		if err != nil || got != want {
			t.Fatalf("got %d, %v; want %d", got, err, want)
		}
	}
	if _, err := g.ReadCode(9); err != io.EOF {
		t.Errorf("got %v, want EOF", err)
	}
	if _, err := g.ReadCode(9); err != io.EOF {
		t.Errorf("EOF should repeat, got %v", err)
	}
}

func TestGroupReaderTruncated(t *testing.T) {
	g := NewGroupReader(bytes.NewReader([]byte{0xff}))
	if _, err := g.ReadCode(9); err != io.ErrUnexpectedEOF {
		t.Errorf("got %v, want ErrUnexpectedEOF", err)
	}

	// one whole code plus a byte of a second one
	data := append(packCodes(16, 0xabcd), 0xff)
	g = NewGroupReader(bytes.NewReader(data))
	if got, err := g.ReadCode(16); err != nil || got != 0xabcd {
		t.Fatalf("got %#x, %v", got, err)
	}
	if _, err := g.ReadCode(16); err != io.ErrUnexpectedEOF {
		t.Errorf("got %v, want ErrUnexpectedEOF", err)
	}
}

func TestGroupReaderRealign(t *testing.T) {
	first := packCodes(9, 1, 2, 3, 4, 5, 6, 7, 8)
	second := packCodes(10, 700, 701)
	g := NewGroupReader(bytes.NewReader(append(first, second...)))

	if got, _ := g.ReadCode(9); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got, _ := g.ReadCode(9); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	g.Realign()
	for _, want := range []uint32{700, 701} {
		got, err := g.ReadCode(10)
		if err != nil || got != want {
			t.Fatalf("after realign: got %d, %v; want %d", got, err, want)
		}
	}
	if _, err := g.ReadCode(10); err != io.EOF {
		t.Errorf("got %v, want EOF", err)
	}
}

func TestGroupReaderRealignFresh(t *testing.T) {
	// realigning between whole groups must not skip anything
	data := packCodes(9, 1, 2, 3, 4, 5, 6, 7, 8)
	data = append(data, packCodes(9, 9)...)
	g := NewGroupReader(bytes.NewReader(data))
	for range 8 {
		g.ReadCode(9)
	}
	g.Realign()
	if got, err := g.ReadCode(9); err != nil || got != 9 {
		t.Errorf("got %d, %v; want 9", got, err)
	}
}

func TestGroupReaderBadWidth(t *testing.T) {
	g := NewGroupReader(bytes.NewReader(packCodes(9, 1)))
	for _, width := range []int{0, -1, MaxBits + 1} {
		if _, err := g.ReadCode(width); !errors.Is(err, ErrFormat) {
			t.Errorf("width %d: got %v, want ErrFormat", width, err)
		}
	}
	// nothing was consumed
	if got, err := g.ReadCode(9); err != nil || got != 1 {
		t.Errorf("got %d, %v; want 1", got, err)
	}
}
