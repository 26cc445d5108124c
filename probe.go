// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elliotnunn/zunpack/internal/lzc"
	"github.com/elliotnunn/zunpack/internal/pack"
	"github.com/therootcompany/xz"
)

var errUnknownFormat = errors.New("not in a recognised compressed format")

type archive struct {
	format   string
	suffixes string // output naming rules, see changeSuffix
	size     int64  // decompressed, -1 if unknown until decoded
	detail   string
	open     func() (io.Reader, error)
}

// probe identifies the format by its magic number, never by the file name.
func probe(in *input) (*archive, error) {
	var header [6]byte
	n, err := in.r.ReadAt(header[:], 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	matchAt := func(s string, offset int) bool {
		return n >= offset+len(s) && string(header[offset:][:len(s)]) == s
	}

	switch {
	case matchAt(lzc.Magic, 0): // compress
		h, err := lzc.ParseHeader(in.stream())
		if err != nil {
			return nil, err
		}
		detail := fmt.Sprintf("%d-bit codes", h.MaxBits)
		if h.BlockMode {
			detail += ", block mode"
		}
		return &archive{
			format:   "compress",
			suffixes: ".taZ=.tar .Z",
			size:     -1,
			detail:   detail,
			open: func() (io.Reader, error) {
				r, err := lzc.NewReader(in.stream())
				if err != nil {
					return nil, err
				}
				return r, nil
			},
		}, nil
	case matchAt(pack.Magic, 0): // pack
		h, err := pack.ParseHeader(in.stream())
		if err != nil {
			return nil, err
		}
		return &archive{
			format:   "pack",
			suffixes: ".taz=.tar .z",
			size:     int64(h.Size),
			detail:   fmt.Sprintf("%d-level tree", len(h.Levels)),
			open: func() (io.Reader, error) {
				r, err := pack.NewReader(in.stream())
				if err != nil {
					return nil, err
				}
				return r, nil
			},
		}, nil
	case matchAt("\x1f\x8b", 0): // gzip
		return &archive{
			format:   "gzip",
			suffixes: ".gz .gzip .tgz=.tar",
			size:     -1,
			open: func() (io.Reader, error) {
				r, err := gzip.NewReader(in.stream())
				if err != nil {
					return nil, err
				}
				return r, nil
			},
		}, nil
	case matchAt("BZ", 0): // bzip2
		return &archive{
			format:   "bzip2",
			suffixes: ".bz .bz2 .bzip2 .tbz=.tar .tb2=.tar",
			size:     -1,
			open: func() (io.Reader, error) {
				return bzip2.NewReader(in.stream()), nil
			},
		}, nil
	case matchAt("\xfd7zXZ\x00", 0): // xz
		return &archive{
			format:   "xz",
			suffixes: ".xz .txz=.tar",
			size:     -1,
			open: func() (io.Reader, error) {
				r, err := xz.NewReader(in.stream(), xz.DefaultDictMax)
				if err != nil {
					return nil, err
				}
				return r, nil
			},
		}, nil
	}
	return nil, errUnknownFormat
}

// outputName derives where a decompressed file should go.
// Standard input goes to standard output.
func outputName(in string, suffixes string) string {
	if in == "-" {
		return "-"
	}
	out, ok := changeSuffix(in, suffixes)
	if !ok {
		return in + ".uncompressed"
	} else if out == "-" {
		return "./-"
	}
	return out
}

// changeSuffix applies the first matching rule of the form ".from=.to" or
// ".from" (which strips the suffix). A name that is nothing but the suffix
// does not match.
func changeSuffix(s string, suffixes string) (string, bool) {
	for _, rule := range strings.Split(suffixes, " ") {
		from, to, _ := strings.Cut(rule, "=")
		if strings.HasSuffix(s, from) && len(s) > len(from) && !strings.HasSuffix(s, "/"+from) {
			return s[:len(s)-len(from)] + to, true
		}
	}
	return s, false
}
