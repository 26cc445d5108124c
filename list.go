// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/elliotnunn/zunpack/internal/sizedb"
)

type listCmd struct {
	Files []string `arg:"" optional:"" default:"-" help:"Compressed files, or globs matching them."`
}

func (c *listCmd) Run(g *Globals) error {
	names, err := expandArgs(c.Files)
	if err != nil {
		return err
	}

	var db *sizedb.DB
	if g.SizeDB != "" {
		db, err = sizedb.Open(g.SizeDB)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	return list(os.Stdout, names, db)
}

func list(w io.Writer, names []string, db *sizedb.DB) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "compressed\tuncompressed\tratio\tformat\t detail\t name\t")
	fmt.Fprintln(tw, "----------\t------------\t-----\t------\t ------\t ----\t")

	failed := 0
	for _, name := range names {
		in, err := openInput(name)
		if err != nil {
			slog.Error("listFailed", "file", name, "err", err)
			failed++
			continue
		}
		a, err := probe(in)
		if err != nil {
			in.Close()
			slog.Error("listFailed", "file", name, "err", err)
			failed++
			continue
		}
		size, err := uncompressedSize(in, a, db)
		in.Close()
		if err != nil {
			slog.Error("listFailed", "file", name, "err", err)
			failed++
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t %s\t %s\t\n",
			in.size, size, ratio(in.size, size), a.format, a.detail, name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(names))
	}
	return nil
}

// uncompressedSize decodes the file only when neither the header nor the
// size database knows the answer.
func uncompressedSize(in *input, a *archive, db *sizedb.DB) (int64, error) {
	if a.size >= 0 {
		return a.size, nil
	}

	var key sizedb.Key
	if db != nil {
		var err error
		key, err = sizedb.KeyOf(in.stream())
		if err != nil {
			return 0, err
		}
		size, ok, err := db.Get(key)
		if err != nil {
			return 0, err
		} else if ok {
			slog.Debug("sizeCached", "file", in.name, "size", size)
			return size, nil
		}
	}

	r, err := a.open()
	if err != nil {
		return 0, err
	}
	size, err := io.Copy(io.Discard, r)
	if err != nil {
		return 0, err
	}
	if db != nil {
		if err := db.Put(key, size); err != nil {
			return 0, err
		}
	}
	return size, nil
}

// ratio is the space saved, as compress -v reports it.
func ratio(compressed, uncompressed int64) string {
	if uncompressed == 0 {
		return "0.0%"
	}
	saved := float64(uncompressed-compressed) / float64(uncompressed) * 100
	return strconv.FormatFloat(saved, 'f', 1, 64) + "%"
}
