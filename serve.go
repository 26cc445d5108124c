// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/elliotnunn/zunpack/internal/decompressioncache"
	"github.com/elliotnunn/zunpack/internal/singlefilefs"
)

type serveCmd struct {
	Addr string `help:"Address to listen on." default:":1993"`
	File string `arg:"" help:"Compressed file to serve."`
}

func (c *serveCmd) Run(g *Globals) error {
	in, err := openInput(c.File)
	if err != nil {
		return err
	}
	defer in.Close()

	fsys, err := decompressedFS(in)
	if err != nil {
		return err
	}

	slog.Info("serving", "file", c.File, "as", fsys.Name, "addr", c.Addr)
	return http.ListenAndServe(c.Addr, http.FileServerFS(fsys))
}

// decompressedFS presents the decompressed content as the only file in a
// directory, readable at random offsets.
func decompressedFS(in *input) (*singlefilefs.FS, error) {
	a, err := probe(in)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(outputName(in.name, a.suffixes))
	if in.name == "-" {
		name = "stdin"
	}
	return &singlefilefs.FS{
		Name:    name,
		Data:    decompressioncache.New(a.open, a.size, in.name),
		ModTime: in.modTime,
	}, nil
}
