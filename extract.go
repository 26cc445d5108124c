// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

type extractCmd struct {
	Output     string   `help:"Write here instead of next to the input (\"-\" for standard output)." short:"o" type:"path"`
	Force      bool     `help:"Overwrite existing files." short:"f"`
	KeepBroken bool     `help:"Keep the output of a file that fails to decompress." name:"keep-broken"`
	Files      []string `arg:"" optional:"" default:"-" help:"Compressed files, or globs matching them."`
}

func (c *extractCmd) Run(g *Globals) error {
	names, err := expandArgs(c.Files)
	if err != nil {
		return err
	}
	if c.Output != "" && c.Output != "-" && len(names) > 1 {
		return errors.New("--output names one file but several inputs were given")
	}

	failed := 0
	for _, name := range names {
		if err := c.extract(name); err != nil {
			slog.Error("extractFailed", "file", name, "err", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(names))
	}
	return nil
}

func (c *extractCmd) extract(name string) error {
	in, err := openInput(name)
	if err != nil {
		return err
	}
	defer in.Close()

	a, err := probe(in)
	if err != nil {
		return err
	}
	r, err := a.open()
	if err != nil {
		return err
	}

	dest := c.Output
	if dest == "" {
		dest = outputName(name, a.suffixes)
	}
	slog.Debug("extract", "file", name, "format", a.format, "dest", dest)

	if dest == "-" {
		w := bufio.NewWriter(os.Stdout)
		if _, err := io.Copy(w, r); err != nil {
			w.Flush()
			return err
		}
		return w.Flush()
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !c.Force {
		flag |= os.O_EXCL
	}
	f, err := os.OpenFile(dest, flag, 0o666)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	_, err = io.Copy(w, r)
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = f.Close()
	} else {
		w.Flush()
		f.Close()
	}
	if err == nil {
		setModTime(dest, in.modTime)
		return nil
	}
	if !c.KeepBroken {
		os.Remove(dest)
	}
	return err
}

// setModTime copies the input's time to the output. Failing to is not fatal.
func setModTime(dest string, t time.Time) {
	if err := os.Chtimes(dest, t, t); err != nil {
		slog.Debug("modTimeNotSet", "dest", dest, "err", err)
	}
}
