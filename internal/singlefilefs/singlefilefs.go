// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package singlefilefs presents one decompressed file as an [fs.FS].
package singlefilefs

import (
	"io"
	"io/fs"
	"time"
)

// Sized is satisfied by a decompressioncache.ReaderAt.
type Sized interface {
	io.ReaderAt
	Size() (int64, error)
}

// Single-file archive
type FS struct {
	Name    string
	Data    Sized
	ModTime time.Time
}

type Dir struct {
	fsys     *FS
	listDone bool
}

type File struct {
	fsys *FS
	*io.SectionReader
}

// entry is the file as listed by the directory, without an open reader.
type entry struct {
	fsys *FS
	size int64
}

func (fsys *FS) Open(name string) (fs.File, error) {
	switch name {
	default:
		if !fs.ValidPath(name) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	case ".":
		return &Dir{fsys: fsys}, nil
	case fsys.Name:
		size, err := fsys.Data.Size()
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &File{fsys: fsys, SectionReader: io.NewSectionReader(fsys.Data, 0, size)}, nil
	}
}

func (d *Dir) Read(p []byte) (n int, err error) {
	return 0, &fs.PathError{Op: "read", Path: ".", Err: fs.ErrInvalid}
}

func (d *Dir) Stat() (fs.FileInfo, error) {
	return d, nil
}

func (d *Dir) Close() error {
	return nil
}

func (d *Dir) ReadDir(count int) ([]fs.DirEntry, error) {
	if d.listDone {
		if count > 0 {
			return nil, io.EOF
		}
		return nil, nil
	}
	d.listDone = true
	size, err := d.fsys.Data.Size()
	if err != nil {
		return nil, err
	}
	return []fs.DirEntry{&entry{fsys: d.fsys, size: size}}, nil
}

func (f *File) Stat() (fs.FileInfo, error) {
	return &entry{fsys: f.fsys, size: f.SectionReader.Size()}, nil
}

func (f *File) Close() error {
	return nil
}

func (e *entry) Name() string {
	return e.fsys.Name
}
func (e *entry) Size() int64 {
	return e.size
}
func (e *entry) Mode() fs.FileMode {
	return 0o444
}
func (e *entry) Type() fs.FileMode {
	return 0 // regular file
}
func (e *entry) Info() (fs.FileInfo, error) {
	return e, nil
}
func (e *entry) ModTime() time.Time {
	return e.fsys.ModTime
}
func (e *entry) IsDir() bool {
	return false
}
func (e *entry) Sys() any {
	return nil
}

func (d *Dir) Name() string {
	return "."
}
func (d *Dir) Size() int64 {
	return 0
}
func (d *Dir) Mode() fs.FileMode {
	return 0o555 | fs.ModeDir
}
func (d *Dir) ModTime() time.Time {
	return d.fsys.ModTime
}
func (d *Dir) IsDir() bool {
	return true
}
func (d *Dir) Sys() any {
	return nil
}
