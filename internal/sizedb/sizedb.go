// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package sizedb remembers the decompressed size of files whose format does
// not record it, so that listing them twice does not mean decoding them twice.
package sizedb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble/v2"
)

// Key identifies compressed content by hash and length.
type Key [16]byte

const keyPrefix = "size/"

type DB struct {
	db *pebble.DB
}

func Open(dir string) (*DB, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("sizedb: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// KeyOf reads r to the end.
func KeyOf(r io.Reader) (Key, error) {
	var h xxhash.Digest
	h.Reset()
	n, err := io.Copy(&h, r)
	if err != nil {
		return Key{}, err
	}
	var k Key
	binary.BigEndian.PutUint64(k[:], h.Sum64())
	binary.BigEndian.PutUint64(k[8:], uint64(n))
	return k, nil
}

// Get reports the stored size, if any.
func (d *DB) Get(k Key) (int64, bool, error) {
	val, closer, err := d.db.Get(append([]byte(keyPrefix), k[:]...))
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	defer closer.Close()
	if len(val) != 8 {
		return 0, false, fmt.Errorf("sizedb: corrupt entry of %d bytes", len(val))
	}
	return int64(binary.BigEndian.Uint64(val)), true, nil
}

func (d *DB) Put(k Key, size int64) error {
	var val [8]byte
	binary.BigEndian.PutUint64(val[:], uint64(size))
	return d.db.Set(append([]byte(keyPrefix), k[:]...), val[:], pebble.Sync)
}
