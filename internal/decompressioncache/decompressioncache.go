// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package decompressioncache gives random access to a decompressed stream.
//
// Decompressors can only run forwards, so a read behind the current position
// restarts the stream from the beginning. Decompressed blocks are kept in a
// process-wide cache so that this is rarely needed.
package decompressioncache

import (
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

const BlockSize = 4096

// Opener starts the decompressed stream again from the beginning.
type Opener func() (io.Reader, error)

type ReaderAt struct {
	uniq      uint64
	debugName string
	open      Opener

	mu    sync.Mutex
	r     io.Reader // nil when not yet opened
	seek  int64     // offset of r
	size  int64     // -1 until the end has been seen
	err   error     // decompression failure, permanent
	errAt int64     // block holding the failure
	errB  []byte    // what was decoded of that block
}

// New wraps a decompressor. If the size is unknown, pass -1.
func New(open Opener, size int64, debugName string) *ReaderAt {
	return &ReaderAt{
		uniq:      atomic.AddUint64(&monotonic, 1),
		debugName: debugName,
		open:      open,
		size:      size,
	}
}

// Size decompresses the whole stream if that is the only way to know its length.
func (r *ReaderAt) Size() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for blk := int64(0); r.size < 0; blk++ {
		if _, err := r.block(blk); err != nil {
			return 0, err
		}
	}
	return r.size, nil
}

func (r *ReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fs.ErrInvalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for n < len(p) {
		if r.size >= 0 && off+int64(n) >= r.size {
			return n, io.EOF
		}
		blk := (off + int64(n)) / BlockSize
		data, err := r.block(blk)
		inner := int(off + int64(n) - blk*BlockSize)
		if inner < len(data) {
			n += copy(p[n:], data[inner:])
		}
		if err != nil {
			return n, err
		}
		if len(data) < BlockSize && n < len(p) {
			return n, io.EOF
		}
	}
	return n, nil
}

// block returns the decompressed block (short if it is the last one).
// The lock must be held.
func (r *ReaderAt) block(blk int64) ([]byte, error) {
	if r.err != nil && blk >= r.errAt {
		if blk == r.errAt {
			return r.errB, r.err
		}
		return nil, r.err
	}
	if data, ok := cacheGet(ckey{r.uniq, blk}); ok {
		return data, nil
	}
	if r.size >= 0 && blk*BlockSize >= r.size {
		return nil, nil
	}

	if r.r == nil || r.seek > blk*BlockSize {
		if r.r != nil {
			slog.Debug("decompressionRestart", "name", r.debugName, "from", r.seek, "to", blk*BlockSize)
		}
		if err := r.reopen(); err != nil {
			return nil, err
		}
	}

	for {
		this := r.seek / BlockSize
		data, err := readBlock(r.r)
		r.seek += int64(len(data))
		switch {
		case err == io.EOF:
			r.size = r.seek
			r.close()
		case err != nil:
			r.err, r.errAt, r.errB = err, this, data
			r.close()
			if this == blk {
				return data, err
			}
			return nil, err
		}
		cacheAdd(ckey{r.uniq, this}, data)
		if this == blk {
			return data, nil
		} else if err == io.EOF {
			return nil, nil
		}
	}
}

// readBlock fills one block. io.EOF means this is the last block.
func readBlock(rd io.Reader) ([]byte, error) {
	buf := make([]byte, BlockSize)
	n := 0
	for n < BlockSize {
		m, err := rd.Read(buf[n:])
		n += m
		if err != nil {
			return buf[:n], err
		}
	}
	return buf, nil
}

func (r *ReaderAt) reopen() error {
	r.close()
	rd, err := r.open()
	if err != nil {
		return err
	}
	r.r, r.seek = rd, 0
	return nil
}

func (r *ReaderAt) close() {
	if c, ok := r.r.(io.Closer); ok {
		c.Close()
	}
	r.r = nil
}

var monotonic uint64

type ckey struct {
	uniq uint64
	blk  int64
}

var (
	cacheMu sync.Mutex
	cache   = tinylfu.New[ckey, []byte](DefaultBlocks, DefaultBlocks*10, keyHash)
)

// DefaultBlocks is the cache capacity until SetCapacity is called.
const DefaultBlocks = 64 * 1024 * 1024 / BlockSize

// SetCapacity replaces the block cache with an empty one holding n blocks.
func SetCapacity(n int) error {
	if n <= 0 {
		return errors.New("decompressioncache: capacity must be positive")
	}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = tinylfu.New[ckey, []byte](n, n*10, keyHash)
	return nil
}

func cacheGet(k ckey) ([]byte, bool) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	return cache.Get(k)
}

func cacheAdd(k ckey, data []byte) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache.Add(k, data)
}

func keyHash(k ckey) uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:], k.uniq)
	binary.LittleEndian.PutUint64(b[8:], uint64(k.blk))
	return xxhash.Sum64(b[:])
}
