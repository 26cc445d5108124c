// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"fmt"

	"github.com/elliotnunn/zunpack/internal/decompressioncache"
)

const maxCacheMB = 1024 * 1024 // a terabyte is surely a typo

func cacheBlocks(mb int) (int, error) {
	if mb <= 0 || mb > maxCacheMB {
		return 0, fmt.Errorf("cache size of %d MiB is out of range", mb)
	}
	return max(1, mb*1024*1024/decompressioncache.BlockSize), nil
}
