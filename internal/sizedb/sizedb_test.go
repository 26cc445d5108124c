// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package sizedb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPersist(t *testing.T) {
	dir := t.TempDir()

	k1, err := KeyOf(strings.NewReader("\x1f\x9d\x90AAAA"))
	require.NoError(t, err)
	k2, err := KeyOf(strings.NewReader("\x1f\x9d\x90AAAB"))
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)

	db, err := Open(dir)
	require.NoError(t, err)
	_, ok, err := db.Get(k1)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, db.Put(k1, 123456789))
	require.NoError(t, db.Close())

	db, err = Open(dir)
	require.NoError(t, err)
	defer db.Close()
	size, ok, err := db.Get(k1)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 123456789, size)

	_, ok, err = db.Get(k2)
	require.NoError(t, err)
	require.False(t, ok)
}
