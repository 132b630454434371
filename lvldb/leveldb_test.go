// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	filedb, err := New(filepath.Join(t.TempDir(), "main.db"), Options{16, 16})
	require.NoError(t, err)
	defer filedb.Close()

	memdb, err := NewMem()
	require.NoError(t, err)
	defer memdb.Close()

	for _, db := range []*LevelDB{filedb, memdb} {
		err = db.Put(key, value)
		assert.Nil(t, err)

		ret1, err := db.Get(key)
		assert.Nil(t, err)

		ret2, err := db.Has(key)
		assert.Nil(t, err)

		ret3, err := db.Has(inValidKey)
		assert.Nil(t, err)

		err = db.Delete(key)
		assert.Nil(t, err)

		_, ret4 := db.Get(key)

		tests := []struct {
			ret      any
			expected any
		}{
			{ret1, value},
			{ret2, true},
			{ret3, false},
			{db.IsNotFound(ret4), true},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.ret)
		}
	}
}

func TestLevelDBBatchAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bucket := kv.Bucket("s")
	batch := db.NewBatch()
	putter := bucket.NewPutter(batch)
	for _, k := range []string{"c", "a", "b"} {
		require.NoError(t, putter.Put([]byte(k), []byte("v"+k)))
	}
	require.NoError(t, db.Put([]byte("x"), []byte("outside")))
	assert.Equal(t, 3, batch.Len())
	require.NoError(t, batch.Write())

	iter := db.Iterate(bucket.Range())
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"sa", "sb", "sc"}, keys)
}

func TestBatchSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.db")

	db, err := New(path, Options{})
	require.NoError(t, err)
	b := db.NewBatch()
	require.NoError(t, b.Put([]byte("tick"), []byte{7}))
	require.Equal(t, 1, b.Len())
	require.NoError(t, b.Write())
	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()
	val, err := db.Get([]byte("tick"))
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, val)

	_, err = db.Get([]byte("missing"))
	assert.True(t, db.IsNotFound(err))
}
