// Copyright (c) 2017-2018 The qitmeer developers

package storagemgr

import (
	"sync"
	"testing"
	"time"

	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/database"
	_ "github.com/mestorlx/witnet-rust/database/leveldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *StorageManager {
	db, err := database.Create("memdb")
	require.NoError(t, err)
	sm := New(db, 0)
	require.NoError(t, sm.Start())
	t.Cleanup(func() {
		sm.Stop()
		db.Close()
	})
	return sm
}

func TestGetPutDelete(t *testing.T) {
	sm := newTestManager(t)

	res := <-sm.Get(ChainKey)
	assert.True(t, database.IsNotFound(res.Err))

	require.NoError(t, <-sm.Put(ChainKey, []byte("head")))
	res = <-sm.Get(ChainKey)
	require.NoError(t, res.Err)
	assert.Equal(t, []byte("head"), res.Value)

	require.NoError(t, <-sm.Delete(ChainKey))
	res = <-sm.Get(ChainKey)
	assert.True(t, database.IsNotFound(res.Err))
}

func TestRequestsKeepIssueOrder(t *testing.T) {
	sm := newTestManager(t)

	// Replies are not awaited between requests.
	put1 := sm.Put(ChainKey, []byte{1})
	put2 := sm.Put(ChainKey, []byte{2})
	get := sm.Get(ChainKey)

	require.NoError(t, <-put1)
	require.NoError(t, <-put2)
	res := <-get
	require.NoError(t, res.Err)
	assert.Equal(t, []byte{2}, res.Value)
}

func TestStopAnswersEveryRequest(t *testing.T) {
	db, err := database.Create("memdb")
	require.NoError(t, err)
	defer db.Close()

	sm := New(db, 4)
	require.NoError(t, sm.Start())

	const senders, perSender = 8, 16
	replies := make(chan (<-chan error), senders*perSender)
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				replies <- sm.Put(ChainKey, []byte{byte(j)})
			}
		}()
	}
	require.NoError(t, sm.Stop())
	wg.Wait()
	close(replies)

	for reply := range replies {
		select {
		case err := <-reply:
			if err != nil {
				assert.Equal(t, ErrShutdown, err)
			}
		case <-time.After(time.Second):
			t.Fatal("request was never answered")
		}
	}
}

func TestAfterStop(t *testing.T) {
	db, err := database.Create("memdb")
	require.NoError(t, err)
	defer db.Close()

	sm := New(db, 1)
	require.NoError(t, sm.Start())
	require.NoError(t, sm.Stop())
	require.NoError(t, sm.Stop())

	assert.Equal(t, ErrShutdown, <-sm.Put(ChainKey, []byte{1}))
	assert.Equal(t, ErrShutdown, (<-sm.Get(ChainKey)).Err)
	assert.Equal(t, ErrShutdown, <-sm.Delete(ChainKey))
}

func TestBlockKey(t *testing.T) {
	var h hash.Hash
	h[0] = 0xaa
	key := BlockKey(h)
	assert.Equal(t, len("block-")+hash.HashSize, len(key))
	assert.Equal(t, "block-", string(key[:6]))
	assert.Equal(t, byte(0xaa), key[6])
	assert.NotEqual(t, ChainKey, key)
}
