// Copyright (c) 2017-2018 The qitmeer developers

package blkmgr

import (
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/core/types"
	"github.com/mestorlx/witnet-rust/database"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
)

// ChainState owns the chain info.  It is only mutated from the block handler
// goroutine, but reads are served from any goroutine under the mutex so that
// asking for the tip never waits behind queued block processing.
type ChainState struct {
	sync.RWMutex
	info  types.ChainInfo
	ready bool
}

// Current returns a copy of the chain info.  Before loadOrInit completed it
// is the zero value, callers check IsReady first.
func (c *ChainState) Current() types.ChainInfo {
	c.RLock()
	defer c.RUnlock()
	return c.info
}

// IsReady reports whether the chain info has been loaded or initialized.
func (c *ChainState) IsReady() bool {
	c.RLock()
	defer c.RUnlock()
	return c.ready
}

// TipEpoch returns the epoch of the chain tip.
func (c *ChainState) TipEpoch() types.Epoch {
	c.RLock()
	defer c.RUnlock()
	return c.info.TipEpoch()
}

// TipHash returns the hash of the chain tip.
func (c *ChainState) TipHash() hash.Hash {
	c.RLock()
	defer c.RUnlock()
	return c.info.TipHash()
}

func (c *ChainState) set(info types.ChainInfo) {
	c.Lock()
	defer c.Unlock()
	c.info = info
	c.ready = true
}

func (c *ChainState) setTip(beacon types.CheckpointBeacon) {
	c.Lock()
	defer c.Unlock()
	c.info.HighestBlockCheckpoint = beacon
}

// loadOrInit reads the chain info from storage.  When the key is absent the
// genesis chain info is adopted and a single write of it is issued, the
// returned channel reports its outcome.  Any other storage failure is
// returned as ErrStorageFailure.
func (c *ChainState) loadOrInit(store Storage, genesis types.ChainInfo) (<-chan error, error) {
	res := <-store.Get(storagemgr.ChainKey)
	switch {
	case res.Err == nil:
		info, err := types.NewChainInfoFromBytes(res.Value)
		if err != nil {
			return nil, wrapError(ErrStorageFailure,
				"unable to decode stored chain info", err)
		}
		c.set(*info)
		log.Info("Loaded chain info", "env", info.Environment,
			"tipEpoch", info.TipEpoch(), "tipHash", info.TipHash())
		log.Trace("Stored chain info", "info", newLogClosure(func() string {
			return spew.Sdump(info)
		}))
		return nil, nil

	case database.IsNotFound(res.Err):
		c.set(genesis)
		log.Info("No chain info in storage, starting from genesis",
			"env", genesis.Environment, "genesis", genesis.TipHash())
		return c.persist(store), nil

	default:
		return nil, wrapError(ErrStorageFailure,
			"unable to read chain info", res.Err)
	}
}

// persist issues the write of the current chain info and returns at once.
// Writes issued later fully overwrite the key, so a reordered pair of
// acknowledgments can only leave an older valid head on disk.
func (c *ChainState) persist(store Storage) <-chan error {
	info := c.Current()
	raw, err := info.Bytes()
	if err != nil {
		reply := make(chan error, 1)
		reply <- err
		return reply
	}
	return store.Put(storagemgr.ChainKey, raw)
}
