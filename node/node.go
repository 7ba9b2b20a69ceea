// Copyright (c) 2017-2018 The qitmeer developers

// Package node wires the storage manager, the block manager and the epoch
// manager of a witnet node together.
package node

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/mestorlx/witnet-rust/config"
	"github.com/mestorlx/witnet-rust/database"
	"github.com/mestorlx/witnet-rust/metrics"
	"github.com/mestorlx/witnet-rust/node/service"
	"github.com/mestorlx/witnet-rust/params"
	"github.com/mestorlx/witnet-rust/rpc/api"
	"github.com/mestorlx/witnet-rust/services/blkmgr"
	"github.com/mestorlx/witnet-rust/services/epochmgr"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
)

// processMetricsRefresh is how often process metrics are sampled.
const processMetricsRefresh = 3 * time.Second

// Node works as a container for the services of a witnet node.
type Node struct {
	lock sync.Mutex
	wg   sync.WaitGroup

	// config
	Config *config.Config
	Params *params.Params

	// database layer
	DB database.DB

	services       *service.ServiceRegistry
	storageManager *storagemgr.StorageManager
	blockManager   *blkmgr.BlockManager
	epochManager   *epochmgr.EpochManager

	metricsServer *http.Server
	cancel        context.CancelFunc

	startupTime int64
}

// NewNode builds the services of a node on top of db.  The storage manager is
// registered first so that it is started before and stopped after the
// managers persisting through it.
func NewNode(cfg *config.Config, db database.DB, chainParams *params.Params) (*Node, error) {
	if cfg.Metrics {
		metrics.Enable()
	}

	n := Node{
		Config:   cfg,
		DB:       db,
		Params:   chainParams,
		services: service.NewServiceRegistry(),
	}

	n.storageManager = storagemgr.New(db, cfg.MsgQueueSize)
	bm, err := blkmgr.NewBlockManager(n.storageManager, cfg, chainParams)
	if err != nil {
		return nil, err
	}
	n.blockManager = bm
	em, err := epochmgr.New(chainParams.ConsensusConstants(), bm)
	if err != nil {
		return nil, err
	}
	n.epochManager = em

	for _, s := range []service.IService{n.storageManager, n.blockManager, n.epochManager} {
		if err := n.services.RegisterService(s); err != nil {
			return nil, err
		}
	}
	return &n, nil
}

func (n *Node) Start() error {
	n.lock.Lock()
	defer n.lock.Unlock()
	log.Info("Starting Node", "network", n.Params.Name, "dbType", n.DB.Type())

	if err := n.services.StartAll(); err != nil {
		return err
	}
	for _, a := range n.services.APIs() {
		log.Debug("Service API available", "api", a)
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	if metrics.Enabled() {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			metrics.CollectProcessMetrics(ctx, processMetricsRefresh)
		}()
		if n.Config.MetricsListen != "" {
			n.startMetricsServer(n.Config.MetricsListen)
		}
	}

	n.startupTime = time.Now().Unix()
	return nil
}

func (n *Node) startMetricsServer(listen string) {
	n.metricsServer = metrics.NewServer(listen)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		log.Info("Metrics server listening", "addr", listen)
		err := n.metricsServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error("Metrics server failed", "err", err)
		}
	}()
}

// Stop stops the services in reverse order of start.
func (n *Node) Stop() error {
	n.lock.Lock()
	defer n.lock.Unlock()
	log.Info("Stopping Node")

	if n.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := n.metricsServer.Shutdown(ctx); err != nil {
			log.Warn("Metrics server shutdown", "err", err)
		}
		cancel()
	}
	if n.cancel != nil {
		n.cancel()
	}
	return n.services.StopAll()
}

// WaitForShutdown blocks until the helper goroutines of the node returned.
func (n *Node) WaitForShutdown() {
	log.Info("Waiting for node shutdown")
	n.wg.Wait()
}

// BlockManager returns the block manager of the node.
func (n *Node) BlockManager() *blkmgr.BlockManager {
	return n.blockManager
}

// EpochManager returns the epoch manager of the node.
func (n *Node) EpochManager() *epochmgr.EpochManager {
	return n.epochManager
}

// APIs returns the RPC descriptors of the node services.
func (n *Node) APIs() []api.API {
	return n.services.APIs()
}

// Uptime returns the seconds since Start.
func (n *Node) Uptime() int64 {
	if n.startupTime == 0 {
		return 0
	}
	return time.Now().Unix() - n.startupTime
}
