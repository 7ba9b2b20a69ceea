// Copyright (c) 2017-2018 The qitmeer developers

package blkmgr

import (
	"encoding/hex"

	"github.com/mestorlx/witnet-rust/common/hash"
	"github.com/mestorlx/witnet-rust/core/types"
	"github.com/mestorlx/witnet-rust/rpc/api"
)

// API returns the read only block service of the block manager.
func (b *BlockManager) API() api.API {
	return api.API{
		NameSpace: "block",
		Service:   NewPublicBlockAPI(b),
		Public:    true,
	}
}

type PublicBlockAPI struct {
	bm *BlockManager
}

func NewPublicBlockAPI(bm *BlockManager) *PublicBlockAPI {
	return &PublicBlockAPI{bm}
}

// BlockResult is the verbose form of a block.
type BlockResult struct {
	Hash          string   `json:"hash"`
	Version       uint32   `json:"version"`
	Checkpoint    uint32   `json:"checkpoint"`
	PrevBlockHash string   `json:"previousblockhash"`
	MerkleRoot    string   `json:"merkleroot"`
	Influence     uint64   `json:"influence"`
	Signed        bool     `json:"signed"`
	TxCount       uint32   `json:"txcount"`
	Tx            []string `json:"tx"`
	Canonical     bool     `json:"canonical"`
}

// GetBlock returns the block with the passed hash, hex encoded unless
// verbose is set.
func (api *PublicBlockAPI) GetBlock(h string, verbose bool) (interface{}, error) {
	blockHash, err := hash.NewHashFromStr(h)
	if err != nil {
		return nil, err
	}
	block, err := api.bm.FetchBlock(*blockHash)
	if err != nil {
		return nil, err
	}
	if !verbose {
		raw, err := block.Bytes()
		if err != nil {
			return nil, err
		}
		return hex.EncodeToString(raw), nil
	}

	canonical, err := api.bm.CanonicalHash(block.Epoch())
	isCanonical := err == nil && canonical == *blockHash

	txHashes := block.TxHashes(api.bm.params.TxHashType)
	txs := make([]string, 0, len(txHashes))
	for _, h := range txHashes {
		txs = append(txs, h.String())
	}

	header := &block.Header.BlockHeader
	return &BlockResult{
		Hash:          blockHash.String(),
		Version:       header.Version,
		Checkpoint:    uint32(header.Beacon.Checkpoint),
		PrevBlockHash: header.Beacon.HashPrevBlock.String(),
		MerkleRoot:    header.HashMerkleRoot.String(),
		Influence:     block.Influence(),
		Signed:        block.Header.Proof.HasSignature(),
		TxCount:       block.TxnCount,
		Tx:            txs,
		Canonical:     isCanonical,
	}, nil
}

// GetBestBlockHash returns the hash of the chain tip.
func (api *PublicBlockAPI) GetBestBlockHash() (string, error) {
	info, err := api.bm.ChainInfo()
	if err != nil {
		return "", err
	}
	return info.TipHash().String(), nil
}

// GetTipEpoch returns the epoch of the chain tip.
func (api *PublicBlockAPI) GetTipEpoch() (uint32, error) {
	epoch, err := api.bm.TipEpoch()
	return uint32(epoch), err
}

// GetEpochCandidates returns the candidate hashes of an epoch.
func (api *PublicBlockAPI) GetEpochCandidates(epoch uint32) ([]string, error) {
	hashes, err := api.bm.EpochCandidates(types.Epoch(epoch))
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(hashes))
	for _, h := range hashes {
		result = append(result, h.String())
	}
	return result, nil
}

// GetCanonicalHash returns the hash selected for a consolidated epoch.
func (api *PublicBlockAPI) GetCanonicalHash(epoch uint32) (string, error) {
	h, err := api.bm.CanonicalHash(types.Epoch(epoch))
	if err != nil {
		return "", err
	}
	return h.String(), nil
}
