// Package chain resolves the chain id of the network signatures are bound to.
package chain

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-docsign/internal/config"
)

const defaultRPCTimeout = 5 * time.Second

var ErrNoHealthyNode = errors.New("no RPC node answered")

// Resolver returns the chain id of the active network.
type Resolver interface {
	ChainID(ctx context.Context) (int64, error)
}

// NewResolver returns an RPC resolver when CHAIN_RPC_URLS is set and a Static
// one bound to the default chain id otherwise.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewResolver(cfg config.Chain) (Resolver, error) {
	if len(cfg.RPCURLs) == 0 {
		return Static(cfg.DefaultChainID), nil
	}

	return NewRPC(cfg.RPCURLs, cfg.RPCTimeout)
}

// Static always reports the same chain id.
type Static int64

func (s Static) ChainID(context.Context) (int64, error) {
	return int64(s), nil
}

// RPC asks JSON-RPC nodes for eth_chainId, failing over between the configured
// URLs. The first answer is cached for the lifetime of the resolver.
type RPC struct {
	urls    []string
	timeout time.Duration

	mu      sync.Mutex
	clients []*ethclient.Client
	current int
	chainID int64
}

func NewRPC(urls []string, timeout time.Duration) (*RPC, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	if timeout <= 0 {
		timeout = defaultRPCTimeout
	}

	return &RPC{
		urls:    urls,
		timeout: timeout,
		clients: make([]*ethclient.Client, len(urls)),
	}, nil
}

func (r *RPC) ChainID(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.chainID > 0 {
		return r.chainID, nil
	}

	var lastErr error

	// Start from the last healthy node
	for i := 0; i < len(r.urls); i++ {
		idx := (r.current + i) % len(r.urls)

		chainID, err := r.queryChainID(ctx, idx)
		if err != nil {
			log.Warn().Str("url", r.urls[idx]).Err(err).Msg("RPC node did not return chain id, trying next")
			lastErr = err
			continue
		}

		r.current = idx
		r.chainID = chainID

		return chainID, nil
	}

	return 0, errors.Wrapf(ErrNoHealthyNode, "last error: %v", lastErr)
}

func (r *RPC) queryChainID(ctx context.Context, idx int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	client := r.clients[idx]
	if client == nil {
		var err error
		client, err = ethclient.DialContext(ctx, r.urls[idx])
		if err != nil {
			return 0, errors.Wrap(err, "failed to connect to RPC node")
		}
		r.clients[idx] = client
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		// Reconnect on next use
		client.Close()
		r.clients[idx] = nil
		return 0, errors.Wrap(err, "failed to get chain ID")
	}

	if !chainID.IsInt64() || chainID.Sign() <= 0 {
		return 0, errors.Errorf("invalid chain ID %s", chainID.String())
	}

	return chainID.Int64(), nil
}

// Close closes all open node connections.
func (r *RPC) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx, client := range r.clients {
		if client != nil {
			client.Close()
			r.clients[idx] = nil
		}
	}
}
