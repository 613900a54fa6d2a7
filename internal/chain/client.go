// Package chain wraps the blockchain RPC client behind the three read
// operations the core needs. One client handle is shared per process; the
// underlying transport handles connection pooling.
package chain

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	pkgerrors "chainscan/pkg/errors"
)

// Source is the chain data collaborator. Any error is treated by the
// worker as terminal for the current job; retries live in the transport,
// not here.
type Source interface {
	BlockHeight(ctx context.Context) (uint64, error)
	Balance(ctx context.Context, address string) (string, error)
	Bytecode(ctx context.Context, address string) (string, error)
}

// NormalizeAddress canonicalizes a hex address (checksummed, then
// lowercased). Malformed addresses are rejected before any side effect.
func NormalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %q", pkgerrors.ErrInvalidAddress, address)
	}
	return strings.ToLower(common.HexToAddress(address).Hex()), nil
}

type Client struct {
	eth *ethclient.Client
}

func Dial(rpcURL string) (*Client, error) {
	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", pkgerrors.ErrChainUnavailable, rpcURL, err)
	}
	return &Client{eth: eth}, nil
}

func (c *Client) BlockHeight(ctx context.Context) (uint64, error) {
	height, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: block number: %v", pkgerrors.ErrChainUnavailable, err)
	}
	return height, nil
}

func (c *Client) Balance(ctx context.Context, address string) (string, error) {
	balance, err := c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", fmt.Errorf("%w: balance of %s: %v", pkgerrors.ErrChainUnavailable, address, err)
	}
	return balance.String(), nil
}

func (c *Client) Bytecode(ctx context.Context, address string) (string, error) {
	code, err := c.eth.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", fmt.Errorf("%w: code at %s: %v", pkgerrors.ErrChainUnavailable, address, err)
	}
	return "0x" + hex.EncodeToString(code), nil
}

func (c *Client) Close() {
	c.eth.Close()
}
