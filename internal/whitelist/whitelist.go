// Package whitelist is a thin client for the on-chain ERC4626 vault
// whitelist. It holds no state of its own: construction dials the node,
// binds the contract, and every operation is a single call or transaction.
package whitelist

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

const contractABI = `[
	{"inputs":[{"internalType":"address","name":"vault","type":"address"}],"name":"addVault","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"address","name":"vault","type":"address"}],"name":"removeVault","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"address","name":"vault","type":"address"}],"name":"isWhitelisted","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"view","type":"function"}
]`

// Config carries everything the client needs, passed in explicitly; the
// package reads no environment.
type Config struct {
	RPCURL          string
	PrivateKey      string // hex-encoded secp256k1 signing key
	ContractAddress string
}

// Validate rejects a config that cannot possibly dial.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return errors.New("whitelist: empty RPC endpoint")
	}
	if c.PrivateKey == "" {
		return errors.New("whitelist: empty signing key")
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return errors.Errorf("whitelist: invalid contract address %q", c.ContractAddress)
	}
	return nil
}

// Client talks to one whitelist contract with one signing identity.
type Client struct {
	eth      *ethclient.Client
	contract *bind.BoundContract
	signer   *bind.TransactOpts
}

// Dial connects to the node named by cfg and binds the whitelist contract.
// The chain id is taken from the node, not configured.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial rpc")
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, errors.Wrap(err, "query chain id")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		eth.Close()
		return nil, errors.Wrap(err, "parse signing key")
	}
	signer, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		eth.Close()
		return nil, errors.Wrap(err, "build transactor")
	}
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		eth.Close()
		return nil, errors.Wrap(err, "parse contract abi")
	}

	return &Client{
		eth:      eth,
		contract: bind.NewBoundContract(common.HexToAddress(cfg.ContractAddress), parsed, eth, eth, eth),
		signer:   signer,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() { c.eth.Close() }

// AddVault submits an addVault transaction and returns its hash. It does
// not wait for inclusion.
func (c *Client) AddVault(ctx context.Context, vault common.Address) (common.Hash, error) {
	opts := *c.signer
	opts.Context = ctx
	tx, err := c.contract.Transact(&opts, "addVault", vault)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "addVault %s", vault.Hex())
	}
	return tx.Hash(), nil
}

// RemoveVault submits a removeVault transaction and returns its hash.
func (c *Client) RemoveVault(ctx context.Context, vault common.Address) (common.Hash, error) {
	opts := *c.signer
	opts.Context = ctx
	tx, err := c.contract.Transact(&opts, "removeVault", vault)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "removeVault %s", vault.Hex())
	}
	return tx.Hash(), nil
}

// IsWhitelisted reads the membership flag for vault.
func (c *Client) IsWhitelisted(ctx context.Context, vault common.Address) (bool, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isWhitelisted", vault); err != nil {
		return false, errors.Wrapf(err, "isWhitelisted %s", vault.Hex())
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}
