/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tidwall/gjson"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/besu-vdr/internal/logfields"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

var logger = log.New("ledger-client")

const (
	defaultReceiptInterval = 50 * time.Millisecond
	defaultReceiptTimeout  = 30 * time.Second
)

// Ledger is the node surface the client depends on. The in-process engine
// and the HTTP node client both satisfy it.
type Ledger interface {
	Submit(ctx context.Context, tx *ledger.Transaction) ([]byte, error)
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	GetReceipt(ctx context.Context, hash []byte) (string, error)
	QueryEvents(ctx context.Context, query *ledger.EventQuery) ([]ledger.Event, error)
	Ping(ctx context.Context) (*ledger.PingStatus, error)
	TransactionCount(ctx context.Context, account common.Address) (uint64, error)
}

// LedgerClient builds, signs and submits registry transactions against a
// configured contract address book. Per-sender nonces are serialized under a
// mutex so concurrent writers from one account do not race each other.
type LedgerClient struct {
	node      Ledger
	contracts map[string]common.Address

	nonceMu sync.Mutex
	nonces  map[common.Address]uint64

	receiptInterval time.Duration
	receiptTimeout  time.Duration
}

// ClientOpt configures a LedgerClient.
type ClientOpt func(*LedgerClient)

// WithReceiptPolling overrides the receipt polling interval and timeout.
func WithReceiptPolling(interval, timeout time.Duration) ClientOpt {
	return func(c *LedgerClient) {
		c.receiptInterval = interval
		c.receiptTimeout = timeout
	}
}

// NewLedgerClient connects the client to a node and its deployed contracts.
func NewLedgerClient(node Ledger, contracts map[string]common.Address,
	opts ...ClientOpt) *LedgerClient {
	c := &LedgerClient{
		node:            node,
		contracts:       contracts,
		nonces:          make(map[common.Address]uint64),
		receiptInterval: defaultReceiptInterval,
		receiptTimeout:  defaultReceiptTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ContractAddress returns the configured address of a named contract.
func (c *LedgerClient) ContractAddress(name string) (common.Address, error) {
	addr, ok := c.contracts[name]
	if !ok {
		return common.Address{}, &UnknownContractNameError{Name: name}
	}

	return addr, nil
}

// NewTransaction builds an unsigned transaction invoking a contract method.
func (c *LedgerClient) NewTransaction(ctx context.Context, from common.Address,
	contractName, method string, params interface{}) (*ledger.Transaction, error) {
	to, err := c.ContractAddress(contractName)
	if err != nil {
		return nil, err
	}

	data, err := ledger.EncodeCall(method, params)
	if err != nil {
		return nil, err
	}

	nonce, err := c.nextNonce(ctx, from)
	if err != nil {
		return nil, err
	}

	return &ledger.Transaction{
		From:  from,
		To:    to,
		Nonce: nonce,
		Data:  data,
	}, nil
}

// nextNonce reserves the next transaction nonce for a sender, reconciling
// the local counter with the node's view.
func (c *LedgerClient) nextNonce(ctx context.Context, from common.Address) (uint64, error) {
	c.nonceMu.Lock()
	defer c.nonceMu.Unlock()

	remote, err := c.node.TransactionCount(ctx, from)
	if err != nil {
		return 0, err
	}

	nonce := remote
	if cached, ok := c.nonces[from]; ok && cached > nonce {
		nonce = cached
	}

	c.nonces[from] = nonce + 1

	return nonce, nil
}

// SubmitTransaction submits a signed transaction and returns its hash.
func (c *LedgerClient) SubmitTransaction(ctx context.Context,
	tx *ledger.Transaction) ([]byte, error) {
	hash, err := c.node.Submit(ctx, tx)
	if err != nil {
		return nil, err
	}

	logger.Debug("transaction submitted", logfields.WithTxHash(ledger.HashHex(hash)))

	return hash, nil
}

// WaitForReceipt polls the node until the transaction's receipt appears.
// Only a missing receipt is retried; any other node error is returned
// immediately.
func (c *LedgerClient) WaitForReceipt(ctx context.Context, hash []byte) (*ledger.Receipt, error) {
	var receiptJSON string

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewConstantBackOff(c.receiptInterval),
		uint64(c.receiptTimeout/c.receiptInterval)), ctx)

	err := backoff.Retry(func() error {
		var err error

		receiptJSON, err = c.node.GetReceipt(ctx, hash)
		if err != nil {
			if errors.Is(err, ledger.ErrReceiptNotFound) {
				return err
			}

			return backoff.Permanent(err)
		}

		return nil
	}, policy)
	if err != nil {
		return nil, err
	}

	return ledger.ParseReceipt(receiptJSON)
}

// SubmitAndWait submits a transaction and blocks until its receipt arrives.
// A reverted receipt surfaces as TransactionRevertedError carrying the
// registry's reason.
func (c *LedgerClient) SubmitAndWait(ctx context.Context,
	tx *ledger.Transaction) (*ledger.Receipt, error) {
	hash, err := c.SubmitTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	receiptJSON, err := c.waitForReceiptJSON(ctx, hash)
	if err != nil {
		return nil, err
	}

	if gjson.Get(receiptJSON, "status").Uint() != ledger.ReceiptStatusCommitted {
		return nil, &TransactionRevertedError{
			Reason: gjson.Get(receiptJSON, "revertReason").String(),
		}
	}

	return ledger.ParseReceipt(receiptJSON)
}

func (c *LedgerClient) waitForReceiptJSON(ctx context.Context, hash []byte) (string, error) {
	receipt, err := c.WaitForReceipt(ctx, hash)
	if err != nil {
		return "", err
	}

	return receipt.JSON()
}

// CallContract performs a read-only contract call and decodes the JSON
// result into out. A nil out discards the result.
func (c *LedgerClient) CallContract(ctx context.Context, contractName, method string,
	params, out interface{}) error {
	to, err := c.ContractAddress(contractName)
	if err != nil {
		return err
	}

	data, err := ledger.EncodeCall(method, params)
	if err != nil {
		return err
	}

	result, err := c.node.Call(ctx, to, data)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(result, out)
}

// QueryEvents returns the events a named contract emitted, optionally
// filtered by event name, topics and block range.
func (c *LedgerClient) QueryEvents(ctx context.Context, contractName string,
	query *ledger.EventQuery) ([]ledger.Event, error) {
	to, err := c.ContractAddress(contractName)
	if err != nil {
		return nil, err
	}

	q := *query
	q.Address = to

	return c.node.QueryEvents(ctx, &q)
}

// Ping reports the node's liveness and chain head.
func (c *LedgerClient) Ping(ctx context.Context) (*ledger.PingStatus, error) {
	return c.node.Ping(ctx)
}
