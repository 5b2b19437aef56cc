/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

const requestIDHeader = "X-Request-ID"

// NodeClient talks to a ledger node over HTTP. It satisfies the same surface
// as the in-process engine, so registry clients can switch between them
// freely.
type NodeClient struct {
	baseURL string
	http    *http.Client
}

// NewNodeClient connects to a node at the given base URL. A nil httpClient
// falls back to http.DefaultClient.
func NewNodeClient(baseURL string, httpClient *http.Client) *NodeClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &NodeClient{baseURL: baseURL, http: httpClient}
}

// Submit sends a signed transaction to the node and returns its hash.
func (c *NodeClient) Submit(ctx context.Context, tx *ledger.Transaction) ([]byte, error) {
	body, err := c.post(ctx, "/transactions", tx)
	if err != nil {
		return nil, err
	}

	return ledger.HashFromHex(gjson.GetBytes(body, "transactionHash").String())
}

// Call performs a read-only contract call through the node.
func (c *NodeClient) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	body, err := c.post(ctx, "/calls", &callRequest{To: to, Data: data})
	if err != nil {
		return nil, err
	}

	var resp callResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode call response: %w", err)
	}

	return resp.Result, nil
}

// GetReceipt fetches a transaction receipt by hash.
func (c *NodeClient) GetReceipt(ctx context.Context, hash []byte) (string, error) {
	body, status, err := c.get(ctx, "/receipts/"+ledger.HashHex(hash))
	if err != nil {
		return "", err
	}

	if status == http.StatusNotFound {
		return "", ledger.ErrReceiptNotFound
	}

	if status != http.StatusOK {
		return "", nodeError(body, status)
	}

	return string(body), nil
}

// QueryEvents fetches the events matching a query.
func (c *NodeClient) QueryEvents(ctx context.Context,
	query *ledger.EventQuery) ([]ledger.Event, error) {
	body, err := c.post(ctx, "/events", query)
	if err != nil {
		return nil, err
	}

	var events []ledger.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	return events, nil
}

// Ping reports the node's liveness and chain head.
func (c *NodeClient) Ping(ctx context.Context) (*ledger.PingStatus, error) {
	body, status, err := c.get(ctx, "/ping")
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, nodeError(body, status)
	}

	var ping ledger.PingStatus
	if err := json.Unmarshal(body, &ping); err != nil {
		return nil, fmt.Errorf("decode ping status: %w", err)
	}

	return &ping, nil
}

// TransactionCount returns the number of transactions an account has
// submitted, which is also its next nonce.
func (c *NodeClient) TransactionCount(ctx context.Context, account common.Address) (uint64, error) {
	body, status, err := c.get(ctx, "/accounts/"+account.Hex()+"/count")
	if err != nil {
		return 0, err
	}

	if status != http.StatusOK {
		return 0, nodeError(body, status)
	}

	return gjson.GetBytes(body, "count").Uint(), nil
}

func (c *NodeClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nodeError(body, resp.StatusCode)
	}

	return body, nil
}

func (c *NodeClient) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

func nodeError(body []byte, status int) error {
	message := gjson.GetBytes(body, "message").String()
	if message == "" {
		message = string(body)
	}

	return fmt.Errorf("node returned status %d: %s", status, message)
}
