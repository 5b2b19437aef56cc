/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ledger defines the transaction, receipt and event types shared by
// the on-ledger registries and the off-chain client, together with an
// in-process ledger engine that executes registry calls atomically.
package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trustbloc/besu-vdr/pkg/endorsement"
)

// Transaction is a write operation addressed at a registry contract. The
// sender signs the transaction hash with its own key; an endorsed operation
// additionally carries the author's signature inside Data.
type Transaction struct {
	From      common.Address             `json:"from"`
	To        common.Address             `json:"to"`
	Nonce     uint64                     `json:"nonce"`
	Data      []byte                     `json:"data"`
	Signature *endorsement.SignatureData `json:"signature,omitempty"`
}

// SigningBytes returns the digest the sender must sign before submission.
func (t *Transaction) SigningBytes() []byte {
	buf := make([]byte, 0, 2*common.AddressLength+8+len(t.Data))
	buf = append(buf, t.From.Bytes()...)
	buf = append(buf, t.To.Bytes()...)
	buf = appendUint64(buf, t.Nonce)
	buf = append(buf, t.Data...)

	return crypto.Keccak256(buf)
}

// Hash returns the transaction hash used to look up the receipt.
func (t *Transaction) Hash() []byte {
	buf := t.SigningBytes()
	if t.Signature != nil {
		compact := t.Signature.Compact()
		buf = append(buf, compact[:]...)
	}

	return crypto.Keccak256(buf)
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}

	return append(buf, b[:]...)
}

// Event is a log entry emitted by a registry on a successful state change.
// For revocation entries and DID attributes the event log is the only place
// history is retrievable.
type Event struct {
	Address     common.Address  `json:"address"`
	Name        string          `json:"name"`
	Topics      []string        `json:"topics"`
	Data        json.RawMessage `json:"data"`
	BlockNumber uint64          `json:"blockNumber"`
	TxHash      string          `json:"transactionHash"`
}

// EventQuery selects events by emitting contract, event name, topics and
// block range. Zero ToBlock means "latest".
type EventQuery struct {
	Address   common.Address `json:"address"`
	Name      string         `json:"name,omitempty"`
	Topics    []string       `json:"topics,omitempty"`
	FromBlock uint64         `json:"fromBlock,omitempty"`
	ToBlock   uint64         `json:"toBlock,omitempty"`
}

// Receipt reports the outcome of a submitted transaction.
type Receipt struct {
	TxHash       string  `json:"transactionHash"`
	BlockNumber  uint64  `json:"blockNumber"`
	BlockHash    string  `json:"blockHash"`
	Status       uint64  `json:"status"`
	RevertReason string  `json:"revertReason,omitempty"`
	Events       []Event `json:"logs"`
}

const (
	// ReceiptStatusCommitted marks a transaction whose state change was applied.
	ReceiptStatusCommitted uint64 = 1
	// ReceiptStatusReverted marks a transaction rejected by a precondition;
	// no state was changed and no events were emitted.
	ReceiptStatusReverted uint64 = 0
)

// JSON serializes the receipt the way the RPC boundary exposes it.
func (r *Receipt) JSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}

	return string(b), nil
}

// ParseReceipt deserializes a receipt from its RPC JSON form.
func ParseReceipt(data string) (*Receipt, error) {
	var r Receipt
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}

	return &r, nil
}

// BlockInfo carries the number and timestamp of the block a call executes in.
type BlockInfo struct {
	Number uint64 `json:"number"`
	Time   int64  `json:"timestamp"`
}

// PingStatus reports whether the connected node and network are alive.
type PingStatus struct {
	Ok             bool   `json:"ok"`
	BlockNumber    uint64 `json:"blockNumber,omitempty"`
	BlockTimestamp int64  `json:"blockTimestamp,omitempty"`
	Message        string `json:"message,omitempty"`
}

// HashHex renders a transaction or block hash for transport.
func HashHex(hash []byte) string {
	return hexutil.Encode(hash)
}

// HashFromHex decodes a transport hash.
func HashFromHex(s string) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode hash %q: %w", s, err)
	}

	return b, nil
}
