/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/besu-vdr/internal/logfields"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
)

var logger = log.New("ledger")

// MemoryLedger executes registry transactions one at a time against an
// explicit state store. Writes are all-or-nothing: a rejected call leaves no
// state change and emits no events. The append-only event log is first-class
// storage, not a replayable side effect.
type MemoryLedger struct {
	mu        sync.Mutex
	store     *Store
	contracts map[common.Address]Contract
	events    []Event
	receipts  map[string]*Receipt
	counts    map[common.Address]uint64
	block     BlockInfo
	now       func() time.Time
}

// Option configures a MemoryLedger.
type Option func(*MemoryLedger)

// WithClock overrides the block timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *MemoryLedger) {
		l.now = now
	}
}

// NewMemoryLedger creates a ledger over the given store.
func NewMemoryLedger(store *Store, opts ...Option) *MemoryLedger {
	l := &MemoryLedger{
		store:     store,
		contracts: map[common.Address]Contract{},
		receipts:  map[string]*Receipt{},
		counts:    map[common.Address]uint64{},
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Register deploys a registry at its address.
func (l *MemoryLedger) Register(c Contract) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.contracts[c.Address()] = c

	logger.Debug("registered contract", logfields.WithContract(c.Name()),
		logfields.WithAddress(c.Address()))
}

// Genesis applies initial state (role assignments, deployed configuration)
// in block zero, outside the transaction signature checks.
func (l *MemoryLedger) Genesis(apply func(env *CallEnv) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	txn := l.store.Begin()
	env := NewCallEnv(common.Address{}, BlockInfo{Number: 0, Time: l.now().Unix()}, txn)

	if err := apply(env); err != nil {
		return err
	}

	txn.Commit()
	l.events = append(l.events, env.Events()...)

	return nil
}

// Submit verifies the sender signature and nonce, executes the addressed
// registry method in a fresh block and stores a receipt under the
// transaction hash. Logical rejections are reported through the receipt;
// the returned error covers transport-level problems only.
func (l *MemoryLedger) Submit(_ context.Context, tx *Transaction) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tx.Signature == nil {
		return nil, ErrInvalidTransactionSignature
	}

	sender, err := endorsement.Recover(common.BytesToHash(tx.SigningBytes()), *tx.Signature)
	if err != nil {
		return nil, ErrInvalidTransactionSignature
	}
	if sender.Address != tx.From {
		return nil, ErrInvalidTransactionSignature
	}

	if expected := l.counts[tx.From]; tx.Nonce != expected {
		return nil, &NonceMismatchError{Sender: tx.From, Expected: expected, Got: tx.Nonce}
	}

	contract, ok := l.contracts[tx.To]
	if !ok {
		return nil, &UnknownContractError{Address: tx.To}
	}

	method, params, err := DecodeCall(tx.Data)
	if err != nil {
		return nil, err
	}

	l.block = BlockInfo{Number: l.block.Number + 1, Time: l.now().Unix()}
	l.counts[tx.From]++

	hash := tx.Hash()
	receipt := &Receipt{
		TxHash:      HashHex(hash),
		BlockNumber: l.block.Number,
		BlockHash:   HashHex(blockHash(l.block.Number)),
	}

	txn := l.store.Begin()
	env := NewCallEnv(tx.From, l.block, txn)

	if _, err := contract.Call(env, method, params); err != nil {
		receipt.Status = ReceiptStatusReverted
		receipt.RevertReason = err.Error()

		logger.Info("transaction reverted", logfields.WithContract(contract.Name()),
			logfields.WithMethod(method), logfields.WithTxHash(receipt.TxHash),
			log.WithError(err))
	} else {
		txn.Commit()

		events := env.Events()
		for i := range events {
			events[i].TxHash = receipt.TxHash
		}
		l.events = append(l.events, events...)

		receipt.Status = ReceiptStatusCommitted
		receipt.Events = events

		logger.Debug("transaction committed", logfields.WithContract(contract.Name()),
			logfields.WithMethod(method), logfields.WithTxHash(receipt.TxHash),
			logfields.WithBlockNumber(l.block.Number))
	}

	l.receipts[receipt.TxHash] = receipt

	return hash, nil
}

// Call executes a read-only registry method against the current state
// snapshot. Any staged writes are discarded.
func (l *MemoryLedger) Call(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	contract, ok := l.contracts[to]
	if !ok {
		return nil, &UnknownContractError{Address: to}
	}

	method, params, err := DecodeCall(data)
	if err != nil {
		return nil, err
	}

	env := NewCallEnv(common.Address{}, l.block, l.store.Begin())

	return contract.Call(env, method, params)
}

// GetReceipt returns the JSON receipt for a transaction hash, or
// ErrReceiptNotFound while it is unknown.
func (l *MemoryLedger) GetReceipt(_ context.Context, hash []byte) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	receipt, ok := l.receipts[HashHex(hash)]
	if !ok {
		return "", ErrReceiptNotFound
	}

	return receipt.JSON()
}

// QueryEvents returns the events matching the query, oldest first.
func (l *MemoryLedger) QueryEvents(_ context.Context, query *EventQuery) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Event

	for _, event := range l.events {
		if event.Address != query.Address {
			continue
		}
		if query.Name != "" && event.Name != query.Name {
			continue
		}
		if event.BlockNumber < query.FromBlock {
			continue
		}
		if query.ToBlock != 0 && event.BlockNumber > query.ToBlock {
			continue
		}
		if !topicsMatch(event.Topics, query.Topics) {
			continue
		}

		out = append(out, event)
	}

	return out, nil
}

// Ping reports the latest block.
func (l *MemoryLedger) Ping(_ context.Context) (*PingStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &PingStatus{
		Ok:             true,
		BlockNumber:    l.block.Number,
		BlockTimestamp: l.block.Time,
	}, nil
}

// TransactionCount returns the number of transactions accepted from an
// account, which is also the next expected nonce.
func (l *MemoryLedger) TransactionCount(_ context.Context, account common.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.counts[account], nil
}

func topicsMatch(have, want []string) bool {
	for _, topic := range want {
		found := false
		for _, h := range have {
			if h == topic {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func blockHash(number uint64) []byte {
	return crypto.Keccak256(appendUint64([]byte("block"), number))
}
