/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/internal/logfields"
)

const (
	defaultQuorumInterval = 100 * time.Millisecond
	defaultQuorumRetries  = 5
)

// QuorumChecker re-reads written data from a set of independent nodes and
// confirms that a majority of them return the expected bytes. It guards
// against a single node acknowledging a write the rest of the network never
// saw.
type QuorumChecker struct {
	nodes    []Ledger
	interval time.Duration
	retries  uint64
}

// QuorumOpt configures a QuorumChecker.
type QuorumOpt func(*QuorumChecker)

// WithQuorumRetry overrides the per-node retry interval and budget.
func WithQuorumRetry(interval time.Duration, retries uint64) QuorumOpt {
	return func(q *QuorumChecker) {
		q.interval = interval
		q.retries = retries
	}
}

// NewQuorumChecker builds a checker over the given nodes.
func NewQuorumChecker(nodes []Ledger, opts ...QuorumOpt) *QuorumChecker {
	q := &QuorumChecker{
		nodes:    nodes,
		interval: defaultQuorumInterval,
		retries:  defaultQuorumRetries,
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Required returns the number of confirmations a quorum needs: a strict
// majority of the configured nodes.
func (q *QuorumChecker) Required() int {
	return len(q.nodes)/2 + 1
}

// CheckCall confirms that a quorum of nodes answers a read-only contract
// call with the expected bytes. Each node is polled with a bounded constant
// backoff so slightly lagging nodes get time to catch up.
func (q *QuorumChecker) CheckCall(ctx context.Context, to common.Address,
	data, expected []byte) error {
	confirmed := 0

	for i, node := range q.nodes {
		if err := q.confirm(ctx, node, to, data, expected); err != nil {
			logger.Debug("node did not confirm data",
				logfields.WithNode(nodeName(i)), logfields.WithAddress(to))

			continue
		}

		confirmed++
	}

	if confirmed < q.Required() {
		return &QuorumNotReachedError{Confirmed: confirmed, Required: q.Required()}
	}

	return nil
}

func (q *QuorumChecker) confirm(ctx context.Context, node Ledger, to common.Address,
	data, expected []byte) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewConstantBackOff(q.interval), q.retries), ctx)

	return backoff.Retry(func() error {
		result, err := node.Call(ctx, to, data)
		if err != nil {
			return err
		}

		if !bytes.Equal(result, expected) {
			return &QuorumNotReachedError{Confirmed: 0, Required: 1}
		}

		return nil
	}, policy)
}

func nodeName(i int) string {
	return "node-" + strconv.Itoa(i)
}
