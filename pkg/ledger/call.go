/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Contract is a registry deployed at an address on the ledger. Call
// dispatches a wire-encoded method invocation; typed methods remain
// available for in-process use.
type Contract interface {
	Address() common.Address
	Name() string
	Call(env *CallEnv, method string, params []byte) ([]byte, error)
}

type callPayload struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// EncodeCall packs a method invocation into transaction data.
func EncodeCall(method string, params interface{}) ([]byte, error) {
	p, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params for %q: %w", method, err)
	}

	data, err := json.Marshal(callPayload{Method: method, Params: p})
	if err != nil {
		return nil, fmt.Errorf("encode call %q: %w", method, err)
	}

	return data, nil
}

// DecodeCall unpacks transaction data into a method name and raw params.
func DecodeCall(data []byte) (string, json.RawMessage, error) {
	var p callPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return "", nil, fmt.Errorf("decode call data: %w", err)
	}
	if p.Method == "" {
		return "", nil, fmt.Errorf("decode call data: missing method")
	}

	return p.Method, p.Params, nil
}

// CallEnv is the execution context threaded through every registry call:
// the transaction sender, the block being built, the transactional state
// view and the event sink.
type CallEnv struct {
	Sender common.Address
	Block  BlockInfo
	State  *Txn

	events []Event
}

// NewCallEnv builds an execution context over an open state transaction.
func NewCallEnv(sender common.Address, block BlockInfo, state *Txn) *CallEnv {
	return &CallEnv{Sender: sender, Block: block, State: state}
}

// Emit records an event to be published if and only if the call commits.
func (e *CallEnv) Emit(address common.Address, name string, topics []string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode event %q: %w", name, err)
	}

	e.events = append(e.events, Event{
		Address:     address,
		Name:        name,
		Topics:      topics,
		Data:        raw,
		BlockNumber: e.Block.Number,
	})

	return nil
}

// Events returns the events emitted so far within this call.
func (e *CallEnv) Events() []Event {
	return e.events
}
