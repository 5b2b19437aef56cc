/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrReceiptNotFound is returned while a transaction is still pending; the
// client treats it as transient and retries with backoff.
var ErrReceiptNotFound = errors.New("receipt not found")

// ErrInvalidTransactionSignature is returned when the sender signature does
// not recover to the declared sender.
var ErrInvalidTransactionSignature = errors.New("transaction signature does not match sender")

// UnknownContractError indicates a transaction addressed at an address with
// no registry behind it.
type UnknownContractError struct {
	Address common.Address
}

func (e *UnknownContractError) Error() string {
	return fmt.Sprintf("no contract at address %s", e.Address.Hex())
}

// UnknownMethodError indicates a call to a method the registry does not
// expose.
type UnknownMethodError struct {
	Contract string
	Method   string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("contract %s has no method %q", e.Contract, e.Method)
}

// NonceMismatchError indicates an out-of-order transaction for a sender.
type NonceMismatchError struct {
	Sender   common.Address
	Expected uint64
	Got      uint64
}

func (e *NonceMismatchError) Error() string {
	return fmt.Sprintf("nonce mismatch for %s: expected %d, got %d",
		e.Sender.Hex(), e.Expected, e.Got)
}
