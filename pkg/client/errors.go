/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import "fmt"

// TransactionRevertedError indicates a transaction that was rejected by a
// registry. The reason is the registry's own error text.
type TransactionRevertedError struct {
	Reason string
}

func (e *TransactionRevertedError) Error() string {
	return fmt.Sprintf("transaction reverted: %s", e.Reason)
}

// UnknownContractNameError indicates a contract name outside the client's
// configured address book.
type UnknownContractNameError struct {
	Name string
}

func (e *UnknownContractNameError) Error() string {
	return fmt.Sprintf("no address configured for contract %q", e.Name)
}

// QuorumNotReachedError indicates that too few nodes confirmed the expected
// data within the retry budget.
type QuorumNotReachedError struct {
	Confirmed int
	Required  int
}

func (e *QuorumNotReachedError) Error() string {
	return fmt.Sprintf("quorum not reached: %d of %d required confirmations",
		e.Confirmed, e.Required)
}
