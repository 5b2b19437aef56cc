/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// IncorrectDidError indicates a malformed DID string or an identifier that
// is not convertible to an account address.
type IncorrectDidError struct {
	DID string
}

func (e *IncorrectDidError) Error() string {
	return fmt.Sprintf("incorrect DID %q", e.DID)
}

// UnsupportedDidMethodError indicates a DID method outside the supported
// set.
type UnsupportedDidMethodError struct {
	Method string
}

func (e *UnsupportedDidMethodError) Error() string {
	return fmt.Sprintf("DID method %q is not supported", e.Method)
}

// UnsupportedOperationError indicates an operation the DID method does not
// provide, such as resolving a document for an address-identity DID.
type UnsupportedOperationError struct {
	Method    string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %q is not supported for DID method %q", e.Operation, e.Method)
}

// DidNotFoundError indicates there is no record for the DID.
type DidNotFoundError struct {
	DID string
}

func (e *DidNotFoundError) Error() string {
	return fmt.Sprintf("DID not found: %s", e.DID)
}

// DidAlreadyExistError indicates a create for an identity that already has a
// record.
type DidAlreadyExistError struct {
	DID string
}

func (e *DidAlreadyExistError) Error() string {
	return fmt.Sprintf("DID already exists: %s", e.DID)
}

// DidHasBeenDeactivatedError indicates a write against a deactivated DID.
// Deactivation is terminal.
type DidHasBeenDeactivatedError struct {
	DID string
}

func (e *DidHasBeenDeactivatedError) Error() string {
	return fmt.Sprintf("DID has been deactivated: %s", e.DID)
}

// NotIdentityOwnerError indicates the acting account, whether the sender or
// the signature-recovered author, does not own the identity it operates on.
type NotIdentityOwnerError struct {
	Actor common.Address
	Owner common.Address
}

func (e *NotIdentityOwnerError) Error() string {
	return fmt.Sprintf("account %s is not the identity owner %s", e.Actor.Hex(), e.Owner.Hex())
}

// InvalidDidDocumentError indicates an empty or unusable DID document
// payload.
type InvalidDidDocumentError struct {
	Reason string
}

func (e *InvalidDidDocumentError) Error() string {
	return fmt.Sprintf("invalid DID document: %s", e.Reason)
}
