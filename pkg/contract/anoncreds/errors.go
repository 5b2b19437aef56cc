/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// SchemaAlreadyExistError indicates a schema id hash collision.
type SchemaAlreadyExistError struct {
	ID string
}

func (e *SchemaAlreadyExistError) Error() string {
	return fmt.Sprintf("schema already exists: %s", e.ID)
}

// SchemaNotFoundError indicates a lookup miss for a schema.
type SchemaNotFoundError struct {
	IDHash common.Hash
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("schema not found: %s", e.IDHash.Hex())
}

// CredentialDefinitionAlreadyExistError indicates a credential definition id
// hash collision.
type CredentialDefinitionAlreadyExistError struct {
	ID string
}

func (e *CredentialDefinitionAlreadyExistError) Error() string {
	return fmt.Sprintf("credential definition already exists: %s", e.ID)
}

// CredentialDefinitionNotFoundError indicates a lookup miss for a credential
// definition.
type CredentialDefinitionNotFoundError struct {
	IDHash common.Hash
}

func (e *CredentialDefinitionNotFoundError) Error() string {
	return fmt.Sprintf("credential definition not found: %s", e.IDHash.Hex())
}

// RevocationRegistryDefinitionAlreadyExistError indicates a revocation
// registry definition id hash collision.
type RevocationRegistryDefinitionAlreadyExistError struct {
	ID string
}

func (e *RevocationRegistryDefinitionAlreadyExistError) Error() string {
	return fmt.Sprintf("revocation registry definition already exists: %s", e.ID)
}

// RevocationRegistryDefinitionNotFoundError indicates a lookup miss for a
// revocation registry definition.
type RevocationRegistryDefinitionNotFoundError struct {
	IDHash common.Hash
}

func (e *RevocationRegistryDefinitionNotFoundError) Error() string {
	return fmt.Sprintf("revocation registry definition not found: %s", e.IDHash.Hex())
}

// AccumulatorMismatchError indicates a revocation entry whose previous
// accumulator does not chain from the stored one.
type AccumulatorMismatchError struct {
	Stored []byte
	Got    []byte
}

func (e *AccumulatorMismatchError) Error() string {
	return fmt.Sprintf("accumulator mismatch: entry chains from %x, registry holds %x",
		e.Got, e.Stored)
}

// IssuerHasBeenDeactivatedError indicates a write against the authority of a
// deactivated issuer DID.
type IssuerHasBeenDeactivatedError struct {
	IssuerDID string
}

func (e *IssuerHasBeenDeactivatedError) Error() string {
	return fmt.Sprintf("issuer DID has been deactivated: %s", e.IssuerDID)
}

// InvalidIssuerIDError indicates a malformed issuer DID string.
type InvalidIssuerIDError struct {
	IssuerDID string
	Reason    string
}

func (e *InvalidIssuerIDError) Error() string {
	return fmt.Sprintf("invalid issuer id %q: %s", e.IssuerDID, e.Reason)
}

// CredentialStatusTransitionError indicates a status change outside the
// allowed transitions.
type CredentialStatusTransitionError struct {
	From CredentialStatus
	To   CredentialStatus
}

func (e *CredentialStatusTransitionError) Error() string {
	return fmt.Sprintf("cannot change credential status from %s to %s", e.From, e.To)
}

// NotRevocationCreatorError indicates a revocation status transition by an
// account other than the record's original creator.
type NotRevocationCreatorError struct {
	Actor   common.Address
	Creator common.Address
}

func (e *NotRevocationCreatorError) Error() string {
	return fmt.Sprintf("account %s did not create this revocation registry (creator %s)",
		e.Actor.Hex(), e.Creator.Hex())
}
