/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trustbloc/besu-vdr/pkg/endorsement"
)

// IDHash computes the 32-byte content address of a resource id string.
func IDHash(id string) common.Hash {
	return crypto.Keccak256Hash([]byte(id))
}

// ResourceMetadata is stored alongside every on-ledger resource record.
type ResourceMetadata struct {
	Created int64 `json:"created"`
}

// SchemaRecord is the stored form of a schema.
type SchemaRecord struct {
	Schema    string           `json:"schema"`
	IssuerDID string           `json:"issuerDid"`
	Metadata  ResourceMetadata `json:"metadata"`
}

// CredentialDefinitionRecord is the stored form of a credential definition.
type CredentialDefinitionRecord struct {
	CredDef   string           `json:"credDef"`
	IssuerDID string           `json:"issuerDid"`
	Metadata  ResourceMetadata `json:"metadata"`
}

// RevocationRegistryDefinitionRecord is the stored form of a revocation
// registry definition together with its live revocation state.
type RevocationRegistryDefinitionRecord struct {
	RevRegDef          string           `json:"revRegDef"`
	Creator            common.Address   `json:"creator"`
	IssuerDID          string           `json:"issuerDid"`
	CurrentAccumulator []byte           `json:"currentAccumulator"`
	Status             CredentialStatus `json:"status"`
	Metadata           ResourceMetadata `json:"metadata"`
}

// CredentialStatus is the tri-state revocation status of a registry.
type CredentialStatus uint8

const (
	StatusActive CredentialStatus = iota
	StatusSuspended
	StatusRevoked
)

func (s CredentialStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusSuspended:
		return "suspended"
	case StatusRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// RevocationRegistryEntry is carried in entry events; the event log is the
// only storage for the entry history.
type RevocationRegistryEntry struct {
	CurrentAccumulator []byte   `json:"currentAccumulator"`
	PrevAccumulator    []byte   `json:"prevAccumulator"`
	Issued             []uint64 `json:"issued"`
	Revoked            []uint64 `json:"revoked"`
	Timestamp          uint64   `json:"timestamp"`
}

// Wire parameter and result types.

type CreateSchemaParams struct {
	Identity common.Address `json:"identity"`
	ID       string         `json:"id"`
	IssuerID string         `json:"issuerId"`
	Schema   string         `json:"schema"`
}

type CreateSchemaSignedParams struct {
	CreateSchemaParams
	Signature endorsement.SignatureData `json:"signature"`
}

type ResolveSchemaParams struct {
	IDHash common.Hash `json:"idHash"`
}

type CreateCredentialDefinitionParams struct {
	Identity common.Address `json:"identity"`
	ID       string         `json:"id"`
	IssuerID string         `json:"issuerId"`
	SchemaID string         `json:"schemaId"`
	CredDef  string         `json:"credDef"`
}

type CreateCredentialDefinitionSignedParams struct {
	CreateCredentialDefinitionParams
	Signature endorsement.SignatureData `json:"signature"`
}

type ResolveCredentialDefinitionParams struct {
	IDHash common.Hash `json:"idHash"`
}

type CreateRevocationRegistryDefinitionParams struct {
	Identity  common.Address `json:"identity"`
	ID        string         `json:"id"`
	IssuerID  string         `json:"issuerId"`
	CredDefID string         `json:"credDefId"`
	RevRegDef string         `json:"revRegDef"`
}

type CreateRevocationRegistryDefinitionSignedParams struct {
	CreateRevocationRegistryDefinitionParams
	Signature endorsement.SignatureData `json:"signature"`
}

type CreateRevocationRegistryEntryParams struct {
	Identity common.Address          `json:"identity"`
	RevRegID string                  `json:"revRegId"`
	IssuerID string                  `json:"issuerId"`
	Entry    RevocationRegistryEntry `json:"entry"`
}

type CreateRevocationRegistryEntrySignedParams struct {
	CreateRevocationRegistryEntryParams
	Signature endorsement.SignatureData `json:"signature"`
}

type ChangeCredentialStatusParams struct {
	Identity common.Address `json:"identity"`
	RevRegID string         `json:"revRegId"`
}

type ChangeCredentialStatusSignedParams struct {
	ChangeCredentialStatusParams
	Signature endorsement.SignatureData `json:"signature"`
}

type ResolveRevocationRegistryDefinitionParams struct {
	IDHash common.Hash `json:"idHash"`
}

type CredentialStatusParams struct {
	RevRegID string `json:"revRegId"`
}

type CredentialStatusResult struct {
	Status CredentialStatus `json:"status"`
}

// Event names emitted by the resource registries.
const (
	EventSchemaCreated                       = "SchemaCreated"
	EventCredentialDefinitionCreated         = "CredentialDefinitionCreated"
	EventRevocationRegistryDefinitionCreated = "RevocationRegistryDefinitionCreated"
	EventRevocationRegistryEntryCreated      = "RevocationRegistryEntryCreated"
	EventCredentialStatusChanged             = "CredentialStatusChanged"
)

// SchemaCreatedEvent is the payload of EventSchemaCreated.
type SchemaCreatedEvent struct {
	IDHash   common.Hash    `json:"idHash"`
	Identity common.Address `json:"identity"`
}

// CredentialDefinitionCreatedEvent is the payload of
// EventCredentialDefinitionCreated.
type CredentialDefinitionCreatedEvent struct {
	IDHash   common.Hash    `json:"idHash"`
	Identity common.Address `json:"identity"`
}

// RevocationRegistryDefinitionCreatedEvent is the payload of
// EventRevocationRegistryDefinitionCreated.
type RevocationRegistryDefinitionCreatedEvent struct {
	IDHash   common.Hash    `json:"idHash"`
	Identity common.Address `json:"identity"`
}

// RevocationRegistryEntryCreatedEvent is the payload of
// EventRevocationRegistryEntryCreated.
type RevocationRegistryEntryCreatedEvent struct {
	IDHash    common.Hash             `json:"idHash"`
	Timestamp uint64                  `json:"timestamp"`
	Entry     RevocationRegistryEntry `json:"entry"`
}

// CredentialStatusChangedEvent is the payload of EventCredentialStatusChanged.
type CredentialStatusChangedEvent struct {
	IDHash   common.Hash      `json:"idHash"`
	Identity common.Address   `json:"identity"`
	Status   CredentialStatus `json:"status"`
}
