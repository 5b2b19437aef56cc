/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package migration

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/endorsement"
)

// Wire parameter and result types of the legacy mapping registry.

type CreateDidMappingParams struct {
	Identity         common.Address `json:"identity"`
	LegacyIdentifier string         `json:"legacyIdentifier"`
	NewDid           string         `json:"newDid"`
	Ed25519Key       []byte         `json:"ed25519Key"`
	Ed25519Signature []byte         `json:"ed25519Signature"`
}

type CreateDidMappingSignedParams struct {
	CreateDidMappingParams
	Signature endorsement.SignatureData `json:"signature"`
}

type CreateResourceMappingParams struct {
	Identity         common.Address `json:"identity"`
	LegacyIssuerID   string         `json:"legacyIssuerId"`
	LegacyResourceID string         `json:"legacyResourceId"`
	NewResourceID    string         `json:"newResourceId"`
}

type CreateResourceMappingSignedParams struct {
	CreateResourceMappingParams
	Signature endorsement.SignatureData `json:"signature"`
}

type GetDidMappingParams struct {
	LegacyIdentifier string `json:"legacyIdentifier"`
}

// GetDidMappingResult carries the mapped DID, or an empty string when no
// mapping exists.
type GetDidMappingResult struct {
	DID string `json:"did"`
}

type GetResourceMappingParams struct {
	LegacyResourceID string `json:"legacyResourceId"`
}

// GetResourceMappingResult carries the mapped resource id, or an empty
// string when no mapping exists.
type GetResourceMappingResult struct {
	ResourceID string `json:"resourceId"`
}

// Event names emitted by the legacy mapping registry.
const (
	EventDidMappingCreated      = "DidMappingCreated"
	EventResourceMappingCreated = "ResourceMappingCreated"
)

// DidMappingCreatedEvent is the payload of EventDidMappingCreated.
type DidMappingCreatedEvent struct {
	LegacyIdentifier string         `json:"legacyIdentifier"`
	NewDid           string         `json:"newDid"`
	Identity         common.Address `json:"identity"`
}

// ResourceMappingCreatedEvent is the payload of EventResourceMappingCreated.
type ResourceMappingCreatedEvent struct {
	LegacyResourceID string         `json:"legacyResourceId"`
	NewResourceID    string         `json:"newResourceId"`
	Identity         common.Address `json:"identity"`
}
