/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/endorsement"
)

// Events.
const (
	EventDIDOwnerChanged     = "DIDOwnerChanged"
	EventDIDAttributeChanged = "DIDAttributeChanged"
	EventDIDCreated          = "DIDCreated"
	EventDIDUpdated          = "DIDUpdated"
	EventDIDDeactivated      = "DIDDeactivated"
)

// DidMetadata is the normalized ownership and activity metadata the resolver
// returns for any supported DID method. The address-identity method carries
// no document-level timestamps, so they stay zero there.
type DidMetadata struct {
	Owner        common.Address `json:"owner"`
	Created      int64          `json:"created"`
	Updated      int64          `json:"updated"`
	VersionBlock uint64         `json:"versionBlock"`
	Deactivated  bool           `json:"deactivated"`
}

// DidRecord is a stored record-method DID: the opaque document bytes plus
// metadata.
type DidRecord struct {
	Document json.RawMessage `json:"document"`
	Metadata DidMetadata     `json:"metadata"`
}

// --- ethr registry wire types ---

// ChangeOwnerParams is the wire form of changeOwner.
type ChangeOwnerParams struct {
	Identity common.Address `json:"identity"`
	NewOwner common.Address `json:"newOwner"`
}

// ChangeOwnerSignedParams is the wire form of changeOwnerSigned.
type ChangeOwnerSignedParams struct {
	Identity  common.Address            `json:"identity"`
	Signature endorsement.SignatureData `json:"signature"`
	NewOwner  common.Address            `json:"newOwner"`
}

// SetAttributeParams is the wire form of setAttribute.
type SetAttributeParams struct {
	Identity common.Address `json:"identity"`
	Name     string         `json:"name"`
	Value    []byte         `json:"value"`
	Validity uint64         `json:"validity"`
}

// SetAttributeSignedParams is the wire form of setAttributeSigned.
type SetAttributeSignedParams struct {
	Identity  common.Address            `json:"identity"`
	Signature endorsement.SignatureData `json:"signature"`
	Name      string                    `json:"name"`
	Value     []byte                    `json:"value"`
	Validity  uint64                    `json:"validity"`
}

// RevokeAttributeParams is the wire form of revokeAttribute.
type RevokeAttributeParams struct {
	Identity common.Address `json:"identity"`
	Name     string         `json:"name"`
	Value    []byte         `json:"value"`
}

// RevokeAttributeSignedParams is the wire form of revokeAttributeSigned.
type RevokeAttributeSignedParams struct {
	Identity  common.Address            `json:"identity"`
	Signature endorsement.SignatureData `json:"signature"`
	Name      string                    `json:"name"`
	Value     []byte                    `json:"value"`
}

// IdentityParams is the wire form of the single-identity reads.
type IdentityParams struct {
	Identity common.Address `json:"identity"`
}

// IdentityOwnerResult is the identityOwner response.
type IdentityOwnerResult struct {
	Owner common.Address `json:"owner"`
}

// ChangedResult is the changed response: the block of the identity's most
// recent event, used to bound event-log queries.
type ChangedResult struct {
	Block uint64 `json:"block"`
}

// NonceResult is the nonce response.
type NonceResult struct {
	Nonce uint64 `json:"nonce"`
}

// DIDOwnerChangedEvent is emitted on every ownership transfer.
type DIDOwnerChangedEvent struct {
	Identity       common.Address `json:"identity"`
	Owner          common.Address `json:"owner"`
	PreviousChange uint64         `json:"previousChange"`
}

// DIDAttributeChangedEvent is emitted on attribute set/revoke. The event log
// is the only place attribute history is retrievable.
type DIDAttributeChangedEvent struct {
	Identity       common.Address `json:"identity"`
	Name           string         `json:"name"`
	Value          []byte         `json:"value"`
	ValidTo        int64          `json:"validTo"`
	PreviousChange uint64         `json:"previousChange"`
}

// --- indybesu registry wire types ---

// CreateDidParams is the wire form of createDid.
type CreateDidParams struct {
	Identity common.Address  `json:"identity"`
	Document json.RawMessage `json:"document"`
}

// CreateDidSignedParams is the wire form of createDidSigned.
type CreateDidSignedParams struct {
	Identity  common.Address            `json:"identity"`
	Signature endorsement.SignatureData `json:"signature"`
	Document  json.RawMessage           `json:"document"`
}

// UpdateDidParams is the wire form of updateDid.
type UpdateDidParams = CreateDidParams

// UpdateDidSignedParams is the wire form of updateDidSigned.
type UpdateDidSignedParams = CreateDidSignedParams

// DeactivateDidParams is the wire form of deactivateDid.
type DeactivateDidParams struct {
	Identity common.Address `json:"identity"`
}

// DeactivateDidSignedParams is the wire form of deactivateDidSigned.
type DeactivateDidSignedParams struct {
	Identity  common.Address            `json:"identity"`
	Signature endorsement.SignatureData `json:"signature"`
}

// ResolveDidParams is the wire form of resolveDid.
type ResolveDidParams struct {
	Identity common.Address `json:"identity"`
}

// DIDLifecycleEvent is emitted on create/update/deactivate of a record DID.
type DIDLifecycleEvent struct {
	Identity common.Address `json:"identity"`
	Sender   common.Address `json:"sender"`
}
