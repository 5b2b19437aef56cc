/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/contract/auth"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// RevocationContractName is the registry name for revocation registries.
const RevocationContractName = "RevocationRegistry"

// Revocation registry methods.
const (
	MethodCreateRevocationRegistryDefinition       = "createRevocationRegistryDefinition"
	MethodCreateRevocationRegistryDefinitionSigned = "createRevocationRegistryDefinitionSigned"
	MethodCreateRevocationRegistryEntry            = "createRevocationRegistryEntry"
	MethodCreateRevocationRegistryEntrySigned      = "createRevocationRegistryEntrySigned"
	MethodRevokeCredential                         = "revokeCredential"
	MethodRevokeCredentialSigned                   = "revokeCredentialSigned"
	MethodSuspendCredential                        = "suspendCredential"
	MethodSuspendCredentialSigned                  = "suspendCredentialSigned"
	MethodUnrevokeCredential                       = "unrevokeCredential"
	MethodUnrevokeCredentialSigned                 = "unrevokeCredentialSigned"
	MethodResolveRevocationRegistryDefinition      = "resolveRevocationRegistryDefinition"
	MethodGetCredentialStatus                      = "getCredentialStatus"
)

// RevocationRegistry stores revocation registry definitions and accepts delta
// entries against them. The definition record tracks only the latest
// accumulator; the full entry history lives in the event log and is
// reconstructed by reading entry events in order.
type RevocationRegistry struct {
	address   common.Address
	credDefs  *CredentialDefinitionRegistry
	authority issuerAuthority
}

// NewRevocationRegistry deploys the registry at the given address.
func NewRevocationRegistry(address common.Address, credDefs *CredentialDefinitionRegistry,
	roles *auth.RoleControl, resolver *did.Resolver) *RevocationRegistry {
	return &RevocationRegistry{
		address:   address,
		credDefs:  credDefs,
		authority: issuerAuthority{roles: roles, resolver: resolver},
	}
}

// Address implements ledger.Contract.
func (r *RevocationRegistry) Address() common.Address {
	return r.address
}

// Name implements ledger.Contract.
func (r *RevocationRegistry) Name() string {
	return RevocationContractName
}

func revRegKey(idHash common.Hash) string {
	return "anoncreds/revreg/" + idHash.Hex()
}

// CreateRevocationRegistryDefinition stores a new revocation registry
// definition under the hash of its id.
func (r *RevocationRegistry) CreateRevocationRegistryDefinition(env *ledger.CallEnv,
	identity common.Address, id, issuerID, credDefID, revRegDef string) error {
	return r.createDefinition(env, endorsement.Sender(env.Sender), identity,
		id, issuerID, credDefID, revRegDef)
}

// CreateRevocationRegistryDefinitionSigned stores a definition on behalf of
// the signing author.
func (r *RevocationRegistry) CreateRevocationRegistryDefinitionSigned(env *ledger.CallEnv,
	identity common.Address, sig endorsement.SignatureData,
	id, issuerID, credDefID, revRegDef string) error {
	digest := endorsement.Digest(r.address, identity, nil,
		MethodCreateRevocationRegistryDefinition,
		CreateRevocationRegistryDefinitionArgs(id, issuerID, credDefID, revRegDef)...)

	actor, err := endorsement.Recover(digest, sig)
	if err != nil {
		return err
	}

	return r.createDefinition(env, actor, identity, id, issuerID, credDefID, revRegDef)
}

func (r *RevocationRegistry) createDefinition(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address, id, issuerID, credDefID, revRegDef string) error {
	if actor.Address != identity {
		return &did.NotIdentityOwnerError{Actor: actor.Address, Owner: identity}
	}

	if err := r.authority.authorize(env, actor, issuerID); err != nil {
		return err
	}

	if _, err := r.credDefs.ResolveCredentialDefinition(env, IDHash(credDefID)); err != nil {
		return err
	}

	idHash := IDHash(id)

	if env.State.Has(revRegKey(idHash)) {
		return &RevocationRegistryDefinitionAlreadyExistError{ID: id}
	}

	record := &RevocationRegistryDefinitionRecord{
		RevRegDef: revRegDef,
		Creator:   actor.Address,
		IssuerDID: issuerID,
		Status:    StatusActive,
		Metadata:  ResourceMetadata{Created: env.Block.Time},
	}

	if err := ledger.PutJSON(env.State, revRegKey(idHash), record); err != nil {
		return err
	}

	return env.Emit(r.address, EventRevocationRegistryDefinitionCreated,
		[]string{idHash.Hex(), identity.Hex()},
		&RevocationRegistryDefinitionCreatedEvent{IDHash: idHash, Identity: identity})
}

// CreateRevocationRegistryEntry appends a delta entry to a registry. The
// entry has to chain from the registry's current accumulator, and the entry
// itself is persisted only as an event.
func (r *RevocationRegistry) CreateRevocationRegistryEntry(env *ledger.CallEnv,
	identity common.Address, revRegID, issuerID string, entry RevocationRegistryEntry) error {
	return r.createEntry(env, endorsement.Sender(env.Sender), identity, revRegID, issuerID, entry)
}

// CreateRevocationRegistryEntrySigned appends a delta entry on behalf of the
// signing author.
func (r *RevocationRegistry) CreateRevocationRegistryEntrySigned(env *ledger.CallEnv,
	identity common.Address, sig endorsement.SignatureData,
	revRegID, issuerID string, entry RevocationRegistryEntry) error {
	digest := endorsement.Digest(r.address, identity, nil, MethodCreateRevocationRegistryEntry,
		CreateRevocationRegistryEntryArgs(revRegID, issuerID, entry)...)

	actor, err := endorsement.Recover(digest, sig)
	if err != nil {
		return err
	}

	return r.createEntry(env, actor, identity, revRegID, issuerID, entry)
}

func (r *RevocationRegistry) createEntry(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address, revRegID, issuerID string, entry RevocationRegistryEntry) error {
	if actor.Address != identity {
		return &did.NotIdentityOwnerError{Actor: actor.Address, Owner: identity}
	}

	if err := r.authority.authorize(env, actor, issuerID); err != nil {
		return err
	}

	idHash := IDHash(revRegID)

	record, err := r.ResolveRevocationRegistryDefinition(env, idHash)
	if err != nil {
		return err
	}

	if record.IssuerDID != issuerID {
		return &InvalidIssuerIDError{
			IssuerDID: issuerID,
			Reason:    "registry was created under a different issuer DID",
		}
	}

	// A fresh registry has no accumulator yet, so the first entry is
	// accepted whatever it claims to chain from.
	if len(record.CurrentAccumulator) > 0 &&
		!bytes.Equal(record.CurrentAccumulator, entry.PrevAccumulator) {
		return &AccumulatorMismatchError{
			Stored: record.CurrentAccumulator,
			Got:    entry.PrevAccumulator,
		}
	}

	record.CurrentAccumulator = entry.CurrentAccumulator

	if err := ledger.PutJSON(env.State, revRegKey(idHash), record); err != nil {
		return err
	}

	return env.Emit(r.address, EventRevocationRegistryEntryCreated,
		[]string{idHash.Hex(), identity.Hex()},
		&RevocationRegistryEntryCreatedEvent{
			IDHash:    idHash,
			Timestamp: entry.Timestamp,
			Entry:     entry,
		})
}

// RevokeCredential moves a registry from active or suspended to revoked.
func (r *RevocationRegistry) RevokeCredential(env *ledger.CallEnv,
	identity common.Address, revRegID string) error {
	return r.changeStatus(env, endorsement.Sender(env.Sender), identity, revRegID, StatusRevoked)
}

// RevokeCredentialSigned revokes on behalf of the signing author.
func (r *RevocationRegistry) RevokeCredentialSigned(env *ledger.CallEnv,
	identity common.Address, sig endorsement.SignatureData, revRegID string) error {
	actor, err := r.recoverStatusActor(identity, sig, MethodRevokeCredential, revRegID)
	if err != nil {
		return err
	}

	return r.changeStatus(env, actor, identity, revRegID, StatusRevoked)
}

// SuspendCredential moves an active registry to suspended.
func (r *RevocationRegistry) SuspendCredential(env *ledger.CallEnv,
	identity common.Address, revRegID string) error {
	return r.changeStatus(env, endorsement.Sender(env.Sender), identity, revRegID, StatusSuspended)
}

// SuspendCredentialSigned suspends on behalf of the signing author.
func (r *RevocationRegistry) SuspendCredentialSigned(env *ledger.CallEnv,
	identity common.Address, sig endorsement.SignatureData, revRegID string) error {
	actor, err := r.recoverStatusActor(identity, sig, MethodSuspendCredential, revRegID)
	if err != nil {
		return err
	}

	return r.changeStatus(env, actor, identity, revRegID, StatusSuspended)
}

// UnrevokeCredential returns a suspended or revoked registry to active.
func (r *RevocationRegistry) UnrevokeCredential(env *ledger.CallEnv,
	identity common.Address, revRegID string) error {
	return r.changeStatus(env, endorsement.Sender(env.Sender), identity, revRegID, StatusActive)
}

// UnrevokeCredentialSigned unrevokes on behalf of the signing author.
func (r *RevocationRegistry) UnrevokeCredentialSigned(env *ledger.CallEnv,
	identity common.Address, sig endorsement.SignatureData, revRegID string) error {
	actor, err := r.recoverStatusActor(identity, sig, MethodUnrevokeCredential, revRegID)
	if err != nil {
		return err
	}

	return r.changeStatus(env, actor, identity, revRegID, StatusActive)
}

func (r *RevocationRegistry) changeStatus(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address, revRegID string, status CredentialStatus) error {
	if actor.Address != identity {
		return &did.NotIdentityOwnerError{Actor: actor.Address, Owner: identity}
	}

	idHash := IDHash(revRegID)

	record, err := r.ResolveRevocationRegistryDefinition(env, idHash)
	if err != nil {
		return err
	}

	// Only the account that created the registry may move its status.
	if record.Creator != actor.Address {
		return &NotRevocationCreatorError{Actor: actor.Address, Creator: record.Creator}
	}

	if !validStatusTransition(record.Status, status) {
		return &CredentialStatusTransitionError{From: record.Status, To: status}
	}

	record.Status = status

	if err := ledger.PutJSON(env.State, revRegKey(idHash), record); err != nil {
		return err
	}

	return env.Emit(r.address, EventCredentialStatusChanged,
		[]string{idHash.Hex(), identity.Hex()},
		&CredentialStatusChangedEvent{IDHash: idHash, Identity: identity, Status: status})
}

func (r *RevocationRegistry) recoverStatusActor(identity common.Address,
	sig endorsement.SignatureData, method, revRegID string) (endorsement.Actor, error) {
	digest := endorsement.Digest(r.address, identity, nil, method,
		ChangeCredentialStatusArgs(revRegID)...)

	return endorsement.Recover(digest, sig)
}

// validStatusTransition holds the status lattice: a registry can be
// suspended only while active, revoked while active or suspended, and
// unrevoked back to active from either non-active state.
func validStatusTransition(from, to CredentialStatus) bool {
	switch to {
	case StatusSuspended:
		return from == StatusActive
	case StatusRevoked:
		return from == StatusActive || from == StatusSuspended
	case StatusActive:
		return from == StatusSuspended || from == StatusRevoked
	default:
		return false
	}
}

// ResolveRevocationRegistryDefinition returns the definition stored under an
// id hash.
func (r *RevocationRegistry) ResolveRevocationRegistryDefinition(env *ledger.CallEnv,
	idHash common.Hash) (*RevocationRegistryDefinitionRecord, error) {
	var record RevocationRegistryDefinitionRecord

	found, err := ledger.GetJSON(env.State, revRegKey(idHash), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &RevocationRegistryDefinitionNotFoundError{IDHash: idHash}
	}

	return &record, nil
}

// GetCredentialStatus returns the current tri-state status of a registry.
func (r *RevocationRegistry) GetCredentialStatus(env *ledger.CallEnv,
	revRegID string) (CredentialStatus, error) {
	record, err := r.ResolveRevocationRegistryDefinition(env, IDHash(revRegID))
	if err != nil {
		return StatusActive, err
	}

	return record.Status, nil
}

// CreateRevocationRegistryDefinitionArgs returns the digest arguments of
// createRevocationRegistryDefinition.
func CreateRevocationRegistryDefinitionArgs(id, issuerID, credDefID,
	revRegDef string) []endorsement.Arg {
	return []endorsement.Arg{
		endorsement.StringArg(id),
		endorsement.StringArg(issuerID),
		endorsement.StringArg(credDefID),
		endorsement.StringArg(revRegDef),
	}
}

// CreateRevocationRegistryEntryArgs returns the digest arguments of
// createRevocationRegistryEntry. Each index list is packed as its length
// followed by a uint per index, so that reordering or dropping an index
// changes the digest and an index cannot migrate between the issued and
// revoked lists.
func CreateRevocationRegistryEntryArgs(revRegID, issuerID string,
	entry RevocationRegistryEntry) []endorsement.Arg {
	args := []endorsement.Arg{
		endorsement.StringArg(revRegID),
		endorsement.StringArg(issuerID),
		endorsement.BytesArg(entry.CurrentAccumulator),
		endorsement.BytesArg(entry.PrevAccumulator),
	}

	args = append(args, endorsement.UintArg(uint64(len(entry.Issued))))
	for _, idx := range entry.Issued {
		args = append(args, endorsement.UintArg(idx))
	}

	args = append(args, endorsement.UintArg(uint64(len(entry.Revoked))))
	for _, idx := range entry.Revoked {
		args = append(args, endorsement.UintArg(idx))
	}

	return append(args, endorsement.UintArg(entry.Timestamp))
}

// ChangeCredentialStatusArgs returns the digest arguments of the credential
// status methods.
func ChangeCredentialStatusArgs(revRegID string) []endorsement.Arg {
	return []endorsement.Arg{endorsement.StringArg(revRegID)}
}

// Call implements ledger.Contract.
func (r *RevocationRegistry) Call(env *ledger.CallEnv, method string, params []byte) ([]byte, error) {
	switch method {
	case MethodCreateRevocationRegistryDefinition:
		var p CreateRevocationRegistryDefinitionParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateRevocationRegistryDefinition(env, p.Identity, p.ID,
			p.IssuerID, p.CredDefID, p.RevRegDef)
	case MethodCreateRevocationRegistryDefinitionSigned:
		var p CreateRevocationRegistryDefinitionSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateRevocationRegistryDefinitionSigned(env, p.Identity, p.Signature,
			p.ID, p.IssuerID, p.CredDefID, p.RevRegDef)
	case MethodCreateRevocationRegistryEntry:
		var p CreateRevocationRegistryEntryParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateRevocationRegistryEntry(env, p.Identity, p.RevRegID,
			p.IssuerID, p.Entry)
	case MethodCreateRevocationRegistryEntrySigned:
		var p CreateRevocationRegistryEntrySignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateRevocationRegistryEntrySigned(env, p.Identity, p.Signature,
			p.RevRegID, p.IssuerID, p.Entry)
	case MethodRevokeCredential, MethodSuspendCredential, MethodUnrevokeCredential:
		var p ChangeCredentialStatusParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		switch method {
		case MethodRevokeCredential:
			return nil, r.RevokeCredential(env, p.Identity, p.RevRegID)
		case MethodSuspendCredential:
			return nil, r.SuspendCredential(env, p.Identity, p.RevRegID)
		default:
			return nil, r.UnrevokeCredential(env, p.Identity, p.RevRegID)
		}
	case MethodRevokeCredentialSigned, MethodSuspendCredentialSigned, MethodUnrevokeCredentialSigned:
		var p ChangeCredentialStatusSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		switch method {
		case MethodRevokeCredentialSigned:
			return nil, r.RevokeCredentialSigned(env, p.Identity, p.Signature, p.RevRegID)
		case MethodSuspendCredentialSigned:
			return nil, r.SuspendCredentialSigned(env, p.Identity, p.Signature, p.RevRegID)
		default:
			return nil, r.UnrevokeCredentialSigned(env, p.Identity, p.Signature, p.RevRegID)
		}
	case MethodResolveRevocationRegistryDefinition:
		var p ResolveRevocationRegistryDefinitionParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		record, err := r.ResolveRevocationRegistryDefinition(env, p.IDHash)
		if err != nil {
			return nil, err
		}

		return json.Marshal(record)
	case MethodGetCredentialStatus:
		var p CredentialStatusParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		status, err := r.GetCredentialStatus(env, p.RevRegID)
		if err != nil {
			return nil, err
		}

		return json.Marshal(&CredentialStatusResult{Status: status})
	default:
		return nil, &ledger.UnknownMethodError{Contract: RevocationContractName, Method: method}
	}
}
