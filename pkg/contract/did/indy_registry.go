/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// IndyContractName is the registry name for the record-based DID method.
const IndyContractName = "IndyDIDRegistry"

// Indy registry methods.
const (
	MethodCreateDid           = "createDid"
	MethodCreateDidSigned     = "createDidSigned"
	MethodUpdateDid           = "updateDid"
	MethodUpdateDidSigned     = "updateDidSigned"
	MethodDeactivateDid       = "deactivateDid"
	MethodDeactivateDidSigned = "deactivateDidSigned"
	MethodResolveDid          = "resolveDid"
)

// IndyRegistry is the record-based DID registry: full document storage with
// a create/update/deactivate lifecycle. A deactivated DID can never be
// reactivated, updated or change ownership.
type IndyRegistry struct {
	address common.Address
}

// NewIndyRegistry deploys the registry at the given address.
func NewIndyRegistry(address common.Address) *IndyRegistry {
	return &IndyRegistry{address: address}
}

// Address implements ledger.Contract.
func (r *IndyRegistry) Address() common.Address {
	return r.address
}

// Name implements ledger.Contract.
func (r *IndyRegistry) Name() string {
	return IndyContractName
}

func didRecordKey(identity common.Address) string {
	return "indy/did/" + identity.Hex()
}

// CreateDid stores a new DID record owned by the identity.
func (r *IndyRegistry) CreateDid(env *ledger.CallEnv, identity common.Address,
	document json.RawMessage) error {
	return r.createDid(env, endorsement.Sender(env.Sender), identity, document)
}

// CreateDidSigned stores a new DID record on behalf of the signing author.
func (r *IndyRegistry) CreateDidSigned(env *ledger.CallEnv, identity common.Address,
	sig endorsement.SignatureData, document json.RawMessage) error {
	actor, err := r.recoverActor(identity, sig, nil, MethodCreateDid, CreateDidArgs(document))
	if err != nil {
		return err
	}

	return r.createDid(env, actor, identity, document)
}

func (r *IndyRegistry) createDid(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address, document json.RawMessage) error {
	if len(document) == 0 {
		return &InvalidDidDocumentError{Reason: "document is empty"}
	}
	if actor.Address != identity {
		return &NotIdentityOwnerError{Actor: actor.Address, Owner: identity}
	}
	if env.State.Has(didRecordKey(identity)) {
		return &DidAlreadyExistError{DID: IndyBesuDID(identity)}
	}

	record := &DidRecord{
		Document: document,
		Metadata: DidMetadata{
			Owner:        identity,
			Created:      env.Block.Time,
			Updated:      env.Block.Time,
			VersionBlock: env.Block.Number,
		},
	}

	if err := ledger.PutJSON(env.State, didRecordKey(identity), record); err != nil {
		return err
	}

	return env.Emit(r.address, EventDIDCreated, []string{identity.Hex()},
		&DIDLifecycleEvent{Identity: identity, Sender: env.Sender})
}

// UpdateDid replaces the document of an existing, active DID record.
func (r *IndyRegistry) UpdateDid(env *ledger.CallEnv, identity common.Address,
	document json.RawMessage) error {
	return r.updateDid(env, endorsement.Sender(env.Sender), identity, document)
}

// UpdateDidSigned replaces the document on behalf of the signing author. The
// author signs over the record's current version block, so a signature over
// an earlier version cannot be replayed to roll the document back.
func (r *IndyRegistry) UpdateDidSigned(env *ledger.CallEnv, identity common.Address,
	sig endorsement.SignatureData, document json.RawMessage) error {
	version, err := r.currentVersion(env, identity)
	if err != nil {
		return err
	}

	actor, err := r.recoverActor(identity, sig, &version, MethodUpdateDid, CreateDidArgs(document))
	if err != nil {
		return err
	}

	return r.updateDid(env, actor, identity, document)
}

func (r *IndyRegistry) updateDid(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address, document json.RawMessage) error {
	if len(document) == 0 {
		return &InvalidDidDocumentError{Reason: "document is empty"}
	}

	record, err := r.activeRecord(env, actor, identity)
	if err != nil {
		return err
	}

	record.Document = document
	record.Metadata.Updated = env.Block.Time
	record.Metadata.VersionBlock = env.Block.Number

	if err := ledger.PutJSON(env.State, didRecordKey(identity), record); err != nil {
		return err
	}

	return env.Emit(r.address, EventDIDUpdated, []string{identity.Hex()},
		&DIDLifecycleEvent{Identity: identity, Sender: env.Sender})
}

// DeactivateDid terminally deactivates a DID record.
func (r *IndyRegistry) DeactivateDid(env *ledger.CallEnv, identity common.Address) error {
	return r.deactivateDid(env, endorsement.Sender(env.Sender), identity)
}

// DeactivateDidSigned deactivates a DID record on behalf of the signing
// author. The digest is bound to the record's current version block the same
// way updateDidSigned is.
func (r *IndyRegistry) DeactivateDidSigned(env *ledger.CallEnv, identity common.Address,
	sig endorsement.SignatureData) error {
	version, err := r.currentVersion(env, identity)
	if err != nil {
		return err
	}

	actor, err := r.recoverActor(identity, sig, &version, MethodDeactivateDid, nil)
	if err != nil {
		return err
	}

	return r.deactivateDid(env, actor, identity)
}

func (r *IndyRegistry) deactivateDid(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address) error {
	record, err := r.activeRecord(env, actor, identity)
	if err != nil {
		return err
	}

	record.Metadata.Deactivated = true
	record.Metadata.Updated = env.Block.Time
	record.Metadata.VersionBlock = env.Block.Number

	if err := ledger.PutJSON(env.State, didRecordKey(identity), record); err != nil {
		return err
	}

	return env.Emit(r.address, EventDIDDeactivated, []string{identity.Hex()},
		&DIDLifecycleEvent{Identity: identity, Sender: env.Sender})
}

// ResolveDid returns the stored record for an identity.
func (r *IndyRegistry) ResolveDid(env *ledger.CallEnv, identity common.Address) (*DidRecord, error) {
	var record DidRecord

	found, err := ledger.GetJSON(env.State, didRecordKey(identity), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &DidNotFoundError{DID: IndyBesuDID(identity)}
	}

	return &record, nil
}

func (r *IndyRegistry) activeRecord(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address) (*DidRecord, error) {
	record, err := r.ResolveDid(env, identity)
	if err != nil {
		return nil, err
	}
	if record.Metadata.Deactivated {
		return nil, &DidHasBeenDeactivatedError{DID: IndyBesuDID(identity)}
	}
	if actor.Address != record.Metadata.Owner {
		return nil, &NotIdentityOwnerError{Actor: actor.Address, Owner: record.Metadata.Owner}
	}

	return record, nil
}

// currentVersion reads the version block the next signed lifecycle operation
// must be endorsed against.
func (r *IndyRegistry) currentVersion(env *ledger.CallEnv, identity common.Address) (uint64, error) {
	record, err := r.ResolveDid(env, identity)
	if err != nil {
		return 0, err
	}

	return record.Metadata.VersionBlock, nil
}

func (r *IndyRegistry) recoverActor(identity common.Address, sig endorsement.SignatureData,
	version *uint64, method string, args []endorsement.Arg) (endorsement.Actor, error) {
	digest := endorsement.Digest(r.address, identity, version, method, args...)

	return endorsement.Recover(digest, sig)
}

// CreateDidArgs returns the digest arguments of createDid and updateDid: the
// hash of the document stands in for the document itself.
func CreateDidArgs(document json.RawMessage) []endorsement.Arg {
	return []endorsement.Arg{endorsement.HashArg(crypto.Keccak256Hash(document))}
}

// Call implements ledger.Contract.
func (r *IndyRegistry) Call(env *ledger.CallEnv, method string, params []byte) ([]byte, error) {
	switch method {
	case MethodCreateDid, MethodUpdateDid:
		var p CreateDidParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		if method == MethodCreateDid {
			return nil, r.CreateDid(env, p.Identity, p.Document)
		}

		return nil, r.UpdateDid(env, p.Identity, p.Document)
	case MethodCreateDidSigned, MethodUpdateDidSigned:
		var p CreateDidSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		if method == MethodCreateDidSigned {
			return nil, r.CreateDidSigned(env, p.Identity, p.Signature, p.Document)
		}

		return nil, r.UpdateDidSigned(env, p.Identity, p.Signature, p.Document)
	case MethodDeactivateDid:
		var p DeactivateDidParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.DeactivateDid(env, p.Identity)
	case MethodDeactivateDidSigned:
		var p DeactivateDidSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.DeactivateDidSigned(env, p.Identity, p.Signature)
	case MethodResolveDid:
		var p ResolveDidParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		record, err := r.ResolveDid(env, p.Identity)
		if err != nil {
			return nil, err
		}

		return json.Marshal(record)
	default:
		return nil, &ledger.UnknownMethodError{Contract: IndyContractName, Method: method}
	}
}
