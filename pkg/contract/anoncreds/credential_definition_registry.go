/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/contract/auth"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// CredDefContractName is the registry name for credential definitions.
const CredDefContractName = "CredentialDefinitionRegistry"

// Credential definition registry methods.
const (
	MethodCreateCredentialDefinition       = "createCredentialDefinition"
	MethodCreateCredentialDefinitionSigned = "createCredentialDefinitionSigned"
	MethodResolveCredentialDefinition      = "resolveCredentialDefinition"
)

// CredentialDefinitionRegistry stores immutable credential definitions. Each
// definition references a schema that has to exist before the definition is
// accepted.
type CredentialDefinitionRegistry struct {
	address   common.Address
	schemas   *SchemaRegistry
	authority issuerAuthority
}

// NewCredentialDefinitionRegistry deploys the registry at the given address.
func NewCredentialDefinitionRegistry(address common.Address, schemas *SchemaRegistry,
	roles *auth.RoleControl, resolver *did.Resolver) *CredentialDefinitionRegistry {
	return &CredentialDefinitionRegistry{
		address:   address,
		schemas:   schemas,
		authority: issuerAuthority{roles: roles, resolver: resolver},
	}
}

// Address implements ledger.Contract.
func (r *CredentialDefinitionRegistry) Address() common.Address {
	return r.address
}

// Name implements ledger.Contract.
func (r *CredentialDefinitionRegistry) Name() string {
	return CredDefContractName
}

func credDefKey(idHash common.Hash) string {
	return "anoncreds/creddef/" + idHash.Hex()
}

// CreateCredentialDefinition stores a new credential definition under the
// hash of its id.
func (r *CredentialDefinitionRegistry) CreateCredentialDefinition(env *ledger.CallEnv,
	identity common.Address, id, issuerID, schemaID, credDef string) error {
	return r.createCredentialDefinition(env, endorsement.Sender(env.Sender),
		identity, id, issuerID, schemaID, credDef)
}

// CreateCredentialDefinitionSigned stores a new credential definition on
// behalf of the signing author.
func (r *CredentialDefinitionRegistry) CreateCredentialDefinitionSigned(env *ledger.CallEnv,
	identity common.Address, sig endorsement.SignatureData,
	id, issuerID, schemaID, credDef string) error {
	digest := endorsement.Digest(r.address, identity, nil, MethodCreateCredentialDefinition,
		CreateCredentialDefinitionArgs(id, issuerID, schemaID, credDef)...)

	actor, err := endorsement.Recover(digest, sig)
	if err != nil {
		return err
	}

	return r.createCredentialDefinition(env, actor, identity, id, issuerID, schemaID, credDef)
}

func (r *CredentialDefinitionRegistry) createCredentialDefinition(env *ledger.CallEnv,
	actor endorsement.Actor, identity common.Address,
	id, issuerID, schemaID, credDef string) error {
	if actor.Address != identity {
		return &did.NotIdentityOwnerError{Actor: actor.Address, Owner: identity}
	}

	if err := r.authority.authorize(env, actor, issuerID); err != nil {
		return err
	}

	if _, err := r.schemas.ResolveSchema(env, IDHash(schemaID)); err != nil {
		return err
	}

	idHash := IDHash(id)

	if env.State.Has(credDefKey(idHash)) {
		return &CredentialDefinitionAlreadyExistError{ID: id}
	}

	record := &CredentialDefinitionRecord{
		CredDef:   credDef,
		IssuerDID: issuerID,
		Metadata:  ResourceMetadata{Created: env.Block.Time},
	}

	if err := ledger.PutJSON(env.State, credDefKey(idHash), record); err != nil {
		return err
	}

	return env.Emit(r.address, EventCredentialDefinitionCreated,
		[]string{idHash.Hex(), identity.Hex()},
		&CredentialDefinitionCreatedEvent{IDHash: idHash, Identity: identity})
}

// ResolveCredentialDefinition returns the definition stored under an id hash.
func (r *CredentialDefinitionRegistry) ResolveCredentialDefinition(env *ledger.CallEnv,
	idHash common.Hash) (*CredentialDefinitionRecord, error) {
	var record CredentialDefinitionRecord

	found, err := ledger.GetJSON(env.State, credDefKey(idHash), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &CredentialDefinitionNotFoundError{IDHash: idHash}
	}

	return &record, nil
}

// CreateCredentialDefinitionArgs returns the digest arguments of
// createCredentialDefinition.
func CreateCredentialDefinitionArgs(id, issuerID, schemaID, credDef string) []endorsement.Arg {
	return []endorsement.Arg{
		endorsement.StringArg(id),
		endorsement.StringArg(issuerID),
		endorsement.StringArg(schemaID),
		endorsement.StringArg(credDef),
	}
}

// Call implements ledger.Contract.
func (r *CredentialDefinitionRegistry) Call(env *ledger.CallEnv, method string,
	params []byte) ([]byte, error) {
	switch method {
	case MethodCreateCredentialDefinition:
		var p CreateCredentialDefinitionParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateCredentialDefinition(env, p.Identity, p.ID, p.IssuerID,
			p.SchemaID, p.CredDef)
	case MethodCreateCredentialDefinitionSigned:
		var p CreateCredentialDefinitionSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateCredentialDefinitionSigned(env, p.Identity, p.Signature,
			p.ID, p.IssuerID, p.SchemaID, p.CredDef)
	case MethodResolveCredentialDefinition:
		var p ResolveCredentialDefinitionParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		record, err := r.ResolveCredentialDefinition(env, p.IDHash)
		if err != nil {
			return nil, err
		}

		return json.Marshal(record)
	default:
		return nil, &ledger.UnknownMethodError{Contract: CredDefContractName, Method: method}
	}
}
