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

// SchemaContractName is the registry name for anoncreds schemas.
const SchemaContractName = "SchemaRegistry"

// Schema registry methods.
const (
	MethodCreateSchema       = "createSchema"
	MethodCreateSchemaSigned = "createSchemaSigned"
	MethodResolveSchema      = "resolveSchema"
)

// SchemaRegistry stores immutable anoncreds schemas addressed by the keccak
// hash of their id string.
type SchemaRegistry struct {
	address   common.Address
	authority issuerAuthority
}

// NewSchemaRegistry deploys the registry at the given address.
func NewSchemaRegistry(address common.Address, roles *auth.RoleControl,
	resolver *did.Resolver) *SchemaRegistry {
	return &SchemaRegistry{
		address:   address,
		authority: issuerAuthority{roles: roles, resolver: resolver},
	}
}

// Address implements ledger.Contract.
func (r *SchemaRegistry) Address() common.Address {
	return r.address
}

// Name implements ledger.Contract.
func (r *SchemaRegistry) Name() string {
	return SchemaContractName
}

func schemaKey(idHash common.Hash) string {
	return "anoncreds/schema/" + idHash.Hex()
}

// CreateSchema stores a new schema under the hash of its id.
func (r *SchemaRegistry) CreateSchema(env *ledger.CallEnv, identity common.Address,
	id, issuerID, schema string) error {
	return r.createSchema(env, endorsement.Sender(env.Sender), identity, id, issuerID, schema)
}

// CreateSchemaSigned stores a new schema on behalf of the signing author.
func (r *SchemaRegistry) CreateSchemaSigned(env *ledger.CallEnv, identity common.Address,
	sig endorsement.SignatureData, id, issuerID, schema string) error {
	digest := endorsement.Digest(r.address, identity, nil, MethodCreateSchema,
		CreateSchemaArgs(id, issuerID, schema)...)

	actor, err := endorsement.Recover(digest, sig)
	if err != nil {
		return err
	}

	return r.createSchema(env, actor, identity, id, issuerID, schema)
}

func (r *SchemaRegistry) createSchema(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address, id, issuerID, schema string) error {
	if actor.Address != identity {
		return &did.NotIdentityOwnerError{Actor: actor.Address, Owner: identity}
	}

	if err := r.authority.authorize(env, actor, issuerID); err != nil {
		return err
	}

	idHash := IDHash(id)

	if env.State.Has(schemaKey(idHash)) {
		return &SchemaAlreadyExistError{ID: id}
	}

	record := &SchemaRecord{
		Schema:    schema,
		IssuerDID: issuerID,
		Metadata:  ResourceMetadata{Created: env.Block.Time},
	}

	if err := ledger.PutJSON(env.State, schemaKey(idHash), record); err != nil {
		return err
	}

	return env.Emit(r.address, EventSchemaCreated, []string{idHash.Hex(), identity.Hex()},
		&SchemaCreatedEvent{IDHash: idHash, Identity: identity})
}

// ResolveSchema returns the schema stored under an id hash.
func (r *SchemaRegistry) ResolveSchema(env *ledger.CallEnv, idHash common.Hash) (*SchemaRecord, error) {
	var record SchemaRecord

	found, err := ledger.GetJSON(env.State, schemaKey(idHash), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &SchemaNotFoundError{IDHash: idHash}
	}

	return &record, nil
}

// CreateSchemaArgs returns the digest arguments of createSchema.
func CreateSchemaArgs(id, issuerID, schema string) []endorsement.Arg {
	return []endorsement.Arg{
		endorsement.StringArg(id),
		endorsement.StringArg(issuerID),
		endorsement.StringArg(schema),
	}
}

// Call implements ledger.Contract.
func (r *SchemaRegistry) Call(env *ledger.CallEnv, method string, params []byte) ([]byte, error) {
	switch method {
	case MethodCreateSchema:
		var p CreateSchemaParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateSchema(env, p.Identity, p.ID, p.IssuerID, p.Schema)
	case MethodCreateSchemaSigned:
		var p CreateSchemaSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateSchemaSigned(env, p.Identity, p.Signature, p.ID, p.IssuerID, p.Schema)
	case MethodResolveSchema:
		var p ResolveSchemaParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		record, err := r.ResolveSchema(env, p.IDHash)
		if err != nil {
			return nil, err
		}

		return json.Marshal(record)
	default:
		return nil, &ledger.UnknownMethodError{Contract: SchemaContractName, Method: method}
	}
}
