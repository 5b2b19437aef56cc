/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package migration

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/contract/auth"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// ContractName is the registry name for legacy identifier mappings.
const ContractName = "LegacyMappingRegistry"

// Legacy mapping registry methods.
const (
	MethodCreateDidMapping            = "createDidMapping"
	MethodCreateDidMappingSigned      = "createDidMappingSigned"
	MethodCreateResourceMapping       = "createResourceMapping"
	MethodCreateResourceMappingSigned = "createResourceMappingSigned"
	MethodGetDidMapping               = "getDidMapping"
	MethodGetResourceMapping          = "getResourceMapping"
)

// legacyIdentifierLen is the number of ed25519 key bytes a legacy identifier
// is derived from.
const legacyIdentifierLen = 16

// LegacyMappingRegistry maps identifiers of a prior ledger generation to
// their replacements. A DID mapping proves control of the legacy identifier
// with its ed25519 key; resource mappings then hang off the proven DID
// mapping.
type LegacyMappingRegistry struct {
	address  common.Address
	roles    *auth.RoleControl
	resolver *did.Resolver
}

// NewLegacyMappingRegistry deploys the registry at the given address.
func NewLegacyMappingRegistry(address common.Address, roles *auth.RoleControl,
	resolver *did.Resolver) *LegacyMappingRegistry {
	return &LegacyMappingRegistry{address: address, roles: roles, resolver: resolver}
}

// Address implements ledger.Contract.
func (r *LegacyMappingRegistry) Address() common.Address {
	return r.address
}

// Name implements ledger.Contract.
func (r *LegacyMappingRegistry) Name() string {
	return ContractName
}

func didMappingKey(legacyIdentifier string) string {
	return "migration/did/" + legacyIdentifier
}

func resourceMappingKey(legacyResourceID string) string {
	return "migration/resource/" + legacyResourceID
}

// CreateDidMapping stores a mapping from a legacy identifier to a DID.
func (r *LegacyMappingRegistry) CreateDidMapping(env *ledger.CallEnv, identity common.Address,
	legacyIdentifier, newDid string, ed25519Key, ed25519Signature []byte) error {
	return r.createDidMapping(env, endorsement.Sender(env.Sender), identity,
		legacyIdentifier, newDid, ed25519Key, ed25519Signature)
}

// CreateDidMappingSigned stores a DID mapping on behalf of the signing
// author.
func (r *LegacyMappingRegistry) CreateDidMappingSigned(env *ledger.CallEnv,
	identity common.Address, sig endorsement.SignatureData,
	legacyIdentifier, newDid string, ed25519Key, ed25519Signature []byte) error {
	digest := endorsement.Digest(r.address, identity, nil, MethodCreateDidMapping,
		CreateDidMappingArgs(legacyIdentifier, newDid, ed25519Key, ed25519Signature)...)

	actor, err := endorsement.Recover(digest, sig)
	if err != nil {
		return err
	}

	return r.createDidMapping(env, actor, identity, legacyIdentifier, newDid,
		ed25519Key, ed25519Signature)
}

func (r *LegacyMappingRegistry) createDidMapping(env *ledger.CallEnv,
	actor endorsement.Actor, identity common.Address,
	legacyIdentifier, newDid string, ed25519Key, ed25519Signature []byte) error {
	if actor.Address != identity {
		return &did.NotIdentityOwnerError{Actor: actor.Address, Owner: identity}
	}

	if !r.roles.IsWriter(env, actor.Address) {
		return &auth.UnauthorizedError{Account: actor.Address}
	}

	if err := verifyLegacyIdentifier(legacyIdentifier, ed25519Key, ed25519Signature); err != nil {
		return err
	}

	meta, err := r.resolver.ResolveMetadata(env, newDid)
	if err != nil {
		return err
	}
	if meta.Deactivated {
		return &did.DidHasBeenDeactivatedError{DID: newDid}
	}
	if meta.Owner != identity {
		return &did.NotIdentityOwnerError{Actor: identity, Owner: meta.Owner}
	}

	if env.State.Has(didMappingKey(legacyIdentifier)) {
		return &DidMappingAlreadyExistError{LegacyIdentifier: legacyIdentifier}
	}

	env.State.Put(didMappingKey(legacyIdentifier), []byte(newDid))

	return env.Emit(r.address, EventDidMappingCreated,
		[]string{legacyIdentifier, identity.Hex()},
		&DidMappingCreatedEvent{
			LegacyIdentifier: legacyIdentifier,
			NewDid:           newDid,
			Identity:         identity,
		})
}

// CreateResourceMapping stores a mapping from a legacy resource id to its
// replacement. The legacy issuer has to have proven its identifier with a
// prior DID mapping.
func (r *LegacyMappingRegistry) CreateResourceMapping(env *ledger.CallEnv,
	identity common.Address, legacyIssuerID, legacyResourceID, newResourceID string) error {
	return r.createResourceMapping(env, endorsement.Sender(env.Sender), identity,
		legacyIssuerID, legacyResourceID, newResourceID)
}

// CreateResourceMappingSigned stores a resource mapping on behalf of the
// signing author.
func (r *LegacyMappingRegistry) CreateResourceMappingSigned(env *ledger.CallEnv,
	identity common.Address, sig endorsement.SignatureData,
	legacyIssuerID, legacyResourceID, newResourceID string) error {
	digest := endorsement.Digest(r.address, identity, nil, MethodCreateResourceMapping,
		CreateResourceMappingArgs(legacyIssuerID, legacyResourceID, newResourceID)...)

	actor, err := endorsement.Recover(digest, sig)
	if err != nil {
		return err
	}

	return r.createResourceMapping(env, actor, identity, legacyIssuerID,
		legacyResourceID, newResourceID)
}

func (r *LegacyMappingRegistry) createResourceMapping(env *ledger.CallEnv,
	actor endorsement.Actor, identity common.Address,
	legacyIssuerID, legacyResourceID, newResourceID string) error {
	if actor.Address != identity {
		return &did.NotIdentityOwnerError{Actor: actor.Address, Owner: identity}
	}

	if !r.roles.IsWriter(env, actor.Address) {
		return &auth.UnauthorizedError{Account: actor.Address}
	}

	mappedDid := r.GetDidMapping(env, legacyIssuerID)
	if mappedDid == "" {
		return &DidMappingNotFoundError{LegacyIdentifier: legacyIssuerID}
	}

	meta, err := r.resolver.ResolveMetadata(env, mappedDid)
	if err != nil {
		return err
	}
	if meta.Owner != identity {
		return &did.NotIdentityOwnerError{Actor: identity, Owner: meta.Owner}
	}

	if !strings.Contains(legacyResourceID, legacyIssuerID) {
		return &UnrelatedResourceError{
			LegacyIssuerID:   legacyIssuerID,
			LegacyResourceID: legacyResourceID,
		}
	}

	if env.State.Has(resourceMappingKey(legacyResourceID)) {
		return &ResourceMappingAlreadyExistError{LegacyResourceID: legacyResourceID}
	}

	env.State.Put(resourceMappingKey(legacyResourceID), []byte(newResourceID))

	return env.Emit(r.address, EventResourceMappingCreated,
		[]string{legacyResourceID, identity.Hex()},
		&ResourceMappingCreatedEvent{
			LegacyResourceID: legacyResourceID,
			NewResourceID:    newResourceID,
			Identity:         identity,
		})
}

// GetDidMapping returns the DID mapped to a legacy identifier, or an empty
// string when no mapping exists.
func (r *LegacyMappingRegistry) GetDidMapping(env *ledger.CallEnv, legacyIdentifier string) string {
	return string(env.State.Get(didMappingKey(legacyIdentifier)))
}

// GetResourceMapping returns the resource id mapped to a legacy resource id,
// or an empty string when no mapping exists.
func (r *LegacyMappingRegistry) GetResourceMapping(env *ledger.CallEnv, legacyResourceID string) string {
	return string(env.State.Get(resourceMappingKey(legacyResourceID)))
}

// verifyLegacyIdentifier proves control of a legacy identifier: the
// identifier has to be the base58 form of the first half of the ed25519 key,
// and the signature over the identifier has to verify under that key.
func verifyLegacyIdentifier(legacyIdentifier string, key, sig []byte) error {
	if len(key) != ed25519.PublicKeySize {
		return &InvalidLegacyIdentifierError{
			LegacyIdentifier: legacyIdentifier,
			Reason:           fmt.Sprintf("ed25519 key must be %d bytes", ed25519.PublicKeySize),
		}
	}

	if !bytes.Equal(base58.Decode(legacyIdentifier), key[:legacyIdentifierLen]) {
		return &InvalidLegacyIdentifierError{
			LegacyIdentifier: legacyIdentifier,
			Reason:           "identifier is not derived from the ed25519 key",
		}
	}

	if !ed25519.Verify(key, []byte(legacyIdentifier), sig) {
		return &InvalidLegacyIdentifierError{
			LegacyIdentifier: legacyIdentifier,
			Reason:           "ed25519 signature does not verify",
		}
	}

	return nil
}

// CreateDidMappingArgs returns the digest arguments of createDidMapping.
func CreateDidMappingArgs(legacyIdentifier, newDid string,
	ed25519Key, ed25519Signature []byte) []endorsement.Arg {
	return []endorsement.Arg{
		endorsement.StringArg(legacyIdentifier),
		endorsement.StringArg(newDid),
		endorsement.BytesArg(ed25519Key),
		endorsement.BytesArg(ed25519Signature),
	}
}

// CreateResourceMappingArgs returns the digest arguments of
// createResourceMapping.
func CreateResourceMappingArgs(legacyIssuerID, legacyResourceID,
	newResourceID string) []endorsement.Arg {
	return []endorsement.Arg{
		endorsement.StringArg(legacyIssuerID),
		endorsement.StringArg(legacyResourceID),
		endorsement.StringArg(newResourceID),
	}
}

// Call implements ledger.Contract.
func (r *LegacyMappingRegistry) Call(env *ledger.CallEnv, method string, params []byte) ([]byte, error) {
	switch method {
	case MethodCreateDidMapping:
		var p CreateDidMappingParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateDidMapping(env, p.Identity, p.LegacyIdentifier, p.NewDid,
			p.Ed25519Key, p.Ed25519Signature)
	case MethodCreateDidMappingSigned:
		var p CreateDidMappingSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateDidMappingSigned(env, p.Identity, p.Signature,
			p.LegacyIdentifier, p.NewDid, p.Ed25519Key, p.Ed25519Signature)
	case MethodCreateResourceMapping:
		var p CreateResourceMappingParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateResourceMapping(env, p.Identity, p.LegacyIssuerID,
			p.LegacyResourceID, p.NewResourceID)
	case MethodCreateResourceMappingSigned:
		var p CreateResourceMappingSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.CreateResourceMappingSigned(env, p.Identity, p.Signature,
			p.LegacyIssuerID, p.LegacyResourceID, p.NewResourceID)
	case MethodGetDidMapping:
		var p GetDidMappingParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return json.Marshal(&GetDidMappingResult{DID: r.GetDidMapping(env, p.LegacyIdentifier)})
	case MethodGetResourceMapping:
		var p GetResourceMappingParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return json.Marshal(&GetResourceMappingResult{
			ResourceID: r.GetResourceMapping(env, p.LegacyResourceID),
		})
	default:
		return nil, &ledger.UnknownMethodError{Contract: ContractName, Method: method}
	}
}
