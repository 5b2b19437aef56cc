/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"encoding/json"

	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// Resolver dispatches a DID to the registry backing its method and
// normalizes the returned ownership and activity metadata. Every resource
// registry consumes it synchronously to authorize writes against the
// resource's declared issuer DID.
type Resolver struct {
	ethr *EthrRegistry
	indy *IndyRegistry
}

// NewResolver wires the resolver to both DID registries.
func NewResolver(ethr *EthrRegistry, indy *IndyRegistry) *Resolver {
	return &Resolver{ethr: ethr, indy: indy}
}

// ResolveMetadata parses the DID and returns the normalized metadata of the
// backing identity. The address-identity method has no document-level
// metadata, so its timestamps stay zero and its version is the last-changed
// block.
func (r *Resolver) ResolveMetadata(env *ledger.CallEnv, didStr string) (*DidMetadata, error) {
	parsed, err := Parse(didStr)
	if err != nil {
		return nil, err
	}

	identity := parsed.AsAddress()

	switch parsed.Method {
	case MethodEthr:
		return &DidMetadata{
			Owner:        r.ethr.IdentityOwner(env, identity),
			VersionBlock: r.ethr.Changed(env, identity),
		}, nil
	case MethodIndyBesu:
		record, err := r.indy.ResolveDid(env, identity)
		if err != nil {
			return nil, err
		}

		metadata := record.Metadata

		return &metadata, nil
	default:
		return nil, &UnsupportedDidMethodError{Method: parsed.Method}
	}
}

// ResolveDocument returns the stored DID document. Only the record-based
// method stores documents.
func (r *Resolver) ResolveDocument(env *ledger.CallEnv, didStr string) (json.RawMessage, error) {
	parsed, err := Parse(didStr)
	if err != nil {
		return nil, err
	}

	switch parsed.Method {
	case MethodIndyBesu:
		record, err := r.indy.ResolveDid(env, parsed.AsAddress())
		if err != nil {
			return nil, err
		}

		return record.Document, nil
	case MethodEthr:
		return nil, &UnsupportedOperationError{Method: parsed.Method, Operation: "resolveDocument"}
	default:
		return nil, &UnsupportedDidMethodError{Method: parsed.Method}
	}
}
