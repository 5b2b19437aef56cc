/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// EthrContractName is the registry name for the address-identity DID method.
const EthrContractName = "EthrDIDRegistry"

// Ethr registry methods. The signed variants recompute the author digest
// under the unsigned method name, so a signature cannot be replayed across
// operations.
const (
	MethodChangeOwner           = "changeOwner"
	MethodChangeOwnerSigned     = "changeOwnerSigned"
	MethodSetAttribute          = "setAttribute"
	MethodSetAttributeSigned    = "setAttributeSigned"
	MethodRevokeAttribute       = "revokeAttribute"
	MethodRevokeAttributeSigned = "revokeAttributeSigned"
	MethodIdentityOwner         = "identityOwner"
	MethodChanged               = "changed"
	MethodNonce                 = "nonce"
)

// EthrRegistry is the address-is-identity DID registry. Every address is a
// valid identity owning itself until ownership is explicitly transferred.
type EthrRegistry struct {
	address common.Address
}

// NewEthrRegistry deploys the registry at the given address.
func NewEthrRegistry(address common.Address) *EthrRegistry {
	return &EthrRegistry{address: address}
}

// Address implements ledger.Contract.
func (r *EthrRegistry) Address() common.Address {
	return r.address
}

// Name implements ledger.Contract.
func (r *EthrRegistry) Name() string {
	return EthrContractName
}

func ownerKey(identity common.Address) string {
	return "ethr/owner/" + identity.Hex()
}

func changedKey(identity common.Address) string {
	return "ethr/changed/" + identity.Hex()
}

func nonceKey(identity common.Address) string {
	return "ethr/nonce/" + identity.Hex()
}

// IdentityOwner returns the current owner of an identity, defaulting to the
// identity itself.
func (r *EthrRegistry) IdentityOwner(env *ledger.CallEnv, identity common.Address) common.Address {
	data := env.State.Get(ownerKey(identity))
	if len(data) != common.AddressLength {
		return identity
	}

	return common.BytesToAddress(data)
}

// Changed returns the block number of the identity's last change, used to
// bound event-log queries.
func (r *EthrRegistry) Changed(env *ledger.CallEnv, identity common.Address) uint64 {
	return getUint64(env, changedKey(identity))
}

// Nonce returns the identity's next endorsement nonce.
func (r *EthrRegistry) Nonce(env *ledger.CallEnv, identity common.Address) uint64 {
	return getUint64(env, nonceKey(identity))
}

// ChangeOwner transfers identity ownership. The sender must be the current
// owner.
func (r *EthrRegistry) ChangeOwner(env *ledger.CallEnv, identity, newOwner common.Address) error {
	return r.changeOwner(env, endorsement.Sender(env.Sender), identity, newOwner)
}

// ChangeOwnerSigned transfers identity ownership on behalf of the author who
// signed the endorsement digest.
func (r *EthrRegistry) ChangeOwnerSigned(env *ledger.CallEnv, identity common.Address,
	sig endorsement.SignatureData, newOwner common.Address) error {
	actor, err := r.recoverActor(env, identity, sig, MethodChangeOwner, ChangeOwnerArgs(newOwner))
	if err != nil {
		return err
	}

	return r.changeOwner(env, actor, identity, newOwner)
}

func (r *EthrRegistry) changeOwner(env *ledger.CallEnv, actor endorsement.Actor,
	identity, newOwner common.Address) error {
	owner := r.IdentityOwner(env, identity)
	if actor.Address != owner {
		return &NotIdentityOwnerError{Actor: actor.Address, Owner: owner}
	}

	previous := r.Changed(env, identity)

	env.State.Put(ownerKey(identity), newOwner.Bytes())
	putUint64(env, changedKey(identity), env.Block.Number)

	return env.Emit(r.address, EventDIDOwnerChanged, []string{identity.Hex()},
		&DIDOwnerChangedEvent{Identity: identity, Owner: newOwner, PreviousChange: previous})
}

// SetAttribute publishes an identity attribute to the event log.
func (r *EthrRegistry) SetAttribute(env *ledger.CallEnv, identity common.Address,
	name string, value []byte, validity uint64) error {
	return r.setAttribute(env, endorsement.Sender(env.Sender), identity, name, value, validity)
}

// SetAttributeSigned publishes an identity attribute on behalf of the
// signing author.
func (r *EthrRegistry) SetAttributeSigned(env *ledger.CallEnv, identity common.Address,
	sig endorsement.SignatureData, name string, value []byte, validity uint64) error {
	actor, err := r.recoverActor(env, identity, sig, MethodSetAttribute,
		SetAttributeArgs(name, value, validity))
	if err != nil {
		return err
	}

	return r.setAttribute(env, actor, identity, name, value, validity)
}

func (r *EthrRegistry) setAttribute(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address, name string, value []byte, validity uint64) error {
	owner := r.IdentityOwner(env, identity)
	if actor.Address != owner {
		return &NotIdentityOwnerError{Actor: actor.Address, Owner: owner}
	}

	previous := r.Changed(env, identity)
	putUint64(env, changedKey(identity), env.Block.Number)

	return env.Emit(r.address, EventDIDAttributeChanged, []string{identity.Hex()},
		&DIDAttributeChangedEvent{
			Identity:       identity,
			Name:           name,
			Value:          value,
			ValidTo:        env.Block.Time + int64(validity),
			PreviousChange: previous,
		})
}

// RevokeAttribute publishes an attribute revocation to the event log.
func (r *EthrRegistry) RevokeAttribute(env *ledger.CallEnv, identity common.Address,
	name string, value []byte) error {
	return r.revokeAttribute(env, endorsement.Sender(env.Sender), identity, name, value)
}

// RevokeAttributeSigned publishes an attribute revocation on behalf of the
// signing author.
func (r *EthrRegistry) RevokeAttributeSigned(env *ledger.CallEnv, identity common.Address,
	sig endorsement.SignatureData, name string, value []byte) error {
	actor, err := r.recoverActor(env, identity, sig, MethodRevokeAttribute,
		RevokeAttributeArgs(name, value))
	if err != nil {
		return err
	}

	return r.revokeAttribute(env, actor, identity, name, value)
}

func (r *EthrRegistry) revokeAttribute(env *ledger.CallEnv, actor endorsement.Actor,
	identity common.Address, name string, value []byte) error {
	owner := r.IdentityOwner(env, identity)
	if actor.Address != owner {
		return &NotIdentityOwnerError{Actor: actor.Address, Owner: owner}
	}

	previous := r.Changed(env, identity)
	putUint64(env, changedKey(identity), env.Block.Number)

	return env.Emit(r.address, EventDIDAttributeChanged, []string{identity.Hex()},
		&DIDAttributeChangedEvent{
			Identity:       identity,
			Name:           name,
			Value:          value,
			ValidTo:        0,
			PreviousChange: previous,
		})
}

// recoverActor recomputes the endorsement digest with the identity's current
// nonce, recovers the author and consumes the nonce.
func (r *EthrRegistry) recoverActor(env *ledger.CallEnv, identity common.Address,
	sig endorsement.SignatureData, method string, args []endorsement.Arg) (endorsement.Actor, error) {
	nonce := r.Nonce(env, identity)
	digest := endorsement.Digest(r.address, identity, &nonce, method, args...)

	actor, err := endorsement.Recover(digest, sig)
	if err != nil {
		return endorsement.Actor{}, err
	}

	putUint64(env, nonceKey(identity), nonce+1)

	return actor, nil
}

// ChangeOwnerArgs returns the digest arguments of changeOwner.
func ChangeOwnerArgs(newOwner common.Address) []endorsement.Arg {
	return []endorsement.Arg{endorsement.AddressArg(newOwner)}
}

// SetAttributeArgs returns the digest arguments of setAttribute.
func SetAttributeArgs(name string, value []byte, validity uint64) []endorsement.Arg {
	return []endorsement.Arg{
		endorsement.StringArg(name),
		endorsement.BytesArg(value),
		endorsement.UintArg(validity),
	}
}

// RevokeAttributeArgs returns the digest arguments of revokeAttribute.
func RevokeAttributeArgs(name string, value []byte) []endorsement.Arg {
	return []endorsement.Arg{
		endorsement.StringArg(name),
		endorsement.BytesArg(value),
	}
}

// Call implements ledger.Contract.
func (r *EthrRegistry) Call(env *ledger.CallEnv, method string, params []byte) ([]byte, error) { //nolint:gocyclo
	switch method {
	case MethodChangeOwner:
		var p ChangeOwnerParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.ChangeOwner(env, p.Identity, p.NewOwner)
	case MethodChangeOwnerSigned:
		var p ChangeOwnerSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.ChangeOwnerSigned(env, p.Identity, p.Signature, p.NewOwner)
	case MethodSetAttribute:
		var p SetAttributeParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.SetAttribute(env, p.Identity, p.Name, p.Value, p.Validity)
	case MethodSetAttributeSigned:
		var p SetAttributeSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.SetAttributeSigned(env, p.Identity, p.Signature, p.Name, p.Value, p.Validity)
	case MethodRevokeAttribute:
		var p RevokeAttributeParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.RevokeAttribute(env, p.Identity, p.Name, p.Value)
	case MethodRevokeAttributeSigned:
		var p RevokeAttributeSignedParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, r.RevokeAttributeSigned(env, p.Identity, p.Signature, p.Name, p.Value)
	case MethodIdentityOwner:
		var p IdentityParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return json.Marshal(&IdentityOwnerResult{Owner: r.IdentityOwner(env, p.Identity)})
	case MethodChanged:
		var p IdentityParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return json.Marshal(&ChangedResult{Block: r.Changed(env, p.Identity)})
	case MethodNonce:
		var p IdentityParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return json.Marshal(&NonceResult{Nonce: r.Nonce(env, p.Identity)})
	default:
		return nil, &ledger.UnknownMethodError{Contract: EthrContractName, Method: method}
	}
}

func getUint64(env *ledger.CallEnv, key string) uint64 {
	data := env.State.Get(key)
	if len(data) != 8 {
		return 0
	}

	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}

	return v
}

func putUint64(env *ledger.CallEnv, key string, v uint64) {
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}

	env.State.Put(key, b[:])
}
