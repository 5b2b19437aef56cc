/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// BuildDidChangeOwnerTransaction builds an unsigned changeOwner transaction.
func (c *LedgerClient) BuildDidChangeOwnerTransaction(ctx context.Context, from,
	identity, newOwner common.Address) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.EthrContractName, did.MethodChangeOwner,
		&did.ChangeOwnerParams{Identity: identity, NewOwner: newOwner})
}

// BuildDidChangeOwnerEndorsingData assembles the payload the identity owner
// signs to endorse an ownership transfer. The identity's current endorsement
// nonce is read from the registry.
func (c *LedgerClient) BuildDidChangeOwnerEndorsingData(ctx context.Context,
	identity, newOwner common.Address) (*TransactionEndorsingData, error) {
	nonce, err := c.GetDidNonce(ctx, identity)
	if err != nil {
		return nil, err
	}

	return c.endorsingData(did.EthrContractName, identity, &nonce,
		did.MethodChangeOwner, did.MethodChangeOwnerSigned, did.ChangeOwnerArgs(newOwner))
}

// BuildDidChangeOwnerSignedTransaction builds a changeOwnerSigned
// transaction carrying the owner's endorsement signature.
func (c *LedgerClient) BuildDidChangeOwnerSignedTransaction(ctx context.Context,
	from, identity common.Address, sig endorsement.SignatureData,
	newOwner common.Address) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.EthrContractName, did.MethodChangeOwnerSigned,
		&did.ChangeOwnerSignedParams{Identity: identity, Signature: sig, NewOwner: newOwner})
}

// BuildDidSetAttributeTransaction builds an unsigned setAttribute
// transaction.
func (c *LedgerClient) BuildDidSetAttributeTransaction(ctx context.Context, from,
	identity common.Address, name string, value []byte,
	validity uint64) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.EthrContractName, did.MethodSetAttribute,
		&did.SetAttributeParams{Identity: identity, Name: name, Value: value, Validity: validity})
}

// BuildDidSetAttributeEndorsingData assembles the payload the identity owner
// signs to endorse an attribute write.
func (c *LedgerClient) BuildDidSetAttributeEndorsingData(ctx context.Context,
	identity common.Address, name string, value []byte,
	validity uint64) (*TransactionEndorsingData, error) {
	nonce, err := c.GetDidNonce(ctx, identity)
	if err != nil {
		return nil, err
	}

	return c.endorsingData(did.EthrContractName, identity, &nonce,
		did.MethodSetAttribute, did.MethodSetAttributeSigned,
		did.SetAttributeArgs(name, value, validity))
}

// BuildDidSetAttributeSignedTransaction builds a setAttributeSigned
// transaction carrying the owner's endorsement signature.
func (c *LedgerClient) BuildDidSetAttributeSignedTransaction(ctx context.Context,
	from, identity common.Address, sig endorsement.SignatureData,
	name string, value []byte, validity uint64) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.EthrContractName, did.MethodSetAttributeSigned,
		&did.SetAttributeSignedParams{
			Identity:  identity,
			Signature: sig,
			Name:      name,
			Value:     value,
			Validity:  validity,
		})
}

// BuildDidRevokeAttributeTransaction builds an unsigned revokeAttribute
// transaction.
func (c *LedgerClient) BuildDidRevokeAttributeTransaction(ctx context.Context, from,
	identity common.Address, name string, value []byte) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.EthrContractName, did.MethodRevokeAttribute,
		&did.RevokeAttributeParams{Identity: identity, Name: name, Value: value})
}

// BuildDidRevokeAttributeEndorsingData assembles the payload the identity
// owner signs to endorse an attribute revocation.
func (c *LedgerClient) BuildDidRevokeAttributeEndorsingData(ctx context.Context,
	identity common.Address, name string, value []byte) (*TransactionEndorsingData, error) {
	nonce, err := c.GetDidNonce(ctx, identity)
	if err != nil {
		return nil, err
	}

	return c.endorsingData(did.EthrContractName, identity, &nonce,
		did.MethodRevokeAttribute, did.MethodRevokeAttributeSigned,
		did.RevokeAttributeArgs(name, value))
}

// BuildDidRevokeAttributeSignedTransaction builds a revokeAttributeSigned
// transaction carrying the owner's endorsement signature.
func (c *LedgerClient) BuildDidRevokeAttributeSignedTransaction(ctx context.Context,
	from, identity common.Address, sig endorsement.SignatureData,
	name string, value []byte) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.EthrContractName, did.MethodRevokeAttributeSigned,
		&did.RevokeAttributeSignedParams{Identity: identity, Signature: sig, Name: name, Value: value})
}

// GetDidOwner returns the current owner of an address identity.
func (c *LedgerClient) GetDidOwner(ctx context.Context,
	identity common.Address) (common.Address, error) {
	var result did.IdentityOwnerResult

	err := c.CallContract(ctx, did.EthrContractName, did.MethodIdentityOwner,
		&did.IdentityParams{Identity: identity}, &result)
	if err != nil {
		return common.Address{}, err
	}

	return result.Owner, nil
}

// GetDidChanged returns the block of the identity's most recent registry
// event, zero when the identity was never touched.
func (c *LedgerClient) GetDidChanged(ctx context.Context, identity common.Address) (uint64, error) {
	var result did.ChangedResult

	err := c.CallContract(ctx, did.EthrContractName, did.MethodChanged,
		&did.IdentityParams{Identity: identity}, &result)
	if err != nil {
		return 0, err
	}

	return result.Block, nil
}

// GetDidNonce returns the identity's current endorsement nonce.
func (c *LedgerClient) GetDidNonce(ctx context.Context, identity common.Address) (uint64, error) {
	var result did.NonceResult

	err := c.CallContract(ctx, did.EthrContractName, did.MethodNonce,
		&did.IdentityParams{Identity: identity}, &result)
	if err != nil {
		return 0, err
	}

	return result.Nonce, nil
}

// QueryDidEvents returns the address-identity registry events for an
// identity, newest block bounds supplied by the caller.
func (c *LedgerClient) QueryDidEvents(ctx context.Context, identity common.Address,
	fromBlock, toBlock uint64) ([]ledger.Event, error) {
	return c.QueryEvents(ctx, did.EthrContractName, &ledger.EventQuery{
		Topics:    []string{identity.Hex()},
		FromBlock: fromBlock,
		ToBlock:   toBlock,
	})
}
