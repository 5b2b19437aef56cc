/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// BuildCreateDidTransaction builds an unsigned createDid transaction.
func (c *LedgerClient) BuildCreateDidTransaction(ctx context.Context, from,
	identity common.Address, document json.RawMessage) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.IndyContractName, did.MethodCreateDid,
		&did.CreateDidParams{Identity: identity, Document: document})
}

// BuildCreateDidEndorsingData assembles the payload the identity owner signs
// to endorse a DID creation.
func (c *LedgerClient) BuildCreateDidEndorsingData(identity common.Address,
	document json.RawMessage) (*TransactionEndorsingData, error) {
	return c.endorsingData(did.IndyContractName, identity, nil,
		did.MethodCreateDid, did.MethodCreateDidSigned, did.CreateDidArgs(document))
}

// BuildCreateDidSignedTransaction builds a createDidSigned transaction
// carrying the owner's endorsement signature.
func (c *LedgerClient) BuildCreateDidSignedTransaction(ctx context.Context, from,
	identity common.Address, sig endorsement.SignatureData,
	document json.RawMessage) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.IndyContractName, did.MethodCreateDidSigned,
		&did.CreateDidSignedParams{Identity: identity, Signature: sig, Document: document})
}

// BuildUpdateDidTransaction builds an unsigned updateDid transaction.
func (c *LedgerClient) BuildUpdateDidTransaction(ctx context.Context, from,
	identity common.Address, document json.RawMessage) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.IndyContractName, did.MethodUpdateDid,
		&did.UpdateDidParams{Identity: identity, Document: document})
}

// BuildUpdateDidEndorsingData assembles the payload the identity owner signs
// to endorse a DID update. The record's current version block is read from
// the registry and bound into the digest.
func (c *LedgerClient) BuildUpdateDidEndorsingData(ctx context.Context,
	identity common.Address, document json.RawMessage) (*TransactionEndorsingData, error) {
	record, err := c.ResolveDid(ctx, identity)
	if err != nil {
		return nil, err
	}

	version := record.Metadata.VersionBlock

	return c.endorsingData(did.IndyContractName, identity, &version,
		did.MethodUpdateDid, did.MethodUpdateDidSigned, did.CreateDidArgs(document))
}

// BuildUpdateDidSignedTransaction builds an updateDidSigned transaction
// carrying the owner's endorsement signature.
func (c *LedgerClient) BuildUpdateDidSignedTransaction(ctx context.Context, from,
	identity common.Address, sig endorsement.SignatureData,
	document json.RawMessage) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.IndyContractName, did.MethodUpdateDidSigned,
		&did.UpdateDidSignedParams{Identity: identity, Signature: sig, Document: document})
}

// BuildDeactivateDidTransaction builds an unsigned deactivateDid
// transaction.
func (c *LedgerClient) BuildDeactivateDidTransaction(ctx context.Context, from,
	identity common.Address) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.IndyContractName, did.MethodDeactivateDid,
		&did.DeactivateDidParams{Identity: identity})
}

// BuildDeactivateDidEndorsingData assembles the payload the identity owner
// signs to endorse a DID deactivation. The record's current version block is
// read from the registry and bound into the digest.
func (c *LedgerClient) BuildDeactivateDidEndorsingData(ctx context.Context,
	identity common.Address) (*TransactionEndorsingData, error) {
	record, err := c.ResolveDid(ctx, identity)
	if err != nil {
		return nil, err
	}

	version := record.Metadata.VersionBlock

	return c.endorsingData(did.IndyContractName, identity, &version,
		did.MethodDeactivateDid, did.MethodDeactivateDidSigned, nil)
}

// BuildDeactivateDidSignedTransaction builds a deactivateDidSigned
// transaction carrying the owner's endorsement signature.
func (c *LedgerClient) BuildDeactivateDidSignedTransaction(ctx context.Context, from,
	identity common.Address, sig endorsement.SignatureData) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, did.IndyContractName, did.MethodDeactivateDidSigned,
		&did.DeactivateDidSignedParams{Identity: identity, Signature: sig})
}

// ResolveDid returns the stored record of a record-method DID.
func (c *LedgerClient) ResolveDid(ctx context.Context,
	identity common.Address) (*did.DidRecord, error) {
	var record did.DidRecord

	err := c.CallContract(ctx, did.IndyContractName, did.MethodResolveDid,
		&did.ResolveDidParams{Identity: identity}, &record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}
