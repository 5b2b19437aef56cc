/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/contract/migration"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// BuildCreateDidMappingTransaction builds an unsigned createDidMapping
// transaction.
func (c *LedgerClient) BuildCreateDidMappingTransaction(ctx context.Context, from,
	identity common.Address, legacyIdentifier, newDid string,
	ed25519Key, ed25519Signature []byte) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, migration.ContractName,
		migration.MethodCreateDidMapping, &migration.CreateDidMappingParams{
			Identity:         identity,
			LegacyIdentifier: legacyIdentifier,
			NewDid:           newDid,
			Ed25519Key:       ed25519Key,
			Ed25519Signature: ed25519Signature,
		})
}

// BuildCreateDidMappingEndorsingData assembles the payload the identity
// owner signs to endorse a DID mapping.
func (c *LedgerClient) BuildCreateDidMappingEndorsingData(identity common.Address,
	legacyIdentifier, newDid string,
	ed25519Key, ed25519Signature []byte) (*TransactionEndorsingData, error) {
	return c.endorsingData(migration.ContractName, identity, nil,
		migration.MethodCreateDidMapping, migration.MethodCreateDidMappingSigned,
		migration.CreateDidMappingArgs(legacyIdentifier, newDid, ed25519Key, ed25519Signature))
}

// BuildCreateDidMappingSignedTransaction builds a createDidMappingSigned
// transaction carrying the owner's endorsement signature.
func (c *LedgerClient) BuildCreateDidMappingSignedTransaction(ctx context.Context, from,
	identity common.Address, sig endorsement.SignatureData,
	legacyIdentifier, newDid string,
	ed25519Key, ed25519Signature []byte) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, migration.ContractName,
		migration.MethodCreateDidMappingSigned, &migration.CreateDidMappingSignedParams{
			CreateDidMappingParams: migration.CreateDidMappingParams{
				Identity:         identity,
				LegacyIdentifier: legacyIdentifier,
				NewDid:           newDid,
				Ed25519Key:       ed25519Key,
				Ed25519Signature: ed25519Signature,
			},
			Signature: sig,
		})
}

// BuildCreateResourceMappingTransaction builds an unsigned
// createResourceMapping transaction.
func (c *LedgerClient) BuildCreateResourceMappingTransaction(ctx context.Context, from,
	identity common.Address, legacyIssuerID, legacyResourceID,
	newResourceID string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, migration.ContractName,
		migration.MethodCreateResourceMapping, &migration.CreateResourceMappingParams{
			Identity:         identity,
			LegacyIssuerID:   legacyIssuerID,
			LegacyResourceID: legacyResourceID,
			NewResourceID:    newResourceID,
		})
}

// BuildCreateResourceMappingEndorsingData assembles the payload the identity
// owner signs to endorse a resource mapping.
func (c *LedgerClient) BuildCreateResourceMappingEndorsingData(identity common.Address,
	legacyIssuerID, legacyResourceID, newResourceID string) (*TransactionEndorsingData, error) {
	return c.endorsingData(migration.ContractName, identity, nil,
		migration.MethodCreateResourceMapping, migration.MethodCreateResourceMappingSigned,
		migration.CreateResourceMappingArgs(legacyIssuerID, legacyResourceID, newResourceID))
}

// BuildCreateResourceMappingSignedTransaction builds a
// createResourceMappingSigned transaction carrying the owner's endorsement
// signature.
func (c *LedgerClient) BuildCreateResourceMappingSignedTransaction(ctx context.Context, from,
	identity common.Address, sig endorsement.SignatureData,
	legacyIssuerID, legacyResourceID, newResourceID string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, migration.ContractName,
		migration.MethodCreateResourceMappingSigned, &migration.CreateResourceMappingSignedParams{
			CreateResourceMappingParams: migration.CreateResourceMappingParams{
				Identity:         identity,
				LegacyIssuerID:   legacyIssuerID,
				LegacyResourceID: legacyResourceID,
				NewResourceID:    newResourceID,
			},
			Signature: sig,
		})
}

// GetDidMapping returns the DID mapped to a legacy identifier, empty when no
// mapping exists.
func (c *LedgerClient) GetDidMapping(ctx context.Context, legacyIdentifier string) (string, error) {
	var result migration.GetDidMappingResult

	err := c.CallContract(ctx, migration.ContractName, migration.MethodGetDidMapping,
		&migration.GetDidMappingParams{LegacyIdentifier: legacyIdentifier}, &result)
	if err != nil {
		return "", err
	}

	return result.DID, nil
}

// GetResourceMapping returns the resource id mapped to a legacy resource id,
// empty when no mapping exists.
func (c *LedgerClient) GetResourceMapping(ctx context.Context,
	legacyResourceID string) (string, error) {
	var result migration.GetResourceMappingResult

	err := c.CallContract(ctx, migration.ContractName, migration.MethodGetResourceMapping,
		&migration.GetResourceMappingParams{LegacyResourceID: legacyResourceID}, &result)
	if err != nil {
		return "", err
	}

	return result.ResourceID, nil
}
