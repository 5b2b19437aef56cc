/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/contract/anoncreds"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// BuildCreateCredentialDefinitionTransaction builds an unsigned
// createCredentialDefinition transaction.
func (c *LedgerClient) BuildCreateCredentialDefinitionTransaction(ctx context.Context, from,
	identity common.Address, id, issuerID, schemaID, credDef string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.CredDefContractName,
		anoncreds.MethodCreateCredentialDefinition,
		&anoncreds.CreateCredentialDefinitionParams{
			Identity: identity,
			ID:       id,
			IssuerID: issuerID,
			SchemaID: schemaID,
			CredDef:  credDef,
		})
}

// BuildCreateCredentialDefinitionEndorsingData assembles the payload the
// definition's issuer signs to endorse its creation.
func (c *LedgerClient) BuildCreateCredentialDefinitionEndorsingData(identity common.Address,
	id, issuerID, schemaID, credDef string) (*TransactionEndorsingData, error) {
	return c.endorsingData(anoncreds.CredDefContractName, identity, nil,
		anoncreds.MethodCreateCredentialDefinition,
		anoncreds.MethodCreateCredentialDefinitionSigned,
		anoncreds.CreateCredentialDefinitionArgs(id, issuerID, schemaID, credDef))
}

// BuildCreateCredentialDefinitionSignedTransaction builds a
// createCredentialDefinitionSigned transaction carrying the issuer's
// endorsement signature.
func (c *LedgerClient) BuildCreateCredentialDefinitionSignedTransaction(ctx context.Context,
	from, identity common.Address, sig endorsement.SignatureData,
	id, issuerID, schemaID, credDef string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.CredDefContractName,
		anoncreds.MethodCreateCredentialDefinitionSigned,
		&anoncreds.CreateCredentialDefinitionSignedParams{
			CreateCredentialDefinitionParams: anoncreds.CreateCredentialDefinitionParams{
				Identity: identity,
				ID:       id,
				IssuerID: issuerID,
				SchemaID: schemaID,
				CredDef:  credDef,
			},
			Signature: sig,
		})
}

// CreateCredentialDefinition builds, signs and submits a
// createCredentialDefinition transaction and waits for its receipt.
func (c *LedgerClient) CreateCredentialDefinition(ctx context.Context, signer Signer, from,
	identity common.Address, id, issuerID, schemaID, credDef string) (*ledger.Receipt, error) {
	tx, err := c.BuildCreateCredentialDefinitionTransaction(ctx, from, identity,
		id, issuerID, schemaID, credDef)
	if err != nil {
		return nil, err
	}

	return c.signAndSubmit(ctx, signer, tx)
}

// ResolveCredentialDefinition returns the credential definition stored under
// the hash of an id.
func (c *LedgerClient) ResolveCredentialDefinition(ctx context.Context,
	id string) (*anoncreds.CredentialDefinitionRecord, error) {
	var record anoncreds.CredentialDefinitionRecord

	err := c.CallContract(ctx, anoncreds.CredDefContractName,
		anoncreds.MethodResolveCredentialDefinition,
		&anoncreds.ResolveCredentialDefinitionParams{IDHash: anoncreds.IDHash(id)}, &record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}
