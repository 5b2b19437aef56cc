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

// BuildCreateSchemaTransaction builds an unsigned createSchema transaction.
func (c *LedgerClient) BuildCreateSchemaTransaction(ctx context.Context, from,
	identity common.Address, id, issuerID, schema string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.SchemaContractName,
		anoncreds.MethodCreateSchema, &anoncreds.CreateSchemaParams{
			Identity: identity,
			ID:       id,
			IssuerID: issuerID,
			Schema:   schema,
		})
}

// BuildCreateSchemaEndorsingData assembles the payload the schema's issuer
// signs to endorse its creation.
func (c *LedgerClient) BuildCreateSchemaEndorsingData(identity common.Address,
	id, issuerID, schema string) (*TransactionEndorsingData, error) {
	return c.endorsingData(anoncreds.SchemaContractName, identity, nil,
		anoncreds.MethodCreateSchema, anoncreds.MethodCreateSchemaSigned,
		anoncreds.CreateSchemaArgs(id, issuerID, schema))
}

// BuildCreateSchemaSignedTransaction builds a createSchemaSigned transaction
// carrying the issuer's endorsement signature.
func (c *LedgerClient) BuildCreateSchemaSignedTransaction(ctx context.Context, from,
	identity common.Address, sig endorsement.SignatureData,
	id, issuerID, schema string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.SchemaContractName,
		anoncreds.MethodCreateSchemaSigned, &anoncreds.CreateSchemaSignedParams{
			CreateSchemaParams: anoncreds.CreateSchemaParams{
				Identity: identity,
				ID:       id,
				IssuerID: issuerID,
				Schema:   schema,
			},
			Signature: sig,
		})
}

// CreateSchema builds, signs and submits a createSchema transaction and
// waits for its receipt.
func (c *LedgerClient) CreateSchema(ctx context.Context, signer Signer, from,
	identity common.Address, id, issuerID, schema string) (*ledger.Receipt, error) {
	tx, err := c.BuildCreateSchemaTransaction(ctx, from, identity, id, issuerID, schema)
	if err != nil {
		return nil, err
	}

	return c.signAndSubmit(ctx, signer, tx)
}

// ResolveSchema returns the schema stored under the hash of an id.
func (c *LedgerClient) ResolveSchema(ctx context.Context, id string) (*anoncreds.SchemaRecord, error) {
	var record anoncreds.SchemaRecord

	err := c.CallContract(ctx, anoncreds.SchemaContractName, anoncreds.MethodResolveSchema,
		&anoncreds.ResolveSchemaParams{IDHash: anoncreds.IDHash(id)}, &record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}
