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

// BuildCreateRevocationRegistryDefinitionTransaction builds an unsigned
// createRevocationRegistryDefinition transaction.
func (c *LedgerClient) BuildCreateRevocationRegistryDefinitionTransaction(ctx context.Context,
	from, identity common.Address, id, issuerID, credDefID,
	revRegDef string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.RevocationContractName,
		anoncreds.MethodCreateRevocationRegistryDefinition,
		&anoncreds.CreateRevocationRegistryDefinitionParams{
			Identity:  identity,
			ID:        id,
			IssuerID:  issuerID,
			CredDefID: credDefID,
			RevRegDef: revRegDef,
		})
}

// BuildCreateRevocationRegistryDefinitionEndorsingData assembles the payload
// the registry's issuer signs to endorse its creation.
func (c *LedgerClient) BuildCreateRevocationRegistryDefinitionEndorsingData(
	identity common.Address, id, issuerID, credDefID,
	revRegDef string) (*TransactionEndorsingData, error) {
	return c.endorsingData(anoncreds.RevocationContractName, identity, nil,
		anoncreds.MethodCreateRevocationRegistryDefinition,
		anoncreds.MethodCreateRevocationRegistryDefinitionSigned,
		anoncreds.CreateRevocationRegistryDefinitionArgs(id, issuerID, credDefID, revRegDef))
}

// BuildCreateRevocationRegistryDefinitionSignedTransaction builds a
// createRevocationRegistryDefinitionSigned transaction carrying the issuer's
// endorsement signature.
func (c *LedgerClient) BuildCreateRevocationRegistryDefinitionSignedTransaction(
	ctx context.Context, from, identity common.Address, sig endorsement.SignatureData,
	id, issuerID, credDefID, revRegDef string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.RevocationContractName,
		anoncreds.MethodCreateRevocationRegistryDefinitionSigned,
		&anoncreds.CreateRevocationRegistryDefinitionSignedParams{
			CreateRevocationRegistryDefinitionParams: anoncreds.CreateRevocationRegistryDefinitionParams{
				Identity:  identity,
				ID:        id,
				IssuerID:  issuerID,
				CredDefID: credDefID,
				RevRegDef: revRegDef,
			},
			Signature: sig,
		})
}

// BuildCreateRevocationRegistryEntryTransaction builds an unsigned
// createRevocationRegistryEntry transaction.
func (c *LedgerClient) BuildCreateRevocationRegistryEntryTransaction(ctx context.Context,
	from, identity common.Address, revRegID, issuerID string,
	entry anoncreds.RevocationRegistryEntry) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.RevocationContractName,
		anoncreds.MethodCreateRevocationRegistryEntry,
		&anoncreds.CreateRevocationRegistryEntryParams{
			Identity: identity,
			RevRegID: revRegID,
			IssuerID: issuerID,
			Entry:    entry,
		})
}

// BuildCreateRevocationRegistryEntryEndorsingData assembles the payload the
// registry's issuer signs to endorse a delta entry.
func (c *LedgerClient) BuildCreateRevocationRegistryEntryEndorsingData(
	identity common.Address, revRegID, issuerID string,
	entry anoncreds.RevocationRegistryEntry) (*TransactionEndorsingData, error) {
	return c.endorsingData(anoncreds.RevocationContractName, identity, nil,
		anoncreds.MethodCreateRevocationRegistryEntry,
		anoncreds.MethodCreateRevocationRegistryEntrySigned,
		anoncreds.CreateRevocationRegistryEntryArgs(revRegID, issuerID, entry))
}

// BuildCreateRevocationRegistryEntrySignedTransaction builds a
// createRevocationRegistryEntrySigned transaction carrying the issuer's
// endorsement signature.
func (c *LedgerClient) BuildCreateRevocationRegistryEntrySignedTransaction(ctx context.Context,
	from, identity common.Address, sig endorsement.SignatureData,
	revRegID, issuerID string,
	entry anoncreds.RevocationRegistryEntry) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.RevocationContractName,
		anoncreds.MethodCreateRevocationRegistryEntrySigned,
		&anoncreds.CreateRevocationRegistryEntrySignedParams{
			CreateRevocationRegistryEntryParams: anoncreds.CreateRevocationRegistryEntryParams{
				Identity: identity,
				RevRegID: revRegID,
				IssuerID: issuerID,
				Entry:    entry,
			},
			Signature: sig,
		})
}

// BuildRevokeCredentialTransaction builds an unsigned revokeCredential
// transaction.
func (c *LedgerClient) BuildRevokeCredentialTransaction(ctx context.Context, from,
	identity common.Address, revRegID string) (*ledger.Transaction, error) {
	return c.buildStatusTransaction(ctx, from, identity, revRegID,
		anoncreds.MethodRevokeCredential)
}

// BuildSuspendCredentialTransaction builds an unsigned suspendCredential
// transaction.
func (c *LedgerClient) BuildSuspendCredentialTransaction(ctx context.Context, from,
	identity common.Address, revRegID string) (*ledger.Transaction, error) {
	return c.buildStatusTransaction(ctx, from, identity, revRegID,
		anoncreds.MethodSuspendCredential)
}

// BuildUnrevokeCredentialTransaction builds an unsigned unrevokeCredential
// transaction.
func (c *LedgerClient) BuildUnrevokeCredentialTransaction(ctx context.Context, from,
	identity common.Address, revRegID string) (*ledger.Transaction, error) {
	return c.buildStatusTransaction(ctx, from, identity, revRegID,
		anoncreds.MethodUnrevokeCredential)
}

func (c *LedgerClient) buildStatusTransaction(ctx context.Context, from,
	identity common.Address, revRegID, method string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.RevocationContractName, method,
		&anoncreds.ChangeCredentialStatusParams{Identity: identity, RevRegID: revRegID})
}

// BuildChangeCredentialStatusEndorsingData assembles the payload the
// registry's creator signs to endorse a status change. The method has to be
// one of the unsigned status method names.
func (c *LedgerClient) BuildChangeCredentialStatusEndorsingData(identity common.Address,
	method, revRegID string) (*TransactionEndorsingData, error) {
	return c.endorsingData(anoncreds.RevocationContractName, identity, nil,
		method, method+"Signed", anoncreds.ChangeCredentialStatusArgs(revRegID))
}

// BuildChangeCredentialStatusSignedTransaction builds a signed status-change
// transaction for the endorsing data's method.
func (c *LedgerClient) BuildChangeCredentialStatusSignedTransaction(ctx context.Context,
	from common.Address, data *TransactionEndorsingData,
	revRegID string) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, anoncreds.RevocationContractName,
		data.EndorsingMethod, &anoncreds.ChangeCredentialStatusSignedParams{
			ChangeCredentialStatusParams: anoncreds.ChangeCredentialStatusParams{
				Identity: data.Identity,
				RevRegID: revRegID,
			},
			Signature: data.Signature,
		})
}

// ResolveRevocationRegistryDefinition returns the revocation registry
// definition stored under the hash of an id.
func (c *LedgerClient) ResolveRevocationRegistryDefinition(ctx context.Context,
	id string) (*anoncreds.RevocationRegistryDefinitionRecord, error) {
	var record anoncreds.RevocationRegistryDefinitionRecord

	err := c.CallContract(ctx, anoncreds.RevocationContractName,
		anoncreds.MethodResolveRevocationRegistryDefinition,
		&anoncreds.ResolveRevocationRegistryDefinitionParams{IDHash: anoncreds.IDHash(id)},
		&record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// GetCredentialStatus returns a registry's current tri-state status.
func (c *LedgerClient) GetCredentialStatus(ctx context.Context,
	revRegID string) (anoncreds.CredentialStatus, error) {
	var result anoncreds.CredentialStatusResult

	err := c.CallContract(ctx, anoncreds.RevocationContractName,
		anoncreds.MethodGetCredentialStatus,
		&anoncreds.CredentialStatusParams{RevRegID: revRegID}, &result)
	if err != nil {
		return anoncreds.StatusActive, err
	}

	return result.Status, nil
}

// QueryRevocationRegistryEntryEvents returns the delta entry events of a
// revocation registry in ledger order. Replaying them reconstructs the
// registry's accumulator history.
func (c *LedgerClient) QueryRevocationRegistryEntryEvents(ctx context.Context,
	revRegID string, fromBlock, toBlock uint64) ([]ledger.Event, error) {
	return c.QueryEvents(ctx, anoncreds.RevocationContractName, &ledger.EventQuery{
		Name:      anoncreds.EventRevocationRegistryEntryCreated,
		Topics:    []string{anoncreds.IDHash(revRegID).Hex()},
		FromBlock: fromBlock,
		ToBlock:   toBlock,
	})
}
