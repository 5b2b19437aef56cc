/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/besu-vdr/internal/testutil"
	"github.com/trustbloc/besu-vdr/pkg/contract/anoncreds"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

const testCredDef = `{"type":"CL","tag":"default","value":{"primary":{}}}`

func credDefID(issuerID string) string {
	return issuerID + "/anoncreds/v0/CLAIM_DEF/degree/default"
}

// credDefFixture seeds the schema a credential definition depends on.
func credDefFixture(t *testing.T) (*testutil.TestNetwork, *testutil.ContractFixture, string) {
	t.Helper()

	n, f, issuerID := issuerFixture(t)

	f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
		return f.Suite.Schemas.CreateSchema(env, n.Identity, schemaID(issuerID), issuerID, testSchema)
	})

	return n, f, issuerID
}

func TestCredentialDefinitionRegistry_Create(t *testing.T) {
	n, f, issuerID := credDefFixture(t)
	reg := f.Suite.CredDefs

	id := credDefID(issuerID)

	env, commit := f.Env(n.Identity)

	require.NoError(t, reg.CreateCredentialDefinition(env, n.Identity,
		id, issuerID, schemaID(issuerID), testCredDef))

	events := env.Events()
	require.Len(t, events, 1)
	require.Equal(t, anoncreds.EventCredentialDefinitionCreated, events[0].Name)

	commit()

	t.Run("resolvable by id hash", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		record, err := reg.ResolveCredentialDefinition(env, anoncreds.IDHash(id))
		require.NoError(t, err)
		require.Equal(t, testCredDef, record.CredDef)
		require.Equal(t, issuerID, record.IssuerDID)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := reg.CreateCredentialDefinition(env, n.Identity,
			id, issuerID, schemaID(issuerID), testCredDef)

		var existErr *anoncreds.CredentialDefinitionAlreadyExistError

		require.ErrorAs(t, err, &existErr)
	})

	t.Run("schema must exist", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := reg.CreateCredentialDefinition(env, n.Identity,
			id+"-orphan", issuerID, issuerID+"/anoncreds/v0/SCHEMA/missing/1.0", testCredDef)

		var notFoundErr *anoncreds.SchemaNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestCredentialDefinitionRegistry_CreateSigned(t *testing.T) {
	n, f, issuerID := credDefFixture(t)
	reg := f.Suite.CredDefs

	id := credDefID(issuerID)

	digest := endorsement.Digest(reg.Address(), n.Identity, nil,
		anoncreds.MethodCreateCredentialDefinition,
		anoncreds.CreateCredentialDefinitionArgs(id, issuerID, schemaID(issuerID), testCredDef)...)

	sig, err := n.Signer.Sign(digest, n.Identity)
	require.NoError(t, err)

	f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
		return reg.CreateCredentialDefinitionSigned(env, n.Identity, sig,
			id, issuerID, schemaID(issuerID), testCredDef)
	})

	env, _ := f.Env(n.Endorser)

	_, err = reg.ResolveCredentialDefinition(env, anoncreds.IDHash(id))
	require.NoError(t, err)
}

func TestCredentialDefinitionRegistry_Call(t *testing.T) {
	n, f, issuerID := credDefFixture(t)
	reg := f.Suite.CredDefs

	id := credDefID(issuerID)

	params, err := json.Marshal(&anoncreds.CreateCredentialDefinitionParams{
		Identity: n.Identity,
		ID:       id,
		IssuerID: issuerID,
		SchemaID: schemaID(issuerID),
		CredDef:  testCredDef,
	})
	require.NoError(t, err)

	env, commit := f.Env(n.Identity)

	_, err = reg.Call(env, anoncreds.MethodCreateCredentialDefinition, params)
	require.NoError(t, err)
	commit()

	query, err := json.Marshal(&anoncreds.ResolveCredentialDefinitionParams{
		IDHash: anoncreds.IDHash(id),
	})
	require.NoError(t, err)

	env, _ = f.Env(n.Identity)

	out, err := reg.Call(env, anoncreds.MethodResolveCredentialDefinition, query)
	require.NoError(t, err)

	var record anoncreds.CredentialDefinitionRecord

	require.NoError(t, json.Unmarshal(out, &record))
	require.Equal(t, testCredDef, record.CredDef)

	t.Run("unknown method", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		_, err := reg.Call(env, "updateCredentialDefinition", nil)

		var methodErr *ledger.UnknownMethodError

		require.ErrorAs(t, err, &methodErr)
	})
}
