/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/besu-vdr/internal/testutil"
	"github.com/trustbloc/besu-vdr/pkg/client"
	"github.com/trustbloc/besu-vdr/pkg/contract"
	"github.com/trustbloc/besu-vdr/pkg/contract/anoncreds"
	"github.com/trustbloc/besu-vdr/pkg/contract/auth"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

func newClientFixture(t *testing.T) (*testutil.TestNetwork, *client.LedgerClient) {
	t.Helper()

	n := testutil.NewTestNetwork(t)

	c := client.NewLedgerClient(n.Ledger, contract.AddressBook(),
		client.WithReceiptPolling(time.Millisecond, time.Second))

	return n, c
}

func TestLedgerClient_Ping(t *testing.T) {
	_, c := newClientFixture(t)

	status, err := c.Ping(context.Background())
	require.NoError(t, err)
	require.True(t, status.Ok)
}

func TestLedgerClient_Roles(t *testing.T) {
	n, c := newClientFixture(t)
	ctx := context.Background()

	t.Run("genesis trustee is visible", func(t *testing.T) {
		role, err := c.GetRole(ctx, n.Trustee)
		require.NoError(t, err)
		require.Equal(t, auth.RoleTrustee, role)
	})

	t.Run("trustee assigns the endorser role", func(t *testing.T) {
		receipt, err := c.AssignRole(ctx, n.Signer, n.Trustee, auth.RoleEndorser, n.Endorser)
		require.NoError(t, err)
		require.Equal(t, ledger.ReceiptStatusCommitted, receipt.Status)

		has, err := c.HasRole(ctx, auth.RoleEndorser, n.Endorser)
		require.NoError(t, err)
		require.True(t, has)
	})

	t.Run("unauthorized assignment surfaces the revert reason", func(t *testing.T) {
		_, err := c.AssignRole(ctx, n.Signer, n.Stranger, auth.RoleTrustee, n.Stranger)

		var revertErr *client.TransactionRevertedError

		require.ErrorAs(t, err, &revertErr)
		require.Contains(t, revertErr.Reason, "not authorized")
	})

	t.Run("revoke", func(t *testing.T) {
		_, err := c.RevokeRole(ctx, n.Signer, n.Trustee, auth.RoleEndorser, n.Endorser)
		require.NoError(t, err)

		role, err := c.GetRole(ctx, n.Endorser)
		require.NoError(t, err)
		require.Equal(t, auth.RoleNone, role)
	})
}

func TestLedgerClient_SchemaRoundTrip(t *testing.T) {
	n, c := newClientFixture(t)
	ctx := context.Background()

	_, err := c.AssignRole(ctx, n.Signer, n.Trustee, auth.RoleEndorser, n.Identity)
	require.NoError(t, err)

	issuerID := did.EthrDID(n.Identity)
	id := issuerID + "/anoncreds/v0/SCHEMA/degree/1.0"
	schema := `{"name":"degree","version":"1.0","attrNames":["name"]}`

	receipt, err := c.CreateSchema(ctx, n.Signer, n.Identity, n.Identity, id, issuerID, schema)
	require.NoError(t, err)
	require.Equal(t, ledger.ReceiptStatusCommitted, receipt.Status)
	require.Len(t, receipt.Events, 1)

	record, err := c.ResolveSchema(ctx, id)
	require.NoError(t, err)
	require.Equal(t, schema, record.Schema)

	t.Run("duplicate reverts", func(t *testing.T) {
		_, err := c.CreateSchema(ctx, n.Signer, n.Identity, n.Identity, id, issuerID, schema)

		var revertErr *client.TransactionRevertedError

		require.ErrorAs(t, err, &revertErr)
	})
}

func TestLedgerClient_EndorsedSchemaFlow(t *testing.T) {
	n, c := newClientFixture(t)
	ctx := context.Background()

	// The issuer holds a writer role but the endorser pays for and submits
	// the transaction.
	_, err := c.AssignRole(ctx, n.Signer, n.Trustee, auth.RoleEndorser, n.Identity)
	require.NoError(t, err)
	_, err = c.AssignRole(ctx, n.Signer, n.Trustee, auth.RoleEndorser, n.Endorser)
	require.NoError(t, err)

	issuerID := did.EthrDID(n.Identity)
	id := issuerID + "/anoncreds/v0/SCHEMA/degree/1.0"
	schema := `{"name":"degree","version":"1.0","attrNames":["name"]}`

	data, err := c.BuildCreateSchemaEndorsingData(n.Identity, id, issuerID, schema)
	require.NoError(t, err)
	require.Equal(t, anoncreds.MethodCreateSchemaSigned, data.EndorsingMethod)

	require.NoError(t, client.EndorseTransactionData(n.Signer, data))

	tx, err := c.BuildCreateSchemaSignedTransaction(ctx, n.Endorser, n.Identity,
		data.Signature, id, issuerID, schema)
	require.NoError(t, err)
	require.NoError(t, n.Signer.SignTransaction(tx))

	receipt, err := c.SubmitAndWait(ctx, tx)
	require.NoError(t, err)
	require.Equal(t, ledger.ReceiptStatusCommitted, receipt.Status)

	record, err := c.ResolveSchema(ctx, id)
	require.NoError(t, err)
	require.Equal(t, schema, record.Schema)
}

func TestLedgerClient_EndorsedDidChangeOwner(t *testing.T) {
	n, c := newClientFixture(t)
	ctx := context.Background()

	data, err := c.BuildDidChangeOwnerEndorsingData(ctx, n.Identity, n.Endorser)
	require.NoError(t, err)
	require.NotNil(t, data.Nonce)
	require.Equal(t, uint64(0), *data.Nonce)

	require.NoError(t, client.EndorseTransactionData(n.Signer, data))

	tx, err := c.BuildDidChangeOwnerSignedTransaction(ctx, n.Endorser, n.Identity,
		data.Signature, n.Endorser)
	require.NoError(t, err)
	require.NoError(t, n.Signer.SignTransaction(tx))

	receipt, err := c.SubmitAndWait(ctx, tx)
	require.NoError(t, err)
	require.Equal(t, ledger.ReceiptStatusCommitted, receipt.Status)

	owner, err := c.GetDidOwner(ctx, n.Identity)
	require.NoError(t, err)
	require.Equal(t, n.Endorser, owner)

	t.Run("nonce was consumed", func(t *testing.T) {
		nonce, err := c.GetDidNonce(ctx, n.Identity)
		require.NoError(t, err)
		require.Equal(t, uint64(1), nonce)
	})
}

func TestLedgerClient_DidAttributeEvents(t *testing.T) {
	n, c := newClientFixture(t)
	ctx := context.Background()

	tx, err := c.BuildDidSetAttributeTransaction(ctx, n.Identity, n.Identity,
		"did/svc/agent", []byte("https://agent.example.com"), 3600)
	require.NoError(t, err)
	require.NoError(t, n.Signer.SignTransaction(tx))

	_, err = c.SubmitAndWait(ctx, tx)
	require.NoError(t, err)

	changed, err := c.GetDidChanged(ctx, n.Identity)
	require.NoError(t, err)
	require.NotZero(t, changed)

	events, err := c.QueryDidEvents(ctx, n.Identity, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, did.EventDIDAttributeChanged, events[0].Name)
}

func TestLedgerClient_NonceTracking(t *testing.T) {
	n, c := newClientFixture(t)
	ctx := context.Background()

	// Consecutive transactions from one account get consecutive nonces
	// without waiting for the previous receipt.
	tx1, err := c.BuildAssignRoleTransaction(ctx, n.Trustee, auth.RoleEndorser, n.Endorser)
	require.NoError(t, err)

	tx2, err := c.BuildAssignRoleTransaction(ctx, n.Trustee, auth.RoleSteward, n.Identity)
	require.NoError(t, err)

	require.Equal(t, uint64(0), tx1.Nonce)
	require.Equal(t, uint64(1), tx2.Nonce)

	for _, tx := range []*ledger.Transaction{tx1, tx2} {
		require.NoError(t, n.Signer.SignTransaction(tx))

		receipt, err := c.SubmitAndWait(ctx, tx)
		require.NoError(t, err)
		require.Equal(t, ledger.ReceiptStatusCommitted, receipt.Status)
	}
}

func TestLedgerClient_UnknownContractName(t *testing.T) {
	n, c := newClientFixture(t)

	_, err := c.NewTransaction(context.Background(), n.Trustee, "TokenRegistry", "mint", nil)

	var unknownErr *client.UnknownContractNameError

	require.ErrorAs(t, err, &unknownErr)
	require.Equal(t, "TokenRegistry", unknownErr.Name)
}
