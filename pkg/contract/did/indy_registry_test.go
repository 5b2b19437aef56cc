/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/besu-vdr/internal/testutil"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

func testDocument(id string) json.RawMessage {
	return json.RawMessage(`{"id":"` + id + `","@context":["https://www.w3.org/ns/did/v1"]}`)
}

func TestIndyRegistry_CreateDid(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.IndyRegistry

	document := testDocument(did.IndyBesuDID(n.Identity))

	f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
		return reg.CreateDid(env, n.Identity, document)
	})

	t.Run("record is resolvable", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		record, err := reg.ResolveDid(env, n.Identity)
		require.NoError(t, err)
		require.JSONEq(t, string(document), string(record.Document))
		require.Equal(t, n.Identity, record.Metadata.Owner)
		require.Equal(t, int64(1700000000), record.Metadata.Created)
		require.Equal(t, record.Metadata.Created, record.Metadata.Updated)
		require.Equal(t, uint64(1), record.Metadata.VersionBlock)
		require.False(t, record.Metadata.Deactivated)
	})

	t.Run("duplicate create is rejected", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := reg.CreateDid(env, n.Identity, document)

		var existErr *did.DidAlreadyExistError

		require.ErrorAs(t, err, &existErr)
		require.Equal(t, did.IndyBesuDID(n.Identity), existErr.DID)
	})

	t.Run("sender must be the identity", func(t *testing.T) {
		env, _ := f.Env(n.Stranger)

		err := reg.CreateDid(env, n.Endorser, testDocument(did.IndyBesuDID(n.Endorser)))

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)
	})

	t.Run("empty document is rejected", func(t *testing.T) {
		env, _ := f.Env(n.Endorser)

		err := reg.CreateDid(env, n.Endorser, nil)

		var docErr *did.InvalidDidDocumentError

		require.ErrorAs(t, err, &docErr)
	})
}

func TestIndyRegistry_CreateDidSigned(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.IndyRegistry

	document := testDocument(did.IndyBesuDID(n.Identity))

	digest := endorsement.Digest(reg.Address(), n.Identity, nil,
		did.MethodCreateDid, did.CreateDidArgs(document)...)

	sig, err := n.Signer.Sign(digest, n.Identity)
	require.NoError(t, err)

	t.Run("endorser submits the identity's signature", func(t *testing.T) {
		f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
			return reg.CreateDidSigned(env, n.Identity, sig, document)
		})

		env, _ := f.Env(n.Endorser)

		record, err := reg.ResolveDid(env, n.Identity)
		require.NoError(t, err)
		require.Equal(t, n.Identity, record.Metadata.Owner)
	})

	t.Run("signature does not cover a different document", func(t *testing.T) {
		env, _ := f.Env(n.Endorser)

		err := reg.CreateDidSigned(env, n.Endorser, sig, testDocument(did.IndyBesuDID(n.Endorser)))

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)
	})
}

func TestIndyRegistry_UpdateDidSigned(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.IndyRegistry

	f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
		return reg.CreateDid(env, n.Identity, testDocument(did.IndyBesuDID(n.Identity)))
	})

	// The owner signs over the record's current version block.
	signUpdate := func(t *testing.T, document json.RawMessage) endorsement.SignatureData {
		t.Helper()

		env, _ := f.Env(n.Endorser)

		record, err := reg.ResolveDid(env, n.Identity)
		require.NoError(t, err)

		digest := endorsement.Digest(reg.Address(), n.Identity,
			&record.Metadata.VersionBlock, did.MethodUpdateDid, did.CreateDidArgs(document)...)

		sig, err := n.Signer.Sign(digest, n.Identity)
		require.NoError(t, err)

		return sig
	}

	updated := json.RawMessage(`{"id":"` + did.IndyBesuDID(n.Identity) + `","service":[]}`)
	sig := signUpdate(t, updated)

	f.NextBlock()
	f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
		return reg.UpdateDidSigned(env, n.Identity, sig, updated)
	})

	env, _ := f.Env(n.Endorser)

	record, err := reg.ResolveDid(env, n.Identity)
	require.NoError(t, err)
	require.JSONEq(t, string(updated), string(record.Document))

	t.Run("replaying the same signature fails", func(t *testing.T) {
		env, _ := f.Env(n.Endorser)

		err := reg.UpdateDidSigned(env, n.Identity, sig, updated)

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)
	})

	t.Run("stale signature cannot roll the document back", func(t *testing.T) {
		newer := json.RawMessage(`{"id":"` + did.IndyBesuDID(n.Identity) + `","updated":true}`)

		f.NextBlock()
		f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
			return reg.UpdateDid(env, n.Identity, newer)
		})

		env, _ := f.Env(n.Endorser)

		err := reg.UpdateDidSigned(env, n.Identity, sig, updated)

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)

		current, err := reg.ResolveDid(env, n.Identity)
		require.NoError(t, err)
		require.JSONEq(t, string(newer), string(current.Document))
	})
}

func TestIndyRegistry_UpdateDid(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.IndyRegistry

	f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
		return reg.CreateDid(env, n.Identity, testDocument(did.IndyBesuDID(n.Identity)))
	})

	t.Run("owner replaces the document", func(t *testing.T) {
		f.NextBlock()

		updated := json.RawMessage(`{"id":"` + did.IndyBesuDID(n.Identity) + `","service":[]}`)

		f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
			return reg.UpdateDid(env, n.Identity, updated)
		})

		env, _ := f.Env(n.Identity)

		record, err := reg.ResolveDid(env, n.Identity)
		require.NoError(t, err)
		require.JSONEq(t, string(updated), string(record.Document))
		require.Equal(t, uint64(2), record.Metadata.VersionBlock)
		require.Greater(t, record.Metadata.Updated, record.Metadata.Created)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		env, _ := f.Env(n.Stranger)

		err := reg.UpdateDid(env, n.Identity, testDocument(did.IndyBesuDID(n.Identity)))

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)
	})

	t.Run("unknown identity", func(t *testing.T) {
		env, _ := f.Env(n.Endorser)

		err := reg.UpdateDid(env, n.Endorser, testDocument(did.IndyBesuDID(n.Endorser)))

		var notFoundErr *did.DidNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestIndyRegistry_DeactivateDid(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.IndyRegistry

	f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
		return reg.CreateDid(env, n.Identity, testDocument(did.IndyBesuDID(n.Identity)))
	})

	f.NextBlock()
	f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
		return reg.DeactivateDid(env, n.Identity)
	})

	env, _ := f.Env(n.Identity)

	record, err := reg.ResolveDid(env, n.Identity)
	require.NoError(t, err)
	require.True(t, record.Metadata.Deactivated)

	t.Run("deactivation is terminal", func(t *testing.T) {
		for _, op := range []func(env *ledger.CallEnv) error{
			func(env *ledger.CallEnv) error {
				return reg.UpdateDid(env, n.Identity, testDocument(did.IndyBesuDID(n.Identity)))
			},
			func(env *ledger.CallEnv) error {
				return reg.DeactivateDid(env, n.Identity)
			},
		} {
			env, _ := f.Env(n.Identity)

			var deactivatedErr *did.DidHasBeenDeactivatedError

			require.ErrorAs(t, op(env), &deactivatedErr)
		}
	})

	t.Run("signed deactivation", func(t *testing.T) {
		f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
			return reg.CreateDid(env, n.Endorser, testDocument(did.IndyBesuDID(n.Endorser)))
		})

		readEnv, _ := f.Env(n.Endorser)

		created, err := reg.ResolveDid(readEnv, n.Endorser)
		require.NoError(t, err)

		digest := endorsement.Digest(reg.Address(), n.Endorser,
			&created.Metadata.VersionBlock, did.MethodDeactivateDid)

		sig, err := n.Signer.Sign(digest, n.Endorser)
		require.NoError(t, err)

		f.Exec(t, n.Trustee, func(env *ledger.CallEnv) error {
			return reg.DeactivateDidSigned(env, n.Endorser, sig)
		})

		env, _ := f.Env(n.Trustee)

		record, err := reg.ResolveDid(env, n.Endorser)
		require.NoError(t, err)
		require.True(t, record.Metadata.Deactivated)
	})
}

func TestIndyRegistry_Call(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.IndyRegistry

	document := testDocument(did.IndyBesuDID(n.Identity))

	params, err := json.Marshal(&did.CreateDidParams{Identity: n.Identity, Document: document})
	require.NoError(t, err)

	env, commit := f.Env(n.Identity)

	_, err = reg.Call(env, did.MethodCreateDid, params)
	require.NoError(t, err)

	events := env.Events()
	require.Len(t, events, 1)
	require.Equal(t, did.EventDIDCreated, events[0].Name)
	commit()

	t.Run("resolveDid returns the record", func(t *testing.T) {
		query, err := json.Marshal(&did.ResolveDidParams{Identity: n.Identity})
		require.NoError(t, err)

		env, _ := f.Env(n.Identity)

		out, err := reg.Call(env, did.MethodResolveDid, query)
		require.NoError(t, err)

		var record did.DidRecord

		require.NoError(t, json.Unmarshal(out, &record))
		require.JSONEq(t, string(document), string(record.Document))
	})

	t.Run("unknown method", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		_, err := reg.Call(env, "resolveAll", nil)

		var methodErr *ledger.UnknownMethodError

		require.ErrorAs(t, err, &methodErr)
	})
}
