/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trustbloc/besu-vdr/internal/testutil"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

func TestResolver_ResolveMetadata(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	resolver := f.Suite.Resolver

	t.Run("ethr DID resolves without a record", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		metadata, err := resolver.ResolveMetadata(env, did.EthrDID(n.Identity))
		require.NoError(t, err)
		require.Equal(t, n.Identity, metadata.Owner)
		require.Zero(t, metadata.Created)
		require.False(t, metadata.Deactivated)
	})

	t.Run("ethr DID reflects ownership transfers", func(t *testing.T) {
		f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
			return f.Suite.EthrRegistry.ChangeOwner(env, n.Identity, n.Endorser)
		})

		env, _ := f.Env(n.Identity)

		metadata, err := resolver.ResolveMetadata(env, did.EthrDID(n.Identity))
		require.NoError(t, err)
		require.Equal(t, n.Endorser, metadata.Owner)
		require.Equal(t, uint64(1), metadata.VersionBlock)
	})

	t.Run("indybesu DID resolves its record metadata", func(t *testing.T) {
		f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
			return f.Suite.IndyRegistry.CreateDid(env, n.Endorser, testDocument(did.IndyBesuDID(n.Endorser)))
		})

		env, _ := f.Env(n.Endorser)

		metadata, err := resolver.ResolveMetadata(env, did.IndyBesuDID(n.Endorser))
		require.NoError(t, err)
		require.Equal(t, n.Endorser, metadata.Owner)
		require.Equal(t, int64(1700000000), metadata.Created)
	})

	t.Run("indybesu DID without a record", func(t *testing.T) {
		env, _ := f.Env(n.Stranger)

		_, err := resolver.ResolveMetadata(env, did.IndyBesuDID(n.Stranger))

		var notFoundErr *did.DidNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("unsupported method", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		_, err := resolver.ResolveMetadata(env, "did:key:"+n.Identity.Hex())

		var methodErr *did.UnsupportedDidMethodError

		require.ErrorAs(t, err, &methodErr)
		require.Equal(t, "key", methodErr.Method)
	})

	t.Run("malformed DID", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		_, err := resolver.ResolveMetadata(env, "not-a-did")

		var incorrectErr *did.IncorrectDidError

		require.ErrorAs(t, err, &incorrectErr)
	})
}

func TestResolver_ResolveDocument(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	resolver := f.Suite.Resolver

	document := testDocument(did.IndyBesuDID(n.Identity))

	f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
		return f.Suite.IndyRegistry.CreateDid(env, n.Identity, document)
	})

	t.Run("record method returns the document", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		doc, err := resolver.ResolveDocument(env, did.IndyBesuDID(n.Identity))
		require.NoError(t, err)
		require.JSONEq(t, string(document), string(doc))
	})

	t.Run("address method has no documents", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		_, err := resolver.ResolveDocument(env, did.EthrDID(n.Identity))

		var opErr *did.UnsupportedOperationError

		require.ErrorAs(t, err, &opErr)
		require.Equal(t, did.MethodEthr, opErr.Method)
	})
}
