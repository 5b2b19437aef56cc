/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did_test

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/besu-vdr/internal/testutil"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

func TestEthrRegistry_IdentityOwner(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)

	t.Run("identity owns itself by default", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		require.Equal(t, n.Identity, f.Suite.EthrRegistry.IdentityOwner(env, n.Identity))
		require.Zero(t, f.Suite.EthrRegistry.Changed(env, n.Identity))
		require.Zero(t, f.Suite.EthrRegistry.Nonce(env, n.Identity))
	})
}

func TestEthrRegistry_ChangeOwner(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)

	f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
		return f.Suite.EthrRegistry.ChangeOwner(env, n.Identity, n.Endorser)
	})

	env, _ := f.Env(n.Identity)
	require.Equal(t, n.Endorser, f.Suite.EthrRegistry.IdentityOwner(env, n.Identity))
	require.Equal(t, uint64(1), f.Suite.EthrRegistry.Changed(env, n.Identity))

	t.Run("previous owner loses control", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := f.Suite.EthrRegistry.ChangeOwner(env, n.Identity, n.Identity)

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)
		require.Equal(t, n.Identity, ownerErr.Actor)
		require.Equal(t, n.Endorser, ownerErr.Owner)
	})

	t.Run("new owner can transfer back", func(t *testing.T) {
		f.NextBlock()
		f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
			return f.Suite.EthrRegistry.ChangeOwner(env, n.Identity, n.Identity)
		})

		env, _ := f.Env(n.Identity)
		require.Equal(t, n.Identity, f.Suite.EthrRegistry.IdentityOwner(env, n.Identity))
	})
}

func TestEthrRegistry_ChangeOwnerSigned(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.EthrRegistry

	signOwnerChange := func(t *testing.T, account common.Address) endorsement.SignatureData {
		t.Helper()

		env, _ := f.Env(n.Endorser)
		nonce := reg.Nonce(env, n.Identity)

		digest := endorsement.Digest(reg.Address(), n.Identity, &nonce,
			did.MethodChangeOwner, did.ChangeOwnerArgs(n.Endorser)...)

		sig, err := n.Signer.Sign(digest, account)
		require.NoError(t, err)

		return sig
	}

	t.Run("endorser submits the owner's signature", func(t *testing.T) {
		sig := signOwnerChange(t, n.Identity)

		f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
			return reg.ChangeOwnerSigned(env, n.Identity, sig, n.Endorser)
		})

		env, _ := f.Env(n.Endorser)
		require.Equal(t, n.Endorser, reg.IdentityOwner(env, n.Identity))
		require.Equal(t, uint64(1), reg.Nonce(env, n.Identity), "nonce is consumed")
	})

	t.Run("signature by a non-owner recovers the wrong actor", func(t *testing.T) {
		sig := signOwnerChange(t, n.Stranger)

		env, _ := f.Env(n.Endorser)

		err := reg.ChangeOwnerSigned(env, n.Identity, sig, n.Endorser)

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)
		require.Equal(t, n.Stranger, ownerErr.Actor)
	})
}

func TestEthrRegistry_SignedNonceReplay(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.EthrRegistry

	// Sign setAttribute over nonce 0 and apply it.
	digest := endorsement.Digest(reg.Address(), n.Identity, uintPtr(0),
		did.MethodSetAttribute, did.SetAttributeArgs("did/svc/agent", []byte("https://agent.example.com"), 3600)...)

	sig, err := n.Signer.Sign(digest, n.Identity)
	require.NoError(t, err)

	f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
		return reg.SetAttributeSigned(env, n.Identity, sig, "did/svc/agent",
			[]byte("https://agent.example.com"), 3600)
	})

	// Replaying the same signature recomputes the digest over nonce 1, so
	// recovery no longer yields the owner.
	env, _ := f.Env(n.Endorser)

	err = reg.SetAttributeSigned(env, n.Identity, sig, "did/svc/agent",
		[]byte("https://agent.example.com"), 3600)

	var ownerErr *did.NotIdentityOwnerError

	require.ErrorAs(t, err, &ownerErr)
}

func TestEthrRegistry_Attributes(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.EthrRegistry

	value := []byte("did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK")

	env, commit := f.Env(n.Identity)

	require.NoError(t, reg.SetAttribute(env, n.Identity, "did/pub/ed25519/veriKey/base58", value, 3600))

	events := env.Events()
	require.Len(t, events, 1)
	require.Equal(t, did.EventDIDAttributeChanged, events[0].Name)
	require.Equal(t, []string{n.Identity.Hex()}, events[0].Topics)

	var payload did.DIDAttributeChangedEvent

	require.NoError(t, json.Unmarshal(events[0].Data, &payload))
	require.Equal(t, value, payload.Value)
	require.Equal(t, int64(1700000000+3600), payload.ValidTo)
	require.Zero(t, payload.PreviousChange, "first change links to block zero")

	commit()

	t.Run("revocation sets validTo to zero", func(t *testing.T) {
		f.NextBlock()

		env, _ := f.Env(n.Identity)

		require.NoError(t, reg.RevokeAttribute(env, n.Identity, "did/pub/ed25519/veriKey/base58", value))

		events := env.Events()
		require.Len(t, events, 1)

		var payload did.DIDAttributeChangedEvent

		require.NoError(t, json.Unmarshal(events[0].Data, &payload))
		require.Zero(t, payload.ValidTo)
		require.Equal(t, uint64(1), payload.PreviousChange, "chained to the prior change block")
	})

	t.Run("only the owner publishes attributes", func(t *testing.T) {
		env, _ := f.Env(n.Stranger)

		err := reg.SetAttribute(env, n.Identity, "did/svc/agent", []byte("x"), 1)

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)
	})
}

func TestEthrRegistry_Call(t *testing.T) {
	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)
	reg := f.Suite.EthrRegistry

	t.Run("changeOwner and identityOwner over the wire", func(t *testing.T) {
		params, err := json.Marshal(&did.ChangeOwnerParams{Identity: n.Identity, NewOwner: n.Endorser})
		require.NoError(t, err)

		env, commit := f.Env(n.Identity)

		_, err = reg.Call(env, did.MethodChangeOwner, params)
		require.NoError(t, err)
		commit()

		query, err := json.Marshal(&did.IdentityParams{Identity: n.Identity})
		require.NoError(t, err)

		env, _ = f.Env(n.Identity)

		out, err := reg.Call(env, did.MethodIdentityOwner, query)
		require.NoError(t, err)

		var result did.IdentityOwnerResult

		require.NoError(t, json.Unmarshal(out, &result))
		require.Equal(t, n.Endorser, result.Owner)
	})

	t.Run("malformed params", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		_, err := reg.Call(env, did.MethodChangeOwner, []byte("{"))
		require.Error(t, err)
	})

	t.Run("unknown method", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		_, err := reg.Call(env, "selfDestruct", nil)

		var methodErr *ledger.UnknownMethodError

		require.ErrorAs(t, err, &methodErr)
		require.Equal(t, did.EthrContractName, methodErr.Contract)
	})
}

func uintPtr(v uint64) *uint64 { return &v }
