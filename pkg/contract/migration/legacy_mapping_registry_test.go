/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package migration_test

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/besu-vdr/internal/testutil"
	"github.com/trustbloc/besu-vdr/pkg/contract/auth"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/contract/migration"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// legacyIssuer is a deterministic ed25519 identity of the prior ledger
// generation: the identifier is the base58 form of the first 16 key bytes,
// proven by a signature over the identifier itself.
type legacyIssuer struct {
	identifier string
	publicKey  ed25519.PublicKey
	signature  []byte
}

func newLegacyIssuer(t *testing.T, seed byte) *legacyIssuer {
	t.Helper()

	var seedBytes [ed25519.SeedSize]byte
	seedBytes[0] = seed

	privateKey := ed25519.NewKeyFromSeed(seedBytes[:])
	publicKey := privateKey.Public().(ed25519.PublicKey)

	identifier := base58.Encode(publicKey[:16])

	return &legacyIssuer{
		identifier: identifier,
		publicKey:  publicKey,
		signature:  ed25519.Sign(privateKey, []byte(identifier)),
	}
}

func mappingFixture(t *testing.T) (*testutil.TestNetwork, *testutil.ContractFixture, string) {
	t.Helper()

	n := testutil.NewTestNetwork(t)
	f := testutil.NewContractFixture(t, n.Trustee)

	f.Exec(t, n.Trustee, func(env *ledger.CallEnv) error {
		return f.Suite.Roles.AssignRole(env, auth.RoleEndorser, n.Identity)
	})

	return n, f, did.EthrDID(n.Identity)
}

func TestLegacyMappingRegistry_CreateDidMapping(t *testing.T) {
	n, f, newDid := mappingFixture(t)
	reg := f.Suite.LegacyMappings
	issuer := newLegacyIssuer(t, 1)

	env, commit := f.Env(n.Identity)

	require.NoError(t, reg.CreateDidMapping(env, n.Identity, issuer.identifier, newDid,
		issuer.publicKey, issuer.signature))

	events := env.Events()
	require.Len(t, events, 1)
	require.Equal(t, migration.EventDidMappingCreated, events[0].Name)
	require.Equal(t, []string{issuer.identifier, n.Identity.Hex()}, events[0].Topics)

	commit()

	t.Run("mapping is readable", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		require.Equal(t, newDid, reg.GetDidMapping(env, issuer.identifier))
	})

	t.Run("unknown identifier reads empty", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		require.Empty(t, reg.GetDidMapping(env, "unknown"))
	})

	t.Run("duplicate mapping is rejected", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := reg.CreateDidMapping(env, n.Identity, issuer.identifier, newDid,
			issuer.publicKey, issuer.signature)

		var existErr *migration.DidMappingAlreadyExistError

		require.ErrorAs(t, err, &existErr)
	})
}

func TestLegacyMappingRegistry_DidMappingValidation(t *testing.T) {
	n, f, newDid := mappingFixture(t)
	reg := f.Suite.LegacyMappings
	issuer := newLegacyIssuer(t, 2)

	t.Run("sender must be the identity", func(t *testing.T) {
		env, _ := f.Env(n.Stranger)

		err := reg.CreateDidMapping(env, n.Identity, issuer.identifier, newDid,
			issuer.publicKey, issuer.signature)

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)
	})

	t.Run("account without a writer role", func(t *testing.T) {
		env, _ := f.Env(n.Stranger)

		err := reg.CreateDidMapping(env, n.Stranger, issuer.identifier,
			did.EthrDID(n.Stranger), issuer.publicKey, issuer.signature)

		var authErr *auth.UnauthorizedError

		require.ErrorAs(t, err, &authErr)
	})

	t.Run("truncated ed25519 key", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := reg.CreateDidMapping(env, n.Identity, issuer.identifier, newDid,
			issuer.publicKey[:16], issuer.signature)

		var invalidErr *migration.InvalidLegacyIdentifierError

		require.ErrorAs(t, err, &invalidErr)
	})

	t.Run("identifier not derived from the key", func(t *testing.T) {
		other := newLegacyIssuer(t, 3)

		env, _ := f.Env(n.Identity)

		err := reg.CreateDidMapping(env, n.Identity, other.identifier, newDid,
			issuer.publicKey, issuer.signature)

		var invalidErr *migration.InvalidLegacyIdentifierError

		require.ErrorAs(t, err, &invalidErr)
	})

	t.Run("signature by a different key", func(t *testing.T) {
		other := newLegacyIssuer(t, 3)

		env, _ := f.Env(n.Identity)

		err := reg.CreateDidMapping(env, n.Identity, issuer.identifier, newDid,
			issuer.publicKey, other.signature)

		var invalidErr *migration.InvalidLegacyIdentifierError

		require.ErrorAs(t, err, &invalidErr)
	})

	t.Run("DID owned by someone else", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := reg.CreateDidMapping(env, n.Identity, issuer.identifier,
			did.EthrDID(n.Trustee), issuer.publicKey, issuer.signature)

		var ownerErr *did.NotIdentityOwnerError

		require.ErrorAs(t, err, &ownerErr)
	})

	t.Run("deactivated DID", func(t *testing.T) {
		indyDID := did.IndyBesuDID(n.Identity)

		f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
			return f.Suite.IndyRegistry.CreateDid(env, n.Identity,
				json.RawMessage(`{"id":"`+indyDID+`"}`))
		})
		f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
			return f.Suite.IndyRegistry.DeactivateDid(env, n.Identity)
		})

		env, _ := f.Env(n.Identity)

		err := reg.CreateDidMapping(env, n.Identity, issuer.identifier, indyDID,
			issuer.publicKey, issuer.signature)

		var deactivatedErr *did.DidHasBeenDeactivatedError

		require.ErrorAs(t, err, &deactivatedErr)
	})
}

func TestLegacyMappingRegistry_CreateDidMappingSigned(t *testing.T) {
	n, f, newDid := mappingFixture(t)
	reg := f.Suite.LegacyMappings
	issuer := newLegacyIssuer(t, 4)

	digest := endorsement.Digest(reg.Address(), n.Identity, nil,
		migration.MethodCreateDidMapping,
		migration.CreateDidMappingArgs(issuer.identifier, newDid,
			issuer.publicKey, issuer.signature)...)

	sig, err := n.Signer.Sign(digest, n.Identity)
	require.NoError(t, err)

	f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
		return reg.CreateDidMappingSigned(env, n.Identity, sig, issuer.identifier,
			newDid, issuer.publicKey, issuer.signature)
	})

	env, _ := f.Env(n.Endorser)

	require.Equal(t, newDid, reg.GetDidMapping(env, issuer.identifier))
}

func TestLegacyMappingRegistry_ResourceMapping(t *testing.T) {
	n, f, newDid := mappingFixture(t)
	reg := f.Suite.LegacyMappings
	issuer := newLegacyIssuer(t, 5)

	legacyResourceID := issuer.identifier + ":2:degree:1.0"
	newResourceID := newDid + "/anoncreds/v0/SCHEMA/degree/1.0"

	f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
		return reg.CreateDidMapping(env, n.Identity, issuer.identifier, newDid,
			issuer.publicKey, issuer.signature)
	})

	t.Run("mapping requires a proven issuer", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := reg.CreateResourceMapping(env, n.Identity, "unmapped-issuer",
			"unmapped-issuer:2:degree:1.0", newResourceID)

		var notFoundErr *migration.DidMappingNotFoundError

		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("resource must belong to the issuer", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := reg.CreateResourceMapping(env, n.Identity, issuer.identifier,
			"someone-else:2:degree:1.0", newResourceID)

		var unrelatedErr *migration.UnrelatedResourceError

		require.ErrorAs(t, err, &unrelatedErr)
		require.Equal(t, issuer.identifier, unrelatedErr.LegacyIssuerID)
	})

	t.Run("mapping is stored and readable", func(t *testing.T) {
		f.Exec(t, n.Identity, func(env *ledger.CallEnv) error {
			return reg.CreateResourceMapping(env, n.Identity, issuer.identifier,
				legacyResourceID, newResourceID)
		})

		env, _ := f.Env(n.Identity)

		require.Equal(t, newResourceID, reg.GetResourceMapping(env, legacyResourceID))
	})

	t.Run("duplicate resource mapping is rejected", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		err := reg.CreateResourceMapping(env, n.Identity, issuer.identifier,
			legacyResourceID, newResourceID)

		var existErr *migration.ResourceMappingAlreadyExistError

		require.ErrorAs(t, err, &existErr)
	})

	t.Run("signed resource mapping", func(t *testing.T) {
		signedResourceID := issuer.identifier + ":3:CL:42:default"

		digest := endorsement.Digest(reg.Address(), n.Identity, nil,
			migration.MethodCreateResourceMapping,
			migration.CreateResourceMappingArgs(issuer.identifier, signedResourceID,
				newResourceID+"-creddef")...)

		sig, err := n.Signer.Sign(digest, n.Identity)
		require.NoError(t, err)

		f.Exec(t, n.Endorser, func(env *ledger.CallEnv) error {
			return reg.CreateResourceMappingSigned(env, n.Identity, sig,
				issuer.identifier, signedResourceID, newResourceID+"-creddef")
		})

		env, _ := f.Env(n.Endorser)

		require.Equal(t, newResourceID+"-creddef", reg.GetResourceMapping(env, signedResourceID))
	})
}

func TestLegacyMappingRegistry_Call(t *testing.T) {
	n, f, newDid := mappingFixture(t)
	reg := f.Suite.LegacyMappings
	issuer := newLegacyIssuer(t, 6)

	params, err := json.Marshal(&migration.CreateDidMappingParams{
		Identity:         n.Identity,
		LegacyIdentifier: issuer.identifier,
		NewDid:           newDid,
		Ed25519Key:       issuer.publicKey,
		Ed25519Signature: issuer.signature,
	})
	require.NoError(t, err)

	env, commit := f.Env(n.Identity)

	_, err = reg.Call(env, migration.MethodCreateDidMapping, params)
	require.NoError(t, err)
	commit()

	t.Run("getDidMapping over the wire", func(t *testing.T) {
		query, err := json.Marshal(&migration.GetDidMappingParams{
			LegacyIdentifier: issuer.identifier,
		})
		require.NoError(t, err)

		env, _ := f.Env(n.Identity)

		out, err := reg.Call(env, migration.MethodGetDidMapping, query)
		require.NoError(t, err)

		var result migration.GetDidMappingResult

		require.NoError(t, json.Unmarshal(out, &result))
		require.Equal(t, newDid, result.DID)
	})

	t.Run("unknown method", func(t *testing.T) {
		env, _ := f.Env(n.Identity)

		_, err := reg.Call(env, "deleteMapping", nil)

		var methodErr *ledger.UnknownMethodError

		require.ErrorAs(t, err, &methodErr)
	})
}
