/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package testutil provides the shared fixtures the registry tests build on:
// deterministic accounts with known private keys and a fully deployed
// in-process network.
package testutil

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/trustbloc/besu-vdr/pkg/contract"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
	"github.com/trustbloc/besu-vdr/pkg/signer"
)

// Deterministic test accounts. The trustee key seeds the genesis trustee of
// every test network.
const (
	TrusteeKeyHex  = "8bbbb1b345af56b560a5b20bd4b0ed1cd8cc9958a16262bc75118453cb546df7"
	EndorserKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	IdentityKeyHex = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	StrangerKeyHex = "7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6"
)

// TestNetwork is a deployed registry suite with a signer holding the
// deterministic test keys.
type TestNetwork struct {
	Ledger *ledger.MemoryLedger
	Suite  *contract.Suite
	Signer *signer.BasicSigner

	Trustee  common.Address
	Endorser common.Address
	Identity common.Address
	Stranger common.Address
}

// NewTestNetwork deploys the full registry suite on a fresh in-memory ledger
// with the deterministic trustee seeded at genesis.
func NewTestNetwork(t *testing.T) *TestNetwork {
	t.Helper()

	s := signer.NewBasicSigner()

	trustee, err := s.ImportKey(TrusteeKeyHex)
	require.NoError(t, err)

	endorser, err := s.ImportKey(EndorserKeyHex)
	require.NoError(t, err)

	identity, err := s.ImportKey(IdentityKeyHex)
	require.NoError(t, err)

	stranger, err := s.ImportKey(StrangerKeyHex)
	require.NoError(t, err)

	engine := ledger.NewMemoryLedger(ledger.NewStore())

	suite, err := contract.Deploy(engine, []common.Address{trustee})
	require.NoError(t, err)

	return &TestNetwork{
		Ledger:   engine,
		Suite:    suite,
		Signer:   s,
		Trustee:  trustee,
		Endorser: endorser,
		Identity: identity,
		Stranger: stranger,
	}
}

// ContractFixture exercises the registry suite directly at the contract
// level, without transactions or signatures, for unit tests of registry
// semantics.
type ContractFixture struct {
	Suite *contract.Suite
	Store *ledger.Store

	block ledger.BlockInfo
}

// NewContractFixture builds the registry suite over a fresh store and seeds
// the given genesis trustees.
func NewContractFixture(t *testing.T, trustees ...common.Address) *ContractFixture {
	t.Helper()

	f := &ContractFixture{
		Suite: contract.NewSuite(),
		Store: ledger.NewStore(),
		block: ledger.BlockInfo{Number: 1, Time: 1700000000},
	}

	f.Exec(t, common.Address{}, func(env *ledger.CallEnv) error {
		return f.Suite.Roles.Init(env, trustees)
	})

	return f
}

// NextBlock advances the fixture's block, so block-sensitive state such as
// version blocks can be asserted.
func (f *ContractFixture) NextBlock() {
	f.block.Number++
	f.block.Time++
}

// Env opens a call environment for sender over a new transaction. The commit
// function applies its writes to the fixture's store.
func (f *ContractFixture) Env(sender common.Address) (*ledger.CallEnv, func()) {
	txn := f.Store.Begin()

	return ledger.NewCallEnv(sender, f.block, txn), txn.Commit
}

// Exec runs fn in a call environment for sender and commits on success. It
// fails the test when fn returns an error.
func (f *ContractFixture) Exec(t *testing.T, sender common.Address,
	fn func(env *ledger.CallEnv) error) {
	t.Helper()

	env, commit := f.Env(sender)

	require.NoError(t, fn(env))
	commit()
}
