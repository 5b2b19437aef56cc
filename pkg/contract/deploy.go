/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package contract wires the registry suite into a ledger engine.
package contract

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trustbloc/besu-vdr/pkg/contract/anoncreds"
	"github.com/trustbloc/besu-vdr/pkg/contract/auth"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/contract/migration"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// DeterministicAddress derives a stable contract address from its name, so
// every node and client computes the same address book without coordination.
func DeterministicAddress(name string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(name))[12:])
}

// Suite holds the deployed registry instances and their address book.
type Suite struct {
	Roles          *auth.RoleControl
	EthrRegistry   *did.EthrRegistry
	IndyRegistry   *did.IndyRegistry
	Resolver       *did.Resolver
	Schemas        *anoncreds.SchemaRegistry
	CredDefs       *anoncreds.CredentialDefinitionRegistry
	Revocations    *anoncreds.RevocationRegistry
	LegacyMappings *migration.LegacyMappingRegistry
}

// NewSuite constructs the registry instances at their deterministic
// addresses without binding them to a ledger engine.
func NewSuite() *Suite {
	s := &Suite{}

	s.Roles = auth.NewRoleControl(DeterministicAddress(auth.ContractName))
	s.EthrRegistry = did.NewEthrRegistry(DeterministicAddress(did.EthrContractName))
	s.IndyRegistry = did.NewIndyRegistry(DeterministicAddress(did.IndyContractName))
	s.Resolver = did.NewResolver(s.EthrRegistry, s.IndyRegistry)

	s.Schemas = anoncreds.NewSchemaRegistry(
		DeterministicAddress(anoncreds.SchemaContractName), s.Roles, s.Resolver)
	s.CredDefs = anoncreds.NewCredentialDefinitionRegistry(
		DeterministicAddress(anoncreds.CredDefContractName), s.Schemas, s.Roles, s.Resolver)
	s.Revocations = anoncreds.NewRevocationRegistry(
		DeterministicAddress(anoncreds.RevocationContractName), s.CredDefs, s.Roles, s.Resolver)
	s.LegacyMappings = migration.NewLegacyMappingRegistry(
		DeterministicAddress(migration.ContractName), s.Roles, s.Resolver)

	return s
}

// Deploy registers the full registry suite on a ledger engine and seeds the
// genesis trustees.
func Deploy(l *ledger.MemoryLedger, trustees []common.Address) (*Suite, error) {
	s := NewSuite()

	l.Register(s.Roles)
	l.Register(s.EthrRegistry)
	l.Register(s.IndyRegistry)
	l.Register(s.Schemas)
	l.Register(s.CredDefs)
	l.Register(s.Revocations)
	l.Register(s.LegacyMappings)

	if err := l.Genesis(func(env *ledger.CallEnv) error {
		return s.Roles.Init(env, trustees)
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// AddressBook returns the canonical contract name to address map used to
// configure registry clients.
func AddressBook() map[string]common.Address {
	names := []string{
		auth.ContractName,
		did.EthrContractName,
		did.IndyContractName,
		anoncreds.SchemaContractName,
		anoncreds.CredDefContractName,
		anoncreds.RevocationContractName,
		migration.ContractName,
	}

	book := make(map[string]common.Address, len(names))
	for _, name := range names {
		book[name] = DeterministicAddress(name)
	}

	return book
}
