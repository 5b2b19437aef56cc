/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/contract/auth"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// BuildAssignRoleTransaction builds an unsigned assignRole transaction.
func (c *LedgerClient) BuildAssignRoleTransaction(ctx context.Context, from common.Address,
	role auth.Role, account common.Address) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, auth.ContractName, auth.MethodAssignRole,
		&auth.ChangeRoleParams{Role: role, Account: account})
}

// BuildRevokeRoleTransaction builds an unsigned revokeRole transaction.
func (c *LedgerClient) BuildRevokeRoleTransaction(ctx context.Context, from common.Address,
	role auth.Role, account common.Address) (*ledger.Transaction, error) {
	return c.NewTransaction(ctx, from, auth.ContractName, auth.MethodRevokeRole,
		&auth.ChangeRoleParams{Role: role, Account: account})
}

// GetRole returns the role held by an account.
func (c *LedgerClient) GetRole(ctx context.Context, account common.Address) (auth.Role, error) {
	var result auth.GetRoleResult

	err := c.CallContract(ctx, auth.ContractName, auth.MethodGetRole,
		&auth.GetRoleParams{Account: account}, &result)
	if err != nil {
		return auth.RoleNone, err
	}

	return result.Role, nil
}

// HasRole reports whether an account holds a specific role.
func (c *LedgerClient) HasRole(ctx context.Context, role auth.Role,
	account common.Address) (bool, error) {
	var result auth.HasRoleResult

	err := c.CallContract(ctx, auth.ContractName, auth.MethodHasRole,
		&auth.ChangeRoleParams{Role: role, Account: account}, &result)
	if err != nil {
		return false, err
	}

	return result.HasRole, nil
}

// AssignRole builds, signs and submits an assignRole transaction and waits
// for its receipt.
func (c *LedgerClient) AssignRole(ctx context.Context, signer Signer, from common.Address,
	role auth.Role, account common.Address) (*ledger.Receipt, error) {
	tx, err := c.BuildAssignRoleTransaction(ctx, from, role, account)
	if err != nil {
		return nil, err
	}

	return c.signAndSubmit(ctx, signer, tx)
}

// RevokeRole builds, signs and submits a revokeRole transaction and waits
// for its receipt.
func (c *LedgerClient) RevokeRole(ctx context.Context, signer Signer, from common.Address,
	role auth.Role, account common.Address) (*ledger.Receipt, error) {
	tx, err := c.BuildRevokeRoleTransaction(ctx, from, role, account)
	if err != nil {
		return nil, err
	}

	return c.signAndSubmit(ctx, signer, tx)
}

func (c *LedgerClient) signAndSubmit(ctx context.Context, signer Signer,
	tx *ledger.Transaction) (*ledger.Receipt, error) {
	if err := signer.SignTransaction(tx); err != nil {
		return nil, err
	}

	return c.SubmitAndWait(ctx, tx)
}
