/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package auth implements the account-role permission model. Every account
// holds at most one role, and a role-ownership hierarchy determines who may
// grant or revoke which role.
package auth

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// ContractName is the registry name the client addresses transactions by.
const ContractName = "RoleControl"

// Contract methods.
const (
	MethodAssignRole = "assignRole"
	MethodRevokeRole = "revokeRole"
	MethodHasRole    = "hasRole"
	MethodGetRole    = "getRole"
)

// Role of an account.
type Role uint8

const (
	RoleNone Role = iota
	RoleTrustee
	RoleEndorser
	RoleSteward
)

func (r Role) String() string {
	switch r {
	case RoleTrustee:
		return "TRUSTEE"
	case RoleEndorser:
		return "ENDORSER"
	case RoleSteward:
		return "STEWARD"
	default:
		return "NONE"
	}
}

// ParseRole converts a role name as accepted by the CLI.
func ParseRole(s string) (Role, error) {
	switch s {
	case "TRUSTEE":
		return RoleTrustee, nil
	case "ENDORSER":
		return RoleEndorser, nil
	case "STEWARD":
		return RoleSteward, nil
	case "NONE", "":
		return RoleNone, nil
	default:
		return RoleNone, fmt.Errorf("unknown role %q", s)
	}
}

// UnauthorizedError indicates the caller's role does not own the role it
// tried to change, or an operation requires a role the actor lacks.
type UnauthorizedError struct {
	Account common.Address
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("account %s is not authorized", e.Account.Hex())
}

// RoleControl maps accounts to roles and enforces the ownership hierarchy.
type RoleControl struct {
	address common.Address
	// owner role of each assignable role. Trustee owns every role,
	// including itself.
	owners map[Role]Role
}

// NewRoleControl deploys the role registry at the given address.
func NewRoleControl(address common.Address) *RoleControl {
	return &RoleControl{
		address: address,
		owners: map[Role]Role{
			RoleTrustee:  RoleTrustee,
			RoleEndorser: RoleTrustee,
			RoleSteward:  RoleTrustee,
		},
	}
}

// Address implements ledger.Contract.
func (c *RoleControl) Address() common.Address {
	return c.address
}

// Name implements ledger.Contract.
func (c *RoleControl) Name() string {
	return ContractName
}

func roleKey(account common.Address) string {
	return "auth/role/" + account.Hex()
}

// GetRole returns the account's role, RoleNone when unassigned.
func (c *RoleControl) GetRole(env *ledger.CallEnv, account common.Address) Role {
	data := env.State.Get(roleKey(account))
	if len(data) != 1 {
		return RoleNone
	}

	return Role(data[0])
}

// HasRole reports whether the account holds the given role.
func (c *RoleControl) HasRole(env *ledger.CallEnv, role Role, account common.Address) bool {
	return c.GetRole(env, account) == role
}

// IsWriter reports whether the account holds any role permitted to create
// registry records.
func (c *RoleControl) IsWriter(env *ledger.CallEnv, account common.Address) bool {
	switch c.GetRole(env, account) {
	case RoleTrustee, RoleEndorser, RoleSteward:
		return true
	default:
		return false
	}
}

// AssignRole sets the account's role. The caller must hold the owner role of
// the assigned role; re-assigning simply overwrites.
func (c *RoleControl) AssignRole(env *ledger.CallEnv, role Role, account common.Address) error {
	if err := c.checkOwner(env, role); err != nil {
		return err
	}

	env.State.Put(roleKey(account), []byte{byte(role)})

	return env.Emit(c.address, EventRoleAssigned, []string{account.Hex()},
		&RoleAssignedEvent{Role: role, Account: account, Sender: env.Sender})
}

// RevokeRole clears the account's role if it currently holds the given one.
func (c *RoleControl) RevokeRole(env *ledger.CallEnv, role Role, account common.Address) error {
	if err := c.checkOwner(env, role); err != nil {
		return err
	}

	if c.GetRole(env, account) == role {
		env.State.Delete(roleKey(account))
	}

	return env.Emit(c.address, EventRoleRevoked, []string{account.Hex()},
		&RoleRevokedEvent{Role: role, Account: account, Sender: env.Sender})
}

func (c *RoleControl) checkOwner(env *ledger.CallEnv, role Role) error {
	owner, ok := c.owners[role]
	if !ok || c.GetRole(env, env.Sender) != owner {
		return &UnauthorizedError{Account: env.Sender}
	}

	return nil
}

// Init assigns the genesis trustees. It is applied in block zero only.
func (c *RoleControl) Init(env *ledger.CallEnv, trustees []common.Address) error {
	if len(trustees) == 0 {
		return fmt.Errorf("at least one genesis trustee is required")
	}

	for _, account := range trustees {
		env.State.Put(roleKey(account), []byte{byte(RoleTrustee)})
	}

	return nil
}

// Call implements ledger.Contract.
func (c *RoleControl) Call(env *ledger.CallEnv, method string, params []byte) ([]byte, error) {
	switch method {
	case MethodAssignRole:
		var p ChangeRoleParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, c.AssignRole(env, p.Role, p.Account)
	case MethodRevokeRole:
		var p ChangeRoleParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return nil, c.RevokeRole(env, p.Role, p.Account)
	case MethodHasRole:
		var p ChangeRoleParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return json.Marshal(&HasRoleResult{HasRole: c.HasRole(env, p.Role, p.Account)})
	case MethodGetRole:
		var p GetRoleParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", method, err)
		}

		return json.Marshal(&GetRoleResult{Role: c.GetRole(env, p.Account)})
	default:
		return nil, &ledger.UnknownMethodError{Contract: ContractName, Method: method}
	}
}
