/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package auth

import "github.com/ethereum/go-ethereum/common"

// Events.
const (
	EventRoleAssigned = "RoleAssigned"
	EventRoleRevoked  = "RoleRevoked"
)

// ChangeRoleParams is the wire form of assignRole, revokeRole and hasRole.
type ChangeRoleParams struct {
	Role    Role           `json:"role"`
	Account common.Address `json:"account"`
}

// GetRoleParams is the wire form of getRole.
type GetRoleParams struct {
	Account common.Address `json:"account"`
}

// GetRoleResult is the getRole response.
type GetRoleResult struct {
	Role Role `json:"role"`
}

// HasRoleResult is the hasRole response.
type HasRoleResult struct {
	HasRole bool `json:"hasRole"`
}

// RoleAssignedEvent is emitted on every successful role assignment.
type RoleAssignedEvent struct {
	Role    Role           `json:"role"`
	Account common.Address `json:"account"`
	Sender  common.Address `json:"sender"`
}

// RoleRevokedEvent is emitted on every successful role revocation.
type RoleRevokedEvent struct {
	Role    Role           `json:"role"`
	Account common.Address `json:"account"`
	Sender  common.Address `json:"sender"`
}
