/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Log Fields.
const (
	FieldAddress     = "address"
	FieldBlockNumber = "blockNumber"
	FieldContract    = "contract"
	FieldDID         = "did"
	FieldIDHash      = "idHash"
	FieldMethod      = "method"
	FieldNode        = "node"
	FieldRole        = "role"
	FieldTxHash      = "txHash"
)

// WithAddress sets the Address field.
func WithAddress(address common.Address) zap.Field {
	return zap.String(FieldAddress, address.Hex())
}

// WithBlockNumber sets the BlockNumber field.
func WithBlockNumber(blockNumber uint64) zap.Field {
	return zap.Uint64(FieldBlockNumber, blockNumber)
}

// WithContract sets the Contract field.
func WithContract(contract string) zap.Field {
	return zap.String(FieldContract, contract)
}

// WithDID sets the DID field.
func WithDID(did string) zap.Field {
	return zap.String(FieldDID, did)
}

// WithIDHash sets the IDHash field.
func WithIDHash(idHash common.Hash) zap.Field {
	return zap.String(FieldIDHash, idHash.Hex())
}

// WithMethod sets the Method field.
func WithMethod(method string) zap.Field {
	return zap.String(FieldMethod, method)
}

// WithNode sets the Node field.
func WithNode(node string) zap.Field {
	return zap.String(FieldNode, node)
}

// WithRole sets the Role field.
func WithRole(role string) zap.Field {
	return zap.String(FieldRole, role)
}

// WithTxHash sets the TxHash field.
func WithTxHash(txHash string) zap.Field {
	return zap.String(FieldTxHash, txHash)
}
