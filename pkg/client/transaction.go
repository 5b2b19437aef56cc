/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package client

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// Signer produces recoverable signatures for accounts it holds keys for.
type Signer interface {
	Sign(digest common.Hash, account common.Address) (endorsement.SignatureData, error)
	SignTransaction(tx *ledger.Transaction) error
}

// TransactionEndorsingData is the payload an identity owner signs so that a
// third party can submit the operation on its behalf. GetSigningBytes
// reproduces the digest the registry will recompute during verification, so
// both sides hash identical bytes.
type TransactionEndorsingData struct {
	Contract        string
	To              common.Address
	Identity        common.Address
	Nonce           *uint64
	Method          string
	EndorsingMethod string
	Args            []endorsement.Arg
	Signature       endorsement.SignatureData
}

// GetSigningBytes returns the digest the identity owner signs.
func (d *TransactionEndorsingData) GetSigningBytes() common.Hash {
	return endorsement.Digest(d.To, d.Identity, d.Nonce, d.Method, d.Args...)
}

// SetSignature attaches the owner's signature to the endorsing data.
func (d *TransactionEndorsingData) SetSignature(sig endorsement.SignatureData) {
	d.Signature = sig
}

// endorsingData resolves a contract address and assembles the endorsing
// payload for a signed method.
func (c *LedgerClient) endorsingData(contractName string, identity common.Address,
	nonce *uint64, method, endorsingMethod string,
	args []endorsement.Arg) (*TransactionEndorsingData, error) {
	to, err := c.ContractAddress(contractName)
	if err != nil {
		return nil, err
	}

	return &TransactionEndorsingData{
		Contract:        contractName,
		To:              to,
		Identity:        identity,
		Nonce:           nonce,
		Method:          method,
		EndorsingMethod: endorsingMethod,
		Args:            args,
	}, nil
}

// EndorseTransactionData signs endorsing data with the identity owner's key.
func EndorseTransactionData(signer Signer, data *TransactionEndorsingData) error {
	sig, err := signer.Sign(data.GetSigningBytes(), data.Identity)
	if err != nil {
		return err
	}

	data.SetSignature(sig)

	return nil
}
