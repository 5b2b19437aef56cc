/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package signer holds secp256k1 keys and produces the recoverable
// signatures used both for transaction sending and endorsement payloads.
package signer

import (
	"crypto/ecdsa"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// MissingKeyError indicates signing was requested for an account whose key
// was never imported.
type MissingKeyError struct {
	Account common.Address
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("no key for account %s", e.Account.Hex())
}

// BasicSigner is an in-memory key store.
type BasicSigner struct {
	mu   sync.RWMutex
	keys map[common.Address]*ecdsa.PrivateKey
}

// NewBasicSigner creates an empty signer.
func NewBasicSigner() *BasicSigner {
	return &BasicSigner{keys: map[common.Address]*ecdsa.PrivateKey{}}
}

// CreateKey generates a fresh key pair and returns the derived account
// address.
func (s *BasicSigner) CreateKey() (common.Address, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return common.Address{}, fmt.Errorf("generate key: %w", err)
	}

	return s.add(key), nil
}

// ImportKey adds a hex-encoded private key and returns the derived account
// address.
func (s *BasicSigner) ImportKey(privateKeyHex string) (common.Address, error) {
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("import key: %w", err)
	}

	return s.add(key), nil
}

func (s *BasicSigner) add(key *ecdsa.PrivateKey) common.Address {
	address := crypto.PubkeyToAddress(key.PublicKey)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[address] = key

	return address
}

// PublicKey returns the uncompressed public key of an account.
func (s *BasicSigner) PublicKey(account common.Address) ([]byte, error) {
	key, err := s.key(account)
	if err != nil {
		return nil, err
	}

	return crypto.FromECDSAPub(&key.PublicKey), nil
}

// Sign produces a recoverable signature over a 32-byte digest.
func (s *BasicSigner) Sign(digest common.Hash, account common.Address) (endorsement.SignatureData, error) {
	key, err := s.key(account)
	if err != nil {
		return endorsement.SignatureData{}, err
	}

	sig, err := crypto.Sign(digest.Bytes(), key)
	if err != nil {
		return endorsement.SignatureData{}, fmt.Errorf("sign digest: %w", err)
	}

	return endorsement.NewSignature(sig)
}

// SignTransaction signs a transaction with its sender's key.
func (s *BasicSigner) SignTransaction(tx *ledger.Transaction) error {
	sig, err := s.Sign(common.BytesToHash(tx.SigningBytes()), tx.From)
	if err != nil {
		return err
	}

	tx.Signature = &sig

	return nil
}

func (s *BasicSigner) key(account common.Address) (*ecdsa.PrivateKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[account]
	if !ok {
		return nil, &MissingKeyError{Account: account}
	}

	return key, nil
}
