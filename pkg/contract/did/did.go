/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did implements the two DID registries backing the identity layer:
// an address-is-identity method (did:ethr) with mutable ownership, and a
// record-based method (did:indybesu) with a full document lifecycle, plus
// the resolver that dispatches between them.
package did

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Method tags of the supported DID methods. Dispatch happens over this
// closed set; anything else maps to UnsupportedDidMethodError.
const (
	MethodEthr     = "ethr"
	MethodIndyBesu = "indybesu"
)

// ParsedDID is the decomposed form of a DID string:
// did:<method>[:<namespace>]:<hex account address>.
type ParsedDID struct {
	Method     string
	Namespace  string
	Identifier string
}

// Parse splits a DID string. It fails with IncorrectDidError when the string
// is not a DID or its identifier is not a hex account address.
func Parse(did string) (*ParsedDID, error) {
	parts := strings.Split(did, ":")
	if len(parts) < 3 || len(parts) > 4 || parts[0] != "did" {
		return nil, &IncorrectDidError{DID: did}
	}

	parsed := &ParsedDID{Method: parts[1]}
	if len(parts) == 4 {
		parsed.Namespace = parts[2]
		parsed.Identifier = parts[3]
	} else {
		parsed.Identifier = parts[2]
	}

	if !common.IsHexAddress(parsed.Identifier) {
		return nil, &IncorrectDidError{DID: did}
	}

	return parsed, nil
}

// AsAddress converts the method-specific identifier to an account address.
func (p *ParsedDID) AsAddress() common.Address {
	return common.HexToAddress(p.Identifier)
}

// String rebuilds the DID without its namespace, the canonical short form
// stored on the ledger.
func (p *ParsedDID) String() string {
	return "did:" + p.Method + ":" + p.Identifier
}

// EthrDID builds the short-form did:ethr DID of an account.
func EthrDID(account common.Address) string {
	return "did:" + MethodEthr + ":" + account.Hex()
}

// IndyBesuDID builds the short-form did:indybesu DID of an account.
func IndyBesuDID(account common.Address) string {
	return "did:" + MethodIndyBesu + ":" + account.Hex()
}
