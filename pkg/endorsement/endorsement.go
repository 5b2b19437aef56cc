/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package endorsement implements the canonical signable digest shared by the
// off-chain client and the on-ledger registries, and the recoverable ECDSA
// check that authorizes an operation as the author regardless of who submits
// the transaction.
package endorsement

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Framing bytes borrowed from the personal-sign convention. They keep an
// endorsement digest from colliding with any other signed payload format.
const (
	digestPrefix  = 0x19
	digestVersion = 0x00
)

// ErrInvalidSignature is returned when public key recovery fails or yields
// the zero address.
var ErrInvalidSignature = errors.New("invalid signature")

// Arg is a single operation argument packed into the signable digest.
// Arguments are concatenated in the exact order the non-endorsed variant of
// the operation takes them.
type Arg struct {
	bytes []byte
}

// AddressArg packs an account address as 20 bytes.
func AddressArg(a common.Address) Arg {
	return Arg{bytes: a.Bytes()}
}

// StringArg packs the raw UTF-8 bytes of a string.
func StringArg(s string) Arg {
	return Arg{bytes: []byte(s)}
}

// BytesArg packs a byte slice as-is.
func BytesArg(b []byte) Arg {
	return Arg{bytes: b}
}

// HashArg packs a 32-byte identifier hash.
func HashArg(h common.Hash) Arg {
	return Arg{bytes: h.Bytes()}
}

// UintArg packs an unsigned integer as 32 bytes, big-endian.
func UintArg(v uint64) Arg {
	var b [32]byte
	for i := 31; i >= 24; i-- {
		b[i] = byte(v)
		v >>= 8
	}

	return Arg{bytes: b[:]}
}

// Digest computes the signable digest for an operation:
//
//	keccak256(0x19 || 0x00 || contract || [nonce] || identity || method || args...)
//
// The contract address binds the signature to one registry instance, the
// method name prevents cross-operation replay and the optional nonce guards
// operations that are otherwise repeatable.
func Digest(contract, identity common.Address, nonce *uint64, method string, args ...Arg) common.Hash {
	buf := []byte{digestPrefix, digestVersion}
	buf = append(buf, contract.Bytes()...)
	if nonce != nil {
		buf = append(buf, UintArg(*nonce).bytes...)
	}
	buf = append(buf, identity.Bytes()...)
	buf = append(buf, []byte(method)...)
	for _, arg := range args {
		buf = append(buf, arg.bytes...)
	}

	return crypto.Keccak256Hash(buf)
}

// SignatureData is a recoverable ECDSA signature over a digest. V follows the
// 27/28 convention.
type SignatureData struct {
	V byte     `json:"v"`
	R [32]byte `json:"r"`
	S [32]byte `json:"s"`
}

// NewSignature builds SignatureData from a 65-byte [R || S || V] signature
// with a 0/1 recovery id, as produced by secp256k1 signing.
func NewSignature(sig []byte) (SignatureData, error) {
	if len(sig) != crypto.SignatureLength {
		return SignatureData{}, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrInvalidSignature, crypto.SignatureLength, len(sig))
	}

	var data SignatureData
	copy(data.R[:], sig[:32])
	copy(data.S[:], sig[32:64])
	data.V = sig[64] + 27

	return data, nil
}

// Compact returns the signature in [R || S || recovery id] form.
func (s SignatureData) Compact() [65]byte {
	var out [65]byte
	copy(out[:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.V - 27

	return out
}

// Actor is the account every authorization check runs against. It is
// computed once per call, either from the transaction sender or from the
// author's signature, and threaded through all subsequent checks.
type Actor struct {
	Address common.Address
	// Endorsed is set when the actor was recovered from an author signature
	// rather than taken from the transaction sender.
	Endorsed bool
}

// Sender makes an actor out of the transaction sender.
func Sender(addr common.Address) Actor {
	return Actor{Address: addr}
}

// Recover resolves the acting author from a digest and signature. It fails
// with ErrInvalidSignature when the components are malformed or recovery
// yields the zero address.
func Recover(digest common.Hash, sig SignatureData) (Actor, error) {
	if sig.V != 27 && sig.V != 28 {
		return Actor{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sig.V)
	}

	compact := sig.Compact()

	pub, err := crypto.SigToPub(digest.Bytes(), compact[:])
	if err != nil {
		return Actor{}, fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	addr := crypto.PubkeyToAddress(*pub)
	if addr == (common.Address{}) {
		return Actor{}, fmt.Errorf("%w: recovered zero address", ErrInvalidSignature)
	}

	return Actor{Address: addr, Endorsed: true}, nil
}
