/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package migration

import "fmt"

// InvalidLegacyIdentifierError indicates a legacy identifier that fails
// either the structural check against the ed25519 key or the signature
// verification.
type InvalidLegacyIdentifierError struct {
	LegacyIdentifier string
	Reason           string
}

func (e *InvalidLegacyIdentifierError) Error() string {
	return fmt.Sprintf("invalid legacy identifier %q: %s", e.LegacyIdentifier, e.Reason)
}

// DidMappingAlreadyExistError indicates a duplicate DID mapping.
type DidMappingAlreadyExistError struct {
	LegacyIdentifier string
}

func (e *DidMappingAlreadyExistError) Error() string {
	return fmt.Sprintf("DID mapping already exists for %s", e.LegacyIdentifier)
}

// DidMappingNotFoundError indicates a resource mapping whose legacy issuer
// has no DID mapping yet.
type DidMappingNotFoundError struct {
	LegacyIdentifier string
}

func (e *DidMappingNotFoundError) Error() string {
	return fmt.Sprintf("no DID mapping exists for %s", e.LegacyIdentifier)
}

// ResourceMappingAlreadyExistError indicates a duplicate resource mapping.
type ResourceMappingAlreadyExistError struct {
	LegacyResourceID string
}

func (e *ResourceMappingAlreadyExistError) Error() string {
	return fmt.Sprintf("resource mapping already exists for %s", e.LegacyResourceID)
}

// UnrelatedResourceError indicates a legacy resource id that does not belong
// to the given legacy issuer.
type UnrelatedResourceError struct {
	LegacyIssuerID   string
	LegacyResourceID string
}

func (e *UnrelatedResourceError) Error() string {
	return fmt.Sprintf("legacy resource %s does not belong to issuer %s",
		e.LegacyResourceID, e.LegacyIssuerID)
}
