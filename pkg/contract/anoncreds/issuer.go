/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"errors"

	"github.com/trustbloc/besu-vdr/pkg/contract/auth"
	"github.com/trustbloc/besu-vdr/pkg/contract/did"
	"github.com/trustbloc/besu-vdr/pkg/endorsement"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
)

// issuerAuthority gates every resource write behind the role model and the
// issuer's DID state: the actor needs a writer role, the issuer DID has to
// resolve to an active record, and the actor has to be its owner.
type issuerAuthority struct {
	roles    *auth.RoleControl
	resolver *did.Resolver
}

func (a *issuerAuthority) authorize(env *ledger.CallEnv, actor endorsement.Actor,
	issuerDID string) error {
	if !a.roles.IsWriter(env, actor.Address) {
		return &auth.UnauthorizedError{Account: actor.Address}
	}

	meta, err := a.resolver.ResolveMetadata(env, issuerDID)
	if err != nil {
		var parseErr *did.IncorrectDidError
		if errors.As(err, &parseErr) {
			return &InvalidIssuerIDError{IssuerDID: issuerDID, Reason: parseErr.Error()}
		}

		var methodErr *did.UnsupportedDidMethodError
		if errors.As(err, &methodErr) {
			return &InvalidIssuerIDError{IssuerDID: issuerDID, Reason: methodErr.Error()}
		}

		return err
	}

	if meta.Deactivated {
		return &IssuerHasBeenDeactivatedError{IssuerDID: issuerDID}
	}

	if meta.Owner != actor.Address {
		return &did.NotIdentityOwnerError{Actor: actor.Address, Owner: meta.Owner}
	}

	return nil
}
