package sessionkit

import (
	"context"
	"errors"
	"fmt"
)

const maxIdentityKeyLen = 254

// Register creates a new credential and returns its first token pair.
// The secret is hashed with a per-call random salt before it ever reaches
// the identity store; the raw value is never persisted or logged.
//
// Registration is bounded by the register rate policy (default 5 per hour
// per identity key). A taken key returns ErrAccountExists.
func (e *Engine) Register(ctx context.Context, identityKey, secret string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if identityKey == "" || len(identityKey) > maxIdentityKeyLen {
		return nil, ErrIdentityKeyInvalid
	}

	if err := e.checkRate(ctx, e.registerPolicy(), identityKey, ErrRegisterRateLimited); err != nil {
		e.metricInc(MetricRegisterRateLimited)
		e.emitAudit(ctx, auditEventRegisterRateLimited, false, identityKey, "", err, nil)
		return nil, err
	}

	secretHash, err := e.secrets.Hash(secret)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, identityKey, "", ErrSecretPolicy, func() map[string]string {
			return map[string]string{
				"reason": "secret_policy",
			}
		})
		return nil, fmt.Errorf("%w: %v", ErrSecretPolicy, err)
	}

	cred, err := e.identity.Create(ctx, identityKey, secretHash)
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterFailure, false, identityKey, "", ErrAccountExists, func() map[string]string {
				return map[string]string{
					"reason": "duplicate_key",
				}
			})
			return nil, ErrAccountExists
		}
		e.emitAudit(ctx, auditEventRegisterFailure, false, identityKey, "", err, func() map[string]string {
			return map[string]string{
				"reason": "identity_create_failed",
			}
		})
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}

	pair, err := e.issuePair(ctx, cred.ID)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, identityKey, cred.ID, err, func() map[string]string {
			return map[string]string{
				"reason": "issue_pair_failed",
			}
		})
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, identityKey, cred.ID, nil, nil)

	return pair, nil
}
