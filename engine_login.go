package sessionkit

import "context"

// Login verifies a secret against the stored credential and returns a
// fresh token pair. An unknown key and a wrong secret produce the same
// ErrInvalidCredentials; an inactive account with the correct secret
// produces ErrAccountInactive, never an authentication failure.
//
// Login is bounded by the login rate policy (default 10 per 10 minutes
// per identity key); every attempt counts against the budget, successful
// or not.
func (e *Engine) Login(ctx context.Context, identityKey, secret string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if identityKey == "" || len(identityKey) > maxIdentityKeyLen {
		return nil, ErrIdentityKeyInvalid
	}

	if err := e.checkRate(ctx, e.loginPolicy(), identityKey, ErrLoginRateLimited); err != nil {
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, auditEventLoginRateLimited, false, identityKey, "", err, nil)
		return nil, err
	}

	cred, err := e.identity.GetByKey(ctx, identityKey)
	if err != nil {
		e.emitAudit(ctx, auditEventLoginFailure, false, identityKey, "", err, func() map[string]string {
			return map[string]string{
				"reason": "identity_lookup_failed",
			}
		})
		return nil, ErrIdentityUnavailable
	}
	if cred == nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, identityKey, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "unknown_key",
			}
		})
		return nil, ErrInvalidCredentials
	}

	ok, err := e.secrets.Verify(secret, cred.SecretHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, identityKey, cred.ID, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "secret_mismatch",
			}
		})
		return nil, ErrInvalidCredentials
	}

	// Authorization comes after authentication: the account-inactive
	// outcome is only reachable with a correct secret.
	if !cred.Active {
		e.metricInc(MetricLoginInactive)
		e.emitAudit(ctx, auditEventLoginFailure, false, identityKey, cred.ID, ErrAccountInactive, func() map[string]string {
			return map[string]string{
				"reason": "account_inactive",
			}
		})
		return nil, ErrAccountInactive
	}

	e.maybeUpgradeSecretHash(ctx, cred, secret)

	pair, err := e.issuePair(ctx, cred.ID)
	if err != nil {
		e.emitAudit(ctx, auditEventLoginFailure, false, identityKey, cred.ID, err, func() map[string]string {
			return map[string]string{
				"reason": "issue_pair_failed",
			}
		})
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, identityKey, cred.ID, nil, nil)

	return pair, nil
}

// maybeUpgradeSecretHash re-hashes the secret when the stored digest was
// produced with weaker parameters and the identity store supports
// updates. Best effort: any failure leaves the old digest in place and
// the login proceeds.
func (e *Engine) maybeUpgradeSecretHash(ctx context.Context, cred *Credential, secret string) {
	if !e.config.Secret.UpgradeOnLogin {
		return
	}
	updater, ok := e.identity.(SecretHashUpdater)
	if !ok {
		return
	}

	stale, err := e.secrets.NeedsRehash(cred.SecretHash)
	if err != nil || !stale {
		return
	}

	upgraded, err := e.secrets.Hash(secret)
	if err != nil {
		return
	}
	_ = updater.UpdateSecretHash(ctx, cred.ID, upgraded)
}
