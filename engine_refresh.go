package sessionkit

import (
	"context"

	"github.com/MrEthical07/sessionkit/internal/fingerprint"
	"github.com/MrEthical07/sessionkit/token"
)

// Refresh rotates a session: it verifies the presented refresh token
// (signature, expiry, type, fingerprint presence), re-checks the account,
// and returns a brand-new pair. The returned refresh token always differs
// from the presented one; the subject is preserved.
//
// Every invalid-token cause — bad signature, expiry, wrong type, missing
// or revoked fingerprint — collapses to ErrTokenInvalid so the boundary
// gives an attacker no discriminating oracle. Fingerprint verification
// fails closed: an unreachable store denies the refresh.
//
// Rotation does not invalidate the superseded fingerprint; it is left to
// expire with its own TTL. Two concurrent refreshes presenting the same
// still-valid token may therefore both succeed — an accepted property of
// the protocol, not a race to fix here.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(refreshToken, token.KindRefresh)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, "", "", err, func() map[string]string {
			return map[string]string{
				"reason": "token_invalid",
			}
		})
		return nil, ErrTokenInvalid
	}

	digest := fingerprint.Digest(refreshToken)

	opCtx, cancel := e.storeCtx(ctx)
	live, err := e.fingerprints.Verify(opCtx, claims.Subject, digest)
	cancel()
	if err != nil {
		// Fail closed: without the store, revocation tracking is blind.
		e.metricInc(MetricFingerprintDenied)
		e.emitAudit(ctx, auditEventRefreshFailure, false, "", claims.Subject, err, func() map[string]string {
			return map[string]string{
				"reason":   "fingerprint_store_unavailable",
				"token_id": claims.ID,
			}
		})
		return nil, ErrTokenInvalid
	}
	if !live {
		e.metricInc(MetricRefreshRevoked)
		e.emitAudit(ctx, auditEventRefreshFailure, false, "", claims.Subject, ErrTokenInvalid, func() map[string]string {
			return map[string]string{
				"reason":   "fingerprint_missing",
				"token_id": claims.ID,
			}
		})
		return nil, ErrTokenInvalid
	}

	cred, err := e.identity.GetByID(ctx, claims.Subject)
	if err != nil {
		e.emitAudit(ctx, auditEventRefreshFailure, false, "", claims.Subject, err, func() map[string]string {
			return map[string]string{
				"reason": "identity_lookup_failed",
			}
		})
		return nil, ErrIdentityUnavailable
	}
	if cred == nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, "", claims.Subject, ErrTokenInvalid, func() map[string]string {
			return map[string]string{
				"reason": "subject_not_found",
			}
		})
		return nil, ErrTokenInvalid
	}
	if !cred.Active {
		e.metricInc(MetricRefreshInactive)
		e.emitAudit(ctx, auditEventRefreshFailure, false, cred.Key, cred.ID, ErrAccountInactive, func() map[string]string {
			return map[string]string{
				"reason": "account_inactive",
			}
		})
		return nil, ErrAccountInactive
	}

	pair, err := e.issuePair(ctx, cred.ID)
	if err != nil {
		e.emitAudit(ctx, auditEventRefreshFailure, false, cred.Key, cred.ID, err, func() map[string]string {
			return map[string]string{
				"reason": "issue_pair_failed",
			}
		})
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, cred.Key, cred.ID, nil, func() map[string]string {
		return map[string]string{
			"rotated_from": claims.ID,
		}
	})

	return pair, nil
}
