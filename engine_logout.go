package sessionkit

import (
	"context"
	"fmt"

	"github.com/MrEthical07/sessionkit/internal/fingerprint"
	"github.com/MrEthical07/sessionkit/token"
)

// Logout revokes the presented refresh token by deleting its fingerprint.
// Subsequent Refresh calls with the same token fail with ErrTokenInvalid.
// Revoking an already-revoked or expired fingerprint is a no-op; the
// access token, being stateless, remains valid until its own expiry.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(refreshToken, token.KindRefresh)
	if err != nil {
		return ErrTokenInvalid
	}

	opCtx, cancel := e.storeCtx(ctx)
	defer cancel()

	if err := e.fingerprints.Revoke(opCtx, claims.Subject, fingerprint.Digest(refreshToken)); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, "", claims.Subject, nil, func() map[string]string {
		return map[string]string{
			"token_id": claims.ID,
		}
	})

	return nil
}
