package repository

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/storage"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"
)

// SessionRepo owns the session singleton. Besides the cached copy it
// maintains a duplicate directly on the simple medium so the session
// can be restored before the collection cache is initialized.
type SessionRepo struct {
	sing    *store.Singleton[domain.Session]
	adapter *storage.Adapter
	logger  *zap.Logger
	now     func() time.Time
	metrics *observability.Metrics
}

// Login constructs the session for the user and overwrites any prior
// session unconditionally; last login wins. The fallback duplicate is
// written awaited so a reload immediately after login still restores.
func (r *SessionRepo) Login(ctx context.Context, user domain.User) domain.Session {
	ctx, span := tracer.Start(ctx, "SessionRepo.Login")
	defer span.End()
	defer observe(r.metrics, "session.login", time.Now())

	session := domain.Session{
		UserID:    user.ID,
		Type:      user.Type,
		Name:      user.Name,
		Phone:     user.Phone,
		LoginTime: r.now(),
	}
	r.sing.Set(session)

	raw, err := json.Marshal(session)
	if err == nil {
		if ok := r.adapter.FallbackSet(ctx, KeySession, string(raw)); !ok {
			r.logger.Warn("session bootstrap copy not written")
		}
	}
	return session
}

// Get returns the active session, if any.
func (r *SessionRepo) Get() (domain.Session, bool) {
	return r.sing.Get()
}

// IsLoggedIn reports whether a session is active.
func (r *SessionRepo) IsLoggedIn() bool {
	_, ok := r.sing.Get()
	return ok
}

// Logout destroys the session. The fallback duplicate is removed
// awaited; the queued removal covers the structured medium.
func (r *SessionRepo) Logout(ctx context.Context) {
	defer observe(r.metrics, "session.logout", time.Now())
	r.sing.Clear()
	r.adapter.FallbackRemove(ctx, KeySession)
}

// Bootstrap reads the duplicate session copy directly from the simple
// medium. Usable before Store.Initialize completes.
func (r *SessionRepo) Bootstrap(ctx context.Context) (domain.Session, bool) {
	raw, ok := r.adapter.FallbackGet(ctx, KeySession)
	if !ok {
		return domain.Session{}, false
	}
	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		r.logger.Warn("corrupt session bootstrap copy", zap.Error(err))
		return domain.Session{}, false
	}
	return session, true
}
