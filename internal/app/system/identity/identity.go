// Package identity supplies the anonymous per-browser identity that scopes
// drafts and synced links to one user without full authentication. The id
// is a UUID minted on first visit, carried in a signed cookie, and reused
// on every later request.
package identity

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	// CookieName holds the signed anonymous identity cookie.
	CookieName = "lessondesk_uid"

	ownerKey = "owner_id"

	// cookieMaxAge keeps the identity stable for years of revisits.
	cookieMaxAge = 10 * 365 * 24 * 60 * 60
)

type ctxKey string

const ownerCtxKey ctxKey = "ownerID"

// Manager issues and loads anonymous identities.
type Manager struct {
	store *sessions.CookieStore
	log   *zap.Logger
}

// NewManager builds a Manager with the given signing key. An empty key gets
// a random one, which invalidates all identities on restart. Secure marks
// the cookie HTTPS-only (enable in prod).
func NewManager(signingKey string, domain string, secure bool, logger *zap.Logger) *Manager {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("no identity signing key configured; using an ephemeral key")
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, log: logger}
}

// Owner returns the anonymous owner id injected by EnsureIdentity.
func Owner(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(ownerCtxKey).(string)
	return id, ok && id != ""
}

// EnsureIdentity loads the identity cookie, minting and setting a new uuid
// when the browser has none (or the cookie fails verification), and injects
// the owner id into the request context for downstream handlers.
func (m *Manager) EnsureIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, CookieName) // a bad signature yields a fresh session

		id, _ := sess.Values[ownerKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[ownerKey] = id
			if err := sess.Save(r, w); err != nil {
				m.log.Error("identity cookie save failed", zap.Error(err))
			} else {
				m.log.Debug("minted anonymous identity", zap.String("owner", id))
			}
		}

		ctx := context.WithValue(r.Context(), ownerCtxKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithTestOwner injects an owner id directly, for handler tests that bypass
// the cookie round trip.
func WithTestOwner(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ownerCtxKey, id))
}
