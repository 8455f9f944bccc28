package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = app.setSessionCookie(c)
		logInfoCtx(c.Request.Context(), "Created new session: %s", sessionID)
	}
	return sessionID
}

// setSessionCookie issues a fresh session ID to the client.
func (app *App) setSessionCookie(c *gin.Context) string {
	sessionID := uuid.NewString()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
	return sessionID
}

// getSession retrieves or creates the Session for an ID.
func (app *App) getSession(sessionID string) *Session {
	now := time.Now()

	app.SessionMutex.RLock()
	session, exists := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()
	if exists {
		session.mu.Lock()
		session.LastAccessTime = now
		session.mu.Unlock()
		return session
	}

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if session, exists = app.Sessions[sessionID]; exists {
		return session
	}
	session = newSession()
	app.Sessions[sessionID] = session
	logInfo("Started constraint store for session: %s", sessionID)
	return session
}

// resetSession clears the store and board of a session, creating it if needed.
func (app *App) resetSession(sessionID string) *Session {
	session := app.getSession(sessionID)
	session.mu.Lock()
	session.Store.Reset()
	session.clearBoard()
	session.LastAccessTime = time.Now()
	session.mu.Unlock()
	logInfo("Cleared constraint store for session: %s", sessionID)
	return session
}

// dropSession forgets a session entirely.
func (app *App) dropSession(sessionID string) {
	app.SessionMutex.Lock()
	delete(app.Sessions, sessionID)
	app.SessionMutex.Unlock()
}

// cleanupExpiredSessions removes sessions idle for longer than the session
// timeout and returns how many were removed.
func (app *App) cleanupExpiredSessions(now time.Time) int {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()

	removed := 0
	for id, session := range app.Sessions {
		session.mu.Lock()
		idle := now.Sub(session.LastAccessTime)
		session.mu.Unlock()
		if idle > app.SessionTimeout {
			delete(app.Sessions, id)
			removed++
		}
	}
	return removed
}

// runSessionCleanup sweeps expired sessions until ctx is cancelled.
func (app *App) runSessionCleanup(ctx context.Context) {
	interval := app.SessionCleanupInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := app.cleanupExpiredSessions(now); n > 0 {
				logInfo("Cleaned up %d expired session%s", n, plural(n))
			}
		}
	}
}
