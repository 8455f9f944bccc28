package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"letreco/internal/solver"
	"letreco/internal/types"
	"letreco/internal/wordlist"
)

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	app.SessionMutex.RLock()
	sessions := len(app.Sessions)
	app.SessionMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"env":          envName(app.IsProduction),
		"words_loaded": len(app.wordList()),
		"sessions":     sessions,
		"uptime":       formatUptime(time.Since(app.StartTime)),
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	})
}

// candidatesHandler returns the filtered candidates for the session's constraints.
func (app *App) candidatesHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	session := app.getSession(sessionID)

	res, err := app.candidates(ctx, session)
	if err != nil {
		app.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCandidatesResponse(res, nil))
}

// constraintsHandler returns the session's constraint sets.
func (app *App) constraintsHandler(c *gin.Context) {
	session := app.getSession(app.getOrCreateSession(c))
	session.mu.Lock()
	snapshot := session.Store.Snapshot()
	session.mu.Unlock()
	c.JSON(http.StatusOK, snapshot)
}

// boardHandler returns the cells recorded through /cells.
func (app *App) boardHandler(c *gin.Context) {
	session := app.getSession(app.getOrCreateSession(c))
	session.mu.Lock()
	board := session.Board
	session.mu.Unlock()
	c.JSON(http.StatusOK, board[:])
}

// feedbackHandler applies one feedback event given by position.
func (app *App) feedbackHandler(c *gin.Context) {
	var req types.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: ErrorBadRequest})
		return
	}
	if req.Position == nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: ErrorMissingPosition})
		return
	}
	app.handleFeedback(c, *req.Position, req.Letter, req.Classification, 0)
}

// cellHandler applies one feedback event given by grid cell (1..25).
func (app *App) cellHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: ErrorBadCellIndex})
		return
	}
	position, err := solver.CellPosition(index)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: ErrorBadCellIndex})
		return
	}

	var req types.CellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: ErrorBadRequest})
		return
	}
	app.handleFeedback(c, position, req.Letter, req.Classification, index)
}

// newSessionHandler clears the session's constraints. With ?reset=1 the
// session ID is rotated as well.
func (app *App) newSessionHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)

	if c.Query("reset") == "1" {
		app.dropSession(sessionID)
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(SessionCookieName, "", -1, "/", "", app.IsProduction, true)
		sessionID = app.setSessionCookie(c)
		logInfoCtx(ctx, "Rotated session ID to: %s", sessionID)
	}
	session := app.resetSession(sessionID)

	res, err := app.candidates(ctx, session)
	if err != nil {
		app.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCandidatesResponse(res, nil))
}

// handleFeedback parses, applies and filters one event, then writes the
// response. cellIndex is 0 when the event did not come from the grid.
func (app *App) handleFeedback(c *gin.Context, position int, letter, classification string, cellIndex int) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	session := app.getSession(sessionID)

	// Accented input such as "ã" folds to its base letter.
	f, err := solver.ParseFeedback(position, wordlist.FoldAccents(letter), classification)
	if err != nil {
		logWarnCtx(ctx, "Session %s sent unparsable feedback: %v", sessionID, err)
		app.respondError(c, err)
		return
	}

	res, snapshot, err := app.applyFeedback(ctx, sessionID, session, f, cellIndex)
	if err != nil {
		app.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCandidatesResponse(res, &snapshot))
}

// respondError maps validation failures to 400 and dictionary failures to 503.
func (app *App) respondError(c *gin.Context, err error) {
	switch {
	case solver.IsValidationError(err):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	case errors.Is(err, solver.ErrOracle):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: ErrorLexicon})
	default:
		logWarnCtx(c.Request.Context(), "Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}
