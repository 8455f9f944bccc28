package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"letreco/internal/solver"
	"letreco/internal/types"
)

// wordList returns the current candidate source list. The slice is never
// mutated after it is published, only replaced.
func (app *App) wordList() []string {
	app.WordsMutex.RLock()
	defer app.WordsMutex.RUnlock()
	return app.words
}

// setWords publishes a reloaded word list. The oracle built from the list is
// refreshed first so no pass sees new words against the old dictionary.
func (app *App) setWords(words []string) {
	if app.wordListOracle != nil {
		app.wordListOracle.Replace(words)
	}
	app.WordsMutex.Lock()
	app.words = words
	app.WordsMutex.Unlock()
	logInfo("Word list reloaded: %d words", len(words))
}

// runPipeline filters the full word list against store. The caller must hold
// the session lock that owns store.
func (app *App) runPipeline(ctx context.Context, store *solver.Store) (solver.Result, error) {
	words := app.wordList()
	res, err := solver.Pipeline{Oracle: app.Oracle}.Run(ctx, words, store)
	if err != nil {
		logWarnCtx(ctx, "Filtering pass failed: %v", err)
		return res, err
	}

	counts := lo.Map(res.Stages, func(s solver.StageReport, _ int) string {
		return s.Stage.String() + "=" + strconv.Itoa(s.Out)
	})
	logInfoCtx(ctx, "Filtered %d words to %d candidates (%s)", len(words), len(res.Words), strings.Join(counts, ", "))
	if res.Conflicting() {
		stages := lo.FilterMap(res.Stages, func(s solver.StageReport, _ int) (string, bool) {
			return s.Stage.String(), s.FellBack
		})
		logWarnCtx(ctx, "Stage(s) %s emptied the candidate set and were reverted; feedback may conflict", strings.Join(stages, ", "))
	}
	return res, nil
}

// applyFeedback records one event in the session and re-runs the filter.
// Validation failures leave the session untouched.
func (app *App) applyFeedback(ctx context.Context, sessionID string, session *Session, f solver.Feedback, cellIndex int) (solver.Result, solver.Constraints, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.Store.ApplyFeedback(f); err != nil {
		logWarnCtx(ctx, "Session %s sent invalid feedback: %v", sessionID, err)
		return solver.Result{}, solver.Constraints{}, err
	}
	if cellIndex > 0 {
		cell := &session.Board[cellIndex-1]
		cell.Letter = string(f.Letter)
		cell.Classification = f.Classification.String()
	}

	snapshot := session.Store.Snapshot()
	logInfoCtx(ctx, "Session %s applied %s; excluded=%v required=%v locked=%v position-excluded=%v",
		sessionID, f, snapshot.ExcludedLetters, snapshot.RequiredLetters, snapshot.LockedPairs, snapshot.MisplacedPairs)

	res, err := app.runPipeline(ctx, session.Store)
	return res, snapshot, err
}

// candidates re-runs the filter for the session's current constraints.
func (app *App) candidates(ctx context.Context, session *Session) (solver.Result, error) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return app.runPipeline(ctx, session.Store)
}

// newCandidatesResponse converts a pipeline result to its wire form.
func newCandidatesResponse(res solver.Result, constraints *solver.Constraints) types.CandidatesResponse {
	words := res.Words
	if words == nil {
		words = []string{}
	}
	return types.CandidatesResponse{
		Candidates:  words,
		Count:       len(words),
		Conflict:    res.Conflicting(),
		Stages:      res.Stages,
		Constraints: constraints,
	}
}
