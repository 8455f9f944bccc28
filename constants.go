package main

import "letreco/internal/solver"

// Grid configuration constants
const (
	WordLength = solver.WordLength // Letters per word
	MaxGuesses = solver.MaxGuesses // Rows of the feedback grid
	GridCells  = solver.GridCells  // Cells of the feedback grid
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHealthz     = "/healthz"
	RouteCandidates  = "/candidates"
	RouteConstraints = "/constraints"
	RouteFeedback    = "/feedback"
	RouteCell        = "/cells/:index"
	RouteBoard       = "/board"
	RouteNewSession  = "/new-session"
)

// Error message constants
const (
	ErrorBadRequest      = "Malformed request body."
	ErrorMissingPosition = "Position is required."
	ErrorBadCellIndex    = "Cell index must be a number between 1 and 25."
	ErrorLexicon         = "Dictionary lookup failed, please retry."
	ErrorRateLimited     = "Too many requests. Please slow down."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string
