package types

import "letreco/internal/solver"

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	Position       *int   `json:"position"`
	Letter         string `json:"letter"`
	Classification string `json:"classification"`
}

// CellRequest is the body of POST /cells/:index.
type CellRequest struct {
	Letter         string `json:"letter"`
	Classification string `json:"classification"`
}

// BoardCell is one recorded cell of the 5x5 feedback grid.
type BoardCell struct {
	Index          int    `json:"index"`
	Row            int    `json:"row"`
	Position       int    `json:"position"`
	Letter         string `json:"letter,omitempty"`
	Classification string `json:"classification,omitempty"`
}

// CandidatesResponse is returned after every filtering pass.
type CandidatesResponse struct {
	Candidates  []string             `json:"candidates"`
	Count       int                  `json:"count"`
	Conflict    bool                 `json:"conflict"`
	Stages      []solver.StageReport `json:"stages"`
	Constraints *solver.Constraints  `json:"constraints,omitempty"`
}

// ErrorResponse carries a client-facing error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
