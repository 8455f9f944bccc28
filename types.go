package main

import (
	"io"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"letreco/internal/lexicon"
	"letreco/internal/solver"
	"letreco/internal/types"
)

// Config holds the service settings read from the environment.
type Config struct {
	Port                   string
	IsProduction           bool
	WordListPath           string
	LexiconDB              string
	LexiconPath            string
	WatchWordList          bool
	SessionTimeout         time.Duration
	SessionCleanupInterval time.Duration
	CookieMaxAge           time.Duration
	RateLimitRPS           int
	RateLimitBurst         int
}

// App holds the shared state of the service. Word list and oracle are
// shared read-only by every session; each Session owns its own Store.
type App struct {
	Config

	words      []string
	WordsMutex sync.RWMutex

	Oracle         solver.Oracle
	oracleCloser   io.Closer
	wordListOracle *lexicon.Set // set when the word list doubles as the dictionary

	Sessions     map[string]*Session
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	StartTime time.Time
}

// Session is one solving attempt. mu serializes its feedback events so each
// one is applied and filtered to completion before the next.
type Session struct {
	mu             sync.Mutex
	Store          *solver.Store
	Board          [GridCells]types.BoardCell
	LastAccessTime time.Time
}

// newSession returns a Session with an empty store and an unfilled board.
func newSession() *Session {
	s := &Session{Store: solver.NewStore(), LastAccessTime: time.Now()}
	s.clearBoard()
	return s
}

func (s *Session) clearBoard() {
	for i := range s.Board {
		index := i + 1
		row, _ := solver.CellRow(index)
		pos, _ := solver.CellPosition(index)
		s.Board[i] = types.BoardCell{Index: index, Row: row, Position: pos}
	}
}
