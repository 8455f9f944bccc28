package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"

	"letreco/internal/lexicon"
	"letreco/internal/wordlist"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	logInfo("Starting Letreco helper in %s mode", envName(cfg.IsProduction))

	app, err := newApp(cfg)
	if err != nil {
		logFatal("Failed to initialize: %v", err)
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchWordList {
		watcher, err := wordlist.NewWatcher(cfg.WordListPath, 300*time.Millisecond, app.setWords)
		if err != nil {
			logWarn("Word list hot reload disabled: %v", err)
		} else {
			watcher.Start(ctx)
			defer watcher.Close()
		}
	}
	go app.runSessionCleanup(ctx)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}
	app.setupRouter(router)

	startServer(router, cfg.Port)
}

// newApp loads the word list and opens the dictionary oracle.
func newApp(cfg Config) (*App, error) {
	words, err := wordlist.Load(cfg.WordListPath)
	if err != nil {
		return nil, fmt.Errorf("loading word list: %w", err)
	}
	logInfo("Loaded %d candidate words from %s", len(words), cfg.WordListPath)

	app := &App{
		Config:     cfg,
		words:      words,
		Sessions:   make(map[string]*Session),
		LimiterMap: make(map[string]*rate.Limiter),
		StartTime:  time.Now(),
	}
	if err := app.openOracle(); err != nil {
		return nil, err
	}
	return app, nil
}

// openOracle selects the dictionary oracle: a SQLite lexicon, a dictionary
// file, or, failing both, the word list itself.
func (app *App) openOracle() error {
	switch {
	case app.LexiconDB != "":
		db, err := lexicon.OpenSQLite(app.LexiconDB)
		if err != nil {
			return fmt.Errorf("opening lexicon %s: %w", app.LexiconDB, err)
		}
		n, err := db.Count(context.Background())
		if err != nil {
			db.Close()
			return fmt.Errorf("counting lexicon %s: %w", app.LexiconDB, err)
		}
		logInfo("Using SQLite lexicon %s with %d words", app.LexiconDB, n)
		app.Oracle, app.oracleCloser = db, db
	case app.LexiconPath != "":
		set, err := lexicon.LoadSet(app.LexiconPath)
		if err != nil {
			return fmt.Errorf("loading lexicon %s: %w", app.LexiconPath, err)
		}
		logInfo("Using dictionary file %s with %d words", app.LexiconPath, set.Len())
		app.Oracle = set
	default:
		logWarn("No LEXICON_DB or LEXICON_PATH set, every listed word counts as valid")
		app.wordListOracle = lexicon.NewSet(app.wordList())
		app.Oracle = app.wordListOracle
	}
	return nil
}

// Close releases the oracle.
func (app *App) Close() {
	if app.oracleCloser == nil {
		return
	}
	if err := app.oracleCloser.Close(); err != nil {
		logWarn("Failed to close lexicon: %v", err)
	}
}

// setupRouter installs middleware and routes on router.
func (app *App) setupRouter(router *gin.Engine) {
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedPaths([]string{RouteHealthz})))
	router.Use(cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	}))
	router.Use(requestIDMiddleware())

	router.GET(RouteHealthz, app.healthzHandler)
	router.GET(RouteCandidates, app.candidatesHandler)
	router.GET(RouteConstraints, app.constraintsHandler)
	router.GET(RouteBoard, app.boardHandler)
	router.POST(RouteFeedback, app.rateLimitMiddleware(), app.feedbackHandler)
	router.POST(RouteCell, app.rateLimitMiddleware(), app.cellHandler)
	router.POST(RouteNewSession, app.rateLimitMiddleware(), app.newSessionHandler)
}

func startServer(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}

func envName(production bool) string {
	return map[bool]string{true: "production", false: "development"}[production]
}
