package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"letreco/internal/lexicon"
	"letreco/internal/solver"
	"letreco/internal/types"
)

var testWords = []string{"prato", "carro", "parto", "pedra", "porta", "pardo", "sapor", "prumo"}

// testCandidates mirrors types.CandidatesResponse with stages decoded by name.
type testCandidates struct {
	Candidates []string `json:"candidates"`
	Count      int      `json:"count"`
	Conflict   bool     `json:"conflict"`
	Stages     []struct {
		Stage    string `json:"stage"`
		In       int    `json:"in"`
		Out      int    `json:"out"`
		FellBack bool   `json:"fellBack"`
	} `json:"stages"`
	Constraints *solver.Constraints `json:"constraints"`
}

func newTestApp(words []string) *App {
	set := lexicon.NewSet(words)
	return &App{
		Config: Config{
			SessionTimeout: time.Hour,
			CookieMaxAge:   time.Hour,
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
		words:          words,
		Oracle:         set,
		wordListOracle: set,
		Sessions:       make(map[string]*Session),
		LimiterMap:     make(map[string]*rate.Limiter),
		StartTime:      time.Now(),
	}
}

// setupTestRouter creates a test router with all routes
func setupTestRouter(app *App) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	app.setupRouter(router)
	return router
}

func doRequest(router *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("response set no %s cookie", SessionCookieName)
	return nil
}

func decodeCandidates(t *testing.T, w *httptest.ResponseRecorder) testCandidates {
	t.Helper()
	var resp testCandidates
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestHealthzHandler(t *testing.T) {
	router := setupTestRouter(newTestApp(testWords))
	w := doRequest(router, "GET", RouteHealthz, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /healthz returned status %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("healthz body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["words_loaded"] != float64(len(testWords)) {
		t.Errorf("words_loaded = %v, want %d", body["words_loaded"], len(testWords))
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header missing")
	}
}

func TestCandidatesWithoutFeedback(t *testing.T) {
	router := setupTestRouter(newTestApp(testWords))
	w := doRequest(router, "GET", RouteCandidates, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /candidates returned status %d, want 200", w.Code)
	}
	resp := decodeCandidates(t, w)
	// carro and pardo repeat a letter.
	if resp.Count != 6 || len(resp.Candidates) != 6 {
		t.Errorf("count = %d, candidates = %v, want 6", resp.Count, resp.Candidates)
	}
	if len(resp.Stages) != 5 || resp.Stages[0].Stage != "duplicates" {
		t.Errorf("stages = %+v", resp.Stages)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
}

func TestFeedbackFlow(t *testing.T) {
	router := setupTestRouter(newTestApp(testWords))
	cookie := sessionCookie(t, doRequest(router, "GET", RouteCandidates, "", nil))

	events := []string{
		`{"position":1,"letter":"e","classification":"absent"}`,
		`{"position":2,"letter":"d","classification":"gray"}`,
		`{"position":0,"letter":"P","classification":"correct"}`,
		`{"position":3,"letter":"r","classification":"present"}`,
		`{"position":4,"letter":"a","classification":"yellow"}`,
	}
	var resp testCandidates
	for _, body := range events {
		w := doRequest(router, "POST", RouteFeedback, body, cookie)
		if w.Code != http.StatusOK {
			t.Fatalf("POST /feedback %s returned status %d: %s", body, w.Code, w.Body.String())
		}
		resp = decodeCandidates(t, w)
	}

	if want := []string{"prato", "parto"}; !reflect.DeepEqual(resp.Candidates, want) {
		t.Errorf("candidates = %v, want %v", resp.Candidates, want)
	}
	if resp.Conflict {
		t.Error("conflict = true, want false")
	}
	if resp.Constraints == nil {
		t.Fatal("constraints missing from feedback response")
	}
	if want := []string{"d", "e"}; !reflect.DeepEqual(resp.Constraints.ExcludedLetters, want) {
		t.Errorf("excluded = %v, want %v", resp.Constraints.ExcludedLetters, want)
	}
	if want := []solver.PairJSON{{Position: 0, Letter: "p"}}; !reflect.DeepEqual(resp.Constraints.LockedPairs, want) {
		t.Errorf("locked = %v, want %v", resp.Constraints.LockedPairs, want)
	}

	// A second pass without new events gives the same answer.
	w := doRequest(router, "GET", RouteCandidates, "", cookie)
	if again := decodeCandidates(t, w); !reflect.DeepEqual(again.Candidates, resp.Candidates) {
		t.Errorf("GET /candidates = %v, want %v", again.Candidates, resp.Candidates)
	}
}

func TestFeedbackFoldsAccents(t *testing.T) {
	router := setupTestRouter(newTestApp(testWords))
	w := doRequest(router, "POST", RouteFeedback, `{"position":0,"letter":"Ç","classification":"absent"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", w.Code, w.Body.String())
	}
	resp := decodeCandidates(t, w)
	if want := []string{"c"}; !reflect.DeepEqual(resp.Constraints.ExcludedLetters, want) {
		t.Errorf("excluded = %v, want %v", resp.Constraints.ExcludedLetters, want)
	}
}

func TestFeedbackRejectsInvalidEvents(t *testing.T) {
	router := setupTestRouter(newTestApp(testWords))
	cookie := sessionCookie(t, doRequest(router, "GET", RouteCandidates, "", nil))

	cases := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"position":`, ErrorBadRequest},
		{"missing position", `{"letter":"a","classification":"absent"}`, ErrorMissingPosition},
		{"position too large", `{"position":5,"letter":"a","classification":"absent"}`, ""},
		{"negative position", `{"position":-1,"letter":"a","classification":"absent"}`, ""},
		{"two letters", `{"position":0,"letter":"ab","classification":"absent"}`, ""},
		{"digit", `{"position":0,"letter":"1","classification":"absent"}`, ""},
		{"unknown classification", `{"position":0,"letter":"a","classification":"purple"}`, ""},
		{"trailing punctuation", `{"position":0,"letter":"a!","classification":"absent"}`, ""},
		{"trailing dot", `{"position":0,"letter":"a.","classification":"absent"}`, ""},
		{"leading punctuation", `{"position":0,"letter":"?a","classification":"absent"}`, ""},
		{"trailing symbol", `{"position":0,"letter":"a€","classification":"absent"}`, ""},
		{"trailing non-ascii letter", `{"position":0,"letter":"aß","classification":"absent"}`, ""},
		{"symbol only", `{"position":0,"letter":"€","classification":"absent"}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "POST", RouteFeedback, tc.body, cookie)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400: %s", w.Code, w.Body.String())
			}
			var errResp types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil || errResp.Error == "" {
				t.Fatalf("error body %q: %v", w.Body.String(), err)
			}
			if tc.want != "" && errResp.Error != tc.want {
				t.Errorf("error = %q, want %q", errResp.Error, tc.want)
			}
		})
	}

	w := doRequest(router, "GET", RouteConstraints, "", cookie)
	var c solver.Constraints
	if err := json.Unmarshal(w.Body.Bytes(), &c); err != nil {
		t.Fatalf("constraints body: %v", err)
	}
	if len(c.ExcludedLetters)+len(c.RequiredLetters)+len(c.LockedPairs)+len(c.MisplacedPairs) != 0 {
		t.Errorf("rejected events changed the store: %+v", c)
	}
}

func TestFeedbackReportsConflict(t *testing.T) {
	router := setupTestRouter(newTestApp([]string{"campo", "bolsa", "lento"}))
	cookie := sessionCookie(t, doRequest(router, "GET", RouteCandidates, "", nil))

	doRequest(router, "POST", RouteFeedback, `{"position":0,"letter":"c","classification":"correct"}`, cookie)
	w := doRequest(router, "POST", RouteFeedback, `{"position":0,"letter":"b","classification":"correct"}`, cookie)
	resp := decodeCandidates(t, w)
	if !resp.Conflict {
		t.Errorf("conflict = false, stages %+v", resp.Stages)
	}
	if resp.Count != 3 {
		t.Errorf("count = %d, want the unfiltered 3", resp.Count)
	}
}

func TestFeedbackOracleFailure(t *testing.T) {
	app := newTestApp(testWords)
	app.Oracle = solver.OracleFunc(func(context.Context, string) (bool, error) {
		return false, errors.New("disk gone")
	})
	router := setupTestRouter(app)
	cookie := sessionCookie(t, doRequest(router, "GET", RouteConstraints, "", nil))

	w := doRequest(router, "POST", RouteFeedback, `{"position":0,"letter":"p","classification":"correct"}`, cookie)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503: %s", w.Code, w.Body.String())
	}

	// The event itself was valid and stays recorded.
	w = doRequest(router, "GET", RouteConstraints, "", cookie)
	var c solver.Constraints
	if err := json.Unmarshal(w.Body.Bytes(), &c); err != nil {
		t.Fatalf("constraints body: %v", err)
	}
	if len(c.LockedPairs) != 1 {
		t.Errorf("locked = %v, want the applied event", c.LockedPairs)
	}
}

func TestCellHandler(t *testing.T) {
	router := setupTestRouter(newTestApp(testWords))
	cookie := sessionCookie(t, doRequest(router, "GET", RouteBoard, "", nil))

	// Cell 10 is the last letter of the second row.
	w := doRequest(router, "POST", "/cells/10", `{"letter":"o","classification":"green"}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /cells/10 returned status %d: %s", w.Code, w.Body.String())
	}
	resp := decodeCandidates(t, w)
	if want := []solver.PairJSON{{Position: 4, Letter: "o"}}; !reflect.DeepEqual(resp.Constraints.LockedPairs, want) {
		t.Errorf("locked = %v, want %v", resp.Constraints.LockedPairs, want)
	}
	if want := []string{"prato", "parto", "prumo"}; !reflect.DeepEqual(resp.Candidates, want) {
		t.Errorf("candidates = %v, want %v", resp.Candidates, want)
	}

	w = doRequest(router, "GET", RouteBoard, "", cookie)
	var board []types.BoardCell
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatalf("board body: %v", err)
	}
	if len(board) != GridCells {
		t.Fatalf("board has %d cells, want %d", len(board), GridCells)
	}
	cell := board[9]
	if cell.Index != 10 || cell.Row != 1 || cell.Position != 4 || cell.Letter != "o" || cell.Classification != "correct" {
		t.Errorf("cell 10 = %+v", cell)
	}
	if board[0].Letter != "" {
		t.Errorf("cell 1 = %+v, want empty", board[0])
	}
}

func TestCellHandlerRejectsBadIndex(t *testing.T) {
	router := setupTestRouter(newTestApp(testWords))
	for _, path := range []string{"/cells/0", "/cells/26", "/cells/abc"} {
		w := doRequest(router, "POST", path, `{"letter":"o","classification":"correct"}`, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("POST %s returned status %d, want 400", path, w.Code)
		}
	}
}

func TestNewSessionHandler(t *testing.T) {
	app := newTestApp(testWords)
	router := setupTestRouter(app)
	cookie := sessionCookie(t, doRequest(router, "GET", RouteCandidates, "", nil))
	doRequest(router, "POST", RouteFeedback, `{"position":0,"letter":"p","classification":"absent"}`, cookie)

	w := doRequest(router, "POST", RouteNewSession, "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-session returned status %d", w.Code)
	}
	if resp := decodeCandidates(t, w); resp.Count != 6 {
		t.Errorf("count after reset = %d, want 6", resp.Count)
	}

	w = doRequest(router, "POST", RouteNewSession+"?reset=1", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-session?reset=1 returned status %d", w.Code)
	}
	rotated := sessionCookie(t, w)
	if rotated.Value == cookie.Value {
		t.Error("session ID was not rotated")
	}
	app.SessionMutex.RLock()
	_, oldExists := app.Sessions[cookie.Value]
	_, newExists := app.Sessions[rotated.Value]
	app.SessionMutex.RUnlock()
	if oldExists || !newExists {
		t.Errorf("old session kept = %v, new session created = %v", oldExists, newExists)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	router := setupTestRouter(newTestApp(testWords))
	a := sessionCookie(t, doRequest(router, "GET", RouteCandidates, "", nil))
	b := sessionCookie(t, doRequest(router, "GET", RouteCandidates, "", nil))

	doRequest(router, "POST", RouteFeedback, `{"position":1,"letter":"e","classification":"absent"}`, a)
	if resp := decodeCandidates(t, doRequest(router, "GET", RouteCandidates, "", a)); resp.Count != 5 {
		t.Errorf("session a count = %d, want 5", resp.Count)
	}
	if resp := decodeCandidates(t, doRequest(router, "GET", RouteCandidates, "", b)); resp.Count != 6 {
		t.Errorf("session b count = %d, want 6", resp.Count)
	}
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(testWords)
	app.RateLimitRPS = 1
	app.RateLimitBurst = 1
	router := setupTestRouter(app)

	if w := doRequest(router, "POST", RouteNewSession, "", nil); w.Code != http.StatusOK {
		t.Fatalf("first request returned status %d, want 200", w.Code)
	}
	w := doRequest(router, "POST", RouteNewSession, "", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request returned status %d, want 429", w.Code)
	}
	var errResp types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil || errResp.Error != ErrorRateLimited {
		t.Errorf("error body = %q", w.Body.String())
	}
	// Reads are not limited.
	if w := doRequest(router, "GET", RouteCandidates, "", nil); w.Code != http.StatusOK {
		t.Errorf("GET /candidates returned status %d, want 200", w.Code)
	}
}

func TestGzipCompression(t *testing.T) {
	router := setupTestRouter(newTestApp(testWords))

	req := httptest.NewRequest("GET", RouteCandidates, nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", w.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("reading gzip body: %v", err)
	}
	if !bytes.Contains(body, []byte(`"candidates"`)) {
		t.Errorf("decompressed body = %s", body)
	}

	req = httptest.NewRequest("GET", RouteHealthz, nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") == "gzip" {
		t.Error("/healthz should not be gzipped")
	}
}
