package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/janpfeifer/sweepGo/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) (v T) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return
}

// createGame creates a match and replaces its layout with the given hazards.
func createGame(t *testing.T, s *Server, router http.Handler, width, height int, hazards ...Pos) string {
	w := do(t, router, http.MethodPost, "/games", map[string]string{
		"config": fmt.Sprintf("custom:width=%d,height=%d,hazards=%d", width, height, len(hazards)),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decode[GameView](t, w)
	id := uuid.MustParse(view.ID)
	s.mu.Lock()
	sess := s.sessions[id]
	s.mu.Unlock()
	require.NotNil(t, sess)
	require.NoError(t, sess.board.SetupWithHazards(width, height, hazards))
	return view.ID
}

func move(x, y int, action string) map[string]any {
	return map[string]any{"x": x, "y": y, "action": action}
}

func TestCreateGame(t *testing.T) {
	s := New(Options{})
	router := s.Router()

	w := do(t, router, http.MethodPost, "/games", map[string]string{"config": "expert"})
	require.Equal(t, http.StatusCreated, w.Code)
	view := decode[GameView](t, w)
	assert.Equal(t, 16, view.Width)
	assert.Equal(t, 30, view.Height)
	assert.Equal(t, 99, view.Hazards)
	assert.Equal(t, "running", view.Status)
	assert.Equal(t, 99, view.HazardsRemaining)
	assert.Equal(t, 16*30-99, view.SafeTotal)
	require.Len(t, view.Cells, 30)
	require.Len(t, view.Cells[0], 16)
	for _, row := range view.Cells {
		for _, cell := range row {
			assert.Equal(t, CellJSON{State: "hidden"}, cell)
		}
	}

	// Empty body uses the default configuration.
	w = do(t, router, http.MethodPost, "/games", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view = decode[GameView](t, w)
	assert.Equal(t, Presets[DefaultGameConfig].Hazards, view.Hazards)

	// The match can be fetched.
	w = do(t, router, http.MethodGet, "/games/"+view.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, view, decode[GameView](t, w))
	assert.Equal(t, 2, s.NumSessions())
}

func TestCreateGameInvalid(t *testing.T) {
	router := New(Options{}).Router()
	w := do(t, router, http.MethodPost, "/games", map[string]string{"config": "custom:width=3,height=3,hazards=9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid hazard count", decode[map[string]string](t, w)["error"])

	w = do(t, router, http.MethodPost, "/games", map[string]string{"config": "custom:width=0,height=3,hazards=1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid dimensions", decode[map[string]string](t, w)["error"])

	w = do(t, router, http.MethodPost, "/games", map[string]string{"config": "gigantic"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid configuration", decode[map[string]string](t, w)["error"])
}

func TestCreateGameTooManyCells(t *testing.T) {
	s := New(Options{MaxCells: 100})
	router := s.Router()
	w := do(t, router, http.MethodPost, "/games", map[string]string{"config": "custom:width=11,height=10,hazards=5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "too many cells", decode[map[string]string](t, w)["error"])
	assert.Equal(t, 0, s.NumSessions())

	w = do(t, router, http.MethodPost, "/games", map[string]string{"config": "custom:width=10,height=10,hazards=5"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Default cap rejects the largest boards the engine accepts.
	w = do(t, New(Options{}).Router(), http.MethodPost, "/games",
		map[string]string{"config": fmt.Sprintf("custom:width=%d,height=%d,hazards=1", MaxSide, MaxSide)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlayWin(t *testing.T) {
	s := New(Options{})
	router := s.Router()
	id := createGame(t, s, router, 4, 1, Pos{3, 0})

	w := do(t, router, http.MethodPost, "/games/"+id+"/moves", move(3, 0, "flag"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[moveResponse](t, w)
	assert.Empty(t, resp.Revealed)
	assert.Equal(t, "flagged", resp.Game.Cells[0][3].State)
	assert.Equal(t, 0, resp.Game.HazardsRemaining)

	w = do(t, router, http.MethodPost, "/games/"+id+"/moves", move(0, 0, "reveal"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = decode[moveResponse](t, w)
	assert.Equal(t, []Pos{{0, 0}, {1, 0}, {2, 0}}, resp.Revealed)
	assert.Equal(t, "won", resp.Game.Status)
	assert.Equal(t, 3, resp.Game.RevealedSafe)
	assert.Equal(t, []CellJSON{
		{State: "revealed"},
		{State: "revealed"},
		{State: "revealed", Count: 1},
		{State: "flagged", Hazard: true},
	}, resp.Game.Cells[0])

	// Match is over.
	w = do(t, router, http.MethodPost, "/games/"+id+"/moves", move(3, 0, "reveal"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "game over", decode[map[string]string](t, w)["error"])
}

func TestPlayLoss(t *testing.T) {
	s := New(Options{})
	router := s.Router()
	id := createGame(t, s, router, 3, 3, Pos{1, 1})

	w := do(t, router, http.MethodPost, "/games/"+id+"/moves", move(1, 1, "reveal"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[moveResponse](t, w)
	assert.Equal(t, "lost", resp.Game.Status)
	// The only cell revealed by a losing move is the hazard itself.
	assert.Equal(t, []Pos{{1, 1}}, resp.Revealed)
	assert.Equal(t, CellJSON{State: "revealed", Hazard: true}, resp.Game.Cells[1][1])
	assert.Equal(t, CellJSON{State: "hidden"}, resp.Game.Cells[0][0])

	w = do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `minesweeper_games_finished_total{status="lost"} 1`)
	assert.Contains(t, w.Body.String(), `minesweeper_moves_total{action="reveal",result="ok"} 1`)
}

func TestPlayInvalidMoves(t *testing.T) {
	s := New(Options{})
	router := s.Router()
	id := createGame(t, s, router, 4, 3, Pos{3, 2})
	path := "/games/" + id + "/moves"

	w := do(t, router, http.MethodPost, path, move(4, 0, "reveal"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "out of bounds", decode[map[string]string](t, w)["error"])

	w = do(t, router, http.MethodPost, path, move(-1, 0, "flag"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "out of bounds", decode[map[string]string](t, w)["error"])

	w = do(t, router, http.MethodPost, path, move(0, 0, "dig"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request", decode[map[string]string](t, w)["error"])

	w = do(t, router, http.MethodPost, path, map[string]any{"x": 1, "action": "reveal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, path, move(3, 1, "reveal"))
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodPost, path, move(3, 1, "flag"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already revealed", decode[map[string]string](t, w)["error"])
}

func TestNotFoundAndDelete(t *testing.T) {
	s := New(Options{})
	router := s.Router()
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/games/not-a-uuid", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/games/"+uuid.NewString(), nil).Code)

	id := createGame(t, s, router, 3, 3, Pos{0, 0})
	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/games/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/games/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/games/"+id, nil).Code)
	assert.Equal(t, 0, s.NumSessions())
	assert.Empty(t, s.order)
}

func TestEviction(t *testing.T) {
	s := New(Options{MaxSessions: 2})
	router := s.Router()
	first := createGame(t, s, router, 3, 3, Pos{0, 0})
	second := createGame(t, s, router, 3, 3, Pos{0, 0})
	third := createGame(t, s, router, 3, 3, Pos{0, 0})
	assert.Equal(t, 2, s.NumSessions())
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/games/"+first, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/games/"+second, nil).Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/games/"+third, nil).Code)
}

func TestDebugDisclosesHazards(t *testing.T) {
	s := New(Options{Debug: true})
	router := s.Router()
	id := createGame(t, s, router, 3, 1, Pos{2, 0})
	w := do(t, router, http.MethodGet, "/games/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, CellJSON{State: "hidden", Hazard: true}, decode[GameView](t, w).Cells[0][2])
}

func TestConcurrentMoves(t *testing.T) {
	s := New(Options{})
	router := s.Router()
	const width, height = 10, 10
	id := createGame(t, s, router, width, height, Pos{9, 9})
	path := "/games/" + id + "/moves"

	// Every cell is flagged concurrently twice, so at the end there are no flags left.
	var wg sync.WaitGroup
	for y := range height {
		for x := range width {
			wg.Add(1)
			go func() {
				defer wg.Done()
				body := fmt.Sprintf(`{"x":%d,"y":%d,"action":"flag"}`, x, y)
				for range 2 {
					req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
					req.Header.Set("Content-Type", "application/json")
					w := httptest.NewRecorder()
					router.ServeHTTP(w, req)
					assert.Equal(t, http.StatusOK, w.Code)
				}
			}()
		}
	}
	wg.Wait()
	w := do(t, router, http.MethodGet, "/games/"+id, nil)
	view := decode[GameView](t, w)
	assert.Equal(t, 1, view.HazardsRemaining)
	for _, row := range view.Cells {
		for _, cell := range row {
			assert.Equal(t, "hidden", cell.State)
		}
	}
	assert.Equal(t, "running", view.Status)
}

func TestHealthz(t *testing.T) {
	w := do(t, New(Options{}).Router(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
