package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/games/connect4"
)

func newTestServer(t *testing.T, cfg config.HTTPConfig) (*Server, *httptest.Server) {
	t.Helper()

	srv := NewServer(cfg, log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Run(ctx)

	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createGame(t *testing.T, base string) gameResponse {
	t.Helper()
	var game gameResponse
	status := doJSON(t, http.MethodPost, base+"/api/games", nil, &game)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, game.ID)
	return game
}

func drop(t *testing.T, base, id string, col int) (int, gameResponse, map[string]string) {
	t.Helper()
	var raw json.RawMessage
	status := doJSON(t, http.MethodPost, base+"/api/games/"+id+"/drop", map[string]int{"column": col}, &raw)

	var game gameResponse
	var errBody map[string]string
	if status == http.StatusOK {
		require.NoError(t, json.Unmarshal(raw, &game))
	} else {
		require.NoError(t, json.Unmarshal(raw, &errBody))
	}
	return status, game, errBody
}

func TestCreateAndGetGame(t *testing.T) {
	_, ts := newTestServer(t, config.Default().HTTP)

	game := createGame(t, ts.URL)
	assert.Equal(t, connect4.Red, game.Current)
	assert.Equal(t, connect4.InProgress, game.Status.Outcome)
	assert.Empty(t, game.WinningLine)
	assert.Nil(t, game.LastMove)

	var got gameResponse
	status := doJSON(t, http.MethodGet, ts.URL+"/api/games/"+game.ID, nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, game.ID, got.ID)
	assert.Equal(t, 0, got.Moves)
}

func TestUnknownGame(t *testing.T) {
	_, ts := newTestServer(t, config.Default().HTTP)

	var body map[string]string
	status := doJSON(t, http.MethodGet, ts.URL+"/api/games/nope", nil, &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, ErrSessionNotFound.Error(), body["error"])

	status, _, _ = drop(t, ts.URL, "nope", 0)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDropAndWin(t *testing.T) {
	_, ts := newTestServer(t, config.Default().HTTP)
	game := createGame(t, ts.URL)

	for _, col := range []int{0, 6, 1, 6, 2, 6} {
		status, _, body := drop(t, ts.URL, game.ID, col)
		require.Equal(t, http.StatusOK, status, body)
	}

	status, got, _ := drop(t, ts.URL, game.ID, 3)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, connect4.Status{Outcome: connect4.Won, Winner: connect4.Red}, got.Status)
	assert.Equal(t, []connect4.Coord{{Col: 0, Row: 5}, {Col: 1, Row: 5}, {Col: 2, Row: 5}, {Col: 3, Row: 5}}, got.WinningLine)
	require.NotNil(t, got.LastMove)
	assert.Equal(t, connect4.Coord{Col: 3, Row: 5}, *got.LastMove)
	assert.Equal(t, connect4.Red, got.Board[5][3])

	status, _, body := drop(t, ts.URL, game.ID, 4)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], connect4.ErrGameOver.Error())
}

func TestDropErrors(t *testing.T) {
	_, ts := newTestServer(t, config.Default().HTTP)
	game := createGame(t, ts.URL)

	status, _, body := drop(t, ts.URL, game.ID, 7)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], connect4.ErrInvalidColumn.Error())

	for range connect4.Rows {
		status, _, _ = drop(t, ts.URL, game.ID, 2)
		require.Equal(t, http.StatusOK, status)
	}
	status, _, body = drop(t, ts.URL, game.ID, 2)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body["error"], connect4.ErrColumnFull.Error())

	// Missing or malformed column.
	var errBody map[string]string
	status = doJSON(t, http.MethodPost, ts.URL+"/api/games/"+game.ID+"/drop", map[string]string{}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "column is required", errBody["error"])

	resp, err := http.Post(ts.URL+"/api/games/"+game.ID+"/drop", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetAndDelete(t *testing.T) {
	_, ts := newTestServer(t, config.Default().HTTP)
	game := createGame(t, ts.URL)

	drop(t, ts.URL, game.ID, 3)

	var reset gameResponse
	status := doJSON(t, http.MethodPost, ts.URL+"/api/games/"+game.ID+"/reset", nil, &reset)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, reset.Moves)
	assert.Equal(t, connect4.Empty, reset.Board[5][3])

	status = doJSON(t, http.MethodDelete, ts.URL+"/api/games/"+game.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status = doJSON(t, http.MethodDelete, ts.URL+"/api/games/"+game.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListGames(t *testing.T) {
	_, ts := newTestServer(t, config.Default().HTTP)
	first := createGame(t, ts.URL)
	second := createGame(t, ts.URL)
	drop(t, ts.URL, second.ID, 0)

	var list []gameSummary
	status := doJSON(t, http.MethodGet, ts.URL+"/api/games", nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, 1, list[1].Moves)
}

func TestMaxSessions(t *testing.T) {
	cfg := config.Default().HTTP
	cfg.MaxSessions = 1
	_, ts := newTestServer(t, cfg)

	createGame(t, ts.URL)

	var body map[string]string
	status := doJSON(t, http.MethodPost, ts.URL+"/api/games", nil, &body)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, ErrTooManySessions.Error(), body["error"])
}

func TestConcurrentDropsAreSerialized(t *testing.T) {
	srv, ts := newTestServer(t, config.Default().HTTP)
	game := createGame(t, ts.URL)

	// At most three drops per column, so only a finished game rejects one.
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			body := strings.NewReader(`{"column":` + strconv.Itoa(col) + `}`)
			resp, err := http.Post(ts.URL+"/api/games/"+game.ID+"/drop", "application/json", body)
			if err != nil {
				t.Error(err)
				return
			}
			resp.Body.Close()
		}(i % connect4.Cols)
	}
	wg.Wait()

	sess, err := srv.sessions.Get(game.ID)
	require.NoError(t, err)
	snap := sess.Snapshot()

	var red, yellow int
	for _, row := range snap.Board {
		for _, p := range row {
			switch p {
			case connect4.Red:
				red++
			case connect4.Yellow:
				yellow++
			}
		}
	}
	assert.Equal(t, snap.Moves, red+yellow)
	assert.Contains(t, []int{0, 1}, red-yellow)
}

func TestWebSocketPushesState(t *testing.T) {
	_, ts := newTestServer(t, config.Default().HTTP)
	game := createGame(t, ts.URL)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/" + game.ID
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	read := func() Message {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	initial := read()
	assert.Equal(t, EventState, initial.Event)
	assert.Equal(t, game.ID, initial.SessionID)
	require.NotNil(t, initial.Snapshot)
	assert.Equal(t, 0, initial.Snapshot.Moves)

	drop(t, ts.URL, game.ID, 4)
	update := read()
	assert.Equal(t, EventState, update.Event)
	require.NotNil(t, update.Snapshot)
	assert.Equal(t, connect4.Red, update.Snapshot.Board[5][4])

	doJSON(t, http.MethodPost, ts.URL+"/api/games/"+game.ID+"/reset", nil, nil)
	assert.Equal(t, EventReset, read().Event)

	doJSON(t, http.MethodDelete, ts.URL+"/api/games/"+game.ID, nil, nil)
	deleted := read()
	assert.Equal(t, EventDeleted, deleted.Event)
	assert.Nil(t, deleted.Snapshot)
}

func TestWebSocketUnknownGame(t *testing.T) {
	_, ts := newTestServer(t, config.Default().HTTP)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/nope"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocketOrigin(t *testing.T) {
	cfg := config.Default().HTTP
	cfg.AllowedOrigins = []string{"https://play.example.com"}
	_, ts := newTestServer(t, cfg)
	game := createGame(t, ts.URL)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/" + game.ID

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://play.example.com")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	resp.Body.Close()
	conn.Close()
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, config.Default().HTTP)
	createGame(t, ts.URL)

	var body map[string]any
	status := doJSON(t, http.MethodGet, ts.URL+"/health", nil, &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.InDelta(t, 1, body["sessions"], 0)
}
