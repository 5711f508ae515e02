package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"card-bookmark-api/internal/config"
	"card-bookmark-api/internal/models"
	"card-bookmark-api/internal/store"
	"card-bookmark-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.RefreshInterval = 20 * time.Millisecond
	cfg.DatabaseLogLevel = "silent"
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func getCards(t *testing.T, base string) []models.Card {
	t.Helper()
	resp, err := http.Get(base + "/cards")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []models.Card
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServe_SeedsRefreshesAndShutsDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := store.NewCardStore(testutil.MustInMemoryDB(t), time.Second)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, testConfig(t), gw, listener, quietLogger()) }()

	require.Eventually(t, func() bool { return len(getCards(t, base)) == 1 }, 2*time.Second, 10*time.Millisecond)

	// external write, picked up by the refresher
	require.NoError(t, gw.Insert(context.Background(), models.Card{ID: "external"}))
	require.Eventually(t, func() bool { return len(getCards(t, base)) == 2 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(base+"/card", "application/json", strings.NewReader(`{"url":"https://a.com","title":"A","description":"d"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, getCards(t, base), 3)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestRun_OpensFileStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "cards.db")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, Run(ctx, cfg, quietLogger()))
}

func TestRun_BadDatabaseIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "missing-dir", "cards.db")

	err := Run(context.Background(), cfg, quietLogger())
	require.Error(t, err)
}

func TestServe_ShutdownClosesCardFeeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := store.NewCardStore(testutil.MustInMemoryDB(t), time.Second)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	cfg := testConfig(t)
	cfg.RefreshInterval = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg, gw, listener, quietLogger()) }()

	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		c, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws/cards", nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 10*time.Millisecond)
	t.Cleanup(func() { _ = conn.Close() })

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	// The server side is gone, so reads fail well before the 60s read deadline.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			var netErr net.Error
			require.False(t, errors.As(err, &netErr) && netErr.Timeout(), "feed was not closed on shutdown: %v", err)
			return
		}
	}
}
