package inspector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/tickmind/tickmind/internal/core/bt"
	"github.com/tickmind/tickmind/internal/core/observability/log"
)

func testManager(t *testing.T) *bt.Manager {
	t.Helper()
	def, err := bt.Compile("idle", bt.LeafFunc("wait", func(_ *bt.TickContext) bt.Status {
		return bt.StatusRunning
	}))
	require.NoError(t, err)

	m := bt.NewManager(7, log.NewNop())
	_, err = m.SpawnWithID("watcher-00", def)
	require.NoError(t, err)
	m.Update()
	m.Update()
	return m
}

func TestSnapshotEndpoint(t *testing.T) {
	srv := New(":0", time.Second, testManager(t), log.NewNop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/snapshot")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var frame Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&frame))
	require.Equal(t, uint64(2), frame.Tick)
	require.Len(t, frame.Agents, 1)

	snap := frame.Agents[0]
	require.Equal(t, "watcher-00", snap.AgentID)
	require.Equal(t, "idle", snap.Tree)
	require.Equal(t, uint64(2), snap.Tick)

	byName := map[string]bt.NodeSnapshot{}
	for _, n := range snap.Nodes {
		byName[n.Name] = n
	}
	require.Equal(t, "running", byName["wait"].Status)
	require.True(t, byName["wait"].Active)
}

func TestWebsocketFeed(t *testing.T) {
	srv := New(":0", 10*time.Millisecond, testManager(t), log.NewNop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(payload, &frame))
	require.Equal(t, uint64(2), frame.Tick)
	require.Len(t, frame.Agents, 1)
}
