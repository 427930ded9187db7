package sim

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBridge is a minimal rosbridge server that answers service calls and
// records every operation it receives.
type fakeBridge struct {
	t      *testing.T
	reject map[string]bool // services answered with result=false
	silent map[string]bool // services never answered

	mu  sync.Mutex
	ops []map[string]any
}

func newFakeBridge(t *testing.T) (*fakeBridge, string) {
	fb := &fakeBridge{t: t, reject: map[string]bool{}, silent: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(srv.Close)
	return fb, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func (fb *fakeBridge) serve(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fb.t.Logf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		var op map[string]any
		if err := conn.ReadJSON(&op); err != nil {
			return
		}
		fb.mu.Lock()
		fb.ops = append(fb.ops, op)
		fb.mu.Unlock()

		if op["op"] != "call_service" {
			continue
		}
		service, _ := op["service"].(string)
		if fb.silent[service] {
			continue
		}
		resp := map[string]any{
			"op":      "service_response",
			"id":      op["id"],
			"service": service,
			"values":  map[string]any{},
			"result":  !fb.reject[service],
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (fb *fakeBridge) received() []map[string]any {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]map[string]any, len(fb.ops))
	copy(out, fb.ops)
	return out
}

func (fb *fakeBridge) waitOps(t *testing.T, n int) []map[string]any {
	t.Helper()
	require.Eventually(t, func() bool { return len(fb.received()) >= n }, 2*time.Second, 5*time.Millisecond)
	return fb.received()
}

func dialFake(t *testing.T, url string) *Client {
	t.Helper()
	c, err := Dial(context.Background(), ClientConfig{
		URL:         url,
		CallTimeout: 200 * time.Millisecond,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_Spawn(t *testing.T) {
	fb, url := newFakeBridge(t)
	c := dialFake(t, url)

	err := c.Spawn(context.Background(), "alice", Pose{X: 1.5, Y: 2.5, Theta: 0.5})
	require.NoError(t, err)

	ops := fb.waitOps(t, 1)
	assert.Equal(t, "call_service", ops[0]["op"])
	assert.Equal(t, SpawnService, ops[0]["service"])
	args := ops[0]["args"].(map[string]any)
	assert.Equal(t, "alice", args["name"])
	assert.InDelta(t, 1.5, args["x"], 1e-9)
	assert.InDelta(t, 2.5, args["y"], 1e-9)
	assert.InDelta(t, 0.5, args["theta"], 1e-9)
}

func TestClient_KillRejected(t *testing.T) {
	fb, url := newFakeBridge(t)
	fb.reject[KillService] = true
	c := dialFake(t, url)

	err := c.Kill(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
}

func TestClient_CallTimeout(t *testing.T) {
	fb, url := newFakeBridge(t)
	fb.silent[SpawnService] = true
	c := dialFake(t, url)

	err := c.Spawn(context.Background(), "slow", Pose{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_PublishAdvertisesOnce(t *testing.T) {
	fb, url := newFakeBridge(t)
	c := dialFake(t, url)

	topic := CmdVelTopic("alice")
	twist := Twist{Linear: Vector3{X: 2}}
	require.NoError(t, c.Publish(context.Background(), topic, twist))
	require.NoError(t, c.Publish(context.Background(), topic, twist))

	ops := fb.waitOps(t, 3)
	assert.Equal(t, "advertise", ops[0]["op"])
	assert.Equal(t, "/alice/cmd_vel", ops[0]["topic"])
	assert.Equal(t, TwistType, ops[0]["type"])
	for _, op := range ops[1:3] {
		assert.Equal(t, "publish", op["op"])
		raw, err := json.Marshal(op["msg"])
		require.NoError(t, err)
		var got Twist
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, twist, got)
	}
}

func TestClient_CloseUnadvertises(t *testing.T) {
	fb, url := newFakeBridge(t)
	c := dialFake(t, url)

	require.NoError(t, c.Publish(context.Background(), "/bob/cmd_vel", Twist{}))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	ops := fb.waitOps(t, 3)
	assert.Equal(t, "unadvertise", ops[2]["op"])
	assert.Equal(t, "/bob/cmd_vel", ops[2]["topic"])

	assert.ErrorIs(t, c.Publish(context.Background(), "/bob/cmd_vel", Twist{}), ErrClosed)
	assert.ErrorIs(t, c.Kill(context.Background(), "bob"), ErrClosed)
}

func TestDial_RejectsNonWebsocketURL(t *testing.T) {
	_, err := Dial(context.Background(), ClientConfig{URL: "http://localhost:9090"})
	require.Error(t, err)
}
