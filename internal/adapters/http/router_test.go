package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Pairline/internal/adapters/rtc"
	"github.com/dkeye/Pairline/internal/app/orch"
	"github.com/dkeye/Pairline/internal/config"
	"github.com/dkeye/Pairline/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type wireEvent struct {
	Type           string           `json:"type"`
	ID             string           `json:"id"`
	PartnerCountry string           `json:"partnerCountry"`
	Msg            string           `json:"msg"`
	Signal         json.RawMessage  `json:"signal"`
	List           []core.ListEntry `json:"list"`
	SessionID      string           `json:"sessionId"`
}

func newTestServer(t *testing.T) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "admin.html"), []byte("<h1>admin</h1>"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Mode:         "test",
		StaticPath:   static,
		ReadLimit:    4096,
		SendBuffer:   16,
		WriteTimeout: time.Second,
		PingPeriod:   time.Minute,
	}
	o := orch.New(ctx, orch.Options{AdminSecret: "pw"})
	ts := httptest.NewServer(SetupRouter(ctx, cfg, o, rtc.DefaultWebRTCConfig()))
	t.Cleanup(ts.Close)
	return ts, o
}

func dial(t *testing.T, ts *httptest.Server) (*websocket.Conn, string) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws/signal"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	hello := next(t, ws, core.EventHello)
	if hello.ID == "" {
		t.Fatal("hello without id")
	}
	return ws, hello.ID
}

func send(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	if err := ws.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// next reads until an event of type typ arrives, skipping others.
func next(t *testing.T, ws *websocket.Conn, typ string) wireEvent {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var e wireEvent
		if err := ws.ReadJSON(&e); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if e.Type == typ {
			return e
		}
	}
}

func TestSignalingRoundTrip(t *testing.T) {
	ts, o := newTestServer(t)

	admin, _ := dial(t, ts)
	send(t, admin, map[string]string{"type": "admin_login", "pass": "wrong"})
	if e := next(t, admin, core.EventError); e.Msg == "" {
		t.Fatal("error without message")
	}
	send(t, admin, map[string]string{"type": "admin_login", "pass": "pw"})
	next(t, admin, core.EventLoggedIn)

	a, aID := dial(t, ts)
	b, _ := dial(t, ts)

	send(t, a, map[string]string{"type": "join", "mode": "text", "pref": "male"})
	if e := next(t, admin, core.EventUpdateList); len(e.List) != 1 || string(e.List[0].ID) != aID {
		t.Fatalf("update_list = %+v", e.List)
	}
	send(t, b, map[string]string{"type": "join", "mode": "text", "pref": "female"})

	if e := next(t, a, core.EventMatched); e.PartnerCountry != "unknown" {
		t.Fatalf("matched = %+v", e)
	}
	next(t, b, core.EventMatched)

	list := next(t, admin, core.EventUpdateList).List
	if len(list) != 2 || list[0].SessionID == "" || list[0].SessionID != list[1].SessionID {
		t.Fatalf("update_list after match = %+v", list)
	}
	sid := list[0].SessionID

	send(t, admin, map[string]any{"type": "monitor", "sessionId": sid})
	if e := next(t, admin, core.EventMonitoring); e.SessionID != string(sid) {
		t.Fatalf("monitoring = %+v", e)
	}

	// Garbage is dropped silently; the next valid frame still goes through.
	if err := a.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	send(t, a, map[string]string{"type": "chat", "msg": "hi there"})
	if e := next(t, b, core.EventChat); e.Msg != "hi there" {
		t.Fatalf("chat = %+v", e)
	}
	if e := next(t, admin, core.EventMonitorChat); e.Msg != "hi there" {
		t.Fatalf("monitor_chat = %+v", e)
	}

	send(t, b, map[string]any{"type": "signal", "signal": map[string]string{"sdp": "v=0"}})
	if e := next(t, a, core.EventSignal); string(e.Signal) != `{"sdp":"v=0"}` {
		t.Fatalf("signal = %s", e.Signal)
	}

	send(t, a, map[string]string{"type": "request_video"})
	next(t, b, core.EventRequestVideo)
	send(t, b, map[string]string{"type": "accept_video"})
	next(t, a, core.EventStartVideo)
	next(t, b, core.EventStartVideo)

	// Closing one side closes the other and empties the list.
	_ = a.Close()
	_ = b.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := b.ReadMessage(); err != nil {
			break
		}
	}
	deadline := time.Now().Add(2 * time.Second)
	for o.Stats().Sessions != 0 || o.Stats().Connections != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("stats = %+v", o.Stats())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLastChatDeliveredBeforePartnerClose(t *testing.T) {
	ts, _ := newTestServer(t)

	for i := 0; i < 20; i++ {
		a, _ := dial(t, ts)
		b, _ := dial(t, ts)
		send(t, a, map[string]string{"type": "join", "mode": "text", "pref": "any"})
		send(t, b, map[string]string{"type": "join", "mode": "text", "pref": "any"})
		next(t, a, core.EventMatched)
		next(t, b, core.EventMatched)

		send(t, a, map[string]string{"type": "chat", "msg": "bye"})
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := a.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
			t.Fatal(err)
		}

		if e := next(t, b, core.EventChat); e.Msg != "bye" {
			t.Fatalf("run %d: chat = %+v", i, e)
		}
		_ = b.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, _, err := b.ReadMessage()
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			t.Fatalf("run %d: want normal close, got %v", i, err)
		}
	}
}

func TestRESTEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/ice")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var ice struct {
		ICEServers []struct {
			URLs []string `json:"urls"`
		} `json:"iceServers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ice); err != nil {
		t.Fatal(err)
	}
	if len(ice.ICEServers) != 1 || len(ice.ICEServers[0].URLs) != 1 {
		t.Fatalf("ice = %+v", ice)
	}

	resp2, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	var st core.Stats
	if err := json.NewDecoder(resp2.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st != (core.Stats{}) {
		t.Fatalf("stats = %+v", st)
	}

	resp3, err := http.Get(ts.URL + "/admin")
	if err != nil {
		t.Fatal(err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusOK {
		t.Fatalf("/admin status = %d", resp3.StatusCode)
	}
}

func TestShippedPagesServed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := &config.Config{Mode: "test", StaticPath: filepath.Join("..", "..", "..", "web")}
	o := orch.New(ctx, orch.Options{AdminSecret: "pw"})
	r := SetupRouter(ctx, cfg, o, rtc.DefaultWebRTCConfig())

	for _, path := range []string{"/", "/admin", "/static/style.css"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, w.Code)
		}
	}
}
