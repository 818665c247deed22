package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	fractal "github.com/lesguillemets/rgae"
)

func dialTestServer(t *testing.T) (*websocket.Conn, context.Context) {
	t.Helper()
	srv := httptest.NewServer(webServer(0, newRenderScheduler(2, 1, defaultLimits)).Handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.CloseNow() })
	c.SetReadLimit(1 << 24)
	return c, ctx
}

func TestRenderSession(t *testing.T) {
	c, ctx := dialTestServer(t)
	req := fractal.Request{Mode: "escape-time", ImageWidth: 16, ImageHeight: 12, MaxIterations: 40, Workers: 8}
	if err := wsjson.Write(ctx, c, req); err != nil {
		t.Fatal(err)
	}

	var result *fractal.ServerMessage
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if typ == websocket.MessageBinary {
			if result == nil {
				t.Fatal("image arrived before the result message")
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
				t.Errorf("image bounds %v, want 16x12", b)
			}
			break
		}
		var msg fractal.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatal(err)
		}
		switch msg.Type {
		case fractal.MsgProgress:
			if msg.Total != 16*12 || msg.Done > msg.Total {
				t.Errorf("progress %d/%d", msg.Done, msg.Total)
			}
		case fractal.MsgResult:
			result = &msg
		default:
			t.Errorf("unexpected message %q", data)
		}
	}
	if result.Maximum == 0 || result.View == nil || result.View.Width != 3 {
		t.Errorf("result message %+v", result)
	}

	_, _, err := c.Read(ctx)
	if got := websocket.CloseStatus(err); got != websocket.StatusNormalClosure {
		t.Errorf("close status %v (%v), want normal closure", got, err)
	}
}

func TestRejectsInvalidRequest(t *testing.T) {
	c, ctx := dialTestServer(t)
	if err := wsjson.Write(ctx, c, fractal.Request{Mode: "orbit", Region: "seahorse"}); err != nil {
		t.Fatal(err)
	}
	_, _, err := c.Read(ctx)
	if got := websocket.CloseStatus(err); got != websocket.StatusPolicyViolation {
		t.Errorf("close status %v (%v), want policy violation", got, err)
	}
}

func TestRejectsOversizedRequest(t *testing.T) {
	for _, req := range []fractal.Request{
		{ImageWidth: 1 << 20, ImageHeight: 1 << 20},
		{ImageWidth: 1 << 30, ImageHeight: 1},
		{Mode: "orbit", ImageWidth: 8, ImageHeight: 8, Samples: 1 << 36},
		{ImageWidth: 8, ImageHeight: 8, MaxIterations: 1 << 30},
	} {
		c, ctx := dialTestServer(t)
		if err := wsjson.Write(ctx, c, req); err != nil {
			t.Fatal(err)
		}
		_, _, err := c.Read(ctx)
		if got := websocket.CloseStatus(err); got != websocket.StatusPolicyViolation {
			t.Errorf("%+v: close status %v (%v), want policy violation", req, got, err)
		}
	}
}

func TestAdmit(t *testing.T) {
	rs := newRenderScheduler(2, 1, requestLimits{Pixels: 100, Samples: 50, MaxIterations: 10})
	cfg := fractal.DefaultConfig(fractal.OrbitDensity)
	cfg.View = fractal.Buddha.Viewport(10, 10)
	cfg.Samples = 50
	cfg.MaxIterations = 10
	if err := rs.admit(cfg); err != nil {
		t.Errorf("admit at the limits: %v", err)
	}
	cfg.Samples = 51
	if err := rs.admit(cfg); !errors.Is(err, fractal.ErrInvalidConfig) {
		t.Errorf("admit past the sample limit = %v, want ErrInvalidConfig", err)
	}
	cfg.Mode = fractal.EscapeTime
	if err := rs.admit(cfg); err != nil {
		t.Errorf("samples limit applied to escape-time: %v", err)
	}
}

func TestCloseReasonFits(t *testing.T) {
	long := strings.Repeat("x", 500)
	if got := closeReason(errString(long)); len(got) > 123 {
		t.Errorf("close reason of %d bytes", len(got))
	}

	// 119 ASCII bytes put a two-byte rune across the cut.
	split := strings.Repeat("x", 119) + strings.Repeat("é", 10)
	got := closeReason(errString(split))
	if !utf8.ValidString(got) || len(got) > 120 {
		t.Errorf("closeReason(%q) = %q, not valid UTF-8 within 120 bytes", split, got)
	}
	if got != strings.Repeat("x", 119) {
		t.Errorf("closeReason kept %q", got)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
