package bridge

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/decker502/growgarden/pkg/game"
)

func newTestBridge(t *testing.T) (*Bridge, *LoopbackTransport, *game.ManualClock) {
	t.Helper()
	transport := &LoopbackTransport{}
	clock := game.NewManualClock(5000)
	return New(transport, clock), transport, clock
}

// encodeMessage 构造入站消息负载
func encodeMessage(t *testing.T, msgType, source string, data map[string]any) []byte {
	t.Helper()
	payload, err := json.Marshal(Message{
		Type:      msgType,
		Data:      data,
		Source:    source,
		Timestamp: 1,
	})
	if err != nil {
		t.Fatalf("Failed to marshal message: %v", err)
	}
	return payload
}

func TestBridgeSend(t *testing.T) {
	b, transport, _ := newTestBridge(t)

	b.Send(EventGameReady, map[string]any{"version": "1.0.0"})

	if len(transport.Sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(transport.Sent))
	}
	msg := transport.Sent[0]
	if msg.Type != EventGameReady {
		t.Errorf("Type = %q, want %q", msg.Type, EventGameReady)
	}
	if msg.Source != MessageSource {
		t.Errorf("Source = %q, want %q", msg.Source, MessageSource)
	}
	if msg.Timestamp != 5000 {
		t.Errorf("Timestamp = %d, want 5000", msg.Timestamp)
	}
	if msg.Data["version"] != "1.0.0" {
		t.Errorf("Data = %v, want version 1.0.0", msg.Data)
	}
}

func TestBridgeSendError(t *testing.T) {
	b, transport, _ := newTestBridge(t)

	b.SendError(errors.New("tick exploded"), "engine tick", 2, true)

	if len(transport.Sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(transport.Sent))
	}
	msg := transport.Sent[0]
	if msg.Type != EventGameError {
		t.Errorf("Type = %q, want %q", msg.Type, EventGameError)
	}
	if msg.Data["error"] != "tick exploded" || msg.Data["context"] != "engine tick" {
		t.Errorf("Data = %v", msg.Data)
	}
	// JSON 数字解码为 float64
	if msg.Data["errorCount"] != float64(2) {
		t.Errorf("errorCount = %v, want 2", msg.Data["errorCount"])
	}
	if msg.Data["canRetry"] != true {
		t.Errorf("canRetry = %v, want true", msg.Data["canRetry"])
	}
}

func TestBridgeDispatch(t *testing.T) {
	b, _, _ := newTestBridge(t)

	var got map[string]any
	b.On(CommandPauseGame, func(data map[string]any) {
		got = data
	})

	payload := encodeMessage(t, CommandPauseGame, "hostPage", map[string]any{"reason": "tab hidden"})
	if !b.HandleRaw(payload) {
		t.Fatal("registered message should be dispatched")
	}
	if got["reason"] != "tab hidden" {
		t.Errorf("handler data = %v, want reason 'tab hidden'", got)
	}
}

func TestBridgeIgnoresOwnEcho(t *testing.T) {
	b, _, _ := newTestBridge(t)

	called := false
	b.On(CommandPauseGame, func(data map[string]any) {
		called = true
	})

	// 来源是自己的消息被丢弃，避免回环
	payload := encodeMessage(t, CommandPauseGame, MessageSource, nil)
	if b.HandleRaw(payload) {
		t.Error("own echo should not be dispatched")
	}
	if called {
		t.Error("handler should not be called for own echo")
	}
}

func TestBridgeUnknownType(t *testing.T) {
	b, _, _ := newTestBridge(t)

	payload := encodeMessage(t, "launchMissiles", "hostPage", nil)
	if b.HandleRaw(payload) {
		t.Error("unregistered message type should be dropped")
	}
}

func TestBridgeMalformedPayload(t *testing.T) {
	b, _, _ := newTestBridge(t)

	if b.HandleRaw([]byte("not json at all")) {
		t.Error("malformed payload should be dropped")
	}
	if b.HandleRaw(nil) {
		t.Error("nil payload should be dropped")
	}
}

func TestBridgeNilTransport(t *testing.T) {
	clock := game.NewManualClock(0)
	b := New(nil, clock)

	// 空传输：发送不报错不崩溃
	b.Send(EventGamePaused, nil)
}

func TestBridgeHandlerOverride(t *testing.T) {
	b, _, _ := newTestBridge(t)

	first, second := false, false
	b.On(CommandResetGame, func(data map[string]any) { first = true })
	b.On(CommandResetGame, func(data map[string]any) { second = true })

	b.HandleRaw(encodeMessage(t, CommandResetGame, "hostPage", nil))

	if first {
		t.Error("overridden handler should not be called")
	}
	if !second {
		t.Error("latest handler should be called")
	}
}
