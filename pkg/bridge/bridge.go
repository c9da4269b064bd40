// Package bridge 实现与宿主环境的消息通信
//
// 消息为 JSON 信封格式，与 1.0.0 版本的宿主页面协议保持一致。
// 桌面端默认使用空传输（无宿主），嵌入式宿主通过 Transport 接入。
package bridge

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/decker502/growgarden/pkg/game"
)

// MessageSource 本端发出消息的来源标识
// 收到 Source 等于自身标识的消息时丢弃，避免回环
const MessageSource = "growgardenGame"

// 出站消息类型
const (
	EventGameReady           = "gameReady"
	EventGameLoadingStart    = "gameLoadingStart"
	EventGameLoadingComplete = "gameLoadingComplete"
	EventGamePaused          = "gamePaused"
	EventGameResumed         = "gameResumed"
	EventGameError           = "gameError"
	EventGameFailure         = "gameFailure"
	EventGameStateResponse   = "gameStateResponse"
)

// 入站消息类型
const (
	CommandPauseGame    = "pauseGame"
	CommandResumeGame   = "resumeGame"
	CommandResetGame    = "resetGame"
	CommandGetGameState = "getGameState"
	CommandResizeGame   = "resizeGame"
)

// Message 消息信封
type Message struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Source    string         `json:"source"`
	Timestamp int64          `json:"timestamp"`
}

// Transport 消息传输层
//
// Send 把序列化后的消息投递给宿主。投递是尽力而为的：
// 失败由 Bridge 记录日志，不影响游戏运行。
type Transport interface {
	Send(payload []byte) error
}

// NopTransport 空传输，桌面端无宿主时使用
type NopTransport struct{}

// Send 丢弃消息
func (NopTransport) Send(payload []byte) error { return nil }

// LoopbackTransport 回环传输，记录发出的全部消息
// 测试中用于断言出站消息
type LoopbackTransport struct {
	Sent []Message
}

// Send 解析并记录消息
func (t *LoopbackTransport) Send(payload []byte) error {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("malformed outbound message: %w", err)
	}
	t.Sent = append(t.Sent, msg)
	return nil
}

// Handler 入站消息处理函数
type Handler func(data map[string]any)

// Bridge 消息桥
//
// 出站：把事件包装成信封、打时间戳后交给传输层。
// 入站：解析信封、丢弃回环和未注册类型，分发给注册的处理函数。
//
// 单线程模型：与引擎在同一协程内收发。
type Bridge struct {
	transport Transport
	clock     game.Clock
	handlers  map[string]Handler
}

// New 创建消息桥
//
// 参数：
//   - transport: 传输层，传 nil 时使用空传输
//   - clock: 时间源，用于消息时间戳
func New(transport Transport, clock game.Clock) *Bridge {
	if transport == nil {
		transport = NopTransport{}
	}
	return &Bridge{
		transport: transport,
		clock:     clock,
		handlers:  make(map[string]Handler),
	}
}

// On 注册入站消息处理函数
// 相同类型的后注册覆盖先注册
func (b *Bridge) On(msgType string, handler Handler) {
	b.handlers[msgType] = handler
}

// Send 发送一条出站消息
//
// 发送是即发即忘的：序列化或投递失败只记录日志。
func (b *Bridge) Send(msgType string, data map[string]any) {
	msg := Message{
		Type:      msgType,
		Data:      data,
		Source:    MessageSource,
		Timestamp: b.clock.NowMillis(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Bridge] Failed to marshal %s message: %v", msgType, err)
		return
	}

	if err := b.transport.Send(payload); err != nil {
		log.Printf("[Bridge] Failed to send %s message: %v", msgType, err)
	}
}

// SendError 发送错误报告
func (b *Bridge) SendError(err error, context string, errorCount int, canRetry bool) {
	b.Send(EventGameError, map[string]any{
		"error":      err.Error(),
		"context":    context,
		"errorCount": errorCount,
		"canRetry":   canRetry,
	})
}

// HandleRaw 处理一条原始入站消息
//
// 无法解析的负载、自己发出的回环消息和未注册的类型都被丢弃，
// 丢弃只记录日志，绝不中断游戏。
//
// 返回：
//   - bool: 消息是否被分发给了处理函数
func (b *Bridge) HandleRaw(payload []byte) bool {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Printf("[Bridge] Dropping malformed message: %v", err)
		return false
	}

	if msg.Source == MessageSource {
		return false
	}

	handler, ok := b.handlers[msg.Type]
	if !ok {
		log.Printf("[Bridge] No handler for message type %q", msg.Type)
		return false
	}

	handler(msg.Data)
	return true
}
