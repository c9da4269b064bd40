// Package game 实现游戏状态管理与持久化
//
// GameState 持有玩家数据和花园网格，对外暴露命令式 API（种植/浇水/收获），
// SaveManager 负责存档的读写和离线补偿判定，SettingsManager 管理全局设置，
// ResourceManager 提供按键名索引的图像资源。
package game

import "time"

// Clock 时间源接口
//
// 模拟层所有时间都经由 Clock 获取，便于测试中注入任意经过时长
// （离线补偿场景必须可确定性重放）。
type Clock interface {
	// NowMillis 返回当前时间（Unix 毫秒）
	NowMillis() int64
}

// SystemClock 使用系统时钟的 Clock 实现
type SystemClock struct{}

// NowMillis 返回系统当前时间（Unix 毫秒）
func (SystemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// ManualClock 手动推进的时钟，用于测试
type ManualClock struct {
	millis int64
}

// NewManualClock 创建手动时钟
//
// 参数：
//   - startMillis: 初始时间（Unix 毫秒）
func NewManualClock(startMillis int64) *ManualClock {
	return &ManualClock{millis: startMillis}
}

// NowMillis 返回手动时钟的当前时间
func (c *ManualClock) NowMillis() int64 {
	return c.millis
}

// Advance 将时钟向前推进指定毫秒数
func (c *ManualClock) Advance(deltaMillis int64) {
	c.millis += deltaMillis
}

// Set 直接设置时钟时间
func (c *ManualClock) Set(millis int64) {
	c.millis = millis
}
