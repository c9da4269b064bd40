// Package engine 实现固定节奏的游戏主循环控制
package engine

import (
	"fmt"
	"log"

	"github.com/decker502/growgarden/pkg/config"
	"github.com/decker502/growgarden/pkg/game"
)

// State 引擎生命周期状态
type State int

const (
	// StateStopped 已停止（初始状态和终态）
	StateStopped State = iota
	// StateRunning 运行中
	StateRunning
	// StatePaused 已暂停
	StatePaused
	// StateFailed 连续错误超限后的失败状态，不再执行模拟
	StateFailed
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Simulation 引擎驱动的模拟接口
// GameState 是生产实现；测试中替换为可注入故障的假实现
type Simulation interface {
	Update(deltaMillis float64)
}

// ErrorReporter 引擎错误回调
//
// 每次 tick 失败都会上报一次；canRetry 为 false 表示错误已超限、
// 引擎进入失败状态。由应用层接入消息桥向宿主报告。
type ErrorReporter func(err error, errorCount int, canRetry bool)

// Engine 游戏引擎
//
// 控制模拟的启停和节奏：每次 Tick 按墙钟时间计算经过时长，
// 不足一帧间隔时跳过，保证模拟步长不小于目标帧间隔。
// tick 内的 panic 被捕获并计入错误，连续错误超限后引擎失效。
//
// 单线程模型：所有方法都在渲染循环的协程内调用。
type Engine struct {
	state State
	clock game.Clock
	sim   Simulation

	frameInterval float64 // 最小模拟步长（毫秒）
	lastTime      int64   // 上次模拟步的时间（Unix 毫秒）

	errorCount    int
	maxTickErrors int
	onError       ErrorReporter // 可为 nil
}

// New 创建引擎
//
// 参数：
//   - cfg: 游戏配置，提供帧间隔和错误上限
//   - clock: 时间源
//   - sim: 被驱动的模拟
func New(cfg *config.GameConfig, clock game.Clock, sim Simulation) *Engine {
	return &Engine{
		state:         StateStopped,
		clock:         clock,
		sim:           sim,
		frameInterval: cfg.FrameInterval(),
		maxTickErrors: cfg.MaxTickErrors,
	}
}

// SetErrorReporter 设置错误回调
func (e *Engine) SetErrorReporter(fn ErrorReporter) {
	e.onError = fn
}

// State 返回当前状态
func (e *Engine) State() State {
	return e.state
}

// IsRunning 判断引擎是否在运行
func (e *Engine) IsRunning() bool {
	return e.state == StateRunning
}

// Start 启动引擎
// 仅在停止状态下生效；失败状态必须先 Reset
func (e *Engine) Start() {
	if e.state != StateStopped {
		return
	}
	e.state = StateRunning
	e.lastTime = e.clock.NowMillis()
	log.Printf("[Engine] Started")
}

// Pause 暂停引擎
// 仅在运行状态下生效
func (e *Engine) Pause() {
	if e.state != StateRunning {
		return
	}
	e.state = StatePaused
	log.Printf("[Engine] Paused")
}

// Resume 恢复引擎
//
// 仅在暂停状态下生效。恢复时重置时间基准，
// 暂停期间的墙钟时间不计入下一次模拟步。
func (e *Engine) Resume() {
	if e.state != StatePaused {
		return
	}
	e.state = StateRunning
	e.lastTime = e.clock.NowMillis()
	log.Printf("[Engine] Resumed")
}

// TogglePause 在运行和暂停之间切换
func (e *Engine) TogglePause() {
	switch e.state {
	case StateRunning:
		e.Pause()
	case StatePaused:
		e.Resume()
	}
}

// Stop 停止引擎
func (e *Engine) Stop() {
	if e.state == StateStopped {
		return
	}
	e.state = StateStopped
	log.Printf("[Engine] Stopped")
}

// Reset 把引擎恢复到可启动状态并清零错误计数
// 失败状态的恢复入口
func (e *Engine) Reset() {
	e.state = StateStopped
	e.errorCount = 0
	log.Printf("[Engine] Reset")
}

// ErrorCount 返回累计的 tick 错误数
func (e *Engine) ErrorCount() int {
	return e.errorCount
}

// Tick 执行一次引擎节拍
//
// 运行状态下按墙钟时间计算经过时长：不足一帧间隔时本次不推进模拟。
// 模拟步中的 panic 被捕获、计入错误并上报；错误达到上限时引擎
// 进入失败状态，之后的 Tick 全部空转。
//
// 返回：
//   - bool: 本次是否推进了模拟
func (e *Engine) Tick() bool {
	if e.state != StateRunning {
		return false
	}

	now := e.clock.NowMillis()
	delta := float64(now - e.lastTime)
	if delta < e.frameInterval {
		return false
	}
	e.lastTime = now

	if err := e.step(delta); err != nil {
		e.errorCount++
		canRetry := e.errorCount < e.maxTickErrors
		log.Printf("[Engine] Tick error (%d/%d): %v", e.errorCount, e.maxTickErrors, err)

		if e.onError != nil {
			e.onError(err, e.errorCount, canRetry)
		}
		if !canRetry {
			e.state = StateFailed
			log.Printf("[Engine] Too many tick errors, engine failed")
		}
		return false
	}

	return true
}

// step 执行一次模拟步，把 panic 转换为错误
func (e *Engine) step(deltaMillis float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("simulation panic: %v", r)
		}
	}()
	e.sim.Update(deltaMillis)
	return nil
}
