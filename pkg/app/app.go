// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和嵌入式宿主共用。
package app

import (
	"fmt"
	"io"
	"log"

	"github.com/decker502/growgarden/pkg/bridge"
	"github.com/decker502/growgarden/pkg/config"
	"github.com/decker502/growgarden/pkg/engine"
	"github.com/decker502/growgarden/pkg/game"
	"github.com/decker502/growgarden/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// gdataAppName gdata 应用标识，决定存档目录
const gdataAppName = "growgarden"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// AppName gdata 存储标识，为空则使用默认值（测试中注入独立目录）
	AppName string
	// Reset 启动时清空存档，开始全新游戏
	Reset bool
	// ConfigPath 游戏配置文件路径，为空则使用默认配置
	ConfigPath string
	// Transport 宿主消息传输层，为空则使用空传输（桌面端无宿主）
	Transport bridge.Transport
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	gameState *game.GameState
	engine    *engine.Engine
	bridge    *bridge.Bridge
	settings  *game.SettingsManager

	input    *systems.InputSystem
	renderer *systems.RenderSystem
	effects  *systems.EffectSystem

	clock game.Clock

	// lastFrameTime 特效推进用的时间基准（Unix 毫秒）
	lastFrameTime int64

	// focusPaused 因窗口失焦触发的暂停，重新聚焦时自动恢复
	focusPaused bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数

	verbose bool
}

// NewApp 创建并初始化游戏应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	clock := game.SystemClock{}

	appName := cfg.AppName
	if appName == "" {
		appName = gdataAppName
	}

	// 打开跨平台存储，存档和设置共用一个 gdata 管理器
	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, running without persistence: %v", err)
		gdataManager = nil
	}
	saveManager := game.NewSaveManagerWithGdata(gdataManager)

	settingsManager, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置管理器初始化失败: %w", err)
	}
	settings := settingsManager.GetSettings()

	// 加载游戏配置：文件覆盖默认值，保存的配置优先
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = "data/config/game.yaml"
	}
	gameConfig, err := config.LoadGameConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("游戏配置加载失败: %w", err)
	}
	if saved := saveManager.LoadConfig(); saved != nil {
		gameConfig = saved
		log.Printf("[App] Using saved game config")
	}

	if cfg.Reset {
		if err := saveManager.DeleteState(); err != nil {
			log.Printf("[App] Warning: failed to delete save: %v", err)
		}
		log.Printf("[App] Save deleted, starting fresh")
	}

	// 创建资源管理器并加载资源清单
	resourceManager := game.NewResourceManager()
	if err := resourceManager.LoadResourceConfig("assets/config/resources.yaml"); err != nil {
		return nil, fmt.Errorf("资源配置加载失败: %w", err)
	}

	// 消息桥：在状态构建前发出加载开始事件
	gameBridge := bridge.New(cfg.Transport, clock)
	gameBridge.Send(bridge.EventGameLoadingStart, nil)

	// 创建游戏状态（内部完成存档加载和离线补偿）
	gameState := game.NewGameState(gameConfig, clock, saveManager)

	// 花园网格在窗口中居中，顶部留出 HUD 空间
	garden := gameState.Garden()
	totalW, totalH := garden.TotalSize()
	garden.SetOffset(
		(float64(config.GameWindowWidth)-totalW)/2,
		(float64(config.GameWindowHeight)-totalH)/2+16,
	)

	// 系统装配
	effectSystem := systems.NewEffectSystem(settings.Quality)
	inputSystem := systems.NewInputSystem(gameState, effectSystem, clock)
	renderSystem := systems.NewRenderSystem(gameState, resourceManager, inputSystem, clock)
	renderSystem.SetShowGrid(settings.ShowGrid)

	gameEngine := engine.New(gameConfig, clock, gameState)

	app := &App{
		gameState:     gameState,
		engine:        gameEngine,
		bridge:        gameBridge,
		settings:      settingsManager,
		input:         inputSystem,
		renderer:      renderSystem,
		effects:       effectSystem,
		clock:         clock,
		lastFrameTime: clock.NowMillis(),
		verbose:       cfg.Verbose,
	}

	inputSystem.SetPauseHandler(app.togglePause)
	gameEngine.SetErrorReporter(app.reportEngineError)
	app.registerBridgeHandlers()

	if settings.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	gameEngine.Start()
	gameBridge.Send(bridge.EventGameLoadingComplete, nil)
	gameBridge.Send(bridge.EventGameReady, nil)
	log.Printf("[App] Initialized")

	return app, nil
}

// registerBridgeHandlers 注册宿主命令
func (a *App) registerBridgeHandlers() {
	a.bridge.On(bridge.CommandPauseGame, func(data map[string]any) {
		a.pause()
	})
	a.bridge.On(bridge.CommandResumeGame, func(data map[string]any) {
		a.resume()
	})
	a.bridge.On(bridge.CommandResetGame, func(data map[string]any) {
		a.gameState.Reset()
		if a.engine.State() == engine.StateFailed {
			a.engine.Reset()
			a.engine.Start()
		}
	})
	a.bridge.On(bridge.CommandGetGameState, func(data map[string]any) {
		a.bridge.Send(bridge.EventGameStateResponse, map[string]any{
			"stats":         a.gameState.GetGameStats(),
			"isInitialized": true,
		})
	})
	a.bridge.On(bridge.CommandResizeGame, func(data map[string]any) {
		// 逻辑尺寸固定，缩放由 Layout 机制处理；命令仅确认收到
		log.Printf("[App] Resize request acknowledged")
	})
}

// HandleHostMessage 处理一条来自宿主的原始消息
// 嵌入式宿主把收到的负载转给这里
func (a *App) HandleHostMessage(payload []byte) {
	a.bridge.HandleRaw(payload)
}

// pause 暂停游戏并通知宿主
func (a *App) pause() {
	if a.engine.State() != engine.StateRunning {
		return
	}
	a.engine.Pause()
	a.bridge.Send(bridge.EventGamePaused, nil)
}

// resume 恢复游戏并通知宿主
func (a *App) resume() {
	if a.engine.State() != engine.StatePaused {
		return
	}
	a.engine.Resume()
	a.focusPaused = false
	a.bridge.Send(bridge.EventGameResumed, nil)
}

// togglePause 空格键的暂停切换
func (a *App) togglePause() {
	switch a.engine.State() {
	case engine.StateRunning:
		a.pause()
	case engine.StatePaused:
		a.resume()
	}
}

// reportEngineError 把引擎错误转发给宿主
// 错误超限时额外发出失败事件并保存最后状态
func (a *App) reportEngineError(err error, errorCount int, canRetry bool) {
	a.bridge.SendError(err, "engine tick", errorCount, canRetry)
	if !canRetry {
		a.bridge.Send(bridge.EventGameFailure, map[string]any{
			"error": err.Error(),
		})
		a.gameState.Save()
	}
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
		a.settings.SetFullscreen(ebiten.IsFullscreen())
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Warning: failed to save settings: %v", err)
		}
	}

	// 失焦自动暂停，重新聚焦后恢复
	if !ebiten.IsFocused() {
		if a.engine.State() == engine.StateRunning {
			a.focusPaused = true
			a.pause()
		}
	} else if a.focusPaused && a.engine.State() == engine.StatePaused {
		a.resume()
	}

	// 键盘每帧轮询：暂停后空格恢复依赖这里；指针命令只在运行时生效
	a.input.UpdateKeyboard()
	if a.engine.State() == engine.StateRunning {
		a.input.UpdatePointer()
	}

	a.engine.Tick()

	// 特效按墙钟时间推进，暂停时也继续播完
	now := a.clock.NowMillis()
	a.effects.Update(float64(now - a.lastFrameTime))
	a.lastFrameTime = now

	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen)
	a.effects.Draw(screen)

	switch a.engine.State() {
	case engine.StatePaused:
		ebitenutil.DebugPrintAt(screen, "-- PAUSED --  [Space] resume",
			config.GameWindowWidth/2-80, config.GameWindowHeight/2)
	case engine.StateFailed:
		ebitenutil.DebugPrintAt(screen, "Game stopped after repeated errors. Progress has been saved.",
			config.GameWindowWidth/2-180, config.GameWindowHeight/2)
	}
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Shutdown 停止引擎并保存状态
// 游戏关闭时调用，可重复调用
func (a *App) Shutdown() {
	if a.engine.State() == engine.StateStopped {
		return
	}
	a.engine.Stop()
	a.gameState.Save()
	log.Printf("[App] Shutdown complete, state saved")
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
