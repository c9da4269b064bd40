package main

import (
	"flag"
	"log"

	"github.com/decker502/growgarden/pkg/app"
	"github.com/decker502/growgarden/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	reset := flag.Bool("reset", false, "清空存档，开始全新游戏")
	configPath := flag.String("config", "", "游戏配置文件路径")
	flag.Parse()

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Reset:      *reset,
		ConfigPath: *configPath,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("成长花园")
	ebiten.SetWindowClosingHandled(false)

	// 窗口关闭时 RunGame 返回，停止引擎并保存最后状态
	defer gameApp.Shutdown()

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatalf("游戏运行错误: %v", err)
	}
}
