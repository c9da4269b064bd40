package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 窗口逻辑尺寸（像素）
// 实际窗口可以缩放，Ebitengine 会自动处理
const (
	GameWindowWidth  = 800
	GameWindowHeight = 600
)

// GameConfig 游戏全局配置
//
// 包含网格规格、时间参数和引擎参数。
// 所有时间参数单位为毫秒，与存档中的时间戳保持一致。
type GameConfig struct {
	// GridWidth 花园网格宽度（格子数）
	GridWidth int `yaml:"gridWidth"`
	// GridHeight 花园网格高度（格子数）
	GridHeight int `yaml:"gridHeight"`
	// CellSize 每个格子的像素大小
	CellSize float64 `yaml:"cellSize"`

	// AutoSaveInterval 自动保存间隔（毫秒）
	AutoSaveInterval int64 `yaml:"autoSaveInterval"`
	// OfflineThreshold 离线补偿触发阈值（毫秒）
	// 距上次保存超过该时长才执行离线成长补偿
	OfflineThreshold int64 `yaml:"offlineThreshold"`

	// TargetFPS 目标帧率，决定最小 tick 间隔
	TargetFPS int `yaml:"targetFPS"`
	// MaxTickErrors 连续 tick 错误达到该次数后引擎进入失败状态
	MaxTickErrors int `yaml:"maxTickErrors"`
}

// DefaultGameConfig 返回默认游戏配置
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		GridWidth:        8,
		GridHeight:       8,
		CellSize:         64,
		AutoSaveInterval: 30000,
		OfflineThreshold: 60000,
		TargetFPS:        60,
		MaxTickErrors:    3,
	}
}

// FrameInterval 返回最小 tick 间隔（毫秒）
func (c *GameConfig) FrameInterval() float64 {
	if c.TargetFPS <= 0 {
		return 1000.0 / 60.0
	}
	return 1000.0 / float64(c.TargetFPS)
}

// Validate 检查配置的合法性
//
// 返回：
//   - error: 配置非法时返回错误
func (c *GameConfig) Validate() error {
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("invalid grid size: %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("invalid cell size: %v", c.CellSize)
	}
	if c.AutoSaveInterval <= 0 {
		return fmt.Errorf("invalid auto save interval: %d", c.AutoSaveInterval)
	}
	if c.OfflineThreshold < 0 {
		return fmt.Errorf("invalid offline threshold: %d", c.OfflineThreshold)
	}
	return nil
}

// LoadGameConfig 从 YAML 文件加载游戏配置
//
// 文件中未出现的字段保留默认值；文件不存在时直接返回默认配置。
//
// 参数：
//   - path: 配置文件路径（如 "data/config/game.yaml"）
//
// 返回：
//   - *GameConfig: 合并后的配置
//   - error: 读取或解析失败返回错误
func LoadGameConfig(path string) (*GameConfig, error) {
	cfg := DefaultGameConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config %s: %w", path, err)
	}

	return cfg, nil
}
