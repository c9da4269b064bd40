package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/decker502/growgarden/pkg/config"
	"github.com/decker502/growgarden/pkg/entities"
	"github.com/quasilyte/gdata/v2"
)

// SaveVersion 当前存档格式版本
const SaveVersion = "1.0.0"

// ErrNoSave 没有可用的存档（文件不存在或校验失败）
var ErrNoSave = errors.New("no save data")

// 存储键名
// 游戏状态和配置分两个键保存，整体替换写入，不存在部分写的风险
const (
	saveObject    = "growgarden"
	stateProperty = "state"
	confProperty  = "config"
)

// PlayerStats 玩家统计数据
//
// Score 和 PlantsHarvested 除显式重置外单调不减；
// Achievements 为只增集合。
type PlayerStats struct {
	Score           int      `json:"score"`
	PlantsHarvested int      `json:"plantsHarvested"`
	TotalPlayTime   float64  `json:"totalPlayTime"` // 累计游玩时长（毫秒）
	Achievements    []string `json:"achievements"`
}

// NewPlayerStats 创建初始玩家数据
func NewPlayerStats() *PlayerStats {
	return &PlayerStats{Achievements: []string{}}
}

// HasAchievement 判断成就是否已获得
func (p *PlayerStats) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// SaveSnapshot 完整存档快照
// 字段名与 1.0.0 版本的 JSON 存档格式保持一致
type SaveSnapshot struct {
	GameTime     float64                  `json:"gameTime"`
	LastSaveTime int64                    `json:"lastSaveTime"`
	Player       *PlayerStats             `json:"player"`
	Garden       *entities.GardenSnapshot `json:"garden"`
	Version      string                   `json:"version"`
}

// Validate 校验快照完整性
//
// 必须存在版本号、玩家数据和花园格子数组；
// 任何一项缺失都按"没有存档"处理，绝不部分应用损坏的快照。
func (s *SaveSnapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if s.Version == "" {
		return fmt.Errorf("snapshot missing version")
	}
	if s.Player == nil {
		return fmt.Errorf("snapshot missing player data")
	}
	if s.Garden == nil || s.Garden.Cells == nil {
		return fmt.Errorf("snapshot missing garden cells")
	}
	return nil
}

// SaveManager 存档管理器
//
// 通过 gdata 做跨平台键值存储（桌面端为本地文件，浏览器端为 localStorage），
// 快照以 JSON 整体写入。gdata 初始化失败时降级为纯内存模式：
// 读取报告无存档，写入静默丢弃，游戏照常运行。
type SaveManager struct {
	manager *gdata.Manager // 可为 nil（降级模式）
}

// NewSaveManager 创建存档管理器
//
// 参数：
//   - appName: gdata 应用标识，决定存档目录
//
// 返回：
//   - *SaveManager: 管理器实例；gdata 打开失败时仍返回可用的降级实例
func NewSaveManager(appName string) *SaveManager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SaveManager] Warning: gdata unavailable, running without persistence: %v", err)
		return &SaveManager{}
	}
	return &SaveManager{manager: manager}
}

// NewSaveManagerWithGdata 用现成的 gdata Manager 创建存档管理器
// 测试中传入独立目录的 manager，避免污染真实存档
func NewSaveManagerWithGdata(manager *gdata.Manager) *SaveManager {
	return &SaveManager{manager: manager}
}

// SaveState 保存游戏状态快照
//
// 返回：
//   - error: 序列化或写入失败返回错误；降级模式下返回 nil
func (sm *SaveManager) SaveState(snap *SaveSnapshot) error {
	if sm.manager == nil {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal save data: %w", err)
	}

	if err := sm.manager.SaveObjectProp(saveObject, stateProperty, data); err != nil {
		return fmt.Errorf("failed to write save data: %w", err)
	}
	return nil
}

// LoadState 加载游戏状态快照
//
// 返回：
//   - *SaveSnapshot: 通过完整性校验的快照
//   - error: 不存在或校验失败返回 ErrNoSave（调用方据此初始化全新状态）
func (sm *SaveManager) LoadState() (*SaveSnapshot, error) {
	if sm.manager == nil {
		return nil, ErrNoSave
	}

	if !sm.manager.ObjectPropExists(saveObject, stateProperty) {
		return nil, ErrNoSave
	}

	data, err := sm.manager.LoadObjectProp(saveObject, stateProperty)
	if err != nil {
		log.Printf("[SaveManager] Failed to read save data: %v", err)
		return nil, ErrNoSave
	}

	var snap SaveSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("[SaveManager] Corrupt save data discarded: %v", err)
		return nil, ErrNoSave
	}

	if err := snap.Validate(); err != nil {
		log.Printf("[SaveManager] Invalid save data discarded: %v", err)
		return nil, ErrNoSave
	}

	return &snap, nil
}

// DeleteState 删除存档
// 重置游戏时调用；存档不存在不视为错误
func (sm *SaveManager) DeleteState() error {
	if sm.manager == nil {
		return nil
	}
	if err := sm.manager.DeleteObjectProp(saveObject, stateProperty); err != nil {
		return fmt.Errorf("failed to delete save data: %w", err)
	}
	return nil
}

// SaveConfig 保存游戏配置
// 配置与状态分键保存，对应原版的独立配置存储
func (sm *SaveManager) SaveConfig(cfg *config.GameConfig) error {
	if sm.manager == nil {
		return nil
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := sm.manager.SaveObjectProp(saveObject, confProperty, data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoadConfig 加载保存的游戏配置
//
// 返回：
//   - *config.GameConfig: 保存的配置；不存在或损坏时返回 nil（使用默认配置）
func (sm *SaveManager) LoadConfig() *config.GameConfig {
	if sm.manager == nil || !sm.manager.ObjectPropExists(saveObject, confProperty) {
		return nil
	}

	data, err := sm.manager.LoadObjectProp(saveObject, confProperty)
	if err != nil {
		log.Printf("[SaveManager] Failed to read config: %v", err)
		return nil
	}

	var cfg config.GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("[SaveManager] Corrupt config discarded, using defaults: %v", err)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		log.Printf("[SaveManager] Invalid config discarded, using defaults: %v", err)
		return nil
	}

	return &cfg
}
