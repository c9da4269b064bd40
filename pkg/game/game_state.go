package game

import (
	"errors"
	"log"

	"github.com/decker502/growgarden/pkg/config"
	"github.com/decker502/growgarden/pkg/entities"
	"github.com/decker502/growgarden/pkg/types"
)

// 成就标识
const (
	AchievementFirstPlant   = "first_plant"   // 初次播种
	AchievementFirstHarvest = "first_harvest" // 初次收获
	AchievementScore100     = "score_100"     // 积分达到 100
	AchievementScore500     = "score_500"     // 积分达到 500
	AchievementTenHarvests  = "ten_harvests"  // 累计收获 10 次
)

// HarvestResult 收获命令的结果
type HarvestResult struct {
	Reward int             // 实际获得的积分
	Plant  *entities.Plant // 被收获的植物（所有权移交给调用方）
}

// GameStats 游戏统计信息，供 UI 和宿主页面查询
type GameStats struct {
	Score           int     `json:"score"`
	PlantsHarvested int     `json:"plantsHarvested"`
	TotalPlayTime   float64 `json:"totalPlayTime"`
	GameTime        float64 `json:"gameTime"`
	PlantsInGarden  int     `json:"plantsInGarden"`
	AverageHealth   float64 `json:"averageHealth"`
}

// GameState 游戏状态
//
// 持有玩家数据和花园网格，是二者唯一的修改入口：
// 输入层只能通过这里的命令 API 操作格子，命令内部独立完成校验，
// 不信任调用方的预校验。所有命令成功后触发保存。
//
// 单线程模型：所有方法都在引擎 tick 的同一协程内调用，无需加锁。
type GameState struct {
	player *PlayerStats
	garden *entities.GardenGrid

	// gameTime 累计模拟时长（毫秒），仅由 Update 推进
	gameTime float64

	cfg         *config.GameConfig
	clock       Clock
	saveManager *SaveManager // 可为 nil（无持久化）

	lastAutoSave int64 // 上次自动保存时间（Unix 毫秒）
}

// NewGameState 创建游戏状态
//
// 有合法存档时从快照恢复并执行离线补偿，否则初始化全新状态并立即保存。
//
// 参数：
//   - cfg: 游戏配置
//   - clock: 时间源
//   - saveManager: 存档管理器，可为 nil
func NewGameState(cfg *config.GameConfig, clock Clock, saveManager *SaveManager) *GameState {
	gs := &GameState{
		cfg:         cfg,
		clock:       clock,
		saveManager: saveManager,
	}

	now := clock.NowMillis()
	gs.lastAutoSave = now

	snap, err := gs.loadSnapshot()
	if err != nil {
		if !errors.Is(err, ErrNoSave) {
			log.Printf("[GameState] Load failed, starting fresh: %v", err)
		} else {
			log.Printf("[GameState] No save found, starting fresh")
		}
		gs.initializeFresh()
		gs.Save()
		return gs
	}

	gs.restoreFromSnapshot(snap)
	log.Printf("[GameState] Save loaded: score=%d, harvested=%d, plants=%d",
		gs.player.Score, gs.player.PlantsHarvested, gs.garden.CountPlants())

	// 离线补偿：距上次保存超过阈值时，把整段离线时长作为一次更新应用。
	// 一次大步长和多次小步长的健康积分结果不同，这是既定的存档语义。
	offline := now - snap.LastSaveTime
	if offline > cfg.OfflineThreshold {
		log.Printf("[GameState] Applying offline growth for %d seconds", offline/1000)
		gs.garden.Update(float64(offline), now)
		gs.Save()
	}

	return gs
}

// loadSnapshot 从存档管理器读取快照
func (gs *GameState) loadSnapshot() (*SaveSnapshot, error) {
	if gs.saveManager == nil {
		return nil, ErrNoSave
	}
	return gs.saveManager.LoadState()
}

// initializeFresh 初始化全新状态
func (gs *GameState) initializeFresh() {
	gs.player = NewPlayerStats()
	gs.gameTime = 0
	gs.garden = entities.NewGardenGrid(gs.cfg.GridWidth, gs.cfg.GridHeight, gs.cfg.CellSize)
	log.Printf("[GameState] Initialized %dx%d garden grid", gs.garden.Width, gs.garden.Height)
}

// restoreFromSnapshot 从已校验的快照恢复状态
// 花园恢复失败时降级为全新花园，玩家数据保留
func (gs *GameState) restoreFromSnapshot(snap *SaveSnapshot) {
	gs.gameTime = snap.GameTime
	gs.player = snap.Player
	if gs.player.Achievements == nil {
		gs.player.Achievements = []string{}
	}

	garden, err := entities.GardenGridFromSnapshot(snap.Garden)
	if err != nil {
		log.Printf("[GameState] Garden restore failed, creating fresh grid: %v", err)
		garden = entities.NewGardenGrid(gs.cfg.GridWidth, gs.cfg.GridHeight, gs.cfg.CellSize)
	}
	gs.garden = garden
}

// Update 推进游戏状态
//
// 更新模拟时间和游玩时长，委托花园更新所有格子，
// 并在自动保存间隔到期时触发保存。
//
// 参数：
//   - deltaMillis: 本次 tick 的经过时长（毫秒）
func (gs *GameState) Update(deltaMillis float64) {
	if deltaMillis < 0 {
		deltaMillis = 0
	}

	gs.gameTime += deltaMillis
	gs.player.TotalPlayTime += deltaMillis

	now := gs.clock.NowMillis()
	gs.garden.Update(deltaMillis, now)

	if now-gs.lastAutoSave >= gs.cfg.AutoSaveInterval {
		gs.Save()
		gs.lastAutoSave = now
	}
}

// PlantSeed 在指定位置种植
//
// 坐标越界、格子被占用或类型未知时返回 false，不做任何修改。
// 成功后触发保存。
func (gs *GameState) PlantSeed(x, y int, plantType types.PlantType) bool {
	if !gs.garden.IsValidCoordinate(x, y) {
		log.Printf("[GameState] PlantSeed rejected: invalid coordinate (%d, %d)", x, y)
		return false
	}

	cell := gs.garden.GetCell(x, y)
	if cell.Plant != nil {
		log.Printf("[GameState] PlantSeed rejected: cell (%d, %d) occupied", x, y)
		return false
	}

	now := gs.clock.NowMillis()
	plant, err := entities.NewPlant(plantType, now)
	if err != nil {
		log.Printf("[GameState] PlantSeed rejected: %v", err)
		return false
	}

	if !gs.garden.PlantAt(x, y, plant) {
		return false
	}

	log.Printf("[GameState] Planted %s at (%d, %d), id=%s", plantType, x, y, plant.ID)
	gs.awardAchievement(AchievementFirstPlant)
	gs.Save()
	return true
}

// WaterPlant 给指定位置浇水
//
// 仅坐标越界时失败；空格子浇水是正常的湿度变化。成功后触发保存。
func (gs *GameState) WaterPlant(x, y int) bool {
	now := gs.clock.NowMillis()
	if !gs.garden.WaterAt(x, y, now) {
		log.Printf("[GameState] WaterPlant rejected: invalid coordinate (%d, %d)", x, y)
		return false
	}

	if cell := gs.garden.GetCell(x, y); cell.Plant != nil {
		log.Printf("[GameState] Watered plant %s at (%d, %d)", cell.Plant.ID, x, y)
	} else {
		log.Printf("[GameState] Watered soil at (%d, %d)", x, y)
	}

	gs.Save()
	return true
}

// HarvestPlant 收获指定位置的植物
//
// 坐标越界或植物不可收获时返回 nil。成功时把奖励计入玩家积分、
// 递增收获计数并触发保存；植物所有权随结果移交给调用方。
func (gs *GameState) HarvestPlant(x, y int) *HarvestResult {
	if !gs.garden.IsValidCoordinate(x, y) {
		log.Printf("[GameState] HarvestPlant rejected: invalid coordinate (%d, %d)", x, y)
		return nil
	}

	plant := gs.garden.HarvestAt(x, y)
	if plant == nil {
		return nil
	}

	reward := plant.HarvestReward()
	gs.player.Score += reward
	gs.player.PlantsHarvested++

	log.Printf("[GameState] Harvested %s at (%d, %d), reward=%d, score=%d",
		plant.ID, x, y, reward, gs.player.Score)

	gs.awardAchievement(AchievementFirstHarvest)
	if gs.player.PlantsHarvested >= 10 {
		gs.awardAchievement(AchievementTenHarvests)
	}
	if gs.player.Score >= 100 {
		gs.awardAchievement(AchievementScore100)
	}
	if gs.player.Score >= 500 {
		gs.awardAchievement(AchievementScore500)
	}

	gs.Save()
	return &HarvestResult{Reward: reward, Plant: plant}
}

// awardAchievement 授予成就（幂等，只增不减）
func (gs *GameState) awardAchievement(id string) {
	if gs.player.HasAchievement(id) {
		return
	}
	gs.player.Achievements = append(gs.player.Achievements, id)
	log.Printf("[GameState] Achievement unlocked: %s", id)
}

// GetCell 获取指定位置的格子，越界返回 nil
func (gs *GameState) GetCell(x, y int) *entities.GardenCell {
	return gs.garden.GetCell(x, y)
}

// Garden 返回花园网格（渲染和输入层只读使用）
func (gs *GameState) Garden() *entities.GardenGrid {
	return gs.garden
}

// Player 返回玩家数据（只读使用）
func (gs *GameState) Player() *PlayerStats {
	return gs.player
}

// GameTime 返回累计模拟时长（毫秒）
func (gs *GameState) GameTime() float64 {
	return gs.gameTime
}

// GetGameStats 返回游戏统计信息
func (gs *GameState) GetGameStats() GameStats {
	return GameStats{
		Score:           gs.player.Score,
		PlantsHarvested: gs.player.PlantsHarvested,
		TotalPlayTime:   gs.player.TotalPlayTime,
		GameTime:        gs.gameTime,
		PlantsInGarden:  gs.garden.CountPlants(),
		AverageHealth:   gs.garden.AverageHealth(),
	}
}

// Snapshot 导出当前完整状态的快照
func (gs *GameState) Snapshot() *SaveSnapshot {
	return &SaveSnapshot{
		GameTime:     gs.gameTime,
		LastSaveTime: gs.clock.NowMillis(),
		Player:       gs.player,
		Garden:       gs.garden.Snapshot(),
		Version:      SaveVersion,
	}
}

// Save 保存当前状态
//
// 保存失败只记录日志，绝不向命令边界传播——持久化故障不能阻塞游戏循环。
func (gs *GameState) Save() {
	if gs.saveManager == nil {
		return
	}
	if err := gs.saveManager.SaveState(gs.Snapshot()); err != nil {
		log.Printf("[GameState] Save failed: %v", err)
	}
	if err := gs.saveManager.SaveConfig(gs.cfg); err != nil {
		log.Printf("[GameState] Config save failed: %v", err)
	}
}

// Reset 重置游戏状态
//
// 清空玩家数据和模拟时间，重建花园网格，并立即保存。
func (gs *GameState) Reset() {
	log.Printf("[GameState] Resetting game state")
	gs.initializeFresh()
	gs.lastAutoSave = gs.clock.NowMillis()
	gs.Save()
}
