// Package entities 实现花园模拟的核心实体
//
// 包含植物（Plant）、土壤格子（GardenCell）和花园网格（GardenGrid）。
// 所有实体的时间字段均为 Unix 毫秒时间戳，由调用方通过参数注入当前时间，
// 实体内部不直接读取系统时钟，保证离线补偿和测试的确定性。
package entities

import (
	"errors"
	"fmt"

	"github.com/decker502/growgarden/pkg/config"
	"github.com/decker502/growgarden/pkg/types"
	"github.com/google/uuid"
)

// ErrUnknownPlantType 创建植物时类型未登记
var ErrUnknownPlantType = errors.New("unknown plant type")

// 植物状态机常量
// 速率单位均为每毫秒，与存档时间戳的毫秒单位一致
const (
	// baseWaterConsumptionRate 基础水分消耗率（每毫秒）
	baseWaterConsumptionRate = 0.00002

	// droughtThreshold 干旱阈值（毫秒），超过该时长未浇水产生额外健康惩罚
	droughtThreshold = 10000

	// waterReminderThreshold 缺水提醒阈值（毫秒），用于 NeedsWater 判定
	waterReminderThreshold = 8000

	// plantWaterAmount 单次浇水补充的水分量
	plantWaterAmount = 0.4

	// wateringHealthBonus 浇水带来的即时健康恢复
	wateringHealthBonus = 2.0

	// harvestMinHealth 可收获的最低健康值
	harvestMinHealth = 20.0
)

// Plant 植物实体
//
// 成长/健康/水分三个状态维度：
//   - Stage 单调递增，到 StageReady 为止
//   - Health 在 [0, MaxHealth] 区间内，濒死时成长冻结
//   - WaterLevel 在 [0, 1] 区间内，健康越差消耗越快（负反馈）
type Plant struct {
	ID    string
	Type  types.PlantType
	Stage types.GrowthStage

	Health     float64
	WaterLevel float64

	// 时间戳（Unix 毫秒）
	PlantedTime    int64 // 种植时间
	LastWatered    int64 // 上次浇水时间
	LastUpdated    int64 // 上次更新时间
	StageStartTime int64 // 当前阶段开始时间

	// TotalGrowthTime 累计成长耗时（毫秒），仅用于统计展示
	TotalGrowthTime int64

	cfg *config.PlantConfig
}

// NewPlant 创建指定类型的植物
//
// 参数：
//   - plantType: 植物类型
//   - now: 当前时间（Unix 毫秒）
//
// 返回：
//   - *Plant: 新植物，初始为种子阶段、满水分、满健康
//   - error: 类型未登记时返回 ErrUnknownPlantType
func NewPlant(plantType types.PlantType, now int64) (*Plant, error) {
	cfg, ok := config.GetPlantConfig(plantType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlantType, plantType)
	}

	return &Plant{
		ID:             "plant_" + uuid.NewString(),
		Type:           plantType,
		Stage:          types.StageSeed,
		Health:         cfg.MaxHealth,
		WaterLevel:     1.0,
		PlantedTime:    now,
		LastWatered:    now,
		LastUpdated:    now,
		StageStartTime: now,
		cfg:            cfg,
	}, nil
}

// Config 返回植物的类型配置
func (p *Plant) Config() *config.PlantConfig {
	return p.cfg
}

// Update 推进植物状态到指定时刻
//
// 以 now 与 LastUpdated 的差值为本次经过时间，依次更新水分、健康和成长。
// 同一段总时长无论一次大步长还是多次小步长调用，水分消耗结果一致；
// 健康变化按调用次数近似积分（每次调用记一档增减），两种路径不保证收敛，
// 离线补偿路径依赖该行为，修改前需确认存档兼容性。
//
// 参数：
//   - now: 当前时间（Unix 毫秒），早于 LastUpdated 时视为 0 时长
func (p *Plant) Update(now int64) {
	dt := now - p.LastUpdated
	if dt < 0 {
		dt = 0
	}

	p.updateWaterLevel(float64(dt))
	p.updateHealth(now)
	p.updateGrowthStage(now)

	p.LastUpdated = now
}

// updateWaterLevel 按经过时间消耗水分
// 健康状态越差消耗越快（濒死 2.0 倍，优秀 0.8 倍）
func (p *Plant) updateWaterLevel(dtMillis float64) {
	rate := baseWaterConsumptionRate * p.waterConsumptionMultiplier()
	p.WaterLevel = clamp01(p.WaterLevel - rate*dtMillis)
}

// updateHealth 根据水分和浇水间隔调整健康值
// 每次调用记一档增减（不随步长缩放），最后截断到 [0, MaxHealth]
func (p *Plant) updateHealth(now int64) {
	var delta float64
	switch {
	case p.WaterLevel < 0.2:
		delta = -0.1
	case p.WaterLevel < 0.4:
		delta = -0.05
	case p.WaterLevel > 0.7:
		delta = 0.02
	}

	// 长时间不浇水的额外惩罚
	if now-p.LastWatered > droughtThreshold {
		delta -= 0.05
	}

	p.Health = clamp(p.Health+delta, 0, p.cfg.MaxHealth)
}

// updateGrowthStage 检查是否满足阶段推进条件
// 每次调用最多推进一个阶段；濒死状态冻结成长
func (p *Plant) updateGrowthStage(now int64) {
	if p.Stage >= types.StageReady {
		return
	}
	if p.HealthStatus() == types.HealthDying {
		return
	}

	elapsed := now - p.StageStartTime
	required := float64(p.cfg.GrowthTimes[p.Stage]) / p.growthSpeedMultiplier()

	if float64(elapsed) >= required {
		p.Stage++
		p.TotalGrowthTime += elapsed
		p.StageStartTime = now
	}
}

// Water 浇水
//
// 补充水分（截断到 1.0），刷新浇水时间，并带来少量即时健康恢复。
//
// 参数：
//   - amount: 水分补充量，<= 0 时使用默认量
//   - now: 当前时间（Unix 毫秒）
func (p *Plant) Water(amount float64, now int64) {
	if amount <= 0 {
		amount = plantWaterAmount
	}
	p.WaterLevel = clamp01(p.WaterLevel + amount)
	p.LastWatered = now
	p.Health = clamp(p.Health+wateringHealthBonus, 0, p.cfg.MaxHealth)
}

// NeedsWater 判断是否需要浇水
// 水分低于类型阈值，或距上次浇水超过提醒阈值
func (p *Plant) NeedsWater(now int64) bool {
	return p.WaterLevel < p.cfg.WaterNeed || now-p.LastWatered > waterReminderThreshold
}

// CanHarvest 判断是否可以收获
// 需要处于可收获阶段且健康值高于下限
func (p *Plant) CanHarvest() bool {
	return p.Stage == types.StageReady && p.Health > harvestMinHealth
}

// HarvestReward 计算收获奖励
// 奖励随健康比例线性衰减并向下取整；不可收获时为 0
func (p *Plant) HarvestReward() int {
	if !p.CanHarvest() {
		return 0
	}
	return int(float64(p.cfg.HarvestReward) * (p.Health / p.cfg.MaxHealth))
}

// HealthStatus 返回当前健康状态分档
func (p *Plant) HealthStatus() types.HealthStatus {
	percent := p.Health / p.cfg.MaxHealth
	switch {
	case percent >= 0.9:
		return types.HealthExcellent
	case percent >= 0.7:
		return types.HealthGood
	case percent >= 0.5:
		return types.HealthFair
	case percent >= 0.2:
		return types.HealthPoor
	default:
		return types.HealthDying
	}
}

// waterConsumptionMultiplier 健康状态对水分消耗的影响倍数
func (p *Plant) waterConsumptionMultiplier() float64 {
	switch p.HealthStatus() {
	case types.HealthExcellent:
		return 0.8
	case types.HealthGood:
		return 1.0
	case types.HealthFair:
		return 1.2
	case types.HealthPoor:
		return 1.5
	case types.HealthDying:
		return 2.0
	default:
		return 1.0
	}
}

// growthSpeedMultiplier 健康状态对成长速度的影响倍数
func (p *Plant) growthSpeedMultiplier() float64 {
	switch p.HealthStatus() {
	case types.HealthExcellent:
		return 1.2
	case types.HealthGood:
		return 1.0
	case types.HealthFair:
		return 0.8
	case types.HealthPoor:
		return 0.5
	case types.HealthDying:
		return 0.1
	default:
		return 1.0
	}
}

// GrowthProgress 返回当前阶段的成长进度 [0, 1]
// 已完全成熟时恒为 1，供渲染层绘制进度
func (p *Plant) GrowthProgress(now int64) float64 {
	if p.Stage >= types.StageReady {
		return 1.0
	}

	elapsed := float64(now - p.StageStartTime)
	required := float64(p.cfg.GrowthTimes[p.Stage]) / p.growthSpeedMultiplier()
	if required <= 0 {
		return 1.0
	}
	return clamp01(elapsed / required)
}

// DisplayName 返回植物的中文显示名称，如 "花朵(发芽)"
func (p *Plant) DisplayName() string {
	return p.cfg.Name + "(" + p.Stage.DisplayName() + ")"
}

// PlantSnapshot 植物的存档快照
// 字段名与 1.0.0 版本存档格式保持一致
type PlantSnapshot struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	Stage           int     `json:"stage"`
	PlantedTime     int64   `json:"plantedTime"`
	LastWatered     int64   `json:"lastWatered"`
	LastUpdated     int64   `json:"lastUpdated"`
	Health          float64 `json:"health"`
	WaterLevel      float64 `json:"waterLevel"`
	StageStartTime  int64   `json:"stageStartTime"`
	TotalGrowthTime int64   `json:"totalGrowthTime"`
}

// Snapshot 导出植物快照
func (p *Plant) Snapshot() *PlantSnapshot {
	return &PlantSnapshot{
		ID:              p.ID,
		Type:            p.Type.String(),
		Stage:           int(p.Stage),
		PlantedTime:     p.PlantedTime,
		LastWatered:     p.LastWatered,
		LastUpdated:     p.LastUpdated,
		Health:          p.Health,
		WaterLevel:      p.WaterLevel,
		StageStartTime:  p.StageStartTime,
		TotalGrowthTime: p.TotalGrowthTime,
	}
}

// PlantFromSnapshot 从快照恢复植物
//
// 数值字段恢复时重新截断到合法区间，阶段越界时夹到 [Seed, Ready]。
//
// 返回：
//   - *Plant: 恢复的植物
//   - error: 类型无法识别时返回 ErrUnknownPlantType
func PlantFromSnapshot(snap *PlantSnapshot) (*Plant, error) {
	plantType := types.ParsePlantType(snap.Type)
	cfg, ok := config.GetPlantConfig(plantType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlantType, snap.Type)
	}

	stage := types.GrowthStage(snap.Stage)
	if stage < types.StageSeed {
		stage = types.StageSeed
	}
	if stage > types.StageReady {
		stage = types.StageReady
	}

	id := snap.ID
	if id == "" {
		id = "plant_" + uuid.NewString()
	}

	return &Plant{
		ID:              id,
		Type:            plantType,
		Stage:           stage,
		Health:          clamp(snap.Health, 0, cfg.MaxHealth),
		WaterLevel:      clamp01(snap.WaterLevel),
		PlantedTime:     snap.PlantedTime,
		LastWatered:     snap.LastWatered,
		LastUpdated:     snap.LastUpdated,
		StageStartTime:  snap.StageStartTime,
		TotalGrowthTime: snap.TotalGrowthTime,
		cfg:             cfg,
	}, nil
}

// clamp 将 v 截断到 [min, max]
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clamp01 将 v 截断到 [0, 1]
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
