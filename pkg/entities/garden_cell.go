package entities

// 土壤常量
const (
	// initialSoilMoisture 新格子的初始土壤湿度
	initialSoilMoisture = 0.5

	// harvestedSoilMoisture 收获后翻动土壤的湿度
	harvestedSoilMoisture = 0.3

	// soilEvaporationRate 土壤湿度自然蒸发率（每毫秒）
	soilEvaporationRate = 0.00001

	// cellWaterAmount 单次浇水对土壤湿度的补充量
	cellWaterAmount = 0.3

	// drySoilThreshold 土壤缺水阈值，湿度低于此值需要浇水
	drySoilThreshold = 0.3
)

// GardenCell 花园中的单个土壤格子
//
// 格子在网格构建时一次性创建，生命周期内只有内容变化。
// 格子独占其上的植物：种植时取得所有权，收获时移交给调用方。
type GardenCell struct {
	X int // 网格坐标 x
	Y int // 网格坐标 y

	Plant *Plant // 种植的植物，nil 表示空格子

	SoilMoisture float64 // 土壤湿度 [0, 1]
	LastWatered  int64   // 上次浇水时间（Unix 毫秒）
}

// NewGardenCell 创建一个空格子
func NewGardenCell(x, y int) *GardenCell {
	return &GardenCell{
		X:            x,
		Y:            y,
		SoilMoisture: initialSoilMoisture,
	}
}

// IsEmpty 判断格子是否为空
func (c *GardenCell) IsEmpty() bool {
	return c.Plant == nil
}

// CanPlant 判断格子是否可以种植
func (c *GardenCell) CanPlant() bool {
	return c.IsEmpty()
}

// PlantSeed 在格子中种植植物
//
// 格子已被占用时返回 false，不做任何修改。
func (c *GardenCell) PlantSeed(plant *Plant) bool {
	if !c.CanPlant() || plant == nil {
		return false
	}
	c.Plant = plant
	return true
}

// Water 浇水
//
// 提升土壤湿度（截断到 1.0）并刷新浇水时间；有植物时转发给植物。
// 给空土壤浇水是正常的状态变化，不是错误。
//
// 参数：
//   - amount: 湿度补充量，<= 0 时使用默认量
//   - now: 当前时间（Unix 毫秒）
func (c *GardenCell) Water(amount float64, now int64) {
	if amount <= 0 {
		amount = cellWaterAmount
	}
	c.SoilMoisture = clamp01(c.SoilMoisture + amount)
	c.LastWatered = now

	if c.Plant != nil {
		c.Plant.Water(plantWaterAmount, now)
	}
}

// Harvest 收获格子中的植物
//
// 仅当植物存在且可收获时生效：返回植物并清空格子，
// 收获后土壤湿度降到翻土水平。其余情况返回 nil 且格子不变。
func (c *GardenCell) Harvest() *Plant {
	if c.Plant == nil || !c.Plant.CanHarvest() {
		return nil
	}

	harvested := c.Plant
	c.Plant = nil
	c.SoilMoisture = harvestedSoilMoisture
	return harvested
}

// Update 推进格子状态
//
// 土壤湿度按帧时长蒸发（截断到 0），随后委托植物更新。
// 注意两个时间基准：蒸发使用调用方传入的 deltaMillis，
// 植物内部使用自身 LastUpdated 与 now 的差值。
//
// 参数：
//   - deltaMillis: 本次经过时长（毫秒）
//   - now: 当前时间（Unix 毫秒）
func (c *GardenCell) Update(deltaMillis float64, now int64) {
	c.SoilMoisture = clamp01(c.SoilMoisture - soilEvaporationRate*deltaMillis)

	if c.Plant != nil {
		c.Plant.Update(now)
	}
}

// SoilState 返回土壤状态标识：wet / moist / dry
// 供渲染层选择土壤贴图
func (c *GardenCell) SoilState() string {
	if c.SoilMoisture > 0.7 {
		return "wet"
	}
	if c.SoilMoisture > drySoilThreshold {
		return "moist"
	}
	return "dry"
}

// NeedsWater 判断格子是否需要浇水
// 土壤过干，或其上的植物需要浇水
func (c *GardenCell) NeedsWater(now int64) bool {
	if c.SoilMoisture < drySoilThreshold {
		return true
	}
	return c.Plant != nil && c.Plant.NeedsWater(now)
}

// CellSnapshot 格子的存档快照
type CellSnapshot struct {
	SoilMoisture float64        `json:"soilMoisture"`
	LastWatered  int64          `json:"lastWatered"`
	IsEmpty      bool           `json:"isEmpty"`
	Plant        *PlantSnapshot `json:"plant"`
}

// Snapshot 导出格子快照
func (c *GardenCell) Snapshot() *CellSnapshot {
	snap := &CellSnapshot{
		SoilMoisture: c.SoilMoisture,
		LastWatered:  c.LastWatered,
		IsEmpty:      c.IsEmpty(),
	}
	if c.Plant != nil {
		snap.Plant = c.Plant.Snapshot()
	}
	return snap
}

// restoreFromSnapshot 从快照恢复格子内容
//
// 植物数据无法恢复（类型未知等）时降级为空格子，不中断整体加载。
//
// 返回：
//   - error: 植物恢复失败时返回错误（格子已置空）
func (c *GardenCell) restoreFromSnapshot(snap *CellSnapshot) error {
	c.SoilMoisture = clamp01(snap.SoilMoisture)
	c.LastWatered = snap.LastWatered
	c.Plant = nil

	if snap.Plant == nil {
		return nil
	}

	plant, err := PlantFromSnapshot(snap.Plant)
	if err != nil {
		return err
	}
	c.Plant = plant
	return nil
}
