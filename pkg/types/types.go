// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// PlantType 定义植物的类型
type PlantType int

const (
	// PlantUnknown 未知植物类型
	PlantUnknown PlantType = iota
	// PlantFlower 花朵
	PlantFlower
	// PlantVegetable 蔬菜
	PlantVegetable
	// PlantTree 树木
	PlantTree
)

// String 返回植物类型的字符串表示
// 与存档格式中的类型标识一致（小写）
func (p PlantType) String() string {
	switch p {
	case PlantFlower:
		return "flower"
	case PlantVegetable:
		return "vegetable"
	case PlantTree:
		return "tree"
	default:
		return "unknown"
	}
}

// ParsePlantType 从字符串解析植物类型
// 无法识别的字符串返回 PlantUnknown
func ParsePlantType(s string) PlantType {
	switch s {
	case "flower":
		return PlantFlower
	case "vegetable":
		return PlantVegetable
	case "tree":
		return PlantTree
	default:
		return PlantUnknown
	}
}

// DisplayName 返回植物类型的中文显示名称
func (p PlantType) DisplayName() string {
	switch p {
	case PlantFlower:
		return "花朵"
	case PlantVegetable:
		return "蔬菜"
	case PlantTree:
		return "树木"
	default:
		return "未知"
	}
}

// GrowthStage 定义植物的成长阶段
// 阶段只会递增，到达 StageReady 后不再自动推进
type GrowthStage int

const (
	// StageSeed 种子
	StageSeed GrowthStage = iota
	// StageSprout 发芽
	StageSprout
	// StageYoung 幼苗
	StageYoung
	// StageMature 成熟
	StageMature
	// StageReady 可收获（终态）
	StageReady
)

// String 返回成长阶段的字符串表示
func (s GrowthStage) String() string {
	switch s {
	case StageSeed:
		return "Seed"
	case StageSprout:
		return "Sprout"
	case StageYoung:
		return "Young"
	case StageMature:
		return "Mature"
	case StageReady:
		return "Ready"
	default:
		return "Invalid"
	}
}

// DisplayName 返回成长阶段的中文名称
func (s GrowthStage) DisplayName() string {
	switch s {
	case StageSeed:
		return "种子"
	case StageSprout:
		return "发芽"
	case StageYoung:
		return "幼苗"
	case StageMature:
		return "成熟"
	case StageReady:
		return "可收获"
	default:
		return "未知"
	}
}

// HealthStatus 植物健康状态分档
// 由 health/maxHealth 比值推导，影响水分消耗和成长速度
type HealthStatus int

const (
	// HealthExcellent 优秀 (>= 90%)
	HealthExcellent HealthStatus = iota
	// HealthGood 良好 (>= 70%)
	HealthGood
	// HealthFair 一般 (>= 50%)
	HealthFair
	// HealthPoor 较差 (>= 20%)
	HealthPoor
	// HealthDying 濒死 (< 20%)，成长冻结
	HealthDying
)

// String 返回健康状态的字符串表示
func (h HealthStatus) String() string {
	switch h {
	case HealthExcellent:
		return "excellent"
	case HealthGood:
		return "good"
	case HealthFair:
		return "fair"
	case HealthPoor:
		return "poor"
	case HealthDying:
		return "dying"
	default:
		return "unknown"
	}
}

// Tool 定义玩家当前选择的操作工具
type Tool int

const (
	// ToolPlant 种植工具
	ToolPlant Tool = iota
	// ToolWater 浇水工具
	ToolWater
	// ToolHarvest 收获工具
	ToolHarvest
)

// String 返回工具的字符串表示
func (t Tool) String() string {
	switch t {
	case ToolPlant:
		return "plant"
	case ToolWater:
		return "water"
	case ToolHarvest:
		return "harvest"
	default:
		return "unknown"
	}
}

// DisplayName 返回工具的中文名称
func (t Tool) DisplayName() string {
	switch t {
	case ToolPlant:
		return "种植"
	case ToolWater:
		return "浇水"
	case ToolHarvest:
		return "收获"
	default:
		return "未知"
	}
}
