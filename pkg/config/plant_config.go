package config

import "github.com/decker502/growgarden/pkg/types"

// PlantConfig 植物类型配置
// 定义不同植物类型的成长时间和特性，创建后不可变
type PlantConfig struct {
	Name string `yaml:"name"` // 中文显示名称

	// GrowthTimes 四个阶段的成长时间（毫秒）
	// 依次为 种子→发芽、发芽→幼苗、幼苗→成熟、成熟→可收获
	GrowthTimes [4]int64 `yaml:"growthTimes"`

	// WaterNeed 需水阈值，水分低于此值即需要浇水
	WaterNeed float64 `yaml:"waterNeed"`

	// HarvestReward 基础收获奖励（积分）
	HarvestReward int `yaml:"harvestReward"`

	// MaxHealth 最大健康值
	MaxHealth float64 `yaml:"maxHealth"`
}

// plantConfigs 植物配置表（使用 types.PlantType 作为键）
// 新增植物类型时在此处补充条目，并在 types 包中登记枚举值
var plantConfigs = map[types.PlantType]*PlantConfig{
	types.PlantFlower: {
		Name:          "花朵",
		GrowthTimes:   [4]int64{2000, 3000, 4000, 5000},
		WaterNeed:     0.4,
		HarvestReward: 10,
		MaxHealth:     100,
	},
	types.PlantVegetable: {
		Name:          "蔬菜",
		GrowthTimes:   [4]int64{1500, 2500, 3500, 4500},
		WaterNeed:     0.6,
		HarvestReward: 15,
		MaxHealth:     100,
	},
	types.PlantTree: {
		Name:          "树木",
		GrowthTimes:   [4]int64{4000, 6000, 8000, 10000},
		WaterNeed:     0.3,
		HarvestReward: 25,
		MaxHealth:     100,
	},
}

// GetPlantConfig 按类型查询植物配置
//
// 返回：
//   - *PlantConfig: 配置条目（调用方不得修改）
//   - bool: 类型未登记时为 false
func GetPlantConfig(t types.PlantType) (*PlantConfig, bool) {
	cfg, ok := plantConfigs[t]
	return cfg, ok
}

// AllPlantTypes 返回所有已登记的植物类型
// 顺序固定（按枚举值递增），用于 UI 选择器和测试遍历
func AllPlantTypes() []types.PlantType {
	return []types.PlantType{types.PlantFlower, types.PlantVegetable, types.PlantTree}
}
