package entities

import (
	"math"
	"testing"

	"github.com/decker502/growgarden/pkg/types"
)

func TestNewGardenCell(t *testing.T) {
	cell := NewGardenCell(2, 3)

	if cell.X != 2 || cell.Y != 3 {
		t.Errorf("coordinates = (%d, %d), want (2, 3)", cell.X, cell.Y)
	}
	if !cell.IsEmpty() {
		t.Error("new cell should be empty")
	}
	if cell.SoilMoisture != 0.5 {
		t.Errorf("SoilMoisture = %v, want 0.5", cell.SoilMoisture)
	}
}

func TestGardenCellPlantSeed(t *testing.T) {
	cell := NewGardenCell(0, 0)
	plant := mustNewPlant(t, types.PlantFlower, 0)

	if !cell.PlantSeed(plant) {
		t.Fatal("planting in empty cell should succeed")
	}
	if cell.IsEmpty() {
		t.Error("cell should not be empty after planting")
	}

	// 已占用的格子拒绝种植
	other := mustNewPlant(t, types.PlantTree, 0)
	if cell.PlantSeed(other) {
		t.Error("planting in occupied cell should fail")
	}
	if cell.Plant != plant {
		t.Error("occupied cell must keep its original plant")
	}

	// nil 植物被拒绝
	empty := NewGardenCell(1, 1)
	if empty.PlantSeed(nil) {
		t.Error("planting nil should fail")
	}
}

func TestGardenCellWater(t *testing.T) {
	cell := NewGardenCell(0, 0)

	cell.Water(0, 1000)

	// 默认补水量 0.3
	if math.Abs(cell.SoilMoisture-0.8) > 1e-9 {
		t.Errorf("SoilMoisture = %v, want 0.8", cell.SoilMoisture)
	}
	if cell.LastWatered != 1000 {
		t.Errorf("LastWatered = %d, want 1000", cell.LastWatered)
	}

	// 湿度上限为 1.0
	cell.Water(0, 2000)
	if cell.SoilMoisture != 1.0 {
		t.Errorf("SoilMoisture = %v, want 1.0 (clamped)", cell.SoilMoisture)
	}
}

func TestGardenCellWaterForwardsToPlant(t *testing.T) {
	cell := NewGardenCell(0, 0)
	plant := mustNewPlant(t, types.PlantFlower, 0)
	cell.PlantSeed(plant)
	plant.WaterLevel = 0.2

	cell.Water(0, 5000)

	// 植物得到 0.4 补水并刷新浇水时间
	if math.Abs(plant.WaterLevel-0.6) > 1e-9 {
		t.Errorf("plant WaterLevel = %v, want 0.6", plant.WaterLevel)
	}
	if plant.LastWatered != 5000 {
		t.Errorf("plant LastWatered = %d, want 5000", plant.LastWatered)
	}
}

func TestGardenCellHarvest(t *testing.T) {
	cell := NewGardenCell(0, 0)
	plant := mustNewPlant(t, types.PlantFlower, 0)
	cell.PlantSeed(plant)

	// 未成熟时收获失败，格子不变
	if got := cell.Harvest(); got != nil {
		t.Error("harvesting immature plant should return nil")
	}
	if cell.Plant != plant {
		t.Error("failed harvest must not modify the cell")
	}

	// 成熟后收获成功，格子清空、土壤翻动
	plant.Stage = types.StageReady
	got := cell.Harvest()
	if got != plant {
		t.Fatal("harvest should return the plant")
	}
	if !cell.IsEmpty() {
		t.Error("cell should be empty after harvest")
	}
	if cell.SoilMoisture != 0.3 {
		t.Errorf("SoilMoisture = %v, want 0.3 after harvest", cell.SoilMoisture)
	}

	// 空格子收获失败
	if cell.Harvest() != nil {
		t.Error("harvesting empty cell should return nil")
	}
}

func TestGardenCellEvaporation(t *testing.T) {
	cell := NewGardenCell(0, 0)

	// 蒸发率 0.00001/ms
	cell.Update(10000, 10000)

	if math.Abs(cell.SoilMoisture-0.4) > 1e-9 {
		t.Errorf("SoilMoisture = %v, want 0.4", cell.SoilMoisture)
	}

	// 湿度下限为 0
	cell.Update(1e9, 1e9)
	if cell.SoilMoisture != 0 {
		t.Errorf("SoilMoisture = %v, want 0 (clamped)", cell.SoilMoisture)
	}
}

func TestGardenCellUpdateAdvancesPlant(t *testing.T) {
	cell := NewGardenCell(0, 0)
	plant := mustNewPlant(t, types.PlantFlower, 0)
	cell.PlantSeed(plant)

	cell.Update(5000, 5000)

	if plant.LastUpdated != 5000 {
		t.Errorf("plant LastUpdated = %d, want 5000", plant.LastUpdated)
	}
	if plant.Stage != types.StageSprout {
		t.Errorf("plant Stage = %v, want StageSprout", plant.Stage)
	}
}

func TestGardenCellSoilState(t *testing.T) {
	tests := []struct {
		name     string
		moisture float64
		want     string
	}{
		{"湿润", 0.8, "wet"},
		{"适中", 0.5, "moist"},
		{"边界适中", 0.31, "moist"},
		{"干燥", 0.3, "dry"},
		{"极干", 0.0, "dry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := NewGardenCell(0, 0)
			cell.SoilMoisture = tt.moisture
			if got := cell.SoilState(); got != tt.want {
				t.Errorf("SoilState() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGardenCellNeedsWater(t *testing.T) {
	cell := NewGardenCell(0, 0)

	// 初始湿度 0.5 不需要浇水
	if cell.NeedsWater(0) {
		t.Error("fresh cell should not need water")
	}

	// 土壤过干
	cell.SoilMoisture = 0.2
	if !cell.NeedsWater(0) {
		t.Error("dry cell should need water")
	}

	// 土壤正常但植物缺水
	cell.SoilMoisture = 0.5
	plant := mustNewPlant(t, types.PlantFlower, 0)
	plant.WaterLevel = 0.1
	cell.PlantSeed(plant)
	if !cell.NeedsWater(0) {
		t.Error("cell with thirsty plant should need water")
	}
}

func TestGardenCellSnapshotRoundTrip(t *testing.T) {
	cell := NewGardenCell(1, 2)
	plant := mustNewPlant(t, types.PlantVegetable, 1000)
	cell.PlantSeed(plant)
	cell.Water(0, 2000)

	restored := NewGardenCell(1, 2)
	if err := restored.restoreFromSnapshot(cell.Snapshot()); err != nil {
		t.Fatalf("restoreFromSnapshot failed: %v", err)
	}

	if restored.SoilMoisture != cell.SoilMoisture {
		t.Errorf("SoilMoisture = %v, want %v", restored.SoilMoisture, cell.SoilMoisture)
	}
	if restored.LastWatered != cell.LastWatered {
		t.Errorf("LastWatered = %d, want %d", restored.LastWatered, cell.LastWatered)
	}
	if restored.Plant == nil || restored.Plant.ID != plant.ID {
		t.Error("plant should survive the snapshot round trip")
	}
}

func TestGardenCellRestoreBadPlant(t *testing.T) {
	cell := NewGardenCell(0, 0)
	snap := &CellSnapshot{
		SoilMoisture: 0.6,
		Plant:        &PlantSnapshot{Type: "cactus"},
	}

	// 植物无法恢复时降级为空格子，土壤数据保留
	if err := cell.restoreFromSnapshot(snap); err == nil {
		t.Error("expected error for unrecoverable plant")
	}
	if cell.Plant != nil {
		t.Error("cell should be empty after failed plant restore")
	}
	if cell.SoilMoisture != 0.6 {
		t.Errorf("SoilMoisture = %v, want 0.6", cell.SoilMoisture)
	}
}
