package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/decker502/growgarden/pkg/config"
	"github.com/decker502/growgarden/pkg/entities"
	"github.com/decker502/growgarden/pkg/types"
	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 创建用于测试的 gdata Manager
func createTestGdataManager(t *testing.T, testName string) *gdata.Manager {
	appName := fmt.Sprintf("growgarden_test_%s_%d", testName, time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil
	}

	// 注册清理函数，测试结束后删除测试目录
	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			testDir := filepath.Join(homeDir, ".local", "share", appName)
			os.RemoveAll(testDir)
		}
	})

	return manager
}

// newTestSnapshot 构造一个通过校验的最小快照
func newTestSnapshot(lastSave int64) *SaveSnapshot {
	garden := entities.NewGardenGrid(8, 8, 64)
	return &SaveSnapshot{
		GameTime:     1234,
		LastSaveTime: lastSave,
		Player:       &PlayerStats{Score: 42, PlantsHarvested: 3, Achievements: []string{}},
		Garden:       garden.Snapshot(),
		Version:      SaveVersion,
	}
}

func TestSaveManagerRoundTrip(t *testing.T) {
	manager := createTestGdataManager(t, "roundtrip")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	sm := NewSaveManagerWithGdata(manager)

	if err := sm.SaveState(newTestSnapshot(9000)); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	snap, err := sm.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if snap.Player.Score != 42 || snap.Player.PlantsHarvested != 3 {
		t.Errorf("player = %+v, want score 42 / harvested 3", snap.Player)
	}
	if snap.GameTime != 1234 || snap.LastSaveTime != 9000 {
		t.Errorf("times = %v/%d, want 1234/9000", snap.GameTime, snap.LastSaveTime)
	}
	if snap.Version != SaveVersion {
		t.Errorf("Version = %q, want %q", snap.Version, SaveVersion)
	}
}

func TestSaveManagerNoSave(t *testing.T) {
	manager := createTestGdataManager(t, "nosave")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	sm := NewSaveManagerWithGdata(manager)

	if _, err := sm.LoadState(); !errors.Is(err, ErrNoSave) {
		t.Errorf("LoadState with no save = %v, want ErrNoSave", err)
	}
}

func TestSaveManagerCorruptSave(t *testing.T) {
	manager := createTestGdataManager(t, "corrupt")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	sm := NewSaveManagerWithGdata(manager)

	// 直接写入无法解析的数据
	if err := manager.SaveObjectProp(saveObject, stateProperty, []byte("{broken json")); err != nil {
		t.Fatalf("Failed to write corrupt data: %v", err)
	}

	if _, err := sm.LoadState(); !errors.Is(err, ErrNoSave) {
		t.Errorf("LoadState with corrupt save = %v, want ErrNoSave", err)
	}
}

func TestSaveManagerInvalidSnapshot(t *testing.T) {
	manager := createTestGdataManager(t, "invalid")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	sm := NewSaveManagerWithGdata(manager)

	// 缺少花园数据的快照通不过校验
	snap := newTestSnapshot(0)
	snap.Garden = nil
	if err := sm.SaveState(snap); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	if _, err := sm.LoadState(); !errors.Is(err, ErrNoSave) {
		t.Errorf("LoadState with invalid snapshot = %v, want ErrNoSave", err)
	}
}

func TestSaveManagerDelete(t *testing.T) {
	manager := createTestGdataManager(t, "delete")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	sm := NewSaveManagerWithGdata(manager)

	if err := sm.SaveState(newTestSnapshot(0)); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if err := sm.DeleteState(); err != nil {
		t.Fatalf("DeleteState failed: %v", err)
	}
	if _, err := sm.LoadState(); !errors.Is(err, ErrNoSave) {
		t.Errorf("LoadState after delete = %v, want ErrNoSave", err)
	}
}

func TestSaveManagerDegradedMode(t *testing.T) {
	sm := NewSaveManagerWithGdata(nil)

	// 降级模式：写入静默丢弃，读取报告无存档
	if err := sm.SaveState(newTestSnapshot(0)); err != nil {
		t.Errorf("SaveState in degraded mode = %v, want nil", err)
	}
	if _, err := sm.LoadState(); !errors.Is(err, ErrNoSave) {
		t.Errorf("LoadState in degraded mode = %v, want ErrNoSave", err)
	}
	if err := sm.DeleteState(); err != nil {
		t.Errorf("DeleteState in degraded mode = %v, want nil", err)
	}
}

func TestSaveManagerConfigRoundTrip(t *testing.T) {
	manager := createTestGdataManager(t, "config")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	sm := NewSaveManagerWithGdata(manager)

	// 不存在时返回 nil
	if sm.LoadConfig() != nil {
		t.Error("LoadConfig with no saved config should return nil")
	}

	cfg := config.DefaultGameConfig()
	cfg.AutoSaveInterval = 15000
	if err := sm.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded := sm.LoadConfig()
	if loaded == nil {
		t.Fatal("LoadConfig should return the saved config")
	}
	if loaded.AutoSaveInterval != 15000 {
		t.Errorf("AutoSaveInterval = %d, want 15000", loaded.AutoSaveInterval)
	}
}

func TestGameStatePersistenceRoundTrip(t *testing.T) {
	manager := createTestGdataManager(t, "gs_roundtrip")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	sm := NewSaveManagerWithGdata(manager)
	cfg := config.DefaultGameConfig()

	clock := NewManualClock(1000)
	gs := NewGameState(cfg, clock, sm)
	gs.PlantSeed(2, 2, types.PlantFlower)
	gs.WaterPlant(3, 3)

	// 短暂离线（低于补偿阈值）：状态原样恢复
	clock2 := NewManualClock(1000 + cfg.OfflineThreshold/2)
	restored := NewGameState(cfg, clock2, sm)

	cell := restored.GetCell(2, 2)
	if cell.Plant == nil || cell.Plant.Type != types.PlantFlower {
		t.Fatal("plant should survive restart")
	}
	if cell.Plant.LastUpdated != 1000 {
		t.Errorf("plant LastUpdated = %d, want 1000 (no offline catch-up)", cell.Plant.LastUpdated)
	}
	if restored.GetCell(3, 3).LastWatered != 1000 {
		t.Error("cell watering time should survive restart")
	}
	if !restored.Player().HasAchievement(AchievementFirstPlant) {
		t.Error("achievements should survive restart")
	}
}

func TestGameStateOfflineCatchUp(t *testing.T) {
	manager := createTestGdataManager(t, "offline")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	sm := NewSaveManagerWithGdata(manager)
	cfg := config.DefaultGameConfig()

	clock := NewManualClock(1000)
	gs := NewGameState(cfg, clock, sm)
	gs.PlantSeed(0, 0, types.PlantFlower)

	// 离线 10 分钟后重启，超过补偿阈值
	offlineMillis := int64(10 * 60 * 1000)
	clock2 := NewManualClock(1000 + offlineMillis)
	restored := NewGameState(cfg, clock2, sm)

	plant := restored.GetCell(0, 0).Plant
	if plant == nil {
		t.Fatal("plant should survive restart")
	}
	// 整段离线时长作为一次更新应用
	if plant.LastUpdated != 1000+offlineMillis {
		t.Errorf("plant LastUpdated = %d, want %d (offline catch-up applied)",
			plant.LastUpdated, 1000+offlineMillis)
	}
	if plant.Stage == types.StageSeed {
		t.Error("plant should have grown during offline catch-up")
	}
	if plant.WaterLevel >= 1.0 {
		t.Error("plant should have consumed water during offline catch-up")
	}
	// 土壤按整段时长蒸发：10 分钟足以蒸干
	if got := restored.GetCell(1, 1).SoilMoisture; got != 0 {
		t.Errorf("SoilMoisture = %v, want 0 after long offline evaporation", got)
	}

	// 补偿结果立即写回存档
	snap, err := sm.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if snap.LastSaveTime != 1000+offlineMillis {
		t.Errorf("LastSaveTime = %d, want %d", snap.LastSaveTime, 1000+offlineMillis)
	}
}

func TestGameStateAutoSave(t *testing.T) {
	manager := createTestGdataManager(t, "autosave")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	sm := NewSaveManagerWithGdata(manager)
	cfg := config.DefaultGameConfig()

	clock := NewManualClock(0)
	gs := NewGameState(cfg, clock, sm)
	gs.Update(100)

	baseline, err := sm.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}

	// 未到自动保存间隔：存档不变
	clock.Advance(cfg.AutoSaveInterval / 2)
	gs.Update(float64(cfg.AutoSaveInterval / 2))
	mid, _ := sm.LoadState()
	if mid.GameTime != baseline.GameTime {
		t.Error("save should not change before the autosave interval")
	}

	// 跨过自动保存间隔：存档更新
	clock.Advance(cfg.AutoSaveInterval)
	gs.Update(float64(cfg.AutoSaveInterval))
	after, _ := sm.LoadState()
	if after.GameTime <= baseline.GameTime {
		t.Error("autosave should persist the advanced game time")
	}
}
