package systems

import (
	"testing"

	"github.com/decker502/growgarden/pkg/game"
)

func TestEffectSystemLifecycle(t *testing.T) {
	es := NewEffectSystem(game.QualityHigh)

	es.Play(EffectWatering, 10, 10)
	es.Play(EffectHarvest, 20, 20)
	es.PlayText("+10", 30, 30)
	if es.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", es.Count())
	}

	// 未过期
	es.Update(300)
	if es.Count() != 3 {
		t.Errorf("Count() = %d, want 3 after 300ms", es.Count())
	}

	// 全部过期清理
	es.Update(400)
	if es.Count() != 0 {
		t.Errorf("Count() = %d, want 0 after expiry", es.Count())
	}
}

func TestEffectSystemQualityCap(t *testing.T) {
	es := NewEffectSystem(game.QualityLow)

	// 低画质上限 8，超出时丢弃最旧的
	for i := 0; i < 20; i++ {
		es.Play(EffectWatering, float64(i), 0)
	}
	if es.Count() != 8 {
		t.Errorf("Count() = %d, want 8 (low quality cap)", es.Count())
	}
}

func TestEffectSystemSetQuality(t *testing.T) {
	es := NewEffectSystem(game.QualityHigh)
	es.SetQuality(game.QualityMedium)

	for i := 0; i < 100; i++ {
		es.Play(EffectPlanting, 0, 0)
	}
	if es.Count() != 24 {
		t.Errorf("Count() = %d, want 24 (medium quality cap)", es.Count())
	}
}
