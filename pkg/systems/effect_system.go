// Package systems 实现输入、渲染和表现特效系统
//
// 系统层只通过 GameState 的命令 API 影响模拟，绝不直接修改格子或植物。
package systems

import (
	"fmt"
	"image/color"

	"github.com/decker502/growgarden/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EffectPlayer 表现特效接口
//
// 模拟和输入层只依赖该接口做"即发即忘"的表现调用，
// 特效永远不会反馈到模拟状态。单元测试使用 NopEffectPlayer。
type EffectPlayer interface {
	// Play 在屏幕坐标 (x, y) 播放一个命名特效
	Play(name string, x, y float64)
	// PlayText 在屏幕坐标 (x, y) 播放一段上浮文字（如收获奖励）
	PlayText(text string, x, y float64)
}

// NopEffectPlayer 空实现，用于单元测试和无渲染环境
type NopEffectPlayer struct{}

// Play 什么也不做
func (NopEffectPlayer) Play(name string, x, y float64) {}

// PlayText 什么也不做
func (NopEffectPlayer) PlayText(text string, x, y float64) {}

// 特效名称
const (
	EffectPlanting = "planting" // 种植尘土
	EffectWatering = "watering" // 浇水涟漪
	EffectHarvest  = "harvest"  // 收获闪光
	EffectInvalid  = "invalid"  // 无效操作提示
)

// effectDuration 单个特效的持续时长（毫秒）
const effectDuration = 600.0

// effect 一个正在播放的特效实例
type effect struct {
	name string
	text string // 仅文字特效使用
	x, y float64
	age  float64 // 已播放时长（毫秒）
}

// EffectSystem 表现特效系统
//
// 维护有限数量的短时特效，数量上限由画质档位决定，
// 超出上限时丢弃最旧的特效。
type EffectSystem struct {
	effects    []*effect
	maxEffects int
}

// NewEffectSystem 创建特效系统
//
// 参数：
//   - quality: 画质档位，决定同时存在的特效数量上限
func NewEffectSystem(quality game.Quality) *EffectSystem {
	return &EffectSystem{maxEffects: quality.MaxEffects()}
}

// SetQuality 调整画质档位
func (s *EffectSystem) SetQuality(quality game.Quality) {
	s.maxEffects = quality.MaxEffects()
}

// Play 播放一个命名特效
func (s *EffectSystem) Play(name string, x, y float64) {
	s.add(&effect{name: name, x: x, y: y})
}

// PlayText 播放一段上浮文字
func (s *EffectSystem) PlayText(text string, x, y float64) {
	s.add(&effect{name: "text", text: text, x: x, y: y})
}

// add 加入特效，超出上限时丢弃最旧的
func (s *EffectSystem) add(e *effect) {
	if s.maxEffects <= 0 {
		return
	}
	if len(s.effects) >= s.maxEffects {
		s.effects = s.effects[1:]
	}
	s.effects = append(s.effects, e)
}

// Update 推进所有特效并清理过期项
//
// 参数：
//   - deltaMillis: 本次经过时长（毫秒）
func (s *EffectSystem) Update(deltaMillis float64) {
	alive := s.effects[:0]
	for _, e := range s.effects {
		e.age += deltaMillis
		if e.age < effectDuration {
			alive = append(alive, e)
		}
	}
	s.effects = alive
}

// Count 返回当前存活的特效数量
func (s *EffectSystem) Count() int {
	return len(s.effects)
}

// Draw 绘制所有特效
func (s *EffectSystem) Draw(screen *ebiten.Image) {
	for _, e := range s.effects {
		progress := e.age / effectDuration
		switch e.name {
		case EffectWatering:
			// 扩散的水波圆环
			radius := float32(8 + progress*24)
			alpha := uint8((1 - progress) * 180)
			vector.StrokeCircle(screen, float32(e.x), float32(e.y), radius, 2,
				color.RGBA{R: 0x4F, G: 0xC3, B: 0xF7, A: alpha}, true)
		case EffectPlanting:
			// 收缩的尘土圆
			radius := float32(20 * (1 - progress))
			vector.DrawFilledCircle(screen, float32(e.x), float32(e.y), radius,
				color.RGBA{R: 0x8D, G: 0x6E, B: 0x63, A: uint8((1 - progress) * 120)}, true)
		case EffectHarvest:
			// 扩散的金色闪光
			radius := float32(6 + progress*28)
			vector.StrokeCircle(screen, float32(e.x), float32(e.y), radius, 3,
				color.RGBA{R: 0xFF, G: 0xD5, B: 0x4F, A: uint8((1 - progress) * 200)}, true)
		case EffectInvalid:
			// 红色叉形提示
			size := float32(10)
			cx, cy := float32(e.x), float32(e.y-progress*10)
			clr := color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: uint8((1 - progress) * 220)}
			vector.StrokeLine(screen, cx-size, cy-size, cx+size, cy+size, 3, clr, true)
			vector.StrokeLine(screen, cx-size, cy+size, cx+size, cy-size, 3, clr, true)
		case "text":
			// 上浮的文字
			ebitenutil.DebugPrintAt(screen, e.text, int(e.x), int(e.y-progress*20))
		default:
			// 未知特效按文字兜底显示，便于发现拼写错误
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("?%s", e.name), int(e.x), int(e.y))
		}
	}
}
