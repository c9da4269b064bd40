package game

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gopkg.in/yaml.v3"
)

// ResourceConfig 资源清单，对应 assets/config/resources.yaml
//
// 结构：
//
//	version: "1.0"
//	images:
//	  - id: IMAGE_SOIL_DRY
//	    color: "#8B6C42"
type ResourceConfig struct {
	Version string          `yaml:"version"` // 清单版本
	Images  []ImageResource `yaml:"images"`  // 图像资源列表
}

// ImageResource 单个图像资源定义
//
// 当前资源均为程序生成的占位图；Color 指定占位图主色，
// 缺省时根据 ID 哈希出确定的颜色，保证视觉可区分。
type ImageResource struct {
	ID    string `yaml:"id"`              // 资源 ID（唯一标识）
	Color string `yaml:"color,omitempty"` // 占位图主色（#RRGGBB）
}

// ResourceManager 资源管理器
//
// 按键名提供图像资源。未注册的键返回确定性生成的占位图，
// 绝不返回 nil、绝不 panic——缺资源只能导致画面难看，不能导致崩溃。
type ResourceManager struct {
	images       map[string]*ebiten.Image
	placeholders map[string]*ebiten.Image // 按键缓存生成的占位图
}

// NewResourceManager 创建资源管理器
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		images:       make(map[string]*ebiten.Image),
		placeholders: make(map[string]*ebiten.Image),
	}
}

// LoadResourceConfig 加载资源清单并生成占位图
//
// 清单文件不存在时静默跳过（全部资源走按需占位图路径）。
//
// 参数：
//   - path: 清单文件路径（如 "assets/config/resources.yaml"）
//
// 返回：
//   - error: 清单存在但解析失败时返回错误
func (rm *ResourceManager) LoadResourceConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[ResourceManager] No resource manifest at %s, using generated placeholders", path)
			return nil
		}
		return fmt.Errorf("failed to read resource config: %w", err)
	}

	var cfg ResourceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse resource config: %w", err)
	}

	for _, img := range cfg.Images {
		clr, ok := parseHexColor(img.Color)
		if !ok {
			clr = keyColor(img.ID)
		}
		rm.images[img.ID] = makePlaceholder(clr, true)
	}

	log.Printf("[ResourceManager] Loaded %d image resources from %s", len(cfg.Images), path)
	return nil
}

// RegisterImage 注册图像资源
// 相同键名的后注册覆盖先注册
func (rm *ResourceManager) RegisterImage(id string, img *ebiten.Image) {
	if img == nil {
		return
	}
	rm.images[id] = img
}

// GetImage 按键名获取图像
//
// 未注册的键返回该键专属的占位图（带警示边框，与正式资源可明显区分），
// 同一键名多次获取返回同一张占位图。
func (rm *ResourceManager) GetImage(id string) *ebiten.Image {
	if img, ok := rm.images[id]; ok {
		return img
	}

	if img, ok := rm.placeholders[id]; ok {
		return img
	}

	log.Printf("[ResourceManager] Missing image %q, generating placeholder", id)
	img := makePlaceholder(keyColor(id), false)
	rm.placeholders[id] = img
	return img
}

// HasImage 判断键名是否有已注册的正式资源
func (rm *ResourceManager) HasImage(id string) bool {
	_, ok := rm.images[id]
	return ok
}

// placeholderSize 占位图边长（像素）
const placeholderSize = 64

// makePlaceholder 生成占位图
// registered 为 false 时叠加警示色边框，提示资源缺失
func makePlaceholder(clr color.RGBA, registered bool) *ebiten.Image {
	img := ebiten.NewImage(placeholderSize, placeholderSize)
	img.Fill(clr)

	if !registered {
		// 洋红色边框：缺失资源的警示标记
		warn := color.RGBA{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF}
		vector.StrokeRect(img, 1, 1, placeholderSize-2, placeholderSize-2, 2, warn, false)
		vector.StrokeLine(img, 0, 0, placeholderSize, placeholderSize, 2, warn, false)
	}

	return img
}

// keyColor 根据键名哈希出确定的占位颜色
// 同一键名任何时候生成同一颜色
func keyColor(id string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(id))
	sum := h.Sum32()
	return color.RGBA{
		R: uint8(96 + sum%128),
		G: uint8(96 + (sum>>8)%128),
		B: uint8(96 + (sum>>16)%128),
		A: 0xFF,
	}
}

// parseHexColor 解析 #RRGGBB 格式的颜色
func parseHexColor(s string) (color.RGBA, bool) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, false
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, true
}
