package systems

import (
	"fmt"
	"image/color"

	"github.com/decker502/growgarden/pkg/entities"
	"github.com/decker502/growgarden/pkg/game"
	"github.com/decker502/growgarden/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 土壤贴图键名，与资源清单对应
const (
	ImageSoilDry   = "soil_dry"
	ImageSoilMoist = "soil_moist"
	ImageSoilWet   = "soil_wet"
)

// plantColors 各植物类型的主色
var plantColors = map[types.PlantType]color.RGBA{
	types.PlantFlower:    {R: 0xEC, G: 0x40, B: 0x7A, A: 0xFF},
	types.PlantVegetable: {R: 0x66, G: 0xBB, B: 0x6A, A: 0xFF},
	types.PlantTree:      {R: 0x2E, G: 0x7D, B: 0x32, A: 0xFF},
}

// RenderSystem 渲染系统
//
// 只读取模拟状态绘制画面，不产生任何状态变化。
// 绘制顺序：背景、土壤、植物、网格线、悬停高亮、HUD。
type RenderSystem struct {
	gameState *game.GameState
	resources *game.ResourceManager
	input     *InputSystem
	clock     game.Clock

	showGrid bool
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(gameState *game.GameState, resources *game.ResourceManager, input *InputSystem, clock game.Clock) *RenderSystem {
	return &RenderSystem{
		gameState: gameState,
		resources: resources,
		input:     input,
		clock:     clock,
		showGrid:  true,
	}
}

// SetShowGrid 设置是否绘制网格线
func (r *RenderSystem) SetShowGrid(show bool) {
	r.showGrid = show
}

// Draw 绘制整个画面
func (r *RenderSystem) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x33, G: 0x69, B: 0x1E, A: 0xFF})

	garden := r.gameState.Garden()
	now := r.clock.NowMillis()

	for y := 0; y < garden.Height; y++ {
		for x := 0; x < garden.Width; x++ {
			cell := garden.GetCell(x, y)
			r.drawSoil(screen, garden, cell)
			if cell.Plant != nil {
				r.drawPlant(screen, garden, cell, now)
			}
		}
	}

	if r.showGrid {
		r.drawGridLines(screen, garden)
	}

	r.drawHover(screen, garden)
	r.drawHUD(screen)
}

// drawSoil 绘制单个格子的土壤
// 贴图按土壤湿度状态选择，缩放到格子大小
func (r *RenderSystem) drawSoil(screen *ebiten.Image, garden *entities.GardenGrid, cell *entities.GardenCell) {
	var key string
	switch cell.SoilState() {
	case "wet":
		key = ImageSoilWet
	case "moist":
		key = ImageSoilMoist
	default:
		key = ImageSoilDry
	}

	img := r.resources.GetImage(key)
	sx, sy := garden.GridToScreen(cell.X, cell.Y)

	bounds := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(garden.CellSize/float64(bounds.Dx()), garden.CellSize/float64(bounds.Dy()))
	op.GeoM.Translate(sx, sy)
	screen.DrawImage(img, op)
}

// drawPlant 绘制格子上的植物
//
// 植物画成圆形，半径随成长阶段和阶段内进度增大，
// 濒死植物叠加褪色处理。可收获植物带金色外环提示。
func (r *RenderSystem) drawPlant(screen *ebiten.Image, garden *entities.GardenGrid, cell *entities.GardenCell, now int64) {
	plant := cell.Plant
	cx, cy := garden.CellCenter(cell.X, cell.Y)

	// 阶段基础半径占格子的比例：种子最小，可收获最大
	stageScale := 0.12 + 0.08*float64(plant.Stage)
	radius := garden.CellSize * stageScale

	clr, ok := plantColors[plant.Type]
	if !ok {
		clr = color.RGBA{R: 0x9E, G: 0x9E, B: 0x9E, A: 0xFF}
	}
	if plant.HealthStatus() == types.HealthDying {
		clr = color.RGBA{R: 0x8D, G: 0x6E, B: 0x63, A: 0xFF}
	}

	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius), clr, true)

	if plant.CanHarvest() {
		vector.StrokeCircle(screen, float32(cx), float32(cy), float32(radius+4), 2,
			color.RGBA{R: 0xFF, G: 0xD5, B: 0x4F, A: 0xFF}, true)
	}

	// 未成熟植物在格子底部画进度条
	if plant.Stage < types.StageReady {
		progress := plant.GrowthProgress(now)
		sx, sy := garden.GridToScreen(cell.X, cell.Y)
		barY := sy + garden.CellSize - 6
		vector.DrawFilledRect(screen, float32(sx+4), float32(barY),
			float32((garden.CellSize-8)*progress), 3,
			color.RGBA{R: 0xAE, G: 0xD5, B: 0x81, A: 0xC0}, false)
	}
}

// drawGridLines 绘制网格线
func (r *RenderSystem) drawGridLines(screen *ebiten.Image, garden *entities.GardenGrid) {
	totalW, totalH := garden.TotalSize()
	lineColor := color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0x40}

	for x := 0; x <= garden.Width; x++ {
		sx := garden.OffsetX + float64(x)*garden.CellSize
		vector.StrokeLine(screen, float32(sx), float32(garden.OffsetY),
			float32(sx), float32(garden.OffsetY+totalH), 1, lineColor, false)
	}
	for y := 0; y <= garden.Height; y++ {
		sy := garden.OffsetY + float64(y)*garden.CellSize
		vector.StrokeLine(screen, float32(garden.OffsetX), float32(sy),
			float32(garden.OffsetX+totalW), float32(sy), 1, lineColor, false)
	}
}

// drawHover 绘制悬停高亮
// 当前工具在该格子可执行时为绿色，否则为红色
func (r *RenderSystem) drawHover(screen *ebiten.Image, garden *entities.GardenGrid) {
	if r.input == nil {
		return
	}
	hx, hy := r.input.Hover()
	if !garden.IsValidCoordinate(hx, hy) {
		return
	}

	clr := color.RGBA{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}
	if result := r.input.Validate(r.input.SelectedTool(), hx, hy); !result.Valid {
		clr = color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	}

	sx, sy := garden.GridToScreen(hx, hy)
	vector.StrokeRect(screen, float32(sx), float32(sy),
		float32(garden.CellSize), float32(garden.CellSize), 2, clr, false)
}

// drawHUD 绘制左上角的状态信息
func (r *RenderSystem) drawHUD(screen *ebiten.Image) {
	stats := r.gameState.GetGameStats()

	hud := fmt.Sprintf("Score: %d  Harvested: %d  Plants: %d  Health: %.0f%%",
		stats.Score, stats.PlantsHarvested, stats.PlantsInGarden, stats.AverageHealth)
	ebitenutil.DebugPrintAt(screen, hud, 8, 8)

	if r.input != nil {
		toolLine := fmt.Sprintf("[1/2/3] Tool: %s  [Q/W/E] Seed: %s",
			r.input.SelectedTool(), r.input.SelectedPlantType())
		ebitenutil.DebugPrintAt(screen, toolLine, 8, 24)
	}
}
