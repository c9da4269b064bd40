package entities

import (
	"fmt"
	"log"
	"math"
)

// GardenGrid 花园网格
//
// 固定 width × height 的格子二维数组，构建后尺寸不变。
// 网格独占所有格子；渲染偏移和格子尺寸仅用于坐标换算，不影响模拟。
type GardenGrid struct {
	Width  int // 网格宽度（格子数）
	Height int // 网格高度（格子数）

	CellSize float64 // 每个格子的像素大小
	OffsetX  float64 // 渲染偏移 X
	OffsetY  float64 // 渲染偏移 Y

	cells [][]*GardenCell // [y][x]
}

// NewGardenGrid 创建并初始化花园网格
//
// 参数：
//   - width, height: 网格尺寸（格子数），非法值回退到 8×8
//   - cellSize: 格子像素大小，非法值回退到 64
func NewGardenGrid(width, height int, cellSize float64) *GardenGrid {
	if width <= 0 || height <= 0 {
		log.Printf("[GardenGrid] Invalid size %dx%d, falling back to 8x8", width, height)
		width, height = 8, 8
	}
	if cellSize <= 0 {
		cellSize = 64
	}

	g := &GardenGrid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
	}
	g.initializeCells()
	return g
}

// initializeCells 创建全部格子
func (g *GardenGrid) initializeCells() {
	g.cells = make([][]*GardenCell, g.Height)
	for y := 0; y < g.Height; y++ {
		g.cells[y] = make([]*GardenCell, g.Width)
		for x := 0; x < g.Width; x++ {
			g.cells[y][x] = NewGardenCell(x, y)
		}
	}
}

// IsValidCoordinate 判断网格坐标是否在范围内
func (g *GardenGrid) IsValidCoordinate(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// GetCell 获取指定坐标的格子
// 坐标越界返回 nil
func (g *GardenGrid) GetCell(x, y int) *GardenCell {
	if !g.IsValidCoordinate(x, y) {
		return nil
	}
	return g.cells[y][x]
}

// ScreenToGrid 屏幕坐标转换为网格坐标
// 结果可能越界，调用方需用 IsValidCoordinate 检查
func (g *GardenGrid) ScreenToGrid(screenX, screenY float64) (int, int) {
	gridX := int(math.Floor((screenX - g.OffsetX) / g.CellSize))
	gridY := int(math.Floor((screenY - g.OffsetY) / g.CellSize))
	return gridX, gridY
}

// GridToScreen 网格坐标转换为屏幕坐标（格子左上角）
func (g *GardenGrid) GridToScreen(gridX, gridY int) (float64, float64) {
	return float64(gridX)*g.CellSize + g.OffsetX, float64(gridY)*g.CellSize + g.OffsetY
}

// CellCenter 返回格子中心的屏幕坐标
func (g *GardenGrid) CellCenter(gridX, gridY int) (float64, float64) {
	x, y := g.GridToScreen(gridX, gridY)
	return x + g.CellSize/2, y + g.CellSize/2
}

// SetOffset 设置渲染偏移，用于居中显示
func (g *GardenGrid) SetOffset(offsetX, offsetY float64) {
	g.OffsetX = offsetX
	g.OffsetY = offsetY
}

// TotalSize 返回网格的总像素尺寸
func (g *GardenGrid) TotalSize() (float64, float64) {
	return float64(g.Width) * g.CellSize, float64(g.Height) * g.CellSize
}

// PlantAt 在指定位置种植
// 坐标越界或格子被占用时返回 false
func (g *GardenGrid) PlantAt(x, y int, plant *Plant) bool {
	cell := g.GetCell(x, y)
	if cell == nil {
		return false
	}
	return cell.PlantSeed(plant)
}

// WaterAt 给指定位置浇水
// 仅坐标越界时失败；空格子浇水是正常操作
func (g *GardenGrid) WaterAt(x, y int, now int64) bool {
	cell := g.GetCell(x, y)
	if cell == nil {
		return false
	}
	cell.Water(0, now)
	return true
}

// HarvestAt 收获指定位置的植物
// 坐标越界或植物不可收获时返回 nil
func (g *GardenGrid) HarvestAt(x, y int) *Plant {
	cell := g.GetCell(x, y)
	if cell == nil {
		return nil
	}
	return cell.Harvest()
}

// Update 推进全部格子的状态
//
// 参数：
//   - deltaMillis: 本次经过时长（毫秒），离线补偿时为整段离线时长
//   - now: 当前时间（Unix 毫秒）
func (g *GardenGrid) Update(deltaMillis float64, now int64) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.cells[y][x].Update(deltaMillis, now)
		}
	}
}

// CellsNeedingWater 返回所有需要浇水的格子
// 供 UI 提示使用，模拟本身不依赖该查询
func (g *GardenGrid) CellsNeedingWater(now int64) []*GardenCell {
	var result []*GardenCell
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y][x].NeedsWater(now) {
				result = append(result, g.cells[y][x])
			}
		}
	}
	return result
}

// HarvestableCells 返回所有可收获的格子
func (g *GardenGrid) HarvestableCells() []*GardenCell {
	var result []*GardenCell
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			cell := g.cells[y][x]
			if cell.Plant != nil && cell.Plant.CanHarvest() {
				result = append(result, cell)
			}
		}
	}
	return result
}

// CountPlants 统计网格中的植物数量
func (g *GardenGrid) CountPlants() int {
	count := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y][x].Plant != nil {
				count++
			}
		}
	}
	return count
}

// AverageHealth 计算所有植物的平均健康值
// 没有植物时返回 1.0（与 1.0.0 版本统计口径一致）
func (g *GardenGrid) AverageHealth() float64 {
	total := 0.0
	count := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if p := g.cells[y][x].Plant; p != nil {
				total += p.Health
				count++
			}
		}
	}
	if count == 0 {
		return 1.0
	}
	return total / float64(count)
}

// GardenSnapshot 网格的存档快照
type GardenSnapshot struct {
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	CellSize float64           `json:"cellSize"`
	Cells    [][]*CellSnapshot `json:"cells"` // [y][x]
}

// Snapshot 导出网格快照（含所有格子和植物）
func (g *GardenGrid) Snapshot() *GardenSnapshot {
	snap := &GardenSnapshot{
		Width:    g.Width,
		Height:   g.Height,
		CellSize: g.CellSize,
		Cells:    make([][]*CellSnapshot, g.Height),
	}
	for y := 0; y < g.Height; y++ {
		snap.Cells[y] = make([]*CellSnapshot, g.Width)
		for x := 0; x < g.Width; x++ {
			snap.Cells[y][x] = g.cells[y][x].Snapshot()
		}
	}
	return snap
}

// GardenGridFromSnapshot 从快照恢复网格
//
// 缺失的格子数据保持初始状态；单个植物恢复失败只丢弃该植物并记录日志，
// 不中断整体恢复。
//
// 返回：
//   - *GardenGrid: 恢复的网格
//   - error: 快照缺少格子数组时返回错误
func GardenGridFromSnapshot(snap *GardenSnapshot) (*GardenGrid, error) {
	if snap == nil || snap.Cells == nil {
		return nil, fmt.Errorf("garden snapshot missing cells")
	}

	g := NewGardenGrid(snap.Width, snap.Height, snap.CellSize)

	for y := 0; y < g.Height; y++ {
		if y >= len(snap.Cells) {
			break
		}
		for x := 0; x < g.Width; x++ {
			if x >= len(snap.Cells[y]) || snap.Cells[y][x] == nil {
				continue
			}
			if err := g.cells[y][x].restoreFromSnapshot(snap.Cells[y][x]); err != nil {
				log.Printf("[GardenGrid] Dropping unrecoverable plant at (%d, %d): %v", x, y, err)
			}
		}
	}

	return g, nil
}
