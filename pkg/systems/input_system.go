package systems

import (
	"fmt"
	"log"

	"github.com/decker502/growgarden/pkg/game"
	"github.com/decker502/growgarden/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 校验失败的提示文案
// 文案同时用于 UI 提示和日志，与 1.0.0 版本保持一致
const (
	ReasonInvalidPosition = "无效的位置"
	ReasonCellOccupied    = "这里已经有植物了"
	ReasonNothingToReap   = "这里没有植物可以收获"
	ReasonNotMature       = "还未成熟，无法收获"
)

// doubleClickDelay 双击判定窗口（毫秒）
const doubleClickDelay = 300

// ValidationResult 操作校验结果
type ValidationResult struct {
	Valid  bool
	Reason string // 校验失败时的提示文案
}

// validationCheck 单条校验规则
// 返回 false 时给出拒绝原因，后续规则不再执行
type validationCheck func(gs *game.GameState, x, y int) (bool, string)

// checkInBounds 坐标必须在网格范围内
func checkInBounds(gs *game.GameState, x, y int) (bool, string) {
	if !gs.Garden().IsValidCoordinate(x, y) {
		return false, ReasonInvalidPosition
	}
	return true, ""
}

// checkCellEmpty 格子必须为空
func checkCellEmpty(gs *game.GameState, x, y int) (bool, string) {
	if cell := gs.GetCell(x, y); cell != nil && cell.Plant != nil {
		return false, ReasonCellOccupied
	}
	return true, ""
}

// checkHasPlant 格子上必须有植物
func checkHasPlant(gs *game.GameState, x, y int) (bool, string) {
	if cell := gs.GetCell(x, y); cell == nil || cell.Plant == nil {
		return false, ReasonNothingToReap
	}
	return true, ""
}

// checkHarvestable 植物必须可收获（成熟且健康达标）
func checkHarvestable(gs *game.GameState, x, y int) (bool, string) {
	cell := gs.GetCell(x, y)
	if cell == nil || cell.Plant == nil || !cell.Plant.CanHarvest() {
		return false, ReasonNotMature
	}
	return true, ""
}

// toolValidators 每种工具的校验规则表，按顺序执行
var toolValidators = map[types.Tool][]validationCheck{
	types.ToolPlant:   {checkInBounds, checkCellEmpty},
	types.ToolWater:   {checkInBounds},
	types.ToolHarvest: {checkInBounds, checkHasPlant, checkHarvestable},
}

// InputSystem 输入系统
//
// 持有当前选中的工具和植物类型，把指针事件换算成网格操作。
// 校验先于变更：规则表给出的拒绝只产生提示特效，绝不修改模拟状态；
// 通过校验后的操作仍由 GameState 的命令 API 做最终裁决。
type InputSystem struct {
	gameState *game.GameState
	effects   EffectPlayer
	clock     game.Clock

	selectedTool      types.Tool
	selectedPlantType types.PlantType

	// 悬停的网格坐标，越界时为 (-1, -1)
	hoverX, hoverY int

	// 双击判定状态
	lastClickTime int64
	lastClickX    int
	lastClickY    int

	// onTogglePause 空格键回调，由应用层接入引擎的暂停切换
	onTogglePause func()
}

// NewInputSystem 创建输入系统
//
// 参数：
//   - gameState: 游戏状态（命令 API 入口）
//   - effects: 表现特效接口，传 nil 时使用空实现
//   - clock: 时间源，用于双击判定
func NewInputSystem(gameState *game.GameState, effects EffectPlayer, clock game.Clock) *InputSystem {
	if effects == nil {
		effects = NopEffectPlayer{}
	}
	return &InputSystem{
		gameState:         gameState,
		effects:           effects,
		clock:             clock,
		selectedTool:      types.ToolPlant,
		selectedPlantType: types.PlantFlower,
		hoverX:            -1,
		hoverY:            -1,
	}
}

// SetPauseHandler 设置暂停切换回调
func (s *InputSystem) SetPauseHandler(fn func()) {
	s.onTogglePause = fn
}

// SelectTool 选择工具
func (s *InputSystem) SelectTool(tool types.Tool) {
	s.selectedTool = tool
	log.Printf("[InputSystem] Tool selected: %s", tool)
}

// SelectPlantType 选择种植的植物类型
// 未知类型被忽略
func (s *InputSystem) SelectPlantType(plantType types.PlantType) {
	if plantType == types.PlantUnknown {
		log.Printf("[InputSystem] Ignoring unknown plant type")
		return
	}
	s.selectedPlantType = plantType
	log.Printf("[InputSystem] Plant type selected: %s", plantType)
}

// ResetSelection 恢复默认的工具和植物类型
func (s *InputSystem) ResetSelection() {
	s.selectedTool = types.ToolPlant
	s.selectedPlantType = types.PlantFlower
}

// SelectedTool 返回当前工具
func (s *InputSystem) SelectedTool() types.Tool {
	return s.selectedTool
}

// SelectedPlantType 返回当前植物类型
func (s *InputSystem) SelectedPlantType() types.PlantType {
	return s.selectedPlantType
}

// Hover 返回当前悬停的网格坐标，未悬停在网格内时返回 (-1, -1)
func (s *InputSystem) Hover() (int, int) {
	return s.hoverX, s.hoverY
}

// Validate 按当前工具校验指定网格坐标上的操作
//
// 依次执行该工具的规则表，第一条不满足的规则给出拒绝原因。
func (s *InputSystem) Validate(tool types.Tool, x, y int) ValidationResult {
	checks, ok := toolValidators[tool]
	if !ok {
		return ValidationResult{Valid: false, Reason: ReasonInvalidPosition}
	}
	for _, check := range checks {
		if passed, reason := check(s.gameState, x, y); !passed {
			return ValidationResult{Valid: false, Reason: reason}
		}
	}
	return ValidationResult{Valid: true}
}

// Update 轮询本帧全部输入
func (s *InputSystem) Update() {
	s.UpdateKeyboard()
	s.UpdatePointer()
}

// UpdateKeyboard 轮询本帧键盘输入
//
// 数字键 1/2/3 切换工具，Q/W/E 切换植物类型，
// Esc 恢复默认选择，空格切换暂停。
// 暂停恢复依赖空格键，键盘轮询必须每帧执行，不能随引擎暂停。
func (s *InputSystem) UpdateKeyboard() {
	s.pollKeyboard()
}

// UpdatePointer 轮询本帧指针输入
// 移动更新悬停格子，左键点击触发当前工具的操作
func (s *InputSystem) UpdatePointer() {
	cursorX, cursorY := ebiten.CursorPosition()
	s.updateHover(float64(cursorX), float64(cursorY))

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.HandlePointer(float64(cursorX), float64(cursorY))
	}
}

// pollKeyboard 处理快捷键
func (s *InputSystem) pollKeyboard() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		s.SelectTool(types.ToolPlant)
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		s.SelectTool(types.ToolWater)
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		s.SelectTool(types.ToolHarvest)
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		s.SelectPlantType(types.PlantFlower)
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		s.SelectPlantType(types.PlantVegetable)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		s.SelectPlantType(types.PlantTree)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		s.ResetSelection()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if s.onTogglePause != nil {
			s.onTogglePause()
		}
	}
}

// updateHover 根据指针位置更新悬停格子
func (s *InputSystem) updateHover(screenX, screenY float64) {
	garden := s.gameState.Garden()
	gridX, gridY := garden.ScreenToGrid(screenX, screenY)
	if !garden.IsValidCoordinate(gridX, gridY) {
		s.hoverX, s.hoverY = -1, -1
		return
	}
	s.hoverX, s.hoverY = gridX, gridY
}

// HandlePointer 处理一次指针点击
//
// 把屏幕坐标换算成网格坐标，校验通过后执行当前工具的操作。
// 浇水工具在双击窗口内对同一格子连击时执行深度浇水（额外补一次水）。
//
// 返回：
//   - ValidationResult: 校验结果，Valid 为 false 时附带提示文案
func (s *InputSystem) HandlePointer(screenX, screenY float64) ValidationResult {
	garden := s.gameState.Garden()
	gridX, gridY := garden.ScreenToGrid(screenX, screenY)

	result := s.Validate(s.selectedTool, gridX, gridY)
	if !result.Valid {
		log.Printf("[InputSystem] %s rejected at (%d, %d): %s",
			s.selectedTool, gridX, gridY, result.Reason)
		s.effects.Play(EffectInvalid, screenX, screenY)
		s.effects.PlayText(result.Reason, screenX, screenY)
		return result
	}

	now := s.clock.NowMillis()
	isDoubleClick := now-s.lastClickTime < doubleClickDelay &&
		gridX == s.lastClickX && gridY == s.lastClickY
	s.lastClickTime = now
	s.lastClickX, s.lastClickY = gridX, gridY

	cx, cy := garden.CellCenter(gridX, gridY)

	switch s.selectedTool {
	case types.ToolPlant:
		if s.gameState.PlantSeed(gridX, gridY, s.selectedPlantType) {
			s.effects.Play(EffectPlanting, cx, cy)
		}
	case types.ToolWater:
		if s.gameState.WaterPlant(gridX, gridY) {
			s.effects.Play(EffectWatering, cx, cy)
			// 深度浇水：双击同一格子时再补一次水
			if isDoubleClick {
				s.gameState.WaterPlant(gridX, gridY)
				s.effects.Play(EffectWatering, cx, cy)
			}
		}
	case types.ToolHarvest:
		if result := s.gameState.HarvestPlant(gridX, gridY); result != nil {
			s.effects.Play(EffectHarvest, cx, cy)
			s.effects.PlayText(fmt.Sprintf("+%d", result.Reward), cx, cy)
		}
	}

	return result
}
