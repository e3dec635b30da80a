// Package jelly provides the jelly fusion puzzle for the platform.
//
// The player selects a movable with up/down and pushes it left or right.
// Pushed pieces drag neighbors and attached pieces along, fall under
// gravity, and same-colored jellies fuse on contact. A level is solved
// when no two jellies share a color.
package jelly

import (
	"errors"
	"fmt"

	platformcore "github.com/vovakirdan/tui-jelly/internal/core"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly/core"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly/levels"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly/solver"
	"github.com/vovakirdan/tui-jelly/internal/registry"
)

// Package-level configuration, set by the CLI before the game is created.
var (
	selectedLevelID string
	solverBudget    int
	raceSolver      bool
	maxCellW        int
	maxCellH        int
	showIndices     bool
)

// SetStartLevel selects the level to start at. Empty means the first one.
func SetStartLevel(id string) {
	selectedLevelID = id
}

// SetSolverBudget caps how many states hint and auto-solve searches may
// explore. Zero means unlimited.
func SetSolverBudget(maxStates int) {
	solverBudget = maxStates
}

// SetRaceSolver enables racing against the solver: it replays its own
// shortest solution at a fixed cadence, and the player has to finish first.
func SetRaceSolver(enabled bool) {
	raceSolver = enabled
}

// SetRenderOptions caps cell size and toggles the movable index overlay.
// Zero cell dimensions leave the automatic layout alone.
func SetRenderOptions(cellW, cellH int, indices bool) {
	maxCellW = cellW
	maxCellH = cellH
	showIndices = indices
}

func init() {
	registry.Register("jelly", func() registry.Game {
		return New()
	})
}

// Game implements the jelly puzzle for the registry.
type Game struct {
	allLevels  []levels.Level
	levelIndex int
	level      levels.Level

	state    *core.State
	history  []*core.State
	moves    int
	selected int

	// Screen dimensions
	screenW int
	screenH int

	// Status
	tick     uint64
	won      bool // Current level solved, waiting for confirm
	finished bool // Every level solved
	paused   bool
	tooSmall bool
	loadErr  string

	// Solver assistance
	hint      *solver.Move
	hintNote  string
	playback  []solver.Move
	playEvery uint64

	// Race against the solver
	ghost      *core.State
	ghostMoves []solver.Move
	ghostNext  int
	ghostEvery uint64
	ghostWon   bool

	// Rendering
	cellW       int
	cellH       int
	hudHeight   int
	gridOffsetX int
	gridOffsetY int
}

// New creates a new jelly game.
func New() *Game {
	return &Game{
		hudHeight: 4,
		cellW:     4,
		cellH:     2,
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "jelly"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Jelly Fusion"
}

// CurrentLevelID returns the ID of the level being played.
// The platform uses it to record solves per level.
func (g *Game) CurrentLevelID() string {
	return g.level.ID
}

// Reset initializes or restarts the game from the configured level source.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tick = 0
	g.won = false
	g.finished = false
	g.paused = false
	g.loadErr = ""
	g.playEvery = uint64(platformcore.Max(1, cfg.TickRate/3))
	g.ghostEvery = uint64(platformcore.Max(1, cfg.TickRate))

	all, err := LoadLevels(cfg.LevelDir)
	if err != nil {
		g.loadErr = err.Error()
		return
	}
	if len(all) == 0 {
		g.loadErr = "no levels found"
		return
	}
	g.allLevels = all

	startID := cfg.LevelID
	if startID == "" {
		startID = selectedLevelID
		selectedLevelID = ""
	}
	g.levelIndex = 0
	for i, lvl := range all {
		if lvl.ID == startID {
			g.levelIndex = i
			break
		}
	}

	g.loadCurrentLevel()
}

// LoadLevels loads levels from a directory, or the built-in set when the
// directory is empty.
func LoadLevels(dir string) ([]levels.Level, error) {
	if dir == "" {
		return levels.Builtin()
	}
	return levels.NewLoader(dir).LoadAll()
}

// loadCurrentLevel builds fresh state for the level at levelIndex.
func (g *Game) loadCurrentLevel() {
	if g.levelIndex >= len(g.allLevels) {
		g.finished = true
		return
	}

	g.level = g.allLevels[g.levelIndex]
	g.state = g.level.ToState()
	g.history = nil
	g.moves = 0
	g.selected = 0
	g.won = false
	g.hint = nil
	g.hintNote = ""
	g.playback = nil
	g.resetGhost()
	g.calculateLayout()
}

// resetGhost prepares the solver's board for a race, if racing is enabled.
func (g *Game) resetGhost() {
	g.ghost = nil
	g.ghostMoves = nil
	g.ghostNext = 0
	g.ghostWon = false
	if !raceSolver || g.state == nil {
		return
	}
	res, err := solver.SolveWithOptions(g.state, solver.Options{MaxStates: solverBudget})
	if err != nil {
		// The solver found no solution within budget; the race degrades
		// to a normal solo level.
		return
	}
	g.ghost = g.state.Clone()
	g.ghostMoves = res.Moves
}

// Resize adapts the layout to a new screen size without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.state != nil {
		g.calculateLayout()
	}
}

// calculateLayout determines cell sizes and board offsets.
func (g *Game) calculateLayout() {
	availW := g.screenW - 4
	availH := g.screenH - g.hudHeight - 3

	g.cellW = availW / platformcore.Max(1, g.state.W)
	g.cellH = availH / platformcore.Max(1, g.state.H)
	if maxCellW > 0 && g.cellW > maxCellW {
		g.cellW = maxCellW
	}
	if maxCellH > 0 && g.cellH > maxCellH {
		g.cellH = maxCellH
	}
	if g.cellW > 2*g.cellH {
		g.cellW = 2 * g.cellH
	}
	if g.cellW < 2 {
		g.cellW = 2
	}
	if g.cellH < 1 {
		g.cellH = 1
	}

	neededW := g.state.W * g.cellW
	neededH := g.state.H*g.cellH + g.hudHeight + 2
	if g.screenW < neededW || g.screenH < neededH {
		g.tooSmall = true
		return
	}
	g.tooSmall = false

	g.gridOffsetX = (g.screenW - neededW) / 2
	g.gridOffsetY = g.hudHeight + (g.screenH-neededH)/2
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	g.tick++

	if input.Has(platformcore.ActionRestart) {
		g.loadCurrentLevel()
		return platformcore.StepResult{State: g.State()}
	}
	if input.Has(platformcore.ActionPause) {
		g.paused = !g.paused
	}
	if g.finished || g.paused || g.tooSmall || g.loadErr != "" || g.state == nil {
		return platformcore.StepResult{State: g.State()}
	}

	if g.ghostWon {
		// Lost the race; only restart gets the player out.
		return platformcore.StepResult{State: g.State()}
	}

	if g.won {
		if input.Has(platformcore.ActionConfirm) {
			g.levelIndex++
			g.loadCurrentLevel()
		}
		return platformcore.StepResult{State: g.State()}
	}

	g.handleSelection(input)
	g.handlePush(input)
	g.handleUndo(input)
	g.handleSolverActions(input)
	g.advancePlayback()
	g.advanceGhost()

	return platformcore.StepResult{State: g.State()}
}

// handleSelection cycles the selected movable with up/down.
func (g *Game) handleSelection(input platformcore.InputFrame) {
	n := len(g.state.Movables)
	if n == 0 {
		return
	}
	if input.Has(platformcore.ActionUp) {
		g.selected = (g.selected - 1 + n) % n
	}
	if input.Has(platformcore.ActionDown) {
		g.selected = (g.selected + 1) % n
	}
}

// handlePush applies a lateral push of the selected movable.
func (g *Game) handlePush(input platformcore.InputFrame) {
	var dir core.Dir
	switch {
	case input.Has(platformcore.ActionLeft):
		dir = core.DirLeft
	case input.Has(platformcore.ActionRight):
		dir = core.DirRight
	default:
		return
	}
	g.playback = nil
	g.applyMove(solver.Move{Index: g.selected, Dir: dir})
}

// applyMove performs one move, recording history and checking for the win.
// Illegal moves leave everything unchanged.
func (g *Game) applyMove(m solver.Move) bool {
	next := g.state.Move(m.Index, m.Dir)
	if next == nil {
		return false
	}
	g.history = append(g.history, g.state)
	g.state = next
	g.moves++
	g.hint = nil
	g.hintNote = ""
	if g.selected >= len(g.state.Movables) {
		g.selected = len(g.state.Movables) - 1
	}
	if g.state.IsWin() {
		g.won = true
		g.playback = nil
	}
	return true
}

// handleUndo takes back the last push.
func (g *Game) handleUndo(input platformcore.InputFrame) {
	if !input.Has(platformcore.ActionUndo) || len(g.history) == 0 {
		return
	}
	g.playback = nil
	g.state = g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.moves--
	g.hint = nil
	g.hintNote = ""
	if g.selected >= len(g.state.Movables) {
		g.selected = len(g.state.Movables) - 1
	}
}

// handleSolverActions serves hint and auto-solve requests.
func (g *Game) handleSolverActions(input platformcore.InputFrame) {
	if input.Has(platformcore.ActionHint) && g.hint == nil && g.hintNote == "" {
		if moves, note := g.runSolver(); note != "" {
			g.hintNote = note
		} else if len(moves) > 0 {
			g.hint = &moves[0]
		}
	}
	if input.Has(platformcore.ActionSolve) && g.playback == nil {
		if moves, note := g.runSolver(); note != "" {
			g.hintNote = note
		} else {
			g.playback = moves
		}
	}
}

// runSolver searches from the current position under the configured budget.
// The note is non-empty when there is no path to show.
func (g *Game) runSolver() ([]solver.Move, string) {
	res, err := solver.SolveWithOptions(g.state, solver.Options{MaxStates: solverBudget})
	switch {
	case errors.Is(err, solver.ErrUnsolvable):
		return nil, "unsolvable from here (undo or restart)"
	case errors.Is(err, solver.ErrBudgetExhausted):
		return nil, "solver gave up (budget exhausted)"
	case err != nil:
		return nil, err.Error()
	case len(res.Moves) == 0:
		return nil, "already solved"
	}
	return res.Moves, ""
}

// advancePlayback plays the next queued auto-solve move on cadence.
func (g *Game) advancePlayback() {
	if len(g.playback) == 0 || g.tick%g.playEvery != 0 {
		return
	}
	m := g.playback[0]
	g.playback = g.playback[1:]
	if !g.applyMove(m) {
		// The board diverged from the planned line; drop the rest.
		g.playback = nil
	}
}

// advanceGhost moves the racing solver one step on its own board.
func (g *Game) advanceGhost() {
	if g.ghost == nil || g.ghostNext >= len(g.ghostMoves) || g.tick%g.ghostEvery != 0 {
		return
	}
	m := g.ghostMoves[g.ghostNext]
	g.ghostNext++
	if next := g.ghost.Move(m.Index, m.Dir); next != nil {
		g.ghost = next
	}
	if g.ghost.IsWin() && !g.won {
		g.ghostWon = true
	}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.moves,
		Won:      g.won,
		GameOver: g.finished || g.ghostWon || g.loadErr != "",
		Paused:   g.paused,
	}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	switch {
	case g.loadErr != "":
		g.renderOverlay(dst, "Cannot load levels", g.loadErr)
		return
	case g.tooSmall:
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	case g.state == nil:
		return
	}

	g.renderBoard(dst)

	switch {
	case g.finished:
		g.renderOverlay(dst, "All levels solved!", "Press Q to exit")
	case g.ghostWon:
		g.renderOverlay(dst, "The solver beat you", "Press R to try again")
	case g.won:
		g.renderOverlay(dst, "Solved in "+fmt.Sprintf("%d", g.moves)+" pushes!", "Press Enter for the next level")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := " Jelly Fusion"
	if g.state != nil {
		hud = fmt.Sprintf(" Jelly Fusion | %s (%d/%d) | Pushes: %d",
			g.level.Name, g.levelIndex+1, len(g.allLevels), g.moves)
		if g.ghost != nil {
			hud += fmt.Sprintf(" | Solver: %d/%d", g.ghostNext, len(g.ghostMoves))
		}
	}
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorCyan)

	for x := 0; x < dst.Width(); x++ {
		dst.SetWithColor(x, 1, '─', platformcore.ColorGray)
	}

	status := g.selectionLabel()
	switch {
	case g.hintNote != "":
		status += " | " + g.hintNote
	case g.hint != nil:
		status += " | Hint: push " + moveLabel(*g.hint)
	case len(g.playback) > 0:
		status += fmt.Sprintf(" | Auto-solving, %d to go", len(g.playback))
	}
	dst.DrawTextWithColor(0, 2, " "+status, platformcore.ColorGray)

	controls := " ↑/↓: Select | ←/→: Push | U: Undo | H: Hint | V: Solve | R: Restart"
	dst.DrawTextWithColor(0, 3, controls, platformcore.ColorGray)
}

// selectionLabel describes the selected movable for the HUD.
func (g *Game) selectionLabel() string {
	if g.state == nil || len(g.state.Movables) == 0 {
		return "Nothing to push"
	}
	m := g.state.Movables[g.selected]
	label := fmt.Sprintf("Selected #%d %s", g.selected, m.Color)
	if m.Kind == core.KindBlock {
		label = fmt.Sprintf("Selected #%d block", g.selected)
	}
	if m.Anchored {
		label += " (anchored)"
	}
	return label
}

// moveLabel renders a solver move for humans, e.g. "#2 left".
func moveLabel(m solver.Move) string {
	d := "right"
	if m.Dir == core.DirLeft {
		d = "left"
	}
	return fmt.Sprintf("#%d %s", m.Index, d)
}

// renderBoard draws the puzzle grid with scaled cells.
func (g *Game) renderBoard(dst *platformcore.Screen) {
	for y := 0; y < g.state.H; y++ {
		for x := 0; x < g.state.W; x++ {
			c := core.C(x, y)
			screenX := g.gridOffsetX + x*g.cellW
			screenY := g.gridOffsetY + y*g.cellH

			switch {
			case g.state.LookupTile(c):
				g.fillCell(dst, screenX, screenY, '█', platformcore.ColorGray)
			default:
				idx := g.state.LookupMovable(c)
				if idx < 0 {
					g.fillCell(dst, screenX, screenY, '·', platformcore.ColorGray)
					continue
				}
				m := g.state.Movables[idx]
				ch := '█'
				if m.Anchored {
					ch = '▓'
				}
				g.fillCell(dst, screenX, screenY, ch, g.pieceColor(m, idx == g.selected))
				if showIndices && idx < 10 {
					dst.SetWithColor(screenX, screenY, rune('0'+idx), platformcore.ColorWhite)
				}
			}
		}
	}
}

// fillCell paints one board cell as a cellW×cellH block.
func (g *Game) fillCell(dst *platformcore.Screen, x, y int, ch rune, color platformcore.Color) {
	for cy := 0; cy < g.cellH; cy++ {
		for cx := 0; cx < g.cellW; cx++ {
			dst.SetWithColor(x+cx, y+cy, ch, color)
		}
	}
}

// pieceColor maps a movable to a platform color. The selected movable gets
// the bright variant so it stands out.
func (g *Game) pieceColor(m core.Movable, selected bool) platformcore.Color {
	switch m.Color {
	case core.ColorRed:
		if selected {
			return platformcore.ColorBrightRed
		}
		return platformcore.ColorRed
	case core.ColorGreen:
		if selected {
			return platformcore.ColorBrightGreen
		}
		return platformcore.ColorGreen
	case core.ColorBlue:
		if selected {
			return platformcore.ColorBrightBlue
		}
		return platformcore.ColorBlue
	case core.ColorYellow:
		if selected {
			return platformcore.ColorBrightYellow
		}
		return platformcore.ColorYellow
	default:
		if selected {
			return platformcore.ColorBrightWhite
		}
		return platformcore.ColorWhite
	}
}

// renderOverlay draws a centered message box over the board.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	w := dst.Width()
	h := dst.Height()

	boxW := platformcore.Max(len([]rune(line1)), len([]rune(line2))) + 4
	boxH := 5
	box := platformcore.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCenteredWithColor(box.Y+3, line2, platformcore.ColorGray)
}
