package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/minedelve/internal/game"
	"github.com/samdwyer/minedelve/internal/world"
)

// Rows at the bottom reserved for the status line and message log.
const hudRows = 6

// Renderer handles drawing the game to the screen. The map viewport
// is a camera centered on the player; the bottom rows show the status
// line and the tail of the message log.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws one frame of the current run.
func (r *Renderer) Render(state *game.State) {
	r.screen.Clear()

	width, height := r.screen.Size()
	viewHeight := height - hudRows
	if viewHeight < 1 {
		viewHeight = 1
	}

	level := state.Level()
	player := state.Player()
	camX := player.X - width/2
	camY := player.Y - viewHeight/2

	for sy := 0; sy < viewHeight; sy++ {
		for sx := 0; sx < width; sx++ {
			wx, wy := camX+sx, camY+sy
			terrain := level.Terrain(wx, wy)
			if terrain == world.TerrainEmpty {
				continue
			}
			r.screen.SetContent(sx, sy, terrain.Rune(), terrainStyle(terrain))
			if amount := level.TreasureAt(wx, wy); amount > 0 && terrain == world.TerrainFloor {
				r.screen.SetContent(sx, sy, '$', tcell.StyleDefault.Foreground(tcell.ColorGold))
			}
		}
	}

	// Fighters on top, the player last so nothing covers it.
	for i := len(state.Fighters) - 1; i >= 0; i-- {
		f := &state.Fighters[i]
		sx, sy := f.X-camX, f.Y-camY
		if sx < 0 || sx >= width || sy < 0 || sy >= viewHeight {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		if i == 0 {
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
		}
		if !f.Alive() {
			style = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
		}
		r.screen.SetContent(sx, sy, f.Glyph, style)
	}

	r.renderHUD(state, viewHeight)
	r.screen.Show()
}

func (r *Renderer) renderHUD(state *game.State, top int) {
	player := state.Player()
	status := fmt.Sprintf("HP %d/%d  Arm %d  Leg %d  Finger %d  Minerals %d  Depth %d  Round %d",
		player.Stats.Health, player.Stats.MaxHealth,
		player.Stats.Arm, player.Stats.Leg, player.Stats.Finger,
		player.Stats.Treasure, state.CurrentLevel+1, state.Round)
	r.screen.DrawText(0, top, status, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))

	msgStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, msg := range state.Log.Tail(hudRows - 1) {
		r.screen.DrawText(0, top+1+i, msg.Text, msgStyle)
	}

	if state.StatIncreasePending {
		prompt := "Deeper already! Choose a stat to raise: [1] arm  [2] leg  [3] finger  [4] health"
		r.screen.DrawText(0, top-1, prompt, tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true))
	}
	if !player.Alive() {
		r.screen.DrawText(0, top-1, "You have been incapacitated. Press q to quit.",
			tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	}
	if state.Levels[len(state.Levels)-1].FinalTreasureFound {
		r.screen.DrawText(0, top-1, "The mother lode is yours! Press q to quit and submit your run.",
			tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true))
	}
}

func terrainStyle(t world.Terrain) tcell.Style {
	switch t {
	case world.TerrainWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.TerrainFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case world.TerrainDoor, world.TerrainDoorOpen:
		return tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown)
	case world.TerrainLockedDoor:
		return tcell.StyleDefault.Foreground(tcell.ColorOrange)
	case world.TerrainExit:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	case world.TerrainFinalTreasure:
		return tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	default:
		return tcell.StyleDefault
	}
}
