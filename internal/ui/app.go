package ui

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/samdwyer/minedelve/internal/game"
)

// App runs the interactive terminal client for one dungeon run. It
// owns the screen, translates key events into commands, and writes
// the quicksave on exit so the run can be resumed or submitted.
type App struct {
	screen   *Screen
	renderer *Renderer
	dungeon  *game.Dungeon
	savePath string
	log      *zap.Logger
	running  bool
}

// NewApp creates the terminal client around an existing run.
func NewApp(dungeon *game.Dungeon, savePath string, log *zap.Logger) (*App, error) {
	screen, err := NewScreen()
	if err != nil {
		return nil, err
	}
	return &App{
		screen:   screen,
		renderer: NewRenderer(screen),
		dungeon:  dungeon,
		savePath: savePath,
		log:      log,
		running:  true,
	}, nil
}

// Run executes the main loop until the player quits, then writes the
// quicksave.
func (a *App) Run(ctx context.Context) error {
	defer a.screen.Close()

	for a.running {
		a.renderer.Render(a.dungeon.State())
		if err := a.handleInput(ctx); err != nil {
			return err
		}
	}

	return a.save()
}

func (a *App) handleInput(ctx context.Context) error {
	switch ev := a.screen.PollEvent().(type) {
	case *tcell.EventKey:
		return a.handleKeyEvent(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return nil
}

func (a *App) handleKeyEvent(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.running = false
		return nil

	case tcell.KeyUp:
		return a.apply(game.Command{Kind: game.MoveUp})
	case tcell.KeyDown:
		return a.apply(game.Command{Kind: game.MoveDown})
	case tcell.KeyLeft:
		return a.apply(game.Command{Kind: game.MoveLeft})
	case tcell.KeyRight:
		return a.apply(game.Command{Kind: game.MoveRight})

	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return nil
}

func (a *App) handleRune(r rune) error {
	switch r {
	case 'q', 'Q':
		a.running = false
	case 'k', 'w':
		return a.apply(game.Command{Kind: game.MoveUp})
	case 'j', 's':
		return a.apply(game.Command{Kind: game.MoveDown})
	case 'h':
		return a.apply(game.Command{Kind: game.MoveLeft})
	case 'l', 'd':
		return a.apply(game.Command{Kind: game.MoveRight})
	case 'a':
		return a.apply(game.Command{Kind: game.MoveLeft})
	case '1':
		return a.apply(game.Command{Kind: game.LevelUp, Stat: game.StatArm})
	case '2':
		return a.apply(game.Command{Kind: game.LevelUp, Stat: game.StatLeg})
	case '3':
		return a.apply(game.Command{Kind: game.LevelUp, Stat: game.StatFinger})
	case '4':
		return a.apply(game.Command{Kind: game.LevelUp, Stat: game.StatHealth})
	}
	return nil
}

func (a *App) apply(cmd game.Command) error {
	// The stat prompt swallows movement until the point is spent.
	if a.dungeon.State().StatIncreasePending && cmd.Kind != game.LevelUp {
		return nil
	}
	if err := a.dungeon.Apply(cmd); err != nil {
		a.log.Error("command failed", zap.String("kind", string(cmd.Kind)), zap.Error(err))
		return err
	}
	return nil
}

func (a *App) save() error {
	data, err := a.dungeon.ToBytes()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.savePath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(a.savePath, data, 0o644); err != nil {
		return err
	}
	a.log.Info("run saved", zap.String("path", a.savePath), zap.Uint64("round", a.dungeon.Round()))
	return nil
}
