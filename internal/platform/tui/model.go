package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/platform/record"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

// messageTTL is how long an event message stays on screen, in seconds.
const messageTTL = 1.5

// GameModel is the Bubble Tea model for one arkanoid game. It owns the
// loop: every tick message advances it by the wall-clock time since the
// previous tick, and key and mouse input is forwarded between ticks.
type GameModel struct {
	loop       *arkanoid.Loop
	recorder   *record.Recorder
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	logger     *log.Logger
	paddleStep float64 // World units per key press

	last       time.Time // Zero until the first tick
	paused     bool
	highScore  int
	message    string
	messageTTL float64
	dragging   bool
	dragX      int
	quitting   bool
	backToMenu bool
	exitOnBack bool // Standalone program: going back ends it
}

// NewGameModel creates a game model around a freshly built loop.
// store may be nil; scores are then not persisted.
func NewGameModel(loop *arkanoid.Loop, store *storage.Store, cfg core.RuntimeConfig, paddleStep float64, logger *log.Logger) GameModel {
	cfg = cfg.Normalize()
	if logger == nil {
		logger = log.New(io.Discard)
	}

	levelID := loop.Layout().LevelID

	var saver record.RunSaver
	highScore := 0
	if store != nil {
		saver = store
		if hs, err := store.HighScore(levelID); err == nil {
			highScore = hs
		} else {
			logger.Warn("cannot load high score", "level", levelID, "error", err)
		}
	}

	return GameModel{
		loop:       loop,
		recorder:   record.New(saver, levelID, logger),
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		logger:     logger,
		paddleStep: paddleStep,
		highScore:  highScore,
	}
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.FPS)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.finish()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionLeft:
		if !m.paused {
			m.loop.MovePaddle(-m.paddleStep)
		}
	case core.ActionRight:
		if !m.paused {
			m.loop.MovePaddle(m.paddleStep)
		}
	case core.ActionLaunch:
		if !m.paused {
			m.loop.LaunchBall()
		}
	case core.ActionPause:
		m.paused = !m.paused
	case core.ActionRestart:
		m.finish()
		if err := m.loop.Restart(); err != nil {
			m.logger.Error("restart failed", "error", err)
		}
		m.paused = false
		m.observe(m.loop.Events())
	case core.ActionBack:
		// Leaving mid-game needs a pause first so a stray key does not end a run
		if m.paused {
			m.finish()
			m.backToMenu = true
			if m.exitOnBack {
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

// handleMouse moves the paddle with a left-button drag.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.dragX = msg.X
		}
	case tea.MouseActionMotion:
		if m.dragging && !m.paused {
			_, vp := PlayfieldLayout(m.screen.Width(), m.screen.Height(), m.loop.Layout().Playfield)
			if dx := msg.X - m.dragX; dx != 0 {
				m.loop.MovePaddle(vp.CellsToWorldX(dx))
			}
			m.dragX = msg.X
		}
	case tea.MouseActionRelease:
		m.dragging = false
	}
	return m, nil
}

// handleTick advances the loop by the time since the previous tick.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	elapsed := 0.0
	if !m.last.IsZero() {
		elapsed = now.Sub(m.last).Seconds()
	}
	m.last = now

	if m.paused {
		return m, tickCmd(m.config.FPS)
	}

	if err := m.loop.Tick(elapsed); err != nil {
		if errors.Is(err, arkanoid.ErrStep) {
			m.logger.Warn("frame skipped", "error", err)
		} else {
			m.logger.Error("tick failed", "error", err)
			m.show("cannot start a new game")
		}
	}

	m.observe(m.loop.Events())

	if m.messageTTL > 0 {
		m.messageTTL -= elapsed
		if m.messageTTL <= 0 {
			m.message = ""
		}
	}

	return m, tickCmd(m.config.FPS)
}

// observe turns loop events into messages and stored runs.
func (m *GameModel) observe(events []arkanoid.Event) {
	game := m.loop.Game()
	m.recorder.Observe(events, game.TotalBricks, m.loop.Ticks())

	for _, ev := range events {
		switch ev.Type {
		case arkanoid.EventBallLost:
			if ev.Lives > 0 {
				m.show(fmt.Sprintf("ball lost, %d left", ev.Lives))
			}
		case arkanoid.EventGameOver:
			m.highScore = max(m.highScore, ev.Score)
			m.show(fmt.Sprintf("GAME OVER  score %d", ev.Score))
		case arkanoid.EventLevelWon:
			m.highScore = max(m.highScore, ev.Score)
		}
	}
}

func (m *GameModel) show(text string) {
	m.message = text
	m.messageTTL = messageTTL
}

// finish records the current run when the player leaves.
func (m *GameModel) finish() {
	game := m.loop.Game()
	m.recorder.Quit(game.Score, game.TotalBricks, m.loop.Ticks())
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	m.draw()

	dir := filepath.Join(home, ".arkanoid", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.loop.Layout().LevelID, timestamp)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// draw renders the current frame into the screen buffer.
func (m GameModel) draw() {
	DrawFrame(m.screen, m.loop.Frame(), m.loop.Layout().Playfield, HUD{
		HighScore: m.highScore,
		Paused:    m.paused,
		Message:   m.message,
		Help:      true,
	})
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.draw()
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Paused reports whether the game is paused.
func (m GameModel) Paused() bool {
	return m.paused
}

// Message returns the event message currently shown, if any.
func (m GameModel) Message() string {
	return m.message
}

// Run starts the Bubble Tea program for one game and blocks until the
// player quits or goes back. It reports whether the player asked for the
// menu.
func Run(loop *arkanoid.Loop, store *storage.Store, cfg core.RuntimeConfig, paddleStep float64, logger *log.Logger) (bool, error) {
	model := NewGameModel(loop, store, cfg, paddleStep, logger)
	model.exitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse drags move the paddle
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if gm, ok := final.(GameModel); ok {
		return gm.BackToMenu(), nil
	}
	return false, nil
}
