// Package registry turns a level ID into a ready-to-tick game loop.
// Levels register themselves with the level package; the registry joins
// them with the loaded configuration and a Box2D physics world so the
// front ends can create games without knowing how they are wired.
package registry

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/physics"
)

// Builder creates game loops from one configuration.
type Builder struct {
	cfg    config.Config
	logger *log.Logger
}

// NewBuilder returns a builder for the given configuration.
// The configuration must already be validated.
func NewBuilder(cfg config.Config, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Builder{cfg: cfg, logger: logger}
}

// Config returns the configuration loops are built with.
func (b *Builder) Config() config.Config {
	return b.cfg
}

// LevelID resolves the level to play: the given ID, else the configured
// level, else the default level.
func (b *Builder) LevelID(id string) string {
	if id != "" {
		return id
	}
	if b.cfg.Gameplay.Level != "" {
		return b.cfg.Gameplay.Level
	}
	return level.DefaultID
}

// Layout builds the world layout for a level.
func (b *Builder) Layout(levelID string) (level.Layout, error) {
	lvl, err := level.Get(b.LevelID(levelID))
	if err != nil {
		return level.Layout{}, fmt.Errorf("registry: %w", err)
	}
	layout, err := level.Build(b.cfg, lvl)
	if err != nil {
		return level.Layout{}, fmt.Errorf("registry: cannot build level %q: %w", lvl.ID, err)
	}
	return layout, nil
}

// Create instantiates a new game loop for the level.
// Returns an error if the level is not registered.
func (b *Builder) Create(levelID string) (*arkanoid.Loop, error) {
	layout, err := b.Layout(levelID)
	if err != nil {
		return nil, err
	}

	opts := physics.OptionsFromConfig(b.cfg.Physics)
	opts.Logger = b.logger.WithPrefix("physics")

	loop, err := arkanoid.New(layout, physics.Factory(opts), arkanoid.Options{
		Lives:    b.cfg.Gameplay.Lives,
		WinDelay: b.cfg.Gameplay.WinDelay,
		Logger:   b.logger.WithPrefix("loop"),
	})
	if err != nil {
		return nil, fmt.Errorf("registry: cannot start level %q: %w", layout.LevelID, err)
	}

	b.logger.Debug("game created", "level", layout.LevelID, "bricks", layout.TotalBricks())
	return loop, nil
}

// List returns the playable levels.
func (b *Builder) List() []level.Info {
	return level.List()
}

// Exists checks if a level with the given ID is registered.
func (b *Builder) Exists(id string) bool {
	return level.Exists(id)
}
