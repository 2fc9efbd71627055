// Package record persists finished arkanoid runs from the loop's events.
package record

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/games/arkanoid"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

// RunSaver persists scores and runs. *storage.Store implements it.
type RunSaver interface {
	SaveScore(levelID string, score int) (int64, error)
	SaveRun(run storage.RunRecord) (int64, error)
}

var _ RunSaver = (*storage.Store)(nil)

// Recorder turns game-over and level-won events into stored runs.
// A nil saver makes it a no-op, so front ends can run without a database.
type Recorder struct {
	saver   RunSaver
	levelID string
	logger  *log.Logger
	now     func() time.Time

	started   time.Time
	startTick uint64
	saved     int
}

// New creates a recorder for one level.
func New(saver RunSaver, levelID string, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Recorder{
		saver:   saver,
		levelID: levelID,
		logger:  logger,
		now:     time.Now,
	}
	r.started = r.now()
	return r
}

// Observe inspects one tick's events. total and ticks describe the loop
// after the tick.
func (r *Recorder) Observe(events []arkanoid.Event, total int, ticks uint64) {
	for _, ev := range events {
		switch ev.Type {
		case arkanoid.EventGameOver:
			r.save(storage.OutcomeGameOver, ev.Score, total, ticks)
		case arkanoid.EventLevelWon:
			r.save(storage.OutcomeLevelWon, ev.Score, total, ticks)
		case arkanoid.EventHardReset:
			r.started = r.now()
			r.startTick = ticks
		}
	}
}

// Quit records an unfinished run, if anything was scored.
func (r *Recorder) Quit(score, total int, ticks uint64) {
	if score > 0 {
		r.save(storage.OutcomeQuit, score, total, ticks)
	}
}

// Saved returns the number of runs stored so far.
func (r *Recorder) Saved() int { return r.saved }

func (r *Recorder) save(outcome string, score, total int, ticks uint64) {
	if r.saver == nil {
		return
	}

	run := storage.RunRecord{
		LevelID:     r.levelID,
		Score:       score,
		TotalBricks: total,
		Outcome:     outcome,
		Duration:    int(r.now().Sub(r.started).Seconds()),
		Ticks:       int64(ticks - r.startTick), //#nosec G115 -- tick counts fit
	}
	if _, err := r.saver.SaveRun(run); err != nil {
		r.logger.Error("cannot save run", "level", r.levelID, "error", err)
		return
	}
	if score > 0 {
		if _, err := r.saver.SaveScore(r.levelID, score); err != nil {
			r.logger.Error("cannot save score", "level", r.levelID, "error", err)
		}
	}
	r.saved++
	r.logger.Info("run saved", "level", r.levelID, "outcome", outcome, "score", score)
}
