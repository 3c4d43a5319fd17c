package pipeline

import (
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tasercake/beatbrain/audioio"
)

// ProgressFunc observes per-item batch progress. done counts processed items
// (converted or skipped) out of total; item is the source path just finished.
type ProgressFunc func(done, total int, item string)

// SkippedItem records one source whose decode failed during a batch.
type SkippedItem struct {
	Path string
	Err  error
}

// Summary reports the outcome of one batch run.
type Summary struct {
	// Converted counts items that produced output.
	Converted int
	// Skipped lists items dropped because their audio could not be decoded.
	Skipped []SkippedItem
}

// Pipeline runs conversions with a fixed Config. Logger defaults to
// slog.Default; Progress may be nil.
type Pipeline struct {
	Config   Config
	Logger   *slog.Logger
	Progress ProgressFunc
}

// New returns a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	return &Pipeline{Config: cfg}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) progress(done, total int, item string) {
	if p.Progress != nil {
		p.Progress(done, total, item)
	}
}

type itemFunc func(src string) error

// run applies fn to every item after the resume offset. A decode failure is
// isolated to its item: logged, recorded in the summary, and the batch moves
// on. Any other error is fatal for the batch. With parallel set, items are
// distributed over a bounded worker pool; each item writes a disjoint output
// subtree, so workers share nothing but the pool itself.
func (p *Pipeline) run(items []string, fn itemFunc, parallel bool) (*Summary, error) {
	if skip := p.Config.Skip; skip > 0 {
		if skip >= len(items) {
			items = nil
		} else {
			items = items[skip:]
		}
	}
	total := len(items)
	sum := &Summary{}

	if !parallel || p.Config.workers() == 1 {
		for i, item := range items {
			if err := fn(item); err != nil {
				if !errors.Is(err, audioio.ErrDecode) {
					return sum, err
				}
				p.logger().Warn("skipping undecodable item", "path", item, "error", err)
				sum.Skipped = append(sum.Skipped, SkippedItem{Path: item, Err: err})
			} else {
				sum.Converted++
			}
			p.progress(i+1, total, item)
		}
		return sum, nil
	}

	var (
		mu   sync.Mutex
		done int
		g    errgroup.Group
	)
	g.SetLimit(p.Config.workers())
	for _, item := range items {
		item := item
		g.Go(func() error {
			err := fn(item)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if !errors.Is(err, audioio.ErrDecode) {
					return err
				}
				p.logger().Warn("skipping undecodable item", "path", item, "error", err)
				sum.Skipped = append(sum.Skipped, SkippedItem{Path: item, Err: err})
			} else {
				sum.Converted++
			}
			done++
			p.progress(done, total, item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	return sum, nil
}
