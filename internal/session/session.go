// Package session owns a loaded game for the lifetime of one interactive
// run: the level index, the completion tracker, and the outbound message
// stream to the display layer. It turns editor events (diagnostics, focus,
// cursor moves) and file-system invalidations into messages.
//
// A Session is driven from a single goroutine; none of its methods may be
// called concurrently.
package session

import (
	"context"
	"slices"

	"github.com/papapumpkin/orrery/internal/completion"
	"github.com/papapumpkin/orrery/internal/game"
	"github.com/papapumpkin/orrery/internal/layout"
	"github.com/papapumpkin/orrery/internal/lean"
	"github.com/papapumpkin/orrery/internal/level"
	"github.com/papapumpkin/orrery/internal/progress"
	"github.com/papapumpkin/orrery/internal/telemetry"
)

// GoalSource answers the proof goals at a position in a solution file.
// *lean.RPCGoals satisfies it.
type GoalSource interface {
	Goals(ctx context.Context, path string, pos lean.Position) ([]lean.Goal, error)
}

// Options configures a Session. Every field is optional.
type Options struct {
	Rules     completion.Rules
	Goals     GoalSource
	Telemetry *telemetry.Emitter
	Warn      func(format string, args ...any)
}

// Session is the live state behind one display.
type Session struct {
	sink Sink
	opts Options

	game    *game.Game
	byPath  map[string]level.Level
	tracker *completion.Tracker
	active  string
	epoch   string
}

// New returns a session with no game loaded that publishes to sink.
func New(sink Sink, opts Options) *Session {
	return &Session{
		sink:    sink,
		opts:    opts,
		byPath:  make(map[string]level.Level),
		tracker: completion.NewTracker(opts.Rules),
	}
}

// Load replaces the loaded game, its level index and every cached status in
// one step, then publishes the tree. If a level is active it is re-sent.
func (s *Session) Load(g *game.Game) {
	byPath := make(map[string]level.Level, len(g.Levels))
	for _, lv := range g.Levels {
		byPath[lv.SolutionPath] = lv
	}
	tracker := completion.NewTracker(s.opts.Rules)
	tracker.ReadFile = s.tracker.ReadFile

	s.endEpoch()
	s.game, s.byPath, s.tracker = g, byPath, tracker
	s.epoch = telemetry.NewEpochID()
	s.emit(telemetry.Event{Kind: telemetry.KindEpochStart, EpochID: s.epoch})
	s.emit(telemetry.Event{
		Kind:    telemetry.KindLoad,
		EpochID: s.epoch,
		Path:    g.Paths.Root,
		Data: map[string]int{
			"levels": len(g.Levels),
			"worlds": len(g.Worlds()),
			"edges":  len(g.Edges),
		},
	})

	s.publishTree()
	if lv, ok := s.byPath[s.active]; ok {
		s.publishLevel(lv)
	}
}

// Reload scans the game at p and swaps it in. On failure the loaded game
// is kept and the error returned.
func (s *Session) Reload(p game.Paths) error {
	g, err := game.Load(p, s.warn)
	if err != nil {
		return err
	}
	s.Load(g)
	return nil
}

// Clear drops the loaded game and publishes Empty.
func (s *Session) Clear() {
	s.endEpoch()
	s.game = nil
	s.byPath = make(map[string]level.Level)
	s.tracker.Reset()
	s.sink.Publish(Empty{})
}

// Close ends the telemetry epoch.
func (s *Session) Close() {
	s.endEpoch()
}

// Game returns the loaded game, or nil.
func (s *Session) Game() *game.Game { return s.game }

// Levels returns the loaded levels in their total order.
func (s *Session) Levels() []level.Level {
	if s.game == nil {
		return nil
	}
	return s.game.Levels
}

// Level returns the level whose solution file is path.
func (s *Session) Level(path string) (level.Level, bool) {
	lv, ok := s.byPath[path]
	return lv, ok
}

// Status returns the current status of the solution file at path.
func (s *Session) Status(path string) completion.Status {
	return s.tracker.Status(path)
}

// Tracker exposes the status cache.
func (s *Session) Tracker() *completion.Tracker { return s.tracker }

// NextPath returns the solution path of the first unsolved level, or "".
func (s *Session) NextPath() string {
	return s.Snapshot().NextPath
}

// Snapshot aggregates the current progress.
func (s *Session) Snapshot() progress.Snapshot {
	if s.game == nil {
		return progress.Snapshot{}
	}
	return progress.Aggregate(s.game.Levels, s.game.Edges, s.tracker)
}

// Tree returns the current progress and its layout.
func (s *Session) Tree() (progress.Snapshot, layout.Layout) {
	snap := s.Snapshot()
	return snap, layout.Compute(Worlds(snap), snap.Edges)
}

// Worlds converts aggregated progress into layout input.
func Worlds(snap progress.Snapshot) []layout.World {
	out := make([]layout.World, 0, len(snap.Worlds))
	for _, w := range snap.Worlds {
		lw := layout.World{Name: w.Name}
		for _, l := range w.Levels {
			lw.Levels = append(lw.Levels, l.Level)
		}
		out = append(out, lw)
	}
	return out
}

// DiagnosticsChanged records fresh diagnostics for the reported files.
// Files that are not solutions of a loaded level are ignored. If active is
// among them, its status is re-sent, and the full level too once complete.
// The tree is always re-published.
func (s *Session) DiagnosticsChanged(diags map[string][]completion.Diagnostic, active string) {
	if active != "" {
		s.active = active
	}
	activeChanged := false
	for path, ds := range diags {
		if _, ok := s.byPath[path]; !ok {
			continue
		}
		before, hadBefore := s.tracker.Cached(path)
		after := s.tracker.Observe(path, ds)
		if !hadBefore || before != after {
			s.emit(telemetry.Event{
				Kind:    telemetry.KindStatusChange,
				EpochID: s.epoch,
				Path:    path,
				Data:    map[string]string{"from": string(before), "to": string(after)},
			})
		}
		if path == s.active {
			activeChanged = true
		}
	}

	if activeChanged {
		st := s.tracker.Status(s.active)
		s.sink.Publish(StatusUpdate{Path: s.active, Status: st})
		if st.Complete() {
			s.publishLevel(s.byPath[s.active])
		}
	}
	s.publishTree()
}

// ActiveChanged records the focused file. A solution of a loaded level gets
// a full level update; any other file leaves the display as it was.
func (s *Session) ActiveChanged(path string) {
	lv, ok := s.byPath[path]
	if !ok {
		return
	}
	s.active = path
	s.publishLevel(lv)
}

// SelectionChanged fetches the goals at pos and publishes them. Goal lookup
// failures publish an empty goal list.
func (s *Session) SelectionChanged(ctx context.Context, path string, pos lean.Position) {
	if _, ok := s.byPath[path]; !ok || s.opts.Goals == nil {
		return
	}
	goals, err := s.opts.Goals.Goals(ctx, path, pos)
	if err != nil {
		s.warn("goals for %s: %v", path, err)
		goals = nil
	}
	s.sink.Publish(GoalsUpdate{Path: path, Goals: goals})
}

// Invalidate drops cached statuses for paths rewritten outside the session,
// then re-publishes the tree.
func (s *Session) Invalidate(paths ...string) {
	if len(paths) == 0 {
		return
	}
	s.tracker.Invalidate(paths...)
	s.emit(telemetry.Event{
		Kind:    telemetry.KindInvalidate,
		EpochID: s.epoch,
		Data:    map[string][]string{"paths": paths},
	})
	s.publishTree()
	if lv, ok := s.byPath[s.active]; ok && slices.Contains(paths, s.active) {
		s.publishLevel(lv)
	}
}

func (s *Session) publishLevel(lv level.Level) {
	st := s.tracker.Status(lv.SolutionPath)
	u := LevelUpdate{Level: lv, Status: st, Hints: lv.VisibleHints()}
	if st.Complete() {
		u.Conclusion = lv.Conclusion
	}
	s.sink.Publish(u)
}

func (s *Session) publishTree() {
	if s.game == nil {
		return
	}
	snap, lay := s.Tree()
	s.sink.Publish(TreeUpdate{Snapshot: snap, Layout: lay})
	s.sink.Publish(HasNext{Value: snap.HasNext()})
}

func (s *Session) endEpoch() {
	if s.epoch == "" {
		return
	}
	s.emit(telemetry.Event{Kind: telemetry.KindEpochDone, EpochID: s.epoch})
	s.epoch = ""
}

func (s *Session) emit(evt telemetry.Event) {
	if err := s.opts.Telemetry.Emit(evt); err != nil {
		s.warn("%v", err)
	}
}

func (s *Session) warn(format string, args ...any) {
	if s.opts.Warn != nil {
		s.opts.Warn(format, args...)
	}
}
