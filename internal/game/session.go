package game

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"crewdeck/internal/catalog"
	"crewdeck/internal/metrics"
)

// State is a session's lifecycle phase.
type State int

const (
	Forming State = iota
	Preparing
	Starting
	Active
	Ended
)

func (s State) String() string {
	switch s {
	case Forming:
		return "forming"
	case Preparing:
		return "preparing"
	case Starting:
		return "starting"
	case Active:
		return "active"
	case Ended:
		return "ended"
	}
	return "unknown"
}

// Session runs one match from player-join through the timed task lifecycle
// to a win/loss verdict. Like the lobby it is a single-goroutine event
// processor; timer fires share the mailbox with client operations.
type Session struct {
	id      string
	cfg     Config
	log     *slog.Logger
	catalog *catalog.Catalog
	release func(id string)
	mb      *mailbox

	state     State
	createdAt time.Time

	expected map[string]struct{}
	players  map[string]*Player
	tasks    map[string]*Task
	actions  map[string]*Action

	// score band: crossing maxScore wins, falling to minScore loses;
	// minScore rises every tick so inaction is a loss
	score    int
	minScore int
	maxScore int

	phaseTimer *time.Timer
	phaseSeq   int
	tickTimer  *time.Timer
	tickSeq    int
}

func newSession(id string, playerIDs []string, cat *catalog.Catalog, cfg Config, log *slog.Logger, release func(id string)) *Session {
	s := &Session{
		id:        id,
		cfg:       cfg,
		log:       log.With("coordinator", "session", "match", id),
		catalog:   cat,
		release:   release,
		mb:        newMailbox(),
		state:     Forming,
		createdAt: time.Now(),
		expected:  make(map[string]struct{}, len(playerIDs)),
		players:   make(map[string]*Player, len(playerIDs)),
		tasks:     make(map[string]*Task),
		actions:   make(map[string]*Action),
		minScore:  0,
		maxScore:  cfg.WinScore,
		score:     cfg.WinScore / 2,
	}
	for _, id := range playerIDs {
		s.expected[id] = struct{}{}
	}
	return s
}

func (s *Session) ID() string { return s.id }

// State reports the current phase; mostly useful for tests and cleanup.
func (s *Session) State() State {
	st := Ended
	s.mb.call(func() { st = s.state })
	return st
}

// Score reports the current score band as (score, min, max).
func (s *Session) Score() (score, minScore, maxScore int) {
	s.mb.call(func() { score, minScore, maxScore = s.score, s.minScore, s.maxScore })
	return score, minScore, maxScore
}

// Join moves a player from the expected roster into the match and attaches a
// fresh liveness watch. Once the last expected player arrives the prepare
// phase is scheduled.
func (s *Session) Join(playerID string, conn Conn) (*Player, error) {
	var p *Player
	err := ErrNotFound
	ok := s.mb.call(func() {
		if s.state != Forming {
			return
		}
		if _, want := s.expected[playerID]; !want {
			return
		}
		delete(s.expected, playerID)

		p = &Player{ID: playerID, Conn: conn}
		p.unwatch = conn.Watch(func() {
			s.mb.post(func() { s.playerLost(playerID) })
		})
		s.players[playerID] = p
		err = nil

		s.log.Info("player joined match", "player", playerID, "joined", len(s.players), "missing", len(s.expected))

		if len(s.expected) == 0 {
			s.schedulePhase(s.cfg.JoinGrace, s.enterPreparing)
		}
	})
	if !ok {
		return nil, ErrNotFound
	}
	return p, err
}

// ExecuteAction completes the task matching the action id, if one is
// currently assigned. Fire-and-forget: unknown or already-completed ids are
// benign client races and ignored.
func (s *Session) ExecuteAction(actionID string) {
	s.mb.post(func() {
		if s.state != Active {
			return
		}
		t := s.tasks[actionID]
		if t == nil || !t.assigned() {
			return
		}
		holder := t.PlayerID
		t.stopExpiry()
		t.PlayerID = ""

		s.score += s.cfg.Reward
		metrics.TasksCompleted.Inc()
		s.log.Debug("action executed", "task", t.ID, "holder", holder, "score", s.score)

		s.reassign(holder, t.ID)
		s.broadcastProgress()
		s.checkEnd()
	})
}

func (s *Session) schedulePhase(d time.Duration, enter func()) {
	if s.phaseTimer != nil {
		s.phaseTimer.Stop()
	}
	s.phaseSeq++
	seq := s.phaseSeq
	s.phaseTimer = s.mb.after(d, func() {
		if seq != s.phaseSeq || s.state == Ended {
			return
		}
		s.phaseTimer = nil
		enter()
	})
}

// enterPreparing draws the match's tasks, deals two actions to every player
// and tags each player's first task. Nothing is announced task-wise until
// the active phase; players only learn their actions here.
func (s *Session) enterPreparing() {
	s.state = Preparing
	s.broadcast(EventGamePrepare, DurationPayload{DurationMS: s.cfg.PrepareDuration.Milliseconds()})

	entries := s.catalog.Draw(2 * len(s.players))
	for _, e := range entries {
		s.tasks[e.ID] = &Task{ID: e.ID, Title: e.Title, Expire: s.cfg.TaskExpiry}
		s.actions[e.ID] = &Action{ID: e.ID, Title: e.Action}
	}

	// shuffle the full action pool and deal it out in chunks of two; map
	// iteration gives the arbitrary player order
	pool := make([]*Action, 0, len(s.actions))
	for _, a := range s.actions {
		pool = append(pool, a)
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	next := 0
	for _, p := range s.players {
		end := min(next+2, len(pool))
		hand := pool[next:end]
		next = end

		refs := make([]ActionRef, len(hand))
		for i, a := range hand {
			a.PlayerID = p.ID
			refs[i] = ActionRef{ID: a.ID, Title: a.Title}
		}
		p.Conn.Send(EventActionsAssigned, ActionsPayload{Actions: refs})
	}

	// one starting task per player; the rest of the draw stays unassigned
	for _, p := range s.players {
		s.reassign(p.ID, "")
	}

	s.log.Info("match preparing", "players", len(s.players), "tasks", len(s.tasks))
	s.schedulePhase(s.cfg.PrepareDuration, s.enterStarting)
}

func (s *Session) enterStarting() {
	s.state = Starting
	s.broadcast(EventGameStarting, DurationPayload{DurationMS: s.cfg.StartingDuration.Milliseconds()})
	s.schedulePhase(s.cfg.StartingDuration, s.enterActive)
}

func (s *Session) enterActive() {
	s.state = Active
	s.broadcast(EventGameStart, struct{}{})

	for _, t := range s.tasks {
		if t.assigned() {
			s.startTask(t)
		}
	}
	s.scheduleTick()
	s.log.Info("match active", "score", s.score, "max", s.maxScore)
}

// startTask notifies the assignee and arms the expiry timer.
func (s *Session) startTask(t *Task) {
	t.stopExpiry()
	seq := t.expireSeq
	t.expireTimer = s.mb.after(t.Expire, func() { s.taskExpired(t.ID, seq) })

	if p := s.players[t.PlayerID]; p != nil {
		p.Conn.Send(EventTaskAssigned, TaskPayload{
			ID:       t.ID,
			Title:    t.Title,
			ExpireMS: t.Expire.Milliseconds(),
		})
	}
}

func (s *Session) taskExpired(taskID string, seq int) {
	if s.state != Active {
		return
	}
	t := s.tasks[taskID]
	if t == nil || seq != t.expireSeq || !t.assigned() {
		// superseded by a completion that raced the fire
		return
	}
	t.expireTimer = nil
	holder := t.PlayerID
	t.PlayerID = ""

	s.score -= s.cfg.Penalty
	metrics.TasksExpired.Inc()
	s.log.Debug("task expired", "task", t.ID, "holder", holder, "score", s.score)

	if s.checkEnd() {
		return
	}
	s.reassign(holder, t.ID)
}

// reassign hands playerID a random currently-unassigned task, preferring one
// other than the task just freed. With nothing available the player idles
// until a completion frees a task.
func (s *Session) reassign(playerID, freedID string) {
	var free, fallback []*Task
	for _, t := range s.tasks {
		if t.assigned() {
			continue
		}
		if t.ID == freedID {
			fallback = append(fallback, t)
			continue
		}
		free = append(free, t)
	}
	if len(free) == 0 {
		free = fallback
	}
	if len(free) == 0 {
		return
	}

	t := free[rand.IntN(len(free))]
	t.PlayerID = playerID
	if s.state == Active {
		s.startTask(t)
	}
}

func (s *Session) scheduleTick() {
	s.tickSeq++
	seq := s.tickSeq
	s.tickTimer = s.mb.after(s.cfg.tickInterval(), func() { s.tickFired(seq) })
}

// tickFired raises the losing threshold and reports progress; a static score
// eventually falls through the rising floor.
func (s *Session) tickFired(seq int) {
	if seq != s.tickSeq || s.state != Active {
		return
	}
	s.minScore++
	s.broadcastProgress()
	if s.checkEnd() {
		return
	}
	s.scheduleTick()
}

// progress reports score relative to the remaining band, clamped to [0,1]
// since the raw ratio is unbounded as the band collapses.
func (s *Session) progress() float64 {
	span := s.maxScore - s.minScore
	if span <= 0 {
		if s.score >= s.maxScore {
			return 1
		}
		return 0
	}
	return math.Min(1, math.Max(0, float64(s.score)/float64(span)))
}

func (s *Session) broadcastProgress() {
	s.broadcast(EventGameProgress, ProgressPayload{Percent: s.progress()})
}

func (s *Session) broadcast(event string, payload any) {
	for _, p := range s.players {
		p.Conn.Send(event, payload)
	}
}

// checkEnd runs after every score-band mutation.
func (s *Session) checkEnd() bool {
	if s.score >= s.maxScore {
		s.end(true)
		return true
	}
	if s.score <= s.minScore {
		s.end(false)
		return true
	}
	return false
}

// playerLost ends the match immediately: a dropped player forfeits for
// everyone, regardless of score.
func (s *Session) playerLost(playerID string) {
	if s.state == Ended {
		return
	}
	if _, ok := s.players[playerID]; !ok {
		return
	}
	s.log.Info("player connection lost, forfeiting match", "player", playerID)
	s.end(false)
}

// abortIfStale reaps a session whose players never finished joining.
func (s *Session) abortIfStale(maxAge time.Duration) {
	s.mb.post(func() {
		if s.state == Forming && time.Since(s.createdAt) > maxAge {
			s.log.Warn("match abandoned while forming", "age", time.Since(s.createdAt))
			s.end(false)
		}
	})
}

// end broadcasts the verdict, tears every timer and watch down and releases
// the registry entry. Terminal: the mailbox stops, so late operations and
// timer fires are dropped.
func (s *Session) end(win bool) {
	if s.state == Ended {
		return
	}
	s.state = Ended
	s.broadcast(EventGameEnded, EndedPayload{Win: win})

	if s.phaseTimer != nil {
		s.phaseTimer.Stop()
		s.phaseTimer = nil
	}
	s.phaseSeq++
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
	s.tickSeq++
	for _, t := range s.tasks {
		t.stopExpiry()
	}
	for _, p := range s.players {
		p.stopWatch()
	}

	outcome := "loss"
	if win {
		outcome = "win"
	}
	metrics.GamesEnded.WithLabelValues(outcome).Inc()
	s.log.Info("match ended", "win", win, "score", s.score, "min", s.minScore, "max", s.maxScore)

	s.release(s.id)
	s.mb.stop()
}
