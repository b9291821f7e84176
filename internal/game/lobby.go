package game

import (
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"crewdeck/internal/metrics"
)

// Lobby admits connecting players, tracks their readiness and hands groups
// of ready players off to new sessions. All state is confined to the mailbox
// goroutine.
type Lobby struct {
	cfg      Config
	log      *slog.Logger
	sessions *Registry
	mb       *mailbox

	players map[string]*Player

	startTimer *time.Timer
	startSeq   int
}

func NewLobby(cfg Config, sessions *Registry, log *slog.Logger) *Lobby {
	l := &Lobby{
		cfg:      cfg,
		log:      log.With("coordinator", "lobby"),
		sessions: sessions,
		mb:       newMailbox(),
		players:  make(map[string]*Player),
	}
	return l
}

// Close stops the lobby's event loop. Pending operations are dropped.
func (l *Lobby) Close() {
	l.mb.stop()
}

// AddPlayer admits a new connection, assigns it a free display id and
// announces it to the room. Returns ErrCapacityExceeded once the id alphabet
// is exhausted.
func (l *Lobby) AddPlayer(conn Conn) (*Player, error) {
	var (
		p   *Player
		err error
	)
	if !l.mb.call(func() { p, err = l.addPlayer(conn) }) {
		return nil, ErrNotFound
	}
	return p, err
}

func (l *Lobby) addPlayer(conn Conn) (*Player, error) {
	id, ok := l.freeID()
	if !ok {
		return nil, ErrCapacityExceeded
	}

	p := &Player{ID: id, Conn: conn}
	p.unwatch = conn.Watch(func() {
		l.mb.post(func() { l.playerLost(id) })
	})

	// the newcomer gets only the private assignment; the join announcement
	// and the updated roster go to everyone already present
	conn.Send(EventPlayerAssigned, IDPayload{ID: id})
	l.broadcast(EventPlayerJoined, IDPayload{ID: id})

	l.players[id] = p
	metrics.LobbyPlayers.Set(float64(len(l.players)))

	roster := RosterPayload{Players: l.roster()}
	for _, other := range l.players {
		if other.ID != id {
			other.Conn.Send(EventPlayerList, roster)
		}
	}

	l.log.Info("player joined lobby", "player", id, "waiting", len(l.players))
	return p, nil
}

// freeID picks a random unused id from the alphabet.
func (l *Lobby) freeID() (string, bool) {
	free := make([]string, 0, len(idAlphabet))
	for _, r := range idAlphabet {
		id := string(r)
		if _, used := l.players[id]; !used {
			free = append(free, id)
		}
	}
	if len(free) == 0 {
		return "", false
	}
	return free[rand.IntN(len(free))], true
}

// RemovePlayer is the graceful leave path. The player's liveness watch is
// cancelled so the transport closing afterwards does not double-remove.
func (l *Lobby) RemovePlayer(id string) error {
	err := ErrNotFound
	l.mb.call(func() {
		p, ok := l.players[id]
		if !ok {
			return
		}
		p.stopWatch()
		l.drop(p)
		err = nil
	})
	return err
}

// playerLost handles a liveness watch firing. The watch is already gone, so
// unlike RemovePlayer there is nothing to cancel.
func (l *Lobby) playerLost(id string) {
	p, ok := l.players[id]
	if !ok {
		return
	}
	l.log.Info("player connection lost", "player", id)
	l.drop(p)
}

func (l *Lobby) drop(p *Player) {
	delete(l.players, p.ID)
	metrics.LobbyPlayers.Set(float64(len(l.players)))

	l.broadcast(EventPlayerLeft, IDPayload{ID: p.ID})
	l.broadcastRoster()

	// keep the invariant: a start timer may only be pending while more
	// than one player is ready
	if l.readyCount() <= 1 {
		if l.cancelStart() {
			l.broadcast(EventGameWait, struct{}{})
		}
	}
	l.log.Info("player left lobby", "player", p.ID, "waiting", len(l.players))
}

// ReadyPlayer flips a player's ready flag and re-runs the readiness
// protocol: more than one ready player arms (or re-arms) the start timer,
// anything less cancels it.
func (l *Lobby) ReadyPlayer(id string, ready bool) (*Player, error) {
	var p *Player
	err := ErrNotFound
	l.mb.call(func() {
		var ok bool
		p, ok = l.players[id]
		if !ok {
			return
		}
		err = nil
		p.Ready = ready
		l.broadcastRoster()

		if l.readyCount() > 1 {
			// always replace a pending timer: a reconfirmation
			// restarts the countdown from scratch
			l.scheduleStart()
		} else {
			l.cancelStart()
			l.broadcast(EventGameWait, struct{}{})
		}
	})
	return p, err
}

// Players returns a snapshot of the waiting roster.
func (l *Lobby) Players() []PlayerInfo {
	var infos []PlayerInfo
	l.mb.call(func() { infos = l.roster() })
	return infos
}

func (l *Lobby) scheduleStart() {
	if l.startTimer != nil {
		l.startTimer.Stop()
	}
	l.startSeq++
	seq := l.startSeq
	l.startTimer = l.mb.after(l.cfg.StartDelay, func() { l.startFired(seq) })
	l.broadcast(EventGamePending, DurationPayload{DurationMS: l.cfg.StartDelay.Milliseconds()})
}

func (l *Lobby) cancelStart() bool {
	if l.startTimer == nil {
		return false
	}
	l.startTimer.Stop()
	l.startTimer = nil
	l.startSeq++
	return true
}

// startFired runs when the readiness countdown elapses. The ready set is
// re-evaluated now, not at schedule time: players may have toggled or left
// in between.
func (l *Lobby) startFired(seq int) {
	if seq != l.startSeq || l.startTimer == nil {
		return
	}
	l.startTimer = nil

	var ready []*Player
	for _, p := range l.players {
		if p.Ready {
			ready = append(ready, p)
		}
	}
	if len(ready) <= 1 {
		// the "waiting" notice already went out when the count dropped
		return
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].ID < ready[j].ID })

	ids := make([]string, len(ready))
	for i, p := range ready {
		ids[i] = p.ID
	}
	sess := l.sessions.Create(ids)

	// ownership of the ready players transfers to the session; they join
	// it with their own connection and the session re-attaches liveness
	for _, p := range ready {
		p.stopWatch()
		delete(l.players, p.ID)
		p.Conn.Send(EventGameStart, StartPayload{MatchID: sess.ID(), PlayerID: p.ID})
	}
	metrics.LobbyPlayers.Set(float64(len(l.players)))
	l.broadcastRoster()

	l.log.Info("match created", "match", sess.ID(), "players", ids)
}

func (l *Lobby) readyCount() int {
	n := 0
	for _, p := range l.players {
		if p.Ready {
			n++
		}
	}
	return n
}

func (l *Lobby) roster() []PlayerInfo {
	infos := make([]PlayerInfo, 0, len(l.players))
	for _, p := range l.players {
		infos = append(infos, PlayerInfo{ID: p.ID, Ready: p.Ready})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (l *Lobby) broadcastRoster() {
	l.broadcast(EventPlayerList, RosterPayload{Players: l.roster()})
}

func (l *Lobby) broadcast(event string, payload any) {
	for _, p := range l.players {
		p.Conn.Send(event, payload)
	}
}
