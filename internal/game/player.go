package game

// idAlphabet is the pool of single-character display ids a lobby can hand
// out; its size is the lobby's hard capacity.
const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Player is one connected participant. The lobby owns the record while the
// player waits; a session seeds its own copy when the match is created and
// attaches its own liveness watch.
type Player struct {
	ID    string
	Ready bool
	Conn  Conn

	unwatch func()
}

func (p *Player) stopWatch() {
	if p.unwatch != nil {
		p.unwatch()
		p.unwatch = nil
	}
}

// PlayerInfo is the roster entry broadcast to clients.
type PlayerInfo struct {
	ID    string `json:"id"`
	Ready bool   `json:"ready"`
}
