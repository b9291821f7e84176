package game

// Event names carried over the transport. Payloads are JSON-serializable.
const (
	// client → server
	EventPlayerReady   = "player:ready"
	EventPlayerLeave   = "player:leave"
	EventGameJoin      = "game:join"
	EventActionExecute = "action:execute"

	// server → client
	EventPlayerAssigned  = "player:assigned"
	EventPlayerJoined    = "player:joined"
	EventPlayerLeft      = "player:left"
	EventPlayerList      = "player:list"
	EventGamePending     = "game:pending"
	EventGameWait        = "game:wait"
	EventGamePrepare     = "game:prepare"
	EventGameStarting    = "game:starting"
	EventGameStart       = "game:start"
	EventActionsAssigned = "actions:assigned"
	EventTaskAssigned    = "task:assigned"
	EventGameProgress    = "game:progress"
	EventGameEnded       = "game:ended"
)

// client → server
type ReadyPayload struct {
	Ready bool `json:"ready"`
}

type JoinPayload struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
}

type ExecutePayload struct {
	ID string `json:"id"`
}

// server → client
type IDPayload struct {
	ID string `json:"id"`
}

type RosterPayload struct {
	Players []PlayerInfo `json:"players"`
}

type DurationPayload struct {
	DurationMS int64 `json:"duration_ms"`
}

// StartPayload is the lobby's private start notice; the session-side
// game:start broadcast carries an empty payload instead.
type StartPayload struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
}

type ActionRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ActionsPayload struct {
	Actions []ActionRef `json:"actions"`
}

type TaskPayload struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ExpireMS int64  `json:"expire_ms"`
}

type ProgressPayload struct {
	Percent float64 `json:"percent"`
}

type EndedPayload struct {
	Win bool `json:"win"`
}
