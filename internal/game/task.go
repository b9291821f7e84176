package game

import "time"

// Task is one unit of in-game work. It is unassigned while PlayerID is
// empty; at most one live expiry timer exists per task, guarded by expireSeq
// so a fire racing its own cancellation is discarded.
type Task struct {
	ID       string
	Title    string
	PlayerID string
	Expire   time.Duration

	expireSeq   int
	expireTimer *time.Timer
}

func (t *Task) assigned() bool { return t.PlayerID != "" }

// stopExpiry cancels any pending expiry and invalidates fires already in
// flight.
func (t *Task) stopExpiry() {
	t.expireSeq++
	if t.expireTimer != nil {
		t.expireTimer.Stop()
		t.expireTimer = nil
	}
}

// Action is the player-facing trigger paired with the task of the same id.
// Whoever holds the action can complete the task, regardless of which player
// the task itself is assigned to.
type Action struct {
	ID       string
	Title    string
	PlayerID string
}
