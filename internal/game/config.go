package game

import "time"

// Config carries every tunable of the lobby and session state machines.
type Config struct {
	// StartDelay is the lobby's debounce between "enough players ready"
	// and actually creating a match.
	StartDelay time.Duration

	// JoinGrace runs after the last expected player joins a session,
	// before the prepare phase begins.
	JoinGrace time.Duration

	PrepareDuration  time.Duration
	StartingDuration time.Duration

	// TaskExpiry is how long a player has to get their task's action
	// executed before the crew is penalized.
	TaskExpiry time.Duration

	// GameDuration divided by WinScore gives the score-tick interval; the
	// losing threshold rises by one each tick, so the match cannot outlast
	// GameDuration.
	GameDuration time.Duration
	WinScore     int

	Reward  int
	Penalty int
}

func DefaultConfig() Config {
	return Config{
		StartDelay:       2 * time.Second,
		JoinGrace:        time.Second,
		PrepareDuration:  2 * time.Second,
		StartingDuration: time.Second,
		TaskExpiry:       5 * time.Second,
		GameDuration:     3 * time.Minute,
		WinScore:         100,
		Reward:           5,
		Penalty:          5,
	}
}

func (c Config) tickInterval() time.Duration {
	if c.WinScore <= 0 {
		return c.GameDuration
	}
	return c.GameDuration / time.Duration(c.WinScore)
}
