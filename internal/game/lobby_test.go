package game

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdeck/internal/catalog"
)

func testConfig() Config {
	return Config{
		StartDelay:       40 * time.Millisecond,
		JoinGrace:        10 * time.Millisecond,
		PrepareDuration:  20 * time.Millisecond,
		StartingDuration: 10 * time.Millisecond,
		TaskExpiry:       500 * time.Millisecond,
		GameDuration:     100 * time.Second,
		WinScore:         100,
		Reward:           5,
		Penalty:          5,
	}
}

func newTestLobby(t *testing.T, cfg Config) (*Lobby, *Registry) {
	t.Helper()
	reg := NewRegistry(catalog.Builtin(), cfg, slog.Default())
	l := NewLobby(cfg, reg, slog.Default())
	t.Cleanup(l.Close)
	return l, reg
}

func TestAddPlayerAssignsDistinctIDs(t *testing.T) {
	l, _ := newTestLobby(t, testConfig())

	seen := make(map[string]bool)
	for i := 0; i < len(idAlphabet); i++ {
		p, err := l.AddPlayer(newFakeConn())
		require.NoError(t, err)
		require.Len(t, p.ID, 1)
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}

	_, err := l.AddPlayer(newFakeConn())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestAddPlayerAnnouncements(t *testing.T) {
	l, _ := newTestLobby(t, testConfig())

	connA := newFakeConn()
	pA, err := l.AddPlayer(connA)
	require.NoError(t, err)

	payload, _ := connA.last(EventPlayerAssigned)
	assert.Equal(t, IDPayload{ID: pA.ID}, payload)

	connB := newFakeConn()
	_, err = l.AddPlayer(connB)
	require.NoError(t, err)

	// the existing player hears about the newcomer and gets the roster
	assert.Equal(t, 1, connA.count(EventPlayerJoined))
	roster, ok := connA.last(EventPlayerList)
	require.True(t, ok)
	assert.Len(t, roster.(RosterPayload).Players, 2)

	// the newcomer never hears its own join echoed back
	assert.Equal(t, 0, connB.count(EventPlayerJoined))
	assert.Equal(t, 0, connB.count(EventPlayerList))
}

func TestRemovePlayerBroadcastsOnce(t *testing.T) {
	l, _ := newTestLobby(t, testConfig())

	connA := newFakeConn()
	pA, _ := l.AddPlayer(connA)
	connB := newFakeConn()
	l.AddPlayer(connB)

	require.NoError(t, l.RemovePlayer(pA.ID))
	assert.Equal(t, 1, connB.count(EventPlayerLeft))

	// the watch was cancelled on removal: the transport closing afterwards
	// must not produce a second departure
	connA.close()
	settle()
	assert.Equal(t, 1, connB.count(EventPlayerLeft))

	assert.ErrorIs(t, l.RemovePlayer(pA.ID), ErrNotFound)
}

func TestDisconnectRemovesPlayer(t *testing.T) {
	l, _ := newTestLobby(t, testConfig())

	connA := newFakeConn()
	pA, _ := l.AddPlayer(connA)
	connB := newFakeConn()
	l.AddPlayer(connB)

	connA.close()
	settle()

	assert.Equal(t, 1, connB.count(EventPlayerLeft))
	assert.ErrorIs(t, l.RemovePlayer(pA.ID), ErrNotFound)
}

func TestReadyUnknownPlayer(t *testing.T) {
	l, _ := newTestLobby(t, testConfig())
	_, err := l.ReadyPlayer("Z", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSingleReadyPlayerNeverStarts(t *testing.T) {
	cfg := testConfig()
	l, reg := newTestLobby(t, cfg)

	connA := newFakeConn()
	pA, _ := l.AddPlayer(connA)

	_, err := l.ReadyPlayer(pA.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, connA.count(EventGameWait))
	assert.Equal(t, 0, connA.count(EventGamePending))

	time.Sleep(2 * cfg.StartDelay)
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, connA.count(EventGameStart))
}

func TestReadyPairSchedulesStart(t *testing.T) {
	cfg := testConfig()
	l, reg := newTestLobby(t, cfg)

	connA := newFakeConn()
	pA, _ := l.AddPlayer(connA)
	connB := newFakeConn()
	pB, _ := l.AddPlayer(connB)

	l.ReadyPlayer(pA.ID, true)
	l.ReadyPlayer(pB.ID, true)

	pending, ok := connA.last(EventGamePending)
	require.True(t, ok)
	assert.Equal(t, cfg.StartDelay.Milliseconds(), pending.(DurationPayload).DurationMS)

	startA := connA.waitFor(t, EventGameStart, time.Second).(StartPayload)
	startB := connB.waitFor(t, EventGameStart, time.Second).(StartPayload)

	assert.Equal(t, pA.ID, startA.PlayerID)
	assert.Equal(t, pB.ID, startB.PlayerID)
	assert.Equal(t, startA.MatchID, startB.MatchID)
	assert.Equal(t, 1, reg.Len())

	// both moved out of the lobby
	assert.Empty(t, l.Players())
}

func TestUnreadyCancelsPendingStart(t *testing.T) {
	cfg := testConfig()
	l, reg := newTestLobby(t, cfg)

	connA := newFakeConn()
	pA, _ := l.AddPlayer(connA)
	connB := newFakeConn()
	pB, _ := l.AddPlayer(connB)

	l.ReadyPlayer(pA.ID, true) // solo ready already broadcasts one wait
	l.ReadyPlayer(pB.ID, true)
	require.Equal(t, 1, connA.count(EventGamePending))
	require.Equal(t, 1, connA.count(EventGameWait))

	l.ReadyPlayer(pB.ID, false)
	assert.Equal(t, 2, connA.count(EventGameWait))

	time.Sleep(2 * cfg.StartDelay)
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, connA.count(EventGameStart))
}

func TestReadyToggleReplacesTimer(t *testing.T) {
	cfg := testConfig()
	l, reg := newTestLobby(t, cfg)

	connA := newFakeConn()
	pA, _ := l.AddPlayer(connA)
	connB := newFakeConn()
	pB, _ := l.AddPlayer(connB)

	l.ReadyPlayer(pA.ID, true)
	l.ReadyPlayer(pB.ID, true)
	l.ReadyPlayer(pB.ID, false)
	l.ReadyPlayer(pB.ID, true)
	l.ReadyPlayer(pA.ID, true) // reconfirm while above threshold, replaces again

	connA.waitFor(t, EventGameStart, time.Second)
	settle()

	// rapid toggling must still produce exactly one match
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 1, connA.count(EventGameStart))
	assert.Equal(t, 1, connB.count(EventGameStart))
}

func TestStartFireReevaluatesReadySet(t *testing.T) {
	cfg := testConfig()
	l, reg := newTestLobby(t, cfg)

	conns := make([]*fakeConn, 3)
	players := make([]*Player, 3)
	for i := range conns {
		conns[i] = newFakeConn()
		p, err := l.AddPlayer(conns[i])
		require.NoError(t, err)
		players[i] = p
	}

	for _, p := range players {
		l.ReadyPlayer(p.ID, true)
	}
	// the third player backs out while the timer is pending; two remain
	// ready so the countdown keeps running
	l.ReadyPlayer(players[2].ID, true)
	l.ReadyPlayer(players[2].ID, false)
	l.ReadyPlayer(players[0].ID, true)
	l.ReadyPlayer(players[1].ID, true)

	conns[0].waitFor(t, EventGameStart, time.Second)
	settle()

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 0, conns[2].count(EventGameStart))

	// the unready player stays in the lobby
	infos := l.Players()
	require.Len(t, infos, 1)
	assert.Equal(t, players[2].ID, infos[0].ID)
}

func TestDropBelowThresholdByDisconnect(t *testing.T) {
	cfg := testConfig()
	l, reg := newTestLobby(t, cfg)

	connA := newFakeConn()
	pA, _ := l.AddPlayer(connA)
	connB := newFakeConn()
	pB, _ := l.AddPlayer(connB)

	l.ReadyPlayer(pA.ID, true) // solo ready already broadcasts one wait
	l.ReadyPlayer(pB.ID, true)
	require.Equal(t, 1, connA.count(EventGamePending))
	require.Equal(t, 1, connA.count(EventGameWait))

	connB.close()
	settle()

	// invariant: the pending timer cannot survive the ready count
	// dropping to one
	assert.Equal(t, 2, connA.count(EventGameWait))

	time.Sleep(2 * cfg.StartDelay)
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, connA.count(EventGameStart))
}
