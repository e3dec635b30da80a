package multiplayer_test

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-jelly/internal/core"
	"github.com/vovakirdan/tui-jelly/internal/multiplayer"
)

// stubRace is a minimal RaceGame: a push is any Right press, and Confirm
// solves that player's board.
type stubRace struct {
	mu     sync.Mutex
	moves1 int
	moves2 int
	winner multiplayer.PlayerID
}

type stubSnapshot struct{}

func (stubSnapshot) IsGameSnapshot() {}

func (g *stubRace) Reset(cfg core.RuntimeConfig) {}

func (g *stubRace) StepMulti(input core.MultiInputFrame) core.StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	if input.Player1().Has(core.ActionRight) {
		g.moves1++
	}
	if input.Player2().Has(core.ActionRight) {
		g.moves2++
	}
	if g.winner == 0 {
		if input.Player1().Has(core.ActionConfirm) {
			g.winner = multiplayer.Player1
		} else if input.Player2().Has(core.ActionConfirm) {
			g.winner = multiplayer.Player2
		}
	}
	return core.StepResult{}
}

func (g *stubRace) Snapshot() multiplayer.GameSnapshot { return stubSnapshot{} }

func (g *stubRace) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner != 0
}

func (g *stubRace) Winner() multiplayer.PlayerID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

func (g *stubRace) Moves1() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moves1
}

func (g *stubRace) Moves2() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moves2
}

func stubFactory(cfg core.RuntimeConfig) (multiplayer.RaceGame, error) {
	return &stubRace{}, nil
}

func newTestCoordinator(t *testing.T) (*multiplayer.Coordinator, *multiplayer.SessionRegistry) {
	t.Helper()
	cfg := multiplayer.CoordinatorConfig{
		LobbyTimeout:   time.Minute,
		TickRate:       60,
		CleanupPeriod:  time.Minute,
		DefaultLevelID: "01-first-push",
	}
	sessions := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(cfg, stubFactory, sessions)
	coord.Start()
	t.Cleanup(coord.Stop)
	return coord, sessions
}

func newSession(t *testing.T, reg *multiplayer.SessionRegistry, id string) *multiplayer.ChannelSession {
	t.Helper()
	s := multiplayer.NewChannelSession(multiplayer.SessionID(id), 64)
	reg.Register(s)
	t.Cleanup(func() {
		reg.Unregister(s.ID())
		s.Close()
	})
	return s
}

// waitFor reads events until one of type T arrives, skipping others such
// as snapshots.
func waitFor[T multiplayer.SessionEvent](t *testing.T, ch <-chan multiplayer.SessionEvent) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if e, ok := evt.(T); ok {
				return e
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func startRace(t *testing.T, coord *multiplayer.Coordinator, host, joiner *multiplayer.ChannelSession) (multiplayer.MatchID, string) {
	t.Helper()
	coord.Send(multiplayer.CreateLobbyMsg{SessionID: host.ID(), LevelID: "02-drop-in"})
	created := waitFor[multiplayer.LobbyCreatedEvent](t, host.Events())
	if created.LevelID != "02-drop-in" {
		t.Fatalf("lobby level = %q, want 02-drop-in", created.LevelID)
	}
	if len(created.Code) != 6 {
		t.Fatalf("join code %q, want 6 characters", created.Code)
	}

	coord.Send(multiplayer.JoinLobbyMsg{SessionID: joiner.ID(), Code: created.Code})

	hostStart := waitFor[multiplayer.MatchStartedEvent](t, host.Events())
	joinerStart := waitFor[multiplayer.MatchStartedEvent](t, joiner.Events())
	if hostStart.Side != multiplayer.Player1 {
		t.Errorf("host side = %v, want Player1", hostStart.Side)
	}
	if joinerStart.Side != multiplayer.Player2 {
		t.Errorf("joiner side = %v, want Player2", joinerStart.Side)
	}
	if hostStart.MatchID != joinerStart.MatchID {
		t.Errorf("match IDs differ: %q vs %q", hostStart.MatchID, joinerStart.MatchID)
	}
	return hostStart.MatchID, created.Code
}

func TestLobbyToMatchFlow(t *testing.T) {
	coord, reg := newTestCoordinator(t)
	host := newSession(t, reg, "host")
	joiner := newSession(t, reg, "joiner")

	matchID, _ := startRace(t, coord, host, joiner)

	if coord.MatchCount() != 1 {
		t.Errorf("MatchCount = %d, want 1", coord.MatchCount())
	}
	if coord.LobbyCount() != 0 {
		t.Errorf("LobbyCount = %d after start, want 0", coord.LobbyCount())
	}

	// Both sides should receive snapshots from the authoritative loop.
	waitFor[multiplayer.SnapshotEvent](t, host.Events())
	waitFor[multiplayer.SnapshotEvent](t, joiner.Events())

	// The joiner solves first.
	frame := core.NewInputFrame()
	frame.Set(core.ActionConfirm)
	coord.Send(multiplayer.PlayerInputMsg{MatchID: matchID, Player: multiplayer.Player2, Input: frame})

	end := waitFor[multiplayer.MatchEndedEvent](t, host.Events())
	if end.Reason != multiplayer.MatchEndReasonSolved {
		t.Errorf("end reason = %v, want solved", end.Reason)
	}
	if end.Winner != multiplayer.Player2 {
		t.Errorf("winner = %v, want Player2", end.Winner)
	}
	waitFor[multiplayer.MatchEndedEvent](t, joiner.Events())
}

func TestJoinErrors(t *testing.T) {
	coord, reg := newTestCoordinator(t)
	host := newSession(t, reg, "host")
	stranger := newSession(t, reg, "stranger")

	coord.Send(multiplayer.JoinLobbyMsg{SessionID: stranger.ID(), Code: "NOSUCH"})
	evt := waitFor[multiplayer.LobbyErrorEvent](t, stranger.Events())
	if evt.Message != "Lobby not found" {
		t.Errorf("error = %q, want lobby not found", evt.Message)
	}

	coord.Send(multiplayer.CreateLobbyMsg{SessionID: host.ID()})
	created := waitFor[multiplayer.LobbyCreatedEvent](t, host.Events())
	if created.LevelID != "01-first-push" {
		t.Errorf("default level = %q, want 01-first-push", created.LevelID)
	}

	// The host cannot join its own lobby.
	coord.Send(multiplayer.JoinLobbyMsg{SessionID: host.ID(), Code: created.Code})
	waitFor[multiplayer.LobbyErrorEvent](t, host.Events())
}

func TestCancelLobby(t *testing.T) {
	coord, reg := newTestCoordinator(t)
	host := newSession(t, reg, "host")

	coord.Send(multiplayer.CreateLobbyMsg{SessionID: host.ID()})
	created := waitFor[multiplayer.LobbyCreatedEvent](t, host.Events())

	coord.Send(multiplayer.CancelLobbyMsg{SessionID: host.ID(), Code: created.Code})

	// Cancelling frees the session to host again.
	coord.Send(multiplayer.CreateLobbyMsg{SessionID: host.ID()})
	waitFor[multiplayer.LobbyCreatedEvent](t, host.Events())
}

func TestDisconnectForfeitsMatch(t *testing.T) {
	coord, reg := newTestCoordinator(t)
	host := newSession(t, reg, "host")
	joiner := newSession(t, reg, "joiner")

	startRace(t, coord, host, joiner)

	host.Close()
	coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: host.ID()})

	end := waitFor[multiplayer.MatchEndedEvent](t, joiner.Events())
	if end.Reason != multiplayer.MatchEndReasonDisconnect {
		t.Errorf("end reason = %v, want disconnect", end.Reason)
	}
	if end.Winner != multiplayer.Player2 {
		t.Errorf("winner = %v, want Player2", end.Winner)
	}
}
