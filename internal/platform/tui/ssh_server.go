// SSH server support via Wish: every connection gets the full session flow
// (menu, level picker, solo play, solver races, online races).
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-jelly/internal/core"
	"github.com/vovakirdan/tui-jelly/internal/games/jelly"
	"github.com/vovakirdan/tui-jelly/internal/multiplayer"
	"github.com/vovakirdan/tui-jelly/internal/registry"
	"github.com/vovakirdan/tui-jelly/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.jelly/host_key.
	HostKeyPath string

	// DBPath is the path to the solves database.
	DBPath string

	// LevelDir is the directory with level files; empty means built-in levels.
	LevelDir string

	// TickRate is the simulation rate for sessions and races.
	TickRate int

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.jelly/solves.db",
		TickRate:    30,
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the jelly platform.
// It owns the storage, the session registry and the race coordinator.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
	logger      *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "jelly-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open solves database", "error", err)
		// Continue without storage
	}

	// The coordinator runs all online races on this host
	sessions := multiplayer.NewSessionRegistry()
	coordCfg := multiplayer.DefaultCoordinatorConfig()
	if cfg.TickRate > 0 {
		coordCfg.TickRate = cfg.TickRate
	}
	factory := func(rcfg core.RuntimeConfig) (multiplayer.RaceGame, error) {
		rcfg.LevelDir = cfg.LevelDir
		return jelly.NewRaceGame(rcfg)
	}
	coordinator := multiplayer.NewCoordinator(coordCfg, factory, sessions)
	if store != nil {
		coordinator.SetResultSaver(store)
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		sessions:    sessions,
		coordinator: coordinator,
		logger:      logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".jelly", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
		LevelDir: s.config.LevelDir,
	}

	// Create session model that handles menu + game + race flow
	model := NewSessionModel(s.store, s.coordinator, s.sessions, cfg, sshSession.User())

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()
	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionPhase tracks which screen an SSH session is on.
type sessionPhase int

const (
	phaseMenu sessionPhase = iota
	phaseLevelPick
	phaseGame
	phaseScores
	phaseLobby
	phaseRace
)

// SessionModel manages the full session flow:
// menu -> level picker -> game / lobby / race -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store       *storage.Store
	coordinator *multiplayer.Coordinator
	sessions    *multiplayer.SessionRegistry
	config      core.RuntimeConfig
	username    string
	sessionID   multiplayer.SessionID
	channel     *multiplayer.ChannelSession

	phase       sessionPhase
	pendingMode multiplayer.MatchMode
	menu        MenuModel
	picker      *LevelMenuModel
	gameModel   *GameModel
	scoreboard  *ScoreboardModel
	lobby       *OnlineLobbyModel
	race        *RaceModel
	quitting    bool
}

// NewSessionModel creates a new session model and registers the session
// with the coordinator's registry.
func NewSessionModel(
	store *storage.Store,
	coordinator *multiplayer.Coordinator,
	sessions *multiplayer.SessionRegistry,
	cfg core.RuntimeConfig,
	username string,
) SessionModel {
	sessionID := multiplayer.SessionID(fmt.Sprintf("%s-%d", username, time.Now().UnixNano()))
	channel := multiplayer.NewChannelSession(sessionID, 64)
	if sessions != nil {
		sessions.Register(channel)
	}

	return SessionModel{
		store:       store,
		coordinator: coordinator,
		sessions:    sessions,
		config:      cfg,
		username:    username,
		sessionID:   sessionID,
		channel:     channel,
		phase:       phaseMenu,
		menu:        NewMenuModel(store, cfg, coordinator != nil),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// disconnect tears the session out of the coordinator.
func (m *SessionModel) disconnect() {
	if m.channel != nil {
		m.channel.Close()
	}
	if m.sessions != nil {
		m.sessions.Unregister(m.sessionID)
	}
	if m.coordinator != nil {
		m.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: m.sessionID})
	}
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.phase {
	case phaseMenu:
		return m.updateMenu(msg)
	case phaseLevelPick:
		return m.updatePicker(msg)
	case phaseGame:
		return m.updateGame(msg)
	case phaseScores:
		return m.updateScores(msg)
	case phaseLobby:
		return m.updateLobby(msg)
	case phaseRace:
		return m.updateRace(msg)
	}
	return m, nil
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.disconnect()
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		sb := NewScoreboardModel(m.store, m.config)
		m.scoreboard = &sb
		m.phase = phaseScores
		return m, m.scoreboard.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		m.pendingMode = selected.Mode
		m.config = m.menu.Config() // Get possibly updated config from resize
		picker := NewLevelMenuModel(m.store, m.config)
		m.picker = &picker
		m.phase = phaseLevelPick
		return m, m.picker.Init()
	}

	return m, cmd
}

// updatePicker handles the level picker phase.
func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if pickerModel, ok := newPicker.(LevelMenuModel); ok {
		m.picker = &pickerModel
	}

	if m.picker.IsQuitting() {
		m.disconnect()
		m.quitting = true
		return m, tea.Quit
	}

	if m.picker.WantsBack() {
		return m.backToMenu()
	}

	if sel := m.picker.Selected(); sel != nil {
		m.config.LevelID = sel.LevelID
		m.picker = nil

		if m.pendingMode == multiplayer.MatchModeOnlineRace {
			lobby := NewOnlineLobbyModel(
				sel.LevelID, m.sessionID, m.coordinator, m.channel.Events(),
				m.config.ScreenW, m.config.ScreenH,
			)
			m.lobby = &lobby
			m.phase = phaseLobby
			return m, m.lobby.Init()
		}

		game, err := registry.Create("jelly")
		if err != nil {
			return m.backToMenu()
		}
		jelly.SetRaceSolver(m.pendingMode == multiplayer.MatchModeVsSolver)

		gameModel := NewGameModel(game, m.store, m.config)
		m.gameModel = &gameModel
		m.phase = phaseGame
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateGame handles updates when playing solo or against the solver.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		jelly.SetRaceSolver(false)
		m.gameModel = nil
		return m.backToMenu()
	}

	if m.gameModel.IsQuitting() {
		m.disconnect()
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateScores handles the scoreboard phase.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	if m.scoreboard.IsQuitting() {
		m.disconnect()
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.scoreboard = nil
		return m.backToMenu()
	}

	return m, cmd
}

// updateLobby handles the online matchmaking phase.
func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.lobby.Update(msg)
	if lobby, ok := newModel.(OnlineLobbyModel); ok {
		m.lobby = &lobby
	}

	if m.lobby.IsQuitting() {
		m.disconnect()
		m.quitting = true
		return m, tea.Quit
	}

	if m.lobby.BackToMenu() {
		m.lobby = nil
		return m.backToMenu()
	}

	if m.lobby.State() == OnlineStateInMatch {
		race := NewRaceModel(
			m.lobby.MatchID(), m.lobby.MatchLevelID(), m.lobby.Side(),
			m.sessionID, m.coordinator, m.channel.Events(),
			m.config.ScreenW, m.config.ScreenH,
		)
		m.race = &race
		m.lobby = nil
		m.phase = phaseRace
		return m, m.race.Init()
	}

	return m, cmd
}

// updateRace handles the in-match race phase.
func (m SessionModel) updateRace(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.race.Update(msg)
	if race, ok := newModel.(RaceModel); ok {
		m.race = &race
	}

	if m.race.IsQuitting() {
		m.disconnect()
		m.quitting = true
		return m, tea.Quit
	}

	if m.race.BackToMenu() {
		m.race = nil
		return m.backToMenu()
	}

	return m, cmd
}

// backToMenu resets the session to a fresh menu.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.phase = phaseMenu
	m.menu = NewMenuModel(m.store, m.config, m.coordinator != nil)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseLevelPick:
		if m.picker != nil {
			return m.picker.View()
		}
	case phaseGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case phaseScores:
		if m.scoreboard != nil {
			return m.scoreboard.View()
		}
	case phaseLobby:
		if m.lobby != nil {
			return m.lobby.View()
		}
	case phaseRace:
		if m.race != nil {
			return m.race.View()
		}
	}

	return m.menu.View()
}

// GameModel wraps a game with back-to-menu capability for session use.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	levelStart time.Time
	levelID    string
	quitting   bool
	backToMenu bool
	solveSaved bool
}

// NewGameModel creates a new game model for use inside a session.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		levelStart: time.Now(),
	}
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if r, ok := m.game.(Resizer); ok {
			r.Resize(msg.Width, msg.Height)
		} else if !m.gameState.GameOver {
			m.game.Reset(m.config)
		}
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Back to menu from a paused or finished board
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Track level changes for the solve timer
	if lr, ok := m.game.(LevelReporter); ok {
		if id := lr.CurrentLevelID(); id != m.levelID {
			m.levelID = id
			m.levelStart = time.Now()
			m.solveSaved = false
		}
	}

	// Record the solve once per level
	if m.gameState.Won && !m.solveSaved {
		if m.store != nil && m.levelID != "" {
			//nolint:errcheck // Best-effort save
			m.store.SaveSolve(m.levelID, m.gameState.Score, time.Since(m.levelStart))
		}
		m.solveSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
