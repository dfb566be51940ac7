package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/armada/db/sqlc"
	"github.com/saeidalz13/armada/internal/ranking"
	mb "github.com/saeidalz13/armada/models/battleship"
	mc "github.com/saeidalz13/armada/models/connection"
)

var errCoordinatorStopped = errors.New("coordinator stopped")

type MatchConfig struct {
	MinPlayers      int
	TurnTimeout     time.Duration
	VoteTimeout     time.Duration
	SurpriseTimeout time.Duration
	// pause before (re)asking for the start vote
	WaitPeriod    time.Duration
	SurpriseRound int
	StartingFleet []int
	Rand          *rand.Rand
}

func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		MinPlayers:      mb.DefaultMinPlayers,
		TurnTimeout:     time.Second * 60,
		VoteTimeout:     time.Second * 60,
		SurpriseTimeout: time.Second * 10,
		WaitPeriod:      time.Second * 5,
		SurpriseRound:   mb.DefaultSurpriseRound,
		StartingFleet:   mb.DefaultStartingFleet,
	}
}

func (cfg MatchConfig) validate() error {
	if cfg.MinPlayers < 2 || cfg.MinPlayers > mb.MaxPlayers {
		return fmt.Errorf("min players must be between 2 and %d, got: %d", mb.MaxPlayers, cfg.MinPlayers)
	}
	if cfg.TurnTimeout <= 0 || cfg.VoteTimeout <= 0 || cfg.SurpriseTimeout <= 0 || cfg.WaitPeriod <= 0 {
		return fmt.Errorf("timeouts and wait period must be positive")
	}
	if cfg.SurpriseRound <= 0 {
		return fmt.Errorf("surprise round must be positive, got: %d", cfg.SurpriseRound)
	}
	if len(cfg.StartingFleet) == 0 {
		return fmt.Errorf("starting fleet cannot be empty")
	}
	for _, size := range cfg.StartingFleet {
		if size < mb.MinShipSize || size > mb.MaxShipSize {
			return fmt.Errorf("ship size must be between %d and %d, got: %d", mb.MinShipSize, mb.MaxShipSize, size)
		}
	}
	return nil
}

type commandKind uint8

const (
	commandRegister commandKind = iota
	commandLeave
)

type registerReply struct {
	playerId int
	err      error
}

type command struct {
	kind     commandKind
	session  *mc.Session
	name     string
	playerId int
	reply    chan registerReply
}

// Coordinator is the only goroutine that touches the game. Connection
// workers reach it through the commands channel.
type Coordinator struct {
	cfg       MatchConfig
	game      *mb.Game
	sessions  mc.SessionManager
	store     ranking.Store
	analytics *sqlc.AnalyticsManager
	serverIp  pqtype.Inet

	commands     chan command
	deferred     []command
	nextPlayerId int
	done         chan struct{}
}

func NewCoordinator(
	cfg MatchConfig,
	sessions mc.SessionManager,
	store ranking.Store,
	analytics *sqlc.AnalyticsManager,
	serverIp pqtype.Inet,
) *Coordinator {
	c := &Coordinator{
		cfg:       cfg,
		sessions:  sessions,
		store:     store,
		analytics: analytics,
		serverIp:  serverIp,
		commands:  make(chan command),
		done:      make(chan struct{}),
	}
	c.game = c.newGame()
	return c
}

func (c *Coordinator) newGame() *mb.Game {
	opts := []mb.Option{
		mb.WithMinPlayers(c.cfg.MinPlayers),
		mb.WithSurpriseRound(c.cfg.SurpriseRound),
		mb.WithStartingFleet(c.cfg.StartingFleet...),
	}
	if c.cfg.Rand != nil {
		opts = append(opts, mb.WithRand(c.cfg.Rand))
	}
	return mb.NewGame(opts...)
}

// Register asks the coordinator to add a player named name that talks
// through session. It returns the new player id.
func (c *Coordinator) Register(ctx context.Context, session *mc.Session, name string) (int, error) {
	reply := make(chan registerReply, 1)
	cmd := command{kind: commandRegister, session: session, name: name, reply: reply}

	select {
	case c.commands <- cmd:
	case <-ctx.Done():
		return -1, ctx.Err()
	case <-c.done:
		return -1, errCoordinatorStopped
	}

	select {
	case r := <-reply:
		return r.playerId, r.err
	case <-c.done:
		return -1, errCoordinatorStopped
	}
}

// Leave reports that the connection of playerId is gone.
func (c *Coordinator) Leave(playerId int) {
	select {
	case c.commands <- command{kind: commandLeave, playerId: playerId}:
	case <-c.done:
	}
}

// Run plays matches back to back until ctx is done. A match is the
// lobby, the start vote and the turn loop of one game.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)

	for {
		if err := c.lobby(ctx); err != nil {
			return err
		}

		if err := c.playTurns(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Println("match ended with error:", err)
		}

		c.closeAll()
		c.game = c.newGame()
	}
}

// lobby returns once the game is in progress.
func (c *Coordinator) lobby(ctx context.Context) error {
	var voteAt <-chan time.Time

	for c.game.State() != mb.GameStateInProgress {
		c.flushDeferred()
		if voteAt == nil && c.game.HasEnoughPlayers() {
			voteAt = time.After(c.cfg.WaitPeriod)
		}

		select {
		case cmd := <-c.commands:
			c.handleCommand(cmd)

		case <-voteAt:
			voteAt = nil
			if c.game.HasEnoughPlayers() && c.runStartVote(ctx) {
				c.onGameStarted(ctx)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (c *Coordinator) onGameStarted(ctx context.Context) {
	log.Printf("game started with %d players\n", len(c.game.Players()))
	c.sessions.Broadcast(mc.NewMessage[mc.NoPayload](mc.CodeGameStarted))

	if c.analytics != nil {
		if err := c.analytics.IncrementGamesStartedCount(ctx, c.serverIp); err != nil {
			log.Println("failed to increment games started count:", err)
		}
	}
}

func (c *Coordinator) handleCommand(cmd command) {
	switch cmd.kind {
	case commandRegister:
		cmd.reply <- c.register(cmd.session, cmd.name)
	case commandLeave:
		c.leave(cmd.playerId)
	}
}

// Registrations that arrive during the start vote wait for its result.
func (c *Coordinator) deferOrHandle(cmd command) {
	if cmd.kind == commandRegister && c.game.State() == mb.GameStateAskStartConfirmation {
		c.deferred = append(c.deferred, cmd)
		return
	}
	c.handleCommand(cmd)
}

func (c *Coordinator) flushDeferred() {
	deferred := c.deferred
	c.deferred = nil
	for _, cmd := range deferred {
		c.handleCommand(cmd)
	}
}

func (c *Coordinator) register(session *mc.Session, name string) registerReply {
	playerId := c.nextPlayerId
	player, err := c.game.AddPlayer(playerId, name)
	if err != nil {
		return registerReply{playerId: -1, err: err}
	}
	c.nextPlayerId++
	c.sessions.Register(player.Id, session)
	log.Printf("player registered: %s (id %d)\n", player.Name, player.Id)

	if !c.game.HasEnoughPlayers() {
		_ = c.sessions.Communicate(player.Id, mc.NewMessage[mc.NoPayload](mc.CodeWaiting))
	}
	return registerReply{playerId: player.Id}
}

// A player leaving the lobby is removed. In game the player forfeits
// and the others are told.
func (c *Coordinator) leave(playerId int) {
	if session := c.sessions.Remove(playerId); session != nil {
		session.Close()
	}

	player, err := c.game.FindPlayer(playerId)
	if err != nil {
		return
	}

	switch c.game.State() {
	case mb.GameStateInProgress:
		if !player.HasShips() {
			return
		}
		c.game.Forfeit(playerId)
		log.Printf("player forfeited: %s (id %d)\n", player.Name, player.Id)
		c.notifyEliminated(player)

	case mb.GameStateWaitingForPlayers, mb.GameStateAskStartConfirmation:
		c.game.RemovePlayer(playerId)
		log.Printf("player left the lobby: %s (id %d)\n", player.Name, player.Id)
	}
}

func (c *Coordinator) notifyEliminated(player *mb.Player) {
	msg := mc.NewMessage[mc.RespPlayerEliminated](mc.CodePlayerEliminated)
	msg.AddPayload(mc.RespPlayerEliminated{Name: player.Name})
	c.sessions.Broadcast(msg, player.Id)
}

func (c *Coordinator) closeAll() {
	for _, id := range c.sessions.PlayerIds() {
		if session := c.sessions.Remove(id); session != nil {
			session.Close()
		}
	}
	for _, cmd := range c.deferred {
		cmd.reply <- registerReply{playerId: -1, err: errCoordinatorStopped}
	}
	c.deferred = nil
}
