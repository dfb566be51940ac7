package battleship

import (
	"math/rand"
	"time"

	cerr "github.com/saeidalz13/armada/internal/error"
)

type GameState uint8

const (
	GameStateWaitingForPlayers GameState = iota
	GameStateAskStartConfirmation
	GameStateInProgress
	GameStateGameOver
)

func (s GameState) String() string {
	switch s {
	case GameStateWaitingForPlayers:
		return "waiting_for_players"
	case GameStateAskStartConfirmation:
		return "ask_start_confirmation"
	case GameStateInProgress:
		return "in_progress"
	default:
		return "game_over"
	}
}

const (
	DefaultMinPlayers    = 2
	DefaultSurpriseRound = 10
	SurpriseBonus        = 200
)

// Cells hit on behalf of the surprise event winner
var BombardmentPattern = []Coordinates{
	{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 0, Y: 9}, {X: 9, Y: 9},
	{X: 4, Y: 4}, {X: 5, Y: 5}, {X: 4, Y: 5}, {X: 5, Y: 4},
}

// DefenderHit is the damage one attack did to one opponent.
type DefenderHit struct {
	PlayerId    int
	ShipId      int
	Outcome     HitOutcome
	Coordinates Coordinates
}

type AttackResult struct {
	Points     int
	Currency   int
	Hits       []DefenderHit
	Eliminated []*Player
}

func (ar *AttackResult) merge(other AttackResult) {
	ar.Points += other.Points
	ar.Currency += other.Currency
	ar.Hits = append(ar.Hits, other.Hits...)
	ar.Eliminated = append(ar.Eliminated, other.Eliminated...)
}

// PlayerView is everything a player is shown at the start of a turn.
type PlayerView struct {
	Grid     Grid
	Fleet    []ShipSummary
	Currency int
	Score    int
}

type Option func(*Game)

func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

func WithStartingFleet(sizes ...int) Option {
	return func(g *Game) {
		g.startingFleet = sizes
	}
}

func WithMinPlayers(n int) Option {
	return func(g *Game) {
		g.minPlayers = n
	}
}

func WithSurpriseRound(round int) Option {
	return func(g *Game) {
		g.surpriseRound = round
	}
}

// Game is the engine. It does no I/O and is not safe for concurrent
// use: a single goroutine owns it for its whole life.
type Game struct {
	state         GameState
	board         *Board
	players       []*Player
	turn          int
	round         int
	minPlayers    int
	surpriseRound int
	surpriseFired bool
	startingFleet []int
	rng           *rand.Rand
}

func NewGame(opts ...Option) *Game {
	g := &Game{
		state:         GameStateWaitingForPlayers,
		players:       make([]*Player, 0, DefaultMinPlayers),
		minPlayers:    DefaultMinPlayers,
		surpriseRound: DefaultSurpriseRound,
		startingFleet: DefaultStartingFleet,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.board = NewBoard(GridSize, g.rng)

	return g
}

func (g *Game) State() GameState {
	return g.state
}

func (g *Game) Round() int {
	return g.round
}

func (g *Game) Board() *Board {
	return g.board
}

// Players returns every player that joined, in join order.
func (g *Game) Players() []*Player {
	players := make([]*Player, len(g.players))
	copy(players, g.players)
	return players
}

// ActivePlayers returns the players that still have ships.
func (g *Game) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if p.HasShips() {
			active = append(active, p)
		}
	}
	return active
}

func (g *Game) FindPlayer(playerId int) (*Player, error) {
	for _, p := range g.players {
		if p.Id == playerId {
			return p, nil
		}
	}
	return nil, cerr.ErrPlayerNotExist(playerId)
}

func (g *Game) IsNameTaken(name string) bool {
	for _, p := range g.players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// AddPlayer registers a player and places their starting fleet at
// random free regions of the board.
func (g *Game) AddPlayer(playerId int, name string) (*Player, error) {
	if g.state == GameStateInProgress || g.state == GameStateGameOver {
		return nil, cerr.ErrGameInProgress
	}
	if len(g.players) >= MaxPlayers {
		return nil, cerr.ErrGameFull
	}
	if g.IsNameTaken(name) {
		return nil, cerr.ErrNameInUse(name)
	}

	player := NewPlayer(playerId, name, g.freeMarker())
	for _, size := range g.startingFleet {
		cells, err := g.board.FindRandomFreeRegion(player.Marker(), size)
		if err != nil {
			g.board.Clear(player.forfeit())
			return nil, err
		}
		player.addShip(cells)
	}

	g.players = append(g.players, player)
	return player, nil
}

// freeMarker returns the first marker no current player holds.
// AddPlayer caps the players at MaxPlayers so one is always left.
func (g *Game) freeMarker() rune {
	taken := make(map[rune]bool, len(g.players))
	for _, p := range g.players {
		taken[p.marker] = true
	}
	for slot := 0; slot < MaxPlayers; slot++ {
		if marker := PlayerMarker(slot); !taken[marker] {
			return marker
		}
	}
	return PlayerMarker(len(g.players))
}

// RemovePlayer takes a player out of a game that has not started yet
// and frees their cells.
func (g *Game) RemovePlayer(playerId int) {
	for i, p := range g.players {
		if p.Id != playerId {
			continue
		}
		g.board.Clear(p.forfeit())
		g.players = append(g.players[:i], g.players[i+1:]...)
		if g.turn >= len(g.players) {
			g.turn = 0
		}
		return
	}
}

func (g *Game) HasEnoughPlayers() bool {
	return len(g.players) >= g.minPlayers
}

// AskStartConfirmation moves the game to the vote. It reports false if
// there are not enough players for one.
func (g *Game) AskStartConfirmation() bool {
	if g.state != GameStateWaitingForPlayers || !g.HasEnoughPlayers() {
		return false
	}
	g.state = GameStateAskStartConfirmation
	return true
}

// ResolveStartVote starts the game on a unanimous yes and goes back
// to waiting otherwise.
func (g *Game) ResolveStartVote(unanimous bool) GameState {
	if g.state != GameStateAskStartConfirmation {
		return g.state
	}
	if unanimous && g.HasEnoughPlayers() {
		g.state = GameStateInProgress
		g.turn = 0
	} else {
		g.state = GameStateWaitingForPlayers
	}
	return g.state
}

// CurrentPlayer returns the player whose turn it is, skipping players
// without ships. It returns nil once the game is over.
func (g *Game) CurrentPlayer() *Player {
	if g.state != GameStateInProgress || len(g.players) == 0 {
		return nil
	}
	for i := 0; i < len(g.players); i++ {
		idx := (g.turn + i) % len(g.players)
		if g.players[idx].HasShips() {
			g.turn = idx
			return g.players[idx]
		}
	}
	return nil
}

// EndTurn hands the turn to the next player and counts the round.
func (g *Game) EndTurn() {
	if len(g.players) == 0 {
		return
	}
	g.turn = (g.turn + 1) % len(g.players)
	g.round++
}

func (g *Game) View(playerId int) (PlayerView, error) {
	player, err := g.FindPlayer(playerId)
	if err != nil {
		return PlayerView{}, err
	}
	return PlayerView{
		Grid:     g.board.RenderFor(player.Marker()),
		Fleet:    player.FleetSummary(),
		Currency: player.Currency(),
		Score:    player.Score(),
	}, nil
}

// Attack fires at c from one of the attacker's ships. Every opponent
// is checked; rewards from all of them add up.
func (g *Game) Attack(attackerId, shipId int, c Coordinates) (AttackResult, error) {
	attacker, err := g.FindPlayer(attackerId)
	if err != nil {
		return AttackResult{}, err
	}
	if _, err := attacker.FindShip(shipId); err != nil {
		return AttackResult{}, err
	}
	if !g.board.InBounds(c) {
		return AttackResult{}, cerr.ErrXorYOutOfGridBound(c.X, c.Y)
	}

	return g.resolveAttack(attacker, c), nil
}

func (g *Game) resolveAttack(attacker *Player, c Coordinates) AttackResult {
	var result AttackResult

	for _, defender := range g.players {
		if defender.Id == attacker.Id || !defender.HasShips() {
			continue
		}

		outcome, shipId := defender.ApplyHit(c)
		if outcome == HitOutcomeMiss {
			continue
		}

		g.board.MarkSunk(c)
		points, currency := Reward(outcome)
		result.Points += points
		result.Currency += currency
		result.Hits = append(result.Hits, DefenderHit{
			PlayerId:    defender.Id,
			ShipId:      shipId,
			Outcome:     outcome,
			Coordinates: c,
		})

		if !defender.HasShips() {
			defender.eliminated = true
			result.Eliminated = append(result.Eliminated, defender)
		}
	}

	attacker.earn(result.Points, result.Currency)
	return result
}

// Move relocates a healthy ship so it starts at dest. The ship and
// the board change together.
func (g *Game) Move(playerId, shipId int, dest Coordinates) ([]Coordinates, error) {
	player, err := g.FindPlayer(playerId)
	if err != nil {
		return nil, err
	}
	ship, err := player.FindShip(shipId)
	if err != nil {
		return nil, err
	}
	if ship.State() != ShipStateHealthy {
		return nil, cerr.ErrShipDamaged(shipId)
	}

	region := g.board.FindContiguousFree(dest, ship.Size())
	if len(region) == 0 {
		return nil, cerr.ErrNoRoomAtDestination(dest.X, dest.Y)
	}

	g.board.MoveRegion(ship.Cells(), region, player.Marker())
	ship.relocate(region)
	return region, nil
}

// Purchase buys a ship from the catalog and places it at random.
// Nothing changes when the purchase is rejected.
func (g *Game) Purchase(playerId, tier int) (*Ship, error) {
	player, err := g.FindPlayer(playerId)
	if err != nil {
		return nil, err
	}
	item, err := LookupCatalog(tier)
	if err != nil {
		return nil, err
	}
	if player.Currency() < item.Price {
		return nil, cerr.ErrInsufficientCurrency(item.Price, player.Currency())
	}

	cells, err := g.board.FindRandomFreeRegion(player.Marker(), item.Size)
	if err != nil {
		return nil, cerr.ErrPurchaseNoRoom()
	}

	player.spend(item.Price)
	return player.addShip(cells), nil
}

// Forfeit removes a player that left mid game. Their ships leave the
// board and they drop out of the rotation.
func (g *Game) Forfeit(playerId int) {
	player, err := g.FindPlayer(playerId)
	if err != nil {
		return
	}
	g.board.Clear(player.forfeit())
}

// CheckGameOver ends the game when at most one player has ships left.
// winner is nil when nobody is left.
func (g *Game) CheckGameOver() (winner *Player, over bool) {
	if g.state == GameStateGameOver {
		active := g.ActivePlayers()
		if len(active) == 1 {
			return active[0], true
		}
		return nil, true
	}
	if g.state != GameStateInProgress {
		return nil, false
	}

	active := g.ActivePlayers()
	if len(active) > 1 {
		return nil, false
	}

	g.state = GameStateGameOver
	if len(active) == 1 {
		return active[0], true
	}
	return nil, true
}

// SurpriseDue reports whether the one-shot surprise event should fire.
func (g *Game) SurpriseDue() bool {
	return g.state == GameStateInProgress && !g.surpriseFired && g.round >= g.surpriseRound
}

// ResolveSurprise closes the surprise event. A winner gets the bonus
// and the bombardment pattern is fired on their behalf at everyone
// else. winnerId < 0 means nobody claimed it.
func (g *Game) ResolveSurprise(winnerId int) (AttackResult, error) {
	g.surpriseFired = true
	if winnerId < 0 {
		return AttackResult{}, nil
	}

	winner, err := g.FindPlayer(winnerId)
	if err != nil {
		return AttackResult{}, err
	}
	winner.earn(0, SurpriseBonus)

	var result AttackResult
	for _, c := range BombardmentPattern {
		result.merge(g.resolveAttack(winner, c))
	}
	return result, nil
}
