package battleship

import (
	"math/rand"
	"testing"

	cerr "github.com/saeidalz13/armada/internal/error"
)

// newStartedGame returns an in-progress game whose players joined
// with the given names, in order, each with the given fleet.
func newStartedGame(t *testing.T, fleet []int, names ...string) *Game {
	t.Helper()

	game := NewGame(WithRand(rand.New(rand.NewSource(3))), WithStartingFleet(fleet...))
	for i, name := range names {
		if _, err := game.AddPlayer(i, name); err != nil {
			t.Fatal(err)
		}
	}
	if !game.AskStartConfirmation() {
		t.Fatal("expected enough players for a vote")
	}
	if state := game.ResolveStartVote(true); state != GameStateInProgress {
		t.Fatalf("expected state: %s\tgot: %s", GameStateInProgress, state)
	}
	return game
}

func mustFindPlayer(t *testing.T, game *Game, playerId int) *Player {
	t.Helper()

	player, err := game.FindPlayer(playerId)
	if err != nil {
		t.Fatal(err)
	}
	return player
}

// freeCell returns some empty cell of the board.
func freeCell(t *testing.T, game *Game) Coordinates {
	t.Helper()

	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if c := NewCoordinates(x, y); game.Board().IsEmpty(c) {
				return c
			}
		}
	}
	t.Fatal("board is full")
	return Coordinates{}
}

func TestAddPlayerPlacesStartingFleet(t *testing.T) {
	game := NewGame(WithRand(rand.New(rand.NewSource(1))))

	player, err := game.AddPlayer(0, "alpha")
	if err != nil {
		t.Fatal(err)
	}
	if len(player.Ships()) != len(DefaultStartingFleet) {
		t.Fatalf("expected ships: %d\tgot: %d", len(DefaultStartingFleet), len(player.Ships()))
	}

	for i, ship := range player.Ships() {
		if ship.Id != i {
			t.Fatalf("expected ship id: %d\tgot: %d", i, ship.Id)
		}
		if ship.Size() != DefaultStartingFleet[i] {
			t.Fatalf("expected ship size: %d\tgot: %d", DefaultStartingFleet[i], ship.Size())
		}
		for _, c := range ship.Cells() {
			if game.Board().Cell(c) != player.Marker() {
				t.Fatalf("ship cell %v not marked on the board", c)
			}
		}
	}

	if _, err := game.AddPlayer(1, "alpha"); err == nil {
		t.Fatal("expected duplicate name to be rejected")
	}
}

func TestMarkersStayUnique(t *testing.T) {
	game := NewGame(WithRand(rand.New(rand.NewSource(5))))

	// ids grow across reconnects, markers must not follow them
	alpha, err := game.AddPlayer(0, "alpha")
	if err != nil {
		t.Fatal(err)
	}
	bravo, err := game.AddPlayer(MaxPlayers, "bravo")
	if err != nil {
		t.Fatal(err)
	}
	if alpha.Marker() == bravo.Marker() {
		t.Fatalf("expected distinct markers\tgot: %q for both", alpha.Marker())
	}

	view, err := game.View(alpha.Id)
	if err != nil {
		t.Fatal(err)
	}
	for _, ship := range bravo.Ships() {
		for _, c := range ship.Cells() {
			if view.Grid[c.Y][c.X] != CellEmpty {
				t.Fatalf("expected: %q at %v\tgot: %q", CellEmpty, c, view.Grid[c.Y][c.X])
			}
		}
	}

	// a freed slot is handed to the next player
	game.RemovePlayer(alpha.Id)
	charlie, err := game.AddPlayer(MaxPlayers+1, "charlie")
	if err != nil {
		t.Fatal(err)
	}
	if charlie.Marker() != PlayerMarker(0) {
		t.Fatalf("expected: %q\tgot: %q", PlayerMarker(0), charlie.Marker())
	}
	if charlie.Marker() == bravo.Marker() {
		t.Fatalf("expected distinct markers\tgot: %q for both", bravo.Marker())
	}
}

func TestStartVote(t *testing.T) {
	game := NewGame(WithRand(rand.New(rand.NewSource(1))))
	if _, err := game.AddPlayer(0, "alpha"); err != nil {
		t.Fatal(err)
	}
	if game.AskStartConfirmation() {
		t.Fatal("vote must not be asked with a single player")
	}

	if _, err := game.AddPlayer(1, "bravo"); err != nil {
		t.Fatal(err)
	}
	if !game.AskStartConfirmation() {
		t.Fatal("expected vote to be asked")
	}
	if state := game.ResolveStartVote(false); state != GameStateWaitingForPlayers {
		t.Fatalf("expected state: %s\tgot: %s", GameStateWaitingForPlayers, state)
	}

	game.AskStartConfirmation()
	if state := game.ResolveStartVote(true); state != GameStateInProgress {
		t.Fatalf("expected state: %s\tgot: %s", GameStateInProgress, state)
	}
	if _, err := game.AddPlayer(2, "charlie"); err == nil {
		t.Fatal("expected join after start to be rejected")
	}
}

func TestAttackEmptyCellIsMiss(t *testing.T) {
	game := newStartedGame(t, DefaultStartingFleet, "alpha", "bravo")
	attacker := mustFindPlayer(t, game, 0)
	defender := mustFindPlayer(t, game, 1)

	before := defender.FleetSummary()
	result, err := game.Attack(attacker.Id, 0, freeCell(t, game))
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Hits) != 0 || result.Points != 0 || result.Currency != 0 {
		t.Fatalf("expected a miss, got %+v", result)
	}
	if attacker.Score() != 0 || attacker.Currency() != StartingCurrency {
		t.Fatal("a miss must not change the attacker's totals")
	}
	after := defender.FleetSummary()
	if len(before) != len(after) {
		t.Fatal("a miss must not change the defender's fleet")
	}
	for i := range before {
		if len(before[i].Cells) != len(after[i].Cells) || before[i].State != after[i].State {
			t.Fatalf("ship %d changed on a miss", before[i].Id)
		}
	}
}

func TestAttackHitThenSink(t *testing.T) {
	game := newStartedGame(t, []int{2}, "alpha", "bravo")
	attacker := mustFindPlayer(t, game, 0)
	defender := mustFindPlayer(t, game, 1)
	cells := defender.Ships()[0].Cells()

	result, err := game.Attack(attacker.Id, 0, cells[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Hits) != 1 || result.Hits[0].Outcome != HitOutcomeHit {
		t.Fatalf("expected one hit, got %+v", result.Hits)
	}
	if defender.Ships()[0].State() != ShipStateHit {
		t.Fatalf("expected state: %s\tgot: %s", ShipStateHit, defender.Ships()[0].State())
	}
	if game.Board().Cell(cells[0]) != CellSunk {
		t.Fatal("hit cell not marked on the board")
	}

	result, err = game.Attack(attacker.Id, 0, cells[1])
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Hits) != 1 || result.Hits[0].Outcome != HitOutcomeSunk {
		t.Fatalf("expected one sink, got %+v", result.Hits)
	}
	if result.Points != SunkPoints || result.Currency != SunkCurrency {
		t.Fatalf("sinking hit must pay only the sunk reward, got %d/%d", result.Points, result.Currency)
	}
	if len(result.Eliminated) != 1 || result.Eliminated[0].Id != defender.Id {
		t.Fatalf("expected defender to be eliminated, got %+v", result.Eliminated)
	}

	if attacker.Score() != HitPoints+SunkPoints {
		t.Fatalf("expected score: %d\tgot: %d", HitPoints+SunkPoints, attacker.Score())
	}
	if attacker.Currency() != StartingCurrency+HitCurrency+SunkCurrency {
		t.Fatalf("expected currency: %d\tgot: %d", StartingCurrency+HitCurrency+SunkCurrency, attacker.Currency())
	}

	// the sunk ship is gone, so its cells cannot score again
	for _, c := range cells {
		result, err = game.Attack(attacker.Id, 0, c)
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Hits) != 0 {
			t.Fatalf("sunk ship scored again at %v", c)
		}
	}
}

func TestAttackReachesEveryOpponent(t *testing.T) {
	game := newStartedGame(t, []int{1}, "alpha", "bravo", "charlie")
	attacker := mustFindPlayer(t, game, 0)

	// stack charlie's ship on bravo's cell so one shot reaches both
	bravoCell := mustFindPlayer(t, game, 1).Ships()[0].Cells()[0]
	charlie := mustFindPlayer(t, game, 2)
	game.Board().Clear(charlie.Ships()[0].Cells())
	charlie.Ships()[0].relocate([]Coordinates{bravoCell})

	result, err := game.Attack(attacker.Id, 0, bravoCell)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Hits) != 2 {
		t.Fatalf("expected hits on two opponents, got %+v", result.Hits)
	}
	if result.Points != 2*SunkPoints || result.Currency != 2*SunkCurrency {
		t.Fatalf("rewards must add up, got %d/%d", result.Points, result.Currency)
	}

	winner, over := game.CheckGameOver()
	if !over || winner == nil || winner.Id != attacker.Id {
		t.Fatalf("expected alpha to win, got %v %v", winner, over)
	}
}

func TestAttackValidation(t *testing.T) {
	game := newStartedGame(t, DefaultStartingFleet, "alpha", "bravo")

	tests := []struct {
		name   string
		shipId int
		coords Coordinates
	}{
		{name: "unknown ship", shipId: 42, coords: NewCoordinates(0, 0)},
		{name: "out of bound", shipId: 0, coords: NewCoordinates(GridSize, 0)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := game.Attack(0, test.shipId, test.coords)
			if !cerr.IsRuleError(err) {
				t.Fatalf("expected a rule error, got %v", err)
			}
		})
	}
}

func TestMove(t *testing.T) {
	game := newStartedGame(t, []int{2}, "alpha", "bravo")
	mover := mustFindPlayer(t, game, 0)
	ship := mover.Ships()[0]
	from := ship.Cells()

	dest := freeCell(t, game)
	for len(game.Board().FindContiguousFree(dest, ship.Size())) == 0 {
		game.Board().MarkSunk(dest)
		dest = freeCell(t, game)
	}

	region, err := game.Move(mover.Id, ship.Id, dest)
	if err != nil {
		t.Fatal(err)
	}
	if region[0] != dest || len(region) != ship.Size() {
		t.Fatalf("unexpected region %v for destination %v", region, dest)
	}
	for _, c := range from {
		if game.Board().Cell(c) == mover.Marker() {
			t.Fatalf("old cell %v still marked", c)
		}
	}
	for i, c := range ship.Cells() {
		if c != region[i] || game.Board().Cell(c) != mover.Marker() {
			t.Fatalf("ship and board disagree at %v", c)
		}
	}

	if _, err := game.Move(mover.Id, ship.Id, region[0]); !cerr.IsRuleError(err) {
		t.Fatalf("expected move onto an occupied cell to fail, got %v", err)
	}
}

func TestMoveHitShipRejected(t *testing.T) {
	game := newStartedGame(t, []int{2}, "alpha", "bravo")
	defender := mustFindPlayer(t, game, 1)
	ship := defender.Ships()[0]

	if _, err := game.Attack(0, 0, ship.Cells()[0]); err != nil {
		t.Fatal(err)
	}
	if ship.State() != ShipStateHit {
		t.Fatalf("expected state: %s\tgot: %s", ShipStateHit, ship.State())
	}

	// every free origin is refused, valid or not
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			if _, err := game.Move(defender.Id, ship.Id, NewCoordinates(x, y)); !cerr.IsRuleError(err) {
				t.Fatalf("expected hit ship move to (%d, %d) to be rejected, got %v", x, y, err)
			}
		}
	}
}

func TestPurchase(t *testing.T) {
	game := newStartedGame(t, []int{1}, "alpha", "bravo")
	buyer := mustFindPlayer(t, game, 0)

	for i := 0; i < 2; i++ {
		ship, err := game.Purchase(buyer.Id, 2)
		if err != nil {
			t.Fatal(err)
		}
		if ship.Size() != 2 {
			t.Fatalf("expected ship size: %d\tgot: %d", 2, ship.Size())
		}
	}
	if buyer.Currency() != 100 {
		t.Fatalf("expected currency: %d\tgot: %d", 100, buyer.Currency())
	}

	ships := len(buyer.Ships())
	_, err := game.Purchase(buyer.Id, 3)
	if !cerr.IsRuleError(err) {
		t.Fatalf("expected insufficient currency to be a rule error, got %v", err)
	}
	if buyer.Currency() != 100 {
		t.Fatalf("currency changed on a rejected purchase: %d", buyer.Currency())
	}
	if len(buyer.Ships()) != ships {
		t.Fatal("ship added on a rejected purchase")
	}

	if _, err := game.Purchase(buyer.Id, 9); !cerr.IsRuleError(err) {
		t.Fatalf("expected invalid tier to be a rule error, got %v", err)
	}
}

func TestTurnRotationSkipsPlayersWithoutShips(t *testing.T) {
	game := newStartedGame(t, []int{1}, "alpha", "bravo", "charlie")

	if p := game.CurrentPlayer(); p.Id != 0 {
		t.Fatalf("expected player: %d\tgot: %d", 0, p.Id)
	}
	game.Forfeit(1)
	game.EndTurn()

	if p := game.CurrentPlayer(); p.Id != 2 {
		t.Fatalf("expected player: %d\tgot: %d", 2, p.Id)
	}
	game.EndTurn()

	if p := game.CurrentPlayer(); p.Id != 0 {
		t.Fatalf("expected player: %d\tgot: %d", 0, p.Id)
	}
	if game.Round() != 2 {
		t.Fatalf("expected round: %d\tgot: %d", 2, game.Round())
	}
}

func TestCheckGameOverWithoutSurvivors(t *testing.T) {
	game := newStartedGame(t, []int{1}, "alpha", "bravo")
	game.Forfeit(0)
	game.Forfeit(1)

	winner, over := game.CheckGameOver()
	if !over || winner != nil {
		t.Fatalf("expected game over without a winner, got %v %v", winner, over)
	}
	if game.State() != GameStateGameOver {
		t.Fatalf("expected state: %s\tgot: %s", GameStateGameOver, game.State())
	}
}

func TestResolveSurprise(t *testing.T) {
	game := NewGame(
		WithRand(rand.New(rand.NewSource(5))),
		WithStartingFleet(1),
		WithSurpriseRound(1),
	)
	for i, name := range []string{"alpha", "bravo"} {
		if _, err := game.AddPlayer(i, name); err != nil {
			t.Fatal(err)
		}
	}
	game.AskStartConfirmation()
	game.ResolveStartVote(true)

	if game.SurpriseDue() {
		t.Fatal("surprise must not fire before its round")
	}
	game.EndTurn()
	if !game.SurpriseDue() {
		t.Fatal("expected surprise to be due")
	}

	// park bravo's ship under the bombardment
	bravo := mustFindPlayer(t, game, 1)
	target := BombardmentPattern[0]
	game.Board().Clear(bravo.Ships()[0].Cells())
	bravo.Ships()[0].relocate([]Coordinates{target})

	result, err := game.ResolveSurprise(0)
	if err != nil {
		t.Fatal(err)
	}
	alpha := mustFindPlayer(t, game, 0)
	if alpha.Currency() != StartingCurrency+SurpriseBonus+SunkCurrency {
		t.Fatalf("expected currency: %d\tgot: %d", StartingCurrency+SurpriseBonus+SunkCurrency, alpha.Currency())
	}
	if len(result.Eliminated) != 1 || result.Eliminated[0].Id != bravo.Id {
		t.Fatalf("expected bravo to be bombarded out, got %+v", result.Eliminated)
	}
	if game.SurpriseDue() {
		t.Fatal("surprise must fire only once")
	}
}
