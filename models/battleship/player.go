package battleship

import (
	cerr "github.com/saeidalz13/armada/internal/error"
)

const (
	StartingCurrency = 500

	HitPoints    = 5
	HitCurrency  = 50
	SunkPoints   = 15
	SunkCurrency = 100
)

// Reward returns the points and currency an attacker earns for
// outcome. The hit that sinks a ship pays only the sunk reward.
func Reward(outcome HitOutcome) (points, currency int) {
	switch outcome {
	case HitOutcomeHit:
		return HitPoints, HitCurrency
	case HitOutcomeSunk:
		return SunkPoints, SunkCurrency
	default:
		return 0, 0
	}
}

type Player struct {
	Id         int
	Name       string
	marker     rune
	ships      []*Ship
	score      int
	currency   int
	eliminated bool
	nextShipId int
}

func NewPlayer(id int, name string, marker rune) *Player {
	return &Player{
		Id:       id,
		Name:     name,
		marker:   marker,
		ships:    make([]*Ship, 0, len(DefaultStartingFleet)),
		currency: StartingCurrency,
	}
}

// Marker identifies the player's ships on the board. No two players
// of a game share one.
func (p *Player) Marker() rune {
	return p.marker
}

func (p *Player) Score() int {
	return p.score
}

func (p *Player) Currency() int {
	return p.currency
}

func (p *Player) IsEliminated() bool {
	return p.eliminated
}

func (p *Player) HasShips() bool {
	return len(p.ships) > 0
}

// Ships returns the active ships in the order they were added.
func (p *Player) Ships() []*Ship {
	ships := make([]*Ship, len(p.ships))
	copy(ships, p.ships)
	return ships
}

func (p *Player) FindShip(shipId int) (*Ship, error) {
	for _, ship := range p.ships {
		if ship.Id == shipId {
			return ship, nil
		}
	}
	return nil, cerr.ErrShipNotExist(shipId)
}

func (p *Player) FleetSummary() []ShipSummary {
	summary := make([]ShipSummary, 0, len(p.ships))
	for _, ship := range p.ships {
		summary = append(summary, ShipSummary{
			Id:    ship.Id,
			Cells: ship.Cells(),
			State: ship.State().String(),
		})
	}
	return summary
}

func (p *Player) addShip(cells []Coordinates) *Ship {
	ship := NewShip(p.nextShipId, cells)
	p.nextShipId++
	p.ships = append(p.ships, ship)
	return ship
}

// ApplyHit resolves an attack on c against this player's fleet and
// returns the outcome plus the id of the ship involved (-1 on a miss).
// Sunk ships leave the fleet before ApplyHit returns.
func (p *Player) ApplyHit(c Coordinates) (HitOutcome, int) {
	outcome, shipId := HitOutcomeMiss, -1

	for _, ship := range p.ships {
		if !ship.occupies(c) {
			continue
		}
		outcome = ship.takeHit(c)
		shipId = ship.Id
		break
	}

	if outcome == HitOutcomeSunk {
		p.purgeSunk()
	}
	return outcome, shipId
}

func (p *Player) purgeSunk() {
	active := p.ships[:0]
	for _, ship := range p.ships {
		if !ship.IsSunk() {
			active = append(active, ship)
		}
	}
	p.ships = active
}

func (p *Player) earn(points, currency int) {
	p.score += points
	p.currency += currency
}

func (p *Player) spend(amount int) {
	p.currency -= amount
}

// forfeit drops every ship and returns the cells they occupied.
func (p *Player) forfeit() []Coordinates {
	cells := make([]Coordinates, 0)
	for _, ship := range p.ships {
		cells = append(cells, ship.Cells()...)
	}
	p.ships = p.ships[:0]
	p.eliminated = true
	return cells
}
