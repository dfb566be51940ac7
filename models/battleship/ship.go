package battleship

type ShipState uint8

const (
	ShipStateHealthy ShipState = iota
	ShipStateHit
	ShipStateSunk
)

func (s ShipState) String() string {
	switch s {
	case ShipStateHealthy:
		return "healthy"
	case ShipStateHit:
		return "hit"
	default:
		return "sunk"
	}
}

const (
	MinShipSize = 1
	MaxShipSize = 5
)

// Sizes of the fleet every player starts with
var DefaultStartingFleet = []int{5, 4, 3}

type HitOutcome uint8

const (
	HitOutcomeMiss HitOutcome = iota
	HitOutcomeHit
	HitOutcomeSunk
)

type Ship struct {
	Id    int
	size  int
	cells []Coordinates
	state ShipState
}

func NewShip(id int, cells []Coordinates) *Ship {
	return &Ship{
		Id:    id,
		size:  len(cells),
		cells: cells,
		state: ShipStateHealthy,
	}
}

func (sh *Ship) Size() int {
	return sh.size
}

func (sh *Ship) State() ShipState {
	return sh.state
}

func (sh *Ship) IsSunk() bool {
	return sh.state == ShipStateSunk
}

// Cells returns a copy of the cells the ship still occupies.
func (sh *Ship) Cells() []Coordinates {
	cells := make([]Coordinates, len(sh.cells))
	copy(cells, sh.cells)
	return cells
}

func (sh *Ship) occupies(c Coordinates) bool {
	for _, cell := range sh.cells {
		if cell == c {
			return true
		}
	}
	return false
}

// takeHit removes c from the ship if it occupies it.
func (sh *Ship) takeHit(c Coordinates) HitOutcome {
	if sh.state == ShipStateSunk {
		return HitOutcomeMiss
	}

	idx := -1
	for i, cell := range sh.cells {
		if cell == c {
			idx = i
			break
		}
	}
	if idx == -1 {
		return HitOutcomeMiss
	}

	sh.cells = append(sh.cells[:idx], sh.cells[idx+1:]...)
	if len(sh.cells) == 0 {
		sh.state = ShipStateSunk
		return HitOutcomeSunk
	}

	sh.state = ShipStateHit
	return HitOutcomeHit
}

func (sh *Ship) relocate(cells []Coordinates) {
	sh.cells = cells
}

// ShipSummary is what a player sees of one of their own ships.
type ShipSummary struct {
	Id    int           `json:"id"`
	Cells []Coordinates `json:"cells"`
	State string        `json:"state"`
}
