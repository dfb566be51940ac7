package battleship

import (
	"log"
	"math/rand"

	cerr "github.com/saeidalz13/armada/internal/error"
)

const (
	GridSize = 10

	CellEmpty rune = '.'

	// Hit cells are stamped with this marker for the
	// rest of the game; nothing can occupy them again.
	CellSunk rune = 'X'
)

// Random origins tried before falling back to a full scan
const maxRandomPlacementAttempts = 200

const markers = "0123456789abcdefghijklmnopqrstuvwxyz"

// MaxPlayers is bounded by the number of distinct markers.
const MaxPlayers = len(markers)

// PlayerMarker returns the marker of the given slot. The first player
// to join gets slot 0.
func PlayerMarker(slot int) rune {
	return rune(markers[slot%len(markers)])
}

type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewCoordinates(x, y int) Coordinates {
	return Coordinates{X: x, Y: y}
}

type Grid [][]rune

// Creates a new grid with every cell empty
func NewGrid(gridSize int) Grid {
	grid := make(Grid, gridSize)

	for i := 0; i < gridSize; i++ {
		grid[i] = make([]rune, gridSize)
		for j := range grid[i] {
			grid[i][j] = CellEmpty
		}
	}
	return grid
}

// Rows renders the grid as one string per row.
func (g Grid) Rows() []string {
	rows := make([]string, len(g))
	for i, row := range g {
		rows[i] = string(row)
	}
	return rows
}

// Board is the single authority over cell occupancy. Rows are
// indexed by Y and columns by X.
type Board struct {
	grid Grid
	size int
	rng  *rand.Rand
}

func NewBoard(size int, rng *rand.Rand) *Board {
	return &Board{
		grid: NewGrid(size),
		size: size,
		rng:  rng,
	}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(c Coordinates) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < b.size && c.Y < b.size
}

// Cell returns the marker at c, or CellSunk when c is off the board.
func (b *Board) Cell(c Coordinates) rune {
	if !b.InBounds(c) {
		return CellSunk
	}
	return b.grid[c.Y][c.X]
}

// IsEmpty fails closed: anything off the board is not empty.
func (b *Board) IsEmpty(c Coordinates) bool {
	if !b.InBounds(c) {
		return false
	}
	return b.grid[c.Y][c.X] == CellEmpty
}

// FindContiguousFree looks for length free cells starting at origin,
// first to the right (+x) and then downwards (+y). An empty slice
// means neither direction has room.
func (b *Board) FindContiguousFree(origin Coordinates, length int) []Coordinates {
	if length <= 0 || !b.IsEmpty(origin) {
		return []Coordinates{}
	}

	if region := b.run(origin, length, 1, 0); len(region) == length {
		return region
	}
	if region := b.run(origin, length, 0, 1); len(region) == length {
		return region
	}
	return []Coordinates{}
}

func (b *Board) run(origin Coordinates, length, dx, dy int) []Coordinates {
	region := make([]Coordinates, 0, length)
	for i := 0; i < length; i++ {
		c := NewCoordinates(origin.X+i*dx, origin.Y+i*dy)
		if !b.IsEmpty(c) {
			return nil
		}
		region = append(region, c)
	}
	return region
}

// FindRandomFreeRegion samples random origins until one has room for
// length cells, then stamps the region with marker. After
// maxRandomPlacementAttempts misses every origin is scanned in row
// order, so the call always terminates.
func (b *Board) FindRandomFreeRegion(marker rune, length int) ([]Coordinates, error) {
	for attempt := 0; attempt < maxRandomPlacementAttempts; attempt++ {
		origin := NewCoordinates(b.rng.Intn(b.size), b.rng.Intn(b.size))
		if region := b.FindContiguousFree(origin, length); len(region) != 0 {
			b.stamp(region, marker)
			return region, nil
		}
	}

	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if region := b.FindContiguousFree(NewCoordinates(x, y), length); len(region) != 0 {
				b.stamp(region, marker)
				return region, nil
			}
		}
	}

	return nil, cerr.ErrNoFreeRegion
}

func (b *Board) stamp(cells []Coordinates, marker rune) {
	for _, c := range cells {
		if !b.InBounds(c) {
			log.Printf("stamp skipped, coordinates out of bound: (%d, %d)\n", c.X, c.Y)
			continue
		}
		b.grid[c.Y][c.X] = marker
	}
}

// MoveRegion empties from and stamps to with marker.
func (b *Board) MoveRegion(from, to []Coordinates, marker rune) {
	b.Clear(from)
	b.stamp(to, marker)
}

// Clear empties the given cells. Sunk markers are kept.
func (b *Board) Clear(cells []Coordinates) {
	for _, c := range cells {
		if !b.InBounds(c) {
			log.Printf("clear skipped, coordinates out of bound: (%d, %d)\n", c.X, c.Y)
			continue
		}
		if b.grid[c.Y][c.X] == CellSunk {
			continue
		}
		b.grid[c.Y][c.X] = CellEmpty
	}
}

func (b *Board) MarkSunk(c Coordinates) {
	if !b.InBounds(c) {
		return
	}
	b.grid[c.Y][c.X] = CellSunk
}

// RenderFor is the fog-of-war view of the board for the owner of
// marker: foreign ships are drawn as empty water.
func (b *Board) RenderFor(marker rune) Grid {
	view := NewGrid(b.size)
	for y, row := range b.grid {
		for x, cell := range row {
			if cell == marker || cell == CellSunk {
				view[y][x] = cell
			}
		}
	}
	return view
}
