package entity

import (
	"maps"
	"slices"
)

// reach is the exclusive row bound of one diagonal walk: the adjacent row
// and the landing row behind a jumped piece.
const reach = 3

// Moves maps every legal destination of a piece to the pieces captured on
// the way there, in capture order. Simple moves map to an empty slice.
type Moves map[Position][]*Piece

// Destination is one entry of a Moves map in serialisable form.
type Destination struct {
	To       Position   `json:"to"`
	Captures []Position `json:"captures"`
}

// Move describes a move that has been played.
type Move struct {
	From     Position   `json:"from"`
	To       Position   `json:"to"`
	Captures []Position `json:"captures,omitempty"`
	Promoted bool       `json:"promoted,omitempty"`
}

// Destinations returns the map entries sorted by row, then column.
func (that Moves) Destinations() []Destination {
	destinations := make([]Destination, 0, len(that))

	for _, to := range slices.SortedFunc(maps.Keys(that), comparePositions) {
		destinations = append(destinations, Destination{
			To:       to,
			Captures: Positions(that[to]),
		})
	}

	return destinations
}

func (that Moves) Clone() Moves {
	clone := make(Moves, len(that))
	for to, captured := range that {
		clone[to] = slices.Clone(captured)
	}

	return clone
}

func Positions(pieces []*Piece) []Position {
	positions := make([]Position, 0, len(pieces))
	for _, piece := range pieces {
		positions = append(positions, piece.Position())
	}

	return positions
}

func comparePositions(a, b Position) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}

	return a.Col - b.Col
}

// LegalMoves computes the legal-move map of a piece. Men search the rows in
// front of them, kings search both ways. The board is not modified.
func (that *Board) LegalMoves(piece *Piece) Moves {
	moves := make(Moves)
	if piece == nil {
		return moves
	}

	for _, step := range that.steps(piece) {
		stop := that.windowEnd(piece.Row, step)

		maps.Copy(moves, that.traverse(piece.Row+step, stop, step, piece.Color, piece.Col-1, -1, nil))
		maps.Copy(moves, that.traverse(piece.Row+step, stop, step, piece.Color, piece.Col+1, 1, nil))
	}

	return moves
}

func (that *Board) steps(piece *Piece) []int {
	if piece.King {
		return []int{up, down}
	}

	return []int{piece.Color.Advance()}
}

func (that *Board) windowEnd(row, step int) int {
	if step == up {
		return max(row-reach, -1)
	}

	return min(row+reach, that.settings.Rows)
}

// traverse walks one diagonal starting at (start, col), shifting col by drift
// on every row until stop. captured holds the pieces already jumped earlier
// in the chain; when it is non-empty only further captures are reported.
func (that *Board) traverse(start, stop, step int, color Color, col, drift int, captured []*Piece) Moves {
	moves := make(Moves)

	var jumped *Piece

	for row := start; row != stop; row += step {
		if col < 0 || col >= that.settings.Cols {
			break
		}

		current := that.grid[row][col]
		if current == nil {
			if jumped == nil {
				if len(captured) == 0 {
					moves[Position{Row: row, Col: col}] = []*Piece{}
				}
				break
			}

			chain := append(slices.Clone(captured), jumped)
			next := that.windowEnd(row, step)

			further := that.traverse(row+step, next, step, color, col-1, -1, chain)
			maps.Copy(further, that.traverse(row+step, next, step, color, col+1, 1, chain))

			// the chain continues past this square, so it is not a final stop
			if len(further) > 0 {
				maps.Copy(moves, further)
			} else {
				moves[Position{Row: row, Col: col}] = chain
			}
			break
		}

		// own piece, or a second opponent behind the first one
		if current.Color == color || jumped != nil {
			break
		}

		jumped = current
		col += drift
	}

	return moves
}
