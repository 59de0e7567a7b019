package world

// Room is a rectangular placed region, including its 1-tile wall
// border. Rooms are append-only: once placed they are never resized
// or removed.
type Room struct {
	X, Y          int // Top-left corner (wall)
	Width, Height int // Dimensions including walls
}

// Center returns the room's center coordinates.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the point is inside the room, walls
// included.
func (r Room) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// InteriorContains reports whether the point is on the room's floor,
// excluding the wall border.
func (r Room) InteriorContains(x, y int) bool {
	return x > r.X && x < r.X+r.Width-1 && y > r.Y && y < r.Y+r.Height-1
}

// Overlaps reports whether the interiors of two rooms would share any
// cell. Touching walls do not count: adjacent rooms share wall lines
// by design.
func (r Room) Overlaps(other Room) bool {
	return r.X < other.X+other.Width-1 &&
		r.X+r.Width-1 > other.X &&
		r.Y < other.Y+other.Height-1 &&
		r.Y+r.Height-1 > other.Y
}

// CenterDistanceSq returns the squared distance between two room
// centers. Used to pick the level's terminus without rounding.
func (r Room) CenterDistanceSq(other Room) int {
	ax, ay := r.Center()
	bx, by := other.Center()
	dx, dy := ax-bx, ay-by
	return dx*dx + dy*dy
}

// sharedEdge returns the cells, corners excluded, where the wall lines
// of two rooms coincide and both interiors touch the wall. These are
// the cells where a door can connect the rooms.
func sharedEdge(a, b Room) [][2]int {
	var cells [][2]int

	// Vertical shared wall: one room's right edge on the other's left.
	for _, pair := range [2][2]Room{{a, b}, {b, a}} {
		left, right := pair[0], pair[1]
		if left.X+left.Width-1 != right.X {
			continue
		}
		x := right.X
		y0 := max(left.Y+1, right.Y+1)
		y1 := min(left.Y+left.Height-2, right.Y+right.Height-2)
		for y := y0; y <= y1; y++ {
			cells = append(cells, [2]int{x, y})
		}
	}

	// Horizontal shared wall.
	for _, pair := range [2][2]Room{{a, b}, {b, a}} {
		top, bottom := pair[0], pair[1]
		if top.Y+top.Height-1 != bottom.Y {
			continue
		}
		y := bottom.Y
		x0 := max(top.X+1, bottom.X+1)
		x1 := min(top.X+top.Width-2, bottom.X+bottom.Width-2)
		for x := x0; x <= x1; x++ {
			cells = append(cells, [2]int{x, y})
		}
	}

	return cells
}
