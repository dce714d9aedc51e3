package board

// reach is how far a ray may travel from the placed chip. Three neighbours
// plus the chip itself make a connection.
const reach = 3

// axes lists one direction per axis; the opposite ray is its negation.
var axes = [4][2]int{
	{1, 0},  // vertical
	{0, 1},  // horizontal
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// ConnectsAt reports whether the chip at (row, column) completes four in a
// line. Only lines through that chip are examined, so it must be asked right
// after the chip is placed; it is not a rescan of the whole board.
func (b *Board) ConnectsAt(row, column int) bool {
	player := b.At(row, column)
	if player == None {
		return false
	}
	for _, d := range axes {
		if b.ray(row, column, d[0], d[1], player)+b.ray(row, column, -d[0], -d[1], player) >= reach {
			return true
		}
	}
	return false
}

// ray counts consecutive chips of player stepping away from (row, column).
func (b *Board) ray(row, column, dRow, dCol int, player Player) int {
	count := 0
	for i := 1; i <= reach; i++ {
		if b.At(row+dRow*i, column+dCol*i) != player {
			break
		}
		count++
	}
	return count
}
