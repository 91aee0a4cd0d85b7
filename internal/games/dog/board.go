package dog

// The board encodes 96 positions: 0-63 form the shared circular track,
// 64-79 the per-player kennels and 80-95 the per-player finish areas.
const (
	CircularPathLength = 64

	kennelBase = 64
	finishBase = 80

	marblesPerPlayer = 4
	playerCount      = 4
)

// startPosition returns the track cell in front of the given player's
// kennel.
func startPosition(player int) int {
	return player * (CircularPathLength / playerCount)
}

// kennelPositions returns the four kennel cells of the given player.
func kennelPositions(player int) [marblesPerPlayer]int {
	var cells [marblesPerPlayer]int
	for i := range cells {
		cells[i] = kennelBase + player*marblesPerPlayer + i
	}
	return cells
}

// finishPositions returns the four finish cells of the given player.
func finishPositions(player int) [marblesPerPlayer]int {
	var cells [marblesPerPlayer]int
	for i := range cells {
		cells[i] = finishBase + player*marblesPerPlayer + i
	}
	return cells
}

func isKennelPosition(pos int) bool {
	return pos >= kennelBase && pos < finishBase
}

func isFinishPosition(pos int) bool {
	return pos >= finishBase && pos < finishBase+playerCount*marblesPerPlayer
}

func isTrackPosition(pos int) bool {
	return pos >= 0 && pos < CircularPathLength
}

func kennelOwner(pos int) int {
	return (pos - kennelBase) / marblesPerPlayer
}

func finishOwner(pos int) int {
	return (pos - finishBase) / marblesPerPlayer
}

// trackDistance returns the forward distance from one track cell to
// another.
func trackDistance(from, to int) int {
	return ((to - from) % CircularPathLength + CircularPathLength) % CircularPathLength
}
