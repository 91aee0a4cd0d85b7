package http

import (
	"net/http"
	"strconv"
)

const playerQueryParam = "player"

// getPlayerParam returns the player index from the request query, or -1
// when the parameter is absent or malformed.
func getPlayerParam(r *http.Request) int {
	raw := r.URL.Query().Get(playerQueryParam)
	if raw == "" {
		return -1
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	return -1
}
