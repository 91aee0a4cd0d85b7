package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielawaser/devops-project/internal/games"
)

type gamesEndpoint struct{}

func (g gamesEndpoint) routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", g.list)

	return router
}

type GameListResp struct {
	Games                []string `json:"games"`
	internalResponseMeta `json:"-"`
}

func (g gamesEndpoint) list(w http.ResponseWriter, _ *http.Request) {
	resp := GameListResp{
		Games:                games.Types(),
		internalResponseMeta: newInternalResponseMeta(http.StatusOK),
	}
	httpWriteResponse(w, &resp)
}
