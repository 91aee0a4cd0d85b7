package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func newRouter(req *ServerReq) *chi.Mux {

	r := chi.NewRouter()
	r.Use(loggerMiddleware(req.Logger, req.HTTPAccessLogLevel))

	// Cloud Run probes the container for readiness; the health endpoint
	// sits outside the versioned API so probes are not tied to it.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpWriteResponse(w, &healthResp{
			Status:               "ok",
			internalResponseMeta: newInternalResponseMeta(http.StatusOK),
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Mount("/games", gamesEndpoint{}.routes())
		r.Mount("/sessions", sessionsEndpoint{
			state: req.State,
		}.routes())
	})

	return r
}

type healthResp struct {
	Status               string `json:"status"`
	internalResponseMeta `json:"-"`
}
