package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/danielawaser/devops-project/internal/games"
	sharedstate "github.com/danielawaser/devops-project/internal/pkg/state"
	"github.com/danielawaser/devops-project/internal/server/state"
)

type sessionsEndpoint struct {
	state state.State
}

func (s sessionsEndpoint) routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/", func(r chi.Router) {
		r.Post("/", s.create)
		r.Get("/", s.list)
	})

	router.Route("/{id}", func(r chi.Router) {
		r.Use(s.context)
		r.Delete("/", s.delete)
		r.Get("/", s.get)
		r.Get("/view", s.view)
		r.Get("/actions", s.actions)
		r.Post("/actions", s.act)
		r.Post("/autoplay", s.autoplay)
	})

	return router
}

type SessionCreateReq struct {
	GameType string `json:"game_type"`
	Word     string `json:"word,omitempty"`
	Seed     int64  `json:"seed,omitempty"`
}

type SessionCreateResp struct {
	Session              *sharedstate.SessionStub `json:"session"`
	internalResponseMeta `json:"-"`
}

func (s sessionsEndpoint) create(w http.ResponseWriter, r *http.Request) {

	var req SessionCreateReq

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpWriteResponseError(w, NewResponseError(fmt.Errorf("failed to decode object: %w", err), 400))
		return
	}

	engine, err := games.New(req.GameType, games.Options{Word: req.Word, Seed: req.Seed})
	if err != nil {
		httpWriteResponseError(w, NewResponseError(err, http.StatusBadRequest))
		return
	}

	now := time.Now().UTC()

	session := &sharedstate.Session{
		ID:         ulid.Make(),
		GameType:   req.GameType,
		CreateTime: now,
		UpdateTime: now,
		Engine:     engine,
	}

	stateResp, stateErr := s.state.Sessions().Create(&state.SessionsCreateReq{Session: session})
	if stateErr != nil {
		httpWriteResponseError(w, NewResponseError(stateErr.Err(), stateErr.StatusCode()))
	} else {
		resp := SessionCreateResp{
			Session:              stateResp.Session.Stub(),
			internalResponseMeta: newInternalResponseMeta(http.StatusCreated),
		}
		httpWriteResponse(w, &resp)
	}
}

type SessionListResp struct {
	Sessions             []*sharedstate.SessionStub `json:"sessions"`
	internalResponseMeta `json:"-"`
}

func (s sessionsEndpoint) list(w http.ResponseWriter, _ *http.Request) {
	stateResp, err := s.state.Sessions().List(&state.SessionsListReq{})
	if err != nil {
		httpWriteResponseError(w, NewResponseError(err.Err(), err.StatusCode()))
	} else {
		resp := SessionListResp{
			Sessions:             stateResp.Sessions,
			internalResponseMeta: newInternalResponseMeta(http.StatusOK),
		}
		httpWriteResponse(w, &resp)
	}
}

type SessionGetResp struct {
	Session              *sharedstate.SessionStub `json:"session"`
	State                any                      `json:"state"`
	internalResponseMeta `json:"-"`
}

func (s sessionsEndpoint) get(w http.ResponseWriter, r *http.Request) {

	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	session.Lock()
	defer session.Unlock()

	resp := SessionGetResp{
		Session:              session.Stub(),
		State:                session.Engine.State(),
		internalResponseMeta: newInternalResponseMeta(http.StatusOK),
	}
	httpWriteResponse(w, &resp)
}

type SessionViewResp struct {
	Player               int `json:"player"`
	State                any `json:"state"`
	internalResponseMeta `json:"-"`
}

func (s sessionsEndpoint) view(w http.ResponseWriter, r *http.Request) {

	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	player := getPlayerParam(r)
	if player < 0 {
		httpWriteResponseError(w, NewResponseError(
			errors.New("player query parameter is required"), http.StatusBadRequest))
		return
	}

	session.Lock()
	defer session.Unlock()

	view, err := session.Engine.View(player)
	if err != nil {
		httpWriteResponseError(w, NewResponseError(err, http.StatusBadRequest))
		return
	}

	resp := SessionViewResp{
		Player:               player,
		State:                view,
		internalResponseMeta: newInternalResponseMeta(http.StatusOK),
	}
	httpWriteResponse(w, &resp)
}

type SessionActionsResp struct {
	Actions              []any `json:"actions"`
	internalResponseMeta `json:"-"`
}

func (s sessionsEndpoint) actions(w http.ResponseWriter, r *http.Request) {

	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	session.Lock()
	defer session.Unlock()

	resp := SessionActionsResp{
		Actions:              session.Engine.Actions(),
		internalResponseMeta: newInternalResponseMeta(http.StatusOK),
	}
	httpWriteResponse(w, &resp)
}

type SessionActReq struct {
	Action json.RawMessage `json:"action"`
}

type SessionActResp struct {
	Session              *sharedstate.SessionStub `json:"session"`
	State                any                      `json:"state"`
	internalResponseMeta `json:"-"`
}

func (s sessionsEndpoint) act(w http.ResponseWriter, r *http.Request) {

	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req SessionActReq

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpWriteResponseError(w, NewResponseError(fmt.Errorf("failed to decode object: %w", err), 400))
		return
	}
	if len(req.Action) == 0 {
		httpWriteResponseError(w, NewResponseError(
			errors.New("action is required"), http.StatusBadRequest))
		return
	}

	session.Lock()
	defer session.Unlock()

	if err := session.Engine.Apply(req.Action); err != nil {
		httpWriteResponseError(w, NewResponseError(err, http.StatusBadRequest))
		return
	}
	session.UpdateTime = time.Now().UTC()

	resp := SessionActResp{
		Session:              session.Stub(),
		State:                session.Engine.State(),
		internalResponseMeta: newInternalResponseMeta(http.StatusOK),
	}
	httpWriteResponse(w, &resp)
}

type SessionAutoplayResp struct {
	Action               any                      `json:"action"`
	Session              *sharedstate.SessionStub `json:"session"`
	State                any                      `json:"state"`
	internalResponseMeta `json:"-"`
}

func (s sessionsEndpoint) autoplay(w http.ResponseWriter, r *http.Request) {

	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	session.Lock()
	defer session.Unlock()

	action, err := session.Engine.Advance()
	if err != nil {
		httpWriteResponseError(w, NewResponseError(err, http.StatusBadRequest))
		return
	}
	session.UpdateTime = time.Now().UTC()

	resp := SessionAutoplayResp{
		Action:               action,
		Session:              session.Stub(),
		State:                session.Engine.State(),
		internalResponseMeta: newInternalResponseMeta(http.StatusOK),
	}
	httpWriteResponse(w, &resp)
}

type SessionDeleteResp struct {
	internalResponseMeta `json:"-"`
}

func (s sessionsEndpoint) delete(w http.ResponseWriter, r *http.Request) {

	sessionID := r.Context().Value("id").(ulid.ULID)

	_, err := s.state.Sessions().Delete(&state.SessionsDeleteReq{ID: sessionID})
	if err != nil {
		httpWriteResponseError(w, NewResponseError(err.Err(), err.StatusCode()))
	} else {
		resp := SessionDeleteResp{
			internalResponseMeta: newInternalResponseMeta(http.StatusOK),
		}
		httpWriteResponse(w, &resp)
	}
}

func (s sessionsEndpoint) lookup(w http.ResponseWriter, r *http.Request) (*sharedstate.Session, bool) {

	sessionID := r.Context().Value("id").(ulid.ULID)

	stateResp, err := s.state.Sessions().Get(&state.SessionsGetReq{ID: sessionID})
	if err != nil {
		httpWriteResponseError(w, NewResponseError(err.Err(), err.StatusCode()))
		return nil, false
	}
	return stateResp.Session, true
}

func (s sessionsEndpoint) context(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		sessionID, err := ulid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httpWriteResponseError(w, NewResponseError(
				fmt.Errorf("failed to parse session ID: %w", err), http.StatusBadRequest))
			return
		}

		ctx := context.WithValue(r.Context(), "id", sessionID) //nolint:staticcheck
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
