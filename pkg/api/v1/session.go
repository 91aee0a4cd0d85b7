package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	GameTypeBattleship = "battleship"
	GameTypeDog        = "dog"
	GameTypeHangman    = "hangman"
)

const (
	SessionPhaseSetup    = "setup"
	SessionPhaseRunning  = "running"
	SessionPhaseFinished = "finished"
)

type Session struct {
	ID           ulid.ULID `json:"id"`
	GameType     string    `json:"game_type"`
	Phase        string    `json:"phase"`
	Players      int       `json:"players"`
	ActivePlayer int       `json:"active_player"`
	CreateTime   time.Time `json:"create_time"`
	UpdateTime   time.Time `json:"update_time"`
}

type Sessions struct {
	client *Client
}

func (c *Client) Sessions() *Sessions {
	return &Sessions{client: c}
}

type SessionCreateReq struct {
	GameType string `json:"game_type"`
	Word     string `json:"word,omitempty"`
	Seed     int64  `json:"seed,omitempty"`
}

type SessionCreateResp struct {
	Session *Session `json:"session"`
}

func (s *Sessions) Create(ctx context.Context, req *SessionCreateReq) (*SessionCreateResp, *Response, error) {

	var resp SessionCreateResp

	httpReq, err := s.client.NewRequest(http.MethodPost, "/v1/sessions", req)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type SessionDeleteReq struct {
	ID ulid.ULID `json:"id"`
}

func (s *Sessions) Delete(ctx context.Context, req *SessionDeleteReq) (*Response, error) {

	httpReq, err := s.client.NewRequest(http.MethodDelete, "/v1/sessions/"+req.ID.String(), nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, nil)
	if err != nil {
		return httpResp, err
	}

	return httpResp, nil
}

type SessionGetReq struct {
	ID ulid.ULID `json:"id"`
}

type SessionGetResp struct {
	Session *Session        `json:"session"`
	State   json.RawMessage `json:"state"`
}

func (s *Sessions) Get(ctx context.Context, req *SessionGetReq) (*SessionGetResp, *Response, error) {

	var resp SessionGetResp

	httpReq, err := s.client.NewRequest(http.MethodGet, "/v1/sessions/"+req.ID.String(), nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type SessionListReq struct{}

type SessionListResp struct {
	Sessions []*Session `json:"sessions"`
}

func (s *Sessions) List(ctx context.Context, _ *SessionListReq) (*SessionListResp, *Response, error) {

	var resp SessionListResp

	httpReq, err := s.client.NewRequest(http.MethodGet, "/v1/sessions", nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type SessionViewReq struct {
	ID     ulid.ULID `json:"id"`
	Player int       `json:"player"`
}

type SessionViewResp struct {
	Player int             `json:"player"`
	State  json.RawMessage `json:"state"`
}

func (s *Sessions) View(ctx context.Context, req *SessionViewReq) (*SessionViewResp, *Response, error) {

	var resp SessionViewResp

	httpReq, err := s.client.NewRequest(http.MethodGet, "/v1/sessions/"+req.ID.String()+"/view", nil)
	if err != nil {
		return nil, nil, err
	}

	query := httpReq.URL.Query()
	query.Set("player", strconv.Itoa(req.Player))
	httpReq.URL.RawQuery = query.Encode()

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type SessionActionsReq struct {
	ID ulid.ULID `json:"id"`
}

type SessionActionsResp struct {
	Actions []json.RawMessage `json:"actions"`
}

func (s *Sessions) Actions(ctx context.Context, req *SessionActionsReq) (*SessionActionsResp, *Response, error) {

	var resp SessionActionsResp

	httpReq, err := s.client.NewRequest(http.MethodGet, "/v1/sessions/"+req.ID.String()+"/actions", nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type SessionActReq struct {
	ID     ulid.ULID       `json:"-"`
	Action json.RawMessage `json:"action"`
}

type SessionActResp struct {
	Session *Session        `json:"session"`
	State   json.RawMessage `json:"state"`
}

func (s *Sessions) Act(ctx context.Context, req *SessionActReq) (*SessionActResp, *Response, error) {

	var resp SessionActResp

	httpReq, err := s.client.NewRequest(http.MethodPost, "/v1/sessions/"+req.ID.String()+"/actions", req)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}

type SessionAutoplayReq struct {
	ID ulid.ULID `json:"id"`
}

type SessionAutoplayResp struct {
	Action  json.RawMessage `json:"action"`
	Session *Session        `json:"session"`
	State   json.RawMessage `json:"state"`
}

func (s *Sessions) Autoplay(ctx context.Context, req *SessionAutoplayReq) (*SessionAutoplayResp, *Response, error) {

	var resp SessionAutoplayResp

	httpReq, err := s.client.NewRequest(http.MethodPost, "/v1/sessions/"+req.ID.String()+"/autoplay", nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := s.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}
