package dev

import (
	"errors"

	"go.uber.org/zap"

	sharedstate "github.com/danielawaser/devops-project/internal/pkg/state"
	"github.com/danielawaser/devops-project/internal/server/state"
)

func (s *State) Sessions() state.Sessions {
	return &Sessions{s: s}
}

type Sessions struct {
	s *State
}

func (s *Sessions) Create(req *state.SessionsCreateReq) (*state.SessionsCreateResp, *state.ErrorResp) {
	s.s.sessionsLock.Lock()
	defer s.s.sessionsLock.Unlock()

	if _, ok := s.s.sessions[req.Session.ID]; ok {
		return nil, state.NewErrorResp(errors.New("session already exists"), 409)
	}

	s.s.sessions[req.Session.ID] = req.Session
	s.s.logger.Debug("stored new session",
		zap.String("session_id", req.Session.ID.String()),
		zap.String("game_type", req.Session.GameType))
	return &state.SessionsCreateResp{Session: req.Session}, nil
}

func (s *Sessions) Delete(req *state.SessionsDeleteReq) (*state.SessionsDeleteResp, *state.ErrorResp) {
	s.s.sessionsLock.Lock()
	defer s.s.sessionsLock.Unlock()

	if _, ok := s.s.sessions[req.ID]; !ok {
		return nil, state.NewErrorResp(errors.New("session not found"), 404)
	}

	delete(s.s.sessions, req.ID)
	s.s.logger.Debug("deleted session", zap.String("session_id", req.ID.String()))
	return &state.SessionsDeleteResp{}, nil
}

func (s *Sessions) Get(req *state.SessionsGetReq) (*state.SessionsGetResp, *state.ErrorResp) {
	s.s.sessionsLock.RLock()
	defer s.s.sessionsLock.RUnlock()

	if session, ok := s.s.sessions[req.ID]; !ok {
		return nil, state.NewErrorResp(errors.New("session not found"), 404)
	} else {
		return &state.SessionsGetResp{Session: session}, nil
	}
}

func (s *Sessions) List(req *state.SessionsListReq) (*state.SessionsListResp, *state.ErrorResp) {
	s.s.sessionsLock.RLock()
	defer s.s.sessionsLock.RUnlock()

	var sessions []*sharedstate.SessionStub

	for _, session := range s.s.sessions {
		sessions = append(sessions, session.Stub())
	}

	return &state.SessionsListResp{Sessions: sessions}, nil
}

func (s *Sessions) Update(req *state.SessionsUpdateReq) (*state.SessionsUpdateResp, *state.ErrorResp) {
	s.s.sessionsLock.Lock()
	defer s.s.sessionsLock.Unlock()

	s.s.sessions[req.Session.ID] = req.Session
	return &state.SessionsUpdateResp{}, nil
}
