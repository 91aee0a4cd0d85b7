package dev

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	sharedstate "github.com/danielawaser/devops-project/internal/pkg/state"
	"github.com/danielawaser/devops-project/internal/server/state"
)

func TestSessionLifecycle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	backend := New(zap.New(core))
	sessions := backend.Sessions()

	session := &sharedstate.Session{ID: ulid.Make(), GameType: "hangman"}

	if _, errResp := sessions.Create(&state.SessionsCreateReq{Session: session}); errResp != nil {
		t.Fatalf("Create() error: %v", errResp)
	}
	if _, errResp := sessions.Create(&state.SessionsCreateReq{Session: session}); errResp == nil {
		t.Fatal("duplicate session accepted, want error")
	}

	got, errResp := sessions.Get(&state.SessionsGetReq{ID: session.ID})
	if errResp != nil {
		t.Fatalf("Get() error: %v", errResp)
	}
	if got.Session.GameType != "hangman" {
		t.Errorf("game type = %s, want hangman", got.Session.GameType)
	}

	if _, errResp := sessions.Delete(&state.SessionsDeleteReq{ID: session.ID}); errResp != nil {
		t.Fatalf("Delete() error: %v", errResp)
	}
	if _, errResp := sessions.Get(&state.SessionsGetReq{ID: session.ID}); errResp == nil {
		t.Fatal("deleted session still readable")
	}

	entries := logs.FilterMessage("stored new session").All()
	if len(entries) != 1 {
		t.Fatalf("stored-session logs = %d, want 1", len(entries))
	}
	if name := entries[0].LoggerName; name != "state" {
		t.Errorf("logger name = %s, want state", name)
	}
}
