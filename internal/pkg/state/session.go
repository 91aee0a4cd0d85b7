package state

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/danielawaser/devops-project/internal/games"
)

// Session is a single game being played on the server. The embedded
// mutex guards the engine, which is not safe for concurrent use.
type Session struct {
	sync.Mutex `json:"-"`

	ID       ulid.ULID `json:"id"`
	GameType string    `json:"game_type"`

	CreateTime time.Time `json:"create_time"`
	UpdateTime time.Time `json:"update_time"`

	// Engine holds the live game and is rebuilt on restore; it is not
	// part of the wire representation.
	Engine games.Engine `json:"-"`
}

func (s *Session) Stub() *SessionStub {
	return &SessionStub{
		ID:           s.ID,
		GameType:     s.GameType,
		Phase:        s.Engine.Phase(),
		Players:      s.Engine.PlayerCount(),
		ActivePlayer: s.Engine.ActivePlayer(),
		CreateTime:   s.CreateTime,
		UpdateTime:   s.UpdateTime,
	}
}

type SessionStub struct {
	ID           ulid.ULID   `json:"id"`
	GameType     string      `json:"game_type"`
	Phase        games.Phase `json:"phase"`
	Players      int         `json:"players"`
	ActivePlayer int         `json:"active_player"`
	CreateTime   time.Time   `json:"create_time"`
	UpdateTime   time.Time   `json:"update_time"`
}
