package state

import (
	"github.com/oklog/ulid/v2"

	sharedstate "github.com/danielawaser/devops-project/internal/pkg/state"
)

type State interface {
	Sessions() Sessions
}

type Sessions interface {
	Create(*SessionsCreateReq) (*SessionsCreateResp, *ErrorResp)
	Delete(*SessionsDeleteReq) (*SessionsDeleteResp, *ErrorResp)
	Get(*SessionsGetReq) (*SessionsGetResp, *ErrorResp)
	List(*SessionsListReq) (*SessionsListResp, *ErrorResp)
	Update(*SessionsUpdateReq) (*SessionsUpdateResp, *ErrorResp)
}

type SessionsCreateReq struct {
	Session *sharedstate.Session
}

type SessionsCreateResp struct {
	Session *sharedstate.Session
}

type SessionsDeleteReq struct {
	ID ulid.ULID
}

type SessionsDeleteResp struct{}

type SessionsGetReq struct {
	ID ulid.ULID
}

type SessionsGetResp struct {
	Session *sharedstate.Session
}

type SessionsListReq struct{}

type SessionsListResp struct {
	Sessions []*sharedstate.SessionStub
}

type SessionsUpdateReq struct {
	Session *sharedstate.Session
}

type SessionsUpdateResp struct{}

type ErrorResp struct {
	ErrorBody `json:"error"`
}

type ErrorBody struct {
	Msg  string `json:"message"`
	Code int    `json:"code"`
	err  error
}

func NewErrorResp(e error, c int) *ErrorResp {
	return &ErrorResp{
		ErrorBody: ErrorBody{
			err:  e,
			Code: c,
			Msg:  e.Error(),
		},
	}
}

func (e *ErrorResp) Error() string { return e.Msg }

func (e *ErrorResp) Err() error { return e.err }

func (e *ErrorResp) StatusCode() int { return e.Code }

func (e *ErrorResp) String() string { return e.Msg }
