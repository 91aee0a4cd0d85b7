package api

import (
	"context"
	"net/http"
)

type Games struct {
	client *Client
}

func (c *Client) Games() *Games {
	return &Games{client: c}
}

type GameListReq struct{}

type GameListResp struct {
	Games []string `json:"games"`
}

func (g *Games) List(ctx context.Context, _ *GameListReq) (*GameListResp, *Response, error) {

	var resp GameListResp

	httpReq, err := g.client.NewRequest(http.MethodGet, "/v1/games", nil)
	if err != nil {
		return nil, nil, err
	}

	httpResp, err := g.client.Do(ctx, httpReq, &resp)
	if err != nil {
		return nil, httpResp, err
	}

	return &resp, httpResp, nil
}
