package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type Config struct {
	// Address is the base URL of the game server, including the scheme.
	Address string

	HTTPClient *http.Client
}

func DefaultConfig() *Config {
	return &Config{
		Address: "http://127.0.0.1:8080",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type Client struct {
	config *Config
}

func NewClient(cfg *Config) *Client {

	defaultCfg := DefaultConfig()

	if cfg.Address == "" {
		cfg.Address = defaultCfg.Address
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = defaultCfg.HTTPClient
	}

	return &Client{config: cfg}
}

func (c *Client) NewRequest(method, path string, obj any) (*http.Request, error) {

	reqURL, err := url.JoinPath(c.config.Address, path)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}

	var body bytes.Buffer

	if obj != nil {
		if err := json.NewEncoder(&body).Encode(obj); err != nil {
			return nil, fmt.Errorf("failed to encode request object: %w", err)
		}
	}

	req, err := http.NewRequest(method, reqURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

type Response struct {
	*http.Response
}

func (c *Client) Do(ctx context.Context, req *http.Request, out any) (*Response, error) {

	httpResp, err := c.config.HTTPClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	resp := &Response{Response: httpResp}

	if httpResp.StatusCode >= http.StatusBadRequest {
		respErr := ResponseError{}
		if err := json.NewDecoder(httpResp.Body).Decode(&respErr); err != nil {
			return resp, fmt.Errorf("server returned status %d", httpResp.StatusCode)
		}
		return resp, &respErr
	}

	if out != nil {
		if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("failed to decode response object: %w", err)
		}
	}

	return resp, nil
}

type ResponseError struct {
	ErrorBody `json:"error"`
}

type ErrorBody struct {
	Msg  string `json:"message"`
	Code int    `json:"code"`
}

func (e *ResponseError) Error() string { return e.Msg }

func (e *ResponseError) StatusCode() int { return e.Code }
