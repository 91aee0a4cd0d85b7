// Package auth exchanges an ambient OIDC ID token for Google Cloud
// credentials through workload identity federation. No static service
// account key is read or written at any point.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/iamcredentials/v1"
	"google.golang.org/api/option"

	"github.com/danielawaser/devops-project/internal/pkg/logger"
)

const (
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

	stsEndpoint = "https://sts.googleapis.com/v1/token"

	// GitHub Actions exposes the runner's OIDC token through these
	// environment variables when the id-token permission is granted.
	actionsTokenURLEnv     = "ACTIONS_ID_TOKEN_REQUEST_URL"
	actionsRequestTokenEnv = "ACTIONS_ID_TOKEN_REQUEST_TOKEN"

	tokenRequestTimeout = 10 * time.Second
)

type ExchangerReq struct {
	Logger *zap.Logger

	// WorkloadIdentityProvider is the full provider resource, e.g.
	// projects/123/locations/global/workloadIdentityPools/p/providers/v.
	WorkloadIdentityProvider string

	// ServiceAccount is the email of the account to impersonate.
	ServiceAccount string

	// IDTokenFile optionally points at a file holding the subject ID
	// token; when empty the GitHub Actions token endpoint is used.
	IDTokenFile string

	// STSEndpoint and IAMOptions override the Google endpoints and are
	// only set by tests.
	STSEndpoint string
	IAMOptions  []option.ClientOption
}

type Exchanger struct {
	logger *zap.Logger

	provider       string
	serviceAccount string
	idTokenFile    string

	httpClient  *http.Client
	stsEndpoint string
	iamOptions  []option.ClientOption
}

func NewExchanger(req *ExchangerReq) *Exchanger {

	exchanger := Exchanger{
		logger:         req.Logger.Named(logger.ComponentNameAuth),
		provider:       req.WorkloadIdentityProvider,
		serviceAccount: req.ServiceAccount,
		idTokenFile:    req.IDTokenFile,
		httpClient:     &http.Client{Timeout: tokenRequestTimeout},
		stsEndpoint:    req.STSEndpoint,
		iamOptions:     req.IAMOptions,
	}

	if exchanger.stsEndpoint == "" {
		exchanger.stsEndpoint = stsEndpoint
	}

	return &exchanger
}

// TokenSource runs the full federation chain and returns a token
// source carrying the impersonated service account credential.
func (e *Exchanger) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {

	idToken, err := e.subjectToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain ID token: %w", err)
	}

	federated, err := e.exchangeToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange ID token: %w", err)
	}
	e.logger.Debug("exchanged ID token for federated token",
		zap.Time("expiry", federated.Expiry))

	accessToken, err := e.impersonate(ctx, federated)
	if err != nil {
		return nil, fmt.Errorf("failed to impersonate service account: %w", err)
	}
	e.logger.Info("obtained service account credential",
		zap.String("service_account", e.serviceAccount),
		zap.Time("expiry", accessToken.Expiry))

	return oauth2.StaticTokenSource(accessToken), nil
}

// subjectToken reads the ambient OIDC ID token, preferring a configured
// file over the GitHub Actions token endpoint.
func (e *Exchanger) subjectToken(ctx context.Context) (string, error) {

	if e.idTokenFile != "" {
		data, err := os.ReadFile(e.idTokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read ID token file: %w", err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("ID token file %q is empty", e.idTokenFile)
		}
		return token, nil
	}

	return e.actionsIDToken(ctx)
}

func (e *Exchanger) actionsIDToken(ctx context.Context) (string, error) {

	tokenURL := os.Getenv(actionsTokenURLEnv)
	if tokenURL == "" {
		return "", fmt.Errorf("no ID token source available; set an ID token file or grant the runner the id-token permission")
	}

	reqURL, err := url.Parse(tokenURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse token request URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("audience", "https://iam.googleapis.com/"+e.provider)
	reqURL.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return "", err
	}
	if bearer := os.Getenv(actionsRequestTokenEnv); bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ID token request failed: %s: %s", resp.Status, string(body))
	}

	var tokenResp struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode ID token response: %w", err)
	}
	if tokenResp.Value == "" {
		return "", fmt.Errorf("ID token response did not include a token")
	}
	return tokenResp.Value, nil
}

// exchangeToken trades the OIDC ID token for a federated access token
// at the security token service.
func (e *Exchanger) exchangeToken(ctx context.Context, idToken string) (*oauth2.Token, error) {

	form := url.Values{
		"grant_type":           {"urn:ietf:params:oauth:grant-type:token-exchange"},
		"audience":             {"//iam.googleapis.com/" + e.provider},
		"scope":                {cloudPlatformScope},
		"requested_token_type": {"urn:ietf:params:oauth:token-type:access_token"},
		"subject_token_type":   {"urn:ietf:params:oauth:token-type:jwt"},
		"subject_token":        {idToken},
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, e.stsEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token exchange failed: %s: %s", resp.Status, string(body))
	}

	var stsResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stsResp); err != nil {
		return nil, fmt.Errorf("failed to decode token exchange response: %w", err)
	}
	if stsResp.AccessToken == "" {
		return nil, fmt.Errorf("token exchange response did not include a token")
	}

	return &oauth2.Token{
		AccessToken: stsResp.AccessToken,
		TokenType:   stsResp.TokenType,
		Expiry:      time.Now().Add(time.Duration(stsResp.ExpiresIn) * time.Second),
	}, nil
}

// impersonate uses the federated token to mint a short-lived access
// token for the deploy service account.
func (e *Exchanger) impersonate(ctx context.Context, federated *oauth2.Token) (*oauth2.Token, error) {

	opts := append([]option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(federated)),
	}, e.iamOptions...)

	svc, err := iamcredentials.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("projects/-/serviceAccounts/%s", e.serviceAccount)

	resp, err := svc.Projects.ServiceAccounts.GenerateAccessToken(name, &iamcredentials.GenerateAccessTokenRequest{
		Scope: []string{cloudPlatformScope},
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	expiry, err := time.Parse(time.RFC3339, resp.ExpireTime)
	if err != nil {
		expiry = time.Now().Add(time.Hour)
	}

	return &oauth2.Token{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}
