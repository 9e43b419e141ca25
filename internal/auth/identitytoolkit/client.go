// Package identitytoolkit is a thin client for the Identity Toolkit REST
// endpoints that the Admin SDK does not cover: password sign-in and
// federated credential sign-in. Both return a Firebase ID token for the
// session-cookie mint.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// ProviderError is a sign-in rejection reported by the endpoint, e.g.
// INVALID_LOGIN_CREDENTIALS or USER_DISABLED.
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity toolkit: %s", e.Code)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SignInResult is the subset of the endpoint response the service needs.
type SignInResult struct {
	UID     string
	Email   string
	IDToken string
}

// SignInWithPassword exchanges email+password credentials for an ID token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*SignInResult, error) {
	body := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var resp struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
		IDToken string `json:"idToken"`
	}
	if err := c.post(ctx, "accounts:signInWithPassword", body, &resp); err != nil {
		return nil, err
	}
	return &SignInResult{UID: resp.LocalID, Email: resp.Email, IDToken: resp.IDToken}, nil
}

// SignInWithGoogleIDToken signs a Google OAuth credential into Firebase.
func (c *Client) SignInWithGoogleIDToken(ctx context.Context, googleIDToken, requestURI string) (*SignInResult, error) {
	body := map[string]interface{}{
		"postBody":            "id_token=" + googleIDToken + "&providerId=google.com",
		"requestUri":          requestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}
	var resp struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
		IDToken string `json:"idToken"`
	}
	if err := c.post(ctx, "accounts:signInWithIdp", body, &resp); err != nil {
		return nil, err
	}
	return &SignInResult{UID: resp.LocalID, Email: resp.Email, IDToken: resp.IDToken}, nil
}

func (c *Client) post(ctx context.Context, method string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, method, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&errResp); err != nil || errResp.Error.Message == "" {
			return &ProviderError{Code: res.Status}
		}
		return &ProviderError{Code: errResp.Error.Message}
	}

	return json.NewDecoder(res.Body).Decode(out)
}
