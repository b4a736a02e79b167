package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"eptweb/internal/app/learning"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// IssueToken exchanges credentials for an access token.
// A rejection is a *StatusError whose Message is the backend body text verbatim.
func (c *Client) IssueToken(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.do(ctx, http.MethodPost, PathAuthToken, "", contentTypeForm, []byte(form.Encode()))
	if err != nil {
		return "", err
	}

	if !resp.OK() {
		return "", &StatusError{Status: resp.Status, Message: strings.TrimSpace(string(resp.Body))}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil || payload.AccessToken == "" {
		return "", ErrNoToken
	}

	return payload.AccessToken, nil
}

// RevokeToken asks the backend to end the session behind token.
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	resp, err := c.do(ctx, http.MethodDelete, PathAuth, token, "", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return statusError(resp)
	}
	return nil
}

// CurrentUser fetches the account behind token, including its play stories.
func (c *Client) CurrentUser(ctx context.Context, token string) (*learning.User, error) {
	var user learning.User
	if err := c.getJSON(ctx, PathUserMe, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RolePlays fetches the mission catalog as seen by the user behind token.
func (c *Client) RolePlays(ctx context.Context, token string) ([]learning.Role, error) {
	var roles []learning.Role
	if err := c.getJSON(ctx, PathRolePlay, token, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// SubmitAnswer posts one answer for a play. The updated transcript is read back through CurrentUser.
func (c *Client) SubmitAnswer(ctx context.Context, token string, answer learning.Answer) error {
	return c.postJSON(ctx, PathRolePlay, token, answer)
}

// Register creates an account. No session is required.
func (c *Client) Register(ctx context.Context, reg learning.Registration) error {
	if err := reg.Check(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
	}
	return c.postJSON(ctx, PathUserRegister, "", reg)
}

func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, token, "", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return statusError(resp)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, token, contentTypeJSON, body)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return statusError(resp)
	}
	return nil
}
