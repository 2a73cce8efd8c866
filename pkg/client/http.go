package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elmo3159/Pokeseal-sub000/pkg/api"
	"github.com/elmo3159/Pokeseal-sub000/pkg/mapping"
	"github.com/elmo3159/Pokeseal-sub000/pkg/middleware"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the server. It matches the trade error
// it was produced from, so callers can use errors.Is with trade sentinels.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

var errorsByStatus = map[int][]error{
	http.StatusForbidden:           {trade.ErrInvalidParticipant},
	http.StatusNotFound:            {trade.ErrSessionNotFound},
	http.StatusConflict:            {trade.ErrSessionClosed, trade.ErrSessionNotNegotiating, trade.ErrConfirmationLocked},
	http.StatusUnprocessableEntity: {trade.ErrOwnershipInvalid, trade.ErrLedgerFull},
	http.StatusBadRequest:          {trade.ErrInvalidMessage},
	http.StatusServiceUnavailable:  {trade.ErrTransientStore},
}

func (e *APIError) Is(target error) bool {
	for _, known := range errorsByStatus[e.Status] {
		if target != known {
			continue
		}
		if e.Status == http.StatusServiceUnavailable || e.Status == http.StatusForbidden || e.Status == http.StatusNotFound {
			return true
		}
		return strings.Contains(e.Message, known.Error())
	}
	return false
}

// HTTPClient calls the trade REST API as one user.
type HTTPClient struct {
	BaseURL string
	UserID  string
	HTTP    *http.Client
}

// NewHTTPClient creates an HTTPClient. A nil httpClient uses a client with a
// fifteen second timeout.
func NewHTTPClient(baseURL, userID string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{BaseURL: strings.TrimRight(baseURL, "/"), UserID: userID, HTTP: httpClient}
}

var _ API = (*HTTPClient)(nil)

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(middleware.UserIDHeader, c.UserID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to call %s %s: %w: %w", method, path, trade.ErrTransientStore, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr api.Error
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func sessionPath(sessionID string, parts ...string) string {
	return "/sessions/" + url.PathEscape(sessionID) + strings.Join(parts, "")
}

// StartMatching enters random matching.
func (c *HTTPClient) StartMatching(ctx context.Context) (*models.MatchResult, error) {
	var res api.MatchResult
	if err := c.do(ctx, http.MethodPost, "/matching", nil, &res); err != nil {
		return nil, err
	}
	return &models.MatchResult{Matched: res.Matched, Session: mapping.ToDomainSession(&res.Session)}, nil
}

// CancelMatching withdraws a waiting session.
func (c *HTTPClient) CancelMatching(ctx context.Context, sessionID string) (*models.Session, error) {
	var res api.Session
	if err := c.do(ctx, http.MethodDelete, "/matching/"+url.PathEscape(sessionID), nil, &res); err != nil {
		return nil, err
	}
	return mapping.ToDomainSession(&res), nil
}

// InviteDirect opens a session with partnerID.
func (c *HTTPClient) InviteDirect(ctx context.Context, partnerID string) (*models.Session, error) {
	var res api.Session
	if err := c.do(ctx, http.MethodPost, "/sessions", api.NewInvitation{PartnerId: partnerID}, &res); err != nil {
		return nil, err
	}
	return mapping.ToDomainSession(&res), nil
}

// ListSessions lists the caller's sessions.
func (c *HTTPClient) ListSessions(ctx context.Context) ([]models.Session, error) {
	var res []api.Session
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &res); err != nil {
		return nil, err
	}
	out := make([]models.Session, len(res))
	for i := range res {
		out[i] = *mapping.ToDomainSession(&res[i])
	}
	return out, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, sessionID string) (*models.SessionView, error) {
	var res api.SessionView
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID), nil, &res); err != nil {
		return nil, err
	}
	return mapping.ToDomainSessionView(&res), nil
}

// UnreadSummary returns the caller's unread message counts.
func (c *HTTPClient) UnreadSummary(ctx context.Context) (*models.UnreadSummary, error) {
	var res api.UnreadSummary
	if err := c.do(ctx, http.MethodGet, "/unread", nil, &res); err != nil {
		return nil, err
	}
	return &models.UnreadSummary{Total: res.Total, Sessions: res.Sessions}, nil
}

func (c *HTTPClient) AddRequest(ctx context.Context, sessionID, itemID string) (*models.TradeRequest, error) {
	var res api.TradeRequest
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/requests"), api.NewRequest{ItemId: itemID}, &res); err != nil {
		return nil, err
	}
	return mapping.ToDomainTradeRequest(sessionID, &res), nil
}

func (c *HTTPClient) RemoveRequest(ctx context.Context, sessionID, itemID string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(sessionID, "/requests/", url.PathEscape(itemID)), nil, nil)
}

func (c *HTTPClient) SendMessage(ctx context.Context, sessionID string, msgType models.MessageType, content string) (*models.TradeMessage, error) {
	var res api.TradeMessage
	body := api.NewMessage{Type: api.MessageType(msgType), Content: content}
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/messages"), body, &res); err != nil {
		return nil, err
	}
	return mapping.ToDomainTradeMessage(sessionID, &res), nil
}

func (c *HTTPClient) Confirm(ctx context.Context, sessionID string) (*models.ConfirmResult, error) {
	var res api.ConfirmResult
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/confirm"), nil, &res); err != nil {
		return nil, err
	}
	return mapping.ToDomainConfirmResult(&res), nil
}

func (c *HTTPClient) Cancel(ctx context.Context, sessionID string) (*models.Session, error) {
	var res api.Session
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/cancel"), nil, &res); err != nil {
		return nil, err
	}
	return mapping.ToDomainSession(&res), nil
}

// GetOwnedItems lists the items userID owns.
func (c *HTTPClient) GetOwnedItems(ctx context.Context, userID string) ([]models.Item, error) {
	var res []api.Item
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/items", nil, &res); err != nil {
		return nil, err
	}
	return mapping.ToDomainItems(res, userID), nil
}

// IsRecoverable reports whether err leaves the session usable.
func IsRecoverable(err error) bool {
	var re *RecoverableError
	return errors.As(err, &re)
}
