// Package gateway is the HTTP client for the condominium backend. Every
// call is bounded by the client timeout; callers decide what a failure means.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/condoguard/frontdesk/internal/models"
	"github.com/condoguard/frontdesk/internal/observability"
)

const maxErrorBody = 4 << 10

// Config holds the backend connection settings
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
}

// Client talks JSON over HTTPS to the backend
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *observability.Logger
}

// New creates a client. The API key is sent as a bearer token.
func New(cfg Config, logger *observability.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	var transport http.RoundTripper = otelhttp.NewTransport(http.DefaultTransport)
	if cfg.APIKey != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"}),
			Base:   transport,
		}
	}

	return &Client{
		baseURL:   base,
		http:      &http.Client{Transport: transport, Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		logger:    logger.WithField("component", "gateway"),
	}, nil
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    interface{}
	headers map[string]string
}

// do sends req and decodes a 2xx body into out. Non-2xx responses come back
// as *StatusError.
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + req.path
	if req.query != nil {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, req.method, req.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     req.method,
			Path:       req.path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(msg),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}

func condoPath(condoID int64, rest string) string {
	return "/condominiums/" + strconv.FormatInt(condoID, 10) + rest
}

// Ping is the cheap read used by the health probe
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/health"}, nil)
}

// ListLookups fetches one configuration list
func (c *Client) ListLookups(ctx context.Context, kind models.LookupKind, condoID int64) ([]models.Lookup, error) {
	q := url.Values{}
	if condoID > 0 {
		q.Set("condominium_id", strconv.FormatInt(condoID, 10))
	}
	var out []models.Lookup
	if err := c.do(ctx, request{method: http.MethodGet, path: "/lookups/" + string(kind), query: q}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Kind = kind
	}
	return out, nil
}

// ListUnits fetches the condominium's units
func (c *Client) ListUnits(ctx context.Context, condoID int64) ([]models.Unit, error) {
	var out []models.Unit
	err := c.do(ctx, request{method: http.MethodGet, path: condoPath(condoID, "/units")}, &out)
	return out, err
}

// ListStaff fetches the condominium's roster
func (c *Client) ListStaff(ctx context.Context, condoID int64) ([]models.Staff, error) {
	var out []models.Staff
	err := c.do(ctx, request{method: http.MethodGet, path: condoPath(condoID, "/staff")}, &out)
	return out, err
}

// ListVisits fetches visits checked in within [from, to)
func (c *Client) ListVisits(ctx context.Context, condoID int64, from, to time.Time) ([]models.Visit, error) {
	q := url.Values{}
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	var out []models.Visit
	err := c.do(ctx, request{method: http.MethodGet, path: condoPath(condoID, "/visits"), query: q}, &out)
	return out, err
}

// ListIncidents fetches every open incident of the condominium
func (c *Client) ListIncidents(ctx context.Context, condoID int64) ([]models.Incident, error) {
	var out []models.Incident
	err := c.do(ctx, request{method: http.MethodGet, path: condoPath(condoID, "/incidents")}, &out)
	return out, err
}

// CreateVisit persists a visit. The client reference doubles as the
// idempotency key. A nil visit with nil error means the backend refused to
// store it.
func (c *Client) CreateVisit(ctx context.Context, v *models.Visit) (*models.Visit, error) {
	payload := *v
	payload.ID = models.RecordID{}
	payload.PhotoData = ""
	payload.SyncStatus = ""

	var out models.Visit
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/visits",
		body:    payload,
		headers: map[string]string{"Idempotency-Key": v.ClientRef},
	}, &out)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && !se.Transient() && se.StatusCode != http.StatusUnauthorized {
			c.logger.WithError(err).WithField("client_ref", v.ClientRef).Warn("Backend rejected visit")
			return nil, nil
		}
		return nil, err
	}
	if _, ok := out.ID.Remote(); !ok {
		return nil, nil
	}
	return &out, nil
}

// FindVisitByClientRef looks for a visit already stored under ref
func (c *Client) FindVisitByClientRef(ctx context.Context, ref string) (*models.Visit, error) {
	q := url.Values{}
	q.Set("client_ref", ref)
	var out []models.Visit
	if err := c.do(ctx, request{method: http.MethodGet, path: "/visits", query: q}, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// UpdateVisit patches a visit; false means the backend does not know it
func (c *Client) UpdateVisit(ctx context.Context, id int64, upd models.VisitUpdate) (bool, error) {
	return c.patch(ctx, "/visits/"+strconv.FormatInt(id, 10), upd)
}

// UpdateIncident patches an incident; false means the backend does not know it
func (c *Client) UpdateIncident(ctx context.Context, id int64, upd models.IncidentUpdate) (bool, error) {
	return c.patch(ctx, "/incidents/"+strconv.FormatInt(id, 10), upd)
}

func (c *Client) patch(ctx context.Context, path string, body interface{}) (bool, error) {
	err := c.do(ctx, request{method: http.MethodPatch, path: path, body: body}, nil)
	if IsStatus(err, http.StatusNotFound) {
		return false, nil
	}
	return err == nil, err
}

// UploadPhoto stores a data URL and returns its public URL ("" when refused)
func (c *Client) UploadPhoto(ctx context.Context, dataURL string, condoID int64, label string) (string, error) {
	body := map[string]interface{}{
		"dataUrl":       dataURL,
		"condominiumId": condoID,
		"label":         label,
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/uploads", body: body}, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// GetDevice returns the registry entry, or nil when the device is unknown
func (c *Client) GetDevice(ctx context.Context, identifier string) (*models.DeviceRecord, error) {
	var out models.DeviceRecord
	err := c.do(ctx, request{method: http.MethodGet, path: "/devices/" + url.PathEscape(identifier)}, &out)
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterDevice creates or replaces the registry entry
func (c *Client) RegisterDevice(ctx context.Context, rec *models.DeviceRecord) (bool, error) {
	err := c.do(ctx, request{method: http.MethodPost, path: "/devices", body: rec}, nil)
	return err == nil, err
}

// UpdateHeartbeat stamps the device's last-seen time
func (c *Client) UpdateHeartbeat(ctx context.Context, identifier string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/devices/" + url.PathEscape(identifier) + "/heartbeat"}, nil)
}

// GetCondominium returns tenant details, or nil when unknown
func (c *Client) GetCondominium(ctx context.Context, id int64) (*models.Condominium, error) {
	var out models.Condominium
	err := c.do(ctx, request{method: http.MethodGet, path: condoPath(id, "")}, &out)
	if IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyLogin checks staff credentials; nil means they were rejected
func (c *Client) VerifyLogin(ctx context.Context, first, last, pin string) (*models.Staff, error) {
	body := map[string]string{"firstName": first, "lastName": last, "pin": pin}
	var out models.Staff
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/staff-login", body: body}, &out)
	if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
