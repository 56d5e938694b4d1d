package landscape

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/landscape-community/landscape-mcp/internal/logger"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

const (
	apiVersion      = "2011-08-01"
	signatureMethod = "HmacSHA256"
	signatureVer    = "2"
	timestampLayout = "2006-01-02T15:04:05Z"

	defaultTimeout = 30 * time.Second
)

// Config holds the connection settings for a Client.
type Config struct {
	URI       string
	AccessKey string
	SecretKey string
	// CAFile is an optional PEM bundle trusted in addition to the system pool.
	CAFile  string
	Timeout time.Duration
}

// Client calls the Landscape legacy API with signed GET requests.
type Client struct {
	endpoint   *url.URL
	accessKey  string
	secretKey  string
	httpClient *http.Client
	now        func() time.Time
	log        zerolog.Logger
}

var _ Source = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client built from Config.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock replaces time.Now for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient validates cfg and returns a client for it.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, errors.New("landscape api uri is required")
	}
	endpoint, err := url.Parse(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid landscape api uri %q: %w", cfg.URI, err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("invalid landscape api uri %q: scheme and host are required", cfg.URI)
	}
	if endpoint.Path == "" {
		endpoint.Path = "/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.CAFile != "" {
		pool, err := loadCertPool(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	}

	c := &Client{
		endpoint:  endpoint,
		accessKey: cfg.AccessKey,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		now: time.Now,
		log: logger.WithComponent("landscape"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}
	return pool, nil
}

// GetComputers implements Source.
func (c *Client) GetComputers(ctx context.Context, q ComputerQuery) ([]models.Machine, error) {
	args := url.Values{}
	setString(args, "query", q.Query)
	setInt(args, "limit", q.Limit)
	setInt(args, "offset", q.Offset)
	if q.WithAnnotations {
		args.Set("with_annotations", "true")
	}

	var out []models.Machine
	if err := c.call(ctx, "GetComputers", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPackages implements Source.
func (c *Client) GetPackages(ctx context.Context, q PackageQuery) ([]models.Package, error) {
	args := url.Values{}
	setString(args, "query", q.Query)
	setString(args, "search", q.Search)
	setInt(args, "limit", q.Limit)
	setInt(args, "offset", q.Offset)

	var out []models.Package
	if err := c.call(ctx, "GetPackages", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAlerts implements Source.
func (c *Client) GetAlerts(ctx context.Context) ([]models.Alert, error) {
	var out []models.Alert
	if err := c.call(ctx, "GetAlerts", url.Values{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetNotPingingComputers implements Source.
func (c *Client) GetNotPingingComputers(ctx context.Context, sinceMinutes, limit int) ([]models.Machine, error) {
	args := url.Values{}
	setInt(args, "since_minutes", sinceMinutes)
	setInt(args, "limit", limit)

	var out []models.Machine
	if err := c.call(ctx, "GetNotPingingComputers", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetActivities implements Source.
func (c *Client) GetActivities(ctx context.Context, q ActivityQuery) ([]models.Activity, error) {
	args := url.Values{}
	setString(args, "query", q.Query)
	setInt(args, "limit", q.Limit)
	setInt(args, "offset", q.Offset)

	var out []models.Activity
	if err := c.call(ctx, "GetActivities", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, action string, args url.Values, out any) error {
	req, err := c.newRequest(ctx, action, args)
	if err != nil {
		return err
	}

	start := c.now()
	err = c.doJSON(req, out)
	c.log.Debug().
		Str("action", action).
		Dur("duration", c.now().Sub(start)).
		Err(err).
		Msg("landscape api call")
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, action string, args url.Values) (*http.Request, error) {
	params := url.Values{}
	for k, vs := range args {
		params[k] = vs
	}
	params.Set("action", action)
	params.Set("access_key_id", c.accessKey)
	params.Set("signature_method", signatureMethod)
	params.Set("signature_version", signatureVer)
	params.Set("timestamp", c.now().UTC().Format(timestampLayout))
	params.Set("version", apiVersion)

	query := canonicalQuery(params)
	signature := sign(c.secretKey, http.MethodGet, c.endpoint.Host, c.endpoint.Path, query)

	u := *c.endpoint
	u.RawQuery = query + "&signature=" + percentEncode(signature)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil
	}
	// Some actions answer with a bare object where a list is documented.
	if body[0] == '{' {
		body = append(append([]byte{'['}, body...), ']')
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && (payload.Error != "" || payload.Message != "") {
		apiErr.Code = payload.Error
		apiErr.Message = payload.Message
		return apiErr
	}

	// read up to 1KB of body for error message
	if len(body) > 1024 {
		body = body[:1024]
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

// canonicalQuery encodes params with sorted keys and RFC 3986 escaping.
func canonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range params[k] {
			parts = append(parts, percentEncode(k)+"="+percentEncode(v))
		}
	}
	return strings.Join(parts, "&")
}

// sign returns the base64 HMAC-SHA256 of the request description.
func sign(secret, method, host, path, query string) string {
	toSign := method + "\n" + strings.ToLower(host) + "\n" + path + "\n" + query
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(toSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}
