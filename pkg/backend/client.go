package backend

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

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/goliatone/go-payform/pkg/backend/contract"
)

// Observer receives one call per completed request. code is 0 when no
// response was received.
type Observer interface {
	ObserveRequest(endpoint string, code int, elapsed time.Duration)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the logger used for transport failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver records request outcomes, typically into metrics.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// WithContract replaces the embedded contract validator.
func WithContract(v *contract.Validator) Option {
	return func(c *Client) {
		if v != nil {
			c.contract = v
		}
	}
}

// WithRequestTimeout bounds each request. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client talks to the payment backend.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	contract *contract.Validator
	logger   *zap.Logger
	observer Observer
	timeout  time.Duration
}

// New constructs a client for baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: base url %q is not absolute", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.contract == nil {
		v, err := contract.Default()
		if err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}
		c.contract = v
	}
	return c, nil
}

// Pay charges a payment and returns the total charged reported by the
// backend.
func (c *Client) Pay(ctx context.Context, req PaymentRequest) (decimal.Decimal, error) {
	query := req.query()
	if err := c.contract.ValidateQuery(contract.OpPay, query); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	values := url.Values{}
	for k, v := range query {
		values.Set(k, v)
	}
	body, err := c.send(ctx, contract.OpPay, values, nil)
	if err != nil {
		return decimal.Zero, err
	}

	total, err := decimal.NewFromString(strings.TrimSpace(string(body)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("backend: pay: parse total %q: %w", truncate(string(body)), err)
	}
	return total, nil
}

// Notify sends a notification. Any 2xx response is success.
func (c *Client) Notify(ctx context.Context, req NotificationRequest) error {
	payload := req.body()
	if err := c.contract.ValidateBody(contract.OpNotification, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	_, err := c.send(ctx, contract.OpNotification, nil, payload)
	return err
}

// Report renders a report and returns the PDF bytes.
func (c *Client) Report(ctx context.Context, req ReportRequest) ([]byte, error) {
	payload := req.body()
	if err := c.contract.ValidateBody(contract.OpReport, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return c.send(ctx, contract.OpReport, nil, payload)
}

func (c *Client) send(ctx context.Context, opID string, query url.Values, payload any) ([]byte, error) {
	op, ok := c.contract.Operation(opID)
	if !ok {
		return nil, fmt.Errorf("backend: operation %q not declared", opID)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + op.Path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("backend: %s: encode body: %w", opID, err)
		}
		reader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, op.Method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: build request: %w", opID, err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(opID, 0, started)
		if !errors.Is(err, context.Canceled) {
			c.logger.Error("backend request failed", zap.String("endpoint", opID), zap.Error(err))
		}
		return nil, fmt.Errorf("backend: %s: %w", opID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.observe(opID, resp.StatusCode, started)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: read body: %w", opID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Endpoint: opID, StatusCode: resp.StatusCode, Body: truncate(string(body))}
		c.logger.Error("backend returned error status",
			zap.String("endpoint", opID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, statusErr
	}
	c.logger.Debug("backend request completed",
		zap.String("endpoint", opID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	return body, nil
}

func (c *Client) observe(opID string, code int, started time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(opID, code, time.Since(started))
	}
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
