package gate

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fundarb/internal/application/port"
)

const defaultBaseURL = "https://api.gateio.ws"

// Client is the signed Gate.io REST v4 client behind the Gateway port.
// All request failures come back as *port.GatewayError.
type Client struct {
	baseURL string
	key     string
	secret  string
	settle  string // settlement currency for futures paths, e.g. "usdt"

	httpClient *http.Client

	// Gate throttles public and private endpoints separately.
	publicLimiter  *rate.Limiter
	privateLimiter *rate.Limiter
}

func NewClient(baseURL, key, secret, settle string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(settle) == "" {
		settle = "usdt"
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		key:            key,
		secret:         secret,
		settle:         settle,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		publicLimiter:  rate.NewLimiter(10, 20),
		privateLimiter: rate.NewLimiter(5, 10),
	}
}

var _ port.Gateway = (*Client)(nil)

// apiError is Gate's error envelope.
type apiError struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

func (c *Client) publicGet(ctx context.Context, op, path string, params url.Values, out any) error {
	return c.request(ctx, c.publicLimiter, op, http.MethodGet, path, params, nil, false, out)
}

func (c *Client) signedGet(ctx context.Context, op, path string, params url.Values, out any) error {
	return c.request(ctx, c.privateLimiter, op, http.MethodGet, path, params, nil, true, out)
}

func (c *Client) signedPost(ctx context.Context, op, path string, params url.Values, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return port.NewGatewayError(port.KindRejected, op, err)
		}
	}
	return c.request(ctx, c.privateLimiter, op, http.MethodPost, path, params, body, true, out)
}

func (c *Client) request(ctx context.Context, limiter *rate.Limiter, op, method, path string, params url.Values, body []byte, signed bool, out any) error {
	if err := limiter.Wait(ctx); err != nil {
		return port.NewGatewayError(port.KindTransient, op, err)
	}

	query := ""
	if params != nil {
		query = params.Encode()
	}
	endpoint := c.baseURL + path
	if query != "" {
		endpoint += "?" + query
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return port.NewGatewayError(port.KindRejected, op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if signed {
		c.sign(req, method, path, query, body)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return port.NewGatewayError(port.KindTransient, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return port.NewGatewayError(port.KindTransient, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return port.NewGatewayError(classifyStatus(resp.StatusCode), op, statusError(resp.StatusCode, raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return port.NewGatewayError(port.KindTransient, op, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

// sign applies the Gate v4 APIv4 signature:
// HMAC-SHA512(method\npath\nquery\nSHA512(body)\ntimestamp).
func (c *Client) sign(req *http.Request, method, path, query string, body []byte) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	bodyHash := sha512.Sum512(body)
	payload := strings.Join([]string{
		method,
		path,
		query,
		hex.EncodeToString(bodyHash[:]),
		ts,
	}, "\n")

	mac := hmac.New(sha512.New, []byte(c.secret))
	mac.Write([]byte(payload))

	req.Header.Set("KEY", c.key)
	req.Header.Set("Timestamp", ts)
	req.Header.Set("SIGN", hex.EncodeToString(mac.Sum(nil)))
}

func classifyStatus(status int) port.ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return port.KindAuth
	case status == http.StatusNotFound:
		return port.KindNotFound
	case status == http.StatusTooManyRequests || status >= 500:
		return port.KindTransient
	default:
		return port.KindRejected
	}
}

func statusError(status int, raw []byte) error {
	var ae apiError
	if err := json.Unmarshal(raw, &ae); err == nil && ae.Label != "" {
		return fmt.Errorf("http %d: %s: %s", status, ae.Label, ae.Message)
	}
	return fmt.Errorf("http %d: %s", status, strings.TrimSpace(string(raw)))
}

var errEmptyResponse = errors.New("empty response")
