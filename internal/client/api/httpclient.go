package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ontrackhq/ontrack/internal/common"
	"github.com/ontrackhq/ontrack/internal/logging"
)

const (
	loginPath         = "/auth/login"
	registerPath      = "/auth/register"
	refreshPath       = "/auth/refresh"
	profilePath       = "/auth/profile"
	friendsPath       = "/auth/friends"
	usersPath         = "/auth/users"
	friendRequestPath = "/auth/friend-requests"
	pendingPath       = "/auth/friend-requests/pending"
	handleRequestPath = "/auth/friend-requests/handle"
	tripsPath         = "/trips"
	predictionsPath   = "/predictions"
	leaderboardPath   = "/leaderboard"
)

// HTTPClientOptions tune the transport. Zero values fall back to defaults.
type HTTPClientOptions struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	DeviceID          string
}

// HTTPClient implements Client over the backend's REST contract.
//
// On a 401 for an authenticated call it performs exactly one credential
// refresh and retries the original request exactly once. The refresh itself
// is single-flight: concurrent callers that hit a 401 at the same time wait
// for one shared refresh instead of each issuing their own.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	tokens   TokenStore
	limiter  *rate.Limiter
	log      logging.Logger
	deviceID string

	refreshGroup singleflight.Group
}

func NewHTTPClient(baseURL string, tokens TokenStore, log logging.Logger, opts HTTPClientOptions) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	deviceID := opts.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		limiter:  rate.NewLimiter(rate.Limit(rps), int(rps)),
		log:      log.With("component", "api"),
		deviceID: deviceID,
	}
}

// send issues one attempt of the request. The body is a replayable byte
// slice so the attempt after a refresh carries the same payload.
func (c *HTTPClient) send(ctx context.Context, method, path string, body []byte, authed bool) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	req.Header.Set(common.DeviceIDHeaderName, c.deviceID)

	if authed {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading credential: %w", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.log.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode)
	return resp, nil
}

// do issues the request, performing at most one refresh-and-retry on 401 for
// authenticated calls, then decodes the response into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, payload, authed)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && authed {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.refreshToken(ctx); err != nil {
			return ErrUnauthorized
		}
		resp, err = c.send(ctx, method, path, payload, authed)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// refreshToken exchanges the current credential for a fresh one via the
// refresh endpoint. Concurrent callers share a single in-flight exchange.
func (c *HTTPClient) refreshToken(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		current, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading credential: %w", err)
		}
		if current == "" {
			return nil, ErrUnauthorized
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+current)
		req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
		req.Header.Set(common.DeviceIDHeaderName, c.deviceID)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.log.Warn(ctx, "credential refresh rejected", "status", resp.StatusCode)
			return nil, ErrUnauthorized
		}

		var out refreshResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.AccessToken == "" {
			return nil, ErrUnauthorized
		}
		if err := c.tokens.SetToken(ctx, out.AccessToken); err != nil {
			return nil, fmt.Errorf("storing credential: %w", err)
		}
		c.log.Info(ctx, "credential refreshed")
		return nil, nil
	})
	return err
}

// apiError extracts the server-provided message from an error body, falling
// back to a generic message when the body cannot be parsed.
func apiError(status int, data []byte) error {
	var body errorBody
	msg := ""
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			msg = body.Error
		} else if body.Msg != "" {
			msg = body.Msg
		}
	}
	if msg == "" {
		msg = "request failed"
	}
	return &APIError{Status: status, Message: msg}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, loginPath, loginRequest{Email: email, Password: password}, false, &out)
	if err != nil {
		return err
	}
	if out.AccessToken == "" {
		return fmt.Errorf("login response missing access token")
	}
	return c.tokens.SetToken(ctx, out.AccessToken)
}

func (c *HTTPClient) Register(ctx context.Context, email, password, nickname string) error {
	return c.do(ctx, http.MethodPost, registerPath, registerRequest{Email: email, Password: password, Nickname: nickname}, false, nil)
}

func (c *HTTPClient) Profile(ctx context.Context) (UserProfile, error) {
	var out UserProfile
	err := c.do(ctx, http.MethodGet, profilePath, nil, true, &out)
	return out, err
}

func (c *HTTPClient) Trips(ctx context.Context) ([]Trip, error) {
	var out []Trip
	err := c.do(ctx, http.MethodGet, tripsPath, nil, false, &out)
	return out, err
}

func (c *HTTPClient) Predictions(ctx context.Context) ([]Prediction, error) {
	var out []Prediction
	err := c.do(ctx, http.MethodGet, predictionsPath, nil, true, &out)
	return out, err
}

func (c *HTTPClient) CreatePrediction(ctx context.Context, req PredictionRequest) error {
	return c.do(ctx, http.MethodPost, predictionsPath, req, true, nil)
}

func (c *HTTPClient) Friends(ctx context.Context) ([]Friend, error) {
	var out []Friend
	err := c.do(ctx, http.MethodGet, friendsPath, nil, true, &out)
	return out, err
}

func (c *HTTPClient) Users(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, usersPath, nil, false, &out)
	return out, err
}

func (c *HTTPClient) SendFriendRequest(ctx context.Context, receiverID int64) error {
	return c.do(ctx, http.MethodPost, friendRequestPath, friendRequestBody{ReceiverID: receiverID}, true, nil)
}

func (c *HTTPClient) PendingFriendRequests(ctx context.Context) ([]FriendRequest, error) {
	var out []FriendRequest
	err := c.do(ctx, http.MethodGet, pendingPath, nil, true, &out)
	return out, err
}

func (c *HTTPClient) HandleFriendRequest(ctx context.Context, senderID int64, action string) error {
	return c.do(ctx, http.MethodPost, handleRequestPath, handleRequestBody{SenderID: senderID, Action: action}, true, nil)
}

func (c *HTTPClient) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var out []LeaderboardEntry
	err := c.do(ctx, http.MethodGet, leaderboardPath, nil, false, &out)
	return out, err
}
