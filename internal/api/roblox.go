package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"tarc-profile-bot/internal/config"
	"tarc-profile-bot/internal/domain"
	"time"

	"github.com/valyala/fasthttp"
)

var ErrUserNotFound = errors.New("roblox user not found")

// APIError is returned for any non-200 answer from the identity service.
type APIError struct {
	Op     string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: API error: %d", e.Op, e.Status)
}

// Lookup is the result of a best-effort call. Value is always safe to use;
// when Err is non-nil it holds the default that stands in for the failed call.
type Lookup[T any] struct {
	Value T
	Err   error
}

func (l Lookup[T]) Degraded() bool { return l.Err != nil }

func succeeded[T any](v T) Lookup[T] { return Lookup[T]{Value: v} }

func degraded[T any](fallback T, err error) Lookup[T] {
	return Lookup[T]{Value: fallback, Err: err}
}

type RobloxClient struct {
	apiKey      string
	usersURL    string
	groupsURL   string
	presenceURL string
	timeout     time.Duration
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewRobloxClient(cfg *config.Config) *RobloxClient {
	return &RobloxClient{
		apiKey:      cfg.RobloxAPIKey,
		usersURL:    strings.TrimRight(cfg.RobloxUsersURL, "/"),
		groupsURL:   strings.TrimRight(cfg.RobloxGroupsURL, "/"),
		presenceURL: strings.TrimRight(cfg.RobloxPresenceURL, "/"),
		timeout:     cfg.IdentityTimeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         cfg.IdentityTimeout,
			WriteTimeout:        cfg.IdentityTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
			// one attempt per lookup, failures degrade instead
			MaxIdemponentCallAttempts: 1,
			RetryIf:                   func(*fasthttp.Request) bool { return false },
		},
	}
}

func (c *RobloxClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RobloxClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-Ratelimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(leadingNumber(limit)); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-Ratelimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(leadingNumber(remaining)); err == nil {
			c.rateLimit.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-Ratelimit-Reset")); reset != "" {
		if val, err := strconv.Atoi(leadingNumber(reset)); err == nil {
			c.rateLimit.Reset = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// Roblox sends policies like "60, 60;w=60"; only the first figure is kept.
func leadingNumber(v string) string {
	if i := strings.IndexAny(v, ",;"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// ResolveUserID looks up an exact username. Case matching is left to the service.
func (c *RobloxClient) ResolveUserID(ctx context.Context, username string) (domain.PlayerID, error) {
	if username == "" {
		return 0, ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.usersURL + "/v1/usernames/users"
	body := UsernamesRequest{Usernames: []string{username}, ExcludeBannedUsers: false}
	resp, err := doRequest[UsernamesResponse](ctx, c, "resolve user id", fasthttp.MethodPost, url, body)
	if err != nil {
		return 0, err
	}
	if len(resp.Data) == 0 || resp.Data[0].ID <= 0 {
		return 0, ErrUserNotFound
	}
	return domain.PlayerID(resp.Data[0].ID), nil
}

// ResolveDisplayName falls back to "UserId:<id>" when the lookup fails.
func (c *RobloxClient) ResolveDisplayName(ctx context.Context, id domain.PlayerID) Lookup[string] {
	fallback := "UserId:" + id.String()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1/users/%d", c.usersURL, id)
	resp, err := doRequest[UserResponse](ctx, c, "resolve display name", fasthttp.MethodGet, url, nil)
	if err != nil {
		return degraded(fallback, err)
	}
	if resp.Name == "" {
		return degraded(fallback, errors.New("resolve display name: empty name"))
	}
	return succeeded(resp.Name)
}

// GetRoles returns every group membership in response order, or none on failure.
func (c *RobloxClient) GetRoles(ctx context.Context, id domain.PlayerID) Lookup[[]domain.GroupRole] {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v2/users/%d/groups/roles", c.groupsURL, id)
	resp, err := doRequest[GroupRolesResponse](ctx, c, "get roles", fasthttp.MethodGet, url, nil)
	if err != nil {
		return degraded([]domain.GroupRole{}, err)
	}

	roles := make([]domain.GroupRole, 0, len(resp.Data))
	for _, item := range resp.Data {
		roleName := item.Role.Name
		if roleName == "" {
			roleName = "Member"
		}
		groupName := item.Group.Name
		if groupName == "" {
			groupName = domain.GroupName(item.Group.ID, "")
		}
		roles = append(roles, domain.GroupRole{
			GroupID:   item.Group.ID,
			GroupName: groupName,
			RoleName:  roleName,
			RoleRank:  item.Role.Rank,
		})
	}
	return succeeded(roles)
}

// GetPresence defaults to offline when the lookup fails.
func (c *RobloxClient) GetPresence(ctx context.Context, id domain.PlayerID) Lookup[domain.Presence] {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.presenceURL + "/v1/presence/users"
	body := PresenceRequest{UserIDs: []int64{int64(id)}}
	resp, err := doRequest[PresenceResponse](ctx, c, "get presence", fasthttp.MethodPost, url, body)
	if err != nil {
		return degraded(domain.PresenceOffline, err)
	}
	if len(resp.UserPresences) == 0 {
		return degraded(domain.PresenceOffline, errors.New("get presence: empty response"))
	}

	switch p := domain.Presence(resp.UserPresences[0].UserPresenceType); p {
	case domain.PresenceOnline, domain.PresenceInGame:
		return succeeded(p)
	default:
		// Roblox also reports InStudio and Invisible; neither counts as on duty
		return succeeded(domain.PresenceOffline)
	}
}

func doRequest[T any](ctx context.Context, client *RobloxClient, op, method, url string, body any) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if client.apiKey != "" {
		req.Header.Set("x-api-key", client.apiKey)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	client.updateRateLimit(resp)

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &APIError{Op: op, Status: resp.StatusCode()}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return &result, nil
}

type UsernamesRequest struct {
	Usernames          []string `json:"usernames"`
	ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
}

type UsernamesResponse struct {
	Data []struct {
		RequestedUsername string `json:"requestedUsername"`
		ID                int64  `json:"id"`
		Name              string `json:"name"`
		DisplayName       string `json:"displayName"`
	} `json:"data"`
}

type UserResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	IsBanned    bool   `json:"isBanned"`
}

type GroupRolesResponse struct {
	Data []struct {
		Group struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"group"`
		Role struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Rank *int   `json:"rank"`
		} `json:"role"`
	} `json:"data"`
}

type PresenceRequest struct {
	UserIDs []int64 `json:"userIds"`
}

type PresenceResponse struct {
	UserPresences []struct {
		UserPresenceType int   `json:"userPresenceType"`
		UserID           int64 `json:"userId"`
	} `json:"userPresences"`
}
