package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var ErrNotFound = errors.New("profile not found")

const (
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
)

// Client talks to the Mojang profile and session APIs.
type Client struct {
	profileURL string
	sessionURL string
	http       *http.Client
	attempts   int
	backoff    time.Duration
}

func NewClient(profileURL, sessionURL string, timeout time.Duration) *Client {
	return &Client{
		profileURL: strings.TrimRight(profileURL, "/"),
		sessionURL: strings.TrimRight(sessionURL, "/"),
		http:       &http.Client{Timeout: timeout},
		attempts:   defaultAttempts,
		backoff:    defaultBackoff,
	}
}

type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UUIDByName returns the undashed UUID of a player name.
func (c *Client) UUIDByName(ctx context.Context, name string) (string, error) {
	var p profile
	if err := c.getJSON(ctx, c.profileURL+"/"+url.PathEscape(name), &p); err != nil {
		return "", fmt.Errorf("uuid for %s: %w", name, err)
	}
	id, err := Normalize(p.ID)
	if err != nil {
		return "", fmt.Errorf("uuid for %s: %w", name, err)
	}
	return id, nil
}

// NameByUUID returns the current name of a player.
func (c *Client) NameByUUID(ctx context.Context, id string) (string, error) {
	normalized, err := Normalize(id)
	if err != nil {
		return "", err
	}
	var p profile
	if err := c.getJSON(ctx, c.sessionURL+"/"+normalized, &p); err != nil {
		return "", fmt.Errorf("name for %s: %w", normalized, err)
	}
	if p.Name == "" {
		return "", fmt.Errorf("name for %s: %w", normalized, ErrNotFound)
	}
	return p.Name, nil
}

// Normalize parses a dashed or undashed UUID and returns the undashed form the
// APIs use.
func Normalize(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("invalid uuid %q: %w", id, err)
	}
	return strings.ReplaceAll(parsed.String(), "-", ""), nil
}

func (c *Client) getJSON(ctx context.Context, target string, v any) error {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		retry, err := c.get(ctx, target, v)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func (c *Client) get(ctx context.Context, target string, v any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent:
		return false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, fmt.Errorf("unexpected status %d", resp.StatusCode)
	default:
		return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := jsoniter.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, fmt.Errorf("decoding response: %w", err)
	}
	return false, nil
}
