package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the remote authority over HTTP. It is the production
// RemoteClient; timeouts live in the underlying http.Client.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) CreateGame(ctx context.Context, upload GameUpload) (RemoteGame, error) {
	body, err := json.Marshal(upload)
	if err != nil {
		return RemoteGame{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/games", bytes.NewReader(body))
	if err != nil {
		return RemoteGame{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return RemoteGame{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			return RemoteGame{}, fmt.Errorf("server rejected game: %s", payload.Error)
		}
		return RemoteGame{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var remote RemoteGame
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return RemoteGame{}, err
	}
	if remote.ID == "" {
		return RemoteGame{}, errors.New("server response missing game_id")
	}
	return remote, nil
}
