package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Status reports the progress of the server's render.
type Status struct {
	Width   int `json:"width"`
	Height  int `json:"height"`
	Workers int `json:"workers"`
	// Finished is the fraction of pixels computed, in [0, 1].
	Finished float32 `json:"finished"`
	Done     bool    `json:"done"`
	Error    string  `json:"error,omitempty"`
}

// StatusHandler serves the result of status as JSON.
func StatusHandler(status func() Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(status()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// FetchStatus requests the render status from url.
func FetchStatus(ctx context.Context, url string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Status{}, fmt.Errorf("new request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("get status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Status{}, fmt.Errorf("%w: status endpoint returned %s", ErrProtocol, resp.Status)
	}
	var s Status
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return Status{}, fmt.Errorf("decode status: %w", err)
	}
	return s, nil
}
