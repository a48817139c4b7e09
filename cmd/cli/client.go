package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Downloads are awaited by the server, so requests can take as long as yt-dlp
const requestTimeout = 5 * time.Minute

type downloadService struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"desc"`
}

// downloadResponse covers both the static and the active answer
type downloadResponse struct {
	Success          bool              `json:"success"`
	Message          string            `json:"message"`
	FileName         string            `json:"fileName"`
	DownloadPath     string            `json:"downloadPath"`
	DownloadServices []downloadService `json:"downloadServices"`
}

type historyEntry struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Format       string `json:"format"`
	Status       string `json:"status"`
	FileName     string `json:"file_name"`
	ErrorMessage string `json:"error_message"`
	CreatedAt    string `json:"created_at"`
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Download asks the server to download rawURL
func (c *apiClient) Download(rawURL, format string) (*downloadResponse, error) {
	payload, err := json.Marshal(map[string]string{"url": rawURL, "format": format})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(c.baseURL+"/api/download", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result downloadResponse
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *apiClient) getJSON(path string, out any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

// decodeResponse decodes a 2xx body into out, or turns the server's
// {"error": ...} body into an error.
func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}
