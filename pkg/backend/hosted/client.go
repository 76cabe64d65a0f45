// Package hosted implements the backend capabilities against a hosted
// backend-as-a-service over HTTP, authenticated with a service key.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

type ClientConfig struct {
	RootURL    string
	ServiceKey string
	Timeout    time.Duration
}

type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("backend responded with %d: %s", e.status, e.message)
}

func (c ClientConfig) httpClient() *http.Client {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// doRequest runs one JSON round trip against the hosted backend and decodes
// the response body into out (when out is non-nil and a body is present).
func (c ClientConfig) doRequest(ctx context.Context, method string, pathname string, query url.Values, payload interface{}, headers map[string]string, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(jsonData)
	}

	reqURL := c.RootURL + pathname
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		slog.Error("unexpected error in preparing http request", slog.String("error", err.Error()))
		return err
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		slog.Error("unexpected error in http call", slog.String("error", err.Error()))
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return &apiError{status: resp.StatusCode, message: errorMessageFromBody(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			slog.Error("error decoding response", slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}

func errorMessageFromBody(body []byte) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}
	for _, key := range []string{"message", "msg", "error_description", "error"} {
		if msg, ok := parsed[key].(string); ok && msg != "" {
			return msg
		}
	}
	return string(body)
}

func statusOf(err error) int {
	if apiErr, ok := err.(*apiError); ok {
		return apiErr.status
	}
	return 0
}
