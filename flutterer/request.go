package flutterer

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// A Request describes one asynchronous API call: a URL, an HTTP method, an
// optional JSON payload, and a success callback. Fire and forget: there is
// no retry, no cancellation, and no failure callback.
type Request struct {
	Method    string
	URL       string
	Payload   any
	OnSuccess func(body []byte)
}

// An AsyncRequester issues requests and invokes the success callback once
// the response arrives. Failures are logged, never surfaced.
type AsyncRequester interface {
	Do(req Request)
}

// HTTPRequester issues requests against a base URL over HTTP.
type HTTPRequester struct {
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

// Do issues the request in the background. The callback runs on the
// request's goroutine after a 2xx response.
func (h *HTTPRequester) Do(req Request) {
	go h.do(req)
}

func (h *HTTPRequester) do(req Request) {
	var body io.Reader
	if req.Payload != nil {
		b, err := json.Marshal(req.Payload)
		if err != nil {
			h.Logger.Error("Could not encode request payload", "url", req.URL, "error", err.Error())
			return
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequest(req.Method, h.BaseURL+req.URL, body)
	if err != nil {
		h.Logger.Error("Could not build request", "url", req.URL, "error", err.Error())
		return
	}
	if req.Payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		h.Logger.Error("Request failed", "method", req.Method, "url", req.URL, "error", err.Error())
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		h.Logger.Error("Could not read response body", "url", req.URL, "error", err.Error())
		return
	}

	switch {
	case resp.StatusCode >= 500:
		h.Logger.Error("Server error", "method", req.Method, "url", req.URL, "status", resp.StatusCode, "body", string(respBody))
		return
	case resp.StatusCode >= 400:
		h.Logger.Warn("Request rejected", "method", req.Method, "url", req.URL, "status", resp.StatusCode, "body", string(respBody))
		return
	}

	if req.OnSuccess != nil {
		req.OnSuccess(respBody)
	}
}
