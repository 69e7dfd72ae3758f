package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"hrchat/internal/logger"
)

// DebugTransport is an http.RoundTripper that captures the most recent
// request/response pair for troubleshooting. Install it on a client with
// SetDebugTransport; the captured data is JSON with sensitive headers masked.
type DebugTransport struct {
	base http.RoundTripper

	mu       sync.RWMutex
	captured string
}

// NewDebugTransport wraps the given base transport, or http.DefaultTransport
// when base is nil.
func NewDebugTransport(base http.RoundTripper) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DebugTransport{base: base}
}

// CapturedData returns the captured traffic of the last round trip as a JSON
// string.
func (d *DebugTransport) CapturedData() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.captured
}

// Clear discards the captured data.
func (d *DebugTransport) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.captured = ""
}

// RoundTrip implements http.RoundTripper with request/response capture.
func (d *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestData := d.captureRequest(req)

	resp, err := d.base.RoundTrip(req)
	end := time.Now()

	var responseData map[string]interface{}
	if err != nil {
		responseData = map[string]interface{}{"error": err.Error()}
	} else {
		responseData = d.captureResponse(resp)
	}

	d.store(requestData, responseData, start, end)
	return resp, err
}

func (d *DebugTransport) captureRequest(req *http.Request) map[string]interface{} {
	data := map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": sanitizeHeaders(req.Header),
	}

	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err == nil {
			// Restore the body for actual transmission
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			data["body"] = decodeBody(bodyBytes)
		}
	}

	return data
}

func (d *DebugTransport) captureResponse(resp *http.Response) map[string]interface{} {
	data := map[string]interface{}{
		"status_code": resp.StatusCode,
		"status":      resp.Status,
		"headers":     sanitizeHeaders(resp.Header),
	}

	if resp.Body != nil {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err == nil {
			// Restore the body for the client
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			data["body"] = decodeBody(bodyBytes)
		}
	}

	return data
}

func (d *DebugTransport) store(requestData, responseData map[string]interface{}, start, end time.Time) {
	debugData := map[string]interface{}{
		"http_request":  requestData,
		"http_response": responseData,
		"timing": map[string]interface{}{
			"request_time":  start.Format(time.RFC3339),
			"response_time": end.Format(time.RFC3339),
			"duration_ms":   end.Sub(start).Milliseconds(),
		},
	}

	jsonData, err := json.Marshal(debugData)
	if err != nil {
		logger.Error("Failed to marshal debug data", "error", err)
		return
	}

	d.mu.Lock()
	d.captured = string(jsonData)
	d.mu.Unlock()

	logger.Debug("Debug data captured", "data_length", len(jsonData))
}

func decodeBody(bodyBytes []byte) interface{} {
	if len(bodyBytes) == 0 {
		return nil
	}
	var jsonBody interface{}
	if err := json.Unmarshal(bodyBytes, &jsonBody); err == nil {
		return jsonBody
	}
	return string(bodyBytes)
}

// sanitizeHeaders masks credential-bearing headers.
func sanitizeHeaders(headers http.Header) map[string]interface{} {
	sanitized := make(map[string]interface{})

	for name, values := range headers {
		lowerName := strings.ToLower(name)
		if strings.Contains(lowerName, "authorization") || strings.Contains(lowerName, "token") {
			if len(values) > 0 && len(values[0]) > 10 {
				sanitized[name] = []string{values[0][:10] + "***[MASKED]***"}
			} else {
				sanitized[name] = []string{"***[MASKED]***"}
			}
			continue
		}
		sanitized[name] = values
	}

	return sanitized
}
