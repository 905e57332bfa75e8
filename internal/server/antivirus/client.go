// Package antivirus is the client for the inline scan-files API. It submits
// uploaded content synchronously and returns the scanner's verdict, which
// the caller writes to the scan-target object's av-status tag.
package antivirus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/cds-snc/notification-document-download-api/internal/server/scan"
)

type Client struct {
	host   string
	apiKey string
	http   *retryablehttp.Client
}

func NewClient(host, apiKey string) *Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.RetryWaitMin = 1 * time.Second
	c.RetryWaitMax = 10 * time.Second
	c.HTTPClient.Timeout = 30 * time.Second
	c.Logger = nil

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		apiKey: apiKey,
		http:   c,
	}
}

type scanResponse struct {
	ScanVerdict string `json:"scan_verdict"`
}

// Scan submits file content for an inline scan and returns the verdict.
// Transport retries happen inside the client; an error here means the
// scanner could not be reached or answered with something outside the
// closed verdict enum.
func (c *Client) Scan(ctx context.Context, content []byte, mimeType string) (scan.AVStatus, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", "document")
	if err != nil {
		return "", fmt.Errorf("building scan request: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("building scan request: %w", err)
	}
	if err := writer.WriteField("mime_type", mimeType); err != nil {
		return "", fmt.Errorf("building scan request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("building scan request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.host+"/scan", &body)
	if err != nil {
		return "", fmt.Errorf("building scan request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling scan api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("scan api returned %d: %s", resp.StatusCode, payload)
	}

	var parsed scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding scan response: %w", err)
	}

	return scan.ParseAVStatus(parsed.ScanVerdict)
}
