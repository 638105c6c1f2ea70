package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/handiism/link2video/internal/model"
)

// Backend endpoints, relative to the base URL.
const (
	infoPath     = "/video/info"
	downloadPath = "/video/download"
)

// RequestIDHeader carries a per-request UUID so backend logs can be matched
// to client reports.
const RequestIDHeader = "X-Request-ID"

// Client wraps HTTP operations against the Link2Video backend.
//
// Example usage:
//
//	client := NewClient("http://localhost:8000/api", WithTimeout(30*time.Second))
//
//	info, err := client.VideoInfo(ctx, "https://youtu.be/dQw4w9WgXcQ")
//
//	err = client.DownloadFile(ctx, fileURL, "/path/to/video.mp4", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the overall request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithProxy configures proxying. proxyType is "none", "system" or
// "manual"; proxyURL is only used for "manual".
func WithProxy(proxyType, proxyURL string) Option {
	return func(c *Client) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		switch proxyType {
		case "none":
			transport.Proxy = nil
		case "manual":
			if u, err := url.Parse(proxyURL); err == nil && proxyURL != "" {
				transport.Proxy = http.ProxyURL(u)
			}
		}
		c.httpClient.Transport = transport
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new client for the backend at baseURL.
//
// The client is configured with:
//   - 60 second timeout
//   - "Link2Video" User-Agent header
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: "Link2Video",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
}

// newAPIError reads the body of a failed response. FastAPI reports errors
// as {"detail": "..."} or {"detail": [...]} for validation failures.
func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			apiErr.Detail = s
		} else {
			apiErr.Detail = string(payload.Detail)
		}
		return apiErr
	}

	apiErr.Detail = strings.TrimSpace(string(body))
	return apiErr
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return req, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, newAPIError(resp)
	}
	return resp, nil
}

// VideoInfo fetches metadata and available formats for mediaURL.
//
// Example:
//
//	info, err := client.VideoInfo(ctx, "https://youtu.be/dQw4w9WgXcQ")
//	fmt.Println(info.Title, len(info.Formats))
func (c *Client) VideoInfo(ctx context.Context, mediaURL string) (*model.VideoInfo, error) {
	resp, err := c.postJSON(ctx, infoPath, map[string]string{"url": mediaURL})
	if err != nil {
		return nil, fmt.Errorf("video info: %w", err)
	}
	defer resp.Body.Close()

	var info model.VideoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("video info: decode response: %w", err)
	}
	return &info, nil
}

// DownloadResponse is the answer to RequestDownload. Exactly one of
// Redirect or Body is set.
type DownloadResponse struct {
	// Redirect is set when the backend answers with a JSON link. Its
	// DownloadURL is already resolved against the base URL.
	Redirect *model.DownloadResult

	// Body streams the binary payload when the backend sends the file
	// directly. The caller must call Close.
	Body io.ReadCloser

	// Filename comes from Content-Disposition or the redirect result.
	Filename string

	// ContentLength is the payload size, or -1 when unknown.
	ContentLength int64
}

// Close releases the payload body, if any.
func (r *DownloadResponse) Close() error {
	if r == nil || r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// RequestDownload asks the backend to prepare the chosen format.
//
// Example:
//
//	resp, err := client.RequestDownload(ctx, model.DownloadRequest{URL: u, Format: "mp4", Quality: "720p"})
//	if err != nil {
//	    return err
//	}
//	defer resp.Close()
//	if resp.Redirect != nil {
//	    err = client.DownloadFile(ctx, resp.Redirect.DownloadURL, dest, nil)
//	}
func (c *Client) RequestDownload(ctx context.Context, dr model.DownloadRequest) (*DownloadResponse, error) {
	resp, err := c.postJSON(ctx, downloadPath, dr)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		defer resp.Body.Close()

		var result model.DownloadResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("download request: decode response: %w", err)
		}
		if result.DownloadURL == "" {
			return nil, fmt.Errorf("download request: backend returned no download_url")
		}
		resolved, err := c.ResolveURL(result.DownloadURL)
		if err != nil {
			return nil, fmt.Errorf("download request: %w", err)
		}
		result.DownloadURL = resolved

		filename := result.Filename
		if filename == "" {
			filename = filenameFromURL(resolved)
		}
		return &DownloadResponse{Redirect: &result, Filename: filename, ContentLength: -1}, nil
	}

	return &DownloadResponse{
		Body:          resp.Body,
		Filename:      filenameFromDisposition(resp.Header.Get("Content-Disposition")),
		ContentLength: resp.ContentLength,
	}, nil
}

// ResolveURL resolves ref against the base URL. The backend returns links
// such as "/downloads/x.mp4" that are relative to the host, not the API
// prefix.
func (c *Client) ResolveURL(ref string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(r).String(), nil
}

func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return path.Base(params["filename"])
}

func filenameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	name, err := url.PathUnescape(path.Base(u.Path))
	if err != nil || name == "/" || name == "." {
		return ""
	}
	return name
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Example:
//
//	data, err := client.Get(ctx, info.Thumbnail)
func (c *Client) Get(ctx context.Context, target string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	return io.ReadAll(resp.Body)
}

// partSuffix marks a file that is still being written.
const partSuffix = ".part"

// SaveStream copies r to destPath with optional progress callback. Data
// goes to destPath+".part" first and is renamed into place only after the
// copy succeeds; on failure the partial file is removed and destPath is
// left untouched.
func SaveStream(r io.Reader, destPath string, total int64, onProgress func(written, total int64)) (int64, error) {
	partPath := destPath + partSuffix
	file, err := os.Create(partPath)
	if err != nil {
		return 0, err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    total,
			OnUpdate: onProgress,
		}
	}

	n, err := io.Copy(writer, r)
	if err == nil && total > 0 && n < total {
		err = io.ErrUnexpectedEOF
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(partPath, destPath)
	}
	if err != nil {
		os.Remove(partPath)
		return n, err
	}
	return n, nil
}

// DownloadFile downloads a file to the specified path with optional
// progress callback. Relative URLs are resolved against the base URL.
//
// Example:
//
//	err := client.DownloadFile(ctx, "/downloads/video.mp4", "/videos/video.mp4", func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
func (c *Client) DownloadFile(ctx context.Context, target, destPath string, onProgress func(written, total int64)) error {
	resolved, err := c.ResolveURL(target)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newAPIError(resp)
	}

	_, err = SaveStream(resp.Body, destPath, resp.ContentLength, onProgress)
	return err
}
