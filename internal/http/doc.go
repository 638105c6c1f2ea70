// Package http provides the client for the Link2Video backend API.
//
// The Client in this package handles:
//   - POST /video/info to fetch metadata and the format list
//   - POST /video/download, which answers either with a JSON redirect
//     ({"download_url", "filename"}) or with the binary payload itself
//   - File downloads with progress tracking
//   - User-Agent and X-Request-ID headers, timeout and proxy handling
//
// # Basic Usage
//
//	client := http.NewClient("http://localhost:8000/api")
//
//	info, err := client.VideoInfo(ctx, "https://youtu.be/dQw4w9WgXcQ")
//
//	resp, err := client.RequestDownload(ctx, model.NewDownloadRequest(url, chosen))
//	defer resp.Close()
//
// # Errors
//
// Non-2xx responses are returned as *APIError carrying the status code and
// the backend's "detail" message.
package http
