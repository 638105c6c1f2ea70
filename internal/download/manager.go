package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/link2video/internal/audio"
	"github.com/handiism/link2video/internal/config"
	"github.com/handiism/link2video/internal/format"
	"github.com/handiism/link2video/internal/http"
	ioutils "github.com/handiism/link2video/internal/io"
	"github.com/handiism/link2video/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

var (
	// ErrInvalidURL is returned by Fetch for input that is not an
	// http(s) URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrNotFetched is returned by Download before a successful Fetch.
	ErrNotFetched = errors.New("no video fetched")
)

// Manager coordinates a fetch-then-download session.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	tagger       *audio.Tagger
	imageService *ioutils.ImageService
	policy       format.Policy
	pathCfg      *model.PathConfig

	sourceURL string
	info      *model.VideoInfo
	menu      format.Menu

	totalBytes    int64
	receivedBytes int64

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	tagCfg := audio.DefaultTagConfig()
	tagCfg.ModifyTags = settings.ModifyTags

	client := http.NewClient(settings.APIBaseURL,
		http.WithTimeout(settings.Timeout()),
		http.WithProxy(settings.ProxyType, settings.ProxyURL()),
	)

	return &Manager{
		settings:     settings,
		httpClient:   client,
		tagger:       audio.NewTagger(tagCfg),
		imageService: ioutils.NewImageService(),
		policy:       settings.ToPolicy(),
		pathCfg:      settings.ToPathConfig(),
		onProgress:   onProgress,
	}
}

// Fetch validates mediaURL, fetches its metadata and builds the menu.
func (m *Manager) Fetch(ctx context.Context, mediaURL string) (*model.VideoInfo, format.Menu, error) {
	mediaURL, err := parseInputURL(mediaURL)
	if err != nil {
		return nil, format.Menu{}, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching video info: %s", mediaURL), Level: LevelVerbose})

	info, err := m.httpClient.VideoInfo(ctx, mediaURL)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching %s: %v", mediaURL, err), Level: LevelError})
		return nil, format.Menu{}, err
	}

	menu := format.Select(info.Formats, m.policy)

	m.mu.Lock()
	m.sourceURL = mediaURL
	m.info = info
	m.menu = menu
	m.mu.Unlock()

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found: %s (%s)", info.Title, info.Duration), Level: LevelInfo})
	if dropped := len(info.Formats) - menu.Len(); dropped > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Hid %d format(s) not allowed by the %s filter", dropped, m.policy.Mode), Level: LevelVerbose})
	}
	if menu.IsEmpty() {
		m.progress(ProgressEvent{Message: "No downloadable formats available", Level: LevelWarning})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%d video and %d audio format(s) available", len(menu.Video), len(menu.Audio)), Level: LevelInfo})
	}

	return info, menu, nil
}

// Info returns the fetched video info, or nil.
func (m *Manager) Info() *model.VideoInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info
}

// Menu returns the menu built by the last Fetch.
func (m *Manager) Menu() format.Menu {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.menu
}

// GetProgress returns bytes received and expected for the current download.
// total is zero when the size is unknown.
func (m *Manager) GetProgress() (received, total int64) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.totalBytes)
}

// Download saves the chosen format and returns the path written.
func (m *Manager) Download(ctx context.Context, chosen model.FormatDescriptor) (string, error) {
	m.mu.RLock()
	info, sourceURL := m.info, m.sourceURL
	m.mu.RUnlock()
	if info == nil {
		return "", ErrNotFetched
	}

	atomic.StoreInt64(&m.receivedBytes, 0)
	atomic.StoreInt64(&m.totalBytes, 0)

	dest := info.FilePath(chosen, m.pathCfg)
	if err := ioutils.EnsureDir(filepath.Dir(dest)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return "", err
	}

	wantCover := m.settings.SaveThumbnailInTags && info.HasThumbnail() &&
		audio.IsTaggable("."+chosen.NormalizedExtension())

	g, gctx := errgroup.WithContext(ctx)

	var cover []byte
	if wantCover {
		g.Go(func() error {
			var err error
			cover, err = m.fetchCover(gctx, info.Thumbnail)
			if err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching thumbnail: %v", err), Level: LevelWarning})
				cover = nil
			}
			return nil
		})
	}

	var saved string
	g.Go(func() error {
		var err error
		saved, err = m.downloadMedia(gctx, sourceURL, chosen, dest)
		return err
	})

	if err := g.Wait(); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", format.Label(chosen), err), Level: LevelError})
		return "", err
	}

	if audio.IsTaggable(saved) && (m.settings.ModifyTags || cover != nil) {
		if err := m.tagger.SaveTags(saved, audio.MetadataFromVideo(info, sourceURL), cover); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", filepath.Base(saved), err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged %s", filepath.Base(saved)), Level: LevelVerbose})
		}
	}

	received, _ := m.GetProgress()
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloaded %s (%s)", filepath.Base(saved), humanize.Bytes(uint64(received))),
		Level:   LevelSuccess,
	})
	return saved, nil
}

func (m *Manager) downloadMedia(ctx context.Context, sourceURL string, chosen model.FormatDescriptor, dest string) (string, error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Requesting %s", format.Label(chosen)), Level: LevelVerbose})

	resp, err := m.httpClient.RequestDownload(ctx, model.NewDownloadRequest(sourceURL, chosen))
	if err != nil {
		return "", err
	}
	defer resp.Close()

	dest, err = ioutils.UniquePath(withBackendExtension(dest, resp.Filename))
	if err != nil {
		return "", err
	}

	onProgress := func(written, total int64) {
		atomic.StoreInt64(&m.receivedBytes, written)
		if total > 0 {
			atomic.StoreInt64(&m.totalBytes, total)
		}
	}

	if resp.Redirect != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching %s", resp.Redirect.DownloadURL), Level: LevelVerbose})
		if err := m.httpClient.DownloadFile(ctx, resp.Redirect.DownloadURL, dest, onProgress); err != nil {
			return "", err
		}
		return dest, nil
	}

	if resp.ContentLength > 0 {
		atomic.StoreInt64(&m.totalBytes, resp.ContentLength)
	}
	if _, err := http.SaveStream(resp.Body, dest, resp.ContentLength, onProgress); err != nil {
		return "", err
	}
	return dest, nil
}

func (m *Manager) fetchCover(ctx context.Context, thumbnailURL string) ([]byte, error) {
	data, err := m.httpClient.Get(ctx, thumbnailURL)
	if err != nil {
		return nil, err
	}

	opts := ioutils.CoverOptions{ToJPEG: m.settings.ConvertThumbnailToJPG}
	if m.settings.ThumbnailInTagsResize {
		opts.MaxSize = m.settings.ThumbnailInTagsMaxSize
	}
	return m.imageService.PrepareCover(ctx, data, opts)
}

// withBackendExtension keeps dest's directory and base name but adopts
// the extension of the file the backend produced, which differs when the
// backend converted the media.
func withBackendExtension(dest, backendName string) string {
	ext := strings.ToLower(filepath.Ext(backendName))
	if ext == "" || strings.EqualFold(ext, filepath.Ext(dest)) {
		return dest
	}
	return strings.TrimSuffix(dest, filepath.Ext(dest)) + ext
}

// parseInputURL trims input and accepts only absolute http(s) URLs.
func parseInputURL(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, input)
	}
	return input, nil
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
