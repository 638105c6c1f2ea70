package format

import (
	"strings"

	"github.com/handiism/link2video/internal/model"
)

// Mode selects how entries are filtered.
type Mode int

const (
	// ModeAllowList keeps only extensions present in Policy.Allowed.
	ModeAllowList Mode = iota

	// ModePermissive keeps every extension except mhtml.
	ModePermissive
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	if m == ModePermissive {
		return "permissive"
	}
	return "allowlist"
}

// ParseMode parses the config spelling. Unknown values fall back to
// ModeAllowList.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "permissive", "legacy":
		return ModePermissive
	}
	return ModeAllowList
}

var (
	defaultAllowed  = []string{"mp4", "mp3", "m4a"}
	allowListOrder  = []string{"mp4", "mp3", "m4a"}
	permissiveOrder = []string{"mp4", "webm", "mp3", "m4a", "ogg", "wav"}
)

// Policy configures filtering and ordering.
type Policy struct {
	Mode Mode

	// Allowed is the allow-list used in ModeAllowList.
	Allowed []string

	// Order is the extension priority list. Extensions not listed rank last.
	Order []string

	// Dedupe keeps a single entry per (extension, quality), preferring the
	// larger size or height.
	Dedupe bool
}

// DefaultPolicy returns the allow-list policy {mp4, mp3, m4a}.
func DefaultPolicy() Policy {
	return Policy{
		Mode:    ModeAllowList,
		Allowed: append([]string(nil), defaultAllowed...),
		Order:   append([]string(nil), allowListOrder...),
	}
}

// PermissivePolicy returns the legacy policy that only excludes mhtml and
// blank extensions.
func PermissivePolicy() Policy {
	return Policy{
		Mode:  ModePermissive,
		Order: append([]string(nil), permissiveOrder...),
	}
}

// DefaultOrder returns the priority list used by mode m when a policy
// leaves Order empty.
func DefaultOrder(m Mode) []string {
	if m == ModePermissive {
		return append([]string(nil), permissiveOrder...)
	}
	return append([]string(nil), allowListOrder...)
}

// compiled is the normalised, lookup-ready form of a Policy.
type compiled struct {
	mode    Mode
	allowed map[string]struct{}
	rank    map[string]int
	unknown int
	dedupe  bool
}

func (p Policy) compile() compiled {
	order := p.Order
	if len(order) == 0 {
		order = DefaultOrder(p.Mode)
	}

	allowed := p.Allowed
	if p.Mode == ModeAllowList && len(allowed) == 0 {
		allowed = defaultAllowed
	}

	c := compiled{
		mode:    p.Mode,
		allowed: make(map[string]struct{}, len(allowed)),
		rank:    make(map[string]int, len(order)),
		unknown: len(order),
		dedupe:  p.Dedupe,
	}
	for _, ext := range allowed {
		c.allowed[normalize(ext)] = struct{}{}
	}
	for i, ext := range order {
		ext = normalize(ext)
		if _, ok := c.rank[ext]; !ok {
			c.rank[ext] = i
		}
	}
	return c
}

func (c compiled) keep(ext string, typ model.MediaType) bool {
	if ext == "" || ext == model.ExtensionMHTML {
		return false
	}
	if typ != model.MediaVideo && typ != model.MediaAudio {
		return false
	}
	if c.mode == ModePermissive {
		return true
	}
	_, ok := c.allowed[ext]
	return ok
}

func (c compiled) rankOf(ext string) int {
	if r, ok := c.rank[ext]; ok {
		return r
	}
	return c.unknown
}

func normalize(ext string) string {
	return strings.ToLower(strings.TrimSpace(ext))
}
