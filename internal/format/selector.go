package format

import (
	"cmp"
	"slices"
	"strings"

	"github.com/handiism/link2video/internal/model"
)

// LabelSeparator joins extension and quality in an option label.
const LabelSeparator = " • "

// placeholderExtension is shown when a descriptor names no extension.
const placeholderExtension = "??"

// Option is one selectable entry of the menu.
type Option struct {
	// Label is the rendered "EXT • quality" string.
	Label string

	// Section is the group the option belongs to.
	Section model.MediaType

	// Format is the original descriptor, unmodified.
	Format model.FormatDescriptor
}

// Section is a non-empty group of options under a heading.
type Section struct {
	Type    model.MediaType
	Title   string
	Options []Option
}

// Menu is the grouped result of Select.
type Menu struct {
	Video []Option
	Audio []Option
}

// Len returns the total number of options.
func (m Menu) Len() int {
	return len(m.Video) + len(m.Audio)
}

// IsEmpty reports whether no option survived filtering.
func (m Menu) IsEmpty() bool {
	return m.Len() == 0
}

// Sections returns the non-empty groups, video first. A group with no
// members gets no section at all.
func (m Menu) Sections() []Section {
	var sections []Section
	if len(m.Video) > 0 {
		sections = append(sections, Section{Type: model.MediaVideo, Title: "Video", Options: m.Video})
	}
	if len(m.Audio) > 0 {
		sections = append(sections, Section{Type: model.MediaAudio, Title: "Audio", Options: m.Audio})
	}
	return sections
}

// All returns the options in display order: video then audio.
func (m Menu) All() []Option {
	all := make([]Option, 0, m.Len())
	all = append(all, m.Video...)
	return append(all, m.Audio...)
}

// At returns the i-th option in display order.
func (m Menu) At(i int) (Option, bool) {
	if i < 0 || i >= m.Len() {
		return Option{}, false
	}
	if i < len(m.Video) {
		return m.Video[i], true
	}
	return m.Audio[i-len(m.Video)], true
}

// Choose passes the original descriptor of the i-th option to onSelect.
// It reports false, without calling onSelect, when i is out of range.
func (m Menu) Choose(i int, onSelect func(model.FormatDescriptor)) bool {
	opt, ok := m.At(i)
	if !ok {
		return false
	}
	if onSelect != nil {
		onSelect(opt.Format)
	}
	return true
}

// Find returns the first option matching extension and quality, compared
// case-insensitively. An empty quality matches any quality.
func (m Menu) Find(extension, quality string) (Option, bool) {
	extension = normalize(extension)
	for _, opt := range m.All() {
		if extension != "" && opt.Format.NormalizedExtension() != extension {
			continue
		}
		if quality != "" && !strings.EqualFold(strings.TrimSpace(opt.Format.Quality), strings.TrimSpace(quality)) {
			continue
		}
		return opt, true
	}
	return Option{}, false
}

// Label renders the display label of d.
//
//	Label(model.FormatDescriptor{Extension: "mp4", Quality: "1080p"}) // "MP4 • 1080p"
//	Label(model.FormatDescriptor{Quality: "HD"})                      // "?? • HD"
func Label(d model.FormatDescriptor) string {
	ext := strings.TrimSpace(d.RawExtension())
	if ext == "" {
		ext = placeholderExtension
	}
	return strings.ToUpper(ext) + LabelSeparator + d.Quality
}

// entry is a descriptor with its sort keys computed once at ingestion.
type entry struct {
	desc     model.FormatDescriptor
	ext      string
	rank     int
	extFirst int // input position of the first entry with this extension
}

// Select filters, sorts and groups formats according to p.
func Select(formats []model.FormatDescriptor, p Policy) Menu {
	c := p.compile()

	entries := make([]entry, 0, len(formats))
	firstSeen := make(map[string]int)
	for i, d := range formats {
		ext := d.NormalizedExtension()
		if !c.keep(ext, model.MediaType(normalize(string(d.Type)))) {
			continue
		}
		if _, ok := firstSeen[ext]; !ok {
			firstSeen[ext] = i
		}
		entries = append(entries, entry{
			desc:     d,
			ext:      ext,
			rank:     c.rankOf(ext),
			extFirst: firstSeen[ext],
		})
	}

	if c.dedupe {
		entries = dedupe(entries)
	}

	slices.SortStableFunc(entries, compareEntries)

	var menu Menu
	for _, e := range entries {
		opt := Option{
			Label:  Label(e.desc),
			Format: e.desc,
		}
		switch mediaType(e.desc) {
		case model.MediaVideo:
			opt.Section = model.MediaVideo
			menu.Video = append(menu.Video, opt)
		case model.MediaAudio:
			opt.Section = model.MediaAudio
			menu.Audio = append(menu.Audio, opt)
		}
	}
	return menu
}

// compareEntries orders by extension rank, then groups equal extensions
// by first appearance, then video before audio, then the type's metric
// descending. The result is a strict weak ordering so the stable sort
// keeps input order for equal keys.
func compareEntries(a, b entry) int {
	if r := cmp.Compare(a.rank, b.rank); r != 0 {
		return r
	}
	if r := cmp.Compare(a.extFirst, b.extFirst); r != 0 {
		return r
	}
	ta, tb := mediaType(a.desc), mediaType(b.desc)
	if r := cmp.Compare(typeOrder(ta), typeOrder(tb)); r != 0 {
		return r
	}
	switch ta {
	case model.MediaVideo:
		return cmp.Compare(b.desc.Height, a.desc.Height)
	case model.MediaAudio:
		return cmp.Compare(b.desc.EffectiveBitrate(), a.desc.EffectiveBitrate())
	}
	return 0
}

func mediaType(d model.FormatDescriptor) model.MediaType {
	return model.MediaType(normalize(string(d.Type)))
}

func typeOrder(t model.MediaType) int {
	if t == model.MediaVideo {
		return 0
	}
	return 1
}

// dedupe keeps one entry per (extension, quality) at the position of its
// first occurrence, replacing it with a later entry that is larger or taller.
func dedupe(entries []entry) []entry {
	type key struct{ ext, quality string }

	index := make(map[key]int, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		k := key{e.ext, strings.TrimSpace(e.desc.Quality)}
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, e)
			continue
		}
		prev := out[i].desc
		if e.desc.SizeBytes > prev.SizeBytes || e.desc.Height > prev.Height {
			e.extFirst = out[i].extFirst
			out[i] = e
		}
	}
	return out
}
