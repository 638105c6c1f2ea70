// Package format turns the raw format list sent by the backend into the
// ordered, grouped menu shown to the user.
//
// Select is a pure, total function: unknown shapes degrade to defaults and
// it never fails.
//
//	menu := format.Select(info.Formats, format.DefaultPolicy())
//	for _, section := range menu.Sections() {
//	    fmt.Println(section.Title)
//	    for _, opt := range section.Options {
//	        fmt.Println("  " + opt.Label)
//	    }
//	}
//
// # Filtering
//
// In allow-list mode an entry is kept when its lower-cased extension is in
// the allow-list. In permissive mode everything but "mhtml" is kept.
// Entries with a blank extension, or a type other than video and audio,
// are always dropped.
//
// # Ordering
//
// One stable sort: extension rank first, then the input position of the
// first entry with that extension (so distinct unranked extensions stay
// in separate runs), then video before audio, then height (video) or
// bitrate (audio) descending. Equal keys keep input order.
package format
