package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/handiism/link2video/internal/config"
	"github.com/handiism/link2video/internal/download"
	"github.com/handiism/link2video/internal/format"
	"github.com/handiism/link2video/internal/stopwatch"
)

func main() {
	// Command line flags
	var (
		urlFlag        = flag.String("url", "", "Video URL to download")
		formatFlag     = flag.String("format", "", "Extension to download, e.g. mp4 or mp3 (default: first listed)")
		qualityFlag    = flag.String("quality", "", "Quality to download, e.g. 720p (default: best for the format)")
		outputFlag     = flag.String("output", "", "Output directory (overrides config)")
		configFlag     = flag.String("config", "", "Path to config file")
		listFlag       = flag.Bool("list", false, "List available formats without downloading")
		permissiveFlag = flag.Bool("permissive", false, "Show every format except mhtml instead of the allow-list")
		verboseFlag    = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	if *urlFlag == "" && flag.NArg() == 0 {
		fmt.Println("Link2Video - Download videos and audio from a link")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  link2video -url <URL> [options]")
		fmt.Println("  link2video <URL> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: link2video-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := settings.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = filepath.Join(*outputFlag, "{platform}")
	}
	if *permissiveFlag {
		settings.FilterMode = format.ModePermissive.String()
	}

	url := *urlFlag
	if url == "" {
		url = flag.Arg(0)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println("🎬 Link2Video")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	_, menu, err := manager.Fetch(ctx, url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching video info: %v\n", err)
		os.Exit(1)
	}

	if *listFlag {
		printMenu(menu)
		return
	}

	option, ok := pickOption(menu, *formatFlag, *qualityFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "No format matches -format %q -quality %q\n\n", *formatFlag, *qualityFlag)
		printMenu(menu)
		os.Exit(1)
	}

	fmt.Printf("\n📥 Downloading %s...\n\n", option.Label)

	sw := stopwatch.New(stopwatch.RealClock{}, func(s stopwatch.State) {
		if !s.Running || *verboseFlag {
			return
		}
		received, total := manager.GetProgress()
		line := humanize.Bytes(uint64(received))
		if total > 0 {
			line += " / " + humanize.Bytes(uint64(total))
		}
		fmt.Fprintf(os.Stderr, "\r⏱  %s  %s    ", s.Display(), line)
	})
	sw.Toggle()

	path, err := manager.Download(ctx, option.Format)
	elapsed := sw.Display()
	sw.Close()
	fmt.Fprintln(os.Stderr)

	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	received, _ := manager.GetProgress()
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! %s (%s) in %s\n", path, humanize.Bytes(uint64(received)), elapsed)
}

// pickOption returns the first option matching ext and quality, or the
// first option overall when neither is given.
func pickOption(menu format.Menu, ext, quality string) (format.Option, bool) {
	if ext == "" && quality == "" {
		return menu.At(0)
	}
	return menu.Find(ext, quality)
}

func printMenu(menu format.Menu) {
	if menu.IsEmpty() {
		fmt.Println("No downloadable formats available.")
		return
	}

	for _, section := range menu.Sections() {
		fmt.Printf("%s:\n", section.Title)
		for _, opt := range section.Options {
			size := opt.Format.Size
			if opt.Format.SizeBytes > 0 {
				size = humanize.Bytes(uint64(opt.Format.SizeBytes))
			}
			if size != "" {
				fmt.Printf("  %-24s %s\n", opt.Label, size)
			} else {
				fmt.Printf("  %s\n", opt.Label)
			}
		}
		fmt.Println()
	}
	fmt.Println("Use -format and -quality to pick one.")
}
