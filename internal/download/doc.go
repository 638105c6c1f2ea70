// Package download provides the orchestration logic for fetching video
// metadata from the Link2Video backend and saving the chosen format.
//
// # Manager
//
// The Manager coordinates one download session:
//
//  1. Validate the input URL
//  2. Fetch metadata and formats (POST /video/info)
//  3. Build the ordered, grouped format menu
//  4. Request the chosen format (POST /video/download)
//  5. Save the redirect target or the streamed payload
//  6. Tag mp3 files with ID3 metadata and the thumbnail as cover
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	info, menu, err := manager.Fetch(ctx, "https://youtu.be/dQw4w9WgXcQ")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := manager.Download(ctx, menu.Video[0].Format)
//
// # Concurrency
//
// The thumbnail used as cover art is fetched alongside the media file.
// A failed thumbnail only produces a warning.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Byte counts are available at any time through GetProgress.
//
// Failed requests are not retried.
package download
