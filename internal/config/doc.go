// Package config provides configuration management for link2video.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Overlaying environment variables, optionally from a .env file
//   - Conversion to format.Policy and model.PathConfig for other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Backend at http://localhost:8000/api
//	// Downloads to ~/Downloads/Link2Video/{platform}
//	// Allow-list filtering {mp4, mp3, m4a}
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
//	LINK2VIDEO_API_URL=https://api.example.com/api
//	LINK2VIDEO_DOWNLOADS_PATH=/srv/videos
//
// ApplyEnv reads these from the process environment after loading an
// optional .env file. Variables already set in the environment win over
// the file.
package config
