package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default collage settings applied to every render
	DefaultAlgorithm  Algorithm `json:"default_algorithm" toml:"default_algorithm"`
	DefaultBlurFactor int       `json:"default_blur_factor" toml:"default_blur_factor"`
	DefaultBlurRadius float64   `json:"default_blur_radius" toml:"default_blur_radius"`
	DefaultBackground RGB       `json:"default_background" toml:"default_background"`
	DefaultMargin     int       `json:"default_margin" toml:"default_margin"`

	// Application preferences
	OutputDir       string   `json:"output_dir" toml:"output_dir"`
	OutputFormat    string   `json:"output_format" toml:"output_format"` // "png", "jpg", ...
	RecentManifests []string `json:"recent_manifests" toml:"recent_manifests"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultAlgorithm:  defaults.Algorithm,
		DefaultBlurFactor: defaults.BlurFactor,
		DefaultBlurRadius: defaults.BlurRadius,
		DefaultBackground: defaults.Background,
		DefaultMargin:     defaults.Margin,
		OutputDir:         "output",
		OutputFormat:      "png",
		RecentManifests:   []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a CollageSettings struct.
// This is used before command-line flags are applied so renders inherit the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *CollageSettings) {
	if c.DefaultAlgorithm != "" {
		s.Algorithm = c.DefaultAlgorithm
	}
	s.BlurFactor = c.DefaultBlurFactor
	s.BlurRadius = c.DefaultBlurRadius
	s.Background = c.DefaultBackground
	s.Margin = c.DefaultMargin
}

// AddRecentManifest moves path to the front of the recent list, keeping at most limit entries.
func (c *AppConfig) AddRecentManifest(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentManifests {
		if p != path && len(recent) < limit {
			recent = append(recent, p)
		}
	}
	c.RecentManifests = recent
}
