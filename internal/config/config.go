// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DatabasePath locates the sqlite event/attendee record store.
	DatabasePath string `koanf:"database_path"`

	// ArtifactPath locates the persisted attendance (regression)
	// model artifact blob.
	ArtifactPath string `koanf:"artifact_path"`

	// PresenceArtifactPath locates the persisted presence
	// (classification) model artifact blob.
	PresenceArtifactPath string `koanf:"presence_artifact_path"`

	// DetectorURL is the address of the external face-mesh detector
	// sidecar.
	DetectorURL string `koanf:"detector_url"`

	// VerifyThreshold is the accept distance bound for face
	// verification, in the detector's normalized space.
	VerifyThreshold float64 `koanf:"verify_threshold"`

	// TestRatio is the held-out fraction used for training evaluation.
	TestRatio float64 `koanf:"test_ratio"`

	// TrainSeed seeds the deterministic train/test split.
	TrainSeed int64 `koanf:"train_seed"`

	// MinTrainingRows is the usable-row threshold below which training
	// reports insufficient data.
	MinTrainingRows int `koanf:"min_training_rows"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		DatabasePath:         "events.db",
		ArtifactPath:         "attendance_model.json",
		PresenceArtifactPath: "presence_model.json",
		DetectorURL:          "http://localhost:9090",
		VerifyThreshold:      0.03,
		TestRatio:            0.25,
		TrainSeed:            42,
		MinTrainingRows:      10,
	}
}
