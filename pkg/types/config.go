package types

import (
	"errors"
	"time"
)

// Supported document store drivers.
const (
	DocstoreMemory = "memory"
	DocstoreFS     = "fs"
	DocstoreS3     = "s3"
	DocstoreSQLite = "sqlite"
)

// knownDocstores lists the drivers that Validate accepts.
var knownDocstores = map[string]bool{
	DocstoreMemory: true,
	DocstoreFS:     true,
	DocstoreS3:     true,
	DocstoreSQLite: true,
}

// Config validation errors.
var (
	ErrDocstoreEmpty   = errors.New("docstore driver must not be empty")
	ErrDocstoreUnknown = errors.New("unknown docstore driver")
	ErrBucketRequired  = errors.New("s3 docstore requires a bucket")
	ErrZoomInvalid     = errors.New("home zoom must be positive")
	ErrDebounceInvalid = errors.New("debounce window must be positive")
	ErrFlyToInvalid    = errors.New("fly-to duration must be positive")
)

// S3Config holds the parameters of the s3 docstore driver.
type S3Config struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`     // optional, MinIO style
	PathStyle bool   `json:"path_style" yaml:"path_style"` // optional
}

// Config holds session and collaborator parameters. Loaded from config.yaml
// by the CLI; library callers construct it directly.
type Config struct {
	HomeCenter Coordinate `json:"home_center" yaml:"home_center"`
	HomeZoom   float64    `json:"home_zoom" yaml:"home_zoom"`

	Docstore   string   `json:"docstore" yaml:"docstore"`
	FSRoot     string   `json:"fs_root" yaml:"fs_root"`         // fs driver
	SQLitePath string   `json:"sqlite_path" yaml:"sqlite_path"` // sqlite driver
	S3         S3Config `json:"s3" yaml:"s3"`                   // s3 driver

	ConfigPrefix  string `json:"config_prefix" yaml:"config_prefix"`   // layer config documents
	GeoJSONPrefix string `json:"geojson_prefix" yaml:"geojson_prefix"` // saved feature documents

	GeocoderURL    string        `json:"geocoder_url" yaml:"geocoder_url"`
	DebounceWindow time.Duration `json:"debounce_window" yaml:"debounce_window"`
	FlyToDuration  time.Duration `json:"flyto_duration" yaml:"flyto_duration"`
}

// Defaults mirror the production deployment this module grew out of.
const (
	DefaultConfigPrefix  = "metadata/"
	DefaultGeoJSONPrefix = "public/geojson/"
	DefaultGeocoderURL   = "https://nominatim.openstreetmap.org/search"

	DefaultHomeZoom       = 18
	DefaultDebounceWindow = 600 * time.Millisecond
	DefaultFlyToDuration  = 8 * time.Second
)

// DefaultConfig returns a memory-backed configuration with all defaults
// applied. The home center is the Segara Lestari restoration site.
func DefaultConfig() Config {
	return Config{
		HomeCenter:     Coordinate{Lat: -8.129998, Lng: 115.367526},
		HomeZoom:       DefaultHomeZoom,
		Docstore:       DocstoreMemory,
		ConfigPrefix:   DefaultConfigPrefix,
		GeoJSONPrefix:  DefaultGeoJSONPrefix,
		GeocoderURL:    DefaultGeocoderURL,
		DebounceWindow: DefaultDebounceWindow,
		FlyToDuration:  DefaultFlyToDuration,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Docstore == "" {
		return ErrDocstoreEmpty
	}
	if !knownDocstores[c.Docstore] {
		return ErrDocstoreUnknown
	}
	if c.Docstore == DocstoreS3 && c.S3.Bucket == "" {
		return ErrBucketRequired
	}
	if c.HomeZoom <= 0 {
		return ErrZoomInvalid
	}
	if c.DebounceWindow <= 0 {
		return ErrDebounceInvalid
	}
	if c.FlyToDuration <= 0 {
		return ErrFlyToInvalid
	}
	return nil
}
