// Config loading for the dinamap CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"dinamap/internal/paths"
	"dinamap/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyHomeLat        = "home_center.lat"
	cfgKeyHomeLng        = "home_center.lng"
	cfgKeyHomeZoom       = "home_zoom"
	cfgKeyDocstore       = "docstore"
	cfgKeyFSRoot         = "fs_root"
	cfgKeySQLitePath     = "sqlite_path"
	cfgKeyS3Bucket       = "s3.bucket"
	cfgKeyS3Region       = "s3.region"
	cfgKeyS3Endpoint     = "s3.endpoint"
	cfgKeyS3PathStyle    = "s3.path_style"
	cfgKeyConfigPrefix   = "config_prefix"
	cfgKeyGeoJSONPrefix  = "geojson_prefix"
	cfgKeyGeocoderURL    = "geocoder_url"
	cfgKeyDebounceWindow = "debounce_window"
	cfgKeyFlyToDuration  = "flyto_duration"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# dinamap configuration

# Home framing at session start
home_center:
  lat: -8.129998
  lng: 115.367526
home_zoom: 18

# Document store driver: memory, fs, sqlite, or s3
docstore: fs
# fs_root:
# sqlite_path:
# s3:
#   bucket:
#   region:
#   endpoint:
#   path_style: false

# Key prefixes for remote documents
config_prefix: metadata/
geojson_prefix: public/geojson/

# Geocoding
geocoder_url: https://nominatim.openstreetmap.org/search
debounce_window: 600ms

# Camera animation
flyto_duration: 8s
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper and assembles the session configuration. A missing config.yaml is
// not an error; defaults apply.
func loadConfig(configDir string) (types.Config, error) {
	def := types.DefaultConfig()

	v := viper.New()
	v.SetDefault(cfgKeyHomeLat, def.HomeCenter.Lat)
	v.SetDefault(cfgKeyHomeLng, def.HomeCenter.Lng)
	v.SetDefault(cfgKeyHomeZoom, def.HomeZoom)
	v.SetDefault(cfgKeyDocstore, types.DocstoreFS)
	v.SetDefault(cfgKeyConfigPrefix, def.ConfigPrefix)
	v.SetDefault(cfgKeyGeoJSONPrefix, def.GeoJSONPrefix)
	v.SetDefault(cfgKeyGeocoderURL, def.GeocoderURL)
	v.SetDefault(cfgKeyDebounceWindow, def.DebounceWindow)
	v.SetDefault(cfgKeyFlyToDuration, def.FlyToDuration)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := types.Config{
		HomeCenter: types.Coordinate{
			Lat: v.GetFloat64(cfgKeyHomeLat),
			Lng: v.GetFloat64(cfgKeyHomeLng),
		},
		HomeZoom:   v.GetFloat64(cfgKeyHomeZoom),
		Docstore:   v.GetString(cfgKeyDocstore),
		FSRoot:     v.GetString(cfgKeyFSRoot),
		SQLitePath: v.GetString(cfgKeySQLitePath),
		S3: types.S3Config{
			Bucket:    v.GetString(cfgKeyS3Bucket),
			Region:    v.GetString(cfgKeyS3Region),
			Endpoint:  v.GetString(cfgKeyS3Endpoint),
			PathStyle: v.GetBool(cfgKeyS3PathStyle),
		},
		ConfigPrefix:   v.GetString(cfgKeyConfigPrefix),
		GeoJSONPrefix:  v.GetString(cfgKeyGeoJSONPrefix),
		GeocoderURL:    v.GetString(cfgKeyGeocoderURL),
		DebounceWindow: v.GetDuration(cfgKeyDebounceWindow),
		FlyToDuration:  v.GetDuration(cfgKeyFlyToDuration),
	}

	if err := applyDataDirDefaults(&cfg); err != nil {
		return types.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyDataDirDefaults fills the local drivers' paths from the resolved
// data directory when config.yaml leaves them unset.
func applyDataDirDefaults(cfg *types.Config) error {
	if cfg.Docstore == types.DocstoreFS && cfg.FSRoot == "" {
		dir, err := paths.ResolveDataDir("", "")
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.FSRoot = dir
	}
	if cfg.Docstore == types.DocstoreSQLite && cfg.SQLitePath == "" {
		dir, err := paths.ResolveDataDir("", "")
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.SQLitePath = filepath.Join(dir, "documents.db")
	}
	return nil
}

// ensureDefaultConfigFile creates the config directory and a commented
// default config.yaml if the file does not exist. Idempotent.
func ensureDefaultConfigFile(configDir string) (string, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat config file: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return "", fmt.Errorf("write config file: %w", err)
	}
	return path, nil
}

// contextTimeout bounds every remote docstore and geocoder call made by
// a single CLI invocation.
const contextTimeout = 30 * time.Second
