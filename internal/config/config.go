// Package config assembles runtime settings from defaults, environment
// variables, and bound command-line flags.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultModelURL is the fixed remote identifier of the published model
// artifact, used when no local copy exists.
const DefaultModelURL = "https://drive.google.com/uc?id=1ECiRuPbY6m7gniTKIupGleiIuhgWdEce"

// Config holds everything the service needs at startup.
type Config struct {
	Addr         string
	ModelPath    string
	ModelURL     string
	ScratchDir   string
	FontPath     string
	LogLevel     string
	FetchTimeout time.Duration
}

// Load resolves the configuration from v. Environment variables use the
// LEAFDIAG_ prefix with dots replaced by underscores, e.g.
// LEAFDIAG_MODEL_PATH.
func Load(v *viper.Viper) Config {
	v.SetDefault("addr", ":8080")
	v.SetDefault("model.path", "models/plant_nutrition.onnx")
	v.SetDefault("model.url", DefaultModelURL)
	v.SetDefault("scratch.dir", "")
	v.SetDefault("font.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("fetch.timeout", 5*time.Minute)

	v.SetEnvPrefix("LEAFDIAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return Config{
		Addr:         v.GetString("addr"),
		ModelPath:    v.GetString("model.path"),
		ModelURL:     v.GetString("model.url"),
		ScratchDir:   v.GetString("scratch.dir"),
		FontPath:     v.GetString("font.path"),
		LogLevel:     v.GetString("log.level"),
		FetchTimeout: v.GetDuration("fetch.timeout"),
	}
}
