// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from a config
// file, environment variables, and command-line flags, providing a unified
// configuration system.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// InitConfig initializes the application's configuration using Viper. It sets
// up default values, defines configuration search paths, and enables reading
// from environment variables. Called once at startup, before any capture
// work; configuration is never mutated during a run. An explicit cfgFile
// overrides the search paths.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/webpdf/")
		viper.AddConfigPath("$HOME/.webpdf")
	}

	viper.SetDefault("capture.input", "")
	viper.SetDefault("capture.format", "")
	viper.SetDefault("capture.output", "")
	viper.SetDefault("capture.final_retry", true)
	viper.SetDefault("capture.concurrency", 1)
	viper.SetDefault("capture.user_agent", "web-pages-to-pdf/1.0 (+https://github.com/WorkOfStan/web-pages-to-pdf)")

	viper.SetDefault("probe.enabled", true)
	viper.SetDefault("probe.timeout", "10s")

	viper.SetDefault("render.engine", "exec")
	viper.SetDefault("render.chrome_path", "chrome")
	viper.SetDefault("render.timeout", "25s")
	viper.SetDefault("render.domain_qps", 0.0)

	viper.SetDefault("archive.endpoint", "http://archive.org/wayback/available")
	viper.SetDefault("archive.timeout", "10s")

	viper.SetDefault("logging.development", true)
	viper.SetDefault("logging.warning_file", "url_retrieval.log")

	viper.SetDefault("status.enabled", false)
	viper.SetDefault("status.addr", ":8099")

	viper.SetEnvPrefix("WEBPDF") // e.g. WEBPDF_RENDER_TIMEOUT=40s
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "error reading config file: %v\n", err)
		}
	}
}
