package capture

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Render engine selectors.
const (
	EngineExec     = "exec"
	EngineChromedp = "chromedp"
)

// Config captures every knob that influences a capture run. All values
// originate from Viper so the pipeline can be configured via files, env vars,
// or CLI flags, while staying decoupled from Viper itself.
type Config struct {
	InputPath        string
	Format           string
	OutputDir        string
	ChromePath       string
	Engine           string
	UserAgent        string
	EnableProbe      bool
	EnableFinalRetry bool
	ProbeTimeout     time.Duration
	RenderTimeout    time.Duration
	RenderDomainQPS  float64
	ArchiveEndpoint  string
	ArchiveTimeout   time.Duration
	Concurrency      int
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		InputPath:        v.GetString("capture.input"),
		Format:           v.GetString("capture.format"),
		OutputDir:        v.GetString("capture.output"),
		ChromePath:       v.GetString("render.chrome_path"),
		Engine:           v.GetString("render.engine"),
		UserAgent:        v.GetString("capture.user_agent"),
		EnableProbe:      v.GetBool("probe.enabled"),
		EnableFinalRetry: v.GetBool("capture.final_retry"),
		ProbeTimeout:     v.GetDuration("probe.timeout"),
		RenderTimeout:    v.GetDuration("render.timeout"),
		RenderDomainQPS:  v.GetFloat64("render.domain_qps"),
		ArchiveEndpoint:  v.GetString("archive.endpoint"),
		ArchiveTimeout:   v.GetDuration("archive.timeout"),
		Concurrency:      v.GetInt("capture.concurrency"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("capture.input must be set")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("capture.output must be set")
	}
	if c.ChromePath == "" {
		return fmt.Errorf("render.chrome_path must be set")
	}
	if c.Engine != EngineExec && c.Engine != EngineChromedp {
		return fmt.Errorf("render.engine must be %q or %q, got %q", EngineExec, EngineChromedp, c.Engine)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe.timeout must be > 0")
	}
	if c.RenderTimeout <= 0 {
		return fmt.Errorf("render.timeout must be > 0")
	}
	if c.RenderDomainQPS < 0 {
		return fmt.Errorf("render.domain_qps must be >= 0")
	}
	if c.ArchiveEndpoint == "" {
		return fmt.Errorf("archive.endpoint must be set")
	}
	if c.ArchiveTimeout <= 0 {
		return fmt.Errorf("archive.timeout must be > 0")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("capture.concurrency must be > 0")
	}
	return nil
}
