package fracwatch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ConfigFile is the on-disk analysis configuration.
// Zero values mean "use the default"; FillDefaults resolves them.
type ConfigFile struct {
	Source       string  `json:"source"`       // file path or URL of the EDR table
	Policy       string  `json:"policy"`       // "simple" or "combined"
	Warmup       int     `json:"warmup"`       // samples excluded after a drilling onset, negative disables
	RollingWin   int     `json:"rolling_win"`  // trailing samples for the ROP reference
	FreqCutoff   float64 `json:"freq_cutoff"`  // normalized low-pass cutoff for detrending
	SustainSecs  float64 `json:"sustain_secs"` // Red duration before the alert fires, negative disables
	WindowMins   []int   `json:"window_mins"`  // display window cycle, 0 = entire history
	DepthMin     float64 `json:"depth_min"`    // hole-depth band of interest, feet
	DepthMax     float64 `json:"depth_max"`
	Red          float64 `json:"red"`
	Orange       float64 `json:"orange"`
	Yellow       float64 `json:"yellow"`
	AuxDeviation float64 `json:"aux_deviation"`
}

// RuntimeConfig carries the env-var overrides that change per
// deployment rather than per well.
type RuntimeConfig struct {
	ConfigPath string `env:"FRACWATCH_CONFIG, default=fracwatch.json"`
	BindAddr   string `env:"FRACWATCH_ADDR, default=:8090"`
	NatsURL    string `env:"FRACWATCH_NATS_URL"`  // empty disables publishing
	BadgerPath string `env:"FRACWATCH_DB"`        // empty disables the report sink
	OTelEnable bool   `env:"FRACWATCH_OTEL"`
}

// LoadRuntimeConfig reads the process environment.
func LoadRuntimeConfig(ctx context.Context) (*RuntimeConfig, error) {
	var rc RuntimeConfig
	if err := envconfig.Process(ctx, &rc); err != nil {
		slog.Error("Could not read environment", slog.Any("Error", err))
		return nil, err
	}
	return &rc, nil
}

// LoadConfigFileName pulls a given filename config off local disk
// Validation is performed on the file before opening
func LoadConfigFileName(filename string) (*ConfigFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// validation
	if err := validateLoad(file); err != nil {
		slog.Error("Validation failed", slog.Any("Error", err))
		return nil, err
	}

	return LoadConfig(file)
}

func validateLoad(file *os.File) error {
	// validate file
	info, err := file.Stat()
	if err != nil {
		slog.Error("could not stat file")
		return err
	}

	// validate size
	if info.Size() == 0 {
		slog.Error("file is empty")
		return errors.New("file is empty")
	}

	return nil
}

func LoadConfig(file *os.File) (*ConfigFile, error) {
	cf, err := os.Open(file.Name())
	if err != nil {
		slog.Error("could not open file")
		return nil, err
	}
	defer cf.Close()

	var config ConfigFile
	decoder := json.NewDecoder(cf)
	if err := decoder.Decode(&config); err != nil {
		slog.Error("could not decode file")
		return nil, err
	}
	config.FillDefaults()

	return &config, nil
}

// FillDefaults resolves zero values to the documented defaults.
// Warmup and SustainSecs accept a negative value as an explicit
// zero, since their zero value already means "use the default".
func (c *ConfigFile) FillDefaults() {
	if c.Warmup == 0 {
		c.Warmup = DefaultWarmup
	} else if c.Warmup < 0 {
		c.Warmup = 0
	}
	if c.RollingWin == 0 {
		c.RollingWin = DefaultRollingWindow
	}
	if c.FreqCutoff == 0 {
		c.FreqCutoff = DefaultFreqCutoff
	}
	if c.SustainSecs == 0 {
		c.SustainSecs = DefaultSustainSecs
	} else if c.SustainSecs < 0 {
		c.SustainSecs = 0
	}
	if len(c.WindowMins) == 0 {
		c.WindowMins = []int{0, 5, 10, 30}
	}
	if c.Red == 0 && c.Orange == 0 && c.Yellow == 0 {
		t := DefaultThresholds()
		c.Red, c.Orange, c.Yellow = t.Red, t.Orange, t.Yellow
	}
	if c.AuxDeviation == 0 {
		c.AuxDeviation = DefaultThresholds().AuxDeviation
	}
	if c.DepthMin == 0 && c.DepthMax == 0 {
		c.DepthMin, c.DepthMax = 4000, 6000
	}
}

// Thresholds assembles the severity bands from the config.
func (c *ConfigFile) Thresholds() Thresholds {
	return Thresholds{
		Red:          c.Red,
		Orange:       c.Orange,
		Yellow:       c.Yellow,
		AuxDeviation: c.AuxDeviation,
	}
}

// Windows converts the configured minute list to display windows.
func (c *ConfigFile) Windows() []time.Duration {
	out := make([]time.Duration, len(c.WindowMins))
	for i, m := range c.WindowMins {
		out[i] = time.Duration(m) * time.Minute
	}
	return out
}

// FillEnvVar returns the value of a runtime Environment Variable
func FillEnvVar(ev string) string {
	// If the EnvVar doesn't exist return a default string
	value := os.Getenv(ev)
	if value == "" {
		value = "ENOENT"
	}
	return value
}
