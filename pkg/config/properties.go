package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/downfa11-org/burstfifo/util"
	"gopkg.in/yaml.v3"
)

// Config represents the buffer configuration. Geometry fields are fixed once a
// buffer is built from it.
type Config struct {
	// Geometry
	MaxBurstBytes int `yaml:"max_burst_bytes" json:"max.burst.bytes"`
	IDWidth       int `yaml:"id_width" json:"id.width"`
	DataWidth     int `yaml:"data_width" json:"data.width"` // bits per beat

	// Cross-domain publication
	AsyncDomains bool `yaml:"async_domains" json:"async.domains"`
	SyncStages   int  `yaml:"sync_stages" json:"sync.stages"`

	// Storage
	StoreBackend string `yaml:"store_backend" json:"store.backend"`
	StoreDir     string `yaml:"store_dir" json:"store.dir"`

	// Observability
	LogLevel       util.LogLevel `yaml:"log_level" json:"log_level"`
	EnableExporter bool          `yaml:"enable_exporter" json:"enable.exporter"`
	ExporterPort   int           `yaml:"exporter_port" json:"exporter.port"`

	// Bench harness
	BenchBursts        int           `yaml:"bench_bursts" json:"bench.bursts"`
	BenchSeed          int64         `yaml:"bench_seed" json:"bench.seed"`
	BenchProducerPace  time.Duration `yaml:"bench_producer_pace" json:"bench.producer.pace"`
	BenchConsumerPace  time.Duration `yaml:"bench_consumer_pace" json:"bench.consumer.pace"`
	BenchSinkStallRate float64       `yaml:"bench_sink_stall_rate" json:"bench.sink.stall.rate"`
	BenchCSVPath       string        `yaml:"bench_csv_path" json:"bench.csv.path"`
}

const (
	BackendMemory = "memory"
	BackendMmap   = "mmap"
)

// LoadConfig builds a Config from flag defaults, an optional YAML/JSON file,
// explicitly set flags and BURST_* environment variables, in that order.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("burstfifo", flag.ContinueOnError)

	configPath := fs.String("config", "", "Path to YAML/JSON config file")
	fs.IntVar(&cfg.MaxBurstBytes, "max-burst-bytes", 256, "Maximum bytes per burst (derives beats per segment)")
	fs.IntVar(&cfg.IDWidth, "id-width", 3, "Sequence counter width W (2^(W-1) segments)")
	fs.IntVar(&cfg.DataWidth, "data-width", 64, "Beat width in bits (multiple of 8)")
	fs.BoolVar(&cfg.AsyncDomains, "async-domains", true, "Producer and consumer run at unrelated rates")
	fs.IntVar(&cfg.SyncStages, "sync-stages", 2, "Synchronizer depth when domains are asynchronous")
	fs.StringVar(&cfg.StoreBackend, "store", BackendMemory, "Store backend (memory, mmap)")
	fs.StringVar(&cfg.StoreDir, "store-dir", "burst-store", "Directory for mmap store files")
	logLevelStr := fs.String("log-level", "info", "Log Level (debug, info, warn, error)")
	fs.BoolVar(&cfg.EnableExporter, "exporter", false, "Enable Prometheus exporter")
	fs.IntVar(&cfg.ExporterPort, "exporter-port", 9100, "Exporter port")
	fs.IntVar(&cfg.BenchBursts, "bursts", 100000, "Bursts to push in the bench run")
	fs.Int64Var(&cfg.BenchSeed, "seed", 1, "Seed for generated bursts")
	fs.DurationVar(&cfg.BenchProducerPace, "producer-pace", 0, "Pause between producer bursts")
	fs.DurationVar(&cfg.BenchConsumerPace, "consumer-pace", 0, "Pause after each delivered beat")
	fs.Float64Var(&cfg.BenchSinkStallRate, "sink-stall-rate", 0, "Fraction of consumer steps with the sink not ready")
	fs.StringVar(&cfg.BenchCSVPath, "csv", "", "Append bench results to this CSV file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.LogLevel = util.ParseLogLevel(*logLevelStr)

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" && *configPath == "" {
		*configPath = envPath
	}

	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, err
		}

		if strings.HasSuffix(*configPath, ".json") {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", *configPath, err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", *configPath, err)
			}
		}

		// flags given on the command line win over the file
		for name, value := range explicit {
			switch name {
			case "config":
			case "log-level":
				cfg.LogLevel = util.ParseLogLevel(value)
			default:
				_ = fs.Set(name, value)
			}
		}
	}

	applyEnv(cfg)
	cfg.Normalize()
	util.SetLevel(cfg.LogLevel)

	if _, err := cfg.Geometry(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrideEnvInt(&cfg.MaxBurstBytes, "BURST_MAX_BURST_BYTES")
	overrideEnvInt(&cfg.IDWidth, "BURST_ID_WIDTH")
	overrideEnvInt(&cfg.DataWidth, "BURST_DATA_WIDTH")
	overrideEnvBool(&cfg.AsyncDomains, "BURST_ASYNC_DOMAINS")
	overrideEnvInt(&cfg.SyncStages, "BURST_SYNC_STAGES")
	overrideEnvString(&cfg.StoreBackend, "BURST_STORE_BACKEND")
	overrideEnvString(&cfg.StoreDir, "BURST_STORE_DIR")
	overrideEnvBool(&cfg.EnableExporter, "BURST_ENABLE_EXPORTER")
	overrideEnvInt(&cfg.ExporterPort, "BURST_EXPORTER_PORT")
	overrideEnvInt(&cfg.BenchBursts, "BURST_BENCH_BURSTS")
	overrideEnvInt64(&cfg.BenchSeed, "BURST_BENCH_SEED")
	overrideEnvString(&cfg.BenchCSVPath, "BURST_BENCH_CSV_PATH")
	if v := os.Getenv("BURST_BENCH_PRODUCER_PACE"); v != "" {
		cfg.BenchProducerPace = util.ParseDuration(v, cfg.BenchProducerPace)
	}
	if v := os.Getenv("BURST_BENCH_CONSUMER_PACE"); v != "" {
		cfg.BenchConsumerPace = util.ParseDuration(v, cfg.BenchConsumerPace)
	}
	if v := os.Getenv("BURST_BENCH_SINK_STALL_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cfg.BenchSinkStallRate = rate
		}
	}
	if v := os.Getenv("BURST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = util.ParseLogLevel(v)
	}
}
