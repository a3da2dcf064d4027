package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Config is built once at startup and passed explicitly into query building
// and execution.
type Config struct {
	Host       string
	Filters    map[string]string
	Endpoints  map[string][]string
	ClientFile string
	Output     string
	Monthly    bool
}

type envDefaults struct {
	Host   string `env:"STATFETCH_HOST"`
	Output string `env:"STATFETCH_OUTPUT"`
}

const usage = `Usage: statfetch -h <host> -f <filter-json> -e <endpoint-json> -c <client-file> -o <output> [-m]

Fetches per-client request statistics from the log search backend and writes
them to a JSON report.

  -h  search backend URI (may embed basic-auth credentials)
  -f  JSON object mapping fields to exact-match values, e.g. '{"stage":"prod"}'
  -e  JSON object mapping a field to the endpoint values to report on,
      e.g. '{"path":["/orders","/invoices"]}'
  -c  path to the JSON client list file (array of objects with an "id" field)
  -o  path for the JSON report
  -m  restrict the date range to the current month (default: all time,
      narrowed by the backend's default search window)

-h and -o fall back to STATFETCH_HOST and STATFETCH_OUTPUT; a .env file in the
working directory is honored.
`

func Usage() string {
	return usage
}

// Parse builds the Config from CLI arguments. Environment defaults are read
// first so explicit flags always win. No network access happens here.
func Parse(args []string) (*Config, error) {
	_ = godotenv.Load()
	var defaults envDefaults
	if err := env.Parse(&defaults); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	fs := flag.NewFlagSet("statfetch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	host := fs.String("h", defaults.Host, "search backend URI")
	filterJson := fs.String("f", "", "JSON object of exact-match filters")
	endpointJson := fs.String("e", "", "JSON object of endpoint values per field")
	clientFile := fs.String("c", "", "path to the JSON client list file")
	output := fs.String("o", defaults.Output, "path for the JSON report")
	monthly := fs.Bool("m", false, "restrict to the current month")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	for flagName, value := range map[string]string{
		"-h": *host,
		"-f": *filterJson,
		"-e": *endpointJson,
		"-c": *clientFile,
		"-o": *output,
	} {
		if value == "" {
			return nil, fmt.Errorf("missing required flag %s", flagName)
		}
	}

	cfg := &Config{
		Host:       *host,
		ClientFile: *clientFile,
		Output:     *output,
		Monthly:    *monthly,
	}
	if err := sonic.Unmarshal([]byte(*filterJson), &cfg.Filters); err != nil {
		return nil, fmt.Errorf("invalid filter JSON %q: %w", *filterJson, err)
	}
	if err := sonic.Unmarshal([]byte(*endpointJson), &cfg.Endpoints); err != nil {
		return nil, fmt.Errorf("invalid endpoint JSON %q: %w", *endpointJson, err)
	}
	return cfg, nil
}
