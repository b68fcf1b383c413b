package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/spentra/internal/flagx"
)

// parseFlags populates Config from the short flags it owns:
//
//	-a string   backend base URL
//	-t int      request timeout in seconds
//	-s string   credential store path
//	-l string   log level
//
// args is filtered with flagx.FilterArgs first so -c/-config and anything
// else on the command line is left alone. Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-s", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "backend base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "credential store path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only an explicit -t replaces the timeout; sub-second values from JSON
	// or env must survive the int round trip.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
