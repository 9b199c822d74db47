package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/expressdata/internal/flagx"
)

// parseFlags overlays cfg with the flags it knows about. Other flags in args
// are filtered out first so they cannot make parsing fail.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-u", "-k", "-p", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.SupabaseURL, "u", cfg.SupabaseURL, "hosted project URL")
	fs.StringVar(&cfg.SupabaseAnonKey, "k", cfg.SupabaseAnonKey, "project anon key")
	fs.StringVar(&cfg.PaystackPublicKey, "p", cfg.PaystackPublicKey, "payment widget public key")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
