// Package config loads runtime configuration for the storefront client.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file, loaded into the process environment without overriding
//     variables that are already set. Selected with -e/-env-file, otherwise
//     ./.env when present.
//  3. Optional JSON file selected with -c or -config.
//  4. Environment variables prefixed with EXPRESS_.
//  5. Command-line flags.
//
// Supported flags
//
//	-u string   hosted project URL
//	-k string   project anon (public) api key
//	-p string   payment widget public key
//	-d string   path of the local SQLite database
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations accept strings like "300ms" or integer nanoseconds:
//
//	{
//	  "supabase_url": "https://xyz.supabase.co",
//	  "supabase_anon_key": "...",
//	  "paystack_public_key": "pk_test_...",
//	  "recheck_delay": "300ms",
//	  "request_timeout": "30s",
//	  "storage": {"bucket": "avatars", "region": "us-east-1"}
//	}
package config
