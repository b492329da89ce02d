// Package config loads runtime configuration for the credkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, selected with the --config/-c flag of the CLI.
//  3. The CREDKEEPER_SERVER_URL environment variable.
//  4. Command flags (--server, --timeout), applied by package cli.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:3000",
//	  "request_timeout": "5s"
//	}
package config
