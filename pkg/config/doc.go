// Package config loads typed configuration structs from environment
// variables, optionally seeded from a .env file.
//
// Each configuration type is parsed at most once per process; repeated
// Load calls for the same type return the cached value. Struct fields
// are annotated with `env` tags understood by caarlos0/env:
//
//	type HTTPConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	config.MustLoad(&cfg)
package config
