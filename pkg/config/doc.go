// Package config loads typed configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - the default `.env` file is loaded once if present, more files with LoadEnv;
//   - Load parses the environment into any struct annotated with `env` tags;
//   - parsed structs are cached per type and prefix;
//   - WithValidation checks the parsed struct with declared validation rules
//     before it is cached.
//
// # Usage
//
//	type StoreConfig struct {
//	    ConnURL string `env:"PG_CONN_URL,required"`
//	    MaxConns int32 `env:"PG_MAX_CONNS" envDefault:"10"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg, config.WithPrefix("PRIMARY_")); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
//   - ErrParsingConfig  - env vars could not be parsed into the struct.
//   - ErrInvalidConfig  - the struct violated its validation rules.
//   - ErrLoadingEnvFile - a .env file could not be read.
//   - ErrNilPointer     - nil pointer passed to Load or MustLoad.
//
// Use ResetCache between tests that change the environment.
package config
