package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv overlays values from environment variables. Variables are read
// from the process first and then from the dotenv file (-e/-env-file, or
// ./.env when present), so the real environment always wins.
//
// Recognised variables:
//
//	HTTP_ADDR, GRPC_ADDR, DATABASE_URL, JWT_SECRET, BCRYPT_COST,
//	HASH_WORKERS, LOG_LEVEL, CORS_ORIGINS (comma separated)
func parseEnv(config *Config, args []string, lookupEnv func(string) (string, bool)) error {
	fileVars, err := readEnvFile(flagx.EnvFileFlags(args))
	if err != nil {
		return err
	}

	get := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok && v != ""
	}

	if v, ok := get("HTTP_ADDR"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := get("GRPC_ADDR"); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := get("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := get("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := get("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	if v, ok := get("HASH_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HASH_WORKERS: %w", err)
		}
		config.HashWorkers = n
	}
	if v, ok := get("CORS_ORIGINS"); ok {
		config.CORSOrigins = splitList(v)
	}
	return nil
}

// readEnvFile parses a dotenv file without touching the process
// environment. A missing default file is not an error; a missing file that
// was asked for explicitly is.
func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return vars, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
