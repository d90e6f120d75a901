package app

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvTimezone names the environment variable that sets the query timezone.
const EnvTimezone = "QUERYFUNCS_TIMEZONE"

// loadEnv reads the dotenv files, later files overriding earlier ones. As
// with godotenv.Load, variables already set in the process environment take
// precedence over the files. The process environment is not modified.
func loadEnv(files []string) (map[string]string, error) {
	env := make(map[string]string)
	if len(files) > 0 {
		vals, err := godotenv.Read(files...)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		env = vals
	}
	if v, ok := os.LookupEnv(EnvTimezone); ok {
		env[EnvTimezone] = v
	}
	return env, nil
}
