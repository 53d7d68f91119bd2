package config

import (
	"os"

	"github.com/joho/godotenv"
)

// dotenvFiles in precedence order. godotenv never overwrites a variable
// that is already set, so real environment variables beat every file and
// .env.local beats .env.
var dotenvFiles = []string{".env.local", ".env"}

// LoadDotEnv reads the optional dotenv files from the working directory
// and reports which ones were found. Missing files are not an error.
func LoadDotEnv() []string {
	var found []string
	for _, name := range dotenvFiles {
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	if len(found) == 0 {
		return nil
	}
	_ = godotenv.Load(found...)
	return found
}
