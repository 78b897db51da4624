package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
)

const envFile = ".env"

// LoadEnvFile reads the monorepo root .env file and returns its pairs in
// KEY=value form, sorted by key for stable task environments. A missing
// file is not an error.
func LoadEnvFile(root string) ([]string, error) {
	path := filepath.Join(root, envFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	pairs := make([]string, 0, len(values))
	for k, v := range values {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs, nil
}
