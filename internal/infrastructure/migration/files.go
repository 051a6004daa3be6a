package migration

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

const upSuffix = ".up.sql"

// ListMigrations returns the base names of the up migrations in dir, in apply order.
// A migration without a matching down file is reported as an error.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	files := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files[entry.Name()] = true
		}
	}

	names := make([]string, 0, len(files)/2)
	for name := range files {
		base, ok := strings.CutSuffix(name, upSuffix)
		if !ok {
			continue
		}
		if !files[base+".down.sql"] {
			return nil, fmt.Errorf("migration %s has no down file", base)
		}
		names = append(names, base)
	}
	sort.Strings(names)
	return names, nil
}
