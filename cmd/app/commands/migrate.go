package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// RunMigrateStatus lists the plain-SQL schema files found on disk under
// the migrations directory for driver. Schema application itself is an
// operator responsibility (applying `.sql` files with the driver's own
// client) — this module never runs migrations, since migration tooling is
// out of scope here.
func RunMigrateStatus(writer io.Writer, driver string) error {
	dir := filepath.Join("migrations", migrationDirName(driver))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	_, _ = fmt.Fprintf(writer, "# Schema files for driver %q (%s)\n", driver, dir)
	for _, name := range files {
		_, _ = fmt.Fprintf(writer, "  %s\n", name)
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintln(writer, "  (none found)")
	}

	return nil
}

// migrationDirName maps a SECRET_DB_DRIVER value onto its migrations/
// subdirectory. "postgres" ships as "postgresql" for readability.
func migrationDirName(driver string) string {
	if driver == "postgres" {
		return "postgresql"
	}
	return driver
}
