package migrate

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

const versionLayout = "20060102150405"

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// File is one migration in a Source.
type File struct {
	Version int64
	Name    string
}

// Scan lists the migrations in src by ascending version. Every problem found
// is reported together rather than stopping at the first.
func Scan(src Source) ([]File, error) {
	if src.FS == nil {
		return nil, fmt.Errorf("migration source is required")
	}
	entries, err := fs.ReadDir(src.FS, src.Dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}

	var (
		files []File
		errs  error
		seen  = make(map[int64]string)
	)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".sql" {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: expected YYYYMMDDHHMMSS_name.sql", name))
			continue
		}
		version, _ := strconv.ParseInt(m[1], 10, 64)
		if prev, dup := seen[version]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s: version %d already used by %s", name, version, prev))
			continue
		}
		seen[version] = name

		body, err := fs.ReadFile(src.FS, path.Join(src.Dir, name))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		errs = multierr.Append(errs, checkBody(name, string(body)))
		files = append(files, File{Version: version, Name: name})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, errs
}

// Validate reports every malformed migration in src.
func Validate(src Source) error {
	_, err := Scan(src)
	return err
}

// ValidateDir validates the migrations in a directory on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return Validate(FromDir(dir))
}

// checkBody requires an Up section before a Down section, each with matched
// StatementBegin/StatementEnd pairs.
func checkBody(name, body string) error {
	up := strings.Index(body, "-- +goose Up")
	down := strings.Index(body, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf("%s: missing -- +goose Up", name)
	case down < 0:
		return fmt.Errorf("%s: missing -- +goose Down", name)
	case down < up:
		return fmt.Errorf("%s: Down section comes before Up", name)
	}

	var errs error
	for _, section := range []struct{ label, text string }{
		{"Up", body[up:down]},
		{"Down", body[down:]},
	} {
		begins := strings.Count(section.text, "-- +goose StatementBegin")
		ends := strings.Count(section.text, "-- +goose StatementEnd")
		if begins != ends {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s section has %d StatementBegin but %d StatementEnd", name, section.label, begins, ends))
		}
	}
	return errs
}
