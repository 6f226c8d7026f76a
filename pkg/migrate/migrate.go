package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where new shop schema migrations are written.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Source is a set of goose SQL files: the ones compiled into the binary or a
// directory on disk.
type Source struct {
	FS   fs.FS
	Dir  string
	name string
}

// Embedded returns the shop schema shipped inside the binary.
func Embedded() Source {
	return Source{FS: embedded, Dir: "migrations", name: "embedded:migrations"}
}

// FromDir reads migrations from dir on disk.
func FromDir(dir string) Source {
	return Source{FS: os.DirFS(dir), Dir: ".", name: dir}
}

func (s Source) String() string { return s.name }

func (s Source) use() error {
	if s.FS == nil {
		return fmt.Errorf("migration source is required")
	}
	goose.SetBaseFS(s.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Run executes a goose command against db. "up" refuses to start while any
// file in src fails validation, so a half-written migration never applies
// part of the schema.
func Run(ctx context.Context, db *sql.DB, src Source, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if command == "up" {
		if err := Validate(src); err != nil {
			return fmt.Errorf("validate %s: %w", src, err)
		}
	}
	if err := src.use(); err != nil {
		return err
	}
	if err := goose.RunContext(ctx, command, db, src.Dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down until it sits at targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, src Source, targetVersion string) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	files, err := Scan(src)
	if err != nil {
		return fmt.Errorf("validate %s: %w", src, err)
	}
	if target != 0 && !hasVersion(files, target) {
		return fmt.Errorf("version %d not found in %s", target, src)
	}
	if err := src.use(); err != nil {
		return err
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	switch {
	case current < target:
		err = goose.UpToContext(ctx, db, src.Dir, target)
	case current > target:
		err = goose.DownToContext(ctx, db, src.Dir, target)
	}
	if err != nil {
		return fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return nil
}

func hasVersion(files []File, version int64) bool {
	for _, f := range files {
		if f.Version == version {
			return true
		}
	}
	return false
}
