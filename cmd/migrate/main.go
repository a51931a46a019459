// Command migrate manages the postgres schema with golang-migrate.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/fintrack/backend/internal/infrastructure/logger"
	"github.com/fintrack/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type invocation struct {
	dir  string
	args []string
	log  *zap.Logger
	m    *migration.Migrator // nil for file-only commands
}

type command struct {
	usage    string
	help     string
	database bool
	run      func(inv *invocation) error
}

var commands = map[string]command{
	"up":      {"up", "Apply all pending migrations", true, func(inv *invocation) error { return inv.m.Up() }},
	"down":    {"down", "Roll back all migrations", true, func(inv *invocation) error { return inv.m.Down() }},
	"step":    {"step <n>", "Apply n migrations (negative rolls back)", true, runStep},
	"force":   {"force <version>", "Mark a version as applied and clear the dirty flag", true, runForce},
	"version": {"version", "Show the applied version", true, runVersion},
	"create":  {"create <name> [desc]", "Write the next numbered up/down pair", false, runCreate},
	"list":    {"list", "List migrations on disk", false, runList},
}

var commandOrder = []string{"up", "down", "step", "version", "force", "create", "list"}

func main() {
	dir := flag.String("path", "migrations", "Migrations directory")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage()
		os.Exit(2)
	}

	log := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stdout", TimeFormat: "2006-01-02 15:04:05"})
	defer func() { _ = log.Sync() }()

	abs, err := filepath.Abs(*dir)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}
	inv := &invocation{dir: abs, args: args[1:], log: log}

	if cmd.database {
		db, err := openDatabase()
		if err != nil {
			log.Fatal("Database unavailable", zap.Error(err))
		}
		defer db.Close()
		if inv.m, err = migration.New(db, abs, log); err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		defer inv.m.Close()
	}

	if err := cmd.run(inv); err != nil {
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

// openDatabase connects with the server's configuration. sqlite schemas are
// created by AutoMigrate and never go through here.
func openDatabase() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("migrations run against postgres only, configured driver is %q", cfg.Database.Driver)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func runStep(inv *invocation) error {
	n, err := numberArg(inv.args)
	if err != nil {
		return err
	}
	return inv.m.Steps(n)
}

func runForce(inv *invocation) error {
	v, err := numberArg(inv.args)
	if err != nil {
		return err
	}
	return inv.m.Force(v)
}

func runVersion(inv *invocation) error {
	version, dirty, err := inv.m.Version()
	if err != nil {
		return err
	}
	inv.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func runCreate(inv *invocation) error {
	if len(inv.args) == 0 {
		return errors.New("usage: migrate create <name> [description]")
	}
	desc := ""
	if len(inv.args) > 1 {
		desc = inv.args[1]
	}
	mf, err := migration.CreateMigration(inv.dir, inv.args[0], desc)
	if err != nil {
		return err
	}
	inv.log.Info("Migration created",
		zap.Uint("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath))
	return nil
}

func runList(inv *invocation) error {
	files, err := migration.ListMigrations(inv.dir)
	if err != nil {
		return err
	}
	for _, mf := range files {
		fmt.Printf("%06d  %s\n", mf.Version, mf.Name)
	}
	return nil
}

func numberArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("a number argument is required")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[0])
	}
	return n, nil
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "fintrack database migrations\n\nUsage:\n  migrate [flags] <command> [arguments]\n\nCommands:")
	for _, name := range commandOrder {
		c := commands[name]
		fmt.Fprintf(out, "  %-22s%s\n", c.usage, c.help)
	}
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintln(out, "\nDatabase settings come from config.toml and FINTRACK_DATABASE_* variables.")
}
