package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/ingest"
	"jobsift-engine/internal/logger"
	"jobsift-engine/internal/scheduler"
	"jobsift-engine/internal/secrets"
	"jobsift-engine/internal/store"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		cfgPath  = flag.String("config", "config/config.yml", "path to the YAML config")
		dbPath   = flag.String("db", "jobs.db", "path to the SQLite database")
		interval = flag.Duration("interval", 0, "rerun ingestion on this interval; 0 runs once and exits")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	setEmailPassword := flag.Bool("set-email-password", false,
		"read an IMAP password from stdin, store it in the OS keyring for the configured email account, and exit")
	flag.Parse()

	logger.Init(*verbose)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *cfgPath).Msg("config load failed")
	}
	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		log.Warn().Msg(w)
	}
	if err := v.Err(); err != nil {
		log.Fatal().Err(err).Msg("config invalid")
	}

	if *setEmailPassword {
		if err := storeEmailPassword(cfg); err != nil {
			log.Fatal().Err(err).Msg("storing email password failed")
		}
		log.Info().Str("account", cfg.Email.Username).Msg("password stored in keyring")
		return
	}

	// One engine per database: overlapping runs against the same store would
	// break the single-writer contract.
	lock := flock.New(*dbPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatal().Err(err).Msg("acquiring run lock failed")
	}
	if !locked {
		log.Fatal().Str("lock", lock.Path()).Msg("another engine already holds the lock for this database")
	}
	defer func() { _ = lock.Unlock() }()

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("opening store failed")
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal().Err(err).Msg("migrating store failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOnce := func(ctx context.Context) error {
		sum, err := ingest.Run(ctx, db.Pool, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Checked: %d | New inserted: %d | Pruned old: %d\n", sum.Checked, sum.Inserted, sum.Pruned)
		return nil
	}

	if *interval > 0 {
		log.Info().Dur("interval", *interval).Msg("running continuously")
		scheduler.Every(ctx, *interval, "ingest", runOnce)
		return
	}

	if err := runOnce(ctx); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func storeEmailPassword(cfg config.Config) error {
	if strings.TrimSpace(cfg.Email.Username) == "" || strings.TrimSpace(cfg.Email.IMAPHost) == "" {
		return fmt.Errorf("email.username and email.imap_host must be set in the config")
	}

	fmt.Fprint(os.Stderr, "IMAP password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading password: %w", err)
	}

	account := secrets.IMAPAccount(cfg.Email.Username, cfg.Email.IMAPHost)
	return secrets.SetIMAPPassword(account, strings.TrimSpace(line))
}
