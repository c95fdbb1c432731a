package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	libconfig "github.com/uhppoted/uhppoted-lib/config"
	"github.com/uhppoted/uhppoted-lib/lockfile"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/results"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

const APP = "regression-sheets"

const (
	SHEETS = "https://www.googleapis.com/auth/spreadsheets"
	DRIVE  = "https://www.googleapis.com/auth/drive.metadata.readonly"

	CREDENTIALS_ENV = "REGRESSION_SHEETS_CREDENTIALS"
	SETTLE          = 1 * time.Second
	LOCK_TIMEOUT    = 60 * time.Second
)

type Options struct {
	Config string
	Debug  bool
}

type command struct {
	workdir     string
	credentials string
	tokens      string
	lockfile    string
	xlsx        string
	dryrun      bool
	debug       bool
	settle      time.Duration

	flags *flag.FlagSet
}

func (cmd *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, fmt.Sprintf("Directory for working files (tokens, lock file). Defaults to %v", DEFAULT_WORKDIR))
	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, fmt.Sprintf("Path for the 'credentials.json' file. Defaults to $%v", CREDENTIALS_ENV))
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Directory for the cached OAuth2 tokens. Defaults to <workdir>/.google")
	flagset.StringVar(&cmd.lockfile, "lockfile", cmd.lockfile, "Lock file used to serialise column allocation. Defaults to <workdir>/regression-sheets.lock")
	flagset.StringVar(&cmd.xlsx, "xlsx", cmd.xlsx, "Directory of local .xlsx workbooks to use instead of Google Sheets")
	flagset.BoolVar(&cmd.dryrun, "dryrun", cmd.dryrun, "Logs the cells that would be written without updating the spreadsheet")

	cmd.flags = flagset

	return flagset
}

// args returns the positional arguments following the command flags.
func (cmd *command) args() []string {
	if cmd.flags != nil && cmd.flags.Parsed() {
		return cmd.flags.Args()
	}

	return []string{}
}

func (cmd *command) workdirOrDefault(cfg *config.Config) string {
	switch {
	case strings.TrimSpace(cmd.workdir) != "":
		return cmd.workdir
	case cfg.Workdir != "":
		return cfg.Workdir
	default:
		return DEFAULT_WORKDIR
	}
}

// credentialsFile resolves the credentials path from the command line, the environment,
// the configuration file and finally the platform default, in that order.
func (cmd *command) credentialsFile(cfg *config.Config) string {
	if strings.TrimSpace(cmd.credentials) != "" {
		return cmd.credentials
	}

	if v, ok := os.LookupEnv(CREDENTIALS_ENV); ok && strings.TrimSpace(v) != "" {
		return v
	}

	if cfg.Credentials != "" {
		return cfg.Credentials
	}

	return DEFAULT_CREDENTIALS
}

func (cmd *command) tokensDir(cfg *config.Config) string {
	if cmd.tokens != "" {
		return cmd.tokens
	}

	return filepath.Join(cmd.workdirOrDefault(cfg), ".google")
}

// opener returns the local xlsx opener if --xlsx is set, otherwise an authorised Google
// Sheets opener.
func (cmd *command) opener(ctx context.Context, cfg *config.Config) (workbook.Opener, error) {
	if cmd.xlsx != "" {
		if cmd.debug {
			debugf("using local workbooks in %v", cmd.xlsx)
		}

		return workbook.XLSX{Dir: cmd.xlsx}, nil
	}

	credentials := cmd.credentialsFile(cfg)
	if cmd.debug {
		debugf("credentials:%v", credentials)
	}

	client, err := authorize(ctx, credentials, cmd.tokensDir(cfg), SHEETS, DRIVE)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", results.ErrAuthFailure, err)
	}

	google, err := workbook.NewGoogle(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", results.ErrAuthFailure, err)
	}

	return google, nil
}

// lock serialises column allocation between report processes on this host. The lock is
// retried until LOCK_TIMEOUT expires.
func (cmd *command) lock(ctx context.Context, cfg *config.Config) (func(), error) {
	file := cmd.lockfile
	if file == "" {
		file = cfg.LockfilePath(cmd.workdirOrDefault(cfg))
	}

	if file == "" || cmd.dryrun {
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0770); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, LOCK_TIMEOUT)
	defer cancel()

	for {
		kraken, err := lockfile.MakeLockFile(libconfig.Lockfile{File: file, Remove: true})
		if err == nil {
			if cmd.debug {
				debugf("acquired lock file %v", file)
			}

			return func() { kraken.Release() }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("unable to acquire lock file %v (%w)", file, err)

		case <-time.After(250 * time.Millisecond):
		}
	}
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	fmt.Println("  Options:")
	fmt.Println()
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		fmt.Println("  Global options:")
		fmt.Println()
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
}
