package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/cache"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/client"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/config"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/session"
)

var (
	version = "dev"
	commit  = "unknown"
)

// app carries the flags and the lazily built backend stack shared by all
// subcommands.
type app struct {
	verbose     bool
	backendURL  string
	sessionFile string
	format      string
	timeout     time.Duration

	cfg    *config.Config
	client *client.Client
	sess   *session.Store
	rdb    *redis.Client
	queue  *asynq.Client
}

// NewRootCommand builds the backoffice command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "backoffice",
		Short: "Operate the agent marketplace back office",
		Long: `Manage agents, ISVs, resellers and enquiries of the agent marketplace.

The session is kept between invocations, so log in once:
  backoffice login --email admin@example.com
  backoffice list agents --status pending
  backoffice approve agents agent_42`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetVerbose(a.verbose)
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.backendURL, "backend", "", "Backend origin (overrides BACKEND_URL)")
	flags.StringVar(&a.sessionFile, "session-file", "", "Session file path (overrides SESSION_FILE)")
	flags.StringVarP(&a.format, "format", "o", "", "Output format: table, json or yaml (default table on a terminal, json otherwise)")
	flags.DurationVar(&a.timeout, "timeout", 0, "Per-request timeout (overrides REQUEST_TIMEOUT_SECONDS)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newWhoamiCommand(a),
		newListCommand(a),
		newStatsCommand(a),
		newApproveCommand(a),
		newRejectCommand(a),
		newEditCommand(a),
		newBulkUploadCommand(a),
		newAgentCommand(a),
		newWarmCommand(a),
	)
	return root
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load("cli")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.backendURL != "" {
		cfg.BackendURL = a.backendURL
	}
	if a.sessionFile != "" {
		cfg.SessionFile = a.sessionFile
		cfg.SessionStore = "file"
	}
	if a.timeout > 0 {
		cfg.RequestTimeout = a.timeout
	}
	a.cfg = cfg

	a.client, err = client.New(cfg.BackendURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	var store session.Storage
	switch cfg.SessionStore {
	case "redis":
		a.rdb, err = cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		store = session.NewRedisStorage(a.rdb, cfg.SessionKey, 0)
	default:
		store = session.NewFileStorage(cfg.SessionFile, cfg.SessionKey)
	}

	a.sess = session.New(a.client, session.NewSafeStorage(store))
	a.client.SetTokenSource(a.sess)
	return a.sess.Init(cmd.Context())
}

func (a *app) close() {
	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			logging.Warnf("failed to close task client: %v", err)
		}
		a.queue = nil
	}
	if a.rdb != nil {
		if err := cache.DisconnectRedis(a.rdb); err != nil {
			logging.Warnf("failed to close redis: %v", err)
		}
		a.rdb = nil
	}
}

func (a *app) printer(cmd *cobra.Command) *printer {
	return newPrinter(cmd.OutOrStdout(), a.format)
}
