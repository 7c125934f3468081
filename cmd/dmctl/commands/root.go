// Package commands implements dmctl, the offline administration tool of dm-lab.
// It opens the badger directory of a stopped server and goes through the same
// services as the server does.
package commands

import (
	"context"
	"dm-lab/auth"
	"dm-lab/infrastructure/storage"
	"dm-lab/moderation"
	"dm-lab/observability"
	"dm-lab/runtime"
	"dm-lab/services"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	dbPathKey     = "db"
	logLevelKey   = "log_level"
	jwtSecretKey  = "jwt_secret"
	jwtIssuerKey  = "jwt_issuer"
	txRetriesKey  = "tx_max_retries"
	commandTimeout = 30 * time.Second
)

// app holds what a command needs once the database is open.
type app struct {
	config     *viper.Viper
	log        *slog.Logger
	db         *badger.DB
	store      *storage.Store
	profiles   *storage.ProfileRepository
	rooms      *services.RoomService
	moderation *services.ModerationService
}

func (a *app) open() error {
	a.log = logs.GetLoggerFromString(a.config.GetString(logLevelKey))
	path := a.config.GetString(dbPathKey)
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("opening badger at %s (is the server still running?): %w", path, err)
	}
	a.db = db
	a.store = storage.NewStore(db, a.log, a.config.GetInt(txRetriesKey))
	a.profiles = storage.NewProfileRepository(db, a.log)
	// Nobody is connected to an offline tool: every push misses and messages are stored only.
	hub := runtime.NewHub(a.log, nil)
	a.rooms = services.NewRoomService(a.log, a.store, moderation.NewGate(a.log), a.profiles,
		runtime.NewDelivery(hub, a.log), observability.NewMetrics(), 0)
	a.moderation = services.NewModerationService(a.log, a.store)
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *app) verifier() (auth.Verifier, error) {
	secret := a.config.GetString(jwtSecretKey)
	if secret == "" {
		return auth.Verifier{}, fmt.Errorf("--jwt-secret or DMCTL_JWT_SECRET is required")
	}
	return auth.NewVerifier(secret, a.config.GetString(jwtIssuerKey)), nil
}

func (a *app) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

// NewRootCommand builds dmctl. Settings come from flags, then DMCTL_* variables.
func NewRootCommand() *cobra.Command {
	a := &app{config: viper.New()}

	root := &cobra.Command{
		Use:           "dmctl",
		Short:         "Administration tool for the dm-lab message store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	flags := root.PersistentFlags()
	flags.String("db", database.DefaultPath, "Path to the badger directory")
	flags.String("log-level", "WARN", "Log level")
	flags.String("jwt-secret", "", "Secret shared with the identity service")
	flags.String("jwt-issuer", "", "Expected issuer of tokens")
	flags.Int("tx-max-retries", 5, "Replays of a conflicting transaction")

	a.config.SetEnvPrefix("DMCTL")
	a.config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.config.AutomaticEnv()
	_ = a.config.BindPFlag(dbPathKey, flags.Lookup("db"))
	_ = a.config.BindPFlag(logLevelKey, flags.Lookup("log-level"))
	_ = a.config.BindPFlag(jwtSecretKey, flags.Lookup("jwt-secret"))
	_ = a.config.BindPFlag(jwtIssuerKey, flags.Lookup("jwt-issuer"))
	_ = a.config.BindPFlag(txRetriesKey, flags.Lookup("tx-max-retries"))

	var withStore func(cmd *cobra.Command) *cobra.Command
	withStore = func(cmd *cobra.Command) *cobra.Command {
		for _, child := range cmd.Commands() {
			withStore(child)
		}
		if run := cmd.RunE; run != nil {
			cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
				if err = a.open(); err != nil {
					return err
				}
				defer func() {
					if closeErr := a.close(); err == nil {
						err = closeErr
					}
				}()
				return run(cmd, args)
			}
		}
		return cmd
	}

	root.AddCommand(
		withStore(roomsCommand(a)),
		withStore(messagesCommand(a)),
		withStore(blockCommand(a)),
		withStore(unblockCommand(a)),
		withStore(blocksCommand(a)),
		withStore(reportCommand(a)),
		withStore(reportsCommand(a)),
		withStore(resolveReportCommand(a)),
		withStore(withdrawCommand(a)),
		withStore(profileCommand(a)),
		withStore(keysCommand(a)),
		tokenCommand(a),
	)
	return root
}
