// Package main is progressctl, the fixture and inspection CLI for the
// progress engine.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pillarcoach/progress-engine/internal/config"
	"github.com/pillarcoach/progress-engine/internal/domain"
	"github.com/pillarcoach/progress-engine/internal/engine"
	"github.com/pillarcoach/progress-engine/internal/provider"
	"github.com/pillarcoach/progress-engine/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "progressctl",
		Short:         "Progress engine fixture and inspection tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to configuration file")

	root.AddCommand(newSeedCmd(&configPath))
	root.AddCommand(newViewCmd(&configPath))
	return root
}

func openStore(configPath string) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// fixture is the JSON document consumed by `progressctl seed`.
type fixture struct {
	UserID         string                `json:"user_id"`
	ProgrammeStart string                `json:"programme_start"`
	Rows           []domain.ProgrammeRow `json:"rows"`
	FocusKRIDs     []string              `json:"focus_kr_ids"`
	ActiveDates    []string              `json:"active_dates"`
	History        []domain.HistoryItem  `json:"history"`
}

func newSeedCmd(configPath *string) *cobra.Command {
	var file string
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a JSON fixture into the snapshot store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}
			var fx fixture
			if err := json.Unmarshal(data, &fx); err != nil {
				return fmt.Errorf("parse fixture JSON: %w", err)
			}
			if fx.UserID == "" {
				return fmt.Errorf("fixture has no user_id")
			}

			_, db, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := seed(cmd.Context(), db, fx, reset); err != nil {
				return err
			}
			fmt.Printf("seeded user %s: %d rows, %d active days, %d history items\n",
				fx.UserID, len(fx.Rows), len(fx.ActiveDates), len(fx.History))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "fixture JSON file")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the user's existing data first")
	cmd.MarkFlagRequired("file")
	return cmd
}

func seed(ctx context.Context, db *sql.DB, fx fixture, reset bool) error {
	progRepo := &store.ProgrammeRepo{}
	engRepo := &store.EngagementRepo{}
	histRepo := &store.HistoryRepo{}
	focusRepo := &store.FocusRepo{}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if reset {
		if err := progRepo.DeleteByUserTx(ctx, tx, fx.UserID); err != nil {
			return err
		}
		if err := engRepo.DeleteByUserTx(ctx, tx, fx.UserID); err != nil {
			return err
		}
		if err := histRepo.DeleteByUserTx(ctx, tx, fx.UserID); err != nil {
			return err
		}
		if err := focusRepo.DeleteByUserTx(ctx, tx, fx.UserID); err != nil {
			return err
		}
	}

	if err := progRepo.SetStartTx(ctx, tx, fx.UserID, fx.ProgrammeStart); err != nil {
		return err
	}
	for i, row := range fx.Rows {
		if err := progRepo.CreateRowTx(ctx, tx, fx.UserID, i, row); err != nil {
			return err
		}
	}
	for _, day := range fx.ActiveDates {
		if err := engRepo.MarkDayTx(ctx, tx, fx.UserID, day); err != nil {
			return err
		}
	}
	for _, item := range fx.History {
		if err := histRepo.InsertTx(ctx, tx, fx.UserID, item); err != nil {
			return err
		}
	}
	for _, krID := range fx.FocusKRIDs {
		if err := focusRepo.MarkTx(ctx, tx, fx.UserID, krID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func newViewCmd(configPath *string) *cobra.Command {
	var anchor string

	cmd := &cobra.Command{
		Use:   "view <userID>",
		Short: "Print a user's derived dashboard as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			p := provider.NewStoreProvider(db, loc, cfg.StreakWindow, cfg.FocusCap)
			snap, err := p.Snapshot(cmd.Context(), args[0], anchor)
			if err != nil {
				return err
			}
			view, err := engine.BuildView(snap)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&anchor, "anchor", "", "anchor date YYYY-MM-DD (defaults to today)")
	return cmd
}
