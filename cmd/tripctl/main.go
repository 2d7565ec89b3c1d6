package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"backend-safedrive/internal/config"
	"backend-safedrive/internal/kvstore"
	"backend-safedrive/internal/tracking"
	"backend-safedrive/internal/trip"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type storeFlags struct {
	driver     string
	sqlitePath string
}

func newRootCmd() *cobra.Command {
	var flags storeFlags

	root := &cobra.Command{
		Use:           "tripctl",
		Short:         "Replay recorded trips and inspect safety scores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.driver, "store", "", "score store: memory|sqlite (default from STORE_DRIVER)")
	root.PersistentFlags().StringVar(&flags.sqlitePath, "sqlite-path", "", "sqlite file (default from SQLITE_PATH)")

	root.AddCommand(newReplayCmd(&flags))
	root.AddCommand(newScoresCmd(&flags))
	return root
}

func openStore(flags storeFlags) (kvstore.Store, error) {
	cfg := config.Load()
	if flags.driver != "" {
		cfg.StoreDriver = flags.driver
	}
	if flags.sqlitePath != "" {
		cfg.SQLitePath = flags.sqlitePath
	}
	switch cfg.StoreDriver {
	case kvstore.DriverMemory, kvstore.DriverSQLite:
	default:
		return nil, fmt.Errorf("tripctl supports memory and sqlite stores, got %q", cfg.StoreDriver)
	}
	return kvstore.Open(cfg, nil, nil)
}

func closeStore(store kvstore.Store) {
	if closer, ok := store.(io.Closer); ok {
		_ = closer.Close()
	}
}

func newReplayCmd(flags *storeFlags) *cobra.Command {
	var pace time.Duration

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Record a trip from a .jsonl or .yaml recording and score it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := tracking.LoadRecording(args[0])
			if err != nil {
				return err
			}
			store, err := openStore(*flags)
			if err != nil {
				return err
			}
			defer closeStore(store)

			src := tracking.NewReplaySource(samples)
			ctrl := trip.NewController(src, trip.NewScoreBook(store, nil), trip.Options{Now: src.Now})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if _, err := ctrl.Start(ctx); err != nil {
				return err
			}
			played, playErr := src.Play(ctx, pace)
			summary, _ := ctrl.Stop(context.Background())
			if playErr != nil {
				return fmt.Errorf("replay stopped after %d samples: %w", played, playErr)
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().DurationVar(&pace, "pace", 0, "delay between samples (0 replays as fast as possible)")
	return cmd
}

func newScoresCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Print the stored safety scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(*flags)
			if err != nil {
				return err
			}
			defer closeStore(store)

			scores := trip.NewScoreBook(store, nil).Scores(context.Background())
			out := cmd.OutOrStdout()
			if scores.Overall == nil {
				_, _ = fmt.Fprintln(out, "no trips recorded")
				return nil
			}
			_, _ = fmt.Fprintf(out, "safety score: %d (%s)\n", *scores.Overall, scores.Rating)
			if scores.LastDrive != nil {
				_, _ = fmt.Fprintf(out, "last drive: %d\n", *scores.LastDrive)
			}
			return nil
		},
	}
}

func printSummary(w io.Writer, s trip.Summary) {
	_, _ = fmt.Fprintf(w, "trip %s complete\n", s.TripID)
	_, _ = fmt.Fprintf(w, "score: %d\n", s.Score)
	_, _ = fmt.Fprintf(w, "overall: %d\n", s.OverallScore)
	_, _ = fmt.Fprintf(w, "distance: %.2f km\n", s.DistanceKm)
	_, _ = fmt.Fprintf(w, "duration: %s\n", trip.FormatDuration(s.DurationSeconds))
	_, _ = fmt.Fprintf(w, "harsh braking: %d\n", s.HarshEvents.Braking)
	_, _ = fmt.Fprintf(w, "harsh acceleration: %d\n", s.HarshEvents.Acceleration)
}
