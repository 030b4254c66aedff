package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/arokua/job-hunter/internal/model"
	"github.com/arokua/job-hunter/internal/store"
)

var (
	submissionsStatus string
	submissionsLimit  int
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect recorded submission outcomes",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded submissions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.ListSubmissions(ctx, store.Filter{
			Status: model.SubmissionStatus(submissionsStatus),
			Limit:  submissionsLimit,
		})
		if err != nil {
			return err
		}
		return printJSON(recs)
	},
}

var submissionsGetCmd = &cobra.Command{
	Use:   "get <submission-id>",
	Short: "Show one submission record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.GetSubmission(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

func openStore(cmd *cobra.Command) (store.Store, error) {
	st, err := initStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("submission store is not configured (set store.driver)")
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	submissionsListCmd.Flags().StringVar(&submissionsStatus, "status", "", "filter by status (queued|completed|failed)")
	submissionsListCmd.Flags().IntVar(&submissionsLimit, "limit", 50, "max records to list")
	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsGetCmd)
	rootCmd.AddCommand(submissionsCmd)
}
