package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arokua/job-hunter/internal/model"
)

var runCmd = &cobra.Command{
	Use:   "run <submission.json>",
	Short: "Run one scrape submission synchronously from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}

		var sub model.Submission
		if err := json.Unmarshal(data, &sub); err != nil {
			return eris.Wrap(err, "parse submission")
		}
		if sub.SubmissionID == "" {
			sub.SubmissionID = uuid.New().String()
			zap.L().Info("assigned submission id", zap.String("submission_id", sub.SubmissionID))
		}
		if err := sub.Validate(); err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Store != nil {
			if _, err := env.Store.CreateSubmission(ctx, sub.SubmissionID, sub.Email); err != nil {
				zap.L().Warn("failed to record submission", zap.Error(err))
			}
		}

		outcome := env.Pipeline.Run(ctx, sub)

		out, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal outcome")
		}
		fmt.Println(string(out))

		if outcome.Status == model.StatusFailed {
			return eris.Errorf("submission failed: %s", outcome.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
