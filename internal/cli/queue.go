package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/rpsduel/internal/api/response"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Matchmaking commands",
	}

	cmd.AddCommand(newQueueJoinCmd())
	cmd.AddCommand(newQueueLeaveCmd())
	cmd.AddCommand(newQueueStatusCmd())

	return cmd
}

func newQueueJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join",
		Short: "Wait for an opponent, starting a match if one is already waiting",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.MatchmakingStatus

			if err := client.Post(cmd.Context(), "/api/v1/matchmaking", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newQueueLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Stop waiting for an opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/matchmaking"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left the matchmaking queue")
			return nil
		},
	}
}

func newQueueStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether you are waiting or playing",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.MatchmakingStatus

			if err := client.Get(cmd.Context(), "/api/v1/matchmaking", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
