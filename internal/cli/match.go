package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/rpsduel/internal/api/request"
	"github.com/mcoot/rpsduel/internal/api/response"
	"github.com/mcoot/rpsduel/internal/model"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Commands for your current match",
	}

	cmd.AddCommand(newMatchBotCmd())
	cmd.AddCommand(newMatchPickCmd())
	cmd.AddCommand(newMatchShowCmd())

	return cmd
}

func newMatchBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start a match against the bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Match

			if err := client.Post(cmd.Context(), "/api/v1/match/bot", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick <rock|paper|scissors|none>",
		Short: "Pick an action for the current round",
		Long: `Pick an action for the current round. "none" clears your pick,
in which case one is chosen at random when the countdown ends.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"rock", "paper", "scissors", "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.PickActionRequest{}
			if args[0] != "none" {
				action, err := model.ParseAction(args[0])
				if err != nil {
					return err
				}
				s := string(action)
				req.Action = &s
			}

			if err := client.Post(cmd.Context(), "/api/v1/match/action", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Picked " + args[0])
			return nil
		},
	}
}

func newMatchShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your current match",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Match

			if err := client.Get(cmd.Context(), "/api/v1/match", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
