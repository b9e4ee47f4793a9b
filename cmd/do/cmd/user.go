package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toucann/taskengine/internal/app"
	"github.com/toucann/taskengine/internal/events"
	"github.com/toucann/taskengine/internal/service"
)

// TokenCmd issues a development token for calling the API as a user.
func TokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Print a signed JWT for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup()
			defer flush()

			auth := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)
			token, err := auth.GenerateJWT(args[0])
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}
}

// TodayCmd prints the selection a user would get from GET /api/today.
func TodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today <user-id>",
		Short: "Show today's objective for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup()
			defer flush()

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			a := app.NewWithDB(cfg, database, events.NewLogPublisher())
			res, err := a.TaskService.Today(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if res.Empty() {
				fmt.Printf("all caught up (%d available)\n", res.AvailableCount)
				return nil
			}

			out := map[string]any{
				"goal_id":         res.Goal.ID,
				"goal":            res.Goal.Title,
				"objective_id":    res.Objective.ID,
				"objective":       res.Objective.Title,
				"points":          res.Objective.Points,
				"percentage":      res.Progress.Percentage,
				"available_count": res.AvailableCount,
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}
}
