package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/toucann/taskengine/internal/catalog"
	"github.com/toucann/taskengine/internal/db"
	"github.com/toucann/taskengine/internal/repository"
	"github.com/toucann/taskengine/internal/service"
	"github.com/toucann/taskengine/internal/storage"
)

// SeedCmd imports a catalog document from a local file or from catalog storage.
func SeedCmd() *cobra.Command {
	var s3Key string

	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Import goals and objectives from a YAML catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (s3Key != "") {
				return fmt.Errorf("pass either a file or --s3-key")
			}

			cfg := setup()
			defer flush()

			var body io.ReadCloser
			if s3Key != "" {
				store, err := storage.New(cfg)
				if err != nil {
					return err
				}
				body, err = store.Open(cmd.Context(), s3Key)
				if err != nil {
					return err
				}
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open catalog: %w", err)
				}
				body = f
			}
			defer body.Close()

			database, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			err = db.RunMigrations(database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			goals := service.NewGoalService(repository.NewGoalRepository(database))
			res, err := goals.Import(cmd.Context(), body)
			if err != nil {
				return err
			}

			fmt.Printf("imported %d goals, %d objectives\n", res.Goals, res.Objectives)
			return nil
		},
	}

	cmd.Flags().StringVar(&s3Key, "s3-key", "", "read the catalog from catalog storage instead of a file")
	return cmd
}

func CatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and publish catalog documents",
	}

	cmd.AddCommand(catalogValidateCmd())
	cmd.AddCommand(catalogPushCmd())
	return cmd
}

func catalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog document without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := catalog.Load(args[0])
			if err != nil {
				return err
			}

			objectives := 0
			for _, g := range doc.Goals {
				objectives += len(g.Objectives)
			}
			fmt.Printf("ok: %d goals, %d objectives\n", len(doc.Goals), objectives)
			return nil
		},
	}
}

func catalogPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <file> <key>",
		Short: "Validate a catalog document and upload it to catalog storage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := setup()
			defer flush()

			_, err := catalog.Load(args[0])
			if err != nil {
				return err
			}

			store, err := storage.New(cfg)
			if err != nil {
				return err
			}

			return push(cmd.Context(), store, args[0], args[1])
		},
	}
}

func push(ctx context.Context, store storage.Storage, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	err = store.Save(ctx, key, f)
	if err != nil {
		return err
	}

	fmt.Printf("pushed %s to %s\n", path, key)
	return nil
}
