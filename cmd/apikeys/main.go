package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sharebin-api/internal/repository"
	"github.com/noah-isme/sharebin-api/internal/service"
	"github.com/noah-isme/sharebin-api/pkg/config"
	"github.com/noah-isme/sharebin-api/pkg/database"
	"github.com/noah-isme/sharebin-api/pkg/logger"
)

var userID string

var rootCmd = &cobra.Command{
	Use:           "apikeys",
	Short:         "Manage sharebin API keys",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "Owning user id")
	_ = rootCmd.MarkPersistentFlagRequired("user")

	var name string
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Create a key and print its secret once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.APIKeyService) error {
				issued, err := svc.Issue(ctx, userID, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "id:     %s\nname:   %s\nkey:    %s\n\nStore the key now; it cannot be shown again.\n", issued.ID, issued.Name, issued.Key)
				return nil
			})
		},
	}
	issueCmd.Flags().StringVarP(&name, "name", "n", "default", "Key label")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the user's keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.APIKeyService) error {
				keys, err := svc.List(ctx, userID)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tPREFIX\tACTIVE\tCREATED\tLAST USED")
				for _, key := range keys {
					lastUsed := "-"
					if key.LastUsedAt != nil {
						lastUsed = key.LastUsedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n", key.ID, key.Name, key.KeyPrefix, key.IsActive, key.CreatedAt.Format(time.RFC3339), lastUsed)
				}
				return w.Flush()
			})
		},
	}

	revokeCmd := &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Deactivate a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.APIKeyService) error {
				if err := svc.Revoke(ctx, userID, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
				return nil
			})
		},
	}

	rootCmd.AddCommand(issueCmd, listCmd, revokeCmd)
}

func withService(ctx context.Context, fn func(context.Context, *service.APIKeyService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(ctx, cfg.Database, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	svc := service.NewAPIKeyService(repository.NewAPIKeyRepository(db), repository.NewAuditRepository(db), logr.With(zap.String("component", "apikeys")), service.APIKeyServiceConfig{
		Prefix:           cfg.APIKeys.Prefix,
		AcceptedPrefixes: cfg.APIKeys.AcceptedPrefixes(),
	})
	return fn(ctx, svc)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
