package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"restaurantportal/internal/config"
	"restaurantportal/internal/database"
)

func NewIndexesCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "indexes",
		Short:        "Create the MongoDB indexes and exit",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			if config.AppEnv.MongoURI == "" {
				return fmt.Errorf("ENV %s is required", "MONGO_URI")
			}

			client, err := database.Connect(config.AppEnv.MongoURI)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			if err := database.EnsureIndexes(client.Database(config.AppEnv.DBName)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "indexes ready on", config.AppEnv.DBName)
			return nil
		},
	}
}
