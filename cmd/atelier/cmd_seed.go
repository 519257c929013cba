package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ibrahimdesign/atelier/config"
	"github.com/ibrahimdesign/atelier/database/seeders"
	"github.com/ibrahimdesign/atelier/pkg/database"
)

// atelier seed — load the demo catalog.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all registered database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx := context.Background()
		db, err := database.Connect(ctx, config.MongoURI(), config.MongoDB())
		if err != nil {
			return err
		}
		defer database.Disconnect(ctx, db)

		if err := database.EnsureIndexes(ctx, db); err != nil {
			return err
		}

		fmt.Println("Seeding database…")
		return seeders.RunAll(ctx, db)
	},
}
