package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ibrahimdesign/atelier/app/jobs"
	"github.com/ibrahimdesign/atelier/app/repositories"
	"github.com/ibrahimdesign/atelier/config"
	"github.com/ibrahimdesign/atelier/pkg/database"
	"github.com/ibrahimdesign/atelier/pkg/queue"
)

var workersFlag int

func init() {
	workCmd.Flags().IntVar(&workersFlag, "workers", 4, "number of concurrent workers")
}

// atelier queue:work — run a standalone worker process against the Redis
// queue, sharing jobs with the workers embedded in the server.
var workCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start standalone queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := database.Connect(ctx, config.MongoURI(), config.MongoDB())
		if err != nil {
			return err
		}
		defer database.Disconnect(context.Background(), db)

		addr := config.RedisAddr()
		if addr == "" {
			return fmt.Errorf("queue:work requires REDIS_ADDR; the in-memory queue is per-process")
		}
		queue.SetDriver(queue.NewRedisDriver(redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.RedisPassword(),
		})))
		queue.UseDB(db.Collection("failed_jobs"))

		jobs.Register(jobs.Deps{
			Users:  repositories.NewUserRepository(db),
			Orders: repositories.NewOrderRepository(db),
		})

		workers := workersFlag
		if workers < 1 {
			workers = 4
		}

		fmt.Printf("Queue workers started (%d). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue workers stopped.")
		return nil
	},
}
