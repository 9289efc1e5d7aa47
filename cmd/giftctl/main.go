package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/mineworks/giftissue/modules/gifting"
	"github.com/mineworks/giftissue/pkg/composables"
	"github.com/mineworks/giftissue/pkg/configuration"
	"github.com/mineworks/giftissue/pkg/eventbus"
)

func main() {
	root := &cobra.Command{
		Use:           "giftctl",
		Short:         "Operator tooling for gift issuing imports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTemplateCmd(),
		newSuggestCmd(),
		newImportCmd(),
		newRunsCmd(),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// withModule connects to the store and hands a wired gifting module plus a
// pool-carrying context to fn.
func withModule(ctx context.Context, fn func(context.Context, *gifting.Module) error) error {
	conf := configuration.Use()
	defer conf.Unload()

	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return err
	}
	defer pool.Close()

	module := gifting.NewModule(conf, eventbus.NewEventPublisher(conf.Logger()), conf.Logger())
	return fn(composables.WithPool(ctx, pool), module)
}
