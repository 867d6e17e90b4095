package cmd

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dev-mohitbeniwal/keystone/cache"
	"github.com/dev-mohitbeniwal/keystone/db"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the shared cache",
}

var cacheGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value stored under key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd.Context(), func(ctx context.Context, client *cache.Client) error {
			value, found, err := client.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				pterm.Info.Printfln("%s: not found", args[0])
				return nil
			}
			out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(value, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%T\n%s\n", value, out)
			return nil
		})
	},
}

var cacheDelCmd = &cobra.Command{
	Use:   "del <key>",
	Short: "Delete the value stored under key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd.Context(), func(ctx context.Context, client *cache.Client) error {
			if err := client.Delete(ctx, args[0]); err != nil {
				return err
			}
			pterm.Success.Printfln("%s deleted", args[0])
			return nil
		})
	},
}

func withCache(ctx context.Context, fn func(context.Context, *cache.Client) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rdb, err := db.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer db.CloseRedis(rdb)

	client, err := newCacheClient(cfg.Cache, rdb, nil)
	if err != nil {
		return err
	}
	return fn(ctx, client)
}

func init() {
	cacheCmd.AddCommand(cacheGetCmd)
	cacheCmd.AddCommand(cacheDelCmd)
}
