package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/mslanden/marketpress/pkg/services/config"
	"github.com/spf13/cobra"
)

func NewRegionsCmd(regions config.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List configured regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			profiles, err := regions.GetRegions(ctx)
			if err != nil {
				return err
			}

			for _, p := range profiles {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.Key, p.DisplayName)
			}
			return nil
		},
	}
}
