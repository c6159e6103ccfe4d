// pkg/cli/weather.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

func newWeatherCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Manage weather enrichment",
	}
	cmd.AddCommand(newWeatherRefreshCommand(cfg))
	return cmd
}

func newWeatherRefreshCommand(cfg *config.Config) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "refresh <post-id>",
		Short: "Fetch weather for a post now, bypassing the background queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			a, err := newApp(cfg, nil, "")
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.enricher.RefreshWeather(cmd.Context(), postID, force); err != nil {
				return err
			}

			summary, _, err := a.store.GetMeta(postID, models.MetaWeatherSummary)
			if err != nil {
				return err
			}
			temp, _, err := a.store.GetMeta(postID, models.MetaTemperature)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, %s°C\n", summary, temp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Ignore the failure cooldown window")
	return cmd
}
