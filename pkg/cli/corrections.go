// pkg/cli/corrections.go
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/corrections"
)

func newCorrectionsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corrections",
		Short: "Manage the camera, lens and location correction tables",
	}

	cmd.AddCommand(newCorrectionsListCommand(cfg))
	cmd.AddCommand(newCorrectionsAddCommand(cfg))
	cmd.AddCommand(newCorrectionsDeleteCommand(cfg))

	return cmd
}

func correctionTable(a *app, name string) (*corrections.Table, error) {
	switch name {
	case "cameras":
		return a.tables.Cameras, nil
	case "lenses":
		return a.tables.Lenses, nil
	case "locations":
		return a.tables.Locations, nil
	}
	return nil, fmt.Errorf("unknown correction table %q (want cameras, lenses or locations)", name)
}

func newCorrectionsListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list <cameras|lenses|locations>",
		Short: "List the entries of a correction table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, nil, "")
			if err != nil {
				return err
			}
			defer a.close()

			table, err := correctionTable(a, args[0])
			if err != nil {
				return err
			}
			entries, err := table.List()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", e.ID, e.RawName, e.Pretty)
			}
			return nil
		},
	}
}

func newCorrectionsAddCommand(cfg *config.Config) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "add <cameras|lenses|locations> <raw-name> <pretty>",
		Short: "Add or update a correction entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, nil, "")
			if err != nil {
				return err
			}
			defer a.close()

			table, err := correctionTable(a, args[0])
			if err != nil {
				return err
			}
			entry, err := table.Upsert(id, args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", entry.ID, entry.RawName, entry.Pretty)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Update the entry with this id instead of inserting")
	return cmd
}

func newCorrectionsDeleteCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <cameras|lenses|locations> <id>",
		Short: "Delete a correction entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, nil, "")
			if err != nil {
				return err
			}
			defer a.close()

			table, err := correctionTable(a, args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}
			removed, err := table.Delete(id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no entry with id %d", id)
			}
			return nil
		},
	}
}
