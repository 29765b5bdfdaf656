package cmd

import (
	"encoding/json"

	"github.com/isometry/wp-trigger-app/internal/wordpress"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// schema is the description of the trigger options and the WordPress resources, as printed by the schema command.
type schema struct {
	Events       []wordpress.Option   `json:"events"`
	PostStatuses []wordpress.Option   `json:"postStatuses"`
	Resources    []wordpress.Resource `json:"resources"`
}

func cmdSchema() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [resource]",
		Short: "Print the trigger events, post statuses and WordPress resource operations as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := schema{
				Events:       wordpress.TriggerEvents(),
				PostStatuses: wordpress.PostStatuses(),
				Resources:    wordpress.Resources,
			}
			if len(args) == 1 {
				out.Resources = nil
				for _, r := range wordpress.Resources {
					if r.Name == args[0] {
						out.Resources = []wordpress.Resource{r}
					}
				}
				if out.Resources == nil {
					return errors.Errorf("unknown resource %s", args[0])
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return errors.Wrap(enc.Encode(out), "failed to encode schema")
		},
	}
}
