package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// environmentsCmd represents the environments command
var environmentsCmd = &cobra.Command{
	Use:   "environments",
	Short: "List the configured environments",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		w := cmd.OutOrStdout()
		for _, env := range rt.envs.List() {
			cfg, err := rt.envs.Resolve(env.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%-16s %-8s %-32s %s\n", env.Name, cfg.Driver, cfg.Name, env.Description)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(environmentsCmd)
}
