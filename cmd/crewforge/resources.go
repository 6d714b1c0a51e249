// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crewforge/internal/tools"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources <topic words...>",
	Short: "Look up educational resources without calling a model",
	Long: `Resources runs the Resource Search Tool used by the curriculum crew's
resource curator and prints its JSON result. The catalog is a small built-in
list with entries for digital logic and machine learning and generic
suggestions for anything else.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		audience, _ := cmd.Flags().GetString("audience")
		in, err := json.Marshal(tools.ResourceSearchArgs{
			Topic:          strings.Join(args, " "),
			TargetAudience: audience,
		})
		if err != nil {
			return err
		}

		out, err := tools.ResourceSearch{}.Call(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	resourcesCmd.Flags().String("audience", "general", "target audience passed to the tool")

	rootCmd.AddCommand(resourcesCmd)
}
