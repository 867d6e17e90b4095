package cmd

import (
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dev-mohitbeniwal/keystone/auth"
	"github.com/dev-mohitbeniwal/keystone/model"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the role catalog and what each role satisfies",
	RunE: func(cmd *cobra.Command, args []string) error {
		grants := auth.DefaultGrants()
		table := pterm.TableData{{"VALUE", "LABEL", "SATISFIES"}}
		for _, r := range model.Roles() {
			satisfied := append([]string(nil), grants[r.Value]...)
			sort.Strings(satisfied)
			table = append(table, []string{r.Value, r.Label, strings.Join(satisfied, ", ")})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(table).WithWriter(cmd.OutOrStdout()).Render()
	},
}
