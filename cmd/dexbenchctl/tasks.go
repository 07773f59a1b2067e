package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the builtin benchmark tasks",
		RunE:  runTasks,
	}
}

func runTasks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tARMS\tOBJECTS\tDESCRIPTION")
	for _, item := range client.Tasks() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			item.Name, strings.Join(item.Sides, ","), strings.Join(item.Objects, ","), item.Description)
	}
	return w.Flush()
}
