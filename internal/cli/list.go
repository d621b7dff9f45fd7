package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/tgienger/smarttask/internal/config"
	"github.com/tgienger/smarttask/internal/models"
	"github.com/tgienger/smarttask/internal/tasks"
)

func listCmd(o *config.Overrides) *cobra.Command {
	var (
		status   string
		category string
		sortBy   string
		search   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks without starting the UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := tasks.Query{Search: search}

			if status != "" {
				st, err := models.ParseStatus(status)
				if err != nil {
					return err
				}
				q.Status = &st
			}
			if cmd.Flags().Changed("category") {
				q.Category = &category
			}
			order, err := tasks.ParseSortOrder(sortBy)
			if err != nil {
				return err
			}
			q.Sort = order

			s, err := openSession(*o)
			if err != nil {
				return err
			}
			defer s.Close()

			manager, err := s.openManager()
			if err != nil {
				return err
			}
			if diag := manager.Diagnostic(); diag != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", diag)
			}

			found := manager.Query(q)
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(found, time.Now()))
			fmt.Fprintf(cmd.OutOrStdout(), "Progress: %d%%\n", tasks.Progress(found))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only tasks with this status (NOT_STARTED, IN_PROGRESS, COMPLETED)")
	cmd.Flags().StringVar(&category, "category", "", "Only tasks in this category")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by deadline or priority")
	cmd.Flags().StringVar(&search, "search", "", "Only tasks whose title or description contains this text")

	return cmd
}

func renderTable(found []models.Task, now time.Time) string {
	rows := make([][]string, 0, len(found))
	for _, t := range found {
		deadline := t.Deadline.Local().Format(models.DisplayLayout)
		if t.Status != models.StatusCompleted && t.IsOverdueAt(now) {
			deadline += " !"
		}
		rows = append(rows, []string{
			t.Title,
			deadline,
			string(t.Priority),
			string(t.Status),
			t.Category,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TITLE", "DEADLINE", "PRIORITY", "STATUS", "CATEGORY").
		Rows(rows...).
		String()
}
