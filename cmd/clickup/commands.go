package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/clickup-client/pkg/clickup"
)

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), commandTimeout)
}

func newUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user",
		Short: "Show the user the token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format()
			if err != nil {
				return err
			}
			api, err := a.API()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			user, err := api.User(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), f, user,
				[]string{"ID", "Username", "Email"},
				[][]any{{user.ID, user.Username, user.Email}})
		},
	}
}

func newWorkspacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "workspaces",
		Aliases: []string{"teams"},
		Short:   "List accessible workspaces",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format()
			if err != nil {
				return err
			}
			api, err := a.API()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			workspaces, err := api.Workspaces(ctx)
			if err != nil {
				return err
			}
			rows := make([][]any, len(workspaces))
			for i, w := range workspaces {
				rows[i] = []any{w.ID, w.Name, len(w.Members)}
			}
			return render(cmd.OutOrStdout(), f, workspaces, []string{"ID", "Name", "Members"}, rows)
		},
	}
}

func newSpacesCmd(a *app) *cobra.Command {
	var archived bool
	cmd := &cobra.Command{
		Use:   "spaces <workspace-id>",
		Short: "List the spaces of a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format()
			if err != nil {
				return err
			}
			api, err := a.API()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			spaces, err := api.Workspace(args[0]).Spaces(ctx, archived)
			if err != nil {
				return err
			}
			rows := make([][]any, len(spaces))
			for i, s := range spaces {
				rows[i] = []any{s.ID, s.Name, s.Private, s.Archived}
			}
			return render(cmd.OutOrStdout(), f, spaces, []string{"ID", "Name", "Private", "Archived"}, rows)
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "list archived spaces")
	return cmd
}

func newTasksCmd(a *app) *cobra.Command {
	var (
		q     clickup.TaskQuery
		limit int
	)
	cmd := &cobra.Command{
		Use:   "tasks <list-id>",
		Short: "List the tasks of a list, following pagination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format()
			if err != nil {
				return err
			}
			api, err := a.API()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			var tasks []clickup.Task
			for task, err := range api.List(args[0]).Tasks(q).All(ctx) {
				if err != nil {
					return err
				}
				tasks = append(tasks, task)
				if limit > 0 && len(tasks) >= limit {
					break
				}
			}

			rows := make([][]any, len(tasks))
			for i, t := range tasks {
				rows[i] = []any{t.ID, t.Name, t.Status.Status, priorityLabel(t.Priority), dateLabel(t.DueDate)}
			}
			return render(cmd.OutOrStdout(), f, tasks, []string{"ID", "Name", "Status", "Priority", "Due"}, rows)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&q.Archived, "archived", false, "include archived tasks")
	flags.BoolVar(&q.IncludeClosed, "include-closed", false, "include closed tasks")
	flags.BoolVar(&q.Subtasks, "subtasks", false, "include subtasks")
	flags.StringVar(&q.OrderBy, "order-by", "", "order by id, created, updated or due_date")
	flags.BoolVar(&q.Reverse, "reverse", false, "reverse the order")
	flags.StringSliceVar(&q.Statuses, "status", nil, "filter by status (repeatable)")
	flags.StringSliceVar(&q.Assignees, "assignee", nil, "filter by assignee user ID (repeatable)")
	flags.StringSliceVar(&q.Tags, "tag", nil, "filter by tag (repeatable)")
	flags.IntVar(&q.Page, "page", 0, "first page to fetch")
	flags.IntVar(&limit, "limit", 0, "stop after this many tasks (0 = all)")
	return cmd
}

func newDocsCmd(a *app) *cobra.Command {
	var q clickup.DocQuery
	cmd := &cobra.Command{
		Use:   "docs <workspace-id>",
		Short: "List the docs of a workspace, following the cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.format()
			if err != nil {
				return err
			}
			api, err := a.API()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			docs, err := api.Workspace(args[0]).Docs(q).Collect(ctx)
			if err != nil {
				return err
			}
			rows := make([][]any, len(docs))
			for i, d := range docs {
				rows[i] = []any{d.ID, d.Name, d.Visibility, dateLabel(d.DateCreated)}
			}
			return render(cmd.OutOrStdout(), f, docs, []string{"ID", "Name", "Visibility", "Created"}, rows)
		},
	}
	cmd.Flags().BoolVar(&q.Archived, "archived", false, "include archived docs")
	cmd.Flags().IntVar(&q.Limit, "page-size", 0, "docs per page, 10 to 100")
	return cmd
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the GET response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete every cached response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.API()
			if err != nil {
				return err
			}
			manager := api.Client().GetCache()
			if manager == nil {
				return fmt.Errorf("cache is not configured; set --redis-addr or CLICKUP_REDIS_ADDR")
			}
			ctx, cancel := withTimeout(cmd)
			defer cancel()

			n, err := manager.Purge(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "purged "+strconv.Itoa(n)+" cached responses")
			return nil
		},
	})
	return cmd
}
