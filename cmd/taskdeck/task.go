package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/metalagman/taskdeck/internal/form"
	"github.com/metalagman/taskdeck/internal/state"
	"github.com/metalagman/taskdeck/internal/task"
	"github.com/metalagman/taskdeck/internal/view"
)

func taskCmd() *cobra.Command {
	var embedded bool
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks through the API",
	}
	cmd.PersistentFlags().BoolVar(&embedded, "embedded", false, "use an in-process store instead of the API")
	withBackend := func(run func(ctx context.Context, svc taskService, pageSize int, matchTags bool) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, closeFn, err := openBackend(cmd.Context(), cfg, embedded)
			if err != nil {
				return err
			}
			defer closeFn()
			return run(cmd.Context(), svc, cfg.UI.PageSize, cfg.UI.MatchTags)
		}
	}
	cmd.AddCommand(taskListCmd(withBackend))
	cmd.AddCommand(taskShowCmd(withBackend))
	cmd.AddCommand(taskAddCmd(withBackend))
	cmd.AddCommand(taskUpdateCmd(withBackend))
	cmd.AddCommand(taskRemoveCmd(withBackend))
	return cmd
}

type backendRunner func(run func(ctx context.Context, svc taskService, pageSize int, matchTags bool) error) func(*cobra.Command, []string) error

type listOptions struct {
	status   string
	priority string
	search   string
	page     int
	pageSize int
	json     bool
}

func taskListCmd(withBackend backendRunner) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return withBackend(func(ctx context.Context, svc taskService, pageSize int, matchTags bool) error {
			if opts.pageSize <= 0 {
				opts.pageSize = pageSize
			}
			return listTasks(ctx, svc, os.Stdout, opts, view.Options{MatchTags: matchTags})
		})(c, args)
	}
	cmd.Flags().StringVar(&opts.status, "status", task.All, "filter by status (todo|in-progress|done|all)")
	cmd.Flags().StringVar(&opts.priority, "priority", task.All, "filter by priority (low|medium|high|all)")
	cmd.Flags().StringVar(&opts.search, "search", "", "filter by text in title or description")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "tasks per page (default ui.page_size)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	return cmd
}

// listTasks loads the store and prints one page of the derived view.
func listTasks(ctx context.Context, svc state.Backend, w io.Writer, opts listOptions, vopts view.Options) error {
	store := state.New(svc, vopts)
	if err := store.Load(ctx, task.Query{}); err != nil {
		return err
	}
	store.SetFilters(view.FilterPatch{Status: &opts.status, Priority: &opts.priority, Search: &opts.search})

	res := store.View()
	pager := view.NewPaginator(opts.pageSize)
	pager.SetTotal(len(res.Tasks))
	pager.GoTo(opts.page)
	page := view.PageItems(pager, res.Tasks)

	if opts.json {
		return writeJSON(w, page)
	}
	if len(page) == 0 {
		if res.Filtered {
			_, err := fmt.Fprintln(w, "no tasks match the filters")
			return err
		}
		_, err := fmt.Fprintln(w, "no tasks")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE\tTAGS")
	for _, t := range page {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, t.DueDate, t.Title, task.FormatTags(t.Tags))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d (%d of %d tasks)\n", pager.Page(), pager.TotalPages(), len(res.Tasks), res.Total)
	return err
}

func taskShowCmd(withBackend backendRunner) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return withBackend(func(ctx context.Context, svc taskService, _ int, _ bool) error {
			t, err := svc.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(os.Stdout, t)
			}
			return printTask(os.Stdout, t)
		})(c, args)
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printTask(w io.Writer, t task.Task) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "id:\t%s\n", t.ID)
	_, _ = fmt.Fprintf(tw, "title:\t%s\n", t.Title)
	_, _ = fmt.Fprintf(tw, "status:\t%s\n", t.Status)
	_, _ = fmt.Fprintf(tw, "priority:\t%s\n", t.Priority)
	_, _ = fmt.Fprintf(tw, "due:\t%s\n", t.DueDate)
	_, _ = fmt.Fprintf(tw, "tags:\t%s\n", task.FormatTags(t.Tags))
	_, _ = fmt.Fprintf(tw, "assigned to:\t%s\n", t.AssignedTo)
	_, _ = fmt.Fprintf(tw, "created:\t%s\n", t.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if err := tw.Flush(); err != nil {
		return err
	}
	if t.Description != "" {
		_, err := fmt.Fprintf(w, "\n%s\n", t.Description)
		return err
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fieldFlags binds one string flag per form field.
type fieldFlags map[form.Field]*string

func addFieldFlags(cmd *cobra.Command, defaults map[form.Field]string) fieldFlags {
	usage := map[form.Field]string{
		form.Title:       "task title",
		form.Description: "task description",
		form.Priority:    "low|medium|high",
		form.Status:      "todo|in-progress|done",
		form.DueDate:     "due date (YYYY-MM-DD)",
		form.Tags:        "comma-separated tags",
		form.AssignedTo:  "assignee",
	}
	flags := fieldFlags{}
	for _, f := range form.Fields {
		flags[f] = cmd.Flags().String(flagName(f), defaults[f], usage[f])
	}
	return flags
}

func flagName(f form.Field) string {
	switch f {
	case form.DueDate:
		return "due"
	case form.AssignedTo:
		return "assignee"
	}
	return string(f)
}

// fieldErrors reports form errors in field order.
func fieldErrors(f *form.Form) error {
	var msgs []string
	for _, field := range form.Fields {
		if msg := f.Error(field); msg != "" {
			msgs = append(msgs, fmt.Sprintf("--%s: %s", flagName(field), msg))
		}
	}
	return errors.New(strings.Join(msgs, "\n"))
}

func taskAddCmd(withBackend backendRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
	}
	flags := addFieldFlags(cmd, map[form.Field]string{
		form.Priority: string(task.PriorityMedium),
		form.Status:   string(task.StatusTodo),
	})
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return withBackend(func(ctx context.Context, svc taskService, _ int, _ bool) error {
			values := map[form.Field]string{}
			for f, v := range flags {
				values[f] = *v
			}
			t, err := addTask(ctx, svc, values)
			if err != nil {
				return err
			}
			log.Info().Str("task_id", t.ID).Msg("task created")
			return printTask(os.Stdout, t)
		})(c, args)
	}
	return cmd
}

// addTask runs values through a create form and submits it.
func addTask(ctx context.Context, svc taskService, values map[form.Field]string) (task.Task, error) {
	f := form.New(nil)
	for field, v := range values {
		if err := f.SetField(field, v); err != nil {
			return task.Task{}, err
		}
	}
	var created task.Task
	submitted, err := f.Submit(func(d task.Draft) error {
		var err error
		created, err = svc.Create(ctx, d)
		return err
	})
	if !submitted {
		return task.Task{}, fieldErrors(f)
	}
	if err != nil {
		return task.Task{}, err
	}
	return created, nil
}

func taskUpdateCmd(withBackend backendRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a task",
		Args:  cobra.ExactArgs(1),
	}
	flags := addFieldFlags(cmd, nil)
	cmd.RunE = func(c *cobra.Command, args []string) error {
		changed := map[form.Field]string{}
		for f, v := range flags {
			if c.Flags().Changed(flagName(f)) {
				changed[f] = *v
			}
		}
		if len(changed) == 0 {
			return fmt.Errorf("nothing to update")
		}
		return withBackend(func(ctx context.Context, svc taskService, _ int, _ bool) error {
			t, err := svc.Update(ctx, args[0], patchFromFields(changed))
			if err != nil {
				return err
			}
			log.Info().Str("task_id", t.ID).Msg("task updated")
			return printTask(os.Stdout, t)
		})(c, args)
	}
	return cmd
}

// patchFromFields builds a patch holding only the given fields.
func patchFromFields(values map[form.Field]string) task.Patch {
	var p task.Patch
	for field, v := range values {
		switch field {
		case form.Title:
			p.Title = &v
		case form.Description:
			p.Description = &v
		case form.Priority:
			pr := task.Priority(v)
			p.Priority = &pr
		case form.Status:
			st := task.Status(v)
			p.Status = &st
		case form.DueDate:
			p.DueDate = &v
		case form.Tags:
			tags := task.ParseTags(v)
			p.Tags = &tags
		case form.AssignedTo:
			p.AssignedTo = &v
		}
	}
	return p
}

func taskRemoveCmd(withBackend backendRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
	}
	cmd.RunE = func(c *cobra.Command, args []string) error {
		return withBackend(func(ctx context.Context, svc taskService, _ int, _ bool) error {
			if err := svc.Delete(ctx, args[0]); err != nil {
				return err
			}
			log.Info().Str("task_id", args[0]).Msg("task deleted")
			return nil
		})(c, args)
	}
	return cmd
}
