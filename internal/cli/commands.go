package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/Tomlord1122/todo-tracker/internal/client"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func cmdList(ctx context.Context, c *client.Client, out, errOut io.Writer, args []string) int {
	fs := newFlagSet("ls")
	pending := fs.Bool("pending", false, "Only pending todos")
	done := fs.Bool("done", false, "Only completed todos")
	if err := fs.Parse(args); err != nil {
		fail(errOut, err.Error())
		return exitUsage
	}
	if *pending && *done {
		fail(errOut, "--pending and --done are mutually exclusive")
		return exitUsage
	}

	todos, err := c.ListTodos(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	completed := 0
	for _, t := range todos {
		if t.Completed {
			completed++
		}
	}

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), completed,
		pendingStyle.Render("•"), len(todos)-completed,
		accentStyle.Render("Total"), len(todos),
	)
	lines := []string{header, mutedStyle.Render(progressBar(completed, len(todos), 28)), ""}

	shown := 0
	for _, t := range todos {
		if (*pending && t.Completed) || (*done && !t.Completed) {
			continue
		}
		lines = append(lines, todoLine(t))
		shown++
	}
	if shown == 0 {
		lines = append(lines, mutedStyle.Render("nothing to show"))
	}

	panel(out, lines)
	return exitOK
}

func todoLine(t client.Todo) string {
	box, title := boxUnchecked, t.Title
	if t.Completed {
		box, title = boxChecked, doneStyle.Render(t.Title)
	}
	line := fmt.Sprintf("%s %s  %s", box, mutedStyle.Render(shortID(t.ID)), title)
	if t.Description != nil {
		line += "  " + mutedStyle.Render(*t.Description)
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func cmdShow(ctx context.Context, c *client.Client, out, errOut io.Writer, args []string) int {
	arg, valid := singleID(errOut, "show", args)
	if !valid {
		return exitUsage
	}
	id, err := resolveID(ctx, c, arg)
	if err != nil {
		return reportError(errOut, err)
	}
	todo, err := c.GetTodo(ctx, id)
	if err != nil {
		return reportError(errOut, err)
	}

	status := pendingStyle.Render("pending")
	if todo.Completed {
		status = successStyle.Render("completed")
	}
	lines := []string{
		titleStyle.Render(todo.Title),
		"",
		"id:       " + todo.ID,
		"status:   " + status,
		"created:  " + todo.CreatedAt,
		"updated:  " + todo.UpdatedAt,
	}
	if todo.Description != nil {
		lines = append(lines, "", *todo.Description)
	}
	panel(out, lines)
	return exitOK
}

func cmdAdd(ctx context.Context, c *client.Client, out, errOut io.Writer, args []string) int {
	fs := newFlagSet("add")
	description := fs.StringP("description", "d", "", "Optional description")
	if err := fs.Parse(args); err != nil {
		fail(errOut, err.Error())
		return exitUsage
	}
	title := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(title) == "" {
		fail(errOut, "usage: todoctl "+commands["add"].usage)
		return exitUsage
	}

	req := client.CreateTodoRequest{Title: title}
	if fs.Changed("description") {
		req.Description = description
	}
	todo, err := c.CreateTodo(ctx, req)
	if err != nil {
		return reportError(errOut, err)
	}
	ok(out, fmt.Sprintf("added %s  %s", shortID(todo.ID), todo.Title))
	return exitOK
}

func cmdEdit(ctx context.Context, c *client.Client, out, errOut io.Writer, args []string) int {
	fs := newFlagSet("edit")
	title := fs.StringP("title", "t", "", "New title")
	description := fs.StringP("description", "d", "", "New description (empty clears it)")
	if err := fs.Parse(args); err != nil {
		fail(errOut, err.Error())
		return exitUsage
	}
	arg, valid := singleID(errOut, "edit", fs.Args())
	if !valid {
		return exitUsage
	}

	var req client.UpdateTodoRequest
	if fs.Changed("title") {
		req.Title = title
	}
	if fs.Changed("description") {
		req.Description = description
	}
	if req.Title == nil && req.Description == nil {
		fail(errOut, "edit: nothing to change, pass --title or --description")
		return exitUsage
	}

	id, err := resolveID(ctx, c, arg)
	if err != nil {
		return reportError(errOut, err)
	}
	todo, err := c.UpdateTodo(ctx, id, req)
	if err != nil {
		return reportError(errOut, err)
	}
	ok(out, fmt.Sprintf("updated %s  %s", shortID(todo.ID), todo.Title))
	return exitOK
}

func setCompleted(completed bool) func(context.Context, *client.Client, io.Writer, io.Writer, []string) int {
	name := "undone"
	if completed {
		name = "done"
	}
	return func(ctx context.Context, c *client.Client, out, errOut io.Writer, args []string) int {
		arg, valid := singleID(errOut, name, args)
		if !valid {
			return exitUsage
		}
		id, err := resolveID(ctx, c, arg)
		if err != nil {
			return reportError(errOut, err)
		}
		todo, err := c.UpdateTodo(ctx, id, client.UpdateTodoRequest{Completed: &completed})
		if err != nil {
			return reportError(errOut, err)
		}
		ok(out, fmt.Sprintf("%s %s  %s", name, shortID(todo.ID), todo.Title))
		return exitOK
	}
}

func cmdToggle(ctx context.Context, c *client.Client, out, errOut io.Writer, args []string) int {
	arg, valid := singleID(errOut, "toggle", args)
	if !valid {
		return exitUsage
	}
	id, err := resolveID(ctx, c, arg)
	if err != nil {
		return reportError(errOut, err)
	}
	current, err := c.GetTodo(ctx, id)
	if err != nil {
		return reportError(errOut, err)
	}

	flipped := !current.Completed
	todo, err := c.UpdateTodo(ctx, id, client.UpdateTodoRequest{Completed: &flipped})
	if err != nil {
		return reportError(errOut, err)
	}
	state := "pending"
	if todo.Completed {
		state = "done"
	}
	ok(out, fmt.Sprintf("%s is now %s", shortID(todo.ID), state))
	return exitOK
}

func cmdRemove(ctx context.Context, c *client.Client, out, errOut io.Writer, args []string) int {
	arg, valid := singleID(errOut, "rm", args)
	if !valid {
		return exitUsage
	}
	id, err := resolveID(ctx, c, arg)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := c.DeleteTodo(ctx, id); err != nil {
		return reportError(errOut, err)
	}
	ok(out, "removed "+shortID(id))
	return exitOK
}

func cmdHealth(ctx context.Context, c *client.Client, out, errOut io.Writer, args []string) int {
	if len(args) != 0 {
		fail(errOut, "usage: todoctl health")
		return exitUsage
	}
	h, err := c.Health(ctx)
	if h == nil {
		return reportError(errOut, err)
	}

	lines := []string{
		"status:    " + h.Status,
		"timestamp: " + h.Timestamp,
		fmt.Sprintf("uptime:    %.0fs", h.Uptime),
	}
	if db := h.Database; db != nil {
		lines = append(lines, fmt.Sprintf("database:  %s (%s)", db["status"], db["driver"]))
	}
	panel(out, lines)
	if err != nil {
		return exitError
	}
	return exitOK
}
