// Package cli implements todoctl, a command-line front end for the todo API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/Tomlord1122/todo-tracker/internal/client"
)

const defaultAPIURL = "http://localhost:8080/api"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, c *client.Client, out, errOut io.Writer, args []string) int
}

var commands map[string]command

var commandOrder = []string{"ls", "show", "add", "edit", "done", "undone", "toggle", "rm", "health"}

func init() {
	commands = map[string]command{
		"ls":     {usage: "ls [--pending|--done]", help: "List todos, newest first", run: cmdList},
		"show":   {usage: "show <id>", help: "Show one todo", run: cmdShow},
		"add":    {usage: "add <title...> [-d description]", help: "Create a todo", run: cmdAdd},
		"edit":   {usage: "edit <id> [--title T] [--description D]", help: "Change title or description", run: cmdEdit},
		"done":   {usage: "done <id>", help: "Mark a todo completed", run: setCompleted(true)},
		"undone": {usage: "undone <id>", help: "Mark a todo pending", run: setCompleted(false)},
		"toggle": {usage: "toggle <id>", help: "Flip completion", run: cmdToggle},
		"rm":     {usage: "rm <id>", help: "Delete a todo", run: cmdRemove},
		"health": {usage: "health", help: "Show API health", run: cmdHealth},
	}
}

// Run parses global flags, dispatches the subcommand and returns an exit code.
func Run(ctx context.Context, out, errOut io.Writer, args []string) int {
	flagSet := flag.NewFlagSet("todoctl", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.SetInterspersed(false)

	apiURL := flagSet.String("api", envOr("TODO_API_URL", defaultAPIURL), "Base URL of the todo API")
	help := flagSet.BoolP("help", "h", false, "Show help")

	if err := flagSet.Parse(args); err != nil {
		fail(errOut, err.Error())
		return exitUsage
	}

	rest := flagSet.Args()
	if *help || len(rest) == 0 {
		printHelp(out)
		if *help {
			return exitOK
		}
		return exitUsage
	}

	name, cmdArgs := rest[0], rest[1:]
	if name == "help" {
		printHelp(out)
		return exitOK
	}
	cmd, found := commands[name]
	if !found {
		fail(errOut, "unknown command: "+name)
		printHelp(errOut)
		return exitUsage
	}

	c, err := client.New(*apiURL)
	if err != nil {
		fail(errOut, err.Error())
		return exitUsage
	}
	return cmd.run(ctx, c, out, errOut, cmdArgs)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "todoctl - manage todos through the todo API")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todoctl [--api URL] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-42s %s\n", cmd.usage, cmd.help)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "The API URL defaults to $TODO_API_URL or %s.\n", defaultAPIURL)
	fmt.Fprintln(w, "Ids may be abbreviated to any unique prefix.")
}

// reportError prints err and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		fail(errOut, apiErr.Message)
		return exitError
	}
	fail(errOut, err.Error())
	return exitError
}

// resolveID accepts a full id or a unique prefix of one.
func resolveID(ctx context.Context, c *client.Client, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("id is required")
	}

	todo, err := c.GetTodo(ctx, arg)
	if err == nil {
		return todo.ID, nil
	}
	if !client.IsNotFound(err) {
		return "", err
	}

	todos, err := c.ListTodos(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, t := range todos {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no todo matches %q", arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous (%d matches)", arg, len(matches))
	}
}

func singleID(errOut io.Writer, name string, args []string) (string, bool) {
	if len(args) != 1 {
		fail(errOut, "usage: todoctl "+commands[name].usage)
		return "", false
	}
	return args[0], true
}
