package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/catalog-service/pkg/catalog"
)

const shellHelp = `Enter a filter expression to run it, or a command:
  :order <terms>   set the order (empty clears it)
  :page <n>        set the page
  :size <n>        set the page size
  :json            toggle JSON output
  :show            print the current settings
  :help            show this help
  :quit            leave the shell
`

var shellCommands = []string{":order ", ":page ", ":size ", ":json", ":show", ":help", ":quit"}

// shellState is the query context a shell session carries between lines.
type shellState struct {
	querier interface {
		Query(ctx context.Context, req catalog.Request) (*catalog.PagedResult, error)
	}
	orderBy  string
	page     int
	pageSize int
	asJSON   bool
}

func newShellCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive filter shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			state := &shellState{querier: a.service, page: 1, pageSize: catalog.DefaultPageSize}
			return runShell(ctx, state, cmd.OutOrStdout())
		},
	}
}

func runShell(ctx context.Context, state *shellState, out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		var matches []string
		for _, cmd := range shellCommands {
			if strings.HasPrefix(cmd, input) {
				matches = append(matches, cmd)
			}
		}
		return matches
	})

	history := historyPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprint(out, shellHelp)
	for {
		input, err := line.Prompt("catalog> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if state.eval(ctx, input, out) {
			break
		}
	}

	if history != "" {
		if f, err := os.Create(history); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}
	return nil
}

// eval runs one shell line and reports whether the session should end.
func (s *shellState) eval(ctx context.Context, input string, out io.Writer) bool {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, ":") {
		res, err := s.querier.Query(ctx, catalog.Request{
			Filter:   input,
			OrderBy:  s.orderBy,
			Page:     s.page,
			PageSize: s.pageSize,
		})
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		if err := printResult(out, res, s.asJSON); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		return false
	}

	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprint(out, shellHelp)
	case ":order":
		s.orderBy = arg
	case ":page", ":size":
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(out, "error: %s needs an integer\n", name)
			return false
		}
		if name == ":page" {
			s.page = n
		} else {
			s.pageSize = n
		}
	case ":json":
		s.asJSON = !s.asJSON
	case ":show":
		fmt.Fprintf(out, "order=%q page=%d size=%d json=%t\n", s.orderBy, s.page, s.pageSize, s.asJSON)
	default:
		fmt.Fprintf(out, "unknown command %s (try :help)\n", name)
	}
	return false
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".catalog_history")
}
