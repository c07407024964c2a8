package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"namaz-cli/internal/logging"
)

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell for the other commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "namaz> ", "shell prompt")
	return cmd
}

// lineReader is the part of *readline.Instance the shell loop uses.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "namaz-shell.history")
	open := func() (lineReader, error) {
		return readline.NewEx(&readline.Config{
			Prompt:          prompt,
			HistoryFile:     historyFile,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
	}
	fmt.Println("Interactive shell. 'help' for usage, 'exit' to quit.")
	return shellLoop(open, executeArgs)
}

// shellLoop reads commands until exit. The reader is closed while a command
// runs so that commands reading stdin themselves (the countdown's key
// handler) get every key press, and reopened afterwards.
func shellLoop(open func() (lineReader, error), exec func([]string) error) error {
	rl, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if rl != nil {
			rl.Close()
		}
	}()

	sessionVerbosity := verbosity
	sessionConfig := cfgPath

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Println("Already in the shell. Enter another command or 'exit'.")
			continue
		}

		rl.Close()
		rl = nil
		if err := exec(withSession(tokens, sessionConfig, sessionVerbosity)); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
		logging.SetVerbosity(sessionVerbosity)
		next, err := open()
		if err != nil {
			return err
		}
		rl = next
	}
}

// withSession carries the shell's --config and verbosity into a command line
// unless the line sets them itself.
func withSession(tokens []string, config string, verbose int) []string {
	args := append([]string{}, tokens...)
	if !hasFlag(tokens, "--config") {
		args = append(args, "--config", config)
	}
	if verbose > 0 && !hasFlag(tokens, "-v", "--verbose") {
		args = append(args, "-"+strings.Repeat("v", verbose))
	}
	return args
}

func hasFlag(tokens []string, names ...string) bool {
	for _, t := range tokens {
		for _, n := range names {
			if t == n || strings.HasPrefix(t, n+"=") || (n == "-v" && strings.HasPrefix(t, "-v")) {
				return true
			}
		}
	}
	return false
}

func executeArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level name (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "print the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp() {
	fmt.Println(`Examples:
  run                              # live countdown ('q' to come back)
  run --lang en --font slant       # one-off overrides
  times                            # print today's timings once
  serve --addr 0.0.0.0:8080        # HTTP API
  config get                       # show settings
  config set --city Ankara         # change settings
  config reset                     # forget settings
  log -vv                          # more verbose logging
  log --show                       # current log level
  exit / quit                      # leave the shell`)
}
