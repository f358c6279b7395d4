package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui"
	"github.com/custodia-labs/finqa/internal/core/services"
	"github.com/custodia-labs/finqa/internal/logger"
	"github.com/custodia-labs/finqa/internal/watch"
)

// maxLineBytes bounds a single question typed into the line REPL.
const maxLineBytes = 64 * 1024

var chatWatch bool

var chatCmd = &cobra.Command{
	Use:   "chat [file]",
	Short: "Start an interactive question and answer session",
	Long: `Start an interactive session about a financial document.

On a terminal this opens the full-screen chat UI. When input is piped,
questions are read one per line and answers are printed.

Line mode commands:
  /load PATH   load another document
  /questions   list suggested questions
  /status      check the Ollama connection
  /clear       clear the conversation
  /help        show this list
  /quit        exit

With --watch the document is reloaded when it changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVarP(&chatWatch, "watch", "w", false, "reload the document when it changes")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
		if _, err := documentService.LoadFile(cmd.Context(), path); err != nil {
			return fmt.Errorf("failed to load document: %w", err)
		}
	}

	if isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout()) {
		return runChatTUI(cmd, path)
	}
	return newRepl(cmd).run(cmd.Context(), path)
}

func runChatTUI(cmd *cobra.Command, path string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := tui.NewPorts(documentService, chatService)
	ports.Settings = settingsService
	ports.Prompts = promptStore

	if chatWatch {
		w := watch.New()
		defer w.Close()
		if promptStore != nil {
			if err := w.AddDir(promptStore.Dir()); err != nil {
				logger.Warn("chat: not watching prompts: %v", err)
			}
		}
		ports.Watcher = w
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if path != "" {
		app.WithDocumentPath(path)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// repl is the line-oriented chat used when stdin is not a terminal.
type repl struct {
	in  io.Reader
	out io.Writer
}

func newRepl(cmd *cobra.Command) *repl {
	return &repl{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
}

func (r *repl) run(ctx context.Context, path string) error {
	if path != "" {
		r.printf("%s Ask a question about %s.\n", services.ProcessedMessage, filepath.Base(path))
	} else {
		r.printf("Load a financial document with /load PATH.\n")
	}

	if chatWatch {
		r.watch(ctx, path)
	}

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := r.command(ctx, line); quit {
				return nil
			}
			continue
		}
		r.ask(ctx, line)
	}
	return scanner.Err()
}

// command runs a slash command and reports whether the session should end.
func (r *repl) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true
	case "/help":
		r.printf("/load PATH, /questions, /status, /clear, /help, /quit\n")
	case "/load":
		if arg == "" {
			r.printf("Usage: /load PATH\n")
			return false
		}
		r.load(ctx, arg)
	case "/questions":
		if _, err := documentService.Current(); err != nil {
			r.printf("%s\n", services.UserMessage(err))
			return false
		}
		for i, q := range documentService.SampleQuestions() {
			r.printf("%d. %s\n", i+1, q)
		}
	case "/status":
		status := chatService.Status(ctx)
		switch {
		case !status.Connected:
			r.printf("%s\n", services.ConnectivityMessage)
		case !status.ModelAvailable:
			r.printf("%s\n", services.ModelMissingMessage(chatService.ModelName()))
		default:
			r.printf("Ollama connected, model %s available.\n", chatService.ModelName())
		}
	case "/clear":
		chatService.Clear()
		r.printf("Conversation cleared.\n")
	default:
		r.printf("Unknown command %s. Type /help for commands.\n", name)
	}
	return false
}

func (r *repl) load(ctx context.Context, path string) {
	if _, err := documentService.LoadFile(ctx, path); err != nil {
		r.printf("%s\n", services.UserMessage(err))
		return
	}
	r.printf("%s\n", services.ProcessedMessage)
}

func (r *repl) ask(ctx context.Context, question string) {
	answer, err := chatService.Ask(ctx, question)
	if err != nil {
		r.printf("%s\n", services.UserMessage(err))
		return
	}
	r.printf("%s\n\n", answer)
}

// watch reloads path whenever it changes until ctx is done.
func (r *repl) watch(ctx context.Context, path string) {
	if path == "" {
		return
	}

	w := watch.New()
	if err := w.AddFile(path); err != nil {
		logger.Warn("chat: not watching %s: %v", path, err)
		return
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		logger.Warn("chat: file watching disabled: %v", err)
		_ = w.Close()
		return
	}

	go func() {
		defer w.Close()
		for c := range changes {
			if c.Type == watch.ChangeRemoved {
				logger.Info("chat: %s was removed", c.Path)
				continue
			}
			if _, err := documentService.LoadFile(ctx, c.Path); err != nil {
				logger.Warn("chat: reloading %s: %v", c.Path, err)
				continue
			}
			logger.Info("chat: reloaded %s", c.Path)
		}
	}()
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
