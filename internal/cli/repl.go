package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/hollis/periscope/internal/agent"
	"github.com/hollis/periscope/internal/config"
	"github.com/hollis/periscope/internal/history"
	"github.com/hollis/periscope/internal/llm"
	"github.com/hollis/periscope/internal/websearch"
)

const (
	Version = "0.1.0"

	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// Run starts the CLI interactive interface
func Run(cfg *config.Config) error {
	// Display welcome message
	printWelcome(cfg)

	// Initialize components
	llmClient := llm.New(
		cfg.Model.APIKey,
		cfg.Model.BaseURL,
		cfg.Model.Model,
		cfg.Model.Temperature,
		cfg.Model.MaxTokens,
	)

	store, err := history.NewSQLiteStore(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}
	defer store.Close()

	// Build the search client when web search is configured on
	var search agent.SearchClient
	if cfg.WebSearch.Enabled {
		search = websearch.NewClient(SearchConfig(cfg))
	}

	// Create Agent
	ag, err := agent.New(
		cfg, llmClient, store, search,
		agent.WithStreamHandler(streamOutput),
		agent.WithSearchNoticeHandler(searchNotice),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize Agent: %w", err)
	}

	// Start REPL
	return runREPL(ag, cfg)
}

// SearchConfig maps the web_search config section onto a search client
// config. The timeout is stored as plain seconds in the config file and
// becomes a duration here.
func SearchConfig(cfg *config.Config) websearch.Config {
	return websearch.Config{
		Provider:     cfg.WebSearch.Provider,
		BaseURL:      cfg.WebSearch.BaseURL,
		ResultsCount: cfg.WebSearch.ResultsCount,
		UserAgent:    cfg.WebSearch.UserAgent,
		Timeout:      time.Duration(cfg.WebSearch.TimeoutSeconds) * time.Second,
	}
}

// printWelcome prints welcome message
func printWelcome(cfg *config.Config) {
	fmt.Printf("\n%s🔭 Periscope v%s%s - Chat With a View of the Web\n", colorCyan, Version, colorReset)
	fmt.Printf("%sType /help for help, /exit to quit%s\n", colorGray, colorReset)
	fmt.Printf("%sFor multi-line input: end a line with \\, then press Enter twice to submit%s\n", colorGray, colorReset)
	if cfg.WebSearch.Enabled {
		fmt.Printf("%sWeb search: on (%s)%s\n\n", colorGray, cfg.WebSearch.Provider, colorReset)
	} else {
		fmt.Printf("%sWeb search: off%s\n\n", colorGray, colorReset)
	}
}

// getHistoryFilePath returns the readline history file path
func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	historyDir := filepath.Join(homeDir, ".periscope")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return ""
	}
	return filepath.Join(historyDir, "history")
}

// runREPL runs the interactive REPL with readline support
func runREPL(ag *agent.Agent, cfg *config.Config) error {
	// Configure readline
	rlConfig := &readline.Config{
		Prompt:          fmt.Sprintf("%sYou: %s", colorGreen, colorReset),
		HistoryFile:     getHistoryFilePath(),
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:      true,
		DisableAutoSaveHistory: false,
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Printf("\n\n%sGoodbye! 👋%s\n", colorCyan, colorReset)
		cancel()
		rl.Close()
		os.Exit(0)
	}()

	// Multi-line input mode
	var multiLineBuffer strings.Builder
	inMultiLine := false

	for {
		// Set prompt based on mode
		if inMultiLine {
			rl.SetPrompt(fmt.Sprintf("%s...  %s", colorGray, colorReset))
		} else {
			rl.SetPrompt(fmt.Sprintf("%sYou: %s", colorGreen, colorReset))
		}

		// Read user input with readline (supports backspace, arrow keys, history)
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if inMultiLine {
					// Cancel multi-line mode
					multiLineBuffer.Reset()
					inMultiLine = false
					fmt.Println()
					continue
				}
				// Ctrl+C pressed, ask for confirmation
				fmt.Printf("\n%sPress Ctrl+C again or type /exit to quit%s\n", colorYellow, colorReset)
				continue
			}
			if err == io.EOF {
				fmt.Printf("\n%sGoodbye! 👋%s\n", colorCyan, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		// Handle multi-line input
		if inMultiLine {
			if line == "" {
				// Empty line ends multi-line input
				inMultiLine = false
				input := strings.TrimSpace(multiLineBuffer.String())
				multiLineBuffer.Reset()

				if input == "" {
					continue
				}

				// Process the input
				if err := processInput(ctx, ag, input); err != nil {
					return err
				}
				continue
			}
			// Add line to buffer
			multiLineBuffer.WriteString(line)
			multiLineBuffer.WriteString("\n")
			continue
		}

		// Single line mode
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		// Check if starting multi-line mode (ends with backslash)
		if strings.HasSuffix(input, "\\") {
			// Start multi-line mode
			inMultiLine = true
			multiLineBuffer.WriteString(strings.TrimSuffix(input, "\\"))
			multiLineBuffer.WriteString("\n")
			fmt.Printf("%s(Multi-line mode: press Enter twice to submit, Ctrl+C to cancel)%s\n", colorGray, colorReset)
			continue
		}

		// Handle built-in commands
		if strings.HasPrefix(input, "/") {
			if handleCommand(input, ag) {
				continue
			}
			return nil // /exit command
		}

		// Process the input
		if err := processInput(ctx, ag, input); err != nil {
			return err
		}
	}
}

// processInput processes user input and calls agent
func processInput(ctx context.Context, ag *agent.Agent, input string) error {
	// Call Agent to process
	fmt.Printf("\n%sPeriscope: %s", colorBlue, colorReset)

	_, err := ag.Chat(ctx, input)
	if err != nil {
		fmt.Printf("\n%s❌ Error: %v%s\n", colorRed, err, colorReset)
	}

	fmt.Println()
	fmt.Println()
	return nil
}

// handleCommand handles built-in commands, returns true to continue loop, false to exit
func handleCommand(cmd string, ag *agent.Agent) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true
	}

	command := strings.ToLower(parts[0])

	switch command {
	case "/help":
		printHelp()
		return true

	case "/clear":
		if err := ag.ClearSession(); err != nil {
			fmt.Printf("%s❌ Failed to clear session: %v%s\n", colorRed, err, colorReset)
		} else {
			fmt.Printf("%s✅ Session cleared%s\n", colorGreen, colorReset)
		}
		return true

	case "/exit", "/quit", "/q":
		fmt.Printf("%sGoodbye! 👋%s\n", colorCyan, colorReset)
		return false

	case "/config":
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("%s❌ Failed to load config: %v%s\n", colorRed, err, colorReset)
		} else {
			fmt.Println(cfg.String())
		}
		return true

	case "/new":
		if err := ag.NewSession(); err != nil {
			fmt.Printf("%s❌ Failed to create new session: %v%s\n", colorRed, err, colorReset)
		} else {
			fmt.Printf("%s✅ New session created%s\n", colorGreen, colorReset)
		}
		return true

	case "/search":
		handleSearchCommand(parts, ag)
		return true

	case "/history":
		// Clear command history
		if len(parts) > 1 && parts[1] == "clear" {
			historyFile := getHistoryFilePath()
			if historyFile != "" {
				if err := os.WriteFile(historyFile, []byte{}, 0644); err != nil {
					fmt.Printf("%s❌ Failed to clear history: %v%s\n", colorRed, err, colorReset)
				} else {
					fmt.Printf("%s✅ Command history cleared%s\n", colorGreen, colorReset)
				}
			}
		} else {
			fmt.Printf("%sUse Up/Down arrow keys to browse command history%s\n", colorGray, colorReset)
			fmt.Printf("%sUse /history clear to clear history%s\n", colorGray, colorReset)
		}
		return true

	default:
		fmt.Printf("%s❓ Unknown command: %s%s\n", colorYellow, cmd, colorReset)
		fmt.Println("Type /help for available commands")
		return true
	}
}

// handleSearchCommand shows or toggles the web search state
func handleSearchCommand(parts []string, ag *agent.Agent) {
	if len(parts) < 2 {
		state := "off"
		if ag.SearchEnabled() {
			state = "on"
		}
		fmt.Printf("%sWeb search is %s. Use /search on|off to toggle.%s\n", colorGray, state, colorReset)
		return
	}

	switch strings.ToLower(parts[1]) {
	case "on":
		ag.SetSearchEnabled(true)
		if ag.SearchEnabled() {
			fmt.Printf("%s✅ Web search enabled%s\n", colorGreen, colorReset)
		} else {
			fmt.Printf("%s⚠️  Web search is not configured, set web_search.enabled in the config file%s\n", colorYellow, colorReset)
		}
	case "off":
		ag.SetSearchEnabled(false)
		fmt.Printf("%s✅ Web search disabled%s\n", colorGreen, colorReset)
	default:
		fmt.Printf("%sUsage: /search on|off%s\n", colorGray, colorReset)
	}
}

// printHelp prints help information
func printHelp() {
	fmt.Printf(`
%s📚 Periscope Help%s

%sBuilt-in Commands:%s
  /help           - Show this help message
  /clear          - Clear current session history
  /new            - Create new session
  /config         - Show current configuration
  /search         - Show web search state
  /search on|off  - Toggle web search for this session
  /history        - Show history usage tips
  /history clear  - Clear command history
  /exit           - Exit program

%sInput Tips:%s
  • Use Backspace to delete characters
  • Use Left/Right arrow keys to move cursor
  • Use Up/Down arrow keys to browse command history
  • Use Ctrl+A/Ctrl+E to jump to start/end of line
  • Use Ctrl+W to delete word before cursor
  • Use Ctrl+U to delete line before cursor
  • End line with \ for multi-line input
  • Press Enter twice to submit in multi-line mode
  • Press Ctrl+C to cancel current input

%sWeb Search:%s
  Messages that ask for current information ("latest news on ...",
  "what is ...", "look up ...") trigger a web search automatically.
  The results are handed to the model before it answers. A failed
  search never blocks the answer.

%sExamples:%s
  "What is the latest Go release?"
  "Search for lightweight Linux window managers"
  "Tell me about the James Webb telescope findings this year"

`, colorCyan, colorReset, colorYellow, colorReset, colorYellow, colorReset, colorYellow, colorReset, colorYellow, colorReset)
}

// streamOutput handles stream output
func streamOutput(content string) {
	fmt.Print(content)
}

// searchNotice reports a finished web search before the answer streams
func searchNotice(query string, results int) {
	if results == 0 {
		fmt.Printf("\n%s🔍 Web search found nothing, answering from model knowledge%s\n", colorGray, colorReset)
		return
	}
	fmt.Printf("\n%s🔍 Web search: %d result(s) added to context%s\n", colorYellow, results, colorReset)
}
