package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperchat/internal/broker"
	"github.com/pdiddy/paperchat/pkg/types"
)

// historyLimit caps the conversation turns carried into each live call.
// Older turns are dropped from the front; the paper content seed is
// re-added by the chat agent on every call regardless.
const historyLimit = 20

var chatCmd = &cobra.Command{
	Use:   "chat [pdf]",
	Short: "Have a conversation about a paper",
	Long: `Chat starts an interactive session about a paper. Each turn carries the
conversation history. In demo mode answers come from the cached common
questions; in live mode the chat agent answers from the extracted text.

Commands inside the session:
  /mode demo|live   switch serving mode
  /quit             end the session`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("mode", "demo", "initial serving mode: demo or live")
	chatCmd.Flags().String("section", "", "paper section to focus on")
	chatCmd.Flags().String("paper-id", "", "paper ID for cache lookup (default: PDF filename)")
	chatCmd.Flags().String("cache-dir", "", "directory of cached responses")
	chatCmd.Flags().String("model", "", "AI model name")
	chatCmd.Flags().String("api-key", "", "Google API key (overrides config and secrets)")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]

	mode, _ := cmd.Flags().GetString("mode")
	section, _ := cmd.Flags().GetString("section")
	paperID, _ := cmd.Flags().GetString("paper-id")
	if paperID == "" {
		paperID = paperIDFromPath(pdfPath)
	}

	b, err := newBroker(cmd, types.Mode(mode))
	if err != nil {
		return err
	}

	parser, err := newParser(pdfPath)
	if err != nil {
		return err
	}

	fmt.Printf("Chatting about %s in %s mode. /mode switches mode, /quit ends the session.\n", paperID, b.Mode())

	var history []types.Message
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if done := handleChatCommand(b, line); done {
				break
			}
			continue
		}

		// Demo mode never reads the PDF, so extraction stays lazy until
		// the first live turn.
		var content string
		if b.Mode() == types.ModeLive {
			content, err = paperContent(parser, section)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
		}

		result, err := b.Chat(cmd.Context(), paperID, line, content, history, section)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println(result.Response)

		history = append(history,
			types.Message{Role: types.RoleUser, Content: line},
			types.Message{Role: types.RoleAssistant, Content: result.Response},
		)
		if len(history) > historyLimit {
			history = history[len(history)-historyLimit:]
		}
	}

	return scanner.Err()
}

// handleChatCommand processes a /command line. It returns true when the
// session should end.
func handleChatCommand(b *broker.Broker, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/mode":
		if len(fields) != 2 {
			fmt.Printf("current mode: %s (use /mode demo or /mode live)\n", b.Mode())
			return false
		}
		if err := b.SetMode(types.Mode(fields[1])); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return false
		}
		fmt.Printf("switched to %s mode\n", b.Mode())
	default:
		fmt.Printf("unknown command %s (try /mode or /quit)\n", fields[0])
	}
	return false
}
