package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sales-assistant/internal/domain/dto"
)

var (
	chatConversationID string
	chatClientID       string
	chatLanguage       string
)

func GetChatCommand() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the terminal",
		Long: `Runs the assistant in-process and reads one buyer message per line from
stdin. An empty line or EOF ends the session.

Example:
  sales-assistant chat --client client-001`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}
	chatCmd.Flags().StringVar(&chatConversationID, "conversation", "", "Resume an existing conversation")
	chatCmd.Flags().StringVar(&chatClientID, "client", "", "Client id recorded on new conversations")
	chatCmd.Flags().StringVar(&chatLanguage, "language", "", "Force the buyer language instead of detecting it")
	return chatCmd
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	app, err := buildApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close(ctx)
	app.warm(ctx)

	out := cmd.OutOrStdout()
	conversationID := chatConversationID
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		resp, err := app.chat.HandleTurn(ctx, dto.ChatRequest{
			Message:        line,
			ConversationID: conversationID,
			ClientID:       chatClientID,
			Language:       chatLanguage,
		})
		if err != nil {
			return err
		}
		conversationID = resp.ConversationID
		fmt.Fprintf(out, "[%s] %s\n", resp.State, resp.Message)
	}
	if conversationID != "" {
		fmt.Fprintf(out, "Conversation: %s\n", conversationID)
	}
	return scanner.Err()
}
