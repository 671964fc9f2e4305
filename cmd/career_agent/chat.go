package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-counselor/internal/chat"
	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/gateway"
	"github.com/jonathan/career-counselor/internal/identity"
	"github.com/jonathan/career-counselor/internal/prompts"
	"github.com/jonathan/career-counselor/internal/store/drivers"
	"github.com/jonathan/career-counselor/internal/types"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the AI career counselor",
	Long: `Starts an interactive counselor chat. With --token the transcript is saved
to the document store after every message. Enter "exit" to leave.`,
	RunE: runChat,
}

var (
	chatToken      string
	chatCareerPath string
)

func init() {
	chatCmd.Flags().StringVar(&chatToken, "token", "", "Access token; saves the transcript when set")
	chatCmd.Flags().StringVar(&chatCareerPath, "career-path", "", "Open the chat by asking about this recommended career path")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	source := config.Static(cfg)
	counselor := chat.NewCounselor(source, chat.WithLogger(log), chat.WithVoice(nil))

	opts := []chat.ConversationOption{chat.WithConversationLogger(log)}
	var user identity.User
	if chatToken != "" {
		user, err = resolveUser(ctx, cfg, chatToken)
		if err != nil {
			return err
		}
		opts = append(opts, chat.WithSaver(gateway.New(source, drivers.Dialer{}, gateway.WithLogger(log))))
	}

	conv := chat.NewConversation(user, opts...)
	defer conv.Wait()

	var opening string
	if chatCareerPath != "" {
		opening = prompts.Format(prompts.MustGet(prompts.Counselor, prompts.KeyRecommendationFollowup), map[string]string{"Title": chatCareerPath})
	}
	return converse(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), counselor, conv, opening)
}

// converse runs the chat loop until input ends or the user exits. A non-empty
// opening is sent as the first user message.
func converse(ctx context.Context, in io.Reader, out io.Writer, counselor *chat.Counselor, conv *chat.Conversation, opening string) error {
	turn := func(message string) {
		history := conv.History()
		conv.Append(ctx, types.SenderUser, message)
		reply := counselor.Reply(ctx, chat.Request{Message: message, History: history})
		conv.Append(ctx, types.SenderAI, reply.Text)
		_, _ = fmt.Fprintf(out, "counselor> %s\n\n", reply.Text)
	}

	if opening != "" {
		_, _ = fmt.Fprintf(out, "you> %s\n", opening)
		turn(opening)
	}

	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit"), strings.EqualFold(line, "quit"):
			return nil
		}
		turn(line)
	}
}
