package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nikolayk812/storefront/internal/chat"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "chat [question...]",
		Short: "Ask the support bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			mirror, closeFn, err := a.openMirror(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			client := chat.NewClient(a.cfg.APIBaseURL,
				chat.WithHTTPClient(&http.Client{Timeout: a.cfg.HTTPTimeout}),
				chat.WithLogger(a.logger))
			session := chat.NewSession(cmd.Context(), mirror, client, chat.WithSessionLogger(a.logger))

			if history {
				for _, m := range session.Messages() {
					who := "bot"
					if m.IsUser {
						who = "you"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", m.Timestamp.Format("2006-01-02 15:04"), who, m.Text)
				}
				return nil
			}

			question := strings.Join(args, " ")
			if strings.TrimSpace(question) == "" {
				return fmt.Errorf("question is empty")
			}

			reply, err := session.Send(cmd.Context(), question)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)

			return nil
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "print the conversation so far")

	return cmd
}
