package cli

import (
	"fmt"
	"io"
	"strings"

	"zeno/internal/assistant"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Спросить ассистента; он может создавать задачи, заметки и сессии",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge, err := app.Bridge(app)
			if err != nil {
				return err
			}

			resp := bridge.Chat(cmd.Context(), strings.Join(args, " "))

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, styleBox.Render(resp.Reply))
			for _, r := range resp.Results {
				printResult(w, r)
			}
			return nil
		},
	}
}

func printResult(w io.Writer, r assistant.ActionResult) {
	if !r.Success {
		fmt.Fprintf(w, "%s %s: %s\n", styleRed.Render("✘"), r.Action, r.Error)
		return
	}
	fmt.Fprintf(w, "%s %s\n", styleGreen.Render("✔"), styleDim.Render(r.Action))
	if r.Message != "" {
		fmt.Fprintln(w, r.Message)
	}
}

func newMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "MCP-сервер с действиями ассистента (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bridge, err := app.Bridge(app)
			if err != nil {
				return err
			}
			return server.ServeStdio(assistant.NewMCPServer(bridge))
		},
	}
}
