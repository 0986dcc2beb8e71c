// Command rfpdesk is the CLI shell around the rfpdesk library: it owns file
// I/O, persistence, and the chat loop, while extraction and orchestration stay
// in the library.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skosovsky/rfpdesk"
)

const defaultStorePath = "rfp_documents.json"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
	})))
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	if os.Getenv("RFPDESK_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func newRootCmd() *cobra.Command {
	var storePath string
	root := &cobra.Command{
		Use:   "rfpdesk",
		Short: "Manage RFP documents and chat about them",
		Long: "rfpdesk extracts structured records from free-text RFP documents via an\n" +
			"OpenAI-compatible completion provider and answers questions about the\n" +
			"stored records, dispatching summary/table tools when the model asks for them.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&storePath, "store", envOr("RFPDESK_STORE", defaultStorePath),
		"path of the JSON record store")
	root.AddCommand(newAddCmd(&storePath))
	root.AddCommand(newListCmd(&storePath))
	root.AddCommand(newClearCmd(&storePath))
	root.AddCommand(newChatCmd(&storePath))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newAddCmd(storePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file.txt>",
		Short: "Extract a record from an RFP text file and persist it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			provider, err := rfpdesk.NewOpenAIClient()
			if err != nil {
				return err
			}
			extractor, err := rfpdesk.NewRecordExtractor(provider)
			if err != nil {
				return err
			}
			rec, err := extractor.Extract(cmd.Context(), string(text))
			if err != nil {
				return err
			}
			rec, err = rfpdesk.NewFileStore(*storePath).Append(rec)
			if err != nil {
				return err
			}
			color.Green("Successfully extracted and saved: %s (ID: %d)", rec.Title, rec.ID)
			return nil
		},
	}
}

func newListCmd(storePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the stored records as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recs, err := rfpdesk.NewFileStore(*storePath).LoadAll()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rfpdesk.RecordTable(recs))
			return nil
		},
	}
}

func newClearCmd(storePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored records",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := rfpdesk.NewFileStore(*storePath).Clear(); err != nil {
				return err
			}
			color.Yellow("All records cleared.")
			return nil
		},
	}
}

func newChatCmd(storePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat about the stored records (REPL; 'exit' to quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, err := rfpdesk.NewOpenAIClient()
			if err != nil {
				return err
			}
			registry, err := rfpdesk.NewBuiltinRegistry()
			if err != nil {
				return err
			}
			registry.Use(rfpdesk.WithLogging(slog.Default()))
			orc := rfpdesk.NewOrchestrator(provider, registry)
			store := rfpdesk.NewFileStore(*storePath)
			return chatLoop(cmd.Context(), cmd, orc, store)
		},
	}
}

// chatLoop owns the append-only history and reloads the snapshot each turn so
// records added from another process show up mid-conversation.
func chatLoop(ctx context.Context, cmd *cobra.Command, orc *rfpdesk.Orchestrator, store rfpdesk.Store) error {
	out := cmd.OutOrStdout()
	prompt := color.New(color.FgCyan, color.Bold)
	assistant := color.New(color.FgGreen)

	fmt.Fprintln(out, "Ask a question about the RFP documents ('exit' to quit).")
	var history []rfpdesk.Message
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		prompt.Fprint(out, "you> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		history = append(history, rfpdesk.Message{Role: rfpdesk.RoleUser, Content: input})

		recs, err := store.LoadAll()
		if err != nil {
			return err
		}
		reply, err := orc.Respond(ctx, history, rfpdesk.Snapshot(recs))
		if err != nil {
			slog.Error("chat turn failed", "error", err)
			reply = rfpdesk.Message{
				Role:    rfpdesk.RoleAssistant,
				Content: "Sorry, I encountered an error talking to the assistant. Please try again.",
			}
		}
		history = append(history, reply)
		assistant.Fprintln(out, reply.Content)
	}
	return scanner.Err()
}
