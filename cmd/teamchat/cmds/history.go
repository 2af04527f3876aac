package cmds

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-go-golems/teamchat/pkg/cmds"
	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/go-go-golems/teamchat/pkg/personas"
	"github.com/go-go-golems/teamchat/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type personaSummary struct {
	PersonaID    string `json:"personaId" yaml:"personaId"`
	Name         string `json:"name" yaml:"name"`
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	MessageCount int    `json:"messageCount" yaml:"messageCount"`
	UpdatedAt    string `json:"updatedAt" yaml:"updatedAt"`
}

type historyOutput struct {
	PersonaID string                 `json:"personaId" yaml:"personaId"`
	Title     string                 `json:"title,omitempty" yaml:"title,omitempty"`
	CreatedAt string                 `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string                 `json:"updatedAt" yaml:"updatedAt"`
	Messages  []conversation.Message `json:"messages" yaml:"messages"`
}

func NewHistoryCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "history [PERSONA]",
		Short: "List personas with history, or show the conversation with one persona",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" && output != "yaml" {
				return errors.Errorf("unknown output format %q", output)
			}

			app, err := openApp(cmd, cmds.WithoutGenerator())
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			w := cmd.OutOrStdout()
			if len(args) == 0 {
				return printSummaries(cmd, w, app.Store, app.Catalog, output)
			}

			id, err := personas.ParseID(args[0])
			if err != nil {
				return err
			}
			c, ok := app.Store.GetConversation(cmd.Context(), id)
			if !ok {
				return errors.Errorf("no history for persona %q", id)
			}
			return printConversation(w, c, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json, yaml)")

	return cmd
}

func printSummaries(cmd *cobra.Command, w io.Writer, s *store.Store, catalog *personas.Catalog, output string) error {
	ids := s.ListPersonasWithHistory(cmd.Context())
	summaries := make([]personaSummary, 0, len(ids))
	for _, id := range ids {
		c, ok := s.GetConversation(cmd.Context(), id)
		if !ok {
			continue
		}
		name := id
		if p, ok := catalog.Lookup(id); ok {
			name = p.Name
		}
		summaries = append(summaries, personaSummary{
			PersonaID:    id,
			Name:         name,
			Title:        c.Title,
			MessageCount: len(c.Messages),
			UpdatedAt:    store.FormatTimestamp(c.UpdatedAt),
		})
	}

	switch output {
	case "json":
		return writeJSON(w, summaries)
	case "yaml":
		return yaml.NewEncoder(w).Encode(summaries)
	}

	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No conversations yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PERSONA\tMESSAGES\tUPDATED\tTITLE")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.PersonaID, s.MessageCount, s.UpdatedAt, s.Title)
	}
	return tw.Flush()
}

func printConversation(w io.Writer, c *conversation.Conversation, output string) error {
	out := historyOutput{
		PersonaID: c.PersonaID,
		Title:     c.Title,
		CreatedAt: store.FormatTimestamp(c.CreatedAt),
		UpdatedAt: store.FormatTimestamp(c.UpdatedAt),
		Messages:  c.Messages,
	}
	switch output {
	case "json":
		return writeJSON(w, out)
	case "yaml":
		return yaml.NewEncoder(w).Encode(out)
	}

	for _, m := range c.Messages {
		if _, err := fmt.Fprintf(w, "[%s] %s:\n%s\n\n", store.FormatTimestamp(m.Timestamp), m.Role, m.Content); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
