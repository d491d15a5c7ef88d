package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"docugen/internal/models"
	"docugen/internal/session"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List session documents",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, h *sessionHandle) error {
			status, _ := cmd.Flags().GetString("status")
			output, _ := cmd.Flags().GetString("output")
			if status != "" && !models.DocumentStatus(status).Valid() {
				return fmt.Errorf("%w: %q", session.ErrInvalidStatus, status)
			}

			var docs []models.SessionDocument
			for _, doc := range h.store.Documents() {
				if status == "" || string(doc.Status) == status {
					docs = append(docs, doc)
				}
			}

			if output != "table" {
				if docs == nil {
					docs = []models.SessionDocument{}
				}
				return write(cmd, output, docs)
			}
			if len(docs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No session documents.")
				return nil
			}

			active := h.store.ActiveDocumentID()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\tID\tSTATUS\tTITLE\tSECTIONS\tUPDATED")
			for _, doc := range docs {
				marker := ""
				if doc.ID == active {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					marker, doc.ID, doc.Status, doc.Title, len(doc.Sections), doc.UpdatedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		}),
	}

	cmd.Flags().StringP("status", "s", "", "Only documents with this status")
	cmd.Flags().StringP("output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print one session document",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, h *sessionHandle) error {
			doc, err := lookup(h, args[0])
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			return write(cmd, output, doc)
		}),
	}

	cmd.Flags().StringP("output", "o", "json", "Output format (json, yaml)")

	return cmd
}

func activeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "active [id]",
		Short: "Show or set the active document",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, h *sessionHandle) error {
			if clearActive, _ := cmd.Flags().GetBool("clear"); clearActive {
				return h.store.ClearActiveDocument()
			}
			if len(args) == 1 {
				return h.store.SetActiveDocument(args[0])
			}
			active := h.store.ActiveDocumentID()
			if active == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No active document.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), active)
			return nil
		}),
	}

	cmd.Flags().Bool("clear", false, "Clear the active document")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a session document",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(func(cmd *cobra.Command, args []string, h *sessionHandle) error {
			if _, err := lookup(h, args[0]); err != nil {
				return err
			}
			if err := h.store.DeleteDocument(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [id] [title]",
		Short: "Change a document's title",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(func(cmd *cobra.Command, args []string, h *sessionHandle) error {
			if _, err := lookup(h, args[0]); err != nil {
				return err
			}
			title := args[1]
			return h.store.UpdateDocument(args[0], models.DocumentPatch{Title: &title})
		}),
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [id] [status]",
		Short: "Set a document's status (analyzing, ready, generating, editing, completed)",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(func(cmd *cobra.Command, args []string, h *sessionHandle) error {
			if _, err := lookup(h, args[0]); err != nil {
				return err
			}
			status := models.DocumentStatus(args[1])
			return h.store.UpdateDocument(args[0], models.DocumentPatch{Status: &status})
		}),
	}
}

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every session document",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, h *sessionHandle) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			docs := h.store.Documents()
			for _, doc := range docs {
				if err := h.store.DeleteDocument(doc.ID); err != nil {
					return err
				}
			}
			if err := h.store.ClearActiveDocument(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d documents\n", len(docs))
			return nil
		}),
	}

	cmd.Flags().Bool("yes", false, "Confirm the reset")

	return cmd
}

func keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List raw storage keys",
		Args:  cobra.NoArgs,
		RunE: withSession(func(cmd *cobra.Command, args []string, h *sessionHandle) error {
			keys, err := h.kv.Keys()
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		}),
	}
}

func lookup(h *sessionHandle, id string) (models.SessionDocument, error) {
	doc, ok := h.store.GetDocument(id)
	if !ok {
		return models.SessionDocument{}, fmt.Errorf("%w: %s", session.ErrDocumentNotFound, id)
	}
	return doc, nil
}

func write(cmd *cobra.Command, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		// Round-trip through JSON so keys match the persisted field names.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
