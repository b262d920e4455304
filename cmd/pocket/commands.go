package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vburojevic/pocket-importer/internal/config"
	"github.com/vburojevic/pocket-importer/internal/importer"
	"github.com/vburojevic/pocket-importer/internal/output"
	"github.com/vburojevic/pocket-importer/internal/pocket"
)

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError{fmt.Errorf("%s takes no arguments, got %q", cmd.CommandPath(), args)}
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError{fmt.Errorf("%s expects %d argument(s), got %d", cmd.CommandPath(), n, len(args))}
		}
		return nil
	}
}

// --- import ---
func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html|->",
		Short: "Import an HTML list exported from getpocket.com",
		Long: `Import an HTML list exported from getpocket.com.

The first <ul> list is added as unread items. A second list, if present, is
added and then archived, keeping each item's original time_added.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			// Reject a document without lists before touching the network.
			if len(importer.FindLists(contents)) == 0 {
				return importer.ErrNoList
			}
			client, err := a.ensureClient(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := importer.NewImporter(client, a.logger).Run(cmd.Context(), contents)
			if err != nil {
				return err
			}
			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d item(s), archived %d\n", rep.Added, rep.Archived)
			}
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

// --- add ---
func newAddCmd(a *app) *cobra.Command {
	var req pocket.AddRequest
	var format string
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Save a single URL",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.URL = strings.TrimSpace(args[0])
			client, err := a.ensureClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := client.Add(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("add: service returned status %d", int64(resp.Status))
			}
			if strings.EqualFold(format, output.FormatJSON) {
				return output.WriteJSON(cmd.OutOrStdout(), resp.Item)
			}
			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d\t%s\n", int64(resp.Item.ItemID), resp.Item.URL())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "Title to use when Pocket cannot resolve one")
	cmd.Flags().StringVar(&req.Tags, "tags", "", "Comma-separated tags")
	cmd.Flags().StringVar(&req.TweetID, "tweet-id", "", "Tweet the URL came from")
	cmd.Flags().StringVar(&format, "format", "plain", "Output format: plain or json")
	return cmd
}

// --- list ---
func newListCmd(a *app) *cobra.Command {
	var req pocket.GetRequest
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Retrieve saved items",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := output.ValidateFormat(format); err != nil {
				return usageError{err}
			}
			client, err := a.ensureClient(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := client.Get(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !resp.OK() {
				return fmt.Errorf("list: service returned status %d", int64(resp.Status))
			}
			return output.PrintItems(cmd.OutOrStdout(), format, resp.List.Sorted())
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.State, "state", "", "unread, archive, or all")
	f.StringVar(&req.Favorite, "favorite", "", "0 or 1")
	f.StringVar(&req.Tag, "tag", "", "Tag name, or _untagged_")
	f.StringVar(&req.ContentType, "content-type", "", "article, video, or image")
	f.StringVar(&req.Sort, "sort", "", "newest, oldest, title, or site")
	f.StringVar(&req.DetailType, "detail-type", "", "simple or complete")
	f.StringVar(&req.Search, "search", "", "Only items whose title or URL contains this")
	f.StringVar(&req.Domain, "domain", "", "Only items from this domain")
	f.Int64Var(&req.Since, "since", 0, "Only items modified since this unix timestamp")
	f.IntVar(&req.Count, "count", 0, "Number of items to return (0 = service default)")
	f.IntVar(&req.Offset, "offset", 0, "Offset used with --count")
	f.StringVar(&format, "format", output.FormatTable, "Output format: table, plain, json, or ndjson")
	return cmd
}

// --- auth ---
func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the cached Pocket authorization",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Authorize in the browser and cache the access token",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.authorize(cmd.Context())
			if err != nil {
				return err
			}
			if !a.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", c.Username)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the cached authorization",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			creds, ok := config.LoadCredentials(a.settings.CredentialsPath)
			if !ok {
				fmt.Fprintf(out, "Not logged in (no credentials at %s)\n", a.settings.CredentialsPath)
				return nil
			}
			who := creds.Username
			if who == "" {
				who = "unknown user"
			}
			fmt.Fprintf(out, "Logged in as %s (consumer key %s, credentials %s)\n", who, creds.ConsumerKey, a.settings.CredentialsPath)
			return nil
		},
	})
	return cmd
}
