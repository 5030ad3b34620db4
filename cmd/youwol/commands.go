package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/youwol/httpclients/pkg/api"
	"github.com/youwol/httpclients/pkg/files"
	"github.com/youwol/httpclients/pkg/live"
	"github.com/youwol/httpclients/pkg/observability"
	"github.com/youwol/httpclients/pkg/pipe"
	"github.com/youwol/httpclients/pkg/transport"
)

type wrapper func(runFunc) func(*cobra.Command, []string) error

func healthzCmd(with wrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "healthz",
		Short: "Check the health of the backends",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			checks := []struct {
				name   string
				router *transport.Router
			}{
				{"py-youwol", a.py.Router()},
				{"cdn-backend", a.cdn.Router()},
				{"treedb-backend", a.treedb.Router()},
				{"cdn-sessions-storage", a.sessions.Router()},
			}

			futures := make([]*pipe.Future[map[string]any], len(checks))
			for i, c := range checks {
				futures[i] = pipe.Go(func() (api.Result[map[string]any], error) {
					return transport.Send[map[string]any](ctx, c.router, api.CommandQuery, "/healthz", nil,
						transport.WithMonitoring("healthz:"+c.name, a.sinks()...))
				})
			}

			sink := observability.ErrorSink(a.logger)
			out := cmd.OutOrStdout()
			unhealthy := 0
			for i, c := range checks {
				res, err := pipe.First(pipe.Dispatch(futures[i].Stream(), sink))
				switch {
				case errors.Is(err, pipe.ErrEmpty):
					unhealthy++
					fmt.Fprintf(out, "%-22s http error\n", c.name)
				case err != nil:
					unhealthy++
					fmt.Fprintf(out, "%-22s unreachable (%v)\n", c.name, err)
				default:
					fmt.Fprintf(out, "%-22s %v\n", c.name, res.Value()["status"])
				}
			}
			if unhealthy > 0 {
				return fmt.Errorf("%d of %d backends unhealthy", unhealthy, len(checks))
			}
			return nil
		}),
	}
}

func getCmd(with wrapper) *cobra.Command {
	var command, data string
	var headers []string

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Send a JSON request and print the response",
		Long: `Send a JSON request to a path of the backend host (or an absolute URL)
and print the decoded response. The command selects the default method:
query=GET, create=PUT, update=POST, delete=DELETE, upload=POST, download=GET.`,
		Args: cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			c, err := api.ParseCommand(command)
			if err != nil {
				return err
			}
			req := &transport.Request{}
			if data != "" {
				var body any
				if err := json.Unmarshal([]byte(data), &body); err != nil {
					return fmt.Errorf("--data is not JSON: %w", err)
				}
				req.JSON = body
			}
			extra, err := parseHeaders(headers)
			if err != nil {
				return err
			}

			id := api.NewRequestID()
			ctx = transport.ContextWithRequestID(ctx, id)
			opts := []transport.CallOption{
				transport.WithHeaders(extra),
				transport.WithMonitoring(id, a.sinks()...),
			}
			var res api.Result[any]
			if u, perr := url.Parse(args[0]); perr == nil && u.IsAbs() {
				req.Headers = a.root.Headers()
				res, err = transport.SendURL[any](ctx, a.root.Client(), c, args[0], req, opts...)
			} else {
				res, err = transport.Send[any](ctx, a.root, c, args[0], req, opts...)
			}
			values, err := pipe.Values(pipe.Single(res, err))
			if err != nil {
				var httpErr *api.HTTPError
				if errors.As(err, &httpErr) {
					printJSON(cmd.OutOrStdout(), httpErr.Body)
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), values[0])
		}),
	}
	cmd.Flags().StringVar(&command, "command", string(api.CommandQuery), "Command type (query, create, update, delete, upload, download)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Extra header as 'Name: value' (repeatable)")
	return cmd
}

func downloadCmd(with wrapper) *cobra.Command {
	var output string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "download <file-id>",
		Short: "Download a file of the files backend",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			fileID := args[0]
			sinks := a.sinks()
			if !quiet {
				sinks = a.sinks(newProgress(cmd.ErrOrStderr(), "download "+fileID))
			}
			blob, err := a.files.Get(ctx, fileID, transport.WithMonitoring(fileID, sinks...))
			if err != nil {
				return err
			}
			if !blob.OK() {
				return fmt.Errorf("download of %s failed with status %d: %s", fileID, blob.StatusCode, strings.TrimSpace(string(blob.Data)))
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(blob.Data)
				return err
			}
			return os.WriteFile(output, blob.Data, 0o644)
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	return cmd
}

func uploadCmd(with wrapper) *cobra.Command {
	var fileID, name, folderID string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file to the files backend",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[0])
			}

			id := api.NewRequestID()
			sinks := a.sinks()
			if !quiet {
				sinks = a.sinks(newProgress(cmd.ErrOrStderr(), "upload "+name))
			}
			res, err := a.files.Upload(ctx, files.UploadRequest{
				FileName: name,
				Body:     f,
				Size:     info.Size(),
				FileID:   fileID,
				FolderID: folderID,
			}, transport.WithMonitoring(id, sinks...))

			uploaded, err := pipe.Values(pipe.Single(res, err))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), uploaded[0])
		}),
	}
	cmd.Flags().StringVar(&fileID, "file-id", "", "File id (generated by the backend when empty)")
	cmd.Flags().StringVar(&name, "name", "", "File name (default: base name of the path)")
	cmd.Flags().StringVar(&folderID, "folder-id", "", "Destination folder when uploading through the assets gateway")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	return cmd
}

func watchCmd(with wrapper) *cobra.Command {
	var labels, attrs, paths []string
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the context messages of the live connection as JSON lines",
		Args:  cobra.NoArgs,
		RunE: with(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
			f := live.Filter{Labels: labels}
			var err error
			if f.Attributes, err = parseMatchers(attrs); err != nil {
				return err
			}
			if f.Paths, err = parseMatchers(paths); err != nil {
				return err
			}

			conn, err := a.py.Live()
			if err != nil {
				return err
			}
			a.live = conn
			messages, cancel := conn.Subscribe(f, 0)
			defer cancel()

			ctx, stop := context.WithCancel(ctx)
			defer stop()
			done := make(chan error, 1)
			go func() { done <- conn.Run(ctx) }()

			out := cmd.OutOrStdout()
			for seen := 0; count <= 0 || seen < count; seen++ {
				select {
				case <-ctx.Done():
					return <-done
				case m, ok := <-messages:
					if !ok {
						return <-done
					}
					fmt.Fprintf(out, "%s\n", m.Raw)
				}
			}
			stop()
			return <-done
		}),
	}
	cmd.Flags().StringArrayVarP(&labels, "label", "l", nil, "Required label (repeatable)")
	cmd.Flags().StringArrayVarP(&attrs, "attr", "a", nil, "Required attribute as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&paths, "path", nil, "Required gjson path as path=value, or path alone for presence (repeatable)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Exit after this many messages (0: run until interrupted)")
	return cmd
}

func journalCmd(with wrapper) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal [request-id]",
		Short: "Print journaled request events",
		Long: `Print the request events recorded by the journal, most recent first,
or the events of one request in order. Only a postgres journal outlives
the command that recorded the events.`,
		Args: cobra.MaximumNArgs(1),
		RunE: with(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return errors.New("the journal is disabled (journal.type: none)")
			}
			var records any
			var err error
			if len(args) == 1 {
				records, err = a.store.Events(ctx, args[0])
			} else {
				records, err = a.store.Recent(ctx, limit)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of events (0: all)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, want 'Name: value'", h)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return headers, nil
}

// parseMatchers reads key=value pairs as equality matchers; a bare key only
// requires presence.
func parseMatchers(raw []string) (map[string]live.Matcher, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	matchers := make(map[string]live.Matcher, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if key == "" {
			return nil, fmt.Errorf("invalid matcher %q, want key=value", kv)
		}
		if ok {
			matchers[key] = live.Equals(value)
		} else {
			matchers[key] = nil
		}
	}
	return matchers, nil
}
