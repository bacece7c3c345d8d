package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-board-client/internal/app"
	"github.com/samvad-hq/samvad-board-client/internal/config"
	"github.com/samvad-hq/samvad-board-client/internal/logger"
	"github.com/samvad-hq/samvad-board-client/internal/storage"
	"github.com/samvad-hq/samvad-board-client/pkg/boards"
	"github.com/samvad-hq/samvad-board-client/pkg/posts"
)

type clientContext struct {
	Cmd    *cobra.Command
	Args   []string
	Client *posts.Client
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every post",
		Args:  cobra.NoArgs,
		RunE: wrapClientMain(func(ctx *clientContext) error {
			all, err := ctx.Client.ListAll(ctx.Cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(ctx.Cmd, all)
		}),
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: wrapClientMain(func(ctx *clientContext) error {
			post, err := ctx.Client.Get(ctx.Cmd.Context(), ctx.Args[0])
			if err != nil {
				return err
			}
			return printJSON(ctx.Cmd, post)
		}),
	}
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new post",
		Args:  cobra.NoArgs,
		RunE: wrapClientMain(func(ctx *clientContext) error {
			flags := ctx.Cmd.Flags()
			post, err := ctx.Client.Create(ctx.Cmd.Context(), posts.CreateRequest{
				Title:  must(flags.GetString("title")),
				Body:   must(flags.GetString("body")),
				Poster: must(flags.GetString("poster")),
			})
			if err != nil {
				return err
			}
			return printJSON(ctx.Cmd, post)
		}),
	}
	cmd.Flags().String("title", "", "post title")
	cmd.Flags().String("body", "", "post body")
	cmd.Flags().String("poster", "", "author name")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("body")
	_ = cmd.MarkFlagRequired("poster")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the body of a post",
		Args:  cobra.ExactArgs(1),
		RunE: wrapClientMain(func(ctx *clientContext) error {
			flags := ctx.Cmd.Flags()
			post, err := ctx.Client.Update(ctx.Cmd.Context(), ctx.Args[0], posts.UpdateRequest{
				Body:   must(flags.GetString("body")),
				Poster: must(flags.GetString("poster")),
			})
			if err != nil {
				return err
			}
			return printJSON(ctx.Cmd, post)
		}),
	}
	cmd.Flags().String("body", "", "new post body")
	cmd.Flags().String("poster", "", "author name")
	_ = cmd.MarkFlagRequired("body")
	_ = cmd.MarkFlagRequired("poster")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a post",
		Args:  cobra.ExactArgs(1),
		RunE: wrapClientMain(func(ctx *clientContext) error {
			post, err := ctx.Client.Delete(ctx.Cmd.Context(), ctx.Args[0], posts.DeleteRequest{
				Poster: must(ctx.Cmd.Flags().GetString("poster")),
			})
			if err != nil {
				return err
			}
			return printJSON(ctx.Cmd, post)
		}),
	}
	cmd.Flags().String("poster", "", "author name")
	_ = cmd.MarkFlagRequired("poster")
	return cmd
}

func newCachedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cached",
		Short: "Show the watcher's last snapshot of a board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			board, err := resolveBoard(cfg, must(cmd.Flags().GetString("board")), "")
			if err != nil {
				return err
			}

			store, err := app.OpenStore(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			snapshots, err := store.List(storage.BoardPrefix(board.ID))
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}
			keys := make([]string, 0, len(snapshots))
			for k := range snapshots {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out := make([]posts.Post, 0, len(keys))
			for _, k := range keys {
				out = append(out, snapshots[k])
			}
			return printJSON(cmd, out)
		},
	}
}

// wrapClientMain resolves the target board from flags and config and hands
// a ready client to fn.
func wrapClientMain(fn func(*clientContext) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		flags := cmd.Flags()
		if must(flags.GetBool("form")) {
			cfg.CreateEncoding = config.EncodingForm
		}

		var log logger.Logger = logger.NopLogger{}
		if must(flags.GetBool("verbose")) {
			cfg.LogLevel = "debug"
			if log, err = logger.Init(cfg); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Close()
		}

		board, err := resolveBoard(cfg, must(flags.GetString("board")), must(flags.GetString("host")))
		if err != nil {
			return err
		}
		client, err := app.NewPostsClient(cfg, board, app.NewBoardTransport(cfg), log)
		if err != nil {
			return err
		}
		return fn(&clientContext{Cmd: cmd, Args: args, Client: client})
	}
}

func resolveBoard(cfg *config.Config, boardID, host string) (boards.Board, error) {
	if host = strings.TrimSpace(host); host != "" {
		return boards.Board{ID: "cli", Host: host}, nil
	}
	reg, err := app.LoadBoards(cfg)
	if err != nil {
		return boards.Board{}, fmt.Errorf("load boards: %w", err)
	}
	if boardID = strings.TrimSpace(boardID); boardID == "" {
		boardID = app.DefaultBoardID
		if all := reg.All(); len(all) > 0 {
			boardID = all[0].ID
		}
	}
	b, ok := reg.ByID(boardID)
	if !ok {
		return boards.Board{}, fmt.Errorf("unknown board %q", boardID)
	}
	return b, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
