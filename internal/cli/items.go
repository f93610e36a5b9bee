package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/kanban/internal/board"
	"github.com/five82/kanban/internal/itemsapi"
	"github.com/five82/kanban/internal/state"
	"github.com/five82/kanban/internal/syncer"
)

const shortIDLen = 8

func newListCmd(a *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items grouped by list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			b, err := s.fetch(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				items := make([]board.Item, 0, b.Total())
				for _, l := range b.Lists() {
					items = append(items, b.Items(l.ID)...)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			for i, l := range b.Lists() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%d)\n", l.Label(), b.Len(l.ID))
				for n, it := range b.Items(l.ID) {
					fmt.Fprintf(out, "  %2d. %s  %s\n", n+1, shortID(it.ID), it.Text)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print items as JSON")
	return cmd
}

func newAddCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <list> <text...>",
		Short: "Add an item to the end of a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			list, err := s.list(args[0])
			if err != nil {
				return err
			}
			text, err := board.NormalizeText(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			item, err := s.client.CreateItem(cmd.Context(), text, list.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", item.ID, list.Label())
			return nil
		},
	}
}

func newMoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <list> [index]",
		Short: "Move an item to a list, at the end or at a 1-based position",
		Long: `Move an item to a list, at the end or at a 1-based position.

The id may be any unique prefix. Positions past the end of the list place the
item last. Order inside a list is not stored by the server, so only a change
of list is sent.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			list, err := s.list(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store := state.NewStore(s.cfg.Lists)
			boardSync := syncer.New(ctx, s.client, store, s.logger)
			if err := boardSync.Load(ctx); err != nil {
				return err
			}
			item, err := resolveItem(store.Board(), args[0])
			if err != nil {
				return err
			}

			dst := board.Location{ListID: list.ID, Index: store.Board().Len(list.ID)}
			if len(args) == 3 {
				pos, err := strconv.Atoi(args[2])
				if err != nil || pos < 1 {
					return fmt.Errorf("invalid position %q: must be a number from 1", args[2])
				}
				dst.Index = pos - 1
			}

			mv, err := boardSync.MoveItem(item.ID, dst)
			if err != nil {
				return err
			}
			boardSync.Wait()
			if err := store.Snapshot().LastError; err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !mv.Changed {
				fmt.Fprintf(out, "%s already at %s #%d\n", shortID(item.ID), list.Label(), mv.To.Index+1)
				return nil
			}
			fmt.Fprintf(out, "moved %s to %s #%d\n", shortID(item.ID), list.Label(), mv.To.Index+1)
			return nil
		},
	}
}

func newEditCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace the text of an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			text, err := board.NormalizeText(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			b, err := s.fetch(cmd.Context())
			if err != nil {
				return err
			}
			item, err := resolveItem(b, args[0])
			if err != nil {
				return err
			}
			if err := s.client.UpdateItem(cmd.Context(), item.ID, itemsapi.TextPatch(text)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", shortID(item.ID))
			return nil
		},
	}
}

func newRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}
			defer s.close()

			b, err := s.fetch(cmd.Context())
			if err != nil {
				return err
			}
			item, err := resolveItem(b, args[0])
			if err != nil {
				return err
			}
			if err := s.client.DeleteItem(cmd.Context(), item.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %q\n", shortID(item.ID), item.Text)
			return nil
		},
	}
}

// fetch loads every item into a board of the configured lists. Items in
// lists the config does not know are skipped with a warning.
func (s *session) fetch(ctx context.Context) (board.Collection, error) {
	items, err := s.client.ListAll(ctx)
	if err != nil {
		return board.Collection{}, err
	}
	b, dropped := board.FromItems(s.cfg.Lists, items)
	for _, it := range dropped {
		s.logger.Warn("skipping item in unknown list",
			zap.String("item_id", it.ID),
			zap.String("list_id", it.ListID),
		)
	}
	return b, nil
}

// list finds a configured list by id, or by title ignoring case.
func (s *session) list(ref string) (board.List, error) {
	ref = strings.TrimSpace(ref)
	for _, l := range s.cfg.Lists {
		if l.ID == ref {
			return l, nil
		}
	}
	for _, l := range s.cfg.Lists {
		if strings.EqualFold(l.Title, ref) {
			return l, nil
		}
	}
	return board.List{}, fmt.Errorf("%w: %q (known: %s)", board.ErrUnknownList, ref, strings.Join(s.cfg.ListIDs(), ", "))
}

// resolveItem finds an item by exact id or unique id prefix.
func resolveItem(b board.Collection, ref string) (board.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return board.Item{}, fmt.Errorf("%w: empty id", board.ErrInvalidReference)
	}
	if loc, ok := b.Find(ref); ok {
		return b.At(loc)
	}

	var matches []board.Item
	for _, l := range b.Lists() {
		for _, it := range b.Items(l.ID) {
			if strings.HasPrefix(it.ID, ref) {
				matches = append(matches, it)
			}
		}
	}
	switch len(matches) {
	case 0:
		return board.Item{}, fmt.Errorf("%w: no item with id %q", board.ErrInvalidReference, ref)
	case 1:
		return matches[0], nil
	default:
		return board.Item{}, fmt.Errorf("%w: id prefix %q matches %d items", board.ErrInvalidReference, ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
