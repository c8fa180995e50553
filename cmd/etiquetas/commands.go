package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/erazemk/etiquetas/internal/app"
	"github.com/erazemk/etiquetas/internal/layout"
	"github.com/erazemk/etiquetas/internal/model"
	"github.com/erazemk/etiquetas/internal/session"
)

// errUsage reports a malformed command line.
var errUsage = errors.New("invalid arguments, run etiquetas without arguments for usage")

// runCommand executes one non-server command, writing its output to w.
func runCommand(ctx context.Context, a *app.App, w io.Writer, cmd string, args []string) error {
	switch cmd {
	case "stores":
		return storesCommand(ctx, a, w, args)
	case "products":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		sess, err := a.OpenSession(ctx, args[0])
		if err != nil {
			return err
		}
		term := ""
		if len(args) == 2 {
			term = args[1]
		}
		printProducts(w, "Active", sess.Active(term))
		printProducts(w, "Trash", sess.Trash(term))
		return nil
	case "add", "toggle", "delete", "undelete":
		return editCommand(ctx, a, w, cmd, args)
	case "save":
		if len(args) != 2 {
			return errUsage
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[1], err)
		}
		res, err := a.SaveProducts(ctx, args[0], data)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "saved %s\n", res.Path)
		if res.Backup != "" {
			fmt.Fprintf(w, "backup %s\n", res.Backup)
		}
		return nil
	case "generate":
		if len(args) < 2 {
			return errUsage
		}
		reqs, err := parseRequests(args[1:])
		if err != nil {
			return err
		}
		run, err := a.PrintStored(ctx, args[0], reqs)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %d labels on %d pages\n", run.File, run.Labels, run.Pages)
		return nil
	case "export":
		if len(args) != 2 {
			return errUsage
		}
		return exportCommand(a, w, args[0], args[1])
	case "backups":
		if len(args) != 1 {
			return errUsage
		}
		backups, err := a.Backups(args[0])
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCREATED\tSIZE")
		for _, b := range backups {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", b.Name, b.CreatedAt.Local().Format("2006-01-02 15:04:05"), b.Size)
		}
		return tw.Flush()
	case "restore":
		if len(args) != 2 {
			return errUsage
		}
		res, err := a.RestoreBackup(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "restored %s into %s\n", args[1], res.Path)
		return nil
	case "runs":
		store := ""
		if len(args) == 1 {
			store = args[0]
		}
		runs, err := a.PrintRuns(ctx, store, 20)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tSTORE\tLABELS\tPAGES\tFILE")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.StoreID, r.Labels, r.Pages, r.File)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

func storesCommand(ctx context.Context, a *app.App, w io.Writer, args []string) error {
	if len(args) == 0 {
		cfg, err := a.Config()
		if err != nil {
			return err
		}
		active, _ := a.ActiveStore(ctx)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\t")
		for _, s := range cfg.Stores {
			mark := ""
			if s.ID == active.ID {
				mark = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Name, mark)
		}
		return tw.Flush()
	}

	switch {
	case args[0] == "add" && len(args) >= 3:
		_, err := a.AddStore(model.Store{ID: args[1], Name: strings.Join(args[2:], " ")})
		return err
	case args[0] == "remove" && len(args) == 2:
		_, err := a.RemoveStore(ctx, args[1])
		return err
	case args[0] == "select" && len(args) == 2:
		_, err := a.SelectStore(ctx, args[1])
		return err
	}
	return errUsage
}

func editCommand(ctx context.Context, a *app.App, w io.Writer, cmd string, args []string) error {
	want := 2
	if cmd == "add" {
		want = 1
	}
	if len(args) != want {
		return errUsage
	}

	var op func(*session.Session) (*session.Result, error)
	switch cmd {
	case "add":
		op = func(s *session.Session) (*session.Result, error) { return s.Add() }
	case "toggle":
		op = func(s *session.Session) (*session.Result, error) { return s.ToggleInactive(args[1]) }
	case "delete":
		op = func(s *session.Session) (*session.Result, error) { return s.Delete(args[1]) }
	case "undelete":
		op = func(s *session.Session) (*session.Result, error) { return s.Restore(args[1]) }
	}

	sess, _, err := a.Apply(ctx, args[0], op)
	if err != nil {
		return err
	}
	printProducts(w, "Active", sess.Active(""))
	return nil
}

func exportCommand(a *app.App, w io.Writer, store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := a.Export(store, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(w, "exported %s\n", path)
	return nil
}

// parseRequests reads "codigo" or "codigo:quantity" arguments.
func parseRequests(args []string) ([]session.Request, error) {
	reqs := make([]session.Request, 0, len(args))
	for _, arg := range args {
		codigo, qty, found := strings.Cut(arg, ":")
		r := session.Request{Codigo: codigo, Quantity: 1}
		if found {
			n, err := strconv.Atoi(qty)
			if err != nil {
				return nil, fmt.Errorf("quantity of %s: %w", codigo, errUsage)
			}
			r.Quantity = n
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

func printProducts(w io.Writer, title string, products []model.Product) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(products))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range products {
		flags := string(p.Status())
		if p.IsNew {
			flags += ",new"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", p.Codigo, p.Nome, p.Medida, layout.FormatPrice(p.Preco), flags)
	}
	tw.Flush()
}
