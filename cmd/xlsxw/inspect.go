package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/maps"
)

func newInspectCommand(stdout io.Writer) *ffcli.Command {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	return &ffcli.Command{
		Name:       "inspect",
		ShortUsage: "xlsxw inspect file.xlsx ...",
		ShortHelp:  "list sheets, merges, tables and rules of existing workbooks",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			for _, fn := range args {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := inspect(stdout, fn); err != nil {
					return fmt.Errorf("%q: %w", fn, err)
				}
			}
			return nil
		},
	}
}

// inspect reopens a package with an independent reader and prints what it
// finds.
func inspect(w io.Writer, fn string) error {
	f, err := excelize.OpenFile(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(w, "%s\n", fn)
	if props, err := f.GetDocProps(); err == nil && props.Title != "" {
		fmt.Fprintf(w, "  title: %s\n", props.Title)
	}
	for _, dn := range f.GetDefinedName() {
		scope := dn.Scope
		if scope == "" {
			scope = "Workbook"
		}
		fmt.Fprintf(w, "  name %s (%s) = %s\n", dn.Name, scope, dn.RefersTo)
	}

	for _, name := range f.GetSheetList() {
		dim, err := f.GetSheetDimension(name)
		if err != nil {
			return err
		}
		visible, _ := f.GetSheetVisible(name)
		state := ""
		if !visible {
			state = " hidden"
		}
		fmt.Fprintf(w, "sheet %q%s dimension=%s\n", name, state, dim)

		if panes, err := f.GetPanes(name); err == nil && (panes.Freeze || panes.Split) {
			kind := "split"
			if panes.Freeze {
				kind = "frozen"
			}
			fmt.Fprintf(w, "  pane %s x=%d y=%d top-left=%s\n", kind, panes.XSplit, panes.YSplit, panes.TopLeftCell)
		}

		merges, err := f.GetMergeCells(name, true)
		if err != nil {
			return err
		}
		for _, m := range merges {
			fmt.Fprintf(w, "  merge %s:%s\n", m.GetStartAxis(), m.GetEndAxis())
		}

		tables, err := f.GetTables(name)
		if err != nil {
			return err
		}
		for _, t := range tables {
			fmt.Fprintf(w, "  table %s %s style=%s\n", t.Name, t.Range, t.StyleName)
		}

		cfs, err := f.GetConditionalFormats(name)
		if err != nil {
			return err
		}
		refs := maps.Keys(cfs)
		slices.Sort(refs)
		for _, ref := range refs {
			types := make([]string, 0, len(cfs[ref]))
			for _, o := range cfs[ref] {
				types = append(types, o.Type)
			}
			fmt.Fprintf(w, "  conditional %s: %s\n", ref, strings.Join(types, ", "))
		}

		dvs, err := f.GetDataValidations(name)
		if err != nil {
			return err
		}
		for _, dv := range dvs {
			fmt.Fprintf(w, "  validation %s: %s\n", dv.Sqref, dv.Type)
		}
	}
	return nil
}
