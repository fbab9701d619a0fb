package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/adnsv/go-xlsxw/xl"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

// csvConfig holds the flags of the csv subcommand.
type csvConfig struct {
	charset   string
	out       string
	noHeader  bool
	freeze    bool
	filter    bool
	table     bool
	tableType string
	numbers   bool
	level     int
	unpacked  bool
}

func newCSVCommand(options []ff.Option) *ffcli.Command {
	var cfg csvConfig
	fs := flag.NewFlagSet("csv", flag.ContinueOnError)
	fs.StringVar(&cfg.charset, "charset", defaultCharset(), "csv charset name")
	fs.StringVar(&cfg.out, "o", "", "output file name (default first input + .xlsx, - for stdout)")
	fs.BoolVar(&cfg.noHeader, "no-header", false, "first line is data, not column names")
	fs.BoolVar(&cfg.freeze, "freeze", false, "freeze the header row")
	fs.BoolVar(&cfg.filter, "autofilter", false, "add filter buttons to the header row")
	fs.BoolVar(&cfg.table, "table", false, "turn each sheet into a table")
	fs.StringVar(&cfg.tableType, "table-style", "medium9", "table style (none, lightN, mediumN, darkN)")
	fs.BoolVar(&cfg.numbers, "numbers", true, "store numeric-looking fields as numbers")
	fs.IntVar(&cfg.level, "level", -1, "deflate level (-2..9)")
	fs.BoolVar(&cfg.unpacked, "unpacked", false, "write the package parts into a directory instead of a zip")

	return &ffcli.Command{
		Name:       "csv",
		ShortUsage: "xlsxw csv [flags] [sheet:]file.csv ...",
		ShortHelp:  "convert CSV files into one workbook, one sheet per file",
		FlagSet:    fs,
		Options:    options,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			return convertCSV(ctx, cfg, args)
		},
	}
}

// defaultCharset derives the input charset from $LANG.
func defaultCharset() string {
	enc := os.Getenv("LANG")
	if i := strings.IndexByte(enc, '.'); i >= 0 {
		enc = strings.ToLower(enc[i+1:])
	} else {
		enc = ""
	}
	if enc == "" {
		enc = "utf-8"
	}
	return enc
}

func getEncoding(name string) (encoding.Encoding, error) {
	name = strings.ToLower(name)
	if name == "" || name == "utf-8" || name == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		err = fmt.Errorf("%q: %w", name, err)
	}
	return enc, err
}

func convertCSV(ctx context.Context, cfg csvConfig, args []string) error {
	enc, err := getEncoding(cfg.charset)
	if err != nil {
		return err
	}
	style, number, err := parseTableStyle(cfg.tableType)
	if err != nil {
		return err
	}

	opts := xl.DefaultOptions()
	opts.AppName = "xlsxw"
	opts.Logger = logger
	opts.CompressionLevel = cfg.level
	wb := xl.NewWorkbookWith(opts)

	bold, err := wb.AddFormat(xl.Style{Font: xl.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, arg := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, fn := sheetSource(arg, i)
		sh, err := wb.AddSheet(name)
		if err != nil {
			return fmt.Errorf("%q: %w", arg, err)
		}
		if err := fillSheet(sh, fn, enc, cfg, bold, style, number); err != nil {
			return fmt.Errorf("%q: %w", fn, err)
		}
	}

	out := cfg.out
	if out == "" {
		_, fn := sheetSource(args[0], 0)
		if fn == "" || fn == "-" {
			out = "-"
		} else {
			out = strings.TrimSuffix(fn, filepath.Ext(fn)) + ".xlsx"
		}
	}
	if out == "-" {
		_, err := wb.WriteTo(os.Stdout)
		return err
	}
	if cfg.unpacked {
		out = strings.TrimSuffix(out, filepath.Ext(out))
		logger.Info("unpack", "dir", out, "sheets", len(wb.Sheets()))
		return wb.Write(xl.NewDirStorage(out))
	}
	logger.Info("save", "path", out, "sheets", len(wb.Sheets()))
	return wb.Save(out)
}

// sheetSource splits a "name:file" argument.
func sheetSource(arg string, i int) (name, fn string) {
	name, fn = fmt.Sprintf("Sheet%d", i+1), arg
	if j := strings.IndexByte(arg, ':'); j > 0 && !isDrive(arg[:j]) {
		name, fn = arg[:j], arg[j+1:]
	} else if arg != "" && arg != "-" {
		name = strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	}
	return name, fn
}

func isDrive(s string) bool {
	return len(s) == 1 && unicode.IsLetter(rune(s[0]))
}

func parseTableStyle(s string) (xl.TableStyleType, int, error) {
	s = strings.ToLower(s)
	if s == "" || s == "default" {
		return xl.TableStyleDefault, 0, nil
	}
	if s == "none" {
		return xl.TableStyleNone, 0, nil
	}
	for prefix, t := range map[string]xl.TableStyleType{
		"light":  xl.TableStyleLight,
		"medium": xl.TableStyleMedium,
		"dark":   xl.TableStyleDark,
	} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			n, err := strconv.Atoi(rest)
			if err != nil {
				return 0, 0, fmt.Errorf("table style %q: %w", s, err)
			}
			return t, n, nil
		}
	}
	return 0, 0, fmt.Errorf("unknown table style %q", s)
}

// openCSV opens fn (or stdin for "" and "-"), decodes it from enc and sniffs
// the field separator from the first line.
func openCSV(fn string, enc encoding.Encoding) (*csv.Reader, io.Closer, error) {
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		var err error
		if fh, err = os.Open(fn); err != nil {
			return nil, nil, err
		}
	}
	r := io.Reader(fh)
	if enc != nil {
		r = enc.NewDecoder().Reader(r)
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		fh.Close()
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("empty input: %w", err)
		}
		return nil, nil, err
	}

	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.Comma = sniffSeparator(b)
	cr.FieldsPerRecord = -1
	return cr, fh, nil
}

func sniffSeparator(b []byte) rune {
	for _, r := range string(b) {
		if r == '"' || r == '_' || r == ' ' || r == '.' || r == '-' ||
			unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		if r == '\r' || r == '\n' {
			break
		}
		return r
	}
	return ','
}

func fillSheet(sh *xl.Sheet, fn string, enc encoding.Encoding, cfg csvConfig, bold *xl.Format, style xl.TableStyleType, number int) error {
	cr, closer, err := openCSV(fn, enc)
	if err != nil {
		return err
	}
	defer closer.Close()

	var headers []string
	var widths []int
	var cols int
	rows := 0
	vals := make([]any, 0, 16)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if len(rec) > cols {
			cols = len(rec)
		}
		for len(widths) < len(rec) {
			widths = append(widths, 0)
		}
		for i, s := range rec {
			widths[i] = max(widths[i], utf8.RuneCountInString(s))
		}

		if rows == 0 && !cfg.noHeader {
			headers = append(headers, rec...)
			for i, h := range headers {
				if err := sh.WriteString(0, i, h, bold); err != nil {
					return err
				}
			}
			rows++
			continue
		}

		vals = vals[:0]
		for _, s := range rec {
			vals = append(vals, fieldValue(s, cfg.numbers))
		}
		if err := sh.AppendRow(vals...); err != nil {
			return err
		}
		rows++
	}
	logger.Debug("sheet", "name", sh.Name(), "rows", rows, "cols", cols)
	if rows == 0 || cols == 0 {
		return nil
	}

	for i, w := range widths {
		if err := sh.SetColumnWidth(i, float64(min(max(w+2, 8), 60))); err != nil {
			return err
		}
	}
	if cfg.noHeader {
		return nil
	}
	if cfg.freeze {
		if err := sh.FreezePanes(1, 0); err != nil {
			return err
		}
	}
	switch {
	case cfg.table && rows > 1:
		columns := make([]xl.TableColumn, cols)
		for i := range columns {
			if i < len(headers) {
				columns[i].Header = headers[i]
			}
			columns[i].HeaderFormat = bold
		}
		_, err := sh.AddTable(xl.RangeOf(0, 0, rows-1, cols-1), &xl.TableOptions{
			StyleType:   style,
			StyleNumber: number,
			Columns:     columns,
		})
		return err
	case cfg.table:
		logger.Warn("no data rows, table skipped", "sheet", sh.Name())
	case cfg.filter:
		return sh.Autofilter(0, 0, rows-1, cols-1)
	}
	return nil
}

// fieldValue stores numeric-looking fields as numbers and everything else as
// text.
func fieldValue(s string, numbers bool) any {
	if s == "" {
		return nil
	}
	if numbers {
		t := strings.TrimSpace(s)
		if leadingZero(t) || strings.ContainsAny(t, "xXnNiI_") {
			return s
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return s
}

// leadingZero reports identifiers such as "007" that would lose digits as
// numbers.
func leadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}
