package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/memlayout/buffer"
	"github.com/wippyai/memlayout/config"
	"github.com/wippyai/memlayout/endian"
	"github.com/wippyai/memlayout/schema"
	"github.com/wippyai/memlayout/view"
)

type options struct {
	record      string
	dump        string
	fill        string
	format      string
	endianness  string
	offset      int
	nested      bool
	clearUnset  bool
	interactive bool
	debug       bool
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("memlayout", pflag.ContinueOnError)
	flags.StringVarP(&opts.record, "record", "r", "", "Record to show (default: last declared)")
	flags.StringVar(&opts.dump, "dump", "", "Decode the record stored in this file")
	flags.StringVar(&opts.fill, "fill", "", "YAML file of field values to write into the --dump file")
	flags.StringVarP(&opts.format, "format", "f", "table", "Output format: table, yaml, json or cbor")
	flags.StringVarP(&opts.endianness, "endianness", "e", "", "Byte order: NATIVE, LITTLE, BIG or NETWORK")
	flags.IntVar(&opts.offset, "offset", 0, "Byte offset of the record in the --dump file")
	flags.BoolVar(&opts.nested, "nested", true, "Expand nested records")
	flags.BoolVar(&opts.clearUnset, "clear-unset", false, "With --fill, zero fields missing from the values file")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Interactive layout explorer")
	flags.BoolVar(&opts.debug, "debug", false, "Log to stderr")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: memlayout [flags] <schema.yaml>...")
		fmt.Fprintln(os.Stderr, "       memlayout -i <schema.yaml>...  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       memlayout --dump data.bin [--fill values.yaml] <schema.yaml>...")
		flags.PrintDefaults()
		os.Exit(1)
	}

	if err := run(opts, flags.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, files []string, out io.Writer) error {
	if opts.debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		config.SetLogger(logger.Named("config"))
		view.SetLogger(logger.Named("view"))
		buffer.SetLogger(logger.Named("buffer"))
	}

	order := endian.Unspecified
	if opts.endianness != "" {
		e, err := endian.Parse(opts.endianness)
		if err != nil {
			return err
		}
		order = e
		if err := config.Init(config.Config{Endianness: e}); err != nil {
			return err
		}
	}

	reg := schema.NewRegistry()
	records, err := loadSchemas(reg, files)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no records declared in %v", files)
	}

	if opts.interactive {
		return runInteractive(records, order)
	}

	s := records[len(records)-1]
	if opts.record != "" {
		var ok bool
		if s, ok = reg.Lookup(opts.record); !ok {
			return fmt.Errorf("unknown record %q", opts.record)
		}
	}

	if opts.dump == "" {
		if opts.fill != "" {
			return fmt.Errorf("--fill needs --dump")
		}
		layout := schema.DescribeAt(s, 0, order, opts.nested)
		if opts.format == "table" {
			_, err := fmt.Fprintln(out, renderTable(layout, terminalWidth()))
			return err
		}
		return encode(out, opts.format, layout)
	}
	return dump(opts, s, order, out)
}

func loadSchemas(reg *schema.Registry, files []string) ([]*schema.Schema, error) {
	var records []*schema.Schema
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open schema file: %w", err)
		}
		loaded, err := schema.LoadYAML(f, reg)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, loaded...)
	}
	return records, nil
}

// dump maps the data file and prints the decoded record, after applying
// the --fill values when given.
func dump(opts options, s *schema.Schema, order endian.Endianness, out io.Writer) error {
	m, err := buffer.MapFile(opts.dump, opts.fill != "")
	if err != nil {
		return err
	}
	defer m.Close()

	v, err := view.New(s, m, view.WithOffset(opts.offset), view.WithEndianness(order))
	if err != nil {
		return err
	}
	defer v.Free()

	if opts.fill != "" {
		values, err := readValues(opts.fill)
		if err != nil {
			return err
		}
		var fillOpts []view.FillOption
		if opts.clearUnset {
			fillOpts = append(fillOpts, view.ClearUnset())
		}
		if err := v.FillFromMap(values, fillOpts...); err != nil {
			return err
		}
		if err := m.Sync(); err != nil {
			return err
		}
	}

	if opts.format == "table" {
		_, err := fmt.Fprintln(out, renderValues(v, terminalWidth()))
		return err
	}
	values, err := v.ToMap()
	if err != nil {
		return err
	}
	return encode(out, opts.format, values)
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

func encode(out io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "cbor":
		data, err := cbor.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode cbor: %w", err)
		}
		_, err = out.Write(data)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
