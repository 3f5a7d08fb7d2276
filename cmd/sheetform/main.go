// Command sheetform submits one record to a spreadsheet script endpoint.
//
// Usage:
//
//	sheetform [flags]
//
// The record is built from -record (a .json, .csv or .yaml file) and any
// -field name=value flags, which are applied on top in the order given.
// The endpoint comes from -endpoint, the config file, or GOOGLE_SCRIPT_URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sheetform/internal/config"
	"sheetform/internal/data"
	"sheetform/internal/form"
	"sheetform/internal/logging"
	"sheetform/internal/submitter"
	"sheetform/internal/transport"
)

const (
	ExitSuccess = 0
	ExitFailed  = 1
	ExitError   = 2
)

// fieldFlags collects repeated -field name=value flags in order.
type fieldFlags []form.Field

func (f *fieldFlags) String() string {
	parts := make([]string, len(*f))
	for i, field := range *f {
		parts[i] = fmt.Sprintf("%s=%v", field.Key, field.Value)
	}
	return strings.Join(parts, ",")
}

func (f *fieldFlags) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected name=value, got %q", value)
	}
	*f = append(*f, form.Field{Key: strings.TrimSpace(key), Value: val})
	return nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sheetform", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "path to YAML config file")
	endpoint := fs.String("endpoint", "", "script endpoint URL (overrides config and environment)")
	recordPath := fs.String("record", "", "path to a .json, .csv or .yaml file holding the record")
	row := fs.Int("row", 0, "index of the record to submit when the file holds several")
	require := fs.String("require", "", "comma-separated required fields (overrides config)")
	timeout := fs.Duration("timeout", 0, "request timeout (overrides config)")
	logFormat := fs.String("log-format", "", "log format: text, json (overrides config)")
	verbose := fs.Bool("verbose", false, "trace the outgoing request on stderr")
	var fields fieldFlags
	fs.Var(&fields, "field", "record field as name=value (repeatable)")

	if err := fs.Parse(args); err != nil {
		return ExitError
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return ExitError
		}
		cfg = loaded
	}

	// CLI flags override config file values
	if *endpoint != "" {
		cfg.Endpoint.URL = *endpoint
	}
	if *require != "" {
		cfg.Required = splitList(*require)
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	level := cfg.Log.Level
	if *verbose {
		level = "debug"
	}
	format := cfg.Log.Format
	if *logFormat != "" {
		format = *logFormat
	}

	logger, err := logging.Setup("sheetform", format, level, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	record, err := buildRecord(*recordPath, *row, fields)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}

	var debugLogger *transport.DebugLogger
	if *verbose {
		debugLogger = transport.NewDebugLogger(stderr)
	}

	s := submitter.New(submitter.Options{
		RequiredFields: cfg.Required,
		Transform:      cfg.Transform.Func(),
		Endpoint:       cfg.Endpoint,
		Sender: transport.NewHTTPSender(&http.Client{
			Timeout: cfg.Timeout,
		}, debugLogger),
		Overlap: submitter.Overlap(cfg.Overlap),
		Logger:  logger,
	})

	res := s.Submit(ctx, record)
	st := res.State
	if !st.Success {
		fmt.Fprintf(stderr, "error: %s\n", st.Error)
		if submitter.IsConfiguration(st.Err) {
			fmt.Fprintf(stderr, "hint: pass -endpoint or set %s\n", cfg.Endpoint.Env)
		}
		return ExitFailed
	}

	fmt.Fprintf(stdout, "submitted %s (%d fields) at %s\n", res.ID, record.Len(), time.Now().Format(time.RFC3339))
	return ExitSuccess
}

// buildRecord loads row idx from path (if set) and applies fields on top.
func buildRecord(path string, idx int, fields []form.Field) (*form.Record, error) {
	record := form.NewRecord()
	if path != "" {
		records, err := data.LoadRecords(path)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(records) {
			return nil, fmt.Errorf("-row %d out of range: %s has %d records", idx, path, len(records))
		}
		record = records[idx]
	}
	for _, f := range fields {
		record.Set(f.Key, f.Value)
	}
	return record, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
