// Command sheetserver runs a local stand-in for the spreadsheet script
// endpoint, for trying sheetform without deploying a script.
//
// Usage:
//
//	sheetserver [flags]
//
// Flags:
//
//	-port        Port to listen on (default: 8080)
//	-host        Host to bind to (default: localhost)
//	-log-format  text or json (default: text)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sheetform/internal/logging"
	"sheetform/sheet"
)

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	host := flag.String("host", "localhost", "host to bind to")
	logFormat := flag.String("log-format", "text", "log format: text, json")
	flag.Parse()

	logger, err := logging.Setup("sheetserver", *logFormat, "info", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	srv := sheet.NewServer(logger)
	addr := fmt.Sprintf("%s:%d", *host, *port)

	fmt.Println("Sheet Stand-in Server")
	fmt.Println("=====================")
	fmt.Printf("Listening on http://%s\n\n", addr)
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /health                          - Health check")
	fmt.Println("  GET  /exec?name=..&email=..&age=..    - Append a row")
	fmt.Println("  GET  /exec?test=true                  - Connectivity check, no row")
	fmt.Println("  GET  /exec?debug=true                 - Echo parameters, no row")
	fmt.Println()
	fmt.Printf("Point sheetform at it with GOOGLE_SCRIPT_URL=http://%s/exec\n\n", addr)

	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("listen failed", "addr", addr, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := selfCheck("http://" + ln.Addr().String() + "/exec"); err != nil {
			logger.Warn("self-check failed", "error", err)
			return
		}
		logger.Info("self-check passed", "addr", ln.Addr().String())
	}()

	if err := serve(ctx, httpServer, ln, 5*time.Second); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped", "rows", len(srv.Rows()))
}

// serve runs httpServer on ln until ctx is done, then gives in-flight
// requests up to grace to finish. It returns only after the drain ends.
func serve(ctx context.Context, httpServer *http.Server, ln net.Listener, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	return err
}

// selfCheck sends the test=true request a deployed script also answers and
// checks the envelope that comes back.
func selfCheck(execURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(execURL + "?test=true")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	env, err := sheet.DecodeEnvelope(body)
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("endpoint answered with error %q", env.Error)
	}
	return nil
}
