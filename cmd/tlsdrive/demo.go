package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sara-star-quant/tls-handshake/pkg/handshake"
	"github.com/sara-star-quant/tls-handshake/pkg/metrics"
)

func runDemo(mode, addr, message string, verbose bool, logLevel, logFormat, tracing string) {
	collector, logger, err := setupObservability(logLevel, logFormat, tracing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch mode {
	case "server":
		runDemoServer(addr, verbose, collector, logger)
	case "client":
		runDemoClient(addr, message, verbose, logger)
	default:
		fmt.Fprintf(os.Stderr, "Invalid mode: %s (use 'server' or 'client')\n", mode)
		os.Exit(1)
	}
}

func runDemoServer(addr string, verbose bool, collector *metrics.Collector, logger *metrics.Logger) {
	fmt.Println("tlsdrive demo server")
	fmt.Println("TLS 1.0-1.2 handshake driver, CH-KEM hybrid key exchange")
	fmt.Println()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to listen: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = listener.Close() }()

	fmt.Printf("listening on %s\n", listener.Addr())
	fmt.Println("waiting for connections... (Ctrl+C to stop)")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nshutting down")
		_ = listener.Close()
		os.Exit(0)
	}()

	connNum := 0
	for {
		connNum++
		conn, err := listener.Accept()
		if err != nil {
			fmt.Fprintf(os.Stderr, "accept error: %v\n", err)
			continue
		}
		fmt.Printf("[%s] connection #%d from %s\n", timestamp(), connNum, conn.RemoteAddr())
		go handleConnection(conn, connNum, verbose, collector, logger)
	}
}

func handleConnection(conn net.Conn, connNum int, verbose bool, collector *metrics.Collector, logger *metrics.Logger) {
	defer func() { _ = conn.Close() }()

	hs := handshake.New(handshake.ModeServer, conn)
	start := time.Now()

	if _, err := handshake.Negotiate(hs); err != nil {
		logger.Error("handshake failed", metrics.Fields{"conn": connNum, "error": err.Error()})
		fmt.Printf("[%s] [conn #%d] handshake failed: %v\n", timestamp(), connNum, err)
		return
	}

	fmt.Printf("[%s] [conn #%d] handshake complete in %v (cipher %v)\n",
		timestamp(), connNum, time.Since(start), hs.CipherSuite())
	if verbose {
		snap := collector.Snapshot()
		fmt.Printf("  handshakes completed so far: %d\n", snap.HandshakesCompleted)
	}

	for {
		data, err := hs.Receive()
		if err != nil {
			fmt.Printf("[%s] [conn #%d] client disconnected: %v\n", timestamp(), connNum, err)
			return
		}

		fmt.Printf("[%s] [conn #%d] <- received %q (%d bytes)\n", timestamp(), connNum, string(data), len(data))

		response := fmt.Sprintf("echo: %s", data)
		if err := hs.Send([]byte(response)); err != nil {
			fmt.Printf("[%s] [conn #%d] send error: %v\n", timestamp(), connNum, err)
			return
		}
		if verbose {
			fmt.Printf("[%s] [conn #%d] -> sent %q\n", timestamp(), connNum, response)
		}
	}
}

func runDemoClient(addr, message string, verbose bool, logger *metrics.Logger) {
	fmt.Println("tlsdrive demo client")
	fmt.Println()

	fmt.Printf("connecting to %s...\n", addr)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	start := time.Now()
	hs := handshake.New(handshake.ModeClient, conn)
	if _, err := handshake.Negotiate(hs); err != nil {
		logger.Error("handshake failed", metrics.Fields{"error": err.Error()})
		fmt.Fprintf(os.Stderr, "Error: handshake failed: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	fmt.Printf("connected (handshake took %v, cipher %v)\n", elapsed, hs.CipherSuite())
	fmt.Println()

	if message == "-" {
		fmt.Println("interactive mode (type messages, Ctrl+D to exit):")
		runInteractiveClient(hs, verbose)
		return
	}

	fmt.Printf("sending: %q\n", message)
	if err := hs.Send([]byte(message)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: send failed: %v\n", err)
		os.Exit(1)
	}

	response, err := hs.Receive()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: receive failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("received: %q\n", string(response))
}

func runInteractiveClient(hs *handshake.Connection, verbose bool) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		message := scanner.Text()
		if message == "" {
			continue
		}

		if err := hs.Send([]byte(message)); err != nil {
			fmt.Fprintf(os.Stderr, "send error: %v\n", err)
			return
		}

		response, err := hs.Receive()
		if err != nil {
			fmt.Fprintf(os.Stderr, "receive error: %v\n", err)
			return
		}
		fmt.Printf("< %s\n", string(response))
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
	}
}

func setupObservability(logLevel, logFormat, tracing string) (*metrics.Collector, *metrics.Logger, error) {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}

	format, err := parseLogFormat(logFormat)
	if err != nil {
		return nil, nil, err
	}

	logger := metrics.NewLogger(
		metrics.WithOutput(os.Stderr),
		metrics.WithLevel(level),
		metrics.WithFormat(format),
		metrics.WithFields(metrics.Fields{"app": "tlsdrive"}),
	)
	metrics.SetLogger(logger)

	switch strings.ToLower(tracing) {
	case "none":
		metrics.SetTracer(metrics.NoOpTracer{})
	case "simple":
		metrics.SetTracer(metrics.NewSimpleTracer())
	case "otel":
		if !metrics.OTelEnabled() {
			return nil, nil, fmt.Errorf("otel tracing not enabled (build with -tags otel)")
		}
		metrics.SetTracer(metrics.NewOTelTracer("tls-handshake"))
	default:
		return nil, nil, fmt.Errorf("invalid tracing mode: %s (use none, simple, or otel)", tracing)
	}

	collector := metrics.NewCollector(metrics.Labels{"service": "tlsdrive"})
	metrics.SetGlobal(collector)

	return collector, logger, nil
}

func parseLogLevel(level string) (metrics.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return metrics.LevelDebug, nil
	case "info":
		return metrics.LevelInfo, nil
	case "warn", "warning":
		return metrics.LevelWarn, nil
	case "error":
		return metrics.LevelError, nil
	case "silent", "off", "none":
		return metrics.LevelSilent, nil
	default:
		return metrics.LevelInfo, fmt.Errorf("invalid log level: %s (use debug, info, warn, error, silent)", level)
	}
}

func parseLogFormat(format string) (metrics.Format, error) {
	switch strings.ToLower(format) {
	case "text":
		return metrics.FormatText, nil
	case "json":
		return metrics.FormatJSON, nil
	default:
		return metrics.FormatText, fmt.Errorf("invalid log format: %s (use text or json)", format)
	}
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}
