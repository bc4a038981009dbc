package main

import (
	"flag"
	"fmt"
	"os"

	pkgversion "github.com/sara-star-quant/tls-handshake/pkg/version"
)

// Build-time variables (set via -ldflags)
var (
	buildVersion = "" // Set via -ldflags "-X main.buildVersion=x.y.z"
	buildTime    = "unknown"
	gitCommit    = "unknown"
)

func getVersion() string {
	if buildVersion != "" {
		return buildVersion
	}
	return pkgversion.String()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "demo":
		demoCommand()
	case "bench":
		benchCommand()
	case "version":
		fmt.Printf("tlsdrive version %s\n", getVersion())
		if buildTime != "unknown" {
			fmt.Printf("Built: %s\n", buildTime)
		}
		if gitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", gitCommit)
		}
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tlsdrive - TLS 1.0-1.2 Handshake Driver Demo & Benchmark Tool

USAGE:
    tlsdrive <command> [options]

COMMANDS:
    demo      Run an interactive client/server handshake demo
    bench     Run handshake-loop benchmarks
    version   Print version information
    help      Show this help message

Run 'tlsdrive <command> --help' for more information on a command.

EXAMPLES:
    # Start demo server
    tlsdrive demo --mode server --addr :8443

    # Connect demo client
    tlsdrive demo --mode client --addr localhost:8443

    # Run handshake benchmark
    tlsdrive bench --handshakes 100

PROJECT:
    tls-handshake - a record-layer-faithful TLS 1.0-1.2 handshake state
    machine, modeled on s2n-tls's state_machine[] driver, with a CH-KEM
    hybrid key-exchange collaborator in place of classical key exchange.`)
}

func demoCommand() {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	mode := fs.String("mode", "server", "Mode: server or client")
	addr := fs.String("addr", "localhost:8443", "Address to listen/connect")
	message := fs.String("message", "hello from tlsdrive", "Message to send (client mode); '-' for interactive")
	verbose := fs.Bool("verbose", false, "Verbose output")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error, silent")
	logFormat := fs.String("log-format", "text", "Log format: text or json")
	tracing := fs.String("tracing", "none", "Tracing mode: none, simple, otel (requires -tags otel)")

	fs.Usage = func() {
		fmt.Println(`USAGE: tlsdrive demo [options]

Run an interactive client/server demo of the handshake driver over plain
TCP, followed by an echo exchange once negotiation reaches HANDSHAKE_OVER.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    # Terminal 1: start server
    tlsdrive demo --mode server --addr :8443

    # Terminal 2: connect client
    tlsdrive demo --mode client --addr localhost:8443 --message "ping"

    # Verbose output (server prints completed-handshake count and sent replies)
    tlsdrive demo --mode server --addr :8443 --verbose`)
	}

	_ = fs.Parse(os.Args[2:])

	runDemo(*mode, *addr, *message, *verbose, *logLevel, *logFormat, *tracing)
}

func benchCommand() {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	handshakes := fs.Int("handshakes", 100, "Number of in-process handshakes to run")

	fs.Usage = func() {
		fmt.Println(`USAGE: tlsdrive bench [options]

Run repeated handshakes over loopback TCP, with client and server in this
process, and report min/avg/max latency and handshakes per second.

OPTIONS:`)
		fs.PrintDefaults()
		fmt.Println(`
EXAMPLES:
    # Benchmark 500 handshakes
    tlsdrive bench --handshakes 500`)
	}

	_ = fs.Parse(os.Args[2:])

	runBench(*handshakes)
}
