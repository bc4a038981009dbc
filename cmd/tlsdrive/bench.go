package main

import (
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sara-star-quant/tls-handshake/pkg/handshake"
)

func runBench(handshakes int) {
	fmt.Println("tlsdrive handshake benchmark")
	fmt.Println()

	if handshakes <= 0 {
		fmt.Println("nothing to do: --handshakes must be > 0")
		os.Exit(1)
	}

	benchHandshakes(handshakes)
}

func benchHandshakes(count int) {
	fmt.Printf("Benchmarking handshakes (%d iterations)\n", count)
	fmt.Println(strings.Repeat("-", 60))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to listen: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = listener.Close() }()

	addr := listener.Addr().String()
	fmt.Printf("test setup: %s\n\n", addr)

	durations := make([]time.Duration, count)
	failed := 0

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < count; i++ {
			conn, err := listener.Accept()
			if err != nil {
				continue
			}
			srv := handshake.New(handshake.ModeServer, conn)
			_, _ = handshake.Negotiate(srv)
			_ = conn.Close()
		}
	}()

	start := time.Now()
	for i := 0; i < count; i++ {
		handshakeStart := time.Now()

		conn, err := net.Dial("tcp", addr)
		if err != nil {
			failed++
			continue
		}

		client := handshake.New(handshake.ModeClient, conn)
		if _, err := handshake.Negotiate(client); err != nil {
			failed++
			_ = conn.Close()
			continue
		}
		durations[i] = time.Since(handshakeStart)
		_ = conn.Close()

		step := count / 10
		if step == 0 {
			step = 1
		}
		if (i+1)%step == 0 || i == count-1 {
			fmt.Printf("progress: %d/%d (%.0f%%)\r", i+1, count, float64(i+1)/float64(count)*100)
		}
	}
	fmt.Println()

	wg.Wait()
	total := time.Since(start)

	successful := count - failed
	printHandshakeResults(count, successful, failed, total, durations)
}

func printHandshakeResults(total, successful, failed int, totalTime time.Duration, durations []time.Duration) {
	if failed == total {
		fmt.Fprintln(os.Stderr, "all handshakes failed")
		os.Exit(1)
	}

	var sum, min, max time.Duration
	min = time.Hour

	for _, d := range durations {
		if d == 0 {
			continue
		}
		sum += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}

	avg := sum / time.Duration(successful)

	fmt.Println()
	fmt.Println("Results:")
	fmt.Printf("  Total handshakes: %d\n", total)
	fmt.Printf("  Successful: %d\n", successful)
	fmt.Printf("  Failed: %d\n", failed)
	fmt.Printf("  Total time: %v\n", totalTime)
	fmt.Println()
	fmt.Println("Handshake performance:")
	fmt.Printf("  Average: %v\n", avg)
	fmt.Printf("  Minimum: %v\n", min)
	fmt.Printf("  Maximum: %v\n", max)
	fmt.Printf("  Throughput: %.2f handshakes/sec\n", float64(successful)/totalTime.Seconds())
}
