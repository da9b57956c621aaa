/*
author: akashmaji
email: akashmaji@iisc.ac.in
file: statedb/cmd/statedb/main.go
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/namitkewat/statedb/internal/server"
)

const banner = `>>> StateDB <<<`

const defaultAddress = "127.0.0.1"
const defaultPort = 8080

func main() {
	var (
		address     string
		port        int
		showHelp    bool
		showHelpAlt bool
	)

	fs := flag.NewFlagSet("statedb", flag.ExitOnError)
	fs.StringVar(&address, "address", defaultAddress, "listen address")
	fs.StringVar(&address, "a", defaultAddress, "listen address (shorthand)")
	fs.IntVar(&port, "port", defaultPort, "listen port")
	fs.IntVar(&port, "p", defaultPort, "listen port (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "print usage and exit")
	fs.BoolVar(&showHelpAlt, "h", false, "print usage and exit (shorthand)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: statedb [-a|--address ADDR] [-p|--port PORT]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if showHelp || showHelpAlt {
		fs.Usage()
		os.Exit(0)
	}

	fmt.Println(banner)

	srv := server.New()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received, closing listener and connections")
		srv.Shutdown()
	}()

	addr := net.JoinHostPort(address, fmt.Sprint(port))
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("cannot listen on %s: %v", addr, err)
	}

	log.Println("shutdown complete")
}
