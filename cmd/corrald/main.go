package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/corral/internal/logging"
	"github.com/danmuck/corral/internal/target"
	"github.com/danmuck/corral/internal/transport"
)

func main() {
	logging.ConfigureRuntime("corrald")
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "corrald: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		addr       = flag.String("addr", "", "socket address to bind to (default "+target.DefaultBindAddr+")")
		certFile   = flag.String("cert", "", "path to server certificate (PEM)")
		keyFile    = flag.String("key", "", "path to server private key (PEM)")
	)
	flag.Parse()

	cfg := target.DefaultConfig()
	if *configPath != "" {
		loaded, err := target.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnvOverrides()
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *certFile != "" {
		cfg.CertFile = *certFile
	}
	if *keyFile != "" {
		cfg.KeyFile = *keyFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	identity, err := cfg.LoadIdentity()
	if err != nil {
		return err
	}
	acceptor, err := transport.NewAcceptor(identity)
	if err != nil {
		return err
	}
	eng, err := target.BuildEngine(cfg)
	if err != nil {
		return err
	}

	return target.NewServer(cfg, acceptor, eng).Run()
}
