package main

import (
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/corral/internal/logging"
	"github.com/danmuck/corral/internal/transport"
	"github.com/danmuck/corral/internal/wire"
)

const defaultTargetAddr = "127.0.0.1:9989"

func main() {
	logging.ConfigureRuntime("corralctl")
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "corralctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr       = flag.String("addr", defaultTargetAddr, "target address")
		serverName = flag.String("server-name", "localhost", "name the target certificate is validated against")
		caFile     = flag.String("ca", "", "path to an additional trust-anchor certificate (PEM)")
	)
	flag.Parse()

	if flag.NArg() != 2 {
		return fmt.Errorf("usage: corralctl [flags] start|stop <resource>")
	}
	op, resource := flag.Arg(0), flag.Arg(1)

	var msg wire.Message
	switch op {
	case "start":
		msg = wire.StartMessage{ResourceName: resource}
	case "stop":
		msg = wire.StopMessage{ResourceName: resource}
	default:
		return fmt.Errorf("unknown operation %q (want start or stop)", op)
	}

	var trustAnchor *x509.Certificate
	if *caFile != "" {
		anchor, err := loadTrustAnchor(*caFile)
		if err != nil {
			return err
		}
		trustAnchor = anchor
	}

	conn, err := transport.Dial(*addr, *serverName, trustAnchor)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Send(msg)
}

func loadTrustAnchor(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trust anchor: %w", err)
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("trust anchor %s: no certificate PEM block", path)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse trust anchor: %w", err)
	}
	return cert, nil
}
