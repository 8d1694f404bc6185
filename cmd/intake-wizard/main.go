// Command intake-wizard walks the quote form in the terminal and submits it
// to a running gateway.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/wizard"
	"github.com/goliatone/go-intake/pkg/wizard/tui"
)

func main() {
	gatewayURL := flag.String("gateway", "http://localhost:8080/api/contact", "gateway submission endpoint")
	catalogPath := flag.String("catalog", "", "catalog YAML path (embedded catalog if empty)")
	preselect := flag.String("package", "", "preselect a package by id and skip the package step")
	flag.Parse()

	cat := catalog.Default()
	if *catalogPath != "" {
		loaded, err := catalog.LoadFile(*catalogPath)
		if err != nil {
			log.Fatalf("load catalog: %v", err)
		}
		cat = loaded
	}

	submitter, err := wizard.NewHTTPSubmitter(*gatewayURL)
	if err != nil {
		log.Fatalf("invalid gateway: %v", err)
	}

	var opts []wizard.Option
	if *preselect != "" {
		if _, ok := cat.Package(*preselect); !ok {
			log.Fatalf("unknown package %q", *preselect)
		}
		opts = append(opts, wizard.WithPreselectedPackage(*preselect))
	}

	w, err := wizard.New(cat, submitter, opts...)
	if err != nil {
		log.Fatalf("create wizard: %v", err)
	}

	runner, err := tui.NewRunner(w, cat)
	if err != nil {
		log.Fatalf("create runner: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Println("cancelled")
			os.Exit(1)
		}
		log.Fatalf("wizard failed: %v", err)
	}
}
