// Package main is the interactive HumiTrack terminal client.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/HumiTrack/internal/client/catalog"
	"github.com/atinyakov/HumiTrack/internal/client/prompt"
	"github.com/atinyakov/HumiTrack/internal/client/remote"
	"github.com/atinyakov/HumiTrack/internal/client/session"
	"github.com/atinyakov/HumiTrack/internal/client/storage"
	"github.com/atinyakov/HumiTrack/internal/logger"
)

var (
	version   string
	buildDate string
)

// main parses command-line flags, wires the client components and runs the shell.
func main() {
	var (
		baseURL    string
		timeout    time.Duration
		reviewsDir string
		logLevel   string
		logFile    string
		showVer    bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	flag.StringVar(&reviewsDir, "reviews", "humitrack-reviews", "local review store directory")
	flag.StringVar(&logLevel, "l", "error", "log level")
	flag.StringVar(&logFile, "log-file", "", "rotated log file path")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("HumiTrack Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	var logOpts []logger.Option
	if logFile != "" {
		logOpts = append(logOpts, logger.WithFile(logFile, 10, 3))
	}
	lg := logger.New(logOpts...)
	if err := lg.Init(logLevel); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Log.Sync() }()

	reviews, err := storage.Open(reviewsDir)
	if err != nil {
		lg.Log.Fatal("cannot open review store", zap.Error(err))
	}
	defer reviews.Close()

	cat, err := catalog.Load()
	if err != nil {
		lg.Log.Fatal("cannot load catalog", zap.Error(err))
	}
	defer cat.Close()

	client := remote.New(baseURL, timeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := &shell{
		remote:  client,
		session: session.New(client, lg.Log),
		reviews: reviews,
		catalog: cat,
		prompt:  prompt.New(os.Stdin, os.Stdout),
		out:     os.Stdout,
	}
	sh.run(ctx)

	if client.Token() != "" {
		_ = client.SignOut(context.Background())
	}
}
