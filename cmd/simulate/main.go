// Command simulate loads a declarative model graph document and runs it
// until its actors settle or the process is interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/gmto-dos/actorflow/internal/config"
	stdlog "github.com/gmto-dos/actorflow/internal/log"
	actormetrics "github.com/gmto-dos/actorflow/internal/metrics"
	_ "github.com/gmto-dos/actorflow/internal/stdclients"
)

func main() {
	graphPath := flag.String("graph", "", "path to a model graph document (JSON or YAML)")
	configPath := flag.String("config", "", "path to a global config file (optional)")
	metricsAddr := flag.String("metrics-listen", "", "override the metrics server listen address")
	flag.Parse()

	log := logrus.StandardLogger()

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "error: -graph is required")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("failed to load config")
		}
		cfg = *loaded
	}
	if *metricsAddr != "" {
		cfg.Metrics.Listen = *metricsAddr
	}

	applyLogLevel(log, cfg.Log.Level)
	if err := stdlog.Init(cfg.Log); err != nil {
		log.WithError(err).Warn("failed to init structured logger, continuing with stdout")
	}

	data, err := os.ReadFile(*graphPath)
	if err != nil {
		log.WithError(err).Fatal("failed to read graph document")
	}
	doc, err := config.ParseModelGraphAuto(data, filepath.Base(*graphPath))
	if err != nil {
		log.WithError(err).Fatal("failed to parse graph document")
	}

	m, err := config.Build(doc, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build model")
	}
	if err := m.Check(); err != nil {
		log.WithError(err).Fatal("model failed validation")
	}

	deadline, err := cfg.Simulation.TickDeadlineDuration()
	if err != nil {
		log.WithError(err).Fatal("invalid tick deadline")
	}
	if deadline > 0 {
		for _, a := range m.Actors() {
			a.SetTickDeadline(deadline)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Metrics.Enabled && cfg.Metrics.Listen != "" {
		srv := actormetrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		if err := srv.Start(ctx); err != nil {
			log.WithError(err).Warn("metrics server failed to start")
		}
		defer srv.Stop(context.Background())
	}

	log.WithField("model", doc.Name).Info("starting simulation")
	if err := m.Run(ctx); err != nil {
		log.WithError(err).Fatal("failed to start model")
	}

	if err := m.Wait(); err != nil {
		log.WithError(err).Warn("simulation ended with errors")
		os.Exit(1)
	}
	log.Info("simulation completed")
}

func applyLogLevel(log *logrus.Logger, level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return
	}
	log.SetLevel(parsed)
}
