package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/formrobot/formrobot/internal/api"
	"github.com/formrobot/formrobot/internal/browser/chrome"
	"github.com/formrobot/formrobot/internal/config"
	"github.com/formrobot/formrobot/internal/driver/cdp"
	"github.com/formrobot/formrobot/internal/keyword"
	"github.com/formrobot/formrobot/internal/runner"
)

type LogFormatter struct {
}

func (m *LogFormatter) Format(entry *log.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	timestamp := entry.Time.Format("2006-01-02 15:04:05")
	var newLog string
	newLog = fmt.Sprintf("[%s] [%s] [%s:%d] %s\n", timestamp, entry.Level, path.Base(entry.Caller.File), entry.Caller.Line, entry.Message)

	b.WriteString(newLog)
	return b.Bytes(), nil
}

func init() {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
	log.SetReportCaller(true)
	log.SetFormatter(&LogFormatter{})
}

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Load configuration error: %v", err)
		return
	}
	if !cfg.Debug {
		log.SetLevel(log.InfoLevel)
	}

	log.Info("Starting Form Robot keyword server...")

	browserManager, err := chrome.NewManager(cfg)
	if err != nil {
		log.Fatalf("could not create browser manager: %v", err)
		return
	}
	defer func() {
		log.Debugf("Closing browser manager...")
		if err = browserManager.Close(); err != nil {
			log.Debugf("Error closing browser manager: %v", err)
		}
	}()

	if err = browserManager.LaunchBrowserAndContext(); err != nil {
		log.Fatalf("could not launch browser and context: %v", err)
		return
	}

	log.Debugf("Browser and context launched successfully. Creating a new page...")

	if cfg.Target.ClearCookies {
		if err = browserManager.ClearBrowserCookies(); err != nil {
			log.Warnf("could not clear browser cookies: %v", err)
		}
	}

	page, err := browserManager.NewPage(cfg.Target.URL)
	if err != nil {
		log.Fatalf("could not create page: %v", err)
		return
	}
	defer page.Close()

	if cfg.Target.StateFile != "" {
		if err = page.LoadState(cfg.Target.StateFile); err != nil {
			log.Warnf("could not load page state: %v", err)
		}
	}

	library := keyword.New(cdp.NewPage(page.Context()))

	runnerManager, err := runner.NewManager(cfg.Suites.Dir, library, cfg.Debug)
	if err != nil {
		log.Fatalf("could not load keyword suites: %v", err)
		return
	}

	if cfg.Suites.Init != "" {
		if err = runnerManager.Run(cfg.Suites.Init); err != nil {
			log.Errorf("init suite failed: %v", err)
		} else {
			log.Debugf("init suite executed.")
		}
	}

	apiConfig := &api.ServerConfig{
		Port:    cfg.APIPort,
		Debug:   cfg.Debug,
		Version: cfg.Version,
		Runner:  runnerManager,
		Library: library,
		Page:    page,
	}
	apiServer := api.NewServer(apiConfig)

	go func() {
		log.Infof("Starting API server on port %s", apiConfig.Port)
		if err = apiServer.Start(); err != nil {
			log.Fatalf("API server failed to start: %v", err)
			return
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Debugf("Received shutdown signal. Cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err = apiServer.Stop(ctx); err != nil {
		log.Debugf("Error stopping API server: %v", err)
	}

	if cfg.Target.StateFile != "" {
		if err = page.SaveState(cfg.Target.StateFile); err != nil {
			log.Debugf("Error saving page state: %v", err)
		}
	}

	log.Debugf("Cleanup completed. Exiting...")
}
