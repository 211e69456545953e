// Command savesession opens a headed browser on the platform login page,
// waits for a manual login, then persists the authenticated cookies to the
// session state file the executor restores on startup.
//
// Run it once before starting the executor, and again whenever the platform
// invalidates the stored session.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"po-executor/internal/browser"
	"po-executor/internal/config"
	"po-executor/internal/logger"
)

func main() {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	path := os.Getenv("EXECUTOR_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal(err)
		}
		cfg = config.Default()
	}

	sess := browser.New(browser.Options{
		Headless:         false,
		UserAgent:        cfg.Browser.UserAgent,
		SessionStatePath: cfg.Browser.SessionStatePath,
		ScreenshotDir:    cfg.Browser.ScreenshotDir,
		DefaultTimeout:   cfg.BrowserTimeout(),
	})
	if err := sess.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, cfg.Platform.LoginURL); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Log in to the platform in the opened browser window.")
	fmt.Println("When the trading dashboard is visible, press Enter here to save the session.")
	bufio.NewReader(os.Stdin).ReadString('\n')

	if err := sess.SaveState(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Session state saved to", cfg.Browser.SessionStatePath)
}
