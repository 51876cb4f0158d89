// Package instagram publishes finished clips through a headless
// browser session. It drives an already-authenticated browser
// profile; credential and login flows are out of scope.
package instagram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

type Publisher struct {
	profileDir string
	timeout    time.Duration
}

func New(profileDir string) *Publisher {
	return &Publisher{profileDir: profileDir, timeout: 2 * time.Minute}
}

// Publish uploads one clip with its caption. Best-effort: the caller
// treats failures as a rejected share, never as a pipeline error.
func (p *Publisher) Publish(ctx context.Context, videoPath, caption string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("instagram publish: %v", r)
		}
	}()

	l := launcher.New().Headless(true)
	if p.profileDir != "" {
		l = l.UserDataDir(p.profileDir)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	page := browser.MustPage("https://www.instagram.com/").Timeout(p.timeout)
	page.MustWaitLoad()

	// The create flow: new-post button, file chooser, caption, share.
	page.MustElement(`svg[aria-label="New post"]`).MustParent().MustClick()
	page.MustElement(`input[type="file"]`).MustSetFiles(videoPath)
	page.MustElementR("div[role=button]", "Next").MustClick()
	page.MustElementR("div[role=button]", "Next").MustClick()
	page.MustElement(`div[aria-label="Write a caption..."]`).MustInput(caption)
	page.MustElementR("div[role=button]", "Share").MustClick()
	page.MustWaitIdle()
	return nil
}
