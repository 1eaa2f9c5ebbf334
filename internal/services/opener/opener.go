package opener

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/gabrielcapilla/songdash/internal/logger"
	"github.com/gabrielcapilla/songdash/internal/ports"
)

var execCommand = exec.Command

// SystemOpener hands URLs to the desktop's default handler.
type SystemOpener struct {
	goos string
}

func NewSystemOpener() ports.URLOpener {
	return &SystemOpener{goos: runtime.GOOS}
}

func (o *SystemOpener) command(target string) (string, []string) {
	switch o.goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

func (o *SystemOpener) Open(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return errors.New("no link for this song")
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open %q: not an http(s) link", target)
	}

	name, args := o.command(target)
	cmd := execCommand(name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not start %s: %w", name, err)
	}
	logger.Log.Info().Str("opener", name).Str("url", target).Msg("Opening external link")

	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Log.Warn().Err(err).Str("stderr", strings.TrimSpace(stderr.String())).Msg("URL opener exited with an error")
		}
	}()
	return nil
}
