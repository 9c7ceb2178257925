// Package notifier delivers desktop notifications through the dayspent tray
// app's local webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning means no tray process is available to show notifications.
var ErrTrayNotRunning = errors.New(constants.TrayAppExecutable + " is not running")

// Sender delivers a notification text.
type Sender interface {
	Notify(ctx context.Context, text string) error
}

type Notifier struct {
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Notifier {
	return &Notifier{
		client:     &http.Client{Timeout: 2 * time.Second},
		maxRetries: constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

// Notify locates the tray app and posts text to it, retrying transient failures.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	lock, err := locateTray()
	if err != nil {
		return err
	}
	payload := WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs}

	var lastErr error
	for attempt := 1; ; attempt++ {
		if lastErr = n.send(ctx, lock, payload); lastErr == nil {
			return nil
		}
		logger.Debug("notification attempt failed", "attempt", attempt, "error", lastErr)
		if attempt >= n.maxRetries {
			return fmt.Errorf("notification failed after %d attempts: %w", attempt, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.retryDelay):
		}
	}
}

// TargetReachedMessage is the text shown when a plan's target is met.
func TargetReachedMessage(activity string) string {
	return fmt.Sprintf("%s target reached", activity)
}

// GetTrayAppConfigDir returns the tray's config directory, or the
// lockfile_dir override from its settings.json.
func GetTrayAppConfigDir() (string, error) {
	base, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var doc struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &doc) == nil && doc.Settings.LockfileDir != "" {
		return doc.Settings.LockfileDir, nil
	}
	return dir, nil
}

// trayLock is the tray's "port|pid|secret" lockfile.
type trayLock struct {
	Port   int
	PID    int
	Secret string
}

func parseLockfile(data []byte) (trayLock, error) {
	parts := strings.Split(strings.TrimSpace(string(data)), "|")
	if len(parts) != 3 {
		return trayLock{}, errors.New("lockfile is malformed")
	}
	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return trayLock{}, fmt.Errorf("invalid port %q in lockfile", parts[0])
	}
	if port < 1 || port > 65535 {
		return trayLock{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return trayLock{}, fmt.Errorf("invalid process ID %q in lockfile", parts[1])
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return trayLock{}, errors.New("secret in lockfile is empty")
	}
	return trayLock{Port: port, PID: pid, Secret: secret}, nil
}

// locateTray reads the lockfile and confirms its pid belongs to the tray app.
func locateTray() (trayLock, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return trayLock{}, err
	}
	data, err := os.ReadFile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return trayLock{}, ErrTrayNotRunning
	}
	lock, err := parseLockfile(data)
	if err != nil {
		return trayLock{}, err
	}

	proc, err := findProcessFunc(lock.PID)
	if err != nil || proc == nil {
		return trayLock{}, ErrTrayNotRunning
	}
	if exe := proc.Executable(); !strings.HasPrefix(exe, constants.TrayAppExecutable) {
		return trayLock{}, fmt.Errorf("process %d is %s, not %s", lock.PID, exe, constants.TrayAppExecutable)
	}
	return lock, nil
}

func (n *Notifier) send(ctx context.Context, lock trayLock, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	endpoint := "http://127.0.0.1:" + strconv.Itoa(lock.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Dayspent-Secret", lock.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("tray responded %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
