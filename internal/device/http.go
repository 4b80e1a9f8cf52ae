package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cup_controller/internal/models"
)

const (
	defaultRequestTimeout = 10 * time.Second
	maxStatusBody         = 4 << 10 // 4 KB
)

// HTTPTransport drives a relay board with GET /on/{ch}, /off/{ch} and /status/{ch}.
type HTTPTransport struct {
	baseURL string
	channel int
	client  *http.Client
}

// NewHTTPTransport builds a transport for the board at baseURL.
// timeout <= 0 selects the 10s default.
func NewHTTPTransport(baseURL string, channel int, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if channel < 1 {
		channel = 1
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		channel: channel,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ Transport = (*HTTPTransport)(nil)

// Simulated is always false for the HTTP transport.
func (t *HTTPTransport) Simulated() bool { return false }

func (t *HTTPTransport) switchURL(state models.CupState) string {
	verb := "off"
	if state == models.CupOpen {
		verb = "on"
	}
	return fmt.Sprintf("%s/%s/%d", t.baseURL, verb, t.channel)
}

// Switch maps open to /on and closed to /off. Anything but 200 is a failure.
func (t *HTTPTransport) Switch(ctx context.Context, state models.CupState) error {
	if !state.Valid() {
		return ErrUnknownState
	}
	resp, err := t.get(ctx, t.switchURL(state))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxStatusBody))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed with status %d", resp.StatusCode)
	}
	return nil
}

// Probe reads /status/{ch}.
func (t *HTTPTransport) Probe(ctx context.Context) (models.CupState, error) {
	resp, err := t.get(ctx, fmt.Sprintf("%s/status/%d", t.baseURL, t.channel))
	if err != nil {
		return models.CupUnknown, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return models.CupUnknown, fmt.Errorf("failed with status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBody))
	if err != nil {
		return models.CupUnknown, fmt.Errorf("read relay status: %w", err)
	}
	return parseRelayState(body)
}

func (t *HTTPTransport) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", url, err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	return resp, nil
}

// parseRelayState accepts a bare token ("on", "1", "off", ...) or a JSON
// object carrying it under "state" or "relay".
func parseRelayState(body []byte) (models.CupState, error) {
	raw := strings.TrimSpace(string(body))
	if strings.HasPrefix(raw, "{") {
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return models.CupUnknown, fmt.Errorf("%w: %v", ErrUnreadableState, err)
		}
		for _, key := range []string{"state", "relay"} {
			if v, ok := obj[key]; ok {
				raw = fmt.Sprint(v)
				break
			}
		}
	}

	switch strings.ToLower(strings.Trim(raw, `" `)) {
	case "on", "1", "true", "open":
		return models.CupOpen, nil
	case "off", "0", "false", "closed":
		return models.CupClosed, nil
	default:
		return models.CupUnknown, fmt.Errorf("%w: %q", ErrUnreadableState, raw)
	}
}
