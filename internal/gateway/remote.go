package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sm2control/backend/pkg/logger"
)

// Remote forwards every operation to an external HTTP endpoint as a GET
// request: {base}?action=<op>&args=<JSON array>&t=<unix millis>. The cache
// buster keeps intermediaries from replaying stale reads.
type Remote struct {
	baseURL string
	client  *http.Client
}

// remoteEnvelope is the response wrapper most endpoints send. Success is a
// pointer so a payload without the wrapper can be told apart from a failure.
type remoteEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func NewRemote(baseURL string) *Remote {
	return &Remote{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Remote) Invoke(ctx context.Context, op string, args ...any) (json.RawMessage, error) {
	encodedArgs, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode args for %s: %w", op, err)
	}

	q := url.Values{}
	q.Set("action", op)
	q.Set("args", string(encodedArgs))
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", op, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn().Str("op", op).Int("status", resp.StatusCode).Msg("gateway returned non-2xx")
		return nil, fmt.Errorf("gateway %s: HTTP %d", op, resp.StatusCode)
	}

	var env remoteEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Success == nil {
		// Bare payload without the wrapper.
		return json.RawMessage(body), nil
	}
	if !*env.Success {
		if env.Message == "" {
			env.Message = "gateway operation failed"
		}
		return nil, fmt.Errorf("gateway %s: %s", op, env.Message)
	}
	return env.Data, nil
}
