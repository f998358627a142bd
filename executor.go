package supagrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnsupported is returned by an Executor that cannot execute arbitrary
// SQL at its permission level. The Runner treats it as a soft failure and
// switches to manual guidance rather than aborting the run.
var ErrUnsupported = errors.New("capability cannot execute arbitrary SQL")

// Executor is the remote execution capability a Runner drives.
type Executor interface {
	// ExecSQL submits a single SQL statement for execution.
	ExecSQL(ctx context.Context, stmt string) error

	// Probe issues a harmless read-only call used solely as a capability
	// test. It must never modify state.
	Probe(ctx context.Context) error
}

// execSQLFunction is the RPC function name the REST path submits statements
// through. Projects that have not installed it answer with a PostgREST
// "function not found" error, which surfaces as ErrUnsupported.
const execSQLFunction = "exec_sql"

// RESTExecutor executes statements through the project's PostgREST RPC
// endpoint, authenticating with the service-role key.
type RESTExecutor struct {
	cfg    Config
	client *http.Client
}

// NewRESTExecutor creates a RESTExecutor for the configured project.
func NewRESTExecutor(cfg Config) *RESTExecutor {
	return &RESTExecutor{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// ExecSQL POSTs {"sql": stmt} to /rest/v1/rpc/exec_sql.
func (e *RESTExecutor) ExecSQL(ctx context.Context, stmt string) error {
	body, err := json.Marshal(map[string]string{"sql": stmt})
	if err != nil {
		return fmt.Errorf("encode exec_sql payload: %w", err)
	}
	endpoint := fmt.Sprintf("%s/rest/v1/rpc/%s", e.cfg.ProjectURL, execSQLFunction)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build exec_sql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	e.authorize(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("exec_sql request failed: %w", err)
	}
	defer resp.Body.Close()
	return e.checkResponse(resp, "exec_sql")
}

// Probe requests zero rows from the configured probe table. The query never
// returns data; a success only proves the REST surface answers queries.
func (e *RESTExecutor) Probe(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?select=%s&limit=0",
		e.cfg.ProjectURL, url.PathEscape(e.cfg.ProbeTable), url.QueryEscape("*"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	e.authorize(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe request failed: %w", err)
	}
	defer resp.Body.Close()
	return e.checkResponse(resp, "probe")
}

func (e *RESTExecutor) authorize(req *http.Request) {
	req.Header.Set("apikey", e.cfg.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+e.cfg.ServiceKey)
}

// checkResponse maps a PostgREST response to the error taxonomy. A missing
// RPC function (404, or error code PGRST202 in the body) means the project
// does not permit arbitrary statement execution: that is ErrUnsupported, not
// a hard failure.
func (e *RESTExecutor) checkResponse(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode == http.StatusNotFound || strings.Contains(string(snippet), "PGRST202") {
		return fmt.Errorf("%w: %s returned %d", ErrUnsupported, op, resp.StatusCode)
	}
	return fmt.Errorf("%s returned %d: %s", op, resp.StatusCode, strings.TrimSpace(string(snippet)))
}
