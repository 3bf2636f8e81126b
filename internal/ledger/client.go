package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/config"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/apperrors"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/logger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/metrics"
	"golang.org/x/time/rate"
)

// Runner executes one external command and returns its stdout. Failures
// must carry the command's stderr so callers can log what the peer said.
type Runner interface {
	Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", err, msg)
	}
	return stdout.Bytes(), nil
}

// Client drives the chaincode through the opaque peer CLI submit/query
// interface. It owns no business state; every durable effect lives on
// the ledger.
type Client struct {
	cfg     config.FabricConfig
	runner  Runner
	limiter *rate.Limiter
	timeout time.Duration
}

type Option func(*Client)

// WithRunner replaces the exec-backed runner, used by tests.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

func NewClient(cfg config.FabricConfig, opts ...Option) *Client {
	timeout := time.Duration(cfg.InvokeTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.InvokeQPS > 0 {
		limit = rate.Limit(cfg.InvokeQPS)
	}

	c := &Client{
		cfg:     cfg,
		runner:  execRunner{},
		limiter: rate.NewLimiter(limit, 1),
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// constructorPayload builds the {"Args":[...]} JSON the peer CLI expects.
func constructorPayload(function string, args []string) (string, error) {
	payload := struct {
		Args []string `json:"Args"`
	}{Args: append([]string{function}, args...)}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chaincode args: %w", err)
	}
	return string(b), nil
}

func (c *Client) env() []string {
	env := []string{
		"CORE_PEER_LOCALMSPID=" + c.cfg.LocalMSPID,
		"CORE_PEER_MSPCONFIGPATH=" + c.cfg.MSPConfigPath,
		"CORE_PEER_ADDRESS=" + c.cfg.PeerAddress,
		fmt.Sprintf("CORE_PEER_TLS_ENABLED=%t", c.cfg.TLSEnabled),
	}
	if c.cfg.PeerTLSRootCert != "" {
		env = append(env, "CORE_PEER_TLS_ROOTCERT_FILE="+c.cfg.PeerTLSRootCert)
	}
	return env
}

func (c *Client) invokeArgs(payload string) []string {
	args := []string{
		"chaincode", "invoke",
		"-o", c.cfg.OrdererAddress,
	}
	if c.cfg.OrdererTLSHostname != "" {
		args = append(args, "--ordererTLSHostnameOverride", c.cfg.OrdererTLSHostname)
	}
	if c.cfg.TLSEnabled {
		args = append(args, "--tls", "--cafile", c.cfg.OrdererCAFile)
	}
	args = append(args, "-C", c.cfg.Channel, "-n", c.cfg.Chaincode)
	for _, peer := range c.cfg.Peers {
		args = append(args, "--peerAddresses", peer.Address)
		if peer.TLSRootCert != "" {
			args = append(args, "--tlsRootCertFiles", peer.TLSRootCert)
		}
	}
	args = append(args, "-c", payload, "--waitForEvent")
	return args
}

func (c *Client) queryArgs(payload string) []string {
	return []string{
		"chaincode", "query",
		"-C", c.cfg.Channel,
		"-n", c.cfg.Chaincode,
		"-c", payload,
	}
}

// Submit issues a state-changing chaincode transaction and waits for the
// commit event. Submissions pass through the rate limiter so the harness
// does not flood the ordering service.
func (c *Client) Submit(ctx context.Context, function string, args ...string) error {
	payload, err := constructorPayload(function, args)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	_, err = c.runner.Run(callCtx, c.env(), "peer", c.invokeArgs(payload)...)
	metrics.InvokeLatency.WithLabelValues(function).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InvokesTotal.WithLabelValues(function, "error").Inc()
		return apperrors.NewInvokeFailed(fmt.Sprintf("invoke %s failed", function), err)
	}
	metrics.InvokesTotal.WithLabelValues(function, "ok").Inc()
	logger.Debug("chaincode invoke committed", "function", function)
	return nil
}

// Query issues a read-only chaincode evaluation on the local peer and
// returns its trimmed stdout.
func (c *Client) Query(ctx context.Context, function string, args ...string) (string, error) {
	payload, err := constructorPayload(function, args)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out, err := c.runner.Run(callCtx, c.env(), "peer", c.queryArgs(payload)...)
	metrics.InvokeLatency.WithLabelValues(function).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InvokesTotal.WithLabelValues(function, "error").Inc()
		return "", apperrors.NewQueryFailed(fmt.Sprintf("query %s failed", function), err)
	}
	metrics.InvokesTotal.WithLabelValues(function, "ok").Inc()
	return strings.TrimSpace(string(out)), nil
}
