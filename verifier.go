package guard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

// VerifyPinProcedure is the remote procedure checked during login.
const VerifyPinProcedure = "verify_access_pin"

var _ Verifier = &RPCVerifier{}

// RPCConfig configures the remote verifier endpoint.
type RPCConfig struct {
	// URL is the project base URL, e.g. https://project.example.co
	URL string `env:"GUARD_VERIFIER_URL"`
	// AnonKey is sent as both the apikey header and the bearer token.
	AnonKey string `env:"GUARD_VERIFIER_ANON_KEY"`
}

// RPCConfigFromEnv loads the verifier configuration from the environment.
func RPCConfigFromEnv() (RPCConfig, error) {
	var cfg RPCConfig
	if err := env.Parse(&cfg); err != nil {
		return RPCConfig{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse verifier config")
	}
	return cfg, nil
}

// RPCVerifier calls a PostgREST style RPC endpoint:
// POST {url}/rest/v1/rpc/verify_access_pin with {"p_slug":..., "p_pin":...}.
//
// The default client carries no timeout: a hung remote call hangs the login
// flow. Callers that need a bound should inject an http.Client with one, or
// cancel through the request context.
type RPCVerifier struct {
	cfg    RPCConfig
	client *http.Client
	logger Logger
}

// RPCVerifierOption customizes an RPCVerifier.
type RPCVerifierOption func(*RPCVerifier)

// WithHTTPClient overrides the HTTP client used for the verification call.
func WithHTTPClient(client *http.Client) RPCVerifierOption {
	return func(v *RPCVerifier) {
		if client != nil {
			v.client = client
		}
	}
}

// WithVerifierLogger overrides the verifier logger.
func WithVerifierLogger(logger Logger) RPCVerifierOption {
	return func(v *RPCVerifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewRPCVerifier creates a verifier for the given endpoint configuration.
func NewRPCVerifier(cfg RPCConfig, opts ...RPCVerifierOption) *RPCVerifier {
	v := &RPCVerifier{
		cfg:    cfg,
		client: &http.Client{},
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	return v
}

type verifyPinRequest struct {
	Slug string `json:"p_slug"`
	PIN  string `json:"p_pin"`
}

// remoteError is the PostgREST error envelope.
type remoteError struct {
	Message string `json:"message"`
}

// VerifyAccessPin issues the remote verification call. Transport and
// remote-side failures return an error; a reachable verifier that produced an
// unusable payload returns (nil, nil) so the caller treats it as a denial.
func (v *RPCVerifier) VerifyAccessPin(ctx context.Context, slug, pin string) (*VerifyResult, error) {
	body, err := json.Marshal(verifyPinRequest{Slug: slug, PIN: pin})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to encode verification payload")
	}

	endpoint := strings.TrimSuffix(v.cfg.URL, "/") + "/rest/v1/rpc/" + VerifyPinProcedure
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to build verification request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", v.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+v.cfg.AnonKey)

	res, err := v.client.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "verification call failed")
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to read verification response")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		remote := remoteError{}
		if err := json.Unmarshal(payload, &remote); err == nil && remote.Message != "" {
			return nil, goerrors.New(remote.Message, goerrors.CategoryOperation).
				WithTextCode(textCodeRemoteVerification)
		}
		return nil, goerrors.New(
			fmt.Sprintf("verification call returned status %d", res.StatusCode),
			goerrors.CategoryOperation,
		).WithTextCode(textCodeRemoteVerification)
	}

	return decodeVerifyPayload(payload), nil
}

// decodeVerifyPayload deserializes the remote result exactly once: the
// verifier may answer with a structured object or with a double-encoded JSON
// string. Anything unusable becomes nil rather than an error; the login path
// maps nil to an invalid-credentials denial.
func decodeVerifyPayload(payload []byte) *VerifyResult {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil
		}
		trimmed = []byte(inner)
	}

	result := new(VerifyResult)
	if err := json.Unmarshal(trimmed, result); err != nil {
		return nil
	}

	return result
}
