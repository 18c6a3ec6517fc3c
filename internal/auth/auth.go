// Package auth finds the API key for a provider. It only reads: keys are
// stored and rotated with the OS keychain tools, not here.
package auth

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const ServiceName = "batchsub"

// Source tells where a key was found.
type Source string

const (
	SourceConfig   Source = "config"
	SourceKeychain Source = "keychain"
	SourceEnv      Source = "environment"
	SourcePrompt   Source = "prompt"
)

// Account returns the keychain account name for provider.
func Account(provider string) string {
	return strings.ToLower(provider) + "-api-key"
}

// EnvVar returns the conventional environment variable for provider.
func EnvVar(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}

// Resolver looks a key up in order: configured value, keychain, environment
// (when AllowEnv), interactive prompt (when Prompt is set).
type Resolver struct {
	Keychain func(service, account string) (string, error)
	Getenv   func(string) string
	Prompt   func(label string) (string, error)
	AllowEnv bool
}

// DefaultResolver uses the OS keychain, the process environment and, when
// stdin is a terminal, a hidden prompt on stderr.
func DefaultResolver(allowEnv bool) Resolver {
	r := Resolver{
		Keychain: keyring.Get,
		Getenv:   os.Getenv,
		AllowEnv: allowEnv,
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		r.Prompt = func(label string) (string, error) {
			return PromptForAPIKey(os.Stderr, label)
		}
	}
	return r
}

// Resolve returns the key for provider and where it came from.
func (r Resolver) Resolve(provider, configured string) (string, Source, error) {
	if key := strings.TrimSpace(configured); key != "" {
		return key, SourceConfig, nil
	}
	if r.Keychain != nil {
		key, err := r.Keychain(ServiceName, Account(provider))
		if err == nil && strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), SourceKeychain, nil
		}
	}
	if r.AllowEnv && r.Getenv != nil {
		if key := strings.TrimSpace(r.Getenv(EnvVar(provider))); key != "" {
			return key, SourceEnv, nil
		}
	}
	if r.Prompt != nil {
		key, err := r.Prompt(fmt.Sprintf("Enter %s API key: ", provider))
		if err != nil {
			return "", "", apperrors.New(apperrors.KindAuth, "API key prompt failed.", err)
		}
		if key = strings.TrimSpace(key); key != "" {
			return key, SourcePrompt, nil
		}
	}
	hint := fmt.Sprintf("set api_key in the config, store it in the keychain (service %q, account %q), or pass --allow-env with %s",
		ServiceName, Account(provider), EnvVar(provider))
	return "", "", apperrors.New(apperrors.KindAuth, "No API key found: "+hint+".", errors.New("api key not found"))
}

// PromptForAPIKey reads a key from the terminal without echo.
func PromptForAPIKey(out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
