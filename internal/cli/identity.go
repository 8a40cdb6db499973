package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// identityFlag registers a persistent identity flag whose default comes from
// the environment-backed config.
func identityFlag(fs *pflag.FlagSet, p *string, name, env, fallback, usage string) {
	fs.StringVar(p, name, fallback, fmt.Sprintf("%s (defaults to $%s)", usage, env))
}

func requireIdentity(value, flag, env string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("--%s (or %s) is required", flag, env)
	}
	return value, nil
}
