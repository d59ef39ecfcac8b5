package commands

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/jrazmi/sessions/app/sessions/config"
)

// Bootstrap creates the session table in the configured store.
func Bootstrap(ctx context.Context, w io.Writer, cfg *config.Sessions, args []string) error {
	fs := newFlagSet("bootstrap", w)
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := cfg.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap %s: %w", cfg.Storage.Backend, err)
	}
	return writeJSON(w, map[string]string{"store": cfg.Storage.Backend, "status": "ready"})
}

type serviceStatus struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// Status checks every configured datastore and fails when one is down.
func Status(ctx context.Context, w io.Writer, cfg *config.Sessions, args []string) error {
	fs := newFlagSet("status", w)
	if err := parse(fs, args); err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Checks))
	for name := range cfg.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	var failed int
	out := make([]serviceStatus, 0, len(names))
	for _, name := range names {
		st := serviceStatus{Service: name, Status: "ok"}
		if err := cfg.Checks[name](ctx); err != nil {
			st.Status = "unavailable"
			st.Error = err.Error()
			failed++
		}
		out = append(out, st)
	}

	if err := writeJSON(w, out); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d services unavailable", failed, len(names))
	}
	return nil
}
