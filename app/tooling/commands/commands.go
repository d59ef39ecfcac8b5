// Package commands implements the session tooling subcommands. Each command
// parses its own flags and writes its result to the given writer as JSON.
package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}

// uuidArg reads the single positional uuid argument named name.
func uuidArg(fs *flag.FlagSet, name string) (uuid.UUID, error) {
	if fs.NArg() != 1 {
		return uuid.Nil, fmt.Errorf("usage: %s <%s>", fs.Name(), name)
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", name, fs.Arg(0), err)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
