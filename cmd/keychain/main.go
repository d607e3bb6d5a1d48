// Command keychain reads and writes secrets of one service through the
// configured vault backend.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-keychain-store/internal/logger"
	"github.com/MKhiriev/go-keychain-store/keychain"
	"github.com/MKhiriev/go-keychain-store/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitNotFound = 3
)

const usage = `usage: keychain [-config path] [-v] <command> [args]

commands:
  get KEY           print the value stored under KEY
  set KEY [VALUE]   store VALUE, or stdin when omitted, under KEY
  has KEY           exit 0 when KEY is stored, 3 otherwise
  rm KEY            remove KEY
  clear             remove every key of the service
  version           print build information

The backend and service come from KEYCHAIN_* and STORAGE_* variables or
the JSON file given with -config.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("keychain", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "JSON config file path")
	verbose := fs.Bool("v", false, "log every operation to stderr")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	if cmd == "version" {
		fmt.Fprint(stdout, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
		return exitOK
	}

	want := map[string]int{"get": 1, "set": 1, "has": 1, "rm": 1, "clear": 0}
	n, ok := want[cmd]
	if !ok || len(rest) < n || (cmd != "set" && len(rest) > n) || len(rest) > 2 {
		fs.Usage()
		return exitUsage
	}

	log := logger.NewLogger("keychain-cli")
	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(stderr).Level(level)

	opts := []keychain.Option{keychain.WithLogger(log.Logger)}
	var (
		store *keychain.Store
		err   error
	)
	if *configPath != "" {
		store, err = keychain.OpenFile(ctx, *configPath, opts...)
	} else {
		store, err = keychain.Open(ctx, opts...)
	}
	if err != nil {
		fmt.Fprintf(stderr, "keychain: %v\n", err)
		return exitError
	}
	defer store.Close()

	switch cmd {
	case "get":
		data, err := store.Lookup(ctx, rest[0])
		if err != nil {
			return report(stderr, err)
		}
		_, _ = stdout.Write(data)

	case "set":
		var data []byte
		if len(rest) == 2 {
			data = []byte(rest[1])
		} else {
			if data, err = io.ReadAll(stdin); err != nil {
				fmt.Fprintf(stderr, "keychain: reading value: %v\n", err)
				return exitError
			}
			data = bytes.TrimSuffix(data, []byte("\n"))
		}
		if err = store.WriteBytes(ctx, data, rest[0]); err != nil {
			return report(stderr, err)
		}

	case "has":
		found, err := store.Contains(ctx, rest[0])
		if err != nil {
			return report(stderr, err)
		}
		if !found {
			return exitNotFound
		}

	case "rm":
		if err = store.Remove(ctx, rest[0]); err != nil {
			return report(stderr, err)
		}

	case "clear":
		if err = store.RemoveAll(ctx); err != nil {
			return report(stderr, err)
		}
	}

	return exitOK
}

func report(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "%v\n", err)
	if errors.Is(err, keychain.ErrItemNotFound) {
		return exitNotFound
	}
	return exitError
}
