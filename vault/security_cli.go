package vault

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os/exec"

	"github.com/MKhiriev/go-keychain-store/internal/logger"
	"github.com/MKhiriev/go-keychain-store/query"
)

const (
	securityBinary = "security"

	// payloadPrefix marks payloads written by this backend. Items written by
	// other tools are returned as their raw text.
	payloadPrefix = "kcs1:"

	// maxDeleteRounds bounds the delete loop; delete-generic-password removes
	// one item per call.
	maxDeleteRounds = 1024
)

// CommandRunner runs a command and reports its standard output and exit
// code. err is reserved for failures to run the command at all.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout []byte, exitCode int, err error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err == nil {
		return out, 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return out, exitErr.ExitCode(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, -1, ctxErr
	}
	return nil, -1, err
}

// securityCLIVault drives the macOS login keychain through the security
// tool. Access groups, accessibility classes and synced items are not
// reachable through the tool.
type securityCLIVault struct {
	run    CommandRunner
	logger *logger.Logger
}

// NewSecurityCLIVault returns a [Vault] over the `security` tool. A nil
// runner uses [ExecRunner].
//
// Insert and Update hand the encoded payload to the tool as the value of
// -w, so while the tool runs the secret is visible in its argument list to
// any local user who can list processes (ps, /proc). Base64 framing does
// not hide it. Use this backend only on single-user machines, or pick the
// SQL or file backend where that exposure matters.
func NewSecurityCLIVault(run CommandRunner, log *logger.Logger) Vault {
	if run == nil {
		run = ExecRunner
	}
	if log == nil {
		log = logger.Nop()
	}

	return &securityCLIVault{run: run, logger: log}
}

// target validates q for the tool and returns the -s/-a arguments.
func (v *securityCLIVault) target(q query.Descriptor) ([]string, itemFilter, Status) {
	f, st := parseFilter(q)
	if st != StatusSuccess {
		return nil, f, st
	}
	if f.sync == query.SyncOnlySynced {
		return nil, f, StatusUnimplemented
	}
	if f.accessGroup != nil && *f.accessGroup != "" {
		return nil, f, StatusUnimplemented
	}

	var args []string
	if f.service != nil {
		args = append(args, "-s", *f.service)
	}
	if f.account != nil {
		args = append(args, "-a", *f.account)
	}

	return args, f, StatusSuccess
}

func (v *securityCLIVault) exec(ctx context.Context, fn string, args ...string) ([]byte, Status) {
	log := logger.FromContextOr(ctx, v.logger)

	out, code, err := v.run(ctx, securityBinary, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to run security tool")
		if errors.Is(err, context.Canceled) {
			return nil, StatusUserCanceled
		}
		return nil, StatusNotAvailable
	}

	st := statusFromExitCode(code)
	if st != StatusSuccess && st != StatusItemNotFound && st != StatusDuplicateItem {
		log.Error().Str("func", fn).Int("exit_code", code).Msg("security tool failed")
	}

	return out, st
}

// Probe implements [Vault].
func (v *securityCLIVault) Probe(ctx context.Context, q query.Descriptor) Status {
	args, _, st := v.target(q)
	if st != StatusSuccess {
		return st
	}

	_, st = v.exec(ctx, "securityCLIVault.Probe", append([]string{"find-generic-password"}, args...)...)
	return st
}

// Fetch implements [Vault].
func (v *securityCLIVault) Fetch(ctx context.Context, q query.Descriptor) (any, Status) {
	args, _, st := v.target(q)
	if st != StatusSuccess {
		return nil, st
	}

	out, st := v.exec(ctx, "securityCLIVault.Fetch", append(append([]string{"find-generic-password"}, args...), "-w")...)
	if st != StatusSuccess {
		return nil, st
	}

	data, st := decodePayload(out)
	if st != StatusSuccess {
		return nil, st
	}
	return data, StatusSuccess
}

// Insert implements [Vault].
func (v *securityCLIVault) Insert(ctx context.Context, q query.Descriptor) Status {
	args, f, st := v.target(q)
	if st != StatusSuccess {
		return st
	}
	if f.sync == query.SyncAny || f.account == nil {
		return StatusParam
	}
	data, ok := q.Bytes(query.ValueData)
	if !ok {
		return StatusParam
	}

	_, st = v.exec(ctx, "securityCLIVault.Insert",
		append(append([]string{"add-generic-password"}, args...), "-w", encodePayload(data))...)
	return st
}

// Update implements [Vault]. The tool updates a single item, so q must name
// an account.
func (v *securityCLIVault) Update(ctx context.Context, q query.Descriptor, attrs query.Descriptor) Status {
	args, f, st := v.target(q)
	if st != StatusSuccess {
		return st
	}
	if f.account == nil {
		return StatusParam
	}
	data, st := updateData(attrs)
	if st != StatusSuccess {
		return st
	}

	if st = v.Probe(ctx, q); st != StatusSuccess {
		return st
	}

	_, st = v.exec(ctx, "securityCLIVault.Update",
		append(append([]string{"add-generic-password", "-U"}, args...), "-w", encodePayload(data))...)
	return st
}

// Delete implements [Vault]. Every matching item is removed.
func (v *securityCLIVault) Delete(ctx context.Context, q query.Descriptor) Status {
	args, _, st := v.target(q)
	if st != StatusSuccess {
		return st
	}

	cmd := append([]string{"delete-generic-password"}, args...)
	for round := 0; round < maxDeleteRounds; round++ {
		_, st = v.exec(ctx, "securityCLIVault.Delete", cmd...)
		switch {
		case st == StatusItemNotFound && round > 0:
			return StatusSuccess
		case st != StatusSuccess:
			return st
		}
	}

	return StatusSuccess
}

// DescribeStatus implements [Vault].
func (v *securityCLIVault) DescribeStatus(s Status) (string, bool) {
	return DescribeStatus(s)
}

func encodePayload(data []byte) string {
	return payloadPrefix + base64.StdEncoding.EncodeToString(data)
}

func decodePayload(out []byte) ([]byte, Status) {
	out = bytes.TrimSuffix(out, []byte("\n"))

	rest, ok := bytes.CutPrefix(out, []byte(payloadPrefix))
	if !ok {
		return cloneBytes(out), StatusSuccess
	}

	data, err := base64.StdEncoding.AppendDecode([]byte{}, rest)
	if err != nil {
		return nil, StatusDecode
	}
	return data, StatusSuccess
}
