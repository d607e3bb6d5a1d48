package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-keychain-store/vault"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs returns the
// defaults: an in-memory backend and nothing else set.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{Storage: Storage{Backend: BackendMemory}}, cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_MergesMultipleConfigs verifies that fields from multiple configs
// are merged into a single result.
func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Keychain: Keychain{Service: "svc"}},
		&StructuredConfig{Keychain: Keychain{AccessGroup: "group"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "svc", cfg.Keychain.Service)
	assert.Equal(t, "group", cfg.Keychain.AccessGroup)
}

// TestBuild_LaterSourceWins verifies that a non-zero field of a later
// config overrides an earlier one.
func TestBuild_LaterSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Keychain: Keychain{Service: "from-env", InsertRetryDelay: time.Second}},
		&StructuredConfig{Keychain: Keychain{Service: "from-json"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "from-json", cfg.Keychain.Service)
	assert.Equal(t, time.Second, cfg.Keychain.InsertRetryDelay, "zero fields do not override")
}

// TestBuild_ValidationErrors verifies that invalid merged configs are
// rejected with the matching sentinel.
func TestBuild_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *StructuredConfig
		wantErr error
	}{
		{
			name:    "unknown backend",
			cfg:     &StructuredConfig{Storage: Storage{Backend: "redis"}},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "sqlite without dsn",
			cfg:     &StructuredConfig{Storage: Storage{Backend: BackendSQLite}},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "postgres without dsn",
			cfg:     &StructuredConfig{Storage: Storage{Backend: BackendPostgres}},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "file without path",
			cfg:     &StructuredConfig{Storage: Storage{Backend: BackendFile}},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "negative pool size",
			cfg:     &StructuredConfig{Storage: Storage{DB: DB{MaxOpenConns: -1}}},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "unknown accessibility",
			cfg:     &StructuredConfig{Keychain: Keychain{Accessibility: "sometimes"}},
			wantErr: ErrInvalidKeychainConfigs,
		},
		{
			name:    "negative retry delay",
			cfg:     &StructuredConfig{Keychain: Keychain{InsertRetryDelay: -time.Millisecond}},
			wantErr: ErrInvalidKeychainConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := newConfigBuilder().withConfig(tt.cfg).build()
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestBuild_ValidBackends verifies that every backend with its required
// settings passes validation.
func TestBuild_ValidBackends(t *testing.T) {
	tests := []Storage{
		{Backend: BackendMemory},
		{Backend: BackendSecurity},
		{Backend: BackendFile, Files: Files{Path: "/tmp/vault.json"}},
		{Backend: BackendSQLite, DB: DB{DSN: "/tmp/vault.db"}},
		{Backend: BackendPostgres, DB: DB{DSN: "postgres://localhost/vault"}},
		{Backend: BackendMySQL, DB: DB{DSN: "user@tcp(localhost)/vault"}},
	}

	for _, st := range tests {
		t.Run(st.Backend, func(t *testing.T) {
			cfg, err := newConfigBuilder().withConfig(&StructuredConfig{Storage: st}).build()
			require.NoError(t, err)
			assert.Equal(t, st, cfg.Storage)
		})
	}
}

func TestBackendNamesMatchVault(t *testing.T) {
	assert.Equal(t, vault.BackendMemory, BackendMemory)
	assert.Equal(t, vault.BackendFile, BackendFile)
	assert.Equal(t, vault.BackendSQLite, BackendSQLite)
	assert.Equal(t, vault.BackendPostgres, BackendPostgres)
	assert.Equal(t, vault.BackendMySQL, BackendMySQL)
	assert.Equal(t, vault.BackendSecurity, BackendSecurity)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv(""))
}

// TestWithEnv_AppendsOneConfig verifies that withEnv appends exactly one entry.
func TestWithEnv_AppendsOneConfig(t *testing.T) {
	b := newConfigBuilder()
	b.withEnv("")
	assert.Len(t, b.configs, 1)
}

// TestWithEnv_ReadsEnvVars verifies that environment variables are picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	t.Setenv("KEYCHAIN_SERVICE", "env-service")
	t.Setenv("STORAGE_BACKEND", "sqlite")

	b := newConfigBuilder()
	b.withEnv("")

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-service", b.configs[0].Keychain.Service)
	assert.Equal(t, BackendSQLite, b.configs[0].Storage.Backend)
}

// TestWithEnv_SetsErrorOnBadValue verifies that a malformed variable is
// reported through b.err and nothing is appended.
func TestWithEnv_SetsErrorOnBadValue(t *testing.T) {
	t.Setenv("STORAGE_DB_MAX_OPEN_CONNS", "many")

	b := newConfigBuilder()
	b.withEnv("")

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

// TestWithJSON_ReturnsBuilder verifies the fluent interface.
func TestWithJSON_ReturnsBuilder(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withJSON())
}

// TestWithJSON_NoOp_WhenNoPathSet verifies that withJSON does nothing when
// no config has a JSONFilePath.
func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithJSON_AppendsConfig_WhenValidFile verifies that a valid JSON file is
// parsed and appended.
func TestWithJSON_AppendsConfig_WhenValidFile(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Keychain.Service = "json-service"
	payload.Storage.Backend = BackendFile
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-service", b.configs[1].Keychain.Service)
	assert.Equal(t, BackendFile, b.configs[1].Storage.Backend)
}

// TestWithJSON_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: "/nonexistent/config.json",
	})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_SetsError_WhenMalformedJSON verifies that invalid JSON content
// sets b.err.
func TestWithJSON_SetsError_WhenMalformedJSON(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "bad-*.json")
	require.NoError(t, err)
	_, err = f.WriteString("{not valid json")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: f.Name()})
	b.withJSON()

	assert.Error(t, b.err)
}

// TestWithJSON_UsesLastPath verifies that when multiple configs have a
// JSONFilePath, the last non-empty one wins.
func TestWithJSON_UsesLastPath(t *testing.T) {
	first := StructuredJSONConfig{}
	first.Keychain.Service = "first"
	last := StructuredJSONConfig{}
	last.Keychain.Service = "last-wins"

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, first)},
		&StructuredConfig{JSONFilePath: ""},
		&StructuredConfig{JSONFilePath: writeTempJSONConfig(t, last)},
	)
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 4)
	assert.Equal(t, "last-wins", b.configs[3].Keychain.Service)
}

// TestWithJSON_SkipsWhenErrorAlreadySet verifies that a pre-existing error
// is preserved and the file is not read.
func TestWithJSON_SkipsWhenErrorAlreadySet(t *testing.T) {
	payload := StructuredJSONConfig{}
	payload.Keychain.Service = "should-not-appear"
	path := writeTempJSONConfig(t, payload)

	b := newConfigBuilder()
	b.err = assert.AnError
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	assert.ErrorIs(t, b.err, assert.AnError)
	assert.Len(t, b.configs, 1)
}

// ── LoadFile ──────────────────────────────────────────────────────────────────

// TestLoadFile_JSONOverridesEnv verifies the full pipeline: env first, then
// the explicit file on top.
func TestLoadFile_JSONOverridesEnv(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("KEYCHAIN_SERVICE", "env-service")
	t.Setenv("KEYCHAIN_ACCESS_GROUP", "env-group")

	payload := StructuredJSONConfig{}
	payload.Keychain.Service = "json-service"
	payload.Storage.Backend = BackendFile
	payload.Storage.Files.Path = "/tmp/vault.json"
	path := writeTempJSONConfig(t, payload)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "json-service", cfg.Keychain.Service)
	assert.Equal(t, "env-group", cfg.Keychain.AccessGroup)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, path, cfg.JSONFilePath)
}

// TestGetStructuredConfig_Defaults verifies that an empty environment yields
// the in-memory backend.
func TestGetStructuredConfig_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := GetStructuredConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

// TestGetPrefixedConfig_ReadsPrefixedVariables verifies that the prefix
// applies to every variable, CONFIG included.
func TestGetPrefixedConfig_ReadsPrefixedVariables(t *testing.T) {
	clearEnvVars(t)

	payload := StructuredJSONConfig{}
	payload.Storage.Backend = BackendFile
	payload.Storage.Files.Path = "/tmp/vault.json"
	path := writeTempJSONConfig(t, payload)

	t.Setenv("KEYCHAIN_SERVICE", "unprefixed")
	t.Setenv("MYAPP_KEYCHAIN_SERVICE", "prefixed")
	t.Setenv("MYAPP_CONFIG", path)

	cfg, err := GetPrefixedConfig("MYAPP_")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Keychain.Service)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/vault.json", cfg.Storage.Files.Path)
}
