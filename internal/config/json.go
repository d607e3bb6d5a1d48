package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Keychain struct {
		Service               string   `json:"service"`
		AccessGroup           string   `json:"access_group"`
		RestrictedEnvironment bool     `json:"restricted_environment"`
		Accessibility         string   `json:"accessibility"`
		Synchronizable        bool     `json:"synchronizable"`
		InsertRaceRetry       bool     `json:"insert_race_retry"`
		InsertRetryDelay      Duration `json:"insert_retry_delay"`
	} `json:"keychain,omitempty"`

	Storage struct {
		Backend string `json:"backend"`

		DB struct {
			Driver       string `json:"driver"`
			DSN          string `json:"dsn"`
			MaxOpenConns int    `json:"max_open_conns"`
		} `json:"db,omitempty"`

		Files struct {
			Path string `json:"path"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Keychain: Keychain{
			Service:               jsonCfg.Keychain.Service,
			AccessGroup:           jsonCfg.Keychain.AccessGroup,
			RestrictedEnvironment: jsonCfg.Keychain.RestrictedEnvironment,
			Accessibility:         jsonCfg.Keychain.Accessibility,
			Synchronizable:        jsonCfg.Keychain.Synchronizable,
			InsertRaceRetry:       jsonCfg.Keychain.InsertRaceRetry,
			InsertRetryDelay:      time.Duration(jsonCfg.Keychain.InsertRetryDelay),
		},
		Storage: Storage{
			Backend: jsonCfg.Storage.Backend,
			DB: DB{
				Driver:       jsonCfg.Storage.DB.Driver,
				DSN:          jsonCfg.Storage.DB.DSN,
				MaxOpenConns: jsonCfg.Storage.DB.MaxOpenConns,
			},
			Files: Files{
				Path: jsonCfg.Storage.Files.Path,
			},
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
