package record

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/dbsmedya/goseed/internal/config"
)

// FromConfig converts configured records, parsing their ids.
func FromConfig(cfgs []config.RecordConfig) ([]Record, error) {
	records := make([]Record, 0, len(cfgs))
	for i, c := range cfgs {
		r, err := New(c.ID, c.Name, c.Price, c.Category)
		if err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// LoadFile reads a fixture file holding a top-level "records" list.
// The format (yaml, json, toml) follows the file extension.
func LoadFile(path string) ([]Record, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var cfgs []config.RecordConfig
	if err := v.UnmarshalKey("records", &cfgs); err != nil {
		return nil, fmt.Errorf("failed to decode fixture file %s: %w", path, err)
	}

	records, err := FromConfig(cfgs)
	if err != nil {
		return nil, fmt.Errorf("fixture file %s: %w", path, err)
	}
	return records, nil
}

// Resolve returns the records a seed set describes, from inline records,
// a fixture file or a built-in fixture. A set with no source yields no records.
func Resolve(set *config.SeedSetConfig) ([]Record, error) {
	switch set.RecordSource() {
	case "records":
		return FromConfig(set.Records)
	case "file":
		return LoadFile(set.File)
	case "fixture":
		return Fixture(set.Fixture)
	default:
		return []Record{}, nil
	}
}
