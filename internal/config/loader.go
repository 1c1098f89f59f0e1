package config

import (
	"os"

	"github.com/spf13/viper"
)

// LoadSettings reads a YAML settings file into a nested map suitable for
// NewAttributeReader. A missing file is not an error: the reader then
// serves environment variables and defaults only.
func LoadSettings(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, nil
		}
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return v.AllSettings(), nil
}
