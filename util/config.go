package util

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig загружает конфиг в формате yaml из файла filename.
func LoadConfig(filename string, cfg interface{}) error {
	cfgFile, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(cfgFile, cfg)
}
