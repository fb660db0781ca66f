package cli

import (
	"fmt"
	"os"

	"github.com/word-sys/puls/internal/config"
	"github.com/word-sys/puls/internal/errors"
)

// initCommand writes a default config file at path, or .puls.yaml in the
// current directory when no path is given.
func initCommand(path string, force bool) error {
	if path == "" {
		path = config.ConfigFileName
	}
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s already exists", path),
			"use --force to overwrite, or --config to pick another path")
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
