package analyzer

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"chainscan/pkg/logger"
)

// SeverityOverrides is the on-disk shape of a catalog override file:
//
//	opcodes:
//	  SSTORE: medium
//	  STATICCALL: medium
type SeverityOverrides struct {
	Opcodes map[string]string `yaml:"opcodes"`
}

// LoadOverrides applies a YAML severity-override file to the catalog.
// Unknown opcode names and unknown severities are rejected as a whole; a
// bad file leaves the catalog unchanged for the entries after the error.
func LoadOverrides(path string, catalog *Catalog) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read overrides: %w", err)
	}

	var overrides SeverityOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse overrides: %w", err)
	}

	for name, raw := range overrides.Opcodes {
		severity, err := ParseSeverity(raw)
		if err != nil {
			return fmt.Errorf("override for %s: %w", name, err)
		}
		if err := catalog.SetSeverity(name, severity); err != nil {
			return err
		}
	}
	return nil
}

// WatchOverrides reloads the override file whenever it is written, until
// the context is cancelled. A reload failure keeps the previous catalog.
func WatchOverrides(ctx context.Context, path string, catalog *Catalog, log *logger.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					if err := LoadOverrides(path, catalog); err != nil {
						log.Error("Failed to reload catalog overrides", logger.Fields{"error": err, "file": path})
						continue
					}
					log.Info("Catalog overrides reloaded", logger.Fields{"file": path})
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("Overrides watcher error", logger.Fields{"error": err, "file": path})
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
