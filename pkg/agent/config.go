package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/hashstructure/v2"
	log "github.com/sirupsen/logrus"

	"github.com/voluzi/peaktrace/internal/utils"
)

// FileConfig holds the settings that can change while the agent runs.
// Values absent from the file fall back to the startup options.
type FileConfig struct {
	LogLevel    string `toml:"log_level"`
	SamplePower int    `toml:"sample_power"`
}

func (a *Agent) defaultConfigToml() string {
	return fmt.Sprintf("log_level = \"\"\nsample_power = %d\n", a.cfg.SamplePower)
}

func (a *Agent) loadConfig() error {
	content, err := os.ReadFile(a.cfg.ConfigFile)
	if err != nil {
		return err
	}

	base, err := utils.TomlDecode(a.defaultConfigToml())
	if err != nil {
		return err
	}
	patch, err := utils.TomlDecode(string(content))
	if err != nil {
		return err
	}
	merged, err := utils.Merge(base, patch)
	if err != nil {
		return err
	}

	hash, err := hashstructure.Hash(merged, hashstructure.FormatV2, &hashstructure.HashOptions{
		SlicesAsSets: true,
		ZeroNil:      true,
	})
	if err != nil {
		return err
	}
	key := strconv.FormatUint(hash, 10)
	if key == a.configHash {
		log.Debug("config unchanged, skipping reload")
		return nil
	}
	a.configHash = key

	encoded, err := utils.TomlEncode(merged)
	if err != nil {
		return err
	}

	var config FileConfig
	if _, err := toml.Decode(encoded, &config); err != nil {
		return err
	}
	return a.applyConfig(&config)
}

func (a *Agent) applyConfig(config *FileConfig) error {
	if config.LogLevel != "" {
		level, err := log.ParseLevel(config.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	a.monitor.SetInterval(config.SamplePower)

	log.WithFields(log.Fields{
		"log_level":    config.LogLevel,
		"sample_power": config.SamplePower,
		"interval":     a.monitor.Interval().String(),
	}).Info("configuration applied")
	return nil
}

func (a *Agent) watchConfigFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory so atomic replaces of the file are seen too.
	if err := watcher.Add(filepath.Dir(a.cfg.ConfigFile)); err != nil {
		return err
	}
	for {
		select {
		case _, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("could not retrieve event")
			}
			if err := a.loadConfig(); err != nil {
				// Editors write in stages. The next event usually
				// brings a readable file, so keep watching.
				log.Errorf("error reloading config file: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("could not retrieve error")
			}
			return err
		}
	}
}
