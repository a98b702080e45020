package main

import (
	"errors"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag *string
	apiFlag    *string

	configOnce sync.Once
	config     *cliConfig
	configPath string
	configErr  error
}

func newCommandContext(configFlag, apiFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		apiFlag:    apiFlag,
	}
}

func (c *commandContext) ensureConfig() (*cliConfig, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, err := loadConfig(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.apiFlag != nil && strings.TrimSpace(*c.apiFlag) != "" {
			cfg.APIURL = strings.TrimRight(strings.TrimSpace(*c.apiFlag), "/")
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) withClient(fn func(*apiClient) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.APIURL == "" {
		return errors.New("api url not configured; set api_url in the config file or pass --api")
	}
	return fn(newAPIClient(cfg))
}

// Offline commands work without a config file.
func skipConfig(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations["skipConfigLoad"] = "true"
	return cmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
