package main

import (
	"strings"
	"sync"

	"github.com/baditaflorin/go_nlpurify/internal/adapters/logger"
	"github.com/baditaflorin/go_nlpurify/internal/config"
	"github.com/baditaflorin/l"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		c.config, _, c.configErr = config.Load(c.configPath())
	})
	return c.config, c.configErr
}

func (c *commandContext) openLogger() (l.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logger.Open(cfg.Logging.File, cfg.Logging.JSON)
}
