package config

import "time"

const (
	DefaultOutputDirectory = "./site"
	DefaultFormat          = "html"
	DefaultSetName         = "guide"
)

func (c *Config) applyDefaults() {
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDirectory
	}
	if c.Render.Format == "" {
		c.Render.Format = DefaultFormat
	}
	for i := range c.Sets {
		s := &c.Sets[i]
		if s.Kind == "" {
			s.Kind = SetKindGuide
		}
		if s.Output == "" {
			s.Output = s.Name
		}
	}
	if c.Retry.Mode == "" {
		c.Retry.Mode = RetryBackoffLinear
	}
	if c.Retry.Initial == 0 {
		c.Retry.Initial = 100 * time.Millisecond
	}
	if c.Retry.Max == 0 {
		c.Retry.Max = 2 * time.Second
	}
	if c.Retry.MaxRetries == nil {
		n := 2
		c.Retry.MaxRetries = &n
	}
}
