package process

import "time"

// DefaultTimeout bounds a single snapshot read.
const DefaultTimeout = 5 * time.Second

// waitDelay is how long a killed reader may keep its output pipes open.
const waitDelay = 100 * time.Millisecond

// Config describes the external memory reader executable.
type Config struct {
	Command string            `mapstructure:"command" yaml:"command" json:"command"`
	Args    []string          `mapstructure:"args" yaml:"args" json:"args"`
	Env     map[string]string `mapstructure:"env" yaml:"env" json:"env"`
	Dir     string            `mapstructure:"dir" yaml:"dir" json:"dir"`
	Timeout time.Duration     `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// Options turns the config into reader options. Zero values keep the reader defaults.
func (c Config) Options() []Option {
	var opts []Option
	if len(c.Args) > 0 {
		opts = append(opts, WithArgs(c.Args...))
	}
	if len(c.Env) > 0 {
		opts = append(opts, WithEnv(c.Env))
	}
	if c.Dir != "" {
		opts = append(opts, WithBaseDir(c.Dir))
	}
	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Timeout))
	}
	return opts
}
