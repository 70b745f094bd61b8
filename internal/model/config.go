package model

import "time"

// Config defines runtime settings resolved from flags and the config file.
type Config struct {
	Learner      string
	Location     *time.Location
	StatsRange   int
	StarterWords []string
	LogLevel     string
}
