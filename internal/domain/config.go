package domain

import "time"

type ResponseShape string

const (
	ResponseShapeObject ResponseShape = "object"
	ResponseShapeArray  ResponseShape = "array"
)

type Config struct {
	BaseURL      string        `mapstructure:"baseURL"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DBPath       string        `mapstructure:"dbPath"`
	HistoryLimit int           `mapstructure:"historyLimit"`
	LogLevel     string        `mapstructure:"logLevel"`
	Search       SearchConfig  `mapstructure:"search"`
}

type SearchConfig struct {
	ResponseShape ResponseShape `mapstructure:"responseShape"`
}
