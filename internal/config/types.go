package config

import "time"

// Target is a named network endpoint. Host is the identity key; Name falls
// back to Host when blank.
type Target struct {
	Name string
	Host string
}

// NotifierOptions configures the optional Telegram alert channel.
type NotifierOptions struct {
	Enabled  bool
	BotToken string
	ChatID   string
	Cooldown time.Duration
}

// Config is the validated runtime configuration. All numeric fields have been
// clamped to their documented bounds by Load.
type Config struct {
	Interval      time.Duration
	Timeout       time.Duration
	DegradedMs    int
	FailThreshold int
	Targets       []Target
	Notifier      NotifierOptions
}

// Overrides holds optional CLI values that override config file values.
type Overrides struct {
	Interval      *time.Duration
	Timeout       *time.Duration
	FailThreshold *int
	DisableNotify *bool
}
