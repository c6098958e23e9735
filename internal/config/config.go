package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries everything the components take as injected data: the fixed
// word/sender sets, search window defaults, and collaborator settings. There
// is no hidden process-wide state; tests substitute their own instances.
type Config struct {
	// InternalDomains are the email domains counted as "us". Any attendee
	// outside this set makes a meeting a client meeting.
	InternalDomains []string `yaml:"internal_domains"`

	Search        Search        `yaml:"search"`
	Keywords      Keywords      `yaml:"keywords"`
	Notifications Notifications `yaml:"notifications"`
	AI            AI            `yaml:"ai"`
}

// Search holds retrieval window defaults.
type Search struct {
	Days          int `yaml:"days"`            // how far back to search mail
	MaxResults    int `yaml:"max_results"`     // ranked emails kept per meeting
	HoursAheadMin int `yaml:"hours_ahead_min"` // calendar window start
	HoursAheadMax int `yaml:"hours_ahead_max"` // calendar window end
}

// Keywords holds the word sets driving extraction and eligibility.
type Keywords struct {
	// StopWords are dropped in every extraction mode.
	StopWords []string `yaml:"stop_words"`
	// SearchNoise are additionally dropped in search mode only; they are
	// too generic to narrow a mail query but still describe a meeting.
	SearchNoise []string `yaml:"search_noise"`
	// SkipMeetings excludes events from preparation by title/description
	// substring (case-insensitive).
	SkipMeetings []string `yaml:"skip_meetings"`
}

// Notifications holds the signals identifying automated calendar mail.
type Notifications struct {
	Senders        []string `yaml:"senders"`
	SubjectPhrases []string `yaml:"subject_phrases"`
	ContentPhrases []string `yaml:"content_phrases"`
	CalendarLinks  []string `yaml:"calendar_links"`
}

// AI configures the optional generative classifier/summarizer. The client is
// OpenAI-compatible; the key comes from the environment, never from the file.
type AI struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"-"`
}

// Enabled reports whether the AI collaborator can be used at all.
func (a AI) Enabled() bool { return a.APIKey != "" }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		InternalDomains: []string{"example.com"},
		Search: Search{
			Days:          30,
			MaxResults:    10,
			HoursAheadMin: 4,
			HoursAheadMax: 24,
		},
		Keywords: Keywords{
			StopWords: []string{
				"meeting", "sync", "call", "discussion",
				"weekly", "monthly", "daily", "standup", "stand",
				"the", "and", "with", "for", "about", "from",
			},
			SearchNoise: []string{
				"review", "update", "planning", "check-in", "checkin", "check",
			},
			SkipMeetings: []string{
				"standup", "stand-up", "lunch", "coffee", "social",
				"birthday", "happy hour", "team building",
			},
		},
		Notifications: Notifications{
			Senders: []string{
				"calendar-notification@google.com",
				"calendar-server.bounces.google.com",
				"noreply-calendar@google.com",
				"invitations@outlook.com",
			},
			SubjectPhrases: []string{
				"invitation:", "accepted:", "declined:",
				"tentatively accepted:", "updated invitation:",
				"canceled event:", "cancelled event:",
				"has invited you", "reminder:",
			},
			ContentPhrases: []string{
				"view your event at", "rsvp:", "join the meeting",
				"add to calendar", "this event has been",
				"invitation from google calendar",
			},
			CalendarLinks: []string{
				"calendar.google.com", "meet.google.com",
			},
		},
		AI: AI{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
	}
}

// Load builds the effective config: defaults, overlaid with the YAML file at
// path when it exists, then environment overrides for secrets. A missing file
// is fine; a malformed one is not.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// defaults only
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("MEETINGPREP_AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("MEETINGPREP_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("MEETINGPREP_AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Search.Days <= 0 {
		return fmt.Errorf("search.days must be positive")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive")
	}
	if c.Search.HoursAheadMin < 0 {
		return fmt.Errorf("search.hours_ahead_min cannot be negative")
	}
	if c.Search.HoursAheadMax <= c.Search.HoursAheadMin {
		return fmt.Errorf("search.hours_ahead_max must exceed search.hours_ahead_min")
	}
	if len(c.InternalDomains) == 0 {
		return fmt.Errorf("internal_domains must contain at least one domain")
	}
	return nil
}
