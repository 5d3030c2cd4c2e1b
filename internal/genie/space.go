// ABOUTME: Space metadata extraction, including the serialized_space double parse
// ABOUTME: Sample questions and description live inside an embedded JSON string

package genie

import (
	"encoding/json"
	"log/slog"
)

// SpaceDetails is the space metadata payload. SerializedSpace is itself a
// JSON document (as a string) holding the space configuration; its absence
// is not an error.
type SpaceDetails struct {
	Title           string `json:"title"`
	DisplayName     string `json:"display_name"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	SerializedSpace string `json:"serialized_space"`
}

// serializedConfig is the portion of the embedded configuration we read.
type serializedConfig struct {
	Config struct {
		Description     string            `json:"description"`
		SampleQuestions []json.RawMessage `json:"sample_questions"`
	} `json:"config"`
}

// BestTitle returns the space title with the documented fallback chain:
// title, then display_name, then name.
func (d *SpaceDetails) BestTitle() string {
	switch {
	case d.Title != "":
		return d.Title
	case d.DisplayName != "":
		return d.DisplayName
	default:
		return d.Name
	}
}

// BestDescription returns the top-level description, falling back to the
// description embedded in the serialized configuration.
func (d *SpaceDetails) BestDescription() string {
	if d.Description != "" {
		return d.Description
	}
	cfg, ok := d.parseSerialized()
	if !ok {
		return ""
	}
	return cfg.Config.Description
}

// SampleQuestions extracts the configured sample questions from the
// serialized configuration. Each item is {"id": ..., "question": [text]};
// both list-wrapped and bare-string question values are accepted, anything
// else is skipped. A missing or malformed payload yields an empty list.
func (d *SpaceDetails) SampleQuestions() []string {
	cfg, ok := d.parseSerialized()
	if !ok {
		return nil
	}

	var questions []string
	for _, raw := range cfg.Config.SampleQuestions {
		var item struct {
			Question json.RawMessage `json:"question"`
		}
		if err := json.Unmarshal(raw, &item); err != nil || len(item.Question) == 0 {
			continue
		}

		var asList []string
		if err := json.Unmarshal(item.Question, &asList); err == nil {
			if len(asList) > 0 {
				questions = append(questions, asList[0])
			}
			continue
		}
		var asString string
		if err := json.Unmarshal(item.Question, &asString); err == nil && asString != "" {
			questions = append(questions, asString)
		}
	}
	return questions
}

// parseSerialized performs the second JSON parse of the embedded
// configuration string. Malformed payloads are logged and treated as
// absent.
func (d *SpaceDetails) parseSerialized() (*serializedConfig, bool) {
	if d.SerializedSpace == "" {
		return nil, false
	}
	var cfg serializedConfig
	if err := json.Unmarshal([]byte(d.SerializedSpace), &cfg); err != nil {
		slog.Warn("malformed serialized_space payload", "error", err)
		return nil, false
	}
	return &cfg, true
}
