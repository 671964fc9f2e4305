// Package prompts holds the counselor's prompt texts, embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// Counselor is the prompt file used by the chat counselor.
const Counselor = "counselor.json"

// Keys in the counselor prompt file.
const (
	KeySystem                 = "system"
	KeyVoiceSystem            = "voice-system"
	KeyRecommendationFollowup = "recommendation-followup"
	KeyEmptyReply             = "empty-reply"
	KeyFallbackReply          = "fallback-reply"
)

// required names the keys each file must define.
var required = map[string][]string{
	Counselor: {KeySystem, KeyVoiceSystem, KeyRecommendationFollowup, KeyEmptyReply, KeyFallbackReply},
}

// Set is a parsed prompt file.
type Set map[string]string

var (
	mu   sync.RWMutex
	sets = map[string]Set{}
)

// Get returns the prompt stored under key in filename.
func Get(filename, key string) (string, error) {
	set, err := Load(filename)
	if err != nil {
		return "", err
	}
	text, ok := set[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return text, nil
}

// MustGet is Get for prompts the program cannot run without.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return text
}

// Format substitutes {{.Name}} placeholders. Unknown placeholders are left as is.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for name, value := range data {
		pairs = append(pairs, "{{."+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Load parses filename once and checks that its required keys are present.
func Load(filename string) (Set, error) {
	mu.RLock()
	set, ok := sets[filename]
	mu.RUnlock()
	if ok {
		return set, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}
	for _, key := range required[filename] {
		if strings.TrimSpace(set[key]) == "" {
			return nil, fmt.Errorf("prompt file %s is missing %q", filename, key)
		}
	}

	mu.Lock()
	sets[filename] = set
	mu.Unlock()
	return set, nil
}
