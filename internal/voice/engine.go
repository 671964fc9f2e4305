// Package voice provides speech recognition and synthesis for the counselor,
// wrapped in an explicitly opened and disposed Session.
package voice

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/speech/v1"
	"google.golang.org/api/texttospeech/v1"
)

// Synthesis settings used for every spoken reply.
const (
	LanguageCode = "en-US"
	VoiceName    = "en-US-Neural2-F"
	VoiceGender  = "FEMALE"
	AudioMP3     = "MP3"
)

// Engine is the speech backend a Session drives.
type Engine interface {
	// Open prepares the engine for use.
	Open(ctx context.Context) error
	// Transcribe converts recorded audio to text.
	Transcribe(ctx context.Context, clip Clip) (string, error)
	// Synthesize renders text as base64-encoded MP3 audio.
	Synthesize(ctx context.Context, text string) (string, error)
	Close() error
}

// EngineFactory builds an engine from an API key.
type EngineFactory func(apiKey string) Engine

// Clip is a recorded audio clip.
type Clip struct {
	// Audio is the raw audio content.
	Audio []byte
	// Encoding is a speech API encoding name such as "WEBM_OPUS" or "LINEAR16".
	// Empty lets the service detect it from the container header.
	Encoding        string
	SampleRateHertz int64
}

// GoogleEngine speaks to the Google Cloud speech and text-to-speech REST APIs.
type GoogleEngine struct {
	apiKey string
	opts   []option.ClientOption

	mu  sync.Mutex
	stt *speech.Service
	tts *texttospeech.Service
}

// NewGoogleEngine creates an engine authenticated with apiKey.
// Extra options are applied to both services after the key.
func NewGoogleEngine(apiKey string, opts ...option.ClientOption) *GoogleEngine {
	return &GoogleEngine{apiKey: apiKey, opts: opts}
}

// GoogleFactory is an EngineFactory for GoogleEngine.
func GoogleFactory(apiKey string) Engine {
	return NewGoogleEngine(apiKey)
}

func (e *GoogleEngine) Open(ctx context.Context) error {
	if e.apiKey == "" {
		return &APICallError{Op: "open", Message: "API key is required"}
	}

	opts := append([]option.ClientOption{option.WithAPIKey(e.apiKey)}, e.opts...)

	stt, err := speech.NewService(ctx, opts...)
	if err != nil {
		return &APICallError{Op: "open", Message: "failed to create speech client", Cause: err}
	}
	tts, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return &APICallError{Op: "open", Message: "failed to create text-to-speech client", Cause: err}
	}

	e.mu.Lock()
	e.stt, e.tts = stt, tts
	e.mu.Unlock()
	return nil
}

func (e *GoogleEngine) Transcribe(ctx context.Context, clip Clip) (string, error) {
	e.mu.Lock()
	stt := e.stt
	e.mu.Unlock()
	if stt == nil {
		return "", ErrNotReady
	}
	if len(clip.Audio) == 0 {
		return "", nil
	}

	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			LanguageCode:               LanguageCode,
			Encoding:                   clip.Encoding,
			SampleRateHertz:            clip.SampleRateHertz,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speech.RecognitionAudio{Content: base64.StdEncoding.EncodeToString(clip.Audio)},
	}

	resp, err := stt.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return "", &APICallError{Op: "transcribe", Message: "speech recognition request failed", Cause: err}
	}

	var parts []string
	for _, result := range resp.Results {
		if result == nil || len(result.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(result.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

func (e *GoogleEngine) Synthesize(ctx context.Context, text string) (string, error) {
	e.mu.Lock()
	tts := e.tts
	e.mu.Unlock()
	if tts == nil {
		return "", ErrNotReady
	}

	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: LanguageCode,
			Name:         VoiceName,
			SsmlGender:   VoiceGender,
		},
		AudioConfig: &texttospeech.AudioConfig{AudioEncoding: AudioMP3},
	}

	resp, err := tts.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return "", &APICallError{Op: "synthesize", Message: "text-to-speech request failed", Cause: err}
	}
	if resp.AudioContent == "" {
		return "", &APICallError{Op: "synthesize", Message: "empty audio content"}
	}
	return resp.AudioContent, nil
}

// Close drops the service handles. The REST services hold no connections of their own.
func (e *GoogleEngine) Close() error {
	e.mu.Lock()
	e.stt, e.tts = nil, nil
	e.mu.Unlock()
	return nil
}
