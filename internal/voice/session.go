package voice

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/jonathan/career-counselor/internal/logger"
)

// Lifecycle is the coarse state of a Session.
type Lifecycle string

const (
	LifecycleInit     Lifecycle = "init"
	LifecycleReady    Lifecycle = "ready"
	LifecycleFailed   Lifecycle = "failed"
	LifecycleDisposed Lifecycle = "disposed"
)

// Activity is what a ready Session is currently doing.
type Activity string

const (
	Idle       Activity = "idle"
	Listening  Activity = "listening"
	Processing Activity = "processing"
	Speaking   Activity = "speaking"
)

// Event drives activity transitions.
type Event string

const (
	EventStartListening Event = "start_listening"
	EventStopListening  Event = "stop_listening"
	EventCancel         Event = "cancel"
	EventTranscribed    Event = "transcribed"
	EventStartSpeaking  Event = "start_speaking"
	EventSpeechDone     Event = "speech_done"
)

type transitionKey struct {
	from  Activity
	event Event
}

var transitions = map[transitionKey]Activity{
	{Idle, EventStartListening}:     Listening,
	{Listening, EventStopListening}: Processing,
	{Listening, EventCancel}:        Idle,
	{Processing, EventTranscribed}:  Idle,
	{Idle, EventStartSpeaking}:      Speaking,
	{Speaking, EventSpeechDone}:     Idle,
}

// Transition records one applied activity change.
type Transition struct {
	From  Activity
	Event Event
	To    Activity
}

// Session owns one Engine for its lifetime. It must be opened before use and
// closed when done; a session cannot be reopened.
type Session struct {
	engine Engine
	log    *logger.Logger

	mu        sync.Mutex
	lifecycle Lifecycle
	activity  Activity
	observers []func(Transition)
}

// NewSession wraps engine. Nothing is contacted until Open.
func NewSession(engine Engine, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{engine: engine, log: log, lifecycle: LifecycleInit, activity: Idle}
}

// Observe registers fn to be called after every applied transition.
func (s *Session) Observe(fn func(Transition)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Open readies the engine. A failed open leaves the session unusable.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.lifecycle != LifecycleInit {
		s.mu.Unlock()
		return ErrNotReady
	}
	s.mu.Unlock()

	err := s.engine.Open(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lifecycle != LifecycleInit {
		// Closed while opening.
		return ErrNotReady
	}
	if err != nil {
		s.lifecycle = LifecycleFailed
		s.log.Warn("voice session failed to open", "err", err)
		return err
	}
	s.lifecycle = LifecycleReady
	return nil
}

// Lifecycle returns the current lifecycle state.
func (s *Session) Lifecycle() Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle
}

// Activity returns the current activity state.
func (s *Session) Activity() Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activity
}

// Fire applies ev to the activity state machine.
func (s *Session) Fire(ev Event) error {
	s.mu.Lock()
	if s.lifecycle != LifecycleReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	from := s.activity
	to, ok := transitions[transitionKey{from, ev}]
	if !ok {
		s.mu.Unlock()
		return &TransitionError{From: from, Event: ev}
	}
	s.activity = to
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	t := Transition{From: from, Event: ev, To: to}
	for _, fn := range observers {
		fn(t)
	}
	return nil
}

// StartListening moves an idle session to Listening.
func (s *Session) StartListening() error {
	return s.Fire(EventStartListening)
}

// CancelListening abandons the current recording.
func (s *Session) CancelListening() error {
	return s.Fire(EventCancel)
}

// StopListening ends the recording and transcribes clip. The session is idle
// again when it returns, whether or not recognition succeeded.
func (s *Session) StopListening(ctx context.Context, clip Clip) (string, error) {
	if err := s.Fire(EventStopListening); err != nil {
		return "", err
	}
	text, err := s.engine.Transcribe(ctx, clip)
	if ferr := s.Fire(EventTranscribed); ferr != nil && !errors.Is(ferr, ErrNotReady) {
		s.log.Warn("voice session transition failed", "event", EventTranscribed, "err", ferr)
	}
	return text, err
}

// Transcribe runs a full listen cycle for an already recorded clip.
func (s *Session) Transcribe(ctx context.Context, clip Clip) (string, error) {
	if err := s.StartListening(); err != nil {
		return "", err
	}
	return s.StopListening(ctx, clip)
}

// Speak synthesizes text and returns base64 MP3 audio.
func (s *Session) Speak(ctx context.Context, text string) (string, error) {
	if err := s.Fire(EventStartSpeaking); err != nil {
		return "", err
	}
	audio, err := s.engine.Synthesize(ctx, text)
	if ferr := s.Fire(EventSpeechDone); ferr != nil && !errors.Is(ferr, ErrNotReady) {
		s.log.Warn("voice session transition failed", "event", EventSpeechDone, "err", ferr)
	}
	return audio, err
}

// Close disposes the session and its engine. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.lifecycle == LifecycleDisposed {
		s.mu.Unlock()
		return nil
	}
	s.lifecycle = LifecycleDisposed
	s.activity = Idle
	s.mu.Unlock()
	return s.engine.Close()
}
