package publish

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"namaz-cli/internal/domain"
	"namaz-cli/internal/logging"
)

func TestNewDisabledIsNoop(t *testing.T) {
	p, err := New(domain.MQTTSettings{Enabled: false})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := p.(*NoopPublisher); !ok {
		t.Fatalf("expected NoopPublisher, got %T", p)
	}
	if err := p.PublishNext(domain.NextPrayerEvent{}); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
	p.Close()
}

func TestPublishNextSendsRetainedJSON(t *testing.T) {
	var gotTopic string
	var gotRetained bool
	var gotPayload []byte
	p := &MQTTPublisher{
		topicPrefix: topicPrefix(""),
		publish: func(topic string, retained bool, payload []byte) error {
			gotTopic, gotRetained, gotPayload = topic, retained, payload
			return nil
		},
	}

	at := time.Date(2026, time.March, 1, 16, 40, 0, 0, time.UTC)
	err := p.PublishNext(domain.NextPrayerEvent{City: "Istanbul", Prayer: "Asr", Label: "İkindi", At: at})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if gotTopic != "namaz/next" || !gotRetained {
		t.Fatalf("unexpected topic %q retained=%v", gotTopic, gotRetained)
	}

	var decoded domain.NextPrayerEvent
	if err := json.Unmarshal(gotPayload, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.Prayer != "Asr" || !decoded.At.Equal(at) {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestPublishNextWrapsErrors(t *testing.T) {
	boom := errors.New("broker gone")
	p := &MQTTPublisher{
		topicPrefix: "home/prayer",
		publish:     func(string, bool, []byte) error { return boom },
	}
	if err := p.PublishNext(domain.NextPrayerEvent{Prayer: "Isha"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

type stubToken struct {
	completed bool
	err       error
}

func (s stubToken) Wait() bool { return s.completed }
func (s stubToken) WaitTimeout(time.Duration) bool { return s.completed }
func (s stubToken) Done() <-chan struct{} { return make(chan struct{}) }
func (s stubToken) Error() error { return s.err }

func TestAwaitConnect(t *testing.T) {
	var logs bytes.Buffer
	logging.SetOutput(&logs)
	defer logging.SetOutput(os.Stderr)

	if err := awaitConnect(stubToken{completed: false}, time.Second, "tcp://broker:1883"); err != nil {
		t.Fatalf("timeout must not fail startup: %v", err)
	}
	if !strings.Contains(logs.String(), "tcp://broker:1883 not reachable") {
		t.Fatalf("expected a warning about the unreachable broker, got %q", logs.String())
	}

	refused := errors.New("connection refused")
	if err := awaitConnect(stubToken{completed: true, err: refused}, time.Second, "tcp://broker:1883"); !errors.Is(err, refused) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if err := awaitConnect(stubToken{completed: true}, time.Second, "tcp://broker:1883"); err != nil {
		t.Fatalf("connected: %v", err)
	}
}
