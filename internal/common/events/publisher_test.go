package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"loan-advisor-workers/internal/common/config"
	"loan-advisor-workers/internal/common/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	topic    string
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newFakePublisher(t *testing.T) (*KafkaPublisher, map[string]*fakeWriter) {
	created := make(map[string]*fakeWriter)
	p := NewKafkaPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}}, logger.NewTestLogger(t))
	p.newWriter = func(topic string) messageWriter {
		w := &fakeWriter{topic: topic}
		created[topic] = w
		return w
	}
	return p, created
}

func TestKafkaPublisher_Publish(t *testing.T) {
	p, writers := newFakePublisher(t)

	event := NewEvent(TypeAssessmentCompleted, "record-loan-assessment", map[string]interface{}{"eligible": true})
	require.NoError(t, p.Publish(context.Background(), "loan.assessment.completed", "asmt-1", event))
	require.NoError(t, p.Publish(context.Background(), "loan.assessment.completed", "asmt-2", event))

	require.Len(t, writers, 1)
	w := writers["loan.assessment.completed"]
	require.Len(t, w.messages, 2)
	assert.Equal(t, "asmt-1", string(w.messages[0].Key))

	var decoded Event
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, TypeAssessmentCompleted, decoded.Type)

	headers := map[string]string{}
	for _, h := range w.messages[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, event.ID, headers["event-id"])
	assert.Equal(t, TypeAssessmentCompleted, headers["event-type"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p, writers := newFakePublisher(t)
	require.NoError(t, p.Publish(context.Background(), "t", "k", NewEvent("x", "y", nil)))
	writers["t"].err = errors.New("leader not available")

	err := p.Publish(context.Background(), "t", "k", NewEvent("x", "y", nil))
	assert.ErrorContains(t, err, "kafka publish to t")
}

func TestNewPublisher(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{Enabled: false}, logger.NewNoOpLogger())
	_, isNop := p.(NopPublisher)
	assert.True(t, isNop)
	assert.NoError(t, p.Publish(context.Background(), "t", "k", NewEvent("x", "y", nil)))

	p = NewPublisher(config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}}, logger.NewNoOpLogger())
	_, isKafka := p.(*KafkaPublisher)
	assert.True(t, isKafka)
}
