package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-data-conditions/internal/config"
	"github.com/couchcryptid/storm-data-conditions/internal/domain"
)

type recordingWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (r *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recordingWriter) Close() error {
	r.closed = true
	return nil
}

func sampleReport() domain.Report {
	return domain.Report{
		Observation: domain.CurrentObservation{LocationName: "Topeka KS", WindGust: "None"},
		Days:        []domain.ForecastDay{{Period: "Tonight", Temp: "61"}},
		Coordinates: domain.Coordinates{Lat: 39.05, Lon: -95.68},
		FetchedAt:   time.Date(2024, 4, 26, 19, 53, 0, 0, time.UTC),
	}
}

func TestSerializeToMessage(t *testing.T) {
	report := sampleReport()

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("39.05,-95.68"), msg.Key)
	assert.Contains(t, string(msg.Value), `"windGust":"None"`)
	assert.Contains(t, string(msg.Value), `"fetched_at":"2024-04-26T19:53:00Z"`)
	assert.Equal(t, report.FetchedAt, msg.Time)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "location", msg.Headers[0].Key)
	assert.Equal(t, []byte("Topeka KS"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(report.FetchedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := &Publisher{writer: w, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	require.NoError(t, p.Publish(context.Background(), sampleReport()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("39.05,-95.68"), w.msgs[0].Key)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := &Publisher{writer: w, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := p.Publish(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write snapshot")
	assert.Contains(t, err.Error(), "leader not available")
}

func TestNewPublisher(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "point-conditions"}
	p := NewPublisher(cfg, slog.Default())

	w, ok := p.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, "point-conditions", w.Topic)
	assert.Equal(t, kafkago.RequireAll, w.RequiredAcks)
}
