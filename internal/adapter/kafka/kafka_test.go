package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/survey-data-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawRecord(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"Name":"P1"}`),
		Topic:     "raw-survey-points",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("field-collector")},
		},
	}

	raw := mapMessageToRawRecord(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"Name":"P1"}`, string(raw.Value))
	assert.Equal(t, "raw-survey-points", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "field-collector", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	point := domain.SurveyPoint{
		ID:          "landslide-abc123",
		Name:        "滑坡点12",
		Category:    "landslide",
		Geo:         domain.Geo{Lat: 30.256194, Lon: 110.562268},
		ConvertedAt: now,
	}

	msg, err := serializeToMessage(point)
	require.NoError(t, err)

	assert.Equal(t, []byte("landslide-abc123"), msg.Key)
	assert.Contains(t, string(msg.Value), `"category":"landslide"`)
	assert.Contains(t, string(msg.Value), `"lon":110.562268`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "category", msg.Headers[0].Key)
	assert.Equal(t, []byte("landslide"), msg.Headers[0].Value)
	assert.Equal(t, "converted_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
