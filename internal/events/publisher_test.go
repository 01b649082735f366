package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewSubmissionEvent(t *testing.T) {
	event := NewSubmissionEvent(SubmissionEvent{
		Class:       "3/11",
		FileWritten: true,
		RowAppended: true,
	})
	assert.Equal(t, EventSubmissionRecorded, event.Type)
	assert.Equal(t, "exam-form-service", event.Source)
	assert.NotEmpty(t, event.ID)

	partial := NewSubmissionEvent(SubmissionEvent{FileWritten: true})
	assert.Equal(t, EventSubmissionIncomplete, partial.Type)
	assert.NotEqual(t, event.ID, partial.ID)
}

func TestEvent_PartitionKey(t *testing.T) {
	assert.Equal(t, "3/12", NewSubmissionEvent(SubmissionEvent{Class: "3/12"}).PartitionKey())
	assert.Equal(t, string(EventSubmissionIncomplete), NewSubmissionEvent(SubmissionEvent{}).PartitionKey())
}

func TestWatermillEventPublisher_PublishEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "exam-submissions")
	require.NoError(t, err)

	publisher := NewWatermillEventPublisher(pubSub, "exam-submissions", testLogger())
	event := NewSubmissionEvent(SubmissionEvent{
		Class:       "3/11",
		Nickname:    "Ann",
		RollNumber:  "7",
		Total:       4,
		FileWritten: true,
		RowAppended: true,
	})
	require.NoError(t, publisher.PublishEvent(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventSubmissionRecorded), msg.Metadata.Get("event_type"))
		assert.Equal(t, "exam-form-service", msg.Metadata.Get("source"))
		assert.Equal(t, "3/11", msg.Metadata.Get(partitionKeyHeader))

		var decoded struct {
			Type EventType       `json:"type"`
			Data SubmissionEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventSubmissionRecorded, decoded.Type)
		assert.Equal(t, "Ann", decoded.Data.Nickname)
		assert.Equal(t, 4.0, decoded.Data.Total)
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())

	require.NoError(t, mock.PublishEvent(context.Background(), NewSubmissionEvent(SubmissionEvent{})))
	require.Len(t, mock.GetPublishedEvents(), 1)

	assert.NoError(t, mock.Close())
}

func TestDiscardPublisher(t *testing.T) {
	d := NewDiscardPublisher(testLogger())
	assert.NoError(t, d.PublishEvent(context.Background(), NewSubmissionEvent(SubmissionEvent{Class: "3/11"})))
	assert.NoError(t, d.Close())
}
