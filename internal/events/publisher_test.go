package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventCourseImported, CourseImportedEvent{CourseName: "Math", CategoryCount: 2})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventCourseImported, event.Type)
	assert.Equal(t, "gradebook", event.Source)
	assert.False(t, event.Timestamp.IsZero())

	other := NewEvent(EventCourseImported, nil)
	assert.NotEqual(t, event.ID, other.ID)
}

func TestGoChannelEventPublisher(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	publisher, pubSub := NewGoChannelEventPublisher(PublisherConfig{
		TopicName: "gradebook-events",
		Logger:    discardLogger(),
	})
	defer publisher.Close()

	messages, err := pubSub.Subscribe(ctx, "gradebook-events")
	require.NoError(t, err)

	event := NewEvent(EventGradebookSaved, GradebookSavedEvent{Operation: "add_category", CourseCount: 1, Bytes: 42})
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventGradebookSaved), msg.Metadata.Get("event_type"))

		var decoded Event
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, EventGradebookSaved, decoded.Type)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(discardLogger())
	ctx := context.Background()

	require.NoError(t, publisher.Publish(ctx, NewEvent(EventGradebookSaved, nil)))
	require.NoError(t, publisher.Publish(ctx, NewEvent(EventCourseDeleted, CourseDeletedEvent{CourseName: "Math"})))

	assert.Len(t, publisher.GetPublishedEvents(), 2)
	assert.Len(t, publisher.EventsOfType(EventCourseDeleted), 1)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
}
