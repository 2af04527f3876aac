package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Written by the browser build of the application.
const browserDocument = `{
  "doctor": {
    "id": "doctor",
    "teamId": "doctor",
    "title": "I have a headache",
    "messages": [
      {"id": "1717171717171", "content": "I have a headache", "role": "user", "timestamp": "2024-05-31T16:08:37.171Z"},
      {"id": "1717171717172", "content": "Since when?", "role": "assistant", "timestamp": "2024-05-31T16:08:39.002Z"}
    ],
    "createdAt": "2024-05-31T16:08:37.180Z",
    "updatedAt": "2024-05-31T16:08:39.010Z"
  },
  "mr-mean": {
    "id": "mr-mean",
    "teamId": "mr-mean",
    "messages": [],
    "createdAt": "2024-06-01T08:00:00.000Z",
    "updatedAt": "2024-06-01T08:00:00.000Z"
  }
}`

func TestDecodeDocument_BrowserFormat(t *testing.T) {
	doc, err := DecodeDocument(browserDocument)
	require.NoError(t, err)
	require.Len(t, doc, 2)

	doctor := doc["doctor"]
	require.NotNil(t, doctor)
	assert.Equal(t, "doctor", doctor.ID)
	assert.Equal(t, "doctor", doctor.PersonaID)
	assert.Equal(t, "I have a headache", doctor.Title)
	require.Len(t, doctor.Messages, 2)
	assert.Equal(t, conversation.RoleAssistant, doctor.Messages[1].Role)
	assert.Equal(t, time.Date(2024, 5, 31, 16, 8, 37, 171_000_000, time.UTC), doctor.Messages[0].Timestamp)
	assert.Equal(t, time.Date(2024, 5, 31, 16, 8, 39, 10_000_000, time.UTC), doctor.UpdatedAt)

	mean := doc["mr-mean"]
	require.NotNil(t, mean)
	assert.Empty(t, mean.Title)
	assert.Empty(t, mean.Messages)
}

func TestEncodeDocument_WireShape(t *testing.T) {
	ts := time.Date(2024, 5, 31, 16, 8, 37, 171_000_000, time.UTC)
	doc := Document{
		"doctor": {
			ID:        "doctor",
			PersonaID: "doctor",
			Title:     "hello",
			Messages: []conversation.Message{
				{ID: "m1", Content: "hello", Role: conversation.RoleUser, Timestamp: ts},
			},
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		"life-coach": {
			ID:        "life-coach",
			PersonaID: "life-coach",
			CreatedAt: ts,
			UpdatedAt: ts,
		},
	}

	content, err := EncodeDocument(doc)
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(content), &raw))

	doctor := raw["doctor"]
	assert.Equal(t, "doctor", doctor["id"])
	assert.Equal(t, "doctor", doctor["teamId"])
	assert.Equal(t, "hello", doctor["title"])
	assert.Equal(t, "2024-05-31T16:08:37.171Z", doctor["createdAt"])
	msgs, ok := doctor["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, map[string]any{
		"id":        "m1",
		"content":   "hello",
		"role":      "user",
		"timestamp": "2024-05-31T16:08:37.171Z",
	}, msgs[0])

	coach := raw["life-coach"]
	_, hasTitle := coach["title"]
	assert.False(t, hasTitle)
	assert.Equal(t, []any{}, coach["messages"])
}

func TestDocument_RoundTrip(t *testing.T) {
	doc, err := DecodeDocument(browserDocument)
	require.NoError(t, err)

	content, err := EncodeDocument(doc)
	require.NoError(t, err)

	again, err := DecodeDocument(content)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestDecodeDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{"},
		{name: "array", content: `[]`},
		{name: "null conversation", content: `{"doctor": null}`},
		{name: "bad message timestamp", content: `{"doctor":{"messages":[{"id":"1","content":"x","role":"user","timestamp":"nope"}],` +
			`"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}}`},
		{name: "missing createdAt", content: `{"doctor":{"messages":[],"updatedAt":"2024-01-01T00:00:00Z"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument(tt.content)
			assert.Error(t, err)
		})
	}
}

func TestDecodeDocument_BlankIsEmpty(t *testing.T) {
	for _, content := range []string{"", "  \n", "null"} {
		doc, err := DecodeDocument(content)
		require.NoError(t, err)
		assert.Empty(t, doc)
	}
}

func TestDecodeDocument_KeyWins(t *testing.T) {
	doc, err := DecodeDocument(`{"doctor":{"id":"other","teamId":"other","messages":[],` +
		`"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}}`)
	require.NoError(t, err)
	assert.Equal(t, "doctor", doc["doctor"].ID)
	assert.Equal(t, "doctor", doc["doctor"].PersonaID)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, s := range []string{
		"2024-01-02T03:04:05Z",
		"2024-01-02T03:04:05.000Z",
		"2024-01-02T04:04:05+01:00",
		"2024-01-02T03:04:05",
	} {
		got, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
		assert.Equal(t, time.UTC, got.Location())
	}

	_, err := ParseTimestamp("")
	assert.Error(t, err)
	_, err = ParseTimestamp("Tue May 31")
	assert.Error(t, err)
}
