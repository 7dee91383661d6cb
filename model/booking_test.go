package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatRequestsStrings(t *testing.T) {
	seats, err := ParseSeatRequests(json.RawMessage(`["A1", "A2"]`))
	require.NoError(t, err)
	assert.Equal(t, []SeatRequest{{Number: "A1", Status: "booked"}, {Number: "A2", Status: "booked"}}, seats)
}

func TestParseSeatRequestsObjects(t *testing.T) {
	seats, err := ParseSeatRequests(json.RawMessage(`[{"number":"B3","status":"available"},{"number":"B4"}]`))
	require.NoError(t, err)
	assert.Equal(t, "available", seats[0].Status)
	assert.Equal(t, "booked", seats[1].Status)
}

func TestParseSeatRequestsRejects(t *testing.T) {
	cases := map[string]string{
		"missing":   ``,
		"object":    `{"number":"A1"}`,
		"string":    `"A1"`,
		"empty":     `[]`,
		"number":    `[1]`,
		"blank":     `[""]`,
		"status":    `[{"number":"A1","status":"held"}]`,
		"duplicate": `["A1","A1"]`,
	}
	for name, raw := range cases {
		_, err := ParseSeatRequests(json.RawMessage(raw))
		assert.Error(t, err, name)
	}

	_, err := ParseSeatRequests(json.RawMessage(`{"a":1}`))
	assert.ErrorIs(t, err, ErrSeatsNotArray)
}

func TestTimeRangeNormalize(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	in := TimeRangeInput{
		Start: time.Date(2025, 5, 1, 19, 0, 0, 0, loc),
		End:   time.Date(2025, 5, 1, 21, 0, 0, 0, loc),
	}
	require.True(t, in.Normalize())
	assert.Equal(t, time.UTC, in.Start.Location())
	assert.Equal(t, 12, in.Start.Hour())

	backwards := TimeRangeInput{Start: in.End, End: in.Start}
	assert.False(t, backwards.Normalize())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{FirstName: "Ada"}.FullName())
}
