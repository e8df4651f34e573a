package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-08-22")
	require.NoError(t, err)
	assert.Equal(t, time.Friday, d.Weekday())
	assert.Equal(t, "2025-08-22", d.String())

	empty, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
	assert.Equal(t, "", empty.String())

	_, err = ParseDate("22/08/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDate_AddDays(t *testing.T) {
	assert.Equal(t, "2025-08-22", MustParseDate("2025-09-01").AddDays(-10).String())
	assert.True(t, Date{}.AddDays(5).IsZero())
}

func TestDate_JSON(t *testing.T) {
	type wrap struct {
		D Date `json:"d"`
	}
	b, err := json.Marshal(wrap{D: NewDate(2025, time.July, 23)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-07-23"}`, string(b))

	b, err = json.Marshal(wrap{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":""}`, string(b))

	var w wrap
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2025-09-01"}`), &w))
	assert.Equal(t, "2025-09-01", w.D.String())

	assert.Error(t, json.Unmarshal([]byte(`{"d":"tomorrow"}`), &w))
}

func TestDate_YAMLUnquoted(t *testing.T) {
	var w struct {
		D Date `yaml:"d"`
		E Date `yaml:"e"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 2025-08-22\ne: ~\n"), &w))
	assert.Equal(t, "2025-08-22", w.D.String())
	assert.True(t, w.E.IsZero())
}

func TestParseTrialDuration(t *testing.T) {
	for _, s := range []string{"", "1-day", "2-days", "3-days", "1-week", "custom"} {
		d, err := ParseTrialDuration(s)
		require.NoError(t, err, s)
		assert.Equal(t, TrialDuration(s), d)
	}
	_, err := ParseTrialDuration("fortnight")
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestTrialFields_Span(t *testing.T) {
	trial := MustParseDate("2025-08-22")

	tests := []struct {
		name   string
		fields TrialFields
		first  string
		last   string
		ok     bool
	}{
		{"no trial date", TrialFields{TrialDuration: DurationOneDay}, "", "", false},
		{"unset duration is one day", TrialFields{TrialDate: trial}, "2025-08-22", "2025-08-22", true},
		{"three days", TrialFields{TrialDate: trial, TrialDuration: DurationThreeDays}, "2025-08-22", "2025-08-24", true},
		{"one week", TrialFields{TrialDate: trial, TrialDuration: DurationOneWeek}, "2025-08-22", "2025-08-28", true},
		{"custom", TrialFields{
			TrialDuration:   DurationCustom,
			CustomStartDate: MustParseDate("2025-10-01"),
			CustomEndDate:   MustParseDate("2025-10-03"),
		}, "2025-10-01", "2025-10-03", true},
		{"custom end before start", TrialFields{
			TrialDuration:   DurationCustom,
			CustomStartDate: MustParseDate("2025-10-01"),
			CustomEndDate:   MustParseDate("2025-09-01"),
		}, "2025-10-01", "2025-10-01", true},
		{"custom without start", TrialFields{TrialDate: trial, TrialDuration: DurationCustom}, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last, ok := tt.fields.Span()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.first, first.String())
			assert.Equal(t, tt.last, last.String())
		})
	}
}

func TestOwner_UnmarshalJSON(t *testing.T) {
	var cals []Calendar
	data := `[
		{"id":"1","name":"Personal","owner":{"name":"You","address":"you@example.com"},"color":"blue","canEdit":true},
		{"id":"2","name":"Court","owner":"Court Admin","color":"red","canEdit":false,"isShared":true}
	]`
	require.NoError(t, json.Unmarshal([]byte(data), &cals))
	require.Len(t, cals, 2)
	assert.Equal(t, "You", cals[0].Owner.String())
	assert.Equal(t, "you@example.com", cals[0].Owner.Address)
	assert.Equal(t, "Court Admin", cals[1].Owner.String())
	assert.True(t, cals[1].IsShared)
	assert.False(t, cals[1].CanEdit)
}
