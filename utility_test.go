package logsim

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarning, false},
		{"Warning", LevelWarning, false},
		{"error", LevelError, false},
		{"CRITICAL", LevelCritical, false},
		{"-4", LevelDebug, false},
		{"12", LevelCritical, false},
		{"3", 0, true},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, level)
			}
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	for i := 1; i < len(Levels); i++ {
		assert.Less(t, Levels[i-1], Levels[i], "levels must be ordered by severity")
	}

	assert.True(t, LevelWarning.Enabled(LevelError))
	assert.True(t, LevelWarning.Enabled(LevelWarning))
	assert.False(t, LevelWarning.Enabled(LevelInfo))

	assert.Equal(t, "WARNING", LevelWarning.String())
	assert.Equal(t, "LEVEL(5)", Level(5).String())
	assert.False(t, Level(5).Valid())
}

func TestLevelText(t *testing.T) {
	data, err := json.Marshal(map[string]Level{"l": LevelError})
	require.NoError(t, err)
	assert.JSONEq(t, `{"l":"ERROR"}`, string(data))

	var decoded map[string]Level
	require.NoError(t, json.Unmarshal([]byte(`{"l":"critical"}`), &decoded))
	assert.Equal(t, LevelCritical, decoded["l"])

	_, err = Level(1).MarshalText()
	assert.Error(t, err)
}

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("%w: disk gone", ErrFilesystem)
	assert.Equal(t, "logsim: filesystem error: disk gone", err.Error())
	assert.ErrorIs(t, err, ErrFilesystem)

	// Prefix is not doubled
	err = fmtErrorf("logsim: already prefixed")
	assert.Equal(t, "logsim: already prefixed", err.Error())
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, e1, combineErrors(e1, nil))
	assert.Equal(t, e2, combineErrors(nil, e2))

	combined := combineErrors(e1, e2)
	assert.ErrorIs(t, combined, e1)
	assert.ErrorIs(t, combined, e2)
}

func TestEntryJSON(t *testing.T) {
	entry := NewEntry(LevelWarning, "disk \"almost\" full")

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var raw map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "WARNING", raw["level"])
	assert.Equal(t, `disk "almost" full`, raw["message"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}$`, raw["timestamp"])

	var decoded Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry.Level, decoded.Level)
	assert.Equal(t, entry.Message, decoded.Message)
	assert.True(t, entry.Timestamp.Truncate(time.Microsecond).Equal(decoded.Timestamp))
}
