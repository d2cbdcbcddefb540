package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/notifyd/internal/notify"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"1", 1, false},
		{"4294967295", 4294967295, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"4294967296", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadFlag)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUrgency(t *testing.T) {
	tests := []struct {
		in      string
		want    notify.Urgency
		wantErr bool
	}{
		{"low", notify.UrgencyLow, false},
		{"Normal", notify.UrgencyNormal, false},
		{"", notify.UrgencyNormal, false},
		{"CRITICAL", notify.UrgencyCritical, false},
		{"2", notify.UrgencyCritical, false},
		{"urgent", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseUrgency(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadFlag)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseActions(t *testing.T) {
	got, err := parseActions([]string{"open=Open mail", "later", "x=a=b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"open", "Open mail", "later", "later", "x", "a=b"}, got)

	got, err = parseActions(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseActions([]string{"=Label"})
	assert.ErrorIs(t, err, errBadFlag)
}

func TestParseHints(t *testing.T) {
	got, err := parseHints([]string{
		"category=email.arrived",
		"string:desktop-entry=mail",
		"int:value=42",
		"byte:urgency=2",
		"bool:resident=true",
		"string:empty=",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"category":      "email.arrived",
		"desktop-entry": "mail",
		"value":         int32(42),
		"urgency":       byte(2),
		"resident":      true,
		"empty":         "",
	}, got)

	got, err = parseHints(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseHints_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no value", "category"},
		{"no name", "int:=3"},
		{"unknown type", "double:x=1.5"},
		{"int overflow", "int:x=3000000000"},
		{"byte overflow", "byte:x=256"},
		{"bad bool", "bool:x=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseHints([]string{tt.in})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errBadFlag), "error %v does not wrap errBadFlag", err)
		})
	}
}
