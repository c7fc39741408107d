package catalogservice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexBool_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected bool
		wantErr  bool
	}{
		{name: "bool true", payload: `{"published": true}`, expected: true},
		{name: "bool false", payload: `{"published": false}`, expected: false},
		{name: "string true", payload: `{"published": "true"}`, expected: true},
		{name: "string false", payload: `{"published": "false"}`, expected: false},
		{name: "string one", payload: `{"published": "1"}`, expected: true},
		{name: "string zero", payload: `{"published": "0"}`, expected: false},
		{name: "number one", payload: `{"published": 1}`, expected: true},
		{name: "number zero", payload: `{"published": 0}`, expected: false},
		{name: "garbage string", payload: `{"published": "maybe"}`, wantErr: true},
		{name: "array", payload: `{"published": [true]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var service Service
			err := json.Unmarshal([]byte(tt.payload), &service)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, service.IsPublished())
		})
	}
}

func TestService_Unmarshal(t *testing.T) {
	payload := `{"id": 7, "title": "Маникюр", "published": "1"}`

	var service Service
	require.NoError(t, json.Unmarshal([]byte(payload), &service))

	assert.Equal(t, int64(7), service.ID)
	assert.Equal(t, "Маникюр", service.Title)
	assert.True(t, service.IsPublished())
}
