package kafka_test

import (
	"context"
	"testing"

	"github.com/NeuralTrust/SafetyHub/pkg/domain/conversation"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/telemetry/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
		wantErr  string
	}{
		{name: "valid", settings: map[string]interface{}{"host": "localhost", "port": 9092, "topic": "audit"}},
		{name: "missing host", settings: map[string]interface{}{"port": "9092", "topic": "audit"}, wantErr: "host"},
		{name: "missing port", settings: map[string]interface{}{"host": "localhost", "topic": "audit"}, wantErr: "port"},
		{name: "missing topic", settings: map[string]interface{}{"host": "localhost", "port": "9092"}, wantErr: "topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := kafka.ValidateConfig(tt.settings)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, kafka.Config{Host: "localhost", Port: "9092", Topic: "audit"}, conf)
		})
	}
}

func TestHandle_Uninitialized(t *testing.T) {
	err := (&kafka.Exporter{}).Handle(context.Background(), &conversation.InteractionEvent{ConversationID: "c"})
	assert.Error(t, err)
}
