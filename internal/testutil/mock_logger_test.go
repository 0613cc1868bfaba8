package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_DerivedLoggersShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()

	child := logger.Named("generation").With(logging.String("formula", "H2O"))
	child.Warn("generation failed", logging.Int("attempt", 1))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "generation", messages[0].Logger)
	assert.Len(t, messages[0].Fields, 2)
	assert.Equal(t, "formula", messages[0].Fields[0].Key)
}

//Personal.AI order the ending
