package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New("production").GetLevel())
	assert.Equal(t, zerolog.TraceLevel, New("development").GetLevel())
}
