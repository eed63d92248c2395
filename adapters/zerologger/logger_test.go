package zerologger_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-tenant-guard/adapters/zerologger"
)

func TestLoggerForwardsLevels(t *testing.T) {
	buf := new(bytes.Buffer)
	log := zerolog.New(buf)

	logger := zerologger.New(log)

	logger.Debug("debug %s", "detail")
	logger.Info("info %s", "detail")
	logger.Warn("warn %s", "detail")
	logger.Error("error %s", "detail")

	out := buf.String()
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, "info detail")
}
