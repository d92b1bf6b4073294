package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(Options{Level: "info", Format: "text"}) })

	Configure(Options{Level: "debug", Format: "JSON"})
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Log.Formatter)

	Configure(Options{Level: "loud", Format: "text", NoColor: true})
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel(), "unknown level falls back to info")
	f, ok := Log.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.True(t, f.DisableColors)
}

func TestInitFromEnv(t *testing.T) {
	t.Cleanup(func() { Configure(Options{Level: "info", Format: "text"}) })
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")

	Init()
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Log.Formatter)
}

func TestComponent(t *testing.T) {
	t.Cleanup(func() { Configure(Options{Level: "info", Format: "text"}) })
	Configure(Options{Level: "info", Format: "json"})

	var buf bytes.Buffer
	Log.SetOutput(&buf)
	Component("map_loader").Info("loaded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "map_loader", line["component"])
	assert.Equal(t, "loaded", line["msg"])
}
