package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesJSONWithServiceFields(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewLogger(buf, "delivery-analytics", slog.LevelInfo)

	logger.Info("zone cache enabled", "ttl", "15m0s")
	logger.Debug("not written")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	assert.Equal(t, "zone cache enabled", rec["message"])
	assert.Equal(t, "delivery-analytics", rec["service"])
	assert.Equal(t, "15m0s", rec["ttl"])
	assert.Contains(t, rec, "timestamp")
	assert.Contains(t, rec, "host")
	assert.NotContains(t, rec, "msg")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestTimeLogsFailuresWithRequestID(t *testing.T) {
	buf := new(bytes.Buffer)
	prev := slog.Default()
	slog.SetDefault(NewLogger(buf, "test", slog.LevelInfo))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))

	func() (err error) {
		defer Time(ctx, "sqlite.ListZones")(&err)
		return errors.New("boom")
	}()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	assert.Equal(t, "op failed", rec["message"])
	assert.Equal(t, "req-1", rec["req_id"])
	assert.Equal(t, "sqlite.ListZones", rec["op"])
	assert.Equal(t, "boom", rec["error"])
}
