package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/specialistvlad/contingent/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Notify(ctx context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestLog_ReportsSuccessAndFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(buf, nil)))

	require.NoError(t, Log{}.Notify(ctx, Event{Changed: []string{"a.md"}}))
	require.NoError(t, Log{}.Notify(ctx, Event{Changed: []string{"b.md"}, Err: errors.New("boom")}))

	out := buf.String()
	assert.Contains(t, out, "Rebuild complete.")
	assert.Contains(t, out, "Rebuild failed.")
	assert.Contains(t, out, "boom")
}

func TestMulti_NotifiesAllAndJoinsErrors(t *testing.T) {
	first := &recorder{err: errors.New("first down")}
	second := &recorder{}

	err := Multi{first, second}.Notify(context.Background(), Event{Changed: []string{"a.md"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "first down")
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}

func TestPayload(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	ok := Payload(Event{Changed: []string{"a.md"}, At: at, Duration: 1500 * time.Millisecond})
	assert.Equal(t, map[string]any{
		"changed":     []string{"a.md"},
		"at":          "2024-05-06T07:08:09Z",
		"duration_ms": int64(1500),
		"ok":          true,
	}, ok)

	failed := Payload(Event{At: at, Err: errors.New("boom")})
	assert.Equal(t, false, failed["ok"])
	assert.Equal(t, "boom", failed["error"])
}

func TestDialSocketIO_BadURL(t *testing.T) {
	_, err := DialSocketIO(context.Background(), SocketIOConfig{URL: "://bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse URL")
}
