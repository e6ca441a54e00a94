package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey string

func TestWithContext(t *testing.T) {
	t.Run("nil context yields a plain logger", func(t *testing.T) {
		//nolint:staticcheck
		l := WithContext(nil)
		assert.Empty(t, l.Data)
	})

	t.Run("anonymous when no user is set", func(t *testing.T) {
		l := WithContext(context.Background())
		assert.Equal(t, "anonymous", l.Data["user"])
		assert.NotContains(t, l.Data, "request_id")
	})

	t.Run("picks up user role and request id", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UsernameKey, "jdoe") //nolint:staticcheck
		ctx = context.WithValue(ctx, RoleKey, "admin")                      //nolint:staticcheck
		ctx = context.WithValue(ctx, RequestIDKey, "req-1")                 //nolint:staticcheck

		l := WithContext(ctx)
		assert.Equal(t, "jdoe", l.Data["user"])
		assert.Equal(t, "admin", l.Data["role"])
		assert.Equal(t, "req-1", l.Data["request_id"])
	})

	t.Run("ignores unrelated keys", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxKey(UsernameKey), "jdoe")
		l := WithContext(ctx)
		assert.Equal(t, "anonymous", l.Data["user"])
	})
}

func TestLoggerFields(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	var buf bytes.Buffer
	out := logrus.StandardLogger().Out
	logrus.SetOutput(&buf)
	defer logrus.SetOutput(out)

	Component("importer").
		WithFields(map[string]interface{}{"rows": 3}).
		WithError(errors.New("boom")).
		Warn("import finished with errors")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "importer", entry.Data["component"])
	assert.Equal(t, 3, entry.Data["rows"])
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "boom")
}
