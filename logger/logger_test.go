package logger

import (
	"context"
	"testing"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	require.Equal(t, logger.LevelUndefined, LevelUndefined)
	require.Less(t, LevelUndefined, LevelFatal)
	require.Less(t, LevelError, LevelWarning)
	require.Less(t, LevelDebug, LevelTrace)
}

func TestCtxWithLogger(t *testing.T) {
	l := logrus.Default().WithLevel(LevelDebug)
	ctx := CtxWithLogger(context.Background(), l)
	require.Equal(t, LevelDebug, FromCtx(ctx).Level())

	Debugf(CtxWithField(ctx, "key", "value"), "must not panic")
}
