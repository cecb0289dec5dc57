package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/appstore/internal/log"
)

func TestCtxWithValues(t *testing.T) {
	tests := map[string]struct {
		ctx       func() context.Context
		values    log.Kv
		expValues log.Kv
	}{
		"Empty context should return the set values.": {
			ctx:       context.Background,
			values:    log.Kv{"a": 1},
			expValues: log.Kv{"a": 1},
		},
		"Values already on the context should be merged and overwritten by the new ones.": {
			ctx: func() context.Context {
				return log.CtxWithValues(context.Background(), log.Kv{"a": 1, "b": 2})
			},
			values:    log.Kv{"b": 3, "c": 4},
			expValues: log.Kv{"a": 1, "b": 3, "c": 4},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			ctx := log.CtxWithValues(test.ctx(), test.values)
			assert.Equal(test.expValues, log.ValuesFromCtx(ctx))
		})
	}
}

func TestNoopKeepsContext(t *testing.T) {
	ctx := context.Background()
	got := log.Noop.SetValuesOnCtx(ctx, log.Kv{"a": 1})
	assert.Equal(t, ctx, got)
	assert.Equal(t, log.Kv{}, log.ValuesFromCtx(got))
}
