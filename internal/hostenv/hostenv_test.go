package hostenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHostedNotebook(t *testing.T) {
	tests := map[string]struct {
		env map[string]string
		exp bool
	}{
		"No env should not be a hosted notebook.": {
			env: map[string]string{"HOME": "/root"},
			exp: false,
		},

		"Colab should be a hosted notebook.": {
			env: map[string]string{"COLAB_RELEASE_TAG": "release-colab_20260101"},
			exp: true,
		},

		"Jupyter kernels should be a hosted notebook.": {
			env: map[string]string{"JPY_PARENT_PID": "42"},
			exp: true,
		},

		"Empty values are still set.": {
			env: map[string]string{"KAGGLE_KERNEL_RUN_TYPE": ""},
			exp: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				v, ok := test.env[k]
				return v, ok
			}
			assert.Equal(t, test.exp, isHostedNotebook(lookup))
		})
	}
}
