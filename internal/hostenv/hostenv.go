// Package hostenv probes the environment the app store is running on.
package hostenv

import "os"

// hostedNotebookEnvs are set by hosted notebook kernels (Colab, Jupyter, Kaggle).
var hostedNotebookEnvs = []string{
	"COLAB_RELEASE_TAG",
	"COLAB_GPU",
	"JPY_PARENT_PID",
	"JPY_SESSION_NAME",
	"KAGGLE_KERNEL_RUN_TYPE",
}

// IsHostedNotebook returns true when running inside a hosted notebook kernel,
// where terminals are limited (no alternate screen, poor color support).
func IsHostedNotebook() bool {
	return isHostedNotebook(os.LookupEnv)
}

func isHostedNotebook(lookupEnv func(string) (string, bool)) bool {
	for _, env := range hostedNotebookEnvs {
		if _, ok := lookupEnv(env); ok {
			return true
		}
	}
	return false
}
