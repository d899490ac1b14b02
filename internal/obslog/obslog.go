// Package obslog builds the per-package loggers used across this
// repository: one package-scoped `log` variable, constructed by a
// one-line call at package init, backed by logrus.
package obslog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// For returns a FieldLogger tagged with the owning package's name.
// Level is taken from SVF2GLTF_LOG_LEVEL (parsed with logrus itself),
// defaulting to info.
func For(pkg string) logrus.FieldLogger {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	level := logrus.InfoLevel
	if v := os.Getenv("SVF2GLTF_LOG_LEVEL"); v != "" {
		if parsed, err := logrus.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	base.SetLevel(level)
	return base.WithField("pkg", pkg)
}
