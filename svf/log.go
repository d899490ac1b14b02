package svf

import (
	"github.com/sirupsen/logrus"

	"github.com/svf2gltf/svf2gltf/internal/obslog"
)

var log logrus.FieldLogger = obslog.For("svf")
