package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitSetsDebugLevel(t *testing.T) {
	Init(true, false)
	if Logger().GetLevel() != logrus.DebugLevel {
		t.Errorf("Init(true, false) level = %v, want DebugLevel", Logger().GetLevel())
	}
}

func TestInitDefaultsToInfoLevel(t *testing.T) {
	Init(false, false)
	if Logger().GetLevel() != logrus.InfoLevel {
		t.Errorf("Init(false, false) level = %v, want InfoLevel", Logger().GetLevel())
	}
}
