package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version = "v1.2.0"
	Commit = ""
	assert.Equal(t, "v1.2.0", String())

	Commit = "0123456789abcdef"
	assert.Equal(t, "v1.2.0 (0123456)", String())

	Commit = "abc"
	assert.Equal(t, "v1.2.0 (abc)", String())
}

func TestGetDev(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "dev"
	assert.NotEmpty(t, Get())
}
