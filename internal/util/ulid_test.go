package util_test

import (
	"testing"

	"mcq-generator/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestNewULID(t *testing.T) {
	a := util.NewULID()
	b := util.NewULID()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.True(t, util.IsULID(a))
	assert.Less(t, a, b, "ids from one process sort by creation")
}

func TestIsULID(t *testing.T) {
	assert.True(t, util.IsULID("01HGZ8VNRYXS8QKNJV5GRWPWDQ"))
	assert.False(t, util.IsULID(""))
	assert.False(t, util.IsULID("not-a-ulid"))
	assert.False(t, util.IsULID("01HGZ8VNRYXS8QKNJV5GRWPWD"))
}
