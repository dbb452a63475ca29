package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github/chapool/go-docsign/internal/util"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("DOCSIGN_TEST_STR", "value")
	t.Setenv("DOCSIGN_TEST_INT", "42")
	t.Setenv("DOCSIGN_TEST_BOOL", "false")
	t.Setenv("DOCSIGN_TEST_ARR", " a, b ,,c ")

	assert.Equal(t, "value", util.GetEnv("DOCSIGN_TEST_STR", "default"))
	assert.Equal(t, "default", util.GetEnv("DOCSIGN_TEST_MISSING", "default"))
	assert.Equal(t, 42, util.GetEnvAsInt("DOCSIGN_TEST_INT", 1))
	assert.Equal(t, int64(42), util.GetEnvAsInt64("DOCSIGN_TEST_INT", 1))
	assert.Equal(t, 1, util.GetEnvAsInt("DOCSIGN_TEST_STR", 1))
	assert.False(t, util.GetEnvAsBool("DOCSIGN_TEST_BOOL", true))
	assert.True(t, util.GetEnvAsBool("DOCSIGN_TEST_MISSING", true))
	assert.Equal(t, []string{"a", "b", "c"}, util.GetEnvAsStringArrTrimmed("DOCSIGN_TEST_ARR", nil))
	assert.Equal(t, []string{"x"}, util.GetEnvAsStringArrTrimmed("DOCSIGN_TEST_MISSING", []string{"x"}))
}

func TestGetEnvEnum(t *testing.T) {
	t.Setenv("DOCSIGN_TEST_ENUM", "redis")
	assert.Equal(t, "redis", util.GetEnvEnum("DOCSIGN_TEST_ENUM", "memory", []string{"memory", "redis"}))

	t.Setenv("DOCSIGN_TEST_ENUM", "mongo")
	assert.Panics(t, func() {
		util.GetEnvEnum("DOCSIGN_TEST_ENUM", "memory", []string{"memory", "redis"})
	})
}
