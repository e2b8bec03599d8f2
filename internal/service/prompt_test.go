package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptPoolExcludesUsed(t *testing.T) {
	pool := NewPromptPool([]string{"a", "b", "c"})

	used := map[string]bool{"a": true, "b": true}
	for i := 0; i < 20; i++ {
		assert.Equal(t, "c", pool.Pick(used))
	}
}

// 題目全部出完時退回整個題目池重抽，不會卡住
func TestPromptPoolExhaustedFallsBack(t *testing.T) {
	pool := NewPromptPool([]string{"a", "b"})

	used := map[string]bool{"a": true, "b": true}
	got := pool.Pick(used)
	assert.Contains(t, []string{"a", "b"}, got)
}

func TestPromptPoolDefaults(t *testing.T) {
	pool := NewPromptPool(nil)
	assert.Greater(t, pool.Size(), 0)
	assert.NotEmpty(t, pool.Pick(nil))
}
