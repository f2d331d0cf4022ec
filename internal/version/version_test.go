package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "planner-sim dev (unknown, built unknown)", String("planner-sim"))
}
