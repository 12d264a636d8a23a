package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentLimitValid(t *testing.T) {
	assert.True(t, AssignmentLimitSingle.Valid())
	assert.True(t, AssignmentLimitMultiple.Valid())
	assert.False(t, AssignmentLimit("").Valid())
	assert.False(t, AssignmentLimit("triple").Valid())
}

func TestAssignmentLimitValues(t *testing.T) {
	assert.Equal(t, AssignmentLimit("single"), AssignmentLimitSingle)
	assert.Equal(t, AssignmentLimit("multiple"), AssignmentLimitMultiple)
}
