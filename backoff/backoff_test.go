package backoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()

	assert.Equal(t, ModeConstant, policy.Mode)
	assert.Equal(t, 200*time.Millisecond, policy.InitialDelay)
	assert.Equal(t, 3, policy.MaxAttempts)
	assert.NoError(t, policy.Validate())
}

func TestPolicyValidate(t *testing.T) {
	valid := Policy{Mode: ModeExponential, InitialDelay: time.Second, MaxAttempts: 1}
	assert.NoError(t, valid.Validate())

	noDelay := Policy{Mode: ModeConstant, InitialDelay: 0, MaxAttempts: 3}
	assert.Error(t, noDelay.Validate())

	negativeDelay := Policy{Mode: ModeConstant, InitialDelay: -time.Second, MaxAttempts: 3}
	assert.Error(t, negativeDelay.Validate())

	noAttempts := Policy{Mode: ModeConstant, InitialDelay: time.Second, MaxAttempts: 0}
	assert.Error(t, noAttempts.Validate())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "constant", ModeConstant.String())
	assert.Equal(t, "exponential", ModeExponential.String())
	assert.Equal(t, "unknown", Mode(42).String())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", Status(42).String())
}
