package input

import (
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigValues(t *testing.T) {
	c := DefaultConfig()
	assert.InDelta(t, 0.15, c.StickDeadzone, 0.001)
	assert.InDelta(t, 0.1, c.TriggerDeadzone, 0.001)
}

func TestKeyboardMappingRoundTrip(t *testing.T) {
	mapping := DefaultKeyboardMapping()

	encoded, err := tomlEncode(mapping)
	assert.NoError(t, err)
	assert.Contains(t, encoded, "ArrowUp")
	assert.Contains(t, encoded, "ShiftLeft")

	var decoded KeyboardMapping
	_, err = toml.Decode(encoded, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, mapping, decoded)
}

func TestConfigRoundTrip(t *testing.T) {
	c := DefaultConfig()
	encoded, err := tomlEncode(c)
	assert.NoError(t, err)
	assert.Contains(t, encoded, "[keyboard]")

	var decoded Config
	_, err = toml.Decode(encoded, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, c.Keyboard.DpadUp, decoded.Keyboard.DpadUp)
	assert.InDelta(t, c.StickDeadzone, decoded.StickDeadzone, 0.0001)
	assert.InDelta(t, c.TriggerDeadzone, decoded.TriggerDeadzone, 0.0001)
}

func TestConfigDeserializePartialUsesDefaultsImplicitly(t *testing.T) {
	var decoded Config
	_, err := toml.Decode(`stick_deadzone = 0.25`, &decoded)
	assert.NoError(t, err)
	assert.InDelta(t, 0.25, decoded.StickDeadzone, 0.0001)
	// Fields absent from the TOML source decode to the zero value; callers
	// are expected to start from DefaultConfig and decode over it.
	assert.Equal(t, KeyName(""), decoded.Keyboard.DpadUp)
}

func tomlEncode(v interface{}) (string, error) {
	var sb strings.Builder
	enc := toml.NewEncoder(&sb)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return sb.String(), nil
}
