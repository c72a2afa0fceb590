package input

// KeyName is a stable, human-readable key identifier (e.g. "ArrowUp",
// "ShiftLeft") used wherever a KeyboardMapping needs to survive a config
// file round trip independent of the underlying scancode library.
type KeyName = string

// KeyboardMapping binds each digital button and analog-stick direction to
// a keyboard key. Analog axes are driven by two opposing digital keys
// (e.g. left_stick_left / left_stick_right) that compose into a -1/0/+1
// value, matching how a keyboard has no native analog input.
type KeyboardMapping struct {
	DpadUp    KeyName `toml:"dpad_up"`
	DpadDown  KeyName `toml:"dpad_down"`
	DpadLeft  KeyName `toml:"dpad_left"`
	DpadRight KeyName `toml:"dpad_right"`

	ButtonA KeyName `toml:"button_a"`
	ButtonB KeyName `toml:"button_b"`
	ButtonX KeyName `toml:"button_x"`
	ButtonY KeyName `toml:"button_y"`

	LeftBumper  KeyName `toml:"left_bumper"`
	RightBumper KeyName `toml:"right_bumper"`

	Start  KeyName `toml:"start"`
	Select KeyName `toml:"select"`

	LeftStickUp    KeyName `toml:"left_stick_up"`
	LeftStickDown  KeyName `toml:"left_stick_down"`
	LeftStickLeft  KeyName `toml:"left_stick_left"`
	LeftStickRight KeyName `toml:"left_stick_right"`

	RightStickUp    KeyName `toml:"right_stick_up"`
	RightStickDown  KeyName `toml:"right_stick_down"`
	RightStickLeft  KeyName `toml:"right_stick_left"`
	RightStickRight KeyName `toml:"right_stick_right"`

	LeftTrigger  KeyName `toml:"left_trigger"`
	RightTrigger KeyName `toml:"right_trigger"`
}

// DefaultKeyboardMapping returns the reference engine's default bindings:
// arrow keys for the d-pad, ZXCV for face buttons, WASD for the left
// stick, IJKL for the right stick, QE for bumpers, UO for triggers.
func DefaultKeyboardMapping() KeyboardMapping {
	return KeyboardMapping{
		DpadUp: "ArrowUp", DpadDown: "ArrowDown", DpadLeft: "ArrowLeft", DpadRight: "ArrowRight",

		ButtonA: "Z", ButtonB: "X", ButtonX: "C", ButtonY: "V",

		LeftBumper: "Q", RightBumper: "E",

		Start: "Enter", Select: "ShiftLeft",

		LeftStickUp: "W", LeftStickDown: "S", LeftStickLeft: "A", LeftStickRight: "D",

		RightStickUp: "I", RightStickDown: "K", RightStickLeft: "J", RightStickRight: "L",

		LeftTrigger: "U", RightTrigger: "O",
	}
}

// Config is the input manager's configuration: keyboard bindings plus the
// two deadzone parameters applied to every gamepad.
type Config struct {
	Keyboard        KeyboardMapping `toml:"keyboard"`
	StickDeadzone   float32         `toml:"stick_deadzone"`
	TriggerDeadzone float32         `toml:"trigger_deadzone"`
}

// DefaultConfig matches the reference engine's defaults.
func DefaultConfig() Config {
	return Config{
		Keyboard:        DefaultKeyboardMapping(),
		StickDeadzone:   0.15,
		TriggerDeadzone: 0.1,
	}
}
