package input

// Digital button bits within guest.RawInput.Buttons. Bit order matches the
// reference engine's RawInput field order: d-pad, face buttons, bumpers,
// stick clicks, start/select.
const (
	ButtonDpadUp uint16 = 1 << iota
	ButtonDpadDown
	ButtonDpadLeft
	ButtonDpadRight

	ButtonA
	ButtonB
	ButtonX
	ButtonY

	ButtonLeftBumper
	ButtonRightBumper

	ButtonLeftStick
	ButtonRightStick

	ButtonStart
	ButtonSelect
)
