// Package input reads keyboard and gamepad state into the fixed-layout
// guest.RawInput record the runtime feeds into a guest program once per
// tick, per player slot. Player 0 is the keyboard unless a gamepad has
// claimed that slot; players 1-3 are gamepads in connection order.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"nethercore/internal/guest"
)

// Manager owns keyboard/gamepad-to-player-slot assignment and the per-tick
// poll that turns raw device state into guest.RawInput records.
type Manager struct {
	config Config

	controllers     map[sdl.JoystickID]*sdl.GameController
	gamepadToPlayer map[sdl.JoystickID]int

	playerInputs [guest.MaxPlayers]guest.RawInput
}

// NewManager returns a manager with no gamepads assigned; slot 0 reads the
// keyboard until a gamepad connects and claims it.
func NewManager(config Config) *Manager {
	return &Manager{
		config:          config,
		controllers:     make(map[sdl.JoystickID]*sdl.GameController),
		gamepadToPlayer: make(map[sdl.JoystickID]int),
	}
}

// HandleEvent processes one polled sdl.Event, opening or closing gamepads
// on hot-plug. Events of any other type are ignored.
func (m *Manager) HandleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.ControllerDeviceAddedEvent:
		m.onControllerAdded(e)
	case *sdl.ControllerDeviceRemovedEvent:
		m.onControllerRemoved(e)
	}
}

func (m *Manager) onControllerAdded(e *sdl.ControllerDeviceAddedEvent) {
	slot := m.findFreePlayerSlot()
	if slot < 0 {
		return
	}
	controller := sdl.GameControllerOpen(int(e.Which))
	if controller == nil {
		return
	}
	id := controller.Joystick().InstanceID()
	m.controllers[id] = controller
	m.gamepadToPlayer[id] = slot
}

func (m *Manager) onControllerRemoved(e *sdl.ControllerDeviceRemovedEvent) {
	id := sdl.JoystickID(e.Which)
	if controller, ok := m.controllers[id]; ok {
		controller.Close()
		delete(m.controllers, id)
	}
	if slot, ok := m.gamepadToPlayer[id]; ok {
		delete(m.gamepadToPlayer, id)
		m.playerInputs[slot] = guest.RawInput{}
	}
}

// findFreePlayerSlot returns the lowest unoccupied slot in 0..MaxPlayers,
// or -1 if every slot is taken.
func (m *Manager) findFreePlayerSlot() int {
	for slot := 0; slot < guest.MaxPlayers; slot++ {
		occupied := false
		for _, s := range m.gamepadToPlayer {
			if s == slot {
				occupied = true
				break
			}
		}
		if !occupied {
			return slot
		}
	}
	return -1
}

// slotHasGamepad reports whether some connected gamepad already owns slot.
func (m *Manager) slotHasGamepad(slot int) bool {
	for _, s := range m.gamepadToPlayer {
		if s == slot {
			return true
		}
	}
	return false
}

// Poll reads current keyboard and gamepad state and refreshes every
// player's input record. Call once per frame after pumping SDL events.
func (m *Manager) Poll() {
	if !m.slotHasGamepad(0) {
		m.playerInputs[0] = m.readKeyboardInput()
	}
	for id, controller := range m.controllers {
		slot := m.gamepadToPlayer[id]
		m.playerInputs[slot] = m.readGamepadInput(controller)
	}
}

// GetPlayerInput returns the most recently polled input for player, or a
// zero-value RawInput if player is out of range.
func (m *Manager) GetPlayerInput(player int) guest.RawInput {
	if player < 0 || player >= guest.MaxPlayers {
		return guest.RawInput{}
	}
	return m.playerInputs[player]
}

func (m *Manager) readKeyboardInput() guest.RawInput {
	state := sdl.GetKeyboardState()
	mapping := m.config.Keyboard

	pressed := func(name KeyName) bool {
		if state == nil {
			return false
		}
		code, ok := stringToKeyCode(name)
		if !ok {
			return false
		}
		return state[code] != 0
	}

	var buttons uint16
	setIf := func(cond bool, bit uint16) {
		if cond {
			buttons |= bit
		}
	}
	setIf(pressed(mapping.DpadUp), ButtonDpadUp)
	setIf(pressed(mapping.DpadDown), ButtonDpadDown)
	setIf(pressed(mapping.DpadLeft), ButtonDpadLeft)
	setIf(pressed(mapping.DpadRight), ButtonDpadRight)
	setIf(pressed(mapping.ButtonA), ButtonA)
	setIf(pressed(mapping.ButtonB), ButtonB)
	setIf(pressed(mapping.ButtonX), ButtonX)
	setIf(pressed(mapping.ButtonY), ButtonY)
	setIf(pressed(mapping.LeftBumper), ButtonLeftBumper)
	setIf(pressed(mapping.RightBumper), ButtonRightBumper)
	setIf(pressed(mapping.Start), ButtonStart)
	setIf(pressed(mapping.Select), ButtonSelect)

	axis := func(negKey, posKey KeyName) float32 {
		switch {
		case pressed(negKey) && !pressed(posKey):
			return -1
		case pressed(posKey) && !pressed(negKey):
			return 1
		default:
			return 0
		}
	}
	trigger := func(key KeyName) float32 {
		if pressed(key) {
			return 1
		}
		return 0
	}

	return guest.RawInput{
		Buttons:  buttons,
		StickLX:  axis(mapping.LeftStickLeft, mapping.LeftStickRight),
		StickLY:  axis(mapping.LeftStickDown, mapping.LeftStickUp),
		StickRX:  axis(mapping.RightStickLeft, mapping.RightStickRight),
		StickRY:  axis(mapping.RightStickDown, mapping.RightStickUp),
		TriggerL: trigger(mapping.LeftTrigger),
		TriggerR: trigger(mapping.RightTrigger),
	}
}

func (m *Manager) readGamepadInput(c *sdl.GameController) guest.RawInput {
	btn := func(b sdl.GameControllerButton) bool {
		return c.Button(b) != 0
	}
	axisValue := func(a sdl.GameControllerAxis) float32 {
		return float32(c.Axis(a)) / 32767.0
	}
	stickAxis := func(a sdl.GameControllerAxis) float32 {
		return applyStickDeadzone(axisValue(a), m.config.StickDeadzone)
	}
	triggerAxis := func(a sdl.GameControllerAxis) float32 {
		// TRIGGERLEFT/TRIGGERRIGHT already report 0..32767, unlike a
		// signed stick axis, so axisValue's 0..1 range needs no
		// remapping before the deadzone is applied.
		return applyTriggerDeadzone(axisValue(a), m.config.TriggerDeadzone)
	}

	var buttons uint16
	setIf := func(cond bool, bit uint16) {
		if cond {
			buttons |= bit
		}
	}
	setIf(btn(sdl.CONTROLLER_BUTTON_DPAD_UP), ButtonDpadUp)
	setIf(btn(sdl.CONTROLLER_BUTTON_DPAD_DOWN), ButtonDpadDown)
	setIf(btn(sdl.CONTROLLER_BUTTON_DPAD_LEFT), ButtonDpadLeft)
	setIf(btn(sdl.CONTROLLER_BUTTON_DPAD_RIGHT), ButtonDpadRight)
	setIf(btn(sdl.CONTROLLER_BUTTON_A), ButtonA)
	setIf(btn(sdl.CONTROLLER_BUTTON_B), ButtonB)
	setIf(btn(sdl.CONTROLLER_BUTTON_X), ButtonX)
	setIf(btn(sdl.CONTROLLER_BUTTON_Y), ButtonY)
	setIf(btn(sdl.CONTROLLER_BUTTON_LEFTSHOULDER), ButtonLeftBumper)
	setIf(btn(sdl.CONTROLLER_BUTTON_RIGHTSHOULDER), ButtonRightBumper)
	setIf(btn(sdl.CONTROLLER_BUTTON_LEFTSTICK), ButtonLeftStick)
	setIf(btn(sdl.CONTROLLER_BUTTON_RIGHTSTICK), ButtonRightStick)
	setIf(btn(sdl.CONTROLLER_BUTTON_START), ButtonStart)
	setIf(btn(sdl.CONTROLLER_BUTTON_BACK), ButtonSelect)

	return guest.RawInput{
		Buttons: buttons,
		StickLX: stickAxis(sdl.CONTROLLER_AXIS_LEFTX),
		// Invert Y so that pushing the stick up reads as positive; SDL
		// reports stick Y with down as positive.
		StickLY:  -stickAxis(sdl.CONTROLLER_AXIS_LEFTY),
		StickRX:  stickAxis(sdl.CONTROLLER_AXIS_RIGHTX),
		StickRY:  -stickAxis(sdl.CONTROLLER_AXIS_RIGHTY),
		TriggerL: triggerAxis(sdl.CONTROLLER_AXIS_TRIGGERLEFT),
		TriggerR: triggerAxis(sdl.CONTROLLER_AXIS_TRIGGERRIGHT),
	}
}

// Close releases every open gamepad. Call once during shutdown.
func (m *Manager) Close() {
	for _, controller := range m.controllers {
		controller.Close()
	}
	m.controllers = make(map[sdl.JoystickID]*sdl.GameController)
	m.gamepadToPlayer = make(map[sdl.JoystickID]int)
}
