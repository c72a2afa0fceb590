package input

import "github.com/veandco/go-sdl2/sdl"

// keyNames maps every scancode a KeyboardMapping can reference to the
// stable string name it serializes as, so a saved InputConfig survives a
// keyboard-layout-library upgrade.
var keyNames = map[sdl.Scancode]string{
	sdl.SCANCODE_A: "A", sdl.SCANCODE_B: "B", sdl.SCANCODE_C: "C", sdl.SCANCODE_D: "D",
	sdl.SCANCODE_E: "E", sdl.SCANCODE_F: "F", sdl.SCANCODE_G: "G", sdl.SCANCODE_H: "H",
	sdl.SCANCODE_I: "I", sdl.SCANCODE_J: "J", sdl.SCANCODE_K: "K", sdl.SCANCODE_L: "L",
	sdl.SCANCODE_M: "M", sdl.SCANCODE_N: "N", sdl.SCANCODE_O: "O", sdl.SCANCODE_P: "P",
	sdl.SCANCODE_Q: "Q", sdl.SCANCODE_R: "R", sdl.SCANCODE_S: "S", sdl.SCANCODE_T: "T",
	sdl.SCANCODE_U: "U", sdl.SCANCODE_V: "V", sdl.SCANCODE_W: "W", sdl.SCANCODE_X: "X",
	sdl.SCANCODE_Y: "Y", sdl.SCANCODE_Z: "Z",

	sdl.SCANCODE_0: "0", sdl.SCANCODE_1: "1", sdl.SCANCODE_2: "2", sdl.SCANCODE_3: "3",
	sdl.SCANCODE_4: "4", sdl.SCANCODE_5: "5", sdl.SCANCODE_6: "6", sdl.SCANCODE_7: "7",
	sdl.SCANCODE_8: "8", sdl.SCANCODE_9: "9",

	sdl.SCANCODE_UP: "ArrowUp", sdl.SCANCODE_DOWN: "ArrowDown",
	sdl.SCANCODE_LEFT: "ArrowLeft", sdl.SCANCODE_RIGHT: "ArrowRight",

	sdl.SCANCODE_F1: "F1", sdl.SCANCODE_F2: "F2", sdl.SCANCODE_F3: "F3", sdl.SCANCODE_F4: "F4",
	sdl.SCANCODE_F5: "F5", sdl.SCANCODE_F6: "F6", sdl.SCANCODE_F7: "F7", sdl.SCANCODE_F8: "F8",
	sdl.SCANCODE_F9: "F9", sdl.SCANCODE_F10: "F10", sdl.SCANCODE_F11: "F11", sdl.SCANCODE_F12: "F12",

	sdl.SCANCODE_LSHIFT: "ShiftLeft", sdl.SCANCODE_RSHIFT: "ShiftRight",
	sdl.SCANCODE_LCTRL: "ControlLeft", sdl.SCANCODE_RCTRL: "ControlRight",
	sdl.SCANCODE_LALT: "AltLeft", sdl.SCANCODE_RALT: "AltRight",
	sdl.SCANCODE_RETURN: "Enter", sdl.SCANCODE_SPACE: "Space", sdl.SCANCODE_TAB: "Tab",
	sdl.SCANCODE_BACKSPACE: "Backspace", sdl.SCANCODE_ESCAPE: "Escape",

	sdl.SCANCODE_COMMA: "Comma", sdl.SCANCODE_PERIOD: "Period", sdl.SCANCODE_SLASH: "Slash",
	sdl.SCANCODE_SEMICOLON: "Semicolon", sdl.SCANCODE_APOSTROPHE: "Quote",
	sdl.SCANCODE_LEFTBRACKET: "BracketLeft", sdl.SCANCODE_RIGHTBRACKET: "BracketRight",
	sdl.SCANCODE_MINUS: "Minus", sdl.SCANCODE_EQUALS: "Equal",

	sdl.SCANCODE_KP_0: "Numpad0", sdl.SCANCODE_KP_1: "Numpad1", sdl.SCANCODE_KP_2: "Numpad2",
	sdl.SCANCODE_KP_3: "Numpad3", sdl.SCANCODE_KP_4: "Numpad4", sdl.SCANCODE_KP_5: "Numpad5",
	sdl.SCANCODE_KP_6: "Numpad6", sdl.SCANCODE_KP_7: "Numpad7", sdl.SCANCODE_KP_8: "Numpad8",
	sdl.SCANCODE_KP_9: "Numpad9", sdl.SCANCODE_KP_ENTER: "NumpadEnter", sdl.SCANCODE_KP_PLUS: "NumpadAdd",
}

var namesToKeys map[string]sdl.Scancode

func init() {
	namesToKeys = make(map[string]sdl.Scancode, len(keyNames))
	for code, name := range keyNames {
		namesToKeys[name] = code
	}
}

// keyCodeToString returns the stable name for code, or "Unknown" if code
// isn't in the supported table.
func keyCodeToString(code sdl.Scancode) string {
	if name, ok := keyNames[code]; ok {
		return name
	}
	return "Unknown"
}

// stringToKeyCode resolves a stable key name back to its scancode. Returns
// sdl.SCANCODE_UNKNOWN and false if name isn't recognized, e.g. after a
// config file is hand-edited with a typo.
func stringToKeyCode(name string) (sdl.Scancode, bool) {
	code, ok := namesToKeys[name]
	return code, ok
}
