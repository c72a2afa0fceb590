package replaydbg

import (
	"encoding/json"
	"fmt"

	"nethercore/internal/guest"
)

// scriptFile is the on-disk JSON shape a replay script is authored in.
// Compile turns it into a ready-to-run Script; the two are kept separate
// because Script's Inputs field is frame-indexed for O(1) lookup during
// execution, while the file format is a sparse per-entry list a human
// would actually hand-write.
type scriptFile struct {
	Console        string           `json:"console"`
	ConsoleID      uint32           `json:"console_id"`
	Seed           uint64           `json:"seed"`
	PlayerCount    int              `json:"player_count"`
	FrameCount     uint64           `json:"frame_count"`
	Inputs         []inputEntry     `json:"inputs"`
	SnapshotFrames []uint64         `json:"snapshot_frames"`
	Assertions     []assertionEntry `json:"assertions"`
	Actions        []actionEntry    `json:"actions"`
}

type inputEntry struct {
	Frame    uint64  `json:"frame"`
	Player   int     `json:"player"`
	Buttons  uint16  `json:"buttons"`
	StickLX  float32 `json:"stick_lx"`
	StickLY  float32 `json:"stick_ly"`
	StickRX  float32 `json:"stick_rx"`
	StickRY  float32 `json:"stick_ry"`
	TriggerL float32 `json:"trigger_l"`
	TriggerR float32 `json:"trigger_r"`
}

type assertValueEntry struct {
	Kind   string  `json:"kind"` // "number", "variable", "prev"
	Number float64 `json:"number,omitempty"`
	Name   string  `json:"name,omitempty"`
}

type assertionEntry struct {
	Frame     uint64           `json:"frame"`
	Variable  string           `json:"variable"`
	Operator  string           `json:"operator"` // "eq","ne","lt","gt","le","ge"
	Value     assertValueEntry `json:"value"`
	Condition string           `json:"condition,omitempty"`
}

type actionEntry struct {
	Frame   uint64 `json:"frame"`
	Kind    string `json:"kind"` // "breakpoint", "log"
	Message string `json:"message,omitempty"`
}

// LoadScript decodes a scriptFile from data and compiles it into a Script.
func LoadScript(data []byte) (*Script, error) {
	var sf scriptFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("replaydbg: decode script: %w", err)
	}
	return sf.compile()
}

func (sf *scriptFile) compile() (*Script, error) {
	if sf.PlayerCount <= 0 {
		sf.PlayerCount = guest.MaxPlayers
	}

	script := &Script{
		Console:     sf.Console,
		ConsoleID:   sf.ConsoleID,
		Seed:        sf.Seed,
		PlayerCount: sf.PlayerCount,
		FrameCount:  sf.FrameCount,
		SnapFrames:  sf.SnapshotFrames,
	}

	var maxInputFrame uint64
	for _, in := range sf.Inputs {
		if in.Frame > maxInputFrame {
			maxInputFrame = in.Frame
		}
	}
	if len(sf.Inputs) > 0 {
		script.Inputs = make([][]guest.RawInput, maxInputFrame+1)
		for i := range script.Inputs {
			script.Inputs[i] = make([]guest.RawInput, sf.PlayerCount)
		}
		for _, in := range sf.Inputs {
			if in.Player < 0 || in.Player >= sf.PlayerCount {
				return nil, fmt.Errorf("replaydbg: input at frame %d targets out-of-range player %d", in.Frame, in.Player)
			}
			script.Inputs[in.Frame][in.Player] = guest.RawInput{
				Buttons:  in.Buttons,
				StickLX:  in.StickLX,
				StickLY:  in.StickLY,
				StickRX:  in.StickRX,
				StickRY:  in.StickRY,
				TriggerL: in.TriggerL,
				TriggerR: in.TriggerR,
			}
		}
	}

	for _, ae := range sf.Assertions {
		op, err := parseCompareOp(ae.Operator)
		if err != nil {
			return nil, fmt.Errorf("replaydbg: assertion at frame %d: %w", ae.Frame, err)
		}
		value, err := ae.Value.compile()
		if err != nil {
			return nil, fmt.Errorf("replaydbg: assertion at frame %d: %w", ae.Frame, err)
		}
		condition := ae.Condition
		if condition == "" {
			condition = fmt.Sprintf("%s %s %s", ae.Variable, op, describeAssertValue(ae.Value))
		}
		script.Assertions = append(script.Assertions, Assertion{
			Frame:     ae.Frame,
			Variable:  ae.Variable,
			Operator:  op,
			Value:     value,
			Condition: condition,
		})
	}

	for _, act := range sf.Actions {
		kind, err := parseActionKind(act.Kind)
		if err != nil {
			return nil, fmt.Errorf("replaydbg: action at frame %d: %w", act.Frame, err)
		}
		script.Actions = append(script.Actions, Action{
			Frame:   act.Frame,
			Kind:    kind,
			Message: act.Message,
		})
	}

	return script, nil
}

func (v assertValueEntry) compile() (AssertValue, error) {
	switch v.Kind {
	case "number":
		return AssertValue{Kind: AssertNumber, Number: v.Number}, nil
	case "variable":
		if v.Name == "" {
			return AssertValue{}, fmt.Errorf("variable value requires a name")
		}
		return AssertValue{Kind: AssertVariable, Name: v.Name}, nil
	case "prev":
		if v.Name == "" {
			return AssertValue{}, fmt.Errorf("prev value requires a name")
		}
		return AssertValue{Kind: AssertPrevValue, Name: v.Name}, nil
	default:
		return AssertValue{}, fmt.Errorf("unknown assertion value kind %q", v.Kind)
	}
}

func describeAssertValue(v assertValueEntry) string {
	switch v.Kind {
	case "number":
		return fmt.Sprintf("%g", v.Number)
	case "variable":
		return v.Name
	case "prev":
		return fmt.Sprintf("$prev_%s", v.Name)
	default:
		return "?"
	}
}

func parseCompareOp(s string) (CompareOp, error) {
	switch s {
	case "eq", "==":
		return OpEq, nil
	case "ne", "!=":
		return OpNe, nil
	case "lt", "<":
		return OpLt, nil
	case "gt", ">":
		return OpGt, nil
	case "le", "<=":
		return OpLe, nil
	case "ge", ">=":
		return OpGe, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", s)
	}
}

func parseActionKind(s string) (ActionKind, error) {
	switch s {
	case "breakpoint":
		return ActionBreakpoint, nil
	case "log":
		return ActionLog, nil
	default:
		return 0, fmt.Errorf("unknown action kind %q", s)
	}
}
