package dots

import (
	"strconv"

	"trafficdots-go/drivers/is31fl3741"
	"trafficdots-go/drivers/is31fl3741/ledmap"
	"trafficdots-go/errcode"
)

// Command is one gatekeeper operation. The set of variants is closed.
type Command interface {
	Name() string
	validate(m *ledmap.Map) error
}

type SetOperatingModeCmd struct{ Mode is31fl3741.Operation }
type SetOpenShortDetectionCmd struct{ Mode is31fl3741.ShortDetection }
type SetLogicLevelCmd struct{ Level is31fl3741.LogicLevel }
type SetSWxSettingCmd struct{ Setting is31fl3741.SWx }
type SetGlobalCurrentCmd struct{ Value uint8 }
type SetResistorPullupCmd struct{ Setting is31fl3741.Resistor }
type SetResistorPulldownCmd struct{ Setting is31fl3741.Resistor }
type SetPWMFrequencyCmd struct{ Freq is31fl3741.PWMFrequency }
type ResetCmd struct{}

// SetColorCmd writes the PWM bytes of one LED.
type SetColorCmd struct {
	LED     uint16
	R, G, B uint8
}

// SetScalingCmd writes the current scaling bytes of one LED.
type SetScalingCmd struct {
	LED     uint16
	R, G, B uint8
}

// Bench and test hooks.
type ReleaseBusCmd struct{}
type ReacquireBusCmd struct{}
type NotifyOKCmd struct{}
type NotifyErrCmd struct{}

func (SetOperatingModeCmd) Name() string      { return "set_operating_mode" }
func (SetOpenShortDetectionCmd) Name() string { return "set_open_short_detection" }
func (SetLogicLevelCmd) Name() string         { return "set_logic_level" }
func (SetSWxSettingCmd) Name() string         { return "set_swx_setting" }
func (SetGlobalCurrentCmd) Name() string      { return "set_global_current" }
func (SetResistorPullupCmd) Name() string     { return "set_resistor_pullup" }
func (SetResistorPulldownCmd) Name() string   { return "set_resistor_pulldown" }
func (SetPWMFrequencyCmd) Name() string       { return "set_pwm_frequency" }
func (ResetCmd) Name() string                 { return "reset" }
func (SetColorCmd) Name() string              { return "set_color" }
func (SetScalingCmd) Name() string            { return "set_scaling" }
func (ReleaseBusCmd) Name() string            { return "release_bus" }
func (ReacquireBusCmd) Name() string          { return "reacquire_bus" }
func (NotifyOKCmd) Name() string              { return "notify_ok" }
func (NotifyErrCmd) Name() string             { return "notify_err" }

func invalid(c Command, what string) error {
	return errcode.New(errcode.InvalidParams, "dots."+c.Name(), what)
}

func (c SetOperatingModeCmd) validate(*ledmap.Map) error {
	if !c.Mode.Valid() {
		return invalid(c, "operation "+strconv.Itoa(int(c.Mode)))
	}
	return nil
}

func (c SetOpenShortDetectionCmd) validate(*ledmap.Map) error {
	if !c.Mode.Valid() {
		return invalid(c, "detection "+strconv.Itoa(int(c.Mode)))
	}
	return nil
}

func (c SetLogicLevelCmd) validate(*ledmap.Map) error {
	if !c.Level.Valid() {
		return invalid(c, "logic level "+strconv.Itoa(int(c.Level)))
	}
	return nil
}

func (c SetSWxSettingCmd) validate(*ledmap.Map) error {
	if !c.Setting.Valid() {
		return invalid(c, "swx "+strconv.Itoa(int(c.Setting)))
	}
	return nil
}

func (SetGlobalCurrentCmd) validate(*ledmap.Map) error { return nil }

func (c SetResistorPullupCmd) validate(*ledmap.Map) error {
	if !c.Setting.Valid() {
		return invalid(c, "resistor "+strconv.Itoa(int(c.Setting)))
	}
	return nil
}

func (c SetResistorPulldownCmd) validate(*ledmap.Map) error {
	if !c.Setting.Valid() {
		return invalid(c, "resistor "+strconv.Itoa(int(c.Setting)))
	}
	return nil
}

func (c SetPWMFrequencyCmd) validate(*ledmap.Map) error {
	if !c.Freq.Valid() {
		return invalid(c, "frequency "+strconv.Itoa(int(c.Freq)))
	}
	return nil
}

func (ResetCmd) validate(*ledmap.Map) error { return nil }

func (c SetColorCmd) validate(m *ledmap.Map) error { return validLED(c, m, c.LED) }

func (c SetScalingCmd) validate(m *ledmap.Map) error { return validLED(c, m, c.LED) }

func validLED(c Command, m *ledmap.Map, led uint16) error {
	if _, ok := m.Lookup(int(led)); !ok {
		return invalid(c, "led "+strconv.Itoa(int(led)))
	}
	return nil
}

func (ReleaseBusCmd) validate(*ledmap.Map) error   { return nil }
func (ReacquireBusCmd) validate(*ledmap.Map) error { return nil }
func (NotifyOKCmd) validate(*ledmap.Map) error     { return nil }
func (NotifyErrCmd) validate(*ledmap.Map) error    { return nil }
