package types

// Retained status payloads published on the bus under "status/...".

// ErrorLevel is the process-wide error state.
type ErrorLevel uint8

const (
	NoError ErrorLevel = iota
	NoConnErr
	HandleableErr
	HandleableAndNoConnErr
	FatalErr
)

func (l ErrorLevel) String() string {
	switch l {
	case NoError:
		return "none"
	case NoConnErr:
		return "no_conn"
	case HandleableErr:
		return "handleable"
	case HandleableAndNoConnErr:
		return "handleable_no_conn"
	case FatalErr:
		return "fatal"
	default:
		return "unknown"
	}
}

type ErrorStatus struct {
	Level ErrorLevel `json:"level"`
	TS    int64      `json:"ts_ms"`
}

// Link is the state reported for a network link.
type Link string

const (
	LinkUp   Link = "up"
	LinkDown Link = "down"
	// LinkBadConfig means no usable credentials are stored.
	LinkBadConfig Link = "bad_config"
)

type WifiStatus struct {
	Link Link   `json:"link"`
	SSID string `json:"ssid,omitempty"`
	TS   int64  `json:"ts_ms"`
}

// OTAState is the indicator state of the OTA controller.
type OTAState string

const (
	OTAIdle      OTAState = "idle"
	OTAAvailable OTAState = "available"
	OTAUpdating  OTAState = "updating"
	OTASuccess   OTAState = "success"
	OTAFailure   OTAState = "failure"
)

type OTAStatus struct {
	State  OTAState    `json:"state"`
	Server VersionInfo `json:"server"`
	TS     int64       `json:"ts_ms"`
}

type DirectionStatus struct {
	Dir   Direction `json:"dir"`
	Night bool      `json:"night"`
	TS    int64     `json:"ts_ms"`
}

// LEDColor is one LED's last written PWM triple.
type LEDColor struct {
	LED     uint16 `json:"led"`
	R, G, B uint8
}
