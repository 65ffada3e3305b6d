package is31fl3741

// Paged register file selection.
const (
	RegID        = 0xFC
	RegCommand   = 0xFD
	RegWriteLock = 0xFE

	UnlockKey = 0xC5 // 0b11000101
	ResetKey  = 0xAE
)

// Page is a register bank inside one chip.
type Page uint8

const (
	PagePWM0     Page = 0
	PagePWM1     Page = 1
	PageScaling0 Page = 2
	PageScaling1 Page = 3
	PageFunction Page = 4
)

// ScalingPage returns the scaling bank paired with a PWM bank. Scaling bytes
// live at the same addresses two pages up.
func (p Page) ScalingPage() Page { return p + 2 }

// Function page registers.
const (
	RegConfig        = 0x00
	RegGlobalCurrent = 0x01
	RegPullSelect    = 0x02
	RegPWMFrequency  = 0x36
	RegReset         = 0x3F
)

// Field masks. Values are shifted to the mask's lowest set bit on write.
const (
	MaskSoftwareShutdown = 0x01
	MaskOpenShort        = 0x06
	MaskLogicLevel       = 0x08
	MaskSWx              = 0xF0
	MaskPullup           = 0x07
	MaskPulldown         = 0x70
	MaskPWMFrequency     = 0x0F
)

// Operation selects software shutdown or normal operation.
type Operation uint8

const (
	SoftwareShutdown Operation = 0
	NormalOperation  Operation = 1
)

func (o Operation) Valid() bool { return o <= NormalOperation }

// ShortDetection selects the open/short detection mode.
type ShortDetection uint8

const (
	DetectionOff   ShortDetection = 0
	DetectionOpen  ShortDetection = 1
	DetectionShort ShortDetection = 2
	DetectionBoth  ShortDetection = 3
)

func (s ShortDetection) Valid() bool { return s <= DetectionBoth }

// LogicLevel selects the SDA/SCL input thresholds.
type LogicLevel uint8

const (
	LogicNormal LogicLevel = 0 // 2.4V/0.6V
	LogicLow    LogicLevel = 1 // 1.4V/0.4V
)

func (l LogicLevel) Valid() bool { return l <= LogicLow }

// SWx is the matrix scanning topology: 0 uses SW1..SW9 and each step drops one.
type SWx uint8

const (
	SW1toSW9 SWx = iota
	SW1toSW8
	SW1toSW7
	SW1toSW6
	SW1toSW5
	SW1toSW4
	SW1toSW3
	SW1toSW2
	SWAllOff
)

func (s SWx) Valid() bool { return s <= SWAllOff }

// Resistor is a pull-up/pull-down setting for the SWx/CSy lines.
type Resistor uint8

const (
	ResistorNone Resistor = iota
	Resistor0k5
	Resistor1k
	Resistor2k
	Resistor4k
	Resistor8k
	Resistor16k
	Resistor32k
)

func (r Resistor) Valid() bool { return r <= Resistor32k }

// PWMFrequency is the base PWM frequency encoding.
type PWMFrequency uint8

const (
	PWM29kHz PWMFrequency = 0
	PWM3k6Hz PWMFrequency = 2
	PWM1k8Hz PWMFrequency = 7
	PWM900Hz PWMFrequency = 11
)

func (f PWMFrequency) Valid() bool {
	switch f {
	case PWM29kHz, PWM3k6Hz, PWM1k8Hz, PWM900Hz:
		return true
	}
	return false
}

// alignToMask shifts v up to the lowest set bit of mask and masks it.
func alignToMask(mask, v uint8) uint8 {
	if mask == 0 {
		return 0
	}
	shift := 0
	for mask&(1<<shift) == 0 {
		shift++
	}
	return (v << shift) & mask
}
