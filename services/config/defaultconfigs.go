package config

// Embedded per-hardware defaults. A config file on disk is overlaid on top
// of the entry for its hardware version.

const cfgV1 = `
server:
  data: https://data.trafficdots.example
  upgrade: https://firmware.trafficdots.example
  data_hardware: 1
  data_version: 5
  use_addenda: true
  first_addendum: V1_0_5
  retries: 5
  retry_backoff: 1s
hardware:
  version: 1
  revision: 0
  i2c_bus: ""
  buttons:
    ota: GPIO17
    dir: GPIO27
    pull: up
  leds:
    active_low: false
    north: GPIO5
    south: GPIO6
    east: GPIO13
    west: GPIO19
    wifi: GPIO26
    ota: GPIO20
    error: GPIO21
firmware:
  major: 0
  minor: 6
  patch: 0
refresh:
  period: 10m
  led_update: 25ms
  led_clear: 10ms
  slow_cutoff: 50
  medium_cutoff: 80
  slow: {r: 255, g: 0, b: 0}
  medium: {r: 37, g: 9, b: 0}
  fast: {r: 0, g: 0, b: 16}
  matrix_retries: 15
  global_current: 37
input:
  debounce: 50ms
  long_press: 500ms
ota:
  retries: 5
  left_on: 5s
  schedule: ["00:00", "11:00", "17:00"]
night:
  enabled: true
  start: "21:00"
  end: "05:00"
wifi:
  probe: ""
  period: 5s
  max_ssid: 32
  max_pass: 64
nvs:
  dir: /var/lib/trafficdots/nvs
serial:
  port: /dev/ttyGS0
  baud: 115200
preview:
  addr: ":8080"
`

const cfgV2 = `
server:
  data: https://data.trafficdots.example
  upgrade: https://firmware.trafficdots.example
  data_hardware: 2
  data_version: 0
  use_addenda: true
  first_addendum: V2_0_0
  retries: 5
  retry_backoff: 1s
hardware:
  version: 2
  revision: 0
  i2c_bus: ""
  buttons:
    ota: GPIO17
    dir: GPIO27
    pull: up
firmware:
  major: 0
  minor: 6
  patch: 0
refresh:
  period: 10m
  led_update: 25ms
  led_clear: 10ms
  slow_cutoff: 50
  medium_cutoff: 80
  slow: {r: 255, g: 0, b: 0}
  medium: {r: 37, g: 9, b: 0}
  fast: {r: 0, g: 0, b: 16}
  matrix_retries: 15
  global_current: 37
input:
  debounce: 50ms
  long_press: 500ms
ota:
  retries: 5
  left_on: 5s
  schedule: ["00:00", "11:00", "17:00"]
night:
  enabled: true
  start: "21:00"
  end: "05:00"
wifi:
  probe: ""
  period: 5s
  max_ssid: 32
  max_pass: 64
nvs:
  dir: /var/lib/trafficdots/nvs
serial:
  port: /dev/ttyGS0
  baud: 115200
preview:
  addr: ":8080"
`

var embeddedConfigs = map[string][]byte{
	"V1_0": []byte(cfgV1),
	"V2_0": []byte(cfgV2),
}
