// Package is31fl3741 is a register-level driver for the IS31FL3741A 39x9
// matrix LED driver.
//
// The chip exposes five register pages behind a locked command register:
//
//	d.SelectPage(PageFunction)   // unlock (0xFE<-0xC5) then 0xFD<-page
//	d.WriteReg(RegGlobalCurrent, 0x80)
//
// The driver does not remember which page is selected. Callers that issue
// many writes to the same page keep that state themselves and skip
// SelectPage when it already matches.
//
// Every register access is one I2C transaction; a caller that sees an error
// should assume the chip may have latched part of a sequence.
package is31fl3741

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Addresses on the two-bit ADDR strap.
const (
	AddressGND = 0x30
	AddressSCL = 0x31
	AddressSDA = 0x32
	AddressVCC = 0x33
)

// Errors returned by the driver.
var (
	ErrWrongID     = errors.New("is31fl3741: unexpected id")
	ErrInvalidPage = errors.New("is31fl3741: invalid page")
)

// Device wraps an I2C connection to one IS31FL3741 chip.
type Device struct {
	bus     drivers.I2C
	Address uint16

	w [2]byte
	r [1]byte
}

// New creates a device handle. It does not touch the bus.
func New(bus drivers.I2C, addr uint16) Device {
	return Device{bus: bus, Address: addr}
}

// ID reads the ID register. A healthy chip answers with its 8-bit address.
func (d *Device) ID() (uint8, error) {
	d.w[0] = RegID
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

// Probe checks that the chip answers and reports the expected ID.
func (d *Device) Probe() error {
	id, err := d.ID()
	if err != nil {
		return err
	}
	if id != uint8(d.Address<<1) {
		return ErrWrongID
	}
	return nil
}

// SelectPage unlocks the command register and selects page p.
func (d *Device) SelectPage(p Page) error {
	if p > PageFunction {
		return ErrInvalidPage
	}
	if err := d.write(RegWriteLock, UnlockKey); err != nil {
		return err
	}
	return d.write(RegCommand, uint8(p))
}

// WriteReg writes one register on the currently selected page.
func (d *Device) WriteReg(reg, v uint8) error { return d.write(reg, v) }

// ReadReg reads one register on the currently selected page.
func (d *Device) ReadReg(reg uint8) (uint8, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

// UpdateField performs a read-modify-write of the bits under mask. v is the
// field value and is shifted into place.
func (d *Device) UpdateField(reg, mask, v uint8) error {
	cur, err := d.ReadReg(reg)
	if err != nil {
		return err
	}
	return d.write(reg, (cur&^mask)|alignToMask(mask, v))
}

// WriteRGB writes one byte to each of three registers, in r, g, b order.
func (d *Device) WriteRGB(regs [3]uint8, vals [3]uint8) error {
	for i := range regs {
		if err := d.write(regs[i], vals[i]); err != nil {
			return err
		}
	}
	return nil
}

// Reset restores every register to its power-on value. The function page
// must be selected. After a reset the chip is back on page 0 and in
// software shutdown.
func (d *Device) Reset() error { return d.write(RegReset, ResetKey) }

func (d *Device) write(reg, v uint8) error {
	d.w[0], d.w[1] = reg, v
	return d.bus.Tx(d.Address, d.w[:], nil)
}
