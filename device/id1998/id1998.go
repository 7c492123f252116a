/*
 * go-freemdu - Driver for software ID 1998 (ELP 165-T KD washing machine board).
 *
 * Copyright 2026, freemdu contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package id1998 drives a W 6xx series washing machine, ELP 165-T KD
// board, software ID 1998. It exposes no actions: the program cannot be
// started from this diagnostic interface on this board revision. This
// driver is experimental: its memory map is unverified.
package id1998

import (
	"fmt"
	"strings"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/protocol"
)

const SoftwareID uint16 = 1998

const (
	readKey = 0x2b67
	fullKey = 0x8235

	addrSerialNumber      = 0x02e5 // EEPROM, 12 ASCII bytes
	addrSerialNumberIndex = 0x02ed // EEPROM, 2 ASCII bytes
	addrModelNumber       = 0x02ef // EEPROM, 15 bytes, leading byte dropped
	addrMaterialNumber    = 0x02fe // EEPROM, 8 ASCII bytes
	addrManufacturingDate = 0x02bc // EEPROM, 4 bytes
	addrOperatingTime     = 0x1cd2
	addrProgramType       = 0x1d6c
	addrProgramTemp       = 0x1d6d
	addrProgramSpinSpeed  = 0x1d6e
	addrProgramOptions    = 0x1d6f
	addrLoadLevel         = 0x1cf0
	addrDelayStartHours   = 0x1d78
	addrDelayStartMins    = 0x1d79
	addrRemainingHours    = 0x1d7a
	addrRemainingMins     = 0x1d7b
	addrTemperatureCur    = 0x0ec1
	addrTemperatureTarget = 0x0ecf
	addrMotorSpeedCur     = 0x0dfd
	addrMotorSpeedTarget  = 0x0dff
	addrActiveActuators   = 0x0f3a
	addrActiveMotorRelays = 0x03e0
	addrHeaterRelayActive = 0x0b5d
)

// ProgramType enumerates the general washing program category.
type ProgramType uint8

const (
	ProgramNone         ProgramType = 0x00
	ProgramCottons      ProgramType = 0x01
	ProgramMinimumIron  ProgramType = 0x03
	ProgramSynthetic    ProgramType = 0x05
	ProgramWoolens      ProgramType = 0x08
	ProgramSilks        ProgramType = 0x09
	ProgramDrainSpin    ProgramType = 0x15
	ProgramShirts       ProgramType = 0x17
	ProgramJeans        ProgramType = 0x18
	ProgramAutomatic    ProgramType = 0x1f
	ProgramOutdoor      ProgramType = 0x25
	ProgramExpress      ProgramType = 0x31
	ProgramDarkGarments ProgramType = 0x32
)

var programTypeNames = map[ProgramType]string{
	ProgramNone:         "None",
	ProgramCottons:      "Cottons",
	ProgramMinimumIron:  "MinimumIron",
	ProgramSynthetic:    "Synthetic",
	ProgramWoolens:      "Woolens",
	ProgramSilks:        "Silks",
	ProgramDrainSpin:    "DrainSpin",
	ProgramShirts:       "Shirts",
	ProgramJeans:        "Jeans",
	ProgramAutomatic:    "Automatic",
	ProgramOutdoor:      "Outdoor",
	ProgramExpress:      "Express",
	ProgramDarkGarments: "DarkGarments",
}

// ProgramOption is the program-options bitflag set. The device's raw
// word is XORed with 0x0040 before decode -- the IntensiveShort bit
// reads inverted on this board.
type ProgramOption uint16

const (
	OptionSoak           ProgramOption = 0x0001
	OptionPreWash        ProgramOption = 0x0002
	OptionWaterPlus      ProgramOption = 0x0008
	OptionNoSpin         ProgramOption = 0x0010
	OptionRinseHold      ProgramOption = 0x0020
	OptionIntensiveShort ProgramOption = 0x0040
	OptionExtraQuiet     ProgramOption = 0x4000
)

var programOptionBits = []device.FlagBit{
	{Bit: uint64(OptionSoak), Name: "Soak"},
	{Bit: uint64(OptionPreWash), Name: "PreWash"},
	{Bit: uint64(OptionWaterPlus), Name: "WaterPlus"},
	{Bit: uint64(OptionNoSpin), Name: "NoSpin"},
	{Bit: uint64(OptionRinseHold), Name: "RinseHold"},
	{Bit: uint64(OptionIntensiveShort), Name: "IntensiveShort"},
	{Bit: uint64(OptionExtraQuiet), Name: "ExtraQuiet"},
}

const programOptionInvertMask = 0x0040

// MotorRelay is the active-motor-relays bitflag set, masked to 0x30.
type MotorRelay uint8

const (
	RelayFieldSwitch MotorRelay = 0x10
	RelayReverse     MotorRelay = 0x20
)

var motorRelayBits = []device.FlagBit{
	{Bit: uint64(RelayFieldSwitch), Name: "FieldSwitch"},
	{Bit: uint64(RelayReverse), Name: "Reverse"},
}

const motorRelayMask = 0x30

// Actuator is the active-actuators bitflag set, masked to 0x1f.
type Actuator uint8

const (
	ActuatorPreWash   Actuator = 0x01
	ActuatorMainWash  Actuator = 0x02
	ActuatorSoftener  Actuator = 0x04
	ActuatorDrainPump Actuator = 0x08
	ActuatorDoorRelay Actuator = 0x10
)

var actuatorBits = []device.FlagBit{
	{Bit: uint64(ActuatorPreWash), Name: "PreWash"},
	{Bit: uint64(ActuatorMainWash), Name: "MainWash"},
	{Bit: uint64(ActuatorSoftener), Name: "Softener"},
	{Bit: uint64(ActuatorDrainPump), Name: "DrainPump"},
	{Bit: uint64(ActuatorDoorRelay), Name: "DoorRelay"},
}

const actuatorMask = 0x1f

const (
	propSerialNumber      = "serial_number"
	propSerialNumberIndex = "serial_number_index"
	propModelNumber       = "model_number"
	propMaterialNumber    = "material_number"
	propManufacturingDate = "manufacturing_date"
	propOperatingTime     = "operating_time"
	propProgramType       = "program_type"
	propProgramTemp       = "program_temperature"
	propProgramOptions    = "program_options"
	propProgramSpinSpeed  = "program_spin_speed"
	propLoadLevel         = "load_level"
	propDelayStartTime    = "delay_start_time"
	propRemainingTime     = "remaining_time"
	propTemperature       = "temperature"
	propMotorSpeed        = "motor_speed"
	propActiveActuators   = "active_actuators"
	propActiveMotorRelays = "active_motor_relays"
	propHeaterRelayActive = "heater_relay_active"
)

var properties = []device.Property{
	{Kind: device.General, ID: propSerialNumber, Name: "Serial number"},
	{Kind: device.General, ID: propSerialNumberIndex, Name: "Serial number index"},
	{Kind: device.General, ID: propModelNumber, Name: "Model number"},
	{Kind: device.General, ID: propMaterialNumber, Name: "Material number"},
	{Kind: device.General, ID: propManufacturingDate, Name: "Manufacturing date"},
	{Kind: device.General, ID: propOperatingTime, Name: "Operating time", Unit: "h"},
	{Kind: device.Operation, ID: propProgramType, Name: "Program type"},
	{Kind: device.Operation, ID: propProgramTemp, Name: "Program temperature", Unit: "C"},
	{Kind: device.Operation, ID: propProgramOptions, Name: "Program options"},
	{Kind: device.Operation, ID: propProgramSpinSpeed, Name: "Program spin speed", Unit: "rpm"},
	{Kind: device.Operation, ID: propLoadLevel, Name: "Load level"},
	{Kind: device.Operation, ID: propDelayStartTime, Name: "Delay start time"},
	{Kind: device.Operation, ID: propRemainingTime, Name: "Remaining time"},
	{Kind: device.Io, ID: propTemperature, Name: "Temperature", Unit: "C"},
	{Kind: device.Io, ID: propMotorSpeed, Name: "Motor speed", Unit: "rpm"},
	{Kind: device.Io, ID: propActiveActuators, Name: "Active actuators"},
	{Kind: device.Io, ID: propActiveMotorRelays, Name: "Active motor relays"},
	{Kind: device.Io, ID: propHeaterRelayActive, Name: "Heater relay active"},
}

// Driver implements device.Driver for software ID 1998. It exposes no
// actions.
type Driver struct {
	iface *protocol.Interface
}

func init() {
	device.Register(SoftwareID, New)
}

func New(iface *protocol.Interface, id uint16) (device.Driver, error) {
	if err := iface.UnlockReadAccess(readKey); err != nil {
		return nil, fmt.Errorf("id1998: unlock read access: %w", err)
	}
	if err := iface.UnlockFullAccess(fullKey); err != nil {
		return nil, fmt.Errorf("id1998: unlock full access: %w", err)
	}
	return &Driver{iface: iface}, nil
}

func (d *Driver) SoftwareID() uint16             { return SoftwareID }
func (d *Driver) Kind() device.Kind              { return device.WashingMachine }
func (d *Driver) Properties() []device.Property  { return properties }
func (d *Driver) Actions() []device.Action       { return nil }
func (d *Driver) Interface() *protocol.Interface { return d.iface }

func (d *Driver) TriggerAction(a device.Action, param *device.Value) error {
	return device.ErrUnknownAction
}

func (d *Driver) readMem(addr uint32, n uint32) ([]byte, error) {
	return d.iface.ReadMemory(addr, n)
}

func (d *Driver) QueryProperty(p device.Property) (device.Value, error) {
	switch p.ID {
	case propSerialNumber:
		b, err := d.iface.ReadEEPROM(addrSerialNumber, 12)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(string(b)), nil
	case propSerialNumberIndex:
		b, err := d.iface.ReadEEPROM(addrSerialNumberIndex, 2)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(string(b)), nil
	case propModelNumber:
		b, err := d.iface.ReadEEPROM(addrModelNumber, 15)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(strings.TrimRight(string(b[1:]), " ")), nil
	case propMaterialNumber:
		b, err := d.iface.ReadEEPROM(addrMaterialNumber, 8)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(string(b)), nil
	case propManufacturingDate:
		b, err := d.iface.ReadEEPROM(addrManufacturingDate, 4)
		if err != nil {
			return device.Value{}, err
		}
		year := uint16(b[0]) + uint16(b[1])*100
		return device.DateValue(device.Date{Year: year, Month: b[2], Day: b[3]}), nil
	case propOperatingTime:
		b, err := d.readMem(addrOperatingTime, 5)
		if err != nil {
			return device.Value{}, err
		}
		mins := uint32(b[0])
		hours := protocol.Uint32LE(b[1:5])
		return device.DurationValue(int64(hours)*3600e9 + int64(mins)*60e9), nil
	case propProgramType:
		b, err := d.readMem(addrProgramType, 1)
		if err != nil {
			return device.Value{}, err
		}
		name, ok := programTypeNames[ProgramType(b[0])]
		if !ok {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(name), nil
	case propProgramTemp:
		b, err := d.readMem(addrProgramTemp, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
	case propProgramOptions:
		b, err := d.readMem(addrProgramOptions, 2)
		if err != nil {
			return device.Value{}, err
		}
		inverted := protocol.Uint16LE(b) ^ programOptionInvertMask
		return device.StringValue(device.FormatFlags(uint64(inverted), programOptionBits)), nil
	case propProgramSpinSpeed:
		b, err := d.readMem(addrProgramSpinSpeed, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0]) * 10), nil
	case propLoadLevel:
		b, err := d.readMem(addrLoadLevel, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
	case propDelayStartTime:
		hours, err := d.readMem(addrDelayStartHours, 1)
		if err != nil {
			return device.Value{}, err
		}
		mins, err := d.readMem(addrDelayStartMins, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.DurationValue(int64(hours[0])*3600e9 + int64(mins[0])*60e9), nil
	case propRemainingTime:
		hours, err := d.readMem(addrRemainingHours, 1)
		if err != nil {
			return device.Value{}, err
		}
		mins, err := d.readMem(addrRemainingMins, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.DurationValue(int64(hours[0])*3600e9 + int64(mins[0])*60e9), nil
	case propTemperature:
		cur, err := d.readMem(addrTemperatureCur, 1)
		if err != nil {
			return device.Value{}, err
		}
		tgt, err := d.readMem(addrTemperatureTarget, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.SensorValue(uint32(cur[0]), uint32(tgt[0])), nil
	case propMotorSpeed:
		cur, err := d.readMem(addrMotorSpeedCur, 2)
		if err != nil {
			return device.Value{}, err
		}
		tgt, err := d.readMem(addrMotorSpeedTarget, 2)
		if err != nil {
			return device.Value{}, err
		}
		current := absI16(protocol.Int16LE(cur)) / 10
		target := absI16(protocol.Int16LE(tgt)) / 10
		return device.SensorValue(current, target), nil
	case propActiveActuators:
		b, err := d.readMem(addrActiveActuators, 1)
		if err != nil {
			return device.Value{}, err
		}
		masked := uint64(b[0]) & actuatorMask
		return device.StringValue(device.FormatFlags(masked, actuatorBits)), nil
	case propActiveMotorRelays:
		b, err := d.readMem(addrActiveMotorRelays, 1)
		if err != nil {
			return device.Value{}, err
		}
		masked := uint64(b[0]) & motorRelayMask
		return device.StringValue(device.FormatFlags(masked, motorRelayBits)), nil
	case propHeaterRelayActive:
		b, err := d.readMem(addrHeaterRelayActive, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.BoolValue(b[0] != 0x00), nil
	}
	return device.Value{}, device.ErrUnknownProperty
}

func absI16(v int16) uint32 {
	if v < 0 {
		return uint32(-v)
	}
	return uint32(v)
}
