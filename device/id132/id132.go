/*
 * go-freemdu - Driver for software ID 132 (read-only diagnostic board).
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
 *
 */

// Package id132 drives a read-only washing machine diagnostic board,
// software ID 132. Like id1998 it exposes no actions: every property is
// read-only. Unlike every other board in the catalog, each of its nine
// fault codes keeps its own active/stored bit location rather than sharing one
// composite flag word, matching how the reference firmware scatters
// fault bits across whichever status byte its corresponding subsystem
// already uses.
package id132

import (
	"fmt"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/numeric"
	"github.com/freemdu/go-freemdu/protocol"
)

const SoftwareID uint16 = 132

const (
	readKey = 0x15a8
	fullKey = 0x703d

	addrOperatingTime      = 0x0012
	addrSelectedProgram    = 0x0114
	addrProgramOptions     = 0x006c
	addrProgramSpinSetting = 0x006d
	addrProgramSpinSpeed   = 0x0059
	addrProgramPhase       = 0x001c
	addrActiveActuators    = 0x003a
	addrNTCResistance      = 0x0021
	addrTargetTemperature  = 0x005c
	addrWaterLevel         = 0x003c
	addrTachometer         = 0x006f
)

// faultBit is one bit position inside a status byte.
type faultBit struct {
	addr uint32
	bit  uint8
}

// faultEntry names the active/stored bit location for one fault code.
// DetergentOverdose has no stored location: once the active condition
// clears, the board keeps no memory of it having happened.
type faultEntry struct {
	propertyID string
	name       string
	active     faultBit
	stored     *faultBit
}

func bitAddr(addr uint32, bit uint8) faultBit { return faultBit{addr: addr, bit: bit} }

var faultEntries = []faultEntry{
	{"fault_f1", "LevelSwitch", bitAddr(0x0061, 0x02), ptr(bitAddr(0x000e, 0x01))},
	{"fault_f2", "NtcThermistor", bitAddr(0x0061, 0x04), ptr(bitAddr(0x000e, 0x02))},
	{"fault_f3", "Heater", bitAddr(0x0004, 0x20), ptr(bitAddr(0x000e, 0x04))},
	{"fault_f4", "Tachometer", bitAddr(0x007a, 0x02), ptr(bitAddr(0x000e, 0x08))},
	{"fault_f5", "DetergentOverdose", bitAddr(0x000e, 0x10), nil},
	{"fault_f6", "WaterInlet", bitAddr(0x0004, 0x02), ptr(bitAddr(0x000e, 0x20))},
	{"fault_f7", "Drainage", bitAddr(0x0004, 0x04), ptr(bitAddr(0x000e, 0x40))},
	{"fault_f8", "FinalSpinSpeed", bitAddr(0x0037, 0x10), ptr(bitAddr(0x000e, 0x80))},
	{"fault_f9", "Eeprom", bitAddr(0x0131, 0x0c), ptr(bitAddr(0x000f, 0x01))},
}

func ptr(fb faultBit) *faultBit { return &fb }

// FaultState is the decoded state for one fault code. Active takes
// precedence over Stored: a fault that is both currently asserted and
// latched from a prior occurrence reports as Active.
type FaultState uint8

const (
	FaultOk FaultState = iota
	FaultActive
	FaultStored
)

func (s FaultState) String() string {
	switch s {
	case FaultActive:
		return "Active"
	case FaultStored:
		return "Stored"
	default:
		return "Ok"
	}
}

// Program enumerates the 24 positions of the selected-program dial.
type Program uint8

var programNames = []string{
	"Finish", "Cottons95", "Cottons75", "Cottons60", "Cottons50", "Cottons40", "Cottons30",
	"MinimumIron60", "MinimumIron50", "MinimumIron40", "MinimumIron30",
	"Delicates60", "Delicates50", "Delicates40", "Delicates30", "DelicatesCold",
	"Woolens40", "Woolens30", "WoolensCold",
	"QuickWash40", "Starch", "Spin", "Drain", "SeparateRinse",
}

// ProgramPhase enumerates the 14 phases a running program moves through.
var programPhaseNames = []string{
	"Idle", "DelayedStart", "SoakPreWash1", "SoakPreWash2", "MainWash",
	"Rinse1", "Rinse2", "Rinse3", "Rinse4", "Rinse5",
	"RinseHold", "Drain", "FinalSpin", "AntiCreaseFinish",
}

// Actuator is the active-actuators bitflag set.
type Actuator uint16

const (
	ActuatorSoftener    Actuator = 0x0002
	ActuatorPreWash     Actuator = 0x0004
	ActuatorMainWash    Actuator = 0x0008
	ActuatorDrainPump   Actuator = 0x0010
	ActuatorWarmWater   Actuator = 0x0020
	ActuatorReverse     Actuator = 0x2000
	ActuatorFieldSwitch Actuator = 0x4000
	ActuatorHeater      Actuator = 0x8000
)

var actuatorBits = []device.FlagBit{
	{Bit: uint64(ActuatorSoftener), Name: "Softener"},
	{Bit: uint64(ActuatorPreWash), Name: "PreWash"},
	{Bit: uint64(ActuatorMainWash), Name: "MainWash"},
	{Bit: uint64(ActuatorDrainPump), Name: "DrainPump"},
	{Bit: uint64(ActuatorWarmWater), Name: "WarmWater"},
	{Bit: uint64(ActuatorReverse), Name: "Reverse"},
	{Bit: uint64(ActuatorFieldSwitch), Name: "FieldSwitch"},
	{Bit: uint64(ActuatorHeater), Name: "Heater"},
}

// targetTemperatureTable maps the raw target-temperature byte to degrees
// C. This board stores target temperature as an index into a fixed
// 15-step table rather than encoding a degree value directly.
var targetTemperatureTable = [15]uint32{
	90, 21, 27, 32, 34, 37, 47, 57, 72, 77, 80, 82, 85, 86, 65,
}

const (
	propOperatingTime      = "operating_time"
	propSelectedProgram    = "selected_program"
	propProgramOptions     = "program_options"
	propProgramSpinSetting = "program_spin_setting"
	propProgramSpinSpeed   = "program_spin_speed"
	propProgramPhase       = "program_phase"
	propActiveActuators    = "active_actuators"
	propNTCResistance      = "ntc_resistance"
	propTargetTemperature  = "target_temperature"
	propWaterLevel         = "water_level"
	propTachometer         = "tachometer_speed"
)

var properties = buildProperties()

func buildProperties() []device.Property {
	props := []device.Property{
		{Kind: device.Operation, ID: propOperatingTime, Name: "Operating time", Unit: "h"},
		{Kind: device.Operation, ID: propSelectedProgram, Name: "Selected program"},
		{Kind: device.Operation, ID: propProgramOptions, Name: "Program options"},
		{Kind: device.Operation, ID: propProgramSpinSetting, Name: "Program spin setting"},
		{Kind: device.Operation, ID: propProgramSpinSpeed, Name: "Program spin speed"},
		{Kind: device.Operation, ID: propProgramPhase, Name: "Program phase"},
		{Kind: device.Io, ID: propActiveActuators, Name: "Active actuators"},
		{Kind: device.Io, ID: propNTCResistance, Name: "NTC resistance", Unit: "ohm"},
		{Kind: device.Io, ID: propTargetTemperature, Name: "Target temperature", Unit: "C"},
		{Kind: device.Io, ID: propWaterLevel, Name: "Water level"},
		{Kind: device.Io, ID: propTachometer, Name: "Tachometer speed", Unit: "rpm"},
	}
	for _, fe := range faultEntries {
		props = append(props, device.Property{Kind: device.Failure, ID: fe.propertyID, Name: fe.name})
	}
	return props
}

// Driver implements device.Driver for software ID 132. It takes no
// actions: Actions always returns an empty slice and TriggerAction
// always returns device.ErrUnknownAction.
type Driver struct {
	iface *protocol.Interface
}

func init() {
	device.Register(SoftwareID, New)
}

func New(iface *protocol.Interface, id uint16) (device.Driver, error) {
	if err := iface.UnlockReadAccess(readKey); err != nil {
		return nil, fmt.Errorf("id132: unlock read access: %w", err)
	}
	if err := iface.UnlockFullAccess(fullKey); err != nil {
		return nil, fmt.Errorf("id132: unlock full access: %w", err)
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
	for _, fe := range faultEntries {
		if p.ID == fe.propertyID {
			return d.queryFault(fe)
		}
	}
	switch p.ID {
	case propOperatingTime:
		b, err := d.readMem(addrOperatingTime, 4)
		if err != nil {
			return device.Value{}, err
		}
		mins := uint32(b[0])
		hours := numeric.DecodeBCDRun(b[1:4])
		return device.DurationValue(int64(hours)*3600e9 + int64(mins)*60e9), nil
	case propSelectedProgram:
		b, err := d.readMem(addrSelectedProgram, 1)
		if err != nil {
			return device.Value{}, err
		}
		if int(b[0]) >= len(programNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(programNames[b[0]]), nil
	case propProgramOptions:
		b, err := d.readMem(addrProgramOptions, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
	case propProgramSpinSetting:
		b, err := d.readMem(addrProgramSpinSetting, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
	case propProgramSpinSpeed:
		b, err := d.readMem(addrProgramSpinSpeed, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
	case propProgramPhase:
		b, err := d.readMem(addrProgramPhase, 1)
		if err != nil {
			return device.Value{}, err
		}
		if int(b[0]) >= len(programPhaseNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(programPhaseNames[b[0]]), nil
	case propActiveActuators:
		b, err := d.readMem(addrActiveActuators, 2)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(device.FormatFlags(uint64(protocol.Uint16LE(b)), actuatorBits)), nil
	case propNTCResistance:
		b, err := d.readMem(addrNTCResistance, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(numeric.NTCResistanceFromADC(b[0])), nil
	case propTargetTemperature:
		b, err := d.readMem(addrTargetTemperature, 1)
		if err != nil {
			return device.Value{}, err
		}
		idx := int(b[0])
		if idx >= len(targetTemperatureTable) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.NumberValue(targetTemperatureTable[idx]), nil
	case propWaterLevel:
		b, err := d.readMem(addrWaterLevel, 2)
		if err != nil {
			return device.Value{}, err
		}
		current, target := b[0], b[1]
		return device.SensorValue(uint32(current), uint32(target)), nil
	case propTachometer:
		b, err := d.readMem(addrTachometer, 5)
		if err != nil {
			return device.Value{}, err
		}
		targetRaw := uint32(protocol.Uint16LE(b[0:2]))
		currentRaw := protocol.Uint32LE([]byte{b[2], b[3], b[4], 0})
		target := numeric.RPMFromMotorSpeed(targetRaw)
		current := numeric.RPMFromMotorSpeed(currentRaw)
		return device.SensorValue(uint32(current), uint32(target)), nil
	}
	return device.Value{}, device.ErrUnknownProperty
}

func (d *Driver) queryFault(fe faultEntry) (device.Value, error) {
	active, err := d.readMem(fe.active.addr, 1)
	if err != nil {
		return device.Value{}, err
	}
	if active[0]&fe.active.bit != 0 {
		return device.StringValue(FaultActive.String()), nil
	}
	if fe.stored != nil {
		stored, err := d.readMem(fe.stored.addr, 1)
		if err != nil {
			return device.Value{}, err
		}
		if stored[0]&fe.stored.bit != 0 {
			return device.StringValue(FaultStored.String()), nil
		}
	}
	return device.StringValue(FaultOk.String()), nil
}
