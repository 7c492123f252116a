/*
 * go-freemdu - Driver for software ID 419 (early EDPW washing machine board).
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

// Package id419 drives an early EDPW washing machine board, software ID
// 419. This is the one board in the catalog confirmed to need the legacy
// four-byte dummy preamble ahead of every command header; New enables it
// before doing anything else.
package id419

import (
	"fmt"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/numeric"
	"github.com/freemdu/go-freemdu/protocol"
)

const SoftwareID uint16 = 419

const (
	readKey = 0xb4ee
	fullKey = 0x4e83

	addrRomCode         = 0xffdf
	addrOperatingTime   = 0x0014
	addrFaults          = 0x000e
	addrOperatingMode   = 0x0089
	addrProgramSelector = 0x0071
	addrProgramType     = 0x009e
	addrProgramTemp     = 0x009f
	addrProgramOptions  = 0x0012
	addrProgramSpinSet  = 0x0011
	addrProgramPhase    = 0x005e
	addrProgramLocked   = 0x0005
	addrLoadLevel       = 0x000a
	addrActiveActuators = 0x0039
	addrNTCResistance   = 0x0179
	addrTemperature     = 0x0138
	addrWaterLevel      = 0x003b
	addrStartProgram    = 0x00a5
)

// OperatingMode enumerates this board's mode byte. Unlike id324, this
// earlier firmware has no DoorOpen state -- ProgramIdle is the lowest value.
type OperatingMode uint8

const (
	ModeProgramIdle OperatingMode = iota + 1
	ModeProgramRunning
	ModeProgramFinished
	ModeServiceProgramming
	ModeService
	ModeCustomerProgramming
)

var operatingModeNames = map[OperatingMode]string{
	ModeProgramIdle:         "ProgramIdle",
	ModeProgramRunning:      "ProgramRunning",
	ModeProgramFinished:     "ProgramFinished",
	ModeServiceProgramming:  "ServiceProgramming",
	ModeService:             "Service",
	ModeCustomerProgramming: "CustomerProgramming",
}

// selectorPositionNames enumerates the 22 positions of the program
// selection knob.
var selectorPositionNames = []string{
	"Finish", "Cottons95", "Cottons75", "Cottons60", "Cottons40", "Cottons30",
	"MinimumIron60", "MinimumIron50", "MinimumIron40", "MinimumIron30",
	"Delicates40", "Delicates30", "DelicatesCold",
	"Woolens40", "Woolens30", "WoolensCold",
	"QuickWash40", "Starch", "Spin", "Drain", "SeparateRinse", "MixedWash40",
}

// programTypeNames enumerates the general program category derived from
// the selector position.
var programTypeNames = []string{
	"None", "Cottons", "MinimumIron", "Delicates", "Woolens", "QuickWash",
	"Starch", "Spin", "Drain", "SeparateRinse", "MixedWash",
}

// ProgramOption is the settable bitflag set for set_program_options.
type ProgramOption uint8

const (
	OptionSoak      ProgramOption = 0x10
	OptionPreWash   ProgramOption = 0x20
	OptionWaterPlus ProgramOption = 0x40
	OptionShort     ProgramOption = 0x80
)

var programOptionBits = []device.FlagBit{
	{Bit: uint64(OptionSoak), Name: "Soak"},
	{Bit: uint64(OptionPreWash), Name: "PreWash"},
	{Bit: uint64(OptionWaterPlus), Name: "WaterPlus"},
	{Bit: uint64(OptionShort), Name: "Short"},
}

var spinSettingNames = []string{
	"WithoutSpin", "RinseHold", "SpinMin", "SpinLow", "SpinMed", "SpinHigh", "SpinVeryHigh", "SpinMax",
}

// programPhaseNames enumerates the 14 phases a running program moves through.
var programPhaseNames = []string{
	"Idle", "DelayedStart", "SoakPreWash1", "SoakPreWash2", "MainWash",
	"Rinse1", "Rinse2", "Rinse3", "Rinse4", "Rinse5",
	"RinseHold", "Drain", "FinalSpin", "AntiCreaseFinish",
}

// Actuator is the active-actuators bitflag set.
type Actuator uint16

const (
	ActuatorFieldSwitch Actuator = 0x0001
	ActuatorDrainPump   Actuator = 0x0002
	ActuatorReverse     Actuator = 0x0010
	ActuatorHeater      Actuator = 0x0020
	ActuatorSoftener    Actuator = 0x0040
	ActuatorPreWash     Actuator = 0x0080
	ActuatorMainWash    Actuator = 0x2000
	ActuatorWarmWater   Actuator = 0x4000
)

var actuatorBits = []device.FlagBit{
	{Bit: uint64(ActuatorFieldSwitch), Name: "FieldSwitch"},
	{Bit: uint64(ActuatorDrainPump), Name: "DrainPump"},
	{Bit: uint64(ActuatorReverse), Name: "Reverse"},
	{Bit: uint64(ActuatorHeater), Name: "Heater"},
	{Bit: uint64(ActuatorSoftener), Name: "Softener"},
	{Bit: uint64(ActuatorPreWash), Name: "PreWash"},
	{Bit: uint64(ActuatorMainWash), Name: "MainWash"},
	{Bit: uint64(ActuatorWarmWater), Name: "WarmWater"},
}

// Fault is an 8-bit composite bitflag set -- narrower than id324's, and
// with no SpinCycle bit.
type Fault uint8

const (
	FaultPressureSensor      Fault = 0x01
	FaultNtcThermistor       Fault = 0x02
	FaultHeater              Fault = 0x04
	FaultTachometerGenerator Fault = 0x08
	FaultDetergentOverdose   Fault = 0x10
	FaultInlet               Fault = 0x20
	FaultDrainage            Fault = 0x40
	FaultEeprom              Fault = 0x80
)

var faultBits = []device.FlagBit{
	{Bit: uint64(FaultPressureSensor), Name: "PressureSensor"},
	{Bit: uint64(FaultNtcThermistor), Name: "NtcThermistor"},
	{Bit: uint64(FaultHeater), Name: "Heater"},
	{Bit: uint64(FaultTachometerGenerator), Name: "TachometerGenerator"},
	{Bit: uint64(FaultDetergentOverdose), Name: "DetergentOverdose"},
	{Bit: uint64(FaultInlet), Name: "Inlet"},
	{Bit: uint64(FaultDrainage), Name: "Drainage"},
	{Bit: uint64(FaultEeprom), Name: "Eeprom"},
}

const (
	propRomCode         = "rom_code"
	propOperatingTime   = "operating_time"
	propFaults          = "faults"
	propOperatingMode   = "operating_mode"
	propProgramSelector = "program_selector"
	propProgramType     = "program_type"
	propProgramTemp     = "program_temperature"
	propProgramOptions  = "program_options"
	propProgramSpinSet  = "program_spin_setting"
	propProgramPhase    = "program_phase"
	propProgramLocked   = "program_locked"
	propLoadLevel       = "load_level"
	propActiveActuators = "active_actuators"
	propNTCResistance   = "ntc_resistance"
	propTemperature     = "temperature"
	propWaterLevel      = "water_level"
)

var properties = []device.Property{
	{Kind: device.General, ID: propRomCode, Name: "ROM code"},
	{Kind: device.General, ID: propOperatingTime, Name: "Operating time", Unit: "h"},
	{Kind: device.Failure, ID: propFaults, Name: "Faults"},
	{Kind: device.Operation, ID: propOperatingMode, Name: "Operating mode"},
	{Kind: device.Operation, ID: propProgramSelector, Name: "Program selector"},
	{Kind: device.Operation, ID: propProgramType, Name: "Program type"},
	{Kind: device.Operation, ID: propProgramTemp, Name: "Program temperature", Unit: "C"},
	{Kind: device.Operation, ID: propProgramOptions, Name: "Program options"},
	{Kind: device.Operation, ID: propProgramSpinSet, Name: "Program spin setting"},
	{Kind: device.Operation, ID: propProgramPhase, Name: "Program phase"},
	{Kind: device.Operation, ID: propProgramLocked, Name: "Program locked"},
	{Kind: device.Operation, ID: propLoadLevel, Name: "Load level"},
	{Kind: device.Io, ID: propActiveActuators, Name: "Active actuators"},
	{Kind: device.Io, ID: propNTCResistance, Name: "NTC resistance", Unit: "ohm"},
	{Kind: device.Io, ID: propTemperature, Name: "Temperature", Unit: "C"},
	{Kind: device.Io, ID: propWaterLevel, Name: "Water level"},
}

const (
	actionSetProgramOptions = "set_program_options"
	actionSetProgramSpinSet = "set_program_spin_setting"
	actionStartProgram      = "start_program"
)

var actions = []device.Action{
	{ID: actionSetProgramOptions, Name: "Set program options", Params: &device.ActionParams{
		Kind: device.Flags, Names: []string{"Soak", "PreWash", "WaterPlus", "Short"},
	}},
	{ID: actionSetProgramSpinSet, Name: "Set program spin setting", Params: &device.ActionParams{
		Kind: device.Enumeration, Names: spinSettingNames,
	}},
	{ID: actionStartProgram, Name: "Start program"},
}

// Driver implements device.Driver for software ID 419.
type Driver struct {
	iface *protocol.Interface
}

func init() {
	device.Register(SoftwareID, New)
}

// New enables the legacy dummy-byte preamble, then runs the unlock
// sequence. Unlike id605 and id629, this board takes no ROM-protection
// write after unlocking.
func New(iface *protocol.Interface, id uint16) (device.Driver, error) {
	iface.EnableDummyBytes()
	if err := iface.UnlockReadAccess(readKey); err != nil {
		return nil, fmt.Errorf("id419: unlock read access: %w", err)
	}
	if err := iface.UnlockFullAccess(fullKey); err != nil {
		return nil, fmt.Errorf("id419: unlock full access: %w", err)
	}
	return &Driver{iface: iface}, nil
}

func (d *Driver) SoftwareID() uint16             { return SoftwareID }
func (d *Driver) Kind() device.Kind              { return device.WashingMachine }
func (d *Driver) Properties() []device.Property  { return properties }
func (d *Driver) Actions() []device.Action       { return actions }
func (d *Driver) Interface() *protocol.Interface { return d.iface }

func (d *Driver) readMem(addr uint32, n uint32) ([]byte, error) {
	return d.iface.ReadMemory(addr, n)
}

func (d *Driver) QueryProperty(p device.Property) (device.Value, error) {
	switch p.ID {
	case propRomCode:
		b, err := d.readMem(addrRomCode, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
	case propOperatingTime:
		b, err := d.readMem(addrOperatingTime, 4)
		if err != nil {
			return device.Value{}, err
		}
		mins := uint32(b[0])
		hours := numeric.DecodeBCDRun(b[1:4])
		return device.DurationValue(int64(hours)*3600e9 + int64(mins)*60e9), nil
	case propFaults:
		b, err := d.readMem(addrFaults, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(device.FormatFlags(uint64(b[0]), faultBits)), nil
	case propOperatingMode:
		b, err := d.readMem(addrOperatingMode, 1)
		if err != nil {
			return device.Value{}, err
		}
		name, ok := operatingModeNames[OperatingMode(b[0])]
		if !ok {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(name), nil
	case propProgramSelector:
		b, err := d.readMem(addrProgramSelector, 1)
		if err != nil {
			return device.Value{}, err
		}
		if int(b[0]) >= len(selectorPositionNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(selectorPositionNames[b[0]]), nil
	case propProgramType:
		b, err := d.readMem(addrProgramType, 1)
		if err != nil {
			return device.Value{}, err
		}
		if int(b[0]) >= len(programTypeNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(programTypeNames[b[0]]), nil
	case propProgramTemp:
		b, err := d.readMem(addrProgramTemp, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
	case propProgramOptions:
		b, err := d.readMem(addrProgramOptions, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(device.FormatFlags(uint64(b[0]), programOptionBits)), nil
	case propProgramSpinSet:
		b, err := d.readMem(addrProgramSpinSet, 1)
		if err != nil {
			return device.Value{}, err
		}
		if int(b[0]) >= len(spinSettingNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(spinSettingNames[b[0]]), nil
	case propProgramPhase:
		b, err := d.readMem(addrProgramPhase, 1)
		if err != nil {
			return device.Value{}, err
		}
		if int(b[0]) >= len(programPhaseNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(programPhaseNames[b[0]]), nil
	case propProgramLocked:
		b, err := d.readMem(addrProgramLocked, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.BoolValue(b[0]&0x04 != 0), nil
	case propLoadLevel:
		b, err := d.readMem(addrLoadLevel, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
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
	case propTemperature:
		b, err := d.readMem(addrTemperature, 2)
		if err != nil {
			return device.Value{}, err
		}
		target, current := b[0], b[1]
		return device.SensorValue(uint32(current), uint32(target)), nil
	case propWaterLevel:
		b, err := d.readMem(addrWaterLevel, 2)
		if err != nil {
			return device.Value{}, err
		}
		current, target := b[0], b[1]
		return device.SensorValue(uint32(current), uint32(target)), nil
	}
	return device.Value{}, device.ErrUnknownProperty
}

func (d *Driver) TriggerAction(a device.Action, param *device.Value) error {
	switch a.ID {
	case actionSetProgramOptions:
		if param == nil {
			return device.ErrInvalidArgument
		}
		s, ok := param.AsString()
		if !ok {
			return device.ErrInvalidArgument
		}
		bits, err := device.ParseFlags(s, programOptionBits)
		if err != nil {
			return err
		}
		return d.iface.WriteMemory(addrProgramOptions, []byte{uint8(bits)})
	case actionSetProgramSpinSet:
		if param == nil {
			return device.ErrInvalidArgument
		}
		s, ok := param.AsString()
		if !ok {
			return device.ErrInvalidArgument
		}
		for i, name := range spinSettingNames {
			if name == s {
				return d.iface.WriteMemory(addrProgramSpinSet, []byte{uint8(i)})
			}
		}
		return device.ErrInvalidArgument
	case actionStartProgram:
		if param != nil {
			return device.ErrInvalidArgument
		}
		b, err := d.readMem(addrStartProgram, 1)
		if err != nil {
			return err
		}
		if b[0] != 0x01 {
			return device.ErrInvalidState
		}
		return d.iface.WriteMemory(addrStartProgram, []byte{0x02})
	}
	return device.ErrUnknownAction
}
