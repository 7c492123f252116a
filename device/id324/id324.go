/*
 * go-freemdu - Driver for software ID 324 (EDPW 213 washing machine board).
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

// Package id324 drives the W 8xx/9xx series washing machine, EDPW 213
// board, software ID 324.
package id324

import (
	"fmt"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/numeric"
	"github.com/freemdu/go-freemdu/protocol"
)

const SoftwareID uint16 = 324

const (
	readKey = 0x43ea
	fullKey = 0x1f02

	addrRomCode         = 0xffdf
	addrOperatingTime   = 0x0010
	addrOperatingMode   = 0x0089
	addrProgramSelector = 0x0071
	addrProgramType     = 0x009c
	addrProgramTemp     = 0x009d
	addrProgramOptions  = 0x0016
	addrBuzzerEnabled   = 0x0005
	addrProgramSpinSet  = 0x0015
	addrProgramSpinSpd  = 0x00a8
	addrProgramPhase    = 0x005e
	addrProgramLocked   = 0x0005
	addrLoadLevel       = 0x000a
	addrDisplay         = 0x005a
	addrActiveActuators = 0x0039
	addrNTCResistance   = 0x0171
	addrTemperature     = 0x0135
	addrWaterLevel      = 0x003b
	addrMotorPWMDuty    = 0x004f
	addrTachometer      = 0x0091
	addrStoredFaults    = 0x000e
	addrStartProgram    = 0x00a5
)

// OperatingMode enumerates the device's top-level mode byte.
type OperatingMode uint8

const (
	ModeDoorOpen OperatingMode = iota
	ModeProgramIdle
	ModeProgramRunning
	ModeProgramFinished
	ModeServiceProgramming
	ModeService
	ModeCustomerProgramming
)

var operatingModeNames = []string{
	"DoorOpen", "ProgramIdle", "ProgramRunning", "ProgramFinished",
	"ServiceProgramming", "Service", "CustomerProgramming",
}

// ProgramType enumerates the wash cycle category.
type ProgramType uint8

const (
	ProgramNone ProgramType = iota
	ProgramCottons
	ProgramMinimumIron
	ProgramDelicates
	ProgramWoolens
	ProgramQuickWash
	ProgramStarch
	ProgramSpin
	ProgramDrain
	ProgramSeparateRinse
	ProgramMixedWash
)

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

// SpinSetting enumerates the settable spin preset.
type SpinSetting uint8

const (
	SpinWithoutSpin SpinSetting = iota
	SpinSlow
	SpinMedium
	SpinFast
	SpinExtraFast
	SpinAuto
	SpinReduced
	SpinMax
)

var spinSettingNames = []string{
	"WithoutSpin", "Slow", "Medium", "Fast", "ExtraFast", "Auto", "Reduced", "Max",
}

// ProgramPhase enumerates the running-program phase byte.
type ProgramPhase uint8

const (
	PhaseIdle ProgramPhase = iota
	PhasePreWash
	PhaseSoak
	PhasePreRinse
	PhaseMainWash
	PhaseRinse
	PhaseRinseHold
	PhaseClean
	PhaseCool
	PhasePump
	PhaseSpin
	PhaseAntiCreaseFinish
	PhaseFinish
)

var programPhaseNames = []string{
	"Idle", "PreWash", "Soak", "PreRinse", "MainWash", "Rinse", "RinseHold",
	"Clean", "Cool", "Pump", "Spin", "AntiCreaseFinish", "Finish",
}

// Actuator is the active-actuators bitflag set.
type Actuator uint16

const (
	ActuatorFieldSwitch      Actuator = 0x0001
	ActuatorDrainPump        Actuator = 0x0002
	ActuatorPwmShortCircuit  Actuator = 0x0008
	ActuatorReverse          Actuator = 0x0010
	ActuatorHeater           Actuator = 0x0020
	ActuatorSoftener         Actuator = 0x0040
	ActuatorPreWash          Actuator = 0x0080
	ActuatorRelayEconomizer  Actuator = 0x0100
	ActuatorMainWash         Actuator = 0x2000
	ActuatorWarmWater        Actuator = 0x4000
)

var actuatorBits = []device.FlagBit{
	{Bit: uint64(ActuatorFieldSwitch), Name: "FieldSwitch"},
	{Bit: uint64(ActuatorDrainPump), Name: "DrainPump"},
	{Bit: uint64(ActuatorPwmShortCircuit), Name: "PwmShortCircuit"},
	{Bit: uint64(ActuatorReverse), Name: "Reverse"},
	{Bit: uint64(ActuatorHeater), Name: "Heater"},
	{Bit: uint64(ActuatorSoftener), Name: "Softener"},
	{Bit: uint64(ActuatorPreWash), Name: "PreWash"},
	{Bit: uint64(ActuatorRelayEconomizer), Name: "RelayEconomizer"},
	{Bit: uint64(ActuatorMainWash), Name: "MainWash"},
	{Bit: uint64(ActuatorWarmWater), Name: "WarmWater"},
}

// Fault is the composite fault bitflag set. Its stored form is read by
// query_stored_faults in the reference firmware but was never wired into
// that driver's property table; this port exposes it as the faults
// property (propFaults).
type Fault uint16

const (
	FaultPressureSensor       Fault = 0x0001
	FaultNtcThermistor        Fault = 0x0002
	FaultHeater               Fault = 0x0004
	FaultTachometerGenerator  Fault = 0x0008
	FaultDetergentOverdose    Fault = 0x0010
	FaultInlet                Fault = 0x0020
	FaultDrainage             Fault = 0x0040
	FaultSpinCycle            Fault = 0x0080
	FaultEeprom               Fault = 0x0100
)

var faultBits = []device.FlagBit{
	{Bit: uint64(FaultPressureSensor), Name: "PressureSensor"},
	{Bit: uint64(FaultNtcThermistor), Name: "NtcThermistor"},
	{Bit: uint64(FaultHeater), Name: "Heater"},
	{Bit: uint64(FaultTachometerGenerator), Name: "TachometerGenerator"},
	{Bit: uint64(FaultDetergentOverdose), Name: "DetergentOverdose"},
	{Bit: uint64(FaultInlet), Name: "Inlet"},
	{Bit: uint64(FaultDrainage), Name: "Drainage"},
	{Bit: uint64(FaultSpinCycle), Name: "SpinCycle"},
	{Bit: uint64(FaultEeprom), Name: "Eeprom"},
}

const (
	propRomCode         = "rom_code"
	propOperatingTime   = "operating_time"
	propOperatingMode   = "operating_mode"
	propProgramSelector = "program_selector"
	propProgramType     = "program_type"
	propProgramTemp     = "program_temperature"
	propProgramOptions  = "program_options"
	propBuzzerEnabled   = "buzzer_enabled"
	propProgramSpinSet  = "program_spin_setting"
	propProgramSpinSpd  = "program_spin_speed"
	propProgramPhase    = "program_phase"
	propProgramLocked   = "program_locked"
	propLoadLevel       = "load_level"
	propDisplay         = "display_contents"
	propActiveActuators = "active_actuators"
	propNTCResistance   = "ntc_resistance"
	propTemperature     = "temperature"
	propWaterLevel      = "water_level"
	propMotorPWMDuty    = "motor_pwm_duty_cycle"
	propTachometer      = "tachometer_speed"
	propFaults          = "faults"
)

var properties = []device.Property{
	{Kind: device.General, ID: propRomCode, Name: "ROM code"},
	{Kind: device.Operation, ID: propOperatingTime, Name: "Operating time", Unit: "h"},
	{Kind: device.Operation, ID: propOperatingMode, Name: "Operating mode"},
	{Kind: device.Operation, ID: propProgramSelector, Name: "Program selector"},
	{Kind: device.Operation, ID: propProgramType, Name: "Program type"},
	{Kind: device.Operation, ID: propProgramTemp, Name: "Program temperature", Unit: "C"},
	{Kind: device.Operation, ID: propProgramOptions, Name: "Program options"},
	{Kind: device.General, ID: propBuzzerEnabled, Name: "Buzzer enabled"},
	{Kind: device.Operation, ID: propProgramSpinSet, Name: "Program spin setting"},
	{Kind: device.Operation, ID: propProgramSpinSpd, Name: "Program spin speed", Unit: "rpm"},
	{Kind: device.Operation, ID: propProgramPhase, Name: "Program phase"},
	{Kind: device.Operation, ID: propProgramLocked, Name: "Program locked"},
	{Kind: device.Operation, ID: propLoadLevel, Name: "Load level"},
	{Kind: device.General, ID: propDisplay, Name: "Display contents"},
	{Kind: device.Io, ID: propActiveActuators, Name: "Active actuators"},
	{Kind: device.Io, ID: propNTCResistance, Name: "NTC resistance", Unit: "ohm"},
	{Kind: device.Io, ID: propTemperature, Name: "Temperature", Unit: "C"},
	{Kind: device.Io, ID: propWaterLevel, Name: "Water level"},
	{Kind: device.Io, ID: propMotorPWMDuty, Name: "Motor PWM duty cycle", Unit: "%"},
	{Kind: device.Io, ID: propTachometer, Name: "Tachometer speed", Unit: "rpm"},
	{Kind: device.Failure, ID: propFaults, Name: "Faults"},
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

// Driver implements device.Driver for software ID 324.
type Driver struct {
	iface *protocol.Interface
}

func init() {
	device.Register(SoftwareID, New)
}

// New runs the id324 unlock sequence. Unlike id629 and id605, this board
// requires no post-unlock ROM-protection write.
func New(iface *protocol.Interface, id uint16) (device.Driver, error) {
	if err := iface.UnlockReadAccess(readKey); err != nil {
		return nil, fmt.Errorf("id324: unlock read access: %w", err)
	}
	if err := iface.UnlockFullAccess(fullKey); err != nil {
		return nil, fmt.Errorf("id324: unlock full access: %w", err)
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
	case propOperatingMode:
		b, err := d.readMem(addrOperatingMode, 1)
		if err != nil {
			return device.Value{}, err
		}
		if int(b[0]) >= len(operatingModeNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(operatingModeNames[b[0]]), nil
	case propProgramSelector:
		b, err := d.readMem(addrProgramSelector, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
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
	case propBuzzerEnabled:
		b, err := d.readMem(addrBuzzerEnabled, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.BoolValue(b[0]&0x01 != 0), nil
	case propProgramSpinSet:
		b, err := d.readMem(addrProgramSpinSet, 1)
		if err != nil {
			return device.Value{}, err
		}
		if int(b[0]) >= len(spinSettingNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(spinSettingNames[b[0]]), nil
	case propProgramSpinSpd:
		b, err := d.readMem(addrProgramSpinSpd, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0]) * 50), nil
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
	case propDisplay:
		b, err := d.readMem(addrDisplay, 4)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(decodeDisplay(b)), nil
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
		return device.SensorValue(uint32(b[0]), uint32(b[1])), nil
	case propMotorPWMDuty:
		b, err := d.readMem(addrMotorPWMDuty, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0]) * 100 / 0xff), nil
	case propTachometer:
		b, err := d.readMem(addrTachometer, 5)
		if err != nil {
			return device.Value{}, err
		}
		currentRaw := protocol.Uint32LE([]byte{b[0], b[1], b[2], 0})
		targetRaw := uint32(protocol.Uint16LE(b[3:5]))
		current := numeric.RPMFromMotorSpeed(currentRaw)
		target := numeric.RPMFromMotorSpeed(targetRaw)
		return device.SensorValue(uint32(current), uint32(target)), nil
	case propFaults:
		b, err := d.readMem(addrStoredFaults, 2)
		if err != nil {
			return device.Value{}, err
		}
		masked := protocol.Uint16LE(b) & 0x01ff
		return device.StringValue(device.FormatFlags(uint64(masked), faultBits)), nil
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

func decodeDisplay(b []byte) string {
	codes := [3]uint8{b[0] & 0x0f, (b[0] >> 4) & 0x0f, b[1] & 0x0f}
	special := [3]bool{b[3]&0x02 != 0, b[3]&0x04 != 0, b[3]&0x08 != 0}
	points := (b[2] >> 4) & 0x07
	out := make([]byte, 0, 6)
	for i, code := range codes {
		ch, ok := numeric.DecodeMC14489Digit(code, special[i])
		if !ok {
			ch = ' '
		}
		out = append(out, ch)
		dotAfter := (i == 0 && (points == 1 || points == 7)) ||
			(i == 1 && (points == 2 || points == 7)) ||
			(i == 2 && (points == 3 || points == 7))
		if dotAfter {
			out = append(out, '.')
		}
	}
	return string(out)
}
