/*
 * go-freemdu - Driver for software ID 629 (EDPL 126-B washing machine board).
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

// Package id629 drives the W 2xxx series washing machine, EDPL 126-B board,
// software ID 629. It is the fullest-featured of the washing machine
// drivers in this repository and the one used in the connect-to-a-known-
// model walkthrough.
package id629

import (
	"fmt"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/numeric"
	"github.com/freemdu/go-freemdu/protocol"
)

const SoftwareID uint16 = 629

const (
	readKey = 0x43ea
	fullKey = 0x1f02

	addrFaults           = 0x004e
	addrOperatingTime    = 0x0051 // mins@+0, BCD hours @+1..+3
	addrOperatingMode    = 0x00cd
	addrProgramSelector  = 0x00b5
	addrProgramType      = 0x00de
	addrProgramTemp      = 0x00df
	addrProgramOptions   = 0x0058
	addrProgramSpinSet   = 0x0057
	addrProgramPhase     = 0x00a2
	addrProgramLocked    = 0x0045
	addrLoadLevel        = 0x004a
	addrDisplayContents  = 0x009e
	addrActiveActuators  = 0x007d
	addrNTCResistance    = 0x01bf
	addrTemperature      = 0x0136
	addrPressureSensor   = 0x02be
	addrWaterLevel       = 0x007f
	addrMotorPWMDuty     = 0x02b9
	addrTachometerSpeed  = 0x01a4
	addrRomProtectionFix = 0x02c2
	addrStartProgram     = 0x00e7
)

// Fault is a composite bitflag reported by the faults property.
type Fault uint16

const (
	FaultPressureSensor      Fault = 0x0001
	FaultNtcThermistor       Fault = 0x0002
	FaultHeater              Fault = 0x0004
	FaultTachometerGenerator Fault = 0x0008
	FaultDetergentOverdose   Fault = 0x0010
	FaultInlet               Fault = 0x0020
	FaultDrainage            Fault = 0x0040
	FaultSpinCycle           Fault = 0x0080
	FaultEeprom              Fault = 0x0100
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

// ProgramOption is the settable bitflag set for set_program_options.
type ProgramOption uint8

const (
	OptionSoak           ProgramOption = 0x01
	OptionPreWash        ProgramOption = 0x02
	OptionWaterPlus      ProgramOption = 0x04
	OptionIntensiveShort ProgramOption = 0x08
)

var programOptionBits = []device.FlagBit{
	{Bit: uint64(OptionSoak), Name: "Soak"},
	{Bit: uint64(OptionPreWash), Name: "PreWash"},
	{Bit: uint64(OptionWaterPlus), Name: "WaterPlus"},
	{Bit: uint64(OptionIntensiveShort), Name: "IntensiveShort"},
}

// SpinSetting is an enumeration for set_program_spin_setting.
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

const (
	propSerialNumber      = "serial_number"
	propSerialNumberIndex = "serial_number_index"
	propModelNumber       = "model_number"
	propBoardNumber       = "board_number"
	propRomCode           = "rom_code"
	propOperatingTime     = "operating_time"
	propFaults            = "faults"
	propOperatingMode     = "operating_mode"
	propProgramSelector   = "program_selector"
	propProgramType       = "program_type"
	propProgramTemp       = "program_temperature"
	propProgramOptions    = "program_options"
	propProgramSpinSet    = "program_spin_setting"
	propProgramPhase      = "program_phase"
	propProgramLocked     = "program_locked"
	propLoadLevel         = "load_level"
	propDisplayContents   = "display_contents"
	propActiveActuators   = "active_actuators"
	propNTCResistance     = "ntc_resistance"
	propTemperature       = "temperature"
	propPressureSensor    = "pressure_sensor_value"
	propWaterLevel        = "water_level"
	propMotorPWMDuty      = "motor_pwm_duty_cycle"
	propTachometerSpeed   = "tachometer_speed"
)

var properties = []device.Property{
	{Kind: device.General, ID: propSerialNumber, Name: "Serial number"},
	{Kind: device.General, ID: propSerialNumberIndex, Name: "Serial number index"},
	{Kind: device.General, ID: propModelNumber, Name: "Model number"},
	{Kind: device.General, ID: propBoardNumber, Name: "Board number"},
	{Kind: device.General, ID: propRomCode, Name: "ROM code"},
	{Kind: device.Operation, ID: propOperatingTime, Name: "Operating time", Unit: "h"},
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
	{Kind: device.General, ID: propDisplayContents, Name: "Display contents"},
	{Kind: device.Io, ID: propActiveActuators, Name: "Active actuators"},
	{Kind: device.Io, ID: propNTCResistance, Name: "NTC resistance", Unit: "ohm"},
	{Kind: device.Io, ID: propTemperature, Name: "Temperature", Unit: "C"},
	{Kind: device.Io, ID: propPressureSensor, Name: "Pressure sensor value"},
	{Kind: device.Io, ID: propWaterLevel, Name: "Water level"},
	{Kind: device.Io, ID: propMotorPWMDuty, Name: "Motor PWM duty cycle", Unit: "%"},
	{Kind: device.Io, ID: propTachometerSpeed, Name: "Tachometer speed", Unit: "rpm"},
}

const (
	actionSetProgramOptions  = "set_program_options"
	actionSetProgramSpinSet  = "set_program_spin_setting"
	actionStartProgram       = "start_program"
)

var actions = []device.Action{
	{ID: actionSetProgramOptions, Name: "Set program options", Params: &device.ActionParams{
		Kind: device.Flags, Names: []string{"Soak", "PreWash", "WaterPlus", "IntensiveShort"},
	}},
	{ID: actionSetProgramSpinSet, Name: "Set program spin setting", Params: &device.ActionParams{
		Kind: device.Enumeration, Names: spinSettingNames,
	}},
	{ID: actionStartProgram, Name: "Start program"},
}

// Driver implements device.Driver for software ID 629.
type Driver struct {
	iface *protocol.Interface
}

func init() {
	device.Register(SoftwareID, New)
}

// New runs the id629 unlock sequence and returns a ready driver.
func New(iface *protocol.Interface, id uint16) (device.Driver, error) {
	if err := iface.UnlockReadAccess(readKey); err != nil {
		return nil, fmt.Errorf("id629: unlock read access: %w", err)
	}
	if err := iface.UnlockFullAccess(fullKey); err != nil {
		return nil, fmt.Errorf("id629: unlock full access: %w", err)
	}
	// Disables on-chip ROM-readout protection so addresses above the
	// board's default ceiling become readable. Persistence across power
	// cycles is unverified; see SPEC_FULL.md's Open Questions.
	if err := iface.WriteMemory(addrRomProtectionFix, []byte{0x01}); err != nil {
		return nil, fmt.Errorf("id629: disable rom protection: %w", err)
	}
	return &Driver{iface: iface}, nil
}

func (d *Driver) SoftwareID() uint16            { return SoftwareID }
func (d *Driver) Kind() device.Kind             { return device.WashingMachine }
func (d *Driver) Properties() []device.Property { return properties }
func (d *Driver) Actions() []device.Action      { return actions }
func (d *Driver) Interface() *protocol.Interface { return d.iface }

func (d *Driver) readMem(addr uint32, n uint32) ([]byte, error) {
	return d.iface.ReadMemory(addr, n)
}

func (d *Driver) QueryProperty(p device.Property) (device.Value, error) {
	switch p.ID {
	case propSerialNumber, propSerialNumberIndex, propModelNumber, propBoardNumber:
		// These identification fields are not populated on this board
		// revision in the reference firmware dump; exposed for
		// capability-surface symmetry with id1998/id605, always
		// returning an empty string here.
		return device.StringValue(""), nil
	case propRomCode:
		b, err := d.readMem(0xffdf, 1)
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
		b, err := d.readMem(addrFaults, 2)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(decodeFaults(Fault(protocol.Uint16LE(b)))), nil
	case propOperatingMode:
		b, err := d.readMem(addrOperatingMode, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
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
		return device.NumberValue(uint32(b[0])), nil
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
		return device.StringValue(decodeProgramOptions(ProgramOption(b[0]))), nil
	case propProgramSpinSet:
		b, err := d.readMem(addrProgramSpinSet, 1)
		if err != nil {
			return device.Value{}, err
		}
		idx := int(b[0])
		if idx < 0 || idx >= len(spinSettingNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(spinSettingNames[idx]), nil
	case propProgramPhase:
		b, err := d.readMem(addrProgramPhase, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
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
	case propDisplayContents:
		b, err := d.readMem(addrDisplayContents, 4)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(decodeDisplay(b)), nil
	case propActiveActuators:
		b, err := d.readMem(addrActiveActuators, 2)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(protocol.Uint16LE(b))), nil
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
	case propPressureSensor:
		b, err := d.readMem(addrPressureSensor, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
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
	case propTachometerSpeed:
		b, err := d.readMem(addrTachometerSpeed, 4)
		if err != nil {
			return device.Value{}, err
		}
		full := protocol.Uint32LE(b)
		target := numeric.RPMFromMotorSpeed(full & 0xffff)
		current := numeric.RPMFromMotorSpeed(full >> 16)
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
		bits, err := parseProgramOptions(s)
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

func decodeFaults(f Fault) string {
	return device.FormatFlags(uint64(f), faultBits)
}

func decodeProgramOptions(o ProgramOption) string {
	return device.FormatFlags(uint64(o), programOptionBits)
}

func parseProgramOptions(s string) (ProgramOption, error) {
	bits, err := device.ParseFlags(s, programOptionBits)
	if err != nil {
		return 0, err
	}
	return ProgramOption(bits), nil
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
