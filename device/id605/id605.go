/*
 * go-freemdu - Driver for software ID 605 (dishwasher board).
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

// Package id605 drives a G 6xx series dishwasher, EGPL 542-C board,
// software ID 605.
package id605

import (
	"fmt"

	"github.com/freemdu/go-freemdu/device"
	"github.com/freemdu/go-freemdu/device/numeric"
	"github.com/freemdu/go-freemdu/protocol"
)

const SoftwareID uint16 = 605

const (
	readKey = 0x1234
	fullKey = 0x5678

	addrRomProtectionFix = 0x00f4
	addrBoardNumber      = 0x00ec // EEPROM, 8 ASCII bytes
	addrFaults           = 0x0082
	addrProgramSelector  = 0x00af
	addrProgramType      = 0x0065
	addrTopSoloEnabled   = 0x008e
	addrProgramPhase     = 0x006a
	addrProgramStep      = 0x020d
	addrActiveActuators  = 0x022a
	addrClosedSwitches   = 0x006f
	addrNTCCurrent       = 0x0061
	addrNTCTarget        = 0x006c
	addrFlowMeterCurrent = 0x0088
	addrFlowMeterTarget  = 0x00c5
	addrTargetWaterAmt   = 0x00d6
	addrStartProgram     = 0x0084
)

// ProgramType enumerates the dishwashing program category byte.
type ProgramType uint8

const (
	ProgramNone          ProgramType = 0x00
	ProgramUniversalPlus ProgramType = 0x03
	ProgramEnergySave    ProgramType = 0x04
	ProgramGentle        ProgramType = 0x05
	ProgramUniversal     ProgramType = 0x06
	ProgramEconomy       ProgramType = 0x07
	ProgramPreWash       ProgramType = 0x08
	ProgramIntensive     ProgramType = 0x0a
	ProgramNormal        ProgramType = 0x0b
	ProgramTest          ProgramType = 0x0c
)

var programTypeNames = map[ProgramType]string{
	ProgramNone:          "None",
	ProgramUniversalPlus: "UniversalPlus",
	ProgramEnergySave:    "EnergySave",
	ProgramGentle:        "Gentle",
	ProgramUniversal:     "Universal",
	ProgramEconomy:       "Economy",
	ProgramPreWash:       "PreWash",
	ProgramIntensive:     "Intensive",
	ProgramNormal:        "Normal",
	ProgramTest:          "Test",
}

// ProgramPhase enumerates the running-program phase byte.
type ProgramPhase uint8

const (
	PhaseIdle ProgramPhase = iota
	PhaseReactivation
	PhasePreWash1
	PhasePreWash2
	PhaseMainWash
	PhaseInterimRinse1
	PhaseInterimRinse2
	PhaseFinalRinse
	PhaseDrying
	PhaseFinish
)

var programPhaseNames = []string{
	"Idle", "Reactivation", "PreWash1", "PreWash2", "MainWash",
	"InterimRinse1", "InterimRinse2", "FinalRinse", "Drying", "Finish",
}

// Actuator is the active-actuators bitflag set, masked to the bits this
// board actually populates (0xe0ff) before decode.
type Actuator uint16

const (
	ActuatorReleaseElement     Actuator = 0x0001
	ActuatorTopSoloCirculation Actuator = 0x0002
	ActuatorDetergentDosing    Actuator = 0x0004
	ActuatorRinseAidDosing     Actuator = 0x0008
	ActuatorReactivation       Actuator = 0x0010
	ActuatorInlet              Actuator = 0x0020
	ActuatorHeater             Actuator = 0x0040
	ActuatorWaterHardness      Actuator = 0x0080
	ActuatorDryingFan          Actuator = 0x2000
	ActuatorDrainPump          Actuator = 0x4000
	ActuatorCirculationPump    Actuator = 0x8000
)

var actuatorBits = []device.FlagBit{
	{Bit: uint64(ActuatorReleaseElement), Name: "ReleaseElement"},
	{Bit: uint64(ActuatorTopSoloCirculation), Name: "TopSoloCirculation"},
	{Bit: uint64(ActuatorDetergentDosing), Name: "DetergentDosing"},
	{Bit: uint64(ActuatorRinseAidDosing), Name: "RinseAidDosing"},
	{Bit: uint64(ActuatorReactivation), Name: "Reactivation"},
	{Bit: uint64(ActuatorInlet), Name: "Inlet"},
	{Bit: uint64(ActuatorHeater), Name: "Heater"},
	{Bit: uint64(ActuatorWaterHardness), Name: "WaterHardness"},
	{Bit: uint64(ActuatorDryingFan), Name: "DryingFan"},
	{Bit: uint64(ActuatorDrainPump), Name: "DrainPump"},
	{Bit: uint64(ActuatorCirculationPump), Name: "CirculationPump"},
}

const actuatorMask = 0xe0ff

// Switch is the closed-switches bitflag set.
type Switch uint8

const (
	SwitchHeaterPressure         Switch = 0x01
	SwitchSaltReservoirEmpty     Switch = 0x02
	SwitchRinseAidReservoirEmpty Switch = 0x04
)

var switchBits = []device.FlagBit{
	{Bit: uint64(SwitchHeaterPressure), Name: "HeaterPressure"},
	{Bit: uint64(SwitchSaltReservoirEmpty), Name: "SaltReservoirEmpty"},
	{Bit: uint64(SwitchRinseAidReservoirEmpty), Name: "RinseAidReservoirEmpty"},
}

// Fault is the composite fault bitflag set.
type Fault uint16

const (
	FaultNtcThermistorOpen    Fault = 0x0001
	FaultNtcThermistorShort   Fault = 0x0002
	FaultProgramSelector      Fault = 0x0004
	FaultHeater               Fault = 0x0008
	FaultDrainage             Fault = 0x0010
	FaultInletStart           Fault = 0x0020
	FaultInletEnd             Fault = 0x0040
	FaultPressureSwitchInlet  Fault = 0x0080
	FaultPressureSwitchHeating Fault = 0x0100
)

var faultBits = []device.FlagBit{
	{Bit: uint64(FaultNtcThermistorOpen), Name: "NtcThermistorOpen"},
	{Bit: uint64(FaultNtcThermistorShort), Name: "NtcThermistorShort"},
	{Bit: uint64(FaultProgramSelector), Name: "ProgramSelector"},
	{Bit: uint64(FaultHeater), Name: "Heater"},
	{Bit: uint64(FaultDrainage), Name: "Drainage"},
	{Bit: uint64(FaultInletStart), Name: "InletStart"},
	{Bit: uint64(FaultInletEnd), Name: "InletEnd"},
	{Bit: uint64(FaultPressureSwitchInlet), Name: "PressureSwitchInlet"},
	{Bit: uint64(FaultPressureSwitchHeating), Name: "PressureSwitchHeating"},
}

const (
	propBoardNumber      = "board_number"
	propFaults           = "faults"
	propProgramSelector  = "program_selector"
	propProgramType      = "program_type"
	propTopSoloEnabled   = "top_solo_enabled"
	propProgramPhase     = "program_phase"
	propProgramStep      = "program_step"
	propActiveActuators  = "active_actuators"
	propClosedSwitches   = "closed_switches"
	propNTCResistance    = "ntc_resistance"
	propFlowMeterPulses  = "flow_meter_pulses"
	propTargetWaterAmt   = "target_water_amount"
)

var properties = []device.Property{
	{Kind: device.General, ID: propBoardNumber, Name: "Board number"},
	{Kind: device.Failure, ID: propFaults, Name: "Faults"},
	{Kind: device.Operation, ID: propProgramSelector, Name: "Program selector"},
	{Kind: device.Operation, ID: propProgramType, Name: "Program type"},
	{Kind: device.Operation, ID: propTopSoloEnabled, Name: "Top solo enabled"},
	{Kind: device.Operation, ID: propProgramPhase, Name: "Program phase"},
	{Kind: device.Operation, ID: propProgramStep, Name: "Program step"},
	{Kind: device.Io, ID: propActiveActuators, Name: "Active actuators"},
	{Kind: device.Io, ID: propClosedSwitches, Name: "Closed switches"},
	{Kind: device.Io, ID: propNTCResistance, Name: "NTC resistance", Unit: "ohm"},
	{Kind: device.Io, ID: propFlowMeterPulses, Name: "Flow meter pulses"},
	{Kind: device.Io, ID: propTargetWaterAmt, Name: "Target water amount", Unit: "ml"},
}

const actionStartProgram = "start_program"

var actions = []device.Action{
	{ID: actionStartProgram, Name: "Start program"},
}

// Driver implements device.Driver for software ID 605.
type Driver struct {
	iface *protocol.Interface
}

func init() {
	device.Register(SoftwareID, New)
}

// New unlocks the board and disables ROM readout protection with a single
// byte write to 0x00f4, needed to access memory above 0x8000.
func New(iface *protocol.Interface, id uint16) (device.Driver, error) {
	if err := iface.UnlockReadAccess(readKey); err != nil {
		return nil, fmt.Errorf("id605: unlock read access: %w", err)
	}
	if err := iface.UnlockFullAccess(fullKey); err != nil {
		return nil, fmt.Errorf("id605: unlock full access: %w", err)
	}
	if err := iface.WriteMemory(addrRomProtectionFix, []byte{0x02}); err != nil {
		return nil, fmt.Errorf("id605: rom protection write: %w", err)
	}
	return &Driver{iface: iface}, nil
}

func (d *Driver) SoftwareID() uint16             { return SoftwareID }
func (d *Driver) Kind() device.Kind              { return device.Dishwasher }
func (d *Driver) Properties() []device.Property  { return properties }
func (d *Driver) Actions() []device.Action       { return actions }
func (d *Driver) Interface() *protocol.Interface { return d.iface }

func (d *Driver) readMem(addr uint32, n uint32) ([]byte, error) {
	return d.iface.ReadMemory(addr, n)
}

func (d *Driver) QueryProperty(p device.Property) (device.Value, error) {
	switch p.ID {
	case propBoardNumber:
		b, err := d.iface.ReadEEPROM(addrBoardNumber, 8)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(string(b)), nil
	case propFaults:
		b, err := d.readMem(addrFaults, 2)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(device.FormatFlags(uint64(protocol.Uint16LE(b)), faultBits)), nil
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
		name, ok := programTypeNames[ProgramType(b[0])]
		if !ok {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(name), nil
	case propTopSoloEnabled:
		b, err := d.readMem(addrTopSoloEnabled, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.BoolValue(b[0]&0x01 != 0), nil
	case propProgramPhase:
		b, err := d.readMem(addrProgramPhase, 1)
		if err != nil {
			return device.Value{}, err
		}
		if int(b[0]) >= len(programPhaseNames) {
			return device.Value{}, device.ErrUnexpectedMemoryValue
		}
		return device.StringValue(programPhaseNames[b[0]]), nil
	case propProgramStep:
		b, err := d.readMem(addrProgramStep, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(b[0])), nil
	case propActiveActuators:
		b, err := d.readMem(addrActiveActuators, 2)
		if err != nil {
			return device.Value{}, err
		}
		masked := protocol.Uint16LE(b) & actuatorMask
		return device.StringValue(device.FormatFlags(uint64(masked), actuatorBits)), nil
	case propClosedSwitches:
		b, err := d.readMem(addrClosedSwitches, 1)
		if err != nil {
			return device.Value{}, err
		}
		return device.StringValue(device.FormatFlags(uint64(b[0]), switchBits)), nil
	case propNTCResistance:
		cur, err := d.readMem(addrNTCCurrent, 1)
		if err != nil {
			return device.Value{}, err
		}
		tgt, err := d.readMem(addrNTCTarget, 1)
		if err != nil {
			return device.Value{}, err
		}
		target := tgt[0]
		if target == 0xff {
			target = 0x00
		}
		return device.SensorValue(numeric.NTCResistanceFromADC(cur[0]), numeric.NTCResistanceFromADC(target)), nil
	case propFlowMeterPulses:
		cur, err := d.readMem(addrFlowMeterCurrent, 2)
		if err != nil {
			return device.Value{}, err
		}
		tgt, err := d.readMem(addrFlowMeterTarget, 2)
		if err != nil {
			return device.Value{}, err
		}
		return device.SensorValue(uint32(protocol.Uint16LE(cur)), uint32(protocol.Uint16LE(tgt))), nil
	case propTargetWaterAmt:
		b, err := d.readMem(addrTargetWaterAmt, 2)
		if err != nil {
			return device.Value{}, err
		}
		return device.NumberValue(uint32(protocol.Uint16LE(b)) * 10), nil
	}
	return device.Value{}, device.ErrUnknownProperty
}

// TriggerAction implements the single start_program action. The state byte
// at 0x0084 reads 0x02 when a program is selected and ready to start; the
// same address is then written with 0x05 to start it.
func (d *Driver) TriggerAction(a device.Action, param *device.Value) error {
	if a.ID != actionStartProgram {
		return device.ErrUnknownAction
	}
	if param != nil {
		return device.ErrInvalidArgument
	}
	b, err := d.readMem(addrStartProgram, 1)
	if err != nil {
		return err
	}
	if b[0] != 0x02 {
		return device.ErrInvalidState
	}
	return d.iface.WriteMemory(addrStartProgram, []byte{0x05})
}
