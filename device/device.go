/*
 * go-freemdu - Uniform device capability surface and registry.
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

// Package device defines the uniform capability surface every model-specific
// driver implements (properties, actions, query/trigger) and the registry
// that dispatches a freshly connected link to the right driver by software
// ID. Individual driver packages (device/id132, device/id324, ...) register
// themselves from an init() function.
package device

import "github.com/freemdu/go-freemdu/protocol"

// Kind is the category of appliance a driver implements.
type Kind int

const (
	WashingMachine Kind = iota
	TumbleDryer
	WasherDryer
	Dishwasher
	CoffeeMachine
)

func (k Kind) String() string {
	switch k {
	case WashingMachine:
		return "washing machine"
	case TumbleDryer:
		return "tumble dryer"
	case WasherDryer:
		return "washer-dryer"
	case Dishwasher:
		return "dishwasher"
	case CoffeeMachine:
		return "coffee machine"
	default:
		return "unknown"
	}
}

// PropertyKind classifies a property for presentation purposes.
type PropertyKind int

const (
	General PropertyKind = iota
	Failure
	Operation
	Io
)

// Property is a single named, typed, queryable attribute of a driver. The
// Unit field is optional ("" when the value is unitless or self-describing,
// such as an enum name or a Date).
type Property struct {
	Kind PropertyKind
	ID   string
	Name string
	Unit string
}

// ActionParamKind describes the shape of an action's optional parameter.
type ActionParamKind int

const (
	NoParam ActionParamKind = iota
	Enumeration
	Flags
)

// ActionParams declares the closed set of names an action's parameter may
// be drawn from, and whether it is a single enum pick or an OR-combinable
// flag set (parsed as " | "-separated names, see Driver.TriggerAction).
type ActionParams struct {
	Kind  ActionParamKind
	Names []string
}

// Action is a single named, triggerable operation exposed by a driver.
type Action struct {
	ID     string
	Name   string
	Params *ActionParams // nil means the action takes no parameter
}

// Value is the tagged union returned by querying a property and accepted
// when triggering a parameterized action.
type Value struct {
	kind valueKind

	b        bool
	n        uint32
	current  uint32
	target   uint32
	s        string
	duration int64 // nanoseconds, see time.Duration
	date     Date
}

type valueKind int

const (
	valueBool valueKind = iota
	valueNumber
	valueSensor
	valueString
	valueDuration
	valueDate
)

// Date is a calendar date with no time-of-day component.
type Date struct {
	Year  uint16
	Month uint8
	Day   uint8
}

func BoolValue(b bool) Value             { return Value{kind: valueBool, b: b} }
func NumberValue(n uint32) Value         { return Value{kind: valueNumber, n: n} }
func SensorValue(current, target uint32) Value {
	return Value{kind: valueSensor, current: current, target: target}
}
func StringValue(s string) Value            { return Value{kind: valueString, s: s} }
func DurationValue(ns int64) Value          { return Value{kind: valueDuration, duration: ns} }
func DateValue(d Date) Value                { return Value{kind: valueDate, date: d} }

// AsBool reports whether v holds a Bool and its value.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == valueBool }

// AsNumber reports whether v holds a Number and its value.
func (v Value) AsNumber() (uint32, bool) { return v.n, v.kind == valueNumber }

// AsSensor reports whether v holds a Sensor pair and its (current, target).
func (v Value) AsSensor() (current, target uint32, ok bool) {
	return v.current, v.target, v.kind == valueSensor
}

// AsString reports whether v holds a String and its value.
func (v Value) AsString() (string, bool) { return v.s, v.kind == valueString }

// AsDuration reports whether v holds a Duration, in nanoseconds.
func (v Value) AsDuration() (int64, bool) { return v.duration, v.kind == valueDuration }

// AsDate reports whether v holds a Date and its value.
func (v Value) AsDate() (Date, bool) { return v.date, v.kind == valueDate }

// Driver is the uniform capability surface implemented by every
// model-specific package. Implementations must treat Properties/Actions as
// immutable static data shared across calls.
type Driver interface {
	SoftwareID() uint16
	Kind() Kind
	Properties() []Property
	Actions() []Action
	QueryProperty(p Property) (Value, error)
	TriggerAction(a Action, param *Value) error
	Interface() *protocol.Interface
}

// Constructor builds a Driver once QuerySoftwareID has returned id, running
// whatever unlock sequence and post-unlock writes the model requires.
type Constructor func(iface *protocol.Interface, id uint16) (Driver, error)

var registry = map[uint16]Constructor{}

// Register associates a software ID with a driver constructor. Driver
// packages call this from their own init() function; a package that is
// never imported never registers, keeping the compiled-in registry closed
// over exactly the drivers the importing program actually links in.
func Register(id uint16, ctor Constructor) {
	registry[id] = ctor
}
