/*
 * go-freemdu - Interactive diagnostic probe.
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

// Command mducli connects to one appliance board, queries its software
// ID, and prints every property the matching driver exposes.
package main

import (
	"fmt"
	"os"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"github.com/freemdu/go-freemdu/device"
	_ "github.com/freemdu/go-freemdu/device/id1998"
	_ "github.com/freemdu/go-freemdu/device/id132"
	_ "github.com/freemdu/go-freemdu/device/id324"
	_ "github.com/freemdu/go-freemdu/device/id419"
	_ "github.com/freemdu/go-freemdu/device/id605"
	_ "github.com/freemdu/go-freemdu/device/id629"
	"github.com/freemdu/go-freemdu/transport/serialport"
	"github.com/freemdu/go-freemdu/util/debug"
	"github.com/freemdu/go-freemdu/util/logger"
)

func main() {
	optPort := getopt.StringLong("port", 'p', "/dev/ttyUSB0", "Serial port")
	optBaud := getopt.IntLong("baud", 'b', 2400, "Baud rate")
	optVerbose := getopt.BoolLong("verbose", 'v', "Trace wire and command traffic")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	if *optVerbose {
		debug.SetMask(debug.MaskWire | debug.MaskCmd | debug.MaskDriver | debug.MaskAccess)
		logger.SetDebug(true)
	}

	port, err := serialport.Open(*optPort, *optBaud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mducli: open %s: %v\n", *optPort, err)
		os.Exit(1)
	}
	defer port.Close()

	drv, err := device.Connect(port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mducli: connect: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("software id %d, kind %s\n", drv.SoftwareID(), drv.Kind())
	for _, p := range drv.Properties() {
		v, err := drv.QueryProperty(p)
		if err != nil {
			fmt.Printf("%-28s error: %v\n", p.Name, err)
			continue
		}
		fmt.Printf("%-28s %s\n", p.Name, formatValue(v))
	}
}

func formatValue(v device.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	if b, ok := v.AsBool(); ok {
		if b {
			return "true"
		}
		return "false"
	}
	if n, ok := v.AsNumber(); ok {
		return fmt.Sprintf("%d", n)
	}
	if cur, target, ok := v.AsSensor(); ok {
		return fmt.Sprintf("current=%d target=%d", cur, target)
	}
	if d, ok := v.AsDuration(); ok {
		return time.Duration(d).String()
	}
	if dt, ok := v.AsDate(); ok {
		return fmt.Sprintf("%04d-%02d-%02d", dt.Year, dt.Month, dt.Day)
	}
	return "<unrepresentable>"
}
