/*
 * go-freemdu - Raw memory/EEPROM dump utility.
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

// Command mdudump reads a raw span of RAM or EEPROM from a board, after
// unlocking with caller-supplied keys, and writes a hex dump to stdout.
// It bypasses the driver registry entirely -- useful against boards with
// no driver yet, or while reverse-engineering a new memory map.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/freemdu/go-freemdu/protocol"
	"github.com/freemdu/go-freemdu/transport/serialport"
)

func main() {
	optPort := getopt.StringLong("port", 'p', "/dev/ttyUSB0", "Serial port")
	optBaud := getopt.IntLong("baud", 'b', 2400, "Baud rate")
	optEEPROM := getopt.BoolLong("eeprom", 'e', "Dump EEPROM instead of RAM")
	optAddr := getopt.Uint32Long("addr", 'a', 0, "Start address")
	optLength := getopt.Uint32Long("length", 'n', 256, "Number of bytes")
	optReadKey := getopt.Uint16Long("read-key", 'r', 0, "Read-access unlock key")
	optFullKey := getopt.Uint16Long("full-key", 'f', 0, "Full-access unlock key")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	port, err := serialport.Open(*optPort, *optBaud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdudump: open %s: %v\n", *optPort, err)
		os.Exit(1)
	}
	defer port.Close()

	iface := protocol.New(port)
	if *optReadKey != 0 {
		if err := iface.UnlockReadAccess(*optReadKey); err != nil {
			fmt.Fprintf(os.Stderr, "mdudump: unlock read access: %v\n", err)
			os.Exit(1)
		}
	}
	if *optFullKey != 0 {
		if err := iface.UnlockFullAccess(*optFullKey); err != nil {
			fmt.Fprintf(os.Stderr, "mdudump: unlock full access: %v\n", err)
			os.Exit(1)
		}
	}

	var data []byte
	if *optEEPROM {
		data, err = iface.ReadEEPROM(*optAddr, *optLength)
	} else {
		data, err = iface.ReadMemory(*optAddr, *optLength)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdudump: read: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(hex.Dump(data))
}
