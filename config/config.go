/*
 * go-freemdu - Connection configuration file parser
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

// Package config parses the line-oriented connection configuration file
// used to describe which serial ports the core should open and how.
//
// Configuration file format:
//
//	# comment, rest of line ignored
//	<line> := 'link' <whitespace> <port> <whitespace> *(<option> <whitespace>)
//	<port> := <string>
//	<option> := <key> '=' <value> | <switch>
//	<key>    := 'baud' | 'chunk' | 'driver'
//	<switch> := 'dummybytes'
//
// One "link" line describes one serial connection. Example:
//
//	link /dev/ttyUSB0 baud=2400 chunk=4 driver=629
//	link /dev/ttyUSB1 baud=2400 dummybytes
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Link describes one serial connection to open at startup.
type Link struct {
	Port       string
	Baud       int
	ChunkSize  int
	DummyBytes bool
	DriverHint string
}

const defaultBaud = 2400
const defaultChunkSize = 4

var lineNumber int

// optionLine is a cursor over one line of input, walked one rune at a
// time the way a hand-rolled recursive-descent tokenizer does.
type optionLine struct {
	line string
	pos  int
}

func (l *optionLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *optionLine) isEOL() bool {
	return l.pos >= len(l.line) || l.line[l.pos] == '#'
}

// token reads the next whitespace-delimited token starting at the
// current position, leaving pos just past it.
func (l *optionLine) token() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) && l.line[l.pos] != '#' {
		l.pos++
	}
	return l.line[start:l.pos]
}

func (l *optionLine) parse() (*Link, error) {
	l.skipSpace()
	if l.isEOL() {
		return nil, nil
	}
	keyword := l.token()
	if !strings.EqualFold(keyword, "link") {
		return nil, fmt.Errorf("config: line %d: unknown directive %q", lineNumber, keyword)
	}
	l.skipSpace()
	if l.isEOL() {
		return nil, fmt.Errorf("config: line %d: link requires a port", lineNumber)
	}
	link := &Link{
		Port:      l.token(),
		Baud:      defaultBaud,
		ChunkSize: defaultChunkSize,
	}
	for {
		l.skipSpace()
		if l.isEOL() {
			break
		}
		opt := l.token()
		if opt == "" {
			break
		}
		if err := link.applyOption(opt); err != nil {
			return nil, fmt.Errorf("config: line %d: %w", lineNumber, err)
		}
	}
	return link, nil
}

func (link *Link) applyOption(opt string) error {
	name, value, hasValue := strings.Cut(opt, "=")
	switch strings.ToLower(name) {
	case "baud":
		if !hasValue {
			return fmt.Errorf("baud requires a value")
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid baud rate %q: %w", value, err)
		}
		link.Baud = n
	case "chunk":
		if !hasValue {
			return fmt.Errorf("chunk requires a value")
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid chunk size %q: %w", value, err)
		}
		link.ChunkSize = n
	case "driver":
		if !hasValue {
			return fmt.Errorf("driver requires a value")
		}
		link.DriverHint = value
	case "dummybytes":
		if hasValue {
			return fmt.Errorf("dummybytes takes no value")
		}
		link.DummyBytes = true
	default:
		return fmt.Errorf("unknown option %q", name)
	}
	return nil
}

// Parse reads link directives from r until EOF.
func Parse(r io.Reader) ([]Link, error) {
	var links []Link
	lineNumber = 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNumber++
		ol := &optionLine{line: scanner.Text()}
		link, err := ol.parse()
		if err != nil {
			return nil, err
		}
		if link != nil {
			links = append(links, *link)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// LoadFile reads link directives from a configuration file on disk.
func LoadFile(name string) ([]Link, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, errors.New("config: " + err.Error())
	}
	defer file.Close()
	return Parse(file)
}
