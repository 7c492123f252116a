/*
 * go-freemdu - Structured logging wrapper
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

package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu           sync.Mutex
	fileOut      io.Writer = io.Discard
	debugEnabled bool
	base         = logrus.New()
)

func init() {
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	refreshOutput()
}

func refreshOutput() {
	if debugEnabled {
		base.SetOutput(io.MultiWriter(fileOut, os.Stderr))
		return
	}
	base.SetOutput(fileOut)
}

// SetOutput directs log records to w, e.g. a debug log file opened by
// the command-line tools.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	fileOut = w
	refreshOutput()
}

// SetDebug toggles echoing every record to stderr in addition to
// whatever SetOutput configured.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
	refreshOutput()
}

// Infof logs an informational message tagged with the given component
// name, e.g. "wire", "protocol", "id629".
func Infof(component, format string, args ...interface{}) {
	base.WithField("component", component).Infof(format, args...)
}

// Warnf logs a warning tagged with component.
func Warnf(component, format string, args ...interface{}) {
	base.WithField("component", component).Warnf(format, args...)
}

// Errorf logs an error tagged with component.
func Errorf(component, format string, args ...interface{}) {
	base.WithField("component", component).Errorf(format, args...)
}
