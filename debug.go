// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llio

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/aio-go/llio/internal/logring"
)

var fEnableDebug = flag.Bool(
	"llio.debug",
	false,
	"Write llio debugging messages to stderr.")

const debugRingCapacity = 256

var gLogger *log.Logger
var gRing = logring.New(debugRingCapacity)
var gLoggerOnce sync.Once

func initLogger() {
	var writer io.Writer = io.Discard
	if flag.Parsed() && *fEnableDebug {
		writer = os.Stderr
	}

	const flags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
	gLogger = log.New(writer, Namespace+": ", flags)
}

func getLogger() *log.Logger {
	gLoggerOnce.Do(initLogger)
	return gLogger
}

// debugf formats and records a debug line, writing it to stderr only when
// -llio.debug was supplied, but always retaining it in the in-process ring
// so DebugTail can recover recent activity after the fact.
func debugf(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	gRing.Append(msg)
	getLogger().Output(2, msg)
}

// DebugTail returns the most recently recorded debug lines, oldest first,
// regardless of whether -llio.debug was set when they were recorded.
func DebugTail() []string {
	return gRing.Tail()
}
