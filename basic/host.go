// This file is part of tbasic - https://github.com/sl001/tbasic
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

package basic

// Console is the engine's synchronous byte-oriented terminal surface
// (§6.1). Every call blocks the Machine until it returns, exactly as a
// microcontroller's blocking UART calls would.
type Console interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
	Available() (int, error)
	Flush() error
}

// Clock reports a monotonic millisecond counter, used by the event/timer
// dispatcher (§4.7) and by the TIMER function.
type Clock interface {
	Millis() uint32
}

// Random is the engine's seedable uniform integer source, backing RND.
type Random interface {
	Seed(seed uint32)
	Rand() uint32
}

// FileSystem is the optional file-I/O surface (§6.1). A Host that does not
// support file I/O may return an error from every method.
type FileSystem interface {
	Open(name, mode string) (handle int, err error)
	Close(handle int) error
	Read(handle int) (byte, error)
	Write(handle int, b byte) error
	Remove(name string) error
	Rename(oldName, newName string) error
	Dir() ([]string, error)
}

// Peripherals is the optional microcontroller-facing surface (§6.1): GPIO,
// analog, timing, I2C, pixel, network and camera primitives. A Host that
// does not support peripherals may return an error from every method; the
// event dispatcher skips an EVENT subscription whose DigitalRead fails.
type Peripherals interface {
	PinMode(pin, mode int) error
	DigitalRead(pin int) (int, error)
	DigitalWrite(pin, value int) error
	AnalogRead(pin int) (int, error)
	AnalogWrite(pin, value int) error
	Tone(pin, freq, durationMs int) error
	PulseIn(pin, value, timeoutUs int) (int, error)
	I2CWrite(addr int, data []byte) error
	I2CRead(addr int, n int) ([]byte, error)
	PixelSet(x, y, color int) error
	MQTTPublish(topic string, payload []byte) error
	MQTTSubscribe(topic string) error
	CameraCapture() ([]byte, error)
}

// Break reports whether the host has observed a break request: a
// character, a pin level, or an out-of-band signal (§5 "Cancellation").
// The event/timer dispatcher polls it between every two statements.
type Break interface {
	BreakRequested() bool
}

// Usr is the host's native-code escape hatch (§3 HASUSRCALL), separate
// from the Peripherals vtable: USR(n, arg) calls it directly and returns
// its Value, CALL n calls it and discards the result.
type Usr interface {
	Usr(n int, arg Value) (Value, error)
}

// Host bundles every callback surface the engine depends on. Only Console,
// Clock and Random are mandatory; FileSystem, Peripherals and Break are
// asserted for optionally via the OptionalHost accessors below.
type Host interface {
	Console
	Clock
	Random
}

// OptionalHost is implemented by a Host that also wants to report break
// requests; hosts that never break may simply not implement it.
type OptionalHost interface {
	Break
}

func hostBreak(h Host) bool {
	if b, ok := h.(Break); ok {
		return b.BreakRequested()
	}
	return false
}

func hostFiles(h Host) (FileSystem, bool) {
	fs, ok := h.(FileSystem)
	return fs, ok
}

func hostPeripherals(h Host) (Peripherals, bool) {
	p, ok := h.(Peripherals)
	return p, ok
}

func hostUsr(h Host) (Usr, bool) {
	u, ok := h.(Usr)
	return u, ok
}
