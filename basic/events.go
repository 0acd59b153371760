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

// EventMode selects the edge or level an EVENT subscription triggers on.
type EventMode int

const (
	EventChange EventMode = iota
	EventRising
	EventFalling
	EventHigh
	EventLow
)

// timer is one armed AFTER or EVERY handler.
type timer struct {
	every    bool
	periodMs uint32
	dueAt    uint32
	lineIdx  int
	armed    bool
}

// pinEvent is one armed EVENT subscription.
type pinEvent struct {
	pin     int
	mode    EventMode
	last    int
	lineIdx int
	armed   bool
}

// dispatcher implements the cooperative event/timer poll run between any
// two statements (§4.7). At most one handler is pending at a time; while a
// handler runs, further events accumulate but do not re-enter it (§4.6).
type dispatcher struct {
	timers  []timer
	events  []pinEvent
	running bool
	lastMs  uint32
}

func newDispatcher() *dispatcher {
	return &dispatcher{}
}

// armAfter installs a one-shot timer due delayMs from now.
func (d *dispatcher) armAfter(nowMs uint32, delayMs uint32, lineIdx int) {
	d.timers = append(d.timers, timer{every: false, periodMs: delayMs, dueAt: nowMs + delayMs, lineIdx: lineIdx, armed: true})
}

// armEvery installs a periodic timer firing every periodMs.
func (d *dispatcher) armEvery(nowMs uint32, periodMs uint32, lineIdx int) {
	d.timers = append(d.timers, timer{every: true, periodMs: periodMs, dueAt: nowMs + periodMs, lineIdx: lineIdx, armed: true})
}

// armEvent installs a pin-level/edge subscription.
func (d *dispatcher) armEvent(pin int, mode EventMode, lineIdx int) {
	d.events = append(d.events, pinEvent{pin: pin, mode: mode, lineIdx: lineIdx, armed: true, last: -1})
}

// poll performs one iteration of the §4.7 algorithm: advance the clock,
// check armed timers and pin events, and return the line index of a
// pending handler to invoke, if any and if none is already running.
func (d *dispatcher) poll(h Host) (lineIdx int, ok bool) {
	now := h.Millis()
	d.lastMs = now
	if d.running {
		return 0, false
	}
	for i := range d.timers {
		t := &d.timers[i]
		if !t.armed || now < t.dueAt {
			continue
		}
		if !t.every {
			t.armed = false
		} else {
			t.dueAt = now + t.periodMs
		}
		return t.lineIdx, true
	}
	peripherals, hasPins := hostPeripherals(h)
	if !hasPins {
		return 0, false
	}
	for i := range d.events {
		e := &d.events[i]
		if !e.armed {
			continue
		}
		v, err := peripherals.DigitalRead(e.pin)
		if err != nil {
			continue
		}
		fired := false
		switch e.mode {
		case EventChange:
			fired = e.last >= 0 && v != e.last
		case EventRising:
			fired = e.last == 0 && v == 1
		case EventFalling:
			fired = e.last == 1 && v == 0
		case EventHigh:
			fired = v == 1
		case EventLow:
			fired = v == 0
		}
		e.last = v
		if fired {
			return e.lineIdx, true
		}
	}
	return 0, false
}

func (d *dispatcher) enter() { d.running = true }
func (d *dispatcher) leave() { d.running = false }

func (d *dispatcher) reset() {
	d.timers = nil
	d.events = nil
	d.running = false
}
