package impl

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
)

// DebugOff deactivates all debug messages. Errors, warnings or information are still printed.
const DebugOff = 0

// DebugLow shows debug messages that happen very rarely during operation (to keep the log files small).
const DebugLow = 1

// DebugHigh shows all debug messages.
const DebugHigh = 2

//--------------------------------------------------------------------------------------------------------------------//

type _BufStat struct {
	debugLvl    uint8  // enable debug logging [0, 1, 2] (level: high=2)
	packageName string // text for debug logging

	_GrNew      uint64
	_GrClose    uint64
	_GrFillFast uint64
	_GrFillRead uint64
	_GrFillEOF  uint64
	_GrFillErr  uint64
	_GrGrow     uint64
	_GrByteAt   uint64
	_GrSlice    uint64
	_GrSliceErr uint64
	_GrRead     uint64
	_GrClear    uint64
}

func (s *_BufStat) Stat() map[string]uint64 {
	ret := map[string]uint64{
		"GrNew":      atomic.LoadUint64(&s._GrNew),
		"GrClose":    atomic.LoadUint64(&s._GrClose),
		"GrFillFast": atomic.LoadUint64(&s._GrFillFast),
		"GrFillRead": atomic.LoadUint64(&s._GrFillRead),
		"GrFillEOF":  atomic.LoadUint64(&s._GrFillEOF),
		"GrFillErr":  atomic.LoadUint64(&s._GrFillErr),
		"GrGrow":     atomic.LoadUint64(&s._GrGrow),
		"GrByteAt":   atomic.LoadUint64(&s._GrByteAt),
		"GrSlice":    atomic.LoadUint64(&s._GrSlice),
		"GrSliceErr": atomic.LoadUint64(&s._GrSliceErr),
		"GrRead":     atomic.LoadUint64(&s._GrRead),
		"GrClear":    atomic.LoadUint64(&s._GrClear),
	}

	// ignore zero values
	for k, v := range ret {
		if v == 0 {
			delete(ret, k)
		}
	}
	return ret
}

func (s *_BufStat) PrintStatAfterClose() {
	// final call in .Close()

	first := true
	var sb strings.Builder
	for k, v := range s.Stat() {
		if !first {
			sb.WriteString(", ")
		} else {
			first = false
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprintf("%d", v))
	}

	if s.debugLvl >= DebugLow { // Debug level: low=1
		log.Printf("DEBUG: %s/stat.PrintStatAfterClose: %s", s.packageName, sb.String())
	}
}

// ------------------------------------------------------------------------------------------------------------------ //

func (s *_BufStat) GrNew(capacity int) {
	atomic.AddUint64(&s._GrNew, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.GrNew: capacity=%d", s.packageName, capacity)
	}
}

func (s *_BufStat) GrClose() {
	atomic.AddUint64(&s._GrClose, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.GrClose", s.packageName)
	}
	s.PrintStatAfterClose()
}

func (s *_BufStat) GrFillFast(req, resident int, exhausted bool) {
	atomic.AddUint64(&s._GrFillFast, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.GrFillFast: req=%d, resident=%d, exhausted=%v", s.packageName, req, resident, exhausted)
	}
}

func (s *_BufStat) GrFillRead(req, resident, n int, err error) {
	atomic.AddUint64(&s._GrFillRead, 1)
	if err == io.EOF {
		atomic.AddUint64(&s._GrFillEOF, 1)
	} else if err != nil {
		atomic.AddUint64(&s._GrFillErr, 1)
	}
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.GrFillRead: req=%d, resident=%d, n=%d, err=%v", s.packageName, req, resident, n, err)
	}
}

func (s *_BufStat) GrGrow(newCap int) {
	atomic.AddUint64(&s._GrGrow, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.GrGrow: newCap=%d", s.packageName, newCap)
	}
}

func (s *_BufStat) GrByteAt(index, resident int, err error) {
	atomic.AddUint64(&s._GrByteAt, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.GrByteAt: index=%d, resident=%d, err=%v", s.packageName, index, resident, err)
	}
}

func (s *_BufStat) GrSlice(start, end int, err error) {
	atomic.AddUint64(&s._GrSlice, 1)
	if err != nil {
		atomic.AddUint64(&s._GrSliceErr, 1)
	}
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.GrSlice: start=%d, end=%d, err=%v", s.packageName, start, end, err)
	}
}

func (s *_BufStat) GrRead(req, n int, err error) {
	atomic.AddUint64(&s._GrRead, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.GrRead: req=%d, n=%d, err=%v", s.packageName, req, n, err)
	}
}

func (s *_BufStat) GrClear(consumed, resident int) {
	atomic.AddUint64(&s._GrClear, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.GrClear: consumed=%d, resident=%d", s.packageName, consumed, resident)
	}
}
