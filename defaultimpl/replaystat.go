package impl

import (
	"fmt"
	interf "github.com/SchnorcherSepp/streambuf/interfaces"
	"io"
	"log"
	"sort"
	"strings"
	"sync/atomic"
)

// _ReplayStat collects counters for the replay reader: cache traffic on one
// side, pass handling (open, pick, skip, close) on the other. The map keys of
// Stat() mirror the method names.
type _ReplayStat struct {
	debugLvl    uint8  // enable debug logging [0, 1, 2] (level: high=2)
	packageName string // text for debug logging

	_CacheHit      uint64
	_CacheMis      uint64
	_CacheSet      uint64
	_RAtNew        uint64
	_RAtClosing    uint64
	_RAtClose      uint64
	_RAtReq        uint64
	_RAtRetErr     uint64
	_RAtSectorSkip uint64
	_RAtSectorRet  uint64
	_RAtBest       uint64
	_RAtOpen       uint64
	_RAtOpenErr    uint64
}

func (s *_ReplayStat) Stat() map[string]uint64 {
	ret := map[string]uint64{
		"CacheHit":      atomic.LoadUint64(&s._CacheHit),
		"CacheMis":      atomic.LoadUint64(&s._CacheMis),
		"CacheSet":      atomic.LoadUint64(&s._CacheSet),
		"RAtNew":        atomic.LoadUint64(&s._RAtNew),
		"RAtClosing":    atomic.LoadUint64(&s._RAtClosing),
		"RAtClose":      atomic.LoadUint64(&s._RAtClose),
		"RAtReq":        atomic.LoadUint64(&s._RAtReq),
		"RAtRetErr":     atomic.LoadUint64(&s._RAtRetErr),
		"RAtSectorSkip": atomic.LoadUint64(&s._RAtSectorSkip),
		"RAtSectorRet":  atomic.LoadUint64(&s._RAtSectorRet),
		"RAtBest":       atomic.LoadUint64(&s._RAtBest),
		"RAtOpen":       atomic.LoadUint64(&s._RAtOpen),
		"RAtOpenErr":    atomic.LoadUint64(&s._RAtOpenErr),
	}

	// ignore zero values
	for k, v := range ret {
		if v == 0 {
			delete(ret, k)
		}
	}
	return ret
}

func (s *_ReplayStat) PrintStatAfterClose(sourceId string) {
	// final call in .Close()
	if s.debugLvl < DebugLow { // Debug level: low=1
		return
	}

	var parts []string
	for k, v := range s.Stat() {
		parts = append(parts, fmt.Sprintf("%s=%d", k, v))
	}
	sort.Strings(parts) // stable log lines

	log.Printf("DEBUG: %s/stat.PrintStatAfterClose: source=%s: %s", s.packageName, sourceId, strings.Join(parts, ", "))
}

// ------------------------------------------------------------------------------------------------------------------ //

func (s *_ReplayStat) CacheGet(sourceId string, sector uint64, reqLen, retLen int, err error) {
	if err == nil {
		atomic.AddUint64(&s._CacheHit, 1)
	} else {
		atomic.AddUint64(&s._CacheMis, 1)
	}
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.CacheGet: source=%s, sector=%d, req=%d/%d, ret=%d/%d, err=%v", s.packageName, sourceId, sector, reqLen, interf.SectorSize, retLen, interf.SectorSize, err)
	}
}

func (s *_ReplayStat) CacheSet(sourceId string, sector uint64, data int, err error) {
	atomic.AddUint64(&s._CacheSet, 1)
	if s.debugLvl >= DebugHigh || err != nil {
		pre := "DEBUG" // Debug level: high=2
		if err != nil {
			pre = "ERROR" // Debug level: error=0
		}
		log.Printf("%s: %s/stat.CacheSet: source=%s, sector=%d, data=%d/%d, expire=%d, err=%v", pre, s.packageName, sourceId, sector, data, interf.SectorSize, interf.CacheExpireSeconds, err)
	}
}

func (s *_ReplayStat) RAtNew(sourceId string, cache bool) {
	atomic.AddUint64(&s._RAtNew, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.RAtNew: source=%s, cache=%v", s.packageName, sourceId, cache)
	}
}

func (s *_ReplayStat) RAtClosing(sourceId string) {
	atomic.AddUint64(&s._RAtClosing, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.RAtClosing: source=%s", s.packageName, sourceId)
	}
}

func (s *_ReplayStat) RAtClose(sourceId string, slot int, active bool) {
	atomic.AddUint64(&s._RAtClose, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.RAtClose: source=%s, slot=%d, active=%v", s.packageName, sourceId, slot, active)
	}
}

func (s *_ReplayStat) RAtReq(sourceId string, off int64, req int, sector uint64, innerOff int) {
	atomic.AddUint64(&s._RAtReq, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.RAtReq: source=%s, off=%d, req=%d, startSector=%d, innerOff=%d", s.packageName, sourceId, off, req, sector, innerOff)
	}
}

func (s *_ReplayStat) RAtRet(sourceId string, off int64, req int, ret int, err error) {
	if err != nil && err != io.EOF {
		atomic.AddUint64(&s._RAtRetErr, 1)
	}
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.RAtRet: source=%s, off=%d, req=%d, ret=%d, err=%v", s.packageName, sourceId, off, req, ret, err)
	}
}

func (s *_ReplayStat) RAtSectorSkip(sourceId string, skip uint64, n int, err error) {
	atomic.AddUint64(&s._RAtSectorSkip, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.RAtSectorSkip: source=%s, skipSector=%d, n=%d/%d, err=%v", s.packageName, sourceId, skip, n, interf.SectorSize, err)
	}
}

func (s *_ReplayStat) RAtSectorRet(sourceId string, sector uint64, n int, err error) {
	atomic.AddUint64(&s._RAtSectorRet, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.RAtSectorRet: source=%s, sector=%d, n=%d/%d, err=%v", s.packageName, sourceId, sector, n, interf.SectorSize, err)
	}
}

func (s *_ReplayStat) RAtBest(sourceId string, index int, current uint64) {
	if index >= 0 {
		atomic.AddUint64(&s._RAtBest, 1)
	}
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.RAtBest: source=%s, pass=%d, sector=%d", s.packageName, sourceId, index, current)
	}
}

func (s *_ReplayStat) RAtOpen(sourceId string, err error) {
	atomic.AddUint64(&s._RAtOpen, 1)
	if err != nil && err != io.EOF {
		atomic.AddUint64(&s._RAtOpenErr, 1)
	}
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.RAtOpen: source=%s, err=%v", s.packageName, sourceId, err)
	}
}
