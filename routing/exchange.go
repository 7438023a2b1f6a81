package routing

import (
	"time"

	"github.com/hrdf/timetable/calendar"
	"github.com/hrdf/timetable/model"
	"github.com/hrdf/timetable/storage"
)

// DefaultExchangeMinutes is used when no table and no stop-level
// interchange time applies at all -- the last resort below the
// sentinel stop id 9999999 lookup.
const DefaultExchangeMinutes = 2

// resolveExchangeTime implements the exchange-time priority chain --
// Journey > Line > Administration > Stop > Default -- returning
// the minutes a passenger needs to change from lastJourneyID (nil if
// the previous leg was a walk) to candidateJourneyID at stopID on
// date.
func resolveExchangeTime(ds *storage.DataStore, cal *calendar.Engine, stopID int, date time.Time, lastJourneyID *int, candidateJourneyID int) int {
	candidate, err := ds.Journeys.Find(candidateJourneyID)
	if err != nil {
		return DefaultExchangeMinutes
	}

	if lastJourneyID != nil {
		if isThroughService(ds, cal, stopID, date, *lastJourneyID, candidateJourneyID) {
			return 0
		}
		if m, ok := resolveJourneyExchange(ds, cal, stopID, date, *lastJourneyID, candidateJourneyID); ok {
			return m
		}

		last, err := ds.Journeys.Find(*lastJourneyID)
		if err == nil {
			if m, ok := resolveLineExchange(ds, stopID, last, candidate); ok {
				return m
			}
			if m, ok := resolveAdministrationExchange(ds, stopID, last.Administration, candidate.Administration); ok {
				return m
			}
		}
	}

	return resolveStopExchange(ds, stopID, candidate)
}

// isThroughService reports whether the two journeys are declared as a
// through service at stopID on date: the passenger stays seated, so no
// exchange time applies at all.
func isThroughService(ds *storage.DataStore, cal *calendar.Engine, stopID int, date time.Time, lastJourneyID, candidateJourneyID int) bool {
	for _, ts := range ds.ThroughServices {
		if ts.Journey1ID != lastJourneyID || ts.Journey2ID != candidateJourneyID || ts.StopID != stopID {
			continue
		}
		if ts.BitFieldID != nil {
			bf, err := ds.BitFields.Find(*ts.BitFieldID)
			if err != nil || !cal.OperatesOn(bf, date) {
				continue
			}
		}
		return true
	}
	return false
}

func resolveJourneyExchange(ds *storage.DataStore, cal *calendar.Engine, stopID int, date time.Time, lastJourneyID, candidateJourneyID int) (int, bool) {
	for _, e := range ds.ExchangeTimesJourney {
		if e.Journey1ID != lastJourneyID || e.Journey2ID != candidateJourneyID {
			continue
		}
		if e.StopID != nil && *e.StopID != stopID {
			continue
		}
		if e.BitFieldID != nil {
			bf, err := ds.BitFields.Find(*e.BitFieldID)
			if err != nil || !cal.OperatesOn(bf, date) {
				continue
			}
		}
		return e.Minutes, true
	}
	return 0, false
}

func resolveLineExchange(ds *storage.DataStore, stopID int, last, candidate *model.Journey) (int, bool) {
	bestScore := -1
	bestMinutes := 0
	matched := false

	lastLine := last.LineIDAt(stopID)
	candidateLine := candidate.LineIDAt(stopID)
	lastType := last.TransportTypeIDAt(stopID)
	candidateType := candidate.TransportTypeIDAt(stopID)
	lastDirection := transferLegDirection(last, stopID, true)
	candidateDirection := transferLegDirection(candidate, stopID, false)

	for _, e := range ds.ExchangeTimesLine {
		if e.StopID != nil && *e.StopID != stopID {
			continue
		}
		score := 0
		ok := true
		ok = ok && wildcardMatch(e.Administration1, last.Administration, &score)
		ok = ok && wildcardMatch(e.Administration2, candidate.Administration, &score)
		ok = ok && wildcardMatch(e.TransportType1, lastType, &score)
		ok = ok && wildcardMatch(e.TransportType2, candidateType, &score)
		ok = ok && wildcardMatch(e.Line1, lastLine, &score)
		ok = ok && wildcardMatch(e.Line2, candidateLine, &score)
		ok = ok && directionMatch(e.Direction1, lastDirection, &score)
		ok = ok && directionMatch(e.Direction2, candidateDirection, &score)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestMinutes = e.Minutes
			matched = true
		}
	}
	return bestMinutes, matched
}

// wildcardMatch reports whether pattern ("*" or "" matches anything)
// accepts value, bumping score for an exact (non-wildcard) match so
// resolveLineExchange can prefer the most specific rule: a specific
// match beats a wildcard match.
func wildcardMatch(pattern, value string, score *int) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	if pattern == value {
		*score++
		return true
	}
	return false
}

// directionMatch is wildcardMatch for the incoming/outgoing
// constraint: ExchangeAny accepts either leg, a specific constraint
// must equal the leg's actual direction and scores like an exact
// string match.
func directionMatch(pattern, actual model.ExchangeDirection, score *int) bool {
	if pattern == model.ExchangeAny {
		return true
	}
	if pattern == actual {
		*score++
		return true
	}
	return false
}

// transferLegDirection classifies one side of a transfer at stopID:
// the alighting journey is the incoming leg and the boarding journey
// the outgoing one, except at the journey's own origin or terminus,
// where only one direction is possible.
func transferLegDirection(journey *model.Journey, stopID int, alighting bool) model.ExchangeDirection {
	if journey.FirstStopID() == stopID {
		return model.ExchangeOutgoing
	}
	if journey.IsLastStop(stopID) {
		return model.ExchangeIncoming
	}
	if alighting {
		return model.ExchangeIncoming
	}
	return model.ExchangeOutgoing
}

func resolveAdministrationExchange(ds *storage.DataStore, stopID int, lastAdmin, candidateAdmin string) (int, bool) {
	fallback := -1
	for i, e := range ds.ExchangeTimesAdministration {
		if e.Administration1 != lastAdmin || e.Administration2 != candidateAdmin {
			continue
		}
		if e.StopID != nil && *e.StopID == stopID {
			return e.Minutes, true
		}
		if e.StopID == nil {
			fallback = i
		}
	}
	if fallback >= 0 {
		return ds.ExchangeTimesAdministration[fallback].Minutes, true
	}
	return 0, false
}

// intercityProductClass is the ZUGART product-class value treated as
// "intercity" when splitting a stop's own InterchangeTime pair,
// matching Swiss HRDF's convention that class 1 covers long-distance
// services.
const intercityProductClass = 1

func resolveStopExchange(ds *storage.DataStore, stopID int, candidate *model.Journey) int {
	isIntercity := false
	if code := candidate.TransportTypeIDAt(stopID); code != "" {
		for _, tt := range ds.TransportTypes.Values() {
			if tt.ID == code {
				isIntercity = tt.ProductClass == intercityProductClass
				break
			}
		}
	}

	if stop, err := ds.Stops.Find(stopID); err == nil {
		if isIntercity && stop.InterchangeTime.InterCity > 0 {
			return stop.InterchangeTime.InterCity
		}
		if !isIntercity && stop.InterchangeTime.Other > 0 {
			return stop.InterchangeTime.Other
		}
	}

	if stop, err := ds.Stops.Find(model.DefaultStopID); err == nil {
		if isIntercity {
			return stop.InterchangeTime.InterCity
		}
		return stop.InterchangeTime.Other
	}

	return DefaultExchangeMinutes
}
