package converter

import (
	"fmt"
	"maps"
	"slices"

	"fxconvert/internal/domain"
)

// CurrencyIndex assigns stable positive identifiers to currency codes in the
// order they are first seen. Not safe for concurrent use.
type CurrencyIndex struct {
	ids    map[string]int
	nextID int
}

func NewCurrencyIndex() *CurrencyIndex {
	return &CurrencyIndex{ids: make(map[string]int), nextID: 1}
}

func (x *CurrencyIndex) GetOrAssignID(code string) int {
	if id, ok := x.ids[code]; ok {
		return id
	}
	id := x.nextID
	x.nextID++
	x.ids[code] = id
	return id
}

func (x *CurrencyIndex) Contains(code string) bool {
	_, ok := x.ids[code]
	return ok
}

func (x *CurrencyIndex) Lookup(code string) (int, error) {
	id, ok := x.ids[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrCurrencyNotFound, code)
	}
	return id, nil
}

func (x *CurrencyIndex) Len() int { return len(x.ids) }

// Codes returns registered codes sorted alphabetically.
func (x *CurrencyIndex) Codes() []string {
	codes := slices.AppendSeq(make([]string, 0, len(x.ids)), maps.Keys(x.ids))
	slices.Sort(codes)
	return codes
}

// codesByID maps identifiers back to codes, used to render conversion paths.
func (x *CurrencyIndex) codesByID() map[int]string {
	m := make(map[int]string, len(x.ids))
	for code, id := range x.ids {
		m[id] = code
	}
	return m
}

// Clear forgets every code. The id counter keeps running so ids are never reused.
func (x *CurrencyIndex) Clear() {
	clear(x.ids)
}
