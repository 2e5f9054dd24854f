package ruleset

import (
	"bytes"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/nstehr/muster/muster-core/rules"
)

// Record is a persisted compiled rule set: the rule set's own fields plus
// a record id and the time it was written.
type Record struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
	rules.CompiledRuleSet
}

// Key is the cache key for a faction, optional variant and rulebook version.
// Bumping the version yields a new key; old entries are never rewritten.
func Key(factionID, variantID, version string) string {
	if variantID == "" {
		variantID = "base"
	}
	return factionID + ":" + variantID + ":" + version
}

func encodeRecord(r Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeRecord(b []byte) (Record, error) {
	var r Record
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&r); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}
