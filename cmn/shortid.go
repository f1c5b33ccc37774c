package cmn

import (
	"strconv"
	"sync"

	"github.com/teris-io/shortid"
)

// uuidABC mirrors the teacher's GenUUID alphabet choice: a shuffled
// alphanumeric-plus-punctuation set with length a power of two so bit
// masking in the generator stays uniform.
const uuidABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

var (
	sidOnce sync.Once
	sid     *shortid.Shortid
)

func initSID() {
	sidOnce.Do(func() {
		s, err := shortid.New(1, uuidABC, 0)
		if err != nil {
			panic(err) // alphabet/worker are compile-time constants; only a programmer error reaches here
		}
		sid = s
	})
}

// GenID generates a short, human-distinguishable ID used for download-id,
// batch-id, and request-id (spec §3, §4.5). Every call path in this module
// routes through GenID rather than raw UUIDs so test output stays readable.
func GenID() string {
	initSID()
	id, err := sid.Generate()
	if err != nil {
		// shortid's generator can run out of entropy bits for a given
		// second under extreme load; fall back rather than panic since ID
		// generation must never take the core down.
		return fallbackID()
	}
	return id
}

func fallbackID() string {
	fallbackMu.Lock()
	defer fallbackMu.Unlock()
	fallbackSeq++
	return "fb-" + strconv.FormatInt(fallbackSeq, 10)
}

var (
	fallbackMu  sync.Mutex
	fallbackSeq int64
)
