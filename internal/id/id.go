// Package id generates session identifiers. A session id prefixes the id
// of every trade recorded during that run, so sessions sort by start time.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator hands out monotonic ULIDs.
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

func NewGenerator(now func() time.Time) *Generator {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		now:     now,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
	}
}

// Next returns a new id. Ids from one generator are strictly increasing,
// even within the same millisecond or when the clock stands still.
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now().UTC()), g.entropy)
	if err != nil {
		panic(err)
	}
	return id.String()
}

var std = NewGenerator(time.Now)

// New returns an id from the process-wide generator.
func New() string { return std.Next() }

// Time extracts the creation time encoded in an id.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
