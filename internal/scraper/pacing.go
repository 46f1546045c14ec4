package scraper

import (
	"math/rand"
	"time"
)

// defaultUserAgents is the identity rotation pool. Rotating the User-Agent
// per attempt reduces fingerprinting by the source site.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
}

// Pacer supplies the delay applied before each request and the request
// identity to present. It exists as an interface so tests can substitute
// a deterministic zero-delay, fixed-identity policy.
type Pacer interface {
	Delay() time.Duration
	UserAgent() string
}

// randomPacer sleeps a uniformly random duration between min and max and
// picks a random User-Agent from the rotation pool on every request.
type randomPacer struct {
	min    time.Duration
	max    time.Duration
	agents []string
	rnd    *rand.Rand
}

// NewRandomPacer creates the production pacing policy. Delay bounds are
// given in seconds to match the job configuration.
func NewRandomPacer(minSeconds, maxSeconds float64) Pacer {
	return &randomPacer{
		min:    time.Duration(minSeconds * float64(time.Second)),
		max:    time.Duration(maxSeconds * float64(time.Second)),
		agents: defaultUserAgents,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *randomPacer) Delay() time.Duration {
	if p.max <= p.min {
		return p.min
	}
	return p.min + time.Duration(p.rnd.Int63n(int64(p.max-p.min)))
}

func (p *randomPacer) UserAgent() string {
	return p.agents[p.rnd.Intn(len(p.agents))]
}

// fixedPacer is a deterministic policy used in tests: no delay, always
// the same identity.
type fixedPacer struct {
	agent string
}

// NewFixedPacer returns a zero-delay policy presenting a single identity.
func NewFixedPacer(agent string) Pacer {
	return &fixedPacer{agent: agent}
}

func (p *fixedPacer) Delay() time.Duration { return 0 }

func (p *fixedPacer) UserAgent() string { return p.agent }
