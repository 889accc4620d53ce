package parse

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/joseph-ayodele/bl-generator/constants"
	"github.com/joseph-ayodele/bl-generator/internal/entity"
)

// Policy decides whether synthetic values replace existing ones.
type Policy int

const (
	// PolicyOverride always replaces; used when a record comes from extraction.
	PolicyOverride Policy = iota
	// PolicyFillMissing only sets empty fields; used for records read back from metadata.
	PolicyFillMissing
)

// runtimeSource draws from the runtime's concurrency-safe generator.
type runtimeSource struct{}

func (runtimeSource) Uint64() uint64 { return rand.Uint64() }

// Randomizer produces the synthetic shipping values a B/L needs but an
// invoice never carries: vessel/voyage, container, seal and delivery agent.
type Randomizer struct {
	mu      sync.Mutex
	rng     *rand.Rand
	vessels []string
	agents  []string
}

// NewRandomizer draws from src; a nil src uses the runtime generator.
func NewRandomizer(src rand.Source) *Randomizer {
	if src == nil {
		src = runtimeSource{}
	}
	return &Randomizer{
		rng:     rand.New(src),
		vessels: constants.Vessels,
		agents:  constants.DeliveryAgents,
	}
}

// Apply sets the synthetic fields on rec according to p.
func (r *Randomizer) Apply(rec *entity.InvoiceRecord, p Policy) {
	set := func(field *string, gen func() string) {
		if p == PolicyFillMissing && strings.TrimSpace(*field) != "" {
			return
		}
		*field = gen()
	}
	set(&rec.VesselVoyage, r.VesselVoyage)
	set(&rec.ContainerNo, r.ContainerNo)
	set(&rec.SealNo, r.SealNo)
	set(&rec.DeliveryAgent, r.DeliveryAgent)
}

// VesselVoyage returns "<vessel> V.<3 digits><A-E>".
func (r *Randomizer) VesselVoyage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	vessel := r.vessels[r.rng.IntN(len(r.vessels))]
	suffix := constants.VoyageSuffixes[r.rng.IntN(len(constants.VoyageSuffixes))]
	return fmt.Sprintf("%s V.%03d%c", vessel, r.rng.IntN(1000), suffix)
}

// ContainerNo returns four capital letters followed by seven digits.
func (r *Randomizer) ContainerNo() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	for range 4 {
		b.WriteByte(byte('A' + r.rng.IntN(26)))
	}
	fmt.Fprintf(&b, "%07d", r.rng.IntN(10_000_000))
	return b.String()
}

// SealNo returns six digits.
func (r *Randomizer) SealNo() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("%06d", r.rng.IntN(1_000_000))
}

// DeliveryAgent picks one agent from the pool.
func (r *Randomizer) DeliveryAgent() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.agents[r.rng.IntN(len(r.agents))]
}
