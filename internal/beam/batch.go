package beam

import (
	"time"

	"github.com/google/uuid"

	"github.com/ornina-dev/beamfield/internal/logging"
)

// Batch ties one generation result to an identity used in logs, API
// payloads, and monitor bookkeeping.
type Batch struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Request   Request   `json:"request"`
	Beams     []Config  `json:"beams"`
}

// GenerateBatch resolves overrides against the viewport and generates a
// tagged batch in one step.
func (g *Generator) GenerateBatch(o Overrides, viewportWidth, viewportHeight float64) Batch {
	req := g.Resolve(o, viewportWidth, viewportHeight)
	b := Batch{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Request:   req,
		Beams:     g.Generate(req),
	}
	g.log.Info("beam batch generated",
		logging.String("batch", b.ID),
		logging.Int("beams", len(b.Beams)),
		logging.Int("requested", req.Count))
	return b
}
