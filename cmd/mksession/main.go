// mksession writes a synthetic recorded session: randomly placed pairs of
// facing walls, some touching cleanly and some offset so their half-planes
// overlap or leave a gap. Useful for exercising seamd and seamscan without a
// capture from the real game.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"seamscan.dev/internal/state"
)

func main() {
	var (
		out   = flag.String("out", "session.jsonl.zst", "output path (.jsonl or .jsonl.zst)")
		ticks = flag.Int("ticks", 10, "snapshots to write")
		pairs = flag.Int("pairs", 5, "wall pairs per snapshot")
		seed  = flag.Int64("seed", 1, "rng seed")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[mksession] ", log.LstdFlags|log.Lmicroseconds)

	w, err := state.CreateSession(*out)
	if err != nil {
		logger.Fatalf("create session: %v", err)
	}

	if *pairs < 1 || *pairs > 15 {
		logger.Fatalf("-pairs must be 1..15 to stay inside 16-bit coordinates")
	}

	rng := rand.New(rand.NewSource(*seed))
	surfaces := wallPairs(rng, *pairs)

	for tick := 0; tick < *ticks; tick++ {
		st := &state.GameState{Tick: uint64(tick + 1), Surfaces: surfaces}
		if err := w.Write(st); err != nil {
			logger.Fatalf("write snapshot: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		logger.Fatalf("close session: %v", err)
	}
	logger.Printf("wrote %d snapshots with %d surfaces to %s", *ticks, len(surfaces), *out)
}

// wallPairs builds n pairs of facing walls in the z=0 plane, spread far enough
// apart that pairs never interact with each other. Each pair's second wall is
// shifted by a small random dy: negative leaves the walls apart, positive
// makes their half-planes overlap.
func wallPairs(rng *rand.Rand, n int) []state.Surface {
	var surfaces []state.Surface
	for i := 0; i < n; i++ {
		x0 := int16(1000 + i*2000)
		x1 := x0 + int16(rng.Intn(50)+10)
		dy := int16(rng.Intn(11) - 5)

		surfaces = append(surfaces,
			state.Surface{
				Vertices: [3][3]int16{{x0, 0, 0}, {x1, 0, 0}, {x1, 100, 0}},
				Normal:   [3]float32{0, 0, -1},
			},
			state.Surface{
				Vertices: [3][3]int16{{x1, dy, 0}, {x0, dy, 0}, {x0, dy - 100, 0}},
				Normal:   [3]float32{0, 0, 1},
			},
		)
	}
	return surfaces
}
