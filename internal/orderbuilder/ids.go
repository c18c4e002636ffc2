package orderbuilder

import (
	"fmt"
	"math/rand/v2"
)

const idAttempts = 20

// IDGenerator produces order ids of the form PO-NNN that do not collide with
// ids already taken. When the three-digit space keeps colliding it widens the
// suffix.
type IDGenerator struct {
	intN func(n int) int
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{intN: rand.IntN}
}

func (g *IDGenerator) Next(taken func(id string) bool) string {
	for width, space := 3, 1000; ; width, space = width+1, space*10 {
		for i := 0; i < idAttempts; i++ {
			id := fmt.Sprintf("PO-%0*d", width, g.intN(space))
			if taken == nil || !taken(id) {
				return id
			}
		}
	}
}
