package solver

import "math"

// CSquared is the squared exploration constant, C = √2.
const CSquared = 2.0

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, parentVisits float64) uct {
	if parentVisits == 0 {
		panic("cannot compute UCT: parent has 0 visits")
	}
	return uct{numerator: cSquared * math.Log(parentVisits)}
}

func (u uct) evaluate(scoreSum float64, visits float64) float64 {
	if visits == 0 {
		panic("cannot compute UCT: 0 visits")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return scoreSum/visits + math.Sqrt(u.numerator/visits)
}
