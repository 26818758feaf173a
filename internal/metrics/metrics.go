package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProposalsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "lovedice_proposals_created_total", Help: "Total proposals created"},
	)
	ProposalTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lovedice_proposal_transitions_total", Help: "Proposal status transitions by target status"},
		[]string{"status"},
	)
	BetsPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lovedice_bets_placed_total", Help: "Bets placed by visibility"},
		[]string{"visibility"},
	)
	BetsSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lovedice_bets_settled_total", Help: "Bets settled by result"},
		[]string{"result"},
	)
	DaresRolled = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lovedice_dares_rolled_total", Help: "Dare rolls by gender tag"},
		[]string{"gender"},
	)
	DarePoolMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "lovedice_dare_pool_misses_total", Help: "Rolls that hit an empty dare pool"},
	)
	RecapsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "lovedice_recaps_submitted_total", Help: "Recaps submitted by whether the date happened"},
		[]string{"happened"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ProposalsCreated,
			ProposalTransitions,
			BetsPlaced,
			BetsSettled,
			DaresRolled,
			DarePoolMisses,
			RecapsSubmitted,
		)
	})
}

func Visibility(hidden bool) string {
	if hidden {
		return "hidden"
	}
	return "visible"
}

func Result(won bool) string {
	if won {
		return "won"
	}
	return "lost"
}
