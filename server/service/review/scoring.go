package review

import (
	"time"

	"github.com/hrygo/kotoba/server/internal/apperrors"
	"github.com/hrygo/kotoba/store"
)

// Outcome is the learner's three-valued self-assessment after reviewing a
// word. It is a closed enumeration; anything else is rejected at the
// boundary by ParseOutcome.
type Outcome string

const (
	// OutcomeSuccess means the word was recalled without help.
	OutcomeSuccess Outcome = "success"
	// OutcomePartial means the word was recalled with hesitation or hints.
	OutcomePartial Outcome = "partial"
	// OutcomeFail means the word was not recalled.
	OutcomeFail Outcome = "fail"
)

// Score deltas per outcome. These constants are load-bearing: historical
// scores are running sums of them, so changing a value breaks comparability
// of every stored score.
const (
	successScoreDelta int32 = 2
	partialScoreDelta int32 = 1
	failScoreDelta    int32 = -2
)

// ParseOutcome validates a raw outcome string from the transport layer.
func ParseOutcome(raw string) (Outcome, error) {
	switch Outcome(raw) {
	case OutcomeSuccess, OutcomePartial, OutcomeFail:
		return Outcome(raw), nil
	default:
		return "", apperrors.InvalidArgumentf("unrecognized review outcome %q", raw)
	}
}

// Valid reports whether o is one of the three recognized outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomePartial, OutcomeFail:
		return true
	}
	return false
}

// ScoreDelta returns the signed score contribution of one outcome.
func ScoreDelta(o Outcome) int32 {
	switch o {
	case OutcomeSuccess:
		return successScoreDelta
	case OutcomePartial:
		return partialScoreDelta
	case OutcomeFail:
		return failScoreDelta
	}
	return 0
}

// Apply computes the stats record after one review event. It is pure: the
// input record is not modified, and apart from the timestamp the result is
// fully determined by (record, outcome). A nil record stands for a word that
// has never been reviewed.
func Apply(record *store.ReviewStats, wordID int32, o Outcome, now time.Time) *store.ReviewStats {
	next := store.ReviewStats{WordID: wordID}
	if record != nil {
		next = *record
	}

	switch o {
	case OutcomeSuccess:
		next.SuccessCount++
	case OutcomePartial:
		next.PartialCount++
	case OutcomeFail:
		next.FailCount++
	}
	next.Score += ScoreDelta(o)

	ts := now.Unix()
	next.LastReviewedTs = &ts
	return &next
}

// newUpsert translates one review event into the store-level increment row.
// The store applies it as a single atomic create-or-increment statement.
func newUpsert(wordID int32, o Outcome, nowTs int64) *store.UpsertReviewStats {
	upsert := &store.UpsertReviewStats{
		WordID:         wordID,
		ScoreDelta:     ScoreDelta(o),
		LastReviewedTs: nowTs,
	}
	switch o {
	case OutcomeSuccess:
		upsert.SuccessInc = 1
	case OutcomePartial:
		upsert.PartialInc = 1
	case OutcomeFail:
		upsert.FailInc = 1
	}
	return upsert
}
