package models

import (
	"time"
)

// DrawState is the state of an operator's draw session
type DrawState string

const (
	DrawStateIdle    DrawState = "IDLE"
	DrawStateDrawing DrawState = "DRAWING"
	DrawStateResult  DrawState = "RESULT"
)

// DrawEntry is one coupon number in the eligible pool, carrying its owner's
// details for display.
type DrawEntry struct {
	CouponNumber    string `json:"couponNumber"`
	FamilyName      string `json:"familyName"`
	ParticipantName string `json:"participantName"`
	Category        string `json:"category"`
	Zone            string `json:"zone"`
	Amount          int64  `json:"amount"`
}

// DrawStatus is returned to the client after each draw transition
type DrawStatus struct {
	State     DrawState  `json:"state"`
	Result    *DrawEntry `json:"result,omitempty"`
	PoolSize  int        `json:"poolSize,omitempty"`
	DrawnAt   time.Time  `json:"drawnAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
