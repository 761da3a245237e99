package common

import (
	"time"

	"papertrade/pkg/utility/fixed"
)

type DepthLevel struct {
	Price fixed.Point `json:"price"`
	Size  fixed.Point `json:"size"`
}

// Depth is a synthesized order-book ladder. Regenerated wholesale on each
// request, never diffed. Asks ascend away from mid, bids descend.
type Depth struct {
	Symbol    string       `json:"symbol"`
	Mid       fixed.Point  `json:"mid"`
	Bids      []DepthLevel `json:"bids"`
	Asks      []DepthLevel `json:"asks"`
	TimeStamp time.Time    `json:"ts"`
}
