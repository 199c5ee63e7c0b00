package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewPredictionID returns an ID like "pred_1a2b3c4d".
func NewPredictionID() string {
	return "pred_" + shortHex()
}

// NewRecommendationID returns an ID like "rec_1a2b3c4d".
func NewRecommendationID() string {
	return "rec_" + shortHex()
}

// NewReportID returns an ID like "report_202501_1a2b3c4d".
func NewReportID(year int, month time.Month) string {
	return fmt.Sprintf("report_%04d%02d_%s", year, int(month), shortHex())
}

func shortHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
