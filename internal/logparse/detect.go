// Package logparse turns split log files into attempts.
package logparse

import (
	"strings"

	"github.com/verte-zerg/splitlog/internal/model"
)

// killCountMarkers identify files written by the kill-count logger.
var killCountMarkers = []string{"Failed KC, ", "KC, "}

// Detect chooses the grammar for a file from its name.
func Detect(name string) model.Grammar {
	for _, marker := range killCountMarkers {
		if strings.Contains(name, marker) {
			return model.GrammarKillCount
		}
	}
	return model.GrammarSplits
}

func failedKillCount(name string) bool {
	return strings.Contains(name, killCountMarkers[0])
}
