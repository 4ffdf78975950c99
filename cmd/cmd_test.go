package cmd

import (
	"regexp"
	"strings"
	"testing"

	"github.com/huangsam/bugcensus/core/agg"
	"github.com/stretchr/testify/assert"
)

func TestAggregateHelp_MatchesCatalogue(t *testing.T) {
	long := strings.ToLower(aggregateCmd.Long)
	assert.NotContains(t, long, "share")
	assert.NotContains(t, long, "percent")

	names := agg.ViewNames()
	for _, m := range regexp.MustCompile(`--views (\S+)`).FindAllStringSubmatch(aggregateCmd.Long, -1) {
		for _, name := range strings.Split(m[1], ",") {
			assert.Contains(t, names, name)
		}
	}
}
