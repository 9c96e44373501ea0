package parser

import (
	"github.com/gnana997/uilens/pkg/util"
)

// getDefaultPoolSize sizes parser pools the same as the indexer's worker
// pool, so workers never block waiting for a parser.
func getDefaultPoolSize() int {
	return util.GetOptimalPoolSize()
}
