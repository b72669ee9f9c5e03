package link

import "sync"

// patternCache holds parsed patterns by raw text. The number of distinct
// texts is bounded by the registered declarations, so the cache grows to a
// fixed size and stays there. Only successful parses are stored.
var patternCache sync.Map // map[string]*Pattern
