package routing

// MaxConnectionCount caps the number of interchanges a candidate route
// may accumulate before exploration gives up on it.
const MaxConnectionCount = 7

// MaxLookaheadHours bounds how far past the query time a departure may
// still be considered when expanding a stop.
const MaxLookaheadHours = 4
