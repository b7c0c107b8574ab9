package contracts

import "errors"

var (
	// ErrInsufficientHistory means fewer bars than the scoring floor
	ErrInsufficientHistory = errors.New("insufficient price history")
	// ErrUnknownAlgorithm means the algorithm name is not registered
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	// ErrUnknownTimeframe means the timeframe is not valid for the algorithm
	ErrUnknownTimeframe = errors.New("unknown timeframe")
	// ErrNoData means the provider returned nothing for the symbol
	ErrNoData = errors.New("no data")
	// ErrNoScore means the scorer produced no actionable score
	ErrNoScore = errors.New("no score produced")
	// ErrUnknownUniverse means the universe list name is not defined
	ErrUnknownUniverse = errors.New("unknown universe")
)
