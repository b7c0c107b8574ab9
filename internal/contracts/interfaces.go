package contracts

import "context"

// RegimeDetector classifies the overall market from a benchmark
// ⭐ SSOT: 시장 국면 판별 인터페이스
type RegimeDetector interface {
	Detect(ctx context.Context) MarketRegime
}

// UniverseSource provides per-algorithm candidate sets
// ⭐ SSOT: 유니버스 조회 인터페이스
type UniverseSource interface {
	ForAlgorithm(algorithm string) (*Universe, error)
}

// Publisher writes run artifacts
// ⭐ SSOT: 결과 파일 출력 인터페이스
type Publisher interface {
	PublishPicks(ctx context.Context, artifact *PicksArtifact) error
	PublishBacktest(ctx context.Context, artifact *BacktestArtifact) error
	PublishStress(ctx context.Context, artifact *StressArtifact) error
}
