package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/logger"
	"valuefolio/internal/marketdata"
	"valuefolio/internal/models"
	"valuefolio/internal/scoring"
)

// analysisService runs fundamentals scoring over held symbols and persists
// every run as a dated snapshot.
type analysisService struct {
	db       *gorm.DB
	holdings HoldingServicer
	profiles WeightProfileServicer
	provider marketdata.Provider
}

// NewAnalysisService creates a new AnalysisServicer.
func NewAnalysisService(db *gorm.DB, holdings HoldingServicer, profiles WeightProfileServicer, provider marketdata.Provider) AnalysisServicer {
	return &analysisService{db: db, holdings: holdings, profiles: profiles, provider: provider}
}

// resolveStrategy maps a strategy name to its implementation. Empty defaults
// to the fixed-weight variant.
func resolveStrategy(name string) (scoring.Strategy, error) {
	switch name {
	case "", "buffett":
		return scoring.BuffettStrategy{}, nil
	case "weighted":
		return scoring.WeightedStrategy{}, nil
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown scoring strategy: "+name)
	}
}

// RunForSymbol scores one held symbol and persists the snapshot. The symbol
// must belong to the user's holdings; scoring arbitrary symbols is not
// supported because qualitative inputs live on the holding's context.
func (s *analysisService) RunForSymbol(ctx context.Context, userID uint, symbol, strategy string) (*models.AnalysisSnapshot, error) {
	strat, err := resolveStrategy(strategy)
	if err != nil {
		return nil, err
	}

	symbol = strings.ToUpper(symbol)
	holding, err := s.findHolding(userID, symbol)
	if err != nil {
		return nil, err
	}

	weights, _ := s.profiles.ActiveWeights(userID)
	snapshot, err := s.runOne(ctx, userID, holding, strat, weights)
	if err != nil {
		return nil, err
	}
	if err := s.db.Create(snapshot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshot, nil
}

// RunAll scores every distinct held symbol. Failures are collected per
// symbol and never discard the snapshots that succeeded.
func (s *analysisService) RunAll(ctx context.Context, userID uint, strategy string) (*BatchAnalysisResult, error) {
	strat, err := resolveStrategy(strategy)
	if err != nil {
		return nil, err
	}

	holdings, err := s.holdings.GetUserHoldings(userID)
	if err != nil {
		return nil, err
	}

	// One representative lot per symbol, first-seen order.
	seen := make(map[string]bool, len(holdings))
	distinct := make([]*models.Holding, 0, len(holdings))
	for i := range holdings {
		h := &holdings[i]
		if seen[h.Symbol] {
			continue
		}
		seen[h.Symbol] = true
		distinct = append(distinct, h)
	}

	weights, _ := s.profiles.ActiveWeights(userID)

	result := &BatchAnalysisResult{
		Results:  make([]models.AnalysisSnapshot, 0, len(distinct)),
		Failures: make([]SymbolFailure, 0),
	}
	for _, h := range distinct {
		snapshot, err := s.runOne(ctx, userID, h, strat, weights)
		if err != nil {
			result.Failures = append(result.Failures, toSymbolFailure(h.Symbol, err))
			continue
		}
		if err := s.db.Create(snapshot).Error; err != nil {
			logger.Get().Errorw("failed to persist analysis snapshot",
				"symbol", h.Symbol, "error", err)
			result.Failures = append(result.Failures, toSymbolFailure(h.Symbol, apperrors.Wrap(apperrors.ErrInternalServer, err)))
			continue
		}
		result.Results = append(result.Results, *snapshot)
	}
	return result, nil
}

// runOne fetches fundamentals for one symbol, evaluates the strategy, and
// builds the unsaved snapshot record.
func (s *analysisService) runOne(ctx context.Context, userID uint, h *models.Holding, strat scoring.Strategy, weights scoring.Weights) (*models.AnalysisSnapshot, error) {
	ratios, err := s.provider.GetRatios(ctx, h.QuoteSymbol())
	if err != nil {
		return nil, err
	}

	outcome := strat.Evaluate(*ratios, weights)

	snapshot := &models.AnalysisSnapshot{
		UserID:         userID,
		Symbol:         h.Symbol,
		AnalysisDate:   time.Now().UTC(),
		Strategy:       strat.Name(),
		TotalScore:     outcome.TotalScore,
		Recommendation: models.Recommendation(outcome.Recommendation),

		ROEScore:             outcome.SubScores.ROE,
		DebtEquityScore:      outcome.SubScores.DebtEquity,
		NetProfitMarginScore: outcome.SubScores.NetProfitMargin,
		FreeCashFlowScore:    outcome.SubScores.FreeCashFlow,
		EPSGrowthScore:       outcome.SubScores.EPSGrowth,
		OperatingMarginScore: outcome.SubScores.OperatingMargin,
		CurrentRatioScore:    outcome.SubScores.CurrentRatio,
		ShareDilutionScore:   outcome.SubScores.ShareDilution,
		ROAScore:             outcome.SubScores.ROA,
		MoatScore:            outcome.SubScores.Moat,
		ManagementScore:      outcome.SubScores.Management,

		ROEPercentage:   ratios.ROE,
		DebtEquityRatio: ratios.DebtEquity,
		NetProfitMargin: ratios.NetProfitMargin,
		FreeCashFlow:    ratios.FreeCashFlow,
		Revenue:         ratios.Revenue,
		EPSGrowth:       ratios.EPSGrowth,
		OperatingMargin: ratios.OperatingMargin,
		CurrentRatio:    ratios.CurrentRatio,
		ROAPercentage:   ratios.ROA,
		CurrentPrice:    h.CurrentPrice,
	}
	return snapshot, nil
}

// LatestForUser returns the most recent snapshot per symbol the user has
// analyzed, ordered by symbol.
func (s *analysisService) LatestForUser(userID uint) ([]models.AnalysisSnapshot, error) {
	var snapshots []models.AnalysisSnapshot
	subquery := s.db.Model(&models.AnalysisSnapshot{}).
		Select("symbol, MAX(analysis_date) AS max_date").
		Where("user_id = ?", userID).
		Group("symbol")
	if err := s.db.
		Joins("JOIN (?) latest ON analysis_snapshots.symbol = latest.symbol AND analysis_snapshots.analysis_date = latest.max_date", subquery).
		Where("analysis_snapshots.user_id = ?", userID).
		Order("analysis_snapshots.symbol ASC").
		Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshots, nil
}

// History returns every snapshot for one symbol, newest first.
func (s *analysisService) History(userID uint, symbol string) ([]models.AnalysisSnapshot, error) {
	symbol = strings.ToUpper(symbol)
	var snapshots []models.AnalysisSnapshot
	if err := s.db.
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Order("analysis_date DESC").
		Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(snapshots) == 0 {
		return nil, apperrors.ErrAnalysisNotFound
	}
	return snapshots, nil
}

// findHolding returns any lot of the symbol the user owns.
func (s *analysisService) findHolding(userID uint, symbol string) (*models.Holding, error) {
	var holding models.Holding
	if err := s.db.Where("user_id = ? AND symbol = ?", userID, symbol).
		First(&holding).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &holding, nil
}

func toSymbolFailure(symbol string, err error) SymbolFailure {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return SymbolFailure{Symbol: symbol, Code: appErr.Code, Reason: appErr.Message}
	}
	return SymbolFailure{Symbol: symbol, Code: apperrors.ErrInternalServer.Code, Reason: err.Error()}
}
