package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/models"
	"valuefolio/internal/scoring"
)

// weightProfileService manages named weight sets for the user-weighted
// scoring strategy.
type weightProfileService struct {
	db *gorm.DB
}

// NewWeightProfileService creates a new WeightProfileServicer.
func NewWeightProfileService(db *gorm.DB) WeightProfileServicer {
	return &weightProfileService{db: db}
}

func toModelWeights(p *models.WeightProfile, w scoring.Weights) {
	p.WeightROE = w.ROE
	p.WeightDebtEquity = w.DebtEquity
	p.WeightNetProfitMargin = w.NetProfitMargin
	p.WeightFreeCashFlow = w.FreeCashFlow
	p.WeightEPSGrowth = w.EPSGrowth
	p.WeightOperatingMargin = w.OperatingMargin
	p.WeightCurrentRatio = w.CurrentRatio
	p.WeightShareDilution = w.ShareDilution
	p.WeightROA = w.ROA
	p.WeightMoat = w.Moat
	p.WeightManagement = w.Management
}

// ProfileWeights extracts the scoring weight set from a stored profile.
func ProfileWeights(p *models.WeightProfile) scoring.Weights {
	return scoring.Weights{
		ROE:             p.WeightROE,
		DebtEquity:      p.WeightDebtEquity,
		NetProfitMargin: p.WeightNetProfitMargin,
		FreeCashFlow:    p.WeightFreeCashFlow,
		EPSGrowth:       p.WeightEPSGrowth,
		OperatingMargin: p.WeightOperatingMargin,
		CurrentRatio:    p.WeightCurrentRatio,
		ShareDilution:   p.WeightShareDilution,
		ROA:             p.WeightROA,
		Moat:            p.WeightMoat,
		Management:      p.WeightManagement,
	}
}

func validateWeights(name string, w scoring.Weights) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "profile name is required")
	}
	for _, v := range []float64{
		w.ROE, w.DebtEquity, w.NetProfitMargin, w.FreeCashFlow, w.EPSGrowth,
		w.OperatingMargin, w.CurrentRatio, w.ShareDilution, w.ROA, w.Moat, w.Management,
	} {
		if v < 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "weights must not be negative")
		}
	}
	if w.Sum() <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one weight must be positive")
	}
	return nil
}

// Create stores a new profile. Profile names are unique per user; creating
// with isDefault demotes the current default in the same transaction.
func (s *weightProfileService) Create(userID uint, name string, weights scoring.Weights, isDefault bool) (*models.WeightProfile, error) {
	if err := validateWeights(name, weights); err != nil {
		return nil, err
	}

	profile := &models.WeightProfile{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		IsDefault: isDefault,
	}
	toModelWeights(profile, weights)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.WeightProfile{}).
			Where("user_id = ? AND name = ?", userID, profile.Name).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateProfileName
		}
		if isDefault {
			if err := demoteDefault(tx, userID); err != nil {
				return err
			}
		}
		if err := tx.Create(profile).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// List returns the user's profiles, default first then by name.
func (s *weightProfileService) List(userID uint) ([]models.WeightProfile, error) {
	var profiles []models.WeightProfile
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, name ASC").
		Find(&profiles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profiles, nil
}

// GetByID returns a profile if it belongs to the user.
func (s *weightProfileService) GetByID(userID, profileID uint) (*models.WeightProfile, error) {
	var profile models.WeightProfile
	if err := s.db.Where("id = ? AND user_id = ?", profileID, userID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWeightProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &profile, nil
}

// Update renames a profile and replaces its weight set. Default status is
// changed through SetDefault only.
func (s *weightProfileService) Update(userID, profileID uint, name string, weights scoring.Weights) (*models.WeightProfile, error) {
	if err := validateWeights(name, weights); err != nil {
		return nil, err
	}
	profile, err := s.GetByID(userID, profileID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	var count int64
	if err := s.db.Model(&models.WeightProfile{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, name, profileID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateProfileName
	}

	profile.Name = name
	toModelWeights(profile, weights)
	if err := s.db.Save(profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return profile, nil
}

// Delete removes a profile. Deleting the default leaves the user with no
// stored default; scoring then falls back to the built-in uniform weights.
func (s *weightProfileService) Delete(userID, profileID uint) error {
	profile, err := s.GetByID(userID, profileID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(profile).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SetDefault promotes a profile to be the user's default, demoting any
// previous default in the same transaction.
func (s *weightProfileService) SetDefault(userID, profileID uint) (*models.WeightProfile, error) {
	profile, err := s.GetByID(userID, profileID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := demoteDefault(tx, userID); err != nil {
			return err
		}
		if err := tx.Model(profile).Update("is_default", true).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	profile.IsDefault = true
	return profile, nil
}

func demoteDefault(tx *gorm.DB, userID uint) error {
	if err := tx.Model(&models.WeightProfile{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ActiveWeights returns the weight set scoring should use for the user:
// the stored default profile when one exists, the built-in uniform weights
// otherwise. The second return is the name of the source profile.
func (s *weightProfileService) ActiveWeights(userID uint) (scoring.Weights, string) {
	var profile models.WeightProfile
	err := s.db.Where("user_id = ? AND is_default = ?", userID, true).
		First(&profile).Error
	if err != nil {
		return scoring.BuffettDefaultWeights(), "Buffett Default"
	}
	return ProfileWeights(&profile), profile.Name
}

// Presets exposes the built-in weight profiles.
func (s *weightProfileService) Presets() []scoring.Preset {
	return scoring.Presets()
}
